package main

import (
	"fmt"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/kbukum/dataapi/dataapi"
	"github.com/kbukum/dataapi/version"
)

// VersionCommand prints build information.
type VersionCommand struct {
	UI cli.Ui
}

func (c *VersionCommand) Synopsis() string { return "Print the version" }

func (c *VersionCommand) Help() string {
	return "Usage: dataapi version\n\n  Prints the version, commit and build date."
}

func (c *VersionCommand) Run(_ []string) int {
	info := version.Get()
	out := fmt.Sprintf("%s %s", cliName, info)
	if !info.IsRelease() {
		out += " (development build)"
	}
	c.UI.Output(out)
	return 0
}

// EndpointsCommand lists the supported endpoints and their result fields.
type EndpointsCommand struct {
	UI cli.Ui
}

func (c *EndpointsCommand) Synopsis() string { return "List supported endpoints" }

func (c *EndpointsCommand) Help() string {
	return "Usage: dataapi endpoints\n\n  Lists every endpoint with the fields its result carries."
}

func (c *EndpointsCommand) Run(_ []string) int {
	for _, e := range dataapi.Endpoints() {
		c.UI.Output(fmt.Sprintf("%-12s %s", e, strings.Join(dataapi.ResultFields(e), ", ")))
	}
	return 0
}
