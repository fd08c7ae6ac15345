// Command dataapi issues a single request against a document-database
// HTTP gateway and prints the JSON response.
//
//	DATAAPI_API_KEY=... dataapi send -config config.yml -endpoint /find \
//		-query '{"collection":"books","limit":5}'
package main

import (
	"bufio"
	"os"

	"github.com/mitchellh/cli"

	"github.com/kbukum/dataapi/version"
)

const cliName = "dataapi"

func main() {
	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
	os.Exit(run(os.Args[1:], ui))
}

// run executes the CLI and returns the exit code.
func run(args []string, ui cli.Ui) int {
	if len(args) == 1 && (args[0] == "-version" || args[0] == "-v") {
		args = []string{"version"}
	}

	c := &cli.CLI{
		Name:     cliName,
		Args:     args,
		Version:  version.Get().Short(),
		Commands: commands(ui),
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return exitCode
}

func commands(ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"send": func() (cli.Command, error) {
			return &SendCommand{UI: ui}, nil
		},
		"endpoints": func() (cli.Command, error) {
			return &EndpointsCommand{UI: ui}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{UI: ui}, nil
		},
	}
}
