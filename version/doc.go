// Package version reports the build version of the dataapi binaries and
// the User-Agent sent by the client.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/dataapi/version.Version=1.2.0 \
//		-X github.com/kbukum/dataapi/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Missing values fall back to the module build info recorded by the Go
// toolchain.
package version
