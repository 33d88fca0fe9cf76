// Command eventview is a terminal client for the monitoring backend's event log.
package main

import (
	"fmt"
	"os"

	"github.com/astra-monitor/eventview/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // Set by the linker.

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string) int {
	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if code, ok := cli.ExitCode(err); ok {
			return code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
