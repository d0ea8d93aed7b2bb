// Command ampcalc is the electrical sizing calculator CLI.
package main

import (
	"os"

	"github.com/ampcalc/ampcalc/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
