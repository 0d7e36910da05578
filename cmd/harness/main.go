// Command harness drives a pipeline canvas through its API panel, either
// interactively in the terminal or from a YAML event script.
package main

import (
	"os"

	"github.com/dshills/canvasharness/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
