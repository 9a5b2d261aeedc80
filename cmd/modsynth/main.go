// Command modsynth renders, validates and inspects modular synth patches.
//
// Usage:
//
//	modsynth [--format text|json] [-v] <command> <patch>
//
// Commands:
//
//	render    apply the patch, render it offline and print output levels
//	validate  check the document and resolve its edges on a scratch graph
//	inspect   list units with their capabilities and how each edge is wired
//
// Examples:
//
//	modsynth validate patch.yaml
//	modsynth render --seconds 4 --sample-rate 44100 patch.yaml
//	modsynth --format json inspect patch.yaml
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/algo-modular/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own failures; anything else came from flag
		// parsing or argument checks.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(cli.GetExitCode(err))
	}
}
