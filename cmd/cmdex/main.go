// cmdex generates and explains terminal commands using a locally hosted
// language model. Run with no arguments for an interactive session, or use
// the generate/explain subcommands for one-shot calls.
package main

import (
	"os"

	"github.com/Expert21/cmdex/repl"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		repl.PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
