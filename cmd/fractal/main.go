// Command fractal parses, validates, and renders fractal DSL programs
// to BMP files. It is the CLI front door: every subcommand shares the
// parse/validate/render pipeline in runtime/generate; this file only
// owns argument parsing, diagnostic formatting, and file I/O.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorize("Error:", colorRed, shouldUseColor(false)), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fractal",
		Short:         "Compile and render 2D fractal image programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRenderCommand(),
		newCheckCommand(),
		newDumpCommand(),
		newPlanCommand(),
	)
	return root
}
