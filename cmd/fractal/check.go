package main

import (
	"fmt"
	"os"

	"github.com/fractal-lang/fractal/runtime/generate"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and validate without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := shouldUseColor(noColor)
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			_, diags, err := generate.Check(string(src))
			if err != nil {
				return err
			}
			printDiagnostics(os.Stderr, diags, useColor)
			if !diags.Succeeded() {
				return fmt.Errorf("%d error(s)", len(diags.Errors()))
			}
			fmt.Fprintln(os.Stdout, "ok")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	return cmd
}
