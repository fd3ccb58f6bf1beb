package main

import (
	"fmt"
	"os"

	"github.com/fractal-lang/fractal/core/fingerprint"
	"github.com/fractal-lang/fractal/runtime/generate"
	"github.com/spf13/cobra"
)

func newPlanCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Parse, validate, and print a content-addressed fingerprint without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := shouldUseColor(noColor)
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			program, diags, err := generate.Check(string(src))
			if err != nil {
				return err
			}
			printDiagnostics(os.Stderr, diags, useColor)
			if !diags.Succeeded() {
				return fmt.Errorf("%d error(s); no plan", len(diags.Errors()))
			}

			fp, err := fingerprint.Of(program)
			if err != nil {
				return fmt.Errorf("fingerprinting: %w", err)
			}
			fmt.Fprintln(os.Stdout, fp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	return cmd
}
