package main

import (
	"fmt"
	"os"

	"github.com/fractal-lang/fractal/core/printer"
	"github.com/fractal-lang/fractal/runtime/generate"
	"github.com/spf13/cobra"
)

func newDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Parse and print the AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			program, err := generate.Parse(string(src))
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, printer.Print(program))
			return nil
		},
	}
	return cmd
}
