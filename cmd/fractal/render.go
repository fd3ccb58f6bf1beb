package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fractal-lang/fractal/runtime/context"
	"github.com/fractal-lang/fractal/runtime/generate"
	"github.com/fractal-lang/fractal/runtime/raster"
	"github.com/fractal-lang/fractal/runtime/theme"
	"github.com/fractal-lang/fractal/sink/bmp"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	out         string
	width       int
	height      int
	seed        int64
	hasSeed     bool
	watch       bool
	noColor     bool
	debug       bool
	themeFile   string
	colorStart  string
	colorEnd    string
}

func newRenderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Parse, validate, interpret, and write a BMP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.hasSeed = cmd.Flags().Changed("seed")
			if f.watch {
				return watchAndRender(args[0], f)
			}
			return renderOnce(args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.out, "out", "", "output BMP path (default: <file> with .bmp extension)")
	cmd.Flags().IntVar(&f.width, "width", 0, "override the program's declared canvas width")
	cmd.Flags().IntVar(&f.height, "height", 0, "override the program's declared canvas height")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "fix the IFS/PRNG seed instead of wall-clock time")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "re-render whenever the source file changes")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored diagnostic output")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "print extra diagnostic detail")
	cmd.Flags().StringVar(&f.themeFile, "theme", "", "JSON file of friendly color names (see runtime/theme)")
	cmd.Flags().StringVar(&f.colorStart, "color-start", "", "override colorStart; a theme name or a hex string")
	cmd.Flags().StringVar(&f.colorEnd, "color-end", "", "override colorEnd; a theme name or a hex string")

	return cmd
}

func renderOnce(path string, f renderFlags) error {
	useColor := shouldUseColor(f.noColor)

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	opts, err := buildGenerateOptions(f)
	if err != nil {
		return err
	}

	result, err := generate.Render(string(src), opts)
	if err != nil {
		return err
	}
	printDiagnostics(os.Stderr, result.Diagnostics, useColor)
	if !result.Diagnostics.Succeeded() {
		return fmt.Errorf("%d error(s); not rendering", len(result.Diagnostics.Errors()))
	}

	outPath := f.out
	if outPath == "" {
		outPath = defaultOutPath(path)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	if err := bmp.Write(out, result.Context.Bitmap); err != nil {
		return fmt.Errorf("writing bitmap: %w", err)
	}
	if f.debug {
		fmt.Fprintf(os.Stderr, "wrote %s (%dx%d)\n", outPath, result.Context.Bitmap.Width, result.Context.Bitmap.Height)
	}
	return nil
}

// buildGenerateOptions resolves CLI flags (including theme-named
// colors) into generate.Options.
func buildGenerateOptions(f renderFlags) (generate.Options, error) {
	opts := generate.Options{Width: f.width, Height: f.height}
	if f.hasSeed {
		seed := f.seed
		opts.Seed = &seed
	}

	var th *theme.Theme
	if f.themeFile != "" {
		raw, err := os.ReadFile(f.themeFile)
		if err != nil {
			return opts, fmt.Errorf("reading theme %s: %w", f.themeFile, err)
		}
		th, err = theme.Parse(raw)
		if err != nil {
			return opts, fmt.Errorf("theme %s: %w", f.themeFile, err)
		}
	}

	if f.colorStart != "" {
		rgb := resolveColorFlag(f.colorStart, th)
		opts.ColorStart = &rgb
	}
	if f.colorEnd != "" {
		rgb := resolveColorFlag(f.colorEnd, th)
		opts.ColorEnd = &rgb
	}
	return opts, nil
}

// resolveColorFlag treats name as a theme lookup first, falling back
// to interpreting it directly as a hex color string.
func resolveColorFlag(name string, th *theme.Theme) raster.RGB {
	if hex, ok := th.Resolve(name); ok {
		return context.ParseColor(hex)
	}
	return context.ParseColor(name)
}

func defaultOutPath(srcPath string) string {
	ext := filepath.Ext(srcPath)
	return strings.TrimSuffix(srcPath, ext) + ".bmp"
}
