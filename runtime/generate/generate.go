// Package generate is the top-level orchestration layer: parse ->
// validate -> build a render context -> dispatch to the right backend
// -> hand the finished bitmap to the caller. It is the one place that
// imports the parser, the validator, eval, vm, and context together,
// the way cmd/fractal's subcommands need to.
package generate

import (
	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/core/diag"
	"github.com/fractal-lang/fractal/internal/parser"
	"github.com/fractal-lang/fractal/runtime/context"
	"github.com/fractal-lang/fractal/runtime/eval"
	"github.com/fractal-lang/fractal/runtime/raster"
	"github.com/fractal-lang/fractal/runtime/validator"
	"github.com/fractal-lang/fractal/runtime/vm"
)

// Options overrides the Program's own declarations (CLI flags take
// precedence over the DSL source, per SPEC_FULL.md's --width/--height
// /--seed flags).
type Options struct {
	Width, Height        int // 0 means "use the Program's own Size"
	Seed                 *int64
	ColorStart, ColorEnd *raster.RGB // nil means "use the Program's own Color / defaults"
}

// Result is everything a caller (the CLI or a test) needs after a
// render attempt: the context holding the finished bitmap (nil if
// validation failed), and the diagnostics produced along the way.
type Result struct {
	Context     *context.Context
	Diagnostics *diag.Result
	Program     *ast.Program
}

// Parse parses src and returns the AST, or a syntax error.
func Parse(src string) (*ast.Program, error) {
	return parser.Parse(src)
}

// Check runs the parse+validate pipeline without rendering, for
// `fractal check`.
func Check(src string) (*ast.Program, *diag.Result, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	return program, validator.Validate(program), nil
}

// Render runs the full pipeline: parse, validate, build a context, and
// paint the bitmap. If validation fails (any error-severity
// diagnostic), Result.Context is nil and the caller should not attempt
// to write a bitmap.
func Render(src string, opts Options) (*Result, error) {
	program, diags, err := Check(src)
	if err != nil {
		return nil, err
	}
	res := &Result{Diagnostics: diags, Program: program}
	if !diags.Succeeded() {
		return res, nil
	}

	ctx := buildContext(program, opts)

	start := program.Start()
	if start == nil {
		// The validator already recorded W003 for this; nothing to render.
		res.Context = ctx
		return res, nil
	}

	vm.ExecuteRule(program, start.RuleName, nil, ctx, 0)

	res.Context = ctx
	return res, nil
}

// buildContext resolves Size/View/Color from the program (falling
// back to runtime/context's defaults), then layers CLI overrides on
// top via Options.
func buildContext(program *ast.Program, opts Options) *context.Context {
	// A first pass with no overrides picks up the program's own
	// Size/Color and the package defaults for View, giving a complete
	// context to evaluate the View sentence's Expression bounds against
	// (they reference no rule-scoped variables in practice, but nothing
	// stops evaluating them against a fully-formed context).
	base := context.New(program)

	var contextOpts []context.Option
	if v := program.View(); v != nil {
		minX := eval.Expression(v.X.Start, base)
		maxX := eval.Expression(v.X.End, base)
		minY := eval.Expression(v.Y.Start, base)
		maxY := eval.Expression(v.Y.End, base)
		contextOpts = append(contextOpts, context.WithView(minX, maxX, minY, maxY))
	}
	if opts.ColorStart != nil || opts.ColorEnd != nil {
		start, end := base.ColorStart, base.ColorEnd
		if opts.ColorStart != nil {
			start = *opts.ColorStart
		}
		if opts.ColorEnd != nil {
			end = *opts.ColorEnd
		}
		contextOpts = append(contextOpts, context.WithColor(start, end))
	}
	if opts.Seed != nil {
		contextOpts = append(contextOpts, context.WithSeed(*opts.Seed))
	}

	ctx := context.New(program, contextOpts...)
	if opts.Width > 0 {
		ctx.Width = opts.Width
	}
	if opts.Height > 0 {
		ctx.Height = opts.Height
	}
	if opts.Width > 0 || opts.Height > 0 {
		// Width/Height changed after the bitmap was already allocated at
		// the Program's own Size; reallocate so the two stay consistent.
		ctx.Bitmap = raster.NewBitmap(ctx.Width, ctx.Height)
		ctx.Bitmap.Clear(ctx.ColorStart)
	}
	return ctx
}
