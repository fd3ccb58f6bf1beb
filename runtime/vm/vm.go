// Package vm is the rule virtual machine (spec.md §4.F): it walks a
// rule's body in source order, dispatching each RuleSentence variant,
// and implements the language's scoping and stop semantics. It imports
// ast, context, eval, and raster together; none of those packages
// imports vm, keeping the dependency direction one-way.
package vm

import (
	"math"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/core/invariant"
	"github.com/fractal-lang/fractal/runtime/context"
	"github.com/fractal-lang/fractal/runtime/eval"
	"github.com/fractal-lang/fractal/runtime/raster"
)

// juliaProbe is the sentinel value fed into CurrentPixelX before a
// single dry-run evaluation of the rule's initialValue expression
// (spec.md §4.I step 2): if that expression depends on the pixel, the
// probe passes through unchanged and the renderer is in Julia mode
// with a fixed c; otherwise it is Mandelbrot and c comes from the
// pixel's world coordinates.
const juliaProbe = 123.456

const juliaProbeEpsilon = 1e-3

// juliaC is the canonical fixed constant used in Julia mode.
var juliaCRe, juliaCIm = -0.8, 0.156

// maxCallDepth bounds recursive rule calls; the language has no other
// recursion guard, so a runaway rule (no base case reached) panics via
// invariant rather than exhausting the goroutine stack silently.
const maxCallDepth = 10000

// Outcome reports how a rule body finished.
type Outcome struct {
	Stopped bool // true if an If sentence's condition fired
}

// ExecuteRule runs ruleName's body against ctx, binding actuals to the
// rule's formal parameters in a fresh scope frame. actuals must
// already be evaluated in the caller's scope (spec.md §4.F: "arguments
// are evaluated in the caller's scope before the callee's parameters
// are bound").
func ExecuteRule(program *ast.Program, ruleName string, actuals []float64, ctx *context.Context, depth int) Outcome {
	invariant.Precondition(program != nil, "program must not be nil")
	invariant.Precondition(depth <= maxCallDepth, "call depth exceeded for rule %q; recursion has no base case", ruleName)

	rule := program.FindRule(ruleName)
	if rule == nil {
		return Outcome{}
	}

	depthBefore := ctx.ScopeDepth()
	n := len(rule.Params)
	if len(actuals) < n {
		n = len(actuals)
	}
	for i := 0; i < n; i++ {
		ctx.PushScope(rule.Params[i], actuals[i])
	}
	defer func() {
		for ctx.ScopeDepth() > depthBefore {
			ctx.PopScope()
		}
		invariant.Invariant(ctx.ScopeDepth() == depthBefore, "scope stack must be balanced after rule %q", ruleName)
	}()

	for _, rs := range rule.Body {
		if executeSentence(program, rs, ctx, depth) {
			return Outcome{Stopped: true}
		}
	}
	return Outcome{}
}

// executeSentence runs one RuleSentence and reports whether the
// enclosing rule body should stop immediately (an If whose condition
// fired).
func executeSentence(program *ast.Program, rs ast.RuleSentence, ctx *context.Context, depth int) bool {
	switch n := rs.(type) {
	case *ast.PolygonSentence:
		drawPolygon(n, ctx)
		return false
	case *ast.CallSentence:
		actuals := make([]float64, len(n.Args))
		for i, a := range n.Args {
			actuals[i] = eval.Expression(a, ctx)
		}
		// A callee's own If-triggered stop only terminates the callee's
		// body (spec.md §4.F step 4: "terminate the current rule body");
		// it has no effect on the caller's remaining sentences.
		ExecuteRule(program, n.Callee, actuals, ctx, depth+1)
		return false
	case *ast.IfSentence:
		return eval.Expression(n.Condition, ctx) != 0
	case *ast.EscapeSentence:
		// An Escape sentence is the whole-canvas fractal backend (4.I),
		// not a scalar loop: the VM hands the entire pixel grid to it.
		RunEscapeTime(n, ctx)
		return false
	case *ast.TransformationSentence:
		// Mirrors the original interpreter's executeTransformation: a
		// Transformation sentence dispatches the whole chaos-game IFS
		// backend inline, the same way Escape dispatches the whole-canvas
		// escape-time backend inline. Its own affine/probability fields
		// contribute nothing to the render itself (spec.md open question
		// (a) - the backend always draws the canonical fern), so every
		// Transformation sentence in a rule body triggers an equivalent
		// full render of ctx.NumPoints points.
		RunIFS(ctx)
		return false
	case *ast.PointsStatement:
		ctx.NumPoints = n.Count
		return false
	default:
		return false
	}
}

// drawPolygon evaluates every vertex against ctx's current scope, maps
// each to a pixel, and rasterizes the closed polyline (spec.md §4.G).
func drawPolygon(p *ast.PolygonSentence, ctx *context.Context) {
	pts := make([]raster.Pixel, len(p.Points))
	for i, v := range p.Points {
		wx := eval.Expression(v.X, ctx)
		wy := eval.Expression(v.Y, ctx)
		px, py := ctx.MapPoint(wx, wy)
		pts[i] = raster.Pixel{X: px, Y: py}
	}
	raster.DrawPolygon(ctx.Bitmap, pts, ctx.ColorEnd)
}

// RunIFS executes the chaos-game algorithm (spec.md §4.H): draw a
// uniform r in [0, 100) NumPoints times, apply one IFS step, map the
// resulting world point to a pixel, and set it.
func RunIFS(ctx *context.Context) {
	x, y := 0.0, 0.0
	for i := 0; i < ctx.NumPoints; i++ {
		r := ctx.Rand().Intn(100)
		x, y = raster.IFSStep(x, y, r)
		px, py := ctx.MapPoint(x, y)
		ctx.Bitmap.SetPixel(px, py, ctx.ColorEnd)
	}
}

// detectJulia runs the probe described in spec.md §4.I step 2: seed
// CurrentPixelX with the sentinel and evaluate initialValue once. A
// pixel-dependent initialValue expression (e.g. `z := (x, y)`) passes
// the probe through unchanged; a constant one (e.g. `z := 0`) does not.
func detectJulia(e *ast.EscapeSentence, ctx *context.Context) bool {
	savedX := ctx.CurrentPixelX
	ctx.CurrentPixelX = juliaProbe
	probed := eval.EscapeExpr(e.InitialValue, ctx)
	ctx.CurrentPixelX = savedX
	return math.Abs(probed-juliaProbe) < juliaProbeEpsilon
}

// RunEscapeTime renders the whole canvas with the escape-time
// evaluator (spec.md §4.I): for each pixel, map it to world
// coordinates, decide Julia vs Mandelbrot mode via the probe sentinel,
// iterate z <- z^2+c, and color by the escape iteration count.
func RunEscapeTime(e *ast.EscapeSentence, ctx *context.Context) {
	julia := detectJulia(e, ctx)

	for py := 0; py < ctx.Height; py++ {
		for px := 0; px < ctx.Width; px++ {
			x0 := ctx.MinX + float64(px)*(ctx.MaxX-ctx.MinX)/float64(ctx.Width)
			y0 := ctx.MinY + float64(py)*(ctx.MaxY-ctx.MinY)/float64(ctx.Height)

			var zRe, zIm, cRe, cIm float64
			if julia {
				zRe, zIm = x0, y0
				cRe, cIm = juliaCRe, juliaCIm
			} else {
				zRe, zIm = 0, 0
				cRe, cIm = x0, y0
			}

			iter, escaped := raster.EscapeIterate(zRe, zIm, cRe, cIm, e.MaxIterations)
			color := ctx.ColorEnd
			if escaped {
				t := math.Sqrt(float64(iter) / float64(e.MaxIterations))
				color = raster.Lerp(ctx.ColorStart, ctx.ColorEnd, t)
			}
			ctx.Bitmap.SetPixel(px, py, color)
		}
	}
}
