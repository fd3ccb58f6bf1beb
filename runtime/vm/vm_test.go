package vm_test

import (
	"testing"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/runtime/context"
	"github.com/fractal-lang/fractal/runtime/raster"
	"github.com/fractal-lang/fractal/runtime/vm"
	"github.com/stretchr/testify/assert"
)

func num(v int) ast.Expression { return &ast.FactorExpression{F: &ast.IntegerConstant{Value: v}} }

func variable(name string) ast.Expression { return &ast.FactorExpression{F: &ast.VariableFactor{Name: name}} }

func escNum(v int) ast.EscapeExpression {
	return &ast.EscapeFactorExpression{F: &ast.EscapeIntegerConstant{Value: v}}
}

func escVar(name string) ast.EscapeExpression {
	return &ast.EscapeFactorExpression{F: &ast.EscapeVariableFactor{Name: name}}
}

func newTestContext(program *ast.Program, width, height int) *context.Context {
	p := program
	if p == nil {
		p = ast.NewProgram(ast.Position{})
	}
	p.Append(&ast.SizeSentence{Width: width, Height: height})
	return context.New(p, context.WithSeed(1))
}

func TestPolygonDrawsClosedShape(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	rule := &ast.RuleDecl{Name: "Main", Body: []ast.RuleSentence{
		&ast.PolygonSentence{Points: []ast.Point{
			{X: num(-1), Y: num(-1)},
			{X: num(1), Y: num(-1)},
			{X: num(0), Y: num(1)},
		}},
	}}
	program.Append(rule)
	ctx := newTestContext(program, 10, 10)
	ctx.MinX, ctx.MaxX, ctx.MinY, ctx.MaxY = -1, 1, -1, 1

	out := vm.ExecuteRule(program, "Main", nil, ctx, 0)
	assert.False(t, out.Stopped)

	hasColor := false
	for _, px := range ctx.Bitmap.Pixels {
		if px == ctx.ColorEnd {
			hasColor = true
		}
	}
	assert.True(t, hasColor)
}

func TestRecursiveCallWithIfBaseCase(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	program.Append(&ast.RuleDecl{
		Name:   "Count",
		Params: []string{"n"},
		Body: []ast.RuleSentence{
			&ast.IfSentence{Condition: &ast.BinaryExpression{
				K: ast.ExprLowerThan, Left: variable("n"), Right: num(1),
			}},
			&ast.PolygonSentence{Points: []ast.Point{
				{X: num(0), Y: num(0)}, {X: num(1), Y: num(0)},
			}},
			&ast.CallSentence{
				Callee: "Count",
				Args: []ast.Expression{
					&ast.BinaryExpression{K: ast.ExprSubtraction, Left: variable("n"), Right: num(1)},
				},
			},
		},
	})
	ctx := newTestContext(program, 10, 10)
	ctx.MinX, ctx.MaxX, ctx.MinY, ctx.MaxY = -2, 2, -2, 2

	out := vm.ExecuteRule(program, "Count", []float64{3}, ctx, 0)
	assert.False(t, out.Stopped)
	assert.Equal(t, 0, ctx.ScopeDepth())
}

func TestIfStoppingCalleeDoesNotStopCaller(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	program.Append(&ast.RuleDecl{Name: "StopsImmediately", Body: []ast.RuleSentence{
		&ast.IfSentence{Condition: num(1)},
		&ast.PolygonSentence{Points: []ast.Point{{X: num(5), Y: num(5)}, {X: num(6), Y: num(6)}}},
	}})
	program.Append(&ast.RuleDecl{Name: "Caller", Body: []ast.RuleSentence{
		&ast.CallSentence{Callee: "StopsImmediately"},
		&ast.PolygonSentence{Points: []ast.Point{{X: num(0), Y: num(0)}, {X: num(1), Y: num(0)}}},
	}})
	ctx := newTestContext(program, 10, 10)
	ctx.MinX, ctx.MaxX, ctx.MinY, ctx.MaxY = -2, 2, -2, 2

	out := vm.ExecuteRule(program, "Caller", nil, ctx, 0)
	assert.False(t, out.Stopped)

	found := false
	for _, px := range ctx.Bitmap.Pixels {
		if px == ctx.ColorEnd {
			found = true
		}
	}
	assert.True(t, found, "caller's own polygon must still be drawn")
}

func TestCallToUndefinedRuleIsNoOp(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	ctx := newTestContext(program, 10, 10)

	out := vm.ExecuteRule(program, "Ghost", nil, ctx, 0)
	assert.False(t, out.Stopped)
}

func TestPointsStatementUpdatesNumPoints(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	program.Append(&ast.RuleDecl{Name: "Main", Body: []ast.RuleSentence{
		&ast.PointsStatement{Count: 42},
	}})
	ctx := newTestContext(program, 10, 10)

	vm.ExecuteRule(program, "Main", nil, ctx, 0)
	assert.Equal(t, 42, ctx.NumPoints)
}

func TestArgsEvaluatedInCallerScope(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	program.Append(&ast.RuleDecl{
		Name:   "Inner",
		Params: []string{"y"},
		Body: []ast.RuleSentence{
			&ast.PolygonSentence{Points: []ast.Point{{X: variable("y"), Y: num(0)}, {X: num(1), Y: num(0)}}},
		},
	})
	program.Append(&ast.RuleDecl{
		Name:   "Outer",
		Params: []string{"x"},
		Body: []ast.RuleSentence{
			&ast.CallSentence{Callee: "Inner", Args: []ast.Expression{
				&ast.BinaryExpression{K: ast.ExprAddition, Left: variable("x"), Right: num(1)},
			}},
		},
	})
	ctx := newTestContext(program, 10, 10)
	ctx.MinX, ctx.MaxX, ctx.MinY, ctx.MaxY = -2, 2, -2, 2

	vm.ExecuteRule(program, "Outer", []float64{4}, ctx, 0)
	assert.Equal(t, 0, ctx.ScopeDepth())
}

func TestRunIFSPopulatesCanvas(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	ctx := newTestContext(program, 64, 64)
	ctx.MinX, ctx.MaxX, ctx.MinY, ctx.MaxY = -3, 3, 0, 10
	ctx.NumPoints = 5000

	vm.RunIFS(ctx)

	painted := 0
	for _, px := range ctx.Bitmap.Pixels {
		if px == ctx.ColorEnd {
			painted++
		}
	}
	assert.Greater(t, painted, 0)
}

func TestRunEscapeTimeMandelbrotOriginStaysUnescaped(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	ctx := newTestContext(program, 5, 5)
	ctx.MinX, ctx.MaxX, ctx.MinY, ctx.MaxY = -0.01, 0.01, -0.01, 0.01

	e := &ast.EscapeSentence{
		InitialValue:    escNum(0),
		Variable:        "z",
		RecursiveAssign: escVar("z"),
		UntilCondition:  escNum(0),
		MaxIterations:   50,
	}
	vm.RunEscapeTime(e, ctx)

	center := ctx.Bitmap.At(2, 2)
	assert.Equal(t, ctx.ColorEnd, center, "a non-escaping orbit is colored colorEnd per the escape-time rule")
}

func TestRunEscapeTimeDetectsJuliaModeAndRestoresProbe(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	ctx := newTestContext(program, 4, 4)
	ctx.MinX, ctx.MaxX, ctx.MinY, ctx.MaxY = -2, 2, -2, 2
	ctx.CurrentPixelX = 0.25 // must survive the probe's save/restore

	e := &ast.EscapeSentence{
		InitialValue:    &ast.EscapeFactorExpression{F: &ast.EscapeXPixelCoord{}},
		Variable:        "z",
		RecursiveAssign: escVar("z"),
		UntilCondition:  escNum(0),
		MaxIterations:   10,
	}

	vm.RunEscapeTime(e, ctx)
	assert.Equal(t, 0.25, ctx.CurrentPixelX, "the probe's sentinel write must be undone after detection")
	// In Julia mode the corner pixel starts at z=(-2,-2), already outside
	// |z|^2 <= 4, so it escapes at iteration 0 and gets colorStart; in
	// Mandelbrot mode it would escape after one step and be lighter.
	assert.Equal(t, ctx.ColorStart, ctx.Bitmap.At(0, 0))
}

func TestDrawPolygonOutOfCanvasIsIgnored(t *testing.T) {
	b := raster.NewBitmap(4, 4)
	raster.DrawPolygon(b, []raster.Pixel{{X: -100, Y: -100}, {X: -200, Y: -200}}, raster.RGB{R: 9})
	for _, px := range b.Pixels {
		assert.Equal(t, raster.RGB{}, px)
	}
}
