// Package eval is the pure expression evaluator: a function of an
// Expression (or EscapeExpression) and a render context's read-only
// scope, returning a float64 (spec.md §4.E). It never mutates the
// context beyond what the caller already set on CurrentPixelX/Y.
package eval

import (
	"math"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/runtime/context"
)

// Expression evaluates expr against ctx's current scope.
func Expression(expr ast.Expression, ctx *context.Context) float64 {
	if expr == nil {
		return 0.0
	}
	switch n := expr.(type) {
	case *ast.FactorExpression:
		return factor(n.F, ctx)
	case *ast.AbsoluteValueExpression:
		return math.Abs(Expression(n.Operand, ctx))
	case *ast.BinaryExpression:
		left := Expression(n.Left, ctx)
		right := Expression(n.Right, ctx)
		return applyBinary(n.K, left, right)
	default:
		return 0.0
	}
}

func factor(f ast.Factor, ctx *context.Context) float64 {
	if f == nil {
		return 0.0
	}
	switch n := f.(type) {
	case *ast.IntegerConstant:
		return float64(n.Value)
	case *ast.DoubleConstant:
		return n.Value
	case *ast.VariableFactor:
		v, _ := ctx.Lookup(n.Name)
		return v
	case *ast.NestedExpression:
		return Expression(n.Inner, ctx)
	case *ast.XPixelCoord:
		return ctx.CurrentPixelX
	case *ast.YPixelCoord:
		return ctx.CurrentPixelY
	default:
		return 0.0
	}
}

func applyBinary(k ast.ExpressionKind, left, right float64) float64 {
	switch k {
	case ast.ExprAddition:
		return left + right
	case ast.ExprSubtraction:
		return left - right
	case ast.ExprMultiplication:
		return left * right
	case ast.ExprDivision:
		if right == 0 {
			return 0.0
		}
		return left / right
	case ast.ExprLowerThan:
		if left < right {
			return 1.0
		}
		return 0.0
	case ast.ExprGreaterThan:
		if left > right {
			return 1.0
		}
		return 0.0
	default:
		return 0.0
	}
}

// EscapeExpr evaluates an EscapeExpression, the parallel grammar used
// inside Escape nodes (spec.md §4.E: "a parallel evaluator exists for
// EscapeExpression/EscapeFactor with the same operator semantics, plus
// support for a Range factor").
func EscapeExpr(expr ast.EscapeExpression, ctx *context.Context) float64 {
	if expr == nil {
		return 0.0
	}
	switch n := expr.(type) {
	case *ast.EscapeFactorExpression:
		return escapeFactor(n.F, ctx)
	case *ast.EscapeAbsoluteValueExpression:
		return math.Abs(EscapeExpr(n.Operand, ctx))
	case *ast.EscapeBinaryExpression:
		left := EscapeExpr(n.Left, ctx)
		right := EscapeExpr(n.Right, ctx)
		return applyBinary(n.K, left, right)
	default:
		return 0.0
	}
}

func escapeFactor(f ast.EscapeFactor, ctx *context.Context) float64 {
	if f == nil {
		return 0.0
	}
	switch n := f.(type) {
	case *ast.EscapeIntegerConstant:
		return float64(n.Value)
	case *ast.EscapeDoubleConstant:
		return n.Value
	case *ast.EscapeVariableFactor:
		v, _ := ctx.Lookup(n.Name)
		return v
	case *ast.EscapeRangeFactor:
		// Range evaluates to its start bound (spec.md §4.E).
		return EscapeExpr(n.Start, ctx)
	case *ast.EscapeXPixelCoord:
		return ctx.CurrentPixelX
	case *ast.EscapeYPixelCoord:
		return ctx.CurrentPixelY
	default:
		return 0.0
	}
}
