package printer_test

import (
	"strings"
	"testing"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/core/printer"
	"github.com/stretchr/testify/assert"
)

func intExpr(v int) ast.Expression {
	return &ast.FactorExpression{F: &ast.IntegerConstant{Value: v}}
}

func TestPrintDoesNotMutateTree(t *testing.T) {
	p := ast.NewProgram(ast.Position{})
	rule := &ast.RuleDecl{
		Name:   "T",
		Params: []string{"n"},
		Body: []ast.RuleSentence{
			&ast.PolygonSentence{Points: []ast.Point{{X: intExpr(0), Y: intExpr(0)}}},
			&ast.IfSentence{Condition: intExpr(1)},
		},
	}
	p.Append(rule)

	before := len(p.Sentences)
	out := printer.Print(p)
	after := len(p.Sentences)

	assert.Equal(t, before, after)
	assert.True(t, strings.Contains(out, "Rule T(n)"))
	assert.True(t, strings.Contains(out, "Polygon"))
	assert.True(t, strings.Contains(out, "If 1"))
}

func TestPrintNilProgram(t *testing.T) {
	assert.Contains(t, printer.Print(nil), "nil program")
}
