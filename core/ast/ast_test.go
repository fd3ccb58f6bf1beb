package ast_test

import (
	"testing"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramAccessorsReturnFirstOccurrence(t *testing.T) {
	p := ast.NewProgram(ast.Position{Line: 1})
	p.Append(&ast.SizeSentence{Width: 100, Height: 100})
	p.Append(&ast.ViewSentence{})
	p.Append(&ast.ColorSentence{Start: "#000000", End: "#FFFFFF"})
	p.Append(&ast.SizeSentence{Width: 200, Height: 200})
	p.Append(&ast.ColorSentence{Start: "#111111", End: "#222222"})

	require.NotNil(t, p.Size())
	assert.Equal(t, 100, p.Size().Width)
	require.NotNil(t, p.View())
	require.NotNil(t, p.Color())
	assert.Equal(t, "#000000", p.Color().Start)
}

func TestStartLastOneWins(t *testing.T) {
	p := ast.NewProgram(ast.Position{})
	p.Append(&ast.StartSentence{RuleName: "first"})
	p.Append(&ast.StartSentence{RuleName: "second"})

	start := p.Start()
	require.NotNil(t, start)
	assert.Equal(t, "second", start.RuleName)
}

func TestFindRule(t *testing.T) {
	p := ast.NewProgram(ast.Position{})
	rule := &ast.RuleDecl{Name: "Tree", Params: []string{"n"}}
	p.Append(rule)

	assert.Same(t, rule, p.FindRule("Tree"))
	assert.Nil(t, p.FindRule("Missing"))
}

func TestRuleNamesPreservesSourceOrder(t *testing.T) {
	p := ast.NewProgram(ast.Position{})
	p.Append(&ast.RuleDecl{Name: "A"})
	p.Append(&ast.ViewSentence{})
	p.Append(&ast.RuleDecl{Name: "B"})

	assert.Equal(t, []string{"A", "B"}, p.RuleNames())
}

func TestExpressionKindDiscriminates(t *testing.T) {
	var e ast.Expression = &ast.BinaryExpression{K: ast.ExprAddition}
	assert.Equal(t, ast.ExprAddition, e.Kind())

	var f ast.Expression = &ast.AbsoluteValueExpression{}
	assert.Equal(t, ast.ExprAbsoluteValue, f.Kind())
}

func TestDestroyIsIdempotentOnNil(t *testing.T) {
	assert.NotPanics(t, func() {
		ast.Destroy(nil)
		var p *ast.Program
		ast.Destroy(p)
	})
}

func TestDestroyClearsSentences(t *testing.T) {
	p := ast.NewProgram(ast.Position{})
	p.Append(&ast.RuleDecl{Name: "A"})
	ast.Destroy(p)
	assert.Empty(t, p.Sentences)
}
