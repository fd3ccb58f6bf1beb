// Package validator implements the semantic validator (spec.md §4.C):
// scope resolution, arity-free call checking, and the structural
// invariants on Size/View/Start. It is grounded on the original
// Validator.c's scope-walking shape (track formal params, recurse
// through expressions) generalized to the typed Go AST, enriched with
// fuzzy "did you mean" suggestions on undefined-rule diagnostics.
package validator

import (
	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/core/diag"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Validate walks every sentence once, in source order, and every
// expression inside rule bodies once, and returns the aggregated
// diagnostics. The View bounds and top-level Expression sentences are
// not inspected.
func Validate(program *ast.Program) *diag.Result {
	result := &diag.Result{}
	if program == nil {
		result.Add(diag.New(diag.E002, ast.Position{}, "program is empty"))
		return result
	}

	var hasView bool
	var startCount int
	var lastStart *ast.StartSentence

	for _, s := range program.Sentences {
		switch n := s.(type) {
		case *ast.ViewSentence:
			hasView = true
		case *ast.SizeSentence:
			if n.Width <= 0 || n.Height <= 0 {
				result.Add(diag.New(diag.E001, n.Pos,
					"size must be positive, got %d x %d", n.Width, n.Height))
			}
		case *ast.StartSentence:
			startCount++
			lastStart = n
		case *ast.RuleDecl:
			validateRule(program, n, result)
		}
	}

	if !hasView {
		result.Add(diag.New(diag.E002, ast.Position{}, "no view declared"))
	}

	switch {
	case startCount == 0:
		result.Add(diag.New(diag.W003, ast.Position{}, "no start rule declared; nothing will render"))
	case startCount > 1:
		result.Add(diag.New(diag.W001, lastStart.Pos,
			"multiple start statements declared; using the last one (%q)", lastStart.RuleName))
		fallthrough
	default:
		if program.FindRule(lastStart.RuleName) == nil {
			result.Add(undefinedRuleDiagnostic(diag.E003, lastStart.Pos, lastStart.RuleName, program, "start"))
		}
	}

	return result
}

// escapeConstant names the constant c of the escape iteration
// z <- z^2 + c; it is in scope inside every Escape node.
const escapeConstant = "c"

// scope tracks which names are currently resolvable inside a rule
// body: the rule's formal parameters, plus (while walking inside an
// Escape node) that escape's iteration variable and escapeConstant.
// x/y pixel coordinates are always in scope and are distinct AST node
// kinds, so they never need a name lookup here.
type scope struct {
	params    map[string]bool
	escapeVar string // "" when not inside an Escape
}

func (s scope) has(name string) bool {
	if s.escapeVar != "" && (name == s.escapeVar || name == escapeConstant) {
		return true
	}
	return s.params[name]
}

func validateRule(program *ast.Program, rule *ast.RuleDecl, result *diag.Result) {
	params := make(map[string]bool, len(rule.Params))
	for _, p := range rule.Params {
		params[p] = true
	}
	sc := scope{params: params}

	var transformSum int
	var sawTransform bool
	var lastTransform *ast.TransformationSentence

	for _, rs := range rule.Body {
		validateRuleSentence(program, rs, sc, result)
		if t, ok := rs.(*ast.TransformationSentence); ok {
			sawTransform = true
			transformSum += t.Probability
			lastTransform = t
		}
	}

	if sawTransform && transformSum != 100 {
		result.Add(diag.New(diag.E005, lastTransform.Pos,
			"rule %q: transformation probabilities sum to %d, not 100", rule.Name, transformSum))
	}
}

func validateRuleSentence(program *ast.Program, rs ast.RuleSentence, sc scope, result *diag.Result) {
	switch n := rs.(type) {
	case *ast.PolygonSentence:
		for _, pt := range n.Points {
			validateExpr(pt.X, sc, result)
			validateExpr(pt.Y, sc, result)
		}
	case *ast.CallSentence:
		if program.FindRule(n.Callee) == nil {
			result.Add(undefinedRuleDiagnostic(diag.W002, n.Pos, n.Callee, program, "call"))
		}
		for _, a := range n.Args {
			validateExpr(a, sc, result)
		}
	case *ast.IfSentence:
		validateExpr(n.Condition, sc, result)
	case *ast.EscapeSentence:
		inner := sc
		inner.escapeVar = n.Variable
		validateEscapeExpr(n.InitialValue, inner, result)
		validateEscapeExpr(n.RecursiveAssign, inner, result)
		validateEscapeExpr(n.UntilCondition, inner, result)
	case *ast.TransformationSentence:
		for _, ts := range n.Sentences {
			validateTransformSentence(ts, sc, result)
		}
	case *ast.PointsStatement:
		// No expressions to validate.
	}
}

func validateTransformSentence(ts ast.TransformSentence, sc scope, result *diag.Result) {
	switch n := ts.(type) {
	case *ast.TranslateSentence:
		validateExpr(n.X, sc, result)
		validateExpr(n.Y, sc, result)
	case *ast.ScaleSentence:
		validateExpr(n.X, sc, result)
		validateExpr(n.Y, sc, result)
	case *ast.ShearSentence:
		validateExpr(n.X, sc, result)
		validateExpr(n.Y, sc, result)
	case *ast.RotateSentence:
		validateExpr(n.Angle, sc, result)
	}
}

func validateExpr(e ast.Expression, sc scope, result *diag.Result) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.FactorExpression:
		validateFactor(n.F, sc, result)
	case *ast.BinaryExpression:
		validateExpr(n.Left, sc, result)
		validateExpr(n.Right, sc, result)
	case *ast.AbsoluteValueExpression:
		validateExpr(n.Operand, sc, result)
	}
}

func validateFactor(f ast.Factor, sc scope, result *diag.Result) {
	switch n := f.(type) {
	case *ast.VariableFactor:
		if !sc.has(n.Name) {
			result.Add(diag.New(diag.E004, n.Pos,
				"variable %q is not in scope in this rule", n.Name))
		}
	case *ast.NestedExpression:
		validateExpr(n.Inner, sc, result)
	}
}

func validateEscapeExpr(e ast.EscapeExpression, sc scope, result *diag.Result) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.EscapeFactorExpression:
		validateEscapeFactor(n.F, sc, result)
	case *ast.EscapeBinaryExpression:
		validateEscapeExpr(n.Left, sc, result)
		validateEscapeExpr(n.Right, sc, result)
	case *ast.EscapeAbsoluteValueExpression:
		validateEscapeExpr(n.Operand, sc, result)
	}
}

func validateEscapeFactor(f ast.EscapeFactor, sc scope, result *diag.Result) {
	switch n := f.(type) {
	case *ast.EscapeVariableFactor:
		if !sc.has(n.Name) {
			result.Add(diag.New(diag.E004, n.Pos,
				"variable %q is not in scope in this escape", n.Name))
		}
	case *ast.EscapeRangeFactor:
		validateEscapeExpr(n.Start, sc, result)
		validateEscapeExpr(n.End, sc, result)
	}
}

// undefinedRuleDiagnostic builds an E003/W002 diagnostic, appending a
// fuzzy-matched "did you mean" suggestion when a declared rule name
// fuzzy-matches the bad one.
func undefinedRuleDiagnostic(code diag.Code, pos ast.Position, badName string, program *ast.Program, context string) diag.Diagnostic {
	suggestion := suggestRuleName(badName, program.RuleNames())
	if suggestion != "" {
		return diag.New(code, pos,
			"%s references undefined rule %q; did you mean %q?", context, badName, suggestion)
	}
	return diag.New(code, pos, "%s references undefined rule %q", context, badName)
}

// suggestRuleName returns the declared rule name with the lowest
// fuzzy.RankMatchFold rank against badName (lower is closer), or "" if
// badName fuzzy-matches none of the candidates. There is no rank
// threshold: any candidate that badName matches can be suggested.
func suggestRuleName(badName string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	best := ""
	bestRank := -1
	for _, c := range candidates {
		if !fuzzy.MatchFold(badName, c) && !fuzzy.MatchFold(c, badName) {
			continue
		}
		rank := fuzzy.RankMatchFold(badName, c)
		if rank < 0 {
			continue
		}
		if bestRank == -1 || rank < bestRank {
			bestRank = rank
			best = c
		}
	}
	return best
}
