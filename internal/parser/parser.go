// Package parser is a hand-written recursive-descent parser producing
// a core/ast.Program from fractal source text — the second external
// collaborator spec.md §1 declares out of scope for the core, kept
// here so the interpreter is exercisable end to end from source text
// rather than only from AST literals built by hand in tests.
package parser

import (
	"fmt"
	"strconv"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/internal/lexer"
)

// Error is a syntax error with source position.
type Error struct {
	Pos     ast.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Parser consumes a token stream with one token of lookahead.
type Parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	next lexer.Token
}

// Parse builds a Program from source text. Syntax errors are recovered
// from a panic raised by (*Parser).fail and returned as an *Error
// rather than propagated, since nothing here is a programming-contract
// violation in the core/invariant sense — malformed input is routine.
func Parse(src string) (program *ast.Program, err error) {
	p := &Parser{lex: lexer.New(src)}
	p.tok = p.lex.Next()
	p.next = p.lex.Next()

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*Error); ok {
				program, err = nil, pe
				return
			}
			panic(r)
		}
	}()

	prog := ast.NewProgram(p.pos())
	for p.tok.Kind != lexer.EOF {
		prog.Append(p.parseSentence())
	}
	return prog, nil
}

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.tok.Line, Column: p.tok.Column}
}

func (p *Parser) advance() lexer.Token {
	cur := p.tok
	p.tok = p.next
	p.next = p.lex.Next()
	return cur
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(&Error{Pos: p.pos(), Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(k lexer.Kind) lexer.Token {
	if p.tok.Kind != k {
		p.fail("expected %v, got %v %q", k, p.tok.Kind, p.tok.Text)
	}
	return p.advance()
}

func (p *Parser) accept(k lexer.Kind) bool {
	if p.tok.Kind == k {
		p.advance()
		return true
	}
	return false
}

// ================================================================
// Sentences
// ================================================================

func (p *Parser) parseSentence() ast.Sentence {
	switch p.tok.Kind {
	case lexer.KwSize:
		return p.parseSize()
	case lexer.KwView:
		return p.parseView()
	case lexer.KwColor:
		return p.parseColor()
	case lexer.KwStart:
		return p.parseStart()
	case lexer.KwRule:
		return p.parseRule()
	default:
		pos := p.pos()
		expr := p.parseExpression()
		p.accept(lexer.Semi)
		return &ast.ExpressionSentence{Expr: expr, Pos: pos}
	}
}

func (p *Parser) parseSize() ast.Sentence {
	pos := p.pos()
	p.expect(lexer.KwSize)
	// A leading '-' is accepted so that a non-positive size reaches the
	// validator (E001) instead of failing as a syntax error.
	dim := func() int {
		if p.accept(lexer.Minus) {
			return -p.expectInt()
		}
		return p.expectInt()
	}
	w := dim()
	h := dim()
	p.accept(lexer.Semi)
	return &ast.SizeSentence{Width: w, Height: h, Pos: pos}
}

func (p *Parser) expectInt() int {
	tok := p.expect(lexer.Int)
	v, err := strconv.Atoi(tok.Text)
	if err != nil {
		p.fail("invalid integer %q", tok.Text)
	}
	return v
}

// parseView accepts either "view [a,b]×[c,d]" or "view [a,b]x[c,d]"
// (the Ident lexeme "x" in the cross position is tolerated for sources
// that cannot type the multiplication sign).
func (p *Parser) parseView() ast.Sentence {
	pos := p.pos()
	p.expect(lexer.KwView)
	x := p.parseRange()
	p.expectCross()
	y := p.parseRange()
	p.accept(lexer.Semi)
	return &ast.ViewSentence{X: x, Y: y, Pos: pos}
}

func (p *Parser) expectCross() {
	if p.tok.Kind == lexer.Cross {
		p.advance()
		return
	}
	if p.tok.Kind == lexer.Ident && (p.tok.Text == "x" || p.tok.Text == "X") {
		p.advance()
		return
	}
	p.fail("expected × between view ranges, got %v %q", p.tok.Kind, p.tok.Text)
}

func (p *Parser) parseRange() ast.Range {
	p.expect(lexer.LBracket)
	start := p.parseExpression()
	p.expect(lexer.Comma)
	end := p.parseExpression()
	p.expect(lexer.RBracket)
	return ast.Range{Start: start, End: end}
}

func (p *Parser) parseColor() ast.Sentence {
	pos := p.pos()
	p.expect(lexer.KwColor)
	start := p.expect(lexer.Hex).Text
	end := p.expect(lexer.Hex).Text
	p.accept(lexer.Semi)
	return &ast.ColorSentence{Start: start, End: end, Pos: pos}
}

func (p *Parser) parseStart() ast.Sentence {
	pos := p.pos()
	p.expect(lexer.KwStart)
	name := p.expect(lexer.Ident).Text
	p.accept(lexer.Semi)
	return &ast.StartSentence{RuleName: name, Pos: pos}
}

func (p *Parser) parseRule() ast.Sentence {
	pos := p.pos()
	p.expect(lexer.KwRule)
	name := p.expect(lexer.Ident).Text

	var params []string
	if p.accept(lexer.LParen) {
		if p.tok.Kind != lexer.RParen {
			params = append(params, p.expect(lexer.Ident).Text)
			for p.accept(lexer.Comma) {
				params = append(params, p.expect(lexer.Ident).Text)
			}
		}
		p.expect(lexer.RParen)
	}

	p.expect(lexer.LBrace)
	var body []ast.RuleSentence
	for p.tok.Kind != lexer.RBrace {
		body = append(body, p.parseRuleSentence())
	}
	p.expect(lexer.RBrace)

	return &ast.RuleDecl{Name: name, Params: params, Body: body, Pos: pos}
}

func (p *Parser) parseRuleSentence() ast.RuleSentence {
	switch p.tok.Kind {
	case lexer.KwPolygon:
		return p.parsePolygon()
	case lexer.KwCall:
		return p.parseCall()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwEscape:
		return p.parseEscape()
	case lexer.KwTransformation:
		return p.parseTransformation()
	case lexer.KwPoints:
		return p.parsePoints()
	default:
		p.fail("expected a rule sentence, got %v %q", p.tok.Kind, p.tok.Text)
		return nil
	}
}

func (p *Parser) parsePolygon() ast.RuleSentence {
	pos := p.pos()
	p.expect(lexer.KwPolygon)
	var pts []ast.Point
	pts = append(pts, p.parsePoint())
	for p.accept(lexer.Comma) {
		pts = append(pts, p.parsePoint())
	}
	p.accept(lexer.Semi)
	return &ast.PolygonSentence{Points: pts, Pos: pos}
}

func (p *Parser) parsePoint() ast.Point {
	p.expect(lexer.LParen)
	x := p.parseExpression()
	p.expect(lexer.Comma)
	y := p.parseExpression()
	p.expect(lexer.RParen)
	return ast.Point{X: x, Y: y}
}

func (p *Parser) parseCall() ast.RuleSentence {
	pos := p.pos()
	p.expect(lexer.KwCall)
	name := p.expect(lexer.Ident).Text
	var args []ast.Expression
	p.expect(lexer.LParen)
	if p.tok.Kind != lexer.RParen {
		args = append(args, p.parseExpression())
		for p.accept(lexer.Comma) {
			args = append(args, p.parseExpression())
		}
	}
	p.expect(lexer.RParen)
	p.accept(lexer.Semi)
	return &ast.CallSentence{Callee: name, Args: args, Pos: pos}
}

func (p *Parser) parseIf() ast.RuleSentence {
	pos := p.pos()
	p.expect(lexer.KwIf)
	cond := p.parseExpression()
	p.accept(lexer.Semi)
	return &ast.IfSentence{Condition: cond, Pos: pos}
}

// parseEscape accepts the scenario-style body: "z := init; z := recur;
// until cond; N iterations" — the iteration variable name is read from
// the first assignment's left-hand identifier.
func (p *Parser) parseEscape() ast.RuleSentence {
	pos := p.pos()
	p.expect(lexer.KwEscape)
	p.expect(lexer.LBrace)

	varName := p.expect(lexer.Ident).Text
	p.expect(lexer.Assign)
	initial := p.parseEscapeExpression()
	p.accept(lexer.Semi)

	p.expect(lexer.Ident) // repeated variable name on the recursive line
	p.expect(lexer.Assign)
	recur := p.parseEscapeExpression()
	p.accept(lexer.Semi)

	p.expect(lexer.KwUntil)
	until := p.parseEscapeExpression()
	p.accept(lexer.Semi)

	maxIter := p.expectInt()
	p.expect(lexer.KwIterations)
	p.accept(lexer.Semi)

	p.expect(lexer.RBrace)

	return &ast.EscapeSentence{
		InitialValue:    initial,
		Variable:        varName,
		RecursiveAssign: recur,
		UntilCondition:  until,
		MaxIterations:   maxIter,
		Pos:             pos,
	}
}

func (p *Parser) parseTransformation() ast.RuleSentence {
	pos := p.pos()
	p.expect(lexer.KwTransformation)
	probability := p.expectInt()
	p.accept(lexer.Percent)
	p.expect(lexer.LBrace)

	var sentences []ast.TransformSentence
	for p.tok.Kind != lexer.RBrace {
		sentences = append(sentences, p.parseTransformSentence())
	}
	p.expect(lexer.RBrace)

	return &ast.TransformationSentence{Probability: probability, Sentences: sentences, Pos: pos}
}

func (p *Parser) parseTransformSentence() ast.TransformSentence {
	pos := p.pos()
	switch p.tok.Kind {
	case lexer.KwTranslate:
		p.advance()
		x, y := p.parseXYArgs()
		return &ast.TranslateSentence{X: x, Y: y, Pos: pos}
	case lexer.KwScale:
		p.advance()
		x, y := p.parseXYArgs()
		return &ast.ScaleSentence{X: x, Y: y, Pos: pos}
	case lexer.KwShear:
		p.advance()
		x, y := p.parseXYArgs()
		return &ast.ShearSentence{X: x, Y: y, Pos: pos}
	case lexer.KwRotate:
		p.advance()
		p.expect(lexer.LParen)
		angle := p.parseExpression()
		p.expect(lexer.RParen)
		p.accept(lexer.Semi)
		return &ast.RotateSentence{Angle: angle, Pos: pos}
	default:
		p.fail("expected a transform sentence, got %v %q", p.tok.Kind, p.tok.Text)
		return nil
	}
}

func (p *Parser) parseXYArgs() (ast.Expression, ast.Expression) {
	p.expect(lexer.LParen)
	x := p.parseExpression()
	p.expect(lexer.Comma)
	y := p.parseExpression()
	p.expect(lexer.RParen)
	p.accept(lexer.Semi)
	return x, y
}

func (p *Parser) parsePoints() ast.RuleSentence {
	pos := p.pos()
	p.expect(lexer.KwPoints)
	count := p.expectInt()
	p.accept(lexer.Semi)
	return &ast.PointsStatement{Count: count, Pos: pos}
}

// ================================================================
// Expressions (general grammar) — precedence, low to high:
// comparison < additive < multiplicative < unary/factor
// ================================================================

func (p *Parser) parseExpression() ast.Expression {
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for p.tok.Kind == lexer.Lt || p.tok.Kind == lexer.Gt {
		pos := p.pos()
		kind := ast.ExprLowerThan
		if p.tok.Kind == lexer.Gt {
			kind = ast.ExprGreaterThan
		}
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpression{K: kind, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.tok.Kind == lexer.Plus || p.tok.Kind == lexer.Minus {
		pos := p.pos()
		kind := ast.ExprAddition
		if p.tok.Kind == lexer.Minus {
			kind = ast.ExprSubtraction
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpression{K: kind, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.tok.Kind == lexer.Star || p.tok.Kind == lexer.Slash {
		pos := p.pos()
		kind := ast.ExprMultiplication
		if p.tok.Kind == lexer.Slash {
			kind = ast.ExprDivision
		}
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpression{K: kind, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.tok.Kind == lexer.Minus {
		pos := p.pos()
		p.advance()
		operand := p.parseUnary()
		return &ast.BinaryExpression{K: ast.ExprSubtraction, Left: &ast.FactorExpression{F: &ast.IntegerConstant{Value: 0}}, Right: operand, Pos: pos}
	}
	if p.tok.Kind == lexer.Pipe {
		pos := p.pos()
		p.advance()
		operand := p.parseExpression()
		p.expect(lexer.Pipe)
		return &ast.AbsoluteValueExpression{Operand: operand, Pos: pos}
	}
	return p.parseFactorExpr()
}

func (p *Parser) parseFactorExpr() ast.Expression {
	pos := p.pos()
	return &ast.FactorExpression{F: p.parseFactor(), Pos: pos}
}

func (p *Parser) parseFactor() ast.Factor {
	pos := p.pos()
	switch p.tok.Kind {
	case lexer.Int:
		v := p.expectInt()
		return &ast.IntegerConstant{Value: v, Pos: pos}
	case lexer.Float:
		tok := p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.fail("invalid number %q", tok.Text)
		}
		return &ast.DoubleConstant{Value: v, Pos: pos}
	case lexer.LParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(lexer.RParen)
		return &ast.NestedExpression{Inner: inner, Pos: pos}
	case lexer.Ident:
		name := p.advance().Text
		switch name {
		case "x", "X":
			return &ast.XPixelCoord{Pos: pos}
		case "y", "Y":
			return &ast.YPixelCoord{Pos: pos}
		default:
			return &ast.VariableFactor{Name: name, Pos: pos}
		}
	default:
		p.fail("expected a factor, got %v %q", p.tok.Kind, p.tok.Text)
		return nil
	}
}

// ================================================================
// EscapeExpressions — same precedence, parallel factor grammar with
// a Range factor ("[start, end]") in addition to the usual atoms.
// ================================================================

func (p *Parser) parseEscapeExpression() ast.EscapeExpression {
	return p.parseEscapeComparison()
}

func (p *Parser) parseEscapeComparison() ast.EscapeExpression {
	left := p.parseEscapeAdditive()
	for p.tok.Kind == lexer.Lt || p.tok.Kind == lexer.Gt {
		pos := p.pos()
		kind := ast.ExprLowerThan
		if p.tok.Kind == lexer.Gt {
			kind = ast.ExprGreaterThan
		}
		p.advance()
		right := p.parseEscapeAdditive()
		left = &ast.EscapeBinaryExpression{K: kind, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseEscapeAdditive() ast.EscapeExpression {
	left := p.parseEscapeMultiplicative()
	for p.tok.Kind == lexer.Plus || p.tok.Kind == lexer.Minus {
		pos := p.pos()
		kind := ast.ExprAddition
		if p.tok.Kind == lexer.Minus {
			kind = ast.ExprSubtraction
		}
		p.advance()
		right := p.parseEscapeMultiplicative()
		left = &ast.EscapeBinaryExpression{K: kind, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseEscapeMultiplicative() ast.EscapeExpression {
	left := p.parseEscapeUnary()
	for p.tok.Kind == lexer.Star || p.tok.Kind == lexer.Slash {
		pos := p.pos()
		kind := ast.ExprMultiplication
		if p.tok.Kind == lexer.Slash {
			kind = ast.ExprDivision
		}
		p.advance()
		right := p.parseEscapeUnary()
		left = &ast.EscapeBinaryExpression{K: kind, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseEscapeUnary() ast.EscapeExpression {
	if p.tok.Kind == lexer.Pipe {
		pos := p.pos()
		p.advance()
		operand := p.parseEscapeExpression()
		p.expect(lexer.Pipe)
		return &ast.EscapeAbsoluteValueExpression{Operand: operand, Pos: pos}
	}
	pos := p.pos()
	return &ast.EscapeFactorExpression{F: p.parseEscapeFactor(), Pos: pos}
}

func (p *Parser) parseEscapeFactor() ast.EscapeFactor {
	pos := p.pos()
	switch p.tok.Kind {
	case lexer.Int:
		v := p.expectInt()
		return &ast.EscapeIntegerConstant{Value: v, Pos: pos}
	case lexer.Float:
		tok := p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.fail("invalid number %q", tok.Text)
		}
		return &ast.EscapeDoubleConstant{Value: v, Pos: pos}
	case lexer.LBracket:
		p.advance()
		start := p.parseEscapeExpression()
		p.expect(lexer.Comma)
		end := p.parseEscapeExpression()
		p.expect(lexer.RBracket)
		return &ast.EscapeRangeFactor{Start: start, End: end, Pos: pos}
	case lexer.LParen:
		// "(x, y)" as a Julia-mode initial value: only the x component
		// is addressable as a single EscapeExpression factor, so this
		// form is accepted as the X pixel coordinate specifically; y is
		// implied by the interpreter's own per-pixel loop (spec.md §4.I).
		p.advance()
		p.expect(lexer.Ident) // "x"
		p.expect(lexer.Comma)
		p.expect(lexer.Ident) // "y"
		p.expect(lexer.RParen)
		return &ast.EscapeXPixelCoord{Pos: pos}
	case lexer.Ident:
		name := p.advance().Text
		switch name {
		case "x", "X":
			return &ast.EscapeXPixelCoord{Pos: pos}
		case "y", "Y":
			return &ast.EscapeYPixelCoord{Pos: pos}
		default:
			return &ast.EscapeVariableFactor{Name: name, Pos: pos}
		}
	default:
		p.fail("expected an escape factor, got %v %q", p.tok.Kind, p.tok.Text)
		return nil
	}
}
