// Package printer renders a Program as an indented, human-readable
// dump for debugging — the Go equivalent of the original toolchain's
// AbstractSyntaxTreePrinter. Printing is side-effect-free: it never
// mutates the tree it walks.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fractal-lang/fractal/core/ast"
)

// Print returns an indented, deterministic dump of the program.
func Print(p *ast.Program) string {
	var b strings.Builder
	if p == nil {
		b.WriteString("<nil program>\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Program\n")
	for _, s := range p.Sentences {
		printSentence(&b, s, 1)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printSentence(b *strings.Builder, s ast.Sentence, depth int) {
	switch n := s.(type) {
	case *ast.ViewSentence:
		indent(b, depth)
		fmt.Fprintf(b, "View x=[%s, %s] y=[%s, %s]\n",
			printExpr(n.X.Start), printExpr(n.X.End), printExpr(n.Y.Start), printExpr(n.Y.End))
	case *ast.SizeSentence:
		indent(b, depth)
		fmt.Fprintf(b, "Size %d x %d\n", n.Width, n.Height)
	case *ast.ColorSentence:
		indent(b, depth)
		fmt.Fprintf(b, "Color %s -> %s\n", n.Start, n.End)
	case *ast.StartSentence:
		indent(b, depth)
		fmt.Fprintf(b, "Start %s\n", n.RuleName)
	case *ast.ExpressionSentence:
		indent(b, depth)
		fmt.Fprintf(b, "Expression %s\n", printExpr(n.Expr))
	case *ast.RuleDecl:
		indent(b, depth)
		fmt.Fprintf(b, "Rule %s(%s)\n", n.Name, strings.Join(n.Params, ", "))
		for _, rs := range n.Body {
			printRuleSentence(b, rs, depth+1)
		}
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown sentence %T>\n", n)
	}
}

func printRuleSentence(b *strings.Builder, rs ast.RuleSentence, depth int) {
	switch n := rs.(type) {
	case *ast.PolygonSentence:
		indent(b, depth)
		b.WriteString("Polygon")
		for _, pt := range n.Points {
			fmt.Fprintf(b, " (%s, %s)", printExpr(pt.X), printExpr(pt.Y))
		}
		b.WriteByte('\n')
	case *ast.CallSentence:
		indent(b, depth)
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = printExpr(a)
		}
		fmt.Fprintf(b, "Call %s(%s)\n", n.Callee, strings.Join(args, ", "))
	case *ast.IfSentence:
		indent(b, depth)
		fmt.Fprintf(b, "If %s\n", printExpr(n.Condition))
	case *ast.EscapeSentence:
		indent(b, depth)
		fmt.Fprintf(b, "Escape %s := %s; %s := %s; until %s; max %d\n",
			n.Variable, printEscapeExpr(n.InitialValue),
			n.Variable, printEscapeExpr(n.RecursiveAssign),
			printEscapeExpr(n.UntilCondition), n.MaxIterations)
	case *ast.TransformationSentence:
		indent(b, depth)
		fmt.Fprintf(b, "Transformation %d%%\n", n.Probability)
		for _, ts := range n.Sentences {
			printTransformSentence(b, ts, depth+1)
		}
	case *ast.PointsStatement:
		indent(b, depth)
		fmt.Fprintf(b, "Points %d\n", n.Count)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown rule sentence %T>\n", n)
	}
}

func printTransformSentence(b *strings.Builder, ts ast.TransformSentence, depth int) {
	indent(b, depth)
	switch n := ts.(type) {
	case *ast.TranslateSentence:
		fmt.Fprintf(b, "Translate(%s, %s)\n", printExpr(n.X), printExpr(n.Y))
	case *ast.ScaleSentence:
		fmt.Fprintf(b, "Scale(%s, %s)\n", printExpr(n.X), printExpr(n.Y))
	case *ast.ShearSentence:
		fmt.Fprintf(b, "Shear(%s, %s)\n", printExpr(n.X), printExpr(n.Y))
	case *ast.RotateSentence:
		fmt.Fprintf(b, "Rotate(%s)\n", printExpr(n.Angle))
	default:
		fmt.Fprintf(b, "<unknown transform %T>\n", n)
	}
}

func printExpr(e ast.Expression) string {
	if e == nil {
		return "<nil>"
	}
	switch n := e.(type) {
	case *ast.BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", printExpr(n.Left), opSymbol(n.K), printExpr(n.Right))
	case *ast.AbsoluteValueExpression:
		return fmt.Sprintf("|%s|", printExpr(n.Operand))
	case *ast.FactorExpression:
		return printFactor(n.F)
	default:
		return fmt.Sprintf("<unknown expr %T>", n)
	}
}

func printFactor(f ast.Factor) string {
	switch n := f.(type) {
	case *ast.IntegerConstant:
		return strconv.Itoa(n.Value)
	case *ast.DoubleConstant:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.VariableFactor:
		return n.Name
	case *ast.NestedExpression:
		return fmt.Sprintf("(%s)", printExpr(n.Inner))
	case *ast.XPixelCoord:
		return "x"
	case *ast.YPixelCoord:
		return "y"
	default:
		return fmt.Sprintf("<unknown factor %T>", n)
	}
}

func printEscapeExpr(e ast.EscapeExpression) string {
	if e == nil {
		return "<nil>"
	}
	switch n := e.(type) {
	case *ast.EscapeBinaryExpression:
		return fmt.Sprintf("(%s %s %s)", printEscapeExpr(n.Left), opSymbol(n.K), printEscapeExpr(n.Right))
	case *ast.EscapeAbsoluteValueExpression:
		return fmt.Sprintf("|%s|", printEscapeExpr(n.Operand))
	case *ast.EscapeFactorExpression:
		return printEscapeFactor(n.F)
	default:
		return fmt.Sprintf("<unknown escape expr %T>", n)
	}
}

func printEscapeFactor(f ast.EscapeFactor) string {
	switch n := f.(type) {
	case *ast.EscapeIntegerConstant:
		return strconv.Itoa(n.Value)
	case *ast.EscapeDoubleConstant:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.EscapeVariableFactor:
		return n.Name
	case *ast.EscapeRangeFactor:
		return fmt.Sprintf("[%s, %s]", printEscapeExpr(n.Start), printEscapeExpr(n.End))
	case *ast.EscapeXPixelCoord:
		return "x"
	case *ast.EscapeYPixelCoord:
		return "y"
	default:
		return fmt.Sprintf("<unknown escape factor %T>", n)
	}
}

func opSymbol(k ast.ExpressionKind) string {
	switch k {
	case ast.ExprAddition:
		return "+"
	case ast.ExprSubtraction:
		return "-"
	case ast.ExprMultiplication:
		return "*"
	case ast.ExprDivision:
		return "/"
	case ast.ExprLowerThan:
		return "<"
	case ast.ExprGreaterThan:
		return ">"
	default:
		return "?"
	}
}
