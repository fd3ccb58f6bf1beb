// Package fingerprint computes a canonical, content-addressed digest
// of a validated Program, mirroring the canonicalize-then-hash pattern
// used for plan hashing elsewhere in the corpus: build an
// order-independent intermediate form, CBOR-encode it deterministically,
// then keyed-hash the bytes. It backs `fractal plan` (SPEC_FULL.md) and
// gives tests a cheap way to assert the determinism property (spec.md
// §8) without rendering a full bitmap.
package fingerprint

import (
	"fmt"
	"sort"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/core/invariant"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// canonicalProgram is the intermediate, placeholder-free form used only
// for hashing. It intentionally drops source Position information —
// two programs that differ only in whitespace/line numbers must hash
// identically.
type canonicalProgram struct {
	Size  canonicalSize   `cbor:"size"`
	View  canonicalView   `cbor:"view"`
	Color canonicalColor  `cbor:"color"`
	Start string          `cbor:"start"`
	Rules []canonicalRule `cbor:"rules"`
}

type canonicalSize struct {
	Width, Height int
}

type canonicalView struct {
	Present                    bool
	MinXLit, MaxXLit           string
	MinYLit, MaxYLit           string
}

type canonicalColor struct {
	Start, End string
}

type canonicalRule struct {
	Name   string
	Params []string
	Body   []string // best-effort textual rendering of each rule sentence
}

// defaultSeed is the BLAKE2b key used for the default, unkeyed
// fingerprint mode (ModePlan-style: deterministic, not secret).
var defaultSeed = [32]byte{'f', 'r', 'a', 'c', 't', 'a', 'l', '-', 'p', 'l', 'a', 'n'}

// Of computes the fingerprint of a program as a lowercase hex string.
// Two programs that are textually different but semantically
// identical after canonicalization (e.g. reordered Size/View/Color
// sentences) hash to the same value.
func Of(p *ast.Program) (string, error) {
	// Unlike printer.Print's graceful nil-program dump, a nil program
	// here means a caller skipped validation; that's a programming
	// error in this toolchain, not a user-facing one.
	invariant.NotNil(p, "program")
	canon := canonicalize(p)
	encoded, err := cbor.Marshal(canon)
	if err != nil {
		return "", fmt.Errorf("fingerprint: cbor encode: %w", err)
	}

	h, err := blake2b.New256(defaultSeed[:])
	if err != nil {
		return "", fmt.Errorf("fingerprint: blake2b init: %w", err)
	}
	if _, err := h.Write(encoded); err != nil {
		return "", fmt.Errorf("fingerprint: hash write: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:32], nil
}

// SeedFromProgram derives a deterministic IFS/PRNG seed (§5's
// "embedder overrides the seed" knob) from a program's fingerprint:
// re-rendering the same program with this seed always draws the same
// chaos-game sequence. The CLI does not call it; its --seed flag takes
// only an integer.
func SeedFromProgram(p *ast.Program) (int64, error) {
	fp, err := Of(p)
	if err != nil {
		return 0, err
	}
	var seed int64
	for i := 0; i < 8 && i < len(fp); i++ {
		seed = seed<<8 | int64(fp[i])
	}
	return seed, nil
}

func canonicalize(p *ast.Program) canonicalProgram {
	var c canonicalProgram
	if p == nil {
		return c
	}
	if sz := p.Size(); sz != nil {
		c.Size = canonicalSize{Width: sz.Width, Height: sz.Height}
	}
	if v := p.View(); v != nil {
		c.View = canonicalView{
			Present: true,
			MinXLit: exprText(v.X.Start), MaxXLit: exprText(v.X.End),
			MinYLit: exprText(v.Y.Start), MaxYLit: exprText(v.Y.End),
		}
	}
	if col := p.Color(); col != nil {
		c.Color = canonicalColor{Start: col.Start, End: col.End}
	}
	if s := p.Start(); s != nil {
		c.Start = s.RuleName
	}
	for _, sent := range p.Sentences {
		rule, ok := sent.(*ast.RuleDecl)
		if !ok {
			continue
		}
		cr := canonicalRule{Name: rule.Name, Params: append([]string(nil), rule.Params...)}
		for _, rs := range rule.Body {
			cr.Body = append(cr.Body, ruleSentenceText(rs))
		}
		c.Rules = append(c.Rules, cr)
	}
	sort.Slice(c.Rules, func(i, j int) bool { return c.Rules[i].Name < c.Rules[j].Name })
	return c
}

// exprText and ruleSentenceText produce a stable textual rendering for
// hashing purposes only; they deliberately reuse a minimal subset of
// the printer's recursive shape rather than importing package printer,
// to keep the canonical form decoupled from debug-dump formatting
// changes.
func exprText(e ast.Expression) string {
	if e == nil {
		return ""
	}
	switch n := e.(type) {
	case *ast.BinaryExpression:
		return fmt.Sprintf("(%d %s %s)", n.K, exprText(n.Left), exprText(n.Right))
	case *ast.AbsoluteValueExpression:
		return fmt.Sprintf("abs(%s)", exprText(n.Operand))
	case *ast.FactorExpression:
		return factorText(n.F)
	default:
		return fmt.Sprintf("?%T", n)
	}
}

func factorText(f ast.Factor) string {
	switch n := f.(type) {
	case *ast.IntegerConstant:
		return fmt.Sprintf("i%d", n.Value)
	case *ast.DoubleConstant:
		return fmt.Sprintf("d%v", n.Value)
	case *ast.VariableFactor:
		return "v:" + n.Name
	case *ast.NestedExpression:
		return "(" + exprText(n.Inner) + ")"
	case *ast.XPixelCoord:
		return "x"
	case *ast.YPixelCoord:
		return "y"
	default:
		return fmt.Sprintf("?%T", n)
	}
}

func ruleSentenceText(rs ast.RuleSentence) string {
	switch n := rs.(type) {
	case *ast.PolygonSentence:
		s := "polygon"
		for _, pt := range n.Points {
			s += fmt.Sprintf("(%s,%s)", exprText(pt.X), exprText(pt.Y))
		}
		return s
	case *ast.CallSentence:
		s := "call:" + n.Callee
		for _, a := range n.Args {
			s += "," + exprText(a)
		}
		return s
	case *ast.IfSentence:
		return "if:" + exprText(n.Condition)
	case *ast.PointsStatement:
		return fmt.Sprintf("points:%d", n.Count)
	case *ast.EscapeSentence:
		return fmt.Sprintf("escape:%d", n.MaxIterations)
	case *ast.TransformationSentence:
		return fmt.Sprintf("transform:%d", n.Probability)
	default:
		return fmt.Sprintf("?%T", n)
	}
}
