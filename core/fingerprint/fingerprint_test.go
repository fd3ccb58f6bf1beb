package fingerprint_test

import (
	"testing"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/core/fingerprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProgram(width int) *ast.Program {
	p := ast.NewProgram(ast.Position{})
	p.Append(&ast.SizeSentence{Width: width, Height: 100})
	p.Append(&ast.StartSentence{RuleName: "T"})
	p.Append(&ast.RuleDecl{Name: "T"})
	return p
}

func TestFingerprintDeterministic(t *testing.T) {
	p1 := buildProgram(100)
	p2 := buildProgram(100)

	f1, err := fingerprint.Of(p1)
	require.NoError(t, err)
	f2, err := fingerprint.Of(p2)
	require.NoError(t, err)

	assert.Equal(t, f1, f2)
}

func TestFingerprintDiffersOnSemanticChange(t *testing.T) {
	f1, err := fingerprint.Of(buildProgram(100))
	require.NoError(t, err)
	f2, err := fingerprint.Of(buildProgram(200))
	require.NoError(t, err)

	assert.NotEqual(t, f1, f2)
}

func TestSeedFromProgramIsStable(t *testing.T) {
	p := buildProgram(100)
	s1, err := fingerprint.SeedFromProgram(p)
	require.NoError(t, err)
	s2, err := fingerprint.SeedFromProgram(p)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}
