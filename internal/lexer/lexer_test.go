package lexer_test

import (
	"testing"

	"github.com/fractal-lang/fractal/internal/lexer"
	"github.com/stretchr/testify/assert"
)

func tokenKinds(src string) []lexer.Kind {
	l := lexer.New(src)
	var kinds []lexer.Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == lexer.EOF {
			return kinds
		}
	}
}

func TestLexesKeywordsAndPunctuation(t *testing.T) {
	kinds := tokenKinds("size 100 100;")
	assert.Equal(t, []lexer.Kind{lexer.KwSize, lexer.Int, lexer.Int, lexer.Semi, lexer.EOF}, kinds)
}

func TestLexesHashColor(t *testing.T) {
	l := lexer.New("#FF00AA")
	tok := l.Next()
	assert.Equal(t, lexer.Hex, tok.Kind)
	assert.Equal(t, "#FF00AA", tok.Text)
}

func TestLexesBareHexColor(t *testing.T) {
	l := lexer.New("00FF00")
	tok := l.Next()
	assert.Equal(t, lexer.Hex, tok.Kind)
	assert.Equal(t, "00FF00", tok.Text)
}

func TestLexesIdentifierThatIsNotHex(t *testing.T) {
	l := lexer.New("polygon2")
	tok := l.Next()
	assert.Equal(t, lexer.Ident, tok.Kind)
}

func TestLexesFloat(t *testing.T) {
	l := lexer.New("3.14")
	tok := l.Next()
	assert.Equal(t, lexer.Float, tok.Kind)
	assert.Equal(t, "3.14", tok.Text)
}

func TestLexesAssignOperator(t *testing.T) {
	kinds := tokenKinds("z := 0")
	assert.Equal(t, []lexer.Kind{lexer.Ident, lexer.Assign, lexer.Int, lexer.EOF}, kinds)
}

func TestSkipsLineComments(t *testing.T) {
	kinds := tokenKinds("size 1 1 // trailing comment\n;")
	assert.Equal(t, []lexer.Kind{lexer.KwSize, lexer.Int, lexer.Int, lexer.Semi, lexer.EOF}, kinds)
}

func TestTracksLineAndColumn(t *testing.T) {
	l := lexer.New("size\n  100")
	first := l.Next()
	assert.Equal(t, 1, first.Line)
	second := l.Next()
	assert.Equal(t, 2, second.Line)
	assert.Equal(t, 3, second.Column)
}
