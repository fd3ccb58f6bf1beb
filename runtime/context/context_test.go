package context_test

import (
	"testing"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/runtime/context"
	"github.com/fractal-lang/fractal/runtime/raster"
	"github.com/stretchr/testify/assert"
)

func TestParseColorWithHash(t *testing.T) {
	assert.Equal(t, raster.RGB{R: 0xFF, G: 0xA0, B: 0x0B}, context.ParseColor("#FFA00B"))
}

func TestParseColorBareHex(t *testing.T) {
	assert.Equal(t, raster.RGB{R: 0x00, G: 0xFF, B: 0x00}, context.ParseColor("00FF00"))
}

func TestParseColorMalformedIsBlack(t *testing.T) {
	cases := []string{"", "#FFF", "#GGGGGG", "red", "#12345"}
	for _, s := range cases {
		assert.Equal(t, raster.RGB{}, context.ParseColor(s), "input %q", s)
	}
}

func TestContextAppliesColorSentence(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	program.Append(&ast.ColorSentence{Start: "#112233", End: "#445566"})

	c := context.New(program)
	assert.Equal(t, raster.RGB{R: 0x11, G: 0x22, B: 0x33}, c.ColorStart)
	assert.Equal(t, raster.RGB{R: 0x44, G: 0x55, B: 0x66}, c.ColorEnd)
}

func TestContextClearsBitmapToColorStart(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	program.Append(&ast.SizeSentence{Width: 3, Height: 3})
	program.Append(&ast.ColorSentence{Start: "#ABCDEF", End: "#000000"})

	c := context.New(program)
	want := raster.RGB{R: 0xAB, G: 0xCD, B: 0xEF}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			assert.Equal(t, want, c.Bitmap.At(x, y))
		}
	}
}

func TestWithColorOverridesProgramColor(t *testing.T) {
	program := ast.NewProgram(ast.Position{})
	program.Append(&ast.ColorSentence{Start: "#112233", End: "#445566"})

	override := raster.RGB{R: 9, G: 9, B: 9}
	c := context.New(program, context.WithColor(override, override))
	assert.Equal(t, override, c.ColorStart)
	assert.Equal(t, override, c.Bitmap.At(0, 0))
}

func TestWithViewOverridesBounds(t *testing.T) {
	c := context.New(nil, context.WithView(-5, 5, -10, 10))
	assert.Equal(t, -5.0, c.MinX)
	assert.Equal(t, 5.0, c.MaxX)
	assert.Equal(t, -10.0, c.MinY)
	assert.Equal(t, 10.0, c.MaxY)
}

func TestDefaultContextHasDefaultColorsAndNoColorSentence(t *testing.T) {
	c := context.New(nil)
	assert.Equal(t, context.DefaultColorStart, c.ColorStart)
	assert.Equal(t, context.DefaultColorEnd, c.ColorEnd)
	assert.Equal(t, context.DefaultColorStart, c.Bitmap.At(0, 0))
}
