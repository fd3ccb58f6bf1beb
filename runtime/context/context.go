// Package context implements the render context: the single,
// process-wide value shared by every interpreter stage for the
// duration of one generate call (spec.md §4.D). It owns the canvas,
// the view/color configuration, the dynamic scope stack, and the PRNG
// used by the IFS stage.
package context

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/fractal-lang/fractal/core/ast"
	"github.com/fractal-lang/fractal/runtime/raster"
)

// Defaults per spec.md §6.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
	DefaultMinX   = -2.0
	DefaultMaxX   = 2.0
	DefaultMinY   = -2.0
	DefaultMaxY   = 2.0
	DefaultPoints = 100000
)

// DefaultColorStart/End are black -> white, spec.md §6.
var (
	DefaultColorStart = raster.RGB{R: 0, G: 0, B: 0}
	DefaultColorEnd   = raster.RGB{R: 255, G: 255, B: 255}
)

// binding is one (name, value) entry on the dynamic scope stack.
type binding struct {
	name  string
	value float64
}

// Context is the render context. It is exclusively owned by the
// active render call (spec.md §5): no operation suspends and nothing
// here is safe to share across goroutines.
type Context struct {
	Width, Height                  int
	MinX, MaxX, MinY, MaxY         float64
	ColorStart, ColorEnd           raster.RGB
	Bitmap                         *raster.Bitmap
	Program                        *ast.Program
	NumPoints                      int
	CurrentPixelX, CurrentPixelY   float64

	scope []binding
	rng   *rand.Rand
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithSeed fixes the PRNG seed instead of the wall-clock default
// (spec.md §5: "seeded from wall-clock time... unless the embedder
// overrides the seed").
func WithSeed(seed int64) Option {
	return func(c *Context) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithView overrides the world-coordinate viewport. Range's bounds are
// Expressions (they may reference no variables, but are still
// evaluated by the eval package), so the caller evaluates them and
// passes plain float64s here rather than this package importing eval
// directly and creating an eval<->context import cycle.
func WithView(minX, maxX, minY, maxY float64) Option {
	return func(c *Context) {
		c.MinX, c.MaxX = minX, maxX
		c.MinY, c.MaxY = minY, maxY
	}
}

// WithColor overrides the gradient endpoints.
func WithColor(start, end raster.RGB) Option {
	return func(c *Context) { c.ColorStart, c.ColorEnd = start, end }
}

// New builds a Context from a Program's declared Size/View/Color
// sentences, falling back to spec.md §6 defaults for anything absent.
func New(program *ast.Program, opts ...Option) *Context {
	c := &Context{
		Width: DefaultWidth, Height: DefaultHeight,
		MinX: DefaultMinX, MaxX: DefaultMaxX,
		MinY: DefaultMinY, MaxY: DefaultMaxY,
		ColorStart: DefaultColorStart, ColorEnd: DefaultColorEnd,
		Program:   program,
		NumPoints: DefaultPoints,
	}

	if program != nil {
		if sz := program.Size(); sz != nil {
			c.Width, c.Height = sz.Width, sz.Height
		}
		if col := program.Color(); col != nil {
			c.ColorStart = ParseColor(col.Start)
			c.ColorEnd = ParseColor(col.End)
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(wallClockSeed()))
	}

	// The original interpreter clears the canvas to colorStart before
	// rendering, rather than leaving it at a zero-valued black.
	c.Bitmap = raster.NewBitmap(c.Width, c.Height)
	c.Bitmap.Clear(c.ColorStart)

	return c
}

// ParseColor resolves a DSL color string ("#RRGGBB" or "RRGGBB") to an
// RGB triple. Anything else - wrong length, non-hex digits - parses to
// black, matching the original interpreter's parseHexColor.
func ParseColor(s string) raster.RGB {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return raster.RGB{}
	}
	r, errR := strconv.ParseUint(s[0:2], 16, 8)
	g, errG := strconv.ParseUint(s[2:4], 16, 8)
	b, errB := strconv.ParseUint(s[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return raster.RGB{}
	}
	return raster.RGB{R: byte(r), G: byte(g), B: byte(b)}
}

// Rand exposes the context's PRNG to the IFS stage (4.H).
func (c *Context) Rand() *rand.Rand { return c.rng }

// PushScope binds name to value, innermost first. Returns nothing;
// pair with PopScope in a defer or explicit call to keep the stack
// balanced (the rule VM asserts this via core/invariant).
func (c *Context) PushScope(name string, value float64) {
	c.scope = append(c.scope, binding{name: name, value: value})
}

// PopScope removes the most recently pushed binding. No-op on an
// empty stack.
func (c *Context) PopScope() {
	if len(c.scope) == 0 {
		return
	}
	c.scope = c.scope[:len(c.scope)-1]
}

// ScopeDepth returns the current number of bound names, for the
// scope-hygiene testable property (spec.md §8).
func (c *Context) ScopeDepth() int { return len(c.scope) }

// Lookup resolves name innermost-first; unresolved names evaluate to
// 0.0 per spec.md §4.E (the validator should have rejected these).
func (c *Context) Lookup(name string) (float64, bool) {
	for i := len(c.scope) - 1; i >= 0; i-- {
		if c.scope[i].name == name {
			return c.scope[i].value, true
		}
	}
	return 0.0, false
}

// MapPoint implements spec.md §4.D's coordinate mapping:
//
//	px = floor((wx - minX)/(maxX - minX) * (width - 1))
//	py = floor((wy - minY)/(maxY - minY) * (height - 1))
//
// A degenerate range (max == min on either axis) maps to 0 on that
// axis. The result is not clamped to the canvas; SetPixel is the
// clamp point (spec.md: "pixels outside [0,width) x [0,height) are
// silently discarded").
func (c *Context) MapPoint(wx, wy float64) (int, int) {
	px := 0
	if c.MaxX != c.MinX {
		px = int((wx - c.MinX) / (c.MaxX - c.MinX) * float64(c.Width-1))
	}
	py := 0
	if c.MaxY != c.MinY {
		py = int((wy - c.MinY) / (c.MaxY - c.MinY) * float64(c.Height-1))
	}
	return px, py
}

// wallClockSeed is only called when no WithSeed option set the PRNG;
// kept as a function value (not a direct time.Now() call) so it is the
// single place non-determinism enters the package.
var wallClockSeed = func() int64 {
	return nanoSeed()
}
