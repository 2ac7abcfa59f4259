// Package canvas contains drawing helpers shared by the canvas backends.
package canvas

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/math/f64"
	"lindenmayer.dev/turtle"
)

// Levels is the number of distinct progress hues.
const Levels = 256

// Hue returns the fully saturated colour at progress in [0, 1] along the
// colour wheel, starting and ending at red.
func Hue(progress float64) color.Color {
	progress = min(max(progress, 0), 1)
	return colorful.Hsv(360*progress, 1, 1)
}

// Level quantises the progress moved/expected to one of Levels hues. It
// returns 0 for expected <= 0.
func Level(moved, expected float64) int {
	if expected <= 0 {
		return 0
	}
	l := int(math.Floor((Levels - 1) * moved / expected))
	return min(max(l, 0), Levels-1)
}

// HueOf returns the hue in degrees of c, and false for colours without a
// hue.
func HueOf(c color.Color) (float64, bool) {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return 0, false
	}
	h, s, _ := cc.Hsv()
	return h, s > 0
}

// Rect is an axis aligned rectangle.
type Rect struct {
	Min, Max f64.Vec2
}

func (r Rect) Dx() float64 { return r.Max[0] - r.Min[0] }
func (r Rect) Dy() float64 { return r.Max[1] - r.Min[1] }

// Empty reports whether r contains no points.
func (r Rect) Empty() bool {
	return r.Min[0] > r.Max[0] || r.Min[1] > r.Max[1]
}

// Union returns the smallest rectangle containing r and p.
func (r Rect) Union(p f64.Vec2) Rect {
	if r.Empty() {
		return Rect{Min: p, Max: p}
	}
	return Rect{
		Min: f64.Vec2{min(r.Min[0], p[0]), min(r.Min[1], p[1])},
		Max: f64.Vec2{max(r.Max[0], p[0]), max(r.Max[1], p[1])},
	}
}

// Bounds is a canvas that measures the extent of the lines drawn on it.
type Bounds struct {
	r     Rect
	lines int
}

// NewBounds returns an empty Bounds.
func NewBounds() *Bounds {
	return &Bounds{r: Rect{
		Min: f64.Vec2{math.Inf(1), math.Inf(1)},
		Max: f64.Vec2{math.Inf(-1), math.Inf(-1)},
	}}
}

func (b *Bounds) DrawLine(x0, y0, x1, y1 float64) {
	b.r = b.r.Union(f64.Vec2{x0, y0}).Union(f64.Vec2{x1, y1})
	b.lines++
}

func (b *Bounds) SetColor(color.Color)   {}
func (b *Bounds) SetStrokeWidth(float64) {}

// Rect returns the bounding rectangle of the lines, which is empty if no
// lines were drawn.
func (b *Bounds) Rect() Rect {
	return b.r
}

// Lines returns the number of lines drawn.
func (b *Bounds) Lines() int {
	return b.lines
}

// Multi returns a canvas that duplicates its drawing to every canvas in cs.
func Multi(cs ...turtle.Canvas) turtle.Canvas {
	return multi(append([]turtle.Canvas(nil), cs...))
}

type multi []turtle.Canvas

func (m multi) DrawLine(x0, y0, x1, y1 float64) {
	for _, c := range m {
		c.DrawLine(x0, y0, x1, y1)
	}
}

func (m multi) SetColor(col color.Color) {
	for _, c := range m {
		c.SetColor(col)
	}
}

func (m multi) SetStrokeWidth(w float64) {
	for _, c := range m {
		c.SetStrokeWidth(w)
	}
}
