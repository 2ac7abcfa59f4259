// Package turtle defines the turtle capabilities drawing rules act on,
// and a pen turtle that draws onto a [Canvas].
package turtle

import (
	"errors"
	"image/color"
	"math"

	"golang.org/x/image/math/f64"
	"lindenmayer.dev/affine"
)

var ErrEmptyStateStack = errors.New("turtle: restore from empty state stack")

// Turtle is the set of operations drawing rules may perform. Distances are
// in drawing steps, angles in degrees counter-clockwise.
type Turtle interface {
	Forward(distance float64)
	Turn(degrees float64)
	// Jump moves the turtle to (x, y) in the unit square without drawing.
	Jump(x, y float64)
	SetHeading(degrees float64)
	PenUp()
	PenDown()
	SaveState()
	// RestoreState pops the most recently saved state. It fails with
	// ErrEmptyStateStack if no state is saved.
	RestoreState() error
}

// Canvas is implemented by drawing backends.
type Canvas interface {
	DrawLine(x0, y0, x1, y1 float64)
	SetColor(c color.Color)
	SetStrokeWidth(w float64)
}

// Nop is a turtle that ignores every operation. It is used to probe drawing
// rules without side effects.
type Nop struct{}

func (Nop) Forward(float64)       {}
func (Nop) Turn(float64)          {}
func (Nop) Jump(float64, float64) {}
func (Nop) SetHeading(float64)    {}
func (Nop) PenUp()                {}
func (Nop) PenDown()              {}
func (Nop) SaveState()            {}
func (Nop) RestoreState() error   { return nil }

// State is the saved part of a turtle.
type State struct {
	// X, Y is the position in the unit square.
	X, Y float64
	// Heading in degrees, in [0;360[.
	Heading float64
	PenDown bool
}

// Pen is a turtle that draws the lines it moves along onto a canvas. The
// turtle moves in the unit square with the y axis pointing up; a Forward
// step of 1 covers 1/scale of the square.
type Pen struct {
	canvas Canvas
	state  State
	stack  []State
	scale  float64
	out    f64.Aff3
	moves  uint64
}

// NewPen returns a turtle at the origin heading along the x axis with the
// pen down, drawing the unit square onto a width by width area of c.
func NewPen(c Canvas, width float64) *Pen {
	return &Pen{
		canvas: c,
		state:  State{PenDown: true},
		scale:  1,
		out:    affine.UnitSquare(width),
	}
}

// SetInputScale sets the number of Forward steps that span the unit
// square.
func (p *Pen) SetInputScale(s float64) {
	p.scale = s
}

// SetOutput sets the transform from the unit square to canvas
// coordinates.
func (p *Pen) SetOutput(m f64.Aff3) {
	p.out = m
}

func (p *Pen) Forward(distance float64) {
	from := f64.Vec2{p.state.X, p.state.Y}
	to := affine.Add(from, affine.Polar(distance/p.scale, p.state.Heading))
	if p.state.PenDown {
		a, b := affine.Transform(p.out, from), affine.Transform(p.out, to)
		p.canvas.DrawLine(a[0], a[1], b[0], b[1])
	}
	p.state.X, p.state.Y = to[0], to[1]
	p.moves++
}

func (p *Pen) Turn(degrees float64) {
	p.state.Heading = normalize(p.state.Heading + degrees)
}

func (p *Pen) SetHeading(degrees float64) {
	p.state.Heading = normalize(degrees)
}

func (p *Pen) Jump(x, y float64) {
	p.state.X, p.state.Y = x, y
}

func (p *Pen) PenUp()   { p.state.PenDown = false }
func (p *Pen) PenDown() { p.state.PenDown = true }

func (p *Pen) SaveState() {
	p.stack = append(p.stack, p.state)
}

func (p *Pen) RestoreState() error {
	n := len(p.stack)
	if n == 0 {
		return ErrEmptyStateStack
	}
	p.state = p.stack[n-1]
	p.stack = p.stack[:n-1]
	return nil
}

// State returns the current position, heading and pen state.
func (p *Pen) State() State {
	return p.state
}

// Saved returns the number of saved states.
func (p *Pen) Saved() int {
	return len(p.stack)
}

// Moves returns the number of Forward calls.
func (p *Pen) Moves() uint64 {
	return p.moves
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
