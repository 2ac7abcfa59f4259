// Package fractal draws L-system fractals.
//
// A fractal is drawn in the unit square, with the turtle starting at the
// origin facing along the x axis. Axioms may start with a setup symbol
// that moves the turtle into place. Drawing rules step forward by 1; the
// turtle input is scaled by the size of the fractal at the drawn depth so
// that the drawing fits the square.
package fractal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"

	"golang.org/x/image/math/f64"
	"lindenmayer.dev/affine"
	"lindenmayer.dev/canvas"
	"lindenmayer.dev/drawrule"
	"lindenmayer.dev/grammar"
	"lindenmayer.dev/internal/logging"
	"lindenmayer.dev/projection"
	"lindenmayer.dev/turtle"
)

// SizeFunc returns the approximate largest dimension, in drawing steps, of
// a fractal drawn at depth.
type SizeFunc func(depth int) float64

// Config describes a fractal.
type Config struct {
	// Name identifies the fractal in catalogs and URLs.
	Name string
	// Title is the human readable name.
	Title      string
	Axiom      string
	Rules      map[rune]string
	Draw       drawrule.Factory
	Iterations int
	Size       SizeFunc
}

// Fractal is an immutable L-system with drawing rules.
type Fractal struct {
	name       string
	title      string
	grammar    *grammar.Grammar
	rules      drawrule.Factory
	iterations int
	size       SizeFunc
	proj       *projection.Projector
}

var ErrInvalid = errors.New("fractal: invalid definition")

// New validates c and builds the fractal. Symbols of the alphabet without
// drawing rules are reported as a [drawrule.ConfigurationError].
func New(c Config) (*Fractal, error) {
	switch {
	case c.Name == "":
		return nil, fmt.Errorf("%w: empty name", ErrInvalid)
	case c.Draw == nil:
		return nil, fmt.Errorf("%w: %s: no drawing rules", ErrInvalid, c.Name)
	case c.Size == nil:
		return nil, fmt.Errorf("%w: %s: no size function", ErrInvalid, c.Name)
	case c.Iterations < 0:
		return nil, fmt.Errorf("%w: %s: negative iterations", ErrInvalid, c.Name)
	}
	if size := c.Size(c.Iterations); !validSize(size) {
		return nil, fmt.Errorf("%w: %s: size %v at depth %d", ErrInvalid, c.Name, size, c.Iterations)
	}
	g := grammar.New(c.Axiom, c.Rules)
	p, err := projection.New(g, c.Draw)
	if err != nil {
		return nil, fmt.Errorf("fractal: %s: %w", c.Name, err)
	}
	title := c.Title
	if title == "" {
		title = c.Name
	}
	return &Fractal{
		name:       c.Name,
		title:      title,
		grammar:    g,
		rules:      c.Draw,
		iterations: c.Iterations,
		size:       c.Size,
		proj:       p,
	}, nil
}

func (f *Fractal) Name() string                    { return f.name }
func (f *Fractal) Title() string                   { return f.title }
func (f *Fractal) Grammar() *grammar.Grammar       { return f.grammar }
func (f *Fractal) Iterations() int                 { return f.iterations }
func (f *Fractal) Projector() *projection.Projector { return f.proj }

// Size returns the approximate size of the fractal at depth.
func (f *Fractal) Size(depth int) float64 {
	return f.size(f.Depth(depth))
}

func validSize(size float64) bool {
	return size > 0 && !math.IsInf(size, 1)
}

// scale returns the size of the fractal at depth, rejecting sizes that
// cannot scale a drawing.
func (f *Fractal) scale(depth int) (float64, error) {
	size := f.size(depth)
	if !validSize(size) {
		return 0, fmt.Errorf("%w: %s: size %v at depth %d", ErrInvalid, f.name, size, depth)
	}
	return size, nil
}

// Depth resolves a requested depth, where negative depths select the
// default iterations.
func (f *Fractal) Depth(depth int) int {
	if depth < 0 {
		return f.iterations
	}
	return depth
}

// Steps returns the projected number of drawing steps at depth.
func (f *Fractal) Steps(depth int) (*big.Int, error) {
	return f.proj.Steps(f.Depth(depth))
}

// Options control a drawing.
type Options struct {
	// Depth is the number of rewrites. Negative values select the
	// fractal's default iterations.
	Depth int
	// Width is the side of the square drawn into, in canvas units.
	Width float64
	// StrokeWidth of the lines. Zero derives a width from the size of the
	// fractal.
	StrokeWidth float64
	// Fit measures the drawing first and scales it to fill the square,
	// instead of relying on the approximate size of the fractal.
	Fit bool
	// Margin around a fitted drawing, as a fraction of the width.
	Margin float64
	// Progress is called after every drawing step.
	Progress func(moved, expected uint64)
	Logger   *slog.Logger
}

// Result summarises a drawing.
type Result struct {
	Depth int
	// Symbols is the number of symbols interpreted.
	Symbols uint64
	// Steps is the number of drawing steps taken.
	Steps uint64
	// Expected is the projected number of drawing steps.
	Expected *big.Int
}

// Color is used for drawings without steps.
var Color = canvas.Hue(0)

// Draw draws the fractal onto c.
func (f *Fractal) Draw(ctx context.Context, c turtle.Canvas, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	depth := f.Depth(opts.Depth)
	width := opts.Width
	if width <= 0 {
		width = 1
	}
	size, err := f.scale(depth)
	if err != nil {
		return Result{}, err
	}
	pen := turtle.NewPen(c, width)
	pen.SetInputScale(size)
	if opts.Fit {
		r, err := f.Measure(ctx, depth)
		if err != nil {
			return Result{}, err
		}
		pen.SetOutput(affine.Mul(affine.UnitSquare(width), fitting(r, opts.Margin)))
	}
	sw := opts.StrokeWidth
	if sw <= 0 {
		sw = max(width/size/5, 0.25)
	}
	c.SetStrokeWidth(sw)
	res, err := f.run(ctx, pen, c, depth, opts.Progress)
	if err != nil {
		return res, err
	}
	if !res.Expected.IsUint64() || res.Expected.Uint64() != res.Steps {
		log.Warn("projected step count mismatch", "fractal", f.name, "depth", depth,
			"projected", res.Expected, "steps", res.Steps)
	}
	log.Debug("drew fractal", "fractal", f.name, "depth", depth,
		"symbols", res.Symbols, "steps", res.Steps, "moves", pen.Moves())
	return res, nil
}

// fitting maps the rectangle r of the unit square onto the unit square
// less margin, centred and preserving the aspect ratio.
func fitting(r canvas.Rect, margin float64) f64.Aff3 {
	if r.Empty() {
		return affine.Identity
	}
	margin = min(max(margin, 0), 0.45)
	size := max(r.Dx(), r.Dy())
	if size == 0 {
		return affine.Offsetting(affine.Sub(f64.Vec2{0.5, 0.5}, r.Min))
	}
	s := (1 - 2*margin) / size
	centre := affine.Scale(affine.Add(r.Min, r.Max), 0.5)
	return affine.Mul(
		affine.Offsetting(f64.Vec2{0.5, 0.5}),
		affine.Scaling(f64.Vec2{s, s}),
		affine.Offsetting(affine.Scale(centre, -1)),
	)
}

// Measure returns the bounds in the unit square of the lines drawn at
// depth.
func (f *Fractal) Measure(ctx context.Context, depth int) (canvas.Rect, error) {
	depth = f.Depth(depth)
	size, err := f.scale(depth)
	if err != nil {
		return canvas.Rect{}, err
	}
	b := canvas.NewBounds()
	pen := turtle.NewPen(b, 1)
	pen.SetInputScale(size)
	pen.SetOutput(affine.Identity)
	if _, err := f.run(ctx, pen, b, depth, nil); err != nil {
		return canvas.Rect{}, err
	}
	return b.Rect(), nil
}

// checkInterval is the number of symbols between cancellation checks.
const checkInterval = 1024

func (f *Fractal) run(ctx context.Context, pen *turtle.Pen, c turtle.Canvas, depth int, progress func(moved, expected uint64)) (Result, error) {
	expected, err := f.proj.Steps(depth)
	if err != nil {
		return Result{}, fmt.Errorf("fractal: %s: %w", f.name, err)
	}
	res := Result{Depth: depth, Expected: expected}
	seq, err := f.grammar.Generate(depth)
	if errors.Is(err, grammar.ErrRecursionLimit) {
		seq = f.grammar.Iterate(depth)
	} else if err != nil {
		return res, fmt.Errorf("fractal: %s: %w", f.name, err)
	}
	total, _ := new(big.Float).SetInt(expected).Float64()
	expectedSteps := uint64(math.MaxUint64)
	if expected.IsUint64() {
		expectedSteps = expected.Uint64()
	}
	table := f.rules(pen, depth)
	if err := drawrule.Validate(table, f.grammar.Symbols()); err != nil {
		return res, fmt.Errorf("fractal: %s: depth %d: %w", f.name, depth, err)
	}
	level := -1
	if total == 0 {
		c.SetColor(Color)
	}
	for s := range seq {
		if res.Symbols%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if total > 0 {
			if l := canvas.Level(float64(res.Steps), total); l != level {
				level = l
				c.SetColor(canvas.Hue(float64(l) / canvas.Levels))
			}
		}
		step, err := table[s]()
		if err != nil {
			return res, fmt.Errorf("fractal: %s: symbol %d (%s): %w", f.name, res.Symbols, s, err)
		}
		res.Symbols++
		if step {
			res.Steps++
			if progress != nil {
				progress(res.Steps, expectedSteps)
			}
		}
	}
	return res, nil
}
