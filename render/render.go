// Package render draws fractals into the supported output formats.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/muesli/termenv"
	"lindenmayer.dev/canvas/raster"
	"lindenmayer.dev/canvas/record"
	"lindenmayer.dev/canvas/svg"
	"lindenmayer.dev/canvas/term"
	"lindenmayer.dev/fractal"
	"lindenmayer.dev/plotter"
)

// Format is an output format.
type Format string

const (
	PNG  Format = "png"
	SVG  Format = "svg"
	CBOR Format = "cbor"
	Term Format = "term"
	HPGL Format = "hpgl"
)

// Formats lists the formats in order of preference.
var Formats = []Format{PNG, SVG, CBOR, Term, HPGL}

var ErrFormat = errors.New("render: unknown format")

// ParseFormat parses the name of a format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case SVG:
		return "image/svg+xml"
	case CBOR:
		return "application/cbor"
	case HPGL:
		return "application/vnd.hp-hpgl"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Options extend the drawing options with format specific settings.
type Options struct {
	fractal.Options
	// Cols is the number of terminal columns of a Term rendering. Rows are
	// half as many, for cells twice as tall as they are wide.
	Cols    int
	Profile termenv.Profile
	Plotter plotter.Options
}

// Render draws f in format to w.
func Render(ctx context.Context, w io.Writer, f *fractal.Fractal, format Format, opts Options) (fractal.Result, error) {
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	switch format {
	case PNG:
		c := raster.New(int(math.Ceil(opts.Width)))
		res, err := f.Draw(ctx, c, opts.Options)
		if err != nil {
			return res, err
		}
		return res, c.EncodePNG(w)
	case SVG:
		c := svg.New(w, opts.Width)
		res, err := f.Draw(ctx, c, opts.Options)
		if err != nil {
			return res, err
		}
		return res, c.Close()
	case CBOR:
		r := record.New()
		res, err := f.Draw(ctx, r, opts.Options)
		if err != nil {
			return res, err
		}
		d := record.Drawing{Name: f.Name(), Width: opts.Width, Segments: r.Segments()}
		return res, record.Encode(w, d)
	case Term:
		cols := opts.Cols
		if cols <= 0 {
			cols = 80
		}
		c := term.New(cols, max(cols/2, 1), opts.Width, opts.Profile)
		res, err := f.Draw(ctx, c, opts.Options)
		if err != nil {
			return res, err
		}
		return res, c.Render(w)
	case HPGL:
		po := opts.Plotter
		po.Width = opts.Width
		p := plotter.New(w, po)
		res, err := f.Draw(ctx, p, opts.Options)
		if cerr := p.Close(); err == nil {
			err = cerr
		}
		return res, err
	default:
		return fractal.Result{}, fmt.Errorf("%w: %q", ErrFormat, format)
	}
}
