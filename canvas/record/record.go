// Package record implements a canvas that records the lines drawn on it,
// and a CBOR encoding of recorded drawings.
package record

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fxamacker/cbor/v2"
	"lindenmayer.dev/turtle"
)

// Segment is a line drawn with a colour and stroke width.
type Segment struct {
	_              struct{} `cbor:",toarray"`
	X0, Y0, X1, Y1 float64
	Color          color.NRGBA
	Width          float64
}

// Drawing is a recorded drawing of a width by width square.
type Drawing struct {
	Name     string    `cbor:"1,keyasint,omitempty"`
	Width    float64   `cbor:"2,keyasint"`
	Segments []Segment `cbor:"3,keyasint"`
}

// Recorder is a canvas that records segments.
type Recorder struct {
	color color.NRGBA
	width float64
	segs  []Segment
}

// New returns a recorder drawing black lines of width 1.
func New() *Recorder {
	return &Recorder{
		color: color.NRGBA{A: 0xff},
		width: 1,
	}
}

func (r *Recorder) DrawLine(x0, y0, x1, y1 float64) {
	r.segs = append(r.segs, Segment{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Color: r.color,
		Width: r.width,
	})
}

func (r *Recorder) SetColor(c color.Color) {
	r.color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (r *Recorder) SetStrokeWidth(w float64) {
	r.width = w
}

// Segments returns the recorded segments.
func (r *Recorder) Segments() []Segment {
	return r.segs
}

// Replay draws segs onto c.
func Replay(c turtle.Canvas, segs []Segment) {
	var (
		col   color.NRGBA
		width float64
	)
	for i, s := range segs {
		if i == 0 || s.Color != col {
			col = s.Color
			c.SetColor(col)
		}
		if i == 0 || s.Width != width {
			width = s.Width
			c.SetStrokeWidth(width)
		}
		c.DrawLine(s.X0, s.Y0, s.X1, s.Y1)
	}
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
	dm, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// Encode writes the CBOR encoding of d to w.
func Encode(w io.Writer, d Drawing) error {
	if err := encMode.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("record: encode: %w", err)
	}
	return nil
}

// Decode reads a drawing encoded by Encode.
func Decode(r io.Reader) (Drawing, error) {
	var d Drawing
	if err := decMode.NewDecoder(r).Decode(&d); err != nil {
		return Drawing{}, fmt.Errorf("record: decode: %w", err)
	}
	return d, nil
}
