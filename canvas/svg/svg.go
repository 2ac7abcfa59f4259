// Package svg implements a canvas that writes an SVG document.
package svg

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/math/f64"
)

// Canvas writes lines as SVG paths, one path for every run of lines with
// the same colour and stroke width.
type Canvas struct {
	out    *bufio.Writer
	color  color.NRGBA
	stroke float64
	// open reports whether a path element is being written.
	open  bool
	pen   f64.Vec2
	paths int
}

// New writes the SVG header for a width by width drawing to w. The
// document is finished by Close.
func New(w io.Writer, width float64) *Canvas {
	c := &Canvas{
		out:    bufio.NewWriter(w),
		color:  color.NRGBA{A: 0xff},
		stroke: 1,
	}
	ws := num(width)
	fmt.Fprintf(c.out, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %s %s\" width=\"%s\" height=\"%s\">\n",
		ws, ws, ws, ws)
	fmt.Fprint(c.out, `<rect width="100%" height="100%" fill="#000"/>`+"\n")
	return c
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 float64) {
	from := f64.Vec2{x0, y0}
	if !c.open {
		c.open = true
		c.paths++
		fmt.Fprintf(c.out, `<path fill="none" stroke="#%02x%02x%02x" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round" d="M %s %s`,
			c.color.R, c.color.G, c.color.B, num(c.stroke), num(x0), num(y0))
	} else if num(from[0]) != num(c.pen[0]) || num(from[1]) != num(c.pen[1]) {
		fmt.Fprintf(c.out, " M %s %s", num(x0), num(y0))
	}
	fmt.Fprintf(c.out, " L %s %s", num(x1), num(y1))
	c.pen = f64.Vec2{x1, y1}
}

func (c *Canvas) closePath() {
	if c.open {
		fmt.Fprintln(c.out, `"/>`)
		c.open = false
	}
}

func (c *Canvas) SetColor(col color.Color) {
	nc := color.NRGBAModel.Convert(col).(color.NRGBA)
	if nc != c.color {
		c.closePath()
		c.color = nc
	}
}

func (c *Canvas) SetStrokeWidth(w float64) {
	if w != c.stroke {
		c.closePath()
		c.stroke = w
	}
}

// Paths returns the number of path elements written.
func (c *Canvas) Paths() int {
	return c.paths
}

// Close finishes the document and flushes it to the underlying writer.
func (c *Canvas) Close() error {
	c.closePath()
	fmt.Fprintln(c.out, "</svg>")
	return c.out.Flush()
}
