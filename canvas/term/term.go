// Package term implements a canvas that previews drawings as coloured
// characters in a terminal.
package term

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/muesli/termenv"
	"lindenmayer.dev/bresenham"
)

// Block is the character of a drawn cell.
const Block = "█"

type cell struct {
	set   bool
	color color.NRGBA
}

// Canvas is a grid of character cells covering a width by width drawing.
type Canvas struct {
	cols, rows int
	width      float64
	profile    termenv.Profile
	color      color.NRGBA
	cells      []cell
}

// New returns a canvas of cols by rows cells. Colours are rendered in the
// given terminal colour profile.
func New(cols, rows int, width float64, profile termenv.Profile) *Canvas {
	return &Canvas{
		cols:    cols,
		rows:    rows,
		width:   width,
		profile: profile,
		color:   color.NRGBA{0xff, 0xff, 0xff, 0xff},
		cells:   make([]cell, cols*rows),
	}
}

func (c *Canvas) cell(x, y float64) image.Point {
	cx := int(math.Floor(x / c.width * float64(c.cols)))
	cy := int(math.Floor(y / c.width * float64(c.rows)))
	return image.Pt(min(max(cx, 0), c.cols-1), min(max(cy, 0), c.rows-1))
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 float64) {
	if c.cols == 0 || c.rows == 0 {
		return
	}
	for p := range bresenham.Points(c.cell(x0, y0), c.cell(x1, y1)) {
		c.cells[p.Y*c.cols+p.X] = cell{set: true, color: c.color}
	}
}

func (c *Canvas) SetColor(col color.Color) {
	c.color = color.NRGBAModel.Convert(col).(color.NRGBA)
}

func (c *Canvas) SetStrokeWidth(float64) {}

// Set reports whether the cell at column x and row y is drawn.
func (c *Canvas) Set(x, y int) bool {
	return c.cells[y*c.cols+x].set
}

// Render writes the grid to w, one line per row.
func (c *Canvas) Render(w io.Writer) error {
	out := bufio.NewWriter(w)
	line := new(strings.Builder)
	for y := range c.rows {
		line.Reset()
		for x := range c.cols {
			cl := c.cells[y*c.cols+x]
			if !cl.set {
				line.WriteByte(' ')
				continue
			}
			hex := fmt.Sprintf("#%02x%02x%02x", cl.color.R, cl.color.G, cl.color.B)
			line.WriteString(c.profile.String(Block).Foreground(c.profile.Color(hex)).String())
		}
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}
	return out.Flush()
}
