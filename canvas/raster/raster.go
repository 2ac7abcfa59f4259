// Package raster implements a canvas that rasterizes lines into an image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// Background is the colour of a new canvas.
var Background = color.Black

// Canvas strokes lines with rasterx. Runs of connected lines are stroked
// as a single path; the pending path is drawn whenever the colour or the
// stroke width changes.
type Canvas struct {
	img     *image.RGBA
	dasher  *rasterx.Dasher
	color   color.NRGBA
	stroke  float64
	end     f64.Vec2
	started bool
	pending bool
}

// New returns a size by size canvas.
func New(size int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	c := &Canvas{
		img:    img,
		dasher: rasterx.NewDasher(size, size, scanner),
		color:  color.NRGBA{0xff, 0xff, 0xff, 0xff},
		stroke: 1,
	}
	c.setStroke()
	return c
}

func (c *Canvas) setStroke() {
	c.dasher.SetStroke(fixed.Int26_6(c.stroke*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	c.dasher.SetColor(c.color)
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 float64) {
	from := f64.Vec2{x0, y0}
	if !c.started || from != c.end {
		if c.started {
			c.dasher.Stop(false)
		}
		c.dasher.Start(rasterx.ToFixedP(x0, y0))
		c.started = true
	}
	c.dasher.Line(rasterx.ToFixedP(x1, y1))
	c.end = f64.Vec2{x1, y1}
	c.pending = true
}

// flush draws the pending path.
func (c *Canvas) flush() {
	if c.started {
		c.dasher.Stop(false)
		c.started = false
	}
	if c.pending {
		c.dasher.Draw()
		c.pending = false
	}
	c.dasher.Clear()
}

func (c *Canvas) SetColor(col color.Color) {
	nc := color.NRGBAModel.Convert(col).(color.NRGBA)
	if nc == c.color {
		return
	}
	c.flush()
	c.color = nc
	c.setStroke()
}

func (c *Canvas) SetStrokeWidth(w float64) {
	if w == c.stroke {
		return
	}
	c.flush()
	c.stroke = w
	c.setStroke()
}

// Image draws any pending lines and returns the image.
func (c *Canvas) Image() *image.RGBA {
	c.flush()
	return c.img
}

// EncodePNG writes the image in PNG format to w.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.Image())
}
