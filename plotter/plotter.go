// package plotter implements a canvas that drives HPGL pen plotters.
package plotter

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"runtime"

	"github.com/tarm/serial"
	"lindenmayer.dev/canvas"
)

const (
	// Unit is the HPGL plotter unit in millimeters.
	Unit = 0.025
	// Millimeter is plotter units per millimeter.
	Millimeter = 1 / Unit
)

// Options configure a plotter canvas.
type Options struct {
	// Width of the drawing in canvas units.
	Width float64
	// Size of the plotted square in millimeters.
	Size float64
	// Pens is the number of pens in the carousel. Colours are mapped to
	// pens by hue.
	Pens int
	// DryRun moves the pen without lowering it.
	DryRun bool
}

// Plotter is a canvas that writes HPGL commands.
type Plotter struct {
	out   *bufio.Writer
	opts  Options
	scale float64
	pen   int
	pos   image.Point
	count int
}

// New initializes the plotter and selects the first pen.
func New(w io.Writer, opts Options) *Plotter {
	if opts.Width <= 0 {
		opts.Width = 1
	}
	if opts.Size <= 0 {
		opts.Size = 180
	}
	opts.Pens = max(opts.Pens, 1)
	p := &Plotter{
		out:   bufio.NewWriter(w),
		opts:  opts,
		scale: opts.Size * Millimeter / opts.Width,
	}
	p.cmd("IN")
	p.selectPen(1)
	return p
}

func (p *Plotter) cmd(c string, args ...int) {
	p.count++
	p.out.WriteString(c)
	for i, a := range args {
		if i > 0 {
			p.out.WriteByte(',')
		}
		fmt.Fprint(p.out, a)
	}
	p.out.WriteString(";\n")
}

func (p *Plotter) selectPen(n int) {
	if n == p.pen {
		return
	}
	p.pen = n
	p.cmd("SP", n)
}

// point converts canvas coordinates, with the y axis pointing down, to
// plotter units with the y axis pointing up.
func (p *Plotter) point(x, y float64) image.Point {
	return image.Pt(
		int(math.Round(x*p.scale)),
		int(math.Round((p.opts.Width-y)*p.scale)),
	)
}

func (p *Plotter) DrawLine(x0, y0, x1, y1 float64) {
	from, to := p.point(x0, y0), p.point(x1, y1)
	if from != p.pos {
		p.cmd("PU", from.X, from.Y)
	}
	if p.opts.DryRun {
		p.cmd("PU", to.X, to.Y)
	} else {
		p.cmd("PD", to.X, to.Y)
	}
	p.pos = to
}

// SetColor selects the pen of the colour's hue.
func (p *Plotter) SetColor(c color.Color) {
	if p.opts.Pens == 1 {
		return
	}
	h, ok := canvas.HueOf(c)
	if !ok {
		p.selectPen(1)
		return
	}
	n := int(h / 360 * float64(p.opts.Pens))
	p.selectPen(1 + min(n, p.opts.Pens-1))
}

// SetStrokeWidth is ignored; the stroke width is that of the pen.
func (p *Plotter) SetStrokeWidth(float64) {}

// Commands returns the number of commands written.
func (p *Plotter) Commands() int {
	return p.count
}

// Close raises and parks the pen and flushes the commands.
func (p *Plotter) Close() error {
	p.cmd("PU")
	p.cmd("SP", 0)
	return p.out.Flush()
}

// Open opens the serial port of a plotter. If dev is empty, the platform
// default ports are tried.
func Open(dev string) (io.ReadWriteCloser, error) {
	const baudRate = 9600

	var devices []string
	if dev != "" {
		devices = append(devices, dev)
	} else {
		switch runtime.GOOS {
		case "windows":
			devices = append(devices, "COM1", "COM3")
		case "linux":
			devices = append(devices, "/dev/ttyUSB0", "/dev/ttyUSB1", "/dev/ttyS0")
		case "darwin":
			devices = append(devices, "/dev/tty.usbserial")
		}
	}
	if len(devices) == 0 {
		return nil, errors.New("plotter: no device specified")
	}
	var firstErr error
	for _, dev := range devices {
		c := &serial.Config{Name: dev, Baud: baudRate}
		s, err := serial.OpenPort(c)
		if err == nil {
			return s, nil
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("plotter: %w", err)
		}
	}
	return nil, firstErr
}
