// Package bresenham walks lines on an integer grid with the Bresenham
// algorithm.
package bresenham

import (
	"image"
	"iter"
)

// Stepper steps along a line one grid cell at a time.
type Stepper struct {
	// d is the minor axis error, doubled.
	d int
	// dmajor, dminor is the absolute line vector.
	dmajor, dminor int
	// major and minor are the unit steps along each axis.
	major, minor image.Point
	left         int
}

// Reset the stepper to walk the signed distance dist. It returns the number
// of steps.
func (s *Stepper) Reset(dist image.Point) int {
	sx, sy := 1, 1
	if dist.X < 0 {
		sx = -1
		dist.X = -dist.X
	}
	if dist.Y < 0 {
		sy = -1
		dist.Y = -dist.Y
	}
	s.major, s.minor = image.Pt(sx, 0), image.Pt(0, sy)
	if dist.Y > dist.X {
		s.major, s.minor = s.minor, s.major
		dist.X, dist.Y = dist.Y, dist.X
	}
	s.dmajor, s.dminor = dist.X, dist.Y
	s.d = 2*s.dminor - s.dmajor
	s.left = s.dmajor
	return s.dmajor
}

// Step returns the offset to the next cell of the line, and false when
// the line is exhausted.
func (s *Stepper) Step() (image.Point, bool) {
	if s.left == 0 {
		return image.Point{}, false
	}
	s.left--
	step := s.major
	if s.d > 0 {
		step = step.Add(s.minor)
		s.d -= 2 * s.dmajor
	}
	s.d += 2 * s.dminor
	return step, true
}

// Points returns the cells of the line from p0 to p1, both included.
func Points(p0, p1 image.Point) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		var s Stepper
		s.Reset(p1.Sub(p0))
		p := p0
		if !yield(p) {
			return
		}
		for {
			d, ok := s.Step()
			if !ok {
				return
			}
			p = p.Add(d)
			if !yield(p) {
				return
			}
		}
	}
}
