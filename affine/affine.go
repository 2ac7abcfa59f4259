// package affine implements mathematical operations on the
// golang.org/x/image/math/f64 data types.
package affine

import (
	"math"

	"golang.org/x/image/math/f64"
)

func mul(A, B f64.Aff3) (r f64.Aff3) {
	r[0] = A[0]*B[0] + A[1]*B[3]
	r[1] = A[0]*B[1] + A[1]*B[4]
	r[2] = A[0]*B[2] + A[1]*B[5] + A[2]
	r[3] = A[3]*B[0] + A[4]*B[3]
	r[4] = A[3]*B[1] + A[4]*B[4]
	r[5] = A[3]*B[2] + A[4]*B[5] + A[5]
	return r
}

// Identity is the transform that maps every point to itself.
var Identity = f64.Aff3{
	1, 0, 0,
	0, 1, 0,
}

func Scale(p f64.Vec2, s float64) f64.Vec2 {
	return f64.Vec2{p[0] * s, p[1] * s}
}

func Add(p ...f64.Vec2) f64.Vec2 {
	r := p[0]
	for i := 1; i < len(p); i++ {
		r = f64.Vec2{r[0] + p[i][0], r[1] + p[i][1]}
	}
	return r
}

func Sub(p ...f64.Vec2) f64.Vec2 {
	r := p[0]
	for i := 1; i < len(p); i++ {
		r = f64.Vec2{r[0] - p[i][0], r[1] - p[i][1]}
	}
	return r
}

// Polar returns the vector of length r in the direction of the angle in
// degrees, counter-clockwise from the x axis.
func Polar(r, degrees float64) f64.Vec2 {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return f64.Vec2{r * cos, r * sin}
}

func Mul(M ...f64.Aff3) (r f64.Aff3) {
	r = M[0]
	for i := 1; i < len(M); i++ {
		r = mul(r, M[i])
	}
	return r
}

func Offsetting(p f64.Vec2) f64.Aff3 {
	return f64.Aff3{
		1, 0, p[0],
		0, 1, p[1],
	}
}

func Scaling(s f64.Vec2) f64.Aff3 {
	return f64.Aff3{
		s[0], 0, 0,
		0, s[1], 0,
	}
}

func Transform(m f64.Aff3, p f64.Vec2) f64.Vec2 {
	return f64.Vec2{
		p[0]*m[0] + p[1]*m[1] + m[2],
		p[0]*m[3] + p[1]*m[4] + m[5],
	}
}

// UnitSquare maps the unit square with the y axis pointing up onto a
// width by width canvas with the y axis pointing down.
func UnitSquare(width float64) f64.Aff3 {
	return Mul(
		Offsetting(f64.Vec2{0, width}),
		Scaling(f64.Vec2{width, -width}),
	)
}
