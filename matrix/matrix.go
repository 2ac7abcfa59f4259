// Package matrix implements just enough dense matrix arithmetic to
// project the outcome of repeated linear transitions, such as the symbol
// counts of an L-system after a number of rewrites.
//
// Matrices are generic over a [Ring], so the same code computes exact
// counts with [Big] and approximations with [Float64].
package matrix

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDimensionMismatch   = errors.New("matrix: dimension mismatch")
	ErrUnsupportedExponent = errors.New("matrix: unsupported exponent")
)

// Matrix is an immutable rows by cols matrix stored in row-major order.
type Matrix[T any] struct {
	ring       Ring[T]
	rows, cols int
	data       []T
}

// New returns the matrix with the given rows. All rows must have the
// same length.
func New[T any](r Ring[T], rows [][]T) (*Matrix[T], error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := &Matrix[T]{
		ring: r,
		rows: len(rows),
		cols: cols,
		data: make([]T, 0, len(rows)*cols),
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrDimensionMismatch, i, len(row), cols)
		}
		m.data = append(m.data, row...)
	}
	return m, nil
}

// Zeros returns a rows by cols matrix of zero elements.
func Zeros[T any](r Ring[T], rows, cols int) *Matrix[T] {
	m := &Matrix[T]{
		ring: r,
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
	for i := range m.data {
		m.data[i] = r.Zero()
	}
	return m
}

// Identity returns the n by n identity matrix.
func Identity[T any](r Ring[T], n int) *Matrix[T] {
	m := Zeros(r, n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = r.One()
	}
	return m
}

// Column returns the len(v) by 1 column vector v.
func Column[T any](r Ring[T], v []T) *Matrix[T] {
	return &Matrix[T]{
		ring: r,
		rows: len(v),
		cols: 1,
		data: append([]T(nil), v...),
	}
}

// Row returns the 1 by len(v) row vector v.
func Row[T any](r Ring[T], v []T) *Matrix[T] {
	return &Matrix[T]{
		ring: r,
		rows: 1,
		cols: len(v),
		data: append([]T(nil), v...),
	}
}

func (m *Matrix[T]) Rows() int { return m.rows }
func (m *Matrix[T]) Cols() int { return m.cols }

// Ring returns the element arithmetic of m.
func (m *Matrix[T]) Ring() Ring[T] { return m.ring }

func (m *Matrix[T]) At(i, j int) T {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Errorf("matrix: (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
	return m.data[i*m.cols+j]
}

// Array returns a copy of the elements, row by row.
func (m *Matrix[T]) Array() [][]T {
	rows := make([][]T, m.rows)
	for i := range rows {
		rows[i] = append([]T(nil), m.data[i*m.cols:(i+1)*m.cols]...)
	}
	return rows
}

// Clone returns a deep copy of m. Elements are copied through the ring,
// so the copy shares no *big.Int values with m.
func (m *Matrix[T]) Clone() *Matrix[T] {
	c := &Matrix[T]{ring: m.ring, rows: m.rows, cols: m.cols, data: make([]T, len(m.data))}
	for i, v := range m.data {
		c.data[i] = m.ring.Add(v, m.ring.Zero())
	}
	return c
}

// Equal reports whether m and o have the same shape and elements.
func (m *Matrix[T]) Equal(o *Matrix[T]) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if !m.ring.Equal(v, o.data[i]) {
			return false
		}
	}
	return true
}

func (m *Matrix[T]) clone() *Matrix[T] {
	c := *m
	c.data = append([]T(nil), m.data...)
	return &c
}

// Mul returns the matrix product a·b.
func Mul[T any](a, b *Matrix[T]) (*Matrix[T], error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("%w: %dx%d times %dx%d", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	return mul(a, b), nil
}

func mul[T any](a, b *Matrix[T]) *Matrix[T] {
	r := a.ring
	p := &Matrix[T]{
		ring: r,
		rows: a.rows,
		cols: b.cols,
		data: make([]T, a.rows*b.cols),
	}
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.cols; j++ {
			sum := r.Zero()
			for k := 0; k < a.cols; k++ {
				sum = r.Add(sum, r.Mul(a.data[i*a.cols+k], b.data[k*b.cols+j]))
			}
			p.data[i*p.cols+j] = sum
		}
	}
	return p
}

// Pow returns m raised to the power n through exponentiation by squaring,
// in O(k³ log n) for a k by k matrix. It relies on
//
//	M^(2n+1) = M · M^n · M^n
//	M^(2n)   = M^n · M^n
//
// Negative exponents are not supported.
func Pow[T any](m *Matrix[T], n int) (*Matrix[T], error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("%w: power of %dx%d matrix", ErrDimensionMismatch, m.rows, m.cols)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedExponent, n)
	}
	return pow(m, n), nil
}

func pow[T any](m *Matrix[T], n int) *Matrix[T] {
	switch n {
	case 0:
		return Identity(m.ring, m.rows)
	case 1:
		return m.clone()
	}
	half := pow(m, n/2)
	sq := mul(half, half)
	if n&1 == 1 {
		return mul(m, sq)
	}
	return sq
}

// String formats m without spacer lines. See [Matrix.Format].
func (m *Matrix[T]) String() string {
	return m.Format(0)
}

// Format lays out m with right-aligned columns between bracket
// delimiters, inserting spacing blank lines between rows:
//
//	/1 2\
//	\3 4/
//
// A single row uses plain brackets and an empty matrix formats as "[]".
func (m *Matrix[T]) Format(spacing int) string {
	if m.rows == 0 {
		return "[]"
	}
	widths := make([]int, m.cols)
	cells := make([]string, len(m.data))
	for i, v := range m.data {
		s := m.ring.Format(v)
		cells[i] = s
		if c := i % m.cols; len(s) > widths[c] {
			widths[c] = len(s)
		}
	}
	line := func(b *strings.Builder, ldelim, rdelim string, row []string) {
		b.WriteString(ldelim)
		for j, w := range widths {
			if j > 0 {
				b.WriteByte(' ')
			}
			s := ""
			if row != nil {
				s = row[j]
			}
			b.WriteString(strings.Repeat(" ", w-len(s)))
			b.WriteString(s)
		}
		b.WriteString(rdelim)
	}
	b := new(strings.Builder)
	for i := 0; i < m.rows; i++ {
		ldelim, rdelim := "|", "|"
		switch {
		case m.rows == 1:
			ldelim, rdelim = "[", "]"
		case i == 0:
			ldelim, rdelim = "/", "\\"
		case i == m.rows-1:
			ldelim, rdelim = "\\", "/"
		}
		if i > 0 {
			for s := 0; s < spacing; s++ {
				line(b, "|", "|", nil)
				b.WriteByte('\n')
			}
		}
		line(b, ldelim, rdelim, cells[i*m.cols:(i+1)*m.cols])
		if i < m.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
