package matrix

import (
	"math/big"
	"strconv"
)

// Ring describes the element arithmetic of a [Matrix]. Implementations
// must not mutate their arguments.
type Ring[T any] interface {
	Zero() T
	One() T
	Add(a, b T) T
	Mul(a, b T) T
	Equal(a, b T) bool
	Format(v T) string
}

// Int64 is the ring of machine integers. Counts overflow silently for
// large exponents; use [Big] when exactness matters.
var Int64 Ring[int64] = int64Ring{}

// Float64 is the approximate ring of floating point numbers.
var Float64 Ring[float64] = float64Ring{}

// Big is the exact ring of arbitrary precision integers.
var Big Ring[*big.Int] = bigRing{}

type int64Ring struct{}

func (int64Ring) Zero() int64 { return 0 }
func (int64Ring) One() int64 { return 1 }
func (int64Ring) Add(a, b int64) int64 { return a + b }
func (int64Ring) Mul(a, b int64) int64 { return a * b }
func (int64Ring) Equal(a, b int64) bool { return a == b }
func (int64Ring) Format(v int64) string { return strconv.FormatInt(v, 10) }

type float64Ring struct{}

func (float64Ring) Zero() float64 { return 0 }
func (float64Ring) One() float64 { return 1 }
func (float64Ring) Add(a, b float64) float64 { return a + b }
func (float64Ring) Mul(a, b float64) float64 { return a * b }
func (float64Ring) Equal(a, b float64) bool { return a == b }
func (float64Ring) Format(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

type bigRing struct{}

func (bigRing) Zero() *big.Int { return new(big.Int) }
func (bigRing) One() *big.Int { return big.NewInt(1) }

func (bigRing) Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

func (bigRing) Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

func (bigRing) Equal(a, b *big.Int) bool { return a.Cmp(b) == 0 }
func (bigRing) Format(v *big.Int) string { return v.String() }
