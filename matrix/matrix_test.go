package matrix

import (
	"errors"
	"math/big"
	"testing"
)

func mustNew[T any](t *testing.T, r Ring[T], rows [][]T) *Matrix[T] {
	t.Helper()
	m, err := New(r, rows)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMul(t *testing.T) {
	tests := []struct {
		a, b, want [][]int64
	}{
		{
			[][]int64{{1234, 342}, {13, 3453}},
			[][]int64{{1, 0}, {0, 1}},
			[][]int64{{1234, 342}, {13, 3453}},
		},
		{
			[][]int64{{1, 2, 3, 4}},
			[][]int64{{9, 10}, {11, 12}, {13, 14}, {15, 16}},
			[][]int64{{130, 140}},
		},
		{
			[][]int64{{1, 2, 3, 4}, {5, 6, 7, 8}},
			[][]int64{{9}, {11}, {13}, {15}},
			[][]int64{{130}, {322}},
		},
	}
	for _, test := range tests {
		a, b := mustNew(t, Int64, test.a), mustNew(t, Int64, test.b)
		got, err := Mul(a, b)
		if err != nil {
			t.Fatal(err)
		}
		if want := mustNew(t, Int64, test.want); !got.Equal(want) {
			t.Errorf("%v times %v = %v, want %v", test.a, test.b, got.Array(), test.want)
		}
	}
}

func TestMulDimensionMismatch(t *testing.T) {
	a := mustNew(t, Int64, [][]int64{{1, 2}})
	b := mustNew(t, Int64, [][]int64{{1, 2}})
	if _, err := Mul(a, b); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got error %v, want %v", err, ErrDimensionMismatch)
	}
	if _, err := New(Int64, [][]int64{{1, 2}, {3}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("ragged rows: got error %v, want %v", err, ErrDimensionMismatch)
	}
}

func TestPowUnsupported(t *testing.T) {
	m := Identity(Int64, 2)
	if _, err := Pow(m, -1); !errors.Is(err, ErrUnsupportedExponent) {
		t.Errorf("got error %v, want %v", err, ErrUnsupportedExponent)
	}
	rect := Zeros(Int64, 2, 3)
	if _, err := Pow(rect, 2); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got error %v, want %v", err, ErrDimensionMismatch)
	}
}

func TestPowIdentity(t *testing.T) {
	m := mustNew(t, Int64, [][]int64{{3, 2}, {0, 4}})
	got, err := Pow(m, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(Identity(Int64, 2)) {
		t.Errorf("M^0 = %v, want identity", got.Array())
	}
	got, err = Pow(m, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(m) {
		t.Errorf("M^1 = %v, want %v", got.Array(), m.Array())
	}
}

func TestPowBySquaring(t *testing.T) {
	m := mustNew(t, Int64, [][]int64{{1, 2}, {3, 4}})
	// Brute force unrolled product.
	want := Identity(Int64, 2)
	for i := 0; i <= 10; i++ {
		got, err := Pow(m, i)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Errorf("M^%d = %v, want %v", i, got.Array(), want.Array())
		}
		want = mul(want, m)
	}
}

func TestPowAdditive(t *testing.T) {
	matrices := []*Matrix[int64]{
		mustNew(t, Int64, [][]int64{{3, 0, 0}, {2, 1, 0}, {1, 0, 1}}),
		mustNew(t, Int64, [][]int64{{2, 0}, {1, 2}}),
		mustNew(t, Int64, [][]int64{{0, 1}, {1, 1}}),
		Identity(Int64, 4),
	}
	for _, m := range matrices {
		for a := 0; a <= 7; a++ {
			for b := 0; b <= 7; b++ {
				ab, err := Pow(m, a+b)
				if err != nil {
					t.Fatal(err)
				}
				ma, _ := Pow(m, a)
				mb, _ := Pow(m, b)
				prod, err := Mul(ma, mb)
				if err != nil {
					t.Fatal(err)
				}
				if !ab.Equal(prod) {
					t.Errorf("M^(%d+%d) = %v, but M^%d·M^%d = %v", a, b, ab.Array(), a, b, prod.Array())
				}
			}
		}
	}
}

func TestBigRing(t *testing.T) {
	fib, err := New(Big, [][]*big.Int{
		{big.NewInt(0), big.NewInt(1)},
		{big.NewInt(1), big.NewInt(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := Pow(fib, 100)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := new(big.Int).SetString("354224848179261915075", 10)
	if got := p.At(0, 1); got.Cmp(want) != 0 {
		t.Errorf("F(100) = %v, want %v", got, want)
	}
	// Operands must not be mutated.
	if fib.At(1, 1).Int64() != 1 {
		t.Errorf("base matrix mutated: %v", fib.Array())
	}
}

func TestFloatRing(t *testing.T) {
	m := mustNew(t, Float64, [][]float64{{0.5, 0}, {0, 2}})
	p, err := Pow(m, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.At(0, 0); got != 0.125 {
		t.Errorf("0.5^3 = %v", got)
	}
	if got := p.At(1, 1); got != 8 {
		t.Errorf("2^3 = %v", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		m       *Matrix[int64]
		spacing int
		want    string
	}{
		{Zeros(Int64, 0, 0), 0, "[]"},
		{Identity(Int64, 1), 0, "[1]"},
		{Identity(Int64, 2), 0, "/1 0\\\n\\0 1/"},
		{Identity(Int64, 3), 0, "/1 0 0\\\n|0 1 0|\n\\0 0 1/"},
		{mustNew(t, Int64, [][]int64{{1234, 342}, {13, 3453}}), 1, "/1234  342\\\n|         |\n\\  13 3453/"},
		{Row(Int64, []int64{1, 20, 3}), 2, "[1 20 3]"},
	}
	for _, test := range tests {
		if got := test.m.Format(test.spacing); got != test.want {
			t.Errorf("Format(%d) of %v:\n%s\nwant:\n%s", test.spacing, test.m.Array(), got, test.want)
		}
	}
}

func TestVectors(t *testing.T) {
	c := Column(Int64, []int64{1, 0, 0})
	if c.Rows() != 3 || c.Cols() != 1 {
		t.Errorf("column is %dx%d", c.Rows(), c.Cols())
	}
	r := Row(Int64, []int64{1, 1, 0})
	p, err := Mul(r, c)
	if err != nil {
		t.Fatal(err)
	}
	if p.Rows() != 1 || p.Cols() != 1 || p.At(0, 0) != 1 {
		t.Errorf("row times column = %v", p.Array())
	}
}

func TestClone(t *testing.T) {
	m, err := New(Big, [][]*big.Int{{big.NewInt(2), big.NewInt(3)}})
	if err != nil {
		t.Fatal(err)
	}
	c := m.Clone()
	if !c.Equal(m) {
		t.Fatalf("clone %v differs from %v", c, m)
	}
	c.At(0, 0).SetInt64(99)
	if got := m.At(0, 0).Int64(); got != 2 {
		t.Errorf("mutating the clone changed the original to %d", got)
	}
}
