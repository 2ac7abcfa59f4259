// Package projection predicts the number of drawing steps of an L-system
// expansion without expanding it.
//
// Let v_n be the column vector of symbol counts after n rewrites and T the
// transition matrix whose entry T[i][j] counts the occurrences of symbol
// i in the replacement of symbol j. Then
//
//	v_n = T^n · v_0
//
// and the number of steps is the sum of the entries of v_n belonging to
// stepping symbols. T^n is computed by repeated squaring, so a projection
// costs O(k³ log n) for an alphabet of k symbols.
package projection

import (
	"errors"
	"fmt"
	"math/big"

	"lindenmayer.dev/drawrule"
	"lindenmayer.dev/grammar"
	"lindenmayer.dev/matrix"
)

var ErrIncompleteOrder = errors.New("projection: symbol order does not cover the alphabet")

// Projector projects the step counts of a grammar and its drawing rules.
// It is immutable and safe for concurrent use.
type Projector struct {
	symbols  []grammar.Symbol
	stepping []bool

	trans   *matrix.Matrix[*big.Int]
	initial *matrix.Matrix[*big.Int]
	weights *matrix.Matrix[*big.Int]

	ftrans   *matrix.Matrix[float64]
	finitial *matrix.Matrix[float64]
	fweights *matrix.Matrix[float64]
}

// New builds the projector of g. The stepping symbols are determined by
// probing rules with a no-op turtle; a symbol without a rule is a
// [drawrule.ConfigurationError].
func New(g *grammar.Grammar, rules drawrule.Factory) (*Projector, error) {
	syms := g.Symbols()
	stepping, err := drawrule.Probe(rules, syms)
	if err != nil {
		return nil, err
	}
	p := &Projector{
		symbols:  syms,
		stepping: stepping,
	}
	if p.trans, err = Transition(matrix.Big, g, syms); err != nil {
		return nil, err
	}
	if p.initial, err = Initial(matrix.Big, g, syms); err != nil {
		return nil, err
	}
	if p.ftrans, err = Transition(matrix.Float64, g, syms); err != nil {
		return nil, err
	}
	if p.finitial, err = Initial(matrix.Float64, g, syms); err != nil {
		return nil, err
	}
	p.weights = weights(matrix.Big, stepping)
	p.fweights = weights(matrix.Float64, stepping)
	return p, nil
}

func weights[T any](r matrix.Ring[T], stepping []bool) *matrix.Matrix[T] {
	w := make([]T, len(stepping))
	for i, s := range stepping {
		w[i] = r.Zero()
		if s {
			w[i] = r.One()
		}
	}
	return matrix.Row(r, w)
}

// fromCount converts a small non-negative count to a ring element.
func fromCount[T any](r matrix.Ring[T], n int) T {
	v := r.Zero()
	for i := 0; i < n; i++ {
		v = r.Add(v, r.One())
	}
	return v
}

func positions(g *grammar.Grammar, order []grammar.Symbol) (map[grammar.Symbol]int, error) {
	pos := make(map[grammar.Symbol]int, len(order))
	for i, s := range order {
		pos[s] = i
	}
	for _, s := range g.Symbols() {
		if _, ok := pos[s]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrIncompleteOrder, s)
		}
	}
	return pos, nil
}

// Transition returns the transition matrix of g with rows and columns in
// the given symbol order, which must contain every symbol of g.
func Transition[T any](r matrix.Ring[T], g *grammar.Grammar, order []grammar.Symbol) (*matrix.Matrix[T], error) {
	pos, err := positions(g, order)
	if err != nil {
		return nil, err
	}
	k := len(order)
	counts := make([][]int, k)
	for i := range counts {
		counts[i] = make([]int, k)
	}
	for j, from := range order {
		for _, to := range g.Replace(from) {
			counts[pos[to]][j]++
		}
	}
	rows := make([][]T, k)
	for i, row := range counts {
		rows[i] = make([]T, k)
		for j, n := range row {
			rows[i][j] = fromCount(r, n)
		}
	}
	return matrix.New(r, rows)
}

// Initial returns the column vector of symbol counts of the axiom of g,
// in the given symbol order.
func Initial[T any](r matrix.Ring[T], g *grammar.Grammar, order []grammar.Symbol) (*matrix.Matrix[T], error) {
	pos, err := positions(g, order)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(order))
	for _, s := range g.Axiom() {
		counts[pos[s]]++
	}
	v := make([]T, len(order))
	for i, n := range counts {
		v[i] = fromCount(r, n)
	}
	return matrix.Column(r, v), nil
}

// Symbols returns the symbol order of the projector's matrices.
func (p *Projector) Symbols() []grammar.Symbol {
	return append([]grammar.Symbol(nil), p.symbols...)
}

// Stepping reports, in symbol order, which symbols are drawing steps.
func (p *Projector) Stepping() []bool {
	return append([]bool(nil), p.stepping...)
}

// SteppingSymbols returns the symbols that are drawing steps.
func (p *Projector) SteppingSymbols() []grammar.Symbol {
	var syms []grammar.Symbol
	for i, s := range p.symbols {
		if p.stepping[i] {
			syms = append(syms, s)
		}
	}
	return syms
}

// Transition returns a copy of the exact transition matrix.
func (p *Projector) Transition() *matrix.Matrix[*big.Int] { return p.trans.Clone() }

// Initial returns a copy of the symbol counts of the axiom as a column
// vector.
func (p *Projector) Initial() *matrix.Matrix[*big.Int] { return p.initial.Clone() }

func project[T any](trans, initial *matrix.Matrix[T], depth int) (*matrix.Matrix[T], error) {
	tn, err := matrix.Pow(trans, depth)
	if err != nil {
		return nil, fmt.Errorf("projection: depth %d: %w", depth, err)
	}
	return matrix.Mul(tn, initial)
}

// Counts returns the exact number of occurrences of each symbol, in symbol
// order, after depth rewrites.
func (p *Projector) Counts(depth int) ([]*big.Int, error) {
	v, err := project(p.trans, p.initial, depth)
	if err != nil {
		return nil, err
	}
	counts := make([]*big.Int, v.Rows())
	for i := range counts {
		counts[i] = v.At(i, 0)
	}
	return counts, nil
}

// Steps returns the exact number of drawing steps after depth rewrites.
func (p *Projector) Steps(depth int) (*big.Int, error) {
	v, err := project(p.trans, p.initial, depth)
	if err != nil {
		return nil, err
	}
	s, err := matrix.Mul(p.weights, v)
	if err != nil {
		return nil, err
	}
	return s.At(0, 0), nil
}

// StepsFloat is like Steps, rounded to the nearest float64.
func (p *Projector) StepsFloat(depth int) (float64, error) {
	s, err := p.Steps(depth)
	if err != nil {
		return 0, err
	}
	f, _ := new(big.Float).SetInt(s).Float64()
	return f, nil
}

// Approximate computes the number of steps in floating point arithmetic.
// It avoids big number allocations, at the cost of exactness for large
// counts.
func (p *Projector) Approximate(depth int) (float64, error) {
	v, err := project(p.ftrans, p.finitial, depth)
	if err != nil {
		return 0, err
	}
	s, err := matrix.Mul(p.fweights, v)
	if err != nil {
		return 0, err
	}
	return s.At(0, 0), nil
}
