// Package grammar implements context-free L-system grammars and their
// lazy expansion.
//
// Expansion is layered: each rewrite iteration pulls symbols from the
// previous one, so drawing a grammar at depth n only ever holds a stack of
// n frames regardless of the length of the expanded string.
package grammar

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// MaxRecursionDepth bounds the depth accepted by [Grammar.Generate]. Each
// level nests an iterator frame; deeper expansions should use
// [Grammar.Iterate].
const MaxRecursionDepth = 256

var (
	ErrRecursionLimit = errors.New("grammar: recursion limit exceeded")
	ErrNegativeDepth  = errors.New("grammar: negative depth")
)

// Symbol is a letter of an L-system alphabet.
type Symbol rune

func (s Symbol) String() string {
	return string(rune(s))
}

// Symbols converts a string to its symbols.
func Symbols(s string) []Symbol {
	syms := make([]Symbol, 0, len(s))
	for _, r := range s {
		syms = append(syms, Symbol(r))
	}
	return syms
}

// Join concatenates symbols into a string.
func Join(syms []Symbol) string {
	b := new(strings.Builder)
	for _, s := range syms {
		b.WriteRune(rune(s))
	}
	return b.String()
}

// Grammar is an immutable L-system: an axiom and the rewrite rules applied
// to every symbol at each iteration. Symbols without a rule rewrite to
// themselves.
type Grammar struct {
	axiom []Symbol
	rules map[Symbol][]Symbol
	// alphabet is sorted by code point.
	alphabet []Symbol
	index    map[Symbol]int
}

// New returns the grammar of the axiom and rules, given as literal
// strings.
func New(axiom string, rules map[rune]string) *Grammar {
	r := make(map[Symbol][]Symbol, len(rules))
	for s, repl := range rules {
		r[Symbol(s)] = Symbols(repl)
	}
	return newGrammar(Symbols(axiom), r)
}

// NewSymbols is like New for symbol slices. The arguments are copied.
func NewSymbols(axiom []Symbol, rules map[Symbol][]Symbol) *Grammar {
	r := make(map[Symbol][]Symbol, len(rules))
	for s, repl := range rules {
		r[s] = slices.Clone(repl)
	}
	return newGrammar(slices.Clone(axiom), r)
}

func newGrammar(axiom []Symbol, rules map[Symbol][]Symbol) *Grammar {
	g := &Grammar{
		axiom: axiom,
		rules: rules,
		index: make(map[Symbol]int),
	}
	add := func(syms ...Symbol) {
		for _, s := range syms {
			if _, ok := g.index[s]; !ok {
				g.index[s] = 0
				g.alphabet = append(g.alphabet, s)
			}
		}
	}
	add(axiom...)
	for s, repl := range rules {
		add(s)
		add(repl...)
	}
	slices.Sort(g.alphabet)
	for i, s := range g.alphabet {
		g.index[s] = i
	}
	return g
}

// Axiom returns a copy of the depth 0 string.
func (g *Grammar) Axiom() []Symbol {
	return slices.Clone(g.axiom)
}

// Rule returns the replacement of s, if s has a rule.
func (g *Grammar) Rule(s Symbol) ([]Symbol, bool) {
	repl, ok := g.rules[s]
	return slices.Clone(repl), ok
}

// Replace returns the symbols s rewrites to in one iteration.
func (g *Grammar) Replace(s Symbol) []Symbol {
	if repl, ok := g.rules[s]; ok {
		return slices.Clone(repl)
	}
	return []Symbol{s}
}

func (g *Grammar) replacement(s Symbol) []Symbol {
	if repl, ok := g.rules[s]; ok {
		return repl
	}
	return []Symbol{s}
}

// Symbols returns the alphabet of g: every symbol of the axiom and the
// rules, deduplicated and sorted by code point.
func (g *Grammar) Symbols() []Symbol {
	return slices.Clone(g.alphabet)
}

// Index returns the position of s in [Grammar.Symbols].
func (g *Grammar) Index(s Symbol) (int, bool) {
	i, ok := g.index[s]
	return i, ok
}

// Expand returns the symbols of the depth-th rewrite of the axiom, in
// order. Negative depths expand to the axiom. The sequence is computed
// lazily on every iteration and nests one iterator per depth.
func (g *Grammar) Expand(depth int) iter.Seq[Symbol] {
	if depth <= 0 {
		return slices.Values(g.axiom)
	}
	inner := g.Expand(depth - 1)
	return func(yield func(Symbol) bool) {
		for s := range inner {
			for _, r := range g.replacement(s) {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Generate is like Expand, but rejects negative depths and depths beyond
// MaxRecursionDepth.
func (g *Grammar) Generate(depth int) (iter.Seq[Symbol], error) {
	switch {
	case depth < 0:
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, depth)
	case depth > MaxRecursionDepth:
		return nil, fmt.Errorf("%w: depth %d > %d", ErrRecursionLimit, depth, MaxRecursionDepth)
	}
	return g.Expand(depth), nil
}

// cursor is a position in the replacement of a symbol at some depth.
type cursor struct {
	syms []Symbol
	pos  int
}

// Iterate returns the same sequence as Expand without recursion, by
// keeping an explicit stack of depth+1 cursors.
func (g *Grammar) Iterate(depth int) iter.Seq[Symbol] {
	depth = max(depth, 0)
	return func(yield func(Symbol) bool) {
		stack := make([]cursor, 1, depth+1)
		stack[0] = cursor{syms: g.axiom}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.pos == len(top.syms) {
				stack = stack[:len(stack)-1]
				continue
			}
			s := top.syms[top.pos]
			top.pos++
			// A cursor at stack level l holds symbols of depth l.
			if len(stack)-1 == depth {
				if !yield(s) {
					return
				}
				continue
			}
			stack = append(stack, cursor{syms: g.replacement(s)})
		}
	}
}

func (g *Grammar) String() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "axiom: %q", Join(g.axiom))
	keys := make([]Symbol, 0, len(g.rules))
	for s := range g.rules {
		keys = append(keys, s)
	}
	slices.Sort(keys)
	for _, s := range keys {
		fmt.Fprintf(b, "\n%s -> %q", s, Join(g.rules[s]))
	}
	return b.String()
}
