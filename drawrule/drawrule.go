// Package drawrule maps L-system symbols to turtle actions.
package drawrule

import (
	"errors"
	"fmt"
	"slices"

	"lindenmayer.dev/grammar"
	"lindenmayer.dev/turtle"
)

// ErrConfiguration matches every [ConfigurationError].
var ErrConfiguration = errors.New("drawrule: configuration error")

// ConfigurationError reports symbols of a grammar that have no drawing
// rule.
type ConfigurationError struct {
	Missing []grammar.Symbol
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("drawrule: no drawing rule for symbols %q", grammar.Join(e.Missing))
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Action performs the turtle operations of a symbol and reports whether
// they constitute a visible drawing step.
type Action func() (step bool, err error)

// Table maps every symbol of an alphabet to its action.
type Table map[grammar.Symbol]Action

// Factory returns the table of actions driving t for a drawing at depth.
// The symbols whose actions report steps must not depend on the turtle or
// the depth. Every call must return an independent table; actions needing
// state keep it in values created by the call.
type Factory func(t turtle.Turtle, depth int) Table

// Step returns an action that runs fns and reports a step.
func Step(fns ...func()) Action {
	return func() (bool, error) {
		for _, f := range fns {
			f()
		}
		return true, nil
	}
}

// Pass returns an action that runs fns without reporting a step. Pass()
// is a no-op.
func Pass(fns ...func()) Action {
	return func() (bool, error) {
		for _, f := range fns {
			f()
		}
		return false, nil
	}
}

// Save returns an action that saves the state of t before running fns.
func Save(t turtle.Turtle, fns ...func()) Action {
	return func() (bool, error) {
		t.SaveState()
		for _, f := range fns {
			f()
		}
		return false, nil
	}
}

// Restore returns an action that restores the state of t and then runs
// fns.
func Restore(t turtle.Turtle, fns ...func()) Action {
	return func() (bool, error) {
		if err := t.RestoreState(); err != nil {
			return false, err
		}
		for _, f := range fns {
			f()
		}
		return false, nil
	}
}

// Validate returns a *ConfigurationError if any of the symbols have no
// action in t.
func Validate(t Table, symbols []grammar.Symbol) error {
	var missing []grammar.Symbol
	for _, s := range symbols {
		if a, ok := t[s]; !ok || a == nil {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Probe reports, for each symbol, whether its action is a drawing step. The
// actions are evaluated once against a [turtle.Nop] at depth 1, so
// probing has no side effects outside the probed table.
func Probe(f Factory, symbols []grammar.Symbol) ([]bool, error) {
	t := f(turtle.Nop{}, 1)
	if err := Validate(t, symbols); err != nil {
		return nil, err
	}
	steps := make([]bool, len(symbols))
	for i, s := range symbols {
		step, err := t[s]()
		if err != nil {
			return nil, fmt.Errorf("drawrule: probe %q: %w", s, err)
		}
		steps[i] = step
	}
	return steps, nil
}
