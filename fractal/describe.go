package fractal

import (
	"fmt"
	"slices"
	"strings"

	"lindenmayer.dev/grammar"
)

// Describe returns a markdown description of the fractal and its step
// projection at depth.
func (f *Fractal) Describe(depth int) (string, error) {
	depth = f.Depth(depth)
	steps, err := f.proj.Steps(depth)
	if err != nil {
		return "", err
	}
	b := new(strings.Builder)
	fmt.Fprintf(b, "# %s\n\n", f.title)
	fmt.Fprintf(b, "- Name: `%s`\n", f.name)
	fmt.Fprintf(b, "- Default iterations: %d\n", f.iterations)
	fmt.Fprintf(b, "- Axiom: `%s`\n\n", grammar.Join(f.grammar.Axiom()))

	b.WriteString("## Rules\n\n| Symbol | Replacement |\n|---|---|\n")
	var keys []grammar.Symbol
	for _, s := range f.grammar.Symbols() {
		if _, ok := f.grammar.Rule(s); ok {
			keys = append(keys, s)
		}
	}
	slices.Sort(keys)
	for _, s := range keys {
		r, _ := f.grammar.Rule(s)
		fmt.Fprintf(b, "| `%s` | `%s` |\n", s, grammar.Join(r))
	}

	b.WriteString("\n## Symbols\n\n| Index | Symbol | Stepping |\n|---|---|---|\n")
	stepping := f.proj.Stepping()
	for i, s := range f.proj.Symbols() {
		fmt.Fprintf(b, "| %d | `%s` | %t |\n", i, s, stepping[i])
	}

	fmt.Fprintf(b, "\n## Initial state vector\n\n```\n%s\n```\n", f.proj.Initial())
	fmt.Fprintf(b, "\n## Transition matrix\n\n```\n%s\n```\n", f.proj.Transition())
	fmt.Fprintf(b, "\n## Projection\n\n%s steps at depth %d.\n", steps, depth)
	return b.String(), nil
}
