package fractal

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	ErrDuplicate = errors.New("fractal: duplicate name")
	ErrUnknown   = errors.New("fractal: unknown fractal")
)

// Catalog is an ordered collection of fractals, indexed by name.
type Catalog struct {
	fractals []*Fractal
	byName   map[string]*Fractal
}

// NewCatalog returns a catalog of fs, in order.
func NewCatalog(fs ...*Fractal) (*Catalog, error) {
	c := &Catalog{
		fractals: slices.Clone(fs),
		byName:   make(map[string]*Fractal, len(fs)),
	}
	for _, f := range fs {
		if _, dup := c.byName[f.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, f.name)
		}
		c.byName[f.name] = f
	}
	return c, nil
}

// Lookup returns the fractal named name.
func (c *Catalog) Lookup(name string) (*Fractal, error) {
	f, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return f, nil
}

// Names returns the fractal names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.fractals))
	for i, f := range c.fractals {
		names[i] = f.name
	}
	return names
}

// All returns the fractals in catalog order.
func (c *Catalog) All() iter.Seq[*Fractal] {
	return slices.Values(c.fractals)
}

func (c *Catalog) Len() int {
	return len(c.fractals)
}
