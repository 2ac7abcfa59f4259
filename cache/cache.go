// Package cache stores rendered fractal images.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMiss is returned by Get for absent keys.
var ErrMiss = errors.New("cache: miss")

// Cache is a store of rendered images safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
}

// Key identifies a rendering.
type Key struct {
	Name   string
	Format string
	Depth  int
	Width  int
	Fit    bool
}

func (k Key) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d/%d.%s", k.Name, k.Depth, k.Width, k.Format)
	if k.Fit {
		b.WriteString("?fit")
	}
	return b.String()
}

// Nop is a cache that stores nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Nop) Set(context.Context, string, []byte) error   { return nil }
