package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k := Key{Name: "koch", Format: "svg", Depth: 3, Width: 512}
	assert.Equal(t, "koch/3/512.svg", k.String())
	k.Fit = true
	assert.Equal(t, "koch/3/512.svg?fit", k.String())
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	require.NoError(t, m.Set(ctx, "a", []byte("aaaa")))
	require.NoError(t, m.Set(ctx, "b", []byte("bbbb")))

	// Touch a so that b is the least recently used.
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "c", []byte("cccc")))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
	v, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("aaaa"), v)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 8, m.Size())
}

func TestMemoryReplace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	require.NoError(t, m.Set(ctx, "a", []byte("aaaa")))
	require.NoError(t, m.Set(ctx, "a", []byte("aa")))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, m.Size())

	require.NoError(t, m.Set(ctx, "big", make([]byte, 11)))
	_, err := m.Get(ctx, "big")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 1, m.Len())
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	require.NoError(t, c.Set(context.Background(), "a", []byte("a")))
	_, err := c.Get(context.Background(), "a")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	r := NewRedisFromClient(client, WithTTL(time.Minute), WithPrefix("test:"))
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))
	_, err = r.Get(ctx, "koch/3/512.svg")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Set(ctx, "koch/3/512.svg", []byte("<svg/>")))
	assert.True(t, mr.Exists("test:koch/3/512.svg"))
	v, err := r.Get(ctx, "koch/3/512.svg")
	require.NoError(t, err)
	assert.Equal(t, []byte("<svg/>"), v)

	mr.FastForward(2 * time.Minute)
	_, err = r.Get(ctx, "koch/3/512.svg")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisURL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	r, err := NewRedis("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Set(context.Background(), "k", []byte("v")))
	assert.True(t, mr.Exists("lsys:render:k"))

	_, err = NewRedis("not a url")
	assert.Error(t, err)
}
