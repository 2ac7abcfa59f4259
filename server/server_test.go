package server

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lindenmayer.dev/cache"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}

func TestList(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts, "/fractals")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fs []Summary
	require.NoError(t, json.Unmarshal(body, &fs))
	require.Len(t, fs, 11)
	assert.Equal(t, "sierpinski", fs[0].Name)
	assert.Equal(t, "gosper", fs[10].Name)
	for _, f := range fs {
		assert.NotEmpty(t, f.Steps, f.Name)
	}
}

func TestDescribe(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts, "/fractals/koch?depth=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d Detail
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, "koch", d.Name)
	assert.Equal(t, 2, d.Depth)
	assert.Equal(t, "48", d.DepthSteps)
	assert.Equal(t, "48", d.Counts["F"])
	assert.Equal(t, "F+F--F+F", d.Rules["F"])
	assert.Equal(t, "F", d.Stepping)
	assert.Contains(t, d.Description, "48 steps at depth 2.")
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, Options{MaxDepth: 10, MaxSteps: 1000, MaxWidth: 500})
	tests := []struct {
		path string
		code int
	}{
		{"/fractals/nope", http.StatusNotFound},
		{"/fractals/nope/render.svg", http.StatusNotFound},
		{"/fractals/koch?depth=deep", http.StatusBadRequest},
		{"/fractals/koch?depth=-1", http.StatusBadRequest},
		{"/fractals/koch?depth=11", http.StatusUnprocessableEntity},
		{"/fractals/koch/render.gif?depth=1", http.StatusBadRequest},
		{"/fractals/koch/render.cbor?depth=1", http.StatusBadRequest},
		{"/fractals/koch/render.svg?depth=1&width=0", http.StatusBadRequest},
		{"/fractals/koch/render.svg?depth=1&width=501", http.StatusUnprocessableEntity},
		{"/fractals/hilbert/render.svg?depth=8", http.StatusUnprocessableEntity},
	}
	for _, test := range tests {
		resp, body := get(t, ts, test.path)
		assert.Equal(t, test.code, resp.StatusCode, test.path)
		var e map[string]string
		if assert.NoError(t, json.Unmarshal(body, &e), test.path) {
			assert.NotEmpty(t, e["error"], test.path)
		}
	}
}

func TestRenderCached(t *testing.T) {
	mem := cache.NewMemory(1 << 20)
	ts := newTestServer(t, Options{Cache: mem})

	resp, first := get(t, ts, "/fractals/koch/render.svg?depth=2&width=100")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(first), "<svg"))
	assert.Equal(t, 1, mem.Len())

	resp, second := get(t, ts, "/fractals/koch/render.svg?depth=2&width=100")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first, second)

	_, metrics := get(t, ts, "/metrics")
	assert.Contains(t, string(metrics), `lsys_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, string(metrics), `lsys_cache_lookups_total{result="miss"} 1`)
	assert.Contains(t, string(metrics), `lsys_render_steps_total 48`)
	assert.Contains(t, string(metrics), `lsys_http_requests_total{code="200",route="/fractals/{name}/render.{format}"} 2`)
}

func TestRenderPNG(t *testing.T) {
	ts := newTestServer(t, Options{Width: 64, Fit: true, Margin: 0.1})
	resp, body := get(t, ts, "/fractals/dragon/render.png?depth=6")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}
