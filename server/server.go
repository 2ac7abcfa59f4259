// Package server implements the HTTP fractal gallery.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"lindenmayer.dev/cache"
	"lindenmayer.dev/fractal"
	"lindenmayer.dev/grammar"
	"lindenmayer.dev/internal/logging"
	"lindenmayer.dev/render"
)

// Options configure a Server.
type Options struct {
	Catalog *fractal.Catalog
	// Cache stores renderings. Nil disables caching.
	Cache  cache.Cache
	Logger *slog.Logger
	// Registry receives the metrics. Nil selects a new registry.
	Registry *prometheus.Registry

	MaxDepth int
	MaxSteps uint64
	MaxWidth int
	// Width of renderings that do not specify one.
	Width  int
	Fit    bool
	Margin float64
}

// Server serves the fractals of a catalog.
type Server struct {
	opts    Options
	log     *slog.Logger
	cache   cache.Cache
	reg     *prometheus.Registry
	metrics metrics
}

type metrics struct {
	requests *prometheus.CounterVec
	renders  *prometheus.HistogramVec
	steps    prometheus.Counter
	cache    *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry) metrics {
	m := metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lsys_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "code"},
		),
		renders: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lsys_render_duration_seconds",
				Help:    "Duration of fractal renderings",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 9),
			},
			[]string{"fractal", "format"},
		),
		steps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lsys_render_steps_total",
				Help: "Total number of drawing steps rendered",
			},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lsys_cache_lookups_total",
				Help: "Render cache lookups by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.requests, m.renders, m.steps, m.cache)
	return m
}

// New returns a server.
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = fractal.Standard()
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 4096
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 20
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = 5_000_000
	}
	s := &Server{
		opts:  opts,
		log:   opts.Logger,
		cache: opts.Cache,
		reg:   opts.Registry,
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.reg == nil {
		s.reg = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.reg)
	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	r.Get("/fractals", s.list)
	r.Get("/fractals/{name}", s.describe)
	r.Get("/fractals/{name}/render.{format}", s.render)
	return r
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}

// errStatus is an error with an HTTP status.
type errStatus struct {
	code int
	err  error
}

func (e *errStatus) Error() string { return e.err.Error() }
func (e *errStatus) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &errStatus{http.StatusBadRequest, fmt.Errorf(format, args...)}
}

func tooLarge(format string, args ...any) error {
	return &errStatus{http.StatusUnprocessableEntity, fmt.Errorf(format, args...)}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	var es *errStatus
	switch {
	case errors.As(err, &es):
		code = es.code
	case errors.Is(err, fractal.ErrUnknown):
		code = http.StatusNotFound
	}
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// Summary describes a fractal in the listing.
type Summary struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Iterations int    `json:"iterations"`
	// Steps is the decimal number of steps at the default iterations.
	Steps string `json:"steps"`
}

// Detail describes a fractal at a depth.
type Detail struct {
	Summary
	Axiom       string            `json:"axiom"`
	Rules       map[string]string `json:"rules"`
	Stepping    string            `json:"stepping"`
	Depth       int               `json:"depth"`
	DepthSteps  string            `json:"depth_steps"`
	Counts      map[string]string `json:"counts"`
	Description string            `json:"description"`
}

func summarize(f *fractal.Fractal) (Summary, error) {
	n, err := f.Steps(-1)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Name: f.Name(), Title: f.Title(), Iterations: f.Iterations(), Steps: n.String()}, nil
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	var fs []Summary
	for f := range s.opts.Catalog.All() {
		sum, err := summarize(f)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		fs = append(fs, sum)
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) describe(w http.ResponseWriter, r *http.Request) {
	f, depth, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sum, err := summarize(f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	g := f.Grammar()
	d := Detail{
		Summary:  sum,
		Axiom:    grammar.Join(g.Axiom()),
		Rules:    make(map[string]string),
		Stepping: grammar.Join(f.Projector().SteppingSymbols()),
		Depth:    depth,
		Counts:   make(map[string]string),
	}
	for _, sym := range g.Symbols() {
		if rule, ok := g.Rule(sym); ok {
			d.Rules[sym.String()] = grammar.Join(rule)
		}
	}
	counts, err := f.Projector().Counts(depth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	for i, sym := range f.Projector().Symbols() {
		d.Counts[sym.String()] = counts[i].String()
	}
	steps, err := f.Steps(depth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d.DepthSteps = steps.String()
	if d.Description, err = f.Describe(depth); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// lookup resolves the fractal and depth of a request.
func (s *Server) lookup(r *http.Request) (*fractal.Fractal, int, error) {
	f, err := s.opts.Catalog.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		return nil, 0, err
	}
	depth := f.Iterations()
	if v := r.URL.Query().Get("depth"); v != "" {
		depth, err = strconv.Atoi(v)
		if err != nil || depth < 0 {
			return nil, 0, badRequest("invalid depth %q", v)
		}
	}
	if depth > s.opts.MaxDepth {
		return nil, 0, tooLarge("depth %d exceeds the limit of %d", depth, s.opts.MaxDepth)
	}
	return f, depth, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	f, depth, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil || (format != render.PNG && format != render.SVG) {
		s.fail(w, r, badRequest("unsupported format %q", chi.URLParam(r, "format")))
		return
	}
	width := s.opts.Width
	if v := r.URL.Query().Get("width"); v != "" {
		width, err = strconv.Atoi(v)
		if err != nil || width <= 0 {
			s.fail(w, r, badRequest("invalid width %q", v))
			return
		}
	}
	if width > s.opts.MaxWidth {
		s.fail(w, r, tooLarge("width %d exceeds the limit of %d", width, s.opts.MaxWidth))
		return
	}
	steps, err := f.Steps(depth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if steps.Cmp(new(big.Int).SetUint64(s.opts.MaxSteps)) > 0 {
		s.fail(w, r, tooLarge("%s at depth %d takes %v steps, more than the limit of %d", f.Name(), depth, steps, s.opts.MaxSteps))
		return
	}

	ctx := r.Context()
	key := cache.Key{Name: f.Name(), Format: string(format), Depth: depth, Width: width, Fit: s.opts.Fit}.String()
	img, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.cache.WithLabelValues("hit").Inc()
	case errors.Is(err, cache.ErrMiss):
		s.metrics.cache.WithLabelValues("miss").Inc()
		if img, err = s.draw(r, f, format, depth, width); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := s.cache.Set(ctx, key, img); err != nil {
			s.log.Warn("caching rendering", "key", key, "error", err)
		}
	default:
		s.metrics.cache.WithLabelValues("error").Inc()
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Write(img)
}

func (s *Server) draw(r *http.Request, f *fractal.Fractal, format render.Format, depth, width int) ([]byte, error) {
	buf := new(bytes.Buffer)
	start := time.Now()
	opts := render.Options{
		Options: fractal.Options{
			Depth:  depth,
			Width:  float64(width),
			Fit:    s.opts.Fit,
			Margin: s.opts.Margin,
			Logger: s.log,
		},
	}
	res, err := render.Render(r.Context(), buf, f, format, opts)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	s.metrics.renders.WithLabelValues(f.Name(), string(format)).Observe(elapsed.Seconds())
	s.metrics.steps.Add(float64(res.Steps))
	s.log.Info("rendered fractal", "fractal", f.Name(), "format", format,
		"depth", depth, "width", width, "steps", res.Steps, "elapsed", elapsed)
	return buf.Bytes(), nil
}
