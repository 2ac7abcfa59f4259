// Package config loads the lsys configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
	"lindenmayer.dev/internal/logging"
	"lindenmayer.dev/render"
)

// EnvFile names the environment variable holding the configuration file
// path.
const EnvFile = "LSYS_CONFIG"

// Config is the complete configuration.
type Config struct {
	Render  Render  `yaml:"render" envPrefix:"LSYS_"`
	Log     Log     `yaml:"log" envPrefix:"LSYS_LOG_"`
	Server  Server  `yaml:"server" envPrefix:"LSYS_SERVER_"`
	Plotter Plotter `yaml:"plotter" envPrefix:"LSYS_PLOTTER_"`
}

// Render holds the rendering defaults.
type Render struct {
	Width       int     `yaml:"width" env:"WIDTH"`
	StrokeWidth float64 `yaml:"stroke_width" env:"STROKE_WIDTH"`
	Format      string  `yaml:"format" env:"FORMAT"`
	Fit         bool    `yaml:"fit" env:"FIT"`
	Margin      float64 `yaml:"margin" env:"MARGIN"`
}

type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Server configures the HTTP gallery.
type Server struct {
	Addr string `yaml:"addr" env:"ADDR"`
	// MaxDepth and MaxSteps bound the renderings a request may ask for.
	MaxDepth int    `yaml:"max_depth" env:"MAX_DEPTH"`
	MaxSteps uint64 `yaml:"max_steps" env:"MAX_STEPS"`
	MaxWidth int    `yaml:"max_width" env:"MAX_WIDTH"`
	// CacheSize is the in-memory cache limit in bytes. Zero disables the
	// cache.
	CacheSize int `yaml:"cache_size" env:"CACHE_SIZE"`
	// RedisURL selects a Redis cache instead of the in-memory cache.
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
}

type Plotter struct {
	Device string  `yaml:"device" env:"DEVICE"`
	Pens   int     `yaml:"pens" env:"PENS"`
	Size   float64 `yaml:"size" env:"SIZE"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Render: Render{
			Width:  1000,
			Format: "png",
			Margin: 0.05,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Server: Server{
			Addr:      ":8080",
			MaxDepth:  20,
			MaxSteps:  5_000_000,
			MaxWidth:  4096,
			CacheSize: 64 << 20,
			CacheTTL:  time.Hour,
		},
		Plotter: Plotter{
			Pens: 1,
			Size: 180,
		},
	}
}

// Load returns the default configuration overridden by the YAML file at
// path and then by environ. An empty path is replaced by the value of
// EnvFile, if any. A nil environ means the process environment.
func Load(path string, environ map[string]string) (Config, error) {
	c := Default()
	if path == "" {
		if environ != nil {
			path = environ[EnvFile]
		} else {
			path = os.Getenv(EnvFile)
		}
	}
	if path != "" {
		if err := c.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return c, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// Validate reports every out of range setting.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	r := c.Render
	check(r.Width > 0, "render width %d is not positive", r.Width)
	check(r.StrokeWidth >= 0, "stroke width %v is negative", r.StrokeWidth)
	check(r.Margin >= 0 && r.Margin < 0.5, "margin %v is outside [0, 0.5)", r.Margin)
	if _, err := render.ParseFormat(r.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	s := c.Server
	check(s.MaxDepth > 0, "max depth %d is not positive", s.MaxDepth)
	check(s.MaxSteps > 0, "max steps is zero")
	check(s.MaxWidth > 0, "max width %d is not positive", s.MaxWidth)
	check(s.CacheSize >= 0, "cache size %d is negative", s.CacheSize)
	check(s.CacheTTL >= 0, "cache ttl %v is negative", s.CacheTTL)
	check(c.Plotter.Pens >= 1, "plotter needs at least one pen, got %d", c.Plotter.Pens)
	check(c.Plotter.Size > 0, "plotter size %v is not positive", c.Plotter.Size)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
