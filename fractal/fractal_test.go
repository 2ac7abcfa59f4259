package fractal

import (
	"context"
	"errors"
	"flag"
	"image/color"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"lindenmayer.dev/canvas/record"
	"lindenmayer.dev/drawrule"
	"lindenmayer.dev/grammar"
	"lindenmayer.dev/internal/golden"
	"lindenmayer.dev/turtle"
)

var (
	update = flag.Bool("update", false, "update golden files")
	dump   = flag.String("dump", "", "dump SVG files to directory")
)

func TestStandardNames(t *testing.T) {
	want := []string{
		"sierpinski", "dragon", "fern", "levy-c", "hilbert", "sierpinski-hex",
		"koch", "koch-square", "binary-tree", "fibonacci-word", "gosper",
	}
	if got := Standard().Names(); !slices.Equal(got, want) {
		t.Errorf("standard fractals %v, want %v", got, want)
	}
}

func TestStandardDraw(t *testing.T) {
	for f := range Standard().All() {
		depth := min(f.Iterations(), 4)
		r := record.New()
		res, err := f.Draw(context.Background(), r, Options{Depth: depth, Width: 1000})
		if err != nil {
			t.Errorf("%s: %v", f.Name(), err)
			continue
		}
		if !res.Expected.IsUint64() || res.Expected.Uint64() != res.Steps {
			t.Errorf("%s: took %d steps, projected %v", f.Name(), res.Steps, res.Expected)
		}
		if n := len(r.Segments()); uint64(n) != res.Steps {
			t.Errorf("%s: drew %d lines in %d steps", f.Name(), n, res.Steps)
		}
		var symbols uint64
		for range f.Grammar().Expand(depth) {
			symbols++
		}
		if res.Symbols != symbols {
			t.Errorf("%s: interpreted %d symbols, want %d", f.Name(), res.Symbols, symbols)
		}
	}
}

func TestFit(t *testing.T) {
	const width = 500
	for f := range Standard().All() {
		r := record.New()
		opts := Options{Depth: min(f.Iterations(), 3), Width: width, Fit: true, Margin: 0.05}
		if _, err := f.Draw(context.Background(), r, opts); err != nil {
			t.Fatalf("%s: %v", f.Name(), err)
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, s := range r.Segments() {
			lo = min(lo, s.X0, s.Y0, s.X1, s.Y1)
			hi = max(hi, s.X0, s.Y0, s.X1, s.Y1)
		}
		const eps = 1e-6
		if lo < width*0.05-eps || hi > width*0.95+eps {
			t.Errorf("%s: fitted drawing spans [%v, %v], want within [25, 475]", f.Name(), lo, hi)
		}
		if hi-lo < width*0.9/2 {
			t.Errorf("%s: fitted drawing spans only [%v, %v]", f.Name(), lo, hi)
		}
	}
}

func TestMeasure(t *testing.T) {
	f, err := Standard().Lookup("koch-square")
	if err != nil {
		t.Fatal(err)
	}
	r, err := f.Measure(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	const eps = 1e-9
	if math.Abs(r.Min[0]) > eps || math.Abs(r.Max[0]-1) > eps ||
		math.Abs(r.Min[1]-0.5) > eps || math.Abs(r.Max[1]-0.5) > eps {
		t.Errorf("bounds %v, want the segment from (0, 0.5) to (1, 0.5)", r)
	}
}

func TestGolden(t *testing.T) {
	tests := []struct {
		name  string
		depth int
	}{
		{"hilbert", 3},
		{"koch", 2},
		{"binary-tree", 3},
		{"fibonacci-word", 5},
	}
	cat := Standard()
	for _, test := range tests {
		f, err := cat.Lookup(test.name)
		if err != nil {
			t.Fatal(err)
		}
		r := record.New()
		if _, err := f.Draw(context.Background(), r, Options{Depth: test.depth, Width: 1000}); err != nil {
			t.Fatal(err)
		}
		p := filepath.Join("testdata", test.name+".bin.gz")
		if err := golden.CompareSegments(p, *update, *dump, 1000, r.Segments()); err != nil {
			t.Errorf("%s: %v", test.name, err)
		}
	}
}

func TestRepeatable(t *testing.T) {
	f, err := Standard().Lookup("fibonacci-word")
	if err != nil {
		t.Fatal(err)
	}
	var drawings [][]record.Segment
	for range 2 {
		r := record.New()
		if _, err := f.Draw(context.Background(), r, Options{Depth: 7, Width: 100}); err != nil {
			t.Fatal(err)
		}
		drawings = append(drawings, r.Segments())
	}
	if !slices.Equal(drawings[0], drawings[1]) {
		t.Error("second drawing differs from the first")
	}
}

type colorCanvas struct {
	colors []color.Color
	lines  int
}

func (c *colorCanvas) DrawLine(x0, y0, x1, y1 float64) { c.lines++ }
func (c *colorCanvas) SetColor(col color.Color)        { c.colors = append(c.colors, col) }
func (c *colorCanvas) SetStrokeWidth(float64)          {}

func TestProgressColors(t *testing.T) {
	f, err := Standard().Lookup("hilbert")
	if err != nil {
		t.Fatal(err)
	}
	c := new(colorCanvas)
	var last, calls uint64
	progress := func(moved, expected uint64) {
		calls++
		if moved != last+1 {
			t.Fatalf("progress jumped from %d to %d", last, moved)
		}
		if expected != 4095 {
			t.Fatalf("expected %d steps, want 4095", expected)
		}
		last = moved
	}
	if _, err := f.Draw(context.Background(), c, Options{Depth: 6, Progress: progress}); err != nil {
		t.Fatal(err)
	}
	if calls != 4095 {
		t.Errorf("progress called %d times, want 4095", calls)
	}
	if n := len(c.colors); n != 256 {
		t.Errorf("set %d colours, want 256", n)
	}
}

func TestFixedColor(t *testing.T) {
	f, err := New(Config{
		Name:  "still",
		Axiom: "X",
		Rules: map[rune]string{'X': "X+X"},
		Size:  func(int) float64 { return 1 },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'X': drawrule.Pass(),
				'+': drawrule.Pass(func() { t.Turn(90) }),
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := new(colorCanvas)
	res, err := f.Draw(context.Background(), c, Options{Depth: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 0 || len(c.colors) != 1 {
		t.Errorf("%d steps and %d colours, want 0 steps and 1 colour", res.Steps, len(c.colors))
	}
}

func TestDeep(t *testing.T) {
	f, err := New(Config{
		Name:  "line",
		Axiom: "F",
		Rules: map[rune]string{'F': "F"},
		Size:  func(int) float64 { return 1 },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{'F': drawrule.Step(func() { t.Forward(1) })}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.Draw(context.Background(), new(colorCanvas), Options{Depth: grammar.MaxRecursionDepth + 100})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 1 {
		t.Errorf("%d steps, want 1", res.Steps)
	}
}

func TestMissingRules(t *testing.T) {
	_, err := New(Config{
		Name:  "broken",
		Axiom: "FX",
		Size:  func(int) float64 { return 1 },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{'F': drawrule.Step()}
		},
	})
	var cerr *drawrule.ConfigurationError
	if !errors.As(err, &cerr) || grammar.Join(cerr.Missing) != "X" {
		t.Errorf("got error %v, want missing X", err)
	}
	if _, err := New(Config{Name: "nosize", Draw: func(turtle.Turtle, int) drawrule.Table { return nil }}); !errors.Is(err, ErrInvalid) {
		t.Errorf("got error %v, want %v", err, ErrInvalid)
	}
}

func TestEmptyStateStack(t *testing.T) {
	f, err := New(Config{
		Name:  "unbalanced",
		Axiom: "F]F",
		Size:  func(int) float64 { return 1 },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': drawrule.Step(func() { t.Forward(1) }),
				']': drawrule.Restore(t),
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := new(colorCanvas)
	res, err := f.Draw(context.Background(), c, Options{Depth: 0})
	if !errors.Is(err, turtle.ErrEmptyStateStack) {
		t.Fatalf("got error %v, want %v", err, turtle.ErrEmptyStateStack)
	}
	if res.Steps != 1 || c.lines != 1 {
		t.Errorf("aborted after %d steps and %d lines, want 1", res.Steps, c.lines)
	}
}

func TestCancel(t *testing.T) {
	f, err := Standard().Lookup("dragon")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Draw(ctx, new(colorCanvas), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got error %v, want %v", err, context.Canceled)
	}
}

func TestCatalog(t *testing.T) {
	cat := Standard()
	if _, err := cat.Lookup("nope"); !errors.Is(err, ErrUnknown) {
		t.Errorf("got error %v, want %v", err, ErrUnknown)
	}
	f, err := cat.Lookup("koch")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewCatalog(f, f); !errors.Is(err, ErrDuplicate) {
		t.Errorf("got error %v, want %v", err, ErrDuplicate)
	}
	if Standard() == cat {
		t.Error("standard catalogs are shared")
	}
}

func TestDescribe(t *testing.T) {
	f, err := Standard().Lookup("fern")
	if err != nil {
		t.Fatal(err)
	}
	desc, err := f.Describe(2)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# A Lindenmayer Fern",
		"| `X` | `F+[[X]-X]-F[-FX]+X` |",
		"| `F` | `FF` |",
		"## Transition matrix",
		"18 steps at depth 2.",
	} {
		if !strings.Contains(desc, want) {
			t.Errorf("description does not contain %q:\n%s", want, desc)
		}
	}
}

func TestDepthDependentRules(t *testing.T) {
	f, err := New(Config{
		Name:  "shrinking",
		Axiom: "F+F",
		Size:  func(int) float64 { return 1 },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			table := drawrule.Table{'F': drawrule.Step(func() { t.Forward(1) })}
			if d == 1 {
				table['+'] = drawrule.Pass(func() { t.Turn(90) })
			}
			return table
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := new(colorCanvas)
	res, err := f.Draw(context.Background(), c, Options{Depth: 2})
	var cerr *drawrule.ConfigurationError
	if !errors.As(err, &cerr) || grammar.Join(cerr.Missing) != "+" {
		t.Fatalf("got error %v, want missing +", err)
	}
	if res.Symbols != 0 || c.lines != 0 {
		t.Errorf("drew %d symbols and %d lines before failing, want none", res.Symbols, c.lines)
	}
	if _, err := f.Measure(context.Background(), 0); !errors.Is(err, drawrule.ErrConfiguration) {
		t.Errorf("measure: got error %v, want %v", err, drawrule.ErrConfiguration)
	}
}

func TestInvalidSize(t *testing.T) {
	rules := func(t turtle.Turtle, d int) drawrule.Table {
		return drawrule.Table{'F': drawrule.Step(func() { t.Forward(1) })}
	}
	for _, size := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err := New(Config{Name: "sized", Axiom: "F", Size: func(int) float64 { return size }, Draw: rules})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("size %v: got error %v, want %v", size, err, ErrInvalid)
		}
	}
	f, err := New(Config{
		Name:       "vanishing",
		Axiom:      "F",
		Iterations: 1,
		Size: func(d int) float64 {
			if d > 3 {
				return 0
			}
			return 1
		},
		Draw: rules,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Draw(context.Background(), new(colorCanvas), Options{Depth: 4}); !errors.Is(err, ErrInvalid) {
		t.Errorf("draw: got error %v, want %v", err, ErrInvalid)
	}
	if _, err := f.Measure(context.Background(), 4); !errors.Is(err, ErrInvalid) {
		t.Errorf("measure: got error %v, want %v", err, ErrInvalid)
	}
}
