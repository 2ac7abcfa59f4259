package fractal

import (
	"math"

	"lindenmayer.dev/drawrule"
	"lindenmayer.dev/turtle"
)

// Standard returns a new catalog of the built-in fractals.
func Standard() *Catalog {
	var fs []*Fractal
	for _, c := range standard {
		f, err := New(c)
		if err != nil {
			panic(err)
		}
		fs = append(fs, f)
	}
	cat, err := NewCatalog(fs...)
	if err != nil {
		panic(err)
	}
	return cat
}

func pow(base float64, depth int) float64 {
	return math.Pow(base, float64(depth))
}

// forward is the drawing rule of plain line segments.
func forward(t turtle.Turtle) drawrule.Action {
	return drawrule.Step(func() { t.Forward(1) })
}

func turn(t turtle.Turtle, degrees float64) drawrule.Action {
	return drawrule.Pass(func() { t.Turn(degrees) })
}

// The sizes are approximations; use [Options.Fit] for exact scaling.
var standard = []Config{
	{
		Name:       "sierpinski",
		Title:      "Sierpinski's Gasket",
		Axiom:      "F-G-G",
		Rules:      map[rune]string{'F': "F-G+F+G-F", 'G': "GG"},
		Iterations: 10,
		Size:       func(d int) float64 { return pow(2, d) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'G': forward(t),
				'-': turn(t, 120),
				'+': turn(t, -120),
			}
		},
	},
	{
		Name:       "dragon",
		Title:      "The Dragon Curve",
		Axiom:      "0FX",
		Rules:      map[rune]string{'X': "X+YF+", 'Y': "-FX-Y"},
		Iterations: 16,
		Size:       func(d int) float64 { return 2 * math.Pow(2, float64(d)/2) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'-': turn(t, 90),
				'+': turn(t, -90),
				'0': drawrule.Pass(
					func() { t.Turn(45 + 45*float64(d)) },
					func() { t.Jump(0.35, 0.25) },
				),
				'X': drawrule.Pass(),
				'Y': drawrule.Pass(),
			}
		},
	},
	{
		Name:       "fern",
		Title:      "A Lindenmayer Fern",
		Axiom:      "0X",
		Rules:      map[rune]string{'X': "F+[[X]-X]-F[-FX]+X", 'F': "FF"},
		Iterations: 8,
		Size:       func(d int) float64 { return 0.1 * pow(3, d) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'-': turn(t, 25),
				'+': turn(t, -25),
				'X': drawrule.Pass(),
				'[': drawrule.Save(t),
				']': drawrule.Restore(t),
				'0': drawrule.Pass(
					func() { t.Jump(0.5, 0) },
					func() { t.SetHeading(90) },
				),
			}
		},
	},
	{
		Name:       "levy-c",
		Title:      "The Levy C Curve",
		Axiom:      "0F",
		Rules:      map[rune]string{'F': "+F--F+"},
		Iterations: 18,
		Size:       func(d int) float64 { return 2 * math.Pow(2, float64(d)/2) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'-': turn(t, -45),
				'+': turn(t, 45),
				'0': drawrule.Pass(func() { t.Jump(0.25, 0.25) }),
			}
		},
	},
	{
		Name:       "hilbert",
		Title:      "Hilbert's Space-Filling Curve",
		Axiom:      "A",
		Rules:      map[rune]string{'A': "-BF+AFA+FB-", 'B': "+AF-BFB-FA+"},
		Iterations: 8,
		Size:       func(d int) float64 { return pow(2, d) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'A': drawrule.Pass(),
				'B': drawrule.Pass(),
				'-': turn(t, 90),
				'+': turn(t, -90),
			}
		},
	},
	{
		Name:       "sierpinski-hex",
		Title:      "Sierpinski's Gasket Hexagonal Variant",
		Axiom:      "A",
		Rules:      map[rune]string{'A': "B-A-B", 'B': "A+B+A"},
		Iterations: 8,
		Size:       func(d int) float64 { return pow(2, d) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			// Odd depths mirror the curve.
			sign := 1.0
			if d%2 == 1 {
				sign = -1
			}
			return drawrule.Table{
				'A': forward(t),
				'B': forward(t),
				'-': turn(t, -60*sign),
				'+': turn(t, 60*sign),
			}
		},
	},
	{
		Name:       "koch",
		Title:      "Koch Snowflake",
		Axiom:      "0F--F--F",
		Rules:      map[rune]string{'F': "F+F--F+F"},
		Iterations: 8,
		Size:       func(d int) float64 { return 2 * math.Sqrt(3) / 3 * pow(3, d) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'-': turn(t, 60),
				'+': turn(t, -60),
				'0': drawrule.Pass(func() { t.Jump(0.5*(1-3/(2*math.Sqrt(3))), 0.25) }),
			}
		},
	},
	{
		Name:       "koch-square",
		Title:      "Square Koch Curve",
		Axiom:      "0F--F",
		Rules:      map[rune]string{'F': "F+F-F-F+F"},
		Iterations: 7,
		Size:       func(d int) float64 { return pow(3, d) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'-': turn(t, -90),
				'+': turn(t, 90),
				'0': drawrule.Pass(func() { t.Jump(0, 0.5) }),
			}
		},
	},
	{
		Name:       "binary-tree",
		Title:      "Binary Tree",
		Axiom:      "_0",
		Rules:      map[rune]string{'1': "11", '0': "1[0]0"},
		Iterations: 10,
		Size: func(d int) float64 {
			return math.Pow(2, float64(d-1)) * 4 / 3 * (1 + 0.25*math.Sqrt2)
		},
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'0': forward(t),
				'1': forward(t),
				'[': drawrule.Save(t, func() { t.Turn(45) }),
				']': drawrule.Restore(t, func() { t.Turn(-45) }),
				'_': drawrule.Pass(
					func() { t.Jump(0.5, 0) },
					func() { t.SetHeading(90) },
				),
			}
		},
	},
	{
		Name:       "fibonacci-word",
		Title:      "Fibonacci Word Fractal",
		Axiom:      "_0",
		Rules:      map[rune]string{'0': "01", '1': "0"},
		Iterations: 18,
		// The extent grows by 1+√2 every three iterations.
		Size: func(d int) float64 {
			return 2 * math.Pow(1+math.Sqrt2, float64(d)/3)
		},
		Draw: fibonacciWord,
	},
	{
		Name:       "gosper",
		Title:      "Gosper Curve",
		Axiom:      "_X",
		Rules:      map[rune]string{'X': "X+YF++YF-FX--FXFX-YF+", 'Y': "-FX+YFYF++YF+FX--FX-Y"},
		Iterations: 5,
		Size:       func(d int) float64 { return 1.6 * math.Pow(math.Sqrt(7), float64(d)) },
		Draw: func(t turtle.Turtle, d int) drawrule.Table {
			return drawrule.Table{
				'F': forward(t),
				'X': drawrule.Pass(),
				'Y': drawrule.Pass(),
				'+': turn(t, -60),
				'-': turn(t, 60),
				'_': drawrule.Pass(func() { t.Jump(0.6, 0.1) }),
			}
		},
	},
}

// wordState counts the digits drawn by a Fibonacci word table.
type wordState struct {
	digits int
}

// fibonacciWord draws every digit as a step and turns after a 0 digit,
// left if it is at an odd position of the word and right otherwise.
func fibonacciWord(t turtle.Turtle, d int) drawrule.Table {
	s := new(wordState)
	return drawrule.Table{
		'_': drawrule.Pass(func() { t.Jump(0.1, 0.1) }),
		'0': func() (bool, error) {
			s.digits++
			t.Forward(1)
			if s.digits%2 == 1 {
				t.Turn(90)
			} else {
				t.Turn(-90)
			}
			return true, nil
		},
		'1': func() (bool, error) {
			s.digits++
			t.Forward(1)
			return true, nil
		},
	}
}
