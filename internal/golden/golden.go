package golden

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"lindenmayer.dev/canvas/record"
	"lindenmayer.dev/canvas/svg"
)

// Unit is the number of encoded units per canvas unit.
const Unit = 64

// CompareSegments compares segs with the golden drawing at path, or
// replaces it if update is set. Colours and stroke widths are not part of
// the comparison. If dumpDir is not empty, the drawing and any mismatching
// golden drawing are written there as SVG.
func CompareSegments(path string, update bool, dumpDir string, width float64, segs []record.Segment) error {
	bpath := filepath.Base(path)
	if dumpDir != "" {
		fpath := filepath.Join(dumpDir, bpath+".svg")
		if err := dumpSVG(fpath, width, segs); err != nil {
			return err
		}
	}
	if update {
		buf := new(bytes.Buffer)
		w, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		w.Write(encodeSegments(segs))
		if err := w.Close(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return os.WriteFile(path, buf.Bytes(), 0o640)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	golden, err := decodeSegments(b)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	lines := quantize(segs)
	mismatches := 0
	for i := range min(len(lines), len(golden)) {
		if l1, l2 := lines[i], golden[i]; !closeEnough(l1[0], l2[0]) || !closeEnough(l1[1], l2[1]) {
			mismatches++
		}
	}
	if mismatches > 0 || len(lines) != len(golden) {
		if dumpDir != "" {
			fpath := filepath.Join(dumpDir, bpath+".orig.svg")
			if err := dumpSVG(fpath, width, dequantize(golden)); err != nil {
				return err
			}
		}
		return fmt.Errorf("segment counts %d, %d, with %d/%d segment mismatches", len(lines), len(golden), mismatches, len(golden))
	}
	return nil
}

type line [2]image.Point

func closeEnough(p1, p2 image.Point) bool {
	const epsilon = Unit
	diff := p2.Sub(p1)
	d := max(diff.X, diff.Y, -diff.X, -diff.Y)
	return d <= epsilon
}

func quantize(segs []record.Segment) []line {
	q := func(v float64) int { return int(math.Round(v * Unit)) }
	lines := make([]line, len(segs))
	for i, s := range segs {
		lines[i] = line{
			image.Pt(q(s.X0), q(s.Y0)),
			image.Pt(q(s.X1), q(s.Y1)),
		}
	}
	return lines
}

func dequantize(lines []line) []record.Segment {
	segs := make([]record.Segment, len(lines))
	for i, l := range lines {
		segs[i] = record.Segment{
			X0: float64(l[0].X) / Unit, Y0: float64(l[0].Y) / Unit,
			X1: float64(l[1].X) / Unit, Y1: float64(l[1].Y) / Unit,
			Color: color.NRGBA{0xff, 0xff, 0xff, 0xff},
			Width: 1,
		}
	}
	return segs
}

// decodeSegments decodes lines from their binary form.
func decodeSegments(enc []byte) ([]line, error) {
	var lines []line
	var last image.Point
	next := func() (image.Point, error) {
		var d [2]int64
		for i := range d {
			v, n := binary.Varint(enc)
			if n <= 0 {
				return image.Point{}, errors.New("truncated segments")
			}
			enc = enc[n:]
			d[i] = v
		}
		return image.Pt(int(d[0]), int(d[1])), nil
	}
	for len(enc) > 0 {
		d0, err := next()
		if err != nil {
			return nil, err
		}
		d1, err := next()
		if err != nil {
			return nil, err
		}
		p0 := last.Add(d0)
		p1 := p0.Add(d1)
		lines = append(lines, line{p0, p1})
		last = p1
	}
	return lines, nil
}

// encodeSegments encodes segments into a compact binary form, each point
// relative to the previous point.
func encodeSegments(segs []record.Segment) []byte {
	var buf []byte
	var last image.Point
	for _, l := range quantize(segs) {
		d0 := l[0].Sub(last)
		d1 := l[1].Sub(l[0])
		buf = binary.AppendVarint(buf, int64(d0.X))
		buf = binary.AppendVarint(buf, int64(d0.Y))
		buf = binary.AppendVarint(buf, int64(d1.X))
		buf = binary.AppendVarint(buf, int64(d1.Y))
		last = l[1]
	}
	return buf
}

// Vectorize writes segs as an SVG document of a width by width square.
func Vectorize(w io.Writer, width float64, segs []record.Segment) error {
	c := svg.New(w, width)
	record.Replay(c, segs)
	return c.Close()
}

func dumpSVG(f string, width float64, segs []record.Segment) error {
	buf := new(bytes.Buffer)
	if err := Vectorize(buf, width, segs); err != nil {
		return err
	}
	return os.WriteFile(f, buf.Bytes(), 0o640)
}
