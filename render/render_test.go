package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"lindenmayer.dev/canvas/record"
	"lindenmayer.dev/fractal"
)

func koch(t *testing.T) *fractal.Fractal {
	t.Helper()
	f, err := fractal.Standard().Lookup("koch")
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFormats(t *testing.T) {
	f := koch(t)
	for _, format := range Formats {
		buf := new(bytes.Buffer)
		opts := Options{
			Options: fractal.Options{Depth: 2, Width: 64},
			Profile: termenv.Ascii,
		}
		res, err := Render(context.Background(), buf, f, format, opts)
		if err != nil {
			t.Errorf("%s: %v", format, err)
			continue
		}
		if res.Steps != 48 {
			t.Errorf("%s: %d steps, want 48", format, res.Steps)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: empty rendering", format)
		}
		if format.ContentType() == "" {
			t.Errorf("%s: no content type", format)
		}
	}
}

func TestPNG(t *testing.T) {
	buf := new(bytes.Buffer)
	if _, err := Render(context.Background(), buf, koch(t), PNG, Options{Options: fractal.Options{Depth: 1, Width: 37}}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 37 || b.Dy() != 37 {
		t.Errorf("image bounds %v, want 37x37", b)
	}
}

func TestCBOR(t *testing.T) {
	buf := new(bytes.Buffer)
	res, err := Render(context.Background(), buf, koch(t), CBOR, Options{Options: fractal.Options{Depth: 3, Width: 100}})
	if err != nil {
		t.Fatal(err)
	}
	d, err := record.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "koch" || d.Width != 100 || uint64(len(d.Segments)) != res.Steps {
		t.Errorf("decoded %q of width %v with %d segments, want koch, 100, %d", d.Name, d.Width, len(d.Segments), res.Steps)
	}
}

func TestTextFormats(t *testing.T) {
	tests := []struct {
		format Format
		prefix string
	}{
		{SVG, "<svg"},
		{HPGL, "IN;"},
	}
	for _, test := range tests {
		buf := new(bytes.Buffer)
		if _, err := Render(context.Background(), buf, koch(t), test.format, Options{}); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), test.prefix) {
			t.Errorf("%s rendering starts with %.20q, want %q", test.format, buf.String(), test.prefix)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrFormat) {
		t.Errorf("got error %v, want %v", err, ErrFormat)
	}
	if _, err := Render(context.Background(), new(bytes.Buffer), koch(t), "gif", Options{}); !errors.Is(err, ErrFormat) {
		t.Errorf("got error %v, want %v", err, ErrFormat)
	}
}
