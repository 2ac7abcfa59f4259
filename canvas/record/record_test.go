package record

import (
	"bytes"
	"image/color"
	"slices"
	"testing"
)

func draw(r *Recorder) {
	r.SetStrokeWidth(2.5)
	r.DrawLine(0, 0, 10, 0)
	r.SetColor(color.RGBA{R: 0xff, A: 0xff})
	r.DrawLine(10, 0, 10, 10.125)
	r.SetStrokeWidth(0.5)
	r.DrawLine(10, 10.125, -3, 1e-3)
}

func TestEncode(t *testing.T) {
	r := New()
	draw(r)
	d := Drawing{Name: "test", Width: 100, Segments: r.Segments()}
	buf := new(bytes.Buffer)
	if err := Encode(buf, d); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != d.Name || got.Width != d.Width || !slices.Equal(got.Segments, d.Segments) {
		t.Errorf("decoded %+v, want %+v", got, d)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte{0xff, 0x00})); err == nil {
		t.Error("decoded garbage")
	}
}

func TestReplay(t *testing.T) {
	orig := New()
	draw(orig)
	replayed := New()
	Replay(replayed, orig.Segments())
	if !slices.Equal(orig.Segments(), replayed.Segments()) {
		t.Errorf("replayed %v, want %v", replayed.Segments(), orig.Segments())
	}
	if s := orig.Segments()[0]; s.Color != (color.NRGBA{A: 0xff}) || s.Width != 2.5 {
		t.Errorf("first segment %+v, want opaque black of width 2.5", s)
	}
}
