package golden

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lindenmayer.dev/canvas/record"
)

func segments() []record.Segment {
	r := record.New()
	r.DrawLine(0, 0, 100, 0)
	r.DrawLine(100, 0, 100, 57.3)
	r.DrawLine(-12.5, 3, 0.25, 999)
	return r.Segments()
}

func TestUpdateCompare(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.bin.gz")
	segs := segments()
	require.NoError(t, CompareSegments(path, true, "", 1000, segs))
	require.NoError(t, CompareSegments(path, false, "", 1000, segs))

	moved := segments()
	moved[1].Y1 += 0.5
	assert.NoError(t, CompareSegments(path, false, "", 1000, moved), "sub-unit difference")

	moved[1].Y1 += 10
	assert.Error(t, CompareSegments(path, false, "", 1000, moved))
	assert.Error(t, CompareSegments(path, false, "", 1000, segs[:2]))
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.bin.gz")
	segs := segments()
	require.NoError(t, CompareSegments(path, true, "", 1000, segs))
	segs[0].X1 = 50
	require.Error(t, CompareSegments(path, false, dir, 1000, segs))
	for _, name := range []string{"lines.bin.gz.svg", "lines.bin.gz.orig.svg"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestTruncated(t *testing.T) {
	_, err := decodeSegments([]byte{0x80})
	assert.Error(t, err)
	lines, err := decodeSegments(encodeSegments(segments()))
	require.NoError(t, err)
	assert.Equal(t, quantize(segments()), lines)
}
