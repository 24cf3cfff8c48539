package pslg

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

const squareWithHole = `8
0 0
4 0
4 4
0 4
1.5 1.5
2.5 1.5
2.5 2.5
1.5 2.5
8
0 1
1 2
2 3
3 0
4 5
5 6
6 7
7 4
`

func TestRead(t *testing.T) {
	g, err := Read(strings.NewReader(squareWithHole))
	require.NoError(t, err)
	assert.Len(t, g.Points, 8)
	assert.Len(t, g.Segments, 8)
	assert.Equal(t, Segment{7, 4}, g.Segments[7])
	assert.True(t, g.Points[4].X.Equal(numeric.MustParse("1.5")))

	lo, hi := g.Bounds()
	assert.Zero(t, lo.X.Float64())
	assert.Equal(t, 4.0, hi.Y.Float64())
}

func TestReadKeepsDecimalPrecision(t *testing.T) {
	g, err := Read(strings.NewReader("1\n0.1 0.30000000000000000000000000001\n0\n"))
	require.NoError(t, err)
	assert.True(t, g.Points[0].X.Equal(numeric.MustParse("0.1")))
	assert.False(t, g.Points[0].X.Equal(numeric.New(0.1)), "no float64 round trip")
	assert.True(t, g.Points[0].Y.Greater(numeric.MustParse("0.3")))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name, input string
	}{
		{"empty", ""},
		{"bad count", "two\n"},
		{"truncated points", "2\n0 0\n1\n"},
		{"bad coordinate", "1\n0 x\n0\n"},
		{"missing segments", "2\n0 0\n1 1\n"},
		{"index out of range", "2\n0 0\n1 1\n1\n0 2\n"},
		{"zero length", "2\n0 0\n0 0\n1\n0 1\n"},
		{"repeated", "2\n0 0\n1 1\n2\n0 1\n1 0\n"},
		{"point inside segment", "3\n0 0\n2 0\n1 0\n1\n0 1\n"},
		{"crossing", "4\n0 0\n2 2\n0 2\n2 0\n2\n0 1\n2 3\n"},
		{"no points", "0\n0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestWriteRead(t *testing.T) {
	g, err := Read(strings.NewReader(squareWithHole))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))

	path := filepath.Join(t.TempDir(), "square.pslg")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	again, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, again.Points, len(g.Points))
	for i := range g.Points {
		assert.True(t, g.Points[i].Equal(again.Points[i]))
	}
	assert.Equal(t, g.Segments, again.Segments)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPolygon(t *testing.T) {
	g, err := Read(strings.NewReader(squareWithHole))
	require.NoError(t, err)
	poly, err := g.Polygon()
	require.NoError(t, err)
	require.Len(t, poly, 2)
	assert.InDelta(t, 16, math.Abs(planar.Area(poly[0])), 1e-12)
	assert.True(t, poly[0].Closed())
	assert.True(t, planar.PolygonContains(poly, orb.Point{0.5, 0.5}))
	assert.False(t, planar.PolygonContains(poly, orb.Point{2, 2}), "inside the hole")
	assert.False(t, planar.PolygonContains(poly, orb.Point{5, 2}))

	open := &Graph{Points: g.Points[:3], Segments: []Segment{{0, 1}, {1, 2}}}
	_, err = open.Polygon()
	assert.Error(t, err)
	_, err = (&Graph{Points: g.Points}).Polygon()
	assert.Error(t, err)
}
