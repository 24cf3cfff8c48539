package mesh

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/logging"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/pslg"
)

func unitSquare() *pslg.Graph {
	return &pslg.Graph{
		Points: []geometry.Point{
			geometry.NewPoint(0, 0), geometry.NewPoint(1, 0),
			geometry.NewPoint(1, 1), geometry.NewPoint(0, 1),
		},
		Segments: []pslg.Segment{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	}
}

func testOptions(t *testing.T, padding float64) Options {
	opts := DefaultOptions()
	opts.Padding = padding
	opts.Logger = logging.NewTestLogger(t)
	return opts
}

func build(t *testing.T, g *pslg.Graph, opts Options) *Mesh {
	m := New(opts)
	require.NoError(t, m.Initialize(g))
	require.NoError(t, m.Validate())
	return m
}

// triangleSets lists each triangle as its sorted vertex handles
func triangleSets(m *Mesh) (sets [][3]VertexID) {
	for _, t := range m.Triangles() {
		vs := m.Triangle(t).Vertices()
		sort.Slice(vs[:], func(i, j int) bool { return vs[i] < vs[j] })
		sets = append(sets, vs)
	}
	sort.Slice(sets, func(i, j int) bool {
		for k := 0; k < 3; k++ {
			if sets[i][k] != sets[j][k] {
				return sets[i][k] < sets[j][k]
			}
		}
		return false
	})
	return
}

func TestInitializeUnitSquare(t *testing.T) {
	m := build(t, unitSquare(), testOptions(t, 0))
	assert.Equal(t, 4, m.NumberOfVertices())
	assert.Equal(t, 2, m.NumberOfTriangles())
	assert.Equal(t, 5, m.NumberOfEdges())
	assert.Equal(t, 4, m.NumberOfSegments())
	assert.Empty(t, m.EncroachedSegments())
	assert.True(t, m.SmartCheckMesh())
	assert.True(t, m.BruteForceCheckMesh())
	assert.True(t, m.VerifyPointsInsideTriangles())
	for _, s := range m.Segments() {
		assert.Equal(t, SegmentInTriangulation, m.Edge(s).Kind())
	}
	var free int
	for _, e := range m.Edges() {
		if !m.Edge(e).IsSegment() {
			free++
			assert.True(t, m.Edge(e).IsInterior())
		}
	}
	assert.Equal(t, 1, free)
}

func TestInitializePadded(t *testing.T) {
	g := unitSquare()
	g.Points = append(g.Points, geometry.NewPoint(0.5, 0.5), geometry.NewPoint(0.5, 0.5))
	m := build(t, g, testOptions(t, 0.25))
	// Box corners plus five distinct input points, before any segment split
	assert.GreaterOrEqual(t, m.NumberOfVertices(), 9)
	assert.NotEqual(t, NilVertex, m.FindVertex(geometry.NewPoint(-0.25, -0.25)))
	assert.NotEqual(t, NilVertex, m.FindVertex(geometry.NewPoint(0.5, 0.5)))
	assert.Empty(t, m.EncroachedSegments())
	assert.True(t, m.SmartCheckMesh())
	for _, s := range g.Segments {
		a, b := m.FindVertex(g.Points[s[0]]), m.FindVertex(g.Points[s[1]])
		_, ok := m.TraceSegment(a, b)
		assert.True(t, ok, "segment %v", s)
	}

	err := New(testOptions(t, 0)).Initialize(&pslg.Graph{
		Points:   []geometry.Point{geometry.NewPoint(0, 0), geometry.NewPoint(1, 0)},
		Segments: []pslg.Segment{{0, 0}},
	})
	assert.Error(t, err)
	assert.Error(t, m.Initialize(g), "initialize twice")
}

func TestInitializeCollinearInput(t *testing.T) {
	g := &pslg.Graph{Points: []geometry.Point{
		geometry.NewPoint(0, 0), geometry.NewPoint(1, 0), geometry.NewPoint(3, 0),
	}}
	m := build(t, g, testOptions(t, 0))
	assert.GreaterOrEqual(t, m.NumberOfVertices(), 7)
	assert.Empty(t, m.EncroachedSegments())
	assert.True(t, m.SmartCheckMesh())
}

func TestInsertCentroid(t *testing.T) {
	m := build(t, unitSquare(), testOptions(t, 0))
	segments := m.Segments()
	third := numeric.FromInt(1).Quo(numeric.FromInt(3))
	centroid := geometry.Point{X: third.Add(third), Y: third}

	loc := m.Locate(centroid, NilTriangle)
	require.True(t, loc.Found())
	assert.Equal(t, -1, loc.Edge)
	assert.False(t, loc.Coincident())

	v, ok := m.AddPoint(centroid, loc.Triangle)
	require.True(t, ok)
	assert.Equal(t, 4, m.NumberOfTriangles())
	assert.Equal(t, 5, m.NumberOfVertices())
	// The square is cocircular, so repair flips the old diagonal and the new
	// vertex ends up in all four triangles
	assert.Equal(t, 4, m.Vertex(v).NumTriangles())
	for _, s := range segments {
		assert.Equal(t, SegmentInTriangulation, m.Edge(s).Kind())
	}
	assert.True(t, m.SmartCheckMesh())
	assert.NoError(t, m.Validate())
}

func TestInsertVertexFailures(t *testing.T) {
	m := build(t, unitSquare(), testOptions(t, 0))
	before := m.NumberOfTriangles()

	_, ok := m.AddPoint(geometry.NewPoint(2, 2), NilTriangle)
	assert.False(t, ok, "outside")
	_, ok = m.AddPoint(geometry.NewPoint(1, 1), m.Triangles()[0])
	assert.False(t, ok, "coincident")
	assert.Equal(t, before, m.NumberOfTriangles())
	assert.Equal(t, 4, m.NumberOfVertices())

	v, ok := m.AddPoint(geometry.NewPoint(0.5, 0), m.Triangles()[0])
	require.True(t, ok, "on a segment")
	assert.Equal(t, 5, m.NumberOfSegments())
	assert.True(t, m.IsOnSegment(v))
	assert.NoError(t, m.Validate())
	assert.Panics(t, func() { m.InsertVertex(v, NilTriangle) }, "inserted twice")
}

func TestSeedPDEFromNearestVertex(t *testing.T) {
	m := build(t, unitSquare(), testOptions(t, 0))
	for i, v := range m.Vertices() {
		m.Vertex(v).PDE.Temperature = float64(i + 1)
	}
	near := m.FindVertex(geometry.NewPoint(1, 0))
	v, ok := m.AddPoint(geometry.NewPoint(0.9, 0.1), NilTriangle)
	require.True(t, ok)
	assert.Equal(t, m.Vertex(near).PDE.Temperature, m.Vertex(v).PDE.Temperature)
}

func TestSwapInvolution(t *testing.T) {
	m := build(t, unitSquare(), testOptions(t, 0))
	before := triangleSets(m)
	diagonal := NilEdge
	for _, e := range m.Edges() {
		if !m.Edge(e).IsSegment() {
			diagonal = e
		}
	}
	require.NotEqual(t, NilEdge, diagonal)
	a, b := m.Edge(diagonal).Vertex(0), m.Edge(diagonal).Vertex(1)

	t0, t1 := m.Swap(diagonal)
	assert.True(t, m.VerifyNeighbors())
	assert.Equal(t, NilEdge, m.EdgeBetween(a, b))
	var newDiagonal EdgeID = NilEdge
	for i := 0; i < 3; i++ {
		if m.Triangle(t0.ID).Neighbor(i) == t1.ID {
			newDiagonal = m.Triangle(t0.ID).Edge(i)
		}
	}
	require.NotEqual(t, NilEdge, newDiagonal)
	assert.NotEqual(t, before, triangleSets(m))

	m.Swap(newDiagonal)
	assert.Equal(t, before, triangleSets(m))
	assert.NotEqual(t, NilEdge, m.EdgeBetween(a, b))
	assert.NoError(t, m.Validate())
}
