package movingmesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/logging"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/mesh"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/pslg"
)

func squareMesh(t *testing.T) *mesh.Mesh {
	opts := mesh.DefaultOptions()
	opts.Padding = 0
	opts.Logger = logging.NewTestLogger(t)
	m := mesh.New(opts)
	m.SetVertexFunction(BorderOnSegments)
	require.NoError(t, m.Initialize(&pslg.Graph{
		Points: []geometry.Point{
			geometry.NewPoint(0, 0), geometry.NewPoint(2, 0), geometry.NewPoint(2, 2), geometry.NewPoint(0, 2),
			geometry.NewPoint(0.3, 0.4), geometry.NewPoint(1.6, 0.7), geometry.NewPoint(1.1, 1.5),
		},
		Segments: []pslg.Segment{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	}))
	m.Refine(math.Sqrt2, mesh.Ungor)
	return m
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"laplacian", "Centroid", "none"} {
		mon, err := Lookup(name, 0.5)
		require.NoError(t, err, name)
		assert.Contains(t, Names(), mon.Name())
	}
	_, err := Lookup("spring", 0.5)
	assert.Error(t, err)
	_, err = Lookup("laplacian", 0)
	assert.Error(t, err)
	_, err = Lookup("laplacian", 1.5)
	assert.Error(t, err)

	Register("still", func(float64) Monitor { return Fixed{} })
	assert.Contains(t, Names(), "still")
}

func TestSmoothingKeepsBorderAndValidity(t *testing.T) {
	for _, name := range []string{"laplacian", "centroid"} {
		t.Run(name, func(t *testing.T) {
			m := squareMesh(t)
			fixed := make(map[mesh.VertexID]geometry.Point)
			for _, v := range m.Vertices() {
				if m.Vertex(v).IsBorder {
					fixed[v] = m.Vertex(v).Point()
				}
			}
			require.NotEmpty(t, fixed)
			before := m.QualitySummary()

			mon, err := Lookup(name, 0.5)
			require.NoError(t, err)
			assert.True(t, m.MovingMesh(mon.Relocate))
			for v, p := range fixed {
				assert.True(t, m.Vertex(v).Point().Equal(p), "border vertex %d moved", v)
			}
			assert.True(t, m.VerifyNeighbors())
			assert.True(t, m.VerifyPointsInsideTriangles())

			m.MaintainDelaunay()
			assert.True(t, m.SmartCheckMesh())
			after := m.QualitySummary()
			assert.Equal(t, before.Triangles, after.Triangles)
		})
	}
}

func TestFixedMonitorMovesNothing(t *testing.T) {
	m := squareMesh(t)
	assert.False(t, m.MovingMesh(Fixed{}.Relocate))
}

func TestAdvance(t *testing.T) {
	m := squareMesh(t)
	mon, err := Lookup("laplacian", 0.5)
	require.NoError(t, err)

	st := Advance(m, mon, 3, math.Sqrt2, mesh.Ungor)
	assert.Equal(t, 3, st.Steps)
	assert.Greater(t, st.Moves, 0)
	assert.True(t, m.SmartCheckMesh())
	assert.NoError(t, m.Validate())
	for _, tri := range m.Triangles() {
		assert.LessOrEqual(t, m.Triangle(tri).Ratio(), math.Sqrt2+1e-9)
	}
	for _, v := range m.Vertices() {
		if m.IsOnSegment(v) {
			assert.True(t, m.Vertex(v).IsBorder)
		}
	}
}
