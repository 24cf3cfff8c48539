package partitions

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

// chain builds a path of elements visited in the given order
func chain(order ...int) *MeshConnectivity {
	conn := &MeshConnectivity{NumElements: len(order), EToE: make([][]int, len(order))}
	for i := 1; i < len(order); i++ {
		a, b := order[i-1], order[i]
		conn.EToE[a] = append(conn.EToE[a], b)
		conn.EToE[b] = append(conn.EToE[b], a)
	}
	return conn
}

func TestBuildPartitions(t *testing.T) {
	tests := []struct {
		name     string
		strategy PartitionStrategy
		want     []int
	}{
		{"block", BlockPartition, []int{0, 0, 0, 1, 1, 1, 2, 2}},
		{"roundrobin", RoundRobin, []int{0, 1, 2, 0, 1, 2, 0, 1}},
		{"graph", GraphPartition, []int{0, 0, 0, 1, 1, 1, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := &PartitionBuilder{
				Mesh:                chain(0, 1, 2, 3, 4, 5, 6, 7),
				TargetPartitionSize: 3,
				Strategy:            tt.strategy,
			}
			layout, err := pb.BuildPartitions()
			require.NoError(t, err)
			assert.Equal(t, 3, layout.NumPartitions)
			assert.Equal(t, tt.want, layout.EToP)
			assert.Equal(t, 3, layout.KpartMax)
			assert.Equal(t, 2, layout.Partitions[2].NumElements)
			assert.Equal(t, -1, layout.GetPartition(8))
		})
	}
}

func TestGraphPartitionFollowsAdjacency(t *testing.T) {
	conn := chain(0, 4, 1, 5, 2, 6, 3, 7)
	cut := func(s PartitionStrategy) int {
		pb := &PartitionBuilder{Mesh: conn, TargetPartitionSize: 4, Strategy: s}
		layout, err := pb.BuildPartitions()
		require.NoError(t, err)
		return layout.PartitionStatistics(conn).EdgeCut
	}
	assert.Equal(t, 1, cut(GraphPartition))
	assert.Equal(t, 7, cut(BlockPartition))
}

func TestPartitionMesh(t *testing.T) {
	opts := mesh.DefaultOptions()
	opts.Logger = logging.NewTestLogger(t)
	m := mesh.New(opts)
	require.NoError(t, m.Initialize(&pslg.Graph{
		Points: []geometry.Point{
			geometry.NewPoint(0, 0), geometry.NewPoint(3, 0),
			geometry.NewPoint(3, 1), geometry.NewPoint(0, 1),
		},
		Segments: []pslg.Segment{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	}))
	m.Refine(math.Sqrt2, mesh.Ruppert)

	conn := NewMeshConnectivity(m, m.Export())
	require.Equal(t, m.NumberOfTriangles(), conn.NumElements)
	for k, nbrs := range conn.EToE {
		assert.LessOrEqual(t, len(nbrs), 3)
		for _, n := range nbrs {
			assert.Contains(t, conn.EToE[n], k, "adjacency of %d and %d is not symmetric", k, n)
		}
	}

	pb := &PartitionBuilder{Mesh: conn, TargetPartitionSize: 5, Strategy: GraphPartition}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)
	st := layout.PartitionStatistics(conn)
	assert.Equal(t, int(math.Ceil(float64(conn.NumElements)/5)), st.NumPartitions)
	assert.LessOrEqual(t, st.MaxElements, 5)
	assert.GreaterOrEqual(t, st.Imbalance, 1.0)
}

func TestValidateLayout(t *testing.T) {
	pb := &PartitionBuilder{Mesh: chain(0, 1, 2, 3), TargetPartitionSize: 2}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)
	require.NoError(t, layout.ValidateLayout())

	layout.EToP[0] = 1
	assert.Error(t, layout.ValidateLayout())

	_, err = (&PartitionBuilder{Mesh: chain(0, 1), TargetPartitionSize: 0}).BuildPartitions()
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []PartitionStrategy{BlockPartition, RoundRobin, GraphPartition} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("metis")
	assert.Error(t, err)
}
