package main

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/config"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/logging"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/partitions"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/pslg"
)

const lShape = `6
0 0
2 0
2 1
1 1
1 2
0 2
6
0 1
1 2
2 3
3 4
4 5
5 0
`

func TestBuild(t *testing.T) {
	g, err := pslg.Read(strings.NewReader(lShape))
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Moving.Steps = 1

	m, err := Build(g, cfg, true, logging.NewTestLogger(t))
	require.NoError(t, err)
	assert.True(t, m.SmartCheckMesh())
	for _, v := range m.Vertices() {
		p := m.Vertex(v).Point().R2()
		assert.False(t, p.X > 1 && p.Y > 1, "vertex %d in the notch", v)
		assert.True(t, p.X >= 0 && p.Y >= 0 && p.X <= 2 && p.Y <= 2)
		if m.Vertex(v).IsBorder {
			assert.Equal(t, -1, m.Vertex(v).Label)
		} else {
			assert.GreaterOrEqual(t, m.Vertex(v).Label, 0)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMesh(&buf, m))
	sc := bufio.NewScanner(&buf)
	require.True(t, sc.Scan())
	nv, err := strconv.Atoi(sc.Text())
	require.NoError(t, err)
	assert.Equal(t, m.NumberOfVertices(), nv)
	for i := 0; i < nv; i++ {
		require.True(t, sc.Scan())
		assert.Len(t, strings.Fields(sc.Text()), 3)
	}
	require.True(t, sc.Scan())
	nt, err := strconv.Atoi(sc.Text())
	require.NoError(t, err)
	assert.Equal(t, m.NumberOfTriangles(), nt)
}

func TestBuildKeepsBoxForOpenBoundary(t *testing.T) {
	g, err := pslg.Read(strings.NewReader("3\n0 0\n1 0\n0.5 1\n1\n0 1\n"))
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Reorder.Enabled = false
	m, err := Build(g, cfg, true, logging.NewTestLogger(t))
	require.NoError(t, err)
	assert.NotEqual(t, -1, int(m.First()))
	assert.True(t, m.SmartCheckMesh())
}

func TestPartitionAndWrite(t *testing.T) {
	g, err := pslg.Read(strings.NewReader(lShape))
	require.NoError(t, err)
	m, err := Build(g, config.Default(), true, logging.NewTestLogger(t))
	require.NoError(t, err)

	layout, err := Partition(m, 8, partitions.GraphPartition, logging.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, layout.EToP, m.NumberOfTriangles())

	var buf bytes.Buffer
	require.NoError(t, WritePartitions(&buf, layout))
	lines := strings.Fields(buf.String())
	require.Len(t, lines, m.NumberOfTriangles()+1)
	np, err := strconv.Atoi(lines[0])
	require.NoError(t, err)
	assert.Equal(t, layout.NumPartitions, np)
}
