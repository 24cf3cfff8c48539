package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/config"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/mesh"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/movingmesh"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/partitions"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/pslg"
)

// Build runs the whole pipeline: initialize, refine, optionally move, strip
// the padding box and reorder
func Build(g *pslg.Graph, cfg *config.Config, strip bool, logger *zap.SugaredLogger) (*mesh.Mesh, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	m := mesh.New(cfg.MeshOptions(logger))
	m.SetVertexFunction(movingmesh.BorderOnSegments)
	if err = m.Initialize(g); err != nil {
		return nil, err
	}
	m.Refine(cfg.Refinement.Bound, mode)

	if cfg.Moving.Steps > 0 {
		monitor, err := cfg.Monitor()
		if err != nil {
			return nil, err
		}
		st := movingmesh.Advance(m, monitor, cfg.Moving.Steps, cfg.Refinement.Bound, mode)
		logger.Infow("moving mesh done", "steps", st.Steps, "moves", st.Moves, "flips", st.Flips, "processed", st.Processed)
	}

	if strip && len(g.Segments) > 0 {
		poly, err := g.Polygon()
		if err != nil {
			logger.Warnw("boundary is not a set of closed rings, keeping the bounding box", "error", err)
		} else {
			m.RemoveTriangles(mesh.OutsidePolygon(poly))
		}
	}

	if cfg.Reorder.Enabled {
		policy, err := cfg.StartPolicy()
		if err != nil {
			return nil, err
		}
		m.CuthillMcKee(cfg.Reorder.Reverse, policy)
	}
	if err = m.Validate(); err != nil {
		return nil, errors.Wrap(err, "mesh failed validation")
	}
	return m, nil
}

// WriteMesh emits the vertex count, one "x y label" line per vertex, the
// triangle count and one line of three 0-based vertex rows per triangle
func WriteMesh(w io.Writer, m *mesh.Mesh) error {
	var (
		bw = bufio.NewWriter(w)
		ex = m.Export()
	)
	fmt.Fprintf(bw, "%d\n", m.NumberOfVertices())
	for _, v := range m.Vertices() {
		vert := m.Vertex(v)
		fmt.Fprintf(bw, "%s %s %d\n", vert.X.Text('g', 20), vert.Y.Text('g', 20), vert.Label)
	}
	nr := len(ex.Elem)
	fmt.Fprintf(bw, "%d\n", nr)
	for k := 0; k < nr; k++ {
		fmt.Fprintf(bw, "%d %d %d\n", int(ex.EToV.At(k, 0)), int(ex.EToV.At(k, 1)), int(ex.EToV.At(k, 2)))
	}
	return errors.Wrap(bw.Flush(), "write mesh")
}

// Partition groups the triangles of m into partitions of about size elements
func Partition(m *mesh.Mesh, size int, strategy partitions.PartitionStrategy,
	logger *zap.SugaredLogger) (*partitions.PartitionLayout, error) {
	conn := partitions.NewMeshConnectivity(m, m.Export())
	pb := &partitions.PartitionBuilder{
		Mesh:                conn,
		TargetPartitionSize: size,
		Strategy:            strategy,
	}
	layout, err := pb.BuildPartitions()
	if err != nil {
		return nil, errors.Wrap(err, "partition mesh")
	}
	st := layout.PartitionStatistics(conn)
	logger.Infow("mesh partitioned", "strategy", strategy, "partitions", st.NumPartitions,
		"imbalance", st.Imbalance, "edgeCut", st.EdgeCut)
	return layout, nil
}

// WritePartitions emits the partition count followed by the partition of
// each triangle, in the triangle order of WriteMesh
func WritePartitions(w io.Writer, layout *partitions.PartitionLayout) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", layout.NumPartitions)
	for _, p := range layout.EToP {
		fmt.Fprintf(bw, "%d\n", p)
	}
	return errors.Wrap(bw.Flush(), "write partitions")
}
