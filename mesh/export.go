package mesh

import (
	"math"

	"github.com/notargets/gocfd/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Export is the element view of the mesh consumed by DG and FV solvers
type Export struct {
	VX, VY utils.Vector       // Vertex coordinates in sequence order
	EToV   utils.Matrix       // K x 3 element to vertex map, counter-clockwise
	Index  map[VertexID]int   // Row of each vertex in VX, VY
	Elem   map[TriangleID]int // Row of each triangle in EToV
}

// Export flattens the mesh into coordinate vectors and a connectivity matrix.
// Coordinates are rounded to float64. VX, VY and EToV stay zero valued when
// there is nothing to hold, such as after RemoveTriangles emptied the mesh.
func (m *Mesh) Export() Export {
	var (
		nv     = m.nVertices
		vx, vy = make([]float64, 0, nv), make([]float64, 0, nv)
		ex     = Export{Index: make(map[VertexID]int, nv), Elem: make(map[TriangleID]int, m.nTriangles)}
	)
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		ex.Index[v] = len(vx)
		vx = append(vx, m.vertices[v].X.Float64())
		vy = append(vy, m.vertices[v].Y.Float64())
	}
	etov := make([]float64, 0, 3*m.nTriangles)
	for _, t := range m.triangles {
		if !t.alive {
			continue
		}
		ex.Elem[t.id] = len(etov) / 3
		for _, v := range t.verts {
			etov = append(etov, float64(ex.Index[v]))
		}
	}
	if nv > 0 {
		ex.VX, ex.VY = utils.NewVector(nv, vx), utils.NewVector(nv, vy)
	}
	if m.nTriangles > 0 {
		ex.EToV = utils.NewMatrix(m.nTriangles, 3, etov)
	}
	return ex
}

// ConnectivityMatrix is the graph Laplacian of the labelled vertices, indexed
// by label. It is nil before CuthillMcKee has labelled anything.
func (m *Mesh) ConnectivityMatrix() *mat.SymDense {
	n := 0
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		if l := m.vertices[v].Label; l >= n {
			n = l + 1
		}
	}
	if n == 0 {
		return nil
	}
	lap := mat.NewSymDense(n, nil)
	for _, e := range m.edges {
		if !e.alive {
			continue
		}
		la, lb := m.vertices[e.verts[0]].Label, m.vertices[e.verts[1]].Label
		if la < 0 || lb < 0 {
			continue
		}
		lap.SetSym(la, lb, -1)
		lap.SetSym(la, la, lap.At(la, la)+1)
		lap.SetSym(lb, lb, lap.At(lb, lb)+1)
	}
	return lap
}

// Quality summarizes the shape of the triangles
type Quality struct {
	Triangles   int
	MinAngle    float64 // Degrees
	MaxRatio    float64 // Largest circumradius to shortest edge ratio
	MeanRatio   float64
	MinQuality  float64
	MeanQuality float64
}

// QualitySummary aggregates angle, ratio and quality over the live triangles.
// Everything but Triangles is zero for an empty mesh.
func (m *Mesh) QualitySummary() (q Quality) {
	var angles, ratios, quals []float64
	for _, t := range m.triangles {
		if !t.alive {
			continue
		}
		angles = append(angles, t.angles[:]...)
		ratios = append(ratios, t.ratio)
		quals = append(quals, t.quality)
	}
	if q.Triangles = len(ratios); q.Triangles == 0 {
		return
	}
	q.MinAngle = floats.Min(angles) * 180 / math.Pi
	q.MaxRatio = floats.Max(ratios)
	q.MeanRatio = stat.Mean(ratios, nil)
	q.MinQuality = floats.Min(quals)
	q.MeanQuality = stat.Mean(quals, nil)
	return
}
