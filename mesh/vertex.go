package mesh

import (
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

// VertexID is the arena handle of a Vertex
type VertexID int

const NilVertex VertexID = -1

// PDEFields is scratch storage owned by the solver layer. The mesh never reads
// it, it only carries it across splits and flips.
type PDEFields struct {
	Temperature         float64
	PreviousTemperature float64
	RHS                 float64 // Right hand side of the linear system
	Diagonal            float64 // Matrix diagonal coefficient
	Residual            float64 // Conjugate gradient r
	Direction           float64 // Conjugate gradient p
	Product             float64 // Conjugate gradient A*p
}

// Vertex is a mesh node. Incident edges and triangles are back references
// kept in sync by the mesh; their order carries no meaning.
type Vertex struct {
	X, Y     numeric.Real
	IsBorder bool // Fixed (Dirichlet) vertex, excluded from relocation and reordering
	Label    int  // Position assigned by reordering, -1 until assigned
	PDE      PDEFields

	id        VertexID
	alive     bool
	linked    bool
	next      VertexID
	edges     []EdgeID
	triangles []TriangleID
}

func (v *Vertex) ID() VertexID { return v.id }

// Point returns the coordinates as a geometry.Point
func (v *Vertex) Point() geometry.Point {
	return geometry.Point{X: v.X, Y: v.Y}
}

// Next is the following vertex in the mesh sequence, NilVertex at the end
func (v *Vertex) Next() VertexID { return v.next }

// Edges returns a copy of the incident edge handles
func (v *Vertex) Edges() []EdgeID {
	return append([]EdgeID(nil), v.edges...)
}

// Triangles returns a copy of the incident triangle handles
func (v *Vertex) Triangles() []TriangleID {
	return append([]TriangleID(nil), v.triangles...)
}

func (v *Vertex) NumTriangles() int { return len(v.triangles) }

func (v *Vertex) addEdge(e EdgeID) {
	v.edges = append(v.edges, e)
}

func (v *Vertex) removeEdge(e EdgeID) {
	for i, x := range v.edges {
		if x == e {
			v.edges = append(v.edges[:i], v.edges[i+1:]...)
			return
		}
	}
}

func (v *Vertex) addTriangle(t TriangleID) {
	v.triangles = append(v.triangles, t)
}

func (v *Vertex) removeTriangle(t TriangleID) {
	for i, x := range v.triangles {
		if x == t {
			v.triangles = append(v.triangles[:i], v.triangles[i+1:]...)
			return
		}
	}
}

func (v *Vertex) clone() *Vertex {
	c := *v
	c.X, c.Y = v.X.Clone(), v.Y.Clone()
	c.edges = append([]EdgeID(nil), v.edges...)
	c.triangles = append([]TriangleID(nil), v.triangles...)
	return &c
}
