package mesh

import (
	"fmt"
)

// EdgeID is the arena handle of an Edge
type EdgeID int

const NilEdge EdgeID = -1

// EdgeKind classifies an edge with respect to the input constraints
type EdgeKind uint8

const (
	FreeEdge                  EdgeKind = iota // Unconstrained, deleted once it borders no triangle
	SegmentInTriangulation                    // Constrained and present as a triangle side
	SegmentNotInTriangulation                 // Constrained but not (yet) recovered by the triangulation
)

func (k EdgeKind) String() string {
	switch k {
	case FreeEdge:
		return "FreeEdge"
	case SegmentInTriangulation:
		return "SegmentInTriangulation"
	case SegmentNotInTriangulation:
		return "SegmentNotInTriangulation"
	default:
		panic("unknown edge kind")
	}
}

// Edge is the adjacency between two vertices, bordered by at most two triangles
type Edge struct {
	Coefficient float64 // Solver-owned coupling coefficient

	id    EdgeID
	alive bool
	kind  EdgeKind
	verts [2]VertexID
	tris  [2]TriangleID
}

type edgeKey [2]VertexID

func newEdgeKey(a, b VertexID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

func (e *Edge) ID() EdgeID       { return e.id }
func (e *Edge) Kind() EdgeKind   { return e.kind }
func (e *Edge) IsSegment() bool  { return e.kind != FreeEdge }
func (e *Edge) IsInterior() bool { return e.tris[0] != NilTriangle && e.tris[1] != NilTriangle }

// Vertex returns endpoint i, i in {0,1}
func (e *Edge) Vertex(i int) VertexID {
	if i < 0 || i > 1 {
		panic(fmt.Errorf("edge %d: vertex index %d out of range", e.id, i))
	}
	return e.verts[i]
}

// Triangle returns triangle slot i, i in {0,1}; the slot may be NilTriangle
func (e *Edge) Triangle(i int) TriangleID {
	if i < 0 || i > 1 {
		panic(fmt.Errorf("edge %d: triangle index %d out of range", e.id, i))
	}
	return e.tris[i]
}

// HasVertex reports whether v is an endpoint of e
func (e *Edge) HasVertex(v VertexID) bool {
	return e.verts[0] == v || e.verts[1] == v
}

// Other returns the endpoint opposite v
func (e *Edge) Other(v VertexID) VertexID {
	switch v {
	case e.verts[0]:
		return e.verts[1]
	case e.verts[1]:
		return e.verts[0]
	}
	panic(fmt.Errorf("edge %d does not contain vertex %d", e.id, v))
}

// OtherTriangle returns the triangle on the far side from t, possibly NilTriangle
func (e *Edge) OtherTriangle(t TriangleID) TriangleID {
	switch t {
	case e.tris[0]:
		return e.tris[1]
	case e.tris[1]:
		return e.tris[0]
	}
	panic(fmt.Errorf("edge %d is not bordered by triangle %d", e.id, t))
}

// NumTriangles counts the occupied triangle slots
func (e *Edge) NumTriangles() (n int) {
	for _, t := range e.tris {
		if t != NilTriangle {
			n++
		}
	}
	return
}

func (e *Edge) addTriangle(t TriangleID) {
	if e.tris[0] == t || e.tris[1] == t {
		return
	}
	switch {
	case e.tris[0] == NilTriangle:
		e.tris[0] = t
	case e.tris[1] == NilTriangle:
		e.tris[1] = t
	default:
		panic(fmt.Errorf("edge %d (%d,%d): more than two connected triangles (%d, %d, %d)",
			e.id, e.verts[0], e.verts[1], e.tris[0], e.tris[1], t))
	}
}

func (e *Edge) removeTriangle(t TriangleID) {
	switch t {
	case e.tris[0]:
		e.tris[0] = NilTriangle
	case e.tris[1]:
		e.tris[1] = NilTriangle
	default:
		panic(fmt.Errorf("edge %d: triangle %d is not attached", e.id, t))
	}
}

// reclassify keeps a segment's kind in step with its triangle count
func (e *Edge) reclassify() {
	if e.kind == FreeEdge {
		return
	}
	if e.NumTriangles() > 0 {
		e.kind = SegmentInTriangulation
	} else {
		e.kind = SegmentNotInTriangulation
	}
}

func (e *Edge) clone() *Edge {
	c := *e
	return &c
}
