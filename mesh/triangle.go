package mesh

import (
	"fmt"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

// TriangleID is the arena handle of a Triangle. Slots are reused, so a handle
// held across mutations must be paired with the generation in a TriangleRef.
type TriangleID int

const NilTriangle TriangleID = -1

type TriangleRef struct {
	ID  TriangleID
	Gen uint32
}

// Triangle is stored counter-clockwise. Neighbor i and edge i are opposite
// vertex i. The derived quantities are cached at construction and refreshed by
// Mesh.UpdateTriangles after vertices move.
type Triangle struct {
	id    TriangleID
	gen   uint32
	alive bool

	verts     [3]VertexID
	neighbors [3]TriangleID
	edges     [3]EdgeID

	center  geometry.Point
	radius2 numeric.Real
	angles  [3]float64
	ratio   float64
	quality float64
}

func (t *Triangle) ID() TriangleID   { return t.id }
func (t *Triangle) Ref() TriangleRef { return TriangleRef{ID: t.id, Gen: t.gen} }

func (t *Triangle) Vertex(i int) VertexID     { return t.verts[i] }
func (t *Triangle) Vertices() [3]VertexID     { return t.verts }
func (t *Triangle) Neighbor(i int) TriangleID { return t.neighbors[i] }
func (t *Triangle) Edge(i int) EdgeID         { return t.edges[i] }

// Circumcenter and squared circumradius
func (t *Triangle) Circumcenter() (geometry.Point, numeric.Real) { return t.center, t.radius2 }

// Angles in radians, angle i at vertex i
func (t *Triangle) Angles() [3]float64 { return t.angles }

// Ratio is circumradius over shortest edge length
func (t *Triangle) Ratio() float64 { return t.ratio }

func (t *Triangle) Quality() float64 { return t.quality }

// HasVertex reports whether v is a corner of t
func (t *Triangle) HasVertex(v VertexID) bool {
	return t.verts[0] == v || t.verts[1] == v || t.verts[2] == v
}

// Number returns the local index (0, 1 or 2) of v
func (t *Triangle) Number(v VertexID) int {
	for i, w := range t.verts {
		if w == v {
			return i
		}
	}
	panic(fmt.Errorf("vertex %d is not part of triangle %d %v", v, t.id, t.verts))
}

// EdgeNumber returns the local index of e, or -1
func (t *Triangle) EdgeNumber(e EdgeID) int {
	for i, x := range t.edges {
		if x == e {
			return i
		}
	}
	return -1
}

// opposite returns the vertex of t not on edge e
func (t *Triangle) opposite(e *Edge) VertexID {
	for _, v := range t.verts {
		if !e.HasVertex(v) {
			return v
		}
	}
	panic(fmt.Errorf("edge %d (%d,%d) has no vertex opposite in triangle %d", e.id, e.verts[0], e.verts[1], t.id))
}

// setNeighbor records o opposite the one vertex of t that o does not share
func (t *Triangle) setNeighbor(o *Triangle) {
	var (
		shared   int
		unshared = -1
	)
	for i, v := range t.verts {
		if o.HasVertex(v) {
			shared++
		} else {
			unshared = i
		}
	}
	if shared < 2 || unshared < 0 {
		panic(fmt.Errorf("triangles %d %v and %d %v do not share an edge", t.id, t.verts, o.id, o.verts))
	}
	t.neighbors[unshared] = o.id
}

// replaceNeighbor is a no-op when old is not currently a neighbor
func (t *Triangle) replaceNeighbor(old, nu TriangleID) {
	for i, n := range t.neighbors {
		if n == old {
			t.neighbors[i] = nu
			return
		}
	}
}

func (t *Triangle) clone() *Triangle {
	c := *t
	c.center = t.center.Clone()
	c.radius2 = t.radius2.Clone()
	return &c
}
