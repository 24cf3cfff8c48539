package mesh

import (
	"fmt"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
)

// Location is the result of a point location query
type Location struct {
	Triangle TriangleID // Containing triangle, NilTriangle when not found
	Edge     int        // Local index of the edge the point lies on, -1 for the interior
	Vertex   VertexID   // Existing vertex at exactly the point, NilVertex otherwise
}

func (l Location) Found() bool      { return l.Triangle != NilTriangle }
func (l Location) Coincident() bool { return l.Vertex != NilVertex }

// Locate finds the triangle containing p. With a hint the search spreads
// breadth first over neighbors from the hint, otherwise every triangle is
// scanned.
func (m *Mesh) Locate(p geometry.Point, hint TriangleID) Location {
	miss := Location{Triangle: NilTriangle, Edge: -1, Vertex: NilVertex}
	if hint == NilTriangle || int(hint) >= len(m.triangles) || !m.triangles[hint].alive {
		for _, t := range m.triangles {
			if t.alive && m.IsInside(t.id, p) {
				return m.classify(t, p)
			}
		}
		return miss
	}
	var (
		visited = map[TriangleID]bool{hint: true}
		queue   = []TriangleID{hint}
	)
	for len(queue) > 0 {
		t := m.triangles[queue[0]]
		queue = queue[1:]
		if m.IsInside(t.id, p) {
			return m.classify(t, p)
		}
		for _, n := range t.neighbors {
			if n != NilTriangle && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return miss
}

// classify places p, known to be in t, on a vertex, an edge or the interior
func (m *Mesh) classify(t *Triangle, p geometry.Point) Location {
	loc := Location{Triangle: t.id, Edge: -1, Vertex: NilVertex}
	for _, v := range t.verts {
		if m.point(v).Equal(p) {
			loc.Vertex = v
			return loc
		}
	}
	for i := 0; i < 3; i++ {
		a, b := m.point(t.verts[(i+1)%3]), m.point(t.verts[(i+2)%3])
		if geometry.OnLine(a, b, p, m.opts.CollinearTolerance) {
			loc.Edge = i
			return loc
		}
	}
	return loc
}

// InsertVertex adds a vertex created by NewVertex to the triangulation. It
// returns false, leaving the mesh untouched, when no triangle contains the
// vertex or an existing vertex sits at the same coordinates.
func (m *Mesh) InsertVertex(v VertexID, hint TriangleID) bool {
	vert := m.Vertex(v)
	if vert.linked {
		panic(fmt.Errorf("vertex %d is already part of the mesh", v))
	}
	loc := m.Locate(vert.Point(), hint)
	switch {
	case !loc.Found():
		m.log.Debugw("vertex outside the triangulation", "vertex", v, "point", vert.Point().String())
		return false
	case loc.Coincident():
		m.log.Debugw("vertex coincides with an existing vertex", "vertex", v, "existing", loc.Vertex)
		return false
	}
	m.insertAt(vert, loc)
	return true
}

// AddPoint creates and inserts a vertex at p, discarding it on failure
func (m *Mesh) AddPoint(p geometry.Point, hint TriangleID) (VertexID, bool) {
	v := m.NewVertex(p)
	if !m.InsertVertex(v, hint) {
		m.DiscardVertex(v)
		return NilVertex, false
	}
	return v, true
}

func (m *Mesh) insertAt(v *Vertex, loc Location) {
	t := m.triangles[loc.Triangle]
	if loc.Edge < 0 {
		m.splitTriangle(v, t)
	} else {
		m.splitEdge(v, m.edges[t.edges[loc.Edge]])
	}
	m.commitVertex(v)
}

// splitTriangle replaces t by the fan of three triangles around v
func (m *Mesh) splitTriangle(v *Vertex, t *Triangle) {
	a, b, c := t.verts[0], t.verts[1], t.verts[2]
	m.seedPDE(v, t.id)
	m.deleteTriangle(t)
	m.legalize(v.id,
		m.newTriangle(a, b, v.id).Ref(),
		m.newTriangle(b, c, v.id).Ref(),
		m.newTriangle(c, a, v.id).Ref(),
	)
}

// splitEdge divides e at v, replacing each bordering triangle by two. A split
// segment is replaced by two child segments.
func (m *Mesh) splitEdge(v *Vertex, e *Edge) {
	var (
		a, b   = e.verts[0], e.verts[1]
		kind   = e.kind
		apexes []VertexID
	)
	for _, tid := range e.tris {
		if tid == NilTriangle {
			continue
		}
		t := m.triangles[tid]
		if len(apexes) == 0 {
			m.seedPDE(v, tid)
		}
		apexes = append(apexes, t.opposite(e))
		m.deleteTriangle(t)
	}
	if len(apexes) == 0 {
		panic(fmt.Errorf("split of edge %d (%d,%d) bordering no triangle", e.id, a, b))
	}
	if e.alive {
		m.deleteEdge(e)
	}
	if kind != FreeEdge {
		m.makeSegment(a, v.id)
		m.makeSegment(v.id, b)
	}
	refs := make([]TriangleRef, 0, 4)
	for _, c := range apexes {
		refs = append(refs, m.newTriangle(a, v.id, c).Ref(), m.newTriangle(v.id, b, c).Ref())
	}
	m.legalize(v.id, refs...)
}

// legalize repairs the edges opposite v in the triangles created around it
func (m *Mesh) legalize(v VertexID, refs ...TriangleRef) {
	for _, ref := range refs {
		if !m.Valid(ref) {
			continue
		}
		t := m.triangles[ref.ID]
		m.MaintainDelaunayEdge(t.id, t.edges[t.Number(v)])
	}
}
