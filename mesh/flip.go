package mesh

import (
	"fmt"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
)

// inCircumcircle reports whether v lies strictly inside the circumcircle of t
func (m *Mesh) inCircumcircle(t *Triangle, v VertexID) bool {
	return geometry.InCircle(t.center, t.radius2, m.point(v), m.opts.IncircleTolerance)
}

// IsDelaunay reports whether the edge e is locally Delaunay. Boundary edges and
// segments always are.
func (m *Mesh) IsDelaunay(e EdgeID) bool {
	edge := m.Edge(e)
	if edge.IsSegment() || !edge.IsInterior() {
		return true
	}
	t0, t1 := m.triangles[edge.tris[0]], m.triangles[edge.tris[1]]
	return !m.inCircumcircle(t0, t1.opposite(edge)) && !m.inCircumcircle(t1, t0.opposite(edge))
}

// MaintainDelaunayEdge flips e when the vertex across it from t lies inside the
// circumcircle of t, then recurses on the two edges that the flip exposes
func (m *Mesh) MaintainDelaunayEdge(t TriangleID, e EdgeID) {
	edge := m.Edge(e)
	if edge.IsSegment() || !edge.IsInterior() {
		return
	}
	tri := m.Triangle(t)
	far := m.triangles[edge.OtherTriangle(t)].opposite(edge)
	if !m.inCircumcircle(tri, far) {
		return
	}
	apex := tri.opposite(edge)
	n0, n1 := m.Swap(e)
	for _, ref := range []TriangleRef{n0, n1} {
		if !m.Valid(ref) {
			continue
		}
		nt := m.triangles[ref.ID]
		m.MaintainDelaunayEdge(nt.id, nt.edges[nt.Number(apex)])
	}
}

// Swap flips the interior free edge e. With e = (ve0,ve1) bordered by t0 and t1
// whose opposite vertices are vt0 and vt1, t0 and t1 are replaced by
// (ve0,vt1,vt0) and (ve1,vt1,vt0) sharing the new diagonal (vt0,vt1).
func (m *Mesh) Swap(e EdgeID) (TriangleRef, TriangleRef) {
	edge := m.Edge(e)
	if !edge.IsInterior() {
		panic(fmt.Errorf("swap of boundary edge %d (%d,%d)", e, edge.verts[0], edge.verts[1]))
	}
	if edge.IsSegment() {
		panic(fmt.Errorf("swap of segment %d (%d,%d)", e, edge.verts[0], edge.verts[1]))
	}
	var (
		t0, t1   = m.triangles[edge.tris[0]], m.triangles[edge.tris[1]]
		ve0, ve1 = edge.verts[0], edge.verts[1]
		vt0, vt1 = t0.opposite(edge), t1.opposite(edge)
	)
	s0 := geometry.Orientation(m.point(vt0), m.point(vt1), m.point(ve0)).Sign()
	s1 := geometry.Orientation(m.point(vt0), m.point(vt1), m.point(ve1)).Sign()
	if s0*s1 >= 0 {
		panic(fmt.Errorf("swap of edge %d (%d,%d) in a non-convex quadrilateral", e, ve0, ve1))
	}
	m.deleteTriangle(t0)
	m.deleteTriangle(t1)
	return m.newTriangle(ve0, vt1, vt0).Ref(), m.newTriangle(ve1, vt1, vt0).Ref()
}

// MaintainDelaunay restores the Delaunay property over the whole mesh: every
// non-Delaunay edge seeds the flip worklist, which is then drained, requeuing
// the four outer edges of each flipped quadrilateral. It returns the number of
// flips performed.
func (m *Mesh) MaintainDelaunay() (flips int) {
	for _, e := range m.edges {
		if e.alive && !m.IsDelaunay(e.id) {
			m.toFlip = append(m.toFlip, e.id)
		}
	}
	for len(m.toFlip) > 0 {
		e := m.toFlip[0]
		m.toFlip = m.toFlip[1:]
		if !m.edges[e].alive || m.IsDelaunay(e) {
			continue
		}
		n0, n1 := m.Swap(e)
		flips++
		t0, t1 := m.triangles[n0.ID], m.triangles[n1.ID]
		for _, t := range []*Triangle{t0, t1} {
			for i, oe := range t.edges {
				if t.neighbors[i] != t0.id && t.neighbors[i] != t1.id {
					m.toFlip = append(m.toFlip, oe)
				}
			}
		}
	}
	return
}
