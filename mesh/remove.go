package mesh

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
)

// RemoveTriangles deletes every triangle matching pred, then the vertices left
// without any triangle and the segments ending at them. A segment whose
// endpoints both survive stays, as SegmentNotInTriangulation. It returns the
// number of triangles removed.
func (m *Mesh) RemoveTriangles(pred TriangleCriterion) (removed int) {
	var doomed []*Triangle
	for _, t := range m.triangles {
		if t.alive && pred(m, t) {
			doomed = append(doomed, t)
		}
	}
	for _, t := range doomed {
		m.deleteTriangle(t)
		removed++
	}
	for _, e := range m.edges {
		if !e.alive || e.NumTriangles() > 0 {
			continue
		}
		if len(m.vertices[e.verts[0]].triangles) == 0 || len(m.vertices[e.verts[1]].triangles) == 0 {
			m.deleteEdge(e)
		}
	}
	var (
		keep    = make([]VertexID, 0, m.nVertices)
		orphans int
	)
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		if vert := m.vertices[v]; len(vert.triangles) == 0 {
			vert.alive = false
			orphans++
		} else {
			keep = append(keep, v)
		}
	}
	if orphans > 0 {
		m.relink(keep)
	}
	m.log.Debugw("triangles removed", "triangles", removed, "vertices", orphans)
	return
}

// OutsidePolygon selects triangles whose centroid lies outside poly
func OutsidePolygon(poly orb.Polygon) TriangleCriterion {
	return func(m *Mesh, t *Triangle) bool {
		c := geometry.Centroid(m.point(t.verts[0]), m.point(t.verts[1]), m.point(t.verts[2]))
		return !planar.PolygonContains(poly, orb.Point{c.X, c.Y})
	}
}
