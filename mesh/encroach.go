package mesh

import (
	"fmt"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
)

// IsEncroached reports whether segment s must be split: it is missing from the
// triangulation, or the angle opposite it in a bordering triangle is obtuse
func (m *Mesh) IsEncroached(s EdgeID) bool {
	seg := m.Edge(s)
	if !seg.IsSegment() {
		panic(fmt.Errorf("encroachment test on free edge %d", s))
	}
	if seg.kind == SegmentNotInTriangulation {
		return true
	}
	a, b := m.point(seg.verts[0]), m.point(seg.verts[1])
	for _, t := range seg.tris {
		if t == NilTriangle {
			continue
		}
		if geometry.InDiametralCircle(a, b, m.point(m.triangles[t].opposite(seg))) {
			return true
		}
	}
	return false
}

// IsEncroachedBy reports whether p lies strictly inside the diametral circle
// of segment s
func (m *Mesh) IsEncroachedBy(p geometry.Point, s EdgeID) bool {
	seg := m.Edge(s)
	return geometry.InDiametralCircle(m.point(seg.verts[0]), m.point(seg.verts[1]), p)
}

// EncroachedSegments lists the segments IsEncroached reports
func (m *Mesh) EncroachedSegments() (ss []EdgeID) {
	for _, s := range m.Segments() {
		if m.IsEncroached(s) {
			ss = append(ss, s)
		}
	}
	return
}

// SplitEncroachedSegments drains the encroached segment worklist, seeding it
// with every currently encroached segment, and returns the number of splits
func (m *Mesh) SplitEncroachedSegments() (splits int) {
	m.encroachedS = append(m.encroachedS, m.EncroachedSegments()...)
	return m.drainEncroached()
}

func (m *Mesh) drainEncroached() (splits int) {
	for len(m.encroachedS) > 0 {
		s := m.encroachedS[0]
		m.encroachedS = m.encroachedS[1:]
		if e := m.edges[s]; !e.alive || !e.IsSegment() || !m.IsEncroached(s) {
			continue
		}
		if m.splitSegment(m.edges[s]) {
			splits++
		}
	}
	return
}

// SplitEncroachedSegmentsAt splits every segment of the triangulation whose
// diametral circle contains p, along with whatever those splits encroach in
// turn. It reports whether any segment was split.
func (m *Mesh) SplitEncroachedSegmentsAt(p geometry.Point) bool {
	var hit []EdgeID
	for _, e := range m.edges {
		if e.alive && e.kind == SegmentInTriangulation && m.IsEncroachedBy(p, e.id) {
			hit = append(hit, e.id)
		}
	}
	for _, s := range hit {
		if e := m.edges[s]; e.alive && e.IsSegment() {
			m.splitSegment(e)
		}
	}
	if len(hit) > 0 {
		m.drainEncroached()
	}
	return len(hit) > 0
}

// splitSegment inserts the midpoint of s, recovering it first when it is not
// in the triangulation, and queues the pieces and any segment the new vertex
// encroaches. A missing segment whose midpoint lies in a removed region is
// left alone and reported as not split.
func (m *Mesh) splitSegment(s *Edge) bool {
	a, b := s.verts[0], s.verts[1]
	mid := geometry.Midpoint(m.point(a), m.point(b))
	var v *Vertex
	if s.kind == SegmentInTriangulation {
		v = m.newVertex(mid.X, mid.Y)
		m.splitEdge(v, s)
		m.commitVertex(v)
	} else {
		var hint TriangleID = NilTriangle
		if ts := m.vertices[a].triangles; len(ts) > 0 {
			hint = ts[0]
		}
		loc := m.Locate(mid, hint)
		switch {
		case !loc.Found():
			m.log.Debugw("segment midpoint outside the triangulation", "segment", s.id, "midpoint", mid.String())
			return false
		case loc.Coincident():
			w := loc.Vertex
			m.deleteEdge(s)
			m.encroachedS = append(m.encroachedS, m.makeSegment(a, w).id, m.makeSegment(w, b).id)
			m.queueOpposite(w)
			return true
		}
		m.deleteEdge(s)
		v = m.newVertex(mid.X, mid.Y)
		m.makeSegment(a, v.id)
		m.makeSegment(v.id, b)
		m.insertAt(v, loc)
	}
	m.encroachedS = append(m.encroachedS, m.EdgeBetween(a, v.id), m.EdgeBetween(v.id, b))
	m.queueOpposite(v.id)
	return true
}

// queueOpposite queues the segments facing v in its incident triangles
func (m *Mesh) queueOpposite(v VertexID) {
	for _, t := range m.vertices[v].triangles {
		tri := m.triangles[t]
		if e := tri.edges[tri.Number(v)]; m.edges[e].IsSegment() {
			m.encroachedS = append(m.encroachedS, e)
		}
	}
}
