package mesh

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
)

// VerifyNeighbors checks that neighbor links are symmetric and agree with the
// edges the triangles share
func (m *Mesh) VerifyNeighbors() bool {
	return m.neighborErrors() == nil
}

func (m *Mesh) neighborErrors() (err error) {
	for _, t := range m.triangles {
		if !t.alive {
			continue
		}
		for i, n := range t.neighbors {
			e := m.edges[t.edges[i]]
			if !e.alive || (e.tris[0] != t.id && e.tris[1] != t.id) || e.OtherTriangle(t.id) != n {
				err = multierr.Append(err, errors.Errorf("triangle %d: edge %d and neighbor %d disagree", t.id, t.edges[i], n))
				continue
			}
			if n == NilTriangle {
				continue
			}
			o := m.triangles[n]
			if !o.alive {
				err = multierr.Append(err, errors.Errorf("triangle %d: neighbor %d is deleted", t.id, n))
				continue
			}
			if j := o.EdgeNumber(t.edges[i]); j < 0 || o.neighbors[j] != t.id {
				err = multierr.Append(err, errors.Errorf("triangle %d: neighbor %d does not point back", t.id, n))
			}
		}
	}
	return
}

func (m *Mesh) strictlyInside(t *Triangle, p geometry.Point) bool {
	a, b, c := m.point(t.verts[0]), m.point(t.verts[1]), m.point(t.verts[2])
	return geometry.Orientation(a, b, p).Sign() > 0 &&
		geometry.Orientation(b, c, p).Sign() > 0 &&
		geometry.Orientation(c, a, p).Sign() > 0
}

// VerifyPointsInsideTriangles checks by brute force that no vertex lies
// strictly inside a triangle it does not belong to
func (m *Mesh) VerifyPointsInsideTriangles() bool {
	for _, t := range m.triangles {
		if !t.alive {
			continue
		}
		for v := m.first; v != NilVertex; v = m.vertices[v].next {
			if !t.HasVertex(v) && m.strictlyInside(t, m.point(v)) {
				m.log.Debugw("vertex inside triangle", "vertex", v, "triangle", t.id)
				return false
			}
		}
	}
	return true
}

// BruteForceCheckMesh tests every vertex against every circumcircle
func (m *Mesh) BruteForceCheckMesh() bool {
	if !m.VerifyNeighbors() {
		return false
	}
	for _, t := range m.triangles {
		if !t.alive {
			continue
		}
		for v := m.first; v != NilVertex; v = m.vertices[v].next {
			if t.HasVertex(v) {
				continue
			}
			if m.inCircumcircle(t, v) || m.strictlyInside(t, m.point(v)) {
				m.log.Debugw("global Delaunay check failed", "vertex", v, "triangle", t.id)
				return false
			}
		}
	}
	return true
}

// SmartCheckMesh restricts the circumcircle and containment tests of each
// triangle to the vertices of the triangles within two steps of it, without
// crossing a segment. It is the correctness oracle for the constrained
// Delaunay property.
func (m *Mesh) SmartCheckMesh() bool {
	if !m.VerifyNeighbors() {
		return false
	}
	for _, t := range m.triangles {
		if !t.alive {
			continue
		}
		for _, v := range m.neighborhoodVertices(t) {
			if m.inCircumcircle(t, v) || m.strictlyInside(t, m.point(v)) {
				m.log.Debugw("local Delaunay check failed", "vertex", v, "triangle", t.id)
				return false
			}
		}
	}
	return true
}

func (m *Mesh) neighborhoodVertices(t *Triangle) (vs []VertexID) {
	var (
		seenT = map[TriangleID]bool{t.id: true}
		seenV = map[VertexID]bool{t.verts[0]: true, t.verts[1]: true, t.verts[2]: true}
		ring  = []*Triangle{t}
	)
	for step := 0; step < 2; step++ {
		var next []*Triangle
		for _, r := range ring {
			for i, n := range r.neighbors {
				if n == NilTriangle || seenT[n] || m.edges[r.edges[i]].IsSegment() {
					continue
				}
				seenT[n] = true
				o := m.triangles[n]
				next = append(next, o)
				for _, v := range o.verts {
					if !seenV[v] {
						seenV[v] = true
						vs = append(vs, v)
					}
				}
			}
		}
		ring = next
	}
	return
}

// Validate reports every structural invariant breach at once
func (m *Mesh) Validate() (err error) {
	err = multierr.Append(err, m.neighborErrors())
	var nt, ne, nv int
	for _, t := range m.triangles {
		if !t.alive {
			continue
		}
		nt++
		a, b, c := m.point(t.verts[0]), m.point(t.verts[1]), m.point(t.verts[2])
		if geometry.Orientation(a, b, c).Sign() <= 0 {
			err = multierr.Append(err, errors.Errorf("triangle %d is not counter-clockwise", t.id))
		}
		for i, e := range t.edges {
			edge := m.edges[e]
			if !edge.alive || !edge.HasVertex(t.verts[(i+1)%3]) || !edge.HasVertex(t.verts[(i+2)%3]) {
				err = multierr.Append(err, errors.Errorf("triangle %d: edge %d is not opposite vertex %d", t.id, e, i))
			}
		}
	}
	for _, e := range m.edges {
		if !e.alive {
			continue
		}
		ne++
		if id, ok := m.edgeIndex[newEdgeKey(e.verts[0], e.verts[1])]; !ok || id != e.id {
			err = multierr.Append(err, errors.Errorf("edge %d is missing from the index", e.id))
		}
		switch n := e.NumTriangles(); {
		case n == 0 && e.kind == FreeEdge:
			err = multierr.Append(err, errors.Errorf("free edge %d borders no triangle", e.id))
		case n == 0 && e.kind == SegmentInTriangulation, n > 0 && e.kind == SegmentNotInTriangulation:
			err = multierr.Append(err, errors.Errorf("segment %d is misclassified as %s", e.id, e.kind))
		}
		if !e.IsSegment() && !m.IsDelaunay(e.id) {
			err = multierr.Append(err, errors.Errorf("edge %d is not locally Delaunay", e.id))
		}
	}
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		nv++
		if len(m.vertices[v].triangles) == 0 {
			err = multierr.Append(err, errors.Errorf("vertex %d has no triangle", v))
		}
	}
	if len(m.edgeIndex) != ne {
		err = multierr.Append(err, errors.Errorf("edge index holds %d entries for %d edges", len(m.edgeIndex), ne))
	}
	if nt != m.nTriangles || ne != m.nEdges || nv != m.nVertices {
		err = multierr.Append(err, errors.Errorf("counts drifted: triangles %d/%d edges %d/%d vertices %d/%d",
			nt, m.nTriangles, ne, m.nEdges, nv, m.nVertices))
	}
	return
}

// TraceSegment follows the chain of segments from a to b along the straight
// line between them, returning the pieces in order
func (m *Mesh) TraceSegment(a, b VertexID) ([]EdgeID, bool) {
	var (
		pa, pb = m.point(a), m.point(b)
		dir    = pb.Sub(pa)
		chain  []EdgeID
		prev   = NilVertex
		curr   = a
	)
	for curr != b {
		next := NilVertex
		for _, e := range m.vertices[curr].edges {
			edge := m.edges[e]
			w := edge.Other(curr)
			if !edge.IsSegment() || w == prev {
				continue
			}
			pw := m.point(w)
			if geometry.OnLine(pa, pb, pw, m.opts.CollinearTolerance) && pw.Sub(m.point(curr)).Dot(dir).Sign() > 0 {
				next = w
				chain = append(chain, e)
				break
			}
		}
		if next == NilVertex {
			return chain, false
		}
		prev, curr = curr, next
	}
	return chain, true
}
