package mesh

import (
	"fmt"
	"strings"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

// RefinementMode selects the insertion point for a bad triangle
type RefinementMode uint8

const (
	Ruppert RefinementMode = iota // Circumcenter
	Ungor                         // Off-center, falling back to the circumcenter
)

func (rm RefinementMode) String() string {
	switch rm {
	case Ruppert:
		return "ruppert"
	case Ungor:
		return "ungor"
	default:
		panic("unknown refinement mode")
	}
}

// ParseRefinementMode is the inverse of RefinementMode.String
func ParseRefinementMode(s string) (RefinementMode, error) {
	switch strings.ToLower(s) {
	case "ruppert", "circumcenter":
		return Ruppert, nil
	case "ungor", "offcenter", "off-center":
		return Ungor, nil
	}
	return 0, fmt.Errorf("unknown refinement mode %q", s)
}

type (
	// EdgeCriterion selects edges whose neighborhood should be refined
	EdgeCriterion func(m *Mesh, e *Edge) bool
	// TriangleSelector maps a selected edge to the triangles to refine
	TriangleSelector func(m *Mesh, e *Edge) []TriangleID
	// TriangleCriterion selects triangles directly
	TriangleCriterion func(m *Mesh, t *Triangle) bool
)

// IncidentTriangles selects both triangles bordering an edge
func IncidentTriangles(m *Mesh, e *Edge) (ts []TriangleID) {
	for _, t := range e.tris {
		if t != NilTriangle {
			ts = append(ts, t)
		}
	}
	return
}

// LargerTriangle selects the bordering triangle with the larger circumradius
func LargerTriangle(m *Mesh, e *Edge) []TriangleID {
	ts := IncidentTriangles(m, e)
	if len(ts) == 2 && m.triangles[ts[1]].radius2.Greater(m.triangles[ts[0]].radius2) {
		return ts[1:]
	}
	return ts[:min(len(ts), 1)]
}

// RatioAbove selects triangles whose radius/edge ratio exceeds bound
func RatioAbove(bound float64) TriangleCriterion {
	return func(m *Mesh, t *Triangle) bool { return t.ratio > bound }
}

// Refine inserts circumcenters (Ruppert) or off-centers (Ungor) into every
// triangle whose radius/edge ratio exceeds bound until none is left. Insertion
// points that encroach a segment split the segment instead. It returns the
// number of bad triangles processed.
func (m *Mesh) Refine(bound float64, mode RefinementMode) (processed int) {
	if bound <= 0 {
		panic(fmt.Errorf("refinement bound %g must be positive", bound))
	}
	var (
		startVertices = m.nVertices
		splits        = m.SplitEncroachedSegments()
		queue         = make([]TriangleRef, 0, m.nTriangles)
		discarded     int
	)
	for _, t := range m.triangles {
		if t.alive {
			queue = append(queue, t.Ref())
		}
	}
	m.tracking, m.created = true, m.created[:0]
	defer func() { m.tracking, m.created = false, m.created[:0] }()
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		if !m.Valid(ref) || m.triangles[ref.ID].ratio <= bound {
			continue
		}
		if limit := m.opts.MaxSteinerPoints; limit > 0 && m.nVertices-startVertices >= limit {
			m.log.Warnw("refinement stopped at the Steiner point cap",
				"cap", limit, "pending", len(queue)+1)
			break
		}
		processed++
		t := m.triangles[ref.ID]
		p := t.center
		if mode == Ungor {
			p = m.offCenter(t, bound)
		}
		if m.SplitEncroachedSegmentsAt(p) {
			queue = append(queue, ref)
		} else if _, ok := m.AddPoint(p, t.id); !ok {
			discarded++
		}
		queue = append(queue, m.created...)
		m.created = m.created[:0]
	}
	m.log.Infow("refinement done",
		"mode", mode.String(), "bound", bound, "processed", processed,
		"added", m.nVertices-startVertices, "initialSplits", splits, "discarded", discarded)
	return
}

// offCenter places the point on the bisector of the shortest edge pq whose
// triangle with pq has radius/edge ratio exactly bound, unless the
// circumcenter is closer to pq
func (m *Mesh) offCenter(t *Triangle, bound float64) geometry.Point {
	idx, l2 := m.shortestEdge(t)
	b := numeric.New(bound)
	disc := b.Mul(b).Sub(numeric.New(0.25))
	if disc.Sign() < 0 {
		return t.center
	}
	p, q := m.point(t.verts[(idx+1)%3]), m.point(t.verts[(idx+2)%3])
	mid := geometry.Midpoint(p, q)
	d := geometry.Distance(mid, t.center)
	h := l2.Sqrt().Mul(b.Add(disc.Sqrt()))
	if d.IsZero() || !h.Less(d) {
		return t.center
	}
	return mid.Add(t.center.Sub(mid).Mul(h.Quo(d)))
}

// RefineTriangle inserts the circumcenter of t, or splits the segments it
// encroaches instead. It reports whether the mesh changed.
func (m *Mesh) RefineTriangle(t TriangleID) bool {
	tri := m.Triangle(t)
	center := tri.center
	if m.SplitEncroachedSegmentsAt(center) {
		return true
	}
	_, ok := m.AddPoint(center, t)
	return ok
}

// ApplyEdgeRefinement refines the triangles selector picks around every edge
// matching criterion, each at most once. It returns the number refined.
func (m *Mesh) ApplyEdgeRefinement(criterion EdgeCriterion, selector TriangleSelector) int {
	var (
		seen  = make(map[TriangleRef]bool)
		cands []TriangleRef
	)
	for _, e := range m.edges {
		if !e.alive || !criterion(m, e) {
			continue
		}
		for _, t := range selector(m, e) {
			if ref := m.triangles[t].Ref(); !seen[ref] {
				seen[ref] = true
				cands = append(cands, ref)
			}
		}
	}
	return m.refineAll(cands)
}

// ApplyTriangleRefinement refines every triangle matching criterion once
func (m *Mesh) ApplyTriangleRefinement(criterion TriangleCriterion) int {
	var cands []TriangleRef
	for _, t := range m.triangles {
		if t.alive && criterion(m, t) {
			cands = append(cands, t.Ref())
		}
	}
	return m.refineAll(cands)
}

func (m *Mesh) refineAll(cands []TriangleRef) (refined int) {
	for _, ref := range cands {
		if m.Valid(ref) && m.RefineTriangle(ref.ID) {
			refined++
		}
	}
	return
}
