package mesh

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

// Options are the numerical and resource knobs of a Mesh
type Options struct {
	Padding            float64 // Bounding box margin as a fraction of the largest input extent
	CollinearTolerance float64 // Relative tolerance classifying a point as lying on an edge
	IncircleTolerance  float64 // Relative margin a point must clear to be inside a circumcircle
	MaxSteinerPoints   int     // Cap on vertices added by one refinement call, 0 is unlimited
	Seed               uint64  // Seed for randomized reordering
	Logger             *zap.SugaredLogger
}

// DefaultMaxSteinerPoints bounds refinement of inputs with small angles,
// which otherwise never meets the ratio bound
const DefaultMaxSteinerPoints = 10000

// DefaultOptions returns the tolerances used throughout the tests and the
// mesh generator, with a nop logger
func DefaultOptions() Options {
	return Options{
		Padding:            0.1,
		CollinearTolerance: 1e-14,
		IncircleTolerance:  1e-40,
		MaxSteinerPoints:   DefaultMaxSteinerPoints,
		Logger:             zap.NewNop().Sugar(),
	}
}

// VertexFunc is invoked once for every vertex that joins the mesh, after it
// has been connected to its triangles
type VertexFunc func(m *Mesh, v *Vertex)

// Mesh owns every vertex, edge and triangle in slot arenas addressed by
// integer handles. It is not safe for concurrent use; hand each goroutine its
// own Clone.
type Mesh struct {
	opts Options
	log  *zap.SugaredLogger

	vertices  []*Vertex
	edges     []*Edge
	triangles []*Triangle
	freeEdges []EdgeID
	freeTris  []TriangleID
	edgeIndex map[edgeKey]EdgeID

	first, last VertexID
	nVertices   int
	nTriangles  int
	nEdges      int

	toFlip      []EdgeID
	encroachedS []EdgeID

	vertexFunc VertexFunc
	tracking   bool
	created    []TriangleRef
}

// New returns an empty mesh; Initialize fills it. It panics on negative
// tolerances or padding.
func New(opts Options) *Mesh {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.CollinearTolerance < 0 || opts.IncircleTolerance < 0 || opts.Padding < 0 {
		panic(fmt.Errorf("negative tolerance or padding in mesh options %+v", opts))
	}
	return &Mesh{
		opts:      opts,
		log:       opts.Logger,
		edgeIndex: make(map[edgeKey]EdgeID),
		first:     NilVertex,
		last:      NilVertex,
	}
}

// Options returns the options the mesh was created with
func (m *Mesh) Options() Options { return m.opts }

// SetVertexFunction installs the per-vertex callback, nil removes it
func (m *Mesh) SetVertexFunction(f VertexFunc) { m.vertexFunc = f }

// First is the head of the vertex sequence, NilVertex when empty
func (m *Mesh) First() VertexID { return m.first }

// Next follows the vertex sequence from v
func (m *Mesh) Next(v VertexID) VertexID { return m.Vertex(v).next }

// Vertex resolves a live vertex handle, panicking on a stale or foreign one
func (m *Mesh) Vertex(v VertexID) *Vertex {
	if v < 0 || int(v) >= len(m.vertices) || !m.vertices[v].alive {
		panic(fmt.Errorf("invalid vertex handle %d", v))
	}
	return m.vertices[v]
}

// Edge resolves a live edge handle, panicking on a stale or foreign one
func (m *Mesh) Edge(e EdgeID) *Edge {
	if e < 0 || int(e) >= len(m.edges) || !m.edges[e].alive {
		panic(fmt.Errorf("invalid edge handle %d", e))
	}
	return m.edges[e]
}

// Triangle resolves a live triangle handle, panicking on a stale or foreign one
func (m *Mesh) Triangle(t TriangleID) *Triangle {
	if t < 0 || int(t) >= len(m.triangles) || !m.triangles[t].alive {
		panic(fmt.Errorf("invalid triangle handle %d", t))
	}
	return m.triangles[t]
}

// Valid reports whether ref still names the triangle it was taken from
func (m *Mesh) Valid(ref TriangleRef) bool {
	if ref.ID < 0 || int(ref.ID) >= len(m.triangles) {
		return false
	}
	t := m.triangles[ref.ID]
	return t.alive && t.gen == ref.Gen
}

// Vertices returns the handles in sequence order
func (m *Mesh) Vertices() (vs []VertexID) {
	vs = make([]VertexID, 0, m.nVertices)
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		vs = append(vs, v)
	}
	return
}

// Triangles lists the live triangles in arena order
func (m *Mesh) Triangles() (ts []TriangleID) {
	ts = make([]TriangleID, 0, m.nTriangles)
	for _, t := range m.triangles {
		if t.alive {
			ts = append(ts, t.id)
		}
	}
	return
}

// Edges lists the live edges, segments included, in arena order
func (m *Mesh) Edges() (es []EdgeID) {
	es = make([]EdgeID, 0, m.nEdges)
	for _, e := range m.edges {
		if e.alive {
			es = append(es, e.id)
		}
	}
	return
}

// Segments lists the live edges of either segment kind
func (m *Mesh) Segments() (ss []EdgeID) {
	for _, e := range m.edges {
		if e.alive && e.IsSegment() {
			ss = append(ss, e.id)
		}
	}
	return
}

func (m *Mesh) NumberOfVertices() int  { return m.nVertices }
func (m *Mesh) NumberOfTriangles() int { return m.nTriangles }
func (m *Mesh) NumberOfEdges() int     { return m.nEdges }
func (m *Mesh) NumberOfSegments() int  { return len(m.Segments()) }

// EdgeBetween returns the edge joining a and b, or NilEdge
func (m *Mesh) EdgeBetween(a, b VertexID) EdgeID {
	if e, ok := m.edgeIndex[newEdgeKey(a, b)]; ok {
		return e
	}
	return NilEdge
}

// FindVertex returns the mesh vertex at exactly p, or NilVertex
func (m *Mesh) FindVertex(p geometry.Point) VertexID {
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		if m.vertices[v].Point().Equal(p) {
			return v
		}
	}
	return NilVertex
}

// IsOnSegment reports whether v is an endpoint of any segment
func (m *Mesh) IsOnSegment(v VertexID) bool {
	for _, e := range m.Vertex(v).edges {
		if m.edges[e].IsSegment() {
			return true
		}
	}
	return false
}

// MoveVertex relocates v. Cached triangle quantities are stale until
// UpdateTriangles is called.
func (m *Mesh) MoveVertex(v VertexID, p geometry.Point) {
	vert := m.Vertex(v)
	vert.X, vert.Y = p.X, p.Y
}

func (m *Mesh) point(v VertexID) geometry.Point {
	return m.vertices[v].Point()
}

// String summarizes the counts and the element quality
func (m *Mesh) String() string {
	var (
		sb       strings.Builder
		segments = m.NumberOfSegments()
	)
	fmt.Fprintf(&sb, "Mesh: %d vertices, %d triangles, %d edges (%d segments)",
		m.nVertices, m.nTriangles, m.nEdges, segments)
	if m.nTriangles > 0 {
		q := m.QualitySummary()
		fmt.Fprintf(&sb, "\n  min angle %.3f deg, max radius/edge %.4f, mean quality %.4f",
			q.MinAngle, q.MaxRatio, q.MeanQuality)
	}
	return sb.String()
}

// newVertex allocates a vertex that is not yet part of the triangulation
func (m *Mesh) newVertex(x, y numeric.Real) *Vertex {
	v := &Vertex{
		X:     x,
		Y:     y,
		Label: -1,
		id:    VertexID(len(m.vertices)),
		alive: true,
		next:  NilVertex,
	}
	m.vertices = append(m.vertices, v)
	return v
}

// NewVertex allocates a vertex at p for a later InsertVertex call
func (m *Mesh) NewVertex(p geometry.Point) VertexID {
	return m.newVertex(p.X, p.Y).id
}

// DiscardVertex releases a vertex that never joined the triangulation
func (m *Mesh) DiscardVertex(v VertexID) {
	vert := m.Vertex(v)
	if vert.linked || len(vert.triangles) > 0 || len(vert.edges) > 0 {
		panic(fmt.Errorf("vertex %d is in use and cannot be discarded", v))
	}
	vert.alive = false
}

func (m *Mesh) link(v *Vertex) {
	if v.linked {
		panic(fmt.Errorf("vertex %d is already linked into the mesh", v.id))
	}
	if m.last == NilVertex {
		m.first = v.id
	} else {
		m.vertices[m.last].next = v.id
	}
	m.last = v.id
	v.next = NilVertex
	v.linked = true
	m.nVertices++
}

// relink rebuilds the vertex sequence from order
func (m *Mesh) relink(order []VertexID) {
	m.first, m.last, m.nVertices = NilVertex, NilVertex, 0
	for _, v := range order {
		m.vertices[v].linked = false
		m.link(m.vertices[v])
	}
}

// commitVertex makes an inserted vertex visible to traversal and callbacks
func (m *Mesh) commitVertex(v *Vertex) {
	m.link(v)
	if m.vertexFunc != nil {
		m.vertexFunc(m, v)
	}
}

func (m *Mesh) newEdge(a, b VertexID, kind EdgeKind) *Edge {
	if a == NilVertex || b == NilVertex || a == b {
		panic(fmt.Errorf("cannot create edge between vertices %d and %d", a, b))
	}
	var e *Edge
	if n := len(m.freeEdges); n > 0 {
		e = m.edges[m.freeEdges[n-1]]
		m.freeEdges = m.freeEdges[:n-1]
		*e = Edge{id: e.id}
	} else {
		e = &Edge{id: EdgeID(len(m.edges))}
		m.edges = append(m.edges, e)
	}
	e.alive = true
	e.kind = kind
	e.verts = [2]VertexID{a, b}
	e.tris = [2]TriangleID{NilTriangle, NilTriangle}
	m.edgeIndex[newEdgeKey(a, b)] = e.id
	m.vertices[a].addEdge(e.id)
	m.vertices[b].addEdge(e.id)
	m.nEdges++
	return e
}

func (m *Mesh) getOrCreateEdge(a, b VertexID) *Edge {
	if e, ok := m.edgeIndex[newEdgeKey(a, b)]; ok {
		return m.edges[e]
	}
	return m.newEdge(a, b, FreeEdge)
}

// makeSegment marks the edge ab as a constraint, creating it if needed
func (m *Mesh) makeSegment(a, b VertexID) *Edge {
	e := m.getOrCreateEdge(a, b)
	if e.kind == FreeEdge {
		e.kind = SegmentNotInTriangulation
	}
	e.reclassify()
	return e
}

func (m *Mesh) deleteEdge(e *Edge) {
	if !e.alive {
		panic(fmt.Errorf("edge %d deleted twice", e.id))
	}
	if e.NumTriangles() != 0 {
		panic(fmt.Errorf("edge %d (%d,%d) deleted while bordering triangles %v", e.id, e.verts[0], e.verts[1], e.tris))
	}
	m.vertices[e.verts[0]].removeEdge(e.id)
	m.vertices[e.verts[1]].removeEdge(e.id)
	delete(m.edgeIndex, newEdgeKey(e.verts[0], e.verts[1]))
	e.alive = false
	m.freeEdges = append(m.freeEdges, e.id)
	m.nEdges--
}

// newTriangle orients (a,b,c) counter-clockwise, attaches it to its edges,
// creating free edges as needed, and wires neighbors across shared edges
func (m *Mesh) newTriangle(a, b, c VertexID) *Triangle {
	if a == NilVertex || b == NilVertex || c == NilVertex {
		panic(fmt.Errorf("triangle with nil vertex (%d,%d,%d)", a, b, c))
	}
	switch geometry.Orientation(m.point(a), m.point(b), m.point(c)).Sign() {
	case 0:
		panic(fmt.Errorf("collinear triangle (%d,%d,%d): %s %s %s",
			a, b, c, m.point(a), m.point(b), m.point(c)))
	case -1:
		b, c = c, b
	}
	var t *Triangle
	if n := len(m.freeTris); n > 0 {
		t = m.triangles[m.freeTris[n-1]]
		m.freeTris = m.freeTris[:n-1]
		*t = Triangle{id: t.id, gen: t.gen + 1}
	} else {
		t = &Triangle{id: TriangleID(len(m.triangles))}
		m.triangles = append(m.triangles, t)
	}
	t.alive = true
	t.verts = [3]VertexID{a, b, c}
	t.neighbors = [3]TriangleID{NilTriangle, NilTriangle, NilTriangle}
	for i := 0; i < 3; i++ {
		e := m.getOrCreateEdge(t.verts[(i+1)%3], t.verts[(i+2)%3])
		t.edges[i] = e.id
		for _, o := range e.tris {
			if o != NilTriangle {
				other := m.triangles[o]
				t.setNeighbor(other)
				other.setNeighbor(t)
			}
		}
		e.addTriangle(t.id)
		e.reclassify()
	}
	for _, v := range t.verts {
		m.vertices[v].addTriangle(t.id)
	}
	m.updateTriangle(t)
	m.nTriangles++
	if m.tracking {
		m.created = append(m.created, t.Ref())
	}
	return t
}

// deleteTriangle detaches t from its vertices, neighbors and edges. Free edges
// left without triangles go with it; segments are kept as not in triangulation.
func (m *Mesh) deleteTriangle(t *Triangle) {
	if !t.alive {
		panic(fmt.Errorf("triangle %d deleted twice", t.id))
	}
	for i := 0; i < 3; i++ {
		if n := t.neighbors[i]; n != NilTriangle {
			m.triangles[n].replaceNeighbor(t.id, NilTriangle)
		}
		e := m.edges[t.edges[i]]
		e.removeTriangle(t.id)
		if e.kind == FreeEdge && e.NumTriangles() == 0 {
			m.deleteEdge(e)
		} else {
			e.reclassify()
		}
	}
	for _, v := range t.verts {
		m.vertices[v].removeTriangle(t.id)
	}
	t.alive = false
	m.freeTris = append(m.freeTris, t.id)
	m.nTriangles--
}

// updateTriangle recomputes the cached circumcircle and shape measures
func (m *Mesh) updateTriangle(t *Triangle) {
	a, b, c := m.point(t.verts[0]), m.point(t.verts[1]), m.point(t.verts[2])
	center, r2, ok := geometry.Circumcenter(a, b, c)
	if !ok {
		panic(fmt.Errorf("degenerate triangle %d (%d,%d,%d)", t.id, t.verts[0], t.verts[1], t.verts[2]))
	}
	t.center, t.radius2 = center, r2
	t.angles = geometry.Angles(a, b, c)
	t.quality = geometry.Quality(a, b, c)
	_, l2 := m.shortestEdge(t)
	t.ratio = r2.Quo(l2).Sqrt().Float64()
}

// UpdateTriangles refreshes every cached triangle quantity, required after
// vertices have been moved
func (m *Mesh) UpdateTriangles() {
	for _, t := range m.triangles {
		if t.alive {
			m.updateTriangle(t)
		}
	}
}

// MovingMesh runs monitor, which may relocate vertices, and refreshes the
// triangles when it reports a change. The triangulation is not repaired.
func (m *Mesh) MovingMesh(monitor func(*Mesh) bool) bool {
	changed := monitor(m)
	if changed {
		m.UpdateTriangles()
	}
	return changed
}

// shortestEdge returns the local index and squared length of t's shortest edge
func (m *Mesh) shortestEdge(t *Triangle) (idx int, l2 numeric.Real) {
	idx = -1
	for i := 0; i < 3; i++ {
		d := geometry.DistanceSquared(m.point(t.verts[(i+1)%3]), m.point(t.verts[(i+2)%3]))
		if idx < 0 || d.Less(l2) {
			idx, l2 = i, d
		}
	}
	return
}

// ShortestEdge returns the shortest edge of t
func (m *Mesh) ShortestEdge(t TriangleID) EdgeID {
	tri := m.Triangle(t)
	i, _ := m.shortestEdge(tri)
	return tri.edges[i]
}

// IsInside reports whether p lies in t, boundary included
func (m *Mesh) IsInside(t TriangleID, p geometry.Point) bool {
	tri := m.Triangle(t)
	return geometry.InsideTriangle(m.point(tri.verts[0]), m.point(tri.verts[1]), m.point(tri.verts[2]), p)
}

// NearestVertexInsideTriangle returns the vertex of t closest to p
func (m *Mesh) NearestVertexInsideTriangle(t TriangleID, p geometry.Point) VertexID {
	tri := m.Triangle(t)
	best := tri.verts[0]
	bestD := geometry.DistanceSquared(m.point(best), p)
	for _, v := range tri.verts[1:] {
		if d := geometry.DistanceSquared(m.point(v), p); d.Less(bestD) {
			best, bestD = v, d
		}
	}
	return best
}

// seedPDE copies solver state from the nearest vertex of t into v
func (m *Mesh) seedPDE(v *Vertex, t TriangleID) {
	near := m.NearestVertexInsideTriangle(t, v.Point())
	v.PDE = m.vertices[near].PDE
}
