package mesh

import (
	"github.com/pkg/errors"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/pslg"
)

// Initialize builds the triangulation of g: two triangles covering the padded
// bounding box, whose sides are segments, then every input point inserted in
// turn, then the input segments recovered and every encroached segment split.
// It must be called on an empty mesh.
func (m *Mesh) Initialize(g *pslg.Graph) error {
	if m.nVertices > 0 || m.nTriangles > 0 {
		return errors.New("initialize on a non-empty mesh")
	}
	if err := g.Validate(); err != nil {
		return errors.Wrap(err, "initialize")
	}
	corners := m.boundingBox(g)

	// Duplicated input points collapse onto one vertex
	var (
		byKey  = make(map[string]VertexID)
		ids    = make([]VertexID, len(g.Points))
		insert []*Vertex
	)
	for _, c := range corners {
		byKey[pointKey(m.point(c))] = c
	}
	for i, p := range g.Points {
		k := pointKey(p)
		if v, ok := byKey[k]; ok {
			ids[i] = v
			continue
		}
		v := m.newVertex(p.X.Clone(), p.Y.Clone())
		byKey[k] = v.id
		ids[i] = v.id
		insert = append(insert, v)
	}
	for _, s := range g.Segments {
		a, b := ids[s[0]], ids[s[1]]
		if a == b {
			return errors.Errorf("segment (%d,%d) joins duplicated points", s[0], s[1])
		}
		m.makeSegment(a, b)
	}
	var hint TriangleID = NilTriangle
	for _, v := range insert {
		loc := m.Locate(v.Point(), hint)
		if !loc.Found() || loc.Coincident() {
			return errors.Errorf("point %s could not be inserted", v.Point())
		}
		m.insertAt(v, loc)
		hint = v.triangles[0]
	}
	splits := m.SplitEncroachedSegments()
	m.log.Infow("mesh initialized",
		"points", len(g.Points), "segments", len(g.Segments),
		"vertices", m.nVertices, "triangles", m.nTriangles, "splits", splits)
	return nil
}

// boundingBox creates the four corners and the two triangles covering the
// input, padded by Options.Padding times the largest extent
func (m *Mesh) boundingBox(g *pslg.Graph) [4]VertexID {
	lo, hi := g.Bounds()
	w, h := hi.X.Sub(lo.X), hi.Y.Sub(lo.Y)
	extent := numeric.Max(w, h)
	if extent.IsZero() {
		extent = numeric.FromInt(1)
	}
	pad := extent.Scale(m.opts.Padding)
	padX, padY := pad, pad
	// A flat input still needs a box with area
	if w.Add(padX.Add(padX)).IsZero() {
		padX = extent.Half()
	}
	if h.Add(padY.Add(padY)).IsZero() {
		padY = extent.Half()
	}
	var (
		x0, x1 = lo.X.Sub(padX), hi.X.Add(padX)
		y0, y1 = lo.Y.Sub(padY), hi.Y.Add(padY)
		c      [4]VertexID
	)
	for i, p := range []geometry.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}} {
		c[i] = m.newVertex(p.X, p.Y).id
	}
	m.newTriangle(c[0], c[1], c[2])
	m.newTriangle(c[0], c[2], c[3])
	for i := 0; i < 4; i++ {
		m.makeSegment(c[i], c[(i+1)%4])
	}
	for _, v := range c {
		m.commitVertex(m.vertices[v])
	}
	return c
}

func pointKey(p geometry.Point) string {
	return p.X.Text('p', 0) + "," + p.Y.Text('p', 0)
}
