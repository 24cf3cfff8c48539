// Package movingmesh relocates mesh vertices between refinement passes.
package movingmesh

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/mesh"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

// Monitor moves vertices of a mesh and reports whether any moved. Border
// vertices and vertices on segments stay fixed.
type Monitor interface {
	Name() string
	Relocate(m *mesh.Mesh) bool
}

// Constructor builds a monitor from a relaxation factor in (0,1]
type Constructor func(relaxation float64) Monitor

var registry = map[string]Constructor{
	"laplacian": func(w float64) Monitor { return LaplacianSmoothing{Omega: w} },
	"centroid":  func(w float64) Monitor { return CentroidSmoothing{Omega: w} },
	"none":      func(float64) Monitor { return Fixed{} },
}

// Register adds or replaces a named monitor
func Register(name string, c Constructor) {
	registry[strings.ToLower(name)] = c
}

// Names lists the registered monitors
func Names() (names []string) {
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return
}

func Lookup(name string, relaxation float64) (Monitor, error) {
	c, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unknown monitor %q, have %v", name, Names())
	}
	if relaxation <= 0 || relaxation > 1 {
		return nil, errors.Errorf("relaxation %g outside (0,1]", relaxation)
	}
	return c(relaxation), nil
}

// Fixed never moves anything
type Fixed struct{}

func (Fixed) Name() string               { return "none" }
func (Fixed) Relocate(m *mesh.Mesh) bool { return false }

// LaplacianSmoothing moves each free vertex a fraction Omega of the way to the
// mean of its edge neighbors, one vertex at a time in sequence order
type LaplacianSmoothing struct {
	Omega float64
}

func (ls LaplacianSmoothing) Name() string { return "laplacian" }

func (ls LaplacianSmoothing) Relocate(m *mesh.Mesh) bool {
	return relax(m, ls.Omega, func(v *mesh.Vertex) geometry.Point {
		var (
			sum geometry.Point
			n   int64
		)
		for _, e := range v.Edges() {
			sum = sum.Add(m.Vertex(m.Edge(e).Other(v.ID())).Point())
			n++
		}
		return sum.Mul(numeric.FromInt(1).Quo(numeric.FromInt(n)))
	})
}

// CentroidSmoothing moves each free vertex towards the area weighted mean of
// the centroids of its triangles
type CentroidSmoothing struct {
	Omega float64
}

func (cs CentroidSmoothing) Name() string { return "centroid" }

func (cs CentroidSmoothing) Relocate(m *mesh.Mesh) bool {
	third := numeric.FromInt(1).Quo(numeric.FromInt(3))
	return relax(m, cs.Omega, func(v *mesh.Vertex) geometry.Point {
		var (
			sum  geometry.Point
			area numeric.Real
		)
		for _, t := range v.Triangles() {
			vs := m.Triangle(t).Vertices()
			a, b, c := m.Vertex(vs[0]).Point(), m.Vertex(vs[1]).Point(), m.Vertex(vs[2]).Point()
			w := geometry.Orientation(a, b, c)
			sum = sum.Add(a.Add(b).Add(c).Mul(third.Mul(w)))
			area = area.Add(w)
		}
		return sum.Mul(numeric.FromInt(1).Quo(area))
	})
}

// relax applies target to every free vertex with under-relaxation omega,
// refusing any move that would fold one of the vertex's triangles
func relax(m *mesh.Mesh, omega float64, target func(v *mesh.Vertex) geometry.Point) (moved bool) {
	w := numeric.New(omega)
	for _, id := range m.Vertices() {
		v := m.Vertex(id)
		if v.IsBorder || m.IsOnSegment(id) || v.NumTriangles() == 0 {
			continue
		}
		old := v.Point()
		p := old.Add(target(v).Sub(old).Mul(w))
		if p.Equal(old) || !keepsOrientation(m, v, p) {
			continue
		}
		m.MoveVertex(id, p)
		moved = true
	}
	return
}

func keepsOrientation(m *mesh.Mesh, v *mesh.Vertex, p geometry.Point) bool {
	for _, t := range v.Triangles() {
		var pts [3]geometry.Point
		for i, u := range m.Triangle(t).Vertices() {
			if u == v.ID() {
				pts[i] = p
			} else {
				pts[i] = m.Vertex(u).Point()
			}
		}
		if geometry.Orientation(pts[0], pts[1], pts[2]).Sign() <= 0 {
			return false
		}
	}
	return true
}

// BorderOnSegments is a mesh.VertexFunc fixing every vertex created on a
// segment
func BorderOnSegments(m *mesh.Mesh, v *mesh.Vertex) {
	if m.IsOnSegment(v.ID()) {
		v.IsBorder = true
	}
}
