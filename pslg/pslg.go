// Package pslg reads planar straight-line graphs: the constraint points and
// segments a mesh is built from.
package pslg

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/geometry"
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

type Segment [2]int

type Graph struct {
	Points   []geometry.Point
	Segments []Segment
}

// Read parses the text format
//
//	<point count>
//	<x> <y>          (one line per point)
//	<segment count>
//	<i> <j>          (0-based point indices, one line per segment)
//
// Coordinates go straight from decimal text to arbitrary precision.
func Read(r io.Reader) (g *Graph, err error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", errors.Wrapf(err, "reading %s", what)
			}
			return "", errors.Errorf("unexpected end of input reading %s", what)
		}
		return sc.Text(), nil
	}
	nextInt := func(what string) (int, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, errors.Wrapf(err, "reading %s", what)
		}
		return n, nil
	}
	var np, ns int
	if np, err = nextInt("point count"); err != nil {
		return
	}
	if np < 0 {
		return nil, errors.Errorf("negative point count %d", np)
	}
	g = &Graph{Points: make([]geometry.Point, np)}
	for i := 0; i < np; i++ {
		var x, y string
		if x, err = next(fmt.Sprintf("x of point %d", i)); err != nil {
			return nil, err
		}
		if y, err = next(fmt.Sprintf("y of point %d", i)); err != nil {
			return nil, err
		}
		if g.Points[i], err = geometry.ParsePoint(x, y); err != nil {
			return nil, errors.Wrapf(err, "point %d", i)
		}
	}
	if ns, err = nextInt("segment count"); err != nil {
		return nil, err
	}
	if ns < 0 {
		return nil, errors.Errorf("negative segment count %d", ns)
	}
	g.Segments = make([]Segment, ns)
	for i := 0; i < ns; i++ {
		for k := 0; k < 2; k++ {
			if g.Segments[i][k], err = nextInt(fmt.Sprintf("segment %d", i)); err != nil {
				return nil, err
			}
		}
	}
	if err = g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pslg")
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "pslg %s", path)
	}
	return g, nil
}

// Write emits g in the format Read accepts
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(g.Points))
	for _, p := range g.Points {
		fmt.Fprintf(bw, "%s %s\n", p.X.Text('g', -1), p.Y.Text('g', -1))
	}
	fmt.Fprintf(bw, "%d\n", len(g.Segments))
	for _, s := range g.Segments {
		fmt.Fprintf(bw, "%d %d\n", s[0], s[1])
	}
	return errors.Wrap(bw.Flush(), "write pslg")
}

// Validate checks that g is a proper PSLG: segment indices in range, no
// degenerate or repeated segments, no point in the interior of a segment and
// no two segments crossing
func (g *Graph) Validate() error {
	if len(g.Points) == 0 {
		return errors.New("pslg has no points")
	}
	seen := make(map[Segment]bool, len(g.Segments))
	for i, s := range g.Segments {
		for _, k := range s {
			if k < 0 || k >= len(g.Points) {
				return errors.Errorf("segment %d: point index %d out of range [0,%d)", i, k, len(g.Points))
			}
		}
		a, b := g.Points[s[0]], g.Points[s[1]]
		if a.Equal(b) {
			return errors.Errorf("segment %d (%d,%d) has zero length", i, s[0], s[1])
		}
		key := s
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			return errors.Errorf("segment %d (%d,%d) is repeated", i, s[0], s[1])
		}
		seen[key] = true
		for j, p := range g.Points {
			if !p.Equal(a) && !p.Equal(b) && onSegmentInterior(a, b, p) {
				return errors.Errorf("point %d %s lies inside segment %d (%d,%d)", j, p, i, s[0], s[1])
			}
		}
		for j := 0; j < i; j++ {
			t := g.Segments[j]
			if properCrossing(a, b, g.Points[t[0]], g.Points[t[1]]) {
				return errors.Errorf("segments %d and %d cross", j, i)
			}
		}
	}
	return nil
}

func onSegmentInterior(a, b, p geometry.Point) bool {
	if !geometry.Orientation(a, b, p).IsZero() {
		return false
	}
	return p.Sub(a).Dot(b.Sub(a)).Sign() > 0 && p.Sub(b).Dot(a.Sub(b)).Sign() > 0
}

func properCrossing(a, b, c, d geometry.Point) bool {
	o1 := geometry.Orientation(a, b, c).Sign()
	o2 := geometry.Orientation(a, b, d).Sign()
	o3 := geometry.Orientation(c, d, a).Sign()
	o4 := geometry.Orientation(c, d, b).Sign()
	return o1*o2 < 0 && o3*o4 < 0
}

// Bounds returns the lower left and upper right corners of the points
func (g *Graph) Bounds() (lo, hi geometry.Point) {
	lo, hi = g.Points[0], g.Points[0]
	for _, p := range g.Points[1:] {
		lo = geometry.Point{X: numeric.Min(lo.X, p.X), Y: numeric.Min(lo.Y, p.Y)}
		hi = geometry.Point{X: numeric.Max(hi.X, p.X), Y: numeric.Max(hi.Y, p.Y)}
	}
	return
}

// Polygon assembles the segments into closed rings. The ring enclosing the
// largest area is the outer boundary and the others are holes.
func (g *Graph) Polygon() (orb.Polygon, error) {
	adj := make(map[int][]int)
	for _, s := range g.Segments {
		adj[s[0]] = append(adj[s[0]], s[1])
		adj[s[1]] = append(adj[s[1]], s[0])
	}
	for v, ns := range adj {
		if len(ns) != 2 {
			return nil, errors.Errorf("point %d joins %d segments, boundary rings need exactly 2", v, len(ns))
		}
	}
	var (
		used  = make(map[Segment]bool)
		rings []orb.Ring
	)
	key := func(a, b int) Segment {
		if a > b {
			a, b = b, a
		}
		return Segment{a, b}
	}
	for _, s := range g.Segments {
		if used[key(s[0], s[1])] {
			continue
		}
		var (
			ring       = orb.Ring{toOrb(g.Points[s[0]])}
			prev, curr = s[0], s[1]
		)
		used[key(prev, curr)] = true
		for curr != s[0] {
			ring = append(ring, toOrb(g.Points[curr]))
			nxt := adj[curr][0]
			if nxt == prev {
				nxt = adj[curr][1]
			}
			prev, curr = curr, nxt
			used[key(prev, curr)] = true
		}
		ring = append(ring, ring[0])
		rings = append(rings, ring)
	}
	if len(rings) == 0 {
		return nil, errors.New("pslg has no segments to form a boundary")
	}
	outer := 0
	for i, r := range rings {
		if math.Abs(planar.Area(r)) > math.Abs(planar.Area(rings[outer])) {
			outer = i
		}
	}
	poly := orb.Polygon{rings[outer]}
	for i, r := range rings {
		if i != outer {
			poly = append(poly, r)
		}
	}
	return poly, nil
}

func toOrb(p geometry.Point) orb.Point {
	q := p.R2()
	return orb.Point{q.X, q.Y}
}
