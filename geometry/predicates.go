package geometry

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

// Orientation returns twice the signed area of (a,b,c): positive when the
// points turn counter-clockwise, negative when clockwise, zero when collinear
func Orientation(a, b, c Point) numeric.Real {
	return b.Sub(a).Cross(c.Sub(a))
}

func DistanceSquared(a, b Point) numeric.Real {
	d := a.Sub(b)
	return d.Dot(d)
}

func Distance(a, b Point) numeric.Real {
	return DistanceSquared(a, b).Sqrt()
}

func Midpoint(a, b Point) Point {
	return Point{X: a.X.Add(b.X).Half(), Y: a.Y.Add(b.Y).Half()}
}

// Circumcenter solves for the center and squared radius of the circle through
// a, b and c. ok is false when the points are collinear.
func Circumcenter(a, b, c Point) (center Point, radius2 numeric.Real, ok bool) {
	// Translate c to the origin to keep the terms small
	ax, ay := a.X.Sub(c.X), a.Y.Sub(c.Y)
	bx, by := b.X.Sub(c.X), b.Y.Sub(c.Y)
	d := ax.Mul(by).Sub(bx.Mul(ay))
	d = d.Add(d)
	if d.IsZero() {
		return Point{}, numeric.Real{}, false
	}
	a2 := ax.Mul(ax).Add(ay.Mul(ay))
	b2 := bx.Mul(bx).Add(by.Mul(by))
	ux := a2.Mul(by).Sub(b2.Mul(ay)).Quo(d)
	uy := b2.Mul(ax).Sub(a2.Mul(bx)).Quo(d)
	center = Point{X: ux.Add(c.X), Y: uy.Add(c.Y)}
	radius2 = ux.Mul(ux).Add(uy.Mul(uy))
	return center, radius2, true
}

// InCircle reports whether p lies strictly inside the circle (center, radius2).
// The margin tol is relative to radius2 so that cocircular points never test
// as inside because of rounding in the circumcenter.
func InCircle(center Point, radius2 numeric.Real, p Point, tol float64) bool {
	gap := radius2.Sub(DistanceSquared(center, p))
	return gap.Greater(radius2.Scale(tol))
}

// InDiametralCircle reports whether p lies strictly inside the circle having
// segment ab as a diameter, i.e. whether the angle apb is obtuse
func InDiametralCircle(a, b, p Point) bool {
	if p.Equal(a) || p.Equal(b) {
		return false
	}
	return a.Sub(p).Dot(b.Sub(p)).Sign() < 0
}

// OnLine reports whether p is collinear with ab within a tolerance relative to
// the squared length of ab
func OnLine(a, b, p Point, tol float64) bool {
	o := Orientation(a, b, p).Abs()
	return !o.Greater(DistanceSquared(a, b).Scale(tol))
}

// InsideTriangle reports whether p lies inside or on the boundary of the
// triangle (a,b,c). Three independent tests are combined so that precision loss
// in one near an edge cannot reject a point the others accept.
func InsideTriangle(a, b, c, p Point) bool {
	return insideBySigns(a, b, c, p) || insideByBarycentric(a, b, c, p) || insideByCrossings(a, b, c, p)
}

func insideBySigns(a, b, c, p Point) bool {
	var neg, pos bool
	for _, s := range []int{
		Orientation(a, b, p).Sign(),
		Orientation(b, c, p).Sign(),
		Orientation(c, a, p).Sign(),
	} {
		neg = neg || s < 0
		pos = pos || s > 0
	}
	return !(neg && pos)
}

func insideByBarycentric(a, b, c, p Point) bool {
	det := Orientation(a, b, c)
	if det.IsZero() {
		return false
	}
	l1 := Orientation(p, b, c).Quo(det)
	l2 := Orientation(a, p, c).Quo(det)
	l3 := numeric.FromInt(1).Sub(l1).Sub(l2)
	return l1.Sign() >= 0 && l2.Sign() >= 0 && l3.Sign() >= 0
}

// insideByCrossings casts a ray from p towards +x and counts edge crossings
func insideByCrossings(a, b, c, p Point) bool {
	var inside bool
	verts := [3]Point{a, b, c}
	for i := 0; i < 3; i++ {
		u, w := verts[i], verts[(i+1)%3]
		if onSegment(u, w, p) {
			return true
		}
		if (u.Y.Greater(p.Y)) != (w.Y.Greater(p.Y)) {
			x := u.X.Add(p.Y.Sub(u.Y).Mul(w.X.Sub(u.X)).Quo(w.Y.Sub(u.Y)))
			if p.X.Less(x) {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(u, w, p Point) bool {
	if !Orientation(u, w, p).IsZero() {
		return false
	}
	return !numeric.Min(u.X, w.X).Greater(p.X) && !p.X.Greater(numeric.Max(u.X, w.X)) &&
		!numeric.Min(u.Y, w.Y).Greater(p.Y) && !p.Y.Greater(numeric.Max(u.Y, w.Y))
}

// Angles returns the interior angles, in radians, at a, b and c
func Angles(a, b, c Point) (angles [3]float64) {
	pts := [3]r2.Point{a.R2(), b.R2(), c.R2()}
	for i := 0; i < 3; i++ {
		u := pts[(i+1)%3].Sub(pts[i])
		w := pts[(i+2)%3].Sub(pts[i])
		angles[i] = math.Atan2(math.Abs(u.Cross(w)), u.Dot(w))
	}
	return
}

// Quality is the shape regularity 4*sqrt(3)*area / (sum of squared edge
// lengths): 1 for an equilateral triangle, tending to 0 as it degenerates
func Quality(a, b, c Point) float64 {
	pa, pb, pc := a.R2(), b.R2(), c.R2()
	cross := math.Abs(pb.Sub(pa).Cross(pc.Sub(pa)))
	sum := pb.Sub(pa).Norm()*pb.Sub(pa).Norm() +
		pc.Sub(pb).Norm()*pc.Sub(pb).Norm() +
		pa.Sub(pc).Norm()*pa.Sub(pc).Norm()
	if sum == 0 {
		return 0
	}
	return 2 * math.Sqrt(3) * cross / sum
}

// Centroid in float64
func Centroid(a, b, c Point) r2.Point {
	return a.R2().Add(b.R2()).Add(c.R2()).Mul(1. / 3.)
}
