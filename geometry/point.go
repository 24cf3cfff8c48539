package geometry

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/numeric"
)

// Point is a planar location held in arbitrary precision
type Point struct {
	X, Y numeric.Real
}

func NewPoint(x, y float64) Point {
	return Point{X: numeric.New(x), Y: numeric.New(y)}
}

// ParsePoint reads both coordinates from decimal text
func ParsePoint(x, y string) (p Point, err error) {
	if p.X, err = numeric.Parse(x); err != nil {
		return
	}
	p.Y, err = numeric.Parse(y)
	return
}

// R2 is the float64 view used for angles, plotting and other non-robust work
func (p Point) R2() r2.Point {
	return r2.Point{X: p.X.Float64(), Y: p.Y.Float64()}
}

// Equal is exact coordinate equality
func (p Point) Equal(q Point) bool {
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X.Sub(q.X), Y: p.Y.Sub(q.Y)}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X.Add(q.X), Y: p.Y.Add(q.Y)}
}

func (p Point) Mul(s numeric.Real) Point {
	return Point{X: p.X.Mul(s), Y: p.Y.Mul(s)}
}

func (p Point) Dot(q Point) numeric.Real {
	return p.X.Mul(q.X).Add(p.Y.Mul(q.Y))
}

func (p Point) Cross(q Point) numeric.Real {
	return p.X.Mul(q.Y).Sub(p.Y.Mul(q.X))
}

// Clone deep copies both coordinates
func (p Point) Clone() Point {
	return Point{X: p.X.Clone(), Y: p.Y.Clone()}
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}
