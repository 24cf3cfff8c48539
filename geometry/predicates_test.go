package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrientation(t *testing.T) {
	a, b := NewPoint(0, 0), NewPoint(1, 0)
	assert.Equal(t, 1, Orientation(a, b, NewPoint(0, 1)).Sign())
	assert.Equal(t, -1, Orientation(a, b, NewPoint(0, -1)).Sign())
	assert.Equal(t, 0, Orientation(a, b, NewPoint(5, 0)).Sign())
	assert.Equal(t, 2.0, Orientation(a, b, NewPoint(7, 2)).Float64())
}

func TestCircumcenter(t *testing.T) {
	center, r2, ok := Circumcenter(NewPoint(0, 0), NewPoint(1, 0), NewPoint(1, 1))
	require.True(t, ok)
	assert.Equal(t, 0.5, center.X.Float64())
	assert.Equal(t, 0.5, center.Y.Float64())
	assert.Equal(t, 0.5, r2.Float64())

	_, _, ok = Circumcenter(NewPoint(0, 0), NewPoint(1, 1), NewPoint(2, 2))
	assert.False(t, ok)
}

func TestInCircle(t *testing.T) {
	center, r2, _ := Circumcenter(NewPoint(0, 0), NewPoint(1, 0), NewPoint(1, 1))
	tol := 1e-40
	assert.True(t, InCircle(center, r2, NewPoint(0.5, 0.6), tol))
	// Fourth corner of the square is cocircular and must not count as inside
	assert.False(t, InCircle(center, r2, NewPoint(0, 1), tol))
	assert.False(t, InCircle(center, r2, NewPoint(2, 2), tol))
}

func TestInDiametralCircle(t *testing.T) {
	a, b := NewPoint(0, 0), NewPoint(2, 0)
	assert.True(t, InDiametralCircle(a, b, Midpoint(a, b)))
	assert.True(t, InDiametralCircle(a, b, NewPoint(1, 0.9)))
	// On the circle is a right angle, not encroaching
	assert.False(t, InDiametralCircle(a, b, NewPoint(1, 1)))
	assert.False(t, InDiametralCircle(a, b, NewPoint(1, 3)))
	assert.False(t, InDiametralCircle(a, b, a))
}

func TestInsideTriangle(t *testing.T) {
	a, b, c := NewPoint(0, 0), NewPoint(4, 0), NewPoint(0, 4)
	tests := []struct {
		name   string
		p      Point
		inside bool
	}{
		{"interior", NewPoint(1, 1), true},
		{"vertex", NewPoint(4, 0), true},
		{"edge", NewPoint(2, 0), true},
		{"hypotenuse", NewPoint(2, 2), true},
		{"outside", NewPoint(3, 3), false},
		{"below", NewPoint(1, -1e-30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inside, InsideTriangle(a, b, c, tt.p))
			// Orientation of the input must not matter
			assert.Equal(t, tt.inside, InsideTriangle(a, c, b, tt.p))
		})
	}
	// Each technique agrees on a clear interior point
	p := NewPoint(1, 1)
	assert.True(t, insideBySigns(a, b, c, p))
	assert.True(t, insideByBarycentric(a, b, c, p))
	assert.True(t, insideByCrossings(a, b, c, p))
}

func TestOnLineIsScaleInvariant(t *testing.T) {
	for _, scale := range []float64{1e-6, 1, 1e6} {
		a, b := NewPoint(0, 0), NewPoint(scale, 0)
		assert.True(t, OnLine(a, b, NewPoint(scale/2, scale*1e-16), 1e-14))
		assert.False(t, OnLine(a, b, NewPoint(scale/2, scale*1e-6), 1e-14))
	}
}

func TestAnglesAndQuality(t *testing.T) {
	a, b, c := NewPoint(0, 0), NewPoint(1, 0), NewPoint(0.5, math.Sqrt(3)/2)
	ang := Angles(a, b, c)
	for _, x := range ang {
		assert.InDelta(t, math.Pi/3, x, 1e-12)
	}
	assert.InDelta(t, 1.0, Quality(a, b, c), 1e-12)
	assert.Less(t, Quality(NewPoint(0, 0), NewPoint(10, 0), NewPoint(5, 0.1)), 0.1)

	right := Angles(NewPoint(0, 0), NewPoint(1, 0), NewPoint(0, 1))
	assert.InDelta(t, math.Pi/2, right[0], 1e-12)
	assert.InDelta(t, math.Pi, right[0]+right[1]+right[2], 1e-12)
}
