package numeric

import (
	"fmt"
	"math"
	"math/big"

	"github.com/pkg/errors"
)

// Precision is the mantissa size, in bits, carried by every Real
const Precision uint = 256

var (
	zero = new(big.Float).SetPrec(Precision)
	two  = new(big.Float).SetPrec(Precision).SetInt64(2)
)

// Real is an immutable arbitrary precision real number. The zero value is 0.
// Every operation returns a fresh Real, so values may be shared freely.
type Real struct {
	v *big.Float
}

func newFloat() *big.Float {
	return new(big.Float).SetPrec(Precision)
}

// New converts a machine float. NaN is a programming error and panics.
func New(f float64) Real {
	if math.IsNaN(f) {
		panic("numeric: NaN has no Real representation")
	}
	return Real{newFloat().SetFloat64(f)}
}

// FromInt converts an integer exactly
func FromInt(i int64) Real {
	return Real{newFloat().SetInt64(i)}
}

// Parse reads a decimal (or scientific notation) literal directly into a Real,
// without passing through a float64
func Parse(s string) (Real, error) {
	f, _, err := big.ParseFloat(s, 10, Precision, big.ToNearestEven)
	if err != nil {
		return Real{}, errors.Wrapf(err, "parse real %q", s)
	}
	return Real{f}, nil
}

// MustParse is Parse for literals known to be valid
func MustParse(s string) Real {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (a Real) val() *big.Float {
	if a.v == nil {
		return zero
	}
	return a.v
}

func (a Real) Add(b Real) Real { return Real{newFloat().Add(a.val(), b.val())} }
func (a Real) Sub(b Real) Real { return Real{newFloat().Sub(a.val(), b.val())} }
func (a Real) Mul(b Real) Real { return Real{newFloat().Mul(a.val(), b.val())} }

// Quo divides a by b, panicking on a zero divisor
func (a Real) Quo(b Real) Real {
	if b.IsZero() {
		panic("numeric: division by zero")
	}
	return Real{newFloat().Quo(a.val(), b.val())}
}

// Half returns a/2, which is exact
func (a Real) Half() Real { return Real{newFloat().Quo(a.val(), two)} }

// Scale multiplies by a machine float
func (a Real) Scale(f float64) Real { return a.Mul(New(f)) }

// Sqrt panics on negative input
func (a Real) Sqrt() Real {
	switch a.Sign() {
	case -1:
		panic(fmt.Sprintf("numeric: square root of negative value %s", a))
	case 0:
		return Real{newFloat()}
	}
	return Real{newFloat().Sqrt(a.val())}
}

func (a Real) Neg() Real { return Real{newFloat().Neg(a.val())} }
func (a Real) Abs() Real { return Real{newFloat().Abs(a.val())} }

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b
func (a Real) Cmp(b Real) int { return a.val().Cmp(b.val()) }

func (a Real) Sign() int           { return a.val().Sign() }
func (a Real) IsZero() bool        { return a.Sign() == 0 }
func (a Real) Equal(b Real) bool   { return a.Cmp(b) == 0 }
func (a Real) Less(b Real) bool    { return a.Cmp(b) < 0 }
func (a Real) Greater(b Real) bool { return a.Cmp(b) > 0 }

// Float64 returns the nearest machine float
func (a Real) Float64() float64 {
	f, _ := a.val().Float64()
	return f
}

// Clone returns a Real backed by its own storage
func (a Real) Clone() Real {
	return Real{newFloat().Set(a.val())}
}

// Text formats a using the big.Float verbs ('g', 'e', 'f', ...)
func (a Real) Text(format byte, prec int) string {
	return a.val().Text(format, prec)
}

func (a Real) String() string {
	return a.Text('g', 20)
}

// Min and Max return one of their arguments
func Min(a, b Real) Real {
	if b.Less(a) {
		return b
	}
	return a
}

func Max(a, b Real) Real {
	if b.Greater(a) {
		return b
	}
	return a
}
