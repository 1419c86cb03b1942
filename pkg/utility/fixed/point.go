package fixed

import (
	"fmt"
	"math"

	"github.com/govalues/decimal"
)

var (
	Zero    = Point{}
	One     = Point{decimal.MustNew(1, 0)}
	Hundred = Point{decimal.MustNew(100, 0)}
)

// Point wraps decimal.Decimal for report arithmetic. Operations panic on
// overflow; inputs are admitted through New which reports an error instead.
type Point struct {
	v decimal.Decimal
}

// New converts a simulated cash value. Non-finite values are rejected.
func New(value float64) (Point, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Zero, fmt.Errorf("value %v is not finite", value)
	}
	d, err := decimal.NewFromFloat64(value)
	if err != nil {
		return Zero, fmt.Errorf("unable to convert %v: %w", value, err)
	}
	return Point{d}, nil
}

func FromInt64(value int64, scale int) Point {
	return Point{must(decimal.New(value, scale))}
}

func FromFloat64(value float64) Point {
	return Point{must(decimal.NewFromFloat64(value))}
}

func (p Point) String() string { return p.v.String() }
func (p Point) Float64() float64 {
	f, _ := p.v.Float64()
	return f
}

func (p Point) Abs() Point { return Point{p.v.Abs()} }
func (p Point) Neg() Point { return Point{p.v.Neg()} }

func (p Point) Add(o Point) Point { return Point{must(p.v.Add(o.v))} }
func (p Point) Sub(o Point) Point { return Point{must(p.v.Sub(o.v))} }
func (p Point) Mul(o Point) Point { return Point{must(p.v.Mul(o.v))} }
func (p Point) Div(o Point) Point { return Point{must(p.v.Quo(o.v))} }

// QuoChecked is Div that reports an error instead of panicking when the
// quotient leaves the decimal range or the divisor is zero.
func (p Point) QuoChecked(o Point) (Point, error) {
	q, err := p.v.Quo(o.v)
	if err != nil {
		return Zero, fmt.Errorf("unable to divide %s by %s: %w", p, o, err)
	}
	return Point{q}, nil
}

func (p Point) MulChecked(o Point) (Point, error) {
	m, err := p.v.Mul(o.v)
	if err != nil {
		return Zero, fmt.Errorf("unable to multiply %s by %s: %w", p, o, err)
	}
	return Point{m}, nil
}

func (p Point) MulInt(o int) Point { return Point{must(p.v.Mul(decimal.MustNew(int64(o), 0)))} }
func (p Point) DivInt(o int) Point { return Point{must(p.v.Quo(decimal.MustNew(int64(o), 0)))} }

func (p Point) Eq(o Point) bool  { return p.v.Cmp(o.v) == 0 }
func (p Point) Gt(o Point) bool  { return p.v.Cmp(o.v) > 0 }
func (p Point) Lt(o Point) bool  { return p.v.Cmp(o.v) < 0 }
func (p Point) Lte(o Point) bool { return p.v.Cmp(o.v) <= 0 }

func (p Point) IsZero() bool            { return p.v.IsZero() }
func (p Point) Rescale(scale int) Point { return Point{p.v.Rescale(scale)} }
func (p Point) Sqrt() Point             { return Point{must(p.v.Sqrt())} }

func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func must(v decimal.Decimal, err error) decimal.Decimal {
	if err == nil {
		return v
	}
	panic(err)
}
