package block

import "math"

// AlgebraicFunc relates input to output without memory.
type AlgebraicFunc func(t, u float64) float64

// AlgebraicEquation is a memoryless block y = f(t, u).
type AlgebraicEquation struct {
	base
	f AlgebraicFunc
	y float64
}

func NewAlgebraicEquation(name, input, output string, f AlgebraicFunc) *AlgebraicEquation {
	return &AlgebraicEquation{
		base: base{kind: "AlgebraicEquation", name: name, input: input, output: output},
		f:    f,
	}
}

func (a *AlgebraicEquation) Reset() { a.y = 0 }

func (a *AlgebraicEquation) ChangeInput(t, u float64) float64 {
	a.y = a.f(t, u)
	return a.y
}

func (a *AlgebraicEquation) ChangeState(x State)        {}
func (a *AlgebraicEquation) State() State               { return nil }
func (a *AlgebraicEquation) Derivative(u float64) State { return nil }

// Gain returns y = k·u.
func Gain(k float64) AlgebraicFunc {
	return func(t, u float64) float64 { return k * u }
}

// Saturation clamps u to [lo, hi].
func Saturation(lo, hi float64) AlgebraicFunc {
	return func(t, u float64) float64 {
		return math.Min(hi, math.Max(lo, u))
	}
}
