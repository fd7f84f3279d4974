// Package realize converts rational transfer functions into state-space form.
//
// A transfer function given by numerator and denominator coefficients in
// descending powers of s is realized in controllable canonical form:
//
//	dx/dt = A*x + B*u
//	y     = C*x + D*u
//
// The matrices are gonum dense matrices so callers can feed them straight
// into mat.VecDense arithmetic.
package realize

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyPolynomial indicates a numerator or denominator without coefficients.
	ErrEmptyPolynomial = errors.New("realize: empty coefficient list")

	// ErrZeroDenominator indicates a denominator whose coefficients are all zero.
	ErrZeroDenominator = errors.New("realize: denominator is identically zero")

	// ErrImproper indicates a numerator of higher order than the denominator.
	ErrImproper = errors.New("realize: improper transfer function")
)

// System is a single-input single-output state-space realization.
type System struct {
	A *mat.Dense
	B *mat.Dense
	C *mat.Dense
	D *mat.Dense
}

// Order returns the dimension of the state vector.
func (s *System) Order() int {
	r, _ := s.A.Dims()
	return r
}

// Realize returns the controllable canonical realization of num/den.
//
// A static gain (zero-order denominator) is realized with a single inert
// state so that every realization has at least one state.
func Realize(num, den []float64) (*System, error) {
	num, den, err := normalize(num, den)
	if err != nil {
		return nil, err
	}

	k, m := len(den), len(num)
	if m > k {
		return nil, fmt.Errorf("%w: numerator order %d exceeds denominator order %d", ErrImproper, m-1, k-1)
	}

	padded := make([]float64, k)
	copy(padded[k-m:], num)

	if k == 1 {
		return &System{
			A: mat.NewDense(1, 1, nil),
			B: mat.NewDense(1, 1, nil),
			C: mat.NewDense(1, 1, nil),
			D: mat.NewDense(1, 1, []float64{padded[0]}),
		}, nil
	}

	n := k - 1
	a := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		a.Set(0, j, -den[j+1])
	}
	for i := 1; i < n; i++ {
		a.Set(i, i-1, 1)
	}

	b := mat.NewDense(n, 1, nil)
	b.Set(0, 0, 1)

	c := mat.NewDense(1, n, nil)
	for j := 0; j < n; j++ {
		c.Set(0, j, padded[j+1]-padded[0]*den[j+1])
	}

	return &System{
		A: a,
		B: b,
		C: c,
		D: mat.NewDense(1, 1, []float64{padded[0]}),
	}, nil
}

// normalize trims leading zeros and scales both polynomials so the
// denominator is monic.
func normalize(num, den []float64) ([]float64, []float64, error) {
	if len(num) == 0 || len(den) == 0 {
		return nil, nil, ErrEmptyPolynomial
	}

	den = trimLeading(den)
	if len(den) == 0 {
		return nil, nil, ErrZeroDenominator
	}

	lead := den[0]
	d := make([]float64, len(den))
	for i, v := range den {
		d[i] = v / lead
	}

	n := trimLeading(num)
	if len(n) == 0 {
		n = num[len(num)-1:]
	}
	scaled := make([]float64, len(n))
	for i, v := range n {
		scaled[i] = v / lead
	}

	return scaled, d, nil
}

func trimLeading(p []float64) []float64 {
	for i, v := range p {
		if v != 0 {
			return p[i:]
		}
	}
	return nil
}
