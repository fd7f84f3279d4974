package block

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DiscreteTF is a sampled transfer function in powers of z^-1:
//
//	b0 + b1·z^-1 + ... + bn·z^-n
//	----------------------------
//	a0 + a1·z^-1 + ... + am·z^-m
//
// It is evaluated only on its own sampling grid; between samples the last
// output is held.
type DiscreteTF struct {
	base
	dt   float64
	uCos []float64 // numerator, oldest sample first
	yCos []float64 // denominator, oldest sample first
	us   []float64
	ys   []float64

	nextSample float64
	y          float64
}

// NewDiscreteTF builds the block from numerator [b0..bn] and denominator
// [a0..am] sampled every dt. a0 must be non-zero.
func NewDiscreteTF(name, input, output string, dt float64, num, den []float64) (*DiscreteTF, error) {
	switch {
	case len(den) == 0 || den[0] == 0:
		return nil, &ConstructionError{Block: name, Wrapped: ErrDegenerateDenominator}
	case len(num) == 0:
		return nil, &ConstructionError{Block: name, Wrapped: ErrEmptyNumerator}
	case dt <= 0:
		return nil, &ConstructionError{Block: name, Wrapped: ErrInvalidSampling}
	}

	d := &DiscreteTF{
		base: base{kind: "DiscreteTF", name: name, input: input, output: output},
		dt:   dt,
		uCos: reversed(num),
		yCos: reversed(den),
	}
	d.Reset()
	return d, nil
}

func (d *DiscreteTF) Reset() {
	d.us = make([]float64, len(d.uCos))
	d.ys = make([]float64, len(d.yCos))
	d.nextSample = 0
	d.y = 0
}

func (d *DiscreteTF) ChangeInput(t, u float64) float64 {
	if t < d.nextSample {
		return d.y
	}
	d.nextSample += d.dt

	shift(d.us, u)
	shift(d.ys, math.NaN())

	n := len(d.ys) - 1
	uSum := floats.Dot(d.uCos, d.us)
	ySum := floats.Dot(d.yCos[:n], d.ys[:n])
	y := (uSum - ySum) / d.yCos[n]

	d.ys[n] = y
	d.y = y
	return y
}

func (d *DiscreteTF) ChangeState(x State)        {}
func (d *DiscreteTF) State() State               { return nil }
func (d *DiscreteTF) Derivative(u float64) State { return nil }

// shift drops the oldest entry and stores v as the newest.
func shift(buf []float64, v float64) {
	copy(buf, buf[1:])
	buf[len(buf)-1] = v
}

func reversed(p []float64) []float64 {
	r := make([]float64, len(p))
	for i, v := range p {
		r[len(p)-1-i] = v
	}
	return r
}
