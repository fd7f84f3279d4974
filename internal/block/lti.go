package block

import (
	"github.com/san-kum/blocksim/internal/realize"
	"gonum.org/v1/gonum/mat"
)

// LTI is a continuous linear time-invariant block with optional transport delay.
type LTI struct {
	base
	num   []float64
	den   []float64
	sys   *realize.System
	delay *Deadtime
	x     State
	y     float64
}

// NewLTI builds the block num(s)/den(s)·exp(-delay·s). Coefficients are in
// descending powers of s; a scalar is a one-element slice.
func NewLTI(name, input, output string, num, den []float64, delay float64) (*LTI, error) {
	return newLTI("LTI", name, input, output, num, den, delay)
}

func newLTI(kind, name, input, output string, num, den []float64, delay float64) (*LTI, error) {
	if delay < 0 {
		return nil, &ConstructionError{Block: name, Wrapped: ErrNegativeDelay}
	}
	sys, err := realize.Realize(num, den)
	if err != nil {
		return nil, &ConstructionError{Block: name, Wrapped: err}
	}

	l := &LTI{
		base: base{kind: kind, name: name, input: input, output: output},
		num:  append([]float64(nil), num...),
		den:  append([]float64(nil), den...),
		sys:  sys,
	}
	if delay > 0 {
		l.delay = newDeadtime("", "", "", delay)
	}
	l.Reset()
	return l, nil
}

func (l *LTI) Reset() {
	l.x = make(State, l.sys.Order())
	l.y = 0
	if l.delay != nil {
		l.delay.Reset()
	}
}

// ChangeInput evaluates C·x + D·u and passes the result through the delay,
// if one is configured.
func (l *LTI) ChangeInput(t, u float64) float64 {
	x := mat.NewVecDense(len(l.x), l.x)
	y := mat.Dot(l.sys.C.RowView(0), x) + l.sys.D.At(0, 0)*u
	if l.delay != nil {
		y = l.delay.ChangeInput(t, y)
	}
	l.y = y
	return y
}

func (l *LTI) ChangeState(x State) { l.x = x.Clone() }
func (l *LTI) State() State        { return l.x }

// Derivative returns A·x + B·u.
func (l *LTI) Derivative(u float64) State {
	var dx mat.VecDense
	dx.MulVec(l.sys.A, mat.NewVecDense(len(l.x), l.x))
	dx.AddScaledVec(&dx, u, l.sys.B.ColView(0))
	return State(mat.Col(nil, 0, &dx))
}

// Value returns the most recent output.
func (l *LTI) Value() float64 { return l.y }

// Delay returns the transport delay, zero when none is configured.
func (l *LTI) Delay() float64 {
	if l.delay == nil {
		return 0
	}
	return l.delay.Delay()
}

func (l *LTI) Numerator() []float64   { return append([]float64(nil), l.num...) }
func (l *LTI) Denominator() []float64 { return append([]float64(nil), l.den...) }

// Realization exposes the state-space matrices backing the block.
func (l *LTI) Realization() *realize.System { return l.sys }
