package metrics

import "math"

// integral accumulates weight(t)·f(error) with a left rectangle rule.
type integral struct {
	name   string
	f      func(t, e float64) float64
	sum    float64
	prevT  float64
	prevV  float64
	primed bool
}

func (i *integral) Name() string { return i.name }

func (i *integral) Observe(t, y, ref float64) {
	v := i.f(t, ref-y)
	if i.primed {
		i.sum += i.prevV * (t - i.prevT)
	}
	i.prevT, i.prevV, i.primed = t, v, true
}

func (i *integral) Value() float64 { return i.sum }

func (i *integral) Reset() {
	i.sum = 0
	i.prevT, i.prevV = 0, 0
	i.primed = false
}

// NewIAE integrates the absolute error.
func NewIAE() Metric {
	return &integral{name: "iae", f: func(_, e float64) float64 { return math.Abs(e) }}
}

// NewISE integrates the squared error.
func NewISE() Metric {
	return &integral{name: "ise", f: func(_, e float64) float64 { return e * e }}
}

// NewITAE integrates the time-weighted absolute error.
func NewITAE() Metric {
	return &integral{name: "itae", f: func(t, e float64) float64 { return t * math.Abs(e) }}
}
