package block

import "github.com/san-kum/blocksim/internal/interp"

// Deadtime is a pure transport delay: y(t) = u(t - delay).
//
// Inputs are kept as (t, u) samples and the delayed value is linearly
// interpolated between them. The history starts with a synthetic (0, 0)
// sample so queries before the first real sample read zero. Samples older
// than the interpolation bracket of the latest query are dropped, which
// bounds the history to roughly delay/dt samples provided t never decreases
// between resets.
type Deadtime struct {
	base
	delay float64
	ts    []float64
	us    []float64
	y     float64
}

func NewDeadtime(name, input, output string, delay float64) (*Deadtime, error) {
	if delay < 0 {
		return nil, &ConstructionError{Block: name, Wrapped: ErrNegativeDelay}
	}
	return newDeadtime(name, input, output, delay), nil
}

func newDeadtime(name, input, output string, delay float64) *Deadtime {
	d := &Deadtime{
		base:  base{kind: "Deadtime", name: name, input: input, output: output},
		delay: delay,
	}
	d.Reset()
	return d
}

func (d *Deadtime) Reset() {
	d.y = 0
	d.ts = []float64{0}
	d.us = []float64{0}
}

func (d *Deadtime) ChangeInput(t, u float64) float64 {
	d.ts = append(d.ts, t)
	d.us = append(d.us, u)

	q := t - d.delay
	if d.delay > 0 {
		u = interp.Linear(q, d.ts, d.us)
	}

	if j := interp.Bracket(q, d.ts); j > 0 {
		d.ts = d.ts[j:]
		d.us = d.us[j:]
	}

	d.y = u
	return d.y
}

func (d *Deadtime) ChangeState(x State)        {}
func (d *Deadtime) State() State               { return nil }
func (d *Deadtime) Derivative(u float64) State { return nil }

func (d *Deadtime) Delay() float64 { return d.delay }

// HistoryLen reports how many samples are currently retained.
func (d *Deadtime) HistoryLen() int { return len(d.ts) }
