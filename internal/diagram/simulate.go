package diagram

// Result holds one time series per signal, sampled at Times.
type Result struct {
	Times  []float64
	Names  []string
	Series map[string][]float64
}

func newResult(capacity int) *Result {
	return &Result{
		Times:  make([]float64, 0, capacity),
		Names:  make([]string, 0),
		Series: make(map[string][]float64),
	}
}

func (r *Result) record(t float64, s *Signals) {
	r.Times = append(r.Times, t)
	for _, name := range s.names {
		series, ok := r.Series[name]
		if !ok {
			r.Names = append(r.Names, name)
			series = make([]float64, 0, cap(r.Times))
		}
		r.Series[name] = append(series, s.values[name])
	}
}

// Final returns the last recorded value of name.
func (r *Result) Final(name string) (float64, bool) {
	series := r.Series[name]
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}

func (r *Result) Len() int { return len(r.Times) }

// Simulate resets the diagram and steps it through ts, recording every
// signal after each tick.
//
// ts must be uniformly spaced: the step size is taken once from the first
// two timestamps and used for every tick.
func (d *Diagram) Simulate(ts []float64) (*Result, error) {
	if len(ts) < 2 {
		return nil, ErrTooFewTimestamps
	}
	dt := ts[1] - ts[0]

	d.Reset()
	result := newResult(len(ts))
	for i, t := range ts {
		s, err := d.Step(t, dt)
		if err != nil {
			return nil, &SimulationError{Step: i, Time: t, Wrapped: err}
		}
		result.record(t, s)

		for _, o := range d.observers {
			o.OnTick(i, len(ts), t)
		}
	}

	return result, nil
}

// Timestamps returns n+1 uniformly spaced times from start to stop inclusive.
func Timestamps(start, stop float64, n int) []float64 {
	if n < 1 {
		return []float64{start}
	}
	ts := make([]float64, n+1)
	step := (stop - start) / float64(n)
	for i := range ts {
		ts[i] = start + float64(i)*step
	}
	ts[n] = stop
	return ts
}
