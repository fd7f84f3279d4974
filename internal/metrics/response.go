package metrics

import "math"

// Overshoot is the largest excursion past the reference, relative to the
// final reference value. Zero when the response never crosses it.
type Overshoot struct {
	peak    float64
	lastRef float64
	samples int
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (o *Overshoot) Name() string { return "overshoot" }

func (o *Overshoot) Observe(t, y, ref float64) {
	if o.samples == 0 || y > o.peak {
		o.peak = y
	}
	o.lastRef = ref
	o.samples++
}

func (o *Overshoot) Value() float64 {
	if o.samples == 0 || o.lastRef == 0 {
		return 0
	}
	return math.Max(0, (o.peak-o.lastRef)/math.Abs(o.lastRef))
}

func (o *Overshoot) Reset() {
	o.peak = 0
	o.lastRef = 0
	o.samples = 0
}

// SettlingTime is the earliest time after which the error stays within
// tolerance·|reference| (or tolerance when the reference is zero).
// It is +Inf when the last sample is still outside the band.
type SettlingTime struct {
	tolerance float64
	settledAt float64
	inside    bool
}

func NewSettlingTime(tolerance float64) *SettlingTime {
	return &SettlingTime{tolerance: tolerance}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(t, y, ref float64) {
	band := s.tolerance * math.Abs(ref)
	if ref == 0 {
		band = s.tolerance
	}
	if math.Abs(ref-y) > band {
		s.inside = false
		return
	}
	if !s.inside {
		s.inside = true
		s.settledAt = t
	}
}

func (s *SettlingTime) Value() float64 {
	if !s.inside {
		return math.Inf(1)
	}
	return s.settledAt
}

func (s *SettlingTime) Reset() {
	s.settledAt = 0
	s.inside = false
}

// SteadyStateError is |reference - y| at the last observed sample.
type SteadyStateError struct {
	last float64
}

func NewSteadyStateError() *SteadyStateError { return &SteadyStateError{} }

func (s *SteadyStateError) Name() string { return "steady_state_error" }

func (s *SteadyStateError) Observe(t, y, ref float64) { s.last = math.Abs(ref - y) }
func (s *SteadyStateError) Value() float64           { return s.last }
func (s *SteadyStateError) Reset()                   { s.last = 0 }
