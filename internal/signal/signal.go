// Package signal provides ready-made external input functions of time.
package signal

// Func is an external input evaluated at simulated time t.
type Func func(t float64) float64

// Step returns initial before start and initial+size from start onwards.
func Step(initial, start, size float64) Func {
	return func(t float64) float64 {
		if t < start {
			return initial
		}
		return initial + size
	}
}

// Zero returns zero for all time.
func Zero(t float64) float64 {
	return 0
}

// Constant returns v for all time.
func Constant(v float64) Func {
	return func(float64) float64 { return v }
}

// Ramp is zero before start and rises with the given slope afterwards.
func Ramp(start, slope float64) Func {
	return func(t float64) float64 {
		if t < start {
			return 0
		}
		return slope * (t - start)
	}
}
