// Package metrics scores closed-loop responses sample by sample.
package metrics

import "fmt"

// Metric accumulates a score from (t, y, reference) samples.
type Metric interface {
	Name() string
	Observe(t, y, ref float64)
	Value() float64
	Reset()
}

// Evaluate resets every metric, feeds it the series and returns the scores by name.
func Evaluate(ms []Metric, times, y, ref []float64) (map[string]float64, error) {
	if len(y) != len(times) || len(ref) != len(times) {
		return nil, fmt.Errorf("metrics: series lengths differ (times=%d y=%d ref=%d)", len(times), len(y), len(ref))
	}

	for _, m := range ms {
		m.Reset()
	}
	for i, t := range times {
		for _, m := range ms {
			m.Observe(t, y[i], ref[i])
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out, nil
}

// Defaults returns the metric set reported by the CLI.
func Defaults(tolerance float64) []Metric {
	return []Metric{
		NewIAE(),
		NewISE(),
		NewITAE(),
		NewOvershoot(),
		NewSettlingTime(tolerance),
		NewSteadyStateError(),
	}
}

// ByName returns a fresh metric for name.
func ByName(name string, tolerance float64) (Metric, error) {
	for _, m := range Defaults(tolerance) {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("metrics: unknown metric %q", name)
}
