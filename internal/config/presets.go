package config

import "sort"

// Presets builds a fresh copy of each named diagram.
var Presets = map[string]func() *Config{
	"pi_first_order":        piFirstOrder,
	"pid_deadtime":          pidDeadtime,
	"discrete_identity":     discreteIdentity,
	"disturbance_rejection": disturbanceRejection,
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// feedbackLoop wires Gc and G into e = ysp - ym, y = yu + yd with a unity
// measurement and the given disturbance path.
func feedbackLoop(name string, gc, g, gd BlockConfig, ysp, d InputConfig) *Config {
	return &Config{
		Name: name,
		Time: TimeConfig{Start: DefaultStart, Stop: DefaultStop, Dt: DefaultDt},
		Blocks: []BlockConfig{
			gc,
			g,
			gd,
			{Kind: "lti", Name: "Gm", Input: "y", Output: "ym", Numerator: []float64{1}, Denominator: []float64{1}},
		},
		Sums: []SumConfig{
			{Output: "e", Terms: []string{"+ysp", "-ym"}},
			{Output: "y", Terms: []string{"+yu", "+yd"}},
		},
		Inputs:  []InputConfig{ysp, d},
		Metrics: MetricsConfig{Signal: "y", Reference: "ysp", Tolerance: DefaultTolerance},
	}
}

func piFirstOrder() *Config {
	return feedbackLoop("pi_first_order",
		BlockConfig{Kind: "pi", Name: "Gc", Input: "e", Output: "u", Params: map[string]float64{"kc": 1, "tau_i": 1}},
		BlockConfig{Kind: "lti", Name: "G", Input: "u", Output: "yu", Numerator: []float64{1}, Denominator: []float64{1, 1}},
		BlockConfig{Kind: "zero", Name: "Gd", Input: "d", Output: "yd"},
		InputConfig{Signal: "ysp", Kind: "step", Params: map[string]float64{"initial": 0, "start": 0, "size": 1}},
		InputConfig{Signal: "d", Kind: "zero"},
	)
}

func pidDeadtime() *Config {
	cfg := feedbackLoop("pid_deadtime",
		BlockConfig{Kind: "pid", Name: "Gc", Input: "e", Output: "u", Params: map[string]float64{
			"kc": 1, "tau_i": 2, "tau_d": 0.5, "alpha_f": 0.1,
		}},
		BlockConfig{Kind: "lti", Name: "G", Input: "u", Output: "yu", Numerator: []float64{1}, Denominator: []float64{2, 1}, Delay: 1},
		BlockConfig{Kind: "zero", Name: "Gd", Input: "d", Output: "yd"},
		InputConfig{Signal: "ysp", Kind: "step", Params: map[string]float64{"initial": 0, "start": 1, "size": 1}},
		InputConfig{Signal: "d", Kind: "zero"},
	)
	cfg.Time.Stop = 40
	return cfg
}

func disturbanceRejection() *Config {
	cfg := feedbackLoop("disturbance_rejection",
		BlockConfig{Kind: "pi", Name: "Gc", Input: "e", Output: "u", Params: map[string]float64{"kc": 2, "tau_i": 1}},
		BlockConfig{Kind: "lti", Name: "G", Input: "u", Output: "yu", Numerator: []float64{1}, Denominator: []float64{1, 1}},
		BlockConfig{Kind: "lti", Name: "Gd", Input: "d", Output: "yd", Numerator: []float64{1}, Denominator: []float64{1, 1}},
		InputConfig{Signal: "ysp", Kind: "zero"},
		InputConfig{Signal: "d", Kind: "step", Params: map[string]float64{"initial": 0, "start": 5, "size": 1}},
	)
	cfg.Time.Stop = 30
	cfg.Metrics.Tolerance = 0.05
	return cfg
}

// discreteIdentity samples a ramp through a unit discrete transfer function,
// producing a staircase.
func discreteIdentity() *Config {
	return &Config{
		Name: "discrete_identity",
		Time: TimeConfig{Start: 0, Stop: 10, Dt: 0.25},
		Blocks: []BlockConfig{
			{Kind: "discrete", Name: "H", Input: "u", Output: "y", Numerator: []float64{1}, Denominator: []float64{1}, Dt: 1},
		},
		Inputs: []InputConfig{
			{Signal: "u", Kind: "ramp", Params: map[string]float64{"start": 0, "slope": 1}},
		},
		Metrics: MetricsConfig{Signal: "y", Reference: "u", Tolerance: DefaultTolerance},
	}
}
