// Package config describes block diagrams in YAML and ships a few named presets.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStart     = 0.0
	DefaultStop      = 20.0
	DefaultDt        = 0.01
	DefaultTolerance = 0.02
)

var ErrInvalidConfig = errors.New("config: invalid diagram")

type Config struct {
	Name    string        `yaml:"name"`
	Time    TimeConfig    `yaml:"time"`
	Blocks  []BlockConfig `yaml:"blocks"`
	Sums    []SumConfig   `yaml:"sums,omitempty"`
	Inputs  []InputConfig `yaml:"inputs,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

type TimeConfig struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Dt    float64 `yaml:"dt"`
}

// BlockConfig describes one block. Which fields matter depends on Kind.
type BlockConfig struct {
	Kind        string             `yaml:"kind"`
	Name        string             `yaml:"name"`
	Input       string             `yaml:"input"`
	Output      string             `yaml:"output"`
	Numerator   []float64          `yaml:"numerator,omitempty"`
	Denominator []float64          `yaml:"denominator,omitempty"`
	Delay       float64            `yaml:"delay,omitempty"`
	Dt          float64            `yaml:"dt,omitempty"`
	Automatic   *bool              `yaml:"automatic,omitempty"`
	Params      map[string]float64 `yaml:"params,omitempty"`
}

type SumConfig struct {
	Output string   `yaml:"output"`
	Terms  []string `yaml:"terms"`
}

type InputConfig struct {
	Signal string             `yaml:"signal"`
	Kind   string             `yaml:"kind"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// MetricsConfig names the signal to score and the reference it should track.
type MetricsConfig struct {
	Signal    string  `yaml:"signal,omitempty"`
	Reference string  `yaml:"reference,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// DefaultConfig returns the PI loop around a first-order lag.
func DefaultConfig() *Config {
	return piFirstOrder()
}

func defaults() *Config {
	return &Config{
		Time:    TimeConfig{Start: DefaultStart, Stop: DefaultStop, Dt: DefaultDt},
		Metrics: MetricsConfig{Tolerance: DefaultTolerance},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML diagram on top of the default time grid.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Steps returns the number of grid points between start and stop inclusive.
func (c *Config) Steps() int {
	if c.Time.Dt <= 0 {
		return 0
	}
	return int(math.Round((c.Time.Stop-c.Time.Start)/c.Time.Dt)) + 1
}

// Timestamps returns the uniform simulation grid start, start+dt, ..., stop.
func (c *Config) Timestamps() []float64 {
	n := c.Steps()
	if n <= 0 {
		return nil
	}
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = c.Time.Start + float64(i)*c.Time.Dt
	}
	return ts
}

// Validate checks the parts of a diagram that do not need the block
// constructors: time grid, naming and presence of kinds.
func (c *Config) Validate() error {
	if c.Time.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Time.Dt)
	}
	if c.Steps() < 2 {
		return fmt.Errorf("%w: time grid [%g, %g] with dt %g has fewer than two points",
			ErrInvalidConfig, c.Time.Start, c.Time.Stop, c.Time.Dt)
	}
	if len(c.Blocks) == 0 {
		return fmt.Errorf("%w: no blocks", ErrInvalidConfig)
	}

	names := make(map[string]bool, len(c.Blocks))
	for i, b := range c.Blocks {
		if b.Kind == "" {
			return fmt.Errorf("%w: block %d has no kind", ErrInvalidConfig, i)
		}
		if b.Name == "" {
			return fmt.Errorf("%w: block %d has no name", ErrInvalidConfig, i)
		}
		if names[b.Name] {
			return fmt.Errorf("%w: duplicate block name %q", ErrInvalidConfig, b.Name)
		}
		names[b.Name] = true
	}

	for _, s := range c.Sums {
		if s.Output == "" {
			return fmt.Errorf("%w: summing junction without output", ErrInvalidConfig)
		}
	}
	for _, in := range c.Inputs {
		if in.Signal == "" || in.Kind == "" {
			return fmt.Errorf("%w: input needs both signal and kind", ErrInvalidConfig)
		}
	}
	if c.Metrics.Tolerance < 0 {
		return fmt.Errorf("%w: negative settling tolerance", ErrInvalidConfig)
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Blocks = make([]BlockConfig, len(c.Blocks))
	for i, b := range c.Blocks {
		b.Numerator = append([]float64(nil), b.Numerator...)
		b.Denominator = append([]float64(nil), b.Denominator...)
		b.Params = cloneParams(b.Params)
		if b.Automatic != nil {
			auto := *b.Automatic
			b.Automatic = &auto
		}
		out.Blocks[i] = b
	}
	out.Sums = make([]SumConfig, len(c.Sums))
	for i, s := range c.Sums {
		s.Terms = append([]string(nil), s.Terms...)
		out.Sums[i] = s
	}
	out.Inputs = make([]InputConfig, len(c.Inputs))
	for i, in := range c.Inputs {
		in.Params = cloneParams(in.Params)
		out.Inputs[i] = in
	}
	return &out
}

// Block returns the configuration of the block called name.
func (c *Config) Block(name string) (*BlockConfig, bool) {
	for i := range c.Blocks {
		if c.Blocks[i].Name == name {
			return &c.Blocks[i], true
		}
	}
	return nil, false
}

func cloneParams(p map[string]float64) map[string]float64 {
	if p == nil {
		return nil
	}
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
