// Package experiment turns a diagram configuration into a runnable
// simulation and scores its response.
package experiment

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/blocksim/internal/block"
	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/diagram"
	"github.com/san-kum/blocksim/internal/logging"
	"github.com/san-kum/blocksim/internal/metrics"
)

var (
	ErrUnknownKind   = errors.New("experiment: unknown kind")
	ErrUnknownMetric = errors.New("experiment: metric signal not in result")
)

// Result is a simulation result together with its scores.
type Result struct {
	*diagram.Result
	Metrics  map[string]float64
	Duration time.Duration
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	diagram  *diagram.Diagram
	logger   *slog.Logger
}

type Option func(*Experiment)

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// New validates cfg and builds its diagram.
func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := e.registry.Build(cfg)
	if err != nil {
		return nil, err
	}
	e.diagram = d
	return e, nil
}

// Build validates cfg and wires its diagram with the default registry.
func Build(cfg *config.Config) (*diagram.Diagram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewRegistry().Build(cfg)
}

// Build wires the blocks, sums and inputs of cfg in definition order.
func (r *Registry) Build(cfg *config.Config) (*diagram.Diagram, error) {
	blocks := make([]block.Block, 0, len(cfg.Blocks))
	for _, bc := range cfg.Blocks {
		b, err := r.NewBlock(bc)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	sums := make([]diagram.Sum, 0, len(cfg.Sums))
	for _, s := range cfg.Sums {
		sums = append(sums, diagram.Sum{Output: s.Output, Terms: s.Terms})
	}

	inputs := make([]diagram.Input, 0, len(cfg.Inputs))
	for _, ic := range cfg.Inputs {
		fn, err := r.NewInput(ic)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, diagram.Input{Signal: ic.Signal, Func: fn})
	}

	return diagram.New(blocks, sums, inputs)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Diagram exposes the wired diagram, e.g. to attach observers.
func (e *Experiment) Diagram() *diagram.Diagram { return e.diagram }

// Run simulates the configured time grid and evaluates the configured metrics.
func (e *Experiment) Run() (*Result, error) {
	ts := e.cfg.Timestamps()
	e.logger.Debug("simulation started", "name", e.cfg.Name, "ticks", len(ts), "dt", e.cfg.Time.Dt)

	start := time.Now()
	res, err := e.diagram.Simulate(ts)
	if err != nil {
		return nil, err
	}
	out := &Result{Result: res, Duration: time.Since(start)}

	out.Metrics, err = e.score(res)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("simulation finished", "name", e.cfg.Name, "elapsed", out.Duration, "signals", len(res.Names))
	return out, nil
}

func (e *Experiment) score(res *diagram.Result) (map[string]float64, error) {
	mc := e.cfg.Metrics
	if mc.Signal == "" {
		return map[string]float64{}, nil
	}

	y, ok := res.Series[mc.Signal]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, mc.Signal)
	}
	ref := make([]float64, len(y))
	if mc.Reference != "" {
		r, ok := res.Series[mc.Reference]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, mc.Reference)
		}
		ref = r
	}

	return metrics.Evaluate(metrics.Defaults(mc.Tolerance), res.Times, y, ref)
}
