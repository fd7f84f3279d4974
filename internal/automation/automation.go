// Package automation runs scripted scenarios and parameter sweeps over
// diagram configurations.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/experiment"
)

// Scenario defines a scripted sequence of simulations.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep picks a diagram by preset or file and overrides parts of it.
// Params are written into the block named by Block.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Stop   float64            `yaml:"stop"`
	Dt     float64            `yaml:"dt"`
	Block  string             `yaml:"block"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// StepResult pairs a step's final configuration with its result.
type StepResult struct {
	Config *config.Config
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("automation: %s: scenario has no steps", path)
	}
	return &scenario, nil
}

// Resolve builds the configuration a step describes.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Preset != "" && s.Config != "":
		return nil, fmt.Errorf("preset and config are mutually exclusive")
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	case s.Config != "":
		var err error
		if cfg, err = config.Load(s.Config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("step needs a preset or a config")
	}

	if s.Stop != 0 {
		cfg.Time.Stop = s.Stop
	}
	if s.Dt != 0 {
		cfg.Time.Dt = s.Dt
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	if len(s.Params) > 0 {
		if err := setParams(cfg, s.Block, s.Params); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "diagram", cfg.Name)

		exp, err := experiment.New(cfg, experiment.WithLogger(logger))
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run()
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep varies one parameter of one block over a uniform range.
type ParameterSweep struct {
	Base     *config.Config
	Block    string
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Workers  int
}

// SweepResult holds the scores of one sweep point and the final value of
// every signal.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Final      map[string]float64
}

// RunSweep evaluates every sweep point, several at a time. Each point gets
// its own diagram so runs share no state. Results are in parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step")
	}
	if _, ok := sweep.Base.Block(sweep.Block); !ok {
		return nil, fmt.Errorf("automation: no block named %q", sweep.Block)
	}

	values := make([]float64, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.Min
		if sweep.NumSteps > 1 {
			values[i] += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
		}
	}

	workers := sweep.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]SweepResult, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cfg := sweep.Base.Clone()
			if err := setParams(cfg, sweep.Block, map[string]float64{sweep.Param: v}); err != nil {
				return err
			}
			exp, err := experiment.New(cfg)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
			}
			res, err := exp.Run()
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
			}

			final := make(map[string]float64, len(res.Names))
			for _, name := range res.Names {
				final[name], _ = res.Final(name)
			}
			results[i] = SweepResult{ParamValue: v, Metrics: res.Metrics, Final: final}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func setParams(cfg *config.Config, blockName string, params map[string]float64) error {
	bc, ok := cfg.Block(blockName)
	if !ok {
		return fmt.Errorf("no block named %q", blockName)
	}
	if bc.Params == nil {
		bc.Params = make(map[string]float64, len(params))
	}
	for k, v := range params {
		bc.Params[k] = v
	}
	return nil
}
