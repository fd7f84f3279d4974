package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/blocksim/internal/block"
	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/signal"
)

// BlockFactory builds a block from its configuration.
type BlockFactory func(bc config.BlockConfig) (block.Block, error)

// InputFactory builds an input function from its parameters.
type InputFactory func(params map[string]float64) (signal.Func, error)

type Registry struct {
	blocks map[string]BlockFactory
	inputs map[string]InputFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		blocks: make(map[string]BlockFactory),
		inputs: make(map[string]InputFactory),
	}

	r.blocks["lti"] = func(bc config.BlockConfig) (block.Block, error) {
		return block.NewLTI(bc.Name, bc.Input, bc.Output, bc.Numerator, bc.Denominator, bc.Delay)
	}
	r.blocks["controller"] = func(bc config.BlockConfig) (block.Block, error) {
		return block.NewController(bc.Name, bc.Input, bc.Output, bc.Numerator, bc.Denominator, bc.Delay, automatic(bc))
	}
	r.blocks["pi"] = func(bc config.BlockConfig) (block.Block, error) {
		c, err := block.NewPI(bc.Name, bc.Input, bc.Output, param(bc.Params, "kc", 1), param(bc.Params, "tau_i", 1))
		if err != nil {
			return nil, err
		}
		c.SetAutomatic(automatic(bc))
		return c, nil
	}
	r.blocks["pid"] = func(bc config.BlockConfig) (block.Block, error) {
		c, err := block.NewPID(bc.Name, bc.Input, bc.Output,
			param(bc.Params, "kc", 1),
			param(bc.Params, "tau_i", 1),
			param(bc.Params, "tau_d", 0),
			param(bc.Params, "alpha_f", 0.1))
		if err != nil {
			return nil, err
		}
		c.SetAutomatic(automatic(bc))
		return c, nil
	}
	r.blocks["zero"] = func(bc config.BlockConfig) (block.Block, error) {
		return block.NewZero(bc.Name, bc.Input, bc.Output), nil
	}
	r.blocks["deadtime"] = func(bc config.BlockConfig) (block.Block, error) {
		return block.NewDeadtime(bc.Name, bc.Input, bc.Output, bc.Delay)
	}
	r.blocks["discrete"] = func(bc config.BlockConfig) (block.Block, error) {
		return block.NewDiscreteTF(bc.Name, bc.Input, bc.Output, bc.Dt, bc.Numerator, bc.Denominator)
	}
	r.blocks["gain"] = func(bc config.BlockConfig) (block.Block, error) {
		return block.NewAlgebraicEquation(bc.Name, bc.Input, bc.Output, block.Gain(param(bc.Params, "k", 1))), nil
	}
	r.blocks["saturation"] = func(bc config.BlockConfig) (block.Block, error) {
		lo, hi := param(bc.Params, "lo", -1), param(bc.Params, "hi", 1)
		if lo > hi {
			return nil, fmt.Errorf("saturation %s: lo %g above hi %g", bc.Name, lo, hi)
		}
		return block.NewAlgebraicEquation(bc.Name, bc.Input, bc.Output, block.Saturation(lo, hi)), nil
	}

	r.inputs["step"] = func(p map[string]float64) (signal.Func, error) {
		return signal.Step(param(p, "initial", 0), param(p, "start", 0), param(p, "size", 1)), nil
	}
	r.inputs["zero"] = func(map[string]float64) (signal.Func, error) {
		return signal.Zero, nil
	}
	r.inputs["constant"] = func(p map[string]float64) (signal.Func, error) {
		return signal.Constant(param(p, "value", 0)), nil
	}
	r.inputs["ramp"] = func(p map[string]float64) (signal.Func, error) {
		return signal.Ramp(param(p, "start", 0), param(p, "slope", 1)), nil
	}

	return r
}

// RegisterBlock adds or replaces the factory for kind.
func (r *Registry) RegisterBlock(kind string, fn BlockFactory) { r.blocks[kind] = fn }

// RegisterInput adds or replaces the factory for kind.
func (r *Registry) RegisterInput(kind string, fn InputFactory) { r.inputs[kind] = fn }

func (r *Registry) NewBlock(bc config.BlockConfig) (block.Block, error) {
	fn, ok := r.blocks[bc.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (block %s)", ErrUnknownKind, bc.Kind, bc.Name)
	}
	return fn(bc)
}

func (r *Registry) NewInput(ic config.InputConfig) (signal.Func, error) {
	fn, ok := r.inputs[ic.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (input %s)", ErrUnknownKind, ic.Kind, ic.Signal)
	}
	return fn(ic.Params)
}

func (r *Registry) BlockKinds() []string { return sortedKeys(r.blocks) }
func (r *Registry) InputKinds() []string { return sortedKeys(r.inputs) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func param(p map[string]float64, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// automatic defaults to true when the configuration leaves it unset.
func automatic(bc config.BlockConfig) bool {
	return bc.Automatic == nil || *bc.Automatic
}
