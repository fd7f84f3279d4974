package diagram

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/san-kum/blocksim/internal/block"
	"github.com/san-kum/blocksim/internal/integrators"
	"github.com/san-kum/blocksim/internal/signal"
)

// Sum is a summing junction: Output = Σ ±Terms. Every term carries a
// leading '+' or '-' followed by the signal name, e.g. "+ysp", "-ym".
type Sum struct {
	Output string
	Terms  []string
}

// Input drives Signal with a function of simulated time.
type Input struct {
	Signal string
	Func   signal.Func
}

// Integrator advances a block's continuous state over one tick.
type Integrator interface {
	Step(b integrators.Dynamic, u float64, dt float64) block.State
}

// Observer is notified after every completed tick. It cannot influence the
// simulation.
type Observer interface {
	OnTick(step, total int, t float64)
}

type term struct {
	sign   float64
	signal string
}

type junction struct {
	output string
	terms  []term
}

type Diagram struct {
	blocks     []block.Block
	junctions  []junction
	inputs     []Input
	integrator Integrator
	observers  []Observer
	signals    *Signals
}

// New validates the wiring and returns a reset diagram. Blocks and junctions
// are evaluated in the order given. Signal names are not cross-checked; a
// dangling reference fails at simulation time.
func New(blocks []block.Block, sums []Sum, inputs []Input) (*Diagram, error) {
	for i, b := range blocks {
		if isNil(b) {
			return nil, fmt.Errorf("%w: entry %d is nil", ErrInvalidBlock, i)
		}
	}

	junctions := make([]junction, 0, len(sums))
	for _, s := range sums {
		j := junction{output: s.Output, terms: make([]term, 0, len(s.Terms))}
		for _, raw := range s.Terms {
			tm, ok := parseTerm(raw)
			if !ok {
				return nil, &SignError{Sum: s.Output, Terms: append([]string(nil), s.Terms...), Term: raw}
			}
			j.terms = append(j.terms, tm)
		}
		junctions = append(junctions, j)
	}

	d := &Diagram{
		blocks:     append([]block.Block(nil), blocks...),
		junctions:  junctions,
		inputs:     append([]Input(nil), inputs...),
		integrator: integrators.NewEuler(),
		observers:  make([]Observer, 0),
	}
	d.Reset()
	return d, nil
}

func parseTerm(raw string) (term, bool) {
	if raw == "" {
		return term{}, false
	}
	switch raw[0] {
	case '+':
		return term{sign: 1, signal: raw[1:]}, true
	case '-':
		return term{sign: -1, signal: raw[1:]}, true
	}
	return term{}, false
}

func (d *Diagram) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// isNil also catches typed nil pointers stored in the interface.
func isNil(b block.Block) bool {
	if b == nil {
		return true
	}
	v := reflect.ValueOf(b)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Block returns the block with the given name.
func (d *Diagram) Block(name string) (block.Block, bool) {
	for _, b := range d.blocks {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// Signals returns the live signal table.
func (d *Diagram) Signals() *Signals { return d.signals }

// Reset zeroes the signal table and resets every block.
func (d *Diagram) Reset() {
	s := newSignals()
	for _, b := range d.blocks {
		s.set(b.Input(), 0)
	}
	for _, b := range d.blocks {
		s.set(b.Output(), 0)
	}
	for _, j := range d.junctions {
		s.set(j.output, 0)
	}
	d.signals = s

	for _, b := range d.blocks {
		b.Reset()
	}
}

// Step advances the diagram by one tick at time t with step size dt and
// returns the live signal table.
func (d *Diagram) Step(t, dt float64) (*Signals, error) {
	s := d.signals

	for _, in := range d.inputs {
		s.set(in.Signal, in.Func(t))
	}

	for _, j := range d.junctions {
		total := 0.0
		for _, tm := range j.terms {
			v, ok := s.Get(tm.signal)
			if !ok {
				return nil, &UnknownSignalError{Signal: tm.signal, Referrer: "sum '" + j.output + "'"}
			}
			total += tm.sign * v
		}
		s.set(j.output, total)
	}

	for _, b := range d.blocks {
		u, ok := s.Get(b.Input())
		if !ok {
			return nil, &UnknownSignalError{Signal: b.Input(), Referrer: "block '" + b.Name() + "'"}
		}
		s.set(b.Output(), b.ChangeInput(t, u))
		x := d.integrator.Step(b, u, dt)
		if !x.IsValid() {
			return nil, &DivergenceError{Block: b.Name(), Norm: x.Norm()}
		}
		b.ChangeState(x)
	}

	return s, nil
}

func (d *Diagram) String() string {
	lines := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		lines[i] = fmt.Sprint(b)
	}
	return strings.Join(lines, "\n")
}
