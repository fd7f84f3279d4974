package diagram

import (
	"github.com/san-kum/blocksim/internal/block"
	"github.com/san-kum/blocksim/internal/signal"
)

type controlLoop struct {
	gd       block.Block
	gm       block.Block
	setpoint signal.Func
	load     signal.Func
}

// ControlOption customizes NewSimpleControl.
type ControlOption func(*controlLoop)

// WithDisturbance sets the disturbance path Gd (input "d", output "yd").
func WithDisturbance(gd block.Block) ControlOption {
	return func(c *controlLoop) { c.gd = gd }
}

// WithMeasurement sets the measurement element Gm (input "y", output "ym").
func WithMeasurement(gm block.Block) ControlOption {
	return func(c *controlLoop) { c.gm = gm }
}

// WithSetpoint sets the setpoint signal "ysp".
func WithSetpoint(f signal.Func) ControlOption {
	return func(c *controlLoop) { c.setpoint = f }
}

// WithDisturbanceInput sets the disturbance signal "d".
func WithDisturbanceInput(f signal.Func) ControlOption {
	return func(c *controlLoop) { c.load = f }
}

// NewSimpleControl builds the standard single feedback loop:
//
//	                             | d
//	                          ┌─────┐
//	                          │ Gd  │
//	                          └──┬──┘
//	                             │ yd
//	ysp +  e ┌──────┐ u ┌─────┐ yu v    y
//	  ──>o─>│  Gc  ├──>│  G  ├──>o─┬──>
//	    -↑  └──────┘   └─────┘     │
//	     │  ym     ┌─────┐         │
//	     └─────────┤ Gm  │<────────┘
//	               └─────┘
//
// gc must read "e" and write "u"; g must read "u" and write "yu". Gd
// defaults to Zero, Gm to unity feedback, ysp to a unit step at t=0 and d
// to zero.
func NewSimpleControl(gc, g block.Block, opts ...ControlOption) (*Diagram, error) {
	c := &controlLoop{
		setpoint: signal.Step(0, 0, 1),
		load:     signal.Zero,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.gd == nil {
		c.gd = block.NewZero("Gd", "d", "yd")
	}
	if c.gm == nil {
		gm, err := block.NewLTI("Gm", "y", "ym", []float64{1}, []float64{1}, 0)
		if err != nil {
			return nil, err
		}
		c.gm = gm
	}

	blocks := []block.Block{gc, g, c.gd, c.gm}
	sums := []Sum{
		{Output: "e", Terms: []string{"+ysp", "-ym"}},
		{Output: "y", Terms: []string{"+yu", "+yd"}},
	}
	inputs := []Input{
		{Signal: "ysp", Func: c.setpoint},
		{Signal: "d", Func: c.load},
	}
	return New(blocks, sums, inputs)
}
