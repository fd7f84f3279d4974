package block

import "fmt"

// Block is a named element wired from one input signal to one output signal.
// Stateless blocks return nil from State and Derivative and ignore
// ChangeState.
type Block interface {
	Name() string
	Input() string
	Output() string

	// Reset reinitializes state and output to zero.
	Reset()
	// ChangeInput returns the output for input u at simulated time t.
	ChangeInput(t, u float64) float64
	// ChangeState overwrites the continuous state.
	ChangeState(x State)
	// State returns the continuous state, nil for stateless blocks.
	State() State
	// Derivative returns dx/dt for input u at the current state, nil for
	// stateless blocks.
	Derivative(u float64) State
}

// base carries the immutable identity and wiring shared by every block.
type base struct {
	kind   string
	name   string
	input  string
	output string
}

func (b *base) Name() string   { return b.name }
func (b *base) Input() string  { return b.input }
func (b *base) Output() string { return b.output }

func (b *base) String() string {
	return fmt.Sprintf("%s: %s →[ %s ]→ %s", b.kind, b.input, b.name, b.output)
}
