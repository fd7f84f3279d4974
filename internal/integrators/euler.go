// Package integrators advances the continuous state of diagram blocks.
package integrators

import "github.com/san-kum/blocksim/internal/block"

// Dynamic is the part of a block an integrator needs.
type Dynamic interface {
	State() block.State
	Derivative(u float64) block.State
}

// Euler is the explicit (forward) Euler scheme.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

// Step returns x + dt·f(x, u) evaluated at the pre-update state.
func (e *Euler) Step(b Dynamic, u float64, dt float64) block.State {
	x := b.State()
	dx := b.Derivative(u)
	result := make(block.State, len(x))
	for i := range x {
		if i < len(dx) {
			result[i] = x[i] + dt*dx[i]
		} else {
			result[i] = x[i]
		}
	}
	return result
}
