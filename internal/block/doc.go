// Package block provides the signal-processing elements of a block diagram.
//
// Every element implements [Block]: it reads one named input signal, writes
// one named output signal and may carry continuous state that the diagram
// integrates between ticks:
//
//   - [LTI]: continuous transfer function with optional transport delay
//   - [Controller]: LTI with an automatic/manual switch, built by [NewPI] or [NewPID]
//   - [Zero]: output is always zero
//   - [AlgebraicEquation]: memoryless relation y = f(t, u)
//   - [Deadtime]: pure transport delay
//   - [DiscreteTF]: sampled difference equation
//
// # Contract
//
// ChangeInput computes the current output and may update sample histories,
// but never advances continuous state. The owner of the block advances state
// by calling Derivative and ChangeState:
//
//	y := b.ChangeInput(t, u)
//	b.ChangeState(b.State().Add(b.Derivative(u).Scale(dt)))
//
// Blocks are NOT safe for concurrent use.
package block
