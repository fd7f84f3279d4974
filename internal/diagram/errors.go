package diagram

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBlock indicates a nil entry in the block list.
	ErrInvalidBlock = errors.New("diagram: blocks must be a list of blocks")

	// ErrMissingSign indicates a summing junction term without a +/- prefix.
	ErrMissingSign = errors.New("diagram: summing junction term has no sign")

	// ErrUnknownSignal indicates a reference to a signal absent from the signal table.
	ErrUnknownSignal = errors.New("diagram: unknown signal")

	// ErrTooFewTimestamps indicates a timestamp sequence too short to derive a step size.
	ErrTooFewTimestamps = errors.New("diagram: at least two timestamps are required")

	// ErrDiverged indicates a block state that became NaN or infinite.
	ErrDiverged = errors.New("diagram: block state diverged")
)

// SignError reports the junction and term that lack a sign.
type SignError struct {
	Sum   string
	Terms []string
	Term  string
}

func (e *SignError) Error() string {
	return fmt.Sprintf("diagram: in the sum '%s': (%s), there is no sign for '%s'",
		e.Sum, strings.Join(e.Terms, ", "), e.Term)
}

func (e *SignError) Unwrap() error { return ErrMissingSign }

// UnknownSignalError reports which element referenced a missing signal.
type UnknownSignalError struct {
	Signal   string
	Referrer string
}

func (e *UnknownSignalError) Error() string {
	return fmt.Sprintf("diagram: %s references unknown signal '%s'", e.Referrer, e.Signal)
}

func (e *UnknownSignalError) Unwrap() error { return ErrUnknownSignal }

// DivergenceError names the block whose state left the finite range.
type DivergenceError struct {
	Block string
	Norm  float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("diagram: state of block '%s' diverged (norm %v)", e.Block, e.Norm)
}

func (e *DivergenceError) Unwrap() error { return ErrDiverged }

// SimulationError wraps a failure with the tick at which it happened.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
