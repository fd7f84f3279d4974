package block

import "errors"

// Construction errors for block parameters.
var (
	// ErrNegativeDelay indicates a transport delay below zero.
	ErrNegativeDelay = errors.New("block: delay must be non-negative")

	// ErrDegenerateDenominator indicates a discrete transfer function whose
	// leading denominator coefficient is zero.
	ErrDegenerateDenominator = errors.New("block: leading coefficient of the denominator cannot be zero")

	// ErrEmptyNumerator indicates a discrete transfer function without numerator coefficients.
	ErrEmptyNumerator = errors.New("block: numerator has no coefficients")

	// ErrInvalidSampling indicates a non-positive sampling interval.
	ErrInvalidSampling = errors.New("block: sampling interval must be positive")
)

// ConstructionError wraps a parameter error with the name of the block being built.
type ConstructionError struct {
	Block   string
	Wrapped error
}

func (e *ConstructionError) Error() string {
	return "block " + e.Block + ": " + e.Wrapped.Error()
}

func (e *ConstructionError) Unwrap() error {
	return e.Wrapped
}
