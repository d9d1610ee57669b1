package dedup

import "errors"

var (
	// ErrZeroNorm is returned when a vector has zero magnitude.
	ErrZeroNorm = errors.New("vector has zero norm")

	// ErrDimensionMismatch is returned when vectors differ in length.
	ErrDimensionMismatch = errors.New("vector dimensions differ")

	// ErrInvalidThreshold is returned for thresholds outside [-1, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be within [-1, 1]")
)
