package retry

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when MaxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidDelay is returned when the delays are negative or inverted
	ErrInvalidDelay = errors.New("retry delays must be non-negative and MaxDelay >= MinDelay")
)
