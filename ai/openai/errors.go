package openai

import "errors"

var (
	// ErrEmbeddingCount is returned when the service returns a different number of vectors than texts.
	ErrEmbeddingCount = errors.New("embedding count mismatch")

	// ErrUnparseableResponse is returned when a model keeps answering with invalid JSON.
	ErrUnparseableResponse = errors.New("model response could not be parsed")
)
