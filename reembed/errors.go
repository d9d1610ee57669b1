package reembed

import "errors"

var (
	// ErrRepositoryRequired is returned when a question repository is not provided.
	ErrRepositoryRequired = errors.New("question repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingCount is returned when the embedder returns the wrong number of vectors.
	ErrEmbeddingCount = errors.New("embedding count mismatch")
)
