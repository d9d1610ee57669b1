package chunking

import "errors"

var (
	// ErrEmbedderRequired is returned when NewChunker is called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrExtractorRequired is returned when NewChunker is called without a question extractor.
	ErrExtractorRequired = errors.New("question extractor is required")

	// ErrInvalidQuestionCount is returned for a question count below 1.
	ErrInvalidQuestionCount = errors.New("question count must be at least 1")

	// ErrEmbeddingCount is returned when the embedder returns the wrong number of vectors.
	ErrEmbeddingCount = errors.New("embedding count mismatch")
)
