package ingestion

import "errors"

var (
	// ErrCursorRepositoryRequired is returned when a cursor repository is not provided.
	ErrCursorRepositoryRequired = errors.New("cursor repository required")

	// ErrQuestionRepositoryRequired is returned when a question repository is not provided.
	ErrQuestionRepositoryRequired = errors.New("question repository required")

	// ErrTopicRepositoryRequired is returned when a topic repository is not provided.
	ErrTopicRepositoryRequired = errors.New("topic repository required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrClassifierRequired is returned when a topic classifier is not provided.
	ErrClassifierRequired = errors.New("topic classifier required")

	// ErrEmptyChain is returned when Ingest is called without a chain.
	ErrEmptyChain = errors.New("chain cannot be empty")

	// ErrDuplicateDocumentID is returned when one Ingest call carries two documents with the same id.
	ErrDuplicateDocumentID = errors.New("duplicate document id")

	// ErrInvalidMinNewLines is returned for a negative line threshold.
	ErrInvalidMinNewLines = errors.New("minimum new lines cannot be negative")
)
