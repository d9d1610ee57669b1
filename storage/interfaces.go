package storage

import (
	"context"

	"github.com/poiesic/faqtory/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CursorRepository tracks how far each (chain, source) pair has been ingested.
type CursorRepository interface {
	Repository

	// GetCursor returns the last processed line for a source.
	// Returns 0 and no error if the source has never been ingested.
	GetCursor(ctx context.Context, chain, sourceID string) (int, error)

	// SetCursor overwrites the last processed line for a source.
	// The repository does not enforce monotonicity.
	SetCursor(ctx context.Context, chain, sourceID string, line int) error

	// ListCursors returns every cursor recorded for a chain, ordered by source id.
	ListCursors(ctx context.Context, chain string) ([]*core.SourceCursor, error)
}

// QuestionRepository persists accepted questions.
type QuestionRepository interface {
	Repository

	// SaveQuestion stores a record keyed by (Chain, Question).
	// Saving an existing key overwrites every field except InsertedAt.
	// Returns the stored record with timestamps populated.
	SaveQuestion(ctx context.Context, record *core.StoredQuestionRecord) (*core.StoredQuestionRecord, error)

	// GetQuestion retrieves a single record.
	// Returns ErrNotFound if the record doesn't exist.
	GetQuestion(ctx context.Context, chain, question string) (*core.StoredQuestionRecord, error)

	// ListQuestions returns every record stored for a chain.
	ListQuestions(ctx context.Context, chain string) ([]*core.StoredQuestionRecord, error)

	// ListEmbeddings returns the non-empty embeddings stored for a chain.
	ListEmbeddings(ctx context.Context, chain string) ([][]float32, error)

	// DeleteQuestion removes a record.
	// Returns ErrNotFound if the record doesn't exist.
	DeleteQuestion(ctx context.Context, chain, question string) error
}

// TopicRepository is the global topic catalog.
type TopicRepository interface {
	// ListTopics returns every topic ordered by id.
	ListTopics(ctx context.Context) ([]*core.Topic, error)

	// PutTopics adds or renames topics.
	PutTopics(ctx context.Context, topics ...*core.Topic) error

	// DeleteTopics removes topics by id.
	// Returns ErrNotFound if any topic doesn't exist.
	DeleteTopics(ctx context.Context, ids ...string) error

	Close() error
}

// VectorStore holds document chunks and answers similarity queries.
type VectorStore interface {
	// Upsert adds or replaces chunks by chunk ID.
	// Returns the distinct document IDs of the chunks, in first-seen order.
	Upsert(ctx context.Context, chunks []*core.DocumentChunk) ([]string, error)

	// Query runs one similarity search per query.
	// Results are ordered by descending score.
	Query(ctx context.Context, queries []core.QueryWithEmbedding) ([]core.QueryResult, error)

	// Delete removes chunks selected by the request.
	Delete(ctx context.Context, req core.DeleteRequest) error

	// Count returns the number of stored chunks.
	Count() int

	Close() error
}
