package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// An entry may be empty if the service produced no vector for that text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QuestionExtractor derives FAQ-style questions from a passage.
type QuestionExtractor interface {
	// ExtractQuestions asks for up to count questions that the text answers.
	// Returns an empty slice for text too short to ask about.
	ExtractQuestions(ctx context.Context, text string, count int) ([]string, error)
}

// TopicClassifier assigns a question to one topic of a catalog.
type TopicClassifier interface {
	// ClassifyTopic returns one of ids, or "other" if none fits.
	// names and ids are parallel slices.
	ClassifyTopic(ctx context.Context, text string, names, ids []string) (string, error)
}

// Answerer answers a question from retrieved passages.
type Answerer interface {
	Answer(ctx context.Context, question string, chunks []string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// QuestionExtractor returns the question extraction service.
	QuestionExtractor() QuestionExtractor

	// TopicClassifier returns the topic classification service.
	TopicClassifier() TopicClassifier

	// Answerer returns the answering service.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
