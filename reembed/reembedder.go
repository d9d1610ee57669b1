package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/retry"
	"github.com/poiesic/faqtory/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of questions embedded per call
	BatchSize int

	// ReportInterval is how often to report progress (number of questions)
	ReportInterval int

	// Retry bounds the embedding call of each batch. The default is a single
	// attempt because the provider's embedder already retries; raise it only
	// for embedders that don't.
	Retry retry.Policy
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		Retry:          retry.Policy{MaxAttempts: 1},
	}
}

// Reembedder recomputes the embeddings of every stored question in a chain.
type Reembedder struct {
	repo     storage.QuestionRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	iterator *QuestionIterator
	logger   *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress receives human-readable progress output, typically os.Stderr.
func NewReembedder(repo storage.QuestionRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Retry.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
		iterator: NewQuestionIterator(repo, config.BatchSize),
		logger:   slog.Default().With("component", "reembedder"),
	}, nil
}

// Run reembeds every question of chain and returns how many were updated.
// Question text, topic and admin fields are preserved.
func (r *Reembedder) Run(ctx context.Context, chain string) (int, error) {
	all, err := r.repo.ListQuestions(ctx, chain)
	if err != nil {
		return 0, fmt.Errorf("listing questions: %w", err)
	}
	total := len(all)
	if total == 0 {
		fmt.Fprintf(r.progress, "No questions stored for %s\n", chain)
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Reembedding %d questions for %s (batch size: %d)\n",
		total, chain, r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, chain, func(batch []*core.StoredQuestionRecord) error {
		if err := r.processBatch(ctx, batch); err != nil {
			return err
		}
		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return processed, err
	}
	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d questions in %v\n",
		processed, elapsed.Round(time.Millisecond))
	r.logger.Info("reembedded questions", "chain", chain, "count", processed, "elapsed", elapsed)
	return processed, nil
}

func (r *Reembedder) processBatch(ctx context.Context, batch []*core.StoredQuestionRecord) error {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Question
	}

	vectors, err := retry.DoWithData(ctx, r.config.Retry, func() ([][]float32, error) {
		return r.embedder.EmbedTexts(ctx, texts)
	})
	if err != nil {
		return fmt.Errorf("embedding batch of %d questions: %w", len(batch), err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: got %d vectors for %d questions", ErrEmbeddingCount, len(vectors), len(batch))
	}

	for i, record := range batch {
		updated := *record
		updated.Embedding = NormalizeVector(vectors[i])
		if _, err := r.repo.SaveQuestion(ctx, &updated); err != nil {
			return fmt.Errorf("saving question %q: %w", record.Question, err)
		}
	}
	return nil
}
