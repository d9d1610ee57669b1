package reembed

import (
	"context"
	"sort"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

// DefaultBatchSize is the default number of questions embedded per call.
const DefaultBatchSize = 100

// QuestionIterator walks the stored questions of a chain in batches.
type QuestionIterator struct {
	repo      storage.QuestionRepository
	batchSize int
}

// NewQuestionIterator creates a new iterator.
// A non-positive batchSize falls back to DefaultBatchSize.
func NewQuestionIterator(repo storage.QuestionRepository, batchSize int) *QuestionIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &QuestionIterator{repo: repo, batchSize: batchSize}
}

// ForEach calls fn for each batch of the chain's questions, oldest first.
// Iteration stops on the first error from fn. Context cancellation is
// checked between batches.
func (it *QuestionIterator) ForEach(ctx context.Context, chain string, fn func([]*core.StoredQuestionRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := it.repo.ListQuestions(ctx, chain)
	if err != nil {
		return err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].InsertedAt.Before(records[j].InsertedAt)
	})

	for start := 0; start < len(records); start += it.batchSize {
		end := min(start+it.batchSize, len(records))
		if err := fn(records[start:end]); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
