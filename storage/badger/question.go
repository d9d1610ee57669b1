package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

// QuestionRepository implements storage.QuestionRepository for BadgerDB.
type QuestionRepository struct {
	backend *Backend
}

var _ storage.QuestionRepository = (*QuestionRepository)(nil)

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(backend *Backend) (storage.QuestionRepository, error) {
	return newQuestionRepository(backend)
}

func newQuestionRepository(backend *Backend) (*QuestionRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &QuestionRepository{
		backend: backend,
	}, nil
}

// Close releases resources. QuestionRepository has no resources to release.
func (r *QuestionRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *QuestionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveQuestion stores a record, overwriting any existing record with the same key.
// InsertedAt of an existing record is preserved.
func (r *QuestionRepository) SaveQuestion(ctx context.Context, record *core.StoredQuestionRecord) (*core.StoredQuestionRecord, error) {
	if err := core.ValidateQuestionRecord(record); err != nil {
		return nil, err
	}

	saved := *record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeQuestionKey(saved.Chain, saved.Key())

		old, err := readQuestion(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		switch {
		case old != nil:
			saved.InsertedAt = old.InsertedAt
		case saved.InsertedAt.IsZero():
			saved.InsertedAt = now
		}
		saved.UpdatedAt = now

		value, err := storage.MarshalQuestion(&saved)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetQuestion retrieves a single record.
func (r *QuestionRepository) GetQuestion(ctx context.Context, chain, question string) (*core.StoredQuestionRecord, error) {
	var result *core.StoredQuestionRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		probe := core.StoredQuestionRecord{Chain: chain, Question: question}
		var err error
		result, err = readQuestion(tx, makeQuestionKey(chain, probe.Key()))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListQuestions returns every record of a chain.
func (r *QuestionRepository) ListQuestions(ctx context.Context, chain string) ([]*core.StoredQuestionRecord, error) {
	var records []*core.StoredQuestionRecord
	err := r.backend.scanPrefix(makeChainPrefix(questionPrefix, chain), func(val []byte) error {
		record, err := storage.UnmarshalQuestion(val)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	return records, err
}

// ListEmbeddings returns the non-empty embeddings of a chain's records.
func (r *QuestionRepository) ListEmbeddings(ctx context.Context, chain string) ([][]float32, error) {
	records, err := r.ListQuestions(ctx, chain)
	if err != nil {
		return nil, err
	}
	embeddings := make([][]float32, 0, len(records))
	for _, record := range records {
		if len(record.Embedding) == 0 {
			continue
		}
		embeddings = append(embeddings, record.Embedding)
	}
	return embeddings, nil
}

// DeleteQuestion removes a record.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, chain, question string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		probe := core.StoredQuestionRecord{Chain: chain, Question: question}
		key := makeQuestionKey(chain, probe.Key())
		existing, err := readQuestion(tx, key)
		if err != nil {
			return err
		}
		if existing == nil {
			return storage.ErrNotFound
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readQuestion reads a record from the transaction.
// Returns nil, nil if the record doesn't exist.
func readQuestion(tx *badger.Txn, key []byte) (*core.StoredQuestionRecord, error) {
	val, err := getValue(tx, key)
	if err != nil || val == nil {
		return nil, err
	}
	return storage.UnmarshalQuestion(val)
}
