package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

// TopicRepository implements storage.TopicRepository for BadgerDB.
type TopicRepository struct {
	backend *Backend
}

var _ storage.TopicRepository = (*TopicRepository)(nil)

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(backend *Backend) (storage.TopicRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &TopicRepository{backend: backend}, nil
}

// Close releases resources. TopicRepository has no resources to release.
func (r *TopicRepository) Close() error {
	return nil
}

// ListTopics returns every topic ordered by id.
func (r *TopicRepository) ListTopics(ctx context.Context) ([]*core.Topic, error) {
	var topics []*core.Topic
	err := r.backend.scanPrefix(makeTopicPrefix(), func(val []byte) error {
		topic, err := storage.UnmarshalTopic(val)
		if err != nil {
			return err
		}
		topics = append(topics, topic)
		return nil
	})
	return topics, err
}

// PutTopics adds or renames topics.
func (r *TopicRepository) PutTopics(ctx context.Context, topics ...*core.Topic) error {
	for _, topic := range topics {
		if err := core.ValidateTopic(topic); err != nil {
			return err
		}
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, topic := range topics {
			value, err := storage.MarshalTopic(topic)
			if err != nil {
				return err
			}
			if err := tx.Set(makeTopicKey(topic.ID), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteTopics removes topics by id.
func (r *TopicRepository) DeleteTopics(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeTopicKey(id)
			val, err := getValue(tx, key)
			if err != nil {
				return err
			}
			if val == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
