// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

// DefaultTopicsKey is the hash holding the topic catalog, id -> name.
const DefaultTopicsKey = "faqtory:topics"

// TopicRepository implements storage.TopicRepository on a single Redis hash.
type TopicRepository struct {
	client *goredis.Client
	key    string
	owned  bool
}

var _ storage.TopicRepository = (*TopicRepository)(nil)

// Option configures a TopicRepository.
type Option func(*TopicRepository)

// WithKey sets the hash key the catalog lives under.
func WithKey(key string) Option {
	return func(r *TopicRepository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithOwnedClient makes Close close the underlying client.
func WithOwnedClient() Option {
	return func(r *TopicRepository) {
		r.owned = true
	}
}

// NewTopicRepository creates a topic catalog backed by client.
func NewTopicRepository(client *goredis.Client, opts ...Option) (*TopicRepository, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	r := &TopicRepository{client: client, key: DefaultTopicsKey}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ListTopics returns every topic ordered by id.
func (r *TopicRepository) ListTopics(ctx context.Context) ([]*core.Topic, error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	topics := make([]*core.Topic, 0, len(entries))
	for id, name := range entries {
		topics = append(topics, &core.Topic{ID: id, Name: name})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

// PutTopics adds or renames topics.
func (r *TopicRepository) PutTopics(ctx context.Context, topics ...*core.Topic) error {
	if len(topics) == 0 {
		return nil
	}
	values := make([]any, 0, len(topics)*2)
	for _, topic := range topics {
		if err := core.ValidateTopic(topic); err != nil {
			return err
		}
		values = append(values, topic.ID, topic.Name)
	}
	if err := r.client.HSet(ctx, r.key, values...).Err(); err != nil {
		return fmt.Errorf("saving topics: %w", err)
	}
	return nil
}

// DeleteTopics removes topics by id. Nothing is removed if any id is unknown.
func (r *TopicRepository) DeleteTopics(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		exists, err := r.client.HExists(ctx, r.key, id).Result()
		if err != nil {
			return fmt.Errorf("checking topic %s: %w", id, err)
		}
		if !exists {
			return fmt.Errorf("%w: topic %s", storage.ErrNotFound, id)
		}
	}
	if err := r.client.HDel(ctx, r.key, ids...).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("deleting topics: %w", err)
	}
	return nil
}

// Close closes the client if the repository owns it.
func (r *TopicRepository) Close() error {
	if r.owned {
		return r.client.Close()
	}
	return nil
}
