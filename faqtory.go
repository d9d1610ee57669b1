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

// Package faqtory builds FAQ question sets from incrementally ingested
// documents and answers questions from the ingested text.
//
// Faqtory wires the persistent stores and AI services together and hands
// out the ingestion, retrieval and reembedding components.
package faqtory

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/ai/openai"
	"github.com/poiesic/faqtory/chunking"
	"github.com/poiesic/faqtory/ingestion"
	"github.com/poiesic/faqtory/reembed"
	"github.com/poiesic/faqtory/retrieval"
	"github.com/poiesic/faqtory/storage"
	"github.com/poiesic/faqtory/storage/badger"
	"github.com/poiesic/faqtory/storage/chromem"
)

// Faqtory owns the stores, the AI provider and the chunker.
type Faqtory struct {
	backend   *badger.Backend
	cursors   storage.CursorRepository
	questions storage.QuestionRepository
	topics    storage.TopicRepository
	vectors   *chromem.Store
	provider  ai.AIProvider
	chunker   *chunking.Chunker
	logger    *slog.Logger
}

// Option configures a Faqtory.
type Option func(*options)

type options struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	topics        storage.TopicRepository
	vectorPath    string
	vectorPathSet bool
	vectorOptions []chromem.Option
	chunkOptions  []chunking.Option
	inMemory      bool
}

// WithAIConfig sets the configuration of the OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithAIProvider uses provider instead of building one from the AI config.
// The provider is closed with the Faqtory.
func WithAIProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithTopicRepository replaces the badger topic catalog, for example with
// the Redis one. The repository is closed with the Faqtory.
func WithTopicRepository(topics storage.TopicRepository) Option {
	return func(o *options) {
		o.topics = topics
	}
}

// WithVectorPath persists chunks under path; an empty path keeps them in
// memory. Without this option an on-disk database keeps its chunks next to
// it, see DefaultVectorPath.
func WithVectorPath(path string, opts ...chromem.Option) Option {
	return func(o *options) {
		o.vectorPath = path
		o.vectorPathSet = true
		o.vectorOptions = append(o.vectorOptions, opts...)
	}
}

// WithChunkerOptions passes options through to the chunker.
func WithChunkerOptions(opts ...chunking.Option) Option {
	return func(o *options) {
		o.chunkOptions = append(o.chunkOptions, opts...)
	}
}

// InMemory keeps the badger database in memory. The path passed to Open is ignored.
func InMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// DefaultVectorPath is where an on-disk database at dbPath keeps its chunks:
// "faqtory.db" pairs with "faqtory.vectors".
func DefaultVectorPath(dbPath string) string {
	vectors := strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".vectors"
	if vectors == dbPath {
		return dbPath + ".vectors"
	}
	return vectors
}

// Open opens the database at path and builds every component.
func Open(path string, opts ...Option) (*Faqtory, error) {
	o := &options{aiConfig: ai.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	if !o.vectorPathSet && !o.inMemory && path != "" {
		o.vectorPath = DefaultVectorPath(path)
	}

	f := &Faqtory{logger: slog.Default().With("component", "faqtory")}
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	var err error
	if f.backend, err = badger.OpenBackend(path, o.inMemory); err != nil {
		return nil, err
	}
	if f.cursors, err = badger.NewCursorRepository(f.backend); err != nil {
		return nil, err
	}
	if f.questions, err = badger.NewQuestionRepository(f.backend); err != nil {
		return nil, err
	}

	f.topics = o.topics
	if f.topics == nil {
		if f.topics, err = badger.NewTopicRepository(f.backend); err != nil {
			return nil, err
		}
	}

	if f.vectors, err = chromem.Open(o.vectorPath, o.vectorOptions...); err != nil {
		return nil, err
	}

	f.provider = o.provider
	if f.provider == nil {
		if f.provider, err = openai.NewProvider(o.aiConfig); err != nil {
			return nil, err
		}
	}

	if f.chunker, err = chunking.NewChunker(f.provider.Embedder(), f.provider.QuestionExtractor(), o.chunkOptions...); err != nil {
		return nil, err
	}

	ok = true
	return f, nil
}

// Close releases every component. All closers run; their errors are joined.
func (f *Faqtory) Close() error {
	var errs []error
	if f.chunker != nil {
		f.chunker.Release()
	}
	if f.provider != nil {
		errs = append(errs, f.provider.Close())
	}
	if f.vectors != nil {
		errs = append(errs, f.vectors.Close())
	}
	if f.topics != nil {
		errs = append(errs, f.topics.Close())
	}
	if f.questions != nil {
		errs = append(errs, f.questions.Close())
	}
	if f.cursors != nil {
		errs = append(errs, f.cursors.Close())
	}
	if f.backend != nil {
		errs = append(errs, f.backend.Close())
	}

	err := errors.Join(errs...)
	if err != nil {
		f.logger.Error("error closing faqtory", "err", err)
	}
	return err
}

func (f *Faqtory) Cursors() storage.CursorRepository {
	return f.cursors
}

func (f *Faqtory) Questions() storage.QuestionRepository {
	return f.questions
}

func (f *Faqtory) Topics() storage.TopicRepository {
	return f.topics
}

func (f *Faqtory) Vectors() storage.VectorStore {
	return f.vectors
}

func (f *Faqtory) Provider() ai.AIProvider {
	return f.provider
}

// NewIngester returns an ingester over the Faqtory's stores.
func (f *Faqtory) NewIngester(opts ...ingestion.Option) (*ingestion.Ingester, error) {
	return ingestion.NewIngester(ingestion.Dependencies{
		Cursors:    f.cursors,
		Questions:  f.questions,
		Topics:     f.topics,
		Vectors:    f.vectors,
		Chunker:    f.chunker,
		Classifier: f.provider.TopicClassifier(),
	}, opts...)
}

func (f *Faqtory) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(f.vectors, f.provider, opts...)
}

// NewReembedder returns a reembedder for the stored questions.
// progress may be nil.
func (f *Faqtory) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(f.questions, f.provider.Embedder(), config, progress)
}
