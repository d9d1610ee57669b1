package chromem

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

// DefaultCollection is the collection chunks are stored in unless overridden.
const DefaultCollection = "chunks"

// metadata keys
const (
	keyDocumentID = "document_id"
	keyChain      = "chain"
	keySource     = "source"
	keySourceID   = "source_id"
	keyURL        = "url"
	keyCreatedAt  = "created_at"
	keyAuthor     = "author"
	keyTopicID    = "topic_id"
)

// Store is a storage.VectorStore backed by a chromem-go collection.
// Chunks must arrive with embeddings; the store never calls an embedding model.
type Store struct {
	mu          sync.RWMutex
	db          *chromemgo.DB
	name        string
	collection  *chromemgo.Collection
	concurrency int
	compress    bool
	closed      bool
	logger      *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCollection sets the collection name.
func WithCollection(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.name = name
		}
	}
}

// WithConcurrency sets how many documents are added in parallel.
// Default is runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithCompression gzips persisted documents. Only used by Open.
func WithCompression(compress bool) Option {
	return func(s *Store) {
		s.compress = compress
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.With("component", "vector-store")
		}
	}
}

// Open creates a store at path. An empty path keeps everything in memory.
func Open(path string, opts ...Option) (*Store, error) {
	s := newStore(opts...)

	var db *chromemgo.DB
	if path == "" {
		db = chromemgo.NewDB()
	} else {
		var err error
		db, err = chromemgo.NewPersistentDB(path, s.compress)
		if err != nil {
			return nil, fmt.Errorf("opening vector store at %s: %w", path, err)
		}
	}
	return s.attach(db)
}

// NewStore wraps an existing chromem database.
func NewStore(db *chromemgo.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: chromem database is nil", storage.ErrInvalidQuery)
	}
	return newStore(opts...).attach(db)
}

func newStore(opts ...Option) *Store {
	s := &Store{
		name:        DefaultCollection,
		concurrency: runtime.NumCPU(),
		logger:      slog.Default().With("component", "vector-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) attach(db *chromemgo.DB) (*Store, error) {
	s.db = db
	collection, err := db.GetOrCreateCollection(s.name, nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", s.name, err)
	}
	s.collection = collection
	return s, nil
}

// noEmbedding is installed as the collection's embedding function so a chunk
// without a vector fails instead of reaching out to a model.
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, storage.ErrMissingEmbedding
}

// Upsert adds chunks, replacing any stored chunk with the same ID.
func (s *Store) Upsert(ctx context.Context, chunks []*core.DocumentChunk) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	ids := make([]string, 0)
	seen := make(map[string]struct{})
	docs := make([]chromemgo.Document, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk == nil {
			continue
		}
		if len(chunk.Embedding) == 0 {
			return nil, fmt.Errorf("%w: %s", storage.ErrMissingEmbedding, chunk.ID)
		}
		docs = append(docs, chromemgo.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Metadata:  toMetadata(chunk),
			Embedding: chunk.Embedding,
		})
		if _, ok := seen[chunk.DocumentID]; !ok {
			seen[chunk.DocumentID] = struct{}{}
			ids = append(ids, chunk.DocumentID)
		}
	}

	if len(docs) == 0 {
		return ids, nil
	}
	if err := s.collection.AddDocuments(ctx, docs, s.concurrency); err != nil {
		return nil, fmt.Errorf("adding chunks: %w", err)
	}
	s.logger.Debug("upserted chunks", "chunks", len(docs), "documents", len(ids))
	return ids, nil
}

// Query runs one similarity search per query. TopK is capped at the number
// of stored chunks; an empty collection yields empty results.
func (s *Store) Query(ctx context.Context, queries []core.QueryWithEmbedding) ([]core.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	results := make([]core.QueryResult, 0, len(queries))
	for _, q := range queries {
		if len(q.Embedding) == 0 {
			return nil, fmt.Errorf("%w: query %q has no embedding", storage.ErrInvalidQuery, q.Query.Query)
		}
		matches, err := s.search(ctx, q)
		if err != nil {
			return nil, err
		}
		results = append(results, core.QueryResult{Query: q.Query.Query, Results: matches})
	}
	return results, nil
}

func (s *Store) search(ctx context.Context, q core.QueryWithEmbedding) ([]core.ChunkMatch, error) {
	n := min(q.TopK, s.collection.Count())
	if n <= 0 {
		return []core.ChunkMatch{}, nil
	}

	found, err := s.collection.QueryEmbedding(ctx, q.Embedding, n, toWhere(q.Filter), nil)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", q.Query.Query, err)
	}

	matches := make([]core.ChunkMatch, 0, len(found))
	for _, r := range found {
		matches = append(matches, fromResult(r))
	}
	return matches, nil
}

// Delete removes chunks by ID, by metadata filter, or all of them.
func (s *Store) Delete(ctx context.Context, req core.DeleteRequest) error {
	if err := core.ValidateDeleteRequest(&req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}

	if req.DeleteAll {
		if err := s.db.DeleteCollection(s.name); err != nil {
			return fmt.Errorf("dropping collection %s: %w", s.name, err)
		}
		collection, err := s.db.CreateCollection(s.name, nil, noEmbedding)
		if err != nil {
			return fmt.Errorf("recreating collection %s: %w", s.name, err)
		}
		s.collection = collection
		s.logger.Info("deleted all chunks")
		return nil
	}

	// chromem treats a non-nil where map as a filter even when ids are given
	if len(req.IDs) > 0 {
		if err := s.collection.Delete(ctx, nil, nil, req.IDs...); err != nil {
			return fmt.Errorf("deleting chunks by id: %w", err)
		}
	}
	if where := toWhere(req.Filter); where != nil {
		if err := s.collection.Delete(ctx, where, nil); err != nil {
			return fmt.Errorf("deleting chunks by filter: %w", err)
		}
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0
	}
	return s.collection.Count()
}

// Close marks the store closed. Persistent stores write through on every
// change, so there is nothing to flush.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func toMetadata(chunk *core.DocumentChunk) map[string]string {
	m := map[string]string{
		keyDocumentID: chunk.DocumentID,
	}
	set := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	set(keyChain, chunk.Chain)
	set(keySource, string(chunk.Metadata.Source))
	set(keySourceID, chunk.Metadata.SourceID)
	set(keyURL, chunk.Metadata.URL)
	set(keyCreatedAt, chunk.Metadata.CreatedAt)
	set(keyAuthor, chunk.Metadata.Author)
	set(keyTopicID, chunk.TopicID)
	return m
}

// toWhere converts a filter into chromem's exact-match metadata filter.
// Returns nil for an empty filter.
func toWhere(f *core.MetadataFilter) map[string]string {
	if f.IsEmpty() {
		return nil
	}
	where := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			where[key] = value
		}
	}
	set(keyDocumentID, f.DocumentID)
	set(keyChain, f.Chain)
	set(keySource, string(f.Source))
	set(keySourceID, f.SourceID)
	set(keyAuthor, f.Author)
	return where
}

func fromResult(r chromemgo.Result) core.ChunkMatch {
	m := r.Metadata
	return core.ChunkMatch{
		ID:         r.ID,
		DocumentID: m[keyDocumentID],
		Chain:      m[keyChain],
		Text:       r.Content,
		TopicID:    m[keyTopicID],
		Metadata: core.DocumentMetadata{
			Source:    core.Source(m[keySource]),
			SourceID:  m[keySourceID],
			URL:       m[keyURL],
			CreatedAt: m[keyCreatedAt],
			Author:    m[keyAuthor],
		},
		Score: r.Similarity,
	}
}
