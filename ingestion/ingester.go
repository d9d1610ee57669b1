package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/dedup"
	"github.com/poiesic/faqtory/storage"
)

// DefaultMinNewLines is the number of new lines a document needs before it is ingested.
const DefaultMinNewLines = 100

// Chunker splits documents into chunks whose questions already carry embeddings.
// The result maps document id to that document's chunks.
type Chunker interface {
	ChunkDocuments(ctx context.Context, docs []core.Document, chunkTokenSize int, chain string) (map[string][]*core.DocumentChunk, error)
}

// Dependencies are the collaborators an Ingester needs.
type Dependencies struct {
	Cursors    storage.CursorRepository
	Questions  storage.QuestionRepository
	Topics     storage.TopicRepository
	Vectors    storage.VectorStore
	Chunker    Chunker
	Classifier ai.TopicClassifier
}

func (d Dependencies) validate() error {
	switch {
	case d.Cursors == nil:
		return ErrCursorRepositoryRequired
	case d.Questions == nil:
		return ErrQuestionRepositoryRequired
	case d.Topics == nil:
		return ErrTopicRepositoryRequired
	case d.Vectors == nil:
		return ErrVectorStoreRequired
	case d.Chunker == nil:
		return ErrChunkerRequired
	case d.Classifier == nil:
		return ErrClassifierRequired
	}
	return nil
}

// Ingester runs incremental ingestion for a chain.
type Ingester struct {
	deps        Dependencies
	minNewLines int
	threshold   float64
	logger      *slog.Logger
}

// Option configures an Ingester.
type Option func(*Ingester) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingester) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger.With("component", "ingester")
		return nil
	}
}

// WithMinNewLines sets how many new lines a document needs before it is ingested.
func WithMinNewLines(n int) Option {
	return func(i *Ingester) error {
		if n < 0 {
			return ErrInvalidMinNewLines
		}
		i.minNewLines = n
		return nil
	}
}

// WithSimilarityThreshold sets the cosine similarity above which a question
// counts as a duplicate.
func WithSimilarityThreshold(threshold float64) Option {
	return func(i *Ingester) error {
		if threshold < -1 || threshold > 1 {
			return dedup.ErrInvalidThreshold
		}
		i.threshold = threshold
		return nil
	}
}

// NewIngester creates an ingester.
func NewIngester(deps Dependencies, opts ...Option) (*Ingester, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	i := &Ingester{
		deps:        deps,
		minNewLines: DefaultMinNewLines,
		threshold:   dedup.DefaultThreshold,
		logger:      slog.Default().With("component", "ingester"),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Ingest processes the unseen part of each document and returns the ids of
// the documents written to the vector store. It returns an empty slice when
// no document has enough new lines.
//
// Documents without an id are given a random one, which also means they
// never share a cursor with a later call. Two documents with the same id
// share one cursor, so a batch that repeats an id is rejected.
func (i *Ingester) Ingest(ctx context.Context, chain string, docs []core.Document, chunkTokenSize int) ([]string, error) {
	if chain == "" {
		return nil, ErrEmptyChain
	}

	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		if _, dup := seen[doc.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDocumentID, doc.ID)
		}
		seen[doc.ID] = struct{}{}
	}

	pending := make([]Pending, 0, len(docs))
	for _, doc := range docs {
		if err := core.ValidateDocument(&doc); err != nil {
			return nil, err
		}
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}

		p := Truncate(doc, i.cursor(ctx, chain, doc.ID))
		if p.Lines < i.minNewLines {
			i.logger.Debug("not enough new lines, skipping", "chain", chain, "document", doc.ID, "cursor", p.Cursor, "lines", p.Lines)
			continue
		}
		pending = append(pending, p)
	}

	if len(pending) == 0 {
		return []string{}, nil
	}

	batch := make([]core.Document, len(pending))
	for n, p := range pending {
		batch[n] = p.Document
	}
	chunks, err := i.deps.Chunker.ChunkDocuments(ctx, batch, chunkTokenSize, chain)
	if err != nil {
		return nil, fmt.Errorf("chunking documents: %w", err)
	}

	// chunk ids carry the starting line so a later run over appended text
	// doesn't overwrite chunks from an earlier one
	for _, p := range pending {
		for n, chunk := range chunks[p.Document.ID] {
			chunk.ID = fmt.Sprintf("%s_L%d_%d", p.Document.ID, p.Cursor, n)
		}
	}

	saved, err := i.acceptQuestions(ctx, chain, pending, chunks)
	if err != nil {
		return nil, err
	}

	var all []*core.DocumentChunk
	for _, p := range pending {
		all = append(all, chunks[p.Document.ID]...)
	}
	ids, err := i.deps.Vectors.Upsert(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("upserting chunks: %w", err)
	}

	for _, p := range pending {
		if err := i.deps.Cursors.SetCursor(ctx, chain, p.Document.ID, p.NextCursor()); err != nil {
			return nil, fmt.Errorf("advancing cursor for %s: %w", p.Document.ID, err)
		}
	}

	i.logger.Info("ingested documents",
		"chain", chain,
		"documents", len(pending),
		"skipped", len(docs)-len(pending),
		"chunks", len(all),
		"questions", saved,
	)
	return ids, nil
}

// cursor returns the stored cursor for a source, or 0 if it can't be read.
func (i *Ingester) cursor(ctx context.Context, chain, sourceID string) int {
	line, err := i.deps.Cursors.GetCursor(ctx, chain, sourceID)
	if err != nil {
		i.logger.Warn("cursor lookup failed, starting from line 0", "chain", chain, "source", sourceID, "err", err)
		return 0
	}
	return line
}

// acceptQuestions walks documents, chunks and questions in order, saving
// each question that is not a near-duplicate. Returns the number saved.
func (i *Ingester) acceptQuestions(ctx context.Context, chain string, pending []Pending, chunks map[string][]*core.DocumentChunk) (int, error) {
	stored, err := i.deps.Questions.ListEmbeddings(ctx, chain)
	if err != nil {
		return 0, fmt.Errorf("loading stored questions: %w", err)
	}
	topics, err := i.deps.Topics.ListTopics(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading topics: %w", err)
	}
	names := make([]string, len(topics))
	ids := make([]string, len(topics))
	known := make(map[string]struct{}, len(topics))
	for n, t := range topics {
		names[n], ids[n] = t.Name, t.ID
		known[t.ID] = struct{}{}
	}

	dd, err := dedup.New(stored, dedup.WithThreshold(i.threshold))
	if err != nil {
		return 0, err
	}
	if dd.Skipped() > 0 {
		i.logger.Warn("ignoring unusable stored embeddings", "chain", chain, "count", dd.Skipped())
	}

	saved := 0
	for _, p := range pending {
		for _, chunk := range chunks[p.Document.ID] {
			for _, q := range chunk.Questions {
				vector, ok := q.Embedding.Get()
				if !ok {
					continue
				}

				novel, err := dd.Admit(vector)
				if errors.Is(err, dedup.ErrZeroNorm) {
					i.logger.Warn("skipping question with zero-norm embedding", "chain", chain, "chunk", chunk.ID, "question", q.Text)
					continue
				}
				if err != nil {
					return saved, fmt.Errorf("comparing question %q: %w", q.Text, err)
				}
				if !novel {
					continue
				}

				topicID, err := i.deps.Classifier.ClassifyTopic(ctx, q.Text, names, ids)
				if err != nil {
					return saved, fmt.Errorf("classifying question %q: %w", q.Text, err)
				}
				if _, ok := known[topicID]; !ok {
					topicID = core.OtherTopicID
				}

				_, err = i.deps.Questions.SaveQuestion(ctx, &core.StoredQuestionRecord{
					Chain:     chain,
					Question:  q.Text,
					Embedding: vector,
					TopicID:   topicID,
				})
				if err != nil {
					return saved, fmt.Errorf("saving question %q: %w", q.Text, err)
				}
				saved++

				// the last accepted question decides the chunk's topic
				chunk.TopicID = topicID
			}
		}
	}
	return saved, nil
}
