package chunking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/core"
)

const (
	// DefaultChunkTokenSize is used when a caller passes a non-positive size.
	DefaultChunkTokenSize = 200

	// DefaultPoolSize bounds concurrent question extraction calls.
	DefaultPoolSize = 4
)

// Chunker splits documents into token-bounded chunks and attaches
// embedded candidate questions to each chunk.
type Chunker struct {
	embedder      ai.Embedder
	extractor     ai.QuestionExtractor
	pool          *ants.Pool
	questionCount int
	chunkOverlap  int
	logger        *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithPoolSize sets how many chunks have questions extracted concurrently.
func WithPoolSize(size int) Option {
	return func(c *Chunker) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if c.pool != nil {
			c.pool.Release()
		}
		c.pool = pool
		return nil
	}
}

// WithQuestionCount sets how many questions are requested per chunk.
func WithQuestionCount(n int) Option {
	return func(c *Chunker) error {
		if n < 1 {
			return ErrInvalidQuestionCount
		}
		c.questionCount = n
		return nil
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks, in approximate tokens.
func WithChunkOverlap(tokens int) Option {
	return func(c *Chunker) error {
		if tokens < 0 {
			tokens = 0
		}
		c.chunkOverlap = tokens
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "chunker")
		return nil
	}
}

// NewChunker creates a chunker backed by the given AI services.
func NewChunker(embedder ai.Embedder, extractor ai.QuestionExtractor, opts ...Option) (*Chunker, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	c := &Chunker{
		embedder:      embedder,
		extractor:     extractor,
		pool:          pool,
		questionCount: ai.DefaultQuestionCount,
		logger:        slog.Default().With("component", "chunker"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			c.Release()
			return nil, err
		}
	}
	return c, nil
}

// Release releases the worker pool.
// The chunker should not be used after calling Release.
func (c *Chunker) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// ChunkDocuments splits each document, extracts questions per chunk and embeds
// both chunk and question texts. The result maps document id to its chunks in
// text order. Documents without an id are given a random one.
//
// Chunk texts are embedded in one call and question texts in a second call.
// A question whose embedding comes back empty carries core.None().
func (c *Chunker) ChunkDocuments(ctx context.Context, docs []core.Document, chunkTokenSize int, chain string) (map[string][]*core.DocumentChunk, error) {
	if chunkTokenSize <= 0 {
		chunkTokenSize = DefaultChunkTokenSize
	}

	result := make(map[string][]*core.DocumentChunk, len(docs))
	var all []*core.DocumentChunk

	for _, doc := range docs {
		docID := doc.ID
		if docID == "" {
			docID = uuid.NewString()
		}
		texts, err := c.split(doc.Text, chunkTokenSize)
		if err != nil {
			return nil, fmt.Errorf("splitting document %s: %w", docID, err)
		}
		for _, text := range texts {
			chunk := &core.DocumentChunk{
				ID:         fmt.Sprintf("%s_%d", docID, len(result[docID])),
				DocumentID: docID,
				Chain:      chain,
				Text:       text,
				Metadata:   doc.Metadata,
			}
			result[docID] = append(result[docID], chunk)
			all = append(all, chunk)
		}
		if _, ok := result[docID]; !ok {
			result[docID] = []*core.DocumentChunk{}
		}
	}

	if len(all) == 0 {
		return result, nil
	}

	if err := c.extractQuestions(ctx, all); err != nil {
		return nil, err
	}
	if err := c.embed(ctx, all); err != nil {
		return nil, err
	}

	c.logger.Debug("chunked documents", "chain", chain, "documents", len(docs), "chunks", len(all))
	return result, nil
}

// split cuts text into chunks of at most size approximate tokens.
func (c *Chunker) split(text string, size int) ([]string, error) {
	overlap := c.chunkOverlap
	if overlap >= size {
		overlap = size / 2
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithLenFunc(approxTokens),
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
	)
	pieces, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks, nil
}

// approxTokens estimates the token count of s at four characters per token.
func approxTokens(s string) int {
	return (utf8.RuneCountInString(s) + 3) / 4
}

// extractQuestions fans out one extraction call per chunk on the pool.
// Each chunk's questions keep the order the extractor returned them in.
func (c *Chunker) extractQuestions(ctx context.Context, chunks []*core.DocumentChunk) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, chunk := range chunks {
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			texts, err := c.extractor.ExtractQuestions(ctx, chunk.Text, c.questionCount)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("extracting questions for chunk %s: %w", chunk.ID, err))
				mu.Unlock()
				return
			}
			questions := make([]core.Question, len(texts))
			for i, text := range texts {
				questions[i] = core.Question{Text: text}
			}
			chunk.Questions = questions
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}

	wg.Wait()
	return errors.Join(errs...)
}

// embed fills chunk embeddings and question embeddings with two batched calls.
func (c *Chunker) embed(ctx context.Context, chunks []*core.DocumentChunk) error {
	chunkTexts := make([]string, len(chunks))
	var questionTexts []string
	for i, chunk := range chunks {
		chunkTexts[i] = chunk.Text
		for _, q := range chunk.Questions {
			questionTexts = append(questionTexts, q.Text)
		}
	}

	chunkVectors, err := c.embedder.EmbedTexts(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(chunkVectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingCount, len(chunkVectors), len(chunks))
	}
	for i, chunk := range chunks {
		chunk.Embedding = chunkVectors[i]
	}

	if len(questionTexts) == 0 {
		return nil
	}

	questionVectors, err := c.embedder.EmbedTexts(ctx, questionTexts)
	if err != nil {
		return fmt.Errorf("embedding questions: %w", err)
	}
	if len(questionVectors) != len(questionTexts) {
		return fmt.Errorf("%w: got %d vectors for %d questions", ErrEmbeddingCount, len(questionVectors), len(questionTexts))
	}

	next := 0
	for _, chunk := range chunks {
		for i := range chunk.Questions {
			chunk.Questions[i].Embedding = core.Some(questionVectors[next])
			next++
		}
	}
	return nil
}
