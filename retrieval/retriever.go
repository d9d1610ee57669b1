package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/faqtory/ai"
	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

// DefaultTopK is the number of chunks returned when a query doesn't set TopK.
const DefaultTopK = 6

// Retriever embeds queries and searches the vector store.
type Retriever struct {
	vectors      storage.VectorStore
	embedder     ai.Embedder
	answerer     ai.Answerer
	keywordBoost float32
	logger       *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "retriever")
		return nil
	}
}

// WithKeywordBoost adds boost to the score of every result whose text
// contains all keywords of the query, then re-sorts. Zero disables it.
func WithKeywordBoost(boost float32) Option {
	return func(r *Retriever) error {
		r.keywordBoost = boost
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(vectors storage.VectorStore, provider ai.AIProvider, opts ...Option) (*Retriever, error) {
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		vectors:  vectors,
		embedder: provider.Embedder(),
		answerer: provider.Answerer(),
		logger:   slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Banner returns query prefixed with the chain context line used for embedding.
func Banner(chain, query string) string {
	return fmt.Sprintf("This is regarding %s.\n%s", chain, query)
}

// Query runs every query against the vector store.
func (r *Retriever) Query(ctx context.Context, chain string, queries []core.Query) ([]core.QueryResult, error) {
	return r.QueryWithMonitor(ctx, chain, queries, nil)
}

// QueryWithMonitor is Query with callbacks at each stage.
// All query texts are embedded in one call.
func (r *Retriever) QueryWithMonitor(ctx context.Context, chain string, queries []core.Query, monitor Monitor) ([]core.QueryResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(chain, queries)

	if len(queries) == 0 {
		results := []core.QueryResult{}
		monitor.Finish(results)
		return results, nil
	}

	texts := make([]string, len(queries))
	for i, q := range queries {
		if strings.TrimSpace(q.Query) == "" {
			return nil, fmt.Errorf("%w: query %d", ErrEmptyQuery, i)
		}
		texts[i] = Banner(chain, q.Query)
	}

	embeddings, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		r.logger.Error("error embedding queries", "chain", chain, "count", len(texts), "err", err)
		return nil, fmt.Errorf("embedding queries: %w", err)
	}
	if len(embeddings) != len(queries) {
		return nil, fmt.Errorf("%w: got %d vectors for %d queries", ErrEmbeddingCount, len(embeddings), len(queries))
	}
	monitor.AfterEmbedding(texts)

	withEmbeddings := make([]core.QueryWithEmbedding, len(queries))
	for i, q := range queries {
		if q.TopK <= 0 {
			q.TopK = DefaultTopK
		}
		withEmbeddings[i] = core.QueryWithEmbedding{Query: q, Embedding: embeddings[i]}
	}

	results, err := r.vectors.Query(ctx, withEmbeddings)
	if err != nil {
		r.logger.Error("error searching vector store", "chain", chain, "err", err)
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	monitor.AfterSearch(results)

	if r.keywordBoost != 0 {
		for i := range results {
			r.boost(&results[i])
		}
	}

	monitor.Finish(results)
	return results, nil
}

func (r *Retriever) boost(result *core.QueryResult) {
	for i := range result.Results {
		if containsAllKeywords(result.Results[i].Text, result.Query) {
			result.Results[i].Score += r.keywordBoost
		}
	}
	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].Score > result.Results[j].Score
	})
}

// Answer is the reply to a question together with the chunks it was drawn from.
type Answer struct {
	Question string
	Answer   string
	Sources  []core.ChunkMatch
}

// Ask retrieves chunks for a single question and has the answerer reply
// from their text.
func (r *Retriever) Ask(ctx context.Context, chain string, query core.Query) (*Answer, error) {
	return r.AskWithMonitor(ctx, chain, query, nil)
}

// AskWithMonitor is Ask with callbacks at each stage.
func (r *Retriever) AskWithMonitor(ctx context.Context, chain string, query core.Query, monitor Monitor) (*Answer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	results, err := r.QueryWithMonitor(ctx, chain, []core.Query{query}, monitor)
	if err != nil {
		return nil, err
	}

	var sources []core.ChunkMatch
	if len(results) > 0 {
		sources = results[0].Results
	}
	chunks := make([]string, len(sources))
	for i, s := range sources {
		chunks[i] = s.Text
	}

	question := fmt.Sprintf("This is a question regarding %s.\n%s", chain, query.Query)
	monitor.BeforeAnswer(question, sources)

	reply, err := r.answerer.Answer(ctx, question, chunks)
	if err != nil {
		r.logger.Error("error answering question", "chain", chain, "err", err)
		return nil, fmt.Errorf("answering question: %w", err)
	}

	return &Answer{
		Question: query.Query,
		Answer:   reply,
		Sources:  sources,
	}, nil
}
