package chunking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/faqtory/ai/mock"
	"github.com/poiesic/faqtory/core"
)

func longText(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&b, "Line %d explains how the support desk handles refund request number %d.\n", i, i)
	}
	return b.String()
}

func newTestChunker(t *testing.T, opts ...Option) (*Chunker, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider()
	c, err := NewChunker(provider.GetMockEmbedder(), provider.GetMockExtractor(), opts...)
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c, provider
}

func TestNewChunker_RequiresServices(t *testing.T) {
	provider := mock.NewMockProvider()

	_, err := NewChunker(nil, provider.GetMockExtractor())
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewChunker(provider.GetMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrExtractorRequired)

	_, err = NewChunker(provider.GetMockEmbedder(), provider.GetMockExtractor(), WithQuestionCount(0))
	assert.ErrorIs(t, err, ErrInvalidQuestionCount)
}

func TestApproxTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"héllo wörld", 3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, approxTokens(tt.in))
		})
	}
}

func TestChunkDocuments(t *testing.T) {
	c, provider := newTestChunker(t, WithPoolSize(2))
	doc := core.Document{ID: "doc", Text: longText(40), Metadata: core.DocumentMetadata{Source: core.SourceFile}}

	result, err := c.ChunkDocuments(context.Background(), []core.Document{doc}, 100, "acme")
	require.NoError(t, err)

	chunks := result["doc"]
	require.Greater(t, len(chunks), 1, "text should span several chunks")

	for i, chunk := range chunks {
		assert.Equal(t, fmt.Sprintf("doc_%d", i), chunk.ID)
		assert.Equal(t, "doc", chunk.DocumentID)
		assert.Equal(t, "acme", chunk.Chain)
		assert.Equal(t, core.SourceFile, chunk.Metadata.Source)
		assert.LessOrEqual(t, approxTokens(chunk.Text), 100)
		assert.Len(t, chunk.Embedding, mock.DefaultDimension)

		require.Len(t, chunk.Questions, 3)
		for _, q := range chunk.Questions {
			assert.True(t, q.Embedding.IsSome())
		}
	}

	// one batched call for chunks and one for questions
	assert.Equal(t, 2, provider.GetMockEmbedder().CallCount())
	assert.Equal(t, len(chunks), provider.GetMockExtractor().CallCount())
}

func TestChunkDocuments_QuestionOrderFollowsChunks(t *testing.T) {
	c, provider := newTestChunker(t, WithPoolSize(4))
	docs := []core.Document{
		{ID: "a", Text: longText(30)},
		{ID: "b", Text: longText(30)},
	}

	result, err := c.ChunkDocuments(context.Background(), docs, 80, "acme")
	require.NoError(t, err)

	// second embed call carries question texts in document, chunk, question order
	var want []string
	for _, id := range []string{"a", "b"} {
		for _, chunk := range result[id] {
			for _, q := range chunk.Questions {
				want = append(want, q.Text)
			}
		}
	}
	texts := provider.GetMockEmbedder().Texts()
	assert.Equal(t, want, texts[len(texts)-len(want):])
}

func TestChunkDocuments_AssignsMissingIDs(t *testing.T) {
	c, _ := newTestChunker(t)

	result, err := c.ChunkDocuments(context.Background(), []core.Document{{Text: longText(5)}}, 0, "acme")
	require.NoError(t, err)
	require.Len(t, result, 1)
	for id, chunks := range result {
		assert.NotEmpty(t, id)
		require.NotEmpty(t, chunks)
		assert.Equal(t, id, chunks[0].DocumentID)
	}
}

func TestChunkDocuments_EmptyDocument(t *testing.T) {
	c, provider := newTestChunker(t)

	result, err := c.ChunkDocuments(context.Background(), []core.Document{{ID: "empty", Text: "  \n\n "}}, 100, "acme")
	require.NoError(t, err)
	assert.Empty(t, result["empty"])
	assert.Contains(t, result, "empty")
	assert.Zero(t, provider.GetMockEmbedder().CallCount())
}

func TestChunkDocuments_ShortChunkHasNoQuestions(t *testing.T) {
	c, provider := newTestChunker(t)

	result, err := c.ChunkDocuments(context.Background(), []core.Document{{ID: "d", Text: "Tiny note."}}, 100, "acme")
	require.NoError(t, err)
	require.Len(t, result["d"], 1)
	assert.Empty(t, result["d"][0].Questions)
	// only chunk texts are embedded
	assert.Equal(t, 1, provider.GetMockEmbedder().CallCount())
}

func TestChunkDocuments_EmptyQuestionVectorIsNone(t *testing.T) {
	c, provider := newTestChunker(t)
	provider.GetMockExtractor().ExtractQuestionsFunc = func(ctx context.Context, text string, count int) ([]string, error) {
		return []string{"Has a vector?", "Has no vector?"}, nil
	}
	provider.GetMockEmbedder().WithVector("Has no vector?", []float32{})

	result, err := c.ChunkDocuments(context.Background(), []core.Document{{ID: "d", Text: longText(2)}}, 500, "acme")
	require.NoError(t, err)
	require.Len(t, result["d"], 1)

	questions := result["d"][0].Questions
	require.Len(t, questions, 2)
	assert.True(t, questions[0].Embedding.IsSome())
	assert.False(t, questions[1].Embedding.IsSome())
}

func TestChunkDocuments_ExtractorError(t *testing.T) {
	c, provider := newTestChunker(t)
	boom := errors.New("model unavailable")
	provider.GetMockExtractor().ExtractQuestionsFunc = func(ctx context.Context, text string, count int) ([]string, error) {
		return nil, boom
	}

	_, err := c.ChunkDocuments(context.Background(), []core.Document{{ID: "d", Text: longText(10)}}, 100, "acme")
	assert.ErrorIs(t, err, boom)
}

func TestChunkDocuments_EmbedderError(t *testing.T) {
	c, provider := newTestChunker(t)
	boom := errors.New("embedding service down")
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	_, err := c.ChunkDocuments(context.Background(), []core.Document{{ID: "d", Text: longText(10)}}, 100, "acme")
	assert.ErrorIs(t, err, boom)
}

func TestChunkDocuments_EmbeddingCountMismatch(t *testing.T) {
	c, provider := newTestChunker(t)
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{}, nil
	}

	_, err := c.ChunkDocuments(context.Background(), []core.Document{{ID: "d", Text: longText(10)}}, 100, "acme")
	assert.ErrorIs(t, err, ErrEmbeddingCount)
}
