package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/storage"
)

func TestQuestionRepository_SaveAndGet(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	questions := repos.Questions

	saved, err := questions.SaveQuestion(ctx, &core.StoredQuestionRecord{
		Chain:     "acme",
		Question:  "How do I reset my password?",
		Embedding: []float32{0.1, 0.2},
		TopicID:   "account",
	})
	require.NoError(t, err)
	assert.False(t, saved.InsertedAt.IsZero())
	assert.Equal(t, saved.InsertedAt, saved.UpdatedAt)

	got, err := questions.GetQuestion(ctx, "acme", "How do I reset my password?")
	require.NoError(t, err)
	assert.Equal(t, "account", got.TopicID)
	assert.Equal(t, []float32{0.1, 0.2}, got.Embedding)

	_, err = questions.GetQuestion(ctx, "other", "How do I reset my password?")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQuestionRepository_ResaveOverwrites(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	questions := repos.Questions

	first, err := questions.SaveQuestion(ctx, &core.StoredQuestionRecord{
		Chain: "acme", Question: "What is the refund policy?", TopicID: "billing", Answer: "30 days",
	})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	second, err := questions.SaveQuestion(ctx, &core.StoredQuestionRecord{
		Chain: "acme", Question: "What is the refund policy?", TopicID: "other",
	})
	require.NoError(t, err)

	assert.True(t, first.InsertedAt.Equal(second.InsertedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	list, err := questions.ListQuestions(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "other", list[0].TopicID)
	assert.Empty(t, list[0].Answer)
}

func TestQuestionRepository_Validation(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	_, err = repos.Questions.SaveQuestion(context.Background(), &core.StoredQuestionRecord{Chain: "acme"})
	assert.ErrorIs(t, err, core.ErrInvalidQuestionRecord)
}

func TestQuestionRepository_ListAndEmbeddings(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	questions := repos.Questions

	records := []*core.StoredQuestionRecord{
		{Chain: "acme", Question: "q1?", Embedding: []float32{1, 0}},
		{Chain: "acme", Question: "q2?", Embedding: []float32{0, 1}},
		{Chain: "acme", Question: "q3?"},
		{Chain: "acme-eu", Question: "q4?", Embedding: []float32{1, 1}},
	}
	for _, r := range records {
		_, err := questions.SaveQuestion(ctx, r)
		require.NoError(t, err)
	}

	list, err := questions.ListQuestions(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	embeddings, err := questions.ListEmbeddings(ctx, "acme")
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]float32{{1, 0}, {0, 1}}, embeddings)

	empty, err := questions.ListEmbeddings(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestQuestionRepository_Delete(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	questions := repos.Questions

	_, err = questions.SaveQuestion(ctx, &core.StoredQuestionRecord{Chain: "acme", Question: "q?"})
	require.NoError(t, err)

	require.NoError(t, questions.DeleteQuestion(ctx, "acme", "q?"))
	assert.ErrorIs(t, questions.DeleteQuestion(ctx, "acme", "q?"), storage.ErrNotFound)

	_, err = questions.GetQuestion(ctx, "acme", "q?")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
