package faqtory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/faqtory/ai/mock"
	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/reembed"
	"github.com/poiesic/faqtory/storage/chromem"
	"github.com/poiesic/faqtory/storage/redis"
)

func transcript(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&b, "Line %d: the customer asked how to reset the password on the billing portal.\n", i)
	}
	return b.String()
}

func TestOpen(t *testing.T) {
	t.Run("in memory with mock provider", func(t *testing.T) {
		f, err := Open("", InMemory(), WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer f.Close()

		assert.NotNil(t, f.Cursors())
		assert.NotNil(t, f.Questions())
		assert.NotNil(t, f.Topics())
		assert.NotNil(t, f.Vectors())
		assert.NotNil(t, f.Provider())
	})

	t.Run("on disk with default provider", func(t *testing.T) {
		dir := t.TempDir()
		f, err := Open(filepath.Join(dir, "db"), WithVectorPath(filepath.Join(dir, "vectors")))
		require.NoError(t, err)
		assert.NoError(t, f.Close())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		f, err := Open(tmpFile, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, f)
	})
}

func TestFaqtory_EndToEnd(t *testing.T) {
	ctx := context.Background()
	provider := mock.NewMockProvider()
	f, err := Open("", InMemory(), WithAIProvider(provider))
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Topics().PutTopics(ctx, &core.Topic{ID: "acct", Name: "Accounts"}))

	ingester, err := f.NewIngester()
	require.NoError(t, err)
	docIDs, err := ingester.Ingest(ctx, "acme", []core.Document{
		{ID: "support-log", Text: transcript(120), Metadata: core.DocumentMetadata{Source: core.SourceFile}},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"support-log"}, docIDs)

	cursor, err := f.Cursors().GetCursor(ctx, "acme", "support-log")
	require.NoError(t, err)
	assert.Equal(t, 120, cursor)

	questions, err := f.Questions().ListQuestions(ctx, "acme")
	require.NoError(t, err)
	assert.NotEmpty(t, questions)
	assert.Positive(t, f.Vectors().Count())

	retriever, err := f.NewRetriever()
	require.NoError(t, err)
	results, err := retriever.Query(ctx, "acme", []core.Query{{Query: "How do I reset my password?"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Results)

	answer, err := retriever.Ask(ctx, "acme", core.Query{Query: "How do I reset my password?"})
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Answer)

	reembedder, err := f.NewReembedder(reembed.DefaultConfig(), nil)
	require.NoError(t, err)
	n, err := reembedder.Run(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, len(questions), n)
}

func TestFaqtory_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	open := func() *Faqtory {
		f, err := Open(filepath.Join(dir, "db"),
			WithAIProvider(mock.NewMockProvider()),
			WithVectorPath(filepath.Join(dir, "vectors"), chromem.WithCollection("test")))
		require.NoError(t, err)
		return f
	}

	f := open()
	ingester, err := f.NewIngester()
	require.NoError(t, err)
	_, err = ingester.Ingest(ctx, "acme", []core.Document{{ID: "log", Text: transcript(100)}}, 0)
	require.NoError(t, err)
	count := f.Vectors().Count()
	require.NoError(t, f.Close())

	f = open()
	defer f.Close()
	cursor, err := f.Cursors().GetCursor(ctx, "acme", "log")
	require.NoError(t, err)
	assert.Equal(t, 100, cursor)
	assert.Equal(t, count, f.Vectors().Count())
}

func TestDefaultVectorPath(t *testing.T) {
	tests := []struct {
		dbPath string
		want   string
	}{
		{"faqtory.db", "faqtory.vectors"},
		{filepath.Join("data", "store"), filepath.Join("data", "store.vectors")},
		{"faqtory.vectors", "faqtory.vectors.vectors"},
	}
	for _, tt := range tests {
		t.Run(tt.dbPath, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultVectorPath(tt.dbPath))
		})
	}
}

func TestFaqtory_OnDiskDatabaseKeepsChunksByDefault(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "faqtory.db")
	open := func() *Faqtory {
		f, err := Open(dbPath, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		return f
	}

	f := open()
	ingester, err := f.NewIngester()
	require.NoError(t, err)
	_, err = ingester.Ingest(ctx, "acme", []core.Document{{ID: "log", Text: transcript(100)}}, 0)
	require.NoError(t, err)
	count := f.Vectors().Count()
	require.Positive(t, count)
	require.NoError(t, f.Close())

	assert.DirExists(t, DefaultVectorPath(dbPath))

	f = open()
	defer f.Close()
	cursor, err := f.Cursors().GetCursor(ctx, "acme", "log")
	require.NoError(t, err)
	assert.Equal(t, 100, cursor)
	assert.Equal(t, count, f.Vectors().Count(), "chunks survive alongside the cursor")
}

func TestFaqtory_RedisTopics(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	topics, err := redis.NewTopicRepository(client, redis.WithOwnedClient())
	require.NoError(t, err)

	f, err := Open("", InMemory(), WithAIProvider(mock.NewMockProvider()), WithTopicRepository(topics))
	require.NoError(t, err)

	require.NoError(t, f.Topics().PutTopics(ctx, &core.Topic{ID: "fees", Name: "Fees"}))
	assert.True(t, server.Exists(redis.DefaultTopicsKey))

	require.NoError(t, f.Close())
	assert.Error(t, client.Ping(ctx).Err(), "owned client is closed with the faqtory")
}
