package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRepository(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	cursors := repos.Cursors

	t.Run("unknown source is zero", func(t *testing.T) {
		line, err := cursors.GetCursor(ctx, "acme", "missing")
		require.NoError(t, err)
		assert.Equal(t, 0, line)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, cursors.SetCursor(ctx, "acme", "doc-1", 150))
		line, err := cursors.GetCursor(ctx, "acme", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 150, line)
	})

	t.Run("overwrite is idempotent", func(t *testing.T) {
		require.NoError(t, cursors.SetCursor(ctx, "acme", "doc-2", 10))
		require.NoError(t, cursors.SetCursor(ctx, "acme", "doc-2", 10))
		line, err := cursors.GetCursor(ctx, "acme", "doc-2")
		require.NoError(t, err)
		assert.Equal(t, 10, line)
	})

	t.Run("chains are independent", func(t *testing.T) {
		require.NoError(t, cursors.SetCursor(ctx, "other", "doc-1", 7))
		line, err := cursors.GetCursor(ctx, "acme", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 150, line)
	})

	t.Run("negative rejected", func(t *testing.T) {
		assert.Error(t, cursors.SetCursor(ctx, "acme", "doc-3", -1))
	})

	t.Run("list by chain", func(t *testing.T) {
		list, err := cursors.ListCursors(ctx, "acme")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "doc-1", list[0].SourceID)
		assert.Equal(t, 150, list[0].LastLineProcessed)
		assert.Equal(t, "doc-2", list[1].SourceID)
		assert.False(t, list[0].UpdatedAt.IsZero())
	})
}
