package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGet_RoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, Entry{
		SourcePath:  "content/about.md",
		ContentHash: "abc123",
		OutputPath:  "public/about/index.html",
	}))

	got, ok, err := store.Get(ctx, "content/about.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc123", got.ContentHash)
	require.Equal(t, "public/about/index.html", got.OutputPath)
	require.False(t, got.RenderedAt.IsZero())
}

func TestGet_Missing_ReturnsNotFound(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	_, ok, err := store.Get(context.Background(), "nope.md")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPut_Upserts(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, Entry{SourcePath: "a.md", ContentHash: "h1", OutputPath: "o1"}))
	require.NoError(t, store.Put(ctx, Entry{SourcePath: "a.md", ContentHash: "h2", OutputPath: "o2"}))

	got, ok, err := store.Get(ctx, "a.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "h2", got.ContentHash)
	require.Equal(t, "o2", got.OutputPath)
}

func TestPruneMissing_RemovesStaleEntries(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, Entry{SourcePath: "keep.md", ContentHash: "h", OutputPath: "keep/index.html"}))
	require.NoError(t, store.Put(ctx, Entry{SourcePath: "gone.md", ContentHash: "h", OutputPath: "gone/index.html"}))

	stale, err := store.PruneMissing(ctx, map[string]struct{}{"keep.md": {}})
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, "gone.md", stale[0].SourcePath)
	require.Equal(t, "gone/index.html", stale[0].OutputPath)

	_, ok, err := store.Get(ctx, "gone.md")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.Get(ctx, "keep.md")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), Entry{SourcePath: "a.md", ContentHash: "h", OutputPath: "o"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	_, ok, err := reopened.Get(context.Background(), "a.md")
	require.NoError(t, err)
	require.True(t, ok)
}
