package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	ok, err := store.Exists(ctx, "1_a.pdf")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = store.Get(ctx, "1_a.pdf")
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.Put(ctx, "1_a.pdf", []byte("%PDF-1.4"), "application/pdf"))
	ok, err = store.Exists(ctx, "1_a.pdf")
	require.NoError(t, err)
	require.True(t, ok)

	data, err := store.Get(ctx, "1_a.pdf")
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Put(ctx, "1_a.pdf", []byte("%PDF-1.7"), "application/pdf"))
	data, err = store.Get(ctx, "1_a.pdf")
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, store.Delete(ctx, "1_a.pdf"))
	require.NoError(t, store.Delete(ctx, "1_a.pdf"), "deleting a missing key is tolerated")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temp files must not be left behind")
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "a/b.pdf", `a\b.pdf`} {
		require.Error(t, store.Put(context.Background(), key, []byte("x"), ""), "key %q", key)
	}
}
