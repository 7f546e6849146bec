package blobstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "demo/index.html", []byte("root")))

	w, err := store.Create(ctx, "demo/m/index.html")
	require.NoError(t, err)
	_, err = w.Write([]byte("module"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "demo/")
	require.NoError(t, err)
	assert.Equal(t, []string{"demo/index.html", "demo/m/index.html"}, names)

	got, err := ReadAll(ctx, store, "demo/m/index.html")
	require.NoError(t, err)
	assert.Equal(t, "module", string(got))

	require.NoError(t, store.Delete(ctx, "demo/index.html"))
	_, err = store.Open(ctx, "demo/index.html")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_OpenIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("immutable")
	require.NoError(t, store.Put(ctx, "blob", data))

	// Mutating the original buffer must not leak into the store.
	data[0] = 'X'
	got, err := ReadAll(ctx, store, "blob")
	require.NoError(t, err)
	assert.Equal(t, "immutable", string(got))

	// Reads past the end behave like files.
	blob, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer blob.Close()

	_, err = blob.ReadRange(ctx, int64(len(data)+1), 1)
	assert.ErrorIs(t, err, io.EOF)
}
