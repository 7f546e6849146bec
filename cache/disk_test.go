package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisk_SetGet(t *testing.T) {
	ctx := context.Background()
	c, err := NewDisk(DiskConfig{Dir: t.TempDir(), MaxBytes: 1 << 20})
	require.NoError(t, err)

	key := Key{Name: "demo/index.html", Block: 0}
	c.Set(ctx, key, []byte("<html>"))
	require.NoError(t, c.Close()) // Wait for the background write.

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte("<html>"), got)
	assert.FileExists(t, c.blockPath(key))

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Zero(t, misses)
}

func TestDisk_RebuildIndex(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewDisk(DiskConfig{Dir: dir, MaxBytes: 1 << 20})
	require.NoError(t, err)
	first.Set(ctx, Key{Name: "search-index.bin", Block: 3}, []byte("hello"))
	require.NoError(t, first.Close())

	// A fresh cache over the same directory finds the block again.
	second, err := NewDisk(DiskConfig{Dir: dir, MaxBytes: 1 << 20})
	require.NoError(t, err)
	got, ok := second.Get(ctx, Key{Name: "search-index.bin", Block: 3})
	require.True(t, ok)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, int64(5), second.Size())
}

func TestDisk_Eviction(t *testing.T) {
	ctx := context.Background()
	c, err := NewDisk(DiskConfig{Dir: t.TempDir(), MaxBytes: 8})
	require.NoError(t, err)

	a := Key{Name: "a", Block: 0}
	c.Set(ctx, a, []byte("aaaa"))
	require.NoError(t, c.Close())
	c.Set(ctx, Key{Name: "b", Block: 0}, []byte("bbbb"))
	require.NoError(t, c.Close())
	c.Set(ctx, Key{Name: "d", Block: 0}, []byte("dddd"))
	require.NoError(t, c.Close())

	assert.LessOrEqual(t, c.Size(), int64(8))

	// The least recently used block lost its file as well as its entry.
	_, ok := c.Get(ctx, a)
	assert.False(t, ok)
	assert.NoFileExists(t, c.blockPath(a))

	_, ok = c.Get(ctx, Key{Name: "b", Block: 0})
	assert.True(t, ok)
	_, ok = c.Get(ctx, Key{Name: "d", Block: 0})
	assert.True(t, ok)
}

func TestDisk_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, err := NewDisk(DiskConfig{Dir: t.TempDir(), MaxBytes: 1 << 20})
	require.NoError(t, err)

	key := Key{Name: "demo/page.html", Block: 0}
	c.Set(ctx, key, []byte("stale"))
	require.NoError(t, c.Close())

	c.Invalidate(func(k Key) bool { return k.Name == "demo/page.html" })

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.NoFileExists(t, c.blockPath(key))
	assert.Zero(t, c.Size())
}

func TestDisk_EscapingNameSkipped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewDisk(DiskConfig{Dir: dir, MaxBytes: 1 << 20})
	require.NoError(t, err)

	c.Set(ctx, Key{Name: "../outside", Block: 0}, []byte("nope"))
	require.NoError(t, c.Close())

	_, ok := c.Get(ctx, Key{Name: "../outside", Block: 0})
	assert.False(t, ok)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "outside", "0.blk"))
}
