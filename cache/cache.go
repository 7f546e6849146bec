package cache

import "context"

// Key identifies one cached block: a blob name and a block index within
// it. Blocks are fixed size; the index is read offset divided by the
// block size of the wrapping reader.
type Key struct {
	Name  string
	Block uint64
}

// BlockCache is a byte-oriented cache for immutable blocks. Returned
// slices are shared and must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block, if present.
	Get(ctx context.Context, key Key) ([]byte, bool)

	// Set caches a block. The cache retains b; the caller must not
	// mutate it afterwards.
	Set(ctx context.Context, key Key, b []byte)

	// Invalidate removes every entry matching the predicate.
	Invalidate(pred func(Key) bool)

	// Close releases background resources and waits for pending writes.
	Close() error

	// Stats returns cumulative hit and miss counts.
	Stats() (hits, misses int64)
}
