package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/docdex/cache"
)

// DefaultBlockSize is the cache block size used when none is given.
// Remote round trips dominate read cost, so blocks are sized well above
// a disk page.
const DefaultBlockSize = 64 * 1024

// CachingStore wraps a BlobStore with a block-level read cache. Writes
// pass through and invalidate the written name, so publishing through a
// caching store stays coherent.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore wraps inner with bc. A blockSize <= 0 selects
// DefaultBlockSize.
func NewCachingStore(inner BlobStore, bc cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &CachingStore{inner: inner, cache: bc, blockSize: blockSize}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{inner: b, cache: s.cache, name: name, blockSize: s.blockSize}, nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key cache.Key) bool { return key.Name == name })
}

// cachingBlob serves block-aligned reads out of the cache, fetching
// contiguous runs of missing blocks in single backend reads.
type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.inner.Size()
	if off >= size {
		return 0, io.EOF
	}
	want := len(p)
	if rem := size - off; int64(want) > rem {
		want = int(rem)
	}
	if want == 0 {
		return 0, nil
	}

	first := off / b.blockSize
	last := (off + int64(want) - 1) / b.blockSize
	if err := b.fill(ctx, first, last); err != nil {
		return 0, err
	}

	read := 0
	for blk := first; blk <= last; blk++ {
		data, err := b.block(ctx, blk)
		if err != nil {
			return read, err
		}
		srcOff := int64(0)
		if start := blk * b.blockSize; off > start {
			srcOff = off - start
		}
		if srcOff >= int64(len(data)) {
			break
		}
		read += copy(p[read:want], data[srcOff:])
	}
	if read < len(p) {
		return read, io.EOF
	}
	return read, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= b.inner.Size() {
		return nil, io.EOF
	}
	return io.NopCloser(&blockSectionReader{blob: b, ctx: ctx, off: off, limit: off + length}), nil
}

// fill fetches the blocks missing from [first, last], coalescing
// contiguous missing runs into single backend reads.
func (b *cachingBlob) fill(ctx context.Context, first, last int64) error {
	type run struct{ start, count int64 }
	var missing []run

	cur := run{start: -1}
	for blk := first; blk <= last; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); ok {
			if cur.start >= 0 {
				missing = append(missing, cur)
				cur = run{start: -1}
			}
			continue
		}
		if cur.start < 0 {
			cur = run{start: blk, count: 1}
		} else {
			cur.count++
		}
	}
	if cur.start >= 0 {
		missing = append(missing, cur)
	}
	if len(missing) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for _, r := range missing {
		g.Go(func() error {
			return b.fetchRun(ctx, r.start, r.count)
		})
	}
	return g.Wait()
}

// fetchRun reads count blocks starting at start in one backend call and
// caches them block by block.
func (b *cachingBlob) fetchRun(ctx context.Context, start, count int64) error {
	byteStart := start * b.blockSize
	byteLen := count * b.blockSize
	if size := b.inner.Size(); byteStart+byteLen > size {
		byteLen = size - byteStart
	}
	if byteLen <= 0 {
		return nil
	}

	buf := make([]byte, byteLen)
	n, err := b.inner.ReadAt(ctx, buf, byteStart)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	for i := int64(0); i < count; i++ {
		lo := i * b.blockSize
		if lo >= int64(n) {
			break
		}
		hi := min(lo+b.blockSize, int64(n))
		// Copy so the cache never pins the whole run buffer.
		block := make([]byte, hi-lo)
		copy(block, buf[lo:hi])
		b.cache.Set(ctx, b.key(start+i), block)
	}
	return nil
}

// block returns one block, from the cache or straight from the backend.
func (b *cachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	if data, ok := b.cache.Get(ctx, b.key(blk)); ok {
		return data, nil
	}

	buf := make([]byte, b.blockSize)
	n, err := b.inner.ReadAt(ctx, buf, blk*b.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	data := buf[:n]
	if n > 0 {
		b.cache.Set(ctx, b.key(blk), data)
	}
	return data, nil
}

func (b *cachingBlob) key(block int64) cache.Key {
	return cache.Key{Name: b.name, Block: uint64(block)}
}

// blockSectionReader adapts the cached ReadAt to a bounded io.Reader.
type blockSectionReader struct {
	blob  *cachingBlob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *blockSectionReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if rem := r.limit - r.off; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	return n, err
}
