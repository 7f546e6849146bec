package cache

import (
	"container/list"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DiskConfig configures a disk cache.
type DiskConfig struct {
	// Dir is the directory holding cached blocks.
	Dir string

	// MaxBytes caps the total size of cached blocks.
	MaxBytes int64

	// MaxConcurrentWrites bounds background writes. Defaults to 16.
	MaxConcurrentWrites int64
}

// Disk is a persistent block cache for cloud stores. Blocks survive
// restarts, writes happen in the background so they never block the
// read path, and the index is rebuilt from a directory scan on startup.
type Disk struct {
	mu    sync.Mutex
	dir   string
	max   int64
	size  int64
	items map[Key]*list.Element
	lru   *list.List

	writeSem *semaphore.Weighted
	wg       sync.WaitGroup

	hits   atomic.Int64
	misses atomic.Int64
}

type diskEntry struct {
	key  Key
	size int64
	path string
}

// NewDisk creates a disk cache rooted at cfg.Dir, creating the
// directory if needed and indexing any blocks a previous process left
// behind.
func NewDisk(cfg DiskConfig) (*Disk, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	writes := cfg.MaxConcurrentWrites
	if writes <= 0 {
		writes = 16
	}

	c := &Disk{
		dir:      cfg.Dir,
		max:      cfg.MaxBytes,
		items:    make(map[Key]*list.Element),
		lru:      list.New(),
		writeSem: semaphore.NewWeighted(writes),
	}
	c.scan()
	return c, nil
}

// Get returns a cached block. An entry whose file vanished underneath
// the index is dropped and reported as a miss.
func (c *Disk) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	elem, ok := c.items[key]
	var path string
	if ok {
		c.lru.MoveToFront(elem)
		path = elem.Value.(*diskEntry).path
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.mu.Lock()
		if elem, ok := c.items[key]; ok {
			c.removeElement(elem)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return data, true
}

// Set caches a block. The write happens in the background; when the
// write queue is full the block is dropped, this is a cache, not a
// store. Blocks are immutable, so setting an existing key only
// refreshes its recency.
func (c *Disk) Set(_ context.Context, key Key, b []byte) {
	// A name that would escape the cache root is never cached.
	if key.Name != "" && !filepath.IsLocal(filepath.FromSlash(key.Name)) {
		return
	}

	c.mu.Lock()
	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		c.mu.Unlock()
		return
	}
	size := int64(len(b))
	if size > c.max {
		c.mu.Unlock()
		return
	}
	for c.size+size > c.max && c.lru.Back() != nil {
		c.removeFile(c.lru.Back())
	}
	c.mu.Unlock()

	if !c.writeSem.TryAcquire(1) {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.writeSem.Release(1)
		c.write(key, b)
	}()
}

// write lands the block via a temp file rename and indexes it only
// afterwards, so a concurrent Get either misses or sees a complete
// file.
func (c *Disk) write(key Key, b []byte) {
	dst := c.blockPath(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "blk-*")
	if err != nil {
		return
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return
	}
	if err := tmp.Close(); err != nil {
		return
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	size := int64(len(b))
	for c.size+size > c.max && c.lru.Back() != nil {
		c.removeFile(c.lru.Back())
	}
	c.push(key, dst, size)
}

// Invalidate removes matching entries together with their files.
func (c *Disk) Invalidate(pred func(Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var drop []*list.Element
	for key, elem := range c.items {
		if pred(key) {
			drop = append(drop, elem)
		}
	}
	for _, elem := range drop {
		c.removeFile(elem)
	}
}

// Close waits for pending background writes.
func (c *Disk) Close() error {
	c.wg.Wait()
	return nil
}

// Stats returns cumulative hit and miss counts.
func (c *Disk) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the indexed bytes on disk.
func (c *Disk) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// scan rebuilds the index from blocks left by a previous process.
func (c *Disk) scan() {
	_ = filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if key, ok := c.keyFromPath(path); ok {
			c.push(key, path, info.Size())
		}
		return nil
	})
}

// blockPath maps a key to <dir>/<name>/<block>.blk, reusing the blob
// name as the directory structure.
func (c *Disk) blockPath(key Key) string {
	name := key.Name
	if name == "" {
		name = "_unnamed"
	}
	file := strconv.FormatUint(key.Block, 10) + ".blk"
	return filepath.Join(c.dir, filepath.FromSlash(name), file)
}

func (c *Disk) keyFromPath(path string) (Key, bool) {
	rel, err := filepath.Rel(c.dir, path)
	if err != nil {
		return Key{}, false
	}

	dir, file := filepath.Split(rel)
	num, ok := strings.CutSuffix(file, ".blk")
	if !ok {
		return Key{}, false
	}
	block, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return Key{}, false
	}

	name := filepath.ToSlash(strings.TrimSuffix(dir, string(filepath.Separator)))
	if name == "_unnamed" {
		name = ""
	}
	return Key{Name: name, Block: block}, true
}

// push, removeElement and removeFile must be called with the lock held.

func (c *Disk) push(key Key, path string, size int64) {
	c.items[key] = c.lru.PushFront(&diskEntry{key: key, size: size, path: path})
	c.size += size
}

func (c *Disk) removeElement(elem *list.Element) {
	c.lru.Remove(elem)
	ent := elem.Value.(*diskEntry)
	delete(c.items, ent.key)
	c.size -= ent.size
}

func (c *Disk) removeFile(elem *list.Element) {
	_ = os.Remove(elem.Value.(*diskEntry).path)
	c.removeElement(elem)
}
