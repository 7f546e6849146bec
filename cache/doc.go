// Package cache provides block caches for blob reads.
//
// Published sites are read-heavy: the same search index, manifest and
// popular pages are fetched over and over while a site is served. A
// BlockCache in front of a remote blobstore keeps those hot blocks
// close.
//
// Two implementations are provided:
//
//   - ShardedLRU: an in-memory LRU split across 64 shards so concurrent
//     readers rarely contend on the same mutex. Cached bytes are
//     accounted against a resource.Controller when one is configured.
//   - Disk: a persistent cache for cloud stores. Blocks survive
//     restarts, writes happen in the background bounded by a semaphore,
//     and the index is rebuilt from a directory scan on startup.
//
// Wrap a store with blobstore.NewCachingStore to put a cache in front
// of it.
package cache
