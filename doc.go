// Package docdex builds cross-reference indexes and publishable search
// indexes for rendered documentation sites.
//
// Docdex walks a declaration tree once and produces an immutable snapshot
// with production-ready features including:
//
//   - Canonical path table for every reachable definition (first writer wins)
//   - Implementation index with an inverse trait-implementor index
//   - Forward-reference resolution for impl blocks seen before their target
//   - External location resolution for cross-unit and primitive links
//   - Privacy-filtered, deterministic search index with compact containers
//   - Lock-free published-snapshot slot for concurrent readers
//   - Bounded-concurrency page rendering with per-page failure isolation
//   - Pluggable blob stores: local disk, memory, S3, MinIO
//
// # Quick Start
//
// Build a snapshot from a documentation unit:
//
//	ctx := context.Background()
//	snap, err := docdex.Build(ctx, unit,
//	    docdex.WithAnalysis(analysis),
//	    docdex.WithSummary(summary),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
// Look up definitions and search items:
//
//	entry, ok := snap.Path(def)
//	items := snap.SearchIndex()
//
// Publish the snapshot for concurrent readers:
//
//	docdex.Publish(snap)
//	// ... elsewhere, on any goroutine:
//	snap, err := docdex.Published()
//
// Render and upload a complete site:
//
//	store, err := blobstore.NewLocalStore("./site")
//	if err != nil {
//	    panic(err)
//	}
//	report, err := docdex.PublishSite(ctx, snap, renderer, store,
//	    docdex.WithRenderWorkers(8),
//	    docdex.WithSearchCompression(search.CompressionLZ4),
//	)
//
// Pages that fail to render are reported and omitted from the site; the
// remaining pages, the search index and the manifest are still published.
//
// # Serving Published Sites
//
// Wrap a remote store with a block cache when serving a published site:
//
//	lru := cache.NewShardedLRU(256<<20, nil)
//	cached := blobstore.NewCachingStore(s3Store, lru, 0)
//
// Reads go through the cache; publishing through the same wrapped store
// invalidates the rewritten blobs.
package docdex
