package xref

// FlushOrphans retries every impl block whose target type was unknown
// when the block was crawled. Forward references resolve here because
// the path table is complete once the crawl ends. The flush runs exactly
// once per build: a target still missing now can never appear later, so
// its impls are dropped and counted rather than retried again.
func (b *Builder) FlushOrphans() (resolved, dropped int) {
	if b.frozen {
		return 0, 0
	}
	for _, o := range b.orphans {
		if _, known := b.paths[o.target]; known {
			b.recordImpl(o.target, o.rec)
			resolved++
		} else {
			dropped++
		}
	}
	b.orphans = nil
	b.stats.OrphansResolved += resolved
	b.stats.OrphansDropped += dropped
	return resolved, dropped
}
