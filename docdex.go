package docdex

import (
	"context"
	"time"

	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/xref"
)

// Build runs the indexing pipeline over one documentation unit and returns
// the frozen snapshot: crawl the declaration tree, retry orphaned impl
// blocks once, resolve external locations, then freeze.
//
// The unit's declaration tree must not be mutated while Build runs.
func Build(ctx context.Context, unit *decl.Unit, optFns ...Option) (*xref.Snapshot, error) {
	o := applyOptions(optFns)
	start := time.Now()

	snap, err := build(ctx, unit, o)
	o.metricsCollector.RecordBuild(time.Since(start), err)
	if err != nil {
		return nil, translateError(err)
	}
	return snap, nil
}

func build(ctx context.Context, unit *decl.Unit, o options) (*xref.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := xref.NewBuilder()

	if o.analysis != nil {
		if err := b.SeedAnalysis(o.analysis); err != nil {
			return nil, err
		}
	}
	if o.summary != nil {
		b.SetSummary(o.summary)
	}
	if o.includeSources != nil {
		b.SetIncludeSources(*o.includeSources)
	}

	if err := b.Crawl(unit); err != nil {
		o.logger.LogCrawl(ctx, unitName(unit), b.Stats(), err)
		return nil, err
	}
	o.logger.LogCrawl(ctx, unitName(unit), b.Stats(), nil)

	resolved, dropped := b.FlushOrphans()
	o.logger.LogOrphanFlush(ctx, resolved, dropped)
	o.metricsCollector.RecordOrphanFlush(resolved, dropped)

	if err := b.ResolveLocations(unit, o.locator); err != nil {
		return nil, err
	}

	snap, err := b.Freeze()
	if err != nil {
		return nil, err
	}
	o.logger.LogFreeze(ctx, snap.UnitName(), snap.Len(), len(snap.SearchIndex()))

	return snap, nil
}

// BuildAndPublish builds a snapshot and installs it in the process-wide
// published slot. Readers holding earlier snapshots are unaffected.
func BuildAndPublish(ctx context.Context, unit *decl.Unit, optFns ...Option) (*xref.Snapshot, error) {
	snap, err := Build(ctx, unit, optFns...)
	if err != nil {
		return nil, err
	}
	xref.Publish(snap)
	return snap, nil
}

// Publish atomically replaces the process-wide published snapshot.
// Publish(nil) clears the slot.
func Publish(snap *xref.Snapshot) {
	xref.Publish(snap)
}

// Published returns the currently published snapshot, or ErrNoSnapshot when
// nothing has been published yet.
func Published() (*xref.Snapshot, error) {
	snap, ok := xref.Published()
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func unitName(unit *decl.Unit) string {
	if unit == nil {
		return ""
	}
	return unit.Name
}
