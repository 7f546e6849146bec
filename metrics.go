package docdex

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    buildCounter     prometheus.Counter
//	    publishHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordBuild(duration time.Duration, err error) {
//	    p.buildCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordBuild is called after each snapshot build.
	// duration is the total pipeline time, err is nil if successful.
	RecordBuild(duration time.Duration, err error)

	// RecordOrphanFlush is called after the orphaned impl retry pass.
	// resolved impls made it into the index, dropped ones were discarded.
	RecordOrphanFlush(resolved, dropped int)

	// RecordRender is called after each site render pass.
	// pages is the number written, failed the number omitted.
	RecordRender(pages, failed int, duration time.Duration)

	// RecordPublish is called after each PublishSite call.
	RecordPublish(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(time.Duration, error)     {}
func (NoopMetricsCollector) RecordOrphanFlush(int, int)           {}
func (NoopMetricsCollector) RecordRender(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordPublish(time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount        atomic.Int64
	BuildErrors       atomic.Int64
	BuildTotalNanos   atomic.Int64
	OrphansResolved   atomic.Int64
	OrphansDropped    atomic.Int64
	RenderCount       atomic.Int64
	PagesRendered     atomic.Int64
	PageFailures      atomic.Int64
	PublishCount      atomic.Int64
	PublishErrors     atomic.Int64
	PublishTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordOrphanFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOrphanFlush(resolved, dropped int) {
	b.OrphansResolved.Add(int64(resolved))
	b.OrphansDropped.Add(int64(dropped))
}

// RecordRender implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRender(pages, failed int, duration time.Duration) {
	b.RenderCount.Add(1)
	b.PagesRendered.Add(int64(pages))
	b.PageFailures.Add(int64(failed))
}

// RecordPublish implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPublish(duration time.Duration, err error) {
	b.PublishCount.Add(1)
	b.PublishTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PublishErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:      b.BuildCount.Load(),
		BuildErrors:     b.BuildErrors.Load(),
		BuildAvgNanos:   b.getAvgBuildNanos(),
		OrphansResolved: b.OrphansResolved.Load(),
		OrphansDropped:  b.OrphansDropped.Load(),
		RenderCount:     b.RenderCount.Load(),
		PagesRendered:   b.PagesRendered.Load(),
		PageFailures:    b.PageFailures.Load(),
		PublishCount:    b.PublishCount.Load(),
		PublishErrors:   b.PublishErrors.Load(),
		PublishAvgNanos: b.getAvgPublishNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgBuildNanos() int64 {
	count := b.BuildCount.Load()
	if count == 0 {
		return 0
	}
	return b.BuildTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgPublishNanos() int64 {
	count := b.PublishCount.Load()
	if count == 0 {
		return 0
	}
	return b.PublishTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount      int64
	BuildErrors     int64
	BuildAvgNanos   int64
	OrphansResolved int64
	OrphansDropped  int64
	RenderCount     int64
	PagesRendered   int64
	PageFailures    int64
	PublishCount    int64
	PublishErrors   int64
	PublishAvgNanos int64
}
