package docdex

import (
	"log/slog"

	"github.com/hupe1980/docdex/codec"
	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/resource"
	"github.com/hupe1980/docdex/search"
	"github.com/hupe1980/docdex/xref"
)

type options struct {
	codec             codec.Codec
	analysis          *decl.Analysis
	locator           xref.ExternLocator
	summary           any
	includeSources    *bool
	renderWorkers     int
	controller        *resource.Controller
	searchCompression search.Compression
	metricsCollector  MetricsCollector
	logger            *Logger
}

// Option configures Build and PublishSite behavior.
//
// Options exist to avoid exploding the API surface (e.g. codec-specific
// constructor variants).
type Option func(*options)

// WithCodec configures the codec used for manifests and the search index
// payload.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithAnalysis seeds the builder with compiler analysis results before the
// crawl: public-item markers, inlined definitions, preresolved external
// paths and external trait declarations.
func WithAnalysis(a *decl.Analysis) Option {
	return func(o *options) {
		o.analysis = a
	}
}

// WithExternLocator overrides how external units are located. The default
// locator reads each extern's root URL attribute and marks units without
// one as unknown.
//
// Example, pinning one unit to a mirrored host:
//
//	docdex.WithExternLocator(xref.ExternLocatorFunc(func(e decl.Extern) xref.ExternLocation {
//	    if e.Name == "core" {
//	        return xref.ExternLocation{Kind: xref.LocationRemote, URL: "https://mirror.internal/core/"}
//	    }
//	    return xref.DefaultLocator().Locate(e)
//	}))
func WithExternLocator(l xref.ExternLocator) Option {
	return func(o *options) {
		o.locator = l
	}
}

// WithSummary attaches an opaque unit summary to the snapshot, typically
// rendered on the root index page.
func WithSummary(v any) Option {
	return func(o *options) {
		o.summary = v
	}
}

// WithIncludeSources overrides whether pages link to source listings.
// Without this option the unit's own attributes decide.
func WithIncludeSources(v bool) Option {
	return func(o *options) {
		o.includeSources = &v
	}
}

// WithRenderWorkers bounds how many pages render concurrently during
// PublishSite. Defaults to GOMAXPROCS.
func WithRenderWorkers(n int) Option {
	return func(o *options) {
		o.renderWorkers = n
	}
}

// WithResourceController applies process-wide memory, worker and IO budgets
// to PublishSite. Pass nil for unlimited.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:  256 << 20,
//	    MaxRenderWorkers:  8,
//	    IOLimitBytesPerSec: 32 << 20,
//	})
//	report, _ := docdex.PublishSite(ctx, snap, renderer, store,
//	    docdex.WithResourceController(rc))
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithSearchCompression selects the search index payload compression.
// Defaults to search.CompressionNone; LZ4 keeps client-side decode cheap.
func WithSearchCompression(c search.Compression) Option {
	return func(o *options) {
		o.searchCompression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// pipeline operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &docdex.BasicMetricsCollector{}
//	snap, _ := docdex.Build(ctx, unit, docdex.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Avg latency: %dns\n", stats.BuildCount, stats.BuildAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for pipeline operations.
//
// Example with JSON logging:
//
//	logger := docdex.NewJSONLogger(slog.LevelInfo)
//	snap, _ := docdex.Build(ctx, unit, docdex.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:             codec.Default,
		searchCompression: search.CompressionNone,
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
