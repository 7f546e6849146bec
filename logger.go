package docdex

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/docdex/xref"
)

// Logger wraps slog.Logger with docdex-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithUnit adds a unit field to the logger (useful for tagging one build).
func (l *Logger) WithUnit(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("unit", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogCrawl logs one declaration tree crawl.
func (l *Logger) LogCrawl(ctx context.Context, unit string, stats xref.BuildStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "crawl failed",
			"unit", unit,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "crawl completed",
			"unit", unit,
			"items_visited", stats.ItemsVisited,
			"items_skipped", stats.ItemsSkipped,
			"paths", stats.PathsRecorded,
			"impls", stats.ImplsRecorded,
			"seeds", stats.SeedsCollected,
		)
	}
}

// LogOrphanFlush logs the orphaned impl retry pass.
func (l *Logger) LogOrphanFlush(ctx context.Context, resolved, dropped int) {
	if dropped > 0 {
		l.WarnContext(ctx, "orphan flush dropped impls",
			"resolved", resolved,
			"dropped", dropped,
		)
	} else {
		l.DebugContext(ctx, "orphan flush completed",
			"resolved", resolved,
		)
	}
}

// LogFreeze logs a completed snapshot freeze.
func (l *Logger) LogFreeze(ctx context.Context, unit string, paths, searchItems int) {
	l.InfoContext(ctx, "snapshot frozen",
		"unit", unit,
		"paths", paths,
		"search_items", searchItems,
	)
}

// LogSiteRender logs one site render pass.
func (l *Logger) LogSiteRender(ctx context.Context, unit string, pages, failed int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "site render failed",
			"unit", unit,
			"pages", pages,
			"failed", failed,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "site render completed with failures",
			"unit", unit,
			"pages", pages,
			"failed", failed,
		)
	default:
		l.InfoContext(ctx, "site render completed",
			"unit", unit,
			"pages", pages,
		)
	}
}

// LogSearchIndexWrite logs the search index upload.
func (l *Logger) LogSearchIndexWrite(ctx context.Context, name string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search index write failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "search index written",
			"name", name,
			"bytes", bytes,
		)
	}
}

// LogPublish logs the outcome of a site publish.
func (l *Logger) LogPublish(ctx context.Context, manifest string, pages, failed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "site publish failed",
			"manifest", manifest,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "site published",
			"manifest", manifest,
			"pages", pages,
			"failed", failed,
		)
	}
}
