package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for a documentation build.
type Config struct {
	// MemoryLimitBytes is the hard limit for rendered page content held
	// in flight. If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxRenderWorkers is the maximum number of pages rendered
	// concurrently. If 0, defaults to 1.
	MaxRenderWorkers int64

	// IOLimitBytesPerSec is the maximum write throughput to the output
	// store. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages global resources (memory, concurrency, IO) shared
// by every build running in the process.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Concurrency
	renderSem *semaphore.Weighted

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxRenderWorkers <= 0 {
		cfg.MaxRenderWorkers = 1
	}

	c := &Controller{
		cfg:       cfg,
		renderSem: semaphore.NewWeighted(cfg.MaxRenderWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// If a hard limit is configured and usage would exceed it,
// this blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireRender attempts to reserve a render worker slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireRender(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.renderSem.Acquire(ctx, 1)
}

// TryAcquireRender attempts to reserve a render worker slot without
// blocking.
func (c *Controller) TryAcquireRender() bool {
	if c == nil {
		return true
	}
	return c.renderSem.TryAcquire(1)
}

// ReleaseRender releases a render worker slot.
func (c *Controller) ReleaseRender() {
	if c == nil {
		return
	}
	c.renderSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of
// bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}
