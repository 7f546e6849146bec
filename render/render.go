package render

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/docdex/blobstore"
	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/resource"
	"github.com/hupe1980/docdex/xref"
)

// PageRenderer produces the content of one documentation page.
type PageRenderer interface {
	RenderPage(ctx context.Context, page *Context) ([]byte, error)
}

// PageRendererFunc adapts a function to the PageRenderer interface.
type PageRendererFunc func(ctx context.Context, page *Context) ([]byte, error)

func (f PageRendererFunc) RenderPage(ctx context.Context, page *Context) ([]byte, error) {
	return f(ctx, page)
}

// PageError describes one failed page.
type PageError struct {
	Def  decl.DefID
	Name string
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("render %s (%s): %v", e.Name, e.Def, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Report summarizes one site render.
type Report struct {
	PagesWritten int
	Pages        []string // names written to the store, in lexical order
	Failures     []PageError
}

type options struct {
	workers    int
	controller *resource.Controller
}

// Option customizes a site render.
type Option func(*options)

// WithWorkers bounds how many pages render concurrently. Defaults to
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithController applies process-wide memory, worker and IO budgets to
// the render.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// All renders one page per local path table entry into store.
//
// Individual page failures never stop the site: they are collected in
// the report and the remaining pages still render. Only context
// cancellation (or a resource budget canceled by it) aborts early, and
// the returned report then covers the pages finished so far.
func All(ctx context.Context, snap *xref.Snapshot, renderer PageRenderer, store blobstore.BlobStore, optFns ...Option) (*Report, error) {
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	var (
		mu     sync.Mutex
		report Report
	)
	fail := func(def decl.DefID, name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Failures = append(report.Failures, PageError{Def: def, Name: name, Err: err})
	}

	g := new(errgroup.Group)
	g.SetLimit(o.workers)

	for def := range snap.Paths() {
		// Extern root entries are link targets, not pages.
		if !def.Local() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := o.controller.AcquireRender(ctx); err != nil {
				return err
			}
			defer o.controller.ReleaseRender()

			page, err := NewContext(snap, def)
			if err != nil {
				fail(def, "", err)
				return nil
			}
			name := page.OutputPath()

			data, err := renderer.RenderPage(ctx, page)
			if err != nil {
				fail(def, name, err)
				return nil
			}

			if err := o.controller.AcquireMemory(ctx, int64(len(data))); err != nil {
				return err
			}
			defer o.controller.ReleaseMemory(int64(len(data)))

			if err := o.controller.AcquireIO(ctx, len(data)); err != nil {
				return err
			}
			if err := store.Put(ctx, name, data); err != nil {
				fail(def, name, err)
				return nil
			}

			mu.Lock()
			report.PagesWritten++
			report.Pages = append(report.Pages, name)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	sort.Strings(report.Pages)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return &report, err
	}
	return &report, nil
}
