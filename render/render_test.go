package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docdex/blobstore"
	"github.com/hupe1980/docdex/render"
	"github.com/hupe1980/docdex/resource"
)

func htmlStub() render.PageRenderer {
	return render.PageRendererFunc(func(_ context.Context, page *render.Context) ([]byte, error) {
		return []byte("<!-- " + page.Breadcrumb() + " -->"), nil
	})
}

func TestAllRendersEveryLocalPage(t *testing.T) {
	snap := siteSnapshot(t)
	store := blobstore.NewMemoryStore()

	report, err := render.All(context.Background(), snap, htmlStub(), store, render.WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, 5, report.PagesWritten)
	assert.Empty(t, report.Failures)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"demo/fn.build.html",
		"demo/index.html",
		"demo/struct.Widget.html",
		"demo/util/enum.Mode.html",
		"demo/util/index.html",
	}, names)
	assert.Equal(t, names, report.Pages)
}

func TestAllCollectsFailures(t *testing.T) {
	snap := siteSnapshot(t)
	store := blobstore.NewMemoryStore()

	boom := errors.New("template exploded")
	renderer := render.PageRendererFunc(func(_ context.Context, page *render.Context) ([]byte, error) {
		if page.OutputPath() == "demo/struct.Widget.html" {
			return nil, boom
		}
		return []byte("ok"), nil
	})

	report, err := render.All(context.Background(), snap, renderer, store)
	require.NoError(t, err)
	assert.Equal(t, 4, report.PagesWritten)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "demo/struct.Widget.html", report.Failures[0].Name)
	assert.ErrorIs(t, report.Failures[0].Err, boom)

	// The failed page was never written; the others were.
	_, err = store.Open(context.Background(), "demo/struct.Widget.html")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	_, err = store.Open(context.Background(), "demo/index.html")
	assert.NoError(t, err)
}

func TestAllCanceled(t *testing.T) {
	snap := siteSnapshot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := render.All(ctx, snap, htmlStub(), blobstore.NewMemoryStore())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.PagesWritten)
}

func TestAllWithController(t *testing.T) {
	snap := siteSnapshot(t)
	store := blobstore.NewMemoryStore()
	ctrl := resource.NewController(resource.Config{
		MaxRenderWorkers: 2,
		MemoryLimitBytes: 1 << 20,
	})

	report, err := render.All(context.Background(), snap, htmlStub(), store,
		render.WithWorkers(4), render.WithController(ctrl))
	require.NoError(t, err)
	assert.Equal(t, 5, report.PagesWritten)

	// All budgets returned once the render is done.
	assert.Zero(t, ctrl.MemoryUsage())
}
