package docdex

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/docdex/blobstore"
	"github.com/hupe1980/docdex/codec"
	"github.com/hupe1980/docdex/render"
	"github.com/hupe1980/docdex/resource"
	"github.com/hupe1980/docdex/search"
	"github.com/hupe1980/docdex/xref"
)

const (
	// SearchIndexName is the blob name of the published search index.
	SearchIndexName = "search-index.bin"

	// CurrentName is the pointer blob naming the live manifest.
	CurrentName = "CURRENT"

	manifestPrefix = "MANIFEST-"
)

// SiteManifest records one published site generation. Manifests are
// immutable; each publish writes a new numbered manifest and then flips
// CURRENT to its name.
type SiteManifest struct {
	Version     uint64          `json:"version"`
	Unit        string          `json:"unit"`
	Codec       string          `json:"codec"`
	CreatedAt   time.Time       `json:"created_at"`
	Pages       []string        `json:"pages"`
	SearchIndex string          `json:"search_index"`
	Stats       xref.BuildStats `json:"stats"`
}

// SiteReport summarizes one PublishSite call.
type SiteReport struct {
	// PagesWritten counts pages uploaded to the store.
	PagesWritten int

	// PageFailures lists pages that failed to render or upload. Failed
	// pages are omitted from the site and the manifest.
	PageFailures []render.PageError

	// SearchIndexBytes is the encoded size of the search index container.
	SearchIndexBytes int64

	// Manifest is the blob name of the manifest this publish wrote.
	Manifest string
}

// PublishSite renders every local page of snap into store, uploads the
// search index, and commits a new manifest generation.
//
// Individual page failures degrade the site instead of failing it: they
// are collected in the report while everything else still publishes. An
// error is returned only when the pipeline itself cannot proceed, e.g.
// context cancellation or a store failure on the index or manifest.
//
// Concurrent publishers to the same store should wrap it in a commit
// store (e.g. s3.CommitStore) so the CURRENT flip is atomic.
func PublishSite(ctx context.Context, snap *xref.Snapshot, renderer render.PageRenderer, store blobstore.BlobStore, optFns ...Option) (*SiteReport, error) {
	o := applyOptions(optFns)
	start := time.Now()

	report, err := publishSite(ctx, snap, renderer, store, o)
	o.metricsCollector.RecordPublish(time.Since(start), err)
	o.logger.LogPublish(ctx, report.Manifest, report.PagesWritten, len(report.PageFailures), err)
	if err != nil {
		return report, translateError(err)
	}
	return report, nil
}

func publishSite(ctx context.Context, snap *xref.Snapshot, renderer render.PageRenderer, store blobstore.BlobStore, o options) (*SiteReport, error) {
	report := &SiteReport{}

	renderStart := time.Now()
	rr, err := render.All(ctx, snap, renderer, store,
		render.WithWorkers(o.renderWorkers),
		render.WithController(o.controller),
	)
	if rr != nil {
		report.PagesWritten = rr.PagesWritten
		report.PageFailures = rr.Failures
	}
	o.logger.LogSiteRender(ctx, snap.UnitName(), report.PagesWritten, len(report.PageFailures), err)
	o.metricsCollector.RecordRender(report.PagesWritten, len(report.PageFailures), time.Since(renderStart))
	if err != nil {
		return report, err
	}

	n, err := writeSearchIndex(ctx, snap, store, o)
	report.SearchIndexBytes = n
	o.logger.LogSearchIndexWrite(ctx, SearchIndexName, n, err)
	if err != nil {
		return report, err
	}

	name, err := writeManifest(ctx, snap, store, rr.Pages, o)
	report.Manifest = name
	return report, err
}

// writeSearchIndex streams the container through the store's writable blob,
// throttled by the IO budget when a controller is configured.
func writeSearchIndex(ctx context.Context, snap *xref.Snapshot, store blobstore.BlobStore, o options) (int64, error) {
	wb, err := store.Create(ctx, SearchIndexName)
	if err != nil {
		return 0, err
	}

	w := resource.NewRateLimitedWriter(ctx, wb, o.controller)
	n, err := search.Write(w, snap.SearchIndex(),
		search.WithCodec(o.codec),
		search.WithCompression(o.searchCompression),
	)
	cerr := wb.Close()
	if err != nil {
		return n, err
	}
	return n, cerr
}

func writeManifest(ctx context.Context, snap *xref.Snapshot, store blobstore.BlobStore, pages []string, o options) (string, error) {
	version, err := nextManifestVersion(ctx, store)
	if err != nil {
		return "", err
	}

	m := SiteManifest{
		Version:     version,
		Unit:        snap.UnitName(),
		Codec:       o.codec.Name(),
		CreatedAt:   time.Now().UTC(),
		Pages:       pages,
		SearchIndex: SearchIndexName,
		Stats:       snap.Stats(),
	}

	data, err := o.codec.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	name := manifestName(version)
	if err := store.Put(ctx, name, data); err != nil {
		return "", err
	}
	if err := store.Put(ctx, CurrentName, []byte(name)); err != nil {
		return name, err
	}
	return name, nil
}

// CurrentManifest reads the live manifest of a published site. Manifests
// written with a non-default codec need the matching WithCodec option.
func CurrentManifest(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*SiteManifest, error) {
	o := applyOptions(optFns)

	name, err := blobstore.ReadAll(ctx, store, CurrentName)
	if err != nil {
		return nil, translateError(err)
	}
	data, err := blobstore.ReadAll(ctx, store, string(name))
	if err != nil {
		return nil, translateError(err)
	}

	var m SiteManifest
	if err := o.codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", name, err)
	}
	if m.Codec != "" && m.Codec != o.codec.Name() {
		c, ok := codec.ByName(m.Codec)
		if !ok {
			return nil, fmt.Errorf("manifest %s uses unknown codec %q", name, m.Codec)
		}
		if err := c.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode manifest %s: %w", name, err)
		}
	}
	return &m, nil
}

func manifestName(version uint64) string {
	return fmt.Sprintf("%s%06d.json", manifestPrefix, version)
}

// nextManifestVersion scans existing manifests and picks the next number.
// The scan is not atomic; concurrent publishers need a commit store.
func nextManifestVersion(ctx context.Context, store blobstore.BlobStore) (uint64, error) {
	names, err := store.List(ctx, manifestPrefix)
	if err != nil {
		return 0, err
	}

	var highest uint64
	for _, name := range names {
		num := strings.TrimSuffix(strings.TrimPrefix(name, manifestPrefix), ".json")
		v, err := strconv.ParseUint(num, 10, 64)
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}
