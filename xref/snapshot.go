package xref

import (
	"iter"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/search"
)

// Snapshot is the immutable result of one build. All accessors are safe
// for concurrent use without synchronization, and a snapshot never
// changes after Freeze returns it: replacing the published snapshot does
// not invalidate handles that were obtained earlier.
type Snapshot struct {
	unitName string

	paths     map[decl.DefID]PathEntry
	pathOrder []decl.DefID

	impls        map[decl.DefID][]ImplRecord
	implementors map[decl.DefID][]Implementor
	traits       map[decl.DefID]TraitInfo
	typarams     map[decl.DefID]string

	externLocations    map[decl.UnitID]ExternLocation
	primitiveLocations map[decl.Primitive]decl.UnitID
	externalPaths      map[decl.DefID][]string

	inlined *roaring64.Bitmap

	scopeIndex  map[string][]decl.DefID
	searchItems []search.Item

	summary        any
	includeSources bool
	stats          BuildStats
}

// Freeze consumes the builder and returns the immutable snapshot. Any
// orphans still queued are flushed first, so a caller that skips
// FlushOrphans observes the same result as one that runs the full
// pipeline. After Freeze the builder rejects every mutation with
// ErrFrozen; calling Freeze twice is an error.
func (b *Builder) Freeze() (*Snapshot, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	if len(b.orphans) > 0 {
		b.FlushOrphans()
	}
	b.frozen = true

	items, dropped := search.Compile(b.seeds, b)
	b.stats.SeedsDropped += dropped

	s := &Snapshot{
		unitName:           b.unitName,
		paths:              b.paths,
		pathOrder:          b.pathOrder,
		impls:              b.impls,
		implementors:       b.implementors,
		traits:             b.traits,
		typarams:           b.typarams,
		externLocations:    b.externLocations,
		primitiveLocations: b.primitiveLocations,
		externalPaths:      b.externalPaths,
		inlined:            b.inlined,
		searchItems:        items,
		summary:            b.summary,
		includeSources:     b.includeSources,
		stats:              b.stats,
	}
	s.scopeIndex = buildScopeIndex(s.pathOrder, s.paths)
	return s, nil
}

// buildScopeIndex groups path entries by their enclosing scope, in visit
// order, so sidebars and module listings are one lookup instead of a
// scan over the whole table.
func buildScopeIndex(order []decl.DefID, paths map[decl.DefID]PathEntry) map[string][]decl.DefID {
	idx := make(map[string][]decl.DefID)
	for _, def := range order {
		entry := paths[def]
		if len(entry.Path) == 0 {
			continue
		}
		key := strings.Join(entry.Path[:len(entry.Path)-1], search.PathSeparator)
		idx[key] = append(idx[key], def)
	}
	return idx
}

// UnitName returns the name of the unit this snapshot documents.
func (s *Snapshot) UnitName() string { return s.unitName }

// Len returns the number of path table entries.
func (s *Snapshot) Len() int { return len(s.paths) }

// Stats returns the build counters captured at freeze time.
func (s *Snapshot) Stats() BuildStats { return s.stats }

// Summary returns the opaque maturity summary attached to the build, or
// nil when none was provided.
func (s *Snapshot) Summary() any { return s.summary }

// IncludeSources reports whether rendered pages may link to source
// listings.
func (s *Snapshot) IncludeSources() bool { return s.includeSources }

// Path reports the path table entry for def.
func (s *Snapshot) Path(def decl.DefID) (PathEntry, bool) {
	e, ok := s.paths[def]
	if !ok {
		return PathEntry{}, false
	}
	return PathEntry{Path: slices.Clone(e.Path), Kind: e.Kind}, true
}

// Paths iterates over the path table in crawl order. The yielded entries
// share the snapshot's backing arrays and must not be mutated.
func (s *Snapshot) Paths() iter.Seq2[decl.DefID, PathEntry] {
	return func(yield func(decl.DefID, PathEntry) bool) {
		for _, def := range s.pathOrder {
			if !yield(def, s.paths[def]) {
				return
			}
		}
	}
}

// Impls returns the implementation blocks attributed to def, in the
// order they were recorded.
func (s *Snapshot) Impls(def decl.DefID) []ImplRecord {
	return slices.Clone(s.impls[def])
}

// Implementors returns the types implementing the trait def, in the
// order their impls were recorded.
func (s *Snapshot) Implementors(def decl.DefID) []Implementor {
	return slices.Clone(s.implementors[def])
}

// Trait reports the trait record for def.
func (s *Snapshot) Trait(def decl.DefID) (TraitInfo, bool) {
	t, ok := s.traits[def]
	return t, ok
}

// Typaram reports the type parameter name recorded for def.
func (s *Snapshot) Typaram(def decl.DefID) (string, bool) {
	name, ok := s.typarams[def]
	return name, ok
}

// ExternLocation reports the resolved documentation location of an
// external unit.
func (s *Snapshot) ExternLocation(unit decl.UnitID) (ExternLocation, bool) {
	loc, ok := s.externLocations[unit]
	return loc, ok
}

// PrimitiveLocation reports which unit owns the documentation page of a
// primitive type.
func (s *Snapshot) PrimitiveLocation(p decl.Primitive) (decl.UnitID, bool) {
	unit, ok := s.primitiveLocations[p]
	return unit, ok
}

// ExternalPath reports the fully qualified path of an external item that
// the analysis pass made linkable.
func (s *Snapshot) ExternalPath(def decl.DefID) ([]string, bool) {
	p, ok := s.externalPaths[def]
	if !ok {
		return nil, false
	}
	return slices.Clone(p), true
}

// Inlined reports whether def was inlined into the local documentation,
// in which case its own page is a redirect.
func (s *Snapshot) Inlined(def decl.DefID) bool {
	return s.inlined != nil && s.inlined.Contains(decl.PackDefID(def))
}

// SearchIndex returns the compiled search index in deterministic crawl
// order.
func (s *Snapshot) SearchIndex() []search.Item {
	return slices.Clone(s.searchItems)
}

// InScope returns the definitions declared directly inside scope, in
// crawl order. The scope is a fully qualified path, unit name first.
func (s *Snapshot) InScope(scope []string) []decl.DefID {
	return slices.Clone(s.scopeIndex[strings.Join(scope, search.PathSeparator)])
}

// published is the process-wide snapshot slot. Readers load it without
// locks; writers replace it atomically.
var published atomic.Pointer[Snapshot]

// Publish makes s the process-wide current snapshot. Snapshots held from
// before the call remain valid. Publishing nil clears the slot.
func Publish(s *Snapshot) {
	published.Store(s)
}

// Published returns the current process-wide snapshot, if any.
func Published() (*Snapshot, bool) {
	s := published.Load()
	return s, s != nil
}
