package xref

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/search"
)

// Builder accumulates the cross-reference state for one build. It is not
// safe for concurrent use; the pipeline that feeds it is sequential by
// contract. Freeze consumes the builder, after which every mutating
// method returns ErrFrozen.
type Builder struct {
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

	publicItems *roaring.Bitmap
	inlined     *roaring64.Bitmap

	orphans []orphanImpl
	seeds   []search.Seed

	summary        any
	includeSources bool

	// crawl state, scoped by the DFS
	stack        []string
	parentStack  []decl.DefID
	privateScope bool

	stats  BuildStats
	frozen bool
}

type orphanImpl struct {
	target decl.DefID
	rec    ImplRecord
}

// NewBuilder returns an empty builder ready to crawl one unit.
func NewBuilder() *Builder {
	return &Builder{
		paths:              make(map[decl.DefID]PathEntry),
		impls:              make(map[decl.DefID][]ImplRecord),
		implementors:       make(map[decl.DefID][]Implementor),
		traits:             make(map[decl.DefID]TraitInfo),
		typarams:           make(map[decl.DefID]string),
		externLocations:    make(map[decl.UnitID]ExternLocation),
		primitiveLocations: make(map[decl.Primitive]decl.UnitID),
		externalPaths:      make(map[decl.DefID][]string),
		includeSources:     true,
	}
}

// SeedAnalysis preloads the builder with facts from an upstream analysis
// pass: paths and traits of inlined external items, re-exported private
// definitions, and type parameter names. Must be called before Crawl so
// that crawl-time decisions (privacy overrides, first-writer paths) see
// the seeded state.
func (b *Builder) SeedAnalysis(a *decl.Analysis) error {
	if b.frozen {
		return ErrFrozen
	}
	if a == nil {
		return nil
	}
	if a.PublicItems != nil {
		b.publicItems = a.PublicItems.Clone()
	}
	if a.Inlined != nil {
		b.inlined = a.Inlined.Clone()
	}

	// Maps iterate in random order; seed external paths in a fixed order
	// so pathOrder, and everything derived from it, is reproducible.
	defs := make([]decl.DefID, 0, len(a.ExternalPaths))
	for def := range a.ExternalPaths {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(x, y decl.DefID) int {
		if c := cmp.Compare(x.Unit, y.Unit); c != 0 {
			return c
		}
		return cmp.Compare(x.Node, y.Node)
	})
	for _, def := range defs {
		seed := a.ExternalPaths[def]
		b.recordPath(def, seed.Path, seed.Kind)
		b.externalPaths[def] = slices.Clone(seed.Path)
	}

	for def, ts := range a.ExternalTraits {
		b.traits[def] = TraitInfo{
			Name:    ts.Name,
			Path:    slices.Clone(ts.Path),
			Doc:     ts.Doc,
			Methods: slices.Clone(ts.Methods),
		}
	}
	for def, name := range a.Typarams {
		b.typarams[def] = name
	}
	return nil
}

// SetSummary attaches an opaque maturity summary that rides along into
// the snapshot untouched.
func (b *Builder) SetSummary(v any) {
	b.summary = v
}

// SetIncludeSources controls whether rendered pages link to source
// listings. Crawl may still switch this off if the unit forbids it.
func (b *Builder) SetIncludeSources(v bool) {
	b.includeSources = v
}

// Stats returns a copy of the counters accumulated so far.
func (b *Builder) Stats() BuildStats {
	return b.stats
}

// PathOf reports the fully qualified path and kind recorded for def.
// Together with TraitPathOf it lets the search compiler resolve member
// parents against the builder's state.
func (b *Builder) PathOf(def decl.DefID) ([]string, decl.ItemKind, bool) {
	e, ok := b.paths[def]
	if !ok {
		return nil, 0, false
	}
	return e.Path, e.Kind, true
}

// TraitPathOf reports the declaration path of a trait known only through
// its trait record, the fallback for members whose parent never made it
// into the path table.
func (b *Builder) TraitPathOf(def decl.DefID) ([]string, bool) {
	t, ok := b.traits[def]
	if !ok || len(t.Path) == 0 {
		return nil, false
	}
	return t.Path, true
}

// recordPath writes a path table entry unless one already exists. The
// first writer wins for the lifetime of the build.
func (b *Builder) recordPath(def decl.DefID, path []string, kind decl.ItemKind) {
	if _, ok := b.paths[def]; ok {
		return
	}
	b.paths[def] = PathEntry{Path: slices.Clone(path), Kind: kind}
	b.pathOrder = append(b.pathOrder, def)
	b.stats.PathsRecorded++
}

// recordImpl attributes one impl block to its target type and, when the
// impl names a resolvable trait, mirrors it into the implementor index.
func (b *Builder) recordImpl(target decl.DefID, rec ImplRecord) {
	b.impls[target] = append(b.impls[target], rec)
	b.stats.ImplsRecorded++

	if rec.Impl.Trait == nil {
		return
	}
	tdef, ok := rec.Impl.Trait.Target()
	if !ok {
		// The trait reference has no identity, so the inverse entry
		// cannot be keyed. The impl itself stays attributed above.
		b.stats.ImplementorsSkipped++
		return
	}
	b.implementors[tdef] = append(b.implementors[tdef], Implementor{
		Def:       target,
		Generics:  rec.Impl.Generics,
		Trait:     *rec.Impl.Trait,
		For:       rec.Impl.For,
		Stability: rec.Stability,
	})
}

// recordTrait captures the trait's location and member names so that
// implementor pages can summarize it. Called with the trait's own name
// already on the stack.
func (b *Builder) recordTrait(item *decl.Item) {
	info := TraitInfo{
		Name: item.Name,
		Path: slices.Clone(b.stack),
		Doc:  item.Doc,
	}
	for _, child := range item.Children {
		if child == nil || child.Name == "" {
			continue
		}
		if child.Kind == decl.KindMethod || child.Kind == decl.KindAssocType {
			info.Methods = append(info.Methods, child.Name)
		}
	}
	b.traits[item.Def] = info
}

// analysisPublic reports whether the analysis pass marked a local node as
// reachable through a public re-export, which overrides the lexical
// privacy of its enclosing module.
func (b *Builder) analysisPublic(def decl.DefID) bool {
	return def.Local() && b.publicItems != nil && b.publicItems.Contains(uint32(def.Node))
}
