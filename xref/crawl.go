package xref

import (
	"strings"

	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/search"
)

// AttrNoSource marks a unit whose documentation must not link to source
// listings.
const AttrNoSource = "doc_no_source"

// Crawl walks the unit's declaration tree once, depth first, recording
// path entries, impl attributions, trait records, and search seeds as it
// goes. The crawl itself cannot fail: malformed items are skipped and
// counted in Stats. Only a frozen builder is an error.
//
// The traversal keeps three pieces of scoped state: the name stack, the
// enclosing-type stack, and the private-scope flag. Each is saved and
// restored around every subtree, so a deep or malformed branch can never
// leak its scope into a sibling.
func (b *Builder) Crawl(unit *decl.Unit) error {
	if b.frozen {
		return ErrFrozen
	}
	if unit == nil || unit.Root == nil {
		return nil
	}
	b.unitName = unit.Name
	if _, ok := decl.AttrValue(unit.Attrs, AttrNoSource); ok {
		b.includeSources = false
	}

	b.stack = append(b.stack, unit.Name)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	b.visit(unit.Root)
	return nil
}

func (b *Builder) visit(item *decl.Item) {
	if item == nil {
		b.stats.ItemsSkipped++
		return
	}
	b.stats.ItemsVisited++

	if item.Kind == decl.KindImpl {
		b.visitImpl(item)
		return
	}

	root := item.Def.Unit == decl.LocalUnit && item.Def.Node == decl.RootNode
	if item.Name == "" && !root {
		// A nameless non-impl declaration cannot be addressed, but its
		// subtree may still hold addressable items.
		b.stats.ItemsSkipped++
		for _, child := range item.Children {
			b.visit(child)
		}
		return
	}

	// Entering a non-public module sets the private-scope flag before
	// anything about the module itself is emitted, so a private module
	// is hidden from search along with its contents.
	if item.Kind == decl.KindModule {
		saved := b.privateScope
		b.privateScope = saved || item.Vis != decl.VisPublic
		defer func() { b.privateScope = saved }()
	}

	// Seed the search index before pushing the item's own name: the
	// search path of an item is its enclosing scope, not itself.
	b.collectSeed(item)

	if item.Name != "" {
		b.stack = append(b.stack, item.Name)
		defer func() { b.stack = b.stack[:len(b.stack)-1] }()
	}

	if item.Kind.TopLevel() {
		b.recordPath(item.Def, b.stack, item.Kind)
	}
	if item.Kind == decl.KindTrait {
		b.recordTrait(item)
	}

	switch item.Kind {
	case decl.KindStruct, decl.KindEnum, decl.KindTrait:
		b.parentStack = append(b.parentStack, item.Def)
		defer func() { b.parentStack = b.parentStack[:len(b.parentStack)-1] }()
	}

	for _, child := range item.Children {
		b.visit(child)
	}
}

// visitImpl attributes an impl block to the type it targets. A target the
// path table has not seen yet goes onto the orphan queue; a target with
// no identity at all is dropped. Members declared inside the block are
// visited with the target as their enclosing type, so methods attach to
// the type rather than to the block.
func (b *Builder) visitImpl(item *decl.Item) {
	imp := item.Impl
	if imp == nil {
		b.stats.ItemsSkipped++
		return
	}
	target, ok := imp.For.Target()
	if !ok {
		b.stats.ItemsSkipped++
		return
	}

	rec := ImplRecord{Impl: imp, Doc: item.Doc, Stability: item.Stability}
	if _, known := b.paths[target]; known {
		b.recordImpl(target, rec)
	} else {
		b.orphans = append(b.orphans, orphanImpl{target: target, rec: rec})
		b.stats.OrphansQueued++
	}

	if len(item.Children) == 0 {
		return
	}
	b.parentStack = append(b.parentStack, target)
	defer func() { b.parentStack = b.parentStack[:len(b.parentStack)-1] }()
	for _, child := range item.Children {
		b.visit(child)
	}
}

// collectSeed records one search seed for the item unless the current
// scope is private and the analysis pass did not override it. Top-level
// seeds carry their enclosing path immediately; member seeds carry their
// parent's identity and are resolved when the index is compiled.
func (b *Builder) collectSeed(item *decl.Item) {
	if item.Name == "" {
		return
	}
	if b.privateScope && !b.analysisPublic(item.Def) {
		return
	}

	seed := search.Seed{Kind: item.Kind, Name: item.Name, Doc: item.Doc}
	switch {
	case item.Kind.Member():
		if len(b.parentStack) == 0 {
			b.stats.SeedsDropped++
			return
		}
		parent := b.parentStack[len(b.parentStack)-1]
		seed.Parent = &parent
	default:
		seed.Path = strings.Join(b.stack, search.PathSeparator)
	}
	b.seeds = append(b.seeds, seed)
	b.stats.SeedsCollected++
}
