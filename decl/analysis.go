package decl

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// PathSeed pre-resolves the qualified path of an externally-defined
// declaration so cross-unit references can be linked without crawling the
// foreign unit.
type PathSeed struct {
	Path []string
	Kind ItemKind
}

// TraitSeed carries enough of an external trait's shape to resolve members
// inlined from it and to inherit its documentation.
type TraitSeed struct {
	Name    string
	Path    []string
	Doc     string
	Methods []string
}

// Analysis is optional enrichment computed by the frontend. Every field may
// be nil/empty; the index is built as if no enrichment were available.
type Analysis struct {
	// PublicItems holds the local node numbers the frontend proved publicly
	// reachable, including items re-exported out of private modules.
	PublicItems *roaring.Bitmap

	// Inlined holds packed DefIDs (see PackDefID) of declarations whose
	// documentation was inlined at a use site; their home pages render as
	// redirects.
	Inlined *roaring64.Bitmap

	// ExternalPaths maps foreign declarations to their qualified paths.
	ExternalPaths map[DefID]PathSeed

	// ExternalTraits describes traits defined in dependency units.
	ExternalTraits map[DefID]TraitSeed

	// Typarams maps type-parameter declarations to their display names,
	// so generic signatures print without carrying resolver state around.
	Typarams map[DefID]string
}

// PublicItem reports whether the analysis proves node public. A nil
// analysis or nil set proves nothing.
func (a *Analysis) PublicItem(node NodeID) bool {
	if a == nil || a.PublicItems == nil {
		return false
	}
	return a.PublicItems.Contains(uint32(node))
}

// InlinedDef reports whether def was inlined at a use site.
func (a *Analysis) InlinedDef(def DefID) bool {
	if a == nil || a.Inlined == nil {
		return false
	}
	return a.Inlined.Contains(PackDefID(def))
}
