package search

import "github.com/hupe1980/docdex/decl"

// Item is one entry of the compiled search index.
//
// Path is the qualified path of the item's enclosing scope, segments joined
// with "::". For members, Parent identifies the enclosing type; the client
// joins path, parent name and item name for display. Sequence order is
// significant: it defines the search-result tie-break and is stable across
// builds for identical input.
type Item struct {
	Kind   decl.ItemKind `json:"kind"`
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Desc   string        `json:"desc"`
	Parent *decl.DefID   `json:"parent,omitempty"`
}

// Seed is one pre-filtered search candidate collected during the crawl.
//
// Top-level seeds carry their enclosing path directly. Member seeds carry
// the parent identity instead; the enclosing path is resolved at compile
// time, once the path table is complete.
type Seed struct {
	Kind   decl.ItemKind
	Name   string
	Path   string
	Parent *decl.DefID
	Doc    string
}

// Resolver supplies the compile step with path lookups. *xref.Builder
// implements it.
type Resolver interface {
	// PathOf returns the qualified path and kind recorded for def.
	PathOf(def decl.DefID) ([]string, decl.ItemKind, bool)

	// TraitPathOf returns the qualified path of a trait known to the trait
	// table. Used as a fallback for members of external traits that never
	// receive a path table entry.
	TraitPathOf(def decl.DefID) ([]string, bool)
}
