package xref

import (
	"github.com/hupe1980/docdex/decl"
)

// PathEntry is one row of the path table: the fully qualified path of an
// item, unit name first, and the kind it was declared as. Entries are
// written at most once; the first writer wins.
type PathEntry struct {
	Path []string
	Kind decl.ItemKind
}

// ImplRecord is one implementation block attributed to a target type.
type ImplRecord struct {
	Impl      *decl.Impl
	Doc       string
	Stability *decl.Stability
}

// Implementor is the inverse view of a trait implementation: one entry
// per impl, keyed by the trait's identity, naming the implementing type.
type Implementor struct {
	Def       decl.DefID
	Generics  string
	Trait     decl.TypeRef
	For       decl.TypeRef
	Stability *decl.Stability
}

// TraitInfo describes a trait declaration well enough for renderers to
// summarize it from an implementor page: its location and the names of
// its methods and associated types.
type TraitInfo struct {
	Name    string
	Path    []string
	Doc     string
	Methods []string
}

// LocationKind classifies where an external unit's documentation lives.
type LocationKind uint8

const (
	// LocationUnknown means the unit's documentation could not be
	// located. Cross-unit references to it render as plain text.
	LocationUnknown LocationKind = iota
	// LocationRemote links against an absolute documentation root URL.
	LocationRemote
	// LocationLocal links against documentation rendered alongside the
	// current unit's output tree.
	LocationLocal
)

func (k LocationKind) String() string {
	switch k {
	case LocationRemote:
		return "remote"
	case LocationLocal:
		return "local"
	default:
		return "unknown"
	}
}

// ExternLocation is the resolved documentation location of one external
// unit. URL is set only for LocationRemote.
type ExternLocation struct {
	Kind LocationKind
	URL  string
}

// BuildStats counts what one build recorded and, more importantly, what
// it dropped. Every degrade-by-omission decision increments a counter
// here so silent data loss stays visible.
type BuildStats struct {
	ItemsVisited        int `json:"items_visited"`
	ItemsSkipped        int `json:"items_skipped"`
	PathsRecorded       int `json:"paths_recorded"`
	ImplsRecorded       int `json:"impls_recorded"`
	OrphansQueued       int `json:"orphans_queued"`
	OrphansResolved     int `json:"orphans_resolved"`
	OrphansDropped      int `json:"orphans_dropped"`
	ImplementorsSkipped int `json:"implementors_skipped"`
	SeedsCollected      int `json:"seeds_collected"`
	SeedsDropped        int `json:"seeds_dropped"`
}
