package xref

import (
	"strings"

	"github.com/hupe1980/docdex/decl"
)

// AttrRootURL is the extern attribute carrying the absolute root URL of
// the unit's published documentation.
const AttrRootURL = "doc_html_root_url"

// ExternLocator decides where an external unit's documentation lives.
// Implementations must be pure lookups; the resolver calls Locate once
// per extern and records the answer in the snapshot.
type ExternLocator interface {
	Locate(e decl.Extern) ExternLocation
}

// ExternLocatorFunc adapts a function to the ExternLocator interface.
type ExternLocatorFunc func(e decl.Extern) ExternLocation

func (f ExternLocatorFunc) Locate(e decl.Extern) ExternLocation { return f(e) }

// DefaultLocator classifies an extern as remote when it declares a
// doc_html_root_url attribute and unknown otherwise. Deployments that
// render dependency docs side by side swap in their own locator.
func DefaultLocator() ExternLocator {
	return ExternLocatorFunc(func(e decl.Extern) ExternLocation {
		if url, ok := decl.AttrValue(e.Attrs, AttrRootURL); ok && url != "" {
			return ExternLocation{Kind: LocationRemote, URL: strings.TrimSuffix(url, "/") + "/"}
		}
		return ExternLocation{Kind: LocationUnknown}
	})
}

// ResolveLocations classifies every extern of the unit and decides which
// unit owns each primitive's documentation. It also gives every extern a
// root path entry so cross-unit links can name the foreign unit. A nil
// locator falls back to DefaultLocator.
func (b *Builder) ResolveLocations(unit *decl.Unit, locator ExternLocator) error {
	if b.frozen {
		return ErrFrozen
	}
	if unit == nil {
		return nil
	}
	if locator == nil {
		locator = DefaultLocator()
	}

	for _, e := range unit.Externs {
		b.externLocations[e.Unit] = locator.Locate(e)
		b.recordPath(decl.DefID{Unit: e.Unit, Node: decl.RootNode}, []string{e.Name}, decl.KindModule)
	}

	// Primitives may be claimed by several units. The owner closest to
	// the root of the dependency graph wins, and the local unit beats
	// them all. Externs are ordered root-outward, so walking them in
	// reverse lets each later write shadow the one before it.
	for i := len(unit.Externs) - 1; i >= 0; i-- {
		e := unit.Externs[i]
		for _, p := range e.Primitives {
			b.primitiveLocations[p] = e.Unit
		}
	}
	for _, p := range unit.Primitives {
		b.primitiveLocations[p] = decl.LocalUnit
	}
	return nil
}
