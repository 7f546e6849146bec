package render

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/search"
	"github.com/hupe1980/docdex/xref"
)

// Context carries everything a page renderer needs for one definition:
// its breadcrumb path, the relative prefix back to the site root, the
// sidebar of neighboring declarations, and the rendering flags.
type Context struct {
	// Current identifies the definition being rendered.
	Current decl.DefID

	// Path is the fully qualified path of the definition, unit first.
	Path []string

	// Kind is the declared kind of the definition.
	Kind decl.ItemKind

	// RootPath is the relative prefix from the page's directory back to
	// the site root, one "../" per level.
	RootPath string

	// Sidebar lists the names declared in the page's scope, grouped by
	// kind short name and sorted within each group. Module pages list
	// their own children, item pages their siblings.
	Sidebar map[string][]string

	// IncludeSources reports whether the page may link to source
	// listings.
	IncludeSources bool

	// Redirect is set when the definition was inlined elsewhere and its
	// page should be a redirect stub.
	Redirect bool

	snap *xref.Snapshot
}

// NewContext assembles the per-page context for def.
func NewContext(snap *xref.Snapshot, def decl.DefID) (*Context, error) {
	entry, ok := snap.Path(def)
	if !ok {
		return nil, fmt.Errorf("%w: %s", xref.ErrNotFound, def)
	}

	// A module page lives inside its own directory; every other page
	// lives in its enclosing module's directory.
	dir := entry.Path
	if entry.Kind != decl.KindModule {
		dir = entry.Path[:len(entry.Path)-1]
	}

	return &Context{
		Current:        def,
		Path:           entry.Path,
		Kind:           entry.Kind,
		RootPath:       strings.Repeat("../", len(dir)),
		Sidebar:        buildSidebar(snap, dir),
		IncludeSources: snap.IncludeSources(),
		Redirect:       snap.Inlined(def),
		snap:           snap,
	}, nil
}

func buildSidebar(snap *xref.Snapshot, scope []string) map[string][]string {
	sb := make(map[string][]string)
	for _, def := range snap.InScope(scope) {
		entry, ok := snap.Path(def)
		if !ok || len(entry.Path) == 0 {
			continue
		}
		name := entry.Path[len(entry.Path)-1]
		key := entry.Kind.String()
		sb[key] = append(sb[key], name)
	}
	for _, names := range sb {
		slices.Sort(names)
	}
	return sb
}

// Snapshot returns the snapshot the page is rendered from, for impl
// lists, trait summaries and link resolution.
func (c *Context) Snapshot() *xref.Snapshot { return c.snap }

// Breadcrumb returns the page's display path, segments joined with the
// standard separator.
func (c *Context) Breadcrumb() string {
	return strings.Join(c.Path, search.PathSeparator)
}

// OutputPath returns the page's blob name relative to the site root.
// Modules render to path/index.html, everything else to
// dir/kind.Name.html.
func (c *Context) OutputPath() string {
	return pagePath(xref.PathEntry{Path: c.Path, Kind: c.Kind})
}

// HrefFor resolves the hyperlink target for a definition, relative to
// the current page. The second return is false when the definition
// cannot be linked: it has no recorded path, or its unit's location is
// unknown.
func (c *Context) HrefFor(def decl.DefID) (string, bool) {
	entry, ok := c.snap.Path(def)
	if !ok {
		return "", false
	}
	rel := pagePath(entry)

	if def.Local() {
		return c.RootPath + rel, true
	}
	loc, ok := c.snap.ExternLocation(def.Unit)
	if !ok {
		return "", false
	}
	switch loc.Kind {
	case xref.LocationRemote:
		return loc.URL + rel, true
	case xref.LocationLocal:
		// Side-by-side documentation trees share the site root.
		return c.RootPath + rel, true
	default:
		return "", false
	}
}

func pagePath(entry xref.PathEntry) string {
	if entry.Kind == decl.KindModule {
		return path.Join(append(slices.Clone(entry.Path), "index.html")...)
	}
	dir := entry.Path[:len(entry.Path)-1]
	name := entry.Path[len(entry.Path)-1]
	file := entry.Kind.String() + "." + name + ".html"
	return path.Join(append(slices.Clone(dir), file)...)
}
