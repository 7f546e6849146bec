// Package render drives page generation for a frozen snapshot.
//
// The package does not produce markup itself. Page content comes from a
// PageRenderer supplied by the caller; render assembles the per-page
// Context (breadcrumb, root prefix, sidebar, flags), fans pages out
// across a bounded worker pool, and writes the results to a blob store.
// One page per local path table entry, failures collected rather than
// fatal.
package render
