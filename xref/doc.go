// Package xref builds the cross-reference index for one documentation
// build: the path table, the implementation index and its trait-keyed
// inverse, external and primitive locations, and the search seeds.
//
// A single mutable Builder exists for the duration of one build. It is
// populated by a strictly sequential pipeline (crawl, orphan flush,
// location resolution) and then consumed by Freeze, which compiles the
// search index and produces an immutable Snapshot. Snapshots are shared
// by pointer: once published, any number of goroutines may read one
// concurrently without locks, and a snapshot stays valid for as long as
// someone holds a reference to it.
package xref
