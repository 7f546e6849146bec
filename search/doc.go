// Package search compiles the crawl's collected seeds into the ordered,
// client-searchable item list and serializes it as a self-describing data
// file.
//
// Compilation is a pure function of its inputs and emits items in
// declaration-visit order, so two builds over the same tree produce
// identical sequences. Privacy filtering happens at seed-collection time;
// this package only resolves member parents and drops seeds whose parent
// never gained a path.
package search
