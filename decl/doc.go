// Package decl defines the declaration-tree data model consumed by the
// indexer.
//
// The tree is supplied by an external frontend with all names and type
// references already resolved; docdex never parses source text. Every
// declaration carries a DefID, the (unit, node) pair used as the universal
// map key throughout the index.
package decl
