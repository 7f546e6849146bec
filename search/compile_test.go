package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/search"
)

type staticResolver struct {
	paths  map[decl.DefID][]string
	kinds  map[decl.DefID]decl.ItemKind
	traits map[decl.DefID][]string
}

func (r staticResolver) PathOf(def decl.DefID) ([]string, decl.ItemKind, bool) {
	p, ok := r.paths[def]
	if !ok {
		return nil, 0, false
	}
	return p, r.kinds[def], true
}

func (r staticResolver) TraitPathOf(def decl.DefID) ([]string, bool) {
	p, ok := r.traits[def]
	return p, ok
}

func TestCompileOrderAndLinkage(t *testing.T) {
	s := decl.DefID{Node: 7}
	r := staticResolver{
		paths: map[decl.DefID][]string{s: {"demo", "S"}},
		kinds: map[decl.DefID]decl.ItemKind{s: decl.KindStruct},
	}
	seeds := []search.Seed{
		{Kind: decl.KindStruct, Name: "S", Path: "demo", Doc: "A thing."},
		{Kind: decl.KindMethod, Name: "get", Parent: &s},
		{Kind: decl.KindFunction, Name: "run", Path: "demo"},
	}

	items, dropped := search.Compile(seeds, r)
	assert.Zero(t, dropped)
	assert.Equal(t, []search.Item{
		{Kind: decl.KindStruct, Name: "S", Path: "demo", Desc: "A thing."},
		{Kind: decl.KindMethod, Name: "get", Path: "demo", Parent: &s},
		{Kind: decl.KindFunction, Name: "run", Path: "demo"},
	}, items)
}

func TestCompileDropsUnresolvedParents(t *testing.T) {
	ghost := decl.DefID{Node: 99}
	seeds := []search.Seed{
		{Kind: decl.KindMethod, Name: "lost", Parent: &ghost},
		{Kind: decl.KindFunction, Name: "kept", Path: "demo"},
	}

	items, dropped := search.Compile(seeds, staticResolver{})
	assert.Equal(t, 1, dropped)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Name)
}

func TestCompileTraitFallback(t *testing.T) {
	trait := decl.DefID{Unit: 2, Node: 5}
	r := staticResolver{
		traits: map[decl.DefID][]string{trait: {"std", "io", "Read"}},
	}

	items, dropped := search.Compile([]search.Seed{
		{Kind: decl.KindMethod, Name: "poll", Parent: &trait},
	}, r)
	assert.Zero(t, dropped)
	require.Len(t, items, 1)
	assert.Equal(t, "std::io", items[0].Path)
	assert.Equal(t, &trait, items[0].Parent)
}

func TestCompileEmpty(t *testing.T) {
	items, dropped := search.Compile(nil, staticResolver{})
	assert.Zero(t, dropped)
	assert.Empty(t, items)
}
