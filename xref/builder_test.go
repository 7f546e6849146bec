package xref_test

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docdex/decl"
	"github.com/hupe1980/docdex/search"
	"github.com/hupe1980/docdex/testutil"
	"github.com/hupe1980/docdex/xref"
)

func TestSeedAnalysisExternalPaths(t *testing.T) {
	vec := testutil.ExternDef(2, 9)
	analysis := &decl.Analysis{
		ExternalPaths: map[decl.DefID]decl.PathSeed{
			vec: {Path: []string{"std", "vec", "Vec"}, Kind: decl.KindStruct},
		},
	}
	unit := testutil.Unit("demo", testutil.Root(
		testutil.Impl(5, testutil.Ref(vec, "Vec")),
	))

	b := xref.NewBuilder()
	require.NoError(t, b.SeedAnalysis(analysis))
	require.NoError(t, b.Crawl(unit))
	snap, err := b.Freeze()
	require.NoError(t, err)

	// The preseeded path made the impl resolvable without the orphan
	// queue.
	assert.Zero(t, snap.Stats().OrphansQueued)
	require.Len(t, snap.Impls(vec), 1)

	entry, ok := snap.Path(vec)
	require.True(t, ok)
	assert.Equal(t, []string{"std", "vec", "Vec"}, entry.Path)
	assert.Equal(t, decl.KindStruct, entry.Kind)

	ext, ok := snap.ExternalPath(vec)
	require.True(t, ok)
	assert.Equal(t, []string{"std", "vec", "Vec"}, ext)
}

func TestSeedAnalysisPublicOverride(t *testing.T) {
	public := roaring.New()
	public.Add(7)
	unit := testutil.Unit("demo", testutil.Root(
		testutil.Module(2, "inner", decl.VisInherited,
			testutil.Struct(7, "Exported"),
			testutil.Struct(8, "Hidden"),
		),
	))

	b := xref.NewBuilder()
	require.NoError(t, b.SeedAnalysis(&decl.Analysis{PublicItems: public}))
	require.NoError(t, b.Crawl(unit))
	snap, err := b.Freeze()
	require.NoError(t, err)

	// Exported is reachable through a public re-export and stays in
	// search despite the private module; Hidden does not.
	var names []string
	for _, it := range snap.SearchIndex() {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Exported"}, names)
}

func TestSeedAnalysisExternalTraitFallback(t *testing.T) {
	read := testutil.ExternDef(2, 5)
	analysis := &decl.Analysis{
		ExternalTraits: map[decl.DefID]decl.TraitSeed{
			read: {Name: "Read", Path: []string{"std", "io", "Read"}, Methods: []string{"poll"}},
		},
	}
	// The impl targets the external trait itself, so the method's parent
	// resolves only through the trait record.
	unit := testutil.Unit("demo", testutil.Root(
		testutil.Impl(10, testutil.Ref(read, "Read"), testutil.Method(11, "poll")),
	))

	b := xref.NewBuilder()
	require.NoError(t, b.SeedAnalysis(analysis))
	require.NoError(t, b.Crawl(unit))
	snap, err := b.Freeze()
	require.NoError(t, err)

	// The impl block itself never resolves, but the method still lands
	// in search through the trait-record fallback.
	assert.Equal(t, 1, snap.Stats().OrphansDropped)
	assert.Equal(t, []search.Item{
		{Kind: decl.KindMethod, Name: "poll", Path: "std::io", Parent: &read},
	}, snap.SearchIndex())

	info, ok := snap.Trait(read)
	require.True(t, ok)
	assert.Equal(t, "Read", info.Name)
	assert.Equal(t, []string{"poll"}, info.Methods)
}

func TestSeedAnalysisInlinedAndTyparams(t *testing.T) {
	target := testutil.ExternDef(3, 4)
	inlined := roaring64.New()
	inlined.Add(decl.PackDefID(target))

	b := xref.NewBuilder()
	require.NoError(t, b.SeedAnalysis(&decl.Analysis{
		Inlined:  inlined,
		Typarams: map[decl.DefID]string{testutil.Def(9): "T"},
	}))
	require.NoError(t, b.Crawl(testutil.Unit("demo", testutil.Root())))
	snap, err := b.Freeze()
	require.NoError(t, err)

	assert.True(t, snap.Inlined(target))
	assert.False(t, snap.Inlined(testutil.Def(1)))

	name, ok := snap.Typaram(testutil.Def(9))
	require.True(t, ok)
	assert.Equal(t, "T", name)
}
