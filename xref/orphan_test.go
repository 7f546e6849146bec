package xref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docdex/testutil"
	"github.com/hupe1980/docdex/xref"
)

func TestFlushOrphansUnresolvedDropped(t *testing.T) {
	// An impl whose target never appears anywhere is dropped after the
	// single flush; the build still completes.
	unit := testutil.Unit("demo", testutil.Root(
		testutil.Impl(5, testutil.Ref(testutil.Def(99), "Ghost")),
		testutil.Struct(7, "S"),
	))

	b := xref.NewBuilder()
	require.NoError(t, b.Crawl(unit))

	resolved, dropped := b.FlushOrphans()
	assert.Equal(t, 0, resolved)
	assert.Equal(t, 1, dropped)

	// The queue is drained; a second flush has nothing to retry.
	resolved, dropped = b.FlushOrphans()
	assert.Zero(t, resolved)
	assert.Zero(t, dropped)

	snap, err := b.Freeze()
	require.NoError(t, err)
	assert.Empty(t, snap.Impls(testutil.Def(99)))
	assert.Equal(t, 1, snap.Stats().OrphansDropped)
}

func TestFreezeFlushesPendingOrphans(t *testing.T) {
	unit := testutil.Unit("demo", testutil.Root(
		testutil.Impl(5, testutil.Ref(testutil.Def(7), "S")),
		testutil.Struct(7, "S"),
	))

	b := xref.NewBuilder()
	require.NoError(t, b.Crawl(unit))

	// Freeze without an explicit flush resolves the queue itself.
	snap, err := b.Freeze()
	require.NoError(t, err)
	assert.Len(t, snap.Impls(testutil.Def(7)), 1)
	assert.Equal(t, 1, snap.Stats().OrphansResolved)
}

func TestDroppedOrphanLeavesNoImplementor(t *testing.T) {
	// A dropped trait impl must not leave a dangling entry in the
	// implementor index.
	unit := testutil.Unit("demo", testutil.Root(
		testutil.Trait(4, "Trait"),
		testutil.TraitImpl(5, testutil.Ref(testutil.Def(4), "Trait"), testutil.Ref(testutil.Def(99), "Ghost")),
	))

	b := xref.NewBuilder()
	require.NoError(t, b.Crawl(unit))
	snap, err := b.Freeze()
	require.NoError(t, err)

	assert.Empty(t, snap.Implementors(testutil.Def(4)))
	assert.Equal(t, 1, snap.Stats().OrphansDropped)
}

func TestImplementorSkippedWithoutTraitIdentity(t *testing.T) {
	// A trait reference with no identity cannot be mirrored, but the
	// impl itself still attaches to its target.
	unit := testutil.Unit("demo", testutil.Root(
		testutil.Struct(7, "S"),
		testutil.TraitImpl(5, testutil.NameRef("Mystery"), testutil.Ref(testutil.Def(7), "S")),
	))

	b := xref.NewBuilder()
	require.NoError(t, b.Crawl(unit))
	snap, err := b.Freeze()
	require.NoError(t, err)

	impls := snap.Impls(testutil.Def(7))
	require.Len(t, impls, 1)
	require.NotNil(t, impls[0].Impl.Trait)
	assert.Equal(t, "Mystery", impls[0].Impl.Trait.Name)
	assert.Equal(t, 1, snap.Stats().ImplementorsSkipped)
}
