package decl

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/stretchr/testify/assert"
)

func TestAnalysisNilSafety(t *testing.T) {
	var a *Analysis
	assert.False(t, a.PublicItem(1))
	assert.False(t, a.InlinedDef(DefID{Unit: 1, Node: 2}))

	empty := &Analysis{}
	assert.False(t, empty.PublicItem(1))
	assert.False(t, empty.InlinedDef(DefID{Unit: 1, Node: 2}))
}

func TestAnalysisMembership(t *testing.T) {
	pub := roaring.New()
	pub.Add(10)
	pub.Add(12)

	inl := roaring64.New()
	foreign := DefID{Unit: 3, Node: 44}
	inl.Add(PackDefID(foreign))

	a := &Analysis{PublicItems: pub, Inlined: inl}

	assert.True(t, a.PublicItem(10))
	assert.True(t, a.PublicItem(12))
	assert.False(t, a.PublicItem(11))

	assert.True(t, a.InlinedDef(foreign))
	assert.False(t, a.InlinedDef(DefID{Unit: 3, Node: 45}))
	assert.False(t, a.InlinedDef(DefID{Unit: 4, Node: 44}))
}
