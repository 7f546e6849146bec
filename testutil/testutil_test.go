package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docdex/decl"
)

func TestDef(t *testing.T) {
	assert.Equal(t, decl.DefID{Unit: decl.LocalUnit, Node: 7}, Def(7))
	assert.Equal(t, decl.DefID{Unit: 3, Node: 9}, ExternDef(3, 9))
}

func TestRoot(t *testing.T) {
	child := Fn(1, "run")
	root := Root(child)

	assert.Equal(t, decl.DefID{Unit: decl.LocalUnit, Node: decl.RootNode}, root.Def)
	assert.Equal(t, decl.KindModule, root.Kind)
	assert.Equal(t, decl.VisPublic, root.Vis)
	assert.Empty(t, root.Name)
	assert.Equal(t, []*decl.Item{child}, root.Children)
}

func TestItemKinds(t *testing.T) {
	tests := []struct {
		item *decl.Item
		kind decl.ItemKind
		name string
	}{
		{Module(1, "net", decl.VisPublic), decl.KindModule, "net"},
		{Struct(2, "Client"), decl.KindStruct, "Client"},
		{Enum(3, "State"), decl.KindEnum, "State"},
		{Fn(4, "dial"), decl.KindFunction, "dial"},
		{Trait(5, "Reader"), decl.KindTrait, "Reader"},
		{Method(6, "read"), decl.KindMethod, "read"},
		{Field(7, "addr"), decl.KindStructField, "addr"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.item.Kind, tt.name)
		assert.Equal(t, tt.name, tt.item.Name)
		assert.Equal(t, decl.VisPublic, tt.item.Vis, tt.name)
	}
}

func TestModuleVisibility(t *testing.T) {
	assert.Equal(t, decl.VisInherited, Module(1, "inner", decl.VisInherited).Vis)
	assert.Equal(t, decl.VisPublic, Module(2, "outer", decl.VisPublic).Vis)
}

func TestImpl(t *testing.T) {
	m := Method(2, "close")
	item := Impl(1, Ref(Def(3), "File"), m)

	assert.Equal(t, decl.KindImpl, item.Kind)
	assert.Empty(t, item.Name)
	require.NotNil(t, item.Impl)
	assert.Nil(t, item.Impl.Trait)
	assert.Equal(t, "File", item.Impl.For.Name)
	assert.Equal(t, []*decl.Item{m}, item.Children)
}

func TestTraitImpl(t *testing.T) {
	item := TraitImpl(1, Ref(Def(2), "Close"), Ref(Def(3), "File"))

	assert.Equal(t, decl.KindImpl, item.Kind)
	require.NotNil(t, item.Impl)
	require.NotNil(t, item.Impl.Trait)
	assert.Equal(t, "Close", item.Impl.Trait.Name)
	assert.Equal(t, Def(2), *item.Impl.Trait.Def)
	assert.Equal(t, Def(3), *item.Impl.For.Def)
}

func TestTypeRefs(t *testing.T) {
	ref := Ref(Def(4), "Socket")
	assert.Equal(t, "Socket", ref.Name)
	require.NotNil(t, ref.Def)
	assert.Equal(t, Def(4), *ref.Def)
	assert.Nil(t, ref.Primitive)

	name := NameRef("Unknown")
	assert.Equal(t, "Unknown", name.Name)
	assert.Nil(t, name.Def)
	assert.Nil(t, name.Primitive)

	prim := PrimRef(decl.PrimStr)
	assert.Equal(t, "str", prim.Name)
	require.NotNil(t, prim.Primitive)
	assert.Equal(t, decl.PrimStr, *prim.Primitive)
	assert.Nil(t, prim.Def)
}

func TestDocAndPrivate(t *testing.T) {
	item := Struct(1, "Conn")

	assert.Same(t, item, Doc(item, "A connection."))
	assert.Equal(t, "A connection.", item.Doc)

	assert.Same(t, item, Private(item))
	assert.Equal(t, decl.VisInherited, item.Vis)
}

func TestUnit(t *testing.T) {
	root := Root(Fn(1, "main"))
	unit := Unit("app", root)

	assert.Equal(t, "app", unit.Name)
	assert.Same(t, root, unit.Root)
}

func TestExtern(t *testing.T) {
	ext := Extern(2, "corelib", decl.Attr{Name: "doc_html_root_url", Value: "https://docs.example.com/corelib/"})

	assert.Equal(t, decl.UnitID(2), ext.Unit)
	assert.Equal(t, "corelib", ext.Name)

	v, ok := decl.AttrValue(ext.Attrs, "doc_html_root_url")
	assert.True(t, ok)
	assert.Equal(t, "https://docs.example.com/corelib/", v)
}
