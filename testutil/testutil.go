package testutil

import (
	"github.com/hupe1980/docdex/decl"
)

// Def returns a local definition identity.
func Def(node uint32) decl.DefID {
	return decl.DefID{Unit: decl.LocalUnit, Node: decl.NodeID(node)}
}

// ExternDef returns a definition identity in a foreign unit.
func ExternDef(unit, node uint32) decl.DefID {
	return decl.DefID{Unit: decl.UnitID(unit), Node: decl.NodeID(node)}
}

// Root builds the root module of a unit.
func Root(children ...*decl.Item) *decl.Item {
	return &decl.Item{
		Def:      decl.DefID{Unit: decl.LocalUnit, Node: decl.RootNode},
		Kind:     decl.KindModule,
		Vis:      decl.VisPublic,
		Children: children,
	}
}

// Module builds a module item with explicit visibility.
func Module(node uint32, name string, vis decl.Visibility, children ...*decl.Item) *decl.Item {
	return &decl.Item{Def: Def(node), Name: name, Kind: decl.KindModule, Vis: vis, Children: children}
}

// Struct builds a public struct item.
func Struct(node uint32, name string, children ...*decl.Item) *decl.Item {
	return &decl.Item{Def: Def(node), Name: name, Kind: decl.KindStruct, Vis: decl.VisPublic, Children: children}
}

// Enum builds a public enum item.
func Enum(node uint32, name string, children ...*decl.Item) *decl.Item {
	return &decl.Item{Def: Def(node), Name: name, Kind: decl.KindEnum, Vis: decl.VisPublic, Children: children}
}

// Fn builds a public free function item.
func Fn(node uint32, name string) *decl.Item {
	return &decl.Item{Def: Def(node), Name: name, Kind: decl.KindFunction, Vis: decl.VisPublic}
}

// Trait builds a public trait item.
func Trait(node uint32, name string, children ...*decl.Item) *decl.Item {
	return &decl.Item{Def: Def(node), Name: name, Kind: decl.KindTrait, Vis: decl.VisPublic, Children: children}
}

// Method builds a method item.
func Method(node uint32, name string) *decl.Item {
	return &decl.Item{Def: Def(node), Name: name, Kind: decl.KindMethod, Vis: decl.VisPublic}
}

// Field builds a struct field item.
func Field(node uint32, name string) *decl.Item {
	return &decl.Item{Def: Def(node), Name: name, Kind: decl.KindStructField, Vis: decl.VisPublic}
}

// Impl builds an inherent impl block for the given target.
func Impl(node uint32, target decl.TypeRef, children ...*decl.Item) *decl.Item {
	return &decl.Item{
		Def:      Def(node),
		Kind:     decl.KindImpl,
		Impl:     &decl.Impl{For: target},
		Children: children,
	}
}

// TraitImpl builds a trait impl block for the given target.
func TraitImpl(node uint32, trait, target decl.TypeRef, children ...*decl.Item) *decl.Item {
	return &decl.Item{
		Def:      Def(node),
		Kind:     decl.KindImpl,
		Impl:     &decl.Impl{Trait: &trait, For: target},
		Children: children,
	}
}

// Ref builds a type reference with a resolved identity.
func Ref(def decl.DefID, name string) decl.TypeRef {
	return decl.TypeRef{Name: name, Def: &def}
}

// NameRef builds a type reference with no identity, only a name.
func NameRef(name string) decl.TypeRef {
	return decl.TypeRef{Name: name}
}

// PrimRef builds a type reference to a primitive.
func PrimRef(p decl.Primitive) decl.TypeRef {
	return decl.TypeRef{Name: p.String(), Primitive: &p}
}

// Doc attaches documentation text to an item and returns it.
func Doc(item *decl.Item, doc string) *decl.Item {
	item.Doc = doc
	return item
}

// Private marks an item private and returns it.
func Private(item *decl.Item) *decl.Item {
	item.Vis = decl.VisInherited
	return item
}

// Unit wraps a root module into a unit.
func Unit(name string, root *decl.Item) *decl.Unit {
	return &decl.Unit{Name: name, Root: root}
}

// Extern builds an extern entry for a foreign unit.
func Extern(unit uint32, name string, attrs ...decl.Attr) decl.Extern {
	return decl.Extern{Unit: decl.UnitID(unit), Name: name, Attrs: attrs}
}
