package decl

import "fmt"

// UnitID identifies one compilation unit. The unit being documented is
// always LocalUnit; its dependencies are numbered by the frontend.
type UnitID uint32

// NodeID identifies one declaration node within a compilation unit.
// Node numbers are stable for the lifetime of a build and never reused.
type NodeID uint32

const (
	// LocalUnit is the unit currently being documented.
	LocalUnit UnitID = 0
	// RootNode is the node number of a unit's root module.
	RootNode NodeID = 0
)

// DefID is the identity of one declaration: a (unit, node) value pair.
// It is comparable and hashable by value and serves as the key for every
// cross-reference map in the index.
type DefID struct {
	Unit UnitID
	Node NodeID
}

// Local reports whether the declaration belongs to the unit being documented.
func (d DefID) Local() bool { return d.Unit == LocalUnit }

func (d DefID) String() string {
	return fmt.Sprintf("%d:%d", d.Unit, d.Node)
}

// PackDefID encodes a DefID into a single uint64, unit in the high half.
// Used for bitmap membership sets.
func PackDefID(d DefID) uint64 {
	return uint64(d.Unit)<<32 | uint64(d.Node)
}

// UnpackDefID is the inverse of PackDefID.
func UnpackDefID(v uint64) DefID {
	return DefID{Unit: UnitID(v >> 32), Node: NodeID(v)}
}

// ItemKind classifies a declaration. The numeric values are stable and are
// written into the serialized search index; never renumber existing kinds.
type ItemKind uint8

const (
	KindModule ItemKind = iota
	KindStruct
	KindEnum
	KindFunction
	KindTypedef
	KindStatic
	KindTrait
	KindImpl
	KindStructField
	KindVariant
	KindMacro
	KindPrimitive
	KindAssocType
	KindMethod
)

// String returns the short kind name used in rendered URLs, sidebar group
// headers and the search payload.
func (k ItemKind) String() string {
	switch k {
	case KindModule:
		return "mod"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "fn"
	case KindTypedef:
		return "type"
	case KindStatic:
		return "static"
	case KindTrait:
		return "trait"
	case KindImpl:
		return "impl"
	case KindStructField:
		return "structfield"
	case KindVariant:
		return "variant"
	case KindMacro:
		return "macro"
	case KindPrimitive:
		return "primitive"
	case KindAssocType:
		return "associatedtype"
	case KindMethod:
		return "method"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// TopLevel reports whether declarations of this kind receive their own path
// table entry. Member kinds (methods, fields, associated types) are reachable
// through their parent instead.
func (k ItemKind) TopLevel() bool {
	switch k {
	case KindModule, KindStruct, KindEnum, KindFunction, KindTypedef,
		KindStatic, KindTrait, KindVariant:
		return true
	default:
		return false
	}
}

// Member reports whether declarations of this kind attach to an enclosing
// type rather than standing on their own.
func (k ItemKind) Member() bool {
	switch k {
	case KindMethod, KindAssocType, KindStructField:
		return true
	default:
		return false
	}
}

// Visibility of a declaration. The zero value inherits the enclosing scope.
type Visibility uint8

const (
	VisInherited Visibility = iota
	VisPublic
)

func (v Visibility) String() string {
	if v == VisPublic {
		return "public"
	}
	return "inherited"
}

// StabilityLevel orders maturity tags from least to most stable.
type StabilityLevel uint8

const (
	Deprecated StabilityLevel = iota
	Experimental
	Unstable
	Stable
	Frozen
	Locked
)

func (l StabilityLevel) String() string {
	switch l {
	case Deprecated:
		return "deprecated"
	case Experimental:
		return "experimental"
	case Unstable:
		return "unstable"
	case Stable:
		return "stable"
	case Frozen:
		return "frozen"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// Stability is an optional maturity tag on a declaration.
type Stability struct {
	Level StabilityLevel
	Text  string
}

// Primitive enumerates the language's built-in types. Primitives have
// documentation pages like any other type, but which unit owns the page is
// decided by the location resolver rather than by a declaration site.
type Primitive uint8

const (
	PrimBool Primitive = iota
	PrimChar
	PrimInt
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat32
	PrimFloat64
	PrimStr
	PrimSlice
	PrimArray
	PrimTuple
	PrimUnit
	PrimPointer
	PrimReference
	PrimFunc
)

func (p Primitive) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimChar:
		return "char"
	case PrimInt:
		return "int"
	case PrimInt8:
		return "i8"
	case PrimInt16:
		return "i16"
	case PrimInt32:
		return "i32"
	case PrimInt64:
		return "i64"
	case PrimUint:
		return "uint"
	case PrimUint8:
		return "u8"
	case PrimUint16:
		return "u16"
	case PrimUint32:
		return "u32"
	case PrimUint64:
		return "u64"
	case PrimFloat32:
		return "f32"
	case PrimFloat64:
		return "f64"
	case PrimStr:
		return "str"
	case PrimSlice:
		return "slice"
	case PrimArray:
		return "array"
	case PrimTuple:
		return "tuple"
	case PrimUnit:
		return "unit"
	case PrimPointer:
		return "pointer"
	case PrimReference:
		return "reference"
	case PrimFunc:
		return "fn"
	default:
		return fmt.Sprintf("primitive(%d)", uint8(p))
	}
}

// TypeRef is a resolved reference to a type as it appears in an impl block.
// Def is set when the frontend resolved the reference to a declaration;
// Primitive is set when the reference names a built-in type. Either or both
// may be nil for references the frontend could not resolve.
type TypeRef struct {
	Name      string
	Def       *DefID
	Primitive *Primitive
}

// Target returns the declaration identity an impl block on this type should
// attach to, if one is known.
func (t TypeRef) Target() (DefID, bool) {
	if t.Def != nil {
		return *t.Def, true
	}
	return DefID{}, false
}

// Impl is the payload of a KindImpl item: an implementation block for the
// type For, optionally implementing the trait Trait.
type Impl struct {
	Generics string
	Trait    *TypeRef
	For      TypeRef
}

// Item is one node of the declaration tree.
//
// Name is empty for the root module and for impl blocks. Impl is non-nil
// exactly when Kind is KindImpl. Doc holds raw markdown.
type Item struct {
	Def       DefID
	Name      string
	Kind      ItemKind
	Vis       Visibility
	Doc       string
	Stability *Stability
	Impl      *Impl
	Children  []*Item
}

// Attr is one name/value attribute attached to a unit or extern reference.
type Attr struct {
	Name  string
	Value string
}

// AttrValue returns the value of the named attribute, if present.
func AttrValue(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Extern is a reference to one external compilation unit the documented
// unit depends on.
type Extern struct {
	Unit       UnitID
	Name       string
	Attrs      []Attr
	Primitives []Primitive
}

// Unit is a fully resolved compilation unit ready for indexing.
//
// Externs are ordered from the root of the dependency graph outward:
// direct dependencies first, transitively deeper units after. The primitive
// location tie-break depends on this order.
type Unit struct {
	Name       string
	Root       *Item
	Attrs      []Attr
	Primitives []Primitive
	Externs    []Extern
}
