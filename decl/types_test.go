package decl

import "testing"

func TestDefIDPackRoundTrip(t *testing.T) {
	tests := []DefID{
		{},
		{Unit: LocalUnit, Node: 1},
		{Unit: 1, Node: RootNode},
		{Unit: 42, Node: 1 << 30},
		{Unit: 1<<32 - 1, Node: 1<<32 - 1},
	}
	for _, d := range tests {
		got := UnpackDefID(PackDefID(d))
		if got != d {
			t.Errorf("pack/unpack %v: got %v", d, got)
		}
	}
}

func TestItemKindString(t *testing.T) {
	tests := []struct {
		kind ItemKind
		want string
	}{
		{KindModule, "mod"},
		{KindStruct, "struct"},
		{KindEnum, "enum"},
		{KindFunction, "fn"},
		{KindTypedef, "type"},
		{KindStatic, "static"},
		{KindTrait, "trait"},
		{KindImpl, "impl"},
		{KindStructField, "structfield"},
		{KindVariant, "variant"},
		{KindMacro, "macro"},
		{KindPrimitive, "primitive"},
		{KindAssocType, "associatedtype"},
		{KindMethod, "method"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ItemKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestItemKindClassification(t *testing.T) {
	for _, k := range []ItemKind{KindModule, KindStruct, KindEnum, KindFunction, KindTypedef, KindStatic, KindTrait, KindVariant} {
		if !k.TopLevel() {
			t.Errorf("%v should be top-level", k)
		}
		if k.Member() {
			t.Errorf("%v should not be a member kind", k)
		}
	}
	for _, k := range []ItemKind{KindMethod, KindAssocType, KindStructField} {
		if k.TopLevel() {
			t.Errorf("%v should not be top-level", k)
		}
		if !k.Member() {
			t.Errorf("%v should be a member kind", k)
		}
	}
	// Impl blocks are neither: they attach records to their target instead.
	if KindImpl.TopLevel() || KindImpl.Member() {
		t.Error("impl should be neither top-level nor member")
	}
}

func TestAttrValue(t *testing.T) {
	attrs := []Attr{
		{Name: "doc_html_root_url", Value: "https://docs.example.com/"},
		{Name: "doc_no_source", Value: ""},
	}
	if v, ok := AttrValue(attrs, "doc_html_root_url"); !ok || v != "https://docs.example.com/" {
		t.Errorf("AttrValue(doc_html_root_url) = %q, %v", v, ok)
	}
	if _, ok := AttrValue(attrs, "missing"); ok {
		t.Error("AttrValue(missing) should not be found")
	}
}

func TestTypeRefTarget(t *testing.T) {
	def := DefID{Unit: LocalUnit, Node: 7}
	ref := TypeRef{Name: "S", Def: &def}
	if got, ok := ref.Target(); !ok || got != def {
		t.Errorf("Target() = %v, %v", got, ok)
	}
	prim := PrimInt
	unresolved := TypeRef{Name: "int", Primitive: &prim}
	if _, ok := unresolved.Target(); ok {
		t.Error("primitive-only ref should have no target identity")
	}
}
