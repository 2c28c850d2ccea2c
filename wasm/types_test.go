package wasm

import "testing"

func TestStructHeapTypeIsSubtypeOf(t *testing.T) {
	base := &StructHeapType{Name: "Base", Fields: []Field{{Name: "vtable", Type: Ref(Top)}}}
	derived := &StructHeapType{Name: "Derived", Super: base, Fields: []Field{{Name: "vtable", Type: Ref(Top)}}}

	if !derived.IsSubtypeOf(base) {
		t.Errorf("derived should be a subtype of base")
	}
	if !derived.IsSubtypeOf(derived) {
		t.Errorf("a type is a subtype of itself")
	}
	if base.IsSubtypeOf(derived) {
		t.Errorf("base should not be a subtype of derived")
	}
}

func TestRefTString(t *testing.T) {
	s := &StructHeapType{Name: "$Point"}
	if got, want := Ref(s).String(), "(ref $Point)"; got != want {
		t.Errorf("Ref(s).String() = %q, want %q", got, want)
	}
	if got, want := RefNullable(s).String(), "(ref null $Point)"; got != want {
		t.Errorf("RefNullable(s).String() = %q, want %q", got, want)
	}
}
