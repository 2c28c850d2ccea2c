package sema

import "testing"

func TestFieldIndexBaseThenOwn(t *testing.T) {
	base := &ObjectDesc{
		Name: "Base",
		Members: []Member{
			{Kind: FIELD, Name: "x", Own: true},
			{Kind: METHOD, Name: "m", Own: true},
		},
	}
	derived := &ObjectDesc{
		Name: "Derived",
		Base: base,
		Members: []Member{
			{Kind: FIELD, Name: "x", Own: false}, // inherited, not re-declared
			{Kind: METHOD, Name: "m", Own: false},
			{Kind: FIELD, Name: "y", Own: true},
			{Kind: METHOD, Name: "n", Own: true},
		},
	}

	if got := derived.FieldIndex("x"); got != 0 {
		t.Errorf("FieldIndex(x) = %d, want 0", got)
	}
	if got := derived.FieldIndex("y"); got != 1 {
		t.Errorf("FieldIndex(y) = %d, want 1", got)
	}
	if got := derived.VtableIndex("m", false); got != 0 {
		t.Errorf("VtableIndex(m) = %d, want 0", got)
	}
	if got := derived.VtableIndex("n", false); got != 1 {
		t.Errorf("VtableIndex(n) = %d, want 1", got)
	}

	// P3: computing via AllMembers() directly must agree.
	all := derived.AllMembers()
	if len(all) != 4 {
		t.Fatalf("AllMembers() len = %d, want 4", len(all))
	}
	if all[0].Name != "x" || all[2].Name != "y" {
		t.Errorf("AllMembers() order = %v", all)
	}
}

func TestVtableIndexGetterSetterPair(t *testing.T) {
	d := &ObjectDesc{
		Name: "Point",
		Members: []Member{
			{Kind: ACCESSOR, Name: "x", Own: true, HasGetter: true, HasSetter: true},
			{Kind: METHOD, Name: "norm", Own: true},
		},
	}
	if got := d.VtableIndex("x", false); got != 0 {
		t.Errorf("getter slot = %d, want 0", got)
	}
	if got := d.VtableIndex("x", true); got != 1 {
		t.Errorf("setter slot = %d, want 1", got)
	}
	if got := d.VtableIndex("norm", false); got != 2 {
		t.Errorf("norm slot = %d, want 2 (after getter/setter pair)", got)
	}
}

func TestStaticFieldIndexExcludesInstanceFields(t *testing.T) {
	d := &ObjectDesc{
		Name: "C",
		Members: []Member{
			{Kind: FIELD, Name: "count", Own: true, Static: true},
			{Kind: FIELD, Name: "x", Own: true},
			{Kind: FIELD, Name: "total", Own: true, Static: true},
		},
	}
	if got := d.StaticFieldIndex("count"); got != 0 {
		t.Errorf("StaticFieldIndex(count) = %d, want 0", got)
	}
	if got := d.StaticFieldIndex("total"); got != 1 {
		t.Errorf("StaticFieldIndex(total) = %d, want 1", got)
	}
	if got := d.FieldIndex("x"); got != 0 {
		t.Errorf("FieldIndex(x) = %d, want 0", got)
	}
}
