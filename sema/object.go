package sema

// MemberKind tags an ObjectDesc member (§3 "Object description").
type MemberKind int

const (
	FIELD MemberKind = iota
	METHOD
	ACCESSOR
)

func (k MemberKind) String() string {
	switch k {
	case FIELD:
		return "FIELD"
	case METHOD:
		return "METHOD"
	case ACCESSOR:
		return "ACCESSOR"
	default:
		return "MemberKind(?)"
	}
}

// Member is one entry of an ObjectDesc's ordered member list.
type Member struct {
	Kind      MemberKind
	Name      string
	Type      ValueType
	Static    bool
	Own       bool // false if inherited from Base without being overridden
	Getter    *FunctionDecl
	Setter    *FunctionDecl
	HasGetter bool
	HasSetter bool
}

// ObjectDesc is the language-level declaration of a class or interface
// (the "meta", §3). Descriptions with IsInterface have no concrete
// storage: only their member signatures are meaningful, never field or
// vtable slot layout.
type ObjectDesc struct {
	Name        string
	Members     []Member // ordered; source order, base members first is NOT assumed (see §4.E)
	Base        *ObjectDesc
	Ctor        *FunctionDecl
	IsInterface bool
}

// AllMembers returns members in base-then-own order: base.AllMembers()
// followed by d's own-declared members. Index computations in §4.E must
// be identical whether derived from d.Members directly or from this
// concatenation (P3); codegen's field/vtable indexers call this helper
// so both call sites share one implementation.
func (d *ObjectDesc) AllMembers() []Member {
	if d == nil {
		return nil
	}
	base := d.Base.AllMembers()
	own := make([]Member, 0, len(d.Members))
	for _, m := range d.Members {
		if m.Own {
			own = append(own, m)
		}
	}
	return append(base, own...)
}

// FieldIndex returns the stable field index of the FIELD member named
// name: the count of non-static FIELD members with an earlier position
// in AllMembers() (§3 invariant 3, §4.E). Returns -1 if name does not
// name a non-static field.
func (d *ObjectDesc) FieldIndex(name string) int {
	idx := 0
	for _, m := range d.AllMembers() {
		if m.Kind != FIELD || m.Static {
			continue
		}
		if m.Name == name {
			return idx
		}
		idx++
	}
	return -1
}

// StaticFieldIndex returns the stable index of the static FIELD member
// named name, restricted to static fields the same way FieldIndex is
// restricted to instance fields.
func (d *ObjectDesc) StaticFieldIndex(name string) int {
	idx := 0
	for _, m := range d.AllMembers() {
		if m.Kind != FIELD || !m.Static {
			continue
		}
		if m.Name == name {
			return idx
		}
		idx++
	}
	return -1
}

// VtableIndex returns the stable vtable slot index of the non-FIELD
// member named name, for the given accessor role. getter/setter pairs
// occupy two consecutive slots, getter first (§4.E); pass forSetter =
// true to land on the setter's slot. Returns -1 if no such member exists.
func (d *ObjectDesc) VtableIndex(name string, forSetter bool) int {
	idx := 0
	for _, m := range d.AllMembers() {
		if m.Kind == FIELD {
			continue
		}
		width := 1
		if m.Kind == ACCESSOR && m.HasGetter && m.HasSetter {
			width = 2
		}
		if m.Name == name {
			if forSetter && width == 2 {
				return idx + 1
			}
			return idx
		}
		idx += width
	}
	return -1
}

// FindMember returns the member named name and true, searching
// AllMembers() (base chain included), or the zero Member and false.
func (d *ObjectDesc) FindMember(name string) (Member, bool) {
	for _, m := range d.AllMembers() {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Depth returns the number of base links between d and the root class
// (0 for a root class with no Base).
func (d *ObjectDesc) Depth() int {
	n := 0
	for b := d.Base; b != nil; b = b.Base {
		n++
	}
	return n
}
