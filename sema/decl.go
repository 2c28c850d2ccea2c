package sema

// FunctionDecl is a FunctionDeclareNode attachment (§6): a function or
// method declaration together with its body. Component G mutates a
// generic FunctionDecl in place during specialization and restores it
// afterward (§4.G); every other reader treats it as immutable.
type FunctionDecl struct {
	Name          string
	Params        []Param
	OptionalMask  []bool
	RestIndex     int // -1 if no rest parameter
	EnvParamCount int
	Return        ValueType
	TypeParams    []TypeParameter
	Specialization []ValueType
	Body          []Value
	Exported      bool

	// Owner is the ObjectDesc this declaration is a member or
	// constructor of, or nil for a module-level function.
	Owner *ObjectDesc

	// Scope is the lexical scope this declaration's body executes in;
	// nil for declarations with no enclosing closure context (top-level
	// functions with no captured free variables still have a Scope with
	// an empty FreeVars list per §3 invariant 5).
	Scope *ClosureContextType

	// mangledName caches the name component G assigns a specialized
	// instance; empty for unspecialized declarations.
	mangledName string
}

// FuncType returns the Function ValueType this declaration implements.
func (f *FunctionDecl) FuncType() Function {
	return Function{
		Params:         f.Params,
		OptionalMask:   f.OptionalMask,
		RestIndex:      f.RestIndex,
		EnvParamCount:  f.EnvParamCount,
		Return:         f.Return,
		TypeParams:     f.TypeParams,
		Specialization: f.Specialization,
	}
}

// IsGeneric reports whether f declares type parameters and has not
// itself been produced by specializing one (§4.G).
func (f *FunctionDecl) IsGeneric() bool {
	return len(f.TypeParams) > 0 && f.Specialization == nil
}

// IsMethod reports whether f is declared as a member of an ObjectDesc
// with an implicit `this` environment parameter.
func (f *FunctionDecl) IsMethod() bool {
	return f.Owner != nil && f.EnvParamCount >= 2
}

// MangledName returns the name component G previously assigned this
// declaration via SetMangledName, or "" if it has none yet.
func (f *FunctionDecl) MangledName() string { return f.mangledName }

// SetMangledName records the mangled name component G assigns a
// specialized instance (§4.G).
func (f *FunctionDecl) SetMangledName(name string) { f.mangledName = name }

// VarDecl is a VarDeclareNode attachment (§6): a local, global, or
// captured-free variable declaration.
type VarDecl struct {
	Name     string
	Type     ValueType
	Init     Value // nil for a declaration with no initializer
	Global   bool
	Captured bool // true if any inner closure captures this variable
}

// FreeVar is one captured free variable slot of a ClosureContextType
// (§3 invariant 5, §4.D).
type FreeVar struct {
	Name string
	Type ValueType
	Decl *VarDecl
}

// ClosureContextType describes one link in the parent-chained closure
// environment record chain (§3 "ClosureContext", §4.D). The root
// context (no captures anywhere above it) has Parent == nil and an
// empty FreeVars list; its runtime representation is the null reference
// of the empty-struct top type (§3 invariant 5).
type ClosureContextType struct {
	Parent   *ClosureContextType
	FreeVars []FreeVar
}

// Depth returns the number of Parent links from root to ctx (0 for the root).
func (ctx *ClosureContextType) Depth() int {
	n := 0
	for c := ctx; c != nil && c.Parent != nil; c = c.Parent {
		n++
	}
	return n
}

// IndexOf returns the slot index (0-based among FreeVars) of the free
// variable named name declared directly in ctx, and true, or (-1, false)
// if ctx does not itself declare it.
func (ctx *ClosureContextType) IndexOf(name string) (int, bool) {
	for i, fv := range ctx.FreeVars {
		if fv.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Declares reports whether ctx directly owns (declares, not merely
// passes through) any free variables. A context with an empty FreeVars
// list is a "pass-through" link that the closure chain walk (§4.D)
// skips over without counting a slot-0 load against the walk's step
// count for P7's purposes beyond the load itself.
func (ctx *ClosureContextType) Declares() bool {
	return len(ctx.FreeVars) > 0
}
