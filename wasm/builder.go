package wasm

import "github.com/ts2wasm/ts2wasm-go/internal/go/gen"

// FuncBuilder accumulates the body of one Func under construction. It
// owns a name Scope so codegen's insert_tmp_var (§5) can allocate a
// fresh local name without colliding with user-declared parameters or
// locals already in scope.
type FuncBuilder struct {
	Name   string
	Sig    *FuncHeapType
	scope  gen.Scope
	locals []Field
	body   []Expr
}

// NewFuncBuilder returns a builder for a function named name with
// signature sig. The declared parameter names are pre-seeded into the
// scope so insert_tmp_var never shadows a parameter.
func NewFuncBuilder(name string, sig *FuncHeapType, paramNames []string) *FuncBuilder {
	fb := &FuncBuilder{Name: name, Sig: sig, scope: gen.NewScope(nil)}
	for _, p := range paramNames {
		fb.scope.UniqueName(p)
	}
	return fb
}

// DeclareLocal declares a new local of type t, using name as a hint,
// and returns the unique name assigned to it. This is insert_tmp_var
// (§5): "Components may push temporary locals into [the current
// function context]".
func (fb *FuncBuilder) DeclareLocal(name string, t WType) string {
	unique := fb.scope.UniqueName(name)
	fb.locals = append(fb.locals, Field{Name: unique, Type: t})
	return unique
}

// HasLocal reports whether name is already declared in this function's scope.
func (fb *FuncBuilder) HasLocal(name string) bool { return fb.scope.HasName(name) }

// Emit appends e to the function body.
func (fb *FuncBuilder) Emit(e Expr) { fb.body = append(fb.body, e) }

// Build finalizes the accumulated body into a *Func.
func (fb *FuncBuilder) Build() *Func {
	return &Func{Name: fb.Name, Sig: fb.Sig, Locals: fb.locals, Body: fb.body}
}
