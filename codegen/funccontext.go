package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// funcContext is §5's "current function context": the single mutable
// state lowering shares across one function body. Component G snapshots
// and restores it around a specialization's nested recompile (§4.G); no
// other component keeps its own copy.
type funcContext struct {
	builder *wasm.FuncBuilder

	// locals maps a declared variable to the local name holding it.
	// Globals and variables captured by a closure get no entry here:
	// every read/write of a captured variable, including from its
	// declaring function, goes through its closure-context slot (§4.D).
	locals map[*sema.VarDecl]string

	// ctxLocal is the local name holding this function's own closure
	// context reference argument (slot 0 of every signature, §5).
	ctxLocal string

	// ctxDecl is the ClosureContextType this function's body executes
	// in, or nil for a function with no enclosing closure context.
	ctxDecl *sema.ClosureContextType

	// thisLocal is the local name holding the `this` argument (slot 1),
	// or "" for a function with no implicit this parameter.
	thisLocal string
}

// declareLocal pushes a fresh temporary local into the current function
// context (§5 "insert_tmp_var") and returns its assigned name.
func (fc *funcContext) declareLocal(hint string, t wasm.WType) string {
	return fc.builder.DeclareLocal(hint, t)
}

// localFor returns the local name holding decl's value in this context,
// or ("", false) if decl is not a local of the current function (a free
// variable reachable only through the closure-chain walk, §4.D).
func (fc *funcContext) localFor(decl *sema.VarDecl) (string, bool) {
	name, ok := fc.locals[decl]
	return name, ok
}
