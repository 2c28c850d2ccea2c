package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// lowerVarRead implements §4.B "Variable": Decl.Global selects
// global.get; a captured variable's storage lives in its declaring
// closure context's slot, reached by component D's chain walk (even
// when that walk is zero steps, i.e. decl is captured by some inner
// closure but read from the very function that declares it); anything
// else is a plain local.get.
func (g *Generator) lowerVarRead(v sema.VarRead) (wasm.Expr, error) {
	if v.Decl.Global {
		info, err := g.typeOf(v.Decl.Type)
		if err != nil {
			return wasm.Expr{}, err
		}
		return wasm.GlobalGet(v.Decl.Name, info.wasmType), nil
	}
	if v.Decl.Captured {
		return g.closureChainGet(v.Decl)
	}
	name, ok := g.fc.localFor(v.Decl)
	if !ok {
		return wasm.Expr{}, invariant("lowerVarRead", "variable %q has no local in the current function context", v.Decl.Name)
	}
	info, err := g.typeOf(v.Decl.Type)
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.LocalGet(name, info.wasmType), nil
}

// lowerVarWrite mirrors lowerVarRead for an assignment (§4.B "Variable").
func (g *Generator) lowerVarWrite(v sema.VarWrite) (wasm.Expr, error) {
	rhs, err := g.lower(v.RHS)
	if err != nil {
		return wasm.Expr{}, err
	}
	if v.Decl.Global {
		return wasm.GlobalSet(v.Decl.Name, rhs), nil
	}
	if v.Decl.Captured {
		return g.closureChainSet(v.Decl, rhs)
	}
	name, ok := g.fc.localFor(v.Decl)
	if !ok {
		return wasm.Expr{}, invariant("lowerVarWrite", "variable %q has no local in the current function context", v.Decl.Name)
	}
	return wasm.LocalSet(name, rhs), nil
}
