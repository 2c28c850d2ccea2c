// Component D: Closure & Context (§4.D).
package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/codegen/mangle"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// mangledNameFor returns decl's linker name per §6 "Names", computing
// and caching it on first reference (generic specializations overwrite
// the cache with their own suffixed name via component G).
func (g *Generator) mangledNameFor(decl *sema.FunctionDecl) string {
	if mn := decl.MangledName(); mn != "" {
		return mn
	}
	var name string
	switch {
	case decl.Owner != nil && decl.Owner.Ctor == decl:
		name = mangle.Constructor(decl.Owner.Name)
	case decl.Owner != nil:
		name = mangle.Member(decl.Owner.Name, decl.Name)
	default:
		name = decl.Name
	}
	decl.SetMangledName(name)
	return name
}

// currentContextExpr reads the current function's own closure-context
// local (§5), or a typed null of the top type for a function with no
// enclosing context.
func (g *Generator) currentContextExpr() (wasm.Expr, error) {
	if g.fc.ctxLocal == "" {
		return wasm.RefNullExpr(wasm.Top), nil
	}
	info, err := g.typeOf(sema.ClosureContext{Decl: g.fc.ctxDecl})
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.LocalGet(g.fc.ctxLocal, info.wasmType), nil
}

// lowerClosureLit implements §4.D "Building a closure value": struct.new
// of the closure heap type with field 0 = the current context (captured
// verbatim, never copied) and field 1 = ref.func of the declaration.
func (g *Generator) lowerClosureLit(lit sema.ClosureLit) (wasm.Expr, error) {
	info, err := g.typeOf(lit.Decl.FuncType())
	if err != nil {
		return wasm.Expr{}, err
	}
	structType, ok := info.heapType.(*wasm.StructHeapType)
	if !ok {
		return wasm.Expr{}, invariant("lowerClosureLit", "closure type for %q has no struct heap type", lit.Decl.Name)
	}
	sig, err := g.signatureOf(lit.Decl.FuncType())
	if err != nil {
		return wasm.Expr{}, err
	}
	ctxExpr, err := g.currentContextExpr()
	if err != nil {
		return wasm.Expr{}, err
	}
	name := g.mangledNameFor(lit.Decl)
	return wasm.StructNewExpr(structType, ctxExpr, wasm.RefFuncExpr(name, sig)), nil
}

// closureChainGet implements §4.D's free-variable resolution walk: from
// the current function's own context, step through Parent links,
// narrowing the reference to each ancestor's context heap type with
// ref.cast, until the context that directly declares decl is found,
// then struct.get its slot (offset by 1 for the parent slot).
//
// A pass-through link (an intermediate ClosureContextType with no
// FreeVars of its own, §3 invariant 5) costs one step and one
// struct.get(parent) but no cast of its own shape beyond what the walk
// already performs — there is nothing else to read at that link.
func (g *Generator) closureChainGet(decl *sema.VarDecl) (wasm.Expr, error) {
	declInfo, err := g.typeOf(decl.Type)
	if err != nil {
		return wasm.Expr{}, err
	}
	cur, err := g.currentContextExpr()
	if err != nil {
		return wasm.Expr{}, err
	}
	for ctx := g.fc.ctxDecl; ctx != nil; ctx = ctx.Parent {
		ctxInfo, err := g.typeOf(sema.ClosureContext{Decl: ctx})
		if err != nil {
			return wasm.Expr{}, err
		}
		structType, ok := ctxInfo.heapType.(*wasm.StructHeapType)
		if !ok {
			return wasm.Expr{}, invariant("closureChainGet", "context type has no struct heap type")
		}
		cur = wasm.RefCastExpr(cur, structType, false)
		for i, fv := range ctx.FreeVars {
			if fv.Decl == decl {
				return wasm.StructGetExpr(cur, i+1, declInfo.wasmType), nil
			}
		}
		cur = wasm.StructGetExpr(cur, 0, wasm.RefNullable(wasm.Top))
	}
	return wasm.Expr{}, invariant("closureChainGet", "variable %q not found in enclosing closure chain", decl.Name)
}

// closureChainSet mirrors closureChainGet for an assignment target.
func (g *Generator) closureChainSet(decl *sema.VarDecl, rhs wasm.Expr) (wasm.Expr, error) {
	cur, err := g.currentContextExpr()
	if err != nil {
		return wasm.Expr{}, err
	}
	for ctx := g.fc.ctxDecl; ctx != nil; ctx = ctx.Parent {
		ctxInfo, err := g.typeOf(sema.ClosureContext{Decl: ctx})
		if err != nil {
			return wasm.Expr{}, err
		}
		structType, ok := ctxInfo.heapType.(*wasm.StructHeapType)
		if !ok {
			return wasm.Expr{}, invariant("closureChainSet", "context type has no struct heap type")
		}
		cur = wasm.RefCastExpr(cur, structType, false)
		for i, fv := range ctx.FreeVars {
			if fv.Decl == decl {
				return wasm.StructSetExpr(cur, i+1, rhs), nil
			}
		}
		cur = wasm.StructGetExpr(cur, 0, wasm.RefNullable(wasm.Top))
	}
	return wasm.Expr{}, invariant("closureChainSet", "variable %q not found in enclosing closure chain", decl.Name)
}
