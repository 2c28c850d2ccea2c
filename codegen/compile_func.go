package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// compileFunction lowers one function or method declaration's body into
// a *wasm.Func and appends it to the module (§2 "Control flow": "walks
// each function body once, dispatching every value node into component
// B"). Parameter locals share FuncBuilder's name scope directly (no
// separate local declared for a parameter); every other non-global,
// non-captured VarDecl the body references gets one fresh local,
// declared up front so emission
// order never depends on control flow.
func (g *Generator) compileFunction(fn *sema.FunctionDecl) error {
	sig, err := g.signatureOf(fn.FuncType())
	if err != nil {
		return err
	}
	paramNames := make([]string, 0, len(fn.Params)+fn.EnvParamCount)
	paramSet := make(map[string]bool)
	paramNames = append(paramNames, "$ctx")
	paramSet["$ctx"] = true
	if fn.EnvParamCount >= 2 {
		paramNames = append(paramNames, "$this")
		paramSet["$this"] = true
	}
	for _, p := range fn.Params {
		paramNames = append(paramNames, p.Name)
		paramSet[p.Name] = true
	}

	fb := wasm.NewFuncBuilder(g.mangledNameFor(fn), sig, paramNames)
	fc := &funcContext{
		builder: fb,
		locals:  make(map[*sema.VarDecl]string),
		ctxLocal: "$ctx",
		ctxDecl:  fn.Scope,
	}
	if fn.EnvParamCount >= 2 {
		fc.thisLocal = "$this"
	}
	g.fc = fc

	for _, decl := range collectLocalDecls(fn.Body) {
		if paramSet[decl.Name] {
			fc.locals[decl] = decl.Name
			continue
		}
		info, err := g.typeOf(decl.Type)
		if err != nil {
			return err
		}
		fc.locals[decl] = fc.declareLocal(decl.Name, info.wasmType)
	}

	for _, stmt := range fn.Body {
		expr, err := g.lower(stmt)
		if err != nil {
			return err
		}
		fb.Emit(expr)
	}
	g.mod.AddFunc(fb.Build())
	return nil
}
