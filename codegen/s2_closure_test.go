package codegen

import (
	"testing"

	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// S2 (spec.md §8, P7): a closure body reading a free variable declared
// in its own immediately-enclosing context performs exactly one
// struct.get on that context (zero parent hops, depth d read from
// depth d).
func TestScenarioClosureCaptureRead(t *testing.T) {
	xDecl := &sema.VarDecl{Name: "x", Type: sema.Number{}, Captured: true}
	ctx := &sema.ClosureContextType{
		FreeVars: []sema.FreeVar{{Name: "x", Type: sema.Number{}, Decl: xDecl}},
	}

	xRead := sema.VarRead{Decl: xDecl}
	xRead.SetType(sema.Number{})

	inner := &sema.FunctionDecl{
		Name:          "inner",
		RestIndex:     -1,
		EnvParamCount: 1,
		Return:        sema.Number{},
		Scope:         ctx,
		Body:          []sema.Value{xRead},
		Exported:      true,
	}

	prog := &sema.Program{Functions: []*sema.FunctionDecl{inner}}
	mod, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var got *wasm.Func
	for _, f := range mod.Funcs {
		if f.Name == "inner" {
			got = f
		}
	}
	if got == nil {
		t.Fatalf("no emitted function named %q", "inner")
	}
	if len(got.Body) != 1 {
		t.Fatalf("body = %d exprs, want 1", len(got.Body))
	}
	root := got.Body[0]
	if root.Op != wasm.OpStructGet {
		t.Fatalf("root op = %v, want OpStructGet", root.Op)
	}
	if root.Imm != 1 {
		t.Errorf("free-var struct.get field index = %v, want 1 (slot 0 is parent)", root.Imm)
	}
	if len(root.Args) != 1 || root.Args[0].Op != wasm.OpRefCast {
		t.Fatalf("struct.get operand = %+v, want a single ref.cast", root.Args)
	}
	cast := root.Args[0]
	if len(cast.Args) != 1 || cast.Args[0].Op != wasm.OpLocalGet {
		t.Errorf("ref.cast operand = %+v, want local.get of the context parameter", cast.Args)
	}
}
