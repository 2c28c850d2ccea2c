package codegen

import (
	"testing"

	"github.com/ts2wasm/ts2wasm-go/dyntype"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// S5 (spec.md §8): `a === b` on two Any-typed operands boxes both
// sides and calls dyntype_cmp with the EqEqEq tag, never a bare
// struct/value comparison.
func TestScenarioAnyStrictEquality(t *testing.T) {
	aDecl := &sema.VarDecl{Name: "a", Type: sema.Any{}}
	bDecl := &sema.VarDecl{Name: "b", Type: sema.Any{}}
	aRead := sema.VarRead{Decl: aDecl}
	aRead.SetType(sema.Any{})
	bRead := sema.VarRead{Decl: bDecl}
	bRead.SetType(sema.Any{})

	eq := sema.Binary{Op: sema.StrictEq, Left: aRead, Right: bRead}
	eq.SetType(sema.Boolean{})

	fn := &sema.FunctionDecl{
		Name:          "eq",
		Params:        []sema.Param{{Name: "a", Type: sema.Any{}}, {Name: "b", Type: sema.Any{}}},
		RestIndex:     -1,
		EnvParamCount: 1,
		Return:        sema.Boolean{},
		Body:          []sema.Value{eq},
		Exported:      true,
	}

	prog := &sema.Program{Functions: []*sema.FunctionDecl{fn}}
	mod, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var got *wasm.Func
	for _, f := range mod.Funcs {
		if f.Name == "eq" {
			got = f
		}
	}
	if got == nil {
		t.Fatalf("no emitted function named %q", "eq")
	}
	if len(got.Body) != 1 {
		t.Fatalf("body = %d exprs, want 1", len(got.Body))
	}
	root := got.Body[0]
	if root.Op != wasm.OpCallImport || root.Imm != dyntype.Cmp {
		t.Fatalf("root = %+v, want a call to %s", root, dyntype.Cmp)
	}
	if len(root.Args) != 3 {
		t.Fatalf("dyntype_cmp args = %d, want 3", len(root.Args))
	}
	tag, ok := root.Args[2].Imm.(int32)
	if !ok || tag != int32(dyntype.CmpEqEqEq) {
		t.Errorf("cmp tag = %v, want CmpEqEqEq (%d)", root.Args[2].Imm, dyntype.CmpEqEqEq)
	}
}
