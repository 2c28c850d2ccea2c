package codegen

import (
	"testing"

	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// S1 (spec.md §8): `a + b` with both f64 locals lowers to a single
// f64.add over two local.get reads, no intermediate boxing.
func TestScenarioArithmeticOnNumber(t *testing.T) {
	declA := &sema.VarDecl{Name: "a", Type: sema.Number{}}
	declB := &sema.VarDecl{Name: "b", Type: sema.Number{}}

	readA := sema.VarRead{Decl: declA}
	readA.SetType(sema.Number{})
	readB := sema.VarRead{Decl: declB}
	readB.SetType(sema.Number{})

	add := sema.Binary{Op: sema.Add, Left: readA, Right: readB}
	add.SetType(sema.Number{})

	fn := &sema.FunctionDecl{
		Name:          "add",
		Params:        []sema.Param{{Name: "a", Type: sema.Number{}}, {Name: "b", Type: sema.Number{}}},
		RestIndex:     -1,
		EnvParamCount: 1,
		Return:        sema.Number{},
		Body:          []sema.Value{add},
		Exported:      true,
	}

	prog := &sema.Program{Functions: []*sema.FunctionDecl{fn}}
	mod, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var got *wasm.Func
	for _, f := range mod.Funcs {
		if f.Name == "add" {
			got = f
		}
	}
	if got == nil {
		t.Fatalf("no emitted function named %q", "add")
	}
	if len(got.Body) != 1 {
		t.Fatalf("body = %d exprs, want 1", len(got.Body))
	}
	root := got.Body[0]
	if root.Op != wasm.OpF64Add {
		t.Errorf("root op = %v, want OpF64Add", root.Op)
	}
	if len(root.Args) != 2 {
		t.Fatalf("root args = %d, want 2", len(root.Args))
	}
	for _, a := range root.Args {
		if a.Op != wasm.OpLocalGet {
			t.Errorf("operand op = %v, want OpLocalGet", a.Op)
		}
	}
}
