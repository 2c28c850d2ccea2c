package codegen

import (
	"testing"

	"github.com/ts2wasm/ts2wasm-go/dyntype"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// S3 (spec.md §8): `i.m()` on an Interface-typed receiver resolves the
// method slot through the itable (find_index by name) and invokes the
// bound callable it returns, rather than a direct struct.get.
func TestScenarioInterfaceMethodCall(t *testing.T) {
	methodType := sema.Function{RestIndex: -1, EnvParamCount: 1, Return: sema.Number{}}
	desc := &sema.ObjectDesc{
		Name:        "I",
		IsInterface: true,
		Members:     []sema.Member{{Kind: sema.METHOD, Name: "m", Type: methodType, Own: true}},
	}
	ifaceType := sema.Interface{Desc: desc}

	iDecl := &sema.VarDecl{Name: "i", Type: ifaceType}
	iRead := sema.VarRead{Decl: iDecl}
	iRead.SetType(ifaceType)

	call := sema.CallInterface{Receiver: iRead, Member: "m"}
	call.SetType(sema.Number{})

	fn := &sema.FunctionDecl{
		Name:          "callM",
		Params:        []sema.Param{{Name: "i", Type: ifaceType}},
		RestIndex:     -1,
		EnvParamCount: 1,
		Return:        sema.Number{},
		Body:          []sema.Value{call},
		Exported:      true,
	}

	prog := &sema.Program{Functions: []*sema.FunctionDecl{fn}, Interfaces: []*sema.ObjectDesc{desc}}
	mod, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var got *wasm.Func
	for _, f := range mod.Funcs {
		if f.Name == "callM" {
			got = f
		}
	}
	if got == nil {
		t.Fatalf("no emitted function named %q", "callM")
	}
	if len(got.Body) != 1 {
		t.Fatalf("body = %d exprs, want 1", len(got.Body))
	}

	var sawFindIndex, sawStructGetDynFuncref bool
	var walk func(e wasm.Expr)
	walk = func(e wasm.Expr) {
		if e.Op == wasm.OpCallImport {
			switch e.Imm {
			case dyntype.FindIndex:
				sawFindIndex = true
			case dyntype.StructGetDynFuncref:
				sawStructGetDynFuncref = true
			}
		}
		for _, a := range e.Args {
			walk(a)
		}
	}
	walk(got.Body[0])

	if !sawFindIndex {
		t.Errorf("interface call never resolved the method slot via %s", dyntype.FindIndex)
	}
	if !sawStructGetDynFuncref {
		t.Errorf("interface call never fetched the bound callable via %s", dyntype.StructGetDynFuncref)
	}
}
