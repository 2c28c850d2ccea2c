package codegen

import (
	"strings"
	"testing"

	"github.com/ts2wasm/ts2wasm-go/sema"
)

// S4 (spec.md §8): calling a generic function with two different
// specialization arguments emits two distinct functions whose names
// differ and whose signatures use the substituted types (P5).
func TestScenarioGenericSpecialization(t *testing.T) {
	typeParamT := sema.TypeParameter{Name: "T", Index: 0}

	id := &sema.FunctionDecl{
		Name:          "id",
		Params:        []sema.Param{{Name: "x", Type: typeParamT}},
		RestIndex:     -1,
		EnvParamCount: 1,
		Return:        typeParamT,
		TypeParams:    []sema.TypeParameter{typeParamT},
		Body: []sema.Value{
			func() sema.Value {
				r := sema.VarRead{Decl: &sema.VarDecl{Name: "x", Type: typeParamT}}
				r.SetType(typeParamT)
				return r
			}(),
		},
	}

	numLit := sema.NumberLit{V: 1}
	numLit.SetType(sema.Number{})
	callNumber := sema.CallDirect{Callee: id, Args: []sema.Value{numLit}}
	callNumber.SetType(typeParamT)

	strLit := sema.StringLit{Units: []rune("hi")}
	strLit.SetType(sema.String{})
	callString := sema.CallDirect{Callee: id, Args: []sema.Value{strLit}}
	callString.SetType(typeParamT)

	callNumFn := &sema.FunctionDecl{
		Name: "callNum", RestIndex: -1, EnvParamCount: 1,
		Return: sema.Number{}, Body: []sema.Value{callNumber}, Exported: true,
	}
	callStrFn := &sema.FunctionDecl{
		Name: "callStr", RestIndex: -1, EnvParamCount: 1,
		Return: sema.String{}, Body: []sema.Value{callString}, Exported: true,
	}

	prog := &sema.Program{Functions: []*sema.FunctionDecl{id, callNumFn, callStrFn}}
	mod, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var specialized []string
	for _, f := range mod.Funcs {
		if strings.HasPrefix(f.Name, "id_") {
			specialized = append(specialized, f.Name)
		}
	}
	if len(specialized) != 2 {
		t.Fatalf("specialized funcs = %v, want exactly 2", specialized)
	}
	if specialized[0] == specialized[1] {
		t.Errorf("specializations for number and string produced the same name %q", specialized[0])
	}

	var gotNum, gotStr bool
	for _, f := range mod.Funcs {
		if !strings.HasPrefix(f.Name, "id_") {
			continue
		}
		if len(f.Sig.Results) != 1 {
			t.Fatalf("specialized func %s: %d results, want 1", f.Name, len(f.Sig.Results))
		}
		switch f.Sig.Results[0].String() {
		case "f64":
			gotNum = true
		default:
			gotStr = true
		}
	}
	if !gotNum || !gotStr {
		t.Errorf("expected one f64-returning and one non-f64-returning specialization, got num=%v str=%v", gotNum, gotStr)
	}
}
