package codegen

import (
	"testing"

	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// S6 (spec.md §8): a rest parameter collects its call-site arguments
// into an Array GC struct, and `.length` inside the callee reads the
// struct's i32 length slot directly (no loop, no runtime call).
func TestScenarioRestParamLength(t *testing.T) {
	arrType := sema.Array{Element: sema.Number{}}

	xsDecl := &sema.VarDecl{Name: "xs", Type: arrType}
	xsRead := sema.VarRead{Decl: xsDecl}
	xsRead.SetType(arrType)

	length := sema.FieldGet{Target: xsRead, Member: "length"}
	length.SetType(sema.Number{})

	f := &sema.FunctionDecl{
		Name:          "f",
		Params:        []sema.Param{{Name: "xs", Type: arrType}},
		RestIndex:     0,
		EnvParamCount: 1,
		Return:        sema.Number{},
		Body:          []sema.Value{length},
		Exported:      true,
	}

	lit := func(v float64) sema.Value {
		n := sema.NumberLit{V: v}
		n.SetType(sema.Number{})
		return n
	}
	call := sema.CallDirect{Callee: f, Args: []sema.Value{lit(1), lit(2), lit(3)}}
	call.SetType(sema.Number{})

	callF := &sema.FunctionDecl{
		Name: "callF", RestIndex: -1, EnvParamCount: 1,
		Return: sema.Number{}, Body: []sema.Value{call}, Exported: true,
	}

	prog := &sema.Program{Functions: []*sema.FunctionDecl{f, callF}}
	mod, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var gotF, gotCallF *wasm.Func
	for _, fn := range mod.Funcs {
		switch fn.Name {
		case "f":
			gotF = fn
		case "callF":
			gotCallF = fn
		}
	}
	if gotF == nil || gotCallF == nil {
		t.Fatalf("missing emitted functions: f=%v callF=%v", gotF, gotCallF)
	}

	if len(gotF.Body) != 1 {
		t.Fatalf("f body = %d exprs, want 1", len(gotF.Body))
	}
	lengthExpr := gotF.Body[0]
	if lengthExpr.Op != wasm.OpStructGet {
		t.Fatalf("f body root op = %v, want OpStructGet", lengthExpr.Op)
	}
	if lengthExpr.Imm != 1 {
		t.Errorf("length struct.get field index = %v, want 1", lengthExpr.Imm)
	}
	if lengthExpr.Type != (wasm.I32{}) {
		t.Errorf("length struct.get result type = %v, want i32", lengthExpr.Type)
	}

	if len(gotCallF.Body) != 1 {
		t.Fatalf("callF body = %d exprs, want 1", len(gotCallF.Body))
	}
	var findArrayNew func(e wasm.Expr) *wasm.Expr
	findArrayNew = func(e wasm.Expr) *wasm.Expr {
		if e.Op == wasm.OpStructNew {
			for _, a := range e.Args {
				if a.Op == wasm.OpArrayNewFixed {
					return &a
				}
			}
		}
		for _, a := range e.Args {
			if got := findArrayNew(a); got != nil {
				return got
			}
		}
		return nil
	}
	arrNew := findArrayNew(gotCallF.Body[0])
	if arrNew == nil {
		t.Fatalf("no array.new_fixed found building the rest-parameter array in callF's call site")
	}
	if len(arrNew.Args) != 3 {
		t.Errorf("rest array has %d elements, want 3", len(arrNew.Args))
	}
}
