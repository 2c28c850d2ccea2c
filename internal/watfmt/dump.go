package watfmt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// opNames gives each wasm.Op a short mnemonic for Dump's s-expression
// rendering. Grounded on the teacher's wit/abi.go switch-to-string
// dispatch idiom used to name Canonical ABI shapes in diagnostics.
var opNames = map[wasm.Op]string{
	wasm.OpConstI32:         "i32.const",
	wasm.OpConstI64:         "i64.const",
	wasm.OpConstF64:         "f64.const",
	wasm.OpConstF32:         "f32.const",
	wasm.OpLocalGet:         "local.get",
	wasm.OpLocalSet:         "local.set",
	wasm.OpLocalTee:         "local.tee",
	wasm.OpGlobalGet:        "global.get",
	wasm.OpGlobalSet:        "global.set",
	wasm.OpF64Add:           "f64.add",
	wasm.OpF64Sub:           "f64.sub",
	wasm.OpF64Mul:           "f64.mul",
	wasm.OpF64Div:           "f64.div",
	wasm.OpF64Eq:            "f64.eq",
	wasm.OpF64Ne:            "f64.ne",
	wasm.OpF64Lt:            "f64.lt",
	wasm.OpF64Le:            "f64.le",
	wasm.OpF64Gt:            "f64.gt",
	wasm.OpF64Ge:            "f64.ge",
	wasm.OpI32Add:           "i32.add",
	wasm.OpI32Sub:           "i32.sub",
	wasm.OpI32Mul:           "i32.mul",
	wasm.OpI32DivU:          "i32.div_u",
	wasm.OpI32RemU:          "i32.rem_u",
	wasm.OpI32And:           "i32.and",
	wasm.OpI32Or:            "i32.or",
	wasm.OpI32Xor:           "i32.xor",
	wasm.OpI32Shl:           "i32.shl",
	wasm.OpI32Eq:            "i32.eq",
	wasm.OpI32Ne:            "i32.ne",
	wasm.OpI32Eqz:           "i32.eqz",
	wasm.OpI32LtU:           "i32.lt_u",
	wasm.OpI32LeU:           "i32.le_u",
	wasm.OpI32GtU:           "i32.gt_u",
	wasm.OpI32GeU:           "i32.ge_u",
	wasm.OpI64And:           "i64.and",
	wasm.OpI64Or:            "i64.or",
	wasm.OpI64Shl:           "i64.shl",
	wasm.OpI64ExtendI32U:    "i64.extend_i32_u",
	wasm.OpI32WrapI64:       "i32.wrap_i64",
	wasm.OpF64ConvertI32U:   "f64.convert_i32_u",
	wasm.OpI32TruncF64U:     "i32.trunc_f64_u",
	wasm.OpF64Ne0AndNotNaN:  "f64.truthy",
	wasm.OpBlock:            "block",
	wasm.OpBr:               "br",
	wasm.OpBrIf:             "br_if",
	wasm.OpSelect:           "select",
	wasm.OpUnreachable:      "unreachable",
	wasm.OpReturn:           "return",
	wasm.OpRefNull:          "ref.null",
	wasm.OpRefFunc:          "ref.func",
	wasm.OpRefIsNull:        "ref.is_null",
	wasm.OpRefCast:          "ref.cast",
	wasm.OpRefTest:          "ref.test",
	wasm.OpRefEq:            "ref.eq",
	wasm.OpStructNew:        "struct.new",
	wasm.OpStructGet:        "struct.get",
	wasm.OpStructSet:        "struct.set",
	wasm.OpArrayNew:         "array.new",
	wasm.OpArrayNewFixed:    "array.new_fixed",
	wasm.OpArrayNewDefault:  "array.new_default",
	wasm.OpArrayGet:         "array.get",
	wasm.OpArraySet:         "array.set",
	wasm.OpArrayLen:         "array.len",
	wasm.OpCall:             "call",
	wasm.OpCallRef:          "call_ref",
	wasm.OpCallImport:       "call",
}

// Dump renders mod as a readable, deterministic s-expression-shaped
// text, suitable for golden-file comparison in tests (internal/difftest)
// and for cmd/ts2wasm's "generate" subcommand. It is not a WAT encoder: it
// renders exactly the shape *wasm.Module carries, nothing more.
func Dump(mod *wasm.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(module\n\t(abi %s)\n", mod.TargetABI.String())

	for _, name := range sortedStructNames(mod.StructTypes) {
		dumpStructType(&b, mod.StructTypes[name])
	}
	for _, name := range sortedArrayNames(mod.ArrayTypes) {
		dumpArrayType(&b, mod.ArrayTypes[name])
	}
	for _, name := range sortedSigNames(mod.SigTypes) {
		dumpSigType(&b, mod.SigTypes[name])
	}
	for _, imp := range mod.Imports {
		dumpImport(&b, imp)
	}
	for _, g := range mod.Globals {
		dumpGlobal(&b, g)
	}
	for _, fn := range mod.Funcs {
		dumpFunc(&b, fn)
	}
	for _, exp := range mod.Exports {
		fmt.Fprintf(&b, "\t(export %q (func $%s))\n", exp.Name, exp.Func)
	}
	b.WriteString(")\n")
	return b.String()
}

func sortedStructNames(m map[string]*wasm.StructHeapType) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedArrayNames(m map[string]*wasm.ArrayHeapType) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedSigNames(m map[string]*wasm.FuncHeapType) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func dumpStructType(b *strings.Builder, s *wasm.StructHeapType) {
	fmt.Fprintf(b, "\t(type %s (struct", s.Name)
	if s.Super != nil {
		fmt.Fprintf(b, " (super %s)", s.Super.Name)
	}
	for _, f := range s.Fields {
		mut := ""
		if f.Mutable {
			mut = " mut"
		}
		fmt.Fprintf(b, " (field %s %s%s)", f.Name, f.Type, mut)
	}
	b.WriteString("))\n")
}

func dumpArrayType(b *strings.Builder, a *wasm.ArrayHeapType) {
	mut := ""
	if a.Mutable {
		mut = " mut"
	}
	fmt.Fprintf(b, "\t(type %s (array %s%s))\n", a.Name, a.Elem, mut)
}

func dumpSigType(b *strings.Builder, f *wasm.FuncHeapType) {
	fmt.Fprintf(b, "\t(type %s (func (env %d) (params", f.Name, f.EnvParamCount)
	for _, p := range f.Params {
		fmt.Fprintf(b, " %s", p)
	}
	b.WriteString(") (results")
	for _, r := range f.Results {
		fmt.Fprintf(b, " %s", r)
	}
	b.WriteString(")))\n")
}

func dumpImport(b *strings.Builder, imp wasm.Import) {
	switch {
	case imp.Table:
		fmt.Fprintf(b, "\t(import %q %q (table anyref))\n", imp.Module, imp.Name)
	case imp.Global != nil:
		fmt.Fprintf(b, "\t(import %q %q (global %s))\n", imp.Module, imp.Name, imp.Global)
	default:
		fmt.Fprintf(b, "\t(import %q %q (func %s))\n", imp.Module, imp.Name, imp.Sig.Name)
	}
}

func dumpGlobal(b *strings.Builder, g *wasm.Global) {
	mut := ""
	if g.Mutable {
		mut = "mut "
	}
	fmt.Fprintf(b, "\t(global $%s %s%s %s)\n", g.Name, mut, g.Type, dumpExpr(g.Init, 0))
}

func dumpFunc(b *strings.Builder, fn *wasm.Func) {
	fmt.Fprintf(b, "\t(func $%s\n", fn.Name)
	for _, l := range fn.Locals {
		fmt.Fprintf(b, "\t\t(local $%s %s)\n", l.Name, l.Type)
	}
	for _, e := range fn.Body {
		b.WriteString(Indent(dumpExpr(e, 0), 2))
	}
	b.WriteString("\t)\n")
}

func dumpExpr(e wasm.Expr, depth int) string {
	name, ok := opNames[e.Op]
	if !ok {
		name = fmt.Sprintf("op(%d)", e.Op)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(%s", name)
	if e.Imm != nil {
		switch imm := e.Imm.(type) {
		case string:
			fmt.Fprintf(&b, " %s", imm)
		case *wasm.FuncHeapType:
			fmt.Fprintf(&b, " %s", imm.Name)
		case wasm.HeapType:
			fmt.Fprintf(&b, " %s", imm.TypeName())
		default:
			fmt.Fprintf(&b, " %v", imm)
		}
	}
	for _, a := range e.Args {
		b.WriteString(" ")
		b.WriteString(dumpExpr(a, depth+1))
	}
	b.WriteString(")")
	return b.String() + "\n"
}
