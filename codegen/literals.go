package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// lowerLiteral implements §4.B "Literal": primitive literals lower
// directly to a wasm constant; Null lowers to a typed null of the Null
// primitive's own struct type, not of the struct top type; Undefined is boxed to Any immediately, since it has
// no unboxed wasm representation (§3).
func (g *Generator) lowerLiteral(v sema.Value) (wasm.Expr, error) {
	switch lit := v.(type) {
	case sema.NumberLit:
		return wasm.F64Const(lit.V), nil
	case sema.IntLit:
		return wasm.I32Const(int32(lit.V)), nil
	case sema.BoolLit:
		if lit.V {
			return wasm.I32Const(1), nil
		}
		return wasm.I32Const(0), nil
	case sema.StringLit:
		return g.lowerStringLit(lit)
	case sema.NullLit:
		info, err := g.typeOf(sema.Null{})
		if err != nil {
			return wasm.Expr{}, err
		}
		h, _ := info.heapType.(*wasm.StructHeapType)
		return wasm.RefNullExpr(h), nil
	case sema.UndefinedLit:
		return g.boxToAny(wasm.Expr{Op: wasm.OpConstI32}, sema.Undefined{})
	default:
		return wasm.Expr{}, unimplemented("lowerLiteral", v)
	}
}

// lowerStringLit allocates the {hash, chars} struct for a string
// literal. The actual character array is built as a fixed-length i32
// array of code points (§3 "String"); hash is left to be computed at
// allocation time by a runtime helper in a complete backend, so this
// lowering emits a placeholder 0 — matching §1's framing of string
// interning/hashing as belonging to the runtime, not codegen.
func (g *Generator) lowerStringLit(lit sema.StringLit) (wasm.Expr, error) {
	info, err := g.typeOf(sema.String{})
	if err != nil {
		return wasm.Expr{}, err
	}
	structType, _ := info.heapType.(*wasm.StructHeapType)
	elems := make([]wasm.Expr, len(lit.Units))
	for i, r := range lit.Units {
		elems[i] = wasm.I32Const(int32(r))
	}
	chars := wasm.ArrayNewFixedExpr(info.arrayOriHeap, elems...)
	return wasm.StructNewExpr(structType, wasm.I32Const(0), chars), nil
}
