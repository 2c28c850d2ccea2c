// Component F: Any Boundary (§4.F). Boxing/unboxing between concrete
// value representations and the dyntype-managed anyref handle, and the
// dynamic fallbacks for binary operators, casts, typeof/toString, and
// calls that route through it.
//
// The dyntype import signatures (§6) describe their non-scalar operands
// as a generic anyref: under the wasm GC type hierarchy every struct and
// array heap type codegen builds (closure contexts, strings, classes,
// interfaces) is itself a subtype of anyref, so a GC struct/array
// reference can be passed directly wherever an import expects one — no
// intermediate widening cast is needed. wasm.Extern names the
// specific handle a dyntype_new_* call hands back, not a requirement
// that every argument already be of that type.
package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/dyntype"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// boxToAny implements §4.F "boxing": wraps a concretely typed value in
// the dyntype-managed anyref handle via the matching dyntype_new_*
// import.
func (g *Generator) boxToAny(v wasm.Expr, t sema.ValueType) (wasm.Expr, error) {
	switch t.(type) {
	case sema.Any:
		return v, nil
	case sema.Number:
		return wasm.CallImportExpr(dyntype.NewNumber, wasm.Ref(wasm.Extern), v), nil
	case sema.Int:
		f := wasm.Expr{Op: wasm.OpF64ConvertI32U, Type: wasm.F64{}, Args: []wasm.Expr{v}}
		return wasm.CallImportExpr(dyntype.NewNumber, wasm.Ref(wasm.Extern), f), nil
	case sema.Boolean:
		return wasm.CallImportExpr(dyntype.NewBoolean, wasm.Ref(wasm.Extern), v), nil
	case sema.String:
		return wasm.CallImportExpr(dyntype.NewString, wasm.Ref(wasm.Extern), v), nil
	case sema.Null:
		return wasm.CallImportExpr(dyntype.NewNull, wasm.Ref(wasm.Extern)), nil
	case sema.Undefined:
		return wasm.CallImportExpr(dyntype.NewUndefined, wasm.Ref(wasm.Extern)), nil
	default:
		// Object, Interface, Array, Function: boxed as an opaque external
		// reference the dyntype runtime tracks by a stable class id
		// (§4.F "extref"); class id 0 names "no declared class" for
		// arrays and closures, which only need identity through the Any
		// boundary, not prototype lookup.
		classID := int32(0)
		if desc := sema.ObjectDescOf(t); desc != nil {
			classID = g.classIDFor(desc)
		}
		return wasm.CallImportExpr(dyntype.NewExtref, wasm.Ref(wasm.Extern), wasm.I32Const(classID), v), nil
	}
}

// classIDFor assigns each concrete class a stable integer id, unique
// within this Generator's compilation and starting at 1 (0 is reserved
// for "no declared class"), on first reference, for use as
// dyntype_new_extref's class tag and in instanceof/typeof checks
// against Any.
func (g *Generator) classIDFor(desc *sema.ObjectDesc) int32 {
	if id, ok := g.classIDs[desc]; ok {
		return id
	}
	id := int32(len(g.classIDs)) + 1
	g.classIDs[desc] = id
	return id
}

// unboxFromAny implements §4.F "unboxing": the inverse of boxToAny for
// the scalar primitives, via dyntype_to_*. Unboxing to a GC reference
// type (Object/Array/Interface/Function) recovers the original
// reference through dyntype_to_extref followed by a ref.cast, trapping
// per §4.B "Casts" if the dynamic value does not hold one.
func (g *Generator) unboxFromAny(v wasm.Expr, t sema.ValueType) (wasm.Expr, error) {
	switch t.(type) {
	case sema.Any:
		return v, nil
	case sema.Number:
		return wasm.CallImportExpr(dyntype.ToNumber, wasm.F64{}, v), nil
	case sema.Int:
		f := wasm.CallImportExpr(dyntype.ToNumber, wasm.F64{}, v)
		return wasm.Expr{Op: wasm.OpI32TruncF64U, Type: wasm.I32{}, Args: []wasm.Expr{f}}, nil
	case sema.Boolean:
		return wasm.CallImportExpr(dyntype.ToBool, wasm.I32{}, v), nil
	case sema.String:
		info, err := g.typeOf(t)
		if err != nil {
			return wasm.Expr{}, err
		}
		return wasm.RefCastExpr(v, info.heapType, false), nil
	default:
		info, err := g.typeOf(t)
		if err != nil {
			return wasm.Expr{}, err
		}
		return wasm.RefCastExpr(v, info.heapType, false), nil
	}
}

// buildAnyArgsArray packs already-boxed call arguments into a
// dyntype-managed argument array (§4.B "Any-call") for invoke_func.
func (g *Generator) buildAnyArgsArray(boxed []wasm.Expr) wasm.Expr {
	arr := wasm.CallImportExpr(dyntype.NewArray, wasm.Ref(wasm.Extern), wasm.I32Const(int32(len(boxed))))
	if len(boxed) == 0 {
		return arr
	}
	tmp := g.fc.declareLocal("argv", wasm.Ref(wasm.Extern))
	body := make([]wasm.Expr, 0, len(boxed)+2)
	body = append(body, wasm.LocalSet(tmp, arr))
	for i, b := range boxed {
		body = append(body, wasm.CallImportExpr(dyntype.StructSetDynAnyref, nil,
			wasm.LocalGet(tmp, wasm.Ref(wasm.Extern)), wasm.I32Const(int32(i)), b))
	}
	body = append(body, wasm.LocalGet(tmp, wasm.Ref(wasm.Extern)))
	return wasm.BlockExpr("", wasm.Ref(wasm.Extern), body...)
}

// invokeAnyCallable implements §4.B "Any-call": every argument is boxed
// and packed, then dyntype_invoke_func is called against the (already
// Any-typed or itable-bound) callable.
func (g *Generator) invokeAnyCallable(callee wasm.Expr, args []sema.Value) (wasm.Expr, error) {
	boxed := make([]wasm.Expr, len(args))
	for i, a := range args {
		v, err := g.lower(a)
		if err != nil {
			return wasm.Expr{}, err
		}
		b, err := g.boxToAny(v, a.ValueType())
		if err != nil {
			return wasm.Expr{}, err
		}
		boxed[i] = b
	}
	argv := g.buildAnyArgsArray(boxed)
	return wasm.CallImportExpr(dyntype.InvokeFunc, wasm.Ref(wasm.Extern), callee, argv), nil
}

// lowerAnyBinary implements §4.B "Operations involving Any call into the
// dynamic runtime (cmp, type_eq)": equality/relational operators defer
// to dyntype_cmp with the matching CmpOp; arithmetic operators unbox
// both operands to Number first (JS-style numeric coercion), apply the
// Number lowering, and (when the static result type is still Any)
// rebox the result.
func (g *Generator) lowerAnyBinary(b sema.Binary, left, right wasm.Expr) (wasm.Expr, error) {
	boxedLeft, err := g.boxToAny(left, b.Left.ValueType())
	if err != nil {
		return wasm.Expr{}, err
	}
	boxedRight, err := g.boxToAny(right, b.Right.ValueType())
	if err != nil {
		return wasm.Expr{}, err
	}
	if cmp, ok := cmpOpFor(b.Op); ok {
		return wasm.CallImportExpr(dyntype.Cmp, wasm.I32{}, boxedLeft, boxedRight, wasm.I32Const(int32(cmp))), nil
	}
	leftNum := wasm.CallImportExpr(dyntype.ToNumber, wasm.F64{}, boxedLeft)
	rightNum := wasm.CallImportExpr(dyntype.ToNumber, wasm.F64{}, boxedRight)
	result, err := g.applyBinaryOp(b.Op, sema.Number{}, leftNum, rightNum)
	if err != nil {
		return wasm.Expr{}, err
	}
	if _, isAny := b.ValueType().(sema.Any); isAny {
		return g.boxToAny(result, sema.Number{})
	}
	return result, nil
}

func cmpOpFor(op sema.BinaryOp) (dyntype.CmpOp, bool) {
	switch op {
	case sema.Eq:
		return dyntype.CmpEq, true
	case sema.StrictEq:
		return dyntype.CmpEqEqEq, true
	case sema.NotEq:
		return dyntype.CmpNotEq, true
	case sema.StrictNotEq:
		return dyntype.CmpNotEqEqEq, true
	case sema.Lt:
		return dyntype.CmpLt, true
	case sema.Lte:
		return dyntype.CmpLte, true
	case sema.Gt:
		return dyntype.CmpGt, true
	case sema.Gte:
		return dyntype.CmpGte, true
	}
	return 0, false
}

// lowerCast implements §4.B "Casts": Object upcasts pass the value
// through unchanged (the wasm type system already accepts a subtype
// wherever the supertype is expected); Object downcasts ref.cast,
// trapping per §7 "RuntimeUnreachable" if the dynamic type disagrees;
// casts to/from Any box/unbox.
func (g *Generator) lowerCast(c sema.Cast) (wasm.Expr, error) {
	operand, err := g.lower(c.Operand)
	if err != nil {
		return wasm.Expr{}, err
	}
	if _, toAny := c.To.(sema.Any); toAny {
		return g.boxToAny(operand, c.From)
	}
	if _, fromAny := c.From.(sema.Any); fromAny {
		return g.unboxFromAny(operand, c.To)
	}
	fromDesc, toDesc := sema.ObjectDescOf(c.From), sema.ObjectDescOf(c.To)
	if fromDesc != nil && toDesc != nil {
		if fromDesc.Depth() <= toDesc.Depth() {
			// Downcast or cross-cast: narrow with ref.cast.
			info, err := g.typeOf(c.To)
			if err != nil {
				return wasm.Expr{}, err
			}
			return wasm.RefCastExpr(operand, info.heapType, false), nil
		}
		return operand, nil // upcast: already a valid supertype value
	}
	return operand, nil
}

// lowerTypeof implements §4.B "Typeof": the operand is boxed to Any if
// it is not already, then dyntype_typeof1 reports its runtime tag as an
// Any-valued string.
func (g *Generator) lowerTypeof(t sema.Typeof) (wasm.Expr, error) {
	v, err := g.lower(t.Operand)
	if err != nil {
		return wasm.Expr{}, err
	}
	boxed, err := g.boxToAny(v, t.Operand.ValueType())
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.CallImportExpr(dyntype.Typeof1, wasm.Ref(wasm.Extern), boxed), nil
}

// lowerToStringExpr implements §4.B "ToString": forwards to the runtime
// stringifier after boxing.
func (g *Generator) lowerToStringExpr(t sema.ToStringExpr) (wasm.Expr, error) {
	v, err := g.lower(t.Operand)
	if err != nil {
		return wasm.Expr{}, err
	}
	boxed, err := g.boxToAny(v, t.Operand.ValueType())
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.CallImportExpr(dyntype.ToStringRuntime, wasm.Ref(wasm.Extern), boxed), nil
}
