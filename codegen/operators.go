// Component B (part): binary/unary operators and truthiness (§4.B
// "Binary and unary").
package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

func binOp(op wasm.Op, t wasm.WType, a, b wasm.Expr) wasm.Expr {
	return wasm.Expr{Op: op, Type: t, Args: []wasm.Expr{a, b}}
}

func unOp(op wasm.Op, t wasm.WType, a wasm.Expr) wasm.Expr {
	return wasm.Expr{Op: op, Type: t, Args: []wasm.Expr{a}}
}

// operandKind classifies a static type for binary/unary dispatch.
type operandKind int

const (
	kindNumber operandKind = iota
	kindInt
	kindString
	kindRef // Object/Array/Interface/Null/Function/ClosureContext: identity comparison only
	kindAny
)

func classify(t sema.ValueType) operandKind {
	switch t.(type) {
	case sema.Number:
		return kindNumber
	case sema.Int, sema.Boolean:
		return kindInt
	case sema.String:
		return kindString
	case sema.Any, sema.Union:
		return kindAny
	default:
		return kindRef
	}
}

// lowerBinary implements §4.B "Binary and unary". && and || produce the
// value of one operand via the operand-typed wasm select: both operands
// are always evaluated, so these operators do not short-circuit.
func (g *Generator) lowerBinary(b sema.Binary) (wasm.Expr, error) {
	left, err := g.lower(b.Left)
	if err != nil {
		return wasm.Expr{}, err
	}
	right, err := g.lower(b.Right)
	if err != nil {
		return wasm.Expr{}, err
	}

	switch b.Op {
	case sema.LogAnd:
		cond, err := g.truthy(b.Left.ValueType(), left)
		if err != nil {
			return wasm.Expr{}, err
		}
		return wasm.SelectExpr(cond, right, left), nil
	case sema.LogOr:
		cond, err := g.truthy(b.Left.ValueType(), left)
		if err != nil {
			return wasm.Expr{}, err
		}
		return wasm.SelectExpr(cond, left, right), nil
	}

	leftKind := classify(b.Left.ValueType())
	rightKind := classify(b.Right.ValueType())
	if leftKind == kindAny || rightKind == kindAny {
		return g.lowerAnyBinary(b, left, right)
	}
	if leftKind != rightKind {
		return wasm.Expr{}, typeShapeMismatch("lowerBinary", "operand kinds differ: %v vs %v", leftKind, rightKind)
	}

	switch leftKind {
	case kindNumber:
		return g.lowerNumberBinary(b.Op, left, right)
	case kindInt:
		return g.lowerIntBinary(b.Op, left, right)
	case kindString:
		return g.lowerStringBinary(b.Op, left, right)
	case kindRef:
		return g.lowerRefBinary(b.Op, left, right)
	}
	return wasm.Expr{}, unimplemented("lowerBinary", b)
}

func (g *Generator) lowerNumberBinary(op sema.BinaryOp, a, b wasm.Expr) (wasm.Expr, error) {
	switch op {
	case sema.Add:
		return binOp(wasm.OpF64Add, wasm.F64{}, a, b), nil
	case sema.Sub:
		return binOp(wasm.OpF64Sub, wasm.F64{}, a, b), nil
	case sema.Mul:
		return binOp(wasm.OpF64Mul, wasm.F64{}, a, b), nil
	case sema.Div:
		return binOp(wasm.OpF64Div, wasm.F64{}, a, b), nil
	case sema.Lt:
		return binOp(wasm.OpF64Lt, wasm.I32{}, a, b), nil
	case sema.Lte:
		return binOp(wasm.OpF64Le, wasm.I32{}, a, b), nil
	case sema.Gt:
		return binOp(wasm.OpF64Gt, wasm.I32{}, a, b), nil
	case sema.Gte:
		return binOp(wasm.OpF64Ge, wasm.I32{}, a, b), nil
	case sema.Eq, sema.StrictEq:
		return binOp(wasm.OpF64Eq, wasm.I32{}, a, b), nil
	case sema.NotEq, sema.StrictNotEq:
		return binOp(wasm.OpF64Ne, wasm.I32{}, a, b), nil
	case sema.Mod:
		// Number modulo needs a correct f64 truncating division that the
		// currently modeled opcode set has no lossless way to express
		// (no f64.trunc); left unimplemented pending that opcode.
		return wasm.Expr{}, unimplemented("lowerNumberBinary(Mod)", op)
	default:
		return wasm.Expr{}, unimplemented("lowerNumberBinary", op)
	}
}

func (g *Generator) lowerIntBinary(op sema.BinaryOp, a, b wasm.Expr) (wasm.Expr, error) {
	switch op {
	case sema.Add:
		return binOp(wasm.OpI32Add, wasm.I32{}, a, b), nil
	case sema.Sub:
		return binOp(wasm.OpI32Sub, wasm.I32{}, a, b), nil
	case sema.Mul:
		return binOp(wasm.OpI32Mul, wasm.I32{}, a, b), nil
	case sema.Div:
		return binOp(wasm.OpI32DivU, wasm.I32{}, a, b), nil
	case sema.Mod:
		return binOp(wasm.OpI32RemU, wasm.I32{}, a, b), nil
	case sema.Shl:
		return binOp(wasm.OpI32Shl, wasm.I32{}, a, b), nil
	case sema.BitAnd:
		return binOp(wasm.OpI32And, wasm.I32{}, a, b), nil
	case sema.BitOr:
		return binOp(wasm.OpI32Or, wasm.I32{}, a, b), nil
	case sema.BitXor:
		return binOp(wasm.OpI32Xor, wasm.I32{}, a, b), nil
	case sema.Lt:
		return binOp(wasm.OpI32LtU, wasm.I32{}, a, b), nil
	case sema.Lte:
		return binOp(wasm.OpI32LeU, wasm.I32{}, a, b), nil
	case sema.Gt:
		return binOp(wasm.OpI32GtU, wasm.I32{}, a, b), nil
	case sema.Gte:
		return binOp(wasm.OpI32GeU, wasm.I32{}, a, b), nil
	case sema.Eq, sema.StrictEq:
		return binOp(wasm.OpI32Eq, wasm.I32{}, a, b), nil
	case sema.NotEq, sema.StrictNotEq:
		return binOp(wasm.OpI32Ne, wasm.I32{}, a, b), nil
	default:
		return wasm.Expr{}, unimplemented("lowerIntBinary", op)
	}
}

// lowerStringBinary implements string equality via the dyntype runtime's
// reference-aware comparison; string concatenation is not a binary
// operator this component handles directly (the parser desugars `+` on
// two strings to a CallStatic on the string built-in holder upstream).
func (g *Generator) lowerStringBinary(op sema.BinaryOp, a, b wasm.Expr) (wasm.Expr, error) {
	switch op {
	case sema.Eq, sema.StrictEq:
		return wasm.CallImportExpr("dyntype_cmp", wasm.I32{}, a, b, wasm.I32Const(int32(0))), nil
	case sema.NotEq, sema.StrictNotEq:
		return wasm.CallImportExpr("dyntype_cmp", wasm.I32{}, a, b, wasm.I32Const(int32(2))), nil
	default:
		return wasm.Expr{}, unimplemented("lowerStringBinary", op)
	}
}

// lowerRefBinary implements §4.B "=="/"===" between Object/Array/
// Interface/Null/Function reference values as reference identity (P6).
func (g *Generator) lowerRefBinary(op sema.BinaryOp, a, b wasm.Expr) (wasm.Expr, error) {
	switch op {
	case sema.Eq, sema.StrictEq:
		return wasm.RefEqExpr(a, b), nil
	case sema.NotEq, sema.StrictNotEq:
		return unOp(wasm.OpI32Eqz, wasm.I32{}, wasm.RefEqExpr(a, b)), nil
	default:
		return wasm.Expr{}, unimplemented("lowerRefBinary", op)
	}
}

// lowerUnary implements §4.B unary operators, including the pre/post
// increment/decrement desugaring into a read-modify-write against the
// operand's lvalue.
func (g *Generator) lowerUnary(u sema.Unary) (wasm.Expr, error) {
	switch u.Op {
	case sema.Not:
		v, err := g.lower(u.Operand)
		if err != nil {
			return wasm.Expr{}, err
		}
		cond, err := g.truthy(u.Operand.ValueType(), v)
		if err != nil {
			return wasm.Expr{}, err
		}
		return unOp(wasm.OpI32Eqz, wasm.I32{}, cond), nil
	case sema.Neg:
		v, err := g.lower(u.Operand)
		if err != nil {
			return wasm.Expr{}, err
		}
		switch classify(u.Operand.ValueType()) {
		case kindNumber:
			return binOp(wasm.OpF64Sub, wasm.F64{}, wasm.F64Const(0), v), nil
		case kindInt:
			return binOp(wasm.OpI32Sub, wasm.I32{}, wasm.I32Const(0), v), nil
		default:
			return wasm.Expr{}, unimplemented("lowerUnary(Neg)", u)
		}
	case sema.Inc, sema.Dec:
		return g.lowerIncDec(u)
	default:
		return wasm.Expr{}, unimplemented("lowerUnary", u)
	}
}

// lowerIncDec desugars ++x/x++/--x/x-- into a local read-modify-write,
// using local.tee for the prefix form (the new value is the expression
// result) and a temporary local to preserve the old value for the
// postfix form. Field/element increment targets are not modeled as
// lvalues here; this lowering only handles an uncaptured local variable
// operand.
func (g *Generator) lowerIncDec(u sema.Unary) (wasm.Expr, error) {
	read, ok := u.Operand.(sema.VarRead)
	if !ok {
		return wasm.Expr{}, unimplemented("lowerIncDec: non-variable operand", u.Operand)
	}
	if read.Decl.Global || read.Decl.Captured {
		return wasm.Expr{}, unimplemented("lowerIncDec: global/captured operand", u.Operand)
	}
	name, ok := g.fc.localFor(read.Decl)
	if !ok {
		return wasm.Expr{}, invariant("lowerIncDec", "variable %q has no local", read.Decl.Name)
	}
	info, err := g.typeOf(read.Decl.Type)
	if err != nil {
		return wasm.Expr{}, err
	}
	old := wasm.LocalGet(name, info.wasmType)
	one := wasm.F64Const(1)
	addOp, subOp := wasm.OpF64Add, wasm.OpF64Sub
	if classify(read.Decl.Type) == kindInt {
		one = wasm.I32Const(1)
		addOp, subOp = wasm.OpI32Add, wasm.OpI32Sub
	}
	var newVal wasm.Expr
	if u.Op == sema.Inc {
		newVal = binOp(addOp, info.wasmType, old, one)
	} else {
		newVal = binOp(subOp, info.wasmType, old, one)
	}
	if !u.Postfix {
		return wasm.LocalTee(name, newVal), nil
	}
	tmp := g.fc.declareLocal(name+".pre", info.wasmType)
	return wasm.BlockExpr("", info.wasmType,
		wasm.LocalSet(tmp, old),
		wasm.LocalSet(name, newVal),
		wasm.LocalGet(tmp, info.wasmType),
	), nil
}

// applyBinaryOp dispatches a+b style operators without the operand
// re-lowering lowerBinary does, for use by the compound-assignment
// desugaring below.
func (g *Generator) applyBinaryOp(op sema.BinaryOp, t sema.ValueType, a, b wasm.Expr) (wasm.Expr, error) {
	switch classify(t) {
	case kindNumber:
		return g.lowerNumberBinary(op, a, b)
	case kindInt:
		return g.lowerIntBinary(op, a, b)
	case kindString:
		return g.lowerStringBinary(op, a, b)
	default:
		return wasm.Expr{}, unimplemented("applyBinaryOp", t)
	}
}

// lowerCompoundAssign implements §4.B "+=, -=, *=, /=": desugared into
// `target = target op rhs` against the target's lvalue. VarRead,
// FieldGet, and ElementGet targets are supported; any other target
// shape is unreachable by construction (§6 "Input").
func (g *Generator) lowerCompoundAssign(c sema.CompoundAssign) (wasm.Expr, error) {
	rhs, err := g.lower(c.RHS)
	if err != nil {
		return wasm.Expr{}, err
	}
	switch t := c.Target.(type) {
	case sema.VarRead:
		old, err := g.lowerVarRead(t)
		if err != nil {
			return wasm.Expr{}, err
		}
		newVal, err := g.applyBinaryOp(c.Op, t.ValueType(), old, rhs)
		if err != nil {
			return wasm.Expr{}, err
		}
		if t.Decl.Global {
			return wasm.GlobalSet(t.Decl.Name, newVal), nil
		}
		if t.Decl.Captured {
			return g.closureChainSet(t.Decl, newVal)
		}
		name, ok := g.fc.localFor(t.Decl)
		if !ok {
			return wasm.Expr{}, invariant("lowerCompoundAssign", "variable %q has no local", t.Decl.Name)
		}
		return wasm.LocalSet(name, newVal), nil
	case sema.FieldGet:
		target, err := g.lower(t.Target)
		if err != nil {
			return wasm.Expr{}, err
		}
		old, err := g.fieldGetExpr(target, t.Target.ValueType(), t.Member)
		if err != nil {
			return wasm.Expr{}, err
		}
		newVal, err := g.applyBinaryOp(c.Op, t.ValueType(), old, rhs)
		if err != nil {
			return wasm.Expr{}, err
		}
		return g.fieldSetExpr(target, t.Target.ValueType(), t.Member, newVal)
	case sema.ElementGet:
		target, err := g.lower(t.Target)
		if err != nil {
			return wasm.Expr{}, err
		}
		idx, err := g.lower(t.Index)
		if err != nil {
			return wasm.Expr{}, err
		}
		old, err := g.lowerElementGet(t)
		if err != nil {
			return wasm.Expr{}, err
		}
		newVal, err := g.applyBinaryOp(c.Op, t.ValueType(), old, rhs)
		if err != nil {
			return wasm.Expr{}, err
		}
		arr, ok := t.Target.ValueType().(sema.Array)
		if !ok {
			return wasm.Expr{}, unimplemented("lowerCompoundAssign: non-Array element target", t.Target.ValueType())
		}
		arrInfo, err := g.typeOf(arr)
		if err != nil {
			return wasm.Expr{}, err
		}
		data := wasm.StructGetExpr(target, 0, wasm.Ref(arrInfo.arrayOriHeap))
		return wasm.ArraySetExpr(data, idx, newVal), nil
	default:
		return wasm.Expr{}, unimplemented("lowerCompoundAssign", c.Target)
	}
}

// truthy implements the per-type truthy predicate §4.B "Conditional"
// and "Binary and unary" require for &&, ||, !, and if-conditions: a
// Number is truthy iff it is neither 0.0 nor NaN; an Int/Boolean is
// truthy iff nonzero; any other reference is truthy iff non-null.
func (g *Generator) truthy(t sema.ValueType, v wasm.Expr) (wasm.Expr, error) {
	switch classify(t) {
	case kindNumber:
		return unOp(wasm.OpF64Ne0AndNotNaN, wasm.I32{}, v), nil
	case kindInt:
		return unOp(wasm.OpI32Eqz, wasm.I32{}, unOp(wasm.OpI32Eqz, wasm.I32{}, v)), nil
	case kindRef, kindString:
		return unOp(wasm.OpI32Eqz, wasm.I32{}, wasm.RefIsNullExpr(v)), nil
	case kindAny:
		return wasm.CallImportExpr("dyntype_to_bool", wasm.I32{}, v), nil
	default:
		return wasm.Expr{}, unimplemented("truthy", t)
	}
}
