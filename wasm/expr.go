package wasm

// Op enumerates the WebAssembly (GC + typed-function-references)
// instruction forms codegen emits. It is deliberately flat rather than
// one Go type per instruction: every lowering helper in codegen
// produces an Expr by selecting an Op and filling in Args/Imm, mirroring
// how the teacher's cm package encodes the Canonical ABI as a small,
// closed set of shape operations rather than a type per wire form.
type Op int

const (
	// Constants
	OpConstI32 Op = iota
	OpConstI64
	OpConstF64
	OpConstF32

	// Locals and globals
	OpLocalGet
	OpLocalSet
	OpLocalTee
	OpGlobalGet
	OpGlobalSet

	// Numeric
	OpF64Add
	OpF64Sub
	OpF64Mul
	OpF64Div
	OpF64Eq
	OpF64Ne
	OpF64Lt
	OpF64Le
	OpF64Gt
	OpF64Ge
	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32DivU
	OpI32RemU
	OpI32And
	OpI32Or
	OpI32Xor
	OpI32Shl
	OpI32Eq
	OpI32Ne
	OpI32Eqz
	OpI32LtU
	OpI32LeU
	OpI32GtU
	OpI32GeU
	OpI64And
	OpI64Or
	OpI64Shl
	OpI64ExtendI32U
	OpI32WrapI64
	OpF64ConvertI32U
	OpI32TruncF64U
	OpF64Ne0AndNotNaN // synthetic: the Number truthy predicate ("x ≠ 0.0 ∧ x = x")

	// Control flow
	OpBlock
	OpBr
	OpBrIf
	OpSelect
	OpUnreachable
	OpReturn

	// Reference/GC
	OpRefNull
	OpRefFunc
	OpRefIsNull
	OpRefCast
	OpRefTest
	OpRefEq
	OpStructNew
	OpStructGet
	OpStructSet
	OpArrayNew
	OpArrayNewFixed
	OpArrayNewDefault
	OpArrayGet
	OpArraySet
	OpArrayLen

	// Calls
	OpCall       // direct call by mangled name (Imm = string)
	OpCallRef    // call_ref through a FuncHeapType (Imm = *FuncHeapType)
	OpCallImport // call to a dyntype_* / find_index / struct_*_dyn_* import (Imm = string)
)

// Expr is one node of the expression tree codegen's lower function
// (§4.B) produces. Type is the node's static WebAssembly result type,
// used when a consumer (e.g. Conditional/Block) must check two
// sub-expressions agree per §4.B "the two branches' static types must
// already match; mismatches are a lowering bug".
type Expr struct {
	Op   Op
	Type WType // nil for statements with no value (e.g. br, local.set)
	Imm  any   // opcode-specific immediate
	Args []Expr
}

// I32Const, F64Const, I64Const build numeric constant expressions.
func I32Const(v int32) Expr { return Expr{Op: OpConstI32, Type: I32{}, Imm: v} }
func F64Const(v float64) Expr { return Expr{Op: OpConstF64, Type: F64{}, Imm: v} }
func I64Const(v int64) Expr { return Expr{Op: OpConstI64, Type: I64{}, Imm: v} }

// LocalGet/LocalSet reference a local by name within the enclosing FuncBuilder scope.
func LocalGet(name string, t WType) Expr { return Expr{Op: OpLocalGet, Type: t, Imm: name} }
func LocalSet(name string, v Expr) Expr  { return Expr{Op: OpLocalSet, Imm: name, Args: []Expr{v}} }
func LocalTee(name string, v Expr) Expr {
	return Expr{Op: OpLocalTee, Type: v.Type, Imm: name, Args: []Expr{v}}
}

// GlobalGet/GlobalSet reference a module-level global by name.
func GlobalGet(name string, t WType) Expr { return Expr{Op: OpGlobalGet, Type: t, Imm: name} }
func GlobalSet(name string, v Expr) Expr  { return Expr{Op: OpGlobalSet, Imm: name, Args: []Expr{v}} }

// RefNullExpr builds a typed null of heap type h (§4.B "Literal": Null
// emits a typed null of the Null primitive's struct type; also used for
// the closure chain's root context and uninitialized optional-parameter
// slots).
func RefNullExpr(h HeapType) Expr {
	return Expr{Op: OpRefNull, Type: RefNullable(h), Imm: h}
}

// RefFuncExpr builds ref.func <name> (§4.D "Building a closure value").
func RefFuncExpr(name string, sig *FuncHeapType) Expr {
	return Expr{Op: OpRefFunc, Type: Ref(sig), Imm: name}
}

// RefIsNullExpr tests a reference for null (§4.B "Conditional" truthy
// rule for "other refs").
func RefIsNullExpr(v Expr) Expr {
	return Expr{Op: OpRefIsNull, Type: I32{}, Args: []Expr{v}}
}

// RefCastExpr casts v to heap type h (downcast, §4.B "Casts"; interface
// unbox, §4.E).
func RefCastExpr(v Expr, h HeapType, nullable bool) Expr {
	return Expr{Op: OpRefCast, Type: RefT{Heap: h, Nullable: nullable}, Imm: h, Args: []Expr{v}}
}

// RefEqExpr is reference-identity equality (§4.B "=="/"===" between
// Object/Array/Interface values, and P6).
func RefEqExpr(a, b Expr) Expr {
	return Expr{Op: OpRefEq, Type: I32{}, Args: []Expr{a, b}}
}

// StructNewExpr allocates a GC struct of heap type h with the given
// field-order field values.
func StructNewExpr(h *StructHeapType, fields ...Expr) Expr {
	return Expr{Op: OpStructNew, Type: Ref(h), Imm: h, Args: fields}
}

// StructGetExpr/StructSetExpr read/write field index idx of a struct
// reference (§4.E "Field get/set").
func StructGetExpr(ref Expr, idx int, t WType) Expr {
	return Expr{Op: OpStructGet, Type: t, Imm: idx, Args: []Expr{ref}}
}

func StructSetExpr(ref Expr, idx int, v Expr) Expr {
	return Expr{Op: OpStructSet, Imm: idx, Args: []Expr{ref, v}}
}

// ArrayNewFixedExpr builds an array from explicit elements
// (§4.B "array.new_fixed").
func ArrayNewFixedExpr(h *ArrayHeapType, elems ...Expr) Expr {
	return Expr{Op: OpArrayNewFixed, Type: Ref(h), Imm: h, Args: elems}
}

// ArrayNewExpr builds an array of length n filled with def
// (§4.B "array.new", array-of-length construction).
func ArrayNewExpr(h *ArrayHeapType, def Expr, n Expr) Expr {
	return Expr{Op: OpArrayNew, Type: Ref(h), Imm: h, Args: []Expr{def, n}}
}

// ArrayGetExpr/ArraySetExpr index an array by an i32-truncated index
// (§4.B "Element get/set"): an f64 index is truncated to i32 first.
func ArrayGetExpr(arr Expr, idx Expr, t WType) Expr {
	if _, ok := idx.Type.(F64); ok {
		idx = Expr{Op: OpI32TruncF64U, Type: I32{}, Args: []Expr{idx}}
	}
	return Expr{Op: OpArrayGet, Type: t, Args: []Expr{arr, idx}}
}

func ArraySetExpr(arr Expr, idx Expr, v Expr) Expr {
	if _, ok := idx.Type.(F64); ok {
		idx = Expr{Op: OpI32TruncF64U, Type: I32{}, Args: []Expr{idx}}
	}
	return Expr{Op: OpArraySet, Args: []Expr{arr, idx, v}}
}

// CallExpr is a direct call to the mangled function name (§6 "Names").
func CallExpr(name string, resultType WType, args ...Expr) Expr {
	return Expr{Op: OpCall, Type: resultType, Imm: name, Args: args}
}

// CallRefExpr is an indirect call through a funcref (§4.B "Closure",
// §4.E "Vtable"/"Interface").
func CallRefExpr(fref Expr, sig *FuncHeapType, args ...Expr) Expr {
	var resultType WType
	if len(sig.Results) == 1 {
		resultType = sig.Results[0]
	}
	allArgs := append(append([]Expr{}, args...), fref)
	return Expr{Op: OpCallRef, Type: resultType, Imm: sig, Args: allArgs}
}

// CallImportExpr calls one of the fixed dyntype_*/find_index/struct_*_dyn_*
// imports of §6.
func CallImportExpr(name string, resultType WType, args ...Expr) Expr {
	return Expr{Op: OpCallImport, Type: resultType, Imm: name, Args: args}
}

// SelectExpr implements §4.B "Conditional": `select(cond, then, else)`.
// Also used to lower && and || (§4.B "Binary and unary": "produce the
// value of one operand ... with the operand-typed wasm select").
func SelectExpr(cond, then, els Expr) Expr {
	return Expr{Op: OpSelect, Type: then.Type, Args: []Expr{cond, then, els}}
}

// UnreachableExpr marks a code path lowering has proved cannot execute
// under valid inputs (§7 "RuntimeUnreachable").
func UnreachableExpr() Expr { return Expr{Op: OpUnreachable} }

// BlockExpr/BrExpr/BrIfExpr are the structured control-flow forms of
// §4.B "Block / BranchIf / Branch".
func BlockExpr(label string, resultType WType, body ...Expr) Expr {
	return Expr{Op: OpBlock, Type: resultType, Imm: label, Args: body}
}

func BrExpr(label string) Expr { return Expr{Op: OpBr, Imm: label} }

func BrIfExpr(label string, cond Expr) Expr {
	return Expr{Op: OpBrIf, Imm: label, Args: []Expr{cond}}
}
