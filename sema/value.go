package sema

// Value is the closed set of semantics-tree value-kind nodes Expression
// Lowering (component B, §4.B) is a total function over. Every variant
// embeds value to seal the interface; dispatching on an unhandled
// concrete type is by construction impossible without editing this file,
// which is itself the UnimplementedLowering contract of §7 made static.
type Value interface {
	isValue()
	// ValueType returns the resolved static type of this node, as
	// assigned by the (out-of-scope) type resolver.
	ValueType() ValueType
}

type value struct{ typ ValueType }

func (value) isValue()            {}
func (v value) ValueType() ValueType { return v.typ }

// SetType records the resolved static type of a node built outside this
// package (treecodec's tree decoder stands in for the out-of-scope type
// resolver, §6 "Input"). Every Value variant promotes this through its
// embedded value field; codegen itself never calls it, since by the time
// a tree reaches codegen every node's type is already final.
func (v *value) SetType(t ValueType) { v.typ = t }

// NumberLit, IntLit, BoolLit, StringLit, NullLit, UndefinedLit are the
// Literal kinds of §4.B.
type NumberLit struct {
	value
	V float64
}

type IntLit struct {
	value
	V uint32
}

type BoolLit struct {
	value
	V bool
}

// StringLit holds already-decoded code units: surrogate pairs are
// collapsed to single code points and escape sequences pre-processed
// upstream for every literal except raw strings (§4.B "Literal").
type StringLit struct {
	value
	Raw   bool
	Units []rune
}

type NullLit struct{ value }

type UndefinedLit struct{ value }

// VarRead and VarWrite are the Variable read/write kinds of §4.B.
// Decl.Global selects global.get/set; otherwise local or captured
// resolution is driven by whether Decl.Captured holds (component D).
type VarRead struct {
	value
	Decl *VarDecl
}

type VarWrite struct {
	value
	Decl *VarDecl
	RHS  Value
}

// BinaryOp enumerates the binary operators of §4.B.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	BitAnd
	BitOr
	BitXor
	LogAnd
	LogOr
	Lt
	Lte
	Gt
	Gte
	Eq
	StrictEq
	NotEq
	StrictNotEq
)

type Binary struct {
	value
	Op          BinaryOp
	Left, Right Value
}

// UnaryOp enumerates the unary operators of §4.B, including pre/post
// increment/decrement.
type UnaryOp int

const (
	Not UnaryOp = iota
	Neg
	Inc
	Dec
)

type Unary struct {
	value
	Op      UnaryOp
	Operand Value
	Postfix bool // for Inc/Dec: true selects the post-correction form
}

// CompoundAssign covers +=, -=, *=, /=, desugared at lowering time into
// `left = left op right` per §4.B.
type CompoundAssign struct {
	value
	Op     BinaryOp
	Target Value // a VarRead, FieldGet, or ElementGet naming the lvalue
	RHS    Value
}

// Conditional is the ternary/select form of §4.B "Conditional".
type Conditional struct {
	value
	Cond, Then, Else Value
}

// CallDirect is a statically-resolved call, including super(...) when
// Super is true (§4.B "Calls", "Direct").
type CallDirect struct {
	value
	Callee *FunctionDecl
	Args   []Value
	Super  bool
}

// ClosureLit builds a closure-struct value capturing the current
// closure context as its environment (§4.D "Building a closure value"):
// field 0 is the enclosing context (possibly upcast to Decl.Scope's
// parent), field 1 is ref.func of Decl.
type ClosureLit struct {
	value
	Decl *FunctionDecl
}

// CallClosure calls a closure-struct-valued callee (§4.B "Closure").
type CallClosure struct {
	value
	Callee Value
	Args   []Value
}

// CallMethod dispatches through an object's vtable (§4.B "Vtable").
type CallMethod struct {
	value
	Receiver Value
	Member   string
	Args     []Value
}

// CallStatic calls a well-known built-in holder member or a class
// static method by mangled name (§4.B "Offset/Static").
type CallStatic struct {
	value
	Holder string // built-in holder description name ("ArrayConstructor", "Console", "Math") or a class name
	Member string
	Args   []Value
}

// CallInterface dispatches through an interface's itable (§4.E).
type CallInterface struct {
	value
	Receiver Value
	Member   string
	Args     []Value
}

// CallDynamic is a call on an Any-typed callable, or a dynamic call
// rerouted to CallMethod (vtable dispatch) when the receiver is a
// concrete Object (§4.B "Dynamic").
type CallDynamic struct {
	value
	Receiver Value
	Member   string
	Args     []Value
}

// CallAny invokes an Any-typed function value via runtime invoke_func
// (§4.B "Any-call").
type CallAny struct {
	value
	Callee Value
	Args   []Value
}

// Typeof and ToStringExpr forward to the dyntype runtime after boxing
// as needed (§4.B "Typeof / ToString").
type Typeof struct {
	value
	Operand Value
}

type ToStringExpr struct {
	value
	Operand Value
}

// Cast covers the finite (from, to) table of §4.B "Casts". From/To are
// carried explicitly because Operand.ValueType() alone does not
// disambiguate every cast (e.g. an upcast versus a downcast between the
// same two nominal types under different static contexts).
type Cast struct {
	value
	Operand Value
	From    ValueType
	To      ValueType
}

// New constructs an object instance and runs its class constructor
// (§4.B "Object/array construction"). When the class has no
// constructor, the instance is the newly allocated struct with
// zero-valued fields; no runtime new_object_with_class call is made.
type New struct {
	value
	Desc *ObjectDesc
	Args []Value
}

// NewArray constructs an array of a given length, each slot holding the
// element type's default value (§4.B "array-of-length").
type NewArray struct {
	value
	Element ValueType
	Length  Value
}

// ArrayLiteral builds a fixed-length array from explicit elements.
type ArrayLiteral struct {
	value
	Element  ValueType
	Elements []Value
}

// FieldInit is one slot of an ObjectLiteral, matched to a field by
// Name (§4.B "Object literals"). A field with no FieldInit is
// initialized to its type's zero value by the lowering; it is not
// boxed to an Undefined Any.
type FieldInit struct {
	Name string
	Init Value
}

// ObjectLiteral builds both the vtable (for methods) and instance (for
// fields) of a literal object in a single pass (§4.B).
type ObjectLiteral struct {
	value
	Desc   *ObjectDesc
	Fields []FieldInit
}

// ElementGet and ElementSet are element access (§4.B "Element
// get/set"). codegen lowers them only on Array targets; any other
// target type reports UnimplementedLowering.
type ElementGet struct {
	value
	Target Value
	Index  Value
}

type ElementSet struct {
	value
	Target Value
	Index  Value
	RHS    Value
}

// FieldGet and FieldSet are object member access, resolved to a fast or
// dyn path by component E depending on whether Target is a concrete
// Object or an Interface (§4.E).
type FieldGet struct {
	value
	Target Value
	Member string
}

type FieldSet struct {
	value
	Target Value
	Member string
	RHS    Value
}

// Block, Branch, and BranchIf map to the WebAssembly block/br/if forms
// (§4.B "Block / BranchIf / Branch").
type Block struct {
	value
	Label string
	Body  []Value
}

type Branch struct {
	value
	Label string
}

type BranchIf struct {
	value
	Label string
	Cond  Value
}
