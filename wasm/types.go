// Package wasm is the module/type-builder collaborator of §1: "the
// WebAssembly module builder — specified only by the operations
// consumed from them". It implements only the type and expression
// shapes codegen actually constructs (struct/array/signature heap
// types with the GC and typed-function-references proposals, module
// globals/functions/imports/exports), never a full encoder, validator,
// or binary-format writer — encoding to `.wasm` bytes is out of scope
// (§1 Non-goals: "Executing the produced module").
package wasm

// WType is the closed set of WebAssembly value-type shapes codegen's
// Type Lowering (component A) produces: the four scalar kinds plus
// reference types over a heap type.
type WType interface {
	isWType()
	String() string
}

type wtype struct{}

func (wtype) isWType() {}

// I32, I64, F32, F64 are the scalar numeric types (§3: Int/Boolean → i32,
// Number → f64).
type I32 struct{ wtype }
type I64 struct{ wtype }
type F32 struct{ wtype }
type F64 struct{ wtype }

func (I32) String() string { return "i32" }
func (I64) String() string { return "i64" }
func (F32) String() string { return "f32" }
func (F64) String() string { return "f64" }

// RefT is a reference to a HeapType, nullable or not.
type RefT struct {
	wtype
	Heap     HeapType
	Nullable bool
}

func (r RefT) String() string {
	if r.Nullable {
		return "(ref null " + r.Heap.TypeName() + ")"
	}
	return "(ref " + r.Heap.TypeName() + ")"
}

// Ref returns a non-null reference to h.
func Ref(h HeapType) RefT { return RefT{Heap: h, Nullable: false} }

// RefNullable returns a nullable reference to h.
func RefNullable(h HeapType) RefT { return RefT{Heap: h, Nullable: true} }

// HeapType is the closed set of nominal GC heap type shapes (§3, §4.A):
// struct, array, and signature (func) heap types, plus the two
// canonical singletons Top and Extern.
type HeapType interface {
	isHeapType()
	TypeName() string
}

type heapType struct{}

func (heapType) isHeapType() {}

// Field is one slot of a StructHeapType.
type Field struct {
	Name    string
	Type    WType
	Mutable bool
}

// StructHeapType is a GC struct heap type. Super is non-nil when this
// type is a declared subtype of another (§3 invariant 2); slot 0 of a
// concrete object's StructHeapType is always the vtable field, narrowed
// to match Super's slot 0 per the same invariant.
type StructHeapType struct {
	heapType
	Name   string
	Fields []Field
	Super  *StructHeapType
}

func (s *StructHeapType) TypeName() string { return s.Name }

// IsSubtypeOf reports whether s is s2 or a (possibly transitive) Super
// of s2 — used to check §3 invariant 2 and P2.
func (s *StructHeapType) IsSubtypeOf(s2 *StructHeapType) bool {
	for t := s; t != nil; t = t.Super {
		if t == s2 {
			return true
		}
	}
	return false
}

// ArrayHeapType is a GC array heap type, e.g. the inner element array
// backing an Array's struct wrapper, or a String's i32 char array.
type ArrayHeapType struct {
	heapType
	Name    string
	Elem    WType
	Mutable bool
}

func (a *ArrayHeapType) TypeName() string { return a.Name }

// FuncHeapType is a GC signature heap type: a Function's callable shape,
// with an explicit environment-parameter prefix (§4.A item 3).
type FuncHeapType struct {
	heapType
	Name          string
	Params        []WType
	EnvParamCount int
	Results       []WType
}

func (f *FuncHeapType) TypeName() string { return f.Name }

// topHeapType is the canonical empty-struct top type: the supertype of
// every concrete object struct, the type of a closure context's root
// parent reference, and the type erased-data is widened to when boxing
// an interface (§3 invariants 4 and 5).
type topHeapType struct{ heapType }

func (topHeapType) TypeName() string { return "$top" }

// Top is the singleton empty-struct top heap type.
var Top HeapType = topHeapType{}

// externHeapType is the opaque heap type of an anyref managed by the
// external dynamic-type runtime (§3 "Any handle").
type externHeapType struct{ heapType }

func (externHeapType) TypeName() string { return "extern" }

// Extern is the singleton heap type of a dyntype-managed anyref handle.
var Extern HeapType = externHeapType{}
