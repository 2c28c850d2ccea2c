// Package dyntype is the fixed import surface of the external dynamic-
// type runtime ("libdyntype", §1): the out-of-scope collaborator that
// implements Any's dynamic semantics. This package only names the
// functions §6 "Output: Imports" fixes and their call shapes — it does
// not implement dynamic dispatch, prototype lookup, or any other
// runtime behavior, which belongs to libdyntype itself.
//
// The naming follows the one-file-per-imported-interface convention the
// teacher uses for WASI imports (wasi/io, wasi/clocks/monotonicclock):
// each WASI package there names a fixed set of imported functions with
// no implementation; this package does the same for libdyntype.
package dyntype

import "github.com/ts2wasm/ts2wasm-go/wasm"

// ContextGlobal is the fixed name of the dyntype execution-context
// global import (§6). codegen does not reference it: no
// global.get of it is emitted and dyntype calls do not pass it.
const ContextGlobal = "dyntype_context"

// Sig describes the call shape of one dyntype_* import: its parameter
// and result WebAssembly types, independent of any particular host's
// encoding.
type Sig struct {
	Params  []wasm.WType
	Results []wasm.WType
}

func sig(results []wasm.WType, params ...wasm.WType) Sig {
	return Sig{Params: params, Results: results}
}

var ctxRef = wasm.Ref(wasm.Extern)
var anyRef = wasm.Ref(wasm.Extern)

// Names of the fixed dyntype_* import surface (§6 "Output: Imports").
const (
	NewNumber    = "dyntype_new_number"
	NewBoolean   = "dyntype_new_boolean"
	NewString    = "dyntype_new_string"
	NewNull      = "dyntype_new_null"
	NewUndefined = "dyntype_new_undefined"
	NewArray     = "dyntype_new_array"
	NewObject    = "dyntype_new_object"

	ToNumber = "dyntype_to_number"
	ToBool   = "dyntype_to_bool"
	ToString = "dyntype_to_string"
	ToExtref = "dyntype_to_extref"

	IsNumber    = "dyntype_is_number"
	IsBool      = "dyntype_is_bool"
	IsString    = "dyntype_is_string"
	IsUndefined = "dyntype_is_undefined"
	IsNull      = "dyntype_is_null"
	IsExtref    = "dyntype_is_extref"

	SetProperty    = "dyntype_set_property"
	GetProperty    = "dyntype_get_property"
	HasProperty    = "dyntype_has_property"
	DeleteProperty = "dyntype_delete_property"

	Typeof            = "dyntype_typeof"
	Typeof1           = "dyntype_typeof1"
	Cmp               = "dyntype_cmp"
	TypeEq            = "dyntype_type_eq"
	ToStringRuntime   = "dyntype_toString"
	Instanceof        = "dyntype_instanceof"
	InvokeFunc        = "dyntype_invoke_func"
	NewObjectWithClass = "dyntype_new_object_with_class"
	NewExtref         = "dyntype_new_extref"

	FindIndex = "find_index"

	StructGetDynI32     = "struct_get_dyn_i32"
	StructGetDynI64     = "struct_get_dyn_i64"
	StructGetDynF32     = "struct_get_dyn_f32"
	StructGetDynF64     = "struct_get_dyn_f64"
	StructGetDynFuncref = "struct_get_dyn_funcref"
	StructGetDynAnyref  = "struct_get_dyn_anyref"

	StructSetDynI32     = "struct_set_dyn_i32"
	StructSetDynI64     = "struct_set_dyn_i64"
	StructSetDynF32     = "struct_set_dyn_f32"
	StructSetDynF64     = "struct_set_dyn_f64"
	StructSetDynFuncref = "struct_set_dyn_funcref"
	StructSetDynAnyref  = "struct_set_dyn_anyref"

	ExtrefTable = "extref_table"
)

// CmpOp enumerates the comparison operators dyntype_cmp accepts (§4.B
// "Operations involving Any call into the dynamic runtime (cmp, type_eq)").
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpEqEqEq
	CmpNotEq
	CmpNotEqEqEq
	CmpLt
	CmpLte
	CmpGt
	CmpGte
)

// Signatures maps every fixed import name to its call shape.
var Signatures = map[string]Sig{
	NewNumber:    sig([]wasm.WType{anyRef}, wasm.F64{}),
	NewBoolean:   sig([]wasm.WType{anyRef}, wasm.I32{}),
	NewString:    sig([]wasm.WType{anyRef}, anyRef),
	NewNull:      sig([]wasm.WType{anyRef}),
	NewUndefined: sig([]wasm.WType{anyRef}),
	NewArray:     sig([]wasm.WType{anyRef}, wasm.I32{}),
	NewObject:    sig([]wasm.WType{anyRef}),

	ToNumber: sig([]wasm.WType{wasm.F64{}}, anyRef),
	ToBool:   sig([]wasm.WType{wasm.I32{}}, anyRef),
	ToString: sig([]wasm.WType{anyRef}, anyRef),
	ToExtref: sig([]wasm.WType{wasm.I32{}}, anyRef),

	IsNumber:    sig([]wasm.WType{wasm.I32{}}, anyRef),
	IsBool:      sig([]wasm.WType{wasm.I32{}}, anyRef),
	IsString:    sig([]wasm.WType{wasm.I32{}}, anyRef),
	IsUndefined: sig([]wasm.WType{wasm.I32{}}, anyRef),
	IsNull:      sig([]wasm.WType{wasm.I32{}}, anyRef),
	IsExtref:    sig([]wasm.WType{wasm.I32{}}, anyRef),

	SetProperty:    sig([]wasm.WType{wasm.I32{}}, anyRef, anyRef, anyRef),
	GetProperty:    sig([]wasm.WType{anyRef}, anyRef, anyRef),
	HasProperty:    sig([]wasm.WType{wasm.I32{}}, anyRef, anyRef),
	DeleteProperty: sig([]wasm.WType{wasm.I32{}}, anyRef, anyRef),

	Typeof:             sig([]wasm.WType{wasm.I32{}}, anyRef),
	Typeof1:            sig([]wasm.WType{anyRef}, anyRef),
	Cmp:                sig([]wasm.WType{wasm.I32{}}, anyRef, anyRef, wasm.I32{}),
	TypeEq:             sig([]wasm.WType{wasm.I32{}}, anyRef, anyRef),
	ToStringRuntime:    sig([]wasm.WType{anyRef}, anyRef),
	Instanceof:         sig([]wasm.WType{wasm.I32{}}, anyRef, anyRef),
	InvokeFunc:         sig([]wasm.WType{anyRef}, anyRef, anyRef),
	NewObjectWithClass: sig([]wasm.WType{anyRef}, anyRef),
	NewExtref:          sig([]wasm.WType{anyRef}, wasm.I32{}, anyRef),

	FindIndex: sig([]wasm.WType{wasm.I32{}}, wasm.I32{}, anyRef, wasm.I32{}),

	StructGetDynI32:     sig([]wasm.WType{wasm.I32{}}, anyRef, wasm.I32{}),
	StructGetDynI64:     sig([]wasm.WType{wasm.I64{}}, anyRef, wasm.I32{}),
	StructGetDynF32:     sig([]wasm.WType{wasm.F32{}}, anyRef, wasm.I32{}),
	StructGetDynF64:     sig([]wasm.WType{wasm.F64{}}, anyRef, wasm.I32{}),
	StructGetDynFuncref: sig([]wasm.WType{anyRef}, anyRef, wasm.I32{}),
	StructGetDynAnyref:  sig([]wasm.WType{anyRef}, anyRef, wasm.I32{}),

	StructSetDynI32:     sig(nil, anyRef, wasm.I32{}, wasm.I32{}),
	StructSetDynI64:     sig(nil, anyRef, wasm.I32{}, wasm.I64{}),
	StructSetDynF32:     sig(nil, anyRef, wasm.I32{}, wasm.F32{}),
	StructSetDynF64:     sig(nil, anyRef, wasm.I32{}, wasm.F64{}),
	StructSetDynFuncref: sig(nil, anyRef, wasm.I32{}, anyRef),
	StructSetDynAnyref:  sig(nil, anyRef, wasm.I32{}, anyRef),
}

// Signature looks up the call shape of a fixed import name.
func Signature(name string) (Sig, bool) {
	s, ok := Signatures[name]
	return s, ok
}

// StructAccessorFor returns the struct_{get,set}_dyn_<type> helper name
// for the WebAssembly type t of an interface member (§4.E "the dynamic
// struct-accessor runtime ... choosing the helper by the wasm type of
// the member").
func StructAccessorFor(t wasm.WType, set bool) string {
	var kind string
	switch t.(type) {
	case wasm.I32:
		kind = "i32"
	case wasm.I64:
		kind = "i64"
	case wasm.F32:
		kind = "f32"
	case wasm.F64:
		kind = "f64"
	case wasm.RefT:
		kind = "anyref"
	default:
		kind = "anyref"
	}
	if set {
		return "struct_set_dyn_" + kind
	}
	return "struct_get_dyn_" + kind
}
