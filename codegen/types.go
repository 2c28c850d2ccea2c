// Component A: Type Lowering (§4.A). Maps each resolved sema.ValueType
// to a WebAssembly type and caches the result forever (§3 "Lifecycle").
package codegen

import (
	"fmt"
	"strings"

	"github.com/ts2wasm/ts2wasm-go/codegen/mangle"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// typeInfo is everything component A exposes for one resolved type,
// keyed by the operations §4.A names: wasm_type, wasm_heap_type,
// vtable_heap_type, static_fields_type, this_type,
// array_ori_type/heap_type, has_heap_type, obj_special_suffix.
type typeInfo struct {
	wasmType         wasm.WType
	heapType         wasm.HeapType
	hasHeapType      bool
	vtableHeap       *wasm.StructHeapType // Object (class) only
	staticFieldsType *wasm.StructHeapType // Object (class) only
	thisType         wasm.WType           // Object only
	arrayOriHeap     *wasm.ArrayHeapType  // Array/String only: inner element array
	objSpecialSuffix string               // Array-of-Object name-mangling suffix (§4.A)
}

// itable is one interface's flat ordered (name, setter-flag, slot) triple
// list (§3 "Interface").
type itable struct {
	entries []itableEntry
}

type itableEntry struct {
	Name     string
	IsSetter bool
	Slot     int
}

// vtableLayout records the name -> base slot map for a class's vtable,
// built once from §4.E's index formulas.
type vtableLayout struct {
	fields []wasm.Field
	slots  map[string]int // member name -> base slot (getter slot for an accessor pair)
}

// typeKey computes a stable, structural cache key for t. sema.ValueType
// is not itself a valid comparable map key (Array/Function/Union carry
// slices), so component A's cache — unlike the teacher's *wit.TypeDef
// pointer-identity cache — keys on this string instead. Object and
// Interface key through their *ObjectDesc pointer identity embedded in
// the string, so two distinct ObjectDesc values of identical shape are
// never coalesced (§3 invariant 1).
func typeKey(t sema.ValueType) string {
	switch v := t.(type) {
	case sema.Number:
		return "Number"
	case sema.Int:
		return "Int"
	case sema.Boolean:
		return "Boolean"
	case sema.String:
		return "String"
	case sema.Null:
		return "Null"
	case sema.Undefined:
		return "Undefined"
	case sema.Void:
		return "Void"
	case sema.Any:
		return "Any"
	case sema.Union:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = typeKey(m)
		}
		return "Union(" + strings.Join(parts, ",") + ")"
	case sema.Array:
		return "Array(" + typeKey(v.Element) + ")"
	case sema.Function:
		return "Function(" + funcTypeKey(v) + ")"
	case sema.Object:
		return fmt.Sprintf("Object(%p)", v.Desc)
	case sema.Interface:
		return fmt.Sprintf("Interface(%p)", v.Desc)
	case sema.ClosureContext:
		return fmt.Sprintf("ClosureContext(%p)", v.Decl)
	case sema.TypeParameter:
		return "TypeParameter(" + v.Name + ")"
	default:
		return fmt.Sprintf("?(%T)", t)
	}
}

func funcTypeKey(f sema.Function) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = typeKey(p.Type)
	}
	suffix := ""
	if f.Specialization != nil {
		specParts := make([]string, len(f.Specialization))
		for i, s := range f.Specialization {
			specParts[i] = typeKey(s)
		}
		suffix = "<" + strings.Join(specParts, ",") + ">"
	}
	var ret string
	if f.Return != nil {
		ret = typeKey(f.Return)
	} else {
		ret = "Void"
	}
	return strings.Join(parts, ",") + "->" + ret + suffix
}

// typeOf implements §4.A's dispatch, constructing and caching a typeInfo
// for t on first reference.
func (g *Generator) typeOf(t sema.ValueType) (*typeInfo, error) {
	key := typeKey(t)
	if info, ok := g.types[key]; ok {
		g.log.Debug("type cache hit", "key", key)
		return info, nil
	}
	g.log.Debug("type cache miss", "key", key)

	var info *typeInfo
	var err error
	switch v := t.(type) {
	case sema.Number:
		info = &typeInfo{wasmType: wasm.F64{}}
	case sema.Int, sema.Boolean:
		info = &typeInfo{wasmType: wasm.I32{}}
	case sema.Void:
		info = &typeInfo{wasmType: wasm.I32{}}
	case sema.Undefined:
		// Undefined has no direct wasm value representation of its own:
		// it is boxed into Any at every use site (§3), so it lowers to
		// Any's representation.
		info, err = g.typeOf(sema.Any{})
	case sema.Null:
		info, err = g.nullTypeInfo()
	case sema.Any, sema.Union:
		info = &typeInfo{wasmType: wasm.Ref(wasm.Extern), heapType: wasm.Extern, hasHeapType: true}
	case sema.String:
		info, err = g.stringTypeInfo()
	case sema.Array:
		info, err = g.arrayTypeInfo(v)
	case sema.Function:
		info, err = g.functionTypeInfo(v)
	case sema.Object:
		info, err = g.objectTypeInfo(v.Desc)
	case sema.Interface:
		info, err = g.objectTypeInfo(v.Desc)
	case sema.ClosureContext:
		info, err = g.closureContextTypeInfo(v.Decl)
	case sema.TypeParameter:
		return nil, invariant("typeOf", "unresolved type parameter %q reached type lowering", v.Name)
	default:
		return nil, unimplemented("typeOf", t)
	}
	if err != nil {
		return nil, err
	}
	g.types[key] = info
	return info, nil
}

func (g *Generator) nullTypeInfo() (*typeInfo, error) {
	const name = "$null"
	h, ok := g.mod.StructTypes[name]
	if !ok {
		h = &wasm.StructHeapType{Name: name}
		g.mod.StructTypes[name] = h
	}
	return &typeInfo{wasmType: wasm.RefNullable(h), heapType: h, hasHeapType: true}, nil
}

func (g *Generator) stringTypeInfo() (*typeInfo, error) {
	const charsName = "$string.chars"
	const structName = "$string"
	if h, ok := g.mod.StructTypes[structName]; ok {
		return &typeInfo{
			wasmType: wasm.Ref(h), heapType: h, hasHeapType: true,
			arrayOriHeap: g.mod.ArrayTypes[charsName],
		}, nil
	}
	chars := &wasm.ArrayHeapType{Name: charsName, Elem: wasm.I32{}, Mutable: false}
	h := &wasm.StructHeapType{
		Name: structName,
		Fields: []wasm.Field{
			{Name: "hash", Type: wasm.I32{}},
			{Name: "chars", Type: wasm.Ref(chars)},
		},
	}
	g.mod.ArrayTypes[charsName] = chars
	g.mod.StructTypes[structName] = h
	return &typeInfo{wasmType: wasm.Ref(h), heapType: h, hasHeapType: true, arrayOriHeap: chars}, nil
}

// arrayTypeInfo implements §4.A item 2: an inner element array, then a
// struct wrapper carrying the over-allocation-tolerant length field.
func (g *Generator) arrayTypeInfo(a sema.Array) (*typeInfo, error) {
	elemInfo, err := g.typeOf(a.Element)
	if err != nil {
		return nil, err
	}
	suffix := arraySpecialSuffix(a.Element)
	oriName := "$array.ori" + suffix
	wrapName := "$array" + suffix
	if wrap, ok := g.mod.StructTypes[wrapName]; ok {
		return &typeInfo{
			wasmType: wasm.Ref(wrap), heapType: wrap, hasHeapType: true,
			arrayOriHeap: g.mod.ArrayTypes[oriName], objSpecialSuffix: suffix,
		}, nil
	}
	ori := &wasm.ArrayHeapType{Name: oriName, Elem: elemInfo.wasmType, Mutable: true}
	wrap := &wasm.StructHeapType{
		Name: wrapName,
		Fields: []wasm.Field{
			{Name: "data", Type: wasm.Ref(ori)},
			{Name: "length", Type: wasm.I32{}, Mutable: true},
		},
	}
	g.mod.ArrayTypes[oriName] = ori
	g.mod.StructTypes[wrapName] = wrap
	return &typeInfo{
		wasmType:         wasm.Ref(wrap),
		heapType:         wrap,
		hasHeapType:      true,
		arrayOriHeap:     ori,
		objSpecialSuffix: suffix,
	}, nil
}

// arraySpecialSuffix names the element-kind suffix used to mangle
// per-element-type array builtin method calls, e.g. Array<Point>.push
// vs. Array<number>.push (§4.A "obj_special_suffix").
func arraySpecialSuffix(elem sema.ValueType) string {
	switch e := elem.(type) {
	case sema.Number:
		return ".f64"
	case sema.Int, sema.Boolean:
		return ".i32"
	case sema.Object:
		return ".obj$" + e.Desc.Name
	case sema.Interface:
		return ".itf$" + e.Desc.Name
	default:
		return ".anyref"
	}
}

// functionTypeInfo implements §4.A item 3: the signature heap type's
// parameters are [context-ref, this-ref?, p1, …, pN]; the *value* type
// of a Function is the closure-struct heap type, not the signature.
func (g *Generator) functionTypeInfo(f sema.Function) (*typeInfo, error) {
	sig, err := g.signatureOf(f)
	if err != nil {
		return nil, err
	}
	ctxInfo, err := g.typeOf(sema.ClosureContext{})
	if err != nil {
		return nil, err
	}
	closureName := "$closure." + funcTypeKey(f)
	if closure, ok := g.mod.StructTypes[closureName]; ok {
		return &typeInfo{wasmType: wasm.Ref(closure), heapType: closure, hasHeapType: true}, nil
	}
	closure := &wasm.StructHeapType{
		Name: closureName,
		Fields: []wasm.Field{
			{Name: "context", Type: ctxInfo.wasmType},
			{Name: "funcref", Type: wasm.Ref(sig)},
		},
	}
	g.mod.StructTypes[closureName] = closure
	return &typeInfo{wasmType: wasm.Ref(closure), heapType: closure, hasHeapType: true}, nil
}

// signatureOf builds (and caches via g.mod.SigTypes) the raw call
// signature heap type for f, distinct from its closure-struct value type.
func (g *Generator) signatureOf(f sema.Function) (*wasm.FuncHeapType, error) {
	sigName := "$sig." + funcTypeKey(f)
	if sig, ok := g.mod.SigTypes[sigName]; ok {
		return sig, nil
	}
	envCount := f.EnvParamCount
	if envCount == 0 {
		envCount = 1 // every user function takes at least the context param (§5)
	}
	params := make([]wasm.WType, 0, envCount+len(f.Params))
	ctxInfo, err := g.typeOf(sema.ClosureContext{})
	if err != nil {
		return nil, err
	}
	params = append(params, ctxInfo.wasmType)
	if envCount >= 2 {
		params = append(params, wasm.Ref(wasm.Top)) // this-ref, narrowed by callers via ref.cast
	}
	for _, p := range f.Params {
		pInfo, err := g.typeOf(p.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, pInfo.wasmType)
	}
	var results []wasm.WType
	if _, isVoid := f.Return.(sema.Void); !isVoid && f.Return != nil {
		retInfo, err := g.typeOf(f.Return)
		if err != nil {
			return nil, err
		}
		results = []wasm.WType{retInfo.wasmType}
	}
	sig := &wasm.FuncHeapType{Name: sigName, Params: params, EnvParamCount: envCount, Results: results}
	g.mod.SigTypes[sigName] = sig
	return sig, nil
}

// closureContextTypeInfo implements §3 "ClosureContext": a struct whose
// slot 0 is the parent-context ref and slots 1..k are free variables in
// declaration order. A nil decl is the root context, represented by the
// empty-struct top type (§3 invariant 5).
func (g *Generator) closureContextTypeInfo(decl *sema.ClosureContextType) (*typeInfo, error) {
	if decl == nil {
		return &typeInfo{wasmType: wasm.RefNullable(wasm.Top), heapType: wasm.Top, hasHeapType: true}, nil
	}
	name := fmt.Sprintf("$ctx.%p", decl)
	if existing, ok := g.mod.StructTypes[name]; ok {
		return &typeInfo{wasmType: wasm.Ref(existing), heapType: existing, hasHeapType: true}, nil
	}
	h := &wasm.StructHeapType{Name: name}
	g.mod.StructTypes[name] = h // stub first: §9 cyclic references
	fields := []wasm.Field{{Name: "parent", Type: wasm.RefNullable(wasm.Top), Mutable: false}}
	for _, fv := range decl.FreeVars {
		fvInfo, err := g.typeOf(fv.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, wasm.Field{Name: fv.Name, Type: fvInfo.wasmType, Mutable: true})
	}
	h.Fields = fields
	return &typeInfo{wasmType: wasm.Ref(h), heapType: h, hasHeapType: true}, nil
}

// interfaceTypeInfo returns the canonical four-slot interface heap type
// (§3 "Interface", §4.A item 5): (itable ptr:i32, declared-type-id:i32,
// impl-type-id:i32, erased-data:anyref). Every interface type shares
// this one heap type; what distinguishes one interface from another is
// its itable, not its wasm shape.
func (g *Generator) interfaceTypeInfo() (*typeInfo, error) {
	const name = "$interface"
	if h, ok := g.mod.StructTypes[name]; ok {
		return &typeInfo{wasmType: wasm.Ref(h), heapType: h, hasHeapType: true}, nil
	}
	h := &wasm.StructHeapType{
		Name: name,
		Fields: []wasm.Field{
			{Name: "itable", Type: wasm.I32{}},
			{Name: "declared_type_id", Type: wasm.I32{}},
			{Name: "impl_type_id", Type: wasm.I32{}},
			{Name: "erased_data", Type: wasm.RefNullable(wasm.Top)},
		},
	}
	g.mod.StructTypes[name] = h
	return &typeInfo{wasmType: wasm.Ref(h), heapType: h, hasHeapType: true}, nil
}

// stubObjectType seeds a stub struct heap type for desc's instance and
// vtable shapes (§9 "declare heap types in two phases — first a stub
// entry per named type seeded in the cache, then a fill pass"), so that
// a class referring to itself (e.g. a method parameter of its own type)
// resolves to the same *StructHeapType pointer both times.
func (g *Generator) stubObjectType(desc *sema.ObjectDesc) {
	instName := "$" + desc.Name
	vtableName := instName + ".vtable"
	if _, ok := g.mod.StructTypes[instName]; ok {
		return
	}
	if desc.Base != nil {
		g.stubObjectType(desc.Base)
	}
	g.mod.StructTypes[instName] = &wasm.StructHeapType{Name: instName}
	g.mod.StructTypes[vtableName] = &wasm.StructHeapType{Name: vtableName}
}

// objectTypeInfo implements §4.A item 4 for classes (base first to
// establish the subtype relation, then the vtable, then the instance
// struct whose slot 0 is the vtable ref) and item 5 for interfaces
// (no storage of their own — only an itable of member signatures).
func (g *Generator) objectTypeInfo(desc *sema.ObjectDesc) (*typeInfo, error) {
	g.stubObjectType(desc)
	instName := "$" + desc.Name
	vtableName := instName + ".vtable"
	inst := g.mod.StructTypes[instName]
	vtable := g.mod.StructTypes[vtableName]

	if desc.IsInterface {
		if _, ok := g.itables[desc]; !ok {
			g.itables[desc] = g.buildItable(desc)
		}
		return g.interfaceTypeInfo()
	}

	if len(inst.Fields) > 0 {
		// Already filled by a prior recursive reference.
		var staticFieldsType *wasm.StructHeapType
		if sf, ok := g.mod.StructTypes[instName+".static_fields"]; ok {
			staticFieldsType = sf
		}
		return &typeInfo{
			wasmType: wasm.Ref(inst), heapType: inst, hasHeapType: true,
			vtableHeap: vtable, staticFieldsType: staticFieldsType, thisType: wasm.Ref(inst),
		}, nil
	}

	var baseVtable, baseInst, baseStaticFields *wasm.StructHeapType
	if desc.Base != nil {
		baseInfo, err := g.objectTypeInfo(desc.Base)
		if err != nil {
			return nil, err
		}
		baseVtable = baseInfo.vtableHeap
		baseInst, _ = baseInfo.heapType.(*wasm.StructHeapType)
		baseStaticFields = baseInfo.staticFieldsType
	}

	vtableLay, err := g.buildVtableLayout(desc)
	if err != nil {
		return nil, err
	}
	g.vtables[desc] = vtableLay
	vtable.Super = baseVtable
	vtable.Fields = vtableLay.fields

	instFields := []wasm.Field{{Name: "vtable", Type: wasm.Ref(vtable)}}
	for _, m := range desc.AllMembers() {
		if m.Kind != sema.FIELD || m.Static {
			continue
		}
		fInfo, err := g.typeOf(m.Type)
		if err != nil {
			return nil, err
		}
		instFields = append(instFields, wasm.Field{Name: m.Name, Type: fInfo.wasmType, Mutable: true})
	}
	inst.Super = baseInst
	inst.Fields = instFields

	staticFieldsType, err := g.buildStaticFieldsType(desc, baseStaticFields)
	if err != nil {
		return nil, err
	}

	return &typeInfo{
		wasmType:         wasm.Ref(inst),
		heapType:         inst,
		hasHeapType:      true,
		vtableHeap:       vtable,
		staticFieldsType: staticFieldsType,
		thisType:         wasm.Ref(inst),
	}, nil
}

// buildStaticFieldsType builds the per-class static-fields struct heap
// type (§3 "Class static fields").
func (g *Generator) buildStaticFieldsType(desc *sema.ObjectDesc, base *wasm.StructHeapType) (*wasm.StructHeapType, error) {
	name := "$" + desc.Name + ".static_fields"
	if existing, ok := g.mod.StructTypes[name]; ok {
		return existing, nil
	}
	var fields []wasm.Field
	for _, m := range desc.AllMembers() {
		if m.Kind != sema.FIELD || !m.Static {
			continue
		}
		fInfo, err := g.typeOf(m.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, wasm.Field{Name: m.Name, Type: fInfo.wasmType, Mutable: true})
	}
	h := &wasm.StructHeapType{Name: name, Super: base, Fields: fields}
	g.mod.StructTypes[name] = h
	return h, nil
}

// buildVtableLayout implements §4.E's index formulas: one slot per
// non-FIELD member in base-then-own order, getter/setter accessor pairs
// occupying two consecutive slots.
func (g *Generator) buildVtableLayout(desc *sema.ObjectDesc) (*vtableLayout, error) {
	lay := &vtableLayout{slots: make(map[string]int)}
	for _, m := range desc.AllMembers() {
		switch m.Kind {
		case sema.FIELD:
			continue
		case sema.METHOD:
			fn, ok := m.Type.(sema.Function)
			if !ok {
				return nil, invariant("buildVtableLayout", "method %q has non-Function type %T", m.Name, m.Type)
			}
			sig, err := g.signatureOf(fn)
			if err != nil {
				return nil, err
			}
			lay.slots[m.Name] = len(lay.fields)
			lay.fields = append(lay.fields, wasm.Field{Name: m.Name, Type: wasm.Ref(sig)})
		case sema.ACCESSOR:
			getSig, err := g.signatureOf(sema.Function{Return: m.Type, EnvParamCount: 2})
			if err != nil {
				return nil, err
			}
			lay.slots[m.Name] = len(lay.fields)
			lay.fields = append(lay.fields, wasm.Field{Name: m.Name, Type: wasm.Ref(getSig)})
			if m.HasGetter && m.HasSetter {
				setSig, err := g.signatureOf(sema.Function{
					Params:        []sema.Param{{Name: "value", Type: m.Type}},
					Return:        sema.Void{},
					EnvParamCount: 2,
				})
				if err != nil {
					return nil, err
				}
				lay.fields = append(lay.fields, wasm.Field{Name: m.Name + ".set", Type: wasm.Ref(setSig)})
			}
		}
	}
	return lay, nil
}

// buildItable implements §3 "Interface": a flat ordered (name,
// setter-flag, slot) triple list, one entry per non-FIELD member, with
// accessor pairs occupying two consecutive slots exactly as a class
// vtable does, so a class's vtable slot numbering lines up with any
// interface it implements structurally.
func (g *Generator) buildItable(desc *sema.ObjectDesc) *itable {
	it := &itable{}
	slot := 0
	for _, m := range desc.AllMembers() {
		if m.Kind == sema.FIELD {
			continue
		}
		it.entries = append(it.entries, itableEntry{Name: m.Name, Slot: slot})
		slot++
		if m.Kind == sema.ACCESSOR && m.HasGetter && m.HasSetter {
			it.entries = append(it.entries, itableEntry{Name: m.Name, IsSetter: true, Slot: slot})
			slot++
		}
	}
	return it
}

// declareStaticFields allocates class c's static-fields global (§3
// "Lifecycle"). Each slot holds its type's zero value; no code is
// emitted that writes a static field's declared initializer into it.
func (g *Generator) declareStaticFields(c *sema.ObjectDesc) error {
	info, err := g.objectTypeInfo(c)
	if err != nil {
		return err
	}
	if info.staticFieldsType == nil || len(info.staticFieldsType.Fields) == 0 {
		return nil
	}
	zeros := make([]wasm.Expr, len(info.staticFieldsType.Fields))
	for i, f := range info.staticFieldsType.Fields {
		zeros[i] = zeroValue(f.Type)
	}
	g.mod.AddGlobal(&wasm.Global{
		Name:    mangle.StaticFields(c.Name),
		Type:    wasm.Ref(info.staticFieldsType),
		Mutable: true,
		Init:    wasm.StructNewExpr(info.staticFieldsType, zeros...),
	})
	return nil
}

func zeroValue(t wasm.WType) wasm.Expr {
	switch tt := t.(type) {
	case wasm.I32:
		return wasm.I32Const(0)
	case wasm.I64:
		return wasm.I64Const(0)
	case wasm.F64:
		return wasm.F64Const(0)
	case wasm.RefT:
		return wasm.RefNullExpr(tt.Heap)
	default:
		return wasm.I32Const(0)
	}
}
