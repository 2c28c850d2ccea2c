// Component E: Object Model (§4.E). Field/element access, object and
// array construction, and the vtable/itable dispatch machinery shared
// with component C's method-call lowering.
package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/dyntype"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// lowerNew implements §4.B "Object/array construction" for a class
// instance: struct.new with the vtable reference in slot 0 followed by
// each instance field's zero value, then a call to the class
// constructor if one is declared.
func (g *Generator) lowerNew(n sema.New) (wasm.Expr, error) {
	info, err := g.typeOf(sema.Object{Desc: n.Desc})
	if err != nil {
		return wasm.Expr{}, err
	}
	structType, ok := info.heapType.(*wasm.StructHeapType)
	if !ok {
		return wasm.Expr{}, invariant("lowerNew", "class %q has no struct heap type", n.Desc.Name)
	}
	fields := make([]wasm.Expr, len(structType.Fields))
	fields[0] = g.vtableRefExpr(n.Desc)
	idx := 1
	for _, m := range n.Desc.AllMembers() {
		if m.Kind != sema.FIELD || m.Static {
			continue
		}
		fInfo, err := g.typeOf(m.Type)
		if err != nil {
			return wasm.Expr{}, err
		}
		fields[idx] = zeroValue(fInfo.wasmType)
		idx++
	}
	instance := wasm.StructNewExpr(structType, fields...)
	if n.Desc.Ctor == nil {
		return instance, nil
	}
	args, err := g.lowerValues(n.Args)
	if err != nil {
		return wasm.Expr{}, err
	}
	ctorSig, err := g.signatureOf(n.Desc.Ctor.FuncType())
	if err != nil {
		return wasm.Expr{}, err
	}
	tmp := g.fc.declareLocal(n.Desc.Name, info.wasmType)
	ctxExpr, err := g.currentContextExpr()
	if err != nil {
		return wasm.Expr{}, err
	}
	callArgs := append([]wasm.Expr{ctxExpr, wasm.LocalGet(tmp, info.wasmType)}, args...)
	var ctorResult wasm.WType
	if len(ctorSig.Results) > 0 {
		ctorResult = ctorSig.Results[0]
	}
	call := wasm.CallExpr(g.mangledNameFor(n.Desc.Ctor), ctorResult, callArgs...)
	return wasm.BlockExpr("", info.wasmType,
		wasm.LocalSet(tmp, instance),
		call,
		wasm.LocalGet(tmp, info.wasmType),
	), nil
}

// vtableRefExpr builds a global.get of class desc's vtable singleton.
// Vtables are process-wide constants (§3 invariant 1: "class vtables
// are shared across every instance"), so each is a module global
// initialized once rather than rebuilt per object.
func (g *Generator) vtableRefExpr(desc *sema.ObjectDesc) wasm.Expr {
	name := "$" + desc.Name + ".vtable_instance"
	if vt, ok := g.vtables[desc]; ok {
		structType := g.mod.StructTypes["$"+desc.Name+".vtable"]
		if !g.hasGlobal(name) {
			fields := make([]wasm.Expr, len(vt.fields))
			for i, f := range vt.fields {
				fields[i] = g.vtableSlotInit(desc, f.Name)
			}
			g.mod.AddGlobal(&wasm.Global{Name: name, Type: wasm.Ref(structType), Init: wasm.StructNewExpr(structType, fields...)})
		}
	}
	structType := g.mod.StructTypes["$"+desc.Name+".vtable"]
	return wasm.GlobalGet(name, wasm.Ref(structType))
}

func (g *Generator) hasGlobal(name string) bool {
	for _, gl := range g.mod.Globals {
		if gl.Name == name {
			return true
		}
	}
	return false
}

// vtableSlotInit resolves the ref.func backing one vtable slot: the
// most-derived own override of member across desc's base chain, or a
// null funcref placeholder if no declaration defines it yet (an
// abstract interface member implemented only structurally, not as a
// class method).
func (g *Generator) vtableSlotInit(desc *sema.ObjectDesc, memberSlotName string) wasm.Expr {
	name := memberSlotName
	isSetter := false
	if len(name) > 4 && name[len(name)-4:] == ".set" {
		name = name[:len(name)-4]
		isSetter = true
	}
	// AllMembers lists base members before own ones, so the last match
	// is the most-derived declaration.
	var m sema.Member
	ok := false
	for _, cand := range desc.AllMembers() {
		if cand.Name == name {
			m, ok = cand, true
		}
	}
	if !ok {
		return wasm.RefNullExpr(wasm.Top)
	}
	var decl *sema.FunctionDecl
	if isSetter {
		decl = m.Setter
	} else {
		decl = m.Getter
	}
	if decl == nil {
		return wasm.RefNullExpr(wasm.Top)
	}
	sig, err := g.signatureOf(decl.FuncType())
	if err != nil {
		return wasm.RefNullExpr(wasm.Top)
	}
	return wasm.RefFuncExpr(g.mangledNameFor(decl), sig)
}

// lowerObjectLiteral implements §4.B "Object literals": both the vtable
// (for declared methods) and the instance struct are built in one pass.
func (g *Generator) lowerObjectLiteral(o sema.ObjectLiteral) (wasm.Expr, error) {
	info, err := g.typeOf(sema.Object{Desc: o.Desc})
	if err != nil {
		return wasm.Expr{}, err
	}
	structType, _ := info.heapType.(*wasm.StructHeapType)
	fieldVals := make(map[string]wasm.Expr, len(o.Fields))
	for _, fi := range o.Fields {
		v, err := g.lower(fi.Init)
		if err != nil {
			return wasm.Expr{}, err
		}
		fieldVals[fi.Name] = v
	}
	fields := make([]wasm.Expr, len(structType.Fields))
	fields[0] = g.vtableRefExpr(o.Desc)
	idx := 1
	for _, m := range o.Desc.AllMembers() {
		if m.Kind != sema.FIELD || m.Static {
			continue
		}
		if v, ok := fieldVals[m.Name]; ok {
			fields[idx] = v
		} else {
			fInfo, err := g.typeOf(m.Type)
			if err != nil {
				return wasm.Expr{}, err
			}
			fields[idx] = zeroValue(fInfo.wasmType)
		}
		idx++
	}
	return wasm.StructNewExpr(structType, fields...), nil
}

// lowerNewArray implements §4.B "array-of-length": an array.new filled
// with the element type's default value.
func (g *Generator) lowerNewArray(n sema.NewArray) (wasm.Expr, error) {
	info, err := g.typeOf(sema.Array{Element: n.Element})
	if err != nil {
		return wasm.Expr{}, err
	}
	lengthExpr, err := g.lower(n.Length)
	if err != nil {
		return wasm.Expr{}, err
	}
	elemInfo, err := g.typeOf(n.Element)
	if err != nil {
		return wasm.Expr{}, err
	}
	structType, _ := info.heapType.(*wasm.StructHeapType)
	idxAsI32 := lengthExpr
	if _, isF64 := lengthExpr.Type.(wasm.F64); isF64 {
		idxAsI32 = wasm.Expr{Op: wasm.OpI32TruncF64U, Type: wasm.I32{}, Args: []wasm.Expr{lengthExpr}}
	}
	data := wasm.ArrayNewExpr(info.arrayOriHeap, zeroValue(elemInfo.wasmType), idxAsI32)
	return wasm.StructNewExpr(structType, data, idxAsI32), nil
}

// lowerArrayLiteral implements §4.B array literal construction:
// array.new_fixed for the backing storage, wrapped with its length.
func (g *Generator) lowerArrayLiteral(a sema.ArrayLiteral) (wasm.Expr, error) {
	info, err := g.typeOf(sema.Array{Element: a.Element})
	if err != nil {
		return wasm.Expr{}, err
	}
	elems, err := g.lowerValues(a.Elements)
	if err != nil {
		return wasm.Expr{}, err
	}
	structType, _ := info.heapType.(*wasm.StructHeapType)
	data := wasm.ArrayNewFixedExpr(info.arrayOriHeap, elems...)
	return wasm.StructNewExpr(structType, data, wasm.I32Const(int32(len(elems)))), nil
}

// lowerElementGet/lowerElementSet implement §4.B "Element get/set": a
// concrete Array indexes its backing array field directly. Any other
// target type (Any, String, ...) is not lowered and reports
// UnimplementedLowering.
func (g *Generator) lowerElementGet(e sema.ElementGet) (wasm.Expr, error) {
	target, err := g.lower(e.Target)
	if err != nil {
		return wasm.Expr{}, err
	}
	idx, err := g.lower(e.Index)
	if err != nil {
		return wasm.Expr{}, err
	}
	arr, ok := e.Target.ValueType().(sema.Array)
	if !ok {
		return wasm.Expr{}, unimplemented("lowerElementGet: non-Array target", e.Target.ValueType())
	}
	elemInfo, err := g.typeOf(arr.Element)
	if err != nil {
		return wasm.Expr{}, err
	}
	arrInfo, err := g.typeOf(arr)
	if err != nil {
		return wasm.Expr{}, err
	}
	data := wasm.StructGetExpr(target, 0, wasm.Ref(arrInfo.arrayOriHeap))
	return wasm.ArrayGetExpr(data, idx, elemInfo.wasmType), nil
}

// arrayLengthExpr implements the `.length` read on a concrete Array
// target (§3 "Array" representation: GC struct {element-array ref, i32
// length}, slot 1).
func (g *Generator) arrayLengthExpr(target wasm.Expr, arr sema.Array) (wasm.Expr, error) {
	if _, err := g.typeOf(arr); err != nil {
		return wasm.Expr{}, err
	}
	return wasm.StructGetExpr(target, 1, wasm.I32{}), nil
}

func (g *Generator) lowerElementSet(e sema.ElementSet) (wasm.Expr, error) {
	target, err := g.lower(e.Target)
	if err != nil {
		return wasm.Expr{}, err
	}
	idx, err := g.lower(e.Index)
	if err != nil {
		return wasm.Expr{}, err
	}
	rhs, err := g.lower(e.RHS)
	if err != nil {
		return wasm.Expr{}, err
	}
	arr, ok := e.Target.ValueType().(sema.Array)
	if !ok {
		return wasm.Expr{}, unimplemented("lowerElementSet: non-Array target", e.Target.ValueType())
	}
	arrInfo, err := g.typeOf(arr)
	if err != nil {
		return wasm.Expr{}, err
	}
	data := wasm.StructGetExpr(target, 0, wasm.Ref(arrInfo.arrayOriHeap))
	return wasm.ArraySetExpr(data, idx, rhs), nil
}

// lowerFieldGet/lowerFieldSet implement §4.E: a concrete Object target
// resolves to a direct struct.get/set by the field's stable index
// (fast path); an Interface target resolves through its itable to the
// implementing instance's struct_get_dyn_* accessor (dyn path).
func (g *Generator) lowerFieldGet(f sema.FieldGet) (wasm.Expr, error) {
	target, err := g.lower(f.Target)
	if err != nil {
		return wasm.Expr{}, err
	}
	return g.fieldGetExpr(target, f.Target.ValueType(), f.Member)
}

func (g *Generator) lowerFieldSet(f sema.FieldSet) (wasm.Expr, error) {
	target, err := g.lower(f.Target)
	if err != nil {
		return wasm.Expr{}, err
	}
	rhs, err := g.lower(f.RHS)
	if err != nil {
		return wasm.Expr{}, err
	}
	return g.fieldSetExpr(target, f.Target.ValueType(), f.Member, rhs)
}

// fieldGetExpr/fieldSetExpr are the raw (already-lowered target/rhs)
// entry points shared by FieldGet/FieldSet and component B's compound
// assignment desugaring.
func (g *Generator) fieldGetExpr(target wasm.Expr, targetType sema.ValueType, member string) (wasm.Expr, error) {
	if arr, ok := targetType.(sema.Array); ok && member == "length" {
		return g.arrayLengthExpr(target, arr)
	}
	desc := sema.ObjectDescOf(targetType)
	if desc == nil {
		return wasm.Expr{}, unimplemented("fieldGetExpr: non-object target", targetType)
	}
	if !desc.IsInterface {
		return g.fastFieldGet(desc, target, member)
	}
	return g.dynFieldGet(desc, target, member)
}

func (g *Generator) fieldSetExpr(target wasm.Expr, targetType sema.ValueType, member string, rhs wasm.Expr) (wasm.Expr, error) {
	desc := sema.ObjectDescOf(targetType)
	if desc == nil {
		return wasm.Expr{}, unimplemented("fieldSetExpr: non-object target", targetType)
	}
	if !desc.IsInterface {
		return g.fastFieldSet(desc, target, member, rhs)
	}
	return g.dynFieldSet(target, member, rhs)
}

func (g *Generator) fastFieldGet(desc *sema.ObjectDesc, target wasm.Expr, member string) (wasm.Expr, error) {
	m, ok := desc.FindMember(member)
	if !ok {
		return wasm.Expr{}, invariant("fastFieldGet", "class %q has no member %q", desc.Name, member)
	}
	if m.Kind == sema.FIELD {
		idx := desc.FieldIndex(member)
		if idx < 0 {
			return wasm.Expr{}, invariant("fastFieldGet", "member %q is not an instance field", member)
		}
		fInfo, err := g.typeOf(m.Type)
		if err != nil {
			return wasm.Expr{}, err
		}
		return wasm.StructGetExpr(target, idx+1, fInfo.wasmType), nil // +1: slot 0 is vtable
	}
	// ACCESSOR/METHOD: invoke through the instance's own vtable slot.
	vtableInfo := g.vtables[desc]
	slot, ok := vtableInfo.slots[member]
	if !ok {
		return wasm.Expr{}, invariant("fastFieldGet", "class %q has no vtable slot %q", desc.Name, member)
	}
	vtableField := g.mod.StructTypes["$"+desc.Name+".vtable"].Fields[slot]
	vtableRef := wasm.StructGetExpr(target, 0, wasm.Ref(g.mod.StructTypes["$"+desc.Name+".vtable"]))
	fref := wasm.StructGetExpr(vtableRef, slot, vtableField.Type)
	sig := fref.Type.(wasm.RefT).Heap.(*wasm.FuncHeapType)
	ctxExpr, err := g.currentContextExpr()
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.CallRefExpr(fref, sig, ctxExpr, target), nil
}

func (g *Generator) fastFieldSet(desc *sema.ObjectDesc, target wasm.Expr, member string, rhs wasm.Expr) (wasm.Expr, error) {
	m, ok := desc.FindMember(member)
	if !ok {
		return wasm.Expr{}, invariant("fastFieldSet", "class %q has no member %q", desc.Name, member)
	}
	if m.Kind == sema.FIELD {
		idx := desc.FieldIndex(member)
		return wasm.StructSetExpr(target, idx+1, rhs), nil
	}
	vtableInfo := g.vtables[desc]
	slot, ok := vtableInfo.slots[member]
	if !ok || !m.HasSetter {
		return wasm.Expr{}, invariant("fastFieldSet", "class %q member %q has no setter", desc.Name, member)
	}
	vt := g.mod.StructTypes["$"+desc.Name+".vtable"]
	setSlot := slot + 1
	vtableRef := wasm.StructGetExpr(target, 0, wasm.Ref(vt))
	fref := wasm.StructGetExpr(vtableRef, setSlot, vt.Fields[setSlot].Type)
	sig := fref.Type.(wasm.RefT).Heap.(*wasm.FuncHeapType)
	ctxExpr, err := g.currentContextExpr()
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.CallRefExpr(fref, sig, ctxExpr, target, rhs), nil
}

// dynFieldGet/dynFieldSet implement §4.E's dyn path for an
// Interface-typed target: look the member up in the interface's itable
// (find_index), then read/write through the struct_*_dyn_* accessor
// chosen by the member's wasm type.
func (g *Generator) dynFieldGet(desc *sema.ObjectDesc, target wasm.Expr, member string) (wasm.Expr, error) {
	name := g.internString(member)
	idx := wasm.CallImportExpr(dyntype.FindIndex, wasm.I32{}, wasm.I32Const(0), name, wasm.I32Const(0))
	var resultType wasm.WType = wasm.Ref(wasm.Extern)
	if m, ok := desc.FindMember(member); ok {
		info, err := g.typeOf(m.Type)
		if err != nil {
			return wasm.Expr{}, err
		}
		resultType = info.wasmType
	}
	accessor := dyntype.StructAccessorFor(resultType, false)
	return wasm.CallImportExpr(accessor, resultType, target, idx), nil
}

func (g *Generator) dynFieldSet(target wasm.Expr, member string, rhs wasm.Expr) (wasm.Expr, error) {
	name := g.internString(member)
	idx := wasm.CallImportExpr(dyntype.FindIndex, wasm.I32{}, wasm.I32Const(0), name, wasm.I32Const(1))
	accessor := dyntype.StructAccessorFor(rhs.Type, true)
	return wasm.CallImportExpr(accessor, nil, target, idx, rhs), nil
}

// internString returns an i32 constant naming member's slot in this
// Generator's cstring pool, allocating one on first reference (§5
// "cstring pool backing itable name lookups").
func (g *Generator) internString(s string) wasm.Expr {
	if _, ok := g.cstrings[s]; !ok {
		g.cstrings[s] = len(g.cstrings)
	}
	return wasm.I32Const(int32(g.cstrings[s]))
}

// lowerValues lowers a slice of argument values in order.
func (g *Generator) lowerValues(vs []sema.Value) ([]wasm.Expr, error) {
	out := make([]wasm.Expr, len(vs))
	for i, v := range vs {
		e, err := g.lower(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

