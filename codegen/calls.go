// Component C: Call & Dispatch (§4.B "Calls").
package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/codegen/mangle"
	"github.com/ts2wasm/ts2wasm-go/dyntype"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// buildArgs implements the parameter side of §4.B "Calls": required
// arguments lower in order; a missing optional argument lowers its
// declared default (or the parameter type's zero value absent one); the
// rest parameter, if any, collects every remaining argument into an
// array literal of its declared element type.
func (g *Generator) buildArgs(params []sema.Param, optionalMask []bool, restIndex int, args []sema.Value) ([]wasm.Expr, error) {
	out := make([]wasm.Expr, 0, len(params))
	for i, p := range params {
		if restIndex >= 0 && i == restIndex {
			arrType, ok := p.Type.(sema.Array)
			if !ok {
				return nil, invariant("buildArgs", "rest parameter %q is not an Array type", p.Name)
			}
			var rest []sema.Value
			if i < len(args) {
				rest = args[i:]
			}
			elems, err := g.lowerValues(rest)
			if err != nil {
				return nil, err
			}
			info, err := g.typeOf(arrType)
			if err != nil {
				return nil, err
			}
			structType, _ := info.heapType.(*wasm.StructHeapType)
			data := wasm.ArrayNewFixedExpr(info.arrayOriHeap, elems...)
			out = append(out, wasm.StructNewExpr(structType, data, wasm.I32Const(int32(len(elems)))))
			return out, nil
		}
		if i < len(args) {
			v, err := g.lower(args[i])
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			continue
		}
		isOptional := optionalMask != nil && i < len(optionalMask) && optionalMask[i]
		if !isOptional {
			return nil, invariant("buildArgs", "missing required argument %q", p.Name)
		}
		if p.Default != nil {
			v, err := g.lower(p.Default)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			continue
		}
		info, err := g.typeOf(p.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, zeroValue(info.wasmType))
	}
	return out, nil
}

// contextArgForCallee builds the context argument a direct call to
// callee must pass: a typed null when callee declares no enclosing
// closure scope of its own (the common case for methods, constructors,
// and top-level functions with no free variables), or the caller's own
// current context value when callee shares the caller's lexical scope
// (a function declared and called from within the same enclosing
// function body, §4.D).
func (g *Generator) contextArgForCallee(callee *sema.FunctionDecl) (wasm.Expr, error) {
	if callee.Scope == nil {
		return wasm.RefNullExpr(wasm.Top), nil
	}
	if callee.Scope == g.fc.ctxDecl {
		return g.currentContextExpr()
	}
	info, err := g.typeOf(sema.ClosureContext{Decl: callee.Scope})
	if err != nil {
		return wasm.Expr{}, err
	}
	h, _ := info.heapType.(*wasm.StructHeapType)
	return wasm.RefNullExpr(h), nil
}

// lowerCallDirect implements §4.B "Direct": a statically resolved call,
// including super(...) when Callee.Owner names a method resolved
// through the current method's own `this` local rather than a freshly
// constructed receiver. A call to a still-generic Callee first resolves
// (component G, §4.G) a specialized instance from the actual arguments'
// types, and lowers against that instance's substituted signature.
func (g *Generator) lowerCallDirect(c sema.CallDirect) (wasm.Expr, error) {
	callee := c.Callee
	params, optionalMask, restIndex := callee.Params, callee.OptionalMask, callee.RestIndex
	ft := callee.FuncType()
	mangledName := ""

	if callee.IsGeneric() {
		specArgs, err := inferSpecialization(callee, c.Args)
		if err != nil {
			return wasm.Expr{}, err
		}
		name, err := g.specialize(callee, specArgs)
		if err != nil {
			return wasm.Expr{}, err
		}
		mangledName = name

		subst := substitutionMap(callee.TypeParams, specArgs)
		params = make([]sema.Param, len(callee.Params))
		for i, p := range callee.Params {
			params[i] = sema.Param{Name: p.Name, Type: substituteType(p.Type, subst), Default: p.Default}
		}
		ft = sema.Function{
			Params:        params,
			OptionalMask:  optionalMask,
			RestIndex:     restIndex,
			EnvParamCount: callee.EnvParamCount,
			Return:        substituteType(callee.Return, subst),
		}
	}

	sig, err := g.signatureOf(ft)
	if err != nil {
		return wasm.Expr{}, err
	}
	ctxArg, err := g.contextArgForCallee(callee)
	if err != nil {
		return wasm.Expr{}, err
	}
	callArgs := []wasm.Expr{ctxArg}
	if callee.EnvParamCount >= 2 {
		if g.fc.thisLocal == "" {
			return wasm.Expr{}, invariant("lowerCallDirect", "call to %q needs a this argument outside any method body", callee.Name)
		}
		thisInfo, err := g.typeOf(sema.Object{Desc: callee.Owner})
		if err != nil {
			return wasm.Expr{}, err
		}
		callArgs = append(callArgs, wasm.LocalGet(g.fc.thisLocal, thisInfo.wasmType))
	}
	args, err := g.buildArgs(params, optionalMask, restIndex, c.Args)
	if err != nil {
		return wasm.Expr{}, err
	}
	callArgs = append(callArgs, args...)
	var resultType wasm.WType
	if len(sig.Results) > 0 {
		resultType = sig.Results[0]
	}
	if mangledName == "" {
		mangledName = g.mangledNameFor(callee)
	}
	return wasm.CallExpr(mangledName, resultType, callArgs...), nil
}

// lowerCallClosure implements §4.B "Closure": the callee is evaluated to
// a closure-struct value, whose field 0 (context) and field 1 (funcref)
// are read out and call_ref-ed.
func (g *Generator) lowerCallClosure(c sema.CallClosure) (wasm.Expr, error) {
	closureVal, err := g.lower(c.Callee)
	if err != nil {
		return wasm.Expr{}, err
	}
	fn, ok := c.Callee.ValueType().(sema.Function)
	if !ok {
		return wasm.Expr{}, invariant("lowerCallClosure", "callee is not a Function type")
	}
	sig, err := g.signatureOf(fn)
	if err != nil {
		return wasm.Expr{}, err
	}
	closureInfo, err := g.typeOf(fn)
	if err != nil {
		return wasm.Expr{}, err
	}
	structType, _ := closureInfo.heapType.(*wasm.StructHeapType)
	ctxExpr := wasm.StructGetExpr(closureVal, 0, structType.Fields[0].Type)
	fref := wasm.StructGetExpr(closureVal, 1, wasm.Ref(sig))
	args, err := g.buildArgs(fn.Params, fn.OptionalMask, fn.RestIndex, c.Args)
	if err != nil {
		return wasm.Expr{}, err
	}
	allArgs := append([]wasm.Expr{ctxExpr}, args...)
	return wasm.CallRefExpr(fref, sig, allArgs...), nil
}

// lowerCallMethod implements §4.E "Vtable": reads the receiver's own
// vtable reference, indexes it by the member's stable slot, and
// call_ref's through the result with the receiver as `this`.
func (g *Generator) lowerCallMethod(c sema.CallMethod) (wasm.Expr, error) {
	receiver, err := g.lower(c.Receiver)
	if err != nil {
		return wasm.Expr{}, err
	}
	desc := sema.ObjectDescOf(c.Receiver.ValueType())
	if desc == nil {
		return wasm.Expr{}, unimplemented("lowerCallMethod: non-object receiver", c.Receiver.ValueType())
	}
	m, ok := desc.FindMember(c.Member)
	if !ok {
		return wasm.Expr{}, invariant("lowerCallMethod", "class %q has no member %q", desc.Name, c.Member)
	}
	fn, ok := m.Type.(sema.Function)
	if !ok {
		return wasm.Expr{}, invariant("lowerCallMethod", "member %q is not callable", c.Member)
	}
	sig, err := g.signatureOf(fn)
	if err != nil {
		return wasm.Expr{}, err
	}
	vtableLay, ok := g.vtables[desc]
	if !ok {
		return wasm.Expr{}, invariant("lowerCallMethod", "class %q has no vtable layout", desc.Name)
	}
	slot, ok := vtableLay.slots[c.Member]
	if !ok {
		return wasm.Expr{}, invariant("lowerCallMethod", "class %q has no vtable slot %q", desc.Name, c.Member)
	}
	vt := g.mod.StructTypes["$"+desc.Name+".vtable"]
	vtableRef := wasm.StructGetExpr(receiver, 0, wasm.Ref(vt))
	fref := wasm.StructGetExpr(vtableRef, slot, vt.Fields[slot].Type)
	args, err := g.buildArgs(fn.Params, fn.OptionalMask, fn.RestIndex, c.Args)
	if err != nil {
		return wasm.Expr{}, err
	}
	allArgs := append([]wasm.Expr{wasm.RefNullExpr(wasm.Top), receiver}, args...)
	return wasm.CallRefExpr(fref, sig, allArgs...), nil
}

// lowerCallStatic implements §4.B "Offset/Static": a member of a holder
// whose name contains a built-in holder name (ArrayConstructor, Console,
// Math; see mangle.MatchBuiltinHolder) mangles to
// "built-in|holder|member"; anything else is a class's own static
// method, mangled the normal member way against the class's static
// namespace.
func (g *Generator) lowerCallStatic(c sema.CallStatic) (wasm.Expr, error) {
	args, err := g.lowerValues(c.Args)
	if err != nil {
		return wasm.Expr{}, err
	}
	var name string
	if holder, ok := mangle.MatchBuiltinHolder(c.Holder); ok {
		name = mangle.Builtin(holder, c.Member)
	} else {
		name = mangle.Member(c.Holder, c.Member)
	}
	// Static calls still thread the no-context/no-this environment
	// prefix, matching every other call form's signature shape (§4.A
	// item 3: "parameters are [context-ref, this-ref?, ...]").
	callArgs := append([]wasm.Expr{wasm.RefNullExpr(wasm.Top)}, args...)
	return wasm.CallExpr(name, nil, callArgs...), nil
}

// lowerCallInterface implements §4.E's itable dispatch: the receiver's
// itable is consulted by name (find_index) for the implementing
// instance's bound callable (struct_get_dyn_funcref returns a value the
// dyntype runtime has already bound to the receiver), then invoked
// through the Any-call boundary like any other dynamically typed
// callable (§4.F).
func (g *Generator) lowerCallInterface(c sema.CallInterface) (wasm.Expr, error) {
	receiver, err := g.lower(c.Receiver)
	if err != nil {
		return wasm.Expr{}, err
	}
	name := g.internString(c.Member)
	idx := wasm.CallImportExpr(dyntype.FindIndex, wasm.I32{}, wasm.I32Const(0), name, wasm.I32Const(0))
	callable := wasm.CallImportExpr(dyntype.StructGetDynFuncref, wasm.Ref(wasm.Extern), receiver, idx)
	return g.invokeAnyCallable(callable, c.Args)
}

// lowerCallDynamic implements §4.B "Dynamic": when the receiver's
// static type is still a concrete Object at this call site, it reroutes
// to the equivalent CallMethod form; Interface receivers route through
// the itable, and anything else (Any) falls back to a runtime property
// lookup followed by an Any-call.
func (g *Generator) lowerCallDynamic(c sema.CallDynamic) (wasm.Expr, error) {
	switch t := c.Receiver.ValueType().(type) {
	case sema.Object:
		if !t.Desc.IsInterface {
			return g.lowerCallMethod(sema.CallMethod{Receiver: c.Receiver, Member: c.Member, Args: c.Args})
		}
		return g.lowerCallInterface(sema.CallInterface{Receiver: c.Receiver, Member: c.Member, Args: c.Args})
	case sema.Interface:
		return g.lowerCallInterface(sema.CallInterface{Receiver: c.Receiver, Member: c.Member, Args: c.Args})
	default:
		receiver, err := g.lower(c.Receiver)
		if err != nil {
			return wasm.Expr{}, err
		}
		boxedReceiver, err := g.boxToAny(receiver, c.Receiver.ValueType())
		if err != nil {
			return wasm.Expr{}, err
		}
		name := g.internString(c.Member)
		propNameAny := wasm.CallImportExpr(dyntype.NewNumber, wasm.Ref(wasm.Extern), wasm.Expr{Op: wasm.OpF64ConvertI32U, Type: wasm.F64{}, Args: []wasm.Expr{name}})
		callable := wasm.CallImportExpr(dyntype.GetProperty, wasm.Ref(wasm.Extern), boxedReceiver, propNameAny)
		return g.invokeAnyCallable(callable, c.Args)
	}
}

// lowerCallAny implements §4.B "Any-call": dyntype_invoke_func on an
// Any-typed callable value.
func (g *Generator) lowerCallAny(c sema.CallAny) (wasm.Expr, error) {
	callee, err := g.lower(c.Callee)
	if err != nil {
		return wasm.Expr{}, err
	}
	return g.invokeAnyCallable(callee, c.Args)
}
