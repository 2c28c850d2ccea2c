// Component G: Generics (§4.G). A generic FunctionDecl is compiled
// lazily, once per distinct tuple of specialization-argument types: the
// declaration is snapshotted, mutated in place to the substituted
// shape, recompiled through the ordinary component-B/C/D/E pipeline,
// then restored, so every other reader of the declaration never
// observes the transient substituted state (§5 "the invariant is that
// the context at entry of lower(value) equals the context at exit").
package codegen

import (
	"fmt"
	"strings"

	"github.com/ts2wasm/ts2wasm-go/codegen/mangle"
	"github.com/ts2wasm/ts2wasm-go/sema"
)

// typeID assigns t a stable integer id, unique within this Generator's
// compilation, on first reference
// (§4.G "appending _ + each specialization type's numeric id").
func (g *Generator) typeID(t sema.ValueType) int {
	key := typeKey(t)
	if id, ok := g.typeNumericIDs[key]; ok {
		return id
	}
	id := len(g.typeNumericIDs)
	g.typeNumericIDs[key] = id
	return id
}

// substitutionMap pairs each type parameter name with its specialization
// argument, positionally.
func substitutionMap(params []sema.TypeParameter, args []sema.ValueType) map[string]sema.ValueType {
	m := make(map[string]sema.ValueType, len(params))
	for i, p := range params {
		if i < len(args) {
			m[p.Name] = args[i]
		}
	}
	return m
}

// substituteType replaces every TypeParameter reachable in t (directly,
// or nested inside an Array/Union/Function) with its entry in subst,
// leaving every other type unchanged.
func substituteType(t sema.ValueType, subst map[string]sema.ValueType) sema.ValueType {
	switch v := t.(type) {
	case nil:
		return nil
	case sema.TypeParameter:
		if repl, ok := subst[v.Name]; ok {
			return repl
		}
		return t
	case sema.Array:
		return sema.Array{Element: substituteType(v.Element, subst)}
	case sema.Union:
		members := make([]sema.ValueType, len(v.Members))
		for i, m := range v.Members {
			members[i] = substituteType(m, subst)
		}
		return sema.Union{Members: members}
	case sema.Function:
		params := make([]sema.Param, len(v.Params))
		for i, p := range v.Params {
			params[i] = sema.Param{Name: p.Name, Type: substituteType(p.Type, subst), Default: p.Default}
		}
		return sema.Function{
			Params:         params,
			OptionalMask:   v.OptionalMask,
			RestIndex:      v.RestIndex,
			EnvParamCount:  v.EnvParamCount,
			Return:         substituteType(v.Return, subst),
			TypeParams:     v.TypeParams,
			Specialization: v.Specialization,
		}
	default:
		return t
	}
}

// inferSpecialization recovers a generic call's specialization-argument
// list from the static types of its actual arguments (§6 "generic sites
// carry explicit specialization-arguments": at a CallDirect site those
// arguments are implicit in the call, recovered here by matching each
// type parameter against the parameter position it names). A type
// parameter that names no parameter position (used only in the return
// type) falls back to its declared default.
func inferSpecialization(callee *sema.FunctionDecl, args []sema.Value) ([]sema.ValueType, error) {
	out := make([]sema.ValueType, len(callee.TypeParams))
	for i, tp := range callee.TypeParams {
		resolved := false
		for pi, p := range callee.Params {
			ptp, ok := p.Type.(sema.TypeParameter)
			if !ok || ptp.Name != tp.Name {
				continue
			}
			if pi < len(args) {
				out[i] = args[pi].ValueType()
				resolved = true
			}
			break
		}
		if !resolved && tp.Default != nil {
			out[i] = tp.Default
			resolved = true
		}
		if !resolved {
			return nil, invariant("inferSpecialization", "generic function %q: cannot infer type argument %q", callee.Name, tp.Name)
		}
	}
	return out, nil
}

// specKeyFor builds the cache key for one specialization request.
func specKeyFor(decl *sema.FunctionDecl, args []sema.ValueType) specKey {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = typeKey(a)
	}
	return specKey{decl: decl, args: strings.Join(parts, ",")}
}

// declSnapshot holds every piece of decl's state component G mutates,
// for restoration once the specialized instance has been compiled
// (§4.G steps 1 and 4).
type declSnapshot struct {
	params         []sema.Param
	ret            sema.ValueType
	typeParams     []sema.TypeParameter
	specialization []sema.ValueType
	mangledName    string
	varTypes       map[*sema.VarDecl]sema.ValueType
}

func snapshotDecl(decl *sema.FunctionDecl) *declSnapshot {
	snap := &declSnapshot{
		params:         decl.Params,
		ret:            decl.Return,
		typeParams:     decl.TypeParams,
		specialization: decl.Specialization,
		mangledName:    decl.MangledName(),
		varTypes:       make(map[*sema.VarDecl]sema.ValueType),
	}
	for _, vd := range collectAllVarDecls(decl.Body) {
		snap.varTypes[vd] = vd.Type
	}
	return snap
}

func restoreDecl(decl *sema.FunctionDecl, snap *declSnapshot) {
	decl.Params = snap.params
	decl.Return = snap.ret
	decl.TypeParams = snap.typeParams
	decl.Specialization = snap.specialization
	decl.SetMangledName(snap.mangledName)
	for vd, t := range snap.varTypes {
		vd.Type = t
	}
}

// specialize implements §4.G in full: on a cache miss it snapshots decl,
// substitutes every type-parameter reference in its signature and
// locals, compiles the mutated declaration under its specialized name,
// then restores decl to its original, unspecialized state. The returned
// name is cached so later calls with the same specialization arguments
// reuse the emitted function without recompiling it.
func (g *Generator) specialize(decl *sema.FunctionDecl, args []sema.ValueType) (string, error) {
	key := specKeyFor(decl, args)
	if name, ok := g.specializations[key]; ok {
		g.log.Debug("generic specialization cache hit", "function", decl.Name, "args", key.args)
		return name, nil
	}
	g.log.Debug("generic specialization cache miss", "function", decl.Name, "args", key.args)

	subst := substitutionMap(decl.TypeParams, args)
	snap := snapshotDecl(decl)
	savedFC := g.fc

	newParams := make([]sema.Param, len(decl.Params))
	for i, p := range decl.Params {
		newParams[i] = sema.Param{Name: p.Name, Type: substituteType(p.Type, subst), Default: p.Default}
	}
	decl.Params = newParams
	decl.Return = substituteType(decl.Return, subst)
	for _, vd := range collectAllVarDecls(decl.Body) {
		vd.Type = substituteType(vd.Type, subst)
	}

	ids := make([]int, len(args))
	for i, a := range args {
		ids[i] = g.typeID(a)
	}
	name := mangle.Specialize(decl.Name, ids)
	decl.TypeParams = nil
	decl.Specialization = args
	decl.SetMangledName(name)

	err := g.compileFunction(decl)

	restoreDecl(decl, snap)
	g.fc = savedFC

	if err != nil {
		return "", fmt.Errorf("specializing %q%s: %w", decl.Name, name[len(decl.Name):], err)
	}
	g.specializations[key] = name
	return name, nil
}
