package treecodec

import (
	"fmt"

	"github.com/ts2wasm/ts2wasm-go/sema"
)

type rawObjectDesc struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Members     []rawMember  `json:"members"`
	Base        string       `json:"base,omitempty"` // id of the base ObjectDesc, or ""
	Ctor        string       `json:"ctor,omitempty"`  // id into the function pool, or ""
	IsInterface bool         `json:"isInterface"`
}

type rawMember struct {
	Kind      string `json:"kind"` // "field" | "method" | "accessor"
	Name      string `json:"name"`
	Type      rawType `json:"type"`
	Static    bool   `json:"static"`
	Own       bool   `json:"own"`
	Getter    string `json:"getter,omitempty"` // id into the function pool
	Setter    string `json:"setter,omitempty"`
	HasGetter bool   `json:"hasGetter"`
	HasSetter bool   `json:"hasSetter"`
}

type rawFuncDecl struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Params        []rawParam `json:"params"`
	OptionalMask  []bool    `json:"optionalMask,omitempty"`
	RestIndex     int       `json:"restIndex"`
	EnvParamCount int       `json:"envParamCount"`
	Return        *rawType  `json:"return,omitempty"`
	TypeParams    []rawType `json:"typeParams,omitempty"`
	Body          []rawValue `json:"body"`
	Exported      bool      `json:"exported"`
	Owner         string    `json:"owner,omitempty"` // id of the owning ObjectDesc, or ""
	Scope         string    `json:"scope,omitempty"` // id of the ClosureContextType, or ""
}

type rawVarDecl struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     rawType   `json:"type"`
	Init     *rawValue `json:"init,omitempty"`
	Global   bool      `json:"global"`
	Captured bool      `json:"captured"`
}

type rawScope struct {
	ID       string       `json:"id"`
	Parent   string       `json:"parent,omitempty"`
	FreeVars []rawFreeVar `json:"freeVars"`
}

type rawFreeVar struct {
	Name string `json:"name"`
	Type rawType `json:"type"`
	Decl string `json:"decl"` // id into the var pool
}

func (d *decoder) resolveObject(id string) (*sema.ObjectDesc, error) {
	if id == "" {
		return nil, nil
	}
	desc, ok := d.objects[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown object id %q", id)
	}
	if d.objectsResolving[id] {
		return desc, nil // cycle: caller gets the stub, filled by the outer call
	}
	if d.objectsDone[id] {
		return desc, nil
	}
	raw, ok := d.rawObjects[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown object id %q", id)
	}
	d.objectsResolving[id] = true

	base, err := d.resolveObject(raw.Base)
	if err != nil {
		return nil, err
	}
	members := make([]sema.Member, len(raw.Members))
	for i, rm := range raw.Members {
		m, err := d.member(rm)
		if err != nil {
			return nil, err
		}
		members[i] = m
	}
	var ctor *sema.FunctionDecl
	if raw.Ctor != "" {
		ctor, err = d.resolveFunc(raw.Ctor)
		if err != nil {
			return nil, err
		}
	}

	desc.Name = raw.Name
	desc.Members = members
	desc.Base = base
	desc.Ctor = ctor
	desc.IsInterface = raw.IsInterface

	delete(d.objectsResolving, id)
	d.objectsDone[id] = true
	return desc, nil
}

func (d *decoder) member(rm rawMember) (sema.Member, error) {
	t, err := d.valueType(&rm.Type)
	if err != nil {
		return sema.Member{}, err
	}
	var kind sema.MemberKind
	switch rm.Kind {
	case "field":
		kind = sema.FIELD
	case "method":
		kind = sema.METHOD
	case "accessor":
		kind = sema.ACCESSOR
	default:
		return sema.Member{}, fmt.Errorf("treecodec: unknown member kind %q", rm.Kind)
	}
	var getter, setter *sema.FunctionDecl
	var err2 error
	if rm.Getter != "" {
		getter, err2 = d.resolveFunc(rm.Getter)
		if err2 != nil {
			return sema.Member{}, err2
		}
	}
	if rm.Setter != "" {
		setter, err2 = d.resolveFunc(rm.Setter)
		if err2 != nil {
			return sema.Member{}, err2
		}
	}
	return sema.Member{
		Kind:      kind,
		Name:      rm.Name,
		Type:      t,
		Static:    rm.Static,
		Own:       rm.Own,
		Getter:    getter,
		Setter:    setter,
		HasGetter: rm.HasGetter,
		HasSetter: rm.HasSetter,
	}, nil
}

func (d *decoder) resolveFunc(id string) (*sema.FunctionDecl, error) {
	if id == "" {
		return nil, nil
	}
	fn, ok := d.funcs[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown function id %q", id)
	}
	if d.funcsResolving[id] || d.funcsDone[id] {
		return fn, nil
	}
	raw, ok := d.rawFuncs[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown function id %q", id)
	}
	d.funcsResolving[id] = true

	params, err := d.params(raw.Params)
	if err != nil {
		return nil, err
	}
	ret, err := d.valueType(raw.Return)
	if err != nil {
		return nil, err
	}
	tps, err := d.typeParams(raw.TypeParams)
	if err != nil {
		return nil, err
	}
	owner, err := d.resolveObject(raw.Owner)
	if err != nil {
		return nil, err
	}
	scope, err := d.resolveScope(raw.Scope)
	if err != nil {
		return nil, err
	}
	body, err := d.values(raw.Body)
	if err != nil {
		return nil, err
	}

	fn.Name = raw.Name
	fn.Params = params
	fn.OptionalMask = raw.OptionalMask
	fn.RestIndex = raw.RestIndex
	fn.EnvParamCount = raw.EnvParamCount
	fn.Return = ret
	fn.TypeParams = tps
	fn.Body = body
	fn.Exported = raw.Exported
	fn.Owner = owner
	fn.Scope = scope

	delete(d.funcsResolving, id)
	d.funcsDone[id] = true
	return fn, nil
}

func (d *decoder) resolveVar(id string) (*sema.VarDecl, error) {
	if id == "" {
		return nil, nil
	}
	vd, ok := d.vars[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown var id %q", id)
	}
	if d.varsResolving[id] || d.varsDone[id] {
		return vd, nil
	}
	raw, ok := d.rawVars[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown var id %q", id)
	}
	d.varsResolving[id] = true

	t, err := d.valueType(&raw.Type)
	if err != nil {
		return nil, err
	}
	var init sema.Value
	if raw.Init != nil {
		init, err = d.value(raw.Init)
		if err != nil {
			return nil, err
		}
	}

	vd.Name = raw.Name
	vd.Type = t
	vd.Init = init
	vd.Global = raw.Global
	vd.Captured = raw.Captured

	delete(d.varsResolving, id)
	d.varsDone[id] = true
	return vd, nil
}

func (d *decoder) resolveScope(id string) (*sema.ClosureContextType, error) {
	if id == "" {
		return nil, nil
	}
	ctx, ok := d.scopes[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown scope id %q", id)
	}
	if d.scopesResolving[id] || d.scopesDone[id] {
		return ctx, nil
	}
	raw, ok := d.rawScopes[id]
	if !ok {
		return nil, fmt.Errorf("treecodec: unknown scope id %q", id)
	}
	d.scopesResolving[id] = true

	parent, err := d.resolveScope(raw.Parent)
	if err != nil {
		return nil, err
	}
	freeVars := make([]sema.FreeVar, len(raw.FreeVars))
	for i, fv := range raw.FreeVars {
		t, err := d.valueType(&fv.Type)
		if err != nil {
			return nil, err
		}
		decl, err := d.resolveVar(fv.Decl)
		if err != nil {
			return nil, err
		}
		freeVars[i] = sema.FreeVar{Name: fv.Name, Type: t, Decl: decl}
	}
	ctx.Parent = parent
	ctx.FreeVars = freeVars

	delete(d.scopesResolving, id)
	d.scopesDone[id] = true
	return ctx, nil
}
