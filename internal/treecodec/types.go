package treecodec

import (
	"fmt"

	"github.com/ts2wasm/ts2wasm-go/sema"
)

// rawType is the wire shape of a sema.ValueType, discriminated by Kind.
// ObjectRef/InterfaceRef/ScopeRef carry an id into the decoder's shared
// object/scope pools rather than an inline definition, since those
// nodes are shared by reference throughout the tree.
type rawType struct {
	Kind    string     `json:"kind"`
	Element *rawType   `json:"element,omitempty"`   // Array
	Members []rawType  `json:"members,omitempty"`   // Union
	Func    *rawFunSig `json:"func,omitempty"`       // Function
	Ref     string     `json:"ref,omitempty"`        // Object/Interface/ClosureContext
	Name    string     `json:"name,omitempty"`       // TypeParameter
	Bound   *rawType   `json:"bound,omitempty"`      // TypeParameter
	Index   int        `json:"index,omitempty"`      // TypeParameter
	Default *rawType   `json:"default,omitempty"`    // TypeParameter
}

type rawFunSig struct {
	Params         []rawParam      `json:"params"`
	OptionalMask   []bool          `json:"optionalMask,omitempty"`
	RestIndex      int             `json:"restIndex"`
	EnvParamCount  int             `json:"envParamCount"`
	Return         *rawType        `json:"return,omitempty"`
	TypeParams     []rawType       `json:"typeParams,omitempty"`
	Specialization []rawType       `json:"specialization,omitempty"`
}

type rawParam struct {
	Name    string   `json:"name"`
	Type    rawType  `json:"type"`
	Default *rawValue `json:"default,omitempty"`
}

func (d *decoder) valueType(rt *rawType) (sema.ValueType, error) {
	if rt == nil {
		return nil, nil
	}
	switch rt.Kind {
	case "number":
		return sema.Number{}, nil
	case "int":
		return sema.Int{}, nil
	case "boolean":
		return sema.Boolean{}, nil
	case "string":
		return sema.String{}, nil
	case "null":
		return sema.Null{}, nil
	case "undefined":
		return sema.Undefined{}, nil
	case "void":
		return sema.Void{}, nil
	case "any":
		return sema.Any{}, nil
	case "union":
		members := make([]sema.ValueType, len(rt.Members))
		for i := range rt.Members {
			m, err := d.valueType(&rt.Members[i])
			if err != nil {
				return nil, err
			}
			members[i] = m
		}
		return sema.Union{Members: members}, nil
	case "array":
		elem, err := d.valueType(rt.Element)
		if err != nil {
			return nil, err
		}
		return sema.Array{Element: elem}, nil
	case "function":
		fn, err := d.funcType(rt.Func)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case "object":
		desc, err := d.resolveObject(rt.Ref)
		if err != nil {
			return nil, err
		}
		return sema.Object{Desc: desc}, nil
	case "interface":
		desc, err := d.resolveObject(rt.Ref)
		if err != nil {
			return nil, err
		}
		return sema.Interface{Desc: desc}, nil
	case "closureContext":
		scope, err := d.resolveScope(rt.Ref)
		if err != nil {
			return nil, err
		}
		return sema.ClosureContext{Decl: scope}, nil
	case "typeParameter":
		bound, err := d.valueType(rt.Bound)
		if err != nil {
			return nil, err
		}
		def, err := d.valueType(rt.Default)
		if err != nil {
			return nil, err
		}
		return sema.TypeParameter{Name: rt.Name, Bound: bound, Index: rt.Index, Default: def}, nil
	default:
		return nil, fmt.Errorf("treecodec: unknown type kind %q", rt.Kind)
	}
}

func (d *decoder) funcType(f *rawFunSig) (sema.Function, error) {
	if f == nil {
		return sema.Function{}, nil
	}
	params, err := d.params(f.Params)
	if err != nil {
		return sema.Function{}, err
	}
	ret, err := d.valueType(f.Return)
	if err != nil {
		return sema.Function{}, err
	}
	tps, err := d.typeParams(f.TypeParams)
	if err != nil {
		return sema.Function{}, err
	}
	spec, err := d.typeList(f.Specialization)
	if err != nil {
		return sema.Function{}, err
	}
	return sema.Function{
		Params:         params,
		OptionalMask:   f.OptionalMask,
		RestIndex:      f.RestIndex,
		EnvParamCount:  f.EnvParamCount,
		Return:         ret,
		TypeParams:     tps,
		Specialization: spec,
	}, nil
}

func (d *decoder) params(raw []rawParam) ([]sema.Param, error) {
	out := make([]sema.Param, len(raw))
	for i, p := range raw {
		t, err := d.valueType(&p.Type)
		if err != nil {
			return nil, err
		}
		var def sema.Value
		if p.Default != nil {
			def, err = d.value(p.Default)
			if err != nil {
				return nil, err
			}
		}
		out[i] = sema.Param{Name: p.Name, Type: t, Default: def}
	}
	return out, nil
}

func (d *decoder) typeParams(raw []rawType) ([]sema.TypeParameter, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]sema.TypeParameter, len(raw))
	for i := range raw {
		t, err := d.valueType(&raw[i])
		if err != nil {
			return nil, err
		}
		tp, ok := t.(sema.TypeParameter)
		if !ok {
			return nil, fmt.Errorf("treecodec: typeParams[%d] is not a typeParameter", i)
		}
		out[i] = tp
	}
	return out, nil
}

func (d *decoder) typeList(raw []rawType) ([]sema.ValueType, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]sema.ValueType, len(raw))
	for i := range raw {
		t, err := d.valueType(&raw[i])
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

