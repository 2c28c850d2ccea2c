// Package treecodec decodes the JSON-encoded semantics tree cmd/ts2wasm
// reads from stdin/file into a *sema.Program (§6 "Input"). It is not a
// general binding layer: it exists only to give cmd/ts2wasm's thin
// driver something concrete to decode, since sema.Program is this
// compiler's sole input contract and has no parser of its own
// (§1 Non-goals: "Parsing... from source text").
//
// sema's closed-variant ValueType/Value sets are discriminated by a
// "kind" string field; FunctionDecl/VarDecl/ObjectDesc/
// ClosureContextType nodes that other nodes reference by pointer
// (Callee, Owner, Scope, Decl, Desc) are instead referenced by a string
// id local to one decode pass, resolved in a second pass once
// every node has been allocated — the JSON-tree equivalent of the
// teacher's two-phase stub/fill strategy for cyclic type references
// (§9).
package treecodec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ts2wasm/ts2wasm-go/sema"
)

// Decode reads a semantics tree from r and resolves it into a
// *sema.Program.
func Decode(r io.Reader) (*sema.Program, error) {
	var raw rawProgram
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("treecodec: decoding program: %w", err)
	}
	dec := newDecoder()
	return dec.program(raw)
}

type rawProgram struct {
	Classes    []rawObjectDesc `json:"classes"`
	Interfaces []rawObjectDesc `json:"interfaces"`
	// Functions holds every FunctionDecl in the program, top-level and
	// member alike; a member function's rawFuncDecl.Owner id is what
	// distinguishes it. prog.Functions (the top-level export surface) is
	// built from the subset with Owner == "". Methods are not listed a
	// second time under their owning rawObjectDesc: rawMember/rawObjectDesc
	// only carry the id back into this same pool, so every FunctionDecl
	// the tree references resolves out of one place.
	Functions []rawFuncDecl `json:"functions"`
	Globals   []rawVarDecl  `json:"globals"`
	Scopes    []rawScope    `json:"scopes"`
}

// decoder tracks every id-addressable node allocated so far, so forward
// references (a method calling a sibling declared later, a class
// referencing its own Base before the base is fully built) resolve once
// every id has at least a stub allocated. The *Resolving/*Done maps let
// each resolve* method detect "currently being filled by an outer call
// on the stack" (return the stub, which the outer call will finish) versus
// "already filled" (return it directly), the same stub/fill split the
// teacher's own typeOf/stubObjectType pair uses for cyclic class graphs.
type decoder struct {
	objects map[string]*sema.ObjectDesc
	funcs   map[string]*sema.FunctionDecl
	vars    map[string]*sema.VarDecl
	scopes  map[string]*sema.ClosureContextType

	rawObjects map[string]rawObjectDesc
	rawFuncs   map[string]rawFuncDecl
	rawVars    map[string]rawVarDecl
	rawScopes  map[string]rawScope

	objectsResolving map[string]bool
	objectsDone      map[string]bool
	funcsResolving   map[string]bool
	funcsDone        map[string]bool
	varsResolving    map[string]bool
	varsDone         map[string]bool
	scopesResolving  map[string]bool
	scopesDone       map[string]bool
}

func newDecoder() *decoder {
	return &decoder{
		objects:    make(map[string]*sema.ObjectDesc),
		funcs:      make(map[string]*sema.FunctionDecl),
		vars:       make(map[string]*sema.VarDecl),
		scopes:     make(map[string]*sema.ClosureContextType),
		rawObjects: make(map[string]rawObjectDesc),
		rawFuncs:   make(map[string]rawFuncDecl),
		rawVars:    make(map[string]rawVarDecl),
		rawScopes:  make(map[string]rawScope),

		objectsResolving: make(map[string]bool),
		objectsDone:      make(map[string]bool),
		funcsResolving:   make(map[string]bool),
		funcsDone:        make(map[string]bool),
		varsResolving:    make(map[string]bool),
		varsDone:         make(map[string]bool),
		scopesResolving:  make(map[string]bool),
		scopesDone:       make(map[string]bool),
	}
}

func (d *decoder) program(raw rawProgram) (*sema.Program, error) {
	for _, c := range raw.Classes {
		d.rawObjects[c.ID] = c
		d.objects[c.ID] = &sema.ObjectDesc{}
	}
	for _, i := range raw.Interfaces {
		d.rawObjects[i.ID] = i
		d.objects[i.ID] = &sema.ObjectDesc{}
	}
	for _, f := range raw.Functions {
		d.rawFuncs[f.ID] = f
		d.funcs[f.ID] = &sema.FunctionDecl{}
	}
	for _, v := range raw.Globals {
		d.rawVars[v.ID] = v
		d.vars[v.ID] = &sema.VarDecl{}
	}
	for _, s := range raw.Scopes {
		d.rawScopes[s.ID] = s
		d.scopes[s.ID] = &sema.ClosureContextType{}
	}
	for id := range d.objects {
		if _, err := d.resolveObject(id); err != nil {
			return nil, err
		}
	}
	for id := range d.funcs {
		if _, err := d.resolveFunc(id); err != nil {
			return nil, err
		}
	}
	for id := range d.vars {
		if _, err := d.resolveVar(id); err != nil {
			return nil, err
		}
	}
	for id := range d.scopes {
		if _, err := d.resolveScope(id); err != nil {
			return nil, err
		}
	}

	prog := &sema.Program{}
	for _, c := range raw.Classes {
		prog.Classes = append(prog.Classes, d.objects[c.ID])
	}
	for _, i := range raw.Interfaces {
		prog.Interfaces = append(prog.Interfaces, d.objects[i.ID])
	}
	for _, f := range raw.Functions {
		if f.Owner != "" {
			continue // methods surface through their owning ObjectDesc.Members
		}
		prog.Functions = append(prog.Functions, d.funcs[f.ID])
	}
	for _, v := range raw.Globals {
		prog.Globals = append(prog.Globals, d.vars[v.ID])
	}
	return prog, nil
}
