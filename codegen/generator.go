// Package codegen implements the back-end code-generation pipeline of
// §2: components A (Type Lowering) through G (Generics). Compile is the
// driver described in §2 "Control flow": it visits the top-level
// semantics tree, declares all types (component A), then walks each
// function body once, dispatching every value node into component B.
//
// Grounded on wit/bindgen/generator.go's generator/newGenerator/generate
// shape: a single struct carrying every component's caches, constructed
// once per compilation and threaded through every lowering call instead
// of being rebuilt per function.
package codegen

import (
	"log/slog"

	"github.com/ts2wasm/ts2wasm-go/internal/logging"
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

// Options configures a Generator (ambient-stack "Configuration": a
// functional-options struct, grounded on wit/bindgen's options.go).
type Options struct {
	logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the logger Compile uses for cache-hit/miss and
// specialization tracing. The default is a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func (o *Options) apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.DiscardLogger()
	}
}

// Generator holds every component's cache and the single "current
// function context" §5 describes as the pipeline's only shared mutable
// state besides the caches themselves.
type Generator struct {
	opts Options
	prog *sema.Program
	mod  *wasm.Module
	log  *slog.Logger

	// component A: type lowering cache, keyed by typeKey(t) (§4.A
	// "repeated lookups are idempotent").
	types map[string]*typeInfo

	// component A: per-ObjectDesc vtable layout, to avoid recomputing
	// §4.E's index formulas on every member access.
	vtables map[*sema.ObjectDesc]*vtableLayout

	// component A: per-interface itable, flat ordered (name, flag, slot)
	// triples (§3 "Interface").
	itables map[*sema.ObjectDesc]*itable

	// component F: cstring pool backing itable name lookups and any
	// other runtime-visible string constant, idempotent per §5. The pool
	// belongs to this Generator: each compilation starts with an empty one.
	cstrings map[string]int

	// component G: cache of already-specialized function names, keyed by
	// (declaration, specialization type key) so repeat calls with the
	// same type arguments resolve to the same mangled name (§4.G
	// "Subsequent calls ... resolve to the same mangled name").
	specializations map[specKey]string

	// component F: stable per-class integer tag handed to
	// dyntype_new_extref/instanceof when boxing a class instance across
	// the Any boundary.
	classIDs map[*sema.ObjectDesc]int32

	// component G: stable per-type numeric id, keyed by typeKey(t), used
	// to build a specialized generic's "_<type-id>" name suffix (§4.G,
	// §6 "Names").
	typeNumericIDs map[string]int

	// dyntypeCtxCached is not read or set by any lowering: dyntype calls
	// are emitted without a dyntype_context argument, and no global.get
	// of that import is generated.
	dyntypeCtxCached bool

	// fc is the current function context (§5): shared, single-threaded,
	// and restored by component G's snapshot/restore around
	// specialization (§4.G).
	fc *funcContext
}

// specKey identifies one generic specialization request.
type specKey struct {
	decl *sema.FunctionDecl
	args string // typeKey of each specialization argument, joined
}

// NewGenerator constructs a Generator ready to Compile prog.
func NewGenerator(prog *sema.Program, opts ...Option) *Generator {
	g := &Generator{
		prog:             prog,
		mod:              wasm.NewModule(),
		types:            make(map[string]*typeInfo),
		vtables:          make(map[*sema.ObjectDesc]*vtableLayout),
		itables:          make(map[*sema.ObjectDesc]*itable),
		cstrings:         make(map[string]int),
		specializations:  make(map[specKey]string),
		classIDs:         make(map[*sema.ObjectDesc]int32),
		typeNumericIDs:   make(map[string]int),
	}
	g.opts.apply(opts...)
	g.log = g.opts.logger
	return g
}

// Compile is the package's sole entry point: a pure function from a
// semantics tree to a *wasm.Module (§6 "Persisted state: None").
func Compile(prog *sema.Program, opts ...Option) (*wasm.Module, error) {
	g := NewGenerator(prog, opts...)
	return g.compile()
}

func (g *Generator) compile() (*wasm.Module, error) {
	// Component A: declare every type up front, two-phase to handle
	// cyclic references (§9 "Cyclic references in the type graph"):
	// first a stub per named type, then a fill pass.
	for _, c := range g.prog.Classes {
		g.stubObjectType(c)
	}
	for _, i := range g.prog.Interfaces {
		g.stubObjectType(i)
	}
	for _, c := range g.prog.Classes {
		if _, err := g.typeOf(sema.Object{Desc: c}); err != nil {
			return nil, err
		}
	}
	for _, i := range g.prog.Interfaces {
		if _, err := g.typeOf(sema.Object{Desc: i}); err != nil {
			return nil, err
		}
	}

	// Class static-fields globals, allocated once at module
	// initialization; every slot holds its type's zero value.
	for _, c := range g.prog.Classes {
		if err := g.declareStaticFields(c); err != nil {
			return nil, err
		}
	}

	// Walk every function body once (§2 "Control flow").
	for _, fn := range g.prog.AllFunctions() {
		if fn.IsGeneric() {
			// Unspecialized generics are compiled on demand by
			// component G when a call site requests them, not eagerly.
			continue
		}
		if err := g.compileFunction(fn); err != nil {
			return nil, err
		}
	}

	if err := g.emitStart(); err != nil {
		return nil, err
	}
	return g.mod, nil
}

// emitStart synthesizes the exported "_start", which assigns every
// program global that has an Init expression (§6 "Output: Exports"). A
// global initializer that fails to lower aborts compilation with its
// error.
func (g *Generator) emitStart() error {
	fb := wasm.NewFuncBuilder("_start", &wasm.FuncHeapType{Name: "$_start"}, nil)
	for _, glob := range g.prog.Globals {
		if glob.Init == nil {
			continue
		}
		fc := &funcContext{builder: fb, locals: make(map[*sema.VarDecl]string)}
		g.fc = fc
		expr, err := g.lower(glob.Init)
		if err != nil {
			return err
		}
		fb.Emit(wasm.GlobalSet(glob.Name, expr))
	}
	g.mod.AddFunc(fb.Build())
	g.mod.Export("_start", "_start")
	return nil
}
