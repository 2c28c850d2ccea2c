package wasm

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
)

// Import is one of the fixed dyntype_*/find_index/struct_*_dyn_*
// imports, or the extref_table import, consumed by codegen (§6 "Output:
// Imports").
type Import struct {
	Module string
	Name   string
	Sig    *FuncHeapType // nil for a non-function import (e.g. the dyntype_context global, extref_table)
	Global WType         // non-nil for a global import
	Table  bool          // true for the extref_table anyref table import
}

// Export names a module-level function as visible per the semantics
// tree's exported flag, or the synthesized "_start" (§6 "Output: Exports").
type Export struct {
	Name string
	Func string // mangled function name
}

// Global is a module-level global, including a class's per-class
// `<class>|static_fields` struct global (§3 "Class static fields").
type Global struct {
	Name    string
	Type    WType
	Mutable bool
	Init    Expr
}

// Func is one defined (non-imported) function, named per §6 "Names":
// `<class>|<member>`, `<class>|constructor`, or a bare top-level name,
// suffixed `_<type-id>` for a generic specialization.
type Func struct {
	Name   string
	Sig    *FuncHeapType
	Locals []Field // Field.Name/Type reused for a local's name/type; Mutable is unused here
	Body   []Expr
}

// Module is the WebAssembly module codegen produces: the "specified
// only by the operations consumed from them" shape of §1's module
// builder collaborator, not a binary encoder.
type Module struct {
	TargetABI semver.Version // minimum host GC + typed-function-references proposal version required

	Imports []Import
	Globals []*Global
	Funcs   []*Func
	Exports []Export

	// StructTypes, ArrayTypes, and SigTypes are every heap type
	// declared so far, keyed by name, populated by component A's cache
	// (§4.A "repeated lookups are idempotent").
	StructTypes map[string]*StructHeapType
	ArrayTypes  map[string]*ArrayHeapType
	SigTypes    map[string]*FuncHeapType
}

// NewModule returns an initialized, empty Module.
func NewModule() *Module {
	return &Module{
		StructTypes: make(map[string]*StructHeapType),
		ArrayTypes:  make(map[string]*ArrayHeapType),
		SigTypes:    make(map[string]*FuncHeapType),
	}
}

// minABI is the lowest GC + typed-function-references proposal version
// this backend's output can target; any later version is backward
// compatible with the instruction set codegen emits.
var minABI = semver.Version{Major: 2, Minor: 0}

// RequireABI records that the module needs at least min (raising
// m.TargetABI if min is newer), or reports an error if min predates the
// GC/typed-function-references floor this backend always relies on.
func (m *Module) RequireABI(min semver.Version) error {
	if min.LessThan(minABI) {
		return fmt.Errorf("wasm: ABI version %s predates the minimum GC + typed-function-references floor %s", min, minABI)
	}
	if m.TargetABI.LessThan(min) {
		m.TargetABI = min
	}
	return nil
}

// AddFunc appends fn to the module's defined functions.
func (m *Module) AddFunc(fn *Func) { m.Funcs = append(m.Funcs, fn) }

// AddGlobal appends g to the module's globals.
func (m *Module) AddGlobal(g *Global) { m.Globals = append(m.Globals, g) }

// AddImport appends imp to the module's imports, unless an import of
// the same Module/Name is already present (import declarations are
// idempotent, mirroring type-cache idempotency in §4.A).
func (m *Module) AddImport(imp Import) {
	for _, existing := range m.Imports {
		if existing.Module == imp.Module && existing.Name == imp.Name {
			return
		}
	}
	m.Imports = append(m.Imports, imp)
}

// Export marks name as an export of the mangled function funcName.
func (m *Module) Export(name, funcName string) {
	m.Exports = append(m.Exports, Export{Name: name, Func: funcName})
}
