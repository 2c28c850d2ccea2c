// Package gen provides small, generic name-scoping and module-path
// helpers. Its name scoping backs wasm.FuncBuilder's local-variable
// allocation; codegen's name mangling (§6 "Names") does not use it.
package gen

// UniqueName tests name against filters and appends "_" until none match.
// Used to avoid collisions between user-declared local names and the
// synthetic temporaries codegen's insert_tmp_var (§5) introduces into
// the current function context.
func UniqueName(name string, filters ...func(string) bool) string {
	matches := func(name string) bool {
		for _, f := range filters {
			if f(name) {
				return true
			}
		}
		return false
	}
	for matches(name) {
		name += "_"
	}
	return name
}

// HasKey returns a predicate for map m that reports whether m contains k.
func HasKey[M ~map[K]V, K comparable, V any](m M) func(k K) bool {
	return func(k K) bool {
		_, ok := m[k]
		return ok
	}
}

// Scope represents a name scope: a function body, a closure-context
// free-variable list, or the module-global mangled-name namespace.
type Scope interface {
	// HasName reports whether this scope or any parent scope contains name.
	HasName(name string) bool

	// UniqueName declares name (mangled with a trailing "_" suffix as
	// needed to avoid a collision) within this scope and returns it.
	UniqueName(name string) string
}

type scope struct {
	parent Scope
	names  map[string]bool
}

// NewScope returns a [Scope] whose parent is parent (or [Reserved] if nil).
func NewScope(parent Scope) Scope {
	if parent == nil {
		parent = Reserved()
	}
	return &scope{parent: parent, names: make(map[string]bool)}
}

func (s *scope) HasName(name string) bool {
	return s.names[name] || s.parent.HasName(name)
}

func (s *scope) UniqueName(name string) string {
	name = UniqueName(name, s.HasName)
	s.names[name] = true
	return name
}

type reservedScope struct{}

// Reserved returns the preset [Scope] of names that cannot be used as
// local variable or mangled function names because they are reserved for
// synthesized compiler locals and dyntype import names (§6).
func Reserved() Scope {
	return reservedScope{}
}

func (reservedScope) HasName(name string) bool { return IsReserved(name) }

func (reservedScope) UniqueName(string) string {
	panic("cannot add a name to reserved scope")
}

// IsReserved reports whether name collides with a compiler-synthesized
// local (the closure-context parameter, the "this" parameter, or a
// temporary inserted by insert_tmp_var) or a dyntype import name.
func IsReserved(name string) bool {
	return reserved[name]
}

var reserved = mapWords(
	"@context",
	"@this",
	"@tmp",
	"dyntype_context",
)

func mapWords(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, word := range words {
		m[word] = true
	}
	return m
}
