package sema

// Program is the root of a semantics tree (§6 "Input"): a rooted,
// cycle-free structure of already-resolved declarations. It is the
// sole argument to codegen.Compile.
type Program struct {
	Functions  []*FunctionDecl
	Classes    []*ObjectDesc
	Interfaces []*ObjectDesc
	Globals    []*VarDecl
}

// AllFunctions returns every function declaration in the program: its
// top-level functions plus every class's own methods, accessors, and
// constructor. The driver (§2 "Control flow") walks this once per
// compilation.
func (p *Program) AllFunctions() []*FunctionDecl {
	var out []*FunctionDecl
	out = append(out, p.Functions...)
	for _, c := range p.Classes {
		out = append(out, c.OwnFunctions()...)
	}
	return out
}

// OwnFunctions returns d's own constructor plus every own METHOD and
// ACCESSOR member's getter/setter function.
func (d *ObjectDesc) OwnFunctions() []*FunctionDecl {
	var out []*FunctionDecl
	if d.Ctor != nil {
		out = append(out, d.Ctor)
	}
	for _, m := range d.Members {
		if !m.Own {
			continue
		}
		switch m.Kind {
		case METHOD:
			if m.Getter != nil {
				out = append(out, m.Getter)
			}
		case ACCESSOR:
			if m.HasGetter && m.Getter != nil {
				out = append(out, m.Getter)
			}
			if m.HasSetter && m.Setter != nil {
				out = append(out, m.Setter)
			}
		}
	}
	return out
}
