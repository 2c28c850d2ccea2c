package codegen

import "github.com/ts2wasm/ts2wasm-go/sema"

// walkValue calls visit on v and recurses into every child value node.
// It is the single place that knows the shape of every sema.Value
// variant, used by collectLocalDecls to find every VarDecl a function
// body references before any of it is lowered.
func walkValue(v sema.Value, visit func(sema.Value)) {
	if v == nil {
		return
	}
	visit(v)
	switch n := v.(type) {
	case sema.VarWrite:
		walkValue(n.RHS, visit)
	case sema.Binary:
		walkValue(n.Left, visit)
		walkValue(n.Right, visit)
	case sema.Unary:
		walkValue(n.Operand, visit)
	case sema.CompoundAssign:
		walkValue(n.Target, visit)
		walkValue(n.RHS, visit)
	case sema.Conditional:
		walkValue(n.Cond, visit)
		walkValue(n.Then, visit)
		walkValue(n.Else, visit)
	case sema.CallDirect:
		walkValues(n.Args, visit)
	case sema.CallClosure:
		walkValue(n.Callee, visit)
		walkValues(n.Args, visit)
	case sema.CallMethod:
		walkValue(n.Receiver, visit)
		walkValues(n.Args, visit)
	case sema.CallStatic:
		walkValues(n.Args, visit)
	case sema.CallInterface:
		walkValue(n.Receiver, visit)
		walkValues(n.Args, visit)
	case sema.CallDynamic:
		walkValue(n.Receiver, visit)
		walkValues(n.Args, visit)
	case sema.CallAny:
		walkValue(n.Callee, visit)
		walkValues(n.Args, visit)
	case sema.Typeof:
		walkValue(n.Operand, visit)
	case sema.ToStringExpr:
		walkValue(n.Operand, visit)
	case sema.Cast:
		walkValue(n.Operand, visit)
	case sema.New:
		walkValues(n.Args, visit)
	case sema.NewArray:
		walkValue(n.Length, visit)
	case sema.ArrayLiteral:
		walkValues(n.Elements, visit)
	case sema.ObjectLiteral:
		for _, fi := range n.Fields {
			walkValue(fi.Init, visit)
		}
	case sema.ElementGet:
		walkValue(n.Target, visit)
		walkValue(n.Index, visit)
	case sema.ElementSet:
		walkValue(n.Target, visit)
		walkValue(n.Index, visit)
		walkValue(n.RHS, visit)
	case sema.FieldGet:
		walkValue(n.Target, visit)
	case sema.FieldSet:
		walkValue(n.Target, visit)
		walkValue(n.RHS, visit)
	case sema.Block:
		walkValues(n.Body, visit)
	case sema.BranchIf:
		walkValue(n.Cond, visit)
	}
}

func walkValues(vs []sema.Value, visit func(sema.Value)) {
	for _, v := range vs {
		walkValue(v, visit)
	}
}

// collectLocalDecls returns, in first-occurrence order, every VarDecl
// body references that needs a wasm local of its own: neither a global
// (global.get/set) nor captured (lives in a closure-context slot
// instead, §4.D).
func collectLocalDecls(body []sema.Value) []*sema.VarDecl {
	var order []*sema.VarDecl
	seen := make(map[*sema.VarDecl]bool)
	add := func(d *sema.VarDecl) {
		if d == nil || d.Global || d.Captured || seen[d] {
			return
		}
		seen[d] = true
		order = append(order, d)
	}
	walkValues(body, func(v sema.Value) {
		switch n := v.(type) {
		case sema.VarRead:
			add(n.Decl)
		case sema.VarWrite:
			add(n.Decl)
		}
	})
	return order
}

// collectAllVarDecls returns, in first-occurrence order, every VarDecl
// body references regardless of Global/Captured status — the superset
// component G substitutes type parameters across when specializing a
// generic declaration (§4.G).
func collectAllVarDecls(body []sema.Value) []*sema.VarDecl {
	var order []*sema.VarDecl
	seen := make(map[*sema.VarDecl]bool)
	add := func(d *sema.VarDecl) {
		if d == nil || seen[d] {
			return
		}
		seen[d] = true
		order = append(order, d)
	}
	walkValues(body, func(v sema.Value) {
		switch n := v.(type) {
		case sema.VarRead:
			add(n.Decl)
		case sema.VarWrite:
			add(n.Decl)
		}
	})
	return order
}
