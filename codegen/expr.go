// lower is the total Expression Lowering dispatch of component B
// (§4.B): a type switch over every sema.Value variant, routing to the
// per-kind helper defined across literals.go, vars.go, operators.go,
// objects.go, closures.go, calls.go, and any.go. A concrete Value
// variant with no case here is not caught by the compiler: it reaches
// the default branch and is reported at run time as InvariantViolated.
package codegen

import (
	"github.com/ts2wasm/ts2wasm-go/sema"
	"github.com/ts2wasm/ts2wasm-go/wasm"
)

func (g *Generator) lower(v sema.Value) (wasm.Expr, error) {
	switch n := v.(type) {
	case sema.NumberLit, sema.IntLit, sema.BoolLit, sema.StringLit, sema.NullLit, sema.UndefinedLit:
		return g.lowerLiteral(v)
	case sema.VarRead:
		return g.lowerVarRead(n)
	case sema.VarWrite:
		return g.lowerVarWrite(n)
	case sema.Binary:
		return g.lowerBinary(n)
	case sema.Unary:
		return g.lowerUnary(n)
	case sema.CompoundAssign:
		return g.lowerCompoundAssign(n)
	case sema.Conditional:
		return g.lowerConditional(n)
	case sema.ClosureLit:
		return g.lowerClosureLit(n)
	case sema.CallDirect:
		return g.lowerCallDirect(n)
	case sema.CallClosure:
		return g.lowerCallClosure(n)
	case sema.CallMethod:
		return g.lowerCallMethod(n)
	case sema.CallStatic:
		return g.lowerCallStatic(n)
	case sema.CallInterface:
		return g.lowerCallInterface(n)
	case sema.CallDynamic:
		return g.lowerCallDynamic(n)
	case sema.CallAny:
		return g.lowerCallAny(n)
	case sema.Typeof:
		return g.lowerTypeof(n)
	case sema.ToStringExpr:
		return g.lowerToStringExpr(n)
	case sema.Cast:
		return g.lowerCast(n)
	case sema.New:
		return g.lowerNew(n)
	case sema.NewArray:
		return g.lowerNewArray(n)
	case sema.ArrayLiteral:
		return g.lowerArrayLiteral(n)
	case sema.ObjectLiteral:
		return g.lowerObjectLiteral(n)
	case sema.ElementGet:
		return g.lowerElementGet(n)
	case sema.ElementSet:
		return g.lowerElementSet(n)
	case sema.FieldGet:
		return g.lowerFieldGet(n)
	case sema.FieldSet:
		return g.lowerFieldSet(n)
	case sema.Block:
		return g.lowerBlock(n)
	case sema.Branch:
		return g.lowerBranch(n)
	case sema.BranchIf:
		return g.lowerBranchIf(n)
	default:
		return wasm.Expr{}, invariant("lower", "unhandled value kind %T", v)
	}
}

// lowerConditional implements §4.B "Conditional": both branches are
// evaluated eagerly and selected between with wasm `select`, matching
// the teacher's single Expr-tree shape (no block-local control flow) and
// requiring, per §4.B, that Then and Else already share a static type.
func (g *Generator) lowerConditional(c sema.Conditional) (wasm.Expr, error) {
	cond, err := g.lower(c.Cond)
	if err != nil {
		return wasm.Expr{}, err
	}
	condBool, err := g.truthy(c.Cond.ValueType(), cond)
	if err != nil {
		return wasm.Expr{}, err
	}
	thenV, err := g.lower(c.Then)
	if err != nil {
		return wasm.Expr{}, err
	}
	elseV, err := g.lower(c.Else)
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.SelectExpr(condBool, thenV, elseV), nil
}

// lowerBlock/lowerBranch/lowerBranchIf implement §4.B's structured
// control-flow forms directly as their wasm counterparts.
func (g *Generator) lowerBlock(b sema.Block) (wasm.Expr, error) {
	body := make([]wasm.Expr, len(b.Body))
	for i, stmt := range b.Body {
		e, err := g.lower(stmt)
		if err != nil {
			return wasm.Expr{}, err
		}
		body[i] = e
	}
	var resultType wasm.WType
	if len(body) > 0 {
		resultType = body[len(body)-1].Type
	}
	return wasm.BlockExpr(b.Label, resultType, body...), nil
}

func (g *Generator) lowerBranch(b sema.Branch) (wasm.Expr, error) {
	return wasm.BrExpr(b.Label), nil
}

func (g *Generator) lowerBranchIf(b sema.BranchIf) (wasm.Expr, error) {
	cond, err := g.lower(b.Cond)
	if err != nil {
		return wasm.Expr{}, err
	}
	condBool, err := g.truthy(b.Cond.ValueType(), cond)
	if err != nil {
		return wasm.Expr{}, err
	}
	return wasm.BrIfExpr(b.Label, condBool), nil
}
