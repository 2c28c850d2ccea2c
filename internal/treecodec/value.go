package treecodec

import (
	"fmt"

	"github.com/ts2wasm/ts2wasm-go/sema"
)

// rawValue is the wire shape of a sema.Value, discriminated by Kind. Not
// every field applies to every kind; see the switch in (d *decoder).value
// for which fields a given kind reads.
type rawValue struct {
	Kind string `json:"kind"`

	Type *rawType `json:"type,omitempty"` // static type of this node (Value.ValueType())

	// Literal
	Number float64 `json:"number,omitempty"`
	Int    uint32  `json:"int,omitempty"`
	Bool   bool    `json:"bool,omitempty"`
	Raw    bool    `json:"raw,omitempty"`
	Units  []rune  `json:"units,omitempty"`

	// VarRead / VarWrite
	Decl string `json:"decl,omitempty"` // id into the var pool

	// Binary / CompoundAssign
	Op string `json:"op,omitempty"`

	// Unary
	Postfix bool `json:"postfix,omitempty"`

	// Operand-ish single-child fields, named per kind for readability
	Left     *rawValue `json:"left,omitempty"`
	Right    *rawValue `json:"right,omitempty"`
	Operand  *rawValue `json:"operand,omitempty"`
	Target   *rawValue `json:"target,omitempty"`
	RHS      *rawValue `json:"rhs,omitempty"`
	Cond     *rawValue `json:"cond,omitempty"`
	Then     *rawValue `json:"then,omitempty"`
	Else     *rawValue `json:"else,omitempty"`
	Receiver *rawValue `json:"receiver,omitempty"`
	Callee   *rawValue `json:"callee,omitempty"`
	Index    *rawValue `json:"index,omitempty"`
	Length   *rawValue `json:"length,omitempty"`

	// Calls
	CalleeDecl string     `json:"calleeDecl,omitempty"` // id into the function pool, for CallDirect
	Super      bool       `json:"super,omitempty"`
	Args       []rawValue `json:"args,omitempty"`
	Holder     string     `json:"holder,omitempty"`
	Member     string     `json:"member,omitempty"`

	// ClosureLit
	FuncDecl string `json:"funcDecl,omitempty"` // id into the function pool

	// Cast
	From *rawType `json:"from,omitempty"`
	To   *rawType `json:"to,omitempty"`

	// New / ObjectLiteral
	Desc   string         `json:"desc,omitempty"` // id into the object pool
	Fields []rawFieldInit `json:"fields,omitempty"`

	// NewArray / ArrayLiteral
	Element  *rawType   `json:"element,omitempty"`
	Elements []rawValue `json:"elements,omitempty"`

	// FieldGet / FieldSet use Target/Member above.

	// Block / Branch / BranchIf
	Label string     `json:"label,omitempty"`
	Body  []rawValue `json:"body,omitempty"`
}

type rawFieldInit struct {
	Name string   `json:"name"`
	Init rawValue `json:"init"`
}

var binaryOps = map[string]sema.BinaryOp{
	"add": sema.Add, "sub": sema.Sub, "mul": sema.Mul, "div": sema.Div, "mod": sema.Mod,
	"shl": sema.Shl, "bitAnd": sema.BitAnd, "bitOr": sema.BitOr, "bitXor": sema.BitXor,
	"logAnd": sema.LogAnd, "logOr": sema.LogOr,
	"lt": sema.Lt, "lte": sema.Lte, "gt": sema.Gt, "gte": sema.Gte,
	"eq": sema.Eq, "strictEq": sema.StrictEq, "notEq": sema.NotEq, "strictNotEq": sema.StrictNotEq,
}

var unaryOps = map[string]sema.UnaryOp{
	"not": sema.Not, "neg": sema.Neg, "inc": sema.Inc, "dec": sema.Dec,
}

func (d *decoder) binaryOp(s string) (sema.BinaryOp, error) {
	op, ok := binaryOps[s]
	if !ok {
		return 0, fmt.Errorf("treecodec: unknown binary op %q", s)
	}
	return op, nil
}

func (d *decoder) unaryOp(s string) (sema.UnaryOp, error) {
	op, ok := unaryOps[s]
	if !ok {
		return 0, fmt.Errorf("treecodec: unknown unary op %q", s)
	}
	return op, nil
}

// values decodes each element of raw in order; it is a thin wrapper
// around value for the common case of a function body or argument list.
func (d *decoder) values(raw []rawValue) ([]sema.Value, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]sema.Value, len(raw))
	for i := range raw {
		v, err := d.value(&raw[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// value decodes one Value node. Every case builds its concrete type as
// an addressable local so it can stamp the node's resolved static type
// via SetType before boxing it into the sema.Value interface: sema.Value
// has no exported constructors, and Value's embedded type field can only
// be set through that promoted method (see sema/value.go).
func (d *decoder) value(rv *rawValue) (sema.Value, error) {
	typ, err := d.valueType(rv.Type)
	if err != nil {
		return nil, err
	}

	switch rv.Kind {
	case "numberLit":
		n := sema.NumberLit{V: rv.Number}
		n.SetType(typ)
		return n, nil
	case "intLit":
		n := sema.IntLit{V: rv.Int}
		n.SetType(typ)
		return n, nil
	case "boolLit":
		n := sema.BoolLit{V: rv.Bool}
		n.SetType(typ)
		return n, nil
	case "stringLit":
		n := sema.StringLit{Raw: rv.Raw, Units: rv.Units}
		n.SetType(typ)
		return n, nil
	case "nullLit":
		n := sema.NullLit{}
		n.SetType(typ)
		return n, nil
	case "undefinedLit":
		n := sema.UndefinedLit{}
		n.SetType(typ)
		return n, nil
	case "varRead":
		decl, err := d.resolveVar(rv.Decl)
		if err != nil {
			return nil, err
		}
		n := sema.VarRead{Decl: decl}
		n.SetType(typ)
		return n, nil
	case "varWrite":
		decl, err := d.resolveVar(rv.Decl)
		if err != nil {
			return nil, err
		}
		rhs, err := d.value(rv.RHS)
		if err != nil {
			return nil, err
		}
		n := sema.VarWrite{Decl: decl, RHS: rhs}
		n.SetType(typ)
		return n, nil
	case "binary":
		op, err := d.binaryOp(rv.Op)
		if err != nil {
			return nil, err
		}
		left, err := d.value(rv.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.value(rv.Right)
		if err != nil {
			return nil, err
		}
		n := sema.Binary{Op: op, Left: left, Right: right}
		n.SetType(typ)
		return n, nil
	case "unary":
		op, err := d.unaryOp(rv.Op)
		if err != nil {
			return nil, err
		}
		operand, err := d.value(rv.Operand)
		if err != nil {
			return nil, err
		}
		n := sema.Unary{Op: op, Operand: operand, Postfix: rv.Postfix}
		n.SetType(typ)
		return n, nil
	case "compoundAssign":
		op, err := d.binaryOp(rv.Op)
		if err != nil {
			return nil, err
		}
		target, err := d.value(rv.Target)
		if err != nil {
			return nil, err
		}
		rhs, err := d.value(rv.RHS)
		if err != nil {
			return nil, err
		}
		n := sema.CompoundAssign{Op: op, Target: target, RHS: rhs}
		n.SetType(typ)
		return n, nil
	case "conditional":
		cond, err := d.value(rv.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.value(rv.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.value(rv.Else)
		if err != nil {
			return nil, err
		}
		n := sema.Conditional{Cond: cond, Then: then, Else: els}
		n.SetType(typ)
		return n, nil
	case "callDirect":
		callee, err := d.resolveFunc(rv.CalleeDecl)
		if err != nil {
			return nil, err
		}
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.CallDirect{Callee: callee, Args: args, Super: rv.Super}
		n.SetType(typ)
		return n, nil
	case "closureLit":
		decl, err := d.resolveFunc(rv.FuncDecl)
		if err != nil {
			return nil, err
		}
		n := sema.ClosureLit{Decl: decl}
		n.SetType(typ)
		return n, nil
	case "callClosure":
		callee, err := d.value(rv.Callee)
		if err != nil {
			return nil, err
		}
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.CallClosure{Callee: callee, Args: args}
		n.SetType(typ)
		return n, nil
	case "callMethod":
		recv, err := d.value(rv.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.CallMethod{Receiver: recv, Member: rv.Member, Args: args}
		n.SetType(typ)
		return n, nil
	case "callStatic":
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.CallStatic{Holder: rv.Holder, Member: rv.Member, Args: args}
		n.SetType(typ)
		return n, nil
	case "callInterface":
		recv, err := d.value(rv.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.CallInterface{Receiver: recv, Member: rv.Member, Args: args}
		n.SetType(typ)
		return n, nil
	case "callDynamic":
		recv, err := d.value(rv.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.CallDynamic{Receiver: recv, Member: rv.Member, Args: args}
		n.SetType(typ)
		return n, nil
	case "callAny":
		callee, err := d.value(rv.Callee)
		if err != nil {
			return nil, err
		}
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.CallAny{Callee: callee, Args: args}
		n.SetType(typ)
		return n, nil
	case "typeof":
		operand, err := d.value(rv.Operand)
		if err != nil {
			return nil, err
		}
		n := sema.Typeof{Operand: operand}
		n.SetType(typ)
		return n, nil
	case "toString":
		operand, err := d.value(rv.Operand)
		if err != nil {
			return nil, err
		}
		n := sema.ToStringExpr{Operand: operand}
		n.SetType(typ)
		return n, nil
	case "cast":
		operand, err := d.value(rv.Operand)
		if err != nil {
			return nil, err
		}
		from, err := d.valueType(rv.From)
		if err != nil {
			return nil, err
		}
		to, err := d.valueType(rv.To)
		if err != nil {
			return nil, err
		}
		n := sema.Cast{Operand: operand, From: from, To: to}
		n.SetType(typ)
		return n, nil
	case "new":
		desc, err := d.resolveObject(rv.Desc)
		if err != nil {
			return nil, err
		}
		args, err := d.values(rv.Args)
		if err != nil {
			return nil, err
		}
		n := sema.New{Desc: desc, Args: args}
		n.SetType(typ)
		return n, nil
	case "newArray":
		elem, err := d.valueType(rv.Element)
		if err != nil {
			return nil, err
		}
		length, err := d.value(rv.Length)
		if err != nil {
			return nil, err
		}
		n := sema.NewArray{Element: elem, Length: length}
		n.SetType(typ)
		return n, nil
	case "arrayLiteral":
		elem, err := d.valueType(rv.Element)
		if err != nil {
			return nil, err
		}
		elems, err := d.values(rv.Elements)
		if err != nil {
			return nil, err
		}
		n := sema.ArrayLiteral{Element: elem, Elements: elems}
		n.SetType(typ)
		return n, nil
	case "objectLiteral":
		desc, err := d.resolveObject(rv.Desc)
		if err != nil {
			return nil, err
		}
		fields := make([]sema.FieldInit, len(rv.Fields))
		for i, rf := range rv.Fields {
			init, err := d.value(&rf.Init)
			if err != nil {
				return nil, err
			}
			fields[i] = sema.FieldInit{Name: rf.Name, Init: init}
		}
		n := sema.ObjectLiteral{Desc: desc, Fields: fields}
		n.SetType(typ)
		return n, nil
	case "elementGet":
		target, err := d.value(rv.Target)
		if err != nil {
			return nil, err
		}
		index, err := d.value(rv.Index)
		if err != nil {
			return nil, err
		}
		n := sema.ElementGet{Target: target, Index: index}
		n.SetType(typ)
		return n, nil
	case "elementSet":
		target, err := d.value(rv.Target)
		if err != nil {
			return nil, err
		}
		index, err := d.value(rv.Index)
		if err != nil {
			return nil, err
		}
		rhs, err := d.value(rv.RHS)
		if err != nil {
			return nil, err
		}
		n := sema.ElementSet{Target: target, Index: index, RHS: rhs}
		n.SetType(typ)
		return n, nil
	case "fieldGet":
		target, err := d.value(rv.Target)
		if err != nil {
			return nil, err
		}
		n := sema.FieldGet{Target: target, Member: rv.Member}
		n.SetType(typ)
		return n, nil
	case "fieldSet":
		target, err := d.value(rv.Target)
		if err != nil {
			return nil, err
		}
		rhs, err := d.value(rv.RHS)
		if err != nil {
			return nil, err
		}
		n := sema.FieldSet{Target: target, Member: rv.Member, RHS: rhs}
		n.SetType(typ)
		return n, nil
	case "block":
		body, err := d.values(rv.Body)
		if err != nil {
			return nil, err
		}
		n := sema.Block{Label: rv.Label, Body: body}
		n.SetType(typ)
		return n, nil
	case "branch":
		n := sema.Branch{Label: rv.Label}
		n.SetType(typ)
		return n, nil
	case "branchIf":
		cond, err := d.value(rv.Cond)
		if err != nil {
			return nil, err
		}
		n := sema.BranchIf{Label: rv.Label, Cond: cond}
		n.SetType(typ)
		return n, nil
	default:
		return nil, fmt.Errorf("treecodec: unknown value kind %q", rv.Kind)
	}
}
