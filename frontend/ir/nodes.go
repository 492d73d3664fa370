package ir

// when adding node kinds here, you should add them to the switch cases in:
// - infer:infer.go/typeOf
// - infer:returns.go/collectReturnTypes
// - check:traverse.go/walk
// - ir:decode.go/decodeNode

var (
	_ Node = (*IntLit)(nil)
	_ Node = (*FloatLit)(nil)
	_ Node = (*StringLit)(nil)
	_ Node = (*SymbolLit)(nil)
	_ Node = (*BoolLit)(nil)
	_ Node = (*NilLit)(nil)
	_ Node = (*VarRef)(nil)
	_ Node = (*ConstRef)(nil)
	_ Node = (*Assign)(nil)
	_ Node = (*BinaryOp)(nil)
	_ Node = (*MethodCall)(nil)
	_ Node = (*ArrayLit)(nil)
	_ Node = (*HashLit)(nil)
	_ Node = (*If)(nil)
	_ Node = (*Return)(nil)
	_ Node = (*Block)(nil)
	_ Node = (*MethodDef)(nil)
)

type IntLit struct {
	base
	Value int64
}

type FloatLit struct {
	base
	Value float64
}

type StringLit struct {
	base
	Value string
}

type SymbolLit struct {
	base
	Name string
}

type BoolLit struct {
	base
	Value bool
}

type NilLit struct {
	base
}

// VarTier distinguishes the three variable namespaces of the dialect.
type VarTier uint8

const (
	TierLocal VarTier = iota
	TierInstance
	TierClass
)

func (t VarTier) String() string {
	switch t {
	case TierInstance:
		return "instance"
	case TierClass:
		return "class"
	default:
		return "local"
	}
}

type VarRef struct {
	base
	Tier VarTier
	Name string
}

// ConstRef is a capitalized bare name: it denotes the class itself,
// never a variable lookup.
type ConstRef struct {
	base
	Name string
}

type Assign struct {
	base
	Target *VarRef
	Value  Node
}

// Op is a binary operator of the surface syntax.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"

	OpEq  Op = "=="
	OpNeq Op = "!="
	OpLt  Op = "<"
	OpGt  Op = ">"
	OpLeq Op = "<="
	OpGeq Op = ">="

	OpAnd Op = "&&"
	OpOr  Op = "||"
)

// IsComparison returns true when the operation yields a Boolean regardless
// of its operand types (for example, 3 > 4).
func (op Op) IsComparison() bool {
	switch op {
	case OpEq, OpNeq, OpLt, OpGt, OpLeq, OpGeq:
		return true
	default:
		return false
	}
}

func (op Op) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	default:
		return false
	}
}

func (op Op) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

type BinaryOp struct {
	base
	Op          Op
	Left, Right Node
}

// MethodCall covers both receiver calls (x.foo(a)) and bare calls (foo(a));
// a bare call has a nil Receiver.
type MethodCall struct {
	base
	Receiver Node
	Name     string
	Args     []Node
}

type ArrayLit struct {
	base
	Elements []Node
}

type HashEntry struct {
	Key, Value Node
}

type HashLit struct {
	base
	Entries []HashEntry
}

// If holds a conditional; Else may be nil.
type If struct {
	base
	Cond Node
	Then *Block
	Else *Block
}

// Return holds an explicit return; Value may be nil for a bare return.
type Return struct {
	base
	Value Node
}

// Block is a linear statement sequence.
type Block struct {
	base
	Stmts []Node
}

// Param is a declared method parameter. TypeName is the annotation as
// written, or "" when the parameter is unannotated.
type Param struct {
	Name     string
	TypeName string
}

// MethodDef declares a method: its signature annotations stay as written,
// resolution into type values happens during checking.
type MethodDef struct {
	base
	Name       string
	Params     []Param
	ReturnName string
	Body       *Block
}

func (a *Arena) NewIntLit(r Range, value int64) *IntLit {
	n := &IntLit{Value: value}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewFloatLit(r Range, value float64) *FloatLit {
	n := &FloatLit{Value: value}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewStringLit(r Range, value string) *StringLit {
	n := &StringLit{Value: value}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewSymbolLit(r Range, name string) *SymbolLit {
	n := &SymbolLit{Name: name}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewBoolLit(r Range, value bool) *BoolLit {
	n := &BoolLit{Value: value}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewNilLit(r Range) *NilLit {
	n := &NilLit{}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewVarRef(r Range, tier VarTier, name string) *VarRef {
	n := &VarRef{Tier: tier, Name: name}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewConstRef(r Range, name string) *ConstRef {
	n := &ConstRef{Name: name}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewAssign(r Range, target *VarRef, value Node) *Assign {
	n := &Assign{Target: target, Value: value}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewBinaryOp(r Range, op Op, left, right Node) *BinaryOp {
	n := &BinaryOp{Op: op, Left: left, Right: right}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewMethodCall(r Range, receiver Node, name string, args ...Node) *MethodCall {
	n := &MethodCall{Receiver: receiver, Name: name, Args: args}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewArrayLit(r Range, elements ...Node) *ArrayLit {
	n := &ArrayLit{Elements: elements}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewHashLit(r Range, entries ...HashEntry) *HashLit {
	n := &HashLit{Entries: entries}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewIf(r Range, cond Node, then, els *Block) *If {
	n := &If{Cond: cond, Then: then, Else: els}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewReturn(r Range, value Node) *Return {
	n := &Return{Value: value}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewBlock(r Range, stmts ...Node) *Block {
	n := &Block{Stmts: stmts}
	n.Range = r
	a.register(n, &n.base)
	return n
}

func (a *Arena) NewMethodDef(r Range, name string, params []Param, returnName string, body *Block) *MethodDef {
	n := &MethodDef{Name: name, Params: params, ReturnName: returnName, Body: body}
	n.Range = r
	a.register(n, &n.base)
	return n
}
