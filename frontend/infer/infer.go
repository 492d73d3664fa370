package infer

import (
	"fmt"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/types"
	"github.com/garnet-lang/garnet/internal/log"
)

var logger = log.DefaultLogger.With("section", "infer")

// Confidence grades how much an inferred type can be trusted. It is advisory
// only and never a correctness signal.
type Confidence uint8

const (
	Low Confidence = iota
	Medium
	High
)

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// Result is an inferred type together with where it came from.
type Result struct {
	Type       types.Type
	Confidence Confidence
	Origin     string
	ir.Range
}

// Inferrer assigns a type to every expression of one inference session,
// bottom-up and memoized per IR node. It never fails: unresolvable cases
// degrade to untyped so downstream passes keep running.
//
// An Inferrer is scoped to one session and must not be shared across
// sessions whose nodes carry different bindings; the memo cache is keyed by
// arena node identity.
type Inferrer struct {
	memo      map[ir.NodeID]Result
	scope     *Scope
	flow      *FlowContext
	hierarchy *types.Hierarchy
	methods   *MethodTable
}

func NewInferrer(hierarchy *types.Hierarchy, methods *MethodTable, scope *Scope) *Inferrer {
	if scope == nil {
		scope = NewScope(nil)
	}
	return &Inferrer{
		memo:      map[ir.NodeID]Result{},
		scope:     scope,
		flow:      NewFlowContext(),
		hierarchy: hierarchy,
		methods:   methods,
	}
}

// Scope exposes the session scope so callers can bind parameters and
// assignment results.
func (inf *Inferrer) Scope() *Scope { return inf.scope }

// Flow returns the flow context consulted for narrowed variables.
func (inf *Inferrer) Flow() *FlowContext { return inf.flow }

// SetFlow swaps the active flow context, returning the previous one. The
// checker uses this when descending into a narrowed branch.
func (inf *Inferrer) SetFlow(f *FlowContext) *FlowContext {
	prev := inf.flow
	inf.flow = f
	return prev
}

// TypeOf infers the type of a node, computing at most once per distinct node.
func (inf *Inferrer) TypeOf(n ir.Node) Result {
	if n == nil {
		return Result{Type: types.NilType, Confidence: High, Origin: "absent"}
	}
	if r, ok := inf.memo[n.ID()]; ok && n.ID() != ir.NoID {
		return r
	}
	r := inf.typeOf(n)
	r.Range = ir.RangeOf(n)
	if n.ID() != ir.NoID {
		inf.memo[n.ID()] = r
	}
	return r
}

func (inf *Inferrer) typeOf(n ir.Node) Result {
	switch n := n.(type) {
	case *ir.IntLit:
		return Result{Type: types.IntegerType, Confidence: High, Origin: "literal"}
	case *ir.FloatLit:
		return Result{Type: types.FloatType, Confidence: High, Origin: "literal"}
	case *ir.StringLit:
		return Result{Type: types.StringType, Confidence: High, Origin: "literal"}
	case *ir.SymbolLit:
		return Result{Type: types.SymbolType, Confidence: High, Origin: "literal"}
	case *ir.BoolLit:
		return Result{Type: types.BooleanType, Confidence: High, Origin: "literal"}
	case *ir.NilLit:
		return Result{Type: types.NilType, Confidence: High, Origin: "literal"}
	case *ir.VarRef:
		return inf.typeOfVar(n)
	case *ir.ConstRef:
		// a capitalized bare name denotes the class itself
		return Result{Type: types.NewConcrete(n.Name), Confidence: High, Origin: "constant"}
	case *ir.Assign:
		value := inf.TypeOf(n.Value)
		inf.scope.Define(n.Target.Tier, n.Target.Name, value.Type)
		return Result{Type: value.Type, Confidence: value.Confidence, Origin: "assignment"}
	case *ir.BinaryOp:
		return inf.typeOfBinary(n)
	case *ir.MethodCall:
		return inf.typeOfCall(n)
	case *ir.ArrayLit:
		return inf.typeOfArray(n)
	case *ir.HashLit:
		return inf.typeOfHash(n)
	case *ir.If:
		return inf.typeOfIf(n)
	case *ir.Return:
		value := inf.TypeOf(n.Value)
		return Result{Type: value.Type, Confidence: value.Confidence, Origin: "return"}
	case *ir.Block:
		if len(n.Stmts) == 0 {
			return Result{Type: types.NilType, Confidence: High, Origin: "empty block"}
		}
		for _, stmt := range n.Stmts[:len(n.Stmts)-1] {
			inf.TypeOf(stmt)
		}
		trailing := inf.TypeOf(n.Stmts[len(n.Stmts)-1])
		return Result{Type: trailing.Type, Confidence: trailing.Confidence, Origin: "block"}
	case *ir.MethodDef:
		return inf.typeOfMethodDef(n)
	default:
		panic(fmt.Sprintf("unhandled IR node kind %T", n))
	}
}

func (inf *Inferrer) typeOfVar(n *ir.VarRef) Result {
	if t, ok := inf.flow.Lookup(n.CanonicalSyntax()); ok {
		return Result{Type: t, Confidence: High, Origin: "narrowed"}
	}
	if t, ok := inf.scope.Lookup(n.Tier, n.Name); ok {
		return Result{Type: t, Confidence: High, Origin: n.Tier.String() + " variable"}
	}
	logger.Debug("unresolved variable", slog.String("name", n.CanonicalSyntax()))
	return Result{Type: types.UntypedType, Confidence: Low, Origin: "unresolved variable"}
}

func (inf *Inferrer) typeOfBinary(n *ir.BinaryOp) Result {
	left := inf.TypeOf(n.Left)
	right := inf.TypeOf(n.Right)

	switch {
	case n.Op.IsComparison():
		return Result{Type: types.BooleanType, Confidence: High, Origin: "comparison"}

	case n.Op == ir.OpAnd:
		// simplification: the right operand's type, not true
		// short-circuit typing
		return Result{Type: right.Type, Confidence: Medium, Origin: "logical and"}

	case n.Op == ir.OpOr:
		if types.Equal(left.Type, types.NilType) {
			return Result{Type: right.Type, Confidence: Medium, Origin: "logical or"}
		}
		if types.Equal(right.Type, types.NilType) {
			return Result{Type: left.Type, Confidence: Medium, Origin: "logical or"}
		}
		return Result{Type: types.NewUnion(left.Type, right.Type), Confidence: Medium, Origin: "logical or"}

	case n.Op.IsArithmetic():
		if n.Op == ir.OpAdd {
			if types.Equal(left.Type, types.StringType) && types.Equal(right.Type, types.StringType) {
				return Result{Type: types.StringType, Confidence: High, Origin: "string concatenation"}
			}
			if base, ok := types.BaseName(left.Type); ok && base == "Array" {
				return Result{Type: left.Type, Confidence: High, Origin: "array concatenation"}
			}
		}
		if types.Equal(left.Type, types.FloatType) || types.Equal(right.Type, types.FloatType) {
			return Result{Type: types.FloatType, Confidence: High, Origin: "arithmetic"}
		}
		return Result{Type: types.IntegerType, Confidence: High, Origin: "arithmetic"}

	default:
		return Result{Type: types.UntypedType, Confidence: Low, Origin: "unknown operator"}
	}
}

func (inf *Inferrer) typeOfCall(n *ir.MethodCall) Result {
	for _, arg := range n.Args {
		inf.TypeOf(arg)
	}
	receiver := types.Type(types.ObjectType)
	if n.Receiver != nil {
		receiver = inf.TypeOf(n.Receiver).Type
	}
	if ret, ok := inf.methods.Lookup(receiver, n.Name); ok {
		return Result{Type: ret, Confidence: Medium, Origin: "method table"}
	}
	if n.Name == "new" && n.Receiver != nil {
		if instance, ok := instanceOfNew(n.Receiver, receiver); ok {
			return Result{Type: instance, Confidence: Medium, Origin: "constructor"}
		}
	}
	logger.Debug("unresolved call", slog.String("method", n.Name), slog.String("receiver", receiver.String()))
	return Result{Type: types.UntypedType, Confidence: Low, Origin: "unresolved call"}
}

// instanceOfNew resolves `new` on a capitalized receiver to an instance of
// that receiver name.
func instanceOfNew(receiver ir.Node, receiverType types.Type) (types.Type, bool) {
	if ref, ok := receiver.(*ir.ConstRef); ok {
		return types.NewConcrete(ref.Name), true
	}
	if c, ok := receiverType.(*types.Concrete); ok && isCapitalized(c.Name) {
		return c, true
	}
	return nil, false
}

func isCapitalized(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (inf *Inferrer) typeOfArray(n *ir.ArrayLit) Result {
	if len(n.Elements) == 0 {
		t := &types.Generic{Base: "Array", Args: []types.Type{types.UntypedType}}
		return Result{Type: t, Confidence: Medium, Origin: "empty array literal"}
	}
	elems := make([]types.Type, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = inf.TypeOf(e).Type
	}
	t := &types.Generic{Base: "Array", Args: []types.Type{UnifyTypes(elems)}}
	return Result{Type: t, Confidence: High, Origin: "array literal"}
}

func (inf *Inferrer) typeOfHash(n *ir.HashLit) Result {
	if len(n.Entries) == 0 {
		t := &types.Generic{Base: "Hash", Args: []types.Type{types.UntypedType, types.UntypedType}}
		return Result{Type: t, Confidence: Medium, Origin: "empty hash literal"}
	}
	keys := make([]types.Type, len(n.Entries))
	values := make([]types.Type, len(n.Entries))
	for i, e := range n.Entries {
		keys[i] = inf.TypeOf(e.Key).Type
		values[i] = inf.TypeOf(e.Value).Type
	}
	t := &types.Generic{Base: "Hash", Args: []types.Type{UnifyTypes(keys), UnifyTypes(values)}}
	return Result{Type: t, Confidence: High, Origin: "hash literal"}
}

// typeOfIf values a conditional as the unified type of its branch values; a
// missing else contributes nil, so one-armed conditionals type as nullable.
func (inf *Inferrer) typeOfIf(n *ir.If) Result {
	inf.TypeOf(n.Cond)
	then := inf.TypeOf(n.Then)
	els := types.Type(types.NilType)
	if n.Else != nil {
		els = inf.TypeOf(n.Else).Type
	}
	return Result{Type: UnifyTypes([]types.Type{then.Type, els}), Confidence: Medium, Origin: "conditional"}
}

// typeOfMethodDef types a definition as the function of its declared or
// inferred parts.
func (inf *Inferrer) typeOfMethodDef(n *ir.MethodDef) Result {
	params := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		params[i] = annotationType(p.TypeName)
	}
	ret := inf.ReturnType(n)
	t := &types.Function{Params: params, Return: ret}
	return Result{Type: t, Confidence: Medium, Origin: "method definition"}
}

// annotationType resolves an annotation as written; a malformed or missing
// one degrades to untyped rather than failing.
func annotationType(name string) types.Type {
	if name == "" {
		return types.UntypedType
	}
	t, err := types.ParseType(name)
	if err != nil {
		logger.Debug("malformed annotation", slog.String("annotation", name))
		return types.UntypedType
	}
	return t
}
