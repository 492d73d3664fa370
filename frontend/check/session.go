package check

import (
	"log/slog"

	"github.com/garnet-lang/garnet/frontend/infer"
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/types"
)

// CheckFile registers every method of a file as a callable function, then
// checks each method body. Registration happens up front so calls between
// the file's own methods resolve regardless of declaration order.
func (c *Checker) CheckFile(f *ir.File) {
	for _, def := range f.Methods {
		c.RegisterFunction(def.Name, signatureOf(def))
	}
	for _, def := range f.Methods {
		c.CheckMethod(def)
	}
}

func signatureOf(def *ir.MethodDef) Signature {
	params := make([]types.Type, len(def.Params))
	for i, p := range def.Params {
		params[i] = annotatedOrUntyped(p.TypeName)
	}
	return Signature{Params: params, Return: annotatedOrUntyped(def.ReturnName)}
}

func annotatedOrUntyped(name string) types.Type {
	if name == "" {
		return types.UntypedType
	}
	t, err := types.ParseType(name)
	if err != nil {
		return types.UntypedType
	}
	return t
}

// CheckMethod runs one inference session over a method: parameters bind into
// a fresh scope, the body is walked validating calls, operators, and
// assignments under flow narrowing, and the inferred return type is checked
// against the declaration. It returns the inferred return type.
func (c *Checker) CheckMethod(def *ir.MethodDef) types.Type {
	session := &methodSession{
		checker:  c,
		inferrer: infer.NewInferrer(c.hierarchy, c.methods, nil),
		declared: map[string]types.Type{},
	}
	for _, p := range def.Params {
		t := annotatedOrUntyped(p.TypeName)
		session.inferrer.Scope().Define(ir.TierLocal, p.Name, t)
		if p.TypeName != "" {
			session.declared[p.Name] = t
		}
	}

	if def.Body != nil {
		session.block(def.Body)
	}

	actual := session.inferrer.ReturnType(def)
	if def.ReturnName != "" {
		c.CheckReturn(ir.RangeOf(def), annotatedOrUntyped(def.ReturnName), actual)
	}
	logger.Debug("checked method",
		slog.String("method", def.Name),
		slog.String("returns", actual.String()),
	)
	return actual
}

// methodSession is the per-method walking state: one inferrer, plus the
// annotated bindings assignments must keep honoring.
type methodSession struct {
	checker  *Checker
	inferrer *infer.Inferrer
	declared map[string]types.Type
}

func (s *methodSession) block(b *ir.Block) {
	for _, stmt := range b.Stmts {
		s.node(stmt)
	}
}

func (s *methodSession) node(n ir.Node) {
	switch n := n.(type) {
	case *ir.Assign:
		s.node(n.Value)
		// inferring the assignment also records the new binding in scope
		s.inferrer.TypeOf(n)
		if declared, ok := s.declared[n.Target.Name]; ok && n.Target.Tier == ir.TierLocal {
			s.checker.CheckAssignment(ir.RangeOf(n), n.Target.CanonicalSyntax(), declared, s.inferrer.TypeOf(n.Value).Type)
		}
	case *ir.BinaryOp:
		s.node(n.Left)
		s.node(n.Right)
		left := s.inferrer.TypeOf(n.Left)
		right := s.inferrer.TypeOf(n.Right)
		s.checker.CheckOperator(ir.RangeOf(n), n.Op, left.Type, right.Type)
	case *ir.MethodCall:
		if n.Receiver != nil {
			s.node(n.Receiver)
		}
		args := make([]types.Type, len(n.Args))
		for i, arg := range n.Args {
			s.node(arg)
			args[i] = s.inferrer.TypeOf(arg).Type
		}
		// bare calls go through the function registry; receiver calls
		// resolve through the method tables during inference
		if n.Receiver == nil {
			s.checker.CheckCall(ir.RangeOf(n), n.Name, args)
		}
	case *ir.If:
		s.node(n.Cond)
		thenFlow := s.checker.NarrowInConditional(n.Cond, s.inferrer.Flow())
		prev := s.inferrer.SetFlow(thenFlow)
		if n.Then != nil {
			s.block(n.Then)
		}
		// the else branch sees the unnarrowed context: no complementary
		// narrowing is derived
		s.inferrer.SetFlow(prev.Branch())
		if n.Else != nil {
			s.block(n.Else)
		}
		s.inferrer.SetFlow(prev)
	case *ir.Return:
		if n.Value != nil {
			s.node(n.Value)
		}
	case *ir.Block:
		s.block(n)
	default:
		// literals and references: infer for the memo, nothing to check
		s.inferrer.TypeOf(n)
	}
}
