package check

import (
	"github.com/garnet-lang/garnet/frontend/diag"
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/types"
)

// Traversal is the outcome of constraint generation over one method: the
// type standing in for each parameter (a fresh variable when unannotated)
// and the variable standing in for the return value.
type Traversal struct {
	Params map[string]types.Type
	Return *types.Variable
}

// GenerateConstraints walks a method signature and body emitting constraints
// into the solver: a fresh variable per unannotated parameter, an equality
// binding per annotated one, and obligations from literals, assignments, and
// operators with determinable operand types. Anything indeterminate gets a
// fresh variable rather than failing.
func GenerateConstraints(solver *types.ConstraintSolver, hierarchy *types.Hierarchy, def *ir.MethodDef) Traversal {
	g := &constraintGen{
		solver:    solver,
		hierarchy: hierarchy,
		env:       map[string]types.Type{},
	}

	for _, p := range def.Params {
		v := solver.FreshVar("T")
		g.env[p.Name] = v
		if p.TypeName == "" {
			continue
		}
		if declared, err := types.ParseType(p.TypeName); err == nil {
			solver.AddEqual(v, declared)
		}
	}

	g.returnVar = solver.FreshVar("R")
	if def.ReturnName != "" {
		if declared, err := types.ParseType(def.ReturnName); err == nil {
			solver.AddEqual(g.returnVar, declared)
		}
	}

	if def.Body != nil {
		g.block(def.Body)
	}
	return Traversal{Params: g.env, Return: g.returnVar}
}

// VerifyConstraints runs the constraint path over one method: generate,
// solve, and report every subtype violation as an unsatisfiable-constraint
// finding. It returns the solution so callers can read inferred bindings.
func (c *Checker) VerifyConstraints(def *ir.MethodDef) types.Solution {
	solver := types.NewConstraintSolver(c.hierarchy)
	GenerateConstraints(solver, c.hierarchy, def)
	solution := solver.Solve()
	for _, violation := range solution.Errors {
		c.report(diag.New(diag.NewUnsatisfiableConstraint{
			Positioner: ir.RangeOf(def),
			Sub:        violation.Sub.String(),
			Super:      violation.Super.String(),
			Variable:   violation.Variable,
		}))
	}
	return solution
}

type constraintGen struct {
	solver    *types.ConstraintSolver
	hierarchy *types.Hierarchy
	env       map[string]types.Type
	returnVar *types.Variable
}

func (g *constraintGen) block(b *ir.Block) {
	for _, stmt := range b.Stmts {
		g.node(stmt)
	}
}

func (g *constraintGen) node(n ir.Node) {
	switch n := n.(type) {
	case *ir.Assign:
		g.node(n.Value)
		value := g.typeFor(n.Value)
		if existing, ok := g.env[n.Target.Name]; ok {
			g.solver.AddEqual(existing, value)
			return
		}
		g.env[n.Target.Name] = value
	case *ir.BinaryOp:
		g.node(n.Left)
		g.node(n.Right)
		g.operator(n)
	case *ir.Return:
		if n.Value == nil {
			g.solver.AddSubtype(types.NilType, g.returnVar)
			return
		}
		g.node(n.Value)
		g.solver.AddSubtype(g.typeFor(n.Value), g.returnVar)
	case *ir.If:
		g.node(n.Cond)
		if n.Then != nil {
			g.block(n.Then)
		}
		if n.Else != nil {
			g.block(n.Else)
		}
	case *ir.Block:
		g.block(n)
	case *ir.MethodCall:
		for _, arg := range n.Args {
			g.node(arg)
		}
	default:
		// literals and references carry no obligations of their own
	}
}

// operator emits subtype obligations for operators whose operand types are
// determinable.
func (g *constraintGen) operator(n *ir.BinaryOp) {
	if !n.Op.IsArithmetic() {
		return
	}
	left, leftOk := g.determinable(n.Left)
	right, rightOk := g.determinable(n.Right)
	if !leftOk || !rightOk {
		return
	}
	// concatenations are not numeric obligations; with a variable on
	// either side of a + the reading stays ambiguous, so no obligation
	if n.Op == ir.OpAdd {
		if types.Equal(left, types.StringType) || types.Equal(right, types.StringType) {
			return
		}
		if base, ok := types.BaseName(left); ok && base == "Array" {
			return
		}
		if _, ok := left.(*types.Variable); ok {
			return
		}
		if _, ok := right.(*types.Variable); ok {
			return
		}
	}
	g.solver.AddSubtype(left, types.NumericType)
	g.solver.AddSubtype(right, types.NumericType)
}

// typeFor is determinable's fresh-variable fallback: indeterminate
// expressions get a variable instead of failing.
func (g *constraintGen) typeFor(n ir.Node) types.Type {
	if t, ok := g.determinable(n); ok {
		return t
	}
	return g.solver.FreshVar("T")
}

// determinable computes a type for expressions whose shape alone decides it.
func (g *constraintGen) determinable(n ir.Node) (types.Type, bool) {
	switch n := n.(type) {
	case *ir.IntLit:
		return types.IntegerType, true
	case *ir.FloatLit:
		return types.FloatType, true
	case *ir.StringLit:
		return types.StringType, true
	case *ir.SymbolLit:
		return types.SymbolType, true
	case *ir.BoolLit:
		return types.BooleanType, true
	case *ir.NilLit:
		return types.NilType, true
	case *ir.ConstRef:
		return types.NewConcrete(n.Name), true
	case *ir.VarRef:
		t, ok := g.env[n.Name]
		return t, ok
	case *ir.BinaryOp:
		return g.determinableBinary(n)
	case *ir.ArrayLit:
		if len(n.Elements) == 0 {
			return &types.Generic{Base: "Array", Args: []types.Type{types.UntypedType}}, true
		}
		elem, ok := g.determinable(n.Elements[0])
		if !ok {
			return nil, false
		}
		return &types.Generic{Base: "Array", Args: []types.Type{elem}}, true
	default:
		return nil, false
	}
}

func (g *constraintGen) determinableBinary(n *ir.BinaryOp) (types.Type, bool) {
	if n.Op.IsComparison() {
		return types.BooleanType, true
	}
	left, leftOk := g.determinable(n.Left)
	right, rightOk := g.determinable(n.Right)
	if !leftOk || !rightOk {
		return nil, false
	}
	if !n.Op.IsArithmetic() {
		return nil, false
	}
	if _, ok := left.(*types.Variable); ok {
		return nil, false
	}
	if _, ok := right.(*types.Variable); ok {
		return nil, false
	}
	if n.Op == ir.OpAdd && types.Equal(left, types.StringType) && types.Equal(right, types.StringType) {
		return types.StringType, true
	}
	if types.Equal(left, types.FloatType) || types.Equal(right, types.FloatType) {
		return types.FloatType, true
	}
	return types.IntegerType, true
}
