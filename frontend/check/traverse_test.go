package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnet-lang/garnet/frontend/check"
	"github.com/garnet-lang/garnet/frontend/diag"
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/types"
)

func generate(t *testing.T, def *ir.MethodDef) (*types.ConstraintSolver, check.Traversal, types.Solution) {
	t.Helper()

	hierarchy := types.NewHierarchy()
	solver := types.NewConstraintSolver(hierarchy)
	traversal := check.GenerateConstraints(solver, hierarchy, def)
	return solver, traversal, solver.Solve()
}

func TestGenerateConstraintsAnnotatedParams(t *testing.T) {
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "identity",
		[]ir.Param{{Name: "x", TypeName: "Integer"}}, "Integer",
		a.NewBlock(ir.Range{},
			a.NewReturn(ir.Range{}, a.NewVarRef(ir.Range{}, ir.TierLocal, "x"))))

	solver, traversal, solution := generate(t, def)

	require.True(t, solution.Success)
	v, ok := traversal.Params["x"].(*types.Variable)
	require.True(t, ok, "parameters stand behind variables")
	assert.True(t, types.Equal(types.IntegerType, solver.Infer(v.Name)))
	assert.True(t, types.Equal(types.IntegerType, solver.Infer(traversal.Return.Name)))
}

func TestGenerateConstraintsUnannotatedParamsDefaultToObject(t *testing.T) {
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "pass",
		[]ir.Param{{Name: "x"}}, "",
		a.NewBlock(ir.Range{}))

	solver, traversal, solution := generate(t, def)

	require.True(t, solution.Success)
	v := traversal.Params["x"].(*types.Variable)
	assert.True(t, types.Equal(types.ObjectType, solver.Infer(v.Name)),
		"unconstrained variables default to Object")
}

func TestGenerateConstraintsReturnObligation(t *testing.T) {
	// declared String, body returns an integer literal: the returned
	// value's subtype obligation against the return variable must fail
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "label", nil, "String",
		a.NewBlock(ir.Range{},
			a.NewReturn(ir.Range{}, a.NewIntLit(ir.Range{}, 1))))

	_, _, solution := generate(t, def)

	require.False(t, solution.Success)
	require.Len(t, solution.Errors, 1)
	assert.Equal(t, types.ErrKindSubtype, solution.Errors[0].Kind)
	assert.True(t, types.Equal(types.IntegerType, solution.Errors[0].Sub))
	assert.True(t, types.Equal(types.StringType, solution.Errors[0].Super))
}

func TestGenerateConstraintsAssignmentUnifiesWithParam(t *testing.T) {
	// def f(x); x = "s"; end makes x a String through the assignment
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "f",
		[]ir.Param{{Name: "x"}}, "",
		a.NewBlock(ir.Range{},
			a.NewAssign(ir.Range{},
				a.NewVarRef(ir.Range{}, ir.TierLocal, "x"),
				a.NewStringLit(ir.Range{}, "s"))))

	solver, traversal, solution := generate(t, def)

	require.True(t, solution.Success)
	v := traversal.Params["x"].(*types.Variable)
	assert.True(t, types.Equal(types.StringType, solver.Infer(v.Name)))
}

func TestGenerateConstraintsArithmeticObligation(t *testing.T) {
	// returning s - 1 with s annotated String violates both numeric
	// operand obligations
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "off",
		[]ir.Param{{Name: "s", TypeName: "String"}}, "",
		a.NewBlock(ir.Range{},
			a.NewBinaryOp(ir.Range{}, ir.OpSub,
				a.NewVarRef(ir.Range{}, ir.TierLocal, "s"),
				a.NewIntLit(ir.Range{}, 1))))

	_, _, solution := generate(t, def)

	require.False(t, solution.Success)
	require.Len(t, solution.Errors, 1)
	assert.True(t, types.Equal(types.StringType, solution.Errors[0].Sub))
	assert.True(t, types.Equal(types.NumericType, solution.Errors[0].Super))
}

func TestGenerateConstraintsStringConcatenationCarriesNoObligation(t *testing.T) {
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "greet",
		[]ir.Param{{Name: "name", TypeName: "String"}}, "String",
		a.NewBlock(ir.Range{},
			a.NewReturn(ir.Range{}, a.NewBinaryOp(ir.Range{}, ir.OpAdd,
				a.NewStringLit(ir.Range{}, "hello "),
				a.NewVarRef(ir.Range{}, ir.TierLocal, "name")))))

	_, _, solution := generate(t, def)
	assert.True(t, solution.Success)
}

func TestVerifyConstraintsReportsViolations(t *testing.T) {
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "label", nil, "String",
		a.NewBlock(ir.Range{},
			a.NewReturn(ir.Range{}, a.NewIntLit(ir.Range{}, 1))))
	c := check.New()

	solution := c.VerifyConstraints(def)

	assert.False(t, solution.Success)
	ds := c.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.UnsatisfiableConstraint, ds[0].Code())
	expected, actual := ds[0].(diag.TypePair).ExpectedActual()
	assert.Equal(t, "String", expected)
	assert.Equal(t, "Integer", actual)
}

func TestVerifyConstraintsCleanMethod(t *testing.T) {
	a := ir.NewArena()
	c := check.New()

	solution := c.VerifyConstraints(identityDef(a))

	assert.True(t, solution.Success)
	assert.Empty(t, c.Diagnostics())
}

func TestGenerateConstraintsIndeterminateGetsFreshVariable(t *testing.T) {
	// a call result is indeterminate: assigning it must not fail, it just
	// leaves y behind a variable that defaults to Object
	a := ir.NewArena()
	def := a.NewMethodDef(ir.Range{}, "f", nil, "",
		a.NewBlock(ir.Range{},
			a.NewAssign(ir.Range{},
				a.NewVarRef(ir.Range{}, ir.TierLocal, "y"),
				a.NewMethodCall(ir.Range{}, nil, "mystery"))))

	_, _, solution := generate(t, def)
	assert.True(t, solution.Success)
}
