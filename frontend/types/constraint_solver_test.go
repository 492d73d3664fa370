package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshVarsAreUnique(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	a, b := s.FreshVar("T"), s.FreshVar("T")
	assert.NotEqual(t, a.Name, b.Name)
}

func TestSolveConsistentConstraintsSucceed(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	x := s.FreshVar("T")
	y := s.FreshVar("T")
	s.AddEqual(x, IntegerType)
	s.AddEqual(y, x)
	s.AddSubtype(x, NumericType)
	s.AddSubtype(IntegerType, ObjectType)

	solution := s.Solve()
	require.True(t, solution.Success)
	assert.Empty(t, solution.Errors)
	assert.True(t, Equal(IntegerType, s.Infer(x.Name)))
	assert.True(t, Equal(IntegerType, s.Infer(y.Name)), "chains dereference fully")
}

func TestSolveCollectsEveryViolation(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	s.AddSubtype(StringType, IntegerType)
	s.AddSubtype(BooleanType, NumericType)

	solution := s.Solve()
	require.False(t, solution.Success)
	require.Len(t, solution.Errors, 2, "all violations are collected, not just the first")
	first := solution.Errors[0]
	assert.Equal(t, ErrKindSubtype, first.Kind)
	assert.True(t, Equal(StringType, first.Sub))
	assert.True(t, Equal(IntegerType, first.Super))
	assert.Contains(t, first.Error(), "String")
	assert.Contains(t, first.Error(), "Integer")
}

func TestSolveInjectedViolationFlipsSuccess(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	x := s.FreshVar("T")
	s.AddEqual(x, IntegerType)
	s.AddSubtype(x, NumericType)
	require.True(t, s.Solve().Success)

	s.AddSubtype(StringType, IntegerType)
	solution := s.Solve()
	assert.False(t, solution.Success)
	assert.NotEmpty(t, solution.Errors)
}

func TestSolveRejectsIncompatibleConcreteUnification(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	x := s.FreshVar("T")
	s.AddEqual(x, StringType)
	s.AddEqual(x, IntegerType)

	solution := s.Solve()
	require.False(t, solution.Success)
	require.Len(t, solution.Errors, 1)
	assert.Equal(t, ErrKindConflict, solution.Errors[0].Kind)
	// the first equality won the binding
	assert.True(t, Equal(StringType, s.Infer(x.Name)))
}

func TestSolveAllowsHierarchyCompatibleUnification(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	x := s.FreshVar("T")
	s.AddEqual(x, IntegerType)
	s.AddEqual(x, NumericType)
	assert.True(t, s.Solve().Success)
}

func TestSolveChecksSubtypeThroughSubstitution(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	x := s.FreshVar("T")
	s.AddEqual(x, StringType)
	s.AddSubtype(x, NumericType)

	solution := s.Solve()
	require.False(t, solution.Success)
	require.Len(t, solution.Errors, 1)
	assert.True(t, Equal(StringType, solution.Errors[0].Sub))
	assert.Equal(t, x.Name, solution.Errors[0].Variable)
}

func TestSolveUnboundSubSideIsVacuouslySatisfiable(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	x := s.FreshVar("T")
	s.AddSubtype(x, StringType)

	solution := s.Solve()
	assert.True(t, solution.Success, "an unconstrained value could still be any String subtype")
}

func TestUnconstrainedVariableDefaultsToObject(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	v := s.FreshVar("T")
	s.Solve()
	assert.True(t, Equal(ObjectType, s.Infer(v.Name)))
}

func TestInferUndefinedBeforeSolve(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	assert.Nil(t, s.Infer("T1"))
}

func TestSolveUnifiesStructurally(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	elem := s.FreshVar("E")
	s.AddEqual(&Generic{Base: "Array", Args: []Type{elem}}, &Generic{Base: "Array", Args: []Type{StringType}})

	solution := s.Solve()
	require.True(t, solution.Success)
	assert.True(t, Equal(StringType, s.Infer(elem.Name)))
}

func TestSolveRecordsProperties(t *testing.T) {
	s := NewConstraintSolver(NewHierarchy())
	v := s.FreshVar("T")
	s.AddProperty(v, "name", StringType)
	s.AddEqual(v, NewConcrete("Widget"))

	solution := s.Solve()
	require.True(t, solution.Success, "property constraints never contribute violations")
	require.Contains(t, solution.Properties, v.Name)
	assert.True(t, Equal(StringType, solution.Properties[v.Name]["name"]))
}
