package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnet-lang/garnet/frontend/types"
)

func TestFlowContextNarrowOverwrites(t *testing.T) {
	flow := NewFlowContext()
	flow.Narrow("x", types.ObjectType)
	flow.Narrow("x", types.StringType)

	got, ok := flow.Lookup("x")
	require.True(t, ok)
	assert.True(t, types.Equal(types.StringType, got), "last write wins")
}

func TestFlowContextBranchIsIndependent(t *testing.T) {
	parent := NewFlowContext()
	parent.Narrow("x", types.StringType)

	branch := parent.Branch()
	branch.Narrow("x", types.IntegerType)
	branch.Narrow("y", types.BooleanType)

	got, _ := parent.Lookup("x")
	assert.True(t, types.Equal(types.StringType, got), "mutating a branch must not touch its parent")
	_, ok := parent.Lookup("y")
	assert.False(t, ok)

	parent.Narrow("z", types.SymbolType)
	_, ok = branch.Lookup("z")
	assert.False(t, ok, "mutating the parent must not touch the branch")
}

func TestFlowContextMerge(t *testing.T) {
	t.Run("only variables narrowed on both sides survive", func(t *testing.T) {
		a, b := NewFlowContext(), NewFlowContext()
		a.Narrow("x", types.StringType)
		a.Narrow("only_a", types.IntegerType)
		b.Narrow("x", types.StringType)
		b.Narrow("only_b", types.IntegerType)

		merged := a.Merge(b)
		got, ok := merged.Lookup("x")
		require.True(t, ok)
		assert.True(t, types.Equal(types.StringType, got))
		_, ok = merged.Lookup("only_a")
		assert.False(t, ok)
		_, ok = merged.Lookup("only_b")
		assert.False(t, ok)
	})

	t.Run("disagreeing narrowings merge into the union of both", func(t *testing.T) {
		a, b := NewFlowContext(), NewFlowContext()
		a.Narrow("x", types.StringType)
		b.Narrow("x", types.IntegerType)

		merged := a.Merge(b)
		got, ok := merged.Lookup("x")
		require.True(t, ok)
		union, isUnion := got.(*types.Union)
		require.True(t, isUnion, "expected a union, got %s", got)
		assert.Contains(t, union.Members, types.Type(types.StringType))
		assert.Contains(t, union.Members, types.Type(types.IntegerType))
	})

	t.Run("merge never mutates its inputs", func(t *testing.T) {
		a, b := NewFlowContext(), NewFlowContext()
		a.Narrow("x", types.StringType)
		b.Narrow("x", types.IntegerType)
		_ = a.Merge(b)

		got, _ := a.Lookup("x")
		assert.True(t, types.Equal(types.StringType, got))
	})
}
