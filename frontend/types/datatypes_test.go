package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIsStructural(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"same concrete", NewConcrete("Integer"), &Concrete{Name: "Integer"}, true},
		{"different concrete", IntegerType, StringType, false},
		{"generic same args", &Generic{Base: "Array", Args: []Type{IntegerType}}, &Generic{Base: "Array", Args: []Type{IntegerType}}, true},
		{"generic different args", &Generic{Base: "Array", Args: []Type{IntegerType}}, &Generic{Base: "Array", Args: []Type{StringType}}, false},
		{"union order matters", NewUnion(IntegerType, StringType), NewUnion(StringType, IntegerType), false},
		{"nullable", &Nullable{Inner: StringType}, &Nullable{Inner: StringType}, true},
		{"function", &Function{Params: []Type{IntegerType}, Return: StringType}, &Function{Params: []Type{IntegerType}, Return: StringType}, true},
		{"variable vs concrete", &Variable{Name: "T1"}, &Concrete{Name: "T1"}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, Equal(tc.a, tc.b))
			if tc.equal {
				assert.Equal(t, tc.a.Hash(), tc.b.Hash(), "equal types must hash alike")
			}
		})
	}
}

func TestNewUnionNormalises(t *testing.T) {
	t.Run("drops duplicates preserving order", func(t *testing.T) {
		u := NewUnion(IntegerType, StringType, IntegerType)
		require.IsType(t, &Union{}, u)
		assert.Equal(t, []Type{IntegerType, StringType}, u.(*Union).Members)
	})
	t.Run("flattens nested unions", func(t *testing.T) {
		u := NewUnion(NewUnion(IntegerType, StringType), StringType, BooleanType)
		require.IsType(t, &Union{}, u)
		assert.Equal(t, []Type{IntegerType, StringType, BooleanType}, u.(*Union).Members)
	})
	t.Run("single member collapses", func(t *testing.T) {
		assert.Equal(t, Type(IntegerType), NewUnion(IntegerType, IntegerType))
	})
	t.Run("empty collapses to nil", func(t *testing.T) {
		assert.Equal(t, Type(NilType), NewUnion())
	})
}

func TestNewTupleRestPlacement(t *testing.T) {
	t.Run("rest last is fine", func(t *testing.T) {
		tup := NewTuple(IntegerType, &Rest{Elem: StringType})
		assert.Equal(t, "[Integer, *String]", tup.String())
	})
	t.Run("misplaced rest panics at construction", func(t *testing.T) {
		assert.Panics(t, func() {
			NewTuple(&Rest{Elem: StringType}, IntegerType)
		})
	})
	t.Run("duplicated rest panics at construction", func(t *testing.T) {
		assert.Panics(t, func() {
			NewTuple(&Rest{Elem: StringType}, &Rest{Elem: IntegerType})
		})
	})
}

func TestTypeString(t *testing.T) {
	testCases := []struct {
		typ      Type
		expected string
	}{
		{NewUnion(IntegerType, StringType), "Integer | String"},
		{NewIntersection(NumericType, ComparableType), "Numeric & Comparable"},
		{&Nullable{Inner: StringType}, "String?"},
		{&Nullable{Inner: NewUnion(IntegerType, StringType)}, "(Integer | String)?"},
		{&Generic{Base: "Hash", Args: []Type{SymbolType, StringType}}, "Hash[Symbol, String]"},
		{&Function{Params: []Type{IntegerType, IntegerType}, Return: BooleanType}, "(Integer, Integer) -> Boolean"},
		{NewTuple(IntegerType, StringType), "[Integer, String]"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.typ.String())
		})
	}
}

func TestNewConcreteInterns(t *testing.T) {
	assert.Same(t, IntegerType, NewConcrete("Integer"))
	assert.Same(t, NilType, NewConcrete("nil"))
	assert.NotSame(t, NewConcrete("Widget"), NewConcrete("Widget"))
}
