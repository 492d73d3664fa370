package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	testCases := []struct {
		src      string
		expected Type
	}{
		{"Integer", IntegerType},
		{"String?", &Nullable{Inner: StringType}},
		{"Integer | String", NewUnion(IntegerType, StringType)},
		{"Numeric & Comparable", NewIntersection(NumericType, ComparableType)},
		{"Array[Integer]", &Generic{Base: "Array", Args: []Type{IntegerType}}},
		{"Hash[Symbol, String?]", &Generic{Base: "Hash", Args: []Type{SymbolType, &Nullable{Inner: StringType}}}},
		{"(Integer, Integer) -> Integer", &Function{Params: []Type{IntegerType, IntegerType}, Return: IntegerType}},
		{"() -> nil", &Function{Params: nil, Return: NilType}},
		{"[Integer, String]", NewTuple(IntegerType, StringType)},
		{"[Integer, *String]", NewTuple(IntegerType, &Rest{Elem: StringType})},
		{"Array[Integer | nil]", &Generic{Base: "Array", Args: []Type{NewUnion(IntegerType, NilType)}}},
		{"(Integer)", IntegerType},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := ParseType(tc.src)
			require.NoError(t, err)
			assert.True(t, Equal(tc.expected, got), "parsed %s, expected %s", got, tc.expected)
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"Integer |",
		"Array[",
		"(Integer, String)",
		"[ *Integer, String ]",
		"Integer extra",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseType(src)
			assert.Error(t, err)
		})
	}
}
