package prop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCNF(t *testing.T) {
	x, y := atom("x"), atom("y")
	testCases := []struct {
		name     string
		input    Formula
		expected ClauseSet
	}{
		{"atom is a unit clause", x, ClauseSet{{Literal{Name: "x"}}}},
		{"negated atom", &Not{Operand: x}, ClauseSet{{Literal{Name: "x", Negated: true}}}},
		{"and concatenates", &And{Left: x, Right: y}, ClauseSet{{Literal{Name: "x"}}, {Literal{Name: "y"}}}},
		{"or of atoms is one clause", &Or{Left: x, Right: y}, ClauseSet{{Literal{Name: "x"}, Literal{Name: "y"}}}},
		{
			"or of negated atoms is one clause",
			&Or{Left: &Not{Operand: x}, Right: &Not{Operand: y}},
			ClauseSet{{Literal{Name: "x", Negated: true}, Literal{Name: "y", Negated: true}}},
		},
		{
			"negated and pushes negation onto both operands",
			&Not{Operand: &And{Left: x, Right: y}},
			ClauseSet{{Literal{Name: "x", Negated: true}}, {Literal{Name: "y", Negated: true}}},
		},
		{
			"negated or is De Morgan",
			&Not{Operand: &Or{Left: x, Right: y}},
			ClauseSet{{Literal{Name: "x", Negated: true}}, {Literal{Name: "y", Negated: true}}},
		},
		{"true is trivially satisfiable", True, ClauseSet{}},
		{"false is an immediate conflict", False, ClauseSet{Clause{}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToCNF(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClauseSetAtoms(t *testing.T) {
	cs := ClauseSet{
		{Literal{Name: "b"}, Literal{Name: "a", Negated: true}},
		{Literal{Name: "a"}},
		{Literal{Name: "c", Negated: true}},
	}
	assert.Equal(t, []string{"a", "b", "c"}, cs.Atoms())
	assert.Empty(t, ClauseSet{}.Atoms())
}

func TestToCNFDoubleNegationMatchesBareAtom(t *testing.T) {
	x := atom("x")
	direct, err := ToCNF(x)
	require.NoError(t, err)
	doubled, err := ToCNF(&Not{Operand: &Not{Operand: x}})
	require.NoError(t, err)
	assert.Equal(t, direct, doubled)
}

func TestToCNFRejectsNonNearCNFShapes(t *testing.T) {
	x, y, z := atom("x"), atom("y"), atom("z")
	// Or over a conjunction needs general distribution, which this
	// conversion deliberately does not perform
	_, err := ToCNF(&Or{Left: &And{Left: x, Right: y}, Right: z})
	assert.Error(t, err)
}
