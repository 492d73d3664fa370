package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnet-lang/garnet/frontend/diag"
	"github.com/garnet-lang/garnet/frontend/ir"
)

func TestDiagnosticsBag(t *testing.T) {
	var bag *diag.Diagnostics
	assert.False(t, bag.HasError(), "a nil bag is empty")
	assert.Empty(t, bag.All())

	bag = bag.With(diag.New(diag.NewUnknownFunction{Positioner: ir.Range{}, Name: "frobnicate"}))
	assert.False(t, bag.HasError(), "warnings alone are not errors")

	bag = bag.With(diag.New(diag.NewTypeMismatch{
		Positioner: ir.Range{},
		Expected:   "String",
		Actual:     "Integer",
		Context:    "return value",
	}))
	assert.True(t, bag.HasError())
	assert.Equal(t, 2, bag.Len())
}

func TestOrderedPutsErrorsFirst(t *testing.T) {
	bag := (&diag.Diagnostics{}).
		With(diag.New(diag.NewUnknownFunction{Positioner: ir.Range{}, Name: "f"})).
		With(diag.New(diag.NewArgumentCount{Positioner: ir.Range{}, Callee: "g", Want: 2, Got: 1}))

	ordered := bag.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, diag.SeverityError, ordered[0].Severity())
	assert.Equal(t, diag.SeverityWarning, ordered[1].Severity())
}

func TestTypeMismatchCarriesExpectedActual(t *testing.T) {
	d := diag.New(diag.NewTypeMismatch{Positioner: ir.Range{}, Expected: "String", Actual: "Integer"})
	pair, ok := d.(diag.TypePair)
	require.True(t, ok)
	expected, actual := pair.ExpectedActual()
	assert.Equal(t, "String", expected)
	assert.Equal(t, "Integer", actual)
}

func TestFormatWithCode(t *testing.T) {
	err := diag.New(diag.NewArgumentCount{Positioner: ir.Range{}, Callee: "add", Want: 2, Got: 1})
	assert.Contains(t, diag.FormatWithCode(err), "(E001)")

	warn := diag.New(diag.NewUnknownFunction{Positioner: ir.Range{}, Name: "add"})
	assert.Contains(t, diag.FormatWithCode(warn), "(W004)")
}
