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

// identity is `def identity(x: Integer) -> Integer; return x; end`.
func identityDef(a *ir.Arena) *ir.MethodDef {
	body := a.NewBlock(ir.Range{},
		a.NewReturn(ir.Range{}, a.NewVarRef(ir.Range{}, ir.TierLocal, "x")),
	)
	return a.NewMethodDef(ir.Range{}, "identity",
		[]ir.Param{{Name: "x", TypeName: "Integer"}}, "Integer", body)
}

func TestCheckMethodAnnotatedIdentity(t *testing.T) {
	a := ir.NewArena()
	c := check.New()

	actual := c.CheckMethod(identityDef(a))

	assert.True(t, types.Equal(types.IntegerType, actual))
	assert.Empty(t, c.Diagnostics())
}

func TestCheckMethodReturnMismatch(t *testing.T) {
	// declared String, the body's only statement is an integer literal
	a := ir.NewArena()
	c := check.New()
	def := a.NewMethodDef(ir.Range{}, "label", nil, "String",
		a.NewBlock(ir.Range{}, a.NewIntLit(ir.Range{}, 1)))

	actual := c.CheckMethod(def)

	assert.True(t, types.Equal(types.IntegerType, actual))
	ds := c.Diagnostics()
	require.Len(t, ds, 1)
	require.Equal(t, diag.TypeMismatch, ds[0].Code())
	expected, got := ds[0].(diag.TypePair).ExpectedActual()
	assert.Equal(t, "String", expected)
	assert.Equal(t, "Integer", got)
}

func TestCheckMethodUndeclaredReturnIsNeverChecked(t *testing.T) {
	a := ir.NewArena()
	c := check.New()
	def := a.NewMethodDef(ir.Range{}, "whatever", nil, "",
		a.NewBlock(ir.Range{}, a.NewIntLit(ir.Range{}, 1)))

	actual := c.CheckMethod(def)

	assert.True(t, types.Equal(types.IntegerType, actual))
	assert.Empty(t, c.Diagnostics())
}

func TestCheckMethodOperatorFinding(t *testing.T) {
	// def bad(s: String) -> String; return s + 1; end
	a := ir.NewArena()
	c := check.New()
	body := a.NewBlock(ir.Range{},
		a.NewReturn(ir.Range{}, a.NewBinaryOp(ir.Range{}, ir.OpAdd,
			a.NewVarRef(ir.Range{}, ir.TierLocal, "s"),
			a.NewIntLit(ir.Range{}, 1),
		)),
	)
	def := a.NewMethodDef(ir.Range{}, "bad",
		[]ir.Param{{Name: "s", TypeName: "String"}}, "String", body)

	c.CheckMethod(def)

	ds := c.Diagnostics()
	require.NotEmpty(t, ds)
	assert.Equal(t, diag.TypeMismatch, ds[0].Code())
}

func TestCheckMethodAssignmentAgainstAnnotation(t *testing.T) {
	// def bad(n: Integer); n = "oops"; end
	a := ir.NewArena()
	c := check.New()
	body := a.NewBlock(ir.Range{},
		a.NewAssign(ir.Range{},
			a.NewVarRef(ir.Range{}, ir.TierLocal, "n"),
			a.NewStringLit(ir.Range{}, "oops"),
		),
	)
	def := a.NewMethodDef(ir.Range{}, "bad",
		[]ir.Param{{Name: "n", TypeName: "Integer"}}, "", body)

	c.CheckMethod(def)

	ds := c.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.TypeMismatch, ds[0].Code())
}

func TestCheckMethodGuardNarrowsThenBranch(t *testing.T) {
	// def f(x); if x.is_a?(Integer); return x; end; return 0; end
	// narrowing makes the then branch's x an Integer, so the inferred
	// return type is Integer rather than untyped
	a := ir.NewArena()
	c := check.New()
	body := a.NewBlock(ir.Range{},
		a.NewIf(ir.Range{},
			isAGuard(a, "x", "Integer"),
			a.NewBlock(ir.Range{},
				a.NewReturn(ir.Range{}, a.NewVarRef(ir.Range{}, ir.TierLocal, "x"))),
			nil,
		),
		a.NewReturn(ir.Range{}, a.NewIntLit(ir.Range{}, 0)),
	)
	def := a.NewMethodDef(ir.Range{}, "f",
		[]ir.Param{{Name: "x"}}, "Integer", body)

	actual := c.CheckMethod(def)

	assert.True(t, types.Equal(types.IntegerType, actual), "got %s", actual)
	assert.Empty(t, c.Diagnostics())
}

func TestCheckMethodBareCallsGoThroughRegistry(t *testing.T) {
	// def caller; add(1); end against add(Integer, Integer) -> Integer
	a := ir.NewArena()
	c := check.New()
	c.RegisterFunction("add", addSignature())
	body := a.NewBlock(ir.Range{},
		a.NewMethodCall(ir.Range{}, nil, "add", a.NewIntLit(ir.Range{}, 1)),
	)
	def := a.NewMethodDef(ir.Range{}, "caller", nil, "", body)

	c.CheckMethod(def)

	ds := c.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.ArgumentCount, ds[0].Code())
}

func TestCheckFileRegistersBeforeChecking(t *testing.T) {
	// later() calls earlier() lexically before its definition; up-front
	// registration means no unknown-function warning
	a := ir.NewArena()
	c := check.New()
	later := a.NewMethodDef(ir.Range{}, "later", nil, "Integer",
		a.NewBlock(ir.Range{},
			a.NewReturn(ir.Range{}, a.NewMethodCall(ir.Range{}, nil, "earlier"))))
	earlier := a.NewMethodDef(ir.Range{}, "earlier", nil, "Integer",
		a.NewBlock(ir.Range{}, a.NewIntLit(ir.Range{}, 7)))
	f := &ir.File{Arena: a, Name: "cross.ir.json", Methods: []*ir.MethodDef{later, earlier}}

	c.CheckFile(f)

	assert.Empty(t, c.Diagnostics())
	_, ok := c.LookupFunction("earlier")
	assert.True(t, ok)
}
