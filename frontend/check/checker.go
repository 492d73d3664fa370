// Package check is the public surface other passes call: it layers
// function-registry bookkeeping, call-site validation, operator rules, and
// flow narrowing on top of the structural inferrer and the type hierarchy.
package check

import (
	"log/slog"
	"strconv"

	"github.com/garnet-lang/garnet/frontend/diag"
	"github.com/garnet-lang/garnet/frontend/infer"
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/types"
	"github.com/garnet-lang/garnet/internal/log"
)

var logger = log.DefaultLogger.With("section", "check")

// Signature is a registered function signature.
type Signature struct {
	Params []types.Type
	Return types.Type
}

// Checker validates one compilation unit. It accumulates every finding
// rather than stopping at the first; findings never abort checking. A
// Checker belongs to one session and is not safe for concurrent use.
type Checker struct {
	hierarchy *types.Hierarchy
	methods   *infer.MethodTable
	functions map[string]Signature
	diags     *diag.Diagnostics
}

// New returns a checker over the built-in hierarchy and method tables.
func New() *Checker {
	return NewWith(types.NewHierarchy(), infer.NewBuiltinMethodTable())
}

// NewWith returns a checker over caller-supplied tables, typically extended
// from a signature file first.
func NewWith(hierarchy *types.Hierarchy, methods *infer.MethodTable) *Checker {
	return &Checker{
		hierarchy: hierarchy,
		methods:   methods,
		functions: map[string]Signature{},
		diags:     &diag.Diagnostics{},
	}
}

func (c *Checker) Hierarchy() *types.Hierarchy { return c.hierarchy }

func (c *Checker) Methods() *infer.MethodTable { return c.methods }

// RegisterFunction stores a signature; later registrations overwrite.
func (c *Checker) RegisterFunction(name string, sig Signature) {
	c.functions[name] = sig
}

func (c *Checker) LookupFunction(name string) (Signature, bool) {
	sig, ok := c.functions[name]
	return sig, ok
}

// Functions yields every registration for signature export.
func (c *Checker) Functions(yield func(name string, sig Signature)) {
	for name, sig := range c.functions {
		yield(name, sig)
	}
}

// Reset clears accumulated diagnostics but keeps registrations.
func (c *Checker) Reset() {
	c.diags = &diag.Diagnostics{}
}

// Diagnostics returns every accumulated finding, errors first, then
// warnings.
func (c *Checker) Diagnostics() []diag.Diagnostic {
	return c.diags.Ordered()
}

// HasError reports whether any Error-severity finding accumulated.
func (c *Checker) HasError() bool {
	return c.diags.HasError()
}

func (c *Checker) report(d diag.Diagnostic) {
	c.diags = c.diags.With(d)
	logger.Debug("reported", slog.String("finding", diag.FormatWithCode(d)))
}

// CheckCall validates a call site: argument count first, then per-argument
// subtype compatibility. A call to an unregistered function is a warning,
// never an error.
func (c *Checker) CheckCall(at ir.Positioner, name string, args []types.Type) {
	sig, ok := c.functions[name]
	if !ok {
		c.report(diag.New(diag.NewUnknownFunction{Positioner: at, Name: name}))
		return
	}
	if len(args) != len(sig.Params) {
		c.report(diag.New(diag.NewArgumentCount{
			Positioner: at,
			Callee:     name,
			Want:       len(sig.Params),
			Got:        len(args),
		}))
		return
	}
	for i, arg := range args {
		if c.assignable(arg, sig.Params[i]) {
			continue
		}
		c.report(diag.New(diag.NewTypeMismatch{
			Positioner: at,
			Expected:   sig.Params[i].String(),
			Actual:     arg.String(),
			Context:    "argument " + strconv.Itoa(i+1) + " of '" + name + "'",
		}))
	}
}

// CheckReturn validates an inferred return type against the declared one.
func (c *Checker) CheckReturn(at ir.Positioner, declared, actual types.Type) {
	if c.assignable(actual, declared) {
		return
	}
	c.report(diag.New(diag.NewTypeMismatch{
		Positioner: at,
		Expected:   declared.String(),
		Actual:     actual.String(),
		Context:    "return value",
	}))
}

// CheckAssignment validates a value against its target's declared type.
func (c *Checker) CheckAssignment(at ir.Positioner, name string, declared, value types.Type) {
	if c.assignable(value, declared) {
		return
	}
	c.report(diag.New(diag.NewTypeMismatch{
		Positioner: at,
		Expected:   declared.String(),
		Actual:     value.String(),
		Context:    "assignment to '" + name + "'",
	}))
}

// assignable is subtype compatibility softened by the gradual escape hatch:
// untyped is acceptable in either position.
func (c *Checker) assignable(actual, expected types.Type) bool {
	if types.Equal(actual, types.UntypedType) || types.Equal(expected, types.UntypedType) {
		return true
	}
	return c.hierarchy.SubtypeOf(actual, expected)
}

// CheckOperator validates a binary operator against the fixed compatibility
// table and errors on disallowed combinations such as String + Integer.
func (c *Checker) CheckOperator(at ir.Positioner, op ir.Op, left, right types.Type) {
	if types.Equal(left, types.UntypedType) || types.Equal(right, types.UntypedType) {
		return
	}
	switch {
	case op.IsLogical(), op == ir.OpEq, op == ir.OpNeq:
		return
	case op == ir.OpLt, op == ir.OpGt, op == ir.OpLeq, op == ir.OpGeq:
		if c.hierarchy.Compatible(left, right) {
			return
		}
		c.report(diag.New(diag.NewTypeMismatch{
			Positioner: at,
			Expected:   left.String(),
			Actual:     right.String(),
			Context:    "operator '" + string(op) + "'",
			Hint:       "operands of a comparison must be related types",
		}))
	case op.IsArithmetic():
		if c.operandsAllowed(op, left, right) {
			return
		}
		hint := ""
		if op == ir.OpAdd && types.Equal(left, types.StringType) {
			hint = "call to_s on the right operand to concatenate"
		}
		c.report(diag.New(diag.NewTypeMismatch{
			Positioner: at,
			Expected:   left.String(),
			Actual:     right.String(),
			Context:    "operator '" + string(op) + "'",
			Hint:       hint,
		}))
	}
}

func (c *Checker) operandsAllowed(op ir.Op, left, right types.Type) bool {
	if c.hierarchy.SubtypeOf(left, types.NumericType) && c.hierarchy.SubtypeOf(right, types.NumericType) {
		return true
	}
	if op != ir.OpAdd {
		return false
	}
	if types.Equal(left, types.StringType) && types.Equal(right, types.StringType) {
		return true
	}
	leftBase, okL := types.BaseName(left)
	rightBase, okR := types.BaseName(right)
	return okL && okR && leftBase == "Array" && rightBase == "Array"
}
