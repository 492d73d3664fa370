// Package diag carries the user-facing findings of the engine. Diagnostics
// are informational: they never abort checking, and an enclosing driver
// decides whether Error-severity findings block output.
package diag

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/garnet-lang/garnet/frontend/ir"
)

// enableDebugDiagnosticPrinting makes diagnostics include the line they were
// raised from when printed
const enableDebugDiagnosticPrinting bool = false

type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

type Code int

const (
	None Code = iota
	ArgumentCount
	TypeMismatch
	UnsatisfiableConstraint
	UnknownFunction
	ImpossibleGuard
	Malformed
)

// Diagnostic is one finding. Concrete diagnostics carry their payload as
// exported fields; build them through New so the originating stack is
// recorded.
type Diagnostic interface {
	Error() string
	Code() Code
	Severity() Severity
	ir.Positioner

	withStack([]byte) Diagnostic
	getStack() []byte
}

// Suggester is implemented by diagnostics that carry a human-readable fix
// suggestion.
type Suggester interface {
	Suggestion() string
}

// TypePair is implemented by diagnostics that carry an expected/actual
// type pair.
type TypePair interface {
	ExpectedActual() (expected, actual string)
}

func New[D Diagnostic](d D) Diagnostic {
	return d.withStack(debug.Stack())
}

// FormatWithCode renders a diagnostic the way the CLI prints it:
// severity, stable code, message, and the suggestion when there is one.
func FormatWithCode(d Diagnostic) string {
	sb := strings.Builder{}
	if enableDebugDiagnosticPrinting && d.getStack() != nil {
		sb.WriteString(strings.Split(string(d.getStack()), "\n")[6])
		sb.WriteString(": ")
	}
	letter := "E"
	if d.Severity() == SeverityWarning {
		letter = "W"
	}
	fmt.Fprintf(&sb, "(%s%03d) %s", letter, d.Code(), d.Error())
	if s, ok := d.(Suggester); ok && s.Suggestion() != "" {
		sb.WriteString(" (")
		sb.WriteString(s.Suggestion())
		sb.WriteString(")")
	}
	return sb.String()
}

type NewArgumentCount struct {
	ir.Positioner
	Callee string
	Want   int
	Got    int
	stack  []byte
}

func (d NewArgumentCount) Error() string {
	return fmt.Sprintf("wrong number of arguments calling '%s': expected %d, got %d", d.Callee, d.Want, d.Got)
}
func (d NewArgumentCount) Code() Code         { return ArgumentCount }
func (d NewArgumentCount) Severity() Severity { return SeverityError }
func (d NewArgumentCount) getStack() []byte   { return d.stack }
func (d NewArgumentCount) withStack(stack []byte) Diagnostic {
	d.stack = stack
	return d
}

type NewTypeMismatch struct {
	ir.Positioner
	Expected string
	Actual   string
	// Context names the position being checked: an argument, a return
	// value, an assignment target.
	Context string
	Hint    string
	stack   []byte
}

func (d NewTypeMismatch) Error() string {
	where := d.Context
	if where == "" {
		where = "expression"
	}
	return fmt.Sprintf("type mismatch in %s: expected '%s', got '%s'", where, d.Expected, d.Actual)
}
func (d NewTypeMismatch) Code() Code         { return TypeMismatch }
func (d NewTypeMismatch) Severity() Severity { return SeverityError }
func (d NewTypeMismatch) ExpectedActual() (string, string) {
	return d.Expected, d.Actual
}
func (d NewTypeMismatch) Suggestion() string { return d.Hint }
func (d NewTypeMismatch) getStack() []byte   { return d.stack }
func (d NewTypeMismatch) withStack(stack []byte) Diagnostic {
	d.stack = stack
	return d
}

type NewUnsatisfiableConstraint struct {
	ir.Positioner
	Sub      string
	Super    string
	Variable string
	stack    []byte
}

func (d NewUnsatisfiableConstraint) Error() string {
	msg := fmt.Sprintf("unsatisfiable constraint: '%s' does not unify under '%s'", d.Sub, d.Super)
	if d.Variable != "" {
		msg += fmt.Sprintf(" (via %s)", d.Variable)
	}
	return msg
}
func (d NewUnsatisfiableConstraint) Code() Code         { return UnsatisfiableConstraint }
func (d NewUnsatisfiableConstraint) Severity() Severity { return SeverityError }
func (d NewUnsatisfiableConstraint) ExpectedActual() (string, string) {
	return d.Super, d.Sub
}
func (d NewUnsatisfiableConstraint) getStack() []byte { return d.stack }
func (d NewUnsatisfiableConstraint) withStack(stack []byte) Diagnostic {
	d.stack = stack
	return d
}

type NewUnknownFunction struct {
	ir.Positioner
	Name  string
	stack []byte
}

func (d NewUnknownFunction) Error() string {
	return fmt.Sprintf("call to unknown function '%s'", d.Name)
}
func (d NewUnknownFunction) Code() Code         { return UnknownFunction }
func (d NewUnknownFunction) Severity() Severity { return SeverityWarning }
func (d NewUnknownFunction) Suggestion() string {
	return "register its signature or add it to a signature file"
}
func (d NewUnknownFunction) getStack() []byte { return d.stack }
func (d NewUnknownFunction) withStack(stack []byte) Diagnostic {
	d.stack = stack
	return d
}

type NewImpossibleGuard struct {
	ir.Positioner
	Guard string
	stack []byte
}

func (d NewImpossibleGuard) Error() string {
	return fmt.Sprintf("condition '%s' can never hold", d.Guard)
}
func (d NewImpossibleGuard) Code() Code         { return ImpossibleGuard }
func (d NewImpossibleGuard) Severity() Severity { return SeverityWarning }
func (d NewImpossibleGuard) Suggestion() string {
	return "this branch is unreachable"
}
func (d NewImpossibleGuard) getStack() []byte { return d.stack }
func (d NewImpossibleGuard) withStack(stack []byte) Diagnostic {
	d.stack = stack
	return d
}

type NewMalformed struct {
	ir.Positioner
	From  error
	stack []byte
}

func (d NewMalformed) Error() string {
	return fmt.Sprintf("malformed input: %v", d.From)
}
func (d NewMalformed) Code() Code         { return Malformed }
func (d NewMalformed) Severity() Severity { return SeverityError }
func (d NewMalformed) getStack() []byte   { return d.stack }
func (d NewMalformed) withStack(stack []byte) Diagnostic {
	d.stack = stack
	return d
}
