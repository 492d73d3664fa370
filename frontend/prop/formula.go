// Package prop holds the propositional-logic machinery the checker uses to
// decide whether compound guard combinations are feasible: an immutable
// formula AST, a restricted CNF conversion, and a backtracking SAT solver.
package prop

import (
	"fmt"
)

// Formula is a propositional formula. The set of implementations is closed
// and every formula is immutable after construction; compare with Equal.
type Formula interface {
	fmt.Stringer
	formula()
}

var (
	_ Formula = (*Atom)(nil)
	_ Formula = (*Not)(nil)
	_ Formula = (*And)(nil)
	_ Formula = (*Or)(nil)
	_ Formula = (*BoolConst)(nil)
)

// Atom is a named propositional variable.
type Atom struct {
	Name string
}

type Not struct {
	Operand Formula
}

type And struct {
	Left, Right Formula
}

type Or struct {
	Left, Right Formula
}

type BoolConst struct {
	Value bool
}

func (*Atom) formula()      {}
func (*Not) formula()       {}
func (*And) formula()       {}
func (*Or) formula()        {}
func (*BoolConst) formula() {}

var (
	True  = &BoolConst{Value: true}
	False = &BoolConst{Value: false}
)

// Implies builds a → b as its disjunctive expansion ¬a ∨ b.
func Implies(a, b Formula) Formula {
	return &Or{Left: &Not{Operand: a}, Right: b}
}

// Iff builds a ↔ b as the conjunction of both implications.
func Iff(a, b Formula) Formula {
	return &And{Left: Implies(a, b), Right: Implies(b, a)}
}

func (f *Atom) String() string { return f.Name }
func (f *Not) String() string  { return "!" + parenthesize(f.Operand) }
func (f *And) String() string  { return parenthesize(f.Left) + " && " + parenthesize(f.Right) }
func (f *Or) String() string   { return parenthesize(f.Left) + " || " + parenthesize(f.Right) }

func (f *BoolConst) String() string {
	if f.Value {
		return "true"
	}
	return "false"
}

func parenthesize(f Formula) string {
	switch f.(type) {
	case *And, *Or:
		return "(" + f.String() + ")"
	default:
		return f.String()
	}
}

// Equal compares two formulas structurally.
func Equal(a, b Formula) bool {
	switch a := a.(type) {
	case *Atom:
		bb, ok := b.(*Atom)
		return ok && a.Name == bb.Name
	case *Not:
		bb, ok := b.(*Not)
		return ok && Equal(a.Operand, bb.Operand)
	case *And:
		bb, ok := b.(*And)
		return ok && Equal(a.Left, bb.Left) && Equal(a.Right, bb.Right)
	case *Or:
		bb, ok := b.(*Or)
		return ok && Equal(a.Left, bb.Left) && Equal(a.Right, bb.Right)
	case *BoolConst:
		bb, ok := b.(*BoolConst)
		return ok && a.Value == bb.Value
	default:
		panic(fmt.Sprintf("unhandled formula variant %T", a))
	}
}

// Simplify performs one bottom-up pass of algebraic reduction: double
// negation, constant identity and absorption, and idempotent And on equal
// operands. It is a single pass, not a fixed-point normalizer.
func Simplify(f Formula) Formula {
	switch f := f.(type) {
	case *Atom, *BoolConst:
		return f
	case *Not:
		operand := Simplify(f.Operand)
		switch operand := operand.(type) {
		case *Not:
			return operand.Operand
		case *BoolConst:
			if operand.Value {
				return False
			}
			return True
		}
		return &Not{Operand: operand}
	case *And:
		left, right := Simplify(f.Left), Simplify(f.Right)
		if c, ok := left.(*BoolConst); ok {
			if c.Value {
				return right
			}
			return False
		}
		if c, ok := right.(*BoolConst); ok {
			if c.Value {
				return left
			}
			return False
		}
		if Equal(left, right) {
			return left
		}
		return &And{Left: left, Right: right}
	case *Or:
		left, right := Simplify(f.Left), Simplify(f.Right)
		if c, ok := left.(*BoolConst); ok {
			if c.Value {
				return True
			}
			return right
		}
		if c, ok := right.(*BoolConst); ok {
			if c.Value {
				return True
			}
			return left
		}
		return &Or{Left: left, Right: right}
	default:
		panic(fmt.Sprintf("unhandled formula variant %T", f))
	}
}
