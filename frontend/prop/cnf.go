package prop

import (
	"slices"
	"strings"

	set "github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// Literal is a possibly negated atom inside a clause.
type Literal struct {
	Name    string
	Negated bool
}

func (l Literal) String() string {
	if l.Negated {
		return "!" + l.Name
	}
	return l.Name
}

// Clause is a disjunction of literals.
type Clause []Literal

// ClauseSet is a conjunction of clauses. An empty set is trivially
// satisfiable; an empty clause inside the set is a conflict.
type ClauseSet []Clause

func (cs ClauseSet) String() string {
	parts := make([]string, len(cs))
	for i, clause := range cs {
		lits := make([]string, len(clause))
		for j, l := range clause {
			lits[j] = l.String()
		}
		parts[i] = "(" + strings.Join(lits, " || ") + ")"
	}
	return strings.Join(parts, " && ")
}

// Atoms returns the distinct atom names mentioned anywhere in the set, in
// sorted order.
func (cs ClauseSet) Atoms() []string {
	atoms := set.New[string](len(cs))
	for _, clause := range cs {
		for _, lit := range clause {
			atoms.Insert(lit.Name)
		}
	}
	names := atoms.Slice()
	slices.Sort(names)
	return names
}

// ToCNF converts a formula into clause form. The conversion is restricted by
// contract: atoms and negated atoms become unit clauses, And concatenates,
// Or merges two single-clause sides into one disjunctive clause, and a
// negated connective pushes the negation onto both operands and concatenates
// the results. It performs no general distribution over nested Or-of-And
// formulas: it is correct only for input already in a near-CNF shape (flat
// conjunctions and disjunctions of atoms with negation pushed at most one
// level) and reports an error on disjunctions it cannot keep clause shaped.
func ToCNF(f Formula) (ClauseSet, error) {
	switch f := f.(type) {
	case *Atom:
		return ClauseSet{{Literal{Name: f.Name}}}, nil
	case *BoolConst:
		if f.Value {
			return ClauseSet{}, nil
		}
		return ClauseSet{Clause{}}, nil
	case *Not:
		return negatedToCNF(f.Operand)
	case *And:
		left, err := ToCNF(f.Left)
		if err != nil {
			return nil, err
		}
		right, err := ToCNF(f.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case *Or:
		left, err := ToCNF(f.Left)
		if err != nil {
			return nil, err
		}
		right, err := ToCNF(f.Right)
		if err != nil {
			return nil, err
		}
		// each side must contribute a single clause for the
		// disjunction to stay clause shaped
		if len(left) != 1 || len(right) != 1 {
			return nil, errors.Errorf("formula is not in near-CNF shape: disjunction over conjunctions in %s", f)
		}
		return ClauseSet{append(left[0], right[0]...)}, nil
	default:
		return nil, errors.Errorf("unhandled formula variant %T", f)
	}
}

// negatedToCNF converts ¬f, pushing the negation one level with De Morgan's
// law where f is a connective.
func negatedToCNF(f Formula) (ClauseSet, error) {
	switch f := f.(type) {
	case *Atom:
		return ClauseSet{{Literal{Name: f.Name, Negated: true}}}, nil
	case *BoolConst:
		if f.Value {
			return ClauseSet{Clause{}}, nil
		}
		return ClauseSet{}, nil
	case *Not:
		return ToCNF(f.Operand)
	case *And, *Or:
		// push the negation onto both operands and concatenate the
		// resulting clause lists. For ¬(a || b) this is De Morgan's law;
		// for ¬(a && b) it keeps the historical behavior of producing
		// ¬a ∧ ¬b, part of the restricted contract above.
		var left, right Formula
		switch f := f.(type) {
		case *And:
			left, right = f.Left, f.Right
		case *Or:
			left, right = f.Left, f.Right
		}
		lcs, err := negatedToCNF(left)
		if err != nil {
			return nil, err
		}
		rcs, err := negatedToCNF(right)
		if err != nil {
			return nil, err
		}
		return append(lcs, rcs...), nil
	default:
		return nil, errors.Errorf("unhandled formula variant %T", f)
	}
}
