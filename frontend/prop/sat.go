package prop

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/garnet-lang/garnet/internal/log"
)

var satLogger = log.DefaultLogger.With("section", "sat")

// ErrUnsatisfiable is returned when no assignment satisfies the clause set.
var ErrUnsatisfiable = errors.New("clause set is unsatisfiable")

// ErrBudgetExhausted is returned when solving exceeded the decision budget.
// Backtracking search is exponential in the worst case; the budget turns a
// pathological input into a clean failure instead of an unbounded run.
var ErrBudgetExhausted = errors.New("sat: decision budget exhausted")

// defaultStartingFuel bounds the number of branching decisions one Solve
// call may make. The constraint sets generated per method are tiny, so the
// budget only ever trips on adversarial input.
const defaultStartingFuel = 10000

// Assignment maps atom names to truth values.
type Assignment map[string]bool

// Solve decides satisfiability of a clause set by recursive backtracking:
// pick the first unassigned atom in clause order, try true then false,
// simplifying as it goes. It returns a satisfying assignment, or
// ErrUnsatisfiable, or ErrBudgetExhausted. An empty clause set is trivially
// satisfiable with the empty assignment.
//
// State is threaded by value at each recursive step; nothing is shared
// across branches.
func Solve(cs ClauseSet) (Assignment, error) {
	s := &satSolver{fuel: defaultStartingFuel}
	assignment, err := s.solve(cs, Assignment{})
	if err != nil {
		satLogger.Debug("sat solving failed",
			slog.String("err", err.Error()),
			slog.Int("clauses", len(cs)),
			slog.Int("atoms", len(cs.Atoms())),
		)
		return nil, err
	}
	return assignment, nil
}

type satSolver struct {
	fuel int
}

func (s *satSolver) consumeFuel() error {
	s.fuel--
	if s.fuel < 0 {
		return ErrBudgetExhausted
	}
	return nil
}

func (s *satSolver) solve(cs ClauseSet, assignment Assignment) (Assignment, error) {
	for _, clause := range cs {
		if len(clause) == 0 {
			return nil, ErrUnsatisfiable
		}
	}
	if len(cs) == 0 {
		return assignment, nil
	}

	// every literal still present is unassigned: assign strikes assigned
	// atoms out of all clauses
	atom := cs[0][0].Name

	for _, value := range []bool{true, false} {
		if err := s.consumeFuel(); err != nil {
			return nil, err
		}
		next, conflict := assign(cs, atom, value)
		if conflict {
			continue
		}
		result, err := s.solve(next, assignment.with(atom, value))
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrBudgetExhausted) {
			return nil, err
		}
	}
	return nil, ErrUnsatisfiable
}

// assign applies atom=value to the clause set: satisfied clauses drop,
// falsified literals are struck, and a clause struck empty is a conflict.
// The input set is never mutated.
func assign(cs ClauseSet, atom string, value bool) (ClauseSet, bool) {
	next := make(ClauseSet, 0, len(cs))
	for _, clause := range cs {
		satisfied := false
		kept := make(Clause, 0, len(clause))
		for _, lit := range clause {
			if lit.Name != atom {
				kept = append(kept, lit)
				continue
			}
			if lit.Negated != value {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		if len(kept) == 0 {
			return nil, true
		}
		next = append(next, kept)
	}
	return next, false
}

func (a Assignment) with(atom string, value bool) Assignment {
	next := make(Assignment, len(a)+1)
	for k, v := range a {
		next[k] = v
	}
	next[atom] = value
	return next
}

// Satisfies reports whether the assignment makes every clause true.
func (a Assignment) Satisfies(cs ClauseSet) bool {
	for _, clause := range cs {
		clauseTrue := false
		for _, lit := range clause {
			if a[lit.Name] != lit.Negated {
				clauseTrue = true
				break
			}
		}
		if !clauseTrue {
			return false
		}
	}
	return true
}
