package check

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/garnet-lang/garnet/frontend/diag"
	"github.com/garnet-lang/garnet/frontend/infer"
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/prop"
	"github.com/garnet-lang/garnet/frontend/types"
)

// guard is one elementary recognized condition: subject narrowed to a type
// when the guard holds.
type guard struct {
	// subject is the guarded expression's textual form; narrowing keys
	// on it, so `x` and `@x` narrow independently.
	subject  string
	narrowTo types.Type
	// atom is the guard's own textual form, the propositional variable
	// it contributes to the feasibility formula.
	atom string
	at   ir.Range
}

// NarrowInConditional derives the then-branch flow context for a condition.
// Two guard shapes are recognized over the condition's textual form:
// `<expr>.is_a?(Type)` narrows <expr> to Type, and `<expr>.nil?` narrows it
// to nil. No complementary narrowing is derived for the else branch.
//
// Conjunctions of guards over one condition are additionally checked for
// feasibility: each elementary guard becomes a propositional atom, mutually
// exclusive narrowings are related through negation, and the clause set goes
// to the SAT solver. An unsatisfiable combination reports an
// impossible-guard warning.
func (c *Checker) NarrowInConditional(cond ir.Node, flow *infer.FlowContext) *infer.FlowContext {
	branch := flow.Branch()
	guards := collectGuards(cond)
	for _, g := range guards {
		branch.Narrow(g.subject, g.narrowTo)
	}
	if len(guards) > 1 {
		c.checkGuardFeasibility(cond, guards)
	}
	return branch
}

// collectGuards splits a condition on logical-and and keeps the elementary
// guards it recognizes; anything else contributes no narrowing.
func collectGuards(cond ir.Node) []guard {
	switch cond := cond.(type) {
	case *ir.BinaryOp:
		if cond.Op == ir.OpAnd {
			return append(collectGuards(cond.Left), collectGuards(cond.Right)...)
		}
		return nil
	case *ir.MethodCall:
		if cond.Receiver == nil {
			return nil
		}
		switch {
		case cond.Name == "is_a?" && len(cond.Args) == 1:
			ref, ok := cond.Args[0].(*ir.ConstRef)
			if !ok {
				return nil
			}
			return []guard{{
				subject:  cond.Receiver.CanonicalSyntax(),
				narrowTo: types.NewConcrete(ref.Name),
				atom:     cond.CanonicalSyntax(),
				at:       ir.RangeOf(cond),
			}}
		case cond.Name == "nil?" && len(cond.Args) == 0:
			return []guard{{
				subject:  cond.Receiver.CanonicalSyntax(),
				narrowTo: types.NilType,
				atom:     cond.CanonicalSyntax(),
				at:       ir.RangeOf(cond),
			}}
		}
		return nil
	default:
		return nil
	}
}

// checkGuardFeasibility encodes a guard conjunction propositionally and asks
// the SAT solver whether it can ever hold.
func (c *Checker) checkGuardFeasibility(cond ir.Node, guards []guard) {
	formula := prop.Formula(prop.True)
	for _, g := range guards {
		formula = &prop.And{Left: formula, Right: &prop.Atom{Name: g.atom}}
	}
	for i, a := range guards {
		for _, b := range guards[i+1:] {
			if !c.mutuallyExclusive(a, b) {
				continue
			}
			// at most one of an exclusive pair may hold
			exclusion := &prop.Or{
				Left:  &prop.Not{Operand: &prop.Atom{Name: a.atom}},
				Right: &prop.Not{Operand: &prop.Atom{Name: b.atom}},
			}
			formula = &prop.And{Left: formula, Right: exclusion}
		}
	}

	cs, err := prop.ToCNF(prop.Simplify(formula))
	if err != nil {
		logger.Debug("guard formula escaped near-CNF shape", slog.String("err", err.Error()))
		return
	}
	if _, err := prop.Solve(cs); err != nil {
		if errors.Is(err, prop.ErrUnsatisfiable) {
			c.report(diag.New(diag.NewImpossibleGuard{
				Positioner: ir.RangeOf(cond),
				Guard:      cond.CanonicalSyntax(),
			}))
			return
		}
		logger.Warn("guard feasibility undecided", slog.String("err", err.Error()))
	}
}

// mutuallyExclusive reports whether two guards on the same subject can never
// hold together: their narrowed types are distinct and unrelated, or one
// asserts nil and the other a real type.
func (c *Checker) mutuallyExclusive(a, b guard) bool {
	if a.subject != b.subject || types.Equal(a.narrowTo, b.narrowTo) {
		return false
	}
	if types.Equal(a.narrowTo, types.NilType) || types.Equal(b.narrowTo, types.NilType) {
		return true
	}
	return !c.hierarchy.Compatible(a.narrowTo, b.narrowTo)
}
