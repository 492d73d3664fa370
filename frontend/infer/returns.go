package infer

import (
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/types"
)

// ReturnType infers a method's return type, termination-aware:
//
//   - an explicit return terminates its branch
//   - a sequence terminates at its first terminating statement; later
//     statements are unreachable and never inspected
//   - a conditional terminates only if every present branch terminates
//   - a non-terminating body contributes its trailing expression's type as
//     the implicit return
//
// Every collected candidate is combined through UnifyTypes.
func (inf *Inferrer) ReturnType(def *ir.MethodDef) types.Type {
	if def.Body == nil {
		return types.NilType
	}

	// bind annotated parameters so body references resolve
	for _, p := range def.Params {
		inf.scope.Define(ir.TierLocal, p.Name, annotationType(p.TypeName))
	}

	var collected []types.Type
	terminated := false
	for _, stmt := range def.Body.Stmts {
		ts, term := inf.explicitReturns(stmt)
		collected = append(collected, ts...)
		if term {
			terminated = true
			break
		}
	}
	if !terminated {
		trailing := def.Body.Stmts
		if len(trailing) == 0 {
			collected = append(collected, types.NilType)
		} else {
			collected = append(collected, inf.TypeOf(trailing[len(trailing)-1]).Type)
		}
	}
	return UnifyTypes(collected)
}

// explicitReturns collects the types of explicit returns reachable within a
// statement and reports whether the statement terminates its branch.
func (inf *Inferrer) explicitReturns(n ir.Node) ([]types.Type, bool) {
	switch n := n.(type) {
	case *ir.Return:
		return []types.Type{inf.TypeOf(n.Value).Type}, true
	case *ir.If:
		thenTypes, thenTerm := inf.blockReturns(n.Then)
		if n.Else == nil {
			return thenTypes, thenTerm
		}
		elseTypes, elseTerm := inf.blockReturns(n.Else)
		return append(thenTypes, elseTypes...), thenTerm && elseTerm
	case *ir.Block:
		return inf.blockReturns(n)
	case *ir.Assign:
		return inf.explicitReturns(n.Value)
	default:
		return nil, false
	}
}

func (inf *Inferrer) blockReturns(b *ir.Block) ([]types.Type, bool) {
	if b == nil {
		return nil, false
	}
	var collected []types.Type
	for _, stmt := range b.Stmts {
		ts, term := inf.explicitReturns(stmt)
		collected = append(collected, ts...)
		if term {
			return collected, true
		}
	}
	return collected, false
}
