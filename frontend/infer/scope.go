package infer

import (
	"github.com/garnet-lang/garnet/frontend/ir"
	"github.com/garnet-lang/garnet/frontend/types"
)

// Scope is a lexical scope with the dialect's three variable namespaces.
// Each tier falls back to the same tier of the parent scope; a name found in
// no tier of no scope types as untyped.
type Scope struct {
	parent *Scope
	tiers  [3]map[string]types.Type
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

func (s *Scope) Define(tier ir.VarTier, name string, t types.Type) {
	if s.tiers[tier] == nil {
		s.tiers[tier] = map[string]types.Type{}
	}
	s.tiers[tier][name] = t
}

func (s *Scope) Lookup(tier ir.VarTier, name string) (types.Type, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if t, ok := scope.tiers[tier][name]; ok {
			return t, true
		}
	}
	return nil, false
}
