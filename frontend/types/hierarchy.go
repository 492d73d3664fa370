package types

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/garnet-lang/garnet/util"
)

// Hierarchy is the fixed subtype table of the checked dialect plus the two
// universal rules: every type is a subtype of Object, and nil is a subtype
// of everything. Queries compute the transitive closure on demand; it is
// never materialized.
//
// A Hierarchy is not safe for concurrent mutation: Register all pairs before
// sharing it across inference sessions.
type Hierarchy struct {
	// parents keeps supertypes per subtype in registration order; the first
	// entry is the declared parent used by ancestor-chain walks.
	parents map[string][]string
}

// NewHierarchy returns a hierarchy preloaded with the built-in base pairs of
// the dialect.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{parents: map[string][]string{}}
	for _, p := range builtinPairs {
		h.Register(p.Fst, p.Snd)
	}
	return h
}

var builtinPairs = []util.Pair[string, string]{
	util.NewPair("Integer", "Numeric"),
	util.NewPair("Float", "Numeric"),
	util.NewPair("Numeric", "Comparable"),
	util.NewPair("String", "Comparable"),
	util.NewPair("Symbol", "Comparable"),
}

// Register records sub as a subtype of super. Re-registering a pair is a
// no-op; registering a second supertype appends it after the declared parent.
func (h *Hierarchy) Register(sub, super string) {
	for _, existing := range h.parents[sub] {
		if existing == super {
			return
		}
	}
	h.parents[sub] = append(h.parents[sub], super)
}

// Pairs returns every registered (subtype, supertype) base pair in
// deterministic registration order per subtype.
func (h *Hierarchy) Pairs() []util.Pair[string, string] {
	var pairs []util.Pair[string, string]
	for _, p := range builtinPairs {
		pairs = append(pairs, p)
	}
	for sub, supers := range h.parents {
		for _, super := range supers {
			p := util.NewPair(sub, super)
			seen := false
			for _, existing := range pairs {
				if existing == p {
					seen = true
					break
				}
			}
			if !seen {
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

// SubtypeOf reports whether a is a subtype of b: true iff the types are
// equal, b is Object, a is nil, or (a, b) lies in the transitive closure of
// the registered base pairs.
func (h *Hierarchy) SubtypeOf(a, b Type) bool {
	if Equal(a, b) {
		return true
	}
	if Equal(b, ObjectType) {
		return true
	}
	if Equal(a, NilType) {
		return true
	}
	ca, okA := a.(*Concrete)
	cb, okB := b.(*Concrete)
	if !okA || !okB {
		return false
	}
	return h.inClosure(ca.Name, cb.Name)
}

// inClosure walks the parent table breadth-first from sub looking for super.
func (h *Hierarchy) inClosure(sub, super string) bool {
	visited := set.From([]string{sub})
	frontier := []string{sub}
	for len(frontier) > 0 {
		name := frontier[0]
		frontier = frontier[1:]
		for _, parent := range h.parents[name] {
			if parent == super {
				return true
			}
			if visited.Insert(parent) {
				frontier = append(frontier, parent)
			}
		}
	}
	return false
}

// Compatible reports whether either type is a subtype of the other.
func (h *Hierarchy) Compatible(a, b Type) bool {
	return h.SubtypeOf(a, b) || h.SubtypeOf(b, a)
}

// CommonSupertype returns the first ancestor of a (walking self, declared
// parent, and so on up to Object) that is also an ancestor of b. The
// universal top guarantees termination.
func (h *Hierarchy) CommonSupertype(a, b Type) Type {
	if Equal(a, b) {
		return a
	}
	for _, ancestor := range h.ancestorChain(a) {
		if h.isAncestorOf(ancestor, b) {
			return ancestor
		}
	}
	return ObjectType
}

// ancestorChain is self, declared parent, its declared parent, ..., Object.
// Non-concrete types sit directly under the top.
func (h *Hierarchy) ancestorChain(t Type) []Type {
	c, ok := t.(*Concrete)
	if !ok {
		return []Type{t, ObjectType}
	}
	chain := []Type{c}
	visited := set.From([]string{c.Name})
	name := c.Name
	for {
		supers := h.parents[name]
		if len(supers) == 0 {
			break
		}
		name = supers[0]
		if !visited.Insert(name) {
			break
		}
		chain = append(chain, NewConcrete(name))
	}
	if name != ObjectType.Name {
		chain = append(chain, ObjectType)
	}
	return chain
}

func (h *Hierarchy) isAncestorOf(ancestor, t Type) bool {
	for _, candidate := range h.ancestorChain(t) {
		if Equal(candidate, ancestor) {
			return true
		}
	}
	return false
}
