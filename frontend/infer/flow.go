package infer

import (
	"github.com/benbjohnson/immutable"

	"github.com/garnet-lang/garnet/frontend/types"
)

// FlowContext is the per-branch map of variables whose static type a guard
// has narrowed. A context belongs to one linear statement sequence; Branch
// forks it for a conditional arm and Merge joins two arms back together.
// Narrowings never auto-propagate into the context the branch forked from.
type FlowContext struct {
	narrowed *immutable.Map[string, types.Type]
}

func NewFlowContext() *FlowContext {
	return &FlowContext{narrowed: immutable.NewMap[string, types.Type](immutable.NewHasher(""))}
}

// Narrow records a narrowed type for name, overwriting any earlier narrowing
// (last write wins within one linear sequence).
func (f *FlowContext) Narrow(name string, t types.Type) {
	f.narrowed = f.narrowed.Set(name, t)
}

// Lookup returns the narrowed type for name, if any.
func (f *FlowContext) Lookup(name string) (types.Type, bool) {
	return f.narrowed.Get(name)
}

// Branch returns an independent copy. The map is immutable and structure
// shared, so this is O(1) and later narrowing on either side never affects
// the other.
func (f *FlowContext) Branch() *FlowContext {
	return &FlowContext{narrowed: f.narrowed}
}

// Merge joins two branch contexts: only variables narrowed on both sides
// survive. Agreeing narrowings keep their type; disagreeing ones merge into
// the de-duplicated union of both, receiver side first.
func (f *FlowContext) Merge(other *FlowContext) *FlowContext {
	merged := immutable.NewMap[string, types.Type](immutable.NewHasher(""))
	it := f.narrowed.Iterator()
	for !it.Done() {
		name, mine, _ := it.Next()
		theirs, ok := other.narrowed.Get(name)
		if !ok {
			continue
		}
		if types.Equal(mine, theirs) {
			merged = merged.Set(name, mine)
			continue
		}
		merged = merged.Set(name, types.NewUnion(mine, theirs))
	}
	return &FlowContext{narrowed: merged}
}

// Len reports how many variables are currently narrowed.
func (f *FlowContext) Len() int {
	return f.narrowed.Len()
}
