package infer

import (
	"github.com/garnet-lang/garnet/frontend/types"
)

// UnifyTypes combines the candidate types of one value position into a
// single type:
//
//   - duplicates drop, preserving first-seen order
//   - zero candidates mean nil, one means itself
//   - exactly nil plus one other type folds into Nullable of the other
//   - candidates all sharing one unparameterized base keep the first
//   - anything else becomes an ordered union
func UnifyTypes(ts []types.Type) types.Type {
	var distinct []types.Type
	for _, t := range ts {
		if t == nil {
			t = types.NilType
		}
		seen := false
		for _, existing := range distinct {
			if types.Equal(existing, t) {
				seen = true
				break
			}
		}
		if !seen {
			distinct = append(distinct, t)
		}
	}

	switch len(distinct) {
	case 0:
		return types.NilType
	case 1:
		return distinct[0]
	case 2:
		if types.Equal(distinct[0], types.NilType) {
			return &types.Nullable{Inner: distinct[1]}
		}
		if types.Equal(distinct[1], types.NilType) {
			return &types.Nullable{Inner: distinct[0]}
		}
	}

	if base, ok := sharedBase(distinct); ok && base != "" {
		return distinct[0]
	}
	return types.NewUnion(distinct...)
}

// sharedBase reports the base name common to every candidate, if they all
// have one and it is the same.
func sharedBase(ts []types.Type) (string, bool) {
	first, ok := types.BaseName(ts[0])
	if !ok {
		return "", false
	}
	for _, t := range ts[1:] {
		base, ok := types.BaseName(t)
		if !ok || base != first {
			return "", false
		}
	}
	return first, true
}
