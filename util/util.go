package util

import (
	"fmt"
	"strings"
)

type Pair[A, B any] struct {
	Fst A
	Snd B
}

func NewPair[A, B any](fst A, snd B) Pair[A, B] {
	return Pair[A, B]{
		Fst: fst,
		Snd: snd,
	}
}

// JoinString renders elems with their String methods, separated by sep.
func JoinString[S fmt.Stringer](elems []S, sep string) string {
	sb := strings.Builder{}
	for i, elem := range elems {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(elem.String())
	}
	return sb.String()
}

func MapSlice[A, B any](elems []A, f func(A) B) []B {
	mapped := make([]B, len(elems))
	for i, elem := range elems {
		mapped[i] = f(elem)
	}
	return mapped
}
