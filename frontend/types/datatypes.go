package types

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/garnet-lang/garnet/util"
)

// Type is a type of the checked dialect. The set of implementations is
// closed: every type switch over Type must handle all of them, so a new
// variant is a compile-time obligation everywhere it matters.
//
// Types are immutable after construction and compare structurally via Equal.
type Type interface {
	fmt.Stringer
	Hash() uint64
	typ()
}

var (
	_ Type = (*Concrete)(nil)
	_ Type = (*Variable)(nil)
	_ Type = (*Generic)(nil)
	_ Type = (*Union)(nil)
	_ Type = (*Intersection)(nil)
	_ Type = (*Nullable)(nil)
	_ Type = (*Function)(nil)
	_ Type = (*Tuple)(nil)
	_ Type = (*Rest)(nil)
)

// Concrete is a named base type such as Integer or String.
type Concrete struct {
	Name string
}

// Variable is a type variable, usually allocated by a ConstraintSolver.
// Bounds are optional upper bounds recorded at allocation.
type Variable struct {
	Name   string
	Bounds []Type
}

// Generic is a parameterized application of a base type, such as
// Array[Integer] or Hash[Symbol, String]. Args are ordered.
type Generic struct {
	Base string
	Args []Type
}

// Union holds ordered, de-duplicated members. Build through NewUnion.
type Union struct {
	Members []Type
}

// Intersection holds ordered, de-duplicated members. Build through
// NewIntersection.
type Intersection struct {
	Members []Type
}

// Nullable wraps a type that may also be nil, rendered T?.
type Nullable struct {
	Inner Type
}

// Function is a function type with ordered parameters.
type Function struct {
	Params []Type
	Return Type
}

// Rest marks a tuple element that absorbs the remaining positions. It only
// ever appears as the last element of a Tuple.
type Rest struct {
	Elem Type
}

// Tuple is a fixed-shape sequence type. Build through NewTuple, which
// enforces the rest-element placement rules.
type Tuple struct {
	Elements []Type
}

func (*Concrete) typ()     {}
func (*Variable) typ()     {}
func (*Generic) typ()      {}
func (*Union) typ()        {}
func (*Intersection) typ() {}
func (*Nullable) typ()     {}
func (*Function) typ()     {}
func (*Tuple) typ()        {}
func (*Rest) typ()         {}

// Interned instances for the base types that come up constantly; NewConcrete
// hands these back so repeated lookups share one value.
var (
	ObjectType     = &Concrete{Name: "Object"}
	IntegerType    = &Concrete{Name: "Integer"}
	FloatType      = &Concrete{Name: "Float"}
	NumericType    = &Concrete{Name: "Numeric"}
	StringType     = &Concrete{Name: "String"}
	SymbolType     = &Concrete{Name: "Symbol"}
	BooleanType    = &Concrete{Name: "Boolean"}
	NilType        = &Concrete{Name: "nil"}
	UntypedType    = &Concrete{Name: "untyped"}
	ComparableType = &Concrete{Name: "Comparable"}
	ArrayType      = &Concrete{Name: "Array"}
	HashType       = &Concrete{Name: "Hash"}

	// SelfType is the sentinel meaning "same type as the receiver" in
	// method return tables. It must never escape resolution.
	SelfType = &Concrete{Name: "self"}
)

var interned = map[string]*Concrete{}

func init() {
	for _, t := range []*Concrete{
		ObjectType, IntegerType, FloatType, NumericType, StringType,
		SymbolType, BooleanType, NilType, UntypedType, ComparableType,
		ArrayType, HashType, SelfType,
	} {
		interned[t.Name] = t
	}
}

// NewConcrete returns the interned instance for well-known names and a fresh
// value otherwise.
func NewConcrete(name string) *Concrete {
	if t, ok := interned[name]; ok {
		return t
	}
	return &Concrete{Name: name}
}

// NewUnion builds a union: nested unions are flattened and duplicate members
// dropped preserving first-seen order. Zero members collapse to nil, a single
// member to itself.
func NewUnion(members ...Type) Type {
	flat := dedupFlatten(members, func(t Type) ([]Type, bool) {
		u, ok := t.(*Union)
		if !ok {
			return nil, false
		}
		return u.Members, true
	})
	switch len(flat) {
	case 0:
		return NilType
	case 1:
		return flat[0]
	}
	return &Union{Members: flat}
}

// NewIntersection builds an intersection with the same normalization rules
// as NewUnion.
func NewIntersection(members ...Type) Type {
	flat := dedupFlatten(members, func(t Type) ([]Type, bool) {
		i, ok := t.(*Intersection)
		if !ok {
			return nil, false
		}
		return i.Members, true
	})
	switch len(flat) {
	case 0:
		return ObjectType
	case 1:
		return flat[0]
	}
	return &Intersection{Members: flat}
}

func dedupFlatten(members []Type, inner func(Type) ([]Type, bool)) []Type {
	var flat []Type
	for _, m := range members {
		if nested, ok := inner(m); ok {
			for _, n := range nested {
				flat = appendUnique(flat, n)
			}
			continue
		}
		flat = appendUnique(flat, m)
	}
	return flat
}

func appendUnique(ts []Type, t Type) []Type {
	for _, existing := range ts {
		if Equal(existing, t) {
			return ts
		}
	}
	return append(ts, t)
}

// NewTuple builds a tuple. A misplaced or duplicated Rest element is a
// structurally meaningless construction and panics immediately; it is never
// reported as an inference failure.
func NewTuple(elements ...Type) *Tuple {
	for i, e := range elements {
		if _, ok := e.(*Rest); ok && i != len(elements)-1 {
			panic(fmt.Sprintf("tuple rest element at position %d of %d: rest must be last", i, len(elements)))
		}
	}
	return &Tuple{Elements: elements}
}

// Equal compares two types structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case *Concrete:
		bb, ok := b.(*Concrete)
		return ok && a.Name == bb.Name
	case *Variable:
		bb, ok := b.(*Variable)
		return ok && a.Name == bb.Name && equalSlices(a.Bounds, bb.Bounds)
	case *Generic:
		bb, ok := b.(*Generic)
		return ok && a.Base == bb.Base && equalSlices(a.Args, bb.Args)
	case *Union:
		bb, ok := b.(*Union)
		return ok && equalSlices(a.Members, bb.Members)
	case *Intersection:
		bb, ok := b.(*Intersection)
		return ok && equalSlices(a.Members, bb.Members)
	case *Nullable:
		bb, ok := b.(*Nullable)
		return ok && Equal(a.Inner, bb.Inner)
	case *Function:
		bb, ok := b.(*Function)
		return ok && equalSlices(a.Params, bb.Params) && Equal(a.Return, bb.Return)
	case *Tuple:
		bb, ok := b.(*Tuple)
		return ok && equalSlices(a.Elements, bb.Elements)
	case *Rest:
		bb, ok := b.(*Rest)
		return ok && Equal(a.Elem, bb.Elem)
	default:
		panic(fmt.Sprintf("unhandled type variant %T", a))
	}
}

func equalSlices(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func hashSlice(seed uint64, ts []Type) uint64 {
	h := seed
	for _, t := range ts {
		h = h*31 ^ t.Hash()
	}
	return h
}

func (t *Concrete) Hash() uint64 { return hashString(t.Name) }
func (t *Variable) Hash() uint64 { return hashSlice(hashString(t.Name)*37, t.Bounds) }
func (t *Generic) Hash() uint64  { return hashSlice(hashString(t.Base)*41, t.Args) }
func (t *Union) Hash() uint64    { return hashSlice(43, t.Members) }
func (t *Intersection) Hash() uint64 {
	return hashSlice(47, t.Members)
}
func (t *Nullable) Hash() uint64 { return t.Inner.Hash() * 53 }
func (t *Function) Hash() uint64 {
	return hashSlice(59, t.Params)*31 ^ t.Return.Hash()
}
func (t *Tuple) Hash() uint64 { return hashSlice(61, t.Elements) }
func (t *Rest) Hash() uint64  { return t.Elem.Hash() * 67 }

func (t *Concrete) String() string { return t.Name }
func (t *Variable) String() string { return t.Name }

func (t *Generic) String() string {
	return t.Base + "[" + util.JoinString(t.Args, ", ") + "]"
}

func (t *Union) String() string {
	return util.JoinString(t.Members, " | ")
}

func (t *Intersection) String() string {
	return util.JoinString(t.Members, " & ")
}

func (t *Nullable) String() string {
	switch t.Inner.(type) {
	case *Union, *Intersection, *Function:
		return "(" + t.Inner.String() + ")?"
	default:
		return t.Inner.String() + "?"
	}
}

func (t *Function) String() string {
	sb := strings.Builder{}
	sb.WriteString("(")
	sb.WriteString(util.JoinString(t.Params, ", "))
	sb.WriteString(") -> ")
	sb.WriteString(t.Return.String())
	return sb.String()
}

func (t *Tuple) String() string {
	return "[" + util.JoinString(t.Elements, ", ") + "]"
}

func (t *Rest) String() string { return "*" + t.Elem.String() }

// BaseName returns the base-type name a method table is keyed by: the name
// of a Concrete or the base of a Generic. Everything else has no base.
func BaseName(t Type) (string, bool) {
	switch t := t.(type) {
	case *Concrete:
		return t.Name, true
	case *Generic:
		return t.Base, true
	default:
		return "", false
	}
}
