package types

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/garnet-lang/garnet/internal/log"
)

var solverLogger = log.DefaultLogger.With("section", "solve")

// constraint is one obligation collected during traversal. The set is
// closed: equality, subtype, and property constraints.
type constraint interface {
	fmt.Stringer
	constraintNode()
}

type equalConstraint struct {
	a, b Type
}

type subtypeConstraint struct {
	sub, super Type
}

type propertyConstraint struct {
	variable *Variable
	name     string
	property Type
}

func (equalConstraint) constraintNode()    {}
func (subtypeConstraint) constraintNode()  {}
func (propertyConstraint) constraintNode() {}

func (c equalConstraint) String() string {
	return c.a.String() + " = " + c.b.String()
}

func (c subtypeConstraint) String() string {
	return c.sub.String() + " <: " + c.super.String()
}

func (c propertyConstraint) String() string {
	return c.variable.Name + " has " + c.name + ": " + c.property.String()
}

// ConstraintErrorKind names the way a constraint failed.
type ConstraintErrorKind uint8

const (
	// ErrKindConflict is a unification of two distinct incompatible
	// concrete types.
	ErrKindConflict ConstraintErrorKind = iota
	// ErrKindSubtype is a subtype obligation the hierarchy disproves.
	ErrKindSubtype
)

// ConstraintError is one unsatisfied constraint: its kind, the offending
// types, and the variable involved if any.
type ConstraintError struct {
	Kind     ConstraintErrorKind
	Sub      Type
	Super    Type
	Variable string
}

func (e ConstraintError) Error() string {
	switch e.Kind {
	case ErrKindConflict:
		return fmt.Sprintf("cannot unify %s with %s", e.Sub, e.Super)
	default:
		return fmt.Sprintf("%s is not a subtype of %s", e.Sub, e.Super)
	}
}

// Solution is the outcome of one Solve call.
type Solution struct {
	Success bool
	// Bindings maps every constrained variable name to its fully
	// dereferenced type; unconstrained variables default to Object.
	Bindings map[string]Type
	// Properties carries the recorded HasProperty constraints per variable.
	// They are surfaced best-effort and contribute no violations.
	Properties map[string]map[string]Type
	Errors     []ConstraintError
}

// ConstraintSolver accumulates constraints for one inference session and
// solves them in two passes: equality resolution by substitution, then
// subtype validation against the hierarchy. It collects every violation
// rather than stopping at the first. Not safe for concurrent use; one
// instance per session.
type ConstraintSolver struct {
	hierarchy   *Hierarchy
	constraints []constraint
	counter     int
	solution    *Solution
}

func NewConstraintSolver(h *Hierarchy) *ConstraintSolver {
	return &ConstraintSolver{hierarchy: h}
}

// FreshVar allocates a uniquely named type variable.
func (s *ConstraintSolver) FreshVar(prefix string) *Variable {
	s.counter++
	return &Variable{Name: prefix + strconv.Itoa(s.counter)}
}

// AddEqual records an equality obligation. Nothing is checked until Solve;
// list order decides which equality wins when chains conflict.
func (s *ConstraintSolver) AddEqual(a, b Type) {
	s.constraints = append(s.constraints, equalConstraint{a: a, b: b})
}

// AddSubtype records a subtype obligation, checked during Solve pass two.
func (s *ConstraintSolver) AddSubtype(sub, super Type) {
	s.constraints = append(s.constraints, subtypeConstraint{sub: sub, super: super})
}

// AddProperty records that variable must carry a property of the given type.
func (s *ConstraintSolver) AddProperty(v *Variable, name string, property Type) {
	s.constraints = append(s.constraints, propertyConstraint{variable: v, name: name, property: property})
}

// Solve resolves all accumulated constraints and caches the solution for
// Infer. The constraint list is kept so repeated Solve calls are stable.
func (s *ConstraintSolver) Solve() Solution {
	sess := &solveSession{
		hierarchy: s.hierarchy,
		bindings:  map[string]Type{},
	}

	// pass 1: equality resolution by substitution
	for _, c := range s.constraints {
		eq, ok := c.(equalConstraint)
		if !ok {
			continue
		}
		sess.unify(eq.a, eq.b)
	}
	sess.dereferenceAll()

	// pass 2: subtype validation, collecting every violation
	properties := map[string]map[string]Type{}
	for _, c := range s.constraints {
		switch c := c.(type) {
		case subtypeConstraint:
			sub := sess.apply(c.sub)
			if _, unbound := sub.(*Variable); unbound {
				// an unconstrained value could still be any subtype,
				// so the obligation is vacuously satisfiable
				continue
			}
			// an unbound bound defaults to Object, which admits anything
			super := defaultToObject(sess.apply(c.super))
			if !sess.hierarchy.SubtypeOf(sub, super) {
				sess.errors = append(sess.errors, ConstraintError{
					Kind:     ErrKindSubtype,
					Sub:      sub,
					Super:    super,
					Variable: variableName(c.sub),
				})
			}
		case propertyConstraint:
			props := properties[c.variable.Name]
			if props == nil {
				props = map[string]Type{}
				properties[c.variable.Name] = props
			}
			props[c.name] = sess.apply(c.property)
		}
	}

	solution := Solution{
		Success:    len(sess.errors) == 0,
		Bindings:   sess.bindings,
		Properties: properties,
		Errors:     sess.errors,
	}
	s.solution = &solution
	if !solution.Success {
		solverLogger.Debug("constraints unsatisfied", slog.Int("violations", len(sess.errors)))
	}
	return solution
}

// Infer returns the solved type for a variable name: its binding, or Object
// when the variable was never constrained. Undefined before Solve.
func (s *ConstraintSolver) Infer(name string) Type {
	if s.solution == nil {
		return nil
	}
	if t, ok := s.solution.Bindings[name]; ok {
		return t
	}
	return ObjectType
}

type solveSession struct {
	hierarchy *Hierarchy
	bindings  map[string]Type
	errors    []ConstraintError
}

// unify makes a and b equal under the current substitution. The first
// binding of a variable wins; later bindings are unified against it.
func (sess *solveSession) unify(a, b Type) {
	a = sess.resolve(a)
	b = sess.resolve(b)
	if Equal(a, b) {
		return
	}

	if v, ok := a.(*Variable); ok {
		sess.bindings[v.Name] = b
		return
	}
	if v, ok := b.(*Variable); ok {
		sess.bindings[v.Name] = a
		return
	}

	switch a := a.(type) {
	case *Concrete:
		if bc, ok := b.(*Concrete); ok {
			if !sess.hierarchy.Compatible(a, bc) {
				sess.errors = append(sess.errors, ConstraintError{
					Kind:  ErrKindConflict,
					Sub:   a,
					Super: bc,
				})
			}
			return
		}
	case *Generic:
		if bg, ok := b.(*Generic); ok && a.Base == bg.Base && len(a.Args) == len(bg.Args) {
			for i := range a.Args {
				sess.unify(a.Args[i], bg.Args[i])
			}
			return
		}
	case *Nullable:
		if bn, ok := b.(*Nullable); ok {
			sess.unify(a.Inner, bn.Inner)
			return
		}
	case *Function:
		if bf, ok := b.(*Function); ok && len(a.Params) == len(bf.Params) {
			for i := range a.Params {
				sess.unify(a.Params[i], bf.Params[i])
			}
			sess.unify(a.Return, bf.Return)
			return
		}
	case *Tuple:
		if bt, ok := b.(*Tuple); ok && len(a.Elements) == len(bt.Elements) {
			for i := range a.Elements {
				sess.unify(a.Elements[i], bt.Elements[i])
			}
			return
		}
	}

	sess.errors = append(sess.errors, ConstraintError{
		Kind:  ErrKindConflict,
		Sub:   a,
		Super: b,
	})
}

// resolve follows variable-to-variable chains until it reaches an unbound
// variable or a non-variable type. A visited set guards against cycles
// introduced by conflicting chains.
func (sess *solveSession) resolve(t Type) Type {
	visited := map[string]bool{}
	for {
		v, ok := t.(*Variable)
		if !ok {
			return t
		}
		if visited[v.Name] {
			return v
		}
		visited[v.Name] = true
		bound, ok := sess.bindings[v.Name]
		if !ok {
			return v
		}
		t = bound
	}
}

// dereferenceAll rewrites every binding so no variable-to-variable chain
// survives into the surfaced solution.
func (sess *solveSession) dereferenceAll() {
	for name := range sess.bindings {
		sess.bindings[name] = sess.apply(sess.bindings[name])
	}
}

// apply substitutes solved variables throughout t. Unbound variables stay;
// they surface as Object via Infer.
func (sess *solveSession) apply(t Type) Type {
	switch t := sess.resolve(t).(type) {
	case *Concrete, *Variable, *Rest:
		return t
	case *Generic:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = sess.apply(a)
		}
		return &Generic{Base: t.Base, Args: args}
	case *Union:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = sess.apply(m)
		}
		return NewUnion(members...)
	case *Intersection:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = sess.apply(m)
		}
		return NewIntersection(members...)
	case *Nullable:
		return &Nullable{Inner: sess.apply(t.Inner)}
	case *Function:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = sess.apply(p)
		}
		return &Function{Params: params, Return: sess.apply(t.Return)}
	case *Tuple:
		elements := make([]Type, len(t.Elements))
		for i, e := range t.Elements {
			elements[i] = sess.apply(e)
		}
		return &Tuple{Elements: elements}
	default:
		panic(fmt.Sprintf("unhandled type variant %T", t))
	}
}

// defaultToObject replaces every variable left unbound after equality
// resolution with the universal top.
func defaultToObject(t Type) Type {
	switch t := t.(type) {
	case *Variable:
		return ObjectType
	case *Concrete, *Rest:
		return t
	case *Generic:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = defaultToObject(a)
		}
		return &Generic{Base: t.Base, Args: args}
	case *Union:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = defaultToObject(m)
		}
		return NewUnion(members...)
	case *Intersection:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = defaultToObject(m)
		}
		return NewIntersection(members...)
	case *Nullable:
		return &Nullable{Inner: defaultToObject(t.Inner)}
	case *Function:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = defaultToObject(p)
		}
		return &Function{Params: params, Return: defaultToObject(t.Return)}
	case *Tuple:
		elements := make([]Type, len(t.Elements))
		for i, e := range t.Elements {
			elements[i] = defaultToObject(e)
		}
		return &Tuple{Elements: elements}
	default:
		panic(fmt.Sprintf("unhandled type variant %T", t))
	}
}

func variableName(t Type) string {
	if v, ok := t.(*Variable); ok {
		return v.Name
	}
	return ""
}
