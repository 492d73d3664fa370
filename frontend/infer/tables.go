package infer

import (
	"github.com/garnet-lang/garnet/frontend/types"
)

// MethodTable maps base-type names to method return types. Lookups consult
// the receiver's own base first and fall back to the universal Object table.
// The types.SelfType sentinel means "same type as the receiver" and is
// resolved at lookup sites.
type MethodTable struct {
	perBase map[string]map[string]types.Type
}

func NewMethodTable() *MethodTable {
	return &MethodTable{perBase: map[string]map[string]types.Type{}}
}

// NewBuiltinMethodTable returns a table preloaded with the return types of
// the dialect's core methods.
func NewBuiltinMethodTable() *MethodTable {
	t := NewMethodTable()
	arrayOfString := &types.Generic{Base: "Array", Args: []types.Type{types.StringType}}
	arrayOfUntyped := &types.Generic{Base: "Array", Args: []types.Type{types.UntypedType}}

	for method, ret := range map[string]types.Type{
		"to_s":    types.StringType,
		"inspect": types.StringType,
		"hash":    types.IntegerType,
		"nil?":    types.BooleanType,
		"is_a?":   types.BooleanType,
		"frozen?": types.BooleanType,
		"freeze":  types.SelfType,
		"dup":     types.SelfType,
		"clone":   types.SelfType,
		"tap":     types.SelfType,
	} {
		t.Register("Object", method, ret)
	}
	for method, ret := range map[string]types.Type{
		"length":   types.IntegerType,
		"size":     types.IntegerType,
		"upcase":   types.SelfType,
		"downcase": types.SelfType,
		"strip":    types.SelfType,
		"reverse":  types.SelfType,
		"to_i":     types.IntegerType,
		"to_f":     types.FloatType,
		"to_sym":   types.SymbolType,
		"empty?":   types.BooleanType,
		"include?": types.BooleanType,
		"split":    arrayOfString,
		"chars":    arrayOfString,
	} {
		t.Register("String", method, ret)
	}
	for method, ret := range map[string]types.Type{
		"abs":       types.SelfType,
		"succ":      types.SelfType,
		"pred":      types.SelfType,
		"to_f":      types.FloatType,
		"zero?":     types.BooleanType,
		"even?":     types.BooleanType,
		"odd?":      types.BooleanType,
		"positive?": types.BooleanType,
	} {
		t.Register("Integer", method, ret)
	}
	for method, ret := range map[string]types.Type{
		"abs":   types.SelfType,
		"to_i":  types.IntegerType,
		"round": types.IntegerType,
		"ceil":  types.IntegerType,
		"floor": types.IntegerType,
		"nan?":  types.BooleanType,
	} {
		t.Register("Float", method, ret)
	}
	for method, ret := range map[string]types.Type{
		"length":  types.IntegerType,
		"size":    types.IntegerType,
		"empty?":  types.BooleanType,
		"push":    types.SelfType,
		"sort":    types.SelfType,
		"uniq":    types.SelfType,
		"reverse": types.SelfType,
		"join":    types.StringType,
		"first":   types.UntypedType,
		"last":    types.UntypedType,
	} {
		t.Register("Array", method, ret)
	}
	for method, ret := range map[string]types.Type{
		"length": types.IntegerType,
		"size":   types.IntegerType,
		"empty?": types.BooleanType,
		"keys":   arrayOfUntyped,
		"values": arrayOfUntyped,
		"key?":   types.BooleanType,
	} {
		t.Register("Hash", method, ret)
	}
	t.Register("Symbol", "to_s", types.StringType)
	t.Register("Symbol", "to_sym", types.SelfType)
	return t
}

func (t *MethodTable) Register(base, method string, ret types.Type) {
	methods := t.perBase[base]
	if methods == nil {
		methods = map[string]types.Type{}
		t.perBase[base] = methods
	}
	methods[method] = ret
}

// Lookup resolves a method on the given receiver type: the receiver's own
// base table first, the universal Object table second. The self sentinel
// resolves to the receiver's own type.
func (t *MethodTable) Lookup(receiver types.Type, method string) (types.Type, bool) {
	if base, ok := types.BaseName(receiver); ok {
		if ret, ok := t.perBase[base][method]; ok {
			return resolveSelf(ret, receiver), true
		}
	}
	if ret, ok := t.perBase["Object"][method]; ok {
		return resolveSelf(ret, receiver), true
	}
	return nil, false
}

// Entries yields every registration as (base, method, return type) for
// signature export, in no particular order.
func (t *MethodTable) Entries(yield func(base, method string, ret types.Type)) {
	for base, methods := range t.perBase {
		for method, ret := range methods {
			yield(base, method, ret)
		}
	}
}

func resolveSelf(ret, receiver types.Type) types.Type {
	if types.Equal(ret, types.SelfType) {
		return receiver
	}
	return ret
}
