package ir

import (
	"encoding/json"
	"go/token"

	"github.com/pkg/errors"
)

// The wire form is the structured hand-over from the upstream parsing stage:
// one object per file, methods holding kind-discriminated node objects.
// Positions arrive as the opaque offsets the parser assigned.

type wireFile struct {
	Name    string       `json:"name"`
	Methods []wireMethod `json:"methods"`
}

type wireMethod struct {
	Name   string      `json:"name"`
	Params []wireParam `json:"params"`
	Return string      `json:"return"`
	Body   *wireNode   `json:"body"`
	Pos    int         `json:"pos"`
	End    int         `json:"end"`
}

type wireParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type wireNode struct {
	Kind     string          `json:"kind"`
	Value    json.RawMessage `json:"value,omitempty"`
	Name     string          `json:"name,omitempty"`
	Tier     string          `json:"tier,omitempty"`
	Op       string          `json:"op,omitempty"`
	Receiver *wireNode       `json:"receiver,omitempty"`
	Args     []*wireNode     `json:"args,omitempty"`
	Left     *wireNode       `json:"left,omitempty"`
	Right    *wireNode       `json:"right,omitempty"`
	Target   *wireNode       `json:"target,omitempty"`
	Cond     *wireNode       `json:"cond,omitempty"`
	Then     *wireNode       `json:"then,omitempty"`
	Else     *wireNode       `json:"else,omitempty"`
	Elements []*wireNode     `json:"elements,omitempty"`
	Entries  []wireEntry     `json:"entries,omitempty"`
	Stmts    []*wireNode     `json:"stmts,omitempty"`
	Pos      int             `json:"pos"`
	End      int             `json:"end"`
}

type wireEntry struct {
	Key   *wireNode `json:"key"`
	Value *wireNode `json:"value"`
}

func (w *wireNode) rng() Range {
	return Range{PosStart: token.Pos(w.Pos), PosEnd: token.Pos(w.End)}
}

// DecodeFile reads the JSON wire form of one compilation unit into a File
// with all nodes allocated in a fresh Arena.
func DecodeFile(data []byte) (*File, error) {
	var wf wireFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, errors.Wrap(err, "malformed IR")
	}
	f := &File{
		Arena: NewArena(),
		Name:  wf.Name,
	}
	for _, wm := range wf.Methods {
		m, err := f.decodeMethod(wm)
		if err != nil {
			return nil, errors.Wrapf(err, "method %q", wm.Name)
		}
		f.Methods = append(f.Methods, m)
	}
	return f, nil
}

func (f *File) decodeMethod(wm wireMethod) (*MethodDef, error) {
	if wm.Name == "" {
		return nil, errors.New("method with no name")
	}
	params := make([]Param, len(wm.Params))
	for i, wp := range wm.Params {
		params[i] = Param{Name: wp.Name, TypeName: wp.Type}
	}
	var body *Block
	if wm.Body != nil {
		n, err := f.decodeNode(wm.Body)
		if err != nil {
			return nil, err
		}
		block, ok := n.(*Block)
		if !ok {
			return nil, errors.Errorf("method body must be a block, got %q", wm.Body.Kind)
		}
		body = block
	}
	r := Range{PosStart: token.Pos(wm.Pos), PosEnd: token.Pos(wm.End)}
	return f.Arena.NewMethodDef(r, wm.Name, params, wm.Return, body), nil
}

func (f *File) decodeNode(w *wireNode) (Node, error) {
	if w == nil {
		return nil, errors.New("missing node")
	}
	a := f.Arena
	switch w.Kind {
	case "int":
		var v int64
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, errors.Wrap(err, "int literal")
		}
		return a.NewIntLit(w.rng(), v), nil
	case "float":
		var v float64
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, errors.Wrap(err, "float literal")
		}
		return a.NewFloatLit(w.rng(), v), nil
	case "string":
		var v string
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, errors.Wrap(err, "string literal")
		}
		return a.NewStringLit(w.rng(), v), nil
	case "symbol":
		return a.NewSymbolLit(w.rng(), w.Name), nil
	case "bool":
		var v bool
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, errors.Wrap(err, "bool literal")
		}
		return a.NewBoolLit(w.rng(), v), nil
	case "nil":
		return a.NewNilLit(w.rng()), nil
	case "var":
		tier, err := decodeTier(w.Tier)
		if err != nil {
			return nil, err
		}
		return a.NewVarRef(w.rng(), tier, w.Name), nil
	case "const":
		return a.NewConstRef(w.rng(), w.Name), nil
	case "assign":
		target, err := f.decodeNode(w.Target)
		if err != nil {
			return nil, err
		}
		ref, ok := target.(*VarRef)
		if !ok {
			return nil, errors.Errorf("assignment target must be a variable, got %q", w.Target.Kind)
		}
		value, err := f.decodeNode(w.Value2())
		if err != nil {
			return nil, err
		}
		return a.NewAssign(w.rng(), ref, value), nil
	case "binop":
		left, err := f.decodeNode(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := f.decodeNode(w.Right)
		if err != nil {
			return nil, err
		}
		return a.NewBinaryOp(w.rng(), Op(w.Op), left, right), nil
	case "call":
		var recv Node
		if w.Receiver != nil {
			var err error
			recv, err = f.decodeNode(w.Receiver)
			if err != nil {
				return nil, err
			}
		}
		args := make([]Node, len(w.Args))
		for i, wa := range w.Args {
			arg, err := f.decodeNode(wa)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return a.NewMethodCall(w.rng(), recv, w.Name, args...), nil
	case "array":
		elems := make([]Node, len(w.Elements))
		for i, we := range w.Elements {
			elem, err := f.decodeNode(we)
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return a.NewArrayLit(w.rng(), elems...), nil
	case "hash":
		entries := make([]HashEntry, len(w.Entries))
		for i, we := range w.Entries {
			key, err := f.decodeNode(we.Key)
			if err != nil {
				return nil, err
			}
			value, err := f.decodeNode(we.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = HashEntry{Key: key, Value: value}
		}
		return a.NewHashLit(w.rng(), entries...), nil
	case "if":
		cond, err := f.decodeNode(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := f.decodeBlock(w.Then)
		if err != nil {
			return nil, err
		}
		var els *Block
		if w.Else != nil {
			els, err = f.decodeBlock(w.Else)
			if err != nil {
				return nil, err
			}
		}
		return a.NewIf(w.rng(), cond, then, els), nil
	case "return":
		var value Node
		if len(w.Value) > 0 && string(w.Value) != "null" {
			inner := &wireNode{}
			if err := json.Unmarshal(w.Value, inner); err != nil {
				return nil, errors.Wrap(err, "return value")
			}
			var err error
			value, err = f.decodeNode(inner)
			if err != nil {
				return nil, err
			}
		}
		return a.NewReturn(w.rng(), value), nil
	case "block":
		return f.decodeBlock(w)
	default:
		return nil, errors.Errorf("unknown node kind %q", w.Kind)
	}
}

// Value2 reads an assignment value, which arrives in the value slot as a
// nested node object rather than a scalar.
func (w *wireNode) Value2() *wireNode {
	if len(w.Value) == 0 {
		return nil
	}
	inner := &wireNode{}
	if err := json.Unmarshal(w.Value, inner); err != nil {
		return nil
	}
	return inner
}

func (f *File) decodeBlock(w *wireNode) (*Block, error) {
	if w == nil {
		return nil, errors.New("missing block")
	}
	if w.Kind != "block" {
		return nil, errors.Errorf("expected a block, got %q", w.Kind)
	}
	stmts := make([]Node, len(w.Stmts))
	for i, ws := range w.Stmts {
		stmt, err := f.decodeNode(ws)
		if err != nil {
			return nil, err
		}
		stmts[i] = stmt
	}
	return f.Arena.NewBlock(w.rng(), stmts...), nil
}

func decodeTier(s string) (VarTier, error) {
	switch s {
	case "", "local":
		return TierLocal, nil
	case "instance":
		return TierInstance, nil
	case "class":
		return TierClass, nil
	default:
		return TierLocal, errors.Errorf("unknown variable tier %q", s)
	}
}
