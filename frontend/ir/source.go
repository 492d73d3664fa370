package ir

import (
	"go/token"
)

// Positioner allows finding the location in the original source file.
// The easiest way to be a Positioner is to embed a Range.
//
// Positions are opaque offsets assigned by the upstream parsing stage;
// mapping them back onto file/line coordinates is that stage's concern.
type Positioner interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node
}

type Range struct {
	PosStart token.Pos
	PosEnd   token.Pos
}

func (r Range) Pos() token.Pos { return r.PosStart }
func (r Range) End() token.Pos { return r.PosEnd }

func RangeOf(p Positioner) Range {
	return Range{PosStart: p.Pos(), PosEnd: p.End()}
}

// NodeID is the stable index of a node within its Arena. It is the key
// inference caches memoize on, so two structurally equal nodes allocated
// separately stay distinct.
type NodeID int32

// NoID is carried by nodes that were never registered with an Arena.
const NoID NodeID = -1

// Node is a single IR node. The set of implementations is closed: new node
// kinds are added here, and every type switch over nodes must handle them.
type Node interface {
	Positioner
	ID() NodeID
	// CanonicalSyntax renders the node in the surface syntax of the checked
	// dialect. Guard recognition and diagnostics rely on it.
	CanonicalSyntax() string
	irNode()
}

// base is embedded by every node implementation.
type base struct {
	Range
	id NodeID
}

func (b *base) ID() NodeID { return b.id }
func (b *base) irNode()    {}

// Arena owns every node of one compilation unit. All nodes are built through
// its constructor methods, which hand out consecutive NodeIDs.
type Arena struct {
	nodes []Node
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) register(n Node, b *base) {
	b.id = NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
}

// Node returns the node registered under id, or nil when id is out of range.
func (a *Arena) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

func (a *Arena) Len() int { return len(a.nodes) }

// File is one compilation unit as handed over by the upstream parser.
type File struct {
	Arena   *Arena
	Name    string
	Methods []*MethodDef
}
