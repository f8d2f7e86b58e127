package ast

import (
	"fmt"

	"fortio.org/safecast"

	"jsfront/internal/source"
)

// Tree is an arena of nodes for one module. The semantic context never owns
// it; it only keeps NodeIDs pointing into it.
type Tree struct {
	File  source.FileID
	Root  NodeID
	nodes []Node // nodes[0] reserved for NoNodeID
}

// NewTree creates an empty tree with an optional capacity hint.
func NewTree(file source.FileID, capHint uint) *Tree {
	return &Tree{
		File:  file,
		nodes: make([]Node, 1, capHint+1),
	}
}

// Add appends n and returns its id.
func (t *Tree) Add(n Node) NodeID {
	value, err := safecast.Conv[uint32](len(t.nodes))
	if err != nil {
		panic(fmt.Errorf("ast arena overflow: %w", err))
	}
	n.Span.File = t.File
	t.nodes = append(t.nodes, n)
	return NodeID(value)
}

// Node returns the node for id, or nil for NoNodeID and unknown ids.
func (t *Tree) Node(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Kind returns the kind of id, KindInvalid when absent.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Len reports the number of nodes excluding the sentinel.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// FunctionName returns the identifier node naming a function or class
// declaration, NoNodeID for anonymous ones.
func (t *Tree) FunctionName(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil || !(n.Kind.IsFunction() || n.Kind.IsClass()) {
		return NoNodeID
	}
	return n.Kid(FuncSlotID)
}

// BindingIdentifiers collects the identifiers bound by a pattern, in source
// order. Default values of AssignmentPatterns are not bindings.
func (t *Tree) BindingIdentifiers(pattern NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := t.Node(id)
		if n == nil {
			return
		}
		switch n.Kind {
		case KindIdentifier:
			out = append(out, id)
		case KindAssignmentPattern:
			walk(n.Kid(0))
		case KindRestElement:
			walk(n.Kid(0))
		case KindArrayPattern, KindObjectPattern:
			for _, kid := range n.Kids {
				walk(kid)
			}
		case KindProperty:
			walk(n.Kid(1))
		}
	}
	walk(pattern)
	return out
}
