// Package doc implements the addressable document tree: node model,
// positional address map, stable-id numbering, the CRUD action layer,
// and the undo/redo history stack.
//
// Addresses are 0-based everywhere: the k-th root node is "k", the j-th
// child of node "A" is "A.j". The action layer accepts the sentinel
// parent id "0" to mean the top level.
package doc

import (
	"github.com/google/uuid"
)

// Kind is the content kind of a node.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindListItem  Kind = "list_item"
	KindKeyValue  Kind = "key_value"
	KindContainer Kind = "container"
	KindGrid      Kind = "grid"
)

// ValidKind reports whether k is a known content kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindHeading, KindParagraph, KindListItem, KindKeyValue, KindContainer, KindGrid:
		return true
	}
	return false
}

// Meta carries optional node metadata.
type Meta struct {
	Company  string `json:"company,omitempty"`
	Duration string `json:"duration,omitempty"`
	Location string `json:"location,omitempty"`
}

// Node is a single content unit in the document tree.
//
// ID is process-unique and assigned once at creation. The positional
// address is NOT stored here — it is derived by AddressMap and only
// valid for the current snapshot.
type Node struct {
	ID       string            `json:"id"`
	Kind     Kind              `json:"kind"`
	Text     string            `json:"text"`
	Meta     Meta              `json:"meta,omitempty"`
	Hints    map[string]string `json:"hints,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// NodeSpec describes a node to be constructed by the action layer.
type NodeSpec struct {
	Kind     Kind              `json:"kind"`
	Text     string            `json:"text"`
	Meta     Meta              `json:"meta,omitempty"`
	Hints    map[string]string `json:"hints,omitempty"`
	Children []NodeSpec        `json:"children,omitempty"`
}

// NewNode constructs a node (and its subtree) from a spec, assigning
// fresh stable ids throughout.
func NewNode(spec NodeSpec) *Node {
	n := &Node{
		ID:   uuid.NewString(),
		Kind: spec.Kind,
		Text: spec.Text,
		Meta: spec.Meta,
	}
	if len(spec.Hints) > 0 {
		n.Hints = make(map[string]string, len(spec.Hints))
		for k, v := range spec.Hints {
			n.Hints[k] = v
		}
	}
	for _, cs := range spec.Children {
		n.Children = append(n.Children, NewNode(cs))
	}
	return n
}

// Clone returns a deep copy of the node and its subtree. Stable ids are
// preserved: a clone is a snapshot of the same logical node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		ID:   n.ID,
		Kind: n.Kind,
		Text: n.Text,
		Meta: n.Meta,
	}
	if len(n.Hints) > 0 {
		c.Hints = make(map[string]string, len(n.Hints))
		for k, v := range n.Hints {
			c.Hints[k] = v
		}
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// CloneForest deep-copies an ordered list of root nodes.
func CloneForest(roots []*Node) []*Node {
	if roots == nil {
		return nil
	}
	out := make([]*Node, len(roots))
	for i, r := range roots {
		out[i] = r.Clone()
	}
	return out
}

// Walk visits every node of the forest depth-first in document order.
// Returning false from fn stops the walk.
func Walk(roots []*Node, fn func(*Node) bool) {
	var visit func(*Node) bool
	visit = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, ch := range n.Children {
			if !visit(ch) {
				return false
			}
		}
		return true
	}
	for _, r := range roots {
		if !visit(r) {
			return
		}
	}
}

// Count returns the total number of nodes in the forest.
func Count(roots []*Node) int {
	n := 0
	Walk(roots, func(*Node) bool { n++; return true })
	return n
}

// Equal reports structural equality of two forests: same shape, same
// ids, same content, node for node.
func Equal(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b *Node) bool {
	if a.ID != b.ID || a.Kind != b.Kind || a.Text != b.Text || a.Meta != b.Meta {
		return false
	}
	if len(a.Hints) != len(b.Hints) {
		return false
	}
	for k, v := range a.Hints {
		if b.Hints[k] != v {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !nodeEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
