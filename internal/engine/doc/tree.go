package doc

import "fmt"

// RootParentID is the sentinel parent id meaning "the top level".
const RootParentID = "0"

// Tree owns an ordered forest of nodes plus the derived address map
// and numbering index. Every successful mutation rebuilds both before
// returning, so a caller can never observe a stale index.
//
// Tree is not safe for concurrent use; the session layer serializes
// access (single-writer model).
type Tree struct {
	roots []*Node
	addr  *AddressMap
	num   *Numbering
}

// NewTree takes ownership of the given forest.
func NewTree(roots []*Node) *Tree {
	t := &Tree{roots: roots}
	t.rebuild()
	return t
}

func (t *Tree) rebuild() {
	t.addr = BuildAddressMap(t.roots)
	t.num = BuildNumbering(t.roots)
}

// Roots returns the live forest. Callers must not mutate it directly.
func (t *Tree) Roots() []*Node { return t.roots }

// Addresses returns the current address map.
func (t *Tree) Addresses() *AddressMap { return t.addr }

// Numbering returns the current address↔id index.
func (t *Tree) Numbering() *Numbering { return t.num }

// Get returns the node at a positional address.
func (t *Tree) Get(addr string) (*Node, bool) { return t.addr.Get(addr) }

// NodeByID returns a node by stable id.
func (t *Tree) NodeByID(id string) (*Node, bool) {
	a, ok := t.addr.AddressOf(id)
	if !ok {
		return nil, false
	}
	return t.addr.Get(a)
}

// Len returns the total node count.
func (t *Tree) Len() int { return t.addr.Len() }

// Restore replaces the forest with a snapshot and rebuilds indexes.
func (t *Tree) Restore(roots []*Node) {
	t.roots = roots
	t.rebuild()
}

// locate finds a node by id and its owner: parent is nil when the node
// sits at the top level; idx is its position in the owning slice.
func (t *Tree) locate(id string) (parent *Node, idx int, node *Node) {
	for i, r := range t.roots {
		if r.ID == id {
			return nil, i, r
		}
	}
	var found *Node
	var foundParent *Node
	foundIdx := -1
	Walk(t.roots, func(n *Node) bool {
		for i, ch := range n.Children {
			if ch.ID == id {
				foundParent, foundIdx, found = n, i, ch
				return false
			}
		}
		return true
	})
	return foundParent, foundIdx, found
}

// isDescendant reports whether id addresses ancestor itself or any
// node in its subtree.
func isDescendant(ancestor *Node, id string) bool {
	if ancestor.ID == id {
		return true
	}
	for _, ch := range ancestor.Children {
		if isDescendant(ch, id) {
			return true
		}
	}
	return false
}

// Fields is a partial content update. Nil pointers leave the current
// value untouched; Hints entries are merged over existing ones.
type Fields struct {
	Kind     *Kind             `json:"kind,omitempty"`
	Text     *string           `json:"text,omitempty"`
	Company  *string           `json:"company,omitempty"`
	Duration *string           `json:"duration,omitempty"`
	Location *string           `json:"location,omitempty"`
	Hints    map[string]string `json:"hints,omitempty"`
}

// Update merges fields onto an existing node's content in place.
func (t *Tree) Update(id string, f Fields) error {
	_, _, n := t.locate(id)
	if n == nil {
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	if f.Kind != nil {
		n.Kind = *f.Kind
	}
	if f.Text != nil {
		n.Text = *f.Text
	}
	if f.Company != nil {
		n.Meta.Company = *f.Company
	}
	if f.Duration != nil {
		n.Meta.Duration = *f.Duration
	}
	if f.Location != nil {
		n.Meta.Location = *f.Location
	}
	if len(f.Hints) > 0 {
		if n.Hints == nil {
			n.Hints = make(map[string]string, len(f.Hints))
		}
		for k, v := range f.Hints {
			n.Hints[k] = v
		}
	}
	t.rebuild()
	return nil
}

// Remove detaches a node and its entire subtree from its owner.
func (t *Tree) Remove(id string) error {
	parent, idx, n := t.locate(id)
	if n == nil {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	if parent == nil {
		t.roots = append(t.roots[:idx], t.roots[idx+1:]...)
	} else {
		parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	}
	t.rebuild()
	return nil
}

// Move detaches a node and re-inserts it as child position of the new
// parent (RootParentID moves it to the top level). Ownership transfers
// atomically: on any validation failure the tree is unchanged.
func (t *Tree) Move(id, newParentID string, position int) error {
	oldParent, oldIdx, n := t.locate(id)
	if n == nil {
		return fmt.Errorf("move %q: %w", id, ErrNotFound)
	}

	var dest *[]*Node
	if newParentID == RootParentID {
		dest = &t.roots
	} else {
		_, _, np := t.locate(newParentID)
		if np == nil {
			return fmt.Errorf("move %q to %q: %w", id, newParentID, ErrNotFound)
		}
		if isDescendant(n, newParentID) {
			return fmt.Errorf("move %q into %q: %w", id, newParentID, ErrCycleRejected)
		}
		dest = &np.Children
	}

	// Bounds are checked against the destination length after detach.
	destLen := len(*dest)
	sameOwner := (oldParent == nil && newParentID == RootParentID) ||
		(oldParent != nil && oldParent.ID == newParentID)
	if sameOwner {
		destLen--
	}
	if position < 0 || position > destLen {
		return fmt.Errorf("move %q position %d: %w", id, position, ErrInvalidPosition)
	}

	if oldParent == nil {
		t.roots = append(t.roots[:oldIdx], t.roots[oldIdx+1:]...)
	} else {
		oldParent.Children = append(oldParent.Children[:oldIdx], oldParent.Children[oldIdx+1:]...)
	}

	s := *dest
	s = append(s, nil)
	copy(s[position+1:], s[position:])
	s[position] = n
	*dest = s

	t.rebuild()
	return nil
}

// AppendChild constructs a node from spec and appends it as the last
// child of parentID (RootParentID appends at the top level). Returns
// the created node.
func (t *Tree) AppendChild(parentID string, spec NodeSpec) (*Node, error) {
	n := NewNode(spec)
	if parentID == RootParentID {
		t.roots = append(t.roots, n)
		t.rebuild()
		return n, nil
	}
	_, _, parent := t.locate(parentID)
	if parent == nil {
		return nil, fmt.Errorf("append to %q: %w", parentID, ErrNotFound)
	}
	parent.Children = append(parent.Children, n)
	t.rebuild()
	return n, nil
}

// Reorder permutes the children of parentID (or the roots for
// RootParentID). order must list the ids of the current children,
// each exactly once.
func (t *Tree) Reorder(parentID string, order []string) error {
	var owner *[]*Node
	if parentID == RootParentID {
		owner = &t.roots
	} else {
		_, _, parent := t.locate(parentID)
		if parent == nil {
			return fmt.Errorf("reorder %q: %w", parentID, ErrNotFound)
		}
		owner = &parent.Children
	}

	current := *owner
	if len(order) != len(current) {
		return fmt.Errorf("reorder %q: got %d ids, have %d children: %w",
			parentID, len(order), len(current), ErrInvalidPermutation)
	}
	byID := make(map[string]*Node, len(current))
	for _, ch := range current {
		byID[ch.ID] = ch
	}
	next := make([]*Node, 0, len(order))
	for _, id := range order {
		ch, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder %q: id %q is not a child: %w", parentID, id, ErrInvalidPermutation)
		}
		delete(byID, id) // each id exactly once
		next = append(next, ch)
	}
	*owner = next
	t.rebuild()
	return nil
}
