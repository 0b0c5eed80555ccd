package doc

import "strconv"

// Numbering is the light bidirectional address↔stable-id index. It
// carries no node references, so a history snapshot can keep one
// without pinning a live tree, and re-deriving it is cheaper than
// rebuilding the full AddressMap.
type Numbering struct {
	idByAddr map[string]string
	addrByID map[string]string
}

// BuildNumbering derives the index from the current forest.
func BuildNumbering(roots []*Node) *Numbering {
	n := &Numbering{
		idByAddr: make(map[string]string),
		addrByID: make(map[string]string),
	}
	var visit func(node *Node, addr string)
	visit = func(node *Node, addr string) {
		n.idByAddr[addr] = node.ID
		n.addrByID[node.ID] = addr
		for j, ch := range node.Children {
			visit(ch, addr+"."+strconv.Itoa(j))
		}
	}
	for k, r := range roots {
		visit(r, strconv.Itoa(k))
	}
	return n
}

// IDAt returns the stable id at a positional address.
func (n *Numbering) IDAt(addr string) (string, bool) {
	id, ok := n.idByAddr[addr]
	return id, ok
}

// AddressFor returns the positional address of a stable id.
func (n *Numbering) AddressFor(id string) (string, bool) {
	a, ok := n.addrByID[id]
	return a, ok
}

// Len returns the number of indexed nodes.
func (n *Numbering) Len() int { return len(n.addrByID) }

// Clone returns an independent copy of the index.
func (n *Numbering) Clone() *Numbering {
	c := &Numbering{
		idByAddr: make(map[string]string, len(n.idByAddr)),
		addrByID: make(map[string]string, len(n.addrByID)),
	}
	for k, v := range n.idByAddr {
		c.idByAddr[k] = v
	}
	for k, v := range n.addrByID {
		c.addrByID[k] = v
	}
	return c
}
