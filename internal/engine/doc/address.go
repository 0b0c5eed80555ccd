package doc

import (
	"strconv"
	"strings"
)

// AddressMap is a total, order-preserving mapping from positional
// address strings to node references for one tree snapshot.
//
// It is rebuilt in O(n) after every structural mutation (the Tree does
// this as part of the mutation transaction). Lookups against a map
// built before a mutation legitimately miss; Get never panics.
type AddressMap struct {
	byAddr map[string]*Node
	byID   map[string]string // stable id → address
}

// BuildAddressMap walks the forest depth-first and assigns 0-based
// dotted-integer addresses: root k → "k", child j of "A" → "A.j".
func BuildAddressMap(roots []*Node) *AddressMap {
	m := &AddressMap{
		byAddr: make(map[string]*Node),
		byID:   make(map[string]string),
	}
	var visit func(n *Node, addr string)
	visit = func(n *Node, addr string) {
		m.byAddr[addr] = n
		m.byID[n.ID] = addr
		for j, ch := range n.Children {
			visit(ch, addr+"."+strconv.Itoa(j))
		}
	}
	for k, r := range roots {
		visit(r, strconv.Itoa(k))
	}
	return m
}

// Get returns the node at the given address. A miss is a legitimate
// outcome (stale address after a mutation), not an error.
func (m *AddressMap) Get(addr string) (*Node, bool) {
	n, ok := m.byAddr[addr]
	return n, ok
}

// AddressOf returns the current address of a node by stable id.
func (m *AddressMap) AddressOf(id string) (string, bool) {
	a, ok := m.byID[id]
	return a, ok
}

// Len returns the number of addressed nodes.
func (m *AddressMap) Len() int { return len(m.byAddr) }

// ChildrenAddresses returns the addresses of the children of addr, in
// order. Empty when addr has no children or does not exist.
func (m *AddressMap) ChildrenAddresses(addr string) []string {
	var out []string
	for j := 0; ; j++ {
		child := ChildAddress(addr, j)
		if _, ok := m.byAddr[child]; !ok {
			break
		}
		out = append(out, child)
	}
	return out
}

// SiblingAddresses returns the addresses sharing addr's parent,
// excluding addr itself.
func (m *AddressMap) SiblingAddresses(addr string) []string {
	if _, ok := m.byAddr[addr]; !ok {
		return nil
	}
	parent, hasParent := ParentAddress(addr)
	var out []string
	for j := 0; ; j++ {
		var sib string
		if hasParent {
			sib = ChildAddress(parent, j)
		} else {
			sib = strconv.Itoa(j)
		}
		if _, ok := m.byAddr[sib]; !ok {
			break
		}
		if sib != addr {
			out = append(out, sib)
		}
	}
	return out
}

// ParentAddress derives the parent of a dotted address. Pure string
// operation: "2.1.3" → "2.1". Root addresses have no parent.
func ParentAddress(addr string) (string, bool) {
	i := strings.LastIndexByte(addr, '.')
	if i < 0 {
		return "", false
	}
	return addr[:i], true
}

// ChildAddress derives the address of the j-th (0-based) child of addr.
func ChildAddress(addr string, j int) string {
	return addr + "." + strconv.Itoa(j)
}

// ValidAddress reports whether addr is a well-formed dotted address:
// non-empty components, each a non-negative integer without leading
// zeros (except "0" itself).
func ValidAddress(addr string) bool {
	if addr == "" {
		return false
	}
	for _, part := range strings.Split(addr, ".") {
		if part == "" {
			return false
		}
		if len(part) > 1 && part[0] == '0' {
			return false
		}
		if n, err := strconv.Atoi(part); err != nil || n < 0 {
			return false
		}
	}
	return true
}

// Depth returns the component count of addr: the tree depth of the
// node it addresses, counting roots as depth 1.
func Depth(addr string) int {
	if addr == "" {
		return 0
	}
	return strings.Count(addr, ".") + 1
}
