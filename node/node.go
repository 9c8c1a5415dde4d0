// Package node defines the in-memory value a page decodes into: an
// Internal node (separator keys and child offsets), a Leaf node (sorted
// key-value pairs), or Unexpected (a decode failure sentinel, never
// constructed deliberately). It also implements Split, the one
// structural operation a node performs on itself.
package node

import (
	"github.com/arborkv/bptree/errs"
)

// MaxBranchingFactor is the capacity NewLeaf and NewInternal pre-allocate
// their slices with; the Rust original pre-sizes an ArrayVec to this
// constant, Go has no equivalent fixed-capacity vector, so ordinary
// slices are used instead. It is a capacity hint only: nothing checks it
// against b, and the slices grow past it when 2*b exceeds it.
const MaxBranchingFactor = 200

// NodeKeysLimit is MaxBranchingFactor-1. Nothing in the tree enforces
// it; a node holds at most 2*b-1 keys for the b the tree is built with.
const NodeKeysLimit = MaxBranchingFactor - 1

// Offset is a byte offset into the backing file. It is always either
// zero (meaning "no parent", or "not yet assigned") or a multiple of
// pager.PageSize.
type Offset = uint64

// KeyValuePair is a single entry stored in a leaf. Equality compares
// both fields; ordering (Less) compares only the key.
type KeyValuePair struct {
	Key   string
	Value string
}

// Less reports whether kv sorts before other by key alone.
func (kv KeyValuePair) Less(other KeyValuePair) bool {
	return kv.Key < other.Key
}

// Kind tags which variant a Node currently holds.
type Kind uint8

const (
	// KindInternal nodes hold ordered child offsets and separator keys.
	KindInternal Kind = 0x01
	// KindLeaf nodes hold ordered key-value pairs.
	KindLeaf Kind = 0x02
	// KindUnexpected marks a node that failed to decode. It is never
	// constructed deliberately by tree code.
	KindUnexpected Kind = 0x03
)

// Node is the in-memory value a page decodes into.
//
// Invariant: for Internal nodes, len(Children) == len(Keys)+1. For Leaf
// nodes, Pairs is sorted strictly increasing by Key.
type Node struct {
	Kind Kind

	IsRoot       bool
	ParentOffset Offset // 0 means "no parent"

	Children []Offset // Internal only
	Keys     []string // Internal only, len(Keys) == len(Children)-1

	Pairs []KeyValuePair // Leaf only
}

// NewLeaf constructs an empty leaf node.
func NewLeaf(isRoot bool, parent Offset) *Node {
	return &Node{
		Kind:         KindLeaf,
		IsRoot:       isRoot,
		ParentOffset: parent,
		Pairs:        make([]KeyValuePair, 0, MaxBranchingFactor),
	}
}

// NewInternal constructs an empty internal node.
func NewInternal(isRoot bool, parent Offset) *Node {
	return &Node{
		Kind:         KindInternal,
		IsRoot:       isRoot,
		ParentOffset: parent,
		Children:     make([]Offset, 0, MaxBranchingFactor),
		Keys:         make([]string, 0, MaxBranchingFactor),
	}
}

// Clone returns a deep copy of n, suitable for the copy-on-write write
// that precedes mutating a node reachable from a prior root.
func (n *Node) Clone() *Node {
	c := &Node{
		Kind:         n.Kind,
		IsRoot:       n.IsRoot,
		ParentOffset: n.ParentOffset,
	}
	if n.Children != nil {
		c.Children = append(make([]Offset, 0, len(n.Children)), n.Children...)
	}
	if n.Keys != nil {
		c.Keys = append(make([]string, 0, len(n.Keys)), n.Keys...)
	}
	if n.Pairs != nil {
		c.Pairs = append(make([]KeyValuePair, 0, len(n.Pairs)), n.Pairs...)
	}
	return c
}

// Full reports whether n holds exactly 2b-1 keys/pairs, the point at
// which it must be split before another entry is inserted into it.
func (n *Node) Full(b int) (bool, error) {
	switch n.Kind {
	case KindLeaf:
		return len(n.Pairs) == 2*b-1, nil
	case KindInternal:
		return len(n.Keys) == 2*b-1, nil
	default:
		return false, errs.Unexpectedf("node: Full called on Unexpected node")
	}
}

// Split partitions a full node into a left half (kept in n) and a right
// half (the returned sibling), promoting a single median key.
//
// For a Leaf with 2b-1 pairs: n keeps pairs [0,b-1), the median is the
// key of pair b-1, and sibling holds pairs [b-1,2b-1) — the leaf does
// not move a pair up, the median key reappears as the sibling's first
// key.
//
// For an Internal with 2b-1 keys and 2b children: n keeps keys [0,b-1)
// and children [0,b), the median is key b-1, and sibling holds keys
// [b,2b-1) and children [b,2b).
func (n *Node) Split(b int) (median string, sibling *Node, err error) {
	full, err := n.Full(b)
	if err != nil {
		return "", nil, err
	}
	if !full {
		return "", nil, errs.Unexpectedf("node: Split called on a non-full node")
	}

	switch n.Kind {
	case KindLeaf:
		sib := NewLeaf(false, n.ParentOffset)
		sib.Pairs = append(sib.Pairs, n.Pairs[b-1:]...)
		median = n.Pairs[b-1].Key
		n.Pairs = n.Pairs[:b-1]
		return median, sib, nil

	case KindInternal:
		sib := NewInternal(false, n.ParentOffset)
		sib.Keys = append(sib.Keys, n.Keys[b:]...)
		sib.Children = append(sib.Children, n.Children[b:]...)
		median = n.Keys[b-1]
		n.Keys = n.Keys[:b-1]
		n.Children = n.Children[:b]
		return median, sib, nil

	default:
		return "", nil, errs.Unexpectedf("node: Split called on Unexpected node")
	}
}
