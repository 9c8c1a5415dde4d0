// Package btree is the top-down, copy-on-write B+tree orchestrator: it
// ties the pager, the page codec, and the WAL together into Insert,
// Search, and Print.
//
// Insert performs a preemptive, top-down split: a node is split on the
// way down, before the traversal ever enters it, so there is no
// separate upward rebalancing pass. Every node visited on the
// root-to-leaf path is rewritten at a fresh offset before it is
// mutated — copy-on-write — so a crash at any point before the final
// WAL update leaves the previous root, and everything reachable from
// it, intact.
package btree

import (
	"fmt"
	"io"

	"github.com/arborkv/bptree/errs"
	"github.com/arborkv/bptree/node"
	"github.com/arborkv/bptree/pageformat"
	"github.com/arborkv/bptree/pager"
	"github.com/arborkv/bptree/wal"
)

// BTree is an on-disk B+tree. Leaf nodes hold the values; internal
// nodes hold only separator keys and child offsets.
type BTree struct {
	pager *pager.Pager
	wal   *wal.Wal
	b     int
}

// Close releases the backing file and WAL.
func (t *BTree) Close() error {
	if err := t.pager.Close(); err != nil {
		return err
	}
	return t.wal.Close()
}

func (t *BTree) readNode(offset node.Offset) (*node.Node, error) {
	page, err := t.pager.Read(offset)
	if err != nil {
		return nil, err
	}
	return pageformat.Decode(page)
}

func (t *BTree) appendNode(n *node.Node) (node.Offset, error) {
	page, err := pageformat.Encode(n)
	if err != nil {
		return 0, err
	}
	return t.pager.Append(page)
}

func (t *BTree) overwriteNode(offset node.Offset, n *node.Node) error {
	page, err := pageformat.Encode(n)
	if err != nil {
		return err
	}
	return t.pager.Overwrite(offset, page)
}

// ─── Insert ───────────────────────────────────────────────────────────────────

// Insert inserts kv into the tree, splitting nodes along the way as
// needed. The WAL is advanced only after every new page the insert
// touches has been written (no fsync is issued), so a failed insert leaves the WAL
// pointing at the previous, still-valid root.
func (t *BTree) Insert(kv node.KeyValuePair) error {
	rootOffset, err := t.wal.GetRootOffset()
	if err != nil {
		return err
	}
	root, err := t.readNode(rootOffset)
	if err != nil {
		return err
	}

	rootFull, err := root.Full(t.b)
	if err != nil {
		return err
	}

	var newRoot *node.Node
	var newRootOffset node.Offset

	if rootFull {
		// Split the root, creating a new root and child nodes along
		// the way.
		newRoot = node.NewInternal(true, 0)
		// Write the new root to disk first to acquire an offset for it.
		newRootOffset, err = t.appendNode(newRoot)
		if err != nil {
			return err
		}

		root.IsRoot = false
		root.ParentOffset = newRootOffset

		median, sibling, err := root.Split(t.b)
		if err != nil {
			return err
		}

		oldRootOffset, err := t.appendNode(root)
		if err != nil {
			return err
		}
		siblingOffset, err := t.appendNode(sibling)
		if err != nil {
			return err
		}

		newRoot.Children = append(newRoot.Children, oldRootOffset, siblingOffset)
		newRoot.Keys = append(newRoot.Keys, median)
		if err := t.overwriteNode(newRootOffset, newRoot); err != nil {
			return err
		}
	} else {
		newRoot = root.Clone()
		newRootOffset, err = t.appendNode(newRoot)
		if err != nil {
			return err
		}
	}

	if err := t.insertNonFull(newRoot, newRootOffset, kv); err != nil {
		return err
	}

	return t.wal.SetRoot(newRootOffset)
}

// insertNonFull (recursively) finds the node rooted at node, already a
// fresh copy-on-write copy, to insert kv into.
func (t *BTree) insertNonFull(n *node.Node, offset node.Offset, kv node.KeyValuePair) error {
	switch n.Kind {
	case node.KindLeaf:
		idx := leafInsertionIndex(n.Pairs, kv.Key)
		n.Pairs = append(n.Pairs, node.KeyValuePair{})
		copy(n.Pairs[idx+1:], n.Pairs[idx:])
		n.Pairs[idx] = kv
		return t.overwriteNode(offset, n)

	case node.KindInternal:
		idx := keyInsertionIndex(n.Keys, kv.Key)
		childOffset := n.Children[idx]
		child, err := t.readNode(childOffset)
		if err != nil {
			return err
		}

		// Copy the child on the way down: appendNode writes it as a new
		// page at a new offset.
		newChildOffset, err := t.appendNode(child)
		if err != nil {
			return err
		}
		n.Children[idx] = newChildOffset

		childFull, err := child.Full(t.b)
		if err != nil {
			return err
		}

		if childFull {
			median, sibling, err := child.Split(t.b)
			if err != nil {
				return err
			}
			if err := t.overwriteNode(newChildOffset, child); err != nil {
				return err
			}
			siblingOffset, err := t.appendNode(sibling)
			if err != nil {
				return err
			}

			n.Children = append(n.Children, 0)
			copy(n.Children[idx+2:], n.Children[idx+1:])
			n.Children[idx+1] = siblingOffset

			n.Keys = append(n.Keys, "")
			copy(n.Keys[idx+1:], n.Keys[idx:])
			n.Keys[idx] = median

			if err := t.overwriteNode(offset, n); err != nil {
				return err
			}

			if kv.Key <= median {
				return t.insertNonFull(child, newChildOffset, kv)
			}
			return t.insertNonFull(sibling, siblingOffset, kv)
		}

		if err := t.overwriteNode(offset, n); err != nil {
			return err
		}
		return t.insertNonFull(child, newChildOffset, kv)

	default:
		return errs.Unexpectedf("btree: insertNonFull on Unexpected node")
	}
}

// leafInsertionIndex returns the first index whose key is >= search,
// i.e. where a pair with that key should be inserted. Duplicate keys
// are inserted alongside rather than rejected or upserted — see
// DESIGN.md's Open Questions.
func leafInsertionIndex(pairs []node.KeyValuePair, search string) int {
	lo, hi := 0, len(pairs)
	for lo < hi {
		mid := (lo + hi) / 2
		if pairs[mid].Key < search {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// keyInsertionIndex returns the first index whose key is >= search,
// which is also the index of the child Insert descends into.
func keyInsertionIndex(keys []string, search string) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if keys[mid] < search {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// ─── Search ───────────────────────────────────────────────────────────────────

// Search looks up key and returns its KeyValuePair, or a KeyNotFound
// error if no exact match exists. Search performs no writes and does
// not touch the WAL beyond the initial root lookup.
func (t *BTree) Search(key string) (node.KeyValuePair, error) {
	rootOffset, err := t.wal.GetRootOffset()
	if err != nil {
		return node.KeyValuePair{}, err
	}
	root, err := t.readNode(rootOffset)
	if err != nil {
		return node.KeyValuePair{}, err
	}
	return t.searchNode(root, key)
}

func (t *BTree) searchNode(n *node.Node, search string) (node.KeyValuePair, error) {
	switch n.Kind {
	case node.KindInternal:
		idx := keyInsertionIndex(n.Keys, search)
		// A leaf split leaves the separator as the first key of the
		// right-hand node, so an exact match descends to the right.
		if idx < len(n.Keys) && n.Keys[idx] == search {
			idx++
		}
		if idx >= len(n.Children) {
			return node.KeyValuePair{}, errs.Unexpectedf("btree: child index %d out of range", idx)
		}
		child, err := t.readNode(n.Children[idx])
		if err != nil {
			return node.KeyValuePair{}, err
		}
		return t.searchNode(child, search)

	case node.KindLeaf:
		idx := leafInsertionIndex(n.Pairs, search)
		if idx < len(n.Pairs) && n.Pairs[idx].Key == search {
			return n.Pairs[idx], nil
		}
		return node.KeyValuePair{}, errs.KeyNotFound

	default:
		return node.KeyValuePair{}, errs.Unexpectedf("btree: searchNode on Unexpected node")
	}
}

// ─── Print ────────────────────────────────────────────────────────────────────

// Print walks the live tree from the current root and writes a
// human-readable dump to w, followed by a one-line summary of how many
// of the pager's appended pages are still reachable from that root —
// every unreachable page is a superseded copy-on-write version left
// behind by a prior Insert.
func (t *BTree) Print(w io.Writer) error {
	rootOffset, err := t.wal.GetRootOffset()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	reachable := map[node.Offset]struct{}{}
	if err := t.printSubTree(w, "", rootOffset, reachable); err != nil {
		return err
	}
	total := t.pager.Cursor() / pager.PageSize
	fmt.Fprintf(w, "Pages: %d reachable, %d total, %d garbage\n",
		len(reachable), total, total-uint64(len(reachable)))
	return nil
}

func (t *BTree) printSubTree(w io.Writer, prefix string, offset node.Offset, reachable map[node.Offset]struct{}) error {
	fmt.Fprintf(w, "%sNode at offset: %d\n", prefix, offset)
	reachable[offset] = struct{}{}
	childPrefix := prefix + "|->"

	n, err := t.readNode(offset)
	if err != nil {
		return err
	}

	switch n.Kind {
	case node.KindInternal:
		fmt.Fprintf(w, "%sKeys: %v\n", childPrefix, n.Keys)
		fmt.Fprintf(w, "%sChildren: %v\n", childPrefix, n.Children)
		nextPrefix := prefix + "   |  "
		for _, child := range n.Children {
			if err := t.printSubTree(w, nextPrefix, child, reachable); err != nil {
				return err
			}
		}
		return nil

	case node.KindLeaf:
		fmt.Fprintf(w, "%sKey value pairs: %v\n", childPrefix, n.Pairs)
		return nil

	default:
		return errs.Unexpectedf("btree: printSubTree on Unexpected node")
	}
}
