// Package pageformat is the codec between an in-memory *node.Node and
// the fixed-size bytes of a pager.Page.
//
// Layout (big-endian throughout):
//
//	[0]              1 byte    node kind: 0x01 Internal, 0x02 Leaf
//	[1]              1 byte    is_root flag (0 or 1)
//	[2:2+ptr]        ptr bytes parent offset (0 means none)
//	[2+ptr:2+2*ptr]  ptr bytes child/pair count n
//	[2+2*ptr:]       payload
//
// Internal payload: n child offsets (ptr bytes each) followed by n-1
// keys, each a 4-byte big-endian length plus that many UTF-8 bytes.
//
// Leaf payload: n KeyValuePairs, each a 4-byte key length, key bytes,
// 4-byte value length, value bytes.
package pageformat

import (
	"encoding/binary"

	"github.com/arborkv/bptree/errs"
	"github.com/arborkv/bptree/node"
	"github.com/arborkv/bptree/pager"
)

const (
	offKind   = 0
	offIsRoot = 1
	offParent = 2
	offCount  = offParent + pager.PtrSize
	offPayload = offCount + pager.PtrSize

	lenPrefixSize = 4
)

// Encode converts n into a page. It fails with an Unexpected error if
// the node's Kind is node.KindUnexpected, or if the serialized form
// does not fit in a single page.
func Encode(n *node.Node) (*pager.Page, error) {
	var page pager.Page

	switch n.Kind {
	case node.KindInternal:
		page[offKind] = byte(node.KindInternal)
	case node.KindLeaf:
		page[offKind] = byte(node.KindLeaf)
	default:
		return nil, errs.Unexpectedf("pageformat: cannot encode Unexpected node")
	}

	if n.IsRoot {
		page[offIsRoot] = 1
	}
	putUint(page[offParent:], n.ParentOffset)

	off := offPayload
	switch n.Kind {
	case node.KindInternal:
		putUint(page[offCount:], uint64(len(n.Children)))
		for _, child := range n.Children {
			if off+pager.PtrSize > pager.PageSize {
				return nil, errs.Unexpectedf("pageformat: internal node exceeds page size")
			}
			putUint(page[off:], child)
			off += pager.PtrSize
		}
		for _, key := range n.Keys {
			var err error
			off, err = putString(&page, off, key)
			if err != nil {
				return nil, err
			}
		}

	case node.KindLeaf:
		putUint(page[offCount:], uint64(len(n.Pairs)))
		for _, kv := range n.Pairs {
			var err error
			off, err = putString(&page, off, kv.Key)
			if err != nil {
				return nil, err
			}
			off, err = putString(&page, off, kv.Value)
			if err != nil {
				return nil, err
			}
		}
	}

	return &page, nil
}

// Decode converts a page back into a Node. It fails with an Unexpected
// error if the tag is unknown or any declared size runs past the page.
func Decode(page *pager.Page) (*node.Node, error) {
	kind := node.Kind(page[offKind])
	if kind != node.KindInternal && kind != node.KindLeaf {
		return nil, errs.Unexpectedf("pageformat: unknown node kind tag %#x", page[offKind])
	}

	n := &node.Node{
		Kind:         kind,
		IsRoot:       page[offIsRoot] != 0,
		ParentOffset: getUint(page[offParent:]),
	}
	count := int(getUint(page[offCount:]))
	// Every child or pair takes at least PtrSize bytes of payload.
	if count < 0 || count > (pager.PageSize-offPayload)/pager.PtrSize {
		return nil, errs.Unexpectedf("pageformat: declared count %d overflows page", count)
	}

	off := offPayload
	switch kind {
	case node.KindInternal:
		n.Children = make([]node.Offset, 0, count)
		for i := 0; i < count; i++ {
			if off+pager.PtrSize > pager.PageSize {
				return nil, errs.Unexpectedf("pageformat: declared children overflow page")
			}
			n.Children = append(n.Children, getUint(page[off:]))
			off += pager.PtrSize
		}
		n.Keys = make([]string, 0, count)
		for i := 0; i < count-1; i++ {
			var key string
			var err error
			key, off, err = getString(page, off)
			if err != nil {
				return nil, err
			}
			n.Keys = append(n.Keys, key)
		}

	case node.KindLeaf:
		n.Pairs = make([]node.KeyValuePair, 0, count)
		for i := 0; i < count; i++ {
			var key, value string
			var err error
			key, off, err = getString(page, off)
			if err != nil {
				return nil, err
			}
			value, off, err = getString(page, off)
			if err != nil {
				return nil, err
			}
			n.Pairs = append(n.Pairs, node.KeyValuePair{Key: key, Value: value})
		}
	}

	return n, nil
}

func putUint(dst []byte, v uint64) {
	binary.BigEndian.PutUint64(dst[:pager.PtrSize], v)
}

func getUint(src []byte) uint64 {
	return binary.BigEndian.Uint64(src[:pager.PtrSize])
}

// putString writes a 4-byte big-endian length prefix followed by s's
// bytes at off, returning the offset just past what was written.
func putString(page *pager.Page, off int, s string) (int, error) {
	if off+lenPrefixSize+len(s) > pager.PageSize {
		return 0, errs.Unexpectedf("pageformat: string field exceeds page size")
	}
	binary.BigEndian.PutUint32(page[off:], uint32(len(s)))
	off += lenPrefixSize
	copy(page[off:], s)
	return off + len(s), nil
}

// getString reads a 4-byte big-endian length prefix followed by that
// many bytes, returning the decoded string and the offset just past it.
func getString(page *pager.Page, off int) (string, int, error) {
	if off+lenPrefixSize > pager.PageSize {
		return "", 0, errs.Unexpectedf("pageformat: string length prefix overflows page")
	}
	n := int(binary.BigEndian.Uint32(page[off:]))
	off += lenPrefixSize
	if n < 0 || off+n > pager.PageSize {
		return "", 0, errs.Unexpectedf("pageformat: string of length %d overflows page", n)
	}
	s := string(page[off : off+n])
	return s, off + n, nil
}
