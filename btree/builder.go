package btree

import (
	"path/filepath"

	"github.com/arborkv/bptree/errs"
	"github.com/arborkv/bptree/node"
	"github.com/arborkv/bptree/pageformat"
	"github.com/arborkv/bptree/pager"
	"github.com/arborkv/bptree/wal"
)

// defaultTempDir is used for the WAL directory when path has no parent.
const defaultTempDir = "/tmp"

// Builder configures and opens a BTree.
type Builder struct {
	path string
	b    int
}

// NewBuilder returns an empty Builder. Both Path and BParameter must be
// set before Build.
func NewBuilder() *Builder {
	return &Builder{}
}

// Path sets the backing file path.
func (bd *Builder) Path(path string) *Builder {
	bd.path = path
	return bd
}

// BParameter sets the B+tree branching parameter b (b >= 2).
func (bd *Builder) BParameter(b int) *Builder {
	bd.b = b
	return bd
}

// DefaultBuilder mirrors the Rust original's Default impl: b=200,
// path="/tmp/db".
func DefaultBuilder() *Builder {
	return NewBuilder().Path("/tmp/db").BParameter(200)
}

// Build opens the backing file and WAL and returns a ready BTree. The
// backing file is truncated to empty and page 0 is written as the
// initial empty-leaf root.
func (bd *Builder) Build() (*BTree, error) {
	if bd.path == "" {
		return nil, errs.Unexpectedf("btree: builder path is empty")
	}
	if bd.b == 0 {
		return nil, errs.Unexpectedf("btree: builder b parameter is zero")
	}

	pg, err := pager.Open(bd.path)
	if err != nil {
		return nil, err
	}

	root := node.NewLeaf(true, 0)
	rootPage, err := pageformat.Encode(root)
	if err != nil {
		return nil, err
	}
	rootOffset, err := pg.Append(rootPage)
	if err != nil {
		return nil, err
	}

	parentDir := filepath.Dir(bd.path)
	if parentDir == "" || parentDir == "." {
		parentDir = defaultTempDir
	}
	w, err := wal.Open(parentDir)
	if err != nil {
		return nil, err
	}
	if err := w.SetRoot(rootOffset); err != nil {
		return nil, err
	}

	return &BTree{pager: pg, wal: w, b: bd.b}, nil
}
