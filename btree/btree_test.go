package btree

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/arborkv/bptree/errs"
	"github.com/arborkv/bptree/node"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, b int) *BTree {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db")
	tree, err := NewBuilder().Path(path).BParameter(b).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tree.Close() })
	return tree
}

func insertKV(t *testing.T, tree *BTree, key, value string) {
	t.Helper()
	require.NoError(t, tree.Insert(node.KeyValuePair{Key: key, Value: value}))
}

// S1
func TestSearchWorks(t *testing.T) {
	tree := newTestTree(t, 2)
	insertKV(t, tree, "a", "shalom")
	insertKV(t, tree, "b", "hello")
	insertKV(t, tree, "c", "marhaba")

	kv, err := tree.Search("b")
	require.NoError(t, err)
	require.Equal(t, "b", kv.Key)
	require.Equal(t, "hello", kv.Value)

	kv, err = tree.Search("c")
	require.NoError(t, err)
	require.Equal(t, "c", kv.Key)
	require.Equal(t, "marhaba", kv.Value)
}

// S2 + S3
func TestInsertTriggersMultiLevelTreeAndMissingKeyFails(t *testing.T) {
	tree := newTestTree(t, 2)

	values := map[string]string{
		"a": "shalom", "b": "hello", "c": "marhaba", "d": "olah",
		"e": "salam", "f": "hallo", "g": "Konnichiwa", "h": "Ni hao",
		"i": "Ciao",
	}
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		insertKV(t, tree, k, values[k])
	}

	for k, want := range values {
		kv, err := tree.Search(k)
		require.NoError(t, err)
		require.Equal(t, want, kv.Value)
	}

	_, err := tree.Search("z")
	require.Error(t, err)
	require.ErrorIs(t, err, errs.KeyNotFound)
}

// S4
func TestInsertAndSearchOneThousandKeys(t *testing.T) {
	tree := newTestTree(t, 2)

	const n = 1000
	for i := 0; i < n; i++ {
		insertKV(t, tree, fmt.Sprintf("k%04d", i), fmt.Sprintf("v%d", i))
	}
	for i := 0; i < n; i++ {
		kv, err := tree.Search(fmt.Sprintf("k%04d", i))
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("v%d", i), kv.Value)
	}
}

// S5
func TestBuilderRejectsEmptyPath(t *testing.T) {
	_, err := NewBuilder().Path("").BParameter(2).Build()
	require.Error(t, err)
}

func TestBuilderRejectsZeroB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	_, err := NewBuilder().Path(path).BParameter(0).Build()
	require.Error(t, err)
}

func TestSearchBelowEveryKeyFails(t *testing.T) {
	tree := newTestTree(t, 2)
	insertKV(t, tree, "m", "mid")
	insertKV(t, tree, "n", "mid2")

	_, err := tree.Search("a")
	require.Error(t, err)
	require.ErrorIs(t, err, errs.KeyNotFound)
}

func TestPrintWalksLiveTree(t *testing.T) {
	tree := newTestTree(t, 2)
	for i := 0; i < 12; i++ {
		insertKV(t, tree, fmt.Sprintf("k%02d", i), "v")
	}

	var buf bytes.Buffer
	require.NoError(t, tree.Print(&buf))
	require.Contains(t, buf.String(), "Node at offset")
}
