package node

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitLeafPromotesFirstKeyOfSibling(t *testing.T) {
	const b = 2
	n := NewLeaf(true, 0)
	for _, kv := range []KeyValuePair{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
		{Key: "c", Value: "3"},
	} {
		n.Pairs = append(n.Pairs, kv)
	}

	full, err := n.Full(b)
	require.NoError(t, err)
	require.True(t, full)

	median, sibling, err := n.Split(b)
	require.NoError(t, err)
	require.Equal(t, "b", median)

	require.Equal(t, []KeyValuePair{{Key: "a", Value: "1"}}, n.Pairs)
	require.Equal(t, []KeyValuePair{{Key: "b", Value: "2"}, {Key: "c", Value: "3"}}, sibling.Pairs)
	require.False(t, sibling.IsRoot)
	require.Equal(t, n.ParentOffset, sibling.ParentOffset)
}

func TestSplitInternalKeepsChildCountInvariant(t *testing.T) {
	const b = 2
	n := NewInternal(true, 0)
	n.Keys = append(n.Keys, "b", "d", "f")
	n.Children = append(n.Children, 8, 16, 24, 32)

	median, sibling, err := n.Split(b)
	require.NoError(t, err)
	require.Equal(t, "d", median)

	require.Equal(t, []string{"b"}, n.Keys)
	require.Equal(t, []Offset{8, 16}, n.Children)
	require.Equal(t, []string{"f"}, sibling.Keys)
	require.Equal(t, []Offset{24, 32}, sibling.Children)

	require.Equal(t, len(n.Children), len(n.Keys)+1)
	require.Equal(t, len(sibling.Children), len(sibling.Keys)+1)
}

func TestSplitRejectsNonFullNode(t *testing.T) {
	n := NewLeaf(true, 0)
	n.Pairs = append(n.Pairs, KeyValuePair{Key: "a", Value: "1"})
	_, _, err := n.Split(2)
	require.Error(t, err)
}

func TestSplitRejectsUnexpectedNode(t *testing.T) {
	n := &Node{Kind: KindUnexpected}
	_, _, err := n.Split(2)
	require.Error(t, err)
}

func TestFullRejectsUnexpectedNode(t *testing.T) {
	n := &Node{Kind: KindUnexpected}
	_, err := n.Full(2)
	require.Error(t, err)
}
