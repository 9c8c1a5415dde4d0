package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRootOffsetFailsWhenEmpty(t *testing.T) {
	w, err := Open(t.TempDir())
	require.NoError(t, err)
	defer w.Close()

	_, err = w.GetRootOffset()
	require.Error(t, err)
}

func TestLatestRecordWins(t *testing.T) {
	w, err := Open(t.TempDir())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.SetRoot(0))
	require.NoError(t, w.SetRoot(4096))
	require.NoError(t, w.SetRoot(8192))

	got, err := w.GetRootOffset()
	require.NoError(t, err)
	require.EqualValues(t, 8192, got)
}

func TestPartialTrailingRecordIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, w.SetRoot(4096))
	require.NoError(t, w.Close())

	// Simulate a crash mid-append: a few stray bytes after the last
	// complete record.
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	w2, err := Open(dir)
	require.NoError(t, err)
	defer w2.Close()

	got, err := w2.GetRootOffset()
	require.NoError(t, err)
	require.EqualValues(t, 4096, got)
}
