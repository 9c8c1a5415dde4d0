package pager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Pager {
	t.Helper()
	p, err := Open(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestAppendReadRoundTrip(t *testing.T) {
	p := openTemp(t)

	var pg Page
	copy(pg[:], "hello page")

	offset, err := p.Append(&pg)
	require.NoError(t, err)
	require.EqualValues(t, 0, offset)
	require.EqualValues(t, PageSize, p.Cursor())

	got, err := p.Read(offset)
	require.NoError(t, err)
	require.Equal(t, pg, *got)
}

func TestAppendAdvancesCursorByPageSize(t *testing.T) {
	p := openTemp(t)

	var a, b Page
	copy(a[:], "first")
	copy(b[:], "second")

	offA, err := p.Append(&a)
	require.NoError(t, err)
	offB, err := p.Append(&b)
	require.NoError(t, err)

	require.EqualValues(t, 0, offA)
	require.EqualValues(t, PageSize, offB)

	gotA, err := p.Read(offA)
	require.NoError(t, err)
	require.Equal(t, a, *gotA)

	gotB, err := p.Read(offB)
	require.NoError(t, err)
	require.Equal(t, b, *gotB)
}

func TestOverwriteDoesNotMoveCursor(t *testing.T) {
	p := openTemp(t)

	var original, replacement Page
	copy(original[:], "v1")
	copy(replacement[:], "v2")

	offset, err := p.Append(&original)
	require.NoError(t, err)
	cursorBefore := p.Cursor()

	require.NoError(t, p.Overwrite(offset, &replacement))
	require.Equal(t, cursorBefore, p.Cursor())

	got, err := p.Read(offset)
	require.NoError(t, err)
	require.Equal(t, replacement, *got)
}

func TestReadRejectsMisalignedOffset(t *testing.T) {
	p := openTemp(t)
	var pg Page
	_, err := p.Append(&pg)
	require.NoError(t, err)

	_, err = p.Read(1)
	require.Error(t, err)
}

func TestReadRejectsOffsetPastCursor(t *testing.T) {
	p := openTemp(t)
	_, err := p.Read(0)
	require.Error(t, err)
}
