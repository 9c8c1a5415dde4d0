// Package wal persists the current root offset across the lifetime of
// one process. It is intentionally minimal: root advancement is one
// fixed-size append, and the last complete record in the file is
// authoritative. A reader that finds a partial trailing record (a
// crash mid-append) discards it.
package wal

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/arborkv/bptree/errs"
	"github.com/arborkv/bptree/pager"
)

const fileName = "wal.log"

// recordSize is the width, in bytes, of one WAL record: a single
// big-endian root offset.
const recordSize = pager.PtrSize

// Wal is the write-ahead log backing one BTree instance.
type Wal struct {
	file *os.File
}

// Open opens (creating if absent) wal.log inside directory.
func Open(directory string) (*Wal, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, errs.WrapIO(err, "wal: mkdir %s", directory)
	}
	path := filepath.Join(directory, fileName)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errs.WrapIO(err, "wal: open %s", path)
	}
	return &Wal{file: f}, nil
}

// SetRoot appends a record naming offset as the new current root. The
// latest record wins on recovery.
func (w *Wal) SetRoot(offset uint64) error {
	if _, err := w.file.Seek(0, io.SeekEnd); err != nil {
		return errs.WrapIO(err, "wal: seek to end")
	}
	var buf [recordSize]byte
	binary.BigEndian.PutUint64(buf[:], offset)
	if _, err := w.file.Write(buf[:]); err != nil {
		return errs.WrapIO(err, "wal: append record")
	}
	return nil
}

// GetRootOffset returns the offset named by the last complete record.
// It fails with an Unexpected error if the log holds no complete
// record.
func (w *Wal) GetRootOffset() (uint64, error) {
	info, err := w.file.Stat()
	if err != nil {
		return 0, errs.WrapIO(err, "wal: stat")
	}

	complete := info.Size() / recordSize
	if complete == 0 {
		return 0, errs.Unexpectedf("wal: no complete root record")
	}

	lastRecordOffset := (complete - 1) * recordSize
	if _, err := w.file.Seek(lastRecordOffset, io.SeekStart); err != nil {
		return 0, errs.WrapIO(err, "wal: seek to last record")
	}
	var buf [recordSize]byte
	if _, err := io.ReadFull(w.file, buf[:]); err != nil {
		return 0, errs.WrapIO(err, "wal: read last record")
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// Close closes the underlying log file.
func (w *Wal) Close() error {
	if err := w.file.Close(); err != nil {
		return errs.WrapIO(err, "wal: close")
	}
	return nil
}
