// Package pager presents a backing file as a sequence of fixed-size pages
// addressed by absolute byte offset. It is deliberately dumb: no caching,
// no free-space tracking, no compaction. Callers that want a cache or a
// free list build it on top.
package pager

import (
	"io"
	"os"

	"github.com/arborkv/bptree/errs"
)

const (
	// PageSize is the fixed size, in bytes, of every page on disk.
	PageSize = 4096

	// PtrSize is the width, in bytes, of an on-disk offset or count field.
	PtrSize = 8
)

// Page is a raw, fixed-size block of bytes as it appears on disk.
type Page [PageSize]byte

// Pager owns a single backing file and hands out page-aligned offsets.
type Pager struct {
	file   *os.File
	cursor uint64 // offset one past the last appended page
}

// Open opens (creating if absent) the file at path for read/write and
// truncates it to empty, matching the original on-disk layout's
// assumption that page 0 is written fresh by the caller.
func Open(path string) (*Pager, error) {
	if path == "" {
		return nil, errs.Unexpectedf("pager: empty path")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errs.WrapIO(err, "pager: open %s", path)
	}
	return &Pager{file: f}, nil
}

// Cursor reports the current append offset — the offset the next
// Append call will hand out.
func (p *Pager) Cursor() uint64 {
	return p.cursor
}

// Read returns the page stored at offset. offset must be a multiple of
// PageSize and less than the current cursor.
func (p *Pager) Read(offset uint64) (*Page, error) {
	if offset%PageSize != 0 {
		return nil, errs.Unexpectedf("pager: offset %d not page-aligned", offset)
	}
	if offset >= p.cursor {
		return nil, errs.Unexpectedf("pager: offset %d out of range (cursor %d)", offset, p.cursor)
	}
	var page Page
	if _, err := p.file.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, errs.WrapIO(err, "pager: seek to %d", offset)
	}
	if _, err := io.ReadFull(p.file, page[:]); err != nil {
		return nil, errs.WrapIO(err, "pager: read at %d", offset)
	}
	return &page, nil
}

// Append writes page at the current cursor, returns the offset it was
// written at, and advances the cursor by one page.
func (p *Pager) Append(page *Page) (uint64, error) {
	if _, err := p.file.Seek(int64(p.cursor), io.SeekStart); err != nil {
		return 0, errs.WrapIO(err, "pager: seek to %d", p.cursor)
	}
	if _, err := p.file.Write(page[:]); err != nil {
		return 0, errs.WrapIO(err, "pager: append at %d", p.cursor)
	}
	offset := p.cursor
	p.cursor += PageSize
	return offset, nil
}

// Overwrite rewrites the page at offset in place. It never moves the
// cursor, so offset must already be backed by a prior Append.
func (p *Pager) Overwrite(offset uint64, page *Page) error {
	if offset%PageSize != 0 {
		return errs.Unexpectedf("pager: offset %d not page-aligned", offset)
	}
	if _, err := p.file.Seek(int64(offset), io.SeekStart); err != nil {
		return errs.WrapIO(err, "pager: seek to %d", offset)
	}
	if _, err := p.file.Write(page[:]); err != nil {
		return errs.WrapIO(err, "pager: overwrite at %d", offset)
	}
	return nil
}

// Close closes the backing file.
func (p *Pager) Close() error {
	if err := p.file.Close(); err != nil {
		return errs.WrapIO(err, "pager: close")
	}
	return nil
}
