// Package baseline wraps github.com/cockroachdb/pebble behind a tiny
// Insert/Get interface so cmd/bench can compare the B+tree's latency
// against an established LSM engine. It is adapted from the teacher
// repository's dbms/index/lsm wrapper, which keyed on int64; ours keys
// on the same raw strings the B+tree does, since pebble's default
// byte-wise comparator already agrees with the spec's lexicographic
// string ordering.
package baseline

import (
	"github.com/cockroachdb/pebble"

	"github.com/arborkv/bptree/errs"
)

// Pebble is a minimal pebble-backed key-value store used only as a
// benchmark baseline; it is not part of the B+tree's public surface.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a pebble database at dir.
func OpenPebble(dir string) (*Pebble, error) {
	opts := &pebble.Options{
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errs.WrapIO(err, "baseline: open pebble at %s", dir)
	}
	return &Pebble{db: db}, nil
}

// Insert inserts or updates the value for key.
func (p *Pebble) Insert(key, value string) error {
	if err := p.db.Set([]byte(key), []byte(value), pebble.NoSync); err != nil {
		return errs.WrapIO(err, "baseline: set %q", key)
	}
	return nil
}

// Get retrieves the value for key, or errs.KeyNotFound if absent.
func (p *Pebble) Get(key string) (string, error) {
	val, closer, err := p.db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return "", errs.KeyNotFound
	}
	if err != nil {
		return "", errs.WrapIO(err, "baseline: get %q", key)
	}
	// val is only valid until closer.Close(), so copy it before returning.
	result := string(val)
	_ = closer.Close()
	return result, nil
}

// Close flushes and closes the underlying pebble database.
func (p *Pebble) Close() error {
	if err := p.db.Close(); err != nil {
		return errs.WrapIO(err, "baseline: close pebble")
	}
	return nil
}
