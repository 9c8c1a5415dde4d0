// Package errs defines the error kinds shared across the store: IO
// failures from the backing files, a missing key on search, and
// "unexpected" conditions — malformed pages, invariant violations,
// misuse of the builder or of Node.Split.
//
// Every package in this module constructs errors through the helpers
// here so a caller can always recover the kind with errors.Is(err,
// errs.IO) etc, even though the message attached to any one call site
// varies. This mirrors how cockroachdb/pebble itself marks internal
// errors while still attaching call-site context.
package errs

import "github.com/cockroachdb/errors"

var (
	// IO marks any failure surfaced by the underlying file: open,
	// seek, short read, write.
	IO = errors.New("io error")

	// KeyNotFound marks a search that reached a leaf without an exact
	// key match.
	KeyNotFound = errors.New("key not found")

	// Unexpected marks a malformed page, an encode that overflows a
	// page, a split called on a non-full or Unexpected node, an empty
	// WAL, a missing builder field, or any other invariant violation.
	Unexpected = errors.New("unexpected error")
)

// WrapIO wraps err with additional context and marks it as an IO error.
func WrapIO(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), IO)
}

// Unexpectedf builds a new Unexpected error with a formatted message.
func Unexpectedf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), Unexpected)
}
