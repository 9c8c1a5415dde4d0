// Package stopwatch accumulates elapsed time across repeated
// start/stop spans, the way the original bplustree-rust's Stopwatch
// accumulated thread CPU time around page writes. Go's ecosystem has
// no widely-used equivalent to Rust's cpu_time crate, so this measures
// wall-clock time via time.Now/time.Since instead — acceptable here
// since the benchmark driver that uses it is an external collaborator
// the core spec explicitly does not cover.
package stopwatch

import "time"

// Stopwatch accumulates elapsed wall-clock time across calls to Start
// and Stop.
type Stopwatch struct {
	total time.Duration
	start time.Time
}

// New returns a Stopwatch with zero accumulated time.
func New() *Stopwatch {
	return &Stopwatch{start: time.Now()}
}

// Start records the beginning of a timed span.
func (s *Stopwatch) Start() {
	s.start = time.Now()
}

// Stop adds the time elapsed since the last Start to the running total.
func (s *Stopwatch) Stop() {
	s.total += time.Since(s.start)
}

// Total returns the accumulated duration across every Start/Stop span.
func (s *Stopwatch) Total() time.Duration {
	return s.total
}
