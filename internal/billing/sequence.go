package billing

import "sync/atomic"

// Sequence hands out monotonically increasing invoice numbers. The counter
// never decrements, and increments are atomic so parallel reconciliation
// workers can share one sequence.
type Sequence struct {
	n atomic.Int64
}

// NewSequence creates a sequence starting at zero; the first Next() is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next invoice number.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the most recently issued number.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}

// Seed fast-forwards the counter so the next number is n+1. Seeding backwards
// is a no-op: the sequence only ever moves forward.
func (s *Sequence) Seed(n int64) {
	for {
		cur := s.n.Load()
		if cur >= n || s.n.CompareAndSwap(cur, n) {
			return
		}
	}
}
