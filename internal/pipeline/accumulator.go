package pipeline

import (
	"sync"

	"grocer/internal/domain"
)

// Accumulator collects records in arrival order up to a configured cap. The
// cap signal is advisory: Offer keeps appending after the cap so no finished
// work is lost, but by then the caller has already been told to stop.
//
// Check-and-append runs under one mutex so concurrent workers cannot
// overshoot the cap by more than their in-flight width.
type Accumulator struct {
	mu      sync.Mutex
	records []domain.Product
	max     int
}

func NewAccumulator(max int) *Accumulator {
	return &Accumulator{max: max}
}

// Offer appends the record and reports whether the caller should continue
// requesting pages. It returns false from the call that reaches the cap
// onward.
func (a *Accumulator) Offer(record domain.Product) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
	return len(a.records) < a.max
}

// Full reports whether the cap has been reached.
func (a *Accumulator) Full() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records) >= a.max
}

// Count returns the number of accumulated records.
func (a *Accumulator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Snapshot returns a copy of the accumulated records in arrival order.
func (a *Accumulator) Snapshot() []domain.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Product, len(a.records))
	copy(out, a.records)
	return out
}
