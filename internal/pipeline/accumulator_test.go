package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"grocer/internal/domain"
)

func TestAccumulator_CapSignaling(t *testing.T) {
	acc := NewAccumulator(3)

	assert.True(t, acc.Offer(domain.Product{Name: "a"}))
	assert.True(t, acc.Offer(domain.Product{Name: "b"}))
	// The call that reaches the cap already reports stop.
	assert.False(t, acc.Offer(domain.Product{Name: "c"}))
	assert.True(t, acc.Full())

	// Offers after the cap still append: finished work is never discarded.
	assert.False(t, acc.Offer(domain.Product{Name: "d"}))
	assert.Equal(t, 4, acc.Count())
}

func TestAccumulator_SnapshotPreservesArrivalOrder(t *testing.T) {
	acc := NewAccumulator(10)
	for i := 0; i < 5; i++ {
		acc.Offer(domain.Product{Name: fmt.Sprintf("p%d", i)})
	}

	snap := acc.Snapshot()
	assert.Len(t, snap, 5)
	for i, p := range snap {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.Name)
	}

	// Snapshot is a copy, detached from later appends.
	acc.Offer(domain.Product{Name: "late"})
	assert.Len(t, snap, 5)
}
