package utils

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces candidate identifiers. Candidates are not guaranteed
// unique on their own; the caller checks them against existing ids.
type IDGenerator interface {
	NextID() string
}

// SequenceGenerator hands out decimal ids from a monotonic counter, so two
// calls within the same clock tick never collide.
type SequenceGenerator struct {
	last atomic.Uint64
}

// NewSequenceGenerator creates a generator whose first id is start+1
func NewSequenceGenerator(start uint64) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.last.Store(start)
	return g
}

// NextID returns the next counter value as a string
func (g *SequenceGenerator) NextID() string {
	return strconv.FormatUint(g.last.Add(1), 10)
}

// UUIDGenerator produces random (v4) UUIDs.
type UUIDGenerator struct{}

// NextID returns a new random UUID
func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}
