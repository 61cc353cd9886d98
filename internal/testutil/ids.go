package testutil

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// SequenceIDSource hands out predictable stable IDs: the n-th call returns
// the UUID whose last eight bytes hold n big-endian, starting at 1.
// Deterministic IDs keep golden files and scenario assertions stable.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceIDSource struct {
	mu sync.Mutex
	n  uint64
}

// NewSequenceIDSource creates a source whose first ID ends in ...0001.
func NewSequenceIDSource() *SequenceIDSource {
	return &SequenceIDSource{}
}

// NewID returns the next ID in the sequence.
func (s *SequenceIDSource) NewID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return SequenceID(s.n)
}

// SequenceID returns the UUID for a given sequence position, so tests can
// name the ID they expect without running a source.
func SequenceID(n uint64) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], n)
	return id
}

// Reset restarts the sequence. After Reset the next ID ends in ...0001.
func (s *SequenceIDSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}
