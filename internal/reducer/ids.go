package reducer

import "github.com/google/uuid"

// IDSource generates stable node identifiers.
// Implemented by UUIDSource (production) and testutil.SequenceIDSource
// (tests and the conformance harness).
type IDSource interface {
	NewID() uuid.UUID
}

// UUIDSource generates time-ordered UUIDv7 identifiers, so stable IDs of
// nodes created in the same session sort in creation order.
type UUIDSource struct{}

// NewID returns a new UUIDv7.
func (UUIDSource) NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
