package graph

import "fmt"

// EdgeHandle is a session-local handle to an edge. Handles are unique within
// one process run and are never reused. The zero value is invalid.
type EdgeHandle uint32

// EdgeKind distinguishes navigation edges from history edges.
// The string values are the wire encoding used by journal records and
// snapshots.
type EdgeKind string

const (
	// EdgeHyperlink is a navigation edge: the destination was opened from a
	// link on the source page.
	EdgeHyperlink EdgeKind = "hyperlink"

	// EdgeHistory is a history edge: the destination replaced the source in
	// the same view.
	EdgeHistory EdgeKind = "history"
)

// ParseEdgeKind converts a wire string to an EdgeKind.
func ParseEdgeKind(s string) (EdgeKind, error) {
	switch EdgeKind(s) {
	case EdgeHyperlink, EdgeHistory:
		return EdgeKind(s), nil
	default:
		return "", fmt.Errorf("unknown edge kind %q", s)
	}
}

// Valid reports whether the kind is one of the defined edge kinds.
func (k EdgeKind) Valid() bool {
	return k == EdgeHyperlink || k == EdgeHistory
}

// Edge connects two nodes by session-local handle. Both endpoints are live
// nodes for as long as the edge exists; removing either endpoint removes the
// edge.
type Edge struct {
	From NodeHandle
	To   NodeHandle
	Kind EdgeKind
}
