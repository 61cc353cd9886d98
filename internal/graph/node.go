package graph

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// NodeHandle is a session-local handle to a node. Handles are unique within
// one process run and are never reused. The zero value is invalid.
type NodeHandle uint32

// Vec2 is a 2D position or velocity in layout space.
type Vec2 struct {
	X float64
	Y float64
}

// Lifecycle tracks whether a node has a live webview counterpart.
type Lifecycle uint8

const (
	// LifecycleActive means the node has a live rendering/webview counterpart.
	LifecycleActive Lifecycle = iota

	// LifecycleCold means the node is metadata only.
	LifecycleCold
)

// String returns the lifecycle state as a string.
func (l Lifecycle) String() string {
	switch l {
	case LifecycleActive:
		return "active"
	case LifecycleCold:
		return "cold"
	default:
		return "unknown"
	}
}

// Raster holds cached thumbnail or favicon pixel data with explicit
// dimensions. Pixels are row-major RGBA.
type Raster struct {
	Width  int
	Height int
	Pixels []byte
}

// Node is a single page in the browsing graph.
//
// In and Out hold incident edge handles in insertion order. Callers must not
// mutate them directly; adjacency is maintained by the Graph.
type Node struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Pos         Vec2
	Vel         Vec2
	Selected    bool
	Pinned      bool
	State       Lifecycle
	LastVisited time.Time
	Thumb       *Raster
	In          []EdgeHandle
	Out         []EdgeHandle
}

// NormalizeURL returns the NFC normal form of a URL. All URLs are normalized
// before they reach the URL index or the wire, so lookups are stable across
// differently-composed Unicode input.
func NormalizeURL(url string) string {
	return norm.NFC.String(url)
}
