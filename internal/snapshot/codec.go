package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/lattice/internal/graph"
)

// Snapshot is a full serialized image of the graph at one instant.
type Snapshot struct {
	CapturedAt time.Time   `json:"captured_at"`
	Nodes      []NodeImage `json:"nodes"`
	Edges      []EdgeImage `json:"edges"`
}

// NodeImage is the durable subset of a node's state. Session-only fields
// (velocity, selection, lifecycle, thumbnail, last-visited) are not
// captured.
type NodeImage struct {
	ID     uuid.UUID `json:"id"`
	URL    string    `json:"url"`
	Title  string    `json:"title"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Pinned bool      `json:"pinned,omitempty"`
}

// EdgeImage references both endpoints by stable ID.
type EdgeImage struct {
	From uuid.UUID      `json:"from"`
	To   uuid.UUID      `json:"to"`
	Kind graph.EdgeKind `json:"kind"`
}

// Capture builds a snapshot of the graph. Nodes and edges are sorted by
// stable ID so two captures of the same graph serialize identically.
func Capture(g *graph.Graph, at time.Time) *Snapshot {
	snap := &Snapshot{
		CapturedAt: at.UTC(),
		Nodes:      []NodeImage{},
		Edges:      []EdgeImage{},
	}

	g.ForEachNode(func(_ graph.NodeHandle, n *graph.Node) {
		snap.Nodes = append(snap.Nodes, NodeImage{
			ID:     n.ID,
			URL:    n.URL,
			Title:  n.Title,
			X:      n.Pos.X,
			Y:      n.Pos.Y,
			Pinned: n.Pinned,
		})
	})
	g.ForEachEdge(func(_ graph.EdgeHandle, e *graph.Edge) {
		src, ok := g.Node(e.From)
		if !ok {
			return
		}
		dst, ok := g.Node(e.To)
		if !ok {
			return
		}
		snap.Edges = append(snap.Edges, EdgeImage{
			From: src.ID,
			To:   dst.ID,
			Kind: e.Kind,
		})
	})

	sort.Slice(snap.Nodes, func(i, j int) bool {
		return bytes.Compare(snap.Nodes[i].ID[:], snap.Nodes[j].ID[:]) < 0
	})
	sort.Slice(snap.Edges, func(i, j int) bool {
		a, b := snap.Edges[i], snap.Edges[j]
		if c := bytes.Compare(a.From[:], b.From[:]); c != 0 {
			return c < 0
		}
		if c := bytes.Compare(a.To[:], b.To[:]); c != 0 {
			return c < 0
		}
		return a.Kind < b.Kind
	})

	return snap
}

// marshalSnapshot encodes a snapshot as JSON with HTML escaping disabled.
func marshalSnapshot(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	// Encoder adds a trailing newline, remove it.
	return bytes.TrimSpace(buf.Bytes()), nil
}

// unmarshalSnapshot decodes a snapshot image, validating edge kinds.
func unmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	for _, e := range snap.Edges {
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("unmarshal snapshot: unknown edge kind %q", e.Kind)
		}
	}
	return &snap, nil
}
