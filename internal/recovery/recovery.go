package recovery

import (
	"context"
	"log/slog"

	"github.com/roach88/lattice/internal/graph"
	"github.com/roach88/lattice/internal/journal"
	"github.com/roach88/lattice/internal/record"
	"github.com/roach88/lattice/internal/snapshot"
)

// Recover rebuilds the graph from the latest snapshot plus all journal
// entries recorded after it. Persistence failures degrade rather than
// propagate: an unreadable snapshot recovers from the journal alone, an
// unreadable journal recovers from the snapshot alone.
//
// The second result reports whether there is anything to recover: it is
// false exactly when the resulting graph has zero nodes.
func Recover(ctx context.Context, snapDB *snapshot.DB, jnl *journal.Journal) (*graph.Graph, bool) {
	g := graph.New()

	snap, err := snapDB.ReadGraph(ctx)
	if err != nil {
		slog.Warn("snapshot unreadable, recovering from journal alone", "error", err)
	} else if snap != nil {
		materialize(g, snap)
	}

	entries, err := jnl.Entries(ctx)
	if err != nil {
		slog.Warn("journal unreadable, recovering from snapshot alone", "error", err)
	} else {
		for _, e := range entries {
			Apply(g, e.Record)
		}
	}

	return g, g.NodeCount() > 0
}

// materialize re-inserts every snapshot node under a fresh session handle,
// preserving its stable ID, then re-links edges by stable ID. Edges whose
// endpoints did not survive the snapshot are dropped.
func materialize(g *graph.Graph, snap *snapshot.Snapshot) {
	for _, n := range snap.Nodes {
		h := g.AddNode(n.ID, n.URL, graph.Vec2{X: n.X, Y: n.Y})
		if n.Title != "" {
			g.SetTitle(h, n.Title)
		}
		if n.Pinned {
			g.SetPinned(h, true)
		}
	}
	for _, e := range snap.Edges {
		from, ok := g.NodeByID(e.From)
		if !ok {
			continue
		}
		to, ok := g.NodeByID(e.To)
		if !ok {
			continue
		}
		g.AddEdge(from, to, e.Kind)
	}
}

// Apply replays one mutation record against the graph. Every operation is
// a no-op when its stable-ID references do not resolve, and add-node is
// idempotent on the stable ID, so replaying a journal on top of a snapshot
// that already absorbed a prefix of it converges to the same graph.
func Apply(g *graph.Graph, rec record.Record) {
	switch rec.Kind {
	case record.KindAddNode:
		op := rec.AddNode
		if _, ok := g.NodeByID(op.Node); ok {
			return
		}
		g.AddNode(op.Node, op.URL, graph.Vec2{X: op.X, Y: op.Y})

	case record.KindAddEdge:
		op := rec.AddEdge
		from, ok := g.NodeByID(op.From)
		if !ok {
			return
		}
		to, ok := g.NodeByID(op.To)
		if !ok {
			return
		}
		g.AddEdge(from, to, op.Kind)

	case record.KindSetTitle:
		if h, ok := g.NodeByID(rec.SetTitle.Node); ok {
			g.SetTitle(h, rec.SetTitle.Title)
		}

	case record.KindSetURL:
		if h, ok := g.NodeByID(rec.SetURL.Node); ok {
			g.SetURL(h, rec.SetURL.URL)
		}

	case record.KindPin:
		if h, ok := g.NodeByID(rec.Pin.Node); ok {
			g.SetPinned(h, rec.Pin.Pinned)
		}

	case record.KindRemoveNode:
		if h, ok := g.NodeByID(rec.Remove.Node); ok {
			g.RemoveNode(h)
		}

	case record.KindClear:
		// Subsequent records in the same replay apply on top of the fresh
		// empty graph.
		g.Reset()
	}
}
