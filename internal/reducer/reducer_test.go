package reducer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lattice/internal/graph"
	"github.com/roach88/lattice/internal/record"
	"github.com/roach88/lattice/internal/testutil"
)

// recorderStub collects journaled records and can observe state at append
// time.
type recorderStub struct {
	records  []record.Record
	onRecord func(record.Record)
}

func (r *recorderStub) LogMutation(_ context.Context, rec record.Record) {
	if r.onRecord != nil {
		r.onRecord(rec)
	}
	r.records = append(r.records, rec)
}

func newTestReducer(t *testing.T) (*Reducer, *recorderStub) {
	t.Helper()
	rec := &recorderStub{}
	r := New(graph.New(), rec, WithIDSource(testutil.NewSequenceIDSource()))
	return r, rec
}

func TestOpenPageJournalsAddNode(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{URL: "https://a.example/", Pos: graph.Vec2{X: 10, Y: 20}}})

	require.Len(t, rec.records, 1)
	got := rec.records[0]
	require.Equal(t, record.KindAddNode, got.Kind)
	assert.Equal(t, testutil.SequenceID(1), got.AddNode.Node)
	assert.Equal(t, "https://a.example/", got.AddNode.URL)
	assert.Equal(t, 10.0, got.AddNode.X)
	assert.Equal(t, 20.0, got.AddNode.Y)

	h, ok := r.Graph().NodeByID(testutil.SequenceID(1))
	require.True(t, ok)
	n, _ := r.Graph().Node(h)
	assert.Equal(t, "https://a.example/", n.Title, "title defaults to URL")
}

func TestOpenPageMutatesBeforeAppending(t *testing.T) {
	g := graph.New()
	rec := &recorderStub{}
	r := New(g, rec, WithIDSource(testutil.NewSequenceIDSource()))

	// A crash mid-append must never journal a record for a mutation that is
	// not yet visible in memory.
	rec.onRecord = func(record.Record) {
		assert.Equal(t, 1, g.NodeCount(), "graph mutation must precede the journal append")
	}
	r.Apply(context.Background(), []Intent{OpenPage{URL: "https://a.example/"}})
	require.Len(t, rec.records, 1)
}

func TestOpenPageWithoutURLUsesPlaceholders(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{}, OpenPage{}})

	require.Len(t, rec.records, 2)
	assert.Equal(t, "about:untitled-0", rec.records[0].AddNode.URL)
	assert.Equal(t, "about:untitled-1", rec.records[1].AddNode.URL)
}

func TestPlaceholderCounterPrimedFromRecoveredGraph(t *testing.T) {
	g := graph.New()
	g.AddNode(testutil.SequenceID(1), "about:untitled-7", graph.Vec2{})
	g.AddNode(testutil.SequenceID(2), "https://a.example/", graph.Vec2{})
	g.AddNode(testutil.SequenceID(3), "about:untitled-2", graph.Vec2{})

	rec := &recorderStub{}
	r := New(g, rec, WithIDSource(testutil.NewSequenceIDSource()))
	r.Apply(context.Background(), []Intent{OpenPage{}})

	require.Len(t, rec.records, 1)
	assert.Equal(t, "about:untitled-8", rec.records[0].AddNode.URL)
}

func TestLinkPagesJournalsStableIDs(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{
		OpenPage{URL: "https://a.example/"},
		OpenPage{URL: "https://b.example/"},
	})
	a, _ := r.Graph().NodeByURL("https://a.example/")
	b, _ := r.Graph().NodeByURL("https://b.example/")

	r.Apply(ctx, []Intent{LinkPages{From: a, To: b, Kind: graph.EdgeHyperlink}})

	require.Len(t, rec.records, 3)
	edge := rec.records[2]
	require.Equal(t, record.KindAddEdge, edge.Kind)
	assert.Equal(t, testutil.SequenceID(1), edge.AddEdge.From)
	assert.Equal(t, testutil.SequenceID(2), edge.AddEdge.To)
	assert.Equal(t, graph.EdgeHyperlink, edge.AddEdge.Kind)
	assert.Equal(t, 1, r.Graph().EdgeCount())
}

func TestLinkPagesInvalidHandleJournalsNothing(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{URL: "https://a.example/"}})
	a, _ := r.Graph().NodeByURL("https://a.example/")

	r.Apply(ctx, []Intent{LinkPages{From: a, To: a + 99, Kind: graph.EdgeHistory}})

	assert.Len(t, rec.records, 1, "failed edge creation must not be journaled")
	assert.Equal(t, 0, r.Graph().EdgeCount())
}

func TestRemoveThenRenameLeavesNodeAbsent(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{URL: "https://x.example/"}})
	x, _ := r.Graph().NodeByURL("https://x.example/")

	r.Apply(ctx, []Intent{ClosePage{Node: x}, RenamePage{Node: x, Title: "too late"}})

	assert.Equal(t, 0, r.Graph().NodeCount())
	// Only open + remove were journaled; the rename was a no-op.
	require.Len(t, rec.records, 2)
	assert.Equal(t, record.KindRemoveNode, rec.records[1].Kind)
}

func TestRenameThenRemoveLeavesNodeAbsent(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{URL: "https://x.example/"}})
	x, _ := r.Graph().NodeByURL("https://x.example/")

	r.Apply(ctx, []Intent{RenamePage{Node: x, Title: "renamed"}, ClosePage{Node: x}})

	assert.Equal(t, 0, r.Graph().NodeCount())
	require.Len(t, rec.records, 3)
	assert.Equal(t, record.KindSetTitle, rec.records[1].Kind)
	assert.Equal(t, record.KindRemoveNode, rec.records[2].Kind)
}

func TestSetPageURLLastWriterWins(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{URL: "https://x.example/"}})
	x, _ := r.Graph().NodeByURL("https://x.example/")

	r.Apply(ctx, []Intent{
		SetPageURL{Node: x, URL: "https://a.example/"},
		SetPageURL{Node: x, URL: "https://b.example/"},
	})

	n, _ := r.Graph().Node(x)
	assert.Equal(t, "https://b.example/", n.URL)
	// Both updates are journaled in order; replay converges on the last.
	require.Len(t, rec.records, 3)
	assert.Equal(t, "https://a.example/", rec.records[1].SetURL.URL)
	assert.Equal(t, "https://b.example/", rec.records[2].SetURL.URL)
}

func TestPinPage(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{URL: "https://x.example/"}})
	x, _ := r.Graph().NodeByURL("https://x.example/")

	r.Apply(ctx, []Intent{PinPage{Node: x, Pinned: true}})

	n, _ := r.Graph().Node(x)
	assert.True(t, n.Pinned)
	require.Len(t, rec.records, 2)
	assert.Equal(t, record.KindPin, rec.records[1].Kind)
	assert.True(t, rec.records[1].Pin.Pinned)
}

func TestClearPagesResetsGraphAndPlaceholders(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{}, OpenPage{URL: "https://a.example/"}})
	r.Apply(ctx, []Intent{ClearPages{}})

	assert.Equal(t, 0, r.Graph().NodeCount())
	require.Len(t, rec.records, 3)
	assert.Equal(t, record.KindClear, rec.records[2].Kind)

	// Placeholder numbering restarts with the graph.
	r.Apply(ctx, []Intent{OpenPage{}})
	assert.Equal(t, "about:untitled-0", rec.records[3].AddNode.URL)
}

func TestUIIntentsAreNeverJournaled(t *testing.T) {
	clock := testutil.NewManualClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	g := graph.New()
	rec := &recorderStub{}
	r := New(g, rec,
		WithIDSource(testutil.NewSequenceIDSource()),
		WithNow(clock.Now),
	)
	ctx := context.Background()

	r.Apply(ctx, []Intent{OpenPage{URL: "https://a.example/"}})
	x, _ := g.NodeByURL("https://a.example/")
	n, _ := g.Node(x)
	n.Thumb = &graph.Raster{Width: 1, Height: 1, Pixels: []byte{0}}

	r.Apply(ctx, []Intent{
		SelectPage{Node: x},
		VisitPage{Node: x},
		MovePage{Node: x, Pos: graph.Vec2{X: 5, Y: 6}, Vel: graph.Vec2{X: 1, Y: 0}},
	})

	assert.True(t, n.Selected)
	assert.Equal(t, clock.Now(), n.LastVisited)
	assert.Equal(t, graph.LifecycleActive, n.State)
	assert.Equal(t, graph.Vec2{X: 5, Y: 6}, n.Pos)
	assert.Equal(t, graph.Vec2{X: 1, Y: 0}, n.Vel)

	r.Apply(ctx, []Intent{HibernatePage{Node: x}, DeselectAll{}})
	assert.Equal(t, graph.LifecycleCold, n.State)
	assert.Nil(t, n.Thumb)
	assert.False(t, n.Selected)

	assert.Len(t, rec.records, 1, "only the open intent is journaled")
}

func TestIntentsAgainstStaleHandlesAreNoops(t *testing.T) {
	r, rec := newTestReducer(t)
	ctx := context.Background()

	r.Apply(ctx, []Intent{
		SetPageURL{Node: 42, URL: "https://ghost.example/"},
		PinPage{Node: 42, Pinned: true},
		ClosePage{Node: 42},
		VisitPage{Node: 42},
	})

	assert.Empty(t, rec.records)
	assert.Equal(t, 0, r.Graph().NodeCount())
}
