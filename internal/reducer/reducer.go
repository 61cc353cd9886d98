package reducer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/lattice/internal/graph"
	"github.com/roach88/lattice/internal/record"
)

// PlaceholderPrefix is the URL prefix for pages opened without a URL.
// Suffixes count up from a store-local counter primed off the recovered
// graph, so placeholder URLs stay unique across restarts.
const PlaceholderPrefix = "about:untitled-"

// Recorder receives the journal record for each durable mutation.
// Implemented by the persist store; appends must not fail observably.
type Recorder interface {
	LogMutation(ctx context.Context, rec record.Record)
}

// Reducer applies ordered intents to the live graph and journals every
// structural or field mutation. Single-writer: it is driven synchronously
// from the host's frame loop and is not safe for concurrent use.
type Reducer struct {
	g   *graph.Graph
	rec Recorder
	ids IDSource
	now func() time.Time

	// Next placeholder suffix. Explicit store-local state, never ambient.
	placeholder int
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithIDSource overrides stable-ID generation. Used by tests and the
// conformance harness for deterministic IDs.
func WithIDSource(ids IDSource) Option {
	return func(r *Reducer) {
		r.ids = ids
	}
}

// WithNow overrides the wall clock used for last-visited stamps.
func WithNow(now func() time.Time) Option {
	return func(r *Reducer) {
		r.now = now
	}
}

// New creates a reducer over a graph, typically one just produced by
// recovery. The placeholder counter resumes above the highest placeholder
// suffix already present in the graph.
func New(g *graph.Graph, rec Recorder, opts ...Option) *Reducer {
	r := &Reducer{
		g:   g,
		rec: rec,
		ids: UUIDSource{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.placeholder = scanPlaceholders(g)
	return r
}

// Graph returns the live graph the reducer mutates.
func (r *Reducer) Graph() *graph.Graph {
	return r.g
}

// Apply consumes intents strictly in order, each against the current
// state. Intents whose node handle no longer resolves are no-ops, which
// makes conflicting pairs order-insensitive whenever the sequence ends in
// a removal.
func (r *Reducer) Apply(ctx context.Context, intents []Intent) {
	for _, intent := range intents {
		r.apply(ctx, intent)
	}
}

func (r *Reducer) apply(ctx context.Context, intent Intent) {
	switch in := intent.(type) {
	case OpenPage:
		url := in.URL
		if url == "" {
			url = r.nextPlaceholder()
		}
		url = graph.NormalizeURL(url)
		id := r.ids.NewID()
		r.g.AddNode(id, url, in.Pos)
		r.rec.LogMutation(ctx, record.AddNode(id, url, in.Pos))

	case LinkPages:
		from, ok := r.g.Node(in.From)
		if !ok {
			return
		}
		to, ok := r.g.Node(in.To)
		if !ok {
			return
		}
		if _, ok := r.g.AddEdge(in.From, in.To, in.Kind); !ok {
			return
		}
		r.rec.LogMutation(ctx, record.AddEdge(from.ID, to.ID, in.Kind))

	case RenamePage:
		n, ok := r.g.Node(in.Node)
		if !ok {
			return
		}
		r.g.SetTitle(in.Node, in.Title)
		r.rec.LogMutation(ctx, record.UpdateNodeTitle(n.ID, in.Title))

	case SetPageURL:
		n, ok := r.g.Node(in.Node)
		if !ok {
			return
		}
		url := graph.NormalizeURL(in.URL)
		r.g.SetURL(in.Node, url)
		r.rec.LogMutation(ctx, record.UpdateNodeURL(n.ID, url))

	case PinPage:
		n, ok := r.g.Node(in.Node)
		if !ok {
			return
		}
		r.g.SetPinned(in.Node, in.Pinned)
		r.rec.LogMutation(ctx, record.PinNode(n.ID, in.Pinned))

	case ClosePage:
		n, ok := r.g.Node(in.Node)
		if !ok {
			return
		}
		id := n.ID
		r.g.RemoveNode(in.Node)
		r.rec.LogMutation(ctx, record.RemoveNode(id))

	case ClearPages:
		r.g.Reset()
		r.placeholder = 0
		r.rec.LogMutation(ctx, record.ClearGraph())

	case SelectPage:
		if n, ok := r.g.Node(in.Node); ok {
			n.Selected = true
		}

	case DeselectAll:
		r.g.ForEachNode(func(_ graph.NodeHandle, n *graph.Node) {
			n.Selected = false
		})

	case VisitPage:
		if n, ok := r.g.Node(in.Node); ok {
			n.LastVisited = r.now()
			n.State = graph.LifecycleActive
		}

	case HibernatePage:
		if n, ok := r.g.Node(in.Node); ok {
			n.State = graph.LifecycleCold
			n.Thumb = nil
		}

	case MovePage:
		if n, ok := r.g.Node(in.Node); ok {
			n.Pos = in.Pos
			n.Vel = in.Vel
		}
	}
}

func (r *Reducer) nextPlaceholder() string {
	url := fmt.Sprintf("%s%d", PlaceholderPrefix, r.placeholder)
	r.placeholder++
	return url
}

// scanPlaceholders returns one past the highest placeholder suffix in use,
// so a recovered graph never hands out a duplicate placeholder URL.
func scanPlaceholders(g *graph.Graph) int {
	next := 0
	g.ForEachNode(func(_ graph.NodeHandle, n *graph.Node) {
		suffix, ok := strings.CutPrefix(n.URL, PlaceholderPrefix)
		if !ok {
			return
		}
		i, err := strconv.Atoi(suffix)
		if err != nil || i < 0 {
			return
		}
		if i+1 > next {
			next = i + 1
		}
	})
	return next
}
