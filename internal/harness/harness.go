package harness

import (
	"context"
	"fmt"

	"github.com/roach88/lattice/internal/graph"
	"github.com/roach88/lattice/internal/persist"
	"github.com/roach88/lattice/internal/reducer"
	"github.com/roach88/lattice/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Errors contains step and assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario against a store rooted at dir and returns the
// result. The directory must be empty (or hold a previous run of the same
// scenario's state the scenario expects); tests pass t.TempDir().
//
// Stable IDs come from a sequence source, so the same scenario always
// journals the same records. A returned error means the harness itself
// failed; assertion failures land in the Result instead.
func Run(dir string, scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	result := NewResult()

	store, err := persist.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { store.Close() }()

	ids := testutil.NewSequenceIDSource()
	red := reducer.New(store.Graph(), store, reducer.WithIDSource(ids))

	for i, step := range scenario.Steps {
		switch step.Op {
		case OpSnapshot:
			if err := store.TakeSnapshot(ctx); err != nil {
				return nil, fmt.Errorf("steps[%d]: snapshot: %w", i, err)
			}

		case OpReopen:
			if err := store.Close(); err != nil {
				return nil, fmt.Errorf("steps[%d]: close store: %w", i, err)
			}
			store, err = persist.Open(dir)
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: reopen store: %w", i, err)
			}
			// The ID source carries across the reopen; recovered nodes
			// keep their IDs, new nodes continue the sequence.
			red = reducer.New(store.Graph(), store, reducer.WithIDSource(ids))

		default:
			if msg, ok := applyStep(ctx, red, step); !ok {
				result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Op, msg))
			}
		}
	}

	for i, a := range scenario.Assertions {
		if err := evaluate(red.Graph(), a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// applyStep translates one scenario step into a reducer intent. It reports
// a failure message when a referenced URL does not resolve.
func applyStep(ctx context.Context, red *reducer.Reducer, step Step) (string, bool) {
	g := red.Graph()
	switch step.Op {
	case OpOpen:
		red.Apply(ctx, []reducer.Intent{
			reducer.OpenPage{URL: step.URL, Pos: graph.Vec2{X: step.X, Y: step.Y}},
		})

	case OpLink:
		from, ok := g.NodeByURL(step.From)
		if !ok {
			return fmt.Sprintf("no node with url %q", step.From), false
		}
		to, ok := g.NodeByURL(step.To)
		if !ok {
			return fmt.Sprintf("no node with url %q", step.To), false
		}
		kind, _ := graph.ParseEdgeKind(step.Kind)
		red.Apply(ctx, []reducer.Intent{
			reducer.LinkPages{From: from, To: to, Kind: kind},
		})

	case OpRename:
		h, ok := g.NodeByURL(step.URL)
		if !ok {
			return fmt.Sprintf("no node with url %q", step.URL), false
		}
		red.Apply(ctx, []reducer.Intent{
			reducer.RenamePage{Node: h, Title: step.Title},
		})

	case OpSetURL:
		h, ok := g.NodeByURL(step.URL)
		if !ok {
			return fmt.Sprintf("no node with url %q", step.URL), false
		}
		red.Apply(ctx, []reducer.Intent{
			reducer.SetPageURL{Node: h, URL: step.NewURL},
		})

	case OpPin:
		h, ok := g.NodeByURL(step.URL)
		if !ok {
			return fmt.Sprintf("no node with url %q", step.URL), false
		}
		red.Apply(ctx, []reducer.Intent{
			reducer.PinPage{Node: h, Pinned: step.Pinned},
		})

	case OpRemove:
		h, ok := g.NodeByURL(step.URL)
		if !ok {
			return fmt.Sprintf("no node with url %q", step.URL), false
		}
		red.Apply(ctx, []reducer.Intent{
			reducer.ClosePage{Node: h},
		})

	case OpClear:
		red.Apply(ctx, []reducer.Intent{reducer.ClearPages{}})
	}
	return "", true
}
