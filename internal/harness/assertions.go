package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/lattice/internal/graph"
)

// Assertion validates the final graph. Type selects which fields apply.
type Assertion struct {
	// Type specifies the assertion type:
	// - "node_count": total node count equals Count
	// - "edge_count": total edge count equals Count
	// - "node": a node with URL exists; set fields must match
	// - "node_absent": no node with URL exists
	Type string `yaml:"type"`

	// Count is the expected total (node_count, edge_count).
	Count int `yaml:"count,omitempty"`

	// URL names the node under test (node, node_absent).
	URL string `yaml:"url,omitempty"`

	// Expected field values (node). Unset fields are not checked.
	Title  *string  `yaml:"title,omitempty"`
	Pinned *bool    `yaml:"pinned,omitempty"`
	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeCount  = "node_count"
	AssertEdgeCount  = "edge_count"
	AssertNode       = "node"
	AssertNodeAbsent = "node_absent"
)

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertNodeCount, AssertEdgeCount:
		// Count of zero is legal.
	case AssertNode, AssertNodeAbsent:
		if a.URL == "" {
			return fmt.Errorf("%s: url is required", a.Type)
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// AssertionError is returned when an assertion fails. It includes the URL
// listing of the final graph to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	URLs     []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nFinal graph:\n")
	if len(e.URLs) == 0 {
		fmt.Fprintf(&buf, "  (empty)\n")
	}
	for _, url := range e.URLs {
		fmt.Fprintf(&buf, "  %s\n", url)
	}
	return buf.String()
}

// evaluate checks one assertion against the graph.
func evaluate(g *graph.Graph, a Assertion) error {
	switch a.Type {
	case AssertNodeCount:
		if got := g.NodeCount(); got != a.Count {
			return failure(g, a.Type,
				fmt.Sprintf("%d nodes", a.Count),
				fmt.Sprintf("%d nodes", got))
		}
	case AssertEdgeCount:
		if got := g.EdgeCount(); got != a.Count {
			return failure(g, a.Type,
				fmt.Sprintf("%d edges", a.Count),
				fmt.Sprintf("%d edges", got))
		}
	case AssertNode:
		h, ok := g.NodeByURL(a.URL)
		if !ok {
			return failure(g, a.Type,
				fmt.Sprintf("node with url %s", a.URL), "not present")
		}
		n, _ := g.Node(h)
		return checkNodeFields(g, a, n)
	case AssertNodeAbsent:
		if _, ok := g.NodeByURL(a.URL); ok {
			return failure(g, a.Type,
				fmt.Sprintf("no node with url %s", a.URL), "present")
		}
	}
	return nil
}

func checkNodeFields(g *graph.Graph, a Assertion, n *graph.Node) error {
	if a.Title != nil && n.Title != *a.Title {
		return failure(g, a.Type,
			fmt.Sprintf("title %q", *a.Title), fmt.Sprintf("title %q", n.Title))
	}
	if a.Pinned != nil && n.Pinned != *a.Pinned {
		return failure(g, a.Type,
			fmt.Sprintf("pinned=%t", *a.Pinned), fmt.Sprintf("pinned=%t", n.Pinned))
	}
	if a.X != nil && n.Pos.X != *a.X {
		return failure(g, a.Type,
			fmt.Sprintf("x=%g", *a.X), fmt.Sprintf("x=%g", n.Pos.X))
	}
	if a.Y != nil && n.Pos.Y != *a.Y {
		return failure(g, a.Type,
			fmt.Sprintf("y=%g", *a.Y), fmt.Sprintf("y=%g", n.Pos.Y))
	}
	return nil
}

func failure(g *graph.Graph, typ, expected, actual string) error {
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		URLs:     graphURLs(g),
	}
}

// graphURLs lists every node URL in sorted order for failure output.
func graphURLs(g *graph.Graph) []string {
	var urls []string
	g.ForEachNode(func(_ graph.NodeHandle, n *graph.Node) {
		urls = append(urls, n.URL)
	})
	sort.Strings(urls)
	return urls
}
