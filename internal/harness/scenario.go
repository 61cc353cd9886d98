package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lattice/internal/graph"
)

// Scenario defines a conformance test scenario: an ordered list of steps
// against a single store directory, then assertions on the final graph.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are executed strictly in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the graph after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one scenario action. Op selects which fields apply; nodes are
// referenced by URL.
type Step struct {
	// Op is one of: open, link, rename, seturl, pin, remove, clear,
	// snapshot, reopen.
	Op string `yaml:"op"`

	// URL names the target node (open, rename, seturl, pin, remove).
	URL string `yaml:"url,omitempty"`

	// NewURL is the replacement URL (seturl).
	NewURL string `yaml:"new_url,omitempty"`

	// From and To name edge endpoints (link).
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Kind is the edge kind (link): "hyperlink" or "history".
	Kind string `yaml:"kind,omitempty"`

	// Title is the replacement title (rename).
	Title string `yaml:"title,omitempty"`

	// Pinned is the pin flag (pin).
	Pinned bool `yaml:"pinned,omitempty"`

	// X and Y give the initial position (open).
	X float64 `yaml:"x,omitempty"`
	Y float64 `yaml:"y,omitempty"`
}

// Step op constants.
const (
	OpOpen     = "open"
	OpLink     = "link"
	OpRename   = "rename"
	OpSetURL   = "seturl"
	OpPin      = "pin"
	OpRemove   = "remove"
	OpClear    = "clear"
	OpSnapshot = "snapshot"
	OpReopen   = "reopen"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs
	// "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch step.Op {
	case OpOpen:
		if step.URL == "" {
			return fmt.Errorf("%s: url is required", step.Op)
		}
	case OpLink:
		if step.From == "" || step.To == "" {
			return fmt.Errorf("%s: from and to are required", step.Op)
		}
		if _, err := graph.ParseEdgeKind(step.Kind); err != nil {
			return fmt.Errorf("%s: %w", step.Op, err)
		}
	case OpRename:
		if step.URL == "" {
			return fmt.Errorf("%s: url is required", step.Op)
		}
	case OpSetURL:
		if step.URL == "" || step.NewURL == "" {
			return fmt.Errorf("%s: url and new_url are required", step.Op)
		}
	case OpPin, OpRemove:
		if step.URL == "" {
			return fmt.Errorf("%s: url is required", step.Op)
		}
	case OpClear, OpSnapshot, OpReopen:
		// No fields.
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}
