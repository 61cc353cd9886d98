package record

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/lattice/internal/graph"
)

// Kind tags a Record with its operation.
type Kind string

const (
	KindAddNode    Kind = "add_node"
	KindAddEdge    Kind = "add_edge"
	KindSetTitle   Kind = "set_title"
	KindSetURL     Kind = "set_url"
	KindPin        Kind = "pin"
	KindRemoveNode Kind = "remove_node"
	KindClear      Kind = "clear"
)

// Record is one journaled graph mutation. Kind selects which payload is
// set; exactly one payload is non-nil except for KindClear, which carries
// none.
type Record struct {
	Kind Kind `json:"kind"`

	AddNode  *AddNodeOp  `json:"add_node,omitempty"`
	AddEdge  *AddEdgeOp  `json:"add_edge,omitempty"`
	SetTitle *SetTitleOp `json:"set_title,omitempty"`
	SetURL   *SetURLOp   `json:"set_url,omitempty"`
	Pin      *PinOp      `json:"pin,omitempty"`
	Remove   *RemoveOp   `json:"remove_node,omitempty"`
}

// AddNodeOp inserts a node with a stable ID, URL, and initial position.
type AddNodeOp struct {
	Node uuid.UUID `json:"node"`
	URL  string    `json:"url"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// AddEdgeOp inserts an edge between two nodes referenced by stable ID.
type AddEdgeOp struct {
	From uuid.UUID      `json:"from"`
	To   uuid.UUID      `json:"to"`
	Kind graph.EdgeKind `json:"kind"`
}

// SetTitleOp replaces a node's title.
type SetTitleOp struct {
	Node  uuid.UUID `json:"node"`
	Title string    `json:"title"`
}

// SetURLOp replaces a node's URL.
type SetURLOp struct {
	Node uuid.UUID `json:"node"`
	URL  string    `json:"url"`
}

// PinOp sets a node's pinned flag.
type PinOp struct {
	Node   uuid.UUID `json:"node"`
	Pinned bool      `json:"pinned"`
}

// RemoveOp removes a node and, by cascade, its incident edges.
type RemoveOp struct {
	Node uuid.UUID `json:"node"`
}

// AddNode builds an add-node record.
func AddNode(id uuid.UUID, url string, pos graph.Vec2) Record {
	return Record{
		Kind:    KindAddNode,
		AddNode: &AddNodeOp{Node: id, URL: url, X: pos.X, Y: pos.Y},
	}
}

// AddEdge builds an add-edge record.
func AddEdge(from, to uuid.UUID, kind graph.EdgeKind) Record {
	return Record{
		Kind:    KindAddEdge,
		AddEdge: &AddEdgeOp{From: from, To: to, Kind: kind},
	}
}

// UpdateNodeTitle builds a title-update record.
func UpdateNodeTitle(id uuid.UUID, title string) Record {
	return Record{
		Kind:     KindSetTitle,
		SetTitle: &SetTitleOp{Node: id, Title: title},
	}
}

// UpdateNodeURL builds a URL-update record.
func UpdateNodeURL(id uuid.UUID, url string) Record {
	return Record{
		Kind:   KindSetURL,
		SetURL: &SetURLOp{Node: id, URL: url},
	}
}

// PinNode builds a pin-flag record.
func PinNode(id uuid.UUID, pinned bool) Record {
	return Record{
		Kind: KindPin,
		Pin:  &PinOp{Node: id, Pinned: pinned},
	}
}

// RemoveNode builds a node-removal record.
func RemoveNode(id uuid.UUID) Record {
	return Record{
		Kind:   KindRemoveNode,
		Remove: &RemoveOp{Node: id},
	}
}

// ClearGraph builds a full-reset record.
func ClearGraph() Record {
	return Record{Kind: KindClear}
}

// Validate checks that the tag matches its payload and that entity
// references are well formed.
func (r Record) Validate() error {
	switch r.Kind {
	case KindAddNode:
		if r.AddNode == nil {
			return fmt.Errorf("record %s: missing payload", r.Kind)
		}
		if r.AddNode.Node == uuid.Nil {
			return fmt.Errorf("record %s: nil node id", r.Kind)
		}
	case KindAddEdge:
		if r.AddEdge == nil {
			return fmt.Errorf("record %s: missing payload", r.Kind)
		}
		if r.AddEdge.From == uuid.Nil || r.AddEdge.To == uuid.Nil {
			return fmt.Errorf("record %s: nil endpoint id", r.Kind)
		}
		if !r.AddEdge.Kind.Valid() {
			return fmt.Errorf("record %s: unknown edge kind %q", r.Kind, r.AddEdge.Kind)
		}
	case KindSetTitle:
		if r.SetTitle == nil {
			return fmt.Errorf("record %s: missing payload", r.Kind)
		}
		if r.SetTitle.Node == uuid.Nil {
			return fmt.Errorf("record %s: nil node id", r.Kind)
		}
	case KindSetURL:
		if r.SetURL == nil {
			return fmt.Errorf("record %s: missing payload", r.Kind)
		}
		if r.SetURL.Node == uuid.Nil {
			return fmt.Errorf("record %s: nil node id", r.Kind)
		}
	case KindPin:
		if r.Pin == nil {
			return fmt.Errorf("record %s: missing payload", r.Kind)
		}
		if r.Pin.Node == uuid.Nil {
			return fmt.Errorf("record %s: nil node id", r.Kind)
		}
	case KindRemoveNode:
		if r.Remove == nil {
			return fmt.Errorf("record %s: missing payload", r.Kind)
		}
		if r.Remove.Node == uuid.Nil {
			return fmt.Errorf("record %s: nil node id", r.Kind)
		}
	case KindClear:
		// No payload.
	default:
		return fmt.Errorf("unknown record kind %q", r.Kind)
	}
	return nil
}
