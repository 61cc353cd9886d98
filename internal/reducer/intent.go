package reducer

import "github.com/roach88/lattice/internal/graph"

// Intent is one high-level request against the browsing graph. The set is
// closed; Apply ignores nothing silently except intents whose node handle
// no longer resolves.
type Intent interface {
	isIntent()
}

// OpenPage creates a new node. An empty URL gets a store-local placeholder
// URL so the page can exist before its first navigation.
type OpenPage struct {
	URL string
	Pos graph.Vec2
}

// LinkPages connects two live pages.
type LinkPages struct {
	From graph.NodeHandle
	To   graph.NodeHandle
	Kind graph.EdgeKind
}

// RenamePage replaces a page's title.
type RenamePage struct {
	Node  graph.NodeHandle
	Title string
}

// SetPageURL replaces a page's URL (navigation within the same node).
type SetPageURL struct {
	Node graph.NodeHandle
	URL  string
}

// PinPage sets a page's pinned flag.
type PinPage struct {
	Node   graph.NodeHandle
	Pinned bool
}

// ClosePage removes a page and, by cascade, its incident edges.
type ClosePage struct {
	Node graph.NodeHandle
}

// ClearPages removes everything.
type ClearPages struct{}

// SelectPage marks a page selected. UI-only: never journaled.
type SelectPage struct {
	Node graph.NodeHandle
}

// DeselectAll clears every selection flag. UI-only: never journaled.
type DeselectAll struct{}

// VisitPage stamps a page's last-visited time and marks it Active.
// UI-only: never journaled.
type VisitPage struct {
	Node graph.NodeHandle
}

// HibernatePage marks a page Cold and drops its thumbnail. UI-only: never
// journaled.
type HibernatePage struct {
	Node graph.NodeHandle
}

// MovePage updates a page's position and velocity from the layout
// simulation. UI-only: never journaled; positions reach disk through
// snapshots instead.
type MovePage struct {
	Node graph.NodeHandle
	Pos  graph.Vec2
	Vel  graph.Vec2
}

func (OpenPage) isIntent()      {}
func (LinkPages) isIntent()     {}
func (RenamePage) isIntent()    {}
func (SetPageURL) isIntent()    {}
func (PinPage) isIntent()       {}
func (ClosePage) isIntent()     {}
func (ClearPages) isIntent()    {}
func (SelectPage) isIntent()    {}
func (DeselectAll) isIntent()   {}
func (VisitPage) isIntent()     {}
func (HibernatePage) isIntent() {}
func (MovePage) isIntent()      {}
