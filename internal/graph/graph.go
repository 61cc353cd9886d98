package graph

import (
	"github.com/google/uuid"
)

// Graph owns all nodes and edges by session-local handle.
//
// Lookups by handle, URL, or stable ID never fail loudly: absence is
// reported through the ok result. Mutations that touch an index (URL
// changes, removal) must go through Graph methods so the indexes stay
// consistent.
type Graph struct {
	nodes map[NodeHandle]*Node
	edges map[EdgeHandle]*Edge

	byURL map[string]NodeHandle
	byID  map[uuid.UUID]NodeHandle

	nextNode NodeHandle
	nextEdge EdgeHandle
}

// New creates an empty graph.
func New() *Graph {
	g := &Graph{}
	g.Reset()
	return g
}

// Reset discards all nodes and edges and restarts handle allocation.
// Previously issued handles become invalid.
func (g *Graph) Reset() {
	g.nodes = make(map[NodeHandle]*Node)
	g.edges = make(map[EdgeHandle]*Edge)
	g.byURL = make(map[string]NodeHandle)
	g.byID = make(map[uuid.UUID]NodeHandle)
	g.nextNode = 0
	g.nextEdge = 0
}

// AddNode inserts a node with the given stable ID, URL, and position and
// returns its fresh session handle. The title defaults to the URL. Always
// succeeds; if another node already uses the same URL, the URL index is
// repointed at the new node (most recent insert wins).
func (g *Graph) AddNode(id uuid.UUID, url string, pos Vec2) NodeHandle {
	url = NormalizeURL(url)
	g.nextNode++
	h := g.nextNode
	g.nodes[h] = &Node{
		ID:    id,
		URL:   url,
		Title: url,
		Pos:   pos,
		State: LifecycleCold,
	}
	g.byURL[url] = h
	g.byID[id] = h
	return h
}

// AddEdge inserts an edge between two live nodes and returns its handle.
// If either endpoint handle is invalid, it fails silently: no edge is
// created, no state changes, and ok is false.
func (g *Graph) AddEdge(from, to NodeHandle, kind EdgeKind) (EdgeHandle, bool) {
	src, ok := g.nodes[from]
	if !ok {
		return 0, false
	}
	dst, ok := g.nodes[to]
	if !ok {
		return 0, false
	}

	g.nextEdge++
	h := g.nextEdge
	g.edges[h] = &Edge{From: from, To: to, Kind: kind}
	src.Out = append(src.Out, h)
	dst.In = append(dst.In, h)
	return h, true
}

// Node returns the node for a handle. Mutating non-indexed fields through
// the returned pointer is permitted; URL changes must go through SetURL.
func (g *Graph) Node(h NodeHandle) (*Node, bool) {
	n, ok := g.nodes[h]
	return n, ok
}

// Edge returns the edge for a handle.
func (g *Graph) Edge(h EdgeHandle) (*Edge, bool) {
	e, ok := g.edges[h]
	return e, ok
}

// NodeByURL returns the handle most recently indexed for a URL.
func (g *Graph) NodeByURL(url string) (NodeHandle, bool) {
	h, ok := g.byURL[NormalizeURL(url)]
	return h, ok
}

// NodeByID returns the session handle for a stable ID.
func (g *Graph) NodeByID(id uuid.UUID) (NodeHandle, bool) {
	h, ok := g.byID[id]
	return h, ok
}

// SetTitle updates a node's title. Reports false if the handle is invalid.
func (g *Graph) SetTitle(h NodeHandle, title string) bool {
	n, ok := g.nodes[h]
	if !ok {
		return false
	}
	n.Title = title
	return true
}

// SetURL updates a node's URL and reindexes it. The old URL mapping is
// dropped only if it still points at this node, so a newer node sharing the
// old URL keeps its index entry.
func (g *Graph) SetURL(h NodeHandle, url string) bool {
	n, ok := g.nodes[h]
	if !ok {
		return false
	}
	url = NormalizeURL(url)
	if cur, ok := g.byURL[n.URL]; ok && cur == h {
		delete(g.byURL, n.URL)
	}
	n.URL = url
	g.byURL[url] = h
	return true
}

// SetPinned updates a node's pinned flag. Reports false if the handle is
// invalid.
func (g *Graph) SetPinned(h NodeHandle, pinned bool) bool {
	n, ok := g.nodes[h]
	if !ok {
		return false
	}
	n.Pinned = pinned
	return true
}

// RemoveNode removes a node and cascades to all incident edges, detaching
// each edge from the opposite endpoint's adjacency list. Index entries that
// still point at the removed node are dropped. Reports false if the handle
// is invalid.
func (g *Graph) RemoveNode(h NodeHandle) bool {
	n, ok := g.nodes[h]
	if !ok {
		return false
	}

	// Collect first: removeEdge mutates the adjacency lists we iterate.
	incident := make([]EdgeHandle, 0, len(n.In)+len(n.Out))
	incident = append(incident, n.In...)
	incident = append(incident, n.Out...)
	for _, eh := range incident {
		g.removeEdge(eh)
	}

	if cur, ok := g.byURL[n.URL]; ok && cur == h {
		delete(g.byURL, n.URL)
	}
	if cur, ok := g.byID[n.ID]; ok && cur == h {
		delete(g.byID, n.ID)
	}
	delete(g.nodes, h)
	return true
}

// RemoveEdge removes a single edge and detaches it from both endpoints.
// Reports false if the handle is invalid.
func (g *Graph) RemoveEdge(h EdgeHandle) bool {
	if _, ok := g.edges[h]; !ok {
		return false
	}
	g.removeEdge(h)
	return true
}

func (g *Graph) removeEdge(h EdgeHandle) {
	e, ok := g.edges[h]
	if !ok {
		return
	}
	if src, ok := g.nodes[e.From]; ok {
		src.Out = detach(src.Out, h)
	}
	if dst, ok := g.nodes[e.To]; ok {
		dst.In = detach(dst.In, h)
	}
	delete(g.edges, h)
}

// detach removes the first occurrence of h from handles, preserving order.
func detach(handles []EdgeHandle, h EdgeHandle) []EdgeHandle {
	for i, cur := range handles {
		if cur == h {
			return append(handles[:i], handles[i+1:]...)
		}
	}
	return handles
}

// ForEachNode calls fn for every live node. Iteration order is unspecified.
// fn must not add or remove nodes.
func (g *Graph) ForEachNode(fn func(NodeHandle, *Node)) {
	for h, n := range g.nodes {
		fn(h, n)
	}
}

// ForEachEdge calls fn for every live edge. Iteration order is unspecified.
// fn must not add or remove edges.
func (g *Graph) ForEachEdge(fn func(EdgeHandle, *Edge)) {
	for h, e := range g.edges {
		fn(h, e)
	}
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
