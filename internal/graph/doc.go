// Package graph implements the in-memory browsing graph: pages as nodes,
// navigation and history as edges.
//
// # Identity model
//
// Every node carries two identities:
//
//   - Stable ID: a UUID that survives process restarts. Journal records and
//     snapshots reference nodes exclusively by stable ID.
//   - Session handle: an arena-style handle valid only for the lifetime of
//     one running process. All in-memory adjacency uses handles.
//
// The graph maintains a stable-ID index (rebuilt fresh each process) and a
// URL index. URLs are not unique: when several nodes share a URL the URL
// index holds only the most recently inserted mapping.
//
// # Invariants
//
//   - Every edge handle in a node's adjacency lists refers to a live edge
//     that has that node as an endpoint.
//   - Removing a node cascades to all incident edges, detaching them from
//     the opposite endpoint as well.
//   - The URL index never references a removed node handle.
//
// The graph performs no I/O and is owned by a single writer; it is not safe
// for concurrent use.
package graph
