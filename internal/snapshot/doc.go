// Package snapshot provides durable storage for full graph images.
//
// A snapshot is a single serialized image of the live graph: for every node
// its stable ID, URL, title, position, and pinned flag; for every edge its
// endpoint stable IDs and kind; plus a capture timestamp. Snapshots are
// keyed by stable ID throughout so that two nodes sharing a URL survive a
// snapshot/recover cycle as distinct nodes.
//
// Storage is a single SQLite file holding named slots. The graph image
// occupies one slot and is overwritten inside a transaction, so a reader
// never observes a partially written snapshot. A separate slot stores the
// UI layer's opaque layout blob.
//
// A corrupt or absent graph slot reads as "no snapshot": recovery then
// falls back to journal replay from an empty graph.
package snapshot
