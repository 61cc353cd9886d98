// Package persist owns the on-disk state of one browsing-graph store: the
// append-only journal, the snapshot database, and the policy that compacts
// the former into the latter.
//
// A Store opens (or creates) a data directory, recovers the graph from
// snapshot plus journal replay, and then serves as the reducer's Recorder:
// every durable mutation is appended to the journal, and once the snapshot
// interval has elapsed the whole graph is written out and the journal
// cleared. Directory layout:
//
//	<dir>/journal/journal.db   append-only mutation log
//	<dir>/snapshot.db          graph and layout slots
//
// Stores are single-writer. All methods must be called from the owning
// goroutine.
package persist
