// Package harness provides a conformance testing framework for the
// browsing-graph store.
//
// Scenarios are YAML files describing a sequence of steps against one
// store directory plus declarative assertions on the final graph. Steps
// reference nodes by URL, never by handle, so scenarios stay valid across
// the store reopens they exercise: the "reopen" step closes the store and
// recovers from disk mid-scenario, and "snapshot" forces compaction, which
// together cover the crash-shaped paths that matter.
//
// Scenarios run with a deterministic ID source; the same file always
// produces the same stable IDs.
package harness
