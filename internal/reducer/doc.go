// Package reducer turns high-level intents from the UI/embedder layer into
// graph mutations and journal records.
//
// Apply consumes intents strictly in the given order, each against the
// current graph state, with no batching or merging. Outcomes are therefore
// fully determined by sequence order: a removal followed by a rename of the
// same node leaves the rename a no-op, and field updates among non-removal
// intents are last-writer-wins.
//
// For every intent that causes a structural or field mutation, the reducer
// resolves the node's stable ID, mutates the graph, and only then hands the
// corresponding record to the journal. A crash between the two steps loses
// at most that one record; it can never journal a mutation that was not yet
// visible in memory.
//
// Pure-UI intents (selection, visits, lifecycle, physics-driven movement)
// mutate session state only and are never journaled.
package reducer
