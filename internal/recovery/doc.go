// Package recovery rebuilds a consistent browsing graph from the latest
// snapshot plus journal replay.
//
// The algorithm:
//
//  1. Read the latest snapshot. On success, materialize every node under a
//     freshly generated session handle, preserving its stable ID. On
//     absence or corruption, start from an empty graph.
//  2. Replay journal entries in ascending sequence order, resolving every
//     reference by stable ID. Replay is tolerant by construction:
//     inserting a node whose stable ID already exists is a no-op (so a
//     snapshot/journal overlap is harmless), records referencing unknown
//     IDs are no-ops, a clear record restarts accumulation from empty, and
//     undecodable records are skipped by the journal layer.
//
// Recovery reports "nothing to recover" only when the resulting graph has
// zero nodes, so callers can distinguish a genuinely empty store from a
// populated one.
package recovery
