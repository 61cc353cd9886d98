// Package journal provides the append-only, sequence-ordered mutation log
// used for crash recovery between snapshots.
//
// Entries are (sequence number, serialized mutation record) pairs stored in
// SQLite. Sequence numbers are assigned at append time, strictly
// increasing, and encoded as fixed-width 8-byte big-endian keys so that
// byte-lexicographic key order equals chronological order.
//
// Clear removes all entries and resets numbering to zero. That is safe only
// because Clear is invoked immediately after a successful snapshot write,
// which has already absorbed every prior record.
//
// Entries that fail to decode are skipped on iteration, never fatal: one
// corrupt record must not take the rest of the journal with it.
package journal
