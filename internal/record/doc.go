// Package record defines the closed set of mutation records that describe
// every durable change to the browsing graph, and their wire codec.
//
// A Record is a tagged union: Kind selects exactly one payload. All entity
// references use the node's stable ID (canonical UUID text on the wire),
// never a session handle, because journal entries must remain valid across
// process restarts.
//
// Records are encoded as single-line JSON with HTML escaping disabled so
// that URLs round-trip byte-for-byte. Decoding validates the tag/payload
// pairing; an ill-formed record fails decode with a descriptive error and
// is skipped by the replay path.
package record
