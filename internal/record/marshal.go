package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes a record as single-line JSON.
// HTML escaping is disabled so URLs containing & < > survive byte-for-byte.
func Marshal(r Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	// Encoder adds a trailing newline, remove it.
	return bytes.TrimSpace(buf.Bytes()), nil
}

// Unmarshal decodes and validates a record. A record whose tag does not
// match its payload, or whose IDs are malformed, fails with an error; the
// replay path treats such records as corrupt and skips them.
func Unmarshal(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return r, nil
}
