package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/lattice/internal/record"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Journal is a SQLite-backed append-only log of mutation records.
//
// It is owned by a single writer: Append and Clear must not be called
// concurrently. The sequence counter lives in memory and is resumed from
// the highest on-disk key at Open.
type Journal struct {
	db   *sql.DB
	next uint64
}

// Open creates or opens a journal database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY on interleaved appends.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	next, err := resumeSequence(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("resume journal sequence: %w", err)
	}

	return &Journal{db: db, next: next}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Journal methods when available.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// NextSeq returns the sequence number the next append will use.
func (j *Journal) NextSeq() uint64 {
	return j.next
}

// Append serializes a record and writes it under the next sequence number.
// The counter advances only on a successful insert, so a failed append
// never burns a sequence number.
func (j *Journal) Append(ctx context.Context, rec record.Record) error {
	data, err := record.Marshal(rec)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO entries (key, record) VALUES (?, ?)
	`, seqKey(j.next), string(data))
	if err != nil {
		return fmt.Errorf("append seq %d: %w", j.next, err)
	}

	j.next++
	return nil
}

// Entry is one journal record with its assigned sequence number.
type Entry struct {
	Seq    uint64
	Record record.Record
}

// Entries returns all records in ascending sequence order. Rows whose key
// or record fails to decode are skipped with a warning; replay continues
// with the next record.
func (j *Journal) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT key, record FROM entries ORDER BY key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var key []byte
		var data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		seq, err := keySeq(key)
		if err != nil {
			slog.Warn("skipping journal entry with malformed key", "error", err)
			continue
		}
		rec, err := record.Unmarshal([]byte(data))
		if err != nil {
			slog.Warn("skipping undecodable journal entry", "seq", seq, "error", err)
			continue
		}
		entries = append(entries, Entry{Seq: seq, Record: rec})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	// Return empty slice instead of nil
	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

// Len returns the number of stored entries, including any that would be
// skipped on decode.
func (j *Journal) Len(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Clear removes all entries and resets the sequence counter to zero.
// Callers invoke this only immediately after a successful snapshot write;
// a snapshot preceding the restart has absorbed every prior record.
func (j *Journal) Clear(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	j.next = 0
	return nil
}

// seqKey encodes a sequence number as a fixed-width 8-byte big-endian key.
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// keySeq decodes a fixed-width big-endian key back to a sequence number.
func keySeq(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, fmt.Errorf("journal key has %d bytes, want 8", len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}

// resumeSequence reads the highest key so numbering continues where the
// previous process stopped. MAX over BLOB keys is a byte-lexicographic
// maximum, which for fixed-width big-endian keys is the numeric maximum.
func resumeSequence(db *sql.DB) (uint64, error) {
	var key []byte
	err := db.QueryRow(`SELECT MAX(key) FROM entries`).Scan(&key)
	if err != nil {
		return 0, fmt.Errorf("max key: %w", err)
	}
	if key == nil {
		return 0, nil
	}
	seq, err := keySeq(key)
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the entries table if absent and records the schema
// version. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
