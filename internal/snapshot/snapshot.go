package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

const (
	slotGraph  = "graph"
	slotLayout = "layout"
)

// DB is the single-file snapshot database.
type DB struct {
	db *sql.DB
}

// Open creates or opens the snapshot database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect snapshot db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer DB methods when available.
func (d *DB) DB() *sql.DB {
	return d.db
}

// WriteGraph serializes a snapshot and overwrites the graph slot. The
// upsert runs inside a transaction so a crash mid-write leaves the previous
// image intact and a reader never sees a torn one.
func (d *DB) WriteGraph(ctx context.Context, snap *Snapshot) error {
	data, err := marshalSnapshot(snap)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := d.writeSlot(ctx, slotGraph, data, snap.CapturedAt); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadGraph returns the latest snapshot, or nil if the slot is absent or
// its contents fail to decode. Corruption is logged and reported as
// absence, never as an error: recovery must not be blocked by a bad
// snapshot.
func (d *DB) ReadGraph(ctx context.Context) (*Snapshot, error) {
	data, ok, err := d.readSlot(ctx, slotGraph)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		return nil, nil
	}

	snap, err := unmarshalSnapshot(data)
	if err != nil {
		slog.Warn("snapshot slot is corrupt, treating as absent", "error", err)
		return nil, nil
	}
	return snap, nil
}

// SaveLayout stores the UI layer's opaque layout blob in its own slot,
// independent of graph snapshots.
func (d *DB) SaveLayout(ctx context.Context, blob string, at time.Time) error {
	if err := d.writeSlot(ctx, slotLayout, []byte(blob), at); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// LoadLayout returns the stored layout blob, or "" if none has been saved.
func (d *DB) LoadLayout(ctx context.Context) (string, error) {
	data, ok, err := d.readSlot(ctx, slotLayout)
	if err != nil {
		return "", fmt.Errorf("load layout: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(data), nil
}

// Clear removes all slots, including the layout blob.
func (d *DB) Clear(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM slots`); err != nil {
		return fmt.Errorf("clear snapshot db: %w", err)
	}
	return nil
}

func (d *DB) writeSlot(ctx context.Context, name string, value []byte, at time.Time) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert slot %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit slot %q: %w", name, err)
	}
	return nil
}

func (d *DB) readSlot(ctx context.Context, name string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRowContext(ctx, `
		SELECT value FROM slots WHERE name = ?
	`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %q: %w", name, err)
	}
	return value, true, nil
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

// applySchema creates the slots table if absent and records the schema
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
