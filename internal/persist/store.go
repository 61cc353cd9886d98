package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/lattice/internal/graph"
	"github.com/roach88/lattice/internal/journal"
	"github.com/roach88/lattice/internal/record"
	"github.com/roach88/lattice/internal/recovery"
	"github.com/roach88/lattice/internal/snapshot"
)

const (
	// DefaultSnapshotInterval is the elapsed time between periodic
	// snapshots when none is configured.
	DefaultSnapshotInterval = 300 * time.Second

	// MinSnapshotInterval is the smallest accepted snapshot interval.
	MinSnapshotInterval = time.Second

	journalDirName  = "journal"
	journalFileName = "journal.db"
	snapshotName    = "snapshot.db"
)

// Store ties one data directory's journal and snapshot database together
// with the recovered in-memory graph.
//
// Single-writer: all methods must be called from the owning goroutine.
type Store struct {
	dir  string
	jnl  *journal.Journal
	snap *snapshot.DB

	g         *graph.Graph
	recovered bool

	interval time.Duration
	lastSnap time.Time
	now      func() time.Time
}

// Option configures a Store at Open.
type Option func(*Store)

// WithSnapshotInterval sets the periodic snapshot interval. The value is
// validated during Open.
func WithSnapshotInterval(d time.Duration) Option {
	return func(s *Store) {
		s.interval = d
	}
}

// WithClock overrides the wall clock used for the snapshot policy and
// capture timestamps. Used by tests for deterministic elapsed time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open creates or opens the store rooted at dir, then recovers the graph
// from its snapshot and journal. A missing directory is created.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:      dir,
		interval: DefaultSnapshotInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval < MinSnapshotInterval {
		return nil, &StoreError{
			Code: ErrCodeInvalidInterval,
			Op:   "open store",
			Err:  fmt.Errorf("snapshot interval %v below minimum %v", s.interval, MinSnapshotInterval),
		}
	}

	jnl, snap, err := openDir(dir)
	if err != nil {
		return nil, &StoreError{Code: ErrCodeOpenFailed, Op: "open store", Err: err}
	}
	s.jnl = jnl
	s.snap = snap

	s.g, s.recovered = recovery.Recover(context.Background(), s.snap, s.jnl)
	s.lastSnap = s.now()
	return s, nil
}

// openDir opens the journal and snapshot databases under dir, creating
// directories as needed. On any failure nothing stays open.
func openDir(dir string) (*journal.Journal, *snapshot.DB, error) {
	if err := os.MkdirAll(filepath.Join(dir, journalDirName), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}

	jnl, err := journal.Open(filepath.Join(dir, journalDirName, journalFileName))
	if err != nil {
		return nil, nil, err
	}
	snap, err := snapshot.Open(filepath.Join(dir, snapshotName))
	if err != nil {
		jnl.Close()
		return nil, nil, err
	}
	return jnl, snap, nil
}

// Close releases both databases.
func (s *Store) Close() error {
	return errors.Join(s.jnl.Close(), s.snap.Close())
}

// Dir returns the active data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Graph returns the recovered in-memory graph. The reducer mutates it in
// place; the store reads it when capturing snapshots.
func (s *Store) Graph() *graph.Graph {
	return s.g
}

// Recovered reports whether recovery produced any prior state. False means
// the store started empty.
func (s *Store) Recovered() bool {
	return s.recovered
}

// Journal exposes the underlying journal for inspection tooling.
func (s *Store) Journal() *journal.Journal {
	return s.jnl
}

// Snapshots exposes the underlying snapshot database for inspection
// tooling.
func (s *Store) Snapshots() *snapshot.DB {
	return s.snap
}

// LogMutation appends one mutation record to the journal. Failures are
// logged and swallowed: the in-memory mutation has already happened and
// must not be rolled back, so the session continues with reduced
// durability.
func (s *Store) LogMutation(ctx context.Context, rec record.Record) {
	if err := s.jnl.Append(ctx, rec); err != nil {
		slog.Error("journal append failed, mutation not durable",
			"kind", rec.Kind, "error", err)
	}
}

// SnapshotInterval returns the active periodic snapshot interval.
func (s *Store) SnapshotInterval() time.Duration {
	return s.interval
}

// SetSnapshotInterval changes the periodic snapshot interval. The elapsed
// clock is not reset, so shortening the interval can make the next check
// fire immediately.
func (s *Store) SetSnapshotInterval(d time.Duration) error {
	if d < MinSnapshotInterval {
		return &StoreError{
			Code: ErrCodeInvalidInterval,
			Op:   "set snapshot interval",
			Err:  fmt.Errorf("snapshot interval %v below minimum %v", d, MinSnapshotInterval),
		}
	}
	s.interval = d
	return nil
}

// CheckPeriodicSnapshot takes a snapshot if the interval has elapsed since
// the last one. It reports whether a snapshot was taken. Write failures
// are logged and swallowed; the journal still holds every record, so
// durability is preserved and the next check retries.
func (s *Store) CheckPeriodicSnapshot(ctx context.Context) bool {
	if s.now().Sub(s.lastSnap) < s.interval {
		return false
	}
	if err := s.TakeSnapshot(ctx); err != nil {
		slog.Error("periodic snapshot failed", "error", err)
		return false
	}
	return true
}

// TakeSnapshot writes the full graph image and then clears the journal.
// The journal is cleared only after the snapshot commit succeeds; a crash
// between the two replays the journal on top of the fresh snapshot, which
// is idempotent.
func (s *Store) TakeSnapshot(ctx context.Context) error {
	at := s.now()
	if err := s.snap.WriteGraph(ctx, snapshot.Capture(s.g, at)); err != nil {
		return &StoreError{Code: ErrCodeSnapshotFailed, Op: "take snapshot", Err: err}
	}
	if err := s.jnl.Clear(ctx); err != nil {
		// The snapshot already holds everything; stale journal entries
		// replay as no-ops against it.
		slog.Warn("journal clear after snapshot failed", "error", err)
	}
	s.lastSnap = at
	return nil
}

// SaveLayout stores the UI layer's opaque layout blob.
func (s *Store) SaveLayout(ctx context.Context, blob string) error {
	return s.snap.SaveLayout(ctx, blob, s.now())
}

// LoadLayout returns the stored layout blob, or "" if none exists.
func (s *Store) LoadLayout(ctx context.Context) (string, error) {
	return s.snap.LoadLayout(ctx)
}

// ClearAll wipes the journal and every snapshot slot, leaving the
// directory as if freshly created. The in-memory graph is reset too.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.jnl.Clear(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	if err := s.snap.Clear(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	s.g.Reset()
	s.recovered = false
	return nil
}

// SwitchDirectory closes the current data directory and recovers from a
// different one. The new directory is opened and validated first; on any
// failure the current directory stays active and the store is unchanged.
func (s *Store) SwitchDirectory(ctx context.Context, dir string) error {
	jnl, snap, err := openDir(dir)
	if err != nil {
		return &StoreError{Code: ErrCodeSwitchFailed, Op: "switch directory", Err: err}
	}

	if err := s.Close(); err != nil {
		slog.Warn("closing previous data directory", "dir", s.dir, "error", err)
	}

	s.dir = dir
	s.jnl = jnl
	s.snap = snap
	s.g, s.recovered = recovery.Recover(ctx, s.snap, s.jnl)
	s.lastSnap = s.now()
	return nil
}
