package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lattice/internal/graph"
	"github.com/roach88/lattice/internal/persist"
	"github.com/roach88/lattice/internal/reducer"
	"github.com/roach88/lattice/internal/testutil"
)

// seedStore creates a store with two linked pages and returns its
// directory. The journal holds three records; no snapshot is taken.
func seedStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	s, err := persist.Open(dir)
	require.NoError(t, err)
	defer s.Close()

	r := reducer.New(s.Graph(), s, reducer.WithIDSource(testutil.NewSequenceIDSource()))
	r.Apply(ctx, []reducer.Intent{
		reducer.OpenPage{URL: "https://a.example/", Pos: graph.Vec2{X: 1, Y: 2}},
		reducer.OpenPage{URL: "https://b.example/", Pos: graph.Vec2{X: 3, Y: 4}},
	})
	a, _ := r.Graph().NodeByURL("https://a.example/")
	b, _ := r.Graph().NodeByURL("https://b.example/")
	r.Apply(ctx, []reducer.Intent{
		reducer.LinkPages{From: a, To: b, Kind: graph.EdgeHyperlink},
	})
	return dir
}

// decodeResponse unmarshals a JSON CLI response's data payload into out.
func decodeResponse(t *testing.T, buf *bytes.Buffer, out interface{}) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestRootRequiresDirFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"info"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"info", "--dir", t.TempDir(), "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestDumpText(t *testing.T) {
	dir := seedStore(t)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"dump", "--dir", dir})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "[0] add_node")
	assert.Contains(t, out, "https://a.example/")
	assert.Contains(t, out, "[2] add_edge")
	assert.Contains(t, out, "(hyperlink)")
}

func TestDumpJSON(t *testing.T) {
	dir := seedStore(t)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"dump", "--dir", dir, "--format", "json"})

	require.NoError(t, cmd.Execute())

	var result DumpResult
	decodeResponse(t, buf, &result)
	require.Len(t, result.Entries, 3)
	assert.Equal(t, uint64(0), result.Entries[0].Seq)
	assert.Equal(t, "add_node", result.Entries[0].Kind)
	assert.Equal(t, "add_edge", result.Entries[2].Kind)
}

func TestDumpEmptyJournal(t *testing.T) {
	dir := t.TempDir()
	s, err := persist.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"dump", "--dir", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "(journal is empty)")
}

func TestDumpUnopenableStore(t *testing.T) {
	// A file where the directory should be makes the open fail.
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"dump", "--dir", blocked})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open store")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInfoJSON(t *testing.T) {
	dir := seedStore(t)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"info", "--dir", dir, "--format", "json"})

	require.NoError(t, cmd.Execute())

	var result InfoResult
	decodeResponse(t, buf, &result)
	assert.True(t, result.Recovered)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)
	assert.Equal(t, 3, result.JournalEntries)
	assert.False(t, result.SnapshotPresent)
	assert.False(t, result.LayoutPresent)
}

func TestInfoTextEmptyStore(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"info", "--dir", t.TempDir()})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "Nodes:           0")
	assert.Contains(t, out, "Snapshot:        none")
}

func TestRecoverVerboseJSON(t *testing.T) {
	dir := seedStore(t)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"recover", "--dir", dir, "-v", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var result RecoverResult
	decodeResponse(t, buf, &result)
	assert.True(t, result.Recovered)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)
	require.Len(t, result.Graph, 2)
	assert.Equal(t, "https://a.example/", result.Graph[0].URL)
	assert.Equal(t, 1.0, result.Graph[0].X)
}

func TestRecoverEmptyStoreText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"recover", "--dir", t.TempDir()})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No prior state")
}

func TestCompactClearsJournal(t *testing.T) {
	dir := seedStore(t)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"compact", "--dir", dir, "--format", "json"})

	require.NoError(t, cmd.Execute())

	var result CompactResult
	decodeResponse(t, buf, &result)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)
	assert.Equal(t, 3, result.EntriesCleared)

	// The compacted store recovers from the snapshot alone.
	s, err := persist.Open(dir)
	require.NoError(t, err)
	defer s.Close()
	assert.True(t, s.Recovered())
	assert.Equal(t, 2, s.Graph().NodeCount())
	n, err := s.Journal().Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
