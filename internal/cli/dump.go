package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lattice/internal/persist"
	"github.com/roach88/lattice/internal/record"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
}

// DumpEntry is one journal record in the dump output.
type DumpEntry struct {
	Seq    uint64 `json:"seq"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// DumpResult holds the complete dump output.
type DumpResult struct {
	Dir     string      `json:"dir"`
	Entries []DumpEntry `json:"entries"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "List journal entries in sequence order",
		Long: `List every mutation record in the journal, oldest first.

Records written since the last snapshot are all that the journal holds;
an empty dump after activity means a snapshot has absorbed the history.

Examples:
  lattice dump --dir ./data
  lattice dump --dir ./data --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd)
		},
	}

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	s, err := persist.Open(opts.Dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer s.Close()

	entries, err := s.Journal().Entries(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	result := DumpResult{Dir: opts.Dir, Entries: make([]DumpEntry, 0, len(entries))}
	for _, e := range entries {
		result.Entries = append(result.Entries, DumpEntry{
			Seq:    e.Seq,
			Kind:   string(e.Record.Kind),
			Detail: describeRecord(e.Record),
		})
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	if len(result.Entries) == 0 {
		fmt.Fprintln(w, "(journal is empty)")
		return nil
	}
	for _, e := range result.Entries {
		fmt.Fprintf(w, "[%d] %s %s\n", e.Seq, e.Kind, e.Detail)
	}
	return nil
}

// describeRecord summarizes a record's payload in one line.
func describeRecord(rec record.Record) string {
	switch rec.Kind {
	case record.KindAddNode:
		return fmt.Sprintf("%s %s (%g, %g)", rec.AddNode.Node, rec.AddNode.URL, rec.AddNode.X, rec.AddNode.Y)
	case record.KindAddEdge:
		return fmt.Sprintf("%s -> %s (%s)", rec.AddEdge.From, rec.AddEdge.To, rec.AddEdge.Kind)
	case record.KindSetTitle:
		return fmt.Sprintf("%s %q", rec.SetTitle.Node, rec.SetTitle.Title)
	case record.KindSetURL:
		return fmt.Sprintf("%s %s", rec.SetURL.Node, rec.SetURL.URL)
	case record.KindPin:
		return fmt.Sprintf("%s pinned=%t", rec.Pin.Node, rec.Pin.Pinned)
	case record.KindRemoveNode:
		return rec.Remove.Node.String()
	default:
		return ""
	}
}
