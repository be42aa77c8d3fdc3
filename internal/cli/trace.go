package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viewloop/viewloop/internal/harness"
	"github.com/viewloop/viewloop/internal/store"
	"github.com/viewloop/viewloop/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string // optional on-disk index; defaults to in-memory
	Kind     string // optional - filter to one entry kind
}

// TraceStats holds summary statistics for a trace.
type TraceStats struct {
	TotalEntries int            `json:"total_entries"`
	ByKind       map[string]int `json:"by_kind"`
	LastSeq      int64          `json:"last_seq"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Scenario string        `json:"scenario"`
	Timeline []trace.Entry `json:"timeline"`
	Stats    TraceStats    `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <scenario-file>",
		Short: "Execute a scenario and inspect its trace",
		Long: `Execute a scenario, index the recorded trace in SQLite, and print the
timeline.

The index is in-memory unless --db names a file, in which case the
indexed trace survives the run and can be queried with sqlite3 directly.

Examples:
  viewloop trace ./scenarios/demo_walkthrough.yaml
  viewloop trace ./scenarios/demo_walkthrough.yaml --kind view_rendered
  viewloop trace ./scenarios/demo_walkthrough.yaml --db ./trace.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceCmd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", store.MemoryPath, "path to SQLite trace index")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter timeline to one entry kind")

	return cmd
}

func runTraceCmd(opts *TraceOptions, scenarioFile string, cmd *cobra.Command) error {
	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitFailure, "scenario execution failed", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace index", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.WriteAll(ctx, result.Trace); err != nil {
		return WrapExitError(ExitCommandError, "failed to index trace", err)
	}

	timeline, err := queryTimeline(ctx, st, opts.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query trace index", err)
	}

	stats, err := traceStats(ctx, st)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query trace stats", err)
	}

	out := TraceResult{
		Scenario: scenario.Name,
		Timeline: timeline,
		Stats:    stats,
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: out})
	}

	return outputTraceText(cmd, out)
}

// queryTimeline reads the timeline from the index, optionally filtered.
func queryTimeline(ctx context.Context, st *store.Store, kind string) ([]trace.Entry, error) {
	if kind != "" {
		return st.ListByKind(ctx, trace.Kind(kind))
	}
	return st.List(ctx)
}

// traceStats aggregates per-kind counts from the index.
func traceStats(ctx context.Context, st *store.Store) (TraceStats, error) {
	entries, err := st.List(ctx)
	if err != nil {
		return TraceStats{}, err
	}

	byKind := make(map[string]int)
	for _, e := range entries {
		byKind[string(e.Kind)]++
	}

	lastSeq, err := st.LastSeq(ctx)
	if err != nil {
		return TraceStats{}, err
	}

	return TraceStats{
		TotalEntries: len(entries),
		ByKind:       byKind,
		LastSeq:      lastSeq,
	}, nil
}

// outputTraceText prints the timeline and stats as text.
func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Trace for %s\n\n", result.Scenario)
	for _, e := range result.Timeline {
		fmt.Fprintf(w, "%4d  %-18s", e.Seq, string(e.Kind))
		for k, v := range e.Attrs {
			fmt.Fprintf(w, " %s=%v", k, v)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d entries, last seq %d\n", result.Stats.TotalEntries, result.Stats.LastSeq)
	return nil
}
