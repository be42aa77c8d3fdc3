package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viewloop/viewloop/internal/app"
	"github.com/viewloop/viewloop/internal/runtime"
	"github.com/viewloop/viewloop/internal/state"
	"github.com/viewloop/viewloop/internal/trace"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive demo loop",
		Long: `Run the demo tree and dispatch controls from stdin.

One control per line:
  increment       raise the counter
  add_user        append a synthesized user
  toggle_error    flip the error-visibility flag
  reset_boundary  clear the profile fault boundary
  quit            stop the loop and print the final display

Every trace entry is mirrored to stderr as it is recorded; use --verbose
to also see gate skip decisions.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, cmd)
		},
	}

	return cmd
}

func runDemo(opts *RootOptions, cmd *cobra.Command) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// One clock for event stamps and trace entries, so both interleave into
	// a single monotonic sequence.
	clock := runtime.NewClock()
	rec := trace.NewRecorder(clock, logger)
	a := app.New(rec, state.WithUsers(app.DefaultUsers()))
	loop := runtime.NewLoop(a, clock, runtime.UUIDv7Generator{})

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(cmd.Context())
	}()

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "controls: increment, add_user, toggle_error, reset_boundary, quit")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if !loop.Dispatch(runtime.Action(line)) {
			fmt.Fprintf(w, "unknown control %q\n", line)
		}
	}
	if err := scanner.Err(); err != nil {
		loop.Stop()
		<-done
		return WrapExitError(ExitCommandError, "failed to read controls", err)
	}

	// Drain remaining events, then read final state from the loop goroutine's
	// side of the fence.
	loop.Stop()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return printFinal(opts, cmd, a, rec)
}

// printFinal writes the final display values and a trace summary.
func printFinal(opts *RootOptions, cmd *cobra.Command, a *app.App, rec *trace.Recorder) error {
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		snap := a.Snapshot()
		return formatter.Success(map[string]any{
			"counter":       snap.Counter,
			"error_visible": snap.ErrorVisible,
			"users":         len(snap.Users),
			"active_users":  len(a.ActiveUsers()),
			"boundary":      a.Boundary().State().String(),
			"outputs":       a.Outputs(),
			"trace_entries": rec.Len(),
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	for _, out := range a.Outputs() {
		fmt.Fprintf(w, "== %s ==\n", out.Title)
		for _, line := range out.Lines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	snap := a.Snapshot()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "counter: %d  boundary: %s  trace entries: %d\n",
		snap.Counter, a.Boundary().State(), rec.Len())
	return nil
}
