package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/config"
	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/store"
	"github.com/engramhq/engram/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

// silentError wraps an error whose user-facing message has already been
// printed, so Execute doesn't print it a second time.
type silentError struct{ err error }

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

func newSilentError(err error) *silentError { return &silentError{err: err} }

// globalFlags holds the persistent flags every verb reads.
type globalFlags struct {
	format  string
	verbose int
	quiet   bool
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "engram",
		Short:         "Persist AI coding session provenance as content-addressed Git objects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.format, "format", "text", "output format: text or json")
	root.PersistentFlags().CountVarP(&flags.verbose, "verbose", "v", "increase verbosity (repeatable)")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress non-essential output")

	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		cfg, _ := config.Load(configPath())
		client := telemetry.NewClient(cfg.TelemetryEnabled, version)
		ctx := telemetry.WithClient(cmd.Context(), client)
		cmd.SetContext(ctx)
	}
	root.PersistentPostRun = func(cmd *cobra.Command, _ []string) {
		telemetry.FromContext(cmd.Context()).TrackCommand(cmd)
		telemetry.FromContext(cmd.Context()).Close()
	}

	root.AddCommand(
		newInitCmd(),
		newRecordCmd(),
		newImportCmd(),
		newLogCmd(),
		newShowCmd(),
		newSearchCmd(),
		newTraceCmd(),
		newDiffCmd(),
		newGraphCmd(),
		newReviewCmd(),
		newPRSummaryCmd(),
		newStatsCmd(),
		newBlameCmd(),
		newGCCmd(),
		newPushCmd(),
		newPullCmd(),
		newFetchCmd(),
		newReindexCmd(),
		newVersionCmd(),
		newInternalHookCmd(),
	)
	return root
}

func configPath() string {
	if path := os.Getenv("ENGRAM_CONFIG"); path != "" {
		return path
	}
	return ".engram.toml"
}

// openStore discovers the enclosing repository's engram storage, mapping a
// discovery failure to the NotRepository exit code.
func openStore() (*store.Store, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return store.Discover(dir)
}

// exitCodeFor maps err to the process exit code per the error taxonomy; a
// plain (non-taxonomy) error is treated as a user error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := errs.KindOf(err); ok {
		return kind.ExitCode()
	}
	return 1
}

func printErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "engram: "+format+"\n", args...)
}

func main() {
	root := newRootCmd()
	// Ctrl+C reaches only engram itself, not the supervised child: record
	// spawns the agent under its own PTY session, so the terminal's SIGINT
	// targets engram's foreground process group alone. Cancel ctx instead of
	// letting Go's default disposition kill engram immediately, so `record`
	// can still synthesize a partial engram and clean up the active-session
	// file on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := root.ExecuteContext(ctx)
	if err == nil {
		os.Exit(0)
	}
	var silent *silentError
	if se, ok := err.(*silentError); ok { //nolint:errorlint // direct type assertion is clearer than errors.As for this leaf check
		silent = se
	}
	if silent == nil {
		printErr("%v", err)
	}
	os.Exit(exitCodeFor(err))
}
