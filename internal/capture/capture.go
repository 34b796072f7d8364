package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/engramhq/engram/internal/agent"
	"github.com/engramhq/engram/internal/record"
	"github.com/engramhq/engram/internal/redact"
	"github.com/engramhq/engram/internal/textutil"
)

// Options configures a single wrapper-mode capture.
type Options struct {
	Command        string
	Args           []string
	Dir            string
	MaxBufferBytes int
}

// Result is the outcome of a supervised run: the assembled record plus
// the child's exit code, returned even on a nonzero exit so the caller
// can still persist what was captured.
type Result struct {
	Data     *record.Data
	ExitCode int
}

// Run supervises opts.Command under a PTY from opts.Dir, diffs the
// working tree across the run, and assembles a wrapper-mode record.
func Run(ctx context.Context, opts Options) (*Result, error) {
	before, err := TakeSnapshot(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("capture: pre-run snapshot: %w", err)
	}

	createdAt := time.Now()
	sup := NewSupervisor(opts.Command, opts.Args, opts.Dir, opts.MaxBufferBytes)
	exitCode, runErr := sup.Run(ctx)
	finishedAt := time.Now()
	if runErr != nil {
		return nil, runErr
	}

	after, err := TakeSnapshot(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("capture: post-run snapshot: %w", err)
	}
	changes := DiffSnapshots(before, after)

	output := redact.Bytes(sup.Output())
	duration := finishedAt.Sub(createdAt).Milliseconds()
	wrappedExit := exitCode
	data := &record.Data{
		Manifest: record.Manifest{
			Version:     record.CurrentSchemaVersion,
			CreatedAt:   createdAt,
			FinishedAt:  &finishedAt,
			Agent:       agent.ForCapture(append([]string{opts.Command}, opts.Args...)),
			CaptureMode: record.CaptureModeWrapper,
			GitCommits:  []string{},
			Tags:        []string{},
		},
		Intent: record.Intent{
			OriginalRequest: argvTailPrompt(opts.Args),
			DeadEnds:        ExtractDeadEnds(output),
			Decisions:       ExtractDecisions(output),
		},
		Transcript: nil,
		Operations: record.Operations{
			FileChanges: changes,
			ShellCommands: []record.ShellCommand{
				{
					Timestamp:      createdAt,
					Command:        strings.Join(append([]string{opts.Command}, opts.Args...), " "),
					ExitCode:       &wrappedExit,
					DurationMillis: &duration,
				},
			},
		},
	}
	return &Result{Data: data, ExitCode: exitCode}, nil
}

// argvTailPrompt recovers the user's prompt from the agent invocation's
// trailing arguments, joining them the way a shell would have presented
// them to the agent's own argv parsing.
func argvTailPrompt(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return textutil.StripHostTags(strings.Join(args, " "))
}
