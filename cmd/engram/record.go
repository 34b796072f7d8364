package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/agent"
	"github.com/engramhq/engram/internal/capture"
	"github.com/engramhq/engram/internal/config"
	"github.com/engramhq/engram/internal/hooks"
	"github.com/engramhq/engram/internal/query"
	"github.com/engramhq/engram/internal/record"
	"github.com/engramhq/engram/internal/session"
	"github.com/engramhq/engram/internal/store"
)

// updateIndexFor adds data's document to the persisted search index,
// tolerating a missing index file by starting a fresh one. Failures are
// non-fatal: a stale index only degrades `search`, never data durability.
func updateIndexFor(indexDir string, s *store.Store, data *record.Data) {
	path := indexPath(s, indexDir)
	idx, err := loadIndex(path)
	if err != nil {
		return
	}
	idx.Add(query.DocumentFor(data))
	_ = idx.Save(path) //nolint:errcheck // best-effort; `engram reindex` recovers a stale index
}

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record -- <argv...>",
		Short: "Supervise a coding agent under a PTY and persist an engram of the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}

			var command string
			var childArgs []string
			if len(args) > 0 {
				command, childArgs = args[0], args[1:]
			} else {
				command = cfg.DefaultAgentCommand
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			coord := hooks.NewCoordinator(s.GitDir())
			if existing, readErr := coord.Read(); readErr == nil && existing != nil && existing.Phase.IsActive() {
				cmd.PrintErrln("engram: a capture is already active in this repository; recording another one anyway")
			}

			id := record.NewID()
			agentName := string(agent.IdentifyCommand(command))
			if err := coord.Start(id, agentName); err != nil {
				return err
			}
			defer func() {
				_ = coord.Finish() //nolint:errcheck // best-effort cleanup, capture result already persisted
			}()

			result, runErr := capture.Run(cmd.Context(), capture.Options{
				Command:        command,
				Args:           childArgs,
				Dir:            dir,
				MaxBufferBytes: int(cfg.CaptureBufferBytes),
			})
			if runErr != nil {
				_, _ = coord.Mark(session.EventCaptureEnd, session.TransitionContext{}) //nolint:errcheck
				return runErr
			}

			result.Data.Manifest.ID = id
			engramID, createErr := s.Create(cmd.Context(), result.Data)
			if _, markErr := coord.Mark(session.EventCaptureEnd, session.TransitionContext{}); markErr != nil {
				cmd.PrintErrln("engram: warning: failed to close active session:", markErr)
			}
			if createErr != nil {
				return createErr
			}
			updateIndexFor(cfg.IndexDir, s, result.Data)

			return printOutput(cmd, struct {
				EngramID string `json:"engram_id"`
				ExitCode int    `json:"exit_code"`
			}{EngramID: engramID.String(), ExitCode: result.ExitCode}, func() {
				cmd.Println(engramID.String())
			})
		},
	}
}
