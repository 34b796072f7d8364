package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/hooks"
)

// rewriteCommitMsgFile loads the commit message Git staged at path, passes
// it through fn, and writes the result back. Any failure is swallowed: a
// hook must never block the commit it's observing.
func rewriteCommitMsgFile(path string, fn func(string) (string, error)) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is Git's own COMMIT_EDITMSG, supplied by the hook
	if err != nil {
		return nil //nolint:nilerr
	}
	updated, err := fn(string(data))
	if err != nil {
		return nil //nolint:nilerr
	}
	if updated == string(data) {
		return nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil { //nolint:gosec // matches Git's own commit-msg file permissions
		return nil //nolint:nilerr
	}
	return nil
}

// newInternalHookCmd is the entrypoint the installed Git hook scripts call;
// it is never meant to be invoked directly by a user. Both subcommands must
// never return a nonzero exit in a way that blocks the user's commit: the
// installed scripts already redirect stderr to engram-errors.log and force
// `exit 0`, but the handlers themselves also swallow their own failures.
func newInternalHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "internal-hook",
		Hidden: true,
	}
	cmd.AddCommand(newInternalHookPrepareCommitMsgCmd(), newInternalHookPostCommitCmd())
	return cmd
}

func newInternalHookPrepareCommitMsgCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "prepare-commit-msg <msg-file> [source] [sha]",
		Hidden: true,
		Args:   cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return nil //nolint:nilerr // hooks must never fail the user's commit
			}
			coord := hooks.NewCoordinator(s.GitDir())
			msgPath := args[0]
			return rewriteCommitMsgFile(msgPath, func(msg string) (string, error) {
				return hooks.HandlePrepareCommitMsg(coord, msg)
			})
		},
	}
}

func newInternalHookPostCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "post-commit <sha>",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return nil //nolint:nilerr // hooks must never fail the user's commit
			}
			coord := hooks.NewCoordinator(s.GitDir())
			if err := hooks.HandlePostCommit(coord, s, args[0]); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "engram: post-commit hook:", err)
			}
			return nil
		},
	}
}
