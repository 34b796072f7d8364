package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/query"
)

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <path>",
		Short: "List every engram that touched a file, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			entries, err := query.FileTrace(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			return printOutput(cmd, entries, func() {
				for _, e := range entries {
					cmd.Println(e.CreatedAt.Format("2006-01-02 15:04"), e.ID, e.Change.Kind, e.Summary)
				}
			})
		},
	}
}
