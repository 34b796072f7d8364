package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/query"
)

func newBlameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blame <path>",
		Short: "Print every engram that touched a file, one line each, blame-style",
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
					cmd.Printf("%s  %-8s  %s  %s\n", e.ID, e.Change.Kind, e.CreatedAt.Format("2006-01-02"), e.Summary)
				}
			})
		},
	}
}
