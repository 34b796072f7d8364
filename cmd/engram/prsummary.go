package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/review"
)

func newPRSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pr-summary <range>",
		Short: "Build a pull-request description from a revision range's engram-linked commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parseRange(args[0])
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			commits, err := review.WalkRange(s.Repository(), from, to)
			if err != nil {
				return err
			}
			summaries := review.Gather(commits, s)
			roll := review.Aggregate(summaries)
			pr := review.BuildPRSummary(summaries, roll)

			return printOutput(cmd, pr, func() {
				cmd.Println(review.RenderMarkdown(summaries, roll))
			})
		},
	}
}
