package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/review"
)

func parseRange(rangeArg string) (from, to string, err error) {
	parts := strings.SplitN(rangeArg, "..", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errs.New(errs.KindNotFound, "range must be of the form fromRev..toRev")
	}
	return parts[0], parts[1], nil
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <rangeA..rangeB>",
		Short: "Summarize every engram-linked commit in a revision range",
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

			return printOutput(cmd, review.BuildPRSummary(summaries, roll), func() {
				cmd.Println(review.RenderMarkdown(summaries, roll))
			})
		},
	}
}
