package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/query"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <idA> <idB>",
		Short: "Compare two engrams' files, token usage, and agent identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			left, err := s.Read(args[0])
			if err != nil {
				return err
			}
			right, err := s.Read(args[1])
			if err != nil {
				return err
			}
			d := query.Diff(left, right)
			return printOutput(cmd, d, func() {
				cmd.Println("files only in", args[0]+":", d.Files.LeftOnly)
				cmd.Println("files only in", args[1]+":", d.Files.RightOnly)
				cmd.Println("files in both:   ", d.Files.Both)
				cmd.Println("token delta:     ", d.Tokens.TotalDelta)
				if d.Tokens.CostDelta != nil {
					cmd.Println("cost delta:      ", *d.Tokens.CostDelta)
				}
				cmd.Println("same agent:      ", d.Agent.SameAgent)
				cmd.Println("same model:      ", d.Agent.SameModel)
			})
		},
	}
}
