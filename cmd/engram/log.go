package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var showCost bool
	var byAgent bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List engrams, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			manifests, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if byAgent {
				sort.SliceStable(manifests, func(i, j int) bool {
					return manifests[i].Agent.Name < manifests[j].Agent.Name
				})
			}

			return printOutput(cmd, manifests, func() {
				for _, m := range manifests {
					line := string(m.ID) + "  " + m.Agent.Name + "  " + m.CreatedAt.Format("2006-01-02 15:04")
					if m.Summary != "" {
						line += "  " + m.Summary
					}
					if showCost && m.TokenUsage.CostUSD != nil {
						line += fmt.Sprintf("  $%.4f", *m.TokenUsage.CostUSD)
					}
					cmd.Println(line)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&showCost, "cost", false, "include per-engram cost")
	cmd.Flags().BoolVar(&byAgent, "by-agent", false, "group entries by agent name")
	return cmd
}
