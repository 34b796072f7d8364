package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/record"
)

type agentStats struct {
	Agent      string            `json:"agent"`
	Count      int               `json:"count"`
	TokenUsage record.TokenUsage `json:"token_usage"`
}

type statsReport struct {
	TotalEngrams int               `json:"total_engrams"`
	TokenUsage   record.TokenUsage `json:"token_usage"`
	ByAgent      []agentStats      `json:"by_agent"`
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Aggregate engram counts and token/cost totals, overall and per agent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			manifests, err := s.List(cmd.Context())
			if err != nil {
				return err
			}

			report := statsReport{TotalEngrams: len(manifests)}
			byAgent := map[string]*agentStats{}
			var order []string
			for _, m := range manifests {
				report.TokenUsage = report.TokenUsage.Add(m.TokenUsage)
				entry, ok := byAgent[m.Agent.Name]
				if !ok {
					entry = &agentStats{Agent: m.Agent.Name}
					byAgent[m.Agent.Name] = entry
					order = append(order, m.Agent.Name)
				}
				entry.Count++
				entry.TokenUsage = entry.TokenUsage.Add(m.TokenUsage)
			}
			for _, name := range order {
				report.ByAgent = append(report.ByAgent, *byAgent[name])
			}

			return printOutput(cmd, report, func() {
				cmd.Println("total engrams:", report.TotalEngrams)
				cmd.Println("total tokens: ", report.TokenUsage.Total)
				for _, a := range report.ByAgent {
					cmd.Println(" ", a.Agent, "-", a.Count, "engrams,", a.TokenUsage.Total, "tokens")
				}
			})
		},
	}
}
