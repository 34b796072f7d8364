package main

import (
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|HEAD>",
		Short: "Print one engram in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			idOrPrefix := args[0]
			if idOrPrefix == "HEAD" {
				id, headErr := s.ResolveHead(cmd.Context())
				if headErr != nil {
					return headErr
				}
				idOrPrefix = id.String()
			}
			data, err := s.Read(idOrPrefix)
			if err != nil {
				return err
			}
			return printOutput(cmd, data, func() {
				cmd.Println("id:         ", data.Manifest.ID)
				cmd.Println("agent:      ", data.Manifest.Agent.Name)
				cmd.Println("capture:    ", data.Manifest.CaptureMode)
				cmd.Println("created:    ", data.Manifest.CreatedAt)
				if data.Manifest.Summary != "" {
					cmd.Println("summary:    ", data.Manifest.Summary)
				}
				cmd.Println("commits:    ", data.Manifest.GitCommits)
				cmd.Println("tokens:     ", data.Manifest.TokenUsage.Total)
				cmd.Println()
				cmd.Println("## intent")
				cmd.Println(data.Intent.OriginalRequest)
				for _, f := range data.Operations.FileChanges {
					cmd.Println("file:", f.Change.Kind, f.Path)
				}
			})
		},
	}
}
