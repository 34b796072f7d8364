package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/config"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across every engram's summary, intent, transcript, tags, and file paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			path := indexPath(s, cfg.IndexDir)
			idx, err := loadIndex(path)
			if err != nil {
				return err
			}
			hits := idx.Search(args[0], limit)
			return printOutput(cmd, hits, func() {
				for _, h := range hits {
					cmd.Println(h.ID, h.Summary)
					if h.Excerpt != "" {
						cmd.Println("   ", h.Excerpt)
					}
				}
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}
