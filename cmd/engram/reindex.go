package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/config"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index from every record in the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			if _, err := rebuildIndex(cmd.Context(), s, indexPath(s, cfg.IndexDir)); err != nil {
				return err
			}
			cmd.Println("engram: reindexed")
			return nil
		},
	}
}
