package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/config"
	enginesync "github.com/engramhq/engram/internal/sync"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Force-fetch engram refs from the configured remote without reindexing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			if err := enginesync.Fetch(cmd.Context(), s.Repository(), cfg.RemoteName); err != nil {
				return err
			}
			cmd.Println("engram: fetched from", cfg.RemoteName)
			return nil
		},
	}
}
