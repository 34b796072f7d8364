package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/config"
	enginesync "github.com/engramhq/engram/internal/sync"
)

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch engram refs from the configured remote and reindex the newly arrived ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			r := &reindexer{store: s, path: indexPath(s, cfg.IndexDir)}
			if err := enginesync.Pull(cmd.Context(), s.Repository(), cfg.RemoteName, r); err != nil {
				return err
			}
			cmd.Println("engram: pulled from", cfg.RemoteName)
			return nil
		},
	}
}
