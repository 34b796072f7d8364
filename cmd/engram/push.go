package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/config"
	enginesync "github.com/engramhq/engram/internal/sync"
)

func newPushCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push engram refs to the configured remote",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			if err := enginesync.Push(cmd.Context(), s.Repository(), cfg.RemoteName, force); err != nil {
				return err
			}
			cmd.Println("engram: pushed to", cfg.RemoteName)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "force-push, overwriting divergent refs on the remote")
	return cmd
}
