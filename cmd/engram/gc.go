package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newGCCmd() *cobra.Command {
	var olderThan string
	var dryRun bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Remove engram refs older than a threshold, leaving Git's own object reclamation to `git gc`",
		RunE: func(cmd *cobra.Command, _ []string) error {
			threshold := 90 * 24 * time.Hour
			if olderThan != "" {
				d, err := time.ParseDuration(olderThan)
				if err != nil {
					return err
				}
				threshold = d
			}
			cutoff := time.Now().Add(-threshold)

			s, err := openStore()
			if err != nil {
				return err
			}
			manifests, err := s.List(cmd.Context())
			if err != nil {
				return err
			}

			var stale []string
			for _, m := range manifests {
				if m.CreatedAt.Before(cutoff) {
					stale = append(stale, string(m.ID))
				}
			}
			if len(stale) == 0 {
				cmd.Println("engram: nothing older than", threshold, "found")
				return nil
			}
			if dryRun {
				return printOutput(cmd, stale, func() {
					for _, id := range stale {
						cmd.Println("would remove", id)
					}
				})
			}

			ok, err := confirmDestructive("Remove the engram refs listed above? Git objects are left for `git gc` to reclaim.", yes)
			if err != nil {
				return err
			}
			if !ok {
				cmd.Println("engram: gc cancelled")
				return nil
			}
			for _, id := range stale {
				if delErr := s.Delete(id); delErr != nil {
					return delErr
				}
			}
			return printOutput(cmd, stale, func() {
				for _, id := range stale {
					cmd.Println("removed", id)
				}
			})
		},
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "", "Go duration (e.g. 720h) past which an engram is eligible for removal; default 90 days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be removed without removing it")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
