package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/hooks"
	"github.com/engramhq/engram/internal/paths"
	enginesync "github.com/engramhq/engram/internal/sync"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Install Engram's Git hooks and remote refspec in the current repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			hooksDir := filepath.Join(s.GitDir(), paths.HooksDirName)
			if err := hooks.InstallAll(hooksDir); err != nil {
				return err
			}
			if err := enginesync.ConfigureRemote(s.Repository(), "origin"); err != nil {
				cmd.PrintErrln("engram: no \"origin\" remote configured yet; refspec will be set on the next `engram init` once one exists")
			}
			cmd.Println("engram: initialized")
			return nil
		},
	}
}
