package main

import (
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the engram build version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printOutput(cmd, struct {
				Version string `json:"version"`
			}{Version: version}, func() {
				cmd.Println(version)
			})
		},
	}
}
