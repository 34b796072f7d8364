package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// printOutput renders v as indented JSON when --format json is set,
// otherwise calls text to print the human-readable form.
func printOutput(cmd *cobra.Command, v any, text func()) error {
	if flags.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}
