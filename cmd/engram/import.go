package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/config"
	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/importer"
)

func newImportCmd() *cobra.Command {
	var parser string
	var autoDetect bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Import a coding agent's own session transcript as an engram",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}

			var candidates []importer.Candidate
			switch {
			case autoDetect:
				dir, wdErr := os.Getwd()
				if wdErr != nil {
					return wdErr
				}
				candidates, err = importer.DetectCandidates(dir)
				if err != nil {
					return err
				}
				if len(candidates) == 0 {
					cmd.Println("engram: no session files found")
					return nil
				}
			case len(args) == 1:
				f := importer.Format(parser)
				if f == "" {
					f = importer.GuessFormat(args[0])
				}
				candidates = []importer.Candidate{{Path: args[0], Format: f}}
			default:
				return errs.New(errs.KindNotFound, "import requires a path or --auto-detect")
			}

			type imported struct {
				Path     string `json:"path"`
				EngramID string `json:"engram_id,omitempty"`
				Skipped  bool   `json:"skipped"`
			}
			var results []imported

			for _, c := range candidates {
				data, err := importer.Import(c.Path, c.Format)
				if err != nil {
					cmd.PrintErrln("engram: skipping", c.Path+":", err)
					continue
				}
				if _, found, findErr := s.FindBySourceHash(data.Manifest.SourceHash); findErr == nil && found {
					results = append(results, imported{Path: c.Path, Skipped: true})
					continue
				}
				if dryRun {
					results = append(results, imported{Path: c.Path, Skipped: false})
					continue
				}
				id, createErr := s.Create(cmd.Context(), data)
				if createErr != nil {
					return createErr
				}
				updateIndexFor(cfg.IndexDir, s, data)
				results = append(results, imported{Path: c.Path, EngramID: id.String()})
			}

			return printOutput(cmd, results, func() {
				for _, r := range results {
					switch {
					case r.Skipped:
						cmd.Println(r.Path, "- already imported, skipped")
					case dryRun:
						cmd.Println(r.Path, "- would import")
					default:
						cmd.Println(r.Path, "->", r.EngramID)
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&parser, "parser", "", "force a parser: structured_session, chat_markdown, generic_jsonl")
	cmd.Flags().BoolVar(&autoDetect, "auto-detect", false, "search conventional session storage locations")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be imported without writing any engram")
	return cmd
}
