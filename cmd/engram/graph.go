package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/query"
)

func newGraphCmd() *cobra.Command {
	var asDOT bool
	var depth int

	cmd := &cobra.Command{
		Use:   "graph [filter]",
		Short: "Show the lineage graph linking engrams, files, agents, and commits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			g, err := query.BuildGraph(cmd.Context(), s)
			if err != nil {
				return err
			}

			var nodes []query.Node
			if len(args) == 1 && args[0] != "" {
				needle := args[0]
				matches := func(n query.Node) bool {
					return strings.Contains(string(n.ID), needle) || strings.Contains(n.Summary, needle) || strings.Contains(n.Path, needle)
				}
				if depth > 0 {
					for _, n := range g.Nodes() {
						if matches(n) {
							nodes = append(nodes, g.Neighbors(n.ID, depth)...)
						}
					}
				}
				g = g.SubgraphFor(matches)
			}

			if asDOT {
				cmd.Println(g.DOT())
				return nil
			}
			return printOutput(cmd, struct {
				Nodes []query.Node `json:"nodes"`
				Edges []query.Edge `json:"edges"`
			}{Nodes: g.Nodes(), Edges: g.Edges()}, func() {
				if nodes != nil {
					for _, n := range nodes {
						cmd.Println(n.ID)
					}
					return
				}
				cmd.Println(g.DOT())
			})
		},
	}
	cmd.Flags().BoolVar(&asDOT, "dot", false, "render Graphviz DOT format")
	cmd.Flags().IntVar(&depth, "depth", 0, "in text output, list the nodes within this many hops of a filter match instead of the filtered graph (0 = no traversal)")
	return cmd
}
