package cli

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/phanxgames/graphview/internal/demo"
	"github.com/spf13/cobra"
)

func (a *app) runCmd() *cobra.Command {
	var (
		nodes int
		seed  uint64
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "run [graph.json]",
		Short: "Open a graph in an interactive window",
		Long: "Open a graph in an interactive window.\n\n" +
			"  left drag     move a node (shift: draw a link)\n" +
			"  right drag    pan\n" +
			"  wheel         zoom\n" +
			"  minimap       click or drag to navigate\n" +
			"  F / D         fit graph / toggle debug overlay",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			g, err := a.loadGraph(path, nodes, seed)
			if err != nil {
				return err
			}

			logs.WithTag("nodes", g.NodeCount()).
				WithTag("watch", watch && path != "").
				Info("opening graph window")
			return demo.Run(cmd.Context(), a.cfg, g, demo.RunOptions{
				Path:  path,
				Watch: watch,
				Title: "graphview " + path,
			})
		},
	}

	cmd.Flags().IntVarP(&nodes, "nodes", "n", 2000, "nodes to generate when no file is given")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "generator seed")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the graph file when it changes")
	return cmd
}
