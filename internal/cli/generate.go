package cli

import (
	"fmt"

	"github.com/phanxgames/graphview/internal/graphfile"
	"github.com/spf13/cobra"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		nodes  int
		seed   uint64
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random layered graph document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := graphfile.Generate(nodes, seed)
			if output == "" || output == "-" {
				return graphfile.Encode(a.out, g)
			}
			if err := graphfile.Save(output, g); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "  %s %s (%d nodes, %d links)\n",
				StatusIcon(true), Info.Sprint(output), g.NodeCount(), len(g.Links))
			return nil
		},
	}

	cmd.Flags().IntVarP(&nodes, "nodes", "n", 1000, "number of nodes")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "generator seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
