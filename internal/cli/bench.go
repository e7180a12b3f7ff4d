package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/phanxgames/graphview"
	"github.com/phanxgames/graphview/internal/config"
	"github.com/phanxgames/graphview/internal/graphfile"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	Frames  int
	Updates int
}

type benchResult struct {
	Name  string
	Ops   int
	Total time.Duration
	Extra string
}

func (r benchResult) perOp() time.Duration {
	if r.Ops == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Ops)
}

func (a *app) benchCmd() *cobra.Command {
	var (
		nodes int
		seed  uint64
		opts  benchOptions
	)

	cmd := &cobra.Command{
		Use:   "bench [graph.json]",
		Short: "Measure spatial index and culling performance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			g, err := a.loadGraph(path, nodes, seed)
			if err != nil {
				return err
			}
			return runBench(a.out, a.cfg, g, opts)
		},
	}

	cmd.Flags().IntVarP(&nodes, "nodes", "n", 10000, "nodes to generate when no file is given")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "generator seed")
	cmd.Flags().IntVar(&opts.Frames, "frames", 600, "culling frames to simulate")
	cmd.Flags().IntVar(&opts.Updates, "updates", 1000, "node moves to simulate")
	return cmd
}

// runBench simulates a camera sweeping across g and reports timings for
// the indexed and linear culling paths.
func runBench(w io.Writer, cfg *config.Config, g *graphfile.Graph, opts benchOptions) error {
	if g.NodeCount() == 0 {
		return errors.New("cannot benchmark an empty graph")
	}
	if opts.Frames <= 0 {
		opts.Frames = 1
	}

	Banner(w, fmt.Sprintf("bench · %d nodes", g.NodeCount()))

	var results []benchResult

	start := time.Now()
	idx, skipped := g.BuildIndex(g.IndexRegion(), cfg.IndexOptions())
	results = append(results, benchResult{
		Name:  "build index",
		Ops:   g.NodeCount(),
		Total: time.Since(start),
		Extra: fmt.Sprintf("%d skipped", skipped),
	})

	viewport := graphview.Vec2{X: float64(cfg.Viewport.Width), Y: float64(cfg.Viewport.Height)}
	margin := cfg.Viewport.CullMargin
	ext := g.Extent()
	ts := graphview.NewTransformState()
	cameraAt := func(frame int) {
		f := float64(frame) / float64(opts.Frames)
		ts.Sync(-(ext.X + ext.Width*f), -(ext.Y + ext.Height*f), 1)
	}

	var (
		buf     []int
		visible int
	)
	start = time.Now()
	for i := 0; i < opts.Frames; i++ {
		cameraAt(i)
		buf = graphview.VisibleItems(idx, ts, viewport, margin, buf[:0])
		visible += len(buf)
	}
	results = append(results, benchResult{
		Name:  "cull (indexed)",
		Ops:   opts.Frames,
		Total: time.Since(start),
		Extra: fmt.Sprintf("%d visible/frame", visible/opts.Frames),
	})

	linearVisible := 0
	start = time.Now()
	for i := 0; i < opts.Frames; i++ {
		cameraAt(i)
		for j := range g.Nodes {
			n := &g.Nodes[j]
			if ts.IsNodeInViewport(graphview.Vec2{X: n.X, Y: n.Y}, graphview.Vec2{X: n.Width, Y: n.Height}, viewport, margin) {
				linearVisible++
			}
		}
	}
	results = append(results, benchResult{
		Name:  "cull (linear)",
		Ops:   opts.Frames,
		Total: time.Since(start),
		Extra: fmt.Sprintf("%d visible/frame", linearVisible/opts.Frames),
	})

	moved := 0
	start = time.Now()
	for i := 0; i < opts.Updates; i++ {
		n := &g.Nodes[i%len(g.Nodes)]
		if g.MoveNode(idx, n.ID, n.X+7, n.Y-3) {
			moved++
		}
	}
	results = append(results, benchResult{
		Name:  "move node",
		Ops:   opts.Updates,
		Total: time.Since(start),
		Extra: fmt.Sprintf("%d applied", moved),
	})

	start = time.Now()
	compacted := idx.CompactIfSparse(cfg.Index.CompactRatio)
	results = append(results, benchResult{
		Name:  "compact",
		Ops:   1,
		Total: time.Since(start),
		Extra: fmt.Sprintf("rebuilt: %v", compacted),
	})

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, fmt.Sprint(r.Ops), r.Total.String(), r.perOp().String(), r.Extra})
	}
	Table(w, []string{"OPERATION", "OPS", "TOTAL", "PER OP", "NOTES"}, rows)

	fmt.Fprintf(w, "\n  %s %s\n", Subtle.Sprint("index"), idx.Stats())
	ok := visible == linearVisible
	fmt.Fprintf(w, "  %s indexed and linear culling agree\n", StatusIcon(ok))

	logs.WithTag("nodes", g.NodeCount()).
		WithTag("frames", opts.Frames).
		WithTag("indexed", results[1].Total.String()).
		WithTag("linear", results[2].Total.String()).
		Debug("bench finished")

	if !ok && skipped == 0 {
		return errors.New("indexed culling disagrees with linear scan").
			WithTag("indexed", visible).
			WithTag("linear", linearVisible)
	}
	return nil
}
