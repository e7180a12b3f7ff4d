// Package cli implements the graphview command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/phanxgames/graphview/internal/config"
	"github.com/phanxgames/graphview/internal/graphfile"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// app carries state shared by every command.
type app struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg *config.Config
	out io.Writer
}

// NewRootCommand builds the command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:     "graphview",
		Short:   "graphview, a viewport engine for node-graph editors",
		Long:    Brand.Sprint("graphview") + " renders, culls and navigates large node graphs\n" + Subtle.Sprint("Open a graph window, render minimap snapshots, or benchmark the spatial index"),
		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(out)
	root.SetVersionTemplate("graphview {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.Path()+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override: debug, info, warning, error")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.runCmd(),
		a.snapshotCmd(),
		a.benchCmd(),
		a.generateCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup() error {
	if a.noColor {
		colorOff()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	logs.SetLevel(logs.ParseLevel(level))
	return nil
}

// loadGraph reads the graph at path, or generates one when path is empty.
func (a *app) loadGraph(path string, nodes int, seed uint64) (*graphfile.Graph, error) {
	if path == "" {
		if nodes <= 0 {
			return nil, errors.New("either a graph file or --nodes is required")
		}
		logs.WithTag("nodes", nodes).
			WithTag("seed", seed).
			Debug("generating graph")
		return graphfile.Generate(nodes, seed), nil
	}
	g, err := graphfile.Load(path)
	if err != nil {
		return nil, err
	}
	logs.WithTag("path", path).
		WithTag("nodes", g.NodeCount()).
		Debug("graph loaded")
	return g, nil
}

// Execute runs the command line with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout).ExecuteContext(ctx)
}
