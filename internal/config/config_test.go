package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/graphview"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, graphview.DefaultMaxItemsPerNode, cfg.Index.MaxItemsPerNode)
	require.Equal(t, graphview.DefaultMaxDepth, cfg.Index.MaxDepth)
	require.Equal(t, graphview.DefaultEdgeWidth, cfg.AutoPan.EdgeWidth)
	require.True(t, cfg.Minimap.ShowLinks)
	require.NoError(t, cfg.Validate())
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	require.Equal(t, "/tmp/xdg-test/graphview", Dir())
	require.Equal(t, "/tmp/xdg-test/graphview/config.toml", Path())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Index.MaxDepth = 5
	cfg.Viewport.Width = 1920
	cfg.Minimap.NodeColor = "#ff0000"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestSaveReportsWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	require.Error(t, Save("/dev/full", Default()))
}

func TestSaveIntoFileParentFails(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0o644))
	require.Error(t, Save(filepath.Join(parent, "config.toml"), Default()))
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[autopan]
max_speed = 1200.0

[minimap]
width = 300
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1200.0, cfg.AutoPan.MaxSpeed)
	require.Equal(t, graphview.DefaultEdgeWidth, cfg.AutoPan.EdgeWidth)
	require.Equal(t, 300, cfg.Minimap.Width)
	require.Equal(t, 160, cfg.Minimap.Height)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[log\nlevel = "},
		{"bad color", "[minimap]\nnode_color = \"#zzzzzz\""},
		{"short color", "[minimap]\nbackground = \"#fff\""},
		{"zoom order", "[viewport]\nmin_zoom = 5.0\nmax_zoom = 1.0"},
		{"compact ratio", "[index]\ncompact_ratio = 2.0"},
		{"viewport size", "[viewport]\nwidth = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	require.Equal(t, 1.0, c.R)
	require.InDelta(t, 128.0/255, c.G, 1e-9)
	require.Equal(t, 0.0, c.B)
	require.Equal(t, 1.0, c.A)

	c, err = ParseColor("00000080")
	require.NoError(t, err)
	require.InDelta(t, 128.0/255, c.A, 1e-9)

	_, err = ParseColor("")
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Index.MaxItemsPerNode = 3
	cfg.Minimap.Padding = 10
	cfg.Minimap.NodeColor = "#00ff00"
	cfg.Minimap.ViewportColor = "broken"

	require.Equal(t, graphview.SpatialIndexOptions{MaxItemsPerNode: 3, MaxDepth: graphview.DefaultMaxDepth}, cfg.IndexOptions())

	opts := cfg.MinimapOptions()
	require.Equal(t, 10.0, opts.Padding)
	require.Equal(t, graphview.Color{G: 1, A: 1}, opts.NodeColor)
	require.Equal(t, graphview.Color{R: 1, G: 1, B: 1, A: 1}, cfg.ViewportColor())
}
