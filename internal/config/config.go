package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/phanxgames/graphview"
)

// FileName is the config file looked up inside Dir.
const FileName = "config.toml"

// Config holds graphview tool configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Index    IndexConfig    `toml:"index"`
	Viewport ViewportConfig `toml:"viewport"`
	AutoPan  AutoPanConfig  `toml:"autopan"`
	Minimap  MinimapConfig  `toml:"minimap"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warning, error
}

// IndexConfig tunes the spatial index.
type IndexConfig struct {
	MaxItemsPerNode int     `toml:"max_items_per_node"`
	MaxDepth        int     `toml:"max_depth"`
	CompactRatio    float64 `toml:"compact_ratio"`
}

// ViewportConfig controls the demo window and culling.
type ViewportConfig struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	CullMargin float64 `toml:"cull_margin"`
	MinZoom    float64 `toml:"min_zoom"`
	MaxZoom    float64 `toml:"max_zoom"`
}

// AutoPanConfig controls edge panning during drags.
type AutoPanConfig struct {
	EdgeWidth float64 `toml:"edge_width"`
	MaxSpeed  float64 `toml:"max_speed"`
}

// MinimapConfig controls minimap size and palette. Colors are hex strings,
// "#rrggbb" or "#rrggbbaa".
type MinimapConfig struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	Padding       float64 `toml:"padding"`
	ShowLinks     bool    `toml:"show_links"`
	Background    string  `toml:"background"`
	NodeColor     string  `toml:"node_color"`
	LinkColor     string  `toml:"link_color"`
	ViewportColor string  `toml:"viewport_color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Index: IndexConfig{
			MaxItemsPerNode: graphview.DefaultMaxItemsPerNode,
			MaxDepth:        graphview.DefaultMaxDepth,
			CompactRatio:    0.25,
		},
		Viewport: ViewportConfig{
			Width:      1280,
			Height:     720,
			CullMargin: graphview.DefaultCullMargin,
			MinZoom:    graphview.DefaultMinZoom,
			MaxZoom:    graphview.DefaultMaxZoom,
		},
		AutoPan: AutoPanConfig{
			EdgeWidth: graphview.DefaultEdgeWidth,
			MaxSpeed:  graphview.DefaultMaxPanSpeed,
		},
		Minimap: MinimapConfig{
			Width:         240,
			Height:        160,
			Padding:       4,
			ShowLinks:     true,
			Background:    "#141419e6",
			NodeColor:     "#9999a6",
			LinkColor:     "#668ccccc",
			ViewportColor: "#ffffff",
		},
	}
}

// Dir returns the graphview config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "graphview")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// Load reads the config file at path, or at Path when path is empty. A
// missing file yields the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.New("reading config failed").
			WithTag("path", path).
			Wrap(err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("parsing config failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New("invalid config").
			WithTag("path", path).
			Wrap(err)
	}
	return cfg, nil
}

// Save writes cfg to path, or to Path when path is empty.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New("creating config dir failed").Wrap(err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.New("creating config file failed").
			WithTag("path", path).
			Wrap(err)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return errors.New("encoding config failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := f.Close(); err != nil {
		return errors.New("writing config failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}

// Validate checks value ranges and color syntax.
func (c *Config) Validate() error {
	if c.Index.MaxItemsPerNode < 0 || c.Index.MaxDepth < 0 {
		return errors.New("index limits must not be negative").
			WithTag("max_items_per_node", c.Index.MaxItemsPerNode).
			WithTag("max_depth", c.Index.MaxDepth)
	}
	if c.Index.CompactRatio < 0 || c.Index.CompactRatio > 1 {
		return errors.New("compact_ratio must be within [0, 1]").
			WithTag("compact_ratio", c.Index.CompactRatio)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.New("viewport size must be positive").
			WithTag("width", c.Viewport.Width).
			WithTag("height", c.Viewport.Height)
	}
	if c.Viewport.MinZoom > c.Viewport.MaxZoom {
		return errors.New("min_zoom exceeds max_zoom").
			WithTag("min_zoom", c.Viewport.MinZoom).
			WithTag("max_zoom", c.Viewport.MaxZoom)
	}
	if c.Minimap.Width <= 0 || c.Minimap.Height <= 0 {
		return errors.New("minimap size must be positive").
			WithTag("width", c.Minimap.Width).
			WithTag("height", c.Minimap.Height)
	}
	for name, hex := range map[string]string{
		"background":     c.Minimap.Background,
		"node_color":     c.Minimap.NodeColor,
		"link_color":     c.Minimap.LinkColor,
		"viewport_color": c.Minimap.ViewportColor,
	} {
		if _, err := ParseColor(hex); err != nil {
			return errors.New("invalid minimap color").
				WithTag("key", name).
				Wrap(err)
		}
	}
	return nil
}

// IndexOptions returns the spatial index options.
func (c *Config) IndexOptions() graphview.SpatialIndexOptions {
	return graphview.SpatialIndexOptions{
		MaxItemsPerNode: c.Index.MaxItemsPerNode,
		MaxDepth:        c.Index.MaxDepth,
	}
}

// MinimapOptions returns the minimap palette. Colors that fail to parse fall
// back to the stock palette.
func (c *Config) MinimapOptions() graphview.MinimapOptions {
	opts := graphview.DefaultMinimapOptions()
	opts.Padding = c.Minimap.Padding
	opts.ShowLinks = c.Minimap.ShowLinks
	if col, err := ParseColor(c.Minimap.Background); err == nil {
		opts.Background = col
	}
	if col, err := ParseColor(c.Minimap.NodeColor); err == nil {
		opts.NodeColor = col
	}
	if col, err := ParseColor(c.Minimap.LinkColor); err == nil {
		opts.LinkColor = col
	}
	return opts
}

// ViewportColor returns the color of the minimap viewport outline.
func (c *Config) ViewportColor() graphview.Color {
	col, err := ParseColor(c.Minimap.ViewportColor)
	if err != nil {
		return graphview.Color{R: 1, G: 1, B: 1, A: 1}
	}
	return col
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" (the leading # is optional).
func ParseColor(s string) (graphview.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return graphview.Color{}, errors.New("color must have 6 or 8 hex digits").
			WithTag("color", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return graphview.Color{}, errors.New("color is not hexadecimal").
			WithTag("color", s).
			Wrap(err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return graphview.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
