package snapshot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/graphview"
	"github.com/phanxgames/graphview/internal/graphfile"
	"github.com/stretchr/testify/require"
)

var white = graphview.Color{R: 1, G: 1, B: 1, A: 1}

func TestCanvasDrawing(t *testing.T) {
	c := NewCanvas(20, 10)
	w, h := c.Size()
	require.Equal(t, 20, w)
	require.Equal(t, 10, h)

	c.Clear(graphview.Color{A: 1})
	c.FillRect(graphview.Bounds{X: 0, Y: 0, Width: 5, Height: 5}, graphview.Color{R: 1, A: 1})

	r, g, b, a := c.Image().At(2, 2).RGBA()
	require.Equal(t, uint32(0xffff), r)
	require.Zero(t, g)
	require.Zero(t, b)
	require.Equal(t, uint32(0xffff), a)

	r, _, _, _ = c.Image().At(15, 8).RGBA()
	require.Zero(t, r)
}

func TestRender(t *testing.T) {
	g := graphfile.Generate(50, 1)
	opts := Options{
		Width:         200,
		Height:        120,
		Minimap:       graphview.DefaultMinimapOptions(),
		Camera:        graphview.NewTransformState(),
		Viewport:      graphview.Vec2{X: 800, Y: 600},
		ViewportColor: white,
		Caption:       true,
	}
	c, err := Render(g, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
	require.Equal(t, 120, img.Bounds().Dy())
}

func TestRenderInvalidSize(t *testing.T) {
	_, err := Render(graphfile.New(), Options{})
	require.Error(t, err)
}

func TestRenderEmptyGraph(t *testing.T) {
	opts := Options{Width: 10, Height: 10, Minimap: graphview.DefaultMinimapOptions()}
	c, err := Render(graphfile.New(), opts)
	require.NoError(t, err)
	_, _, _, a := c.Image().At(5, 5).RGBA()
	require.NotZero(t, a, "empty graph should still paint the background")
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimap.png")
	c := NewCanvas(8, 8)
	c.Clear(white)
	require.NoError(t, c.SavePNG(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Size())

	require.Error(t, c.SavePNG(filepath.Join(t.TempDir(), "missing", "x.png")))
}
