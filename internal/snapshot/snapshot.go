// Package snapshot renders graph minimaps to PNG images without a window.
package snapshot

import (
	"fmt"
	"image"
	"io"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/phanxgames/graphview"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Canvas is a graphview.MinimapCanvas backed by a gg raster context.
type Canvas struct {
	dc   *gg.Context
	w, h int
}

// NewCanvas creates a canvas of the given pixel size.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{dc: gg.NewContext(w, h), w: w, h: h}
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.w, c.h
}

// Clear fills the canvas with bg.
func (c *Canvas) Clear(bg graphview.Color) {
	c.dc.SetColor(bg.ToRGBA())
	c.dc.Clear()
}

// FillRect fills r with col.
func (c *Canvas) FillRect(r graphview.Bounds, col graphview.Color) {
	c.dc.SetColor(col.ToRGBA())
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.dc.Fill()
}

// StrokeRect outlines r.
func (c *Canvas) StrokeRect(r graphview.Bounds, width float64, col graphview.Color) {
	c.dc.SetColor(col.ToRGBA())
	c.dc.SetLineWidth(width)
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.dc.Stroke()
}

// StrokeLine draws a line segment.
func (c *Canvas) StrokeLine(from, to graphview.Vec2, width float64, col graphview.Color) {
	c.dc.SetColor(col.ToRGBA())
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	c.dc.Stroke()
}

// Caption draws text in the bottom-left corner with the Go Mono face.
func (c *Canvas) Caption(text string, size float64, col graphview.Color) error {
	face, err := monoFace(size)
	if err != nil {
		return err
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(col.ToRGBA())
	c.dc.DrawString(text, 4, float64(c.h)-4)
	return nil
}

// Image returns the rendered picture.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the picture to w.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// SavePNG writes the picture to the file at path.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return errors.New("saving png failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}

func monoFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, errors.New("failed to parse font").Wrap(err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Options controls Render.
type Options struct {
	Width, Height int
	Minimap       graphview.MinimapOptions
	// Camera, when non-nil, is outlined as a viewport of size Viewport.
	Camera        *graphview.TransformState
	Viewport      graphview.Vec2
	ViewportColor graphview.Color
	// Caption, when true, prints the node count in the corner.
	Caption bool
}

// Render draws the minimap of g into a new canvas.
func Render(g graphview.GraphSource, opts Options) (*Canvas, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("snapshot size must be positive").
			WithTag("width", opts.Width).
			WithTag("height", opts.Height)
	}
	transform := opts.Camera
	if transform == nil {
		transform = graphview.NewTransformState()
	}

	c := NewCanvas(opts.Width, opts.Height)
	r := graphview.NewMinimapRenderer(g, transform, opts.Minimap)
	r.SetCanvas(c)
	r.Update(opts.Viewport)

	if opts.Camera != nil {
		c.StrokeRect(r.ViewportRect(), 1, opts.ViewportColor)
	}
	if opts.Caption {
		text := fmt.Sprintf("%d nodes", g.NodeCount())
		if err := c.Caption(text, 12, opts.ViewportColor); err != nil {
			return nil, err
		}
	}
	return c, nil
}
