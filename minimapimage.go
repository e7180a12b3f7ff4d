package graphview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// MinimapImage is a persistent offscreen ebiten image implementing
// MinimapCanvas. It is owned by the caller and survives across frames, so a
// render skipped by the dirty flags leaves the previous picture intact.
type MinimapImage struct {
	image     *ebiten.Image
	w, h      int
	antialias bool
}

// NewMinimapImage creates a minimap canvas of the given pixel size.
func NewMinimapImage(w, h int) *MinimapImage {
	return &MinimapImage{
		image:     ebiten.NewImage(w, h),
		w:         w,
		h:         h,
		antialias: true,
	}
}

// Image returns the underlying *ebiten.Image for compositing onto the screen.
func (m *MinimapImage) Image() *ebiten.Image {
	return m.image
}

// Size returns the canvas size in pixels.
func (m *MinimapImage) Size() (width, height int) {
	return m.w, m.h
}

// SetAntialias toggles antialiased strokes and fills.
func (m *MinimapImage) SetAntialias(enabled bool) {
	m.antialias = enabled
}

// Clear fills the whole canvas with bg.
func (m *MinimapImage) Clear(bg Color) {
	m.image.Clear()
	if bg.A > 0 {
		m.image.Fill(bg.ToRGBA())
	}
}

// FillRect fills r with c.
func (m *MinimapImage) FillRect(r Bounds, c Color) {
	vector.DrawFilledRect(m.image, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height),
		c.ToRGBA(), m.antialias)
}

// StrokeRect outlines r with a stroke of the given width.
func (m *MinimapImage) StrokeRect(r Bounds, width float64, c Color) {
	vector.StrokeRect(m.image, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height),
		float32(width), c.ToRGBA(), m.antialias)
}

// StrokeLine draws a line segment.
func (m *MinimapImage) StrokeLine(from, to Vec2, width float64, c Color) {
	vector.StrokeLine(m.image, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y),
		float32(width), c.ToRGBA(), m.antialias)
}

// DrawTo composites the minimap onto dst at (x, y) and outlines the viewport
// rectangle vp (minimap pixels) on top.
func (m *MinimapImage) DrawTo(dst *ebiten.Image, x, y float64, vp Bounds, vpColor Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	dst.DrawImage(m.image, &op)
	if vp.Width > 0 && vp.Height > 0 {
		vector.StrokeRect(dst, float32(x+vp.X), float32(y+vp.Y), float32(vp.Width), float32(vp.Height),
			1, vpColor.ToRGBA(), m.antialias)
	}
}

// Resize deallocates the old image and creates a new one at the given size.
// The renderer must be told with SetCanvas (or ForceFullRedraw) afterwards.
func (m *MinimapImage) Resize(w, h int) {
	if m.image != nil {
		m.image.Deallocate()
	}
	m.image = ebiten.NewImage(w, h)
	m.w = w
	m.h = h
}

// Dispose deallocates the underlying image. The MinimapImage should not be
// used after calling Dispose.
func (m *MinimapImage) Dispose() {
	if m.image != nil {
		m.image.Deallocate()
		m.image = nil
	}
}
