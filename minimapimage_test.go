package graphview

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNewMinimapImageDimensions(t *testing.T) {
	m := NewMinimapImage(160, 90)
	defer m.Dispose()

	if w, h := m.Size(); w != 160 || h != 90 {
		t.Errorf("Size = (%d, %d), want (160, 90)", w, h)
	}
	if m.Image() == nil {
		t.Error("Image() should not be nil")
	}
}

func TestMinimapImageResize(t *testing.T) {
	m := NewMinimapImage(32, 32)
	defer m.Dispose()

	old := m.Image()
	m.Resize(64, 48)
	if m.Image() == old {
		t.Error("Resize should allocate a new image")
	}
	if w, h := m.Size(); w != 64 || h != 48 {
		t.Errorf("Size after Resize = (%d, %d), want (64, 48)", w, h)
	}
}

func TestMinimapImageDispose(t *testing.T) {
	m := NewMinimapImage(16, 16)
	m.Dispose()
	if m.Image() != nil {
		t.Error("Image should be nil after Dispose")
	}
	m.Dispose()
}

func TestMinimapImageAsCanvas(t *testing.T) {
	m := NewMinimapImage(200, 100)
	defer m.Dispose()

	r := NewMinimapRenderer(newTestGraph(), NewTransformState(), DefaultMinimapOptions())
	r.SetCanvas(m)
	r.Update(screen800x600)
	if st := r.Stats(); st.Renders != 1 {
		t.Errorf("Renders = %d, want 1", st.Renders)
	}

	dst := ebiten.NewImage(400, 300)
	defer dst.Deallocate()
	m.DrawTo(dst, 10, 10, r.ViewportRect(), Color{R: 1, G: 1, B: 1, A: 1})
}
