package graphview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraSource is the camera owned by a host rendering surface. TransformState
// only reads Offset and Scale; AutoPanController only writes the offset and
// invalidates the surface through SetDirty.
type CameraSource interface {
	Offset() (x, y float64)
	Scale() float64
	SetOffset(x, y float64)
	SetDirty(foreground, background bool)
}

// Zoom limits applied by Surface when its MinZoom/MaxZoom are left at zero.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 10.0
)

// scrollAnim holds active scroll-to tweens for the X and Y offset.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Surface is a reference CameraSource: the pan offset, zoom, and
// invalidation flags of an interactive canvas. Screen = (canvas + offset) * zoom.
type Surface struct {
	// OffsetX and OffsetY are the pan offset in canvas units.
	OffsetX, OffsetY float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// MinZoom and MaxZoom clamp ZoomAt.
	MinZoom, MaxZoom float64

	dirtyFG bool
	dirtyBG bool

	scrollTween *scrollAnim
}

// NewSurface creates a Surface at offset (0, 0), zoom 1, marked dirty.
func NewSurface() *Surface {
	return &Surface{
		Zoom:    1.0,
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
		dirtyFG: true,
		dirtyBG: true,
	}
}

// Offset returns the pan offset.
func (s *Surface) Offset() (x, y float64) {
	return s.OffsetX, s.OffsetY
}

// Scale returns the zoom factor.
func (s *Surface) Scale() float64 {
	return s.Zoom
}

// SetOffset sets the pan offset. It does not mark the surface dirty; callers
// pair it with SetDirty.
func (s *Surface) SetOffset(x, y float64) {
	s.OffsetX = x
	s.OffsetY = y
}

// SetDirty marks the foreground and/or background layer for redraw. Passing
// false leaves a flag as it was.
func (s *Surface) SetDirty(foreground, background bool) {
	s.dirtyFG = s.dirtyFG || foreground
	s.dirtyBG = s.dirtyBG || background
}

// Dirty reports the pending invalidation flags.
func (s *Surface) Dirty() (foreground, background bool) {
	return s.dirtyFG, s.dirtyBG
}

// ClearDirty resets both invalidation flags. Call after the surface redraws.
func (s *Surface) ClearDirty() {
	s.dirtyFG = false
	s.dirtyBG = false
}

func (s *Surface) zoomLimits() (lo, hi float64) {
	lo, hi = s.MinZoom, s.MaxZoom
	if lo <= 0 {
		lo = DefaultMinZoom
	}
	if hi <= 0 {
		hi = DefaultMaxZoom
	}
	return lo, hi
}

// ZoomAt sets the zoom, clamped to [MinZoom, MaxZoom], keeping the canvas
// point under the screen position (sx, sy) fixed.
func (s *Surface) ZoomAt(zoom, sx, sy float64) {
	lo, hi := s.zoomLimits()
	zoom = max(lo, min(zoom, hi))
	if zoom == s.Zoom || s.Zoom <= 0 {
		s.Zoom = zoom
		s.SetDirty(true, true)
		return
	}
	cx := sx/s.Zoom - s.OffsetX
	cy := sy/s.Zoom - s.OffsetY
	s.Zoom = zoom
	s.OffsetX = sx/zoom - cx
	s.OffsetY = sy/zoom - cy
	s.SetDirty(true, true)
}

// ZoomBy multiplies the zoom by factor around the screen position (sx, sy).
func (s *Surface) ZoomBy(factor, sx, sy float64) {
	s.ZoomAt(s.Zoom*factor, sx, sy)
}

// ScrollTo animates the offset to (x, y) over duration seconds.
// A non-positive duration jumps immediately.
func (s *Surface) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		s.scrollTween = nil
		s.SetOffset(x, y)
		s.SetDirty(true, true)
		return
	}
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	s.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(s.OffsetX), float32(x), duration, easeFn),
		tweenY: gween.New(float32(s.OffsetY), float32(y), duration, easeFn),
	}
}

// CenterOn scrolls so that the canvas point (cx, cy) ends up in the middle of
// a viewport of the given screen size at the current zoom.
func (s *Surface) CenterOn(cx, cy float64, viewport Vec2, duration float32, easeFn ease.TweenFunc) {
	z := s.Zoom
	if z <= 0 {
		z = 1
	}
	s.ScrollTo(viewport.X/(2*z)-cx, viewport.Y/(2*z)-cy, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (s *Surface) Scrolling() bool {
	return s.scrollTween != nil
}

// StopScroll abandons any ScrollTo animation, leaving the offset where it is.
func (s *Surface) StopScroll() {
	s.scrollTween = nil
}

// Update advances the scroll animation by dt seconds.
func (s *Surface) Update(dt float32) {
	if s.scrollTween == nil {
		return
	}
	if !s.scrollTween.doneX {
		val, done := s.scrollTween.tweenX.Update(dt)
		s.OffsetX = float64(val)
		s.scrollTween.doneX = done
	}
	if !s.scrollTween.doneY {
		val, done := s.scrollTween.tweenY.Update(dt)
		s.OffsetY = float64(val)
		s.scrollTween.doneY = done
	}
	if s.scrollTween.doneX && s.scrollTween.doneY {
		s.scrollTween = nil
	}
	s.SetDirty(true, true)
}
