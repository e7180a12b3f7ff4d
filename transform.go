package graphview

// Culling constants used by IsNodeInViewport.
const (
	// DefaultCullMargin is the viewport margin, as a fraction of the viewport
	// size, inside which off-screen nodes are still considered visible.
	DefaultCullMargin = 0.2

	minScreenSize = 4.0 // pixels; smaller nodes are always culled

	lowZoom        = 0.1
	lowZoomFactor  = 5.0
	lowZoomMaxMarg = 2.0

	highZoom        = 3.0
	highZoomFactor  = 0.5
	highZoomMinMarg = 0.05
)

// Camera is the pan offset (X, Y, in canvas units) and zoom scale (Z) of a
// canvas. Screen = (canvas + offset) * Z.
type Camera struct {
	X, Y, Z float64
}

// TransformState mirrors a host camera into its own Camera value and converts
// between canvas and screen space. The host surface stays the source of truth;
// call SyncWithCanvas once per frame before using the conversions.
type TransformState struct {
	camera Camera
}

// NewTransformState returns a TransformState with the identity camera.
func NewTransformState() *TransformState {
	return &TransformState{camera: Camera{Z: 1}}
}

// Camera returns a copy of the mirrored camera.
func (t *TransformState) Camera() Camera {
	return t.camera
}

// Sync copies an external offset and scale. It reports whether the camera
// changed.
func (t *TransformState) Sync(x, y, scale float64) bool {
	next := Camera{X: x, Y: y, Z: scale}
	if next == t.camera {
		return false
	}
	t.camera = next
	return true
}

// SyncWithCanvas copies src's offset and scale. It reports whether the camera
// changed. Zero allocations.
func (t *TransformState) SyncWithCanvas(src CameraSource) bool {
	x, y := src.Offset()
	return t.Sync(x, y, src.Scale())
}

// scale returns the zoom, substituting 1 for a degenerate zero scale.
func (t *TransformState) scale() float64 {
	z := t.camera.Z
	if z > -1e-12 && z < 1e-12 {
		return 1
	}
	return z
}

// CanvasToScreen converts a canvas-space point to screen space.
func (t *TransformState) CanvasToScreen(p Vec2) Vec2 {
	z := t.scale()
	return Vec2{
		X: (p.X + t.camera.X) * z,
		Y: (p.Y + t.camera.Y) * z,
	}
}

// ScreenToCanvas converts a screen-space point to canvas space. It is the
// exact inverse of CanvasToScreen.
func (t *TransformState) ScreenToCanvas(p Vec2) Vec2 {
	z := t.scale()
	return Vec2{
		X: p.X/z - t.camera.X,
		Y: p.Y/z - t.camera.Y,
	}
}

// cullMargin adapts a viewport margin fraction to the zoom level so that the
// margin tracks perceptual rather than raw-pixel distance.
func (t *TransformState) cullMargin(margin float64) float64 {
	switch z := t.camera.Z; {
	case z < lowZoom:
		return min(margin*lowZoomFactor, lowZoomMaxMarg)
	case z > highZoom:
		return max(margin*highZoomFactor, highZoomMinMarg)
	}
	return margin
}

// IsNodeInViewport reports whether a node at canvas position pos with canvas
// size size should be rendered in a viewport of the given screen size.
//
// Nodes whose larger screen dimension is under 4 pixels are culled regardless
// of position. Otherwise the node is tested against the viewport expanded by
// margin (a fraction of the viewport size), widened at very low zoom and
// narrowed at high zoom.
func (t *TransformState) IsNodeInViewport(pos, size, viewport Vec2, margin float64) bool {
	z := t.scale()
	sw := size.X * z
	sh := size.Y * z
	if max(sw, sh) < minScreenSize {
		return false
	}

	m := t.cullMargin(margin)
	mx := viewport.X * m
	my := viewport.Y * m

	sp := t.CanvasToScreen(pos)
	return sp.X+sw >= -mx &&
		sp.X <= viewport.X+mx &&
		sp.Y+sh >= -my &&
		sp.Y <= viewport.Y+my
}

// ViewportBounds returns the canvas-space rectangle visible in a viewport of
// the given screen size, expanded by margin (a fraction of the viewport
// size). The result is suitable as a SpatialIndex range query.
func (t *TransformState) ViewportBounds(viewport Vec2, margin float64) Bounds {
	mx := viewport.X * margin
	my := viewport.Y * margin
	tl := t.ScreenToCanvas(Vec2{X: -mx, Y: -my})
	br := t.ScreenToCanvas(Vec2{X: viewport.X + mx, Y: viewport.Y + my})
	return Bounds{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// VisibleItems appends to dst the payload of every indexed item that should
// be rendered: a range query over ViewportBounds, filtered through
// IsNodeInViewport so that imperceptibly small items are dropped.
func VisibleItems[T any](idx *SpatialIndex[T], t *TransformState, viewport Vec2, margin float64, dst []T) []T {
	r := t.ViewportBounds(viewport, t.cullMargin(margin))
	idx.QueryFunc(r, func(_ string, b Bounds, payload T) bool {
		if t.IsNodeInViewport(Vec2{X: b.X, Y: b.Y}, Vec2{X: b.Width, Y: b.Height}, viewport, margin) {
			dst = append(dst, payload)
		}
		return true
	})
	return dst
}
