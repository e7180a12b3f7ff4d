package graphview

// MinimapCanvas is the drawing surface a MinimapRenderer paints into. All
// coordinates are minimap pixels.
type MinimapCanvas interface {
	Size() (width, height int)
	Clear(bg Color)
	FillRect(r Bounds, c Color)
	StrokeRect(r Bounds, width float64, c Color)
	StrokeLine(from, to Vec2, width float64, c Color)
}

// MinimapNode is one positioned item of the graph as seen by the minimap.
type MinimapNode struct {
	Bounds Bounds
	// Color overrides MinimapOptions.NodeColor when non-zero.
	Color Color
}

// GraphSource is the read-only node list a MinimapRenderer draws.
type GraphSource interface {
	NodeCount() int
	EachNode(fn func(n MinimapNode))
}

// LinkSource is optionally implemented by a GraphSource to expose
// connections, given as canvas-space endpoints.
type LinkSource interface {
	EachLink(fn func(from, to Vec2))
}

// MinimapDirty is a bitmask of minimap state that changed since the last
// render. Values can be combined with bitwise OR.
type MinimapDirty uint8

const (
	DirtyBounds      MinimapDirty = 1 << iota // graph extent changed
	DirtyNodes                                // a node moved, resized, or recolored
	DirtyConnections                          // links were added or removed
	DirtyViewport                             // the camera moved

	DirtyAll = DirtyBounds | DirtyNodes | DirtyConnections | DirtyViewport
)

// MinimapOptions controls minimap appearance.
type MinimapOptions struct {
	// Padding is the empty border, in minimap pixels, around the content.
	Padding float64
	// ShowLinks draws connections when the graph implements LinkSource.
	ShowLinks bool
	// LinkWidth is the stroke width of connections in minimap pixels.
	LinkWidth float64

	Background Color
	NodeColor  Color
	LinkColor  Color
}

// DefaultMinimapOptions returns the stock minimap palette.
func DefaultMinimapOptions() MinimapOptions {
	return MinimapOptions{
		Padding:    4,
		ShowLinks:  true,
		LinkWidth:  1,
		Background: Color{R: 0.08, G: 0.08, B: 0.1, A: 0.9},
		NodeColor:  Color{R: 0.6, G: 0.6, B: 0.65, A: 1},
		LinkColor:  Color{R: 0.4, G: 0.55, B: 0.8, A: 0.8},
	}
}

// MinimapStats counts what RenderMinimap did.
type MinimapStats struct {
	Renders   int // full content repaints
	FastPaths int // empty-graph clears
	Skipped   int // calls with nothing to redraw
}

// MinimapRenderer draws a scaled overview of a graph. Producers of changes
// set dirty flags with MarkDirty; the renderer repaints only when a flag is
// set, and clears a flag once it has consumed it.
//
// The camera's viewport rectangle is not painted into the canvas. The host
// draws ViewportRect as an overlay every frame, so panning alone never forces
// a content repaint.
type MinimapRenderer struct {
	canvas    MinimapCanvas
	graph     GraphSource
	transform *TransformState
	opts      MinimapOptions

	needsFullRedraw   bool
	needsBoundsUpdate bool
	dirty             MinimapDirty

	content  Bounds  // canvas-space extent of the graph
	scale    float64 // minimap pixels per canvas unit
	offX     float64
	offY     float64
	viewRect Bounds

	stats MinimapStats
}

// NewMinimapRenderer creates a renderer for graph. It draws nothing until a
// canvas is attached with SetCanvas.
func NewMinimapRenderer(graph GraphSource, transform *TransformState, opts MinimapOptions) *MinimapRenderer {
	if opts.LinkWidth <= 0 {
		opts.LinkWidth = 1
	}
	return &MinimapRenderer{
		graph:             graph,
		transform:         transform,
		opts:              opts,
		needsFullRedraw:   true,
		needsBoundsUpdate: true,
		scale:             1,
	}
}

// SetCanvas attaches (or, with nil, detaches) the drawing surface. Attaching
// a canvas forces a full redraw because its size may differ.
func (r *MinimapRenderer) SetCanvas(c MinimapCanvas) {
	r.canvas = c
	if c != nil {
		r.ForceFullRedraw()
		r.needsBoundsUpdate = true
	}
}

// Canvas returns the attached drawing surface, or nil.
func (r *MinimapRenderer) Canvas() MinimapCanvas {
	return r.canvas
}

// SetGraph replaces the graph and schedules a full redraw.
func (r *MinimapRenderer) SetGraph(g GraphSource) {
	r.graph = g
	r.ForceFullRedraw()
	r.needsBoundsUpdate = true
}

// NeedsFullRedraw reports whether the next render repaints unconditionally.
func (r *MinimapRenderer) NeedsFullRedraw() bool {
	return r.needsFullRedraw
}

// NeedsBoundsUpdate reports whether the graph extent must be recomputed.
func (r *MinimapRenderer) NeedsBoundsUpdate() bool {
	return r.needsBoundsUpdate
}

// Dirty returns the granular flags not yet consumed.
func (r *MinimapRenderer) Dirty() MinimapDirty {
	return r.dirty
}

// MarkDirty sets granular flags.
func (r *MinimapRenderer) MarkDirty(flags MinimapDirty) {
	r.dirty |= flags
}

// ForceFullRedraw sets every flag. Use after structural changes such as a bulk
// load or paste.
func (r *MinimapRenderer) ForceFullRedraw() {
	r.needsFullRedraw = true
	r.dirty = DirtyAll
}

// Stats returns render counters.
func (r *MinimapRenderer) Stats() MinimapStats {
	return r.stats
}

// RenderMinimap repaints the canvas if anything changed. Without a canvas it
// does nothing. An empty graph only clears the canvas to the background.
func (r *MinimapRenderer) RenderMinimap() {
	if r.canvas == nil || r.graph == nil {
		return
	}
	if r.graph.NodeCount() == 0 {
		r.canvas.Clear(r.opts.Background)
		r.needsFullRedraw = true
		r.stats.FastPaths++
		return
	}
	if !r.needsFullRedraw && r.dirty == 0 {
		r.stats.Skipped++
		return
	}
	if r.needsBoundsUpdate {
		r.UpdateBounds()
	}
	r.renderContent()
	r.needsFullRedraw = false
	r.dirty = 0
	r.stats.Renders++
}

// UpdateMinimap runs one minimap frame: it calls updateBounds when the graph
// extent is stale, always calls updateViewport, then renders. Either callback
// may be nil.
func (r *MinimapRenderer) UpdateMinimap(updateBounds, updateViewport func()) {
	if r.needsBoundsUpdate || r.dirty&DirtyBounds != 0 {
		if updateBounds != nil {
			updateBounds()
		}
		r.needsBoundsUpdate = false
		r.dirty &^= DirtyBounds
		// A new extent changes the scale of everything already drawn.
		r.needsFullRedraw = true
	}
	if updateViewport != nil {
		updateViewport()
	}
	r.dirty &^= DirtyViewport
	r.RenderMinimap()
}

// Update is UpdateMinimap with the built-in UpdateBounds and
// UpdateViewport(viewport).
func (r *MinimapRenderer) Update(viewport Vec2) {
	r.UpdateMinimap(r.UpdateBounds, func() { r.UpdateViewport(viewport) })
}

// UpdateBounds recomputes the graph extent and the canvas-to-minimap scale.
func (r *MinimapRenderer) UpdateBounds() {
	r.needsBoundsUpdate = false
	if r.graph == nil {
		return
	}
	first := true
	var content Bounds
	r.graph.EachNode(func(n MinimapNode) {
		if first {
			content = n.Bounds
			first = false
			return
		}
		content = content.Union(n.Bounds)
	})
	r.content = content

	if r.canvas == nil {
		r.scale, r.offX, r.offY = 1, 0, 0
		return
	}
	w, h := r.canvas.Size()
	availW := float64(w) - 2*r.opts.Padding
	availH := float64(h) - 2*r.opts.Padding
	cw := max(content.Width, 1)
	ch := max(content.Height, 1)
	r.scale = max(min(availW/cw, availH/ch), 0)
	r.offX = (float64(w) - content.Width*r.scale) / 2
	r.offY = (float64(h) - content.Height*r.scale) / 2
}

// UpdateViewport recomputes the camera's viewport rectangle in minimap
// pixels for a screen viewport of the given size.
func (r *MinimapRenderer) UpdateViewport(viewport Vec2) {
	if r.transform == nil {
		return
	}
	vb := r.transform.ViewportBounds(viewport, 0)
	tl := r.CanvasToMinimap(Vec2{X: vb.X, Y: vb.Y})
	r.viewRect = Bounds{X: tl.X, Y: tl.Y, Width: vb.Width * r.scale, Height: vb.Height * r.scale}
}

// ViewportRect returns the camera's view in minimap pixels as of the last
// UpdateViewport.
func (r *MinimapRenderer) ViewportRect() Bounds {
	return r.viewRect
}

// CanvasToMinimap converts a canvas-space point to minimap pixels.
func (r *MinimapRenderer) CanvasToMinimap(p Vec2) Vec2 {
	return Vec2{
		X: (p.X-r.content.X)*r.scale + r.offX,
		Y: (p.Y-r.content.Y)*r.scale + r.offY,
	}
}

// MinimapToCanvas converts minimap pixels to a canvas-space point, e.g. to
// center the camera where the minimap was clicked.
func (r *MinimapRenderer) MinimapToCanvas(p Vec2) Vec2 {
	s := r.scale
	if s == 0 {
		s = 1
	}
	return Vec2{
		X: (p.X-r.offX)/s + r.content.X,
		Y: (p.Y-r.offY)/s + r.content.Y,
	}
}

// renderContent paints the background, the links, then the nodes.
func (r *MinimapRenderer) renderContent() {
	c := r.canvas
	c.Clear(r.opts.Background)

	if r.opts.ShowLinks {
		if ls, ok := r.graph.(LinkSource); ok {
			ls.EachLink(func(from, to Vec2) {
				c.StrokeLine(r.CanvasToMinimap(from), r.CanvasToMinimap(to), r.opts.LinkWidth, r.opts.LinkColor)
			})
		}
	}

	r.graph.EachNode(func(n MinimapNode) {
		tl := r.CanvasToMinimap(Vec2{X: n.Bounds.X, Y: n.Bounds.Y})
		// Keep tiny nodes visible as at least one pixel.
		b := Bounds{
			X:      tl.X,
			Y:      tl.Y,
			Width:  max(n.Bounds.Width*r.scale, 1),
			Height: max(n.Bounds.Height*r.scale, 1),
		}
		col := n.Color
		if col == (Color{}) {
			col = r.opts.NodeColor
		}
		c.FillRect(b, col)
	})
}
