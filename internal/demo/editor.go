// Package demo is an interactive node-graph viewport built on graphview and
// ebiten: pan, zoom, drag nodes and links with edge auto-pan, and navigate
// with the minimap.
package demo

import (
	"math"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/phanxgames/graphview"
	"github.com/phanxgames/graphview/internal/config"
	"github.com/phanxgames/graphview/internal/graphfile"
)

const (
	dragDeadZone   = 4.0 // pixels
	minimapMargin  = 12.0
	centerDuration = 0.25 // seconds
	wheelZoomStep  = 1.1
	compactEvery   = 120 // frames

	minimapEdgeWidth = 16.0 // pixels
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

type dragMode int

const (
	dragNone dragMode = iota
	dragPending
	dragNode
	dragLink
	dragPan
	dragMinimap
)

// pointerState tracks the single mouse pointer between press and release.
type pointerState struct {
	mode   dragMode
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	link   bool // the pending press starts a link rather than a move

	nodeID string
	grabX  float64 // canvas offset of the pointer inside the dragged node
	grabY  float64
}

// Editor holds the viewport state of one open graph. It is driven by
// PointerDown/PointerMove/PointerUp/Wheel and Step, so it runs without a
// window in tests.
type Editor struct {
	cfg *config.Config

	graph     *graphfile.Graph
	index     *graphview.SpatialIndex[int]
	surface   *graphview.Surface
	transform *graphview.TransformState
	loop      *graphview.FrameLoop
	minimap   *graphview.MinimapRenderer

	nodePan    *graphview.AutoPanController
	linkPan    *graphview.AutoPanController
	minimapPan *graphview.AutoPanController

	viewport graphview.Vec2
	pointer  pointerState
	selected string
	linkEnd  graphview.Vec2 // canvas position of a link being dragged

	visible []int
	hits    []int
	frames  int
	debug   bool
}

// NewEditor opens g with the given configuration.
func NewEditor(cfg *config.Config, g *graphfile.Graph) *Editor {
	e := &Editor{
		cfg:       cfg,
		surface:   graphview.NewSurface(),
		transform: graphview.NewTransformState(),
		loop:      graphview.NewFrameLoop(),
		viewport:  graphview.Vec2{X: float64(cfg.Viewport.Width), Y: float64(cfg.Viewport.Height)},
	}
	e.surface.MinZoom = cfg.Viewport.MinZoom
	e.surface.MaxZoom = cfg.Viewport.MaxZoom

	e.nodePan = e.newAutoPan(cfg.AutoPan.EdgeWidth, e.viewportRect, e.onDragPan)
	e.linkPan = e.newAutoPan(cfg.AutoPan.EdgeWidth, e.viewportRect, e.onDragPan)
	e.minimapPan = e.newAutoPan(minimapEdgeWidth, e.MinimapRect, e.onMinimapPan)
	e.minimap = graphview.NewMinimapRenderer(nil, e.transform, cfg.MinimapOptions())
	e.SetGraph(g)
	return e
}

// SetGraph replaces the open graph, e.g. after a hot reload. Any drag in
// progress is abandoned.
func (e *Editor) SetGraph(g *graphfile.Graph) {
	e.cancelDrag()
	e.graph = g
	idx, skipped := g.BuildIndex(g.IndexRegion(), e.cfg.IndexOptions())
	if skipped > 0 {
		logs.Warn(errors.New("nodes outside the index region").
			WithTag("skipped", skipped))
	}
	e.index = idx
	e.index.SetDebugMode(e.debug)
	if e.selected != "" && g.Node(e.selected) == nil {
		e.selected = ""
	}
	e.minimap.SetGraph(g)
}

// SetMinimapCanvas attaches the minimap drawing surface.
func (e *Editor) SetMinimapCanvas(c graphview.MinimapCanvas) {
	e.minimap.SetCanvas(c)
}

// SetViewport records the screen size.
func (e *Editor) SetViewport(w, h float64) {
	if w == e.viewport.X && h == e.viewport.Y {
		return
	}
	e.viewport = graphview.Vec2{X: w, Y: h}
	e.minimap.MarkDirty(graphview.DirtyViewport)
}

// newAutoPan returns an edge auto-pan controller for one kind of drag
// within the screen rectangle given by rect.
func (e *Editor) newAutoPan(edgeWidth float64, rect func() graphview.Bounds, onPan func()) *graphview.AutoPanController {
	return graphview.NewAutoPanController(graphview.AutoPanConfig{
		EdgeWidth: edgeWidth,
		MaxSpeed:  e.cfg.AutoPan.MaxSpeed,
		Viewport:  graphview.ViewportFunc(rect),
		Scheduler: e.loop,
		Camera:    e.surface,
		OnPan:     func(dx, dy float64) { onPan() },
	})
}

func (e *Editor) viewportRect() graphview.Bounds {
	return graphview.Bounds{Width: e.viewport.X, Height: e.viewport.Y}
}

// SetDebugMode toggles spatial index diagnostics.
func (e *Editor) SetDebugMode(enabled bool) {
	e.debug = enabled
	e.index.SetDebugMode(enabled)
}

// Graph returns the open graph.
func (e *Editor) Graph() *graphfile.Graph { return e.graph }

// Index returns the spatial index over the open graph.
func (e *Editor) Index() *graphview.SpatialIndex[int] { return e.index }

// Surface returns the camera.
func (e *Editor) Surface() *graphview.Surface { return e.surface }

// Transform returns the per-frame camera mirror.
func (e *Editor) Transform() *graphview.TransformState { return e.transform }

// Minimap returns the minimap renderer.
func (e *Editor) Minimap() *graphview.MinimapRenderer { return e.minimap }

// NodeAutoPan returns the edge auto-pan controller of node drags.
func (e *Editor) NodeAutoPan() *graphview.AutoPanController { return e.nodePan }

// LinkAutoPan returns the edge auto-pan controller of link drags.
func (e *Editor) LinkAutoPan() *graphview.AutoPanController { return e.linkPan }

// MinimapAutoPan returns the auto-pan controller of minimap drags, which
// keeps the camera moving while the pointer rests on a minimap edge.
func (e *Editor) MinimapAutoPan() *graphview.AutoPanController { return e.minimapPan }

// Selected returns the id of the selected node, or "".
func (e *Editor) Selected() string { return e.selected }

// Visible returns the node indices culled in by the last Step.
func (e *Editor) Visible() []int { return e.visible }

// LinkPreview reports the endpoints of a link being dragged.
func (e *Editor) LinkPreview() (from, to graphview.Vec2, ok bool) {
	if e.pointer.mode != dragLink {
		return graphview.Vec2{}, graphview.Vec2{}, false
	}
	n := e.graph.Node(e.pointer.nodeID)
	if n == nil {
		return graphview.Vec2{}, graphview.Vec2{}, false
	}
	return graphfile.OutputPort(n), e.linkEnd, true
}

// MinimapRect returns the screen rectangle of the minimap, anchored to the
// bottom-right corner of the viewport.
func (e *Editor) MinimapRect() graphview.Bounds {
	w := float64(e.cfg.Minimap.Width)
	h := float64(e.cfg.Minimap.Height)
	return graphview.Bounds{
		X:      e.viewport.X - w - minimapMargin,
		Y:      e.viewport.Y - h - minimapMargin,
		Width:  w,
		Height: h,
	}
}

// nodeAt returns the topmost node under the screen point, if any.
func (e *Editor) nodeAt(sx, sy float64) (int, bool) {
	p := e.transform.ScreenToCanvas(graphview.Vec2{X: sx, Y: sy})
	e.hits = e.index.HitTest(p, e.hits[:0])
	if len(e.hits) == 0 {
		return 0, false
	}
	// Later nodes are drawn on top.
	top := e.hits[0]
	for _, i := range e.hits[1:] {
		top = max(top, i)
	}
	return top, true
}

// PointerDown starts an interaction at screen position (x, y). With link
// set, a left press on a node starts a connection instead of a move.
func (e *Editor) PointerDown(x, y float64, button Button, link bool) {
	e.transform.SyncWithCanvas(e.surface)
	e.pointer = pointerState{startX: x, startY: y, lastX: x, lastY: y}

	if button != ButtonLeft {
		e.pointer.mode = dragPan
		return
	}
	if e.MinimapRect().Contains(x, y) {
		e.pointer.mode = dragMinimap
		e.centerOnMinimap(x, y, centerDuration)
		return
	}
	i, ok := e.nodeAt(x, y)
	if !ok {
		e.selected = ""
		e.pointer.mode = dragPan
		return
	}
	n := &e.graph.Nodes[i]
	p := e.transform.ScreenToCanvas(graphview.Vec2{X: x, Y: y})
	e.pointer.mode = dragPending
	e.pointer.link = link
	e.pointer.nodeID = n.ID
	e.pointer.grabX = p.X - n.X
	e.pointer.grabY = p.Y - n.Y
}

// PointerMove updates the active interaction.
func (e *Editor) PointerMove(x, y float64) {
	dx, dy := x-e.pointer.lastX, y-e.pointer.lastY
	e.pointer.lastX, e.pointer.lastY = x, y

	switch e.pointer.mode {
	case dragPending:
		if math.Hypot(x-e.pointer.startX, y-e.pointer.startY) < dragDeadZone {
			return
		}
		e.surface.StopScroll()
		if e.pointer.link {
			e.pointer.mode = dragLink
		} else {
			e.pointer.mode = dragNode
		}
		e.PointerMove(x, y)

	case dragNode:
		e.dragTo(x, y)
		e.nodePan.UpdatePointer(x, y)

	case dragLink:
		e.dragTo(x, y)
		e.linkPan.UpdatePointer(x, y)

	case dragPan:
		z := e.surface.Scale()
		ox, oy := e.surface.Offset()
		e.surface.StopScroll()
		e.surface.SetOffset(ox+dx/z, oy+dy/z)
		e.surface.SetDirty(true, true)

	case dragMinimap:
		e.centerOnMinimap(x, y, 0)
		e.minimapPan.UpdatePointer(x, y)
	}
}

// PointerUp finishes the active interaction.
func (e *Editor) PointerUp(x, y float64) {
	switch e.pointer.mode {
	case dragPending:
		e.selected = e.pointer.nodeID
	case dragNode:
		e.dragTo(x, y)
		e.minimap.MarkDirty(graphview.DirtyBounds | graphview.DirtyNodes)
	case dragLink:
		if i, ok := e.nodeAt(x, y); ok {
			to := e.graph.Nodes[i].ID
			if to != e.pointer.nodeID && e.graph.AddLink(e.pointer.nodeID, to) {
				e.minimap.MarkDirty(graphview.DirtyConnections)
			}
		}
	}
	e.cancelDrag()
}

func (e *Editor) cancelDrag() {
	e.nodePan.Stop()
	e.linkPan.Stop()
	e.minimapPan.Stop()
	e.pointer = pointerState{}
}

// dragTo moves the dragged node, or the loose end of a dragged link, under
// the screen point.
func (e *Editor) dragTo(x, y float64) {
	p := e.transform.ScreenToCanvas(graphview.Vec2{X: x, Y: y})
	if e.pointer.mode == dragLink {
		e.linkEnd = p
		return
	}
	n := e.graph.Node(e.pointer.nodeID)
	if n == nil {
		return
	}
	nx, ny := p.X-e.pointer.grabX, p.Y-e.pointer.grabY
	// A node dragged past the index region, typically while auto-panning,
	// would be rejected by the index once fully outside.
	if b := (graphview.Bounds{X: nx, Y: ny, Width: n.Width, Height: n.Height}); !e.index.Region().ContainsBounds(b) {
		e.growIndex(b)
	}
	if e.graph.MoveNode(e.index, n.ID, nx, ny) {
		e.minimap.MarkDirty(graphview.DirtyNodes)
	}
}

// growIndex rebuilds the spatial index over a region covering both the
// current region and b, with headroom so that a continuing drag does not
// rebuild on every frame.
func (e *Editor) growIndex(b graphview.Bounds) {
	region := e.index.Region().Union(b)
	pad := max(region.Width, region.Height) / 2
	region = region.Expand(pad, pad)

	idx, skipped := e.graph.BuildIndex(region, e.cfg.IndexOptions())
	e.index = idx
	e.index.SetDebugMode(e.debug)
	logs.WithTag("region", region).
		WithTag("skipped", skipped).
		Debug("spatial index region grown")
}

// onDragPan keeps the dragged item under the pointer while the camera moves.
func (e *Editor) onDragPan() {
	e.transform.SyncWithCanvas(e.surface)
	e.minimap.MarkDirty(graphview.DirtyViewport)
	e.dragTo(e.pointer.lastX, e.pointer.lastY)
}

// onMinimapPan follows the camera past the minimap edge. A centering tween
// started by the press would otherwise pull the camera back.
func (e *Editor) onMinimapPan() {
	e.surface.StopScroll()
	e.transform.SyncWithCanvas(e.surface)
	e.minimap.MarkDirty(graphview.DirtyViewport)
}

func (e *Editor) centerOnMinimap(x, y float64, duration float32) {
	r := e.MinimapRect()
	c := e.minimap.MinimapToCanvas(graphview.Vec2{X: x - r.X, Y: y - r.Y})
	e.surface.CenterOn(c.X, c.Y, e.viewport, duration, nil)
}

// Wheel zooms around the screen point (x, y); positive dy zooms in.
func (e *Editor) Wheel(x, y, dy float64) {
	if dy == 0 {
		return
	}
	e.surface.StopScroll()
	e.surface.ZoomBy(math.Pow(wheelZoomStep, dy), x, y)
}

// FitToGraph zooms and scrolls so that the whole graph is visible.
func (e *Editor) FitToGraph(duration float32) {
	ext := e.graph.Extent()
	if ext.Width <= 0 || ext.Height <= 0 {
		return
	}
	z := 0.9 * min(e.viewport.X/ext.Width, e.viewport.Y/ext.Height)
	e.surface.ZoomAt(z, 0, 0)
	c := ext.Center()
	e.surface.CenterOn(c.X, c.Y, e.viewport, duration, nil)
}

// Step advances one frame of dt: auto-pan ticks, scroll tweens, the camera
// mirror, culling, and periodic index maintenance.
func (e *Editor) Step(dt time.Duration) {
	e.loop.Advance(dt)
	e.surface.Update(float32(dt.Seconds()))
	if e.transform.SyncWithCanvas(e.surface) {
		e.minimap.MarkDirty(graphview.DirtyViewport)
	}
	e.visible = graphview.VisibleItems(e.index, e.transform, e.viewport, e.cfg.Viewport.CullMargin, e.visible[:0])

	e.frames++
	if e.frames%compactEvery == 0 && e.cfg.Index.CompactRatio > 0 {
		if e.index.CompactIfSparse(e.cfg.Index.CompactRatio) {
			logs.WithTag("items", e.index.Len()).Debug("spatial index compacted")
		}
	}
}

// RenderMinimap refreshes the minimap canvas if anything changed.
func (e *Editor) RenderMinimap() {
	e.minimap.Update(e.viewport)
}
