package demo

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/graphview"
	"github.com/phanxgames/graphview/internal/config"
	"github.com/phanxgames/graphview/internal/graphfile"
)

const (
	titleMinZoom = 0.6 // node titles are hidden below this zoom
)

var (
	canvasBG      = color.RGBA{0x1e, 0x1e, 0x24, 0xff}
	nodeFill      = graphview.Color{R: 0.23, G: 0.24, B: 0.28, A: 1}
	nodeBorder    = graphview.Color{R: 0.45, G: 0.46, B: 0.52, A: 1}
	selectBorder  = graphview.Color{R: 1, G: 0.8, B: 0.3, A: 1}
	linkColor     = graphview.Color{R: 0.4, G: 0.55, B: 0.8, A: 0.9}
	linkDragColor = graphview.Color{R: 1, G: 1, B: 1, A: 0.6}
)

// RunOptions configures Run.
type RunOptions struct {
	// Path is the graph file, watched for changes when Watch is set.
	Path  string
	Watch bool
	Title string
}

// Game is the ebiten.Game of the demo window.
type Game struct {
	editor  *Editor
	minimap *graphview.MinimapImage
	vpColor graphview.Color
	reloads chan *graphfile.Graph

	debug bool
	dt    time.Duration
}

// NewGame creates the window game for g.
func NewGame(cfg *config.Config, g *graphfile.Graph) *Game {
	gm := &Game{
		editor:  NewEditor(cfg, g),
		minimap: graphview.NewMinimapImage(cfg.Minimap.Width, cfg.Minimap.Height),
		vpColor: cfg.ViewportColor(),
		reloads: make(chan *graphfile.Graph, 1),
		dt:      time.Second / time.Duration(ebiten.TPS()),
	}
	gm.editor.SetMinimapCanvas(gm.minimap)
	gm.editor.FitToGraph(0)
	return gm
}

// Editor returns the viewport state behind the window.
func (g *Game) Editor() *Editor { return g.editor }

// Reload schedules g to replace the open graph on the next Update. It is
// safe to call from another goroutine; a pending reload is superseded.
func (g *Game) Reload(graph *graphfile.Graph) {
	select {
	case <-g.reloads:
	default:
	}
	g.reloads <- graph
}

// Update reads input and advances one tick.
func (g *Game) Update() error {
	select {
	case graph := <-g.reloads:
		g.editor.SetGraph(graph)
		logs.WithTag("nodes", graph.NodeCount()).Info("graph reloaded")
	default:
	}

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	link := ebiten.IsKeyPressed(ebiten.KeyShift)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.editor.PointerDown(x, y, ButtonLeft, link)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.editor.PointerDown(x, y, ButtonRight, false)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		g.editor.PointerDown(x, y, ButtonMiddle, false)
	}
	g.editor.PointerMove(x, y)
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) ||
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.editor.PointerUp(x, y)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.editor.Wheel(x, y, wy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.editor.FitToGraph(centerDuration)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
		g.editor.SetDebugMode(g.debug)
	}

	g.editor.Step(g.dt)
	return nil
}

// Draw renders the visible nodes, their links, and the minimap.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(canvasBG)

	e := g.editor
	t := e.Transform()
	z := t.Camera().Z
	graph := e.Graph()

	g.drawLinks(screen, graph, t, z)

	for _, i := range e.Visible() {
		n := &graph.Nodes[i]
		p := t.CanvasToScreen(graphview.Vec2{X: n.X, Y: n.Y})
		w, h := float32(n.Width*z), float32(n.Height*z)
		fill := n.FillColor()
		if fill == (graphview.Color{}) {
			fill = nodeFill
		}
		vector.DrawFilledRect(screen, float32(p.X), float32(p.Y), w, h, fill.ToRGBA(), true)
		border := nodeBorder
		if n.ID == e.Selected() {
			border = selectBorder
		}
		vector.StrokeRect(screen, float32(p.X), float32(p.Y), w, h, 1, border.ToRGBA(), true)
		if z >= titleMinZoom && n.Title != "" {
			ebitenutil.DebugPrintAt(screen, n.Title, int(p.X)+6, int(p.Y)+4)
		}
	}

	if from, to, ok := e.LinkPreview(); ok {
		a, b := t.CanvasToScreen(from), t.CanvasToScreen(to)
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, linkDragColor.ToRGBA(), true)
	}

	e.RenderMinimap()
	r := e.MinimapRect()
	g.minimap.DrawTo(screen, r.X, r.Y, e.Minimap().ViewportRect(), g.vpColor)

	if g.debug {
		st := e.Minimap().Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f\nvisible: %d / %d\n%s\nminimap renders: %d skipped: %d",
			ebiten.ActualFPS(), len(e.Visible()), graph.NodeCount(),
			e.Index().Stats(), st.Renders, st.Skipped))
	}
}

// drawLinks strokes every link with at least one endpoint in view.
func (g *Game) drawLinks(screen *ebiten.Image, graph *graphfile.Graph, t *graphview.TransformState, z float64) {
	vb := t.ViewportBounds(g.editor.viewport, 0)
	width := float32(max(1, 2*z))
	col := linkColor.ToRGBA()
	graph.EachLink(func(from, to graphview.Vec2) {
		if !vb.Contains(from.X, from.Y) && !vb.Contains(to.X, to.Y) {
			return
		}
		a, b := t.CanvasToScreen(from), t.CanvasToScreen(to)
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, col, true)
	})
}

// Layout tracks the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.editor.SetViewport(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run opens the demo window for graph and blocks until it is closed.
func Run(ctx context.Context, cfg *config.Config, graph *graphfile.Graph, opts RunOptions) error {
	game := NewGame(cfg, graph)
	defer game.minimap.Dispose()

	if opts.Watch && opts.Path != "" {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := graphfile.Watch(ctx, opts.Path, game.Reload); err != nil {
				logs.Warn(err)
			}
		}()
	}

	title := opts.Title
	if title == "" {
		title = "graphview"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cfg.Viewport.Width, cfg.Viewport.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		return errors.New("running demo window failed").Wrap(err)
	}
	return nil
}
