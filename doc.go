// Package graphview is the viewport and spatial-indexing engine behind a
// node-graph editor: it keeps thousands of positioned node rectangles
// renderable and interactive at 60 frames per second.
//
// The engine has four parts, each usable on its own:
//
//   - [SpatialIndex], a region quad-tree for hit testing and culling.
//   - [TransformState], which mirrors the host's camera each frame and converts
//     between canvas and screen space.
//   - [AutoPanController], the edge-proximity panning shared by every drag
//     interaction.
//   - [MinimapRenderer], an overview that repaints only when dirty flags say
//     something changed.
//
// # Frame loop
//
// Everything is single-threaded and frame-driven. A typical host frame, for
// example inside an [ebiten.Game] Update/Draw pair:
//
//	loop.Advance(time.Second / 60)      // runs AutoPanController ticks
//	surface.Update(1.0 / 60)            // advances CenterOn/ScrollTo tweens
//	if transform.SyncWithCanvas(surface) {
//		minimap.MarkDirty(graphview.DirtyViewport)
//	}
//	visible = graphview.VisibleItems(index, transform, screen, graphview.DefaultCullMargin, visible[:0])
//	minimap.Update(screen)
//
// # Coordinates
//
// Canvas space is the graph's own coordinate system. Screen space is pixels
// in the visible viewport:
//
//	screen = (canvas + offset) * scale
//	canvas = screen / scale - offset
//
// # Drawing surfaces
//
// [MinimapImage] implements [MinimapCanvas] on an [ebiten.Image]. Any other
// raster backend can implement the five-method interface.
//
// [ebiten.Game]: https://pkg.go.dev/github.com/hajimehoshi/ebiten/v2#Game
// [ebiten.Image]: https://pkg.go.dev/github.com/hajimehoshi/ebiten/v2#Image
package graphview
