package graphview

import "time"

// AutoPan defaults.
const (
	// DefaultEdgeWidth is the width in screen pixels of the zone along each
	// viewport edge that triggers panning.
	DefaultEdgeWidth = 48.0
	// DefaultMaxPanSpeed is the pan speed in screen pixels per second with
	// the pointer on the viewport edge.
	DefaultMaxPanSpeed = 900.0

	// maxPanStep caps the elapsed time integrated by one tick so a delayed
	// frame (e.g. a backgrounded window) cannot jump the camera.
	maxPanStep = 100 * time.Millisecond
)

// ViewportProvider returns the on-screen pixel rectangle of the interactive
// surface. It is queried fresh on every pointer update because resizing or
// scrolling can move the surface between calls.
type ViewportProvider interface {
	ViewportRect() Bounds
}

// ViewportFunc adapts a function to ViewportProvider.
type ViewportFunc func() Bounds

// ViewportRect calls f.
func (f ViewportFunc) ViewportRect() Bounds { return f() }

// AutoPanConfig parameterizes an AutoPanController for one call site (node
// drag, link drag, minimap drag).
type AutoPanConfig struct {
	// EdgeWidth is the edge-zone width in screen pixels. Zero means DefaultEdgeWidth.
	EdgeWidth float64
	// MaxSpeed is the speed in screen pixels per second at the very edge.
	// Zero means DefaultMaxPanSpeed.
	MaxSpeed float64
	// Viewport supplies the surface rectangle. Required.
	Viewport ViewportProvider
	// Scheduler drives the per-frame tick. Required.
	Scheduler FrameScheduler
	// Camera, if set, has its offset advanced and is marked dirty each tick.
	Camera CameraSource
	// OnPan, if set, receives the canvas-space offset delta applied each tick.
	// It is not called on ticks with zero velocity.
	OnPan func(dx, dy float64)
}

// AutoPanController pans a camera while the pointer lingers near a viewport
// edge during a drag. The speed on each axis grows linearly from zero at the
// inner edge of the zone to MaxSpeed at the viewport edge.
//
// The controller is Idle until UpdatePointer sees a non-zero velocity; it
// then ticks every frame until Stop. A tick with the pointer back in the dead
// zone does nothing but keeps the loop alive so panning resumes as soon as the
// pointer re-enters an edge zone. At most one frame request is pending per
// controller at any time.
type AutoPanController struct {
	cfg AutoPanConfig

	active   bool
	vx, vy   float64
	pointerX float64
	pointerY float64
	lastTime time.Duration
	handle   FrameHandle

	tickFn FrameFunc
}

// NewAutoPanController returns an idle controller.
func NewAutoPanController(cfg AutoPanConfig) *AutoPanController {
	if cfg.EdgeWidth <= 0 {
		cfg.EdgeWidth = DefaultEdgeWidth
	}
	if cfg.MaxSpeed <= 0 {
		cfg.MaxSpeed = DefaultMaxPanSpeed
	}
	c := &AutoPanController{cfg: cfg}
	c.tickFn = c.tick
	return c
}

// Active reports whether the frame loop is running.
func (c *AutoPanController) Active() bool {
	return c.active
}

// Velocity returns the most recently computed velocity in screen pixels per
// second.
func (c *AutoPanController) Velocity() (vx, vy float64) {
	return c.vx, c.vy
}

// UpdatePointer records the pointer position in screen coordinates and starts
// the frame loop if the pointer is inside an edge zone.
func (c *AutoPanController) UpdatePointer(x, y float64) {
	c.pointerX = x
	c.pointerY = y
	c.vx, c.vy = c.velocity()
	if c.active || (c.vx == 0 && c.vy == 0) {
		return
	}
	c.active = true
	c.lastTime = c.cfg.Scheduler.Now()
	c.handle = c.cfg.Scheduler.RequestFrame(c.tickFn)
}

// Stop cancels the pending frame and zeroes the velocity. Calling Stop on an
// idle controller is a no-op.
func (c *AutoPanController) Stop() {
	if c.handle != 0 {
		c.cfg.Scheduler.CancelFrame(c.handle)
		c.handle = 0
	}
	c.active = false
	c.vx, c.vy = 0, 0
}

func (c *AutoPanController) tick(now time.Duration) {
	c.handle = 0
	if !c.active {
		return
	}

	dt := now - c.lastTime
	if dt < 0 {
		dt = 0
	} else if dt > maxPanStep {
		dt = maxPanStep
	}
	c.lastTime = now

	c.vx, c.vy = c.velocity()
	if c.vx != 0 || c.vy != 0 {
		scale := 1.0
		if c.cfg.Camera != nil {
			if z := c.cfg.Camera.Scale(); z > 0 {
				scale = z
			}
		}
		secs := dt.Seconds()
		dx := c.vx * secs / scale
		dy := c.vy * secs / scale
		if c.cfg.Camera != nil {
			ox, oy := c.cfg.Camera.Offset()
			c.cfg.Camera.SetOffset(ox+dx, oy+dy)
			c.cfg.Camera.SetDirty(true, true)
		}
		if c.cfg.OnPan != nil {
			c.cfg.OnPan(dx, dy)
		}
	}

	// OnPan may have called Stop.
	if c.active && c.handle == 0 {
		c.handle = c.cfg.Scheduler.RequestFrame(c.tickFn)
	}
}

// velocity computes the edge velocity for the last pointer position against
// a freshly queried viewport rectangle.
func (c *AutoPanController) velocity() (vx, vy float64) {
	r := c.cfg.Viewport.ViewportRect()
	return edgeVelocity(c.pointerX, c.pointerY, r, c.cfg.EdgeWidth, c.cfg.MaxSpeed)
}

// edgeVelocity returns the per-axis pan velocity for a pointer at (x, y).
// Near the left/top edge the velocity is positive (the offset grows and the
// content moves right/down); near the right/bottom edge it is negative.
func edgeVelocity(x, y float64, r Bounds, edgeWidth, maxSpeed float64) (vx, vy float64) {
	if left := edgeSpeed(x-r.X, edgeWidth, maxSpeed); left > 0 {
		vx = left
	} else if right := edgeSpeed(r.Right()-x, edgeWidth, maxSpeed); right > 0 {
		vx = -right
	}
	if top := edgeSpeed(y-r.Y, edgeWidth, maxSpeed); top > 0 {
		vy = top
	} else if bottom := edgeSpeed(r.Bottom()-y, edgeWidth, maxSpeed); bottom > 0 {
		vy = -bottom
	}
	return vx, vy
}

// edgeSpeed maps a distance from an edge to a speed: maxSpeed at distance 0,
// falling linearly to 0 at edgeWidth and beyond. Negative distances (pointer
// outside the viewport) pan at full speed.
func edgeSpeed(distance, edgeWidth, maxSpeed float64) float64 {
	if distance >= edgeWidth {
		return 0
	}
	distance = max(distance, 0)
	return (edgeWidth - distance) / edgeWidth * maxSpeed
}
