package graphview

import "time"

// FrameFunc is an animation-frame callback. now is the frame timestamp.
type FrameFunc func(now time.Duration)

// FrameHandle identifies a pending frame request. The zero handle is never
// issued and means "nothing scheduled".
type FrameHandle uint64

// FrameScheduler runs callbacks on the next animation frame, in the manner of
// a browser's requestAnimationFrame.
type FrameScheduler interface {
	// Now returns the current frame clock.
	Now() time.Duration
	// RequestFrame schedules fn to run once on the next frame.
	RequestFrame(fn FrameFunc) FrameHandle
	// CancelFrame drops a pending request. Unknown or already-run handles are
	// ignored.
	CancelFrame(h FrameHandle)
}

type frameRequest struct {
	handle FrameHandle
	fn     FrameFunc
}

// FrameLoop is a cooperative FrameScheduler driven by the host game loop:
// call Advance (or RunFrame) exactly once per rendered frame. Callbacks
// requested while a frame runs are deferred to the following frame.
type FrameLoop struct {
	now     time.Duration
	next    FrameHandle
	pending []frameRequest
	running []frameRequest
}

// NewFrameLoop returns a FrameLoop whose clock starts at zero.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// Now returns the timestamp of the most recent frame.
func (l *FrameLoop) Now() time.Duration {
	return l.now
}

// RequestFrame schedules fn for the next frame.
func (l *FrameLoop) RequestFrame(fn FrameFunc) FrameHandle {
	l.next++
	l.pending = append(l.pending, frameRequest{handle: l.next, fn: fn})
	return l.next
}

// CancelFrame drops the request identified by h, including one queued for
// the frame currently running.
func (l *FrameLoop) CancelFrame(h FrameHandle) {
	if h == 0 {
		return
	}
	for i := range l.pending {
		if l.pending[i].handle == h {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
	for i := range l.running {
		if l.running[i].handle == h {
			l.running[i].fn = nil
			return
		}
	}
}

// Pending returns the number of callbacks waiting for the next frame.
func (l *FrameLoop) Pending() int {
	return len(l.pending)
}

// Advance moves the clock forward by dt and runs one frame.
func (l *FrameLoop) Advance(dt time.Duration) {
	l.RunFrame(l.now + dt)
}

// RunFrame sets the clock to now and runs every callback that was pending
// when it was called.
func (l *FrameLoop) RunFrame(now time.Duration) {
	l.now = now
	l.running, l.pending = l.pending, l.running[:0]
	for i := range l.running {
		if fn := l.running[i].fn; fn != nil {
			l.running[i].fn = nil
			fn(now)
		}
	}
	l.running = l.running[:0]
}
