// Package widgets provides small concrete widgets for rtk windows: labels,
// panels, spacers, and a draggable box. They double as working examples of
// the Widget, DragSource, DropTarget, Modal, and Focusable contracts.
//
// Frames are expressed in the parent's coordinate space; events arrive in
// window content coordinates and containers translate them for their
// children.
package widgets

import (
	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/rtk"
)

// Base carries the bookkeeping every widget needs: the realized frame, the
// laid-out flag, and the owning window captured at reflow.
type Base struct {
	frame   host.Rect
	laidOut bool
	win     *rtk.Window
}

// Frame returns the realized geometry in the parent's coordinates.
func (b *Base) Frame() host.Rect { return b.frame }

// LaidOut reports whether an initial layout has completed.
func (b *Base) LaidOut() bool { return b.laidOut }

// Window returns the owning window, nil before the first reflow.
func (b *Base) Window() *rtk.Window { return b.win }

func (b *Base) realize(ctx rtk.ReflowContext, r host.Rect) host.Rect {
	b.frame = r
	b.laidOut = true
	b.win = ctx.Window
	return r
}

// heldFrame returns the already-realized frame when a partial pass hands the
// widget its own frame as bounds. Re-deriving placement from parent offsets
// there would drift the frame by the offset each pass.
func (b *Base) heldFrame(ctx rtk.ReflowContext) (host.Rect, bool) {
	if !ctx.Full && b.laidOut {
		return b.frame, true
	}
	return host.Rect{}, false
}

// mouseEvent reports whether ev carries a position worth hit-testing.
func mouseEvent(ev *rtk.Event) bool {
	switch ev.Type {
	case rtk.EventMouseMove, rtk.EventMouseDown, rtk.EventMouseUp,
		rtk.EventWheel, rtk.EventDrop:
		return true
	}
	return false
}

// place resolves a requested box against the bounds a parent handed down.
// Non-positive width or height stretch to the remaining space.
func place(bounds host.Rect, x, y, w, h int) host.Rect {
	r := host.Rect{X: bounds.X + x, Y: bounds.Y + y, W: w, H: h}
	if r.W <= 0 {
		r.W = bounds.W - x
	}
	if r.H <= 0 {
		r.H = bounds.H - y
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}
