package rtk

import (
	"time"

	"github.com/rtkui/rtk/pkg/host"
)

// Widget is the surface the window drives: layout, drawing and event
// dispatch. Containers lay out and forward to their own children; the window
// only sees its top-level children.
type Widget interface {
	// Frame returns the realized geometry in content coordinates.
	Frame() host.Rect

	// LaidOut reports whether the widget has completed an initial full
	// layout. Partial reflow is only legal for laid-out widgets.
	LaidOut() bool

	// Reflow computes layout within ctx.Bounds and returns the realized
	// frame.
	Reflow(ctx ReflowContext) host.Rect

	// Draw paints through a painter translated and clipped to the widget's
	// frame.
	Draw(p *Painter)

	// HandleEvent offers an input event. Handlers mark ev.Handled to stop
	// propagation and test containment themselves.
	HandleEvent(ev *Event)
}

// ReflowContext carries one layout pass.
type ReflowContext struct {
	// Bounds is the box available to the widget: the window content box on
	// a full pass, the widget's own frame on a partial one.
	Bounds host.Rect

	// Scale is the window UI scale.
	Scale float64

	// Full reports whether this pass is rooted at the window.
	Full bool

	Window *Window
}

// DragSource is a widget that can originate a drag. It registers as a
// candidate from its mouse-down handler via Window.AddDragCandidate; the
// window offers DragStart once displacement exceeds the scale-derived
// threshold.
type DragSource interface {
	Widget

	// DragStart is offered with the original press position and time.
	// Returning ok begins the drag with the payload; a decline may still
	// mark ev handled to stop other candidates being offered this tick.
	DragStart(ev *Event, pressX, pressY int, pressed time.Time) (payload any, droppable, ok bool)

	// DragMove fires for every mouse move while this source's drag is
	// active, including simulated ones driving edge auto-scroll.
	DragMove(ev *Event, payload any)

	// DragEnd fires when all originating buttons are released. target is
	// the drop target that accepted the payload, or nil.
	DragEnd(ev *Event, payload any, target DropTarget)
}

// DropTarget receives droppable drag payloads.
type DropTarget interface {
	Widget

	// DropEnter is offered when a droppable drag moves over the widget.
	// Returning false declines the payload.
	DropEnter(src DragSource, payload any, ev *Event) bool

	// DropLeave fires when the drag moves off after an accepted DropEnter.
	DropLeave(src DragSource, payload any)

	// Drop delivers the payload on release over the widget.
	Drop(src DragSource, payload any, ev *Event) bool
}

// Modal is a widget capturing input such that an unhandled activation
// outside it should dismiss it.
type Modal interface {
	Widget

	// ReleaseModal asks the widget to dismiss. The widget unregisters
	// itself via Window.PopModal when it complies.
	ReleaseModal(ev *Event)
}

// Focusable widgets are notified when widget focus moves to or from them.
type Focusable interface {
	Widget
	SetFocused(focused bool)
}
