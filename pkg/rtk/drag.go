package rtk

import (
	"math"
	"time"

	"github.com/rtkui/rtk/pkg/host"
)

// dragCandidate is a widget that opted in for drag detection at mouse-down.
type dragCandidate struct {
	src     DragSource
	x, y    int
	when    time.Time
	buttons host.Buttons

	// recent marks a press inside the double-click window of the previous
	// release, which inflates the start threshold.
	recent  bool
	offered bool
}

// dragState is live between an accepted drag-start and the release of all
// originating buttons.
type dragState struct {
	source    DragSource
	target    DropTarget
	payload   any
	buttons   host.Buttons
	droppable bool
}

// AddDragCandidate registers src for drag detection. Widgets call this from
// their mouse-down handler with the event they received. Re-registering a
// pending source is a no-op, so resynthesized downs keep the original press
// anchor.
func (w *Window) AddDragCandidate(src DragSource, ev *Event) {
	for i := range w.dragCandidates {
		if w.dragCandidates[i].src == src {
			return
		}
	}
	w.dragCandidates = append(w.dragCandidates, dragCandidate{
		src:     src,
		x:       ev.X,
		y:       ev.Y,
		when:    ev.Time,
		buttons: w.syncedButtons & host.ButtonMask,
		recent:  !w.lastRelease.IsZero() && ev.Time.Sub(w.lastRelease) <= w.settings.Input.DoubleClickWindow,
	})
}

// Dragging returns the active drag source, or nil.
func (w *Window) Dragging() DragSource { return w.drag.source }

// dragThreshold is the displacement a candidate must exceed: superlinear in
// UI scale, and inflated after a recent release so double-clicks do not
// shear into accidental drags.
func (w *Window) dragThreshold(recent bool) float64 {
	t := w.settings.Input.DragThreshold * math.Pow(w.attr.scale, 1.5)
	if recent {
		t *= w.settings.Input.DragDoubleClickFactor
	}
	return t
}

// detectDrag runs on every non-simulated move while a button is held and no
// drag is active. Each candidate is offered a drag-start at most once; the
// set clears once all were offered or the event was handled.
func (w *Window) detectDrag(ev *Event) {
	if w.drag.source != nil || len(w.dragCandidates) == 0 ||
		w.syncedButtons&host.ButtonMask == 0 {
		return
	}
	for i := range w.dragCandidates {
		if ev.Handled {
			break
		}
		c := &w.dragCandidates[i]
		if c.offered {
			continue
		}
		if w.now.Sub(c.when) < w.settings.Input.TouchActivationDelay {
			continue
		}
		dx := float64(ev.X - c.x)
		dy := float64(ev.Y - c.y)
		if math.Hypot(dx, dy) <= w.dragThreshold(c.recent) {
			continue
		}
		c.offered = true
		payload, droppable, ok := c.src.DragStart(ev, c.x, c.y, c.when)
		if ok {
			w.beginDrag(c, payload, droppable, ev)
			break
		}
	}
	if ev.Handled || w.drag.source != nil || w.allCandidatesOffered() {
		w.dragCandidates = w.dragCandidates[:0]
	}
}

func (w *Window) allCandidatesOffered() bool {
	for i := range w.dragCandidates {
		if !w.dragCandidates[i].offered {
			return false
		}
	}
	return true
}

// beginDrag finalizes an accepted drag-start: deliver any withheld mouse
// down, set the drag state, and fire the initial drag-move.
func (w *Window) beginDrag(c *dragCandidate, payload any, droppable bool, ev *Event) {
	w.deliverDeferredDowns()
	w.drag = dragState{
		source:    c.src,
		payload:   payload,
		buttons:   c.buttons,
		droppable: droppable,
	}
	move := ev.Clone()
	move.Handled = false
	w.drag.source.DragMove(move, payload)
	if droppable {
		w.updateDropTarget(move)
	}
}

// deliverDeferredDowns releases every mouse-down withheld by the
// touch-activation delay.
func (w *Window) deliverDeferredDowns() {
	for i := range w.buttonRecs {
		rec := &w.buttonRecs[i]
		if rec.deferred == nil {
			continue
		}
		d := rec.deferred
		rec.deferred = nil
		rec.suppressed = false
		d.Time = w.now
		d.Simulated = true
		d.Handled = false
		w.countEvent(d)
		w.dispatchToTree(d)
	}
}

// updateDropTarget hit-tests the tree under the cursor during a droppable
// drag, firing enter/leave transitions.
func (w *Window) updateDropTarget(ev *Event) {
	var hit DropTarget
	for i := len(w.children) - 1; i >= 0; i-- {
		c := w.children[i]
		dt, ok := c.(DropTarget)
		if !ok || !c.LaidOut() || !c.Frame().Contains(ev.X, ev.Y) {
			continue
		}
		hit = dt
		break
	}
	if hit == w.drag.target {
		return
	}
	if w.drag.target != nil {
		w.drag.target.DropLeave(w.drag.source, w.drag.payload)
	}
	if hit != nil && !hit.DropEnter(w.drag.source, w.drag.payload, ev) {
		hit = nil
	}
	w.drag.target = hit
}

// endDrag fires drop delivery and drag-end, then a trailing simulated move
// so post-drag visual state can settle.
func (w *Window) endDrag(ev *Event) {
	d := w.drag
	w.drag = dragState{}
	if d.droppable && d.target != nil {
		d.target.Drop(d.source, d.payload, ev)
	}
	d.source.DragEnd(ev, d.payload, d.target)
	move := ev.Clone()
	move.Type = EventMouseMove
	move.Simulated = true
	move.Handled = false
	w.dispatchMouse(move)
}
