package rtk

import (
	"math"
	"time"

	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/logging"
)

// buttonRecord tracks one held mouse button.
type buttonRecord struct {
	pressTime time.Time

	// down is a clone of the original down event, resynthesized while the
	// button stays held.
	down *Event

	// deferred is the down withheld while the touch-activation delay runs.
	deferred   *Event
	suppressed bool
}

// buttonOrder fixes transition detection priority.
var buttonOrder = [...]host.Buttons{host.ButtonLeft, host.ButtonRight, host.ButtonMiddle}

// gatherInput converts this tick's polled state into events, in the fixed
// stage order. Stages re-check running because any handler may close the
// window mid-dispatch.
func (w *Window) gatherInput(snap host.Snapshot) {
	w.syncFocus()
	if !w.running {
		return
	}
	w.synthWheel(snap)
	if !w.running {
		return
	}
	w.synthKey(snap)
	if !w.running {
		return
	}
	w.synthDrops(snap)
	if !w.running {
		return
	}
	w.synthMouse(snap)
}

// synthWheel emits one wheel event when the host reported any delta. Device
// wheel state was already cleared by Poll, so a delta is consumed exactly
// once.
func (w *Window) synthWheel(snap host.Snapshot) {
	if snap.WheelY == 0 && snap.WheelX == 0 {
		return
	}
	ev := w.newEvent(EventWheel, snap.MouseX, snap.MouseY, snap.Buttons)
	ev.WheelY = w.normalizeWheel(snap.WheelY)
	ev.WheelX = w.normalizeWheel(snap.WheelX)
	w.countEvent(ev)
	w.dispatchToTree(ev)
}

// normalizeWheel scales a raw device delta. Hosts with kinetic scrolling
// report deltas far too hot for direct use; square-root damping keeps the
// response sub-linear while preserving direction. The sign is inverted so
// positive values scroll content down.
func (w *Window) normalizeWheel(delta int) float64 {
	if delta == 0 {
		return 0
	}
	div := w.settings.Input.WheelDivisor
	if w.wheelDamped {
		v := math.Sqrt(math.Abs(float64(delta)) / div)
		if delta > 0 {
			return -v
		}
		return v
	}
	return -float64(delta) / div
}

// synthKey classifies the polled key code, runs pre observers, dispatches to
// the focused widget then the tree, runs post observers, and applies default
// handling when nothing claimed the event.
func (w *Window) synthKey(snap host.Snapshot) {
	if snap.Key == host.KeyNone {
		return
	}
	ev := w.newEvent(EventKey, snap.MouseX, snap.MouseY, snap.Buttons)
	ev.Key, ev.Ch = classifyKey(snap.Key)
	if isCtrlChar(snap.Key) {
		ev.Mods |= host.ModCtrl
	}
	w.countEvent(ev)
	for _, s := range w.obs.keyPre {
		s.fn(ev)
	}
	if !ev.Handled {
		if w.focusWidget != nil {
			w.focusWidget.HandleEvent(ev)
		}
		if !ev.Handled {
			w.dispatchToTree(ev)
		}
	}
	for _, s := range w.obs.keyPost {
		s.fn(ev)
	}
	if ev.Handled {
		return
	}
	switch ev.Key {
	case host.KeyEscape:
		if !w.attr.docked {
			w.Close()
		}
	case host.KeyF12:
		if w.log.Enabled(logging.LevelDebug) {
			w.ToggleOverlay()
		}
	}
}

// classifyKey folds a raw host code into a key plus its printable character.
// Control characters 1-26 map to lowercase letters; the two vendor ranges
// fold to printable ASCII by their fixed offsets.
func classifyKey(code host.Key) (host.Key, rune) {
	switch code {
	case host.KeyBackspace, host.KeyTab, host.KeyEnter, host.KeyEscape:
		return code, 0
	}
	switch {
	case code >= 1 && code <= 26:
		return code, rune('a' + code - 1)
	case code >= 32 && code <= 126:
		return code, rune(code)
	case code >= host.VendorABase+33 && code <= host.VendorABase+126:
		return code, rune(code - host.VendorABase)
	case code >= host.VendorBBase+33 && code <= host.VendorBBase+126:
		return code, rune(code - host.VendorBBase)
	}
	return code, 0
}

// isCtrlChar reports whether code is a control character that should carry
// the ctrl modifier, excluding the reserved named keys inside that range.
func isCtrlChar(code host.Key) bool {
	switch code {
	case host.KeyBackspace, host.KeyTab, host.KeyEnter:
		return false
	}
	return code >= 1 && code <= 26
}

// synthDrops dispatches one drop event carrying every path drained this
// tick, at the current mouse position.
func (w *Window) synthDrops(snap host.Snapshot) {
	if len(snap.Files) == 0 {
		return
	}
	ev := w.newEvent(EventDrop, snap.MouseX, snap.MouseY, snap.Buttons)
	ev.Files = snap.Files
	w.countEvent(ev)
	w.dispatchToTree(ev)
}

// synthMouse decides between emitting a move event and resynthesizing the
// latest held mouse-down for long-press handling.
func (w *Window) synthMouse(snap host.Snapshot) {
	cur := snap.Buttons & host.ButtonMask
	buttonsChanged := cur != w.syncedButtons
	anyDown := w.syncedButtons != 0
	posChanged := snap.MouseX != w.mouseX || snap.MouseY != w.mouseY
	inWindow := w.pointInWindow(snap.MouseX, snap.MouseY)

	if posChanged {
		w.lastMouseMove = w.now
	}

	moveDue := w.redrawQueued || w.mouseRefresh ||
		(posChanged && inWindow) ||
		inWindow != w.inWindow ||
		(w.drag.source != nil && anyDown)

	switch {
	case moveDue:
		ev := w.newEvent(EventMouseMove, snap.MouseX, snap.MouseY, snap.Buttons)
		ev.Simulated = !posChanged
		w.dispatchMouse(ev)
	case anyDown && !buttonsChanged:
		w.resynthesizeDown(snap)
	}

	w.mouseRefresh = false
	w.mouseX, w.mouseY = snap.MouseX, snap.MouseY
	w.inWindow = inWindow
}

// pointInWindow tests canvas bounds, refined to an occlusion test when the
// native capability can resolve the window under the cursor. A plain bounds
// check cannot see another OS window drawn on top.
func (w *Window) pointInWindow(x, y int) bool {
	if x < 0 || y < 0 || x >= w.attr.w || y >= w.attr.h {
		return false
	}
	if !w.handleValid || !w.native.Available() {
		return true
	}
	sx, sy, ok := w.native.ClientToScreen(w.handle, x, y)
	if !ok {
		return true
	}
	top, ok := w.native.WindowFromPoint(sx, sy)
	if !ok {
		return true
	}
	return top == w.handle
}

// resynthesizeDown re-sends the latest held mouse-down as a simulated event
// to drive long-press and deferred-activation semantics, capped so an idle
// hold eventually goes quiet.
func (w *Window) resynthesizeDown(snap host.Snapshot) {
	if w.latest < 0 {
		return
	}
	rec := &w.buttonRecs[w.latest]
	if rec.down == nil {
		return
	}
	in := w.settings.Input
	limit := in.LongPressDelay + in.TouchActivationDelay + 2*w.settings.Frame.TickInterval
	held := w.now.Sub(rec.pressTime)
	if held > limit {
		return
	}
	if rec.deferred != nil && held >= in.TouchActivationDelay {
		// The activation delay elapsed; the withheld down becomes the
		// logical press.
		d := rec.deferred
		rec.deferred = nil
		rec.suppressed = false
		d.Time = w.now
		d.Simulated = true
		d.Handled = false
		w.countEvent(d)
		w.dispatchToTree(d)
		w.postDispatch(d)
		return
	}
	ev := rec.down.Clone()
	ev.X, ev.Y = snap.MouseX, snap.MouseY
	ev.Time = w.now
	ev.Simulated = true
	ev.Handled = false
	ev.suppressed = rec.suppressed && held < in.TouchActivationDelay
	w.dispatchMouse(ev)
}

// dispatchMouse routes a move/down/up event: drag machinery first, tree
// propagation, then modal and focus resolution. Suppressed events run
// bookkeeping only.
func (w *Window) dispatchMouse(ev *Event) {
	w.countEvent(ev)
	if ev.Type == EventMouseMove && w.drag.source != nil {
		w.drag.source.DragMove(ev, w.drag.payload)
		if w.drag.droppable {
			w.updateDropTarget(ev)
		}
	}
	if !ev.suppressed {
		w.dispatchToTree(ev)
		w.postDispatch(ev)
	}
	if ev.Type == EventMouseMove && !ev.Simulated {
		w.detectDrag(ev)
	}
}

// dispatchButtons detects at most one button transition per tick, toggling
// exactly that bit in the synced mask so near-simultaneous transitions each
// surface on their own tick.
func (w *Window) dispatchButtons(snap host.Snapshot) {
	cur := snap.Buttons & host.ButtonMask
	if cur == w.syncedButtons {
		return
	}
	for i, b := range buttonOrder {
		if cur&b == w.syncedButtons&b {
			continue
		}
		w.syncedButtons ^= b
		if cur&b != 0 {
			w.emitDown(i, b, snap)
		} else {
			w.emitUp(i, b, snap)
		}
		return
	}
	// A mask change with no matching transition is a toolkit bug; dispatch
	// nothing and keep the tick going.
	w.log.Warn(logging.CategoryInput, "unmatched_buttons",
		"button mask changed without a matching transition", map[string]any{
			"synced":  int(w.syncedButtons),
			"current": int(cur),
		})
}

func (w *Window) emitDown(i int, b host.Buttons, snap host.Snapshot) {
	ev := w.newEvent(EventMouseDown, snap.MouseX, snap.MouseY, snap.Buttons)
	ev.Button = b
	rec := &w.buttonRecs[i]
	*rec = buttonRecord{pressTime: w.now, down: ev.Clone()}
	w.pressOrder = append(w.pressOrder, i)
	w.latest = i
	if w.settings.Input.TouchActivationDelay > 0 && len(w.touchScroll) > 0 {
		// Withhold the logical press until the activation delay elapses.
		rec.suppressed = true
		rec.deferred = ev.Clone()
		ev.suppressed = true
	}
	w.dispatchMouse(ev)
}

func (w *Window) emitUp(i int, b host.Buttons, snap host.Snapshot) {
	ev := w.newEvent(EventMouseUp, snap.MouseX, snap.MouseY, snap.Buttons)
	ev.Button = b
	if d := w.buttonRecs[i].deferred; d != nil {
		// A tap released inside the activation delay still clicks: the
		// withheld down becomes the logical press just before the up.
		d.Time = w.now
		d.Simulated = true
		d.Handled = false
		w.countEvent(d)
		w.dispatchToTree(d)
		w.postDispatch(d)
	}
	w.buttonRecs[i] = buttonRecord{}
	for j := len(w.pressOrder) - 1; j >= 0; j-- {
		if w.pressOrder[j] == i {
			w.pressOrder = append(w.pressOrder[:j], w.pressOrder[j+1:]...)
			break
		}
	}
	w.latest = -1
	if n := len(w.pressOrder); n > 0 {
		w.latest = w.pressOrder[n-1]
	}
	w.lastRelease = w.now
	// A candidate whose originating buttons are all up can no longer start
	// a drag.
	if len(w.dragCandidates) > 0 {
		kept := w.dragCandidates[:0]
		for _, c := range w.dragCandidates {
			if c.buttons&w.syncedButtons != 0 {
				kept = append(kept, c)
			}
		}
		w.dragCandidates = kept
	}
	w.dispatchMouse(ev)
	if w.drag.source != nil && w.syncedButtons&w.drag.buttons == 0 {
		w.endDrag(ev)
	}
}

// postDispatch applies modal dismissal and focus stealing after a mouse
// event has fully propagated.
func (w *Window) postDispatch(ev *Event) {
	switch ev.Type {
	case EventMouseMove, EventMouseDown, EventMouseUp:
	default:
		return
	}
	if ev.Handled {
		return
	}
	// While touch-scrolling the activation event is the release, since a
	// press may be the start of a scroll rather than a click.
	activation := EventMouseDown
	if len(w.touchScroll) > 0 {
		activation = EventMouseUp
	}
	if w.focusLost || ev.Type == activation {
		for _, m := range w.modals {
			m.ReleaseModal(ev)
		}
	}
	if ev.Type == activation && w.focusWidget != nil {
		w.Blur()
	}
}

// syncFocus tracks window focus through the native capability, firing
// focus/blur observers and saving the focused widget across a loss.
func (w *Window) syncFocus() {
	w.focusLost = false
	w.focusGained = false
	if !w.native.Available() || !w.handleValid {
		return
	}
	fh, ok := w.native.Focused()
	focused := ok && fh == w.handle
	if focused == w.winFocused {
		return
	}
	w.winFocused = focused
	if focused {
		w.focusGained = true
		if w.savedFocus != nil {
			w.FocusWidget(w.savedFocus)
			w.savedFocus = nil
		}
		for _, s := range w.obs.focus {
			s.fn()
		}
	} else {
		w.focusLost = true
		if w.focusWidget != nil {
			w.savedFocus = w.focusWidget
			w.Blur()
		}
		for _, s := range w.obs.blur {
			s.fn()
		}
	}
}

// newEvent builds an event at the given position with the tick timestamp.
func (w *Window) newEvent(t EventType, x, y int, raw host.Buttons) *Event {
	return &Event{
		Type: t,
		X:    x,
		Y:    y,
		Held: w.syncedButtons,
		Mods: raw & host.ModMask,
		Time: w.now,
	}
}

func (w *Window) countEvent(ev *Event) {
	if c := w.eventCounters[ev.Type]; c != nil {
		c.Inc()
	}
}

// dispatchToTree offers ev to top-level children in reverse add order, so
// later-added widgets sit on top. Widgets test containment themselves and
// forward to their own children.
func (w *Window) dispatchToTree(ev *Event) {
	for i := len(w.children) - 1; i >= 0; i-- {
		if ev.Handled {
			return
		}
		c := w.children[i]
		if !c.LaidOut() {
			continue
		}
		if ev.Type == EventKey && c == w.focusWidget {
			continue // already offered first
		}
		c.HandleEvent(ev)
	}
}
