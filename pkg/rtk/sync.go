package rtk

import (
	"time"

	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/logging"
	"github.com/rtkui/rtk/pkg/native"
)

// dockConfirmTimeout bounds how long a pushed dock request may sit
// unconfirmed before the pending state ages out. A surface with no docker
// never reports the transition, and the push must not gate attribute sync
// forever.
const dockConfirmTimeout = time.Second

// syncAttrs pushes dirty attributes to the OS window. Attribute writes only
// mark state dirty, so any number of writes coalesce into one push per tick.
//
// A dock change is issued alone and the rest of the push deferred: geometry
// depends on the post-transition canvas, which is stale until the follow-up
// pull lands.
func (w *Window) syncAttrs() {
	if w.pendingDock || !w.attrsDirty {
		return
	}
	w.attrsDirty = false

	target := host.MakeDock(w.attr.docker, w.attr.docked)
	if target != w.lastDock {
		w.surface.SetDock(target)
		w.pendingDock = true
		w.dockDeadline = w.now.Add(dockConfirmTimeout)
		w.log.Debug(logging.CategoryNative, "dock_push", "dock transition requested", map[string]any{
			"docked": target.Docked(),
			"docker": target.Docker(),
		})
		return
	}
	if w.attr.docked {
		// The docker owns geometry and compositing; strip any layering
		// flag so opacity set while floating cannot leak onto the host.
		if w.handleValid {
			w.native.ClearLayered(w.handle)
		}
		return
	}
	if !w.native.Available() {
		return
	}
	if !w.handleValid && !w.resolveHandle() {
		w.attrsDirty = true // retry next tick
		return
	}
	if !w.attr.visible {
		if !w.hidden {
			w.native.Hide(w.handle)
			w.hidden = true
		}
		return
	}
	if w.hidden {
		w.native.Show(w.handle)
		w.hidden = false
	}
	if w.attr.borderless != w.pushedBorderless || w.attr.pinned != w.pushedPinned {
		w.native.SetStyle(w.handle, w.attr.borderless, w.attr.pinned)
		w.pushedBorderless, w.pushedPinned = w.attr.borderless, w.attr.pinned
		// A style change moves the chrome, so the cached frame deltas are
		// stale until remeasured.
		w.adoptHandle(w.handle)
	}
	w.pushGeometry()
	if w.attr.opacity < 1 {
		w.native.SetOpacity(w.handle, w.attr.opacity)
	} else {
		w.native.ClearLayered(w.handle)
	}
	w.native.SetTitle(w.handle, w.attr.title)
}

// pushGeometry applies position and size when they differ from the last
// pushed values, firing move/resize observers with the prior values.
func (w *Window) pushGeometry() {
	moved := w.attr.x != w.pushedX || w.attr.y != w.pushedY
	resized := w.attr.w != w.pushedW || w.attr.h != w.pushedH
	if !moved && !resized {
		return
	}
	nc := w.toNativeRect(native.Rect{X: w.attr.x, Y: w.attr.y, W: w.attr.w, H: w.attr.h})
	outer := native.Rect{
		X: nc.X + w.frameDX,
		Y: nc.Y + w.frameDY,
		W: nc.W + w.frameW,
		H: nc.H + w.frameH,
	}
	if w.attr.w > w.pushedW || w.attr.h > w.pushedH {
		// Growing exposes pixels the backing store has not drawn yet;
		// fill them so the OS does not flash garbage until the blit.
		w.native.FillRect(w.handle, outer, 0xFF000000)
	}
	w.native.SetPosition(w.handle, outer)
	w.lastOuter, w.lastOuterOK = outer, true

	px, py := w.pushedX, w.pushedY
	pw, ph := w.pushedW, w.pushedH
	w.pushedX, w.pushedY = w.attr.x, w.attr.y
	w.pushedW, w.pushedH = w.attr.w, w.attr.h
	if moved {
		for _, s := range w.obs.move {
			s.fn(px, py)
		}
	}
	if resized {
		for _, s := range w.obs.resize {
			s.fn(pw, ph)
		}
	}
}

// syncDock pulls externally caused changes out of this tick's snapshot:
// dock transitions, canvas resizes, and drag-moves of the OS window.
func (w *Window) syncDock(snap host.Snapshot) {
	if snap.Dock != w.lastDock {
		w.applyDockTransition(snap)
		if !w.running {
			return
		}
	} else if w.pendingDock && w.now.After(w.dockDeadline) {
		// The host never confirmed the push. Fall back to the last
		// confirmed state and let the deferred attribute writes land.
		w.pendingDock = false
		w.attr.docked = w.lastDock.Docked()
		w.attr.docker = w.lastDock.Docker()
		w.attrsDirty = true
		w.log.Warn(logging.CategoryNative, "dock_timeout", "dock transition never confirmed", map[string]any{
			"docked": w.lastDock.Docked(),
			"docker": w.lastDock.Docker(),
		})
	}
	if snap.CanvasW != w.lastCanvasW || snap.CanvasH != w.lastCanvasH {
		w.lastCanvasW, w.lastCanvasH = snap.CanvasW, snap.CanvasH
		if snap.CanvasW != w.attr.w || snap.CanvasH != w.attr.h {
			pw, ph := w.attr.w, w.attr.h
			w.attr.w, w.attr.h = snap.CanvasW, snap.CanvasH
			w.pushedW, w.pushedH = snap.CanvasW, snap.CanvasH
			w.lastOuterOK = false
			w.QueueReflow(nil)
			for _, s := range w.obs.resize {
				s.fn(pw, ph)
			}
		}
	}
	if w.running {
		w.pullMove()
	}
}

// applyDockTransition confirms a dock-state change reported by the host:
// adopt the bitfield, re-resolve the handle, save or restore the floating
// geometry, reflow, notify, then re-run the push so deferred attribute
// writes land against the settled window. dockGuard keeps a callback that
// writes dock attributes from re-entering the transition.
func (w *Window) applyDockTransition(snap host.Snapshot) {
	if w.dockGuard {
		return
	}
	w.dockGuard = true
	defer func() { w.dockGuard = false }()

	// The attribute already holds the requested state when the toggle came
	// from a setter, so the flip is detected against the last confirmed
	// dock state, not the attribute.
	wasDocked := w.lastDock.Docked()
	w.lastDock = snap.Dock
	w.pendingDock = false
	w.attr.docked = snap.Dock.Docked()
	w.attr.docker = snap.Dock.Docker()

	w.handleValid = false
	w.resolveHandle()

	if w.attr.docked != wasDocked {
		if w.attr.docked {
			w.undocked = host.Rect{X: w.attr.x, Y: w.attr.y, W: w.attr.w, H: w.attr.h}
			w.undockedOK = true
		} else if w.undockedOK {
			w.attr.x, w.attr.y = w.undocked.X, w.undocked.Y
			w.attr.w, w.attr.h = w.undocked.W, w.undocked.H
			w.attrsDirty = true
		}
	}
	if w.attr.docked {
		w.attr.w, w.attr.h = snap.CanvasW, snap.CanvasH
	} else if w.handleValid {
		// Reset the push baseline to the live rect so the restored
		// geometry is pushed even when it matches pre-dock values.
		if cr, ok := w.native.ClientRect(w.handle); ok {
			c := w.fromNativeRect(cr)
			w.pushedX, w.pushedY = c.X, c.Y
			w.pushedW, w.pushedH = c.W, c.H
		}
	}
	w.lastCanvasW, w.lastCanvasH = snap.CanvasW, snap.CanvasH
	w.lastOuterOK = false
	w.QueueReflow(nil)
	for _, s := range w.obs.dock {
		s.fn(w.attr.docked)
		if !w.running {
			return
		}
	}
	w.log.Info(logging.CategoryNative, "dock", "dock state changed", map[string]any{
		"docked": w.attr.docked,
		"docker": w.attr.docker,
		"canvas": []int{snap.CanvasW, snap.CanvasH},
	})
	// Force the re-push: the transition must land side effects (restored
	// geometry, stripped layering) even when no attribute write is pending.
	w.attrsDirty = true
	w.syncAttrs()
	w.QueueBlit()
}

// pullMove adopts an external drag-move of the floating window into the
// position attributes. Skipped while a push or dock transition is pending
// so user writes are never clobbered by a stale read.
func (w *Window) pullMove() {
	if w.attr.docked || !w.handleValid || w.attrsDirty || w.pendingDock {
		return
	}
	outer, ok := w.native.WindowRect(w.handle)
	if !ok {
		return
	}
	if w.lastOuterOK && outer == w.lastOuter {
		return
	}
	w.lastOuter, w.lastOuterOK = outer, true
	client := w.fromNativeRect(native.Rect{
		X: outer.X - w.frameDX,
		Y: outer.Y - w.frameDY,
		W: outer.W - w.frameW,
		H: outer.H - w.frameH,
	})
	if client.X == w.attr.x && client.Y == w.attr.y {
		return
	}
	px, py := w.attr.x, w.attr.y
	w.attr.x, w.attr.y = client.X, client.Y
	w.pushedX, w.pushedY = client.X, client.Y
	for _, s := range w.obs.move {
		s.fn(px, py)
	}
}

// resolveHandle locates the OS window for this Window: a title lookup
// confirmed by the client origin, then an exhaustive scan when titles are
// ambiguous, then a single-result fallback. Docked windows skip the origin
// check since the docker owns placement.
func (w *Window) resolveHandle() bool {
	if !w.native.Available() {
		return false
	}
	expect := w.toNativeRect(native.Rect{X: w.attr.x, Y: w.attr.y, W: w.attr.w, H: w.attr.h})
	match := func(h native.Handle) bool {
		if w.attr.docked {
			return true
		}
		cr, ok := w.native.ClientRect(h)
		return ok && cr.X == expect.X && cr.Y == expect.Y
	}
	if h, ok := w.native.FindByTitle(w.attr.title); ok && match(h) {
		w.adoptHandle(h)
		return true
	}
	list := w.native.ListByTitle(w.attr.title)
	for _, h := range list {
		if match(h) {
			w.adoptHandle(h)
			return true
		}
	}
	if len(list) == 1 {
		w.adoptHandle(list[0])
		return true
	}
	w.log.Debug(logging.CategoryNative, "resolve_miss", "no OS window matched", map[string]any{
		"title":      w.attr.title,
		"candidates": len(list),
	})
	return false
}

// adoptHandle records the handle and measures chrome overhead once. The
// deltas are constant for a given handle and style, and rect queries are
// expensive enough that remeasuring per push is not acceptable.
func (w *Window) adoptHandle(h native.Handle) {
	w.handle = h
	w.handleValid = true
	w.frameW, w.frameH, w.frameDX, w.frameDY = 0, 0, 0, 0
	wr, wok := w.native.WindowRect(h)
	cr, cok := w.native.ClientRect(h)
	if wok && cok {
		w.frameW, w.frameH = wr.W-cr.W, wr.H-cr.H
		w.frameDX, w.frameDY = wr.X-cr.X, wr.Y-cr.Y
	}
	w.lastOuterOK = false
}

// toNativeRect converts a top-down screen rect into the controller's space.
// Bottom-up platforms flip around the monitor containing the rect's top-left
// corner; the monitor lookup is best-effort and the conversion degrades to
// identity when it fails.
func (w *Window) toNativeRect(r native.Rect) native.Rect {
	if !w.native.Available() || !w.native.YAxisUp() {
		return r
	}
	sr, ok := w.native.ScreenRect(r.X, r.Y)
	if !ok {
		return r
	}
	r.Y = 2*sr.Y + sr.H - r.Y - r.H
	return r
}

// fromNativeRect converts back to top-down space. The flip is its own
// inverse, so both directions share one implementation.
func (w *Window) fromNativeRect(r native.Rect) native.Rect {
	return w.toNativeRect(r)
}
