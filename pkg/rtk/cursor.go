package rtk

import "github.com/rtkui/rtk/pkg/host"

// RequestCursor claims the cursor for this tick and reports whether the
// claim took. The first claim wins; force overrides an earlier claim.
// Claims made during drawing reset each redraw, so a widget that wants a
// cursor keeps claiming it per frame.
func (w *Window) RequestCursor(c host.Cursor, force bool) bool {
	if w.claimedCur != host.CursorNone && !force {
		return false
	}
	w.claimedCur = c
	return true
}

// SetDefaultCursor sets the cursor used on ticks where nothing claims one.
func (w *Window) SetDefaultCursor(c host.Cursor) {
	w.defaultCur = c
}

// applyCursor resolves the effective cursor and applies it when it changed,
// preferring the native controller's richer shape set.
func (w *Window) applyCursor() {
	cur := w.claimedCur
	if cur == host.CursorNone {
		cur = w.defaultCur
	}
	if cur == w.appliedCur {
		return
	}
	w.appliedCur = cur
	if w.native.Available() && w.native.SetCursor(cur) {
		return
	}
	w.surface.SetCursor(cur)
}
