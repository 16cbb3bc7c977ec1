package rtk

// FocusWidget gives wd the key focus. The previous holder is notified first
// when it implements Focusable. Passing the current holder is a no-op.
func (w *Window) FocusWidget(wd Widget) {
	if wd == w.focusWidget {
		return
	}
	if f, ok := w.focusWidget.(Focusable); ok {
		f.SetFocused(false)
	}
	w.focusWidget = wd
	if f, ok := wd.(Focusable); ok {
		f.SetFocused(true)
	}
	w.QueueRedraw()
}

// Blur clears the key focus.
func (w *Window) Blur() {
	if w.focusWidget == nil {
		return
	}
	if f, ok := w.focusWidget.(Focusable); ok {
		f.SetFocused(false)
	}
	w.focusWidget = nil
	w.QueueRedraw()
}

// FocusedWidget returns the current key focus holder, nil when none.
func (w *Window) FocusedWidget() Widget { return w.focusWidget }

// PushModal registers m for dismissal callbacks. Unhandled activation
// events reach every registered modal, outermost first.
func (w *Window) PushModal(m Modal) {
	for _, x := range w.modals {
		if x == m {
			return
		}
	}
	w.modals = append(w.modals, m)
}

// PopModal unregisters m.
func (w *Window) PopModal(m Modal) {
	for i, x := range w.modals {
		if x == m {
			w.modals = append(w.modals[:i], w.modals[i+1:]...)
			return
		}
	}
}

// BeginTouchScroll marks owner as touch-scrolling, which defers mouse-down
// activation by the configured delay so a scroll gesture is not mistaken
// for a click.
func (w *Window) BeginTouchScroll(owner any) {
	if w.touchScroll == nil {
		w.touchScroll = make(map[any]struct{})
	}
	w.touchScroll[owner] = struct{}{}
}

// EndTouchScroll removes owner's touch-scroll mark.
func (w *Window) EndTouchScroll(owner any) {
	delete(w.touchScroll, owner)
}
