package rtk

import "github.com/oklog/ulid/v2"

// sub is one registered observer callback.
type sub[T any] struct {
	id string
	fn T
}

type subs[T any] []sub[T]

func (s *subs[T]) add(fn T) string {
	id := ulid.Make().String()
	*s = append(*s, sub[T]{id: id, fn: fn})
	return id
}

func (s *subs[T]) remove(id string) bool {
	for i := range *s {
		if (*s)[i].id == id {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// observers holds every window callback list.
type observers struct {
	update  subs[func() bool]
	reflow  subs[func(widgets []Widget)]
	move    subs[func(prevX, prevY int)]
	resize  subs[func(prevW, prevH int)]
	dock    subs[func(docked bool)]
	closeCb subs[func()]
	focus   subs[func()]
	blur    subs[func()]
	keyPre  subs[func(ev *Event)]
	keyPost subs[func(ev *Event)]
}

// OnUpdate registers a pre-tick observer. Returning true skips the
// remainder of that tick.
func (w *Window) OnUpdate(fn func() bool) string { return w.obs.update.add(fn) }

// OnReflow observes completed reflow passes. widgets is nil for a full pass,
// otherwise the partial set.
func (w *Window) OnReflow(fn func(widgets []Widget)) string { return w.obs.reflow.add(fn) }

// OnMove observes window moves with the prior position.
func (w *Window) OnMove(fn func(prevX, prevY int)) string { return w.obs.move.add(fn) }

// OnResize observes window resizes with the prior size.
func (w *Window) OnResize(fn func(prevW, prevH int)) string { return w.obs.resize.add(fn) }

// OnDock observes completed dock transitions.
func (w *Window) OnDock(fn func(docked bool)) string { return w.obs.dock.add(fn) }

// OnClose observes window close. Fires once per close.
func (w *Window) OnClose(fn func()) string { return w.obs.closeCb.add(fn) }

// OnFocus observes the window gaining OS focus.
func (w *Window) OnFocus(fn func()) string { return w.obs.focus.add(fn) }

// OnBlur observes the window losing OS focus.
func (w *Window) OnBlur(fn func()) string { return w.obs.blur.add(fn) }

// OnKeyPre observes key events before widget dispatch. Marking the event
// handled suppresses widget dispatch and default key handling.
func (w *Window) OnKeyPre(fn func(ev *Event)) string { return w.obs.keyPre.add(fn) }

// OnKeyPost observes key events after widget dispatch.
func (w *Window) OnKeyPost(fn func(ev *Event)) string { return w.obs.keyPost.add(fn) }

// Off removes a subscription by id, whichever list it is in.
func (w *Window) Off(id string) bool {
	return w.obs.update.remove(id) ||
		w.obs.reflow.remove(id) ||
		w.obs.move.remove(id) ||
		w.obs.resize.remove(id) ||
		w.obs.dock.remove(id) ||
		w.obs.closeCb.remove(id) ||
		w.obs.focus.remove(id) ||
		w.obs.blur.remove(id) ||
		w.obs.keyPre.remove(id) ||
		w.obs.keyPost.remove(id)
}
