package rtk

// attrs holds the declarative window attributes. Position and size describe
// OS placement of the content box; layout inside the window is always
// anchored at (0, 0).
type attrs struct {
	x, y       int
	w, h       int
	docked     bool
	docker     int
	visible    bool
	pinned     bool
	borderless bool
	title      string
	opacity    float64
	scale      float64
}

// attrID indexes the attribute descriptor table.
type attrID int

const (
	attrX attrID = iota
	attrY
	attrW
	attrH
	attrDocked
	attrDocker
	attrVisible
	attrPinned
	attrBorderless
	attrTitle
	attrOpacity
	attrScale
	attrCount
)

// attrDesc describes how one attribute is written: normalize and assign the
// value reporting whether it changed, run a side effect, and flag whether
// the OS window needs a sync on the next tick. Every setter funnels through
// this table so write semantics stay uniform.
type attrDesc struct {
	name     string
	set      func(w *Window, v any) bool
	onChange func(w *Window)
	osSync   bool
}

var attrTable = [attrCount]attrDesc{
	attrX: {name: "x", osSync: true,
		set: func(w *Window, v any) bool { return assign(&w.attr.x, v.(int)) }},
	attrY: {name: "y", osSync: true,
		set: func(w *Window, v any) bool { return assign(&w.attr.y, v.(int)) }},
	attrW: {name: "w", osSync: true,
		set:      func(w *Window, v any) bool { return assign(&w.attr.w, max(v.(int), 1)) },
		onChange: func(w *Window) { w.QueueReflow(nil) }},
	attrH: {name: "h", osSync: true,
		set:      func(w *Window, v any) bool { return assign(&w.attr.h, max(v.(int), 1)) },
		onChange: func(w *Window) { w.QueueReflow(nil) }},
	attrDocked: {name: "docked", osSync: true,
		set: func(w *Window, v any) bool { return assign(&w.attr.docked, v.(bool)) }},
	attrDocker: {name: "docker", osSync: true,
		set: func(w *Window, v any) bool { return assign(&w.attr.docker, v.(int)) }},
	attrVisible: {name: "visible", osSync: true,
		set:      func(w *Window, v any) bool { return assign(&w.attr.visible, v.(bool)) },
		onChange: func(w *Window) { w.QueueRedraw() }},
	attrPinned: {name: "pinned", osSync: true,
		// Pinning needs the native capability; without it the attribute
		// normalizes to false at set time.
		set: func(w *Window, v any) bool {
			return assign(&w.attr.pinned, v.(bool) && w.native.Available())
		}},
	attrBorderless: {name: "borderless", osSync: true,
		set: func(w *Window, v any) bool {
			return assign(&w.attr.borderless, v.(bool) && w.native.Available())
		}},
	attrTitle: {name: "title", osSync: true,
		set: func(w *Window, v any) bool { return assign(&w.attr.title, v.(string)) }},
	attrOpacity: {name: "opacity", osSync: true,
		set: func(w *Window, v any) bool {
			return assign(&w.attr.opacity, min(max(v.(float64), 0), 1))
		}},
	attrScale: {name: "scale",
		set:      func(w *Window, v any) bool { return assign(&w.attr.scale, max(v.(float64), 0.1)) },
		onChange: func(w *Window) { w.QueueReflow(nil) }},
}

// assign writes v and reports whether the stored value changed.
func assign[T comparable](p *T, v T) bool {
	if *p == v {
		return false
	}
	*p = v
	return true
}

// setAttr is the single attribute write path. Returns whether the value
// changed.
func (w *Window) setAttr(id attrID, v any) bool {
	d := &attrTable[id]
	if !d.set(w, v) {
		return false
	}
	if d.onChange != nil {
		d.onChange(w)
	}
	if d.osSync {
		w.attrsDirty = true
	}
	return true
}

// SetPosition moves the window's content origin on screen. Writes coalesce
// into at most one OS call on the next tick.
func (w *Window) SetPosition(x, y int) {
	w.setAttr(attrX, x)
	w.setAttr(attrY, y)
}

// Position returns the content origin in top-down screen coordinates.
func (w *Window) Position() (x, y int) { return w.attr.x, w.attr.y }

// SetSize resizes the content box and schedules a full reflow.
func (w *Window) SetSize(width, height int) {
	w.setAttr(attrW, width)
	w.setAttr(attrH, height)
}

// Size returns the content box size.
func (w *Window) Size() (width, height int) { return w.attr.w, w.attr.h }

// SetDocked docks or floats the window. The transition is pushed on the next
// tick and confirmed by the host before geometry follows.
func (w *Window) SetDocked(docked bool) { w.setAttr(attrDocked, docked) }

// Docked reports whether the window is docked.
func (w *Window) Docked() bool { return w.attr.docked }

// SetDocker selects the host docker the window attaches to when docked.
func (w *Window) SetDocker(id int) { w.setAttr(attrDocker, id) }

// Docker returns the selected docker id.
func (w *Window) Docker() int { return w.attr.docker }

// SetVisible shows or hides the window.
func (w *Window) SetVisible(v bool) { w.setAttr(attrVisible, v) }

// Visible reports whether the window is visible.
func (w *Window) Visible() bool { return w.attr.visible }

// SetPinned keeps the window above others. Best effort; observably false
// without the native capability.
func (w *Window) SetPinned(p bool) { w.setAttr(attrPinned, p) }

// Pinned reports whether the window is pinned.
func (w *Window) Pinned() bool { return w.attr.pinned }

// SetBorderless strips the native frame. Best effort like SetPinned.
func (w *Window) SetBorderless(b bool) { w.setAttr(attrBorderless, b) }

// Borderless reports whether the native frame is stripped.
func (w *Window) Borderless() bool { return w.attr.borderless }

// SetTitle renames the window.
func (w *Window) SetTitle(t string) { w.setAttr(attrTitle, t) }

// Title returns the window title.
func (w *Window) Title() string { return w.attr.title }

// SetOpacity sets window alpha in [0, 1]. Stored but ignored without the
// native capability.
func (w *Window) SetOpacity(a float64) { w.setAttr(attrOpacity, a) }

// Opacity returns the window alpha.
func (w *Window) Opacity() float64 { return w.attr.opacity }

// SetScale sets the UI scale factor feeding layout and drag thresholds.
func (w *Window) SetScale(s float64) { w.setAttr(attrScale, s) }

// Scale returns the UI scale factor.
func (w *Window) Scale() float64 { return w.attr.scale }
