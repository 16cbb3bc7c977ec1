package widgets

import (
	"time"

	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/rtk"
)

// DragBox is a focusable box that can be picked up and dropped on a target.
// Mouse-down focuses it and registers it as a drag candidate; the window
// offers the drag once the pointer travels past the threshold.
type DragBox struct {
	Base

	Label string
	Style host.Style

	X, Y, W, H int

	// Payload travels with the drag. Defaults to the box itself.
	Payload any

	// OnDragEnd fires after the drag finishes, with the target that took
	// the payload, or nil.
	OnDragEnd func(target rtk.DropTarget)

	focused  bool
	dragging bool
}

// NewDragBox returns a 12x3 draggable box.
func NewDragBox(label string) *DragBox {
	return &DragBox{Label: label, W: 12, H: 3, Style: host.DefaultStyle()}
}

func (d *DragBox) Reflow(ctx rtk.ReflowContext) host.Rect {
	if r, ok := d.heldFrame(ctx); ok {
		return d.realize(ctx, r)
	}
	return d.realize(ctx, place(ctx.Bounds, d.X, d.Y, d.W, d.H))
}

func (d *DragBox) Draw(p *rtk.Painter) {
	w, h := p.Size()
	box := host.Rect{W: w, H: h}
	st := d.Style
	if d.focused {
		st.Attrs |= host.AttrBold
	}
	if d.dragging {
		st.Attrs |= host.AttrReverse
	}
	p.Fill(box, ' ', st)
	p.Box(box, st)
	p.SetString(1, h/2, d.Label, st)
	if d.win != nil {
		if mx, my := d.win.MousePos(); d.frame.Contains(mx, my) {
			p.RequestCursor(host.CursorHand, false)
		}
	}
}

func (d *DragBox) HandleEvent(ev *rtk.Event) {
	if ev.Type != rtk.EventMouseDown || !d.frame.Contains(ev.X, ev.Y) {
		return
	}
	if d.win != nil {
		d.win.FocusWidget(d)
		d.win.AddDragCandidate(d, ev)
	}
	ev.Handled = true
}

func (d *DragBox) DragStart(ev *rtk.Event, pressX, pressY int, pressed time.Time) (any, bool, bool) {
	d.dragging = true
	if d.win != nil {
		d.win.QueueRedraw()
	}
	payload := d.Payload
	if payload == nil {
		payload = d
	}
	return payload, true, true
}

func (d *DragBox) DragMove(ev *rtk.Event, payload any) {
	if d.win != nil {
		d.win.RequestCursor(host.CursorMove, true)
	}
}

func (d *DragBox) DragEnd(ev *rtk.Event, payload any, target rtk.DropTarget) {
	d.dragging = false
	if d.win != nil {
		d.win.QueueRedraw()
	}
	if d.OnDragEnd != nil {
		d.OnDragEnd(target)
	}
}

// SetFocused tracks widget focus for the bold highlight.
func (d *DragBox) SetFocused(focused bool) {
	d.focused = focused
}

var (
	_ rtk.Widget     = (*DragBox)(nil)
	_ rtk.DragSource = (*DragBox)(nil)
	_ rtk.Focusable  = (*DragBox)(nil)
)
