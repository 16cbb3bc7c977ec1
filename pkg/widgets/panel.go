package widgets

import (
	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/rtk"
)

// Panel is a container with an optional border and title. Children are laid
// out inside the padded interior and receive events translated into panel
// space. Setting AcceptDrop makes the panel a drop target.
type Panel struct {
	Base

	Title   string
	Border  bool
	Style   host.Style
	Padding int

	// X, Y, W, H request geometry in the parent bounds. Non-positive W or H
	// stretch to the remaining space.
	X, Y, W, H int

	// AcceptDrop decides whether a droppable drag payload may land here.
	AcceptDrop func(payload any) bool

	// OnDrop receives an accepted payload on release.
	OnDrop func(payload any)

	children []rtk.Widget
	dropHot  bool
}

// NewPanel returns a bordered panel.
func NewPanel(title string) *Panel {
	return &Panel{Title: title, Border: true, Padding: 1, Style: host.DefaultStyle()}
}

// Add appends a child. Later children draw on top and see events first.
func (pn *Panel) Add(w rtk.Widget) {
	pn.children = append(pn.children, w)
	if pn.win != nil {
		pn.win.QueueReflow(nil)
	}
}

// Remove detaches a child.
func (pn *Panel) Remove(w rtk.Widget) {
	for i, c := range pn.children {
		if c == w {
			pn.children = append(pn.children[:i], pn.children[i+1:]...)
			break
		}
	}
	if pn.win != nil {
		pn.win.QueueReflow(nil)
	}
}

// Children returns the child list in add order.
func (pn *Panel) Children() []rtk.Widget { return pn.children }

func (pn *Panel) interior() host.Rect {
	in := host.Rect{W: pn.frame.W, H: pn.frame.H}
	if pn.Border {
		in = in.Inset(1)
	}
	return in.Inset(pn.Padding)
}

func (pn *Panel) Reflow(ctx rtk.ReflowContext) host.Rect {
	if r, ok := pn.heldFrame(ctx); ok {
		pn.realize(ctx, r)
	} else {
		pn.realize(ctx, place(ctx.Bounds, pn.X, pn.Y, pn.W, pn.H))
	}
	child := ctx
	child.Bounds = pn.interior()
	for _, c := range pn.children {
		c.Reflow(child)
	}
	return pn.frame
}

func (pn *Panel) Draw(p *rtk.Painter) {
	w, h := p.Size()
	box := host.Rect{W: w, H: h}
	st := pn.Style
	if pn.dropHot {
		st.Attrs |= host.AttrReverse
	}
	p.Fill(box, ' ', st)
	if pn.Border {
		p.Box(box, st)
		if pn.Title != "" {
			p.SetString(2, 0, " "+pn.Title+" ", st)
		}
	}
	for _, c := range pn.children {
		if !c.LaidOut() {
			continue
		}
		c.Draw(p.Sub(c.Frame()))
	}
}

func (pn *Panel) HandleEvent(ev *rtk.Event) {
	if mouseEvent(ev) && !pn.frame.Contains(ev.X, ev.Y) {
		return
	}
	ev.X -= pn.frame.X
	ev.Y -= pn.frame.Y
	for i := len(pn.children) - 1; i >= 0 && !ev.Handled; i-- {
		c := pn.children[i]
		if c.LaidOut() {
			c.HandleEvent(ev)
		}
	}
	ev.X += pn.frame.X
	ev.Y += pn.frame.Y
}

// DropEnter highlights the panel when it can take the payload.
func (pn *Panel) DropEnter(src rtk.DragSource, payload any, ev *rtk.Event) bool {
	if pn.AcceptDrop == nil || !pn.AcceptDrop(payload) {
		return false
	}
	pn.dropHot = true
	if pn.win != nil {
		pn.win.QueueRedraw()
	}
	return true
}

func (pn *Panel) DropLeave(src rtk.DragSource, payload any) {
	pn.dropHot = false
	if pn.win != nil {
		pn.win.QueueRedraw()
	}
}

func (pn *Panel) Drop(src rtk.DragSource, payload any, ev *rtk.Event) bool {
	pn.dropHot = false
	if pn.OnDrop == nil {
		return false
	}
	pn.OnDrop(payload)
	if pn.win != nil {
		pn.win.QueueRedraw()
	}
	return true
}

var (
	_ rtk.Widget     = (*Panel)(nil)
	_ rtk.DropTarget = (*Panel)(nil)
)
