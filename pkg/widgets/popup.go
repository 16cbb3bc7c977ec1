package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/rtk"
)

// Popup is a modal message box. While shown it registers with the window so
// an unhandled activation outside it dismisses it.
type Popup struct {
	Base

	Text  string
	Style host.Style

	shown bool

	// OnDismiss fires when the popup closes, however it was dismissed.
	OnDismiss func()
}

// NewPopup returns a hidden popup.
func NewPopup(text string) *Popup {
	return &Popup{Text: text, Style: host.Style{Fg: host.RGB(240, 240, 240), Bg: host.RGB(48, 48, 96)}}
}

// Show makes the popup visible and modal. The popup must already be a child
// of the window.
func (pp *Popup) Show(win *rtk.Window) {
	pp.win = win
	pp.shown = true
	win.PushModal(pp)
	win.QueueRedraw()
}

// Shown reports whether the popup is visible.
func (pp *Popup) Shown() bool { return pp.shown }

// ReleaseModal dismisses the popup on an unhandled activation outside it.
func (pp *Popup) ReleaseModal(ev *rtk.Event) {
	pp.dismiss()
}

func (pp *Popup) dismiss() {
	if !pp.shown {
		return
	}
	pp.shown = false
	if pp.win != nil {
		pp.win.PopModal(pp)
		pp.win.QueueRedraw()
	}
	if pp.OnDismiss != nil {
		pp.OnDismiss()
	}
}

func (pp *Popup) Reflow(ctx rtk.ReflowContext) host.Rect {
	if r, ok := pp.heldFrame(ctx); ok {
		return pp.realize(ctx, r)
	}
	w := runewidth.StringWidth(pp.Text) + 4
	h := 5
	r := host.Rect{
		X: ctx.Bounds.X + max(0, (ctx.Bounds.W-w)/2),
		Y: ctx.Bounds.Y + max(0, (ctx.Bounds.H-h)/2),
		W: w,
		H: h,
	}
	return pp.realize(ctx, r)
}

func (pp *Popup) Draw(p *rtk.Painter) {
	if !pp.shown {
		return
	}
	w, h := p.Size()
	box := host.Rect{W: w, H: h}
	p.Fill(box, ' ', pp.Style)
	p.Box(box, pp.Style)
	p.SetString(2, h/2, pp.Text, pp.Style)
}

func (pp *Popup) HandleEvent(ev *rtk.Event) {
	if !pp.shown {
		return
	}
	switch ev.Type {
	case rtk.EventMouseDown, rtk.EventMouseUp, rtk.EventMouseMove:
		if pp.frame.Contains(ev.X, ev.Y) {
			ev.Handled = true
		}
	case rtk.EventKey:
		if ev.Key == host.KeyEscape {
			pp.dismiss()
			ev.Handled = true
		}
	}
}

var (
	_ rtk.Widget = (*Popup)(nil)
	_ rtk.Modal  = (*Popup)(nil)
)
