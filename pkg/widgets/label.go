package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/rtk"
)

// Label is a single line of text with an optional hover tooltip.
type Label struct {
	Base

	Text  string
	Style host.Style

	// X, Y offset the label inside the parent bounds.
	X, Y int

	// Tooltip, when non-empty, appears after the mouse rests on the label.
	Tooltip string

	hovering bool
}

// NewLabel returns a label with default styling.
func NewLabel(text string) *Label {
	return &Label{Text: text, Style: host.DefaultStyle()}
}

// SetText replaces the text. A width change queues a full layout so the
// frame tracks the text; same-width text only needs a redraw.
func (l *Label) SetText(text string) {
	if text == l.Text {
		return
	}
	sameWidth := runewidth.StringWidth(text) == runewidth.StringWidth(l.Text)
	l.Text = text
	if l.win == nil {
		return
	}
	if sameWidth {
		l.win.QueueRedraw()
	} else {
		l.win.QueueReflow(nil)
	}
}

func (l *Label) Reflow(ctx rtk.ReflowContext) host.Rect {
	if r, ok := l.heldFrame(ctx); ok {
		return l.realize(ctx, r)
	}
	w := min(runewidth.StringWidth(l.Text), ctx.Bounds.W-l.X)
	return l.realize(ctx, place(ctx.Bounds, l.X, l.Y, w, 1))
}

func (l *Label) Draw(p *rtk.Painter) {
	p.SetString(0, 0, l.Text, l.Style)
}

func (l *Label) HandleEvent(ev *rtk.Event) {
	if l.Tooltip == "" || ev.Type != rtk.EventMouseMove || l.win == nil {
		return
	}
	inside := l.frame.Contains(ev.X, ev.Y)
	if inside == l.hovering {
		return
	}
	l.hovering = inside
	if inside {
		l.win.SetTooltip(l, l.Tooltip)
	} else if l.win.TooltipOwner() == l {
		l.win.SetTooltip(nil, "")
	}
}

var _ rtk.Widget = (*Label)(nil)
