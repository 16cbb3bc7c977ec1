package rtk

import (
	"github.com/mattn/go-runewidth"

	"github.com/rtkui/rtk/pkg/host"
)

// SetTooltip declares owner's tooltip text. The tooltip appears after the
// mouse has been still for the configured delay and hides as soon as the
// owner changes or clears. Pass a nil owner to clear.
func (w *Window) SetTooltip(owner Widget, text string) {
	if owner == nil {
		text = ""
	}
	if owner == w.tooltipOwner && text == w.tooltipText {
		return
	}
	w.tooltipOwner = owner
	w.tooltipText = text
	if w.tooltipShown != nil && w.tooltipShown != owner {
		w.QueueRedraw()
	}
}

// TooltipOwner returns the widget currently declaring a tooltip, nil when
// none. Widgets clear only their own tooltip with this.
func (w *Window) TooltipOwner() Widget { return w.tooltipOwner }

// tooltipDue reports whether the tooltip needs to appear or disappear this
// tick, which forces a redraw.
func (w *Window) tooltipDue() bool {
	if w.tooltipShown != nil && w.tooltipShown != w.tooltipOwner {
		return true
	}
	if w.tooltipOwner == nil || w.tooltipOwner == w.tooltipShown {
		return false
	}
	return w.now.Sub(w.lastMouseMove) >= w.settings.Frame.TooltipDelay
}

// drawTooltip settles the shown state and paints the tooltip box near the
// cursor, clamped to the canvas.
func (w *Window) drawTooltip(p *Painter) {
	if w.tooltipShown != nil && w.tooltipShown != w.tooltipOwner {
		w.tooltipShown = nil
	}
	if w.tooltipOwner != nil && w.tooltipShown == nil &&
		w.now.Sub(w.lastMouseMove) >= w.settings.Frame.TooltipDelay {
		w.tooltipShown = w.tooltipOwner
	}
	if w.tooltipShown == nil || w.tooltipText == "" {
		return
	}
	tw := runewidth.StringWidth(w.tooltipText) + 2
	box := host.Rect{X: w.mouseX + 1, Y: w.mouseY + 1, W: tw, H: 3}
	if box.X+box.W > w.attr.w {
		box.X = max(0, w.attr.w-box.W)
	}
	if box.Y+box.H > w.attr.h {
		box.Y = max(0, w.mouseY-box.H)
	}
	st := host.Style{Fg: host.RGB(16, 16, 16), Bg: host.RGB(255, 255, 192)}
	p.Fill(box, ' ', st)
	p.Box(box, st)
	p.SetString(box.X+1, box.Y+1, w.tooltipText, st)
}
