package rtk

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/rtkui/rtk/pkg/host"
)

// ToggleOverlay flips the frame-stats overlay drawn in the top-right corner.
// F12 toggles it when debug logging is enabled.
func (w *Window) ToggleOverlay() {
	w.overlayOn = !w.overlayOn
	w.QueueRedraw()
}

// OverlayVisible reports whether the stats overlay is showing.
func (w *Window) OverlayVisible() bool { return w.overlayOn }

func (w *Window) drawOverlay(p *Painter) {
	lines := []string{
		fmt.Sprintf("tick %6.2fms", float64(w.lastTickTime.Microseconds())/1000),
		fmt.Sprintf("ticks %d redraws %d", w.mTicks.Get(), w.mRedraws.Get()),
		fmt.Sprintf("reflow full %d part %d", w.mReflowFull.Get(), w.mReflowPart.Get()),
		fmt.Sprintf("canvas %dx%d", w.attr.w, w.attr.h),
		fmt.Sprintf("docked %v id %d", w.attr.docked, w.attr.docker),
	}
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}
	box := host.Rect{X: max(0, w.attr.w-width-4), Y: 0, W: width + 4, H: len(lines) + 2}
	st := host.Style{Fg: host.RGB(220, 220, 220), Bg: host.RGB(32, 32, 48)}
	p.Fill(box, ' ', st)
	p.Box(box, st)
	for i, l := range lines {
		p.SetString(box.X+2, box.Y+1+i, l, st)
	}
}
