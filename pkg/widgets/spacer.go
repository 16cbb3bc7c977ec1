package widgets

import (
	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/rtk"
)

// Spacer reserves a box of empty space, optionally filled with a rune.
type Spacer struct {
	Base

	X, Y, W, H int
	Fill       rune
	Style      host.Style
}

func (s *Spacer) Reflow(ctx rtk.ReflowContext) host.Rect {
	if r, ok := s.heldFrame(ctx); ok {
		return s.realize(ctx, r)
	}
	return s.realize(ctx, place(ctx.Bounds, s.X, s.Y, s.W, s.H))
}

func (s *Spacer) Draw(p *rtk.Painter) {
	if s.Fill == 0 {
		return
	}
	w, h := p.Size()
	p.Fill(host.Rect{W: w, H: h}, s.Fill, s.Style)
}

func (s *Spacer) HandleEvent(ev *rtk.Event) {}

var _ rtk.Widget = (*Spacer)(nil)
