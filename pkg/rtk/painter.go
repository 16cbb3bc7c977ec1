package rtk

import (
	"github.com/mattn/go-runewidth"

	"github.com/rtkui/rtk/pkg/host"
)

// Painter draws into the window backing store, translated and clipped to a
// widget frame. Widgets draw in local coordinates anchored at (0, 0).
type Painter struct {
	win  *Window
	buf  *host.Buffer
	dx   int
	dy   int
	clip host.Rect // buffer coordinates
}

// Sub returns a painter translated and clipped to frame, which is given in
// this painter's coordinates.
func (p *Painter) Sub(frame host.Rect) *Painter {
	abs := frame.Offset(p.dx, p.dy)
	return &Painter{
		win:  p.win,
		buf:  p.buf,
		dx:   abs.X,
		dy:   abs.Y,
		clip: p.clip.Intersect(abs),
	}
}

// Size returns the clipped drawable size.
func (p *Painter) Size() (w, h int) { return p.clip.W, p.clip.H }

// Set places a single cell.
func (p *Painter) Set(x, y int, r rune, s host.Style) {
	bx, by := x+p.dx, y+p.dy
	if !p.clip.Contains(bx, by) {
		return
	}
	p.buf.Set(bx, by, r, s)
}

// SetString draws a string, advancing by rune width and clipping to the
// painter region.
func (p *Painter) SetString(x, y int, s string, st host.Style) {
	bx, by := x+p.dx, y+p.dy
	if by < p.clip.Y || by >= p.clip.Y+p.clip.H {
		return
	}
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if bx >= p.clip.X+p.clip.W {
			break
		}
		if bx >= p.clip.X {
			p.buf.Set(bx, by, r, st)
		}
		bx += rw
	}
}

// Fill fills a rectangle with one rune.
func (p *Painter) Fill(r host.Rect, ch rune, s host.Style) {
	p.buf.Fill(r.Offset(p.dx, p.dy).Intersect(p.clip), ch, s)
}

// Box draws a single-line border along the rectangle edge.
func (p *Painter) Box(r host.Rect, s host.Style) {
	p.buf.DrawBox(r.Offset(p.dx, p.dy), s)
}

// RequestCursor claims the mouse cursor for this tick, first come first
// served unless forced.
func (p *Painter) RequestCursor(c host.Cursor, force bool) bool {
	return p.win.RequestCursor(c, force)
}

// Window returns the window being painted.
func (p *Painter) Window() *Window { return p.win }
