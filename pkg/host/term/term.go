// Package term adapts a terminal to the host surface contract using tcell.
// tcell's event stream is pumped into accumulated polled state so the
// toolkit sees the same per-tick snapshots a DAW host would provide. Dock
// operations are unsupported; the window always reports undocked.
package term

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/time/rate"

	"github.com/rtkui/rtk/pkg/host"
)

// Surface is a tcell-backed host.Surface.
type Surface struct {
	screen tcell.Screen

	mu         sync.Mutex
	mouseX     int
	mouseY     int
	buttons    host.Buttons
	wheelY     int
	wheelX     int
	keys       []host.Key
	terminated bool
	canvasW    int
	canvasH    int
	fullRedraw bool

	opened bool
	stop   chan struct{}
}

// New creates a surface on a real terminal screen.
func New() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Surface{screen: screen}, nil
}

// NewWithScreen creates a surface with an existing tcell screen (for testing).
func NewWithScreen(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

// Open initializes the screen and starts the event pump.
func (s *Surface) Open(o host.OpenOptions) error {
	if s.opened {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse()
	if o.Title != "" {
		s.screen.SetTitle(o.Title)
	}
	w, h := s.screen.Size()
	s.mu.Lock()
	s.canvasW, s.canvasH = w, h
	s.fullRedraw = true
	s.mu.Unlock()
	s.opened = true
	s.stop = make(chan struct{})
	go s.pump()
	return nil
}

// Close stops the pump and releases the terminal.
func (s *Surface) Close() {
	if !s.opened {
		return
	}
	s.opened = false
	close(s.stop)
	s.screen.Fini()
}

// pump forwards tcell events into the polled state until the screen dies.
func (s *Surface) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-s.stop:
			return
		default:
		}
		s.handleEvent(ev)
	}
}

// handleEvent folds one tcell event into the accumulated device state.
func (s *Surface) handleEvent(ev tcell.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case *tcell.EventMouse:
		x, y := e.Position()
		s.mouseX, s.mouseY = x, y
		s.buttons = convertButtons(e.Buttons(), e.Modifiers())
		if e.Buttons()&tcell.WheelUp != 0 {
			s.wheelY += 120
		}
		if e.Buttons()&tcell.WheelDown != 0 {
			s.wheelY -= 120
		}
		if e.Buttons()&tcell.WheelLeft != 0 {
			s.wheelX -= 120
		}
		if e.Buttons()&tcell.WheelRight != 0 {
			s.wheelX += 120
		}
	case *tcell.EventKey:
		s.buttons = s.buttons&^host.ModMask | convertModifiers(e.Modifiers())
		if k, ok := convertKey(e); ok {
			s.keys = append(s.keys, k)
		}
		// No window close exists in a terminal; Ctrl-C is the way out.
		if e.Key() == tcell.KeyCtrlC {
			s.terminated = true
		}
	case *tcell.EventResize:
		w, h := e.Size()
		s.canvasW, s.canvasH = w, h
		s.fullRedraw = true
	case *tcell.EventInterrupt:
		s.terminated = true
	}
}

// Poll returns the snapshot for this tick, draining transient state.
func (s *Surface) Poll() host.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := host.Snapshot{
		MouseX:  s.mouseX,
		MouseY:  s.mouseY,
		Buttons: s.buttons,
		WheelY:  s.wheelY,
		WheelX:  s.wheelX,
		CanvasW: s.canvasW,
		CanvasH: s.canvasH,
	}
	s.wheelY, s.wheelX = 0, 0
	if s.terminated {
		snap.Key = host.KeyTerminate
		s.terminated = false
	} else if len(s.keys) > 0 {
		snap.Key = s.keys[0]
		s.keys = s.keys[1:]
	}
	return snap
}

// Canvas returns the terminal size.
func (s *Surface) Canvas() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvasW, s.canvasH
}

// Dock always reports undocked; terminals have no docker.
func (s *Surface) Dock() host.DockState { return 0 }

// SetDock is unsupported.
func (s *Surface) SetDock(host.DockState) {}

// Present writes changed cells to the screen. After a terminal resize every
// cell is rewritten and the screen resynced.
func (s *Surface) Present(b *host.Buffer, x, y int) {
	s.mu.Lock()
	full := s.fullRedraw
	s.fullRedraw = false
	s.mu.Unlock()

	if full {
		w, h := b.Size()
		for by := 0; by < h; by++ {
			for bx := 0; bx < w; bx++ {
				s.setCell(x+bx, y+by, b.Get(bx, by))
			}
		}
		s.screen.Sync()
		return
	}
	b.ForEachDirtyCell(func(bx, by int, cell host.Cell) {
		s.setCell(x+bx, y+by, cell)
	})
}

func (s *Surface) setCell(x, y int, cell host.Cell) {
	r := cell.Rune
	if r == 0 {
		// Continuation of a wide rune; tcell places those itself.
		return
	}
	s.screen.SetContent(x, y, r, nil, convertStyle(cell.Style))
}

// Commit flushes the frame.
func (s *Surface) Commit() { s.screen.Show() }

// SetCursor is unsupported; terminals cannot shape the pointer.
func (s *Surface) SetCursor(host.Cursor) bool { return false }

// Drive re-invokes fn at the given frame rate until fn returns false or the
// context is done. This is the host-driven loop a DAW would provide.
func (s *Surface) Drive(ctx context.Context, fps int, fn func() bool) error {
	if fps < 1 {
		fps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(fps), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if !fn() {
			return nil
		}
	}
}

// convertButtons converts a tcell button/modifier pair to a capability mask.
func convertButtons(b tcell.ButtonMask, mods tcell.ModMask) host.Buttons {
	var out host.Buttons
	if b&tcell.Button1 != 0 {
		out |= host.ButtonLeft
	}
	if b&tcell.Button3 != 0 {
		out |= host.ButtonRight
	}
	if b&tcell.Button2 != 0 {
		out |= host.ButtonMiddle
	}
	return out | convertModifiers(mods)
}

// convertModifiers converts tcell modifiers to capability mask bits.
func convertModifiers(mods tcell.ModMask) host.Buttons {
	var out host.Buttons
	if mods&tcell.ModCtrl != 0 {
		out |= host.ModCtrl
	}
	if mods&tcell.ModShift != 0 {
		out |= host.ModShift
	}
	if mods&tcell.ModAlt != 0 {
		out |= host.ModAlt
	}
	if mods&tcell.ModMeta != 0 {
		out |= host.ModSuper
	}
	return out
}

// convertKey converts a tcell key event to a host key code.
func convertKey(e *tcell.EventKey) (host.Key, bool) {
	switch e.Key() {
	case tcell.KeyRune:
		return host.Key(e.Rune()), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return host.KeyBackspace, true
	case tcell.KeyTab:
		return host.KeyTab, true
	case tcell.KeyEnter:
		return host.KeyEnter, true
	case tcell.KeyEscape:
		return host.KeyEscape, true
	case tcell.KeyLeft:
		return host.KeyLeft, true
	case tcell.KeyRight:
		return host.KeyRight, true
	case tcell.KeyUp:
		return host.KeyUp, true
	case tcell.KeyDown:
		return host.KeyDown, true
	case tcell.KeyHome:
		return host.KeyHome, true
	case tcell.KeyEnd:
		return host.KeyEnd, true
	case tcell.KeyPgUp:
		return host.KeyPageUp, true
	case tcell.KeyPgDn:
		return host.KeyPageDown, true
	case tcell.KeyInsert:
		return host.KeyInsert, true
	case tcell.KeyDelete:
		return host.KeyDelete, true
	case tcell.KeyF1:
		return host.KeyF1, true
	case tcell.KeyF2:
		return host.KeyF2, true
	case tcell.KeyF3:
		return host.KeyF3, true
	case tcell.KeyF4:
		return host.KeyF4, true
	case tcell.KeyF5:
		return host.KeyF5, true
	case tcell.KeyF6:
		return host.KeyF6, true
	case tcell.KeyF7:
		return host.KeyF7, true
	case tcell.KeyF8:
		return host.KeyF8, true
	case tcell.KeyF9:
		return host.KeyF9, true
	case tcell.KeyF10:
		return host.KeyF10, true
	case tcell.KeyF11:
		return host.KeyF11, true
	case tcell.KeyF12:
		return host.KeyF12, true
	}
	// Control characters arrive as tcell's Ctrl-key codes; fold them back
	// to their ASCII control values.
	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return host.Key(k-tcell.KeyCtrlA) + 1, true
	}
	return 0, false
}

// convertStyle converts a buffer style to a tcell style.
func convertStyle(s host.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Fg)).
		Background(convertColor(s.Bg))
	if s.Attrs&host.AttrBold != 0 {
		style = style.Bold(true)
	}
	if s.Attrs&host.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if s.Attrs&host.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if s.Attrs&host.AttrDim != 0 {
		style = style.Dim(true)
	}
	return style
}

// convertColor converts a buffer color to a tcell color.
func convertColor(c host.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

var _ host.Surface = (*Surface)(nil)
