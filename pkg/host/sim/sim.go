// Package sim provides a scripted in-memory host surface for tests and
// headless runs. Tests stage device state (mouse, buttons, wheel, keys,
// drops, dock) between ticks and assert on what the toolkit presented.
package sim

import (
	"strings"

	"github.com/rtkui/rtk/pkg/host"
)

// Host is a deterministic host.Surface. It is not safe for concurrent use;
// like the toolkit core it expects a single driving goroutine.
type Host struct {
	mouseX, mouseY int
	buttons        host.Buttons
	wheelY, wheelX int
	keys           []host.Key
	drops          []string

	canvasW, canvasH int
	floatW, floatH   int
	dockW, dockH     int

	dock        host.DockState
	pendingDock *host.DockState

	opened   bool
	lastOpen host.OpenOptions
	opens    int
	closes   int

	canvas   *host.Buffer
	presents int
	commits  int
	polls    int

	cursor        host.Cursor
	cursorSets    int
	cursorSupport bool
}

// New creates a sim host with a default floating canvas size.
func New(w, h int) *Host {
	return &Host{
		canvasW:       w,
		canvasH:       h,
		floatW:        w,
		floatH:        h,
		dockW:         400,
		dockH:         300,
		canvas:        host.NewBuffer(w, h),
		cursorSupport: true,
	}
}

// Open records the open and sizes the canvas from the options.
func (s *Host) Open(o host.OpenOptions) error {
	s.opened = true
	s.lastOpen = o
	s.opens++
	if o.Width > 0 && o.Height > 0 {
		s.floatW, s.floatH = o.Width, o.Height
	}
	s.dock = o.Dock
	s.applyCanvas()
	return nil
}

// Close records the close.
func (s *Host) Close() {
	if s.opened {
		s.opened = false
		s.closes++
	}
}

// Poll applies any pending dock transition, then returns and clears this
// tick's transient device state.
func (s *Host) Poll() host.Snapshot {
	s.polls++
	if s.pendingDock != nil {
		s.dock = *s.pendingDock
		s.pendingDock = nil
		s.applyCanvas()
	}
	snap := host.Snapshot{
		MouseX:  s.mouseX,
		MouseY:  s.mouseY,
		Buttons: s.buttons,
		WheelY:  s.wheelY,
		WheelX:  s.wheelX,
		CanvasW: s.canvasW,
		CanvasH: s.canvasH,
		Dock:    s.dock,
	}
	s.wheelY, s.wheelX = 0, 0
	if len(s.keys) > 0 {
		snap.Key = s.keys[0]
		s.keys = s.keys[1:]
	}
	if len(s.drops) > 0 {
		snap.Files = s.drops
		s.drops = nil
	}
	return snap
}

// Canvas returns the current canvas size.
func (s *Host) Canvas() (w, h int) { return s.canvasW, s.canvasH }

// Dock returns the current dock state.
func (s *Host) Dock() host.DockState { return s.dock }

// SetDock stages a dock transition that lands on the next Poll, modeling a
// host that applies docking asynchronously.
func (s *Host) SetDock(d host.DockState) {
	pending := d
	s.pendingDock = &pending
}

// Present composites a buffer onto the canvas.
func (s *Host) Present(b *host.Buffer, x, y int) {
	s.presents++
	w, h := b.Size()
	for by := 0; by < h; by++ {
		for bx := 0; bx < w; bx++ {
			c := b.Get(bx, by)
			s.canvas.Set(x+bx, y+by, c.Rune, c.Style)
		}
	}
}

// Commit counts the per-tick flush.
func (s *Host) Commit() { s.commits++ }

// SetCursor records the applied cursor.
func (s *Host) SetCursor(c host.Cursor) bool {
	if !s.cursorSupport {
		return false
	}
	s.cursor = c
	s.cursorSets++
	return true
}

func (s *Host) applyCanvas() {
	if s.dock.Docked() {
		s.canvasW, s.canvasH = s.dockW, s.dockH
	} else {
		s.canvasW, s.canvasH = s.floatW, s.floatH
	}
	s.canvas = host.NewBuffer(s.canvasW, s.canvasH)
}

// --- scripting ---

// MoveMouse positions the polled cursor.
func (s *Host) MoveMouse(x, y int) { s.mouseX, s.mouseY = x, y }

// SetButtons replaces the full capability mask.
func (s *Host) SetButtons(b host.Buttons) { s.buttons = b }

// Press adds bits to the capability mask.
func (s *Host) Press(b host.Buttons) { s.buttons |= b }

// Release removes bits from the capability mask.
func (s *Host) Release(b host.Buttons) { s.buttons &^= b }

// Wheel accumulates a vertical wheel delta for the next Poll.
func (s *Host) Wheel(dy int) { s.wheelY += dy }

// WheelH accumulates a horizontal wheel delta for the next Poll.
func (s *Host) WheelH(dx int) { s.wheelX += dx }

// TypeKey queues a key code; one is delivered per Poll.
func (s *Host) TypeKey(k host.Key) { s.keys = append(s.keys, k) }

// TypeRune queues a printable character.
func (s *Host) TypeRune(r rune) { s.keys = append(s.keys, host.Key(r)) }

// Drop queues file paths for the next Poll.
func (s *Host) Drop(paths ...string) { s.drops = append(s.drops, paths...) }

// ResizeCanvas changes the floating canvas size, as a user resize would.
func (s *Host) ResizeCanvas(w, h int) {
	s.floatW, s.floatH = w, h
	if !s.dock.Docked() {
		s.canvasW, s.canvasH = w, h
		s.canvas = host.NewBuffer(w, h)
	}
}

// SetDockSize changes the canvas size used while docked.
func (s *Host) SetDockSize(w, h int) {
	s.dockW, s.dockH = w, h
	if s.dock.Docked() {
		s.applyCanvas()
	}
}

// ForceDock applies a dock state immediately, as an external toggle would.
func (s *Host) ForceDock(d host.DockState) {
	s.dock = d
	s.applyCanvas()
}

// Terminate queues the host terminate request.
func (s *Host) Terminate() { s.keys = append(s.keys, host.KeyTerminate) }

// SetCursorSupport toggles basic cursor support.
func (s *Host) SetCursorSupport(ok bool) { s.cursorSupport = ok }

// --- assertions ---

// Opened reports whether the surface is currently open.
func (s *Host) Opened() bool { return s.opened }

// LastOpen returns the options of the most recent Open.
func (s *Host) LastOpen() host.OpenOptions { return s.lastOpen }

// OpenCount returns how many times Open succeeded.
func (s *Host) OpenCount() int { return s.opens }

// CloseCount returns how many times Close closed an open surface.
func (s *Host) CloseCount() int { return s.closes }

// PresentCount returns the number of Present calls.
func (s *Host) PresentCount() int { return s.presents }

// CommitCount returns the number of Commit calls.
func (s *Host) CommitCount() int { return s.commits }

// PollCount returns the number of Poll calls.
func (s *Host) PollCount() int { return s.polls }

// Cursor returns the last applied cursor.
func (s *Host) Cursor() host.Cursor { return s.cursor }

// CursorSets returns the number of SetCursor calls that applied.
func (s *Host) CursorSets() int { return s.cursorSets }

// QueuedDrops returns the not-yet-polled drop paths.
func (s *Host) QueuedDrops() []string { return s.drops }

// CellAt returns the presented canvas cell.
func (s *Host) CellAt(x, y int) host.Cell { return s.canvas.Get(x, y) }

// Capture renders the presented canvas as newline-joined rows.
func (s *Host) Capture() string {
	var sb strings.Builder
	for y := 0; y < s.canvasH; y++ {
		for x := 0; x < s.canvasW; x++ {
			r := s.canvas.Get(x, y).Rune
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		if y < s.canvasH-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ContainsText reports whether the presented canvas contains the text.
func (s *Host) ContainsText(text string) bool {
	return strings.Contains(s.Capture(), text)
}

var _ host.Surface = (*Host)(nil)
