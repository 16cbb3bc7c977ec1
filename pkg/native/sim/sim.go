// Package sim implements the native window capability against an in-memory
// window manager: a virtual screen, windows with chrome, z-order, styles,
// opacity and focus. Tests use it to exercise handle resolution, geometry
// sync, occlusion and bottom-up coordinate translation without an OS.
package sim

import (
	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/native"
)

type window struct {
	handle     native.Handle
	title      string
	outer      native.Rect // top-down screen coordinates
	insetL     int
	insetR     int
	insetT     int
	insetB     int
	borderless bool
	pinned     bool
	opacity    float64
	layered    bool
	visible    bool
}

func (w *window) client() native.Rect {
	return native.Rect{
		X: w.outer.X + w.insetL,
		Y: w.outer.Y + w.insetT,
		W: w.outer.W - w.insetL - w.insetR,
		H: w.outer.H - w.insetT - w.insetB,
	}
}

// Manager is a simulated OS window manager implementing native.Controller.
// Rectangles cross the API in native orientation: top-down unless YAxisUp
// was enabled, in which case Y grows from the bottom of the virtual screen.
type Manager struct {
	screen  native.Rect
	yAxisUp bool

	// Default chrome for new windows.
	borderW int
	titleH  int

	windows map[native.Handle]*window
	zorder  []native.Handle // topmost last
	focused native.Handle
	next    native.Handle

	cursor       host.Cursor
	positionSets int
	styleSets    int
	fillRects    int
}

// NewManager creates a manager with a 1920x1080 virtual screen and a small
// default chrome (1-unit borders, 3-unit title bar).
func NewManager() *Manager {
	return &Manager{
		screen:  native.Rect{X: 0, Y: 0, W: 1920, H: 1080},
		borderW: 1,
		titleH:  3,
		windows: make(map[native.Handle]*window),
		next:    1000,
	}
}

// SetScreen replaces the virtual screen rectangle.
func (m *Manager) SetScreen(r native.Rect) { m.screen = r }

// SetYAxisUp switches the manager to bottom-up native coordinates.
func (m *Manager) SetYAxisUp(up bool) { m.yAxisUp = up }

// SetChrome changes the default chrome applied to new windows.
func (m *Manager) SetChrome(borderW, titleH int) {
	m.borderW = borderW
	m.titleH = titleH
}

// CreateWindow adds a visible window whose client rect (top-down screen
// coordinates) is the given rectangle, and returns its handle.
func (m *Manager) CreateWindow(title string, client native.Rect) native.Handle {
	h := m.next
	m.next++
	w := &window{
		handle:  h,
		title:   title,
		insetL:  m.borderW,
		insetR:  m.borderW,
		insetT:  m.titleH,
		insetB:  m.borderW,
		opacity: 1,
		visible: true,
	}
	w.outer = native.Rect{
		X: client.X - w.insetL,
		Y: client.Y - w.insetT,
		W: client.W + w.insetL + w.insetR,
		H: client.H + w.insetT + w.insetB,
	}
	m.windows[h] = w
	m.zorder = append(m.zorder, h)
	m.focused = h
	return h
}

// DestroyWindow removes a window.
func (m *Manager) DestroyWindow(h native.Handle) {
	delete(m.windows, h)
	for i, zh := range m.zorder {
		if zh == h {
			m.zorder = append(m.zorder[:i], m.zorder[i+1:]...)
			break
		}
	}
	if m.focused == h {
		m.focused = 0
		if len(m.zorder) > 0 {
			m.focused = m.zorder[len(m.zorder)-1]
		}
	}
}

func (m *Manager) raise(h native.Handle) {
	for i, zh := range m.zorder {
		if zh == h {
			m.zorder = append(m.zorder[:i], m.zorder[i+1:]...)
			m.zorder = append(m.zorder, h)
			return
		}
	}
}

// rectOut converts an internal top-down rect to native orientation.
func (m *Manager) rectOut(r native.Rect) native.Rect {
	if m.yAxisUp {
		r.Y = m.screen.H - (r.Y + r.H)
	}
	return r
}

// rectIn converts a native-orientation rect to internal top-down space. The
// flip is involutive, so the same formula serves both directions.
func (m *Manager) rectIn(r native.Rect) native.Rect { return m.rectOut(r) }

func (m *Manager) pointIn(x, y int) (int, int) {
	if m.yAxisUp {
		y = m.screen.H - 1 - y
	}
	return x, y
}

func (m *Manager) pointOut(x, y int) (int, int) { return m.pointIn(x, y) }

// --- native.Controller ---

func (m *Manager) Available() bool { return true }

func (m *Manager) FindByTitle(title string) (native.Handle, bool) {
	// Topmost-first so duplicate titles resolve the way an OS z-scan would.
	for i := len(m.zorder) - 1; i >= 0; i-- {
		w := m.windows[m.zorder[i]]
		if w != nil && w.title == title {
			return w.handle, true
		}
	}
	return 0, false
}

func (m *Manager) ListByTitle(title string) []native.Handle {
	var out []native.Handle
	for i := len(m.zorder) - 1; i >= 0; i-- {
		w := m.windows[m.zorder[i]]
		if w != nil && w.title == title {
			out = append(out, w.handle)
		}
	}
	return out
}

func (m *Manager) ClientRect(h native.Handle) (native.Rect, bool) {
	w := m.windows[h]
	if w == nil {
		return native.Rect{}, false
	}
	return m.rectOut(w.client()), true
}

func (m *Manager) WindowRect(h native.Handle) (native.Rect, bool) {
	w := m.windows[h]
	if w == nil {
		return native.Rect{}, false
	}
	return m.rectOut(w.outer), true
}

func (m *Manager) SetPosition(h native.Handle, r native.Rect) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	w.outer = m.rectIn(r)
	m.positionSets++
	return true
}

func (m *Manager) SetStyle(h native.Handle, borderless, pinned bool) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	if borderless != w.borderless {
		client := w.client()
		w.borderless = borderless
		if borderless {
			w.insetL, w.insetR, w.insetT, w.insetB = 0, 0, 0, 0
		} else {
			w.insetL, w.insetR, w.insetB = m.borderW, m.borderW, m.borderW
			w.insetT = m.titleH
		}
		// Chrome changes keep the client area where it was.
		w.outer = native.Rect{
			X: client.X - w.insetL,
			Y: client.Y - w.insetT,
			W: client.W + w.insetL + w.insetR,
			H: client.H + w.insetT + w.insetB,
		}
	}
	w.pinned = pinned
	if pinned {
		m.raise(h)
	}
	m.styleSets++
	return true
}

func (m *Manager) SetOpacity(h native.Handle, alpha float64) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	w.opacity = alpha
	w.layered = true
	return true
}

func (m *Manager) ClearLayered(h native.Handle) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	w.layered = false
	return true
}

func (m *Manager) SetTitle(h native.Handle, title string) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	w.title = title
	return true
}

func (m *Manager) SetCursor(c host.Cursor) bool {
	m.cursor = c
	return true
}

func (m *Manager) Show(h native.Handle) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	w.visible = true
	return true
}

func (m *Manager) Hide(h native.Handle) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	w.visible = false
	return true
}

func (m *Manager) Focus(h native.Handle) bool {
	w := m.windows[h]
	if w == nil {
		return false
	}
	m.focused = h
	m.raise(h)
	return true
}

func (m *Manager) Focused() (native.Handle, bool) {
	if m.focused == 0 {
		return 0, false
	}
	return m.focused, true
}

func (m *Manager) WindowFromPoint(x, y int) (native.Handle, bool) {
	px, py := m.pointIn(x, y)
	for i := len(m.zorder) - 1; i >= 0; i-- {
		w := m.windows[m.zorder[i]]
		if w == nil || !w.visible {
			continue
		}
		r := w.outer
		if px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H {
			return w.handle, true
		}
	}
	return 0, false
}

func (m *Manager) ClientToScreen(h native.Handle, x, y int) (int, int, bool) {
	w := m.windows[h]
	if w == nil {
		return 0, 0, false
	}
	c := w.client()
	sx, sy := m.pointOut(c.X+x, c.Y+y)
	return sx, sy, true
}

func (m *Manager) ScreenRect(x, y int) (native.Rect, bool) {
	return m.rectOut(m.screen), true
}

func (m *Manager) YAxisUp() bool { return m.yAxisUp }

func (m *Manager) FillRect(h native.Handle, r native.Rect, argb uint32) bool {
	if m.windows[h] == nil {
		return false
	}
	m.fillRects++
	return true
}

// --- assertions ---

// WindowState is a copy of a simulated window's state for assertions.
type WindowState struct {
	Title      string
	Outer      native.Rect // top-down
	Client     native.Rect // top-down
	Borderless bool
	Pinned     bool
	Opacity    float64
	Layered    bool
	Visible    bool
}

// Window returns a copy of the window's state, in top-down coordinates
// regardless of the configured axis.
func (m *Manager) Window(h native.Handle) (WindowState, bool) {
	w := m.windows[h]
	if w == nil {
		return WindowState{}, false
	}
	return WindowState{
		Title:      w.title,
		Outer:      w.outer,
		Client:     w.client(),
		Borderless: w.borderless,
		Pinned:     w.pinned,
		Opacity:    w.opacity,
		Layered:    w.layered,
		Visible:    w.visible,
	}, true
}

// MoveWindow moves a window's outer origin in top-down coordinates, as an
// external user drag would.
func (m *Manager) MoveWindow(h native.Handle, x, y int) {
	if w := m.windows[h]; w != nil {
		w.outer.X = x
		w.outer.Y = y
	}
}

// Raise brings a window to the top of the z-order.
func (m *Manager) Raise(h native.Handle) { m.raise(h) }

// DropFocus clears keyboard focus, as focusing another application would.
func (m *Manager) DropFocus() { m.focused = 0 }

// Cursor returns the last cursor applied through the controller.
func (m *Manager) Cursor() host.Cursor { return m.cursor }

// PositionSets returns the total number of SetPosition calls.
func (m *Manager) PositionSets() int { return m.positionSets }

// StyleSets returns the total number of SetStyle calls.
func (m *Manager) StyleSets() int { return m.styleSets }

// FillRects returns the total number of FillRect calls.
func (m *Manager) FillRects() int { return m.fillRects }

var _ native.Controller = (*Manager)(nil)
