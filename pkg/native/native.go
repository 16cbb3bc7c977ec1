// Package native defines the optional OS window capability. When present it
// gives the toolkit precise control over the script's OS window (move,
// resize, style, opacity, z-order, cursor, focus, occlusion queries); when
// absent every operation is a no-op reporting ok=false and dependent window
// attributes degrade to best-effort.
package native

import "github.com/rtkui/rtk/pkg/host"

// Handle identifies an OS window. Zero is never a valid handle.
type Handle uintptr

// Rect is an OS-space rectangle. Y orientation is controller-defined; see
// Controller.YAxisUp.
type Rect struct {
	X, Y, W, H int
}

// Controller is the native window capability, present or absent as a whole.
// Implementations must be cheap to call when absent.
type Controller interface {
	// Available reports whether the capability is present. When false, all
	// other methods return zero values and ok=false.
	Available() bool

	// FindByTitle returns a window with exactly this title. With duplicate
	// titles any one of them may be returned.
	FindByTitle(title string) (Handle, bool)

	// ListByTitle returns every window with exactly this title.
	ListByTitle(title string) []Handle

	// ClientRect returns the client-area rectangle in screen coordinates.
	ClientRect(h Handle) (Rect, bool)

	// WindowRect returns the outer rectangle including chrome.
	WindowRect(h Handle) (Rect, bool)

	// SetPosition moves and sizes the outer rectangle.
	SetPosition(h Handle, r Rect) bool

	// SetStyle applies border and always-on-top styling.
	SetStyle(h Handle, borderless, pinned bool) bool

	// SetOpacity applies whole-window opacity in [0, 1], enabling the OS
	// layering flag as needed.
	SetOpacity(h Handle, alpha float64) bool

	// ClearLayered strips the OS layering flag without touching other style
	// bits. Used when docking so host-owned windows keep their compositing.
	ClearLayered(h Handle) bool

	SetTitle(h Handle, title string) bool

	// SetCursor applies a cursor shape from the richer native set.
	SetCursor(c host.Cursor) bool

	Show(h Handle) bool
	Hide(h Handle) bool

	Focus(h Handle) bool

	// Focused returns the window holding keyboard focus.
	Focused() (Handle, bool)

	// WindowFromPoint returns the topmost window at a screen point.
	WindowFromPoint(x, y int) (Handle, bool)

	// ClientToScreen converts client coordinates to screen coordinates.
	ClientToScreen(h Handle, x, y int) (int, int, bool)

	// ScreenRect returns the rectangle of the monitor containing the point.
	ScreenRect(x, y int) (Rect, bool)

	// YAxisUp reports whether native Y coordinates grow upward from the
	// bottom of the screen.
	YAxisUp() bool

	// FillRect paints a solid rectangle directly on the window, used only to
	// mitigate flicker when a window grows before its next repaint.
	FillRect(h Handle, r Rect, argb uint32) bool
}

// None returns the absent controller.
func None() Controller { return absent{} }

type absent struct{}

func (absent) Available() bool                                  { return false }
func (absent) FindByTitle(string) (Handle, bool)                { return 0, false }
func (absent) ListByTitle(string) []Handle                      { return nil }
func (absent) ClientRect(Handle) (Rect, bool)                   { return Rect{}, false }
func (absent) WindowRect(Handle) (Rect, bool)                   { return Rect{}, false }
func (absent) SetPosition(Handle, Rect) bool                    { return false }
func (absent) SetStyle(Handle, bool, bool) bool                 { return false }
func (absent) SetOpacity(Handle, float64) bool                  { return false }
func (absent) ClearLayered(Handle) bool                         { return false }
func (absent) SetTitle(Handle, string) bool                     { return false }
func (absent) SetCursor(host.Cursor) bool                       { return false }
func (absent) Show(Handle) bool                                 { return false }
func (absent) Hide(Handle) bool                                 { return false }
func (absent) Focus(Handle) bool                                { return false }
func (absent) Focused() (Handle, bool)                          { return 0, false }
func (absent) WindowFromPoint(int, int) (Handle, bool)          { return 0, false }
func (absent) ClientToScreen(Handle, int, int) (int, int, bool) { return 0, 0, false }
func (absent) ScreenRect(int, int) (Rect, bool)                 { return Rect{}, false }
func (absent) YAxisUp() bool                                    { return false }
func (absent) FillRect(Handle, Rect, uint32) bool               { return false }

var _ Controller = absent{}
