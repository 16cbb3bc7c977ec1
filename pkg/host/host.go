// Package host defines the polled surface a DAW-style host exposes to the
// toolkit: per-tick input state, a canvas, docking, and a blit target.
// Implementations adapt a concrete host (the bundled terminal adapter, the
// scripted simulator used in tests, or an embedding application's own
// surface) to this contract.
package host

// Buttons is the host button/modifier bitmask. Modifier bits are interleaved
// with button bits, matching the convention of DAW hosts that report both in
// a single polled capability mask.
type Buttons uint8

const (
	ButtonLeft   Buttons = 1 << 0
	ButtonRight  Buttons = 1 << 1
	ModCtrl      Buttons = 1 << 2
	ModShift     Buttons = 1 << 3
	ModAlt       Buttons = 1 << 4
	ModSuper     Buttons = 1 << 5
	ButtonMiddle Buttons = 1 << 6
)

// ButtonMask selects the mouse button bits of a capability mask.
const ButtonMask = ButtonLeft | ButtonRight | ButtonMiddle

// ModMask selects the keyboard modifier bits of a capability mask.
const ModMask = ModCtrl | ModShift | ModAlt | ModSuper

// Key is a polled key code. Zero means no key was pressed this tick; a
// negative value is the host's terminate request. Codes 1-26 are control
// characters (with backspace, tab, enter and escape reserved inside that
// range), 32-126 are printable ASCII, and two vendor ranges fold back to
// printable ASCII by a fixed offset. Named keys live above VendorMax.
type Key int32

const (
	KeyNone      Key = 0
	KeyTerminate Key = -1

	KeyBackspace Key = 8
	KeyTab       Key = 9
	KeyEnter     Key = 13
	KeyEscape    Key = 27
)

// Vendor ranges: some hosts report shifted or numpad printables out of band.
// A code in [base+33, base+126] folds to the ASCII character code-base.
const (
	VendorABase Key = 0x100
	VendorBBase Key = 0x200
	VendorMax   Key = 0x2FF
)

// Named non-printable keys.
const (
	KeyLeft Key = 0x10001 + iota
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// DockState packs a docker id in the high bits with the docked flag in bit 0.
type DockState int

// MakeDock builds a DockState from a docker id and a docked flag.
func MakeDock(docker int, docked bool) DockState {
	s := DockState(docker << 8)
	if docked {
		s |= 1
	}
	return s
}

// Docked reports whether the state describes a docked window.
func (d DockState) Docked() bool { return d&1 != 0 }

// Docker returns the docker id portion of the state.
func (d DockState) Docker() int { return int(d >> 8) }

// Cursor identifies a mouse cursor shape. CursorNone means unclaimed.
type Cursor int

const (
	CursorNone Cursor = iota
	CursorArrow
	CursorIBeam
	CursorHand
	CursorSizeNS
	CursorSizeEW
	CursorSizeNESW
	CursorSizeNWSE
	CursorMove
	CursorWait
)

// Snapshot is one tick's polled device state. It is immutable once returned
// by Poll; transient device state (wheel, key, drop queue) has already been
// cleared, so a second Poll in the same tick reports none of it.
type Snapshot struct {
	MouseX, MouseY int
	Buttons        Buttons

	// WheelY and WheelX are raw device deltas, nominally ±120 per notch.
	WheelY, WheelX int

	// Key is the single code polled this tick, or KeyNone.
	Key Key

	// Files are drop paths drained this tick, in drop order.
	Files []string

	CanvasW, CanvasH int
	Dock             DockState
}

// Terminated reports whether the host requested termination this tick.
func (s Snapshot) Terminated() bool { return s.Key < 0 }

// OpenOptions carries window placement hints for Surface.Open.
type OpenOptions struct {
	Title         string
	Width, Height int
	X, Y          int

	// Center requests centered placement on surfaces that know their screen
	// size, overriding X and Y.
	Center bool

	Dock DockState
}

// Surface is the host's polled graphics/input interface. All methods are
// called from the single tick goroutine.
type Surface interface {
	// Open creates or attaches the host window for this script.
	Open(o OpenOptions) error

	// Close detaches the host window. Safe to call when not open.
	Close()

	// Poll returns this tick's device snapshot, draining wheel deltas, the
	// key queue head, and the drop-file queue exactly once.
	Poll() Snapshot

	// Canvas returns the current drawable size in canvas units.
	Canvas() (w, h int)

	// Dock returns the host's current dock state.
	Dock() DockState

	// SetDock asks the host to transition dock state. The result is observed
	// on a later Poll/Dock, not synchronously.
	SetDock(DockState)

	// Present blits a buffer onto the canvas at the given origin.
	Present(b *Buffer, x, y int)

	// Commit flushes the frame and clears any residual transient device
	// state the host keeps per tick.
	Commit()

	// SetCursor applies a basic cursor shape. Returns false when the surface
	// has no cursor support.
	SetCursor(c Cursor) bool
}
