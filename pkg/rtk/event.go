package rtk

import (
	"time"

	"github.com/rtkui/rtk/pkg/host"
)

// EventType identifies one kind of synthesized input event.
type EventType int

const (
	EventMouseMove EventType = iota
	EventMouseDown
	EventMouseUp
	EventWheel
	EventKey
	EventDrop
)

func (t EventType) String() string {
	switch t {
	case EventMouseMove:
		return "mousemove"
	case EventMouseDown:
		return "mousedown"
	case EventMouseUp:
		return "mouseup"
	case EventWheel:
		return "wheel"
	case EventKey:
		return "key"
	case EventDrop:
		return "drop"
	}
	return "unknown"
}

// Event is one synthesized input record, constructed per dispatch and passed
// by pointer so handlers can mark it handled. It is valid only for the
// duration of the dispatch that delivered it; handlers that retain one must
// Clone it first.
type Event struct {
	Type EventType

	// X, Y is the mouse position in content coordinates.
	X, Y int

	// Button is the transitioning button for down/up events, zero otherwise.
	Button host.Buttons

	// Held is the held-button mask after the transition.
	Held host.Buttons

	// Mods is the modifier portion of the host capability mask.
	Mods host.Buttons

	// WheelX, WheelY are normalized wheel distances. Positive Y scrolls
	// content down.
	WheelX, WheelY float64

	// Key is the raw polled code; Ch is its printable form, 0 when none.
	Key host.Key
	Ch  rune

	// Files carries dropped paths in drop order.
	Files []string

	Time time.Time

	// Simulated marks events synthesized by the toolkit rather than sourced
	// from a host state change. Some handlers must not react identically to
	// both.
	Simulated bool

	// Handled stops further propagation once set by a handler.
	Handled bool

	// suppressed routes the event through internal bookkeeping without
	// widget propagation, used while a touch-activation delay withholds the
	// logical press.
	suppressed bool
}

// Clone returns a copy safe to retain past the current dispatch.
func (e *Event) Clone() *Event {
	c := *e
	if len(e.Files) > 0 {
		c.Files = append([]string(nil), e.Files...)
	}
	return &c
}
