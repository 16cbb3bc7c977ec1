package widgets

import (
	"testing"
	"time"

	"github.com/rtkui/rtk/pkg/host"
	hostsim "github.com/rtkui/rtk/pkg/host/sim"
	"github.com/rtkui/rtk/pkg/rtk"
	"github.com/rtkui/rtk/pkg/telemetry"
)

// manualClock advances only when a test says so.
type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// fixture hosts widgets in a window over the simulated surface.
type fixture struct {
	surf *hostsim.Host
	clk  *manualClock
	win  *rtk.Window
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		surf: hostsim.New(80, 24),
		clk:  &manualClock{t: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)},
	}
	w, err := rtk.New(rtk.Config{
		Surface: f.surf,
		Clock:   f.clk,
		Title:   "widgets test",
		Width:   80,
		Height:  24,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Close)
	if err := w.Open(rtk.OpenOptions{}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.win = w
	return f
}

// tick advances one nominal frame and runs the pipeline.
func (f *fixture) tick() bool {
	f.clk.advance(f.win.Settings().Frame.TickInterval)
	return f.win.Tick()
}

func (f *fixture) mustTick(t *testing.T) {
	t.Helper()
	if !f.tick() {
		t.Fatal("window stopped unexpectedly")
	}
}

func (f *fixture) counter(name string, labels telemetry.Labels) int64 {
	return f.win.Metrics().Counter(name, labels).Get()
}

// click moves to the given canvas position and presses then releases the
// left button, ticking between transitions.
func (f *fixture) click(t *testing.T, x, y int) {
	t.Helper()
	f.surf.MoveMouse(x, y)
	f.mustTick(t)
	f.surf.Press(host.ButtonLeft)
	f.mustTick(t)
	f.surf.Release(host.ButtonLeft)
	f.mustTick(t)
}

// probe is a fixed-frame widget that records every event it sees, with the
// coordinates in effect at dispatch time.
type probe struct {
	Base
	rect   host.Rect
	events []rtk.Event
	handle func(*rtk.Event)
}

func (p *probe) Reflow(ctx rtk.ReflowContext) host.Rect {
	return p.realize(ctx, p.rect)
}

func (p *probe) Draw(painter *rtk.Painter) {}

func (p *probe) HandleEvent(ev *rtk.Event) {
	p.events = append(p.events, *ev)
	if p.handle != nil {
		p.handle(ev)
	}
}

func (p *probe) count(typ rtk.EventType) int {
	n := 0
	for _, ev := range p.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func (p *probe) last(typ rtk.EventType) (rtk.Event, bool) {
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Type == typ {
			return p.events[i], true
		}
	}
	return rtk.Event{}, false
}

func TestPlace(t *testing.T) {
	bounds := host.Rect{X: 10, Y: 20, W: 40, H: 30}
	cases := []struct {
		name       string
		x, y, w, h int
		want       host.Rect
	}{
		{"explicit", 2, 3, 5, 4, host.Rect{X: 12, Y: 23, W: 5, H: 4}},
		{"stretch width", 2, 3, 0, 4, host.Rect{X: 12, Y: 23, W: 38, H: 4}},
		{"stretch height", 2, 3, 5, 0, host.Rect{X: 12, Y: 23, W: 5, H: 27}},
		{"stretch both", 0, 0, 0, 0, host.Rect{X: 10, Y: 20, W: 40, H: 30}},
		{"offset past edge clamps", 45, 40, 0, 0, host.Rect{X: 55, Y: 60, W: 0, H: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := place(bounds, tc.x, tc.y, tc.w, tc.h); got != tc.want {
				t.Fatalf("place(%d,%d,%d,%d) = %+v, want %+v", tc.x, tc.y, tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestHeldFrame(t *testing.T) {
	b := &Base{}
	full := rtk.ReflowContext{Bounds: host.Rect{W: 80, H: 24}, Full: true}

	// Before the first full pass there is nothing to hold.
	if _, ok := b.heldFrame(rtk.ReflowContext{Bounds: host.Rect{W: 10, H: 10}}); ok {
		t.Fatal("heldFrame before layout should not hold")
	}

	b.realize(full, host.Rect{X: 2, Y: 1, W: 5, H: 1})

	// A partial pass hands the widget its own frame back; the held frame
	// must come back unchanged instead of being re-offset.
	partial := rtk.ReflowContext{Bounds: b.Frame()}
	r, ok := b.heldFrame(partial)
	if !ok || r != (host.Rect{X: 2, Y: 1, W: 5, H: 1}) {
		t.Fatalf("heldFrame on partial pass = %+v, %v", r, ok)
	}

	// A full pass always re-derives placement.
	if _, ok := b.heldFrame(full); ok {
		t.Fatal("heldFrame should not hold on a full pass")
	}
}

func TestSpacerFill(t *testing.T) {
	f := newFixture(t)
	sp := &Spacer{X: 4, Y: 2, W: 3, H: 2, Fill: '.', Style: host.DefaultStyle()}
	f.win.AddChild(sp)
	f.mustTick(t)

	if got := sp.Frame(); got != (host.Rect{X: 4, Y: 2, W: 3, H: 2}) {
		t.Fatalf("spacer frame = %+v", got)
	}
	for y := 2; y < 4; y++ {
		for x := 4; x < 7; x++ {
			if c := f.surf.CellAt(x, y); c.Rune != '.' {
				t.Fatalf("cell (%d,%d) = %q, want '.'", x, y, c.Rune)
			}
		}
	}
	if c := f.surf.CellAt(7, 2); c.Rune == '.' {
		t.Fatal("fill leaked past the spacer frame")
	}
}

func TestSpacerZeroFillDrawsNothing(t *testing.T) {
	f := newFixture(t)
	sp := &Spacer{X: 0, Y: 0, W: 5, H: 5}
	f.win.AddChild(sp)
	f.mustTick(t)

	if c := f.surf.CellAt(1, 1); c.Rune != ' ' {
		t.Fatalf("expected blank cell, got %q", c.Rune)
	}
}
