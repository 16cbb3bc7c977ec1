package rtk

import (
	"io"
	"testing"
	"time"

	"github.com/rtkui/rtk/pkg/config"
	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/logging"
	"github.com/rtkui/rtk/pkg/native"
	"github.com/rtkui/rtk/pkg/telemetry"
)

func withSettings(s *config.Settings) func(*Config) {
	return func(c *Config) { c.Settings = s }
}

func TestButtonTransitionOncePerTick(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})
	f.surf.MoveMouse(10, 10)
	f.tick()

	f.tick() // idle, nothing pressed
	f.surf.Press(host.ButtonLeft)
	f.tick() // transition to down
	f.tick() // held, no transition
	f.surf.Release(host.ButtonLeft)
	f.tick() // transition to up

	if got := rec.count(EventMouseDown, false); got != 1 {
		t.Fatalf("real mouse downs = %d, want 1", got)
	}
	if got := rec.count(EventMouseUp, false); got != 1 {
		t.Fatalf("real mouse ups = %d, want 1", got)
	}
	// The held tick resynthesizes the down for long-press consumers.
	if got := rec.count(EventMouseDown, true); got < 1 {
		t.Fatal("expected a resynthesized down on the held tick")
	}

	down, _ := rec.last(EventMouseDown)
	if down.Button != host.ButtonLeft || down.Held&host.ButtonLeft == 0 {
		t.Fatalf("down event: button %v held %v", down.Button, down.Held)
	}
	up, _ := rec.last(EventMouseUp)
	if up.Button != host.ButtonLeft || up.Held&host.ButtonLeft != 0 {
		t.Fatalf("up event: button %v held %v", up.Button, up.Held)
	}

	if got := f.counter("rtk_events_total", telemetry.Labels{"type": "mousedown"}); got < 1 {
		t.Fatalf("mousedown counter = %d, want >= 1", got)
	}
}

func TestSimultaneousPressesSpreadAcrossTicks(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.SetButtons(host.ButtonLeft | host.ButtonRight)
	f.tick()
	if got := rec.count(EventMouseDown, false); got != 1 {
		t.Fatalf("downs after first tick = %d, want 1", got)
	}
	first, _ := rec.last(EventMouseDown)
	if first.Button != host.ButtonLeft {
		t.Fatalf("first transition = %v, want left", first.Button)
	}

	f.tick()
	if got := rec.count(EventMouseDown, false); got != 2 {
		t.Fatalf("downs after second tick = %d, want 2", got)
	}
	second, _ := rec.last(EventMouseDown)
	if second.Button != host.ButtonRight {
		t.Fatalf("second transition = %v, want right", second.Button)
	}
	if second.Held != host.ButtonLeft|host.ButtonRight {
		t.Fatalf("held after both downs = %v", second.Held)
	}
}

func TestWheelDamped(t *testing.T) {
	s := config.Default()
	s.Input.WheelDamping = config.WheelDamped
	f := newFixture(t, false, withSettings(s))
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.Wheel(-120)
	f.tick()
	ev, ok := rec.last(EventWheel)
	if !ok {
		t.Fatal("no wheel event")
	}
	if ev.WheelY != 1.0 {
		t.Fatalf("one notch toward user = %v, want 1.0", ev.WheelY)
	}

	f.surf.Wheel(120)
	f.tick()
	ev, _ = rec.last(EventWheel)
	if ev.WheelY != -1.0 {
		t.Fatalf("one notch away = %v, want -1.0", ev.WheelY)
	}

	// Damping is sub-linear: four notches land as two units, not four.
	f.surf.Wheel(-480)
	f.tick()
	ev, _ = rec.last(EventWheel)
	if ev.WheelY != 2.0 {
		t.Fatalf("four notches = %v, want 2.0", ev.WheelY)
	}

	// The polled delta is consumed exactly once.
	n := rec.count(EventWheel, false) + rec.count(EventWheel, true)
	f.tick()
	if got := rec.count(EventWheel, false) + rec.count(EventWheel, true); got != n {
		t.Fatal("wheel delta consumed twice")
	}
}

func TestWheelLinear(t *testing.T) {
	s := config.Default()
	s.Input.WheelDamping = config.WheelLinear
	f := newFixture(t, false, withSettings(s))
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.Wheel(-240)
	f.surf.WheelH(120)
	f.tick()
	ev, ok := rec.last(EventWheel)
	if !ok {
		t.Fatal("no wheel event")
	}
	if ev.WheelY != 2.0 {
		t.Fatalf("WheelY = %v, want 2.0", ev.WheelY)
	}
	if ev.WheelX != -1.0 {
		t.Fatalf("WheelX = %v, want -1.0", ev.WheelX)
	}
}

func TestKeyClassification(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	cases := []struct {
		code host.Key
		ch   rune
		ctrl bool
	}{
		{host.Key(3), 'c', true},                 // ctrl-c
		{host.Key('A'), 'A', false},              // printable passes through
		{host.KeyBackspace, 0, false},            // named key, no ctrl bit
		{host.VendorABase + 'a', 'a', false},     // vendor range A folds
		{host.VendorBBase + '5', '5', false},     // vendor range B folds
		{host.KeyF1, 0, false},                   // extended key, no printable
	}
	for _, c := range cases {
		f.surf.TypeKey(c.code)
		f.tick()
		ev, ok := rec.last(EventKey)
		if !ok {
			t.Fatalf("key %#x: no event", int32(c.code))
		}
		if ev.Ch != c.ch {
			t.Errorf("key %#x: ch = %q, want %q", int32(c.code), ev.Ch, c.ch)
		}
		if got := ev.Mods&host.ModCtrl != 0; got != c.ctrl {
			t.Errorf("key %#x: ctrl = %v, want %v", int32(c.code), got, c.ctrl)
		}
	}
}

func TestKeyGoesToFocusedWidgetFirst(t *testing.T) {
	f := newFixture(t, false, nil)
	foc := &focusStub{}
	foc.frame = host.Rect{W: 100, H: 100}
	f.win.AddChild(foc)
	top := f.addRecorder(t, host.Rect{W: 800, H: 600}) // added later, on top

	foc.handle = func(ev *Event) {
		if ev.Type == EventKey {
			ev.Handled = true
		}
	}
	f.win.FocusWidget(foc)

	f.surf.TypeRune('x')
	f.tick()

	if got := foc.count(EventKey, false); got != 1 {
		t.Fatalf("focused widget keys = %d, want 1", got)
	}
	if got := top.count(EventKey, false); got != 0 {
		t.Fatalf("top widget saw a handled key: %d", got)
	}
}

func TestKeyObserverOrder(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	pres, posts := 0, 0
	f.win.OnKeyPre(func(ev *Event) {
		pres++
		ev.Handled = true
	})
	f.win.OnKeyPost(func(ev *Event) { posts++ })

	f.surf.TypeRune('x')
	f.tick()

	if pres != 1 || posts != 1 {
		t.Fatalf("pre = %d post = %d, want 1 and 1", pres, posts)
	}
	if got := rec.count(EventKey, false); got != 0 {
		t.Fatalf("widget saw a key handled by the pre observer: %d", got)
	}
}

func TestEscapeClosesUndockedWindow(t *testing.T) {
	f := newFixture(t, false, nil)
	f.tick()

	f.surf.TypeKey(host.KeyEscape)
	if f.tick() {
		t.Fatal("escape should close an undocked window")
	}
	if f.surf.CloseCount() != 1 {
		t.Fatalf("surface closes = %d, want 1", f.surf.CloseCount())
	}
}

func TestHandledEscapeDoesNotClose(t *testing.T) {
	f := newFixture(t, false, nil)
	f.win.OnKeyPre(func(ev *Event) {
		if ev.Key == host.KeyEscape {
			ev.Handled = true
		}
	})
	f.tick()

	f.surf.TypeKey(host.KeyEscape)
	if !f.tick() {
		t.Fatal("handled escape must not close the window")
	}
	if !f.win.Running() {
		t.Fatal("window stopped")
	}
}

func TestOverlayTogglesOnlyWithDebugLogging(t *testing.T) {
	f := newFixture(t, false, nil) // default logger is info level
	f.tick()
	f.surf.TypeKey(host.KeyF12)
	f.tick()
	if f.win.OverlayVisible() {
		t.Fatal("overlay toggled without debug logging")
	}
	f.win.Close()

	lg := logging.New(io.Discard, "overlay-test")
	lg.SetMinLevel(logging.LevelDebug)
	g := newFixture(t, false, func(c *Config) { c.Logger = lg })
	g.tick()
	g.surf.TypeKey(host.KeyF12)
	g.tick()
	if !g.win.OverlayVisible() {
		t.Fatal("overlay did not toggle with debug logging")
	}
	g.surf.TypeKey(host.KeyF12)
	g.tick()
	if g.win.OverlayVisible() {
		t.Fatal("overlay did not toggle back off")
	}
}

func TestDropsDeliverOnceInOrder(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.MoveMouse(40, 30)
	f.tick()
	f.surf.Drop("/tracks/kick.wav", "/tracks/snare.wav")
	f.tick()

	ev, ok := rec.last(EventDrop)
	if !ok {
		t.Fatal("no drop event")
	}
	if len(ev.Files) != 2 || ev.Files[0] != "/tracks/kick.wav" || ev.Files[1] != "/tracks/snare.wav" {
		t.Fatalf("files = %v", ev.Files)
	}
	if ev.X != 40 || ev.Y != 30 {
		t.Fatalf("drop position = (%d,%d), want (40,30)", ev.X, ev.Y)
	}
	if len(f.surf.QueuedDrops()) != 0 {
		t.Fatal("drop queue not drained by poll")
	}

	n := rec.count(EventDrop, false)
	f.tick()
	if got := rec.count(EventDrop, false); got != n {
		t.Fatal("drop delivered twice")
	}
}

func TestLongPressResynthesisCaps(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})
	f.surf.MoveMouse(10, 10)
	f.tick()

	f.surf.Press(host.ButtonLeft)
	f.tick()

	in := f.win.Settings().Input
	interval := f.win.Settings().Frame.TickInterval
	limit := in.LongPressDelay + in.TouchActivationDelay + 2*interval
	expected := int(limit / interval)

	for i := 0; i < expected+10; i++ {
		f.tick()
	}
	if got := rec.count(EventMouseDown, true); got != expected {
		t.Fatalf("resynthesized downs = %d, want %d", got, expected)
	}
}

func TestTouchTapDeliversDeferredDownBeforeUp(t *testing.T) {
	s := config.Default()
	s.Input.TouchActivationDelay = 200 * time.Millisecond
	f := newFixture(t, false, withSettings(s))
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})
	f.win.BeginTouchScroll("list")
	f.surf.MoveMouse(10, 10)
	f.tick()

	f.surf.Press(host.ButtonLeft)
	f.tick()
	if got := rec.count(EventMouseDown, false) + rec.count(EventMouseDown, true); got != 0 {
		t.Fatalf("down leaked during activation delay: %d", got)
	}

	f.surf.Release(host.ButtonLeft)
	f.tick()
	if got := rec.count(EventMouseDown, true); got != 1 {
		t.Fatalf("deferred downs = %d, want 1", got)
	}
	if got := rec.count(EventMouseUp, false); got != 1 {
		t.Fatalf("ups = %d, want 1", got)
	}

	downAt, upAt := -1, -1
	for i, ev := range rec.events {
		switch ev.Type {
		case EventMouseDown:
			if downAt < 0 {
				downAt = i
			}
		case EventMouseUp:
			if upAt < 0 {
				upAt = i
			}
		}
	}
	if downAt < 0 || upAt < 0 || downAt > upAt {
		t.Fatalf("tap order broken: down at %d, up at %d", downAt, upAt)
	}
}

func TestTouchHoldDeliversDownAfterDelay(t *testing.T) {
	s := config.Default()
	s.Input.TouchActivationDelay = 200 * time.Millisecond
	f := newFixture(t, false, withSettings(s))
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})
	f.win.BeginTouchScroll("list")
	f.surf.MoveMouse(10, 10)
	f.tick()

	f.surf.Press(host.ButtonLeft)
	f.tick()

	// Six held ticks stay under the 200ms delay; the seventh crosses it.
	for i := 0; i < 6; i++ {
		f.tick()
		if got := rec.count(EventMouseDown, true); got != 0 {
			t.Fatalf("down delivered %dms into the delay", (i+1)*33)
		}
	}
	f.tick()
	if got := rec.count(EventMouseDown, true); got != 1 {
		t.Fatalf("deferred downs after delay = %d, want 1", got)
	}

	f.surf.Release(host.ButtonLeft)
	f.tick()
	if got := rec.count(EventMouseDown, true); got != 1 {
		t.Fatal("release re-delivered the down")
	}
	if got := rec.count(EventMouseUp, false); got != 1 {
		t.Fatalf("ups = %d, want 1", got)
	}
}

func TestEndTouchScrollRestoresImmediateDowns(t *testing.T) {
	s := config.Default()
	s.Input.TouchActivationDelay = 200 * time.Millisecond
	f := newFixture(t, false, withSettings(s))
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})
	f.win.BeginTouchScroll("list")
	f.win.EndTouchScroll("list")
	f.surf.MoveMouse(10, 10)
	f.tick()

	f.surf.Press(host.ButtonLeft)
	f.tick()
	if got := rec.count(EventMouseDown, false); got != 1 {
		t.Fatalf("downs = %d, want immediate delivery outside touch scroll", got)
	}
}

type modalStub struct {
	recorder
	win      *Window
	released int
}

func (m *modalStub) ReleaseModal(ev *Event) {
	m.released++
	m.win.PopModal(m)
}

func TestModalReleasedOnUnhandledActivation(t *testing.T) {
	f := newFixture(t, false, nil)
	f.addRecorder(t, host.Rect{W: 800, H: 600})

	m := &modalStub{win: f.win}
	m.frame = host.Rect{X: 300, Y: 200, W: 200, H: 100}
	f.win.PushModal(m)

	// Moves alone must not dismiss.
	f.surf.MoveMouse(10, 10)
	f.tick()
	if m.released != 0 {
		t.Fatal("modal released by a mouse move")
	}

	f.surf.Press(host.ButtonLeft)
	f.tick()
	if m.released != 1 {
		t.Fatalf("released = %d, want 1 after unhandled press", m.released)
	}

	// Popped: further activations are its own business.
	f.surf.Release(host.ButtonLeft)
	f.tick()
	f.surf.Press(host.ButtonLeft)
	f.tick()
	if m.released != 1 {
		t.Fatalf("released again after popping itself: %d", m.released)
	}
}

func TestHandledActivationKeepsModal(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})
	rec.handle = func(ev *Event) {
		if ev.Type == EventMouseDown {
			ev.Handled = true
		}
	}

	m := &modalStub{win: f.win}
	f.win.PushModal(m)

	f.surf.MoveMouse(10, 10)
	f.tick()
	f.surf.Press(host.ButtonLeft)
	f.tick()
	if m.released != 0 {
		t.Fatalf("modal released despite handled press: %d", m.released)
	}
}

func TestActivationBlursFocusedWidget(t *testing.T) {
	f := newFixture(t, false, nil)
	foc := &focusStub{}
	foc.frame = host.Rect{W: 100, H: 100}
	f.win.AddChild(foc)
	f.tick()

	f.win.FocusWidget(foc)
	f.surf.MoveMouse(400, 400)
	f.tick()

	f.surf.Press(host.ButtonLeft)
	f.tick()
	if f.win.FocusedWidget() != nil {
		t.Fatal("unhandled press did not blur the focused widget")
	}
	if len(foc.focused) == 0 || foc.focused[len(foc.focused)-1] != false {
		t.Fatalf("focus notifications = %v, want trailing false", foc.focused)
	}
}

type focusStub struct {
	recorder
	focused []bool
}

func (s *focusStub) SetFocused(v bool) { s.focused = append(s.focused, v) }

func TestWindowFocusSaveRestore(t *testing.T) {
	f := newFixture(t, true, nil)
	foc := &focusStub{}
	foc.frame = host.Rect{W: 100, H: 100}
	f.win.AddChild(foc)
	f.tick() // gains focus: the manager focuses created windows

	f.win.FocusWidget(foc)

	focuses, blurs := 0, 0
	f.win.OnFocus(func() { focuses++ })
	f.win.OnBlur(func() { blurs++ })

	f.mgr.DropFocus()
	f.tick()
	if blurs != 1 {
		t.Fatalf("blur notifications = %d, want 1", blurs)
	}
	if f.win.FocusedWidget() != nil {
		t.Fatal("widget focus not cleared on window blur")
	}

	f.mgr.Focus(f.h)
	f.tick()
	if focuses != 1 {
		t.Fatalf("focus notifications = %d, want 1", focuses)
	}
	if f.win.FocusedWidget() != foc {
		t.Fatal("widget focus not restored on window focus")
	}
	want := []bool{true, false, true}
	if len(foc.focused) != len(want) {
		t.Fatalf("focus sequence = %v, want %v", foc.focused, want)
	}
	for i := range want {
		if foc.focused[i] != want[i] {
			t.Fatalf("focus sequence = %v, want %v", foc.focused, want)
		}
	}
}

func TestRefreshMouseSynthesizesMove(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})
	f.surf.MoveMouse(10, 10)
	f.tick()
	f.tick()

	n := rec.count(EventMouseMove, true)
	f.win.RefreshMouse()
	f.tick()
	if got := rec.count(EventMouseMove, true); got != n+1 {
		t.Fatalf("simulated moves = %d, want %d", got, n+1)
	}
}

func TestOcclusionEndsHover(t *testing.T) {
	f := newFixture(t, true, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.MoveMouse(10, 10)
	f.tick()
	if got := rec.count(EventMouseMove, false); got != 1 {
		t.Fatalf("moves before occlusion = %d, want 1", got)
	}

	// Another OS window lands on top of ours.
	f.mgr.CreateWindow("occluder", native.Rect{X: 100, Y: 100, W: 800, H: 600})

	f.surf.MoveMouse(20, 20)
	f.tick()
	if got := rec.count(EventMouseMove, false); got != 2 {
		t.Fatalf("expected one leave move, got %d", got)
	}

	f.surf.MoveMouse(30, 30)
	f.tick()
	if got := rec.count(EventMouseMove, false); got != 2 {
		t.Fatal("moves keep firing while occluded")
	}
}
