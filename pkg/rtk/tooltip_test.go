package rtk

import (
	"testing"

	"github.com/rtkui/rtk/pkg/host"
)

// hoverTicks is how many ticks after the last mouse move the default tooltip
// delay spans: 15 ticks stay under 500ms, the 16th crosses it.
const hoverTicks = 16

func TestTooltipAppearsAfterHoverDelay(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.MoveMouse(10, 10)
	f.tick()
	f.win.SetTooltip(rec, "save the take")
	if f.win.TooltipOwner() != rec {
		t.Fatal("tooltip owner not recorded")
	}

	for i := 0; i < hoverTicks-1; i++ {
		f.tick()
		if f.surf.ContainsText("save the take") {
			t.Fatalf("tooltip visible %d ticks after the move", i+1)
		}
	}
	f.tick()
	if !f.surf.ContainsText("save the take") {
		t.Fatal("tooltip not shown after the hover delay")
	}
}

func TestMouseMoveRestartsHoverTimer(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.MoveMouse(10, 10)
	f.tick()
	f.win.SetTooltip(rec, "hint")

	for i := 0; i < 10; i++ {
		f.tick()
	}
	f.surf.MoveMouse(12, 10)
	f.tick()

	for i := 0; i < hoverTicks-1; i++ {
		f.tick()
		if f.surf.ContainsText("hint") {
			t.Fatalf("tooltip ignored the newer move, visible at tick %d", i+1)
		}
	}
	f.tick()
	if !f.surf.ContainsText("hint") {
		t.Fatal("tooltip never shown after the second hover")
	}
}

func TestTooltipFollowsOwnerSwitch(t *testing.T) {
	f := newFixture(t, false, nil)
	a := f.addRecorder(t, host.Rect{X: 0, Y: 0, W: 400, H: 600})
	b := &recorder{frame: host.Rect{X: 400, Y: 0, W: 400, H: 600}}
	f.win.AddChild(b)

	f.surf.MoveMouse(10, 10)
	f.tick()
	f.win.SetTooltip(a, "first hint")
	for i := 0; i < hoverTicks; i++ {
		f.tick()
	}
	if !f.surf.ContainsText("first hint") {
		t.Fatal("first tooltip never shown")
	}

	// The mouse has been still past the delay, so the new owner's text
	// replaces the old in a single repaint.
	f.win.SetTooltip(b, "second hint")
	f.tick()
	if f.surf.ContainsText("first hint") {
		t.Fatal("stale tooltip text still on the canvas")
	}
	if !f.surf.ContainsText("second hint") {
		t.Fatal("new owner's tooltip not shown")
	}
}

func TestClearingTooltipHidesIt(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.MoveMouse(10, 10)
	f.tick()
	f.win.SetTooltip(rec, "hint")
	for i := 0; i < hoverTicks; i++ {
		f.tick()
	}
	if !f.surf.ContainsText("hint") {
		t.Fatal("tooltip never shown")
	}

	f.win.SetTooltip(nil, "")
	f.tick()
	if f.surf.ContainsText("hint") {
		t.Fatal("tooltip still visible after clearing")
	}
	if f.win.TooltipOwner() != nil {
		t.Fatal("owner survived the clear")
	}
}

func TestTooltipClampsToCanvas(t *testing.T) {
	f := newFixture(t, false, nil)
	rec := f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.surf.MoveMouse(797, 598)
	f.tick()
	f.win.SetTooltip(rec, "hi")
	for i := 0; i < hoverTicks; i++ {
		f.tick()
	}

	// Box would poke past the right and bottom edges; it slides to
	// (796, 595) so the text lands at (797, 596).
	if got := f.surf.CellAt(797, 596).Rune; got != 'h' {
		t.Fatalf("cell (797,596) = %q, want h", got)
	}
	if got := f.surf.CellAt(798, 596).Rune; got != 'i' {
		t.Fatalf("cell (798,596) = %q, want i", got)
	}
}
