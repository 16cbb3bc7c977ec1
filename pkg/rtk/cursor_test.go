package rtk

import (
	"testing"

	"github.com/rtkui/rtk/pkg/host"
)

// cursorClaimer claims a cursor shape on every draw, the way hover-sensitive
// widgets do.
type cursorClaimer struct {
	recorder
	win   *Window
	cur   host.Cursor
	force bool
	taken []bool
}

func (c *cursorClaimer) Draw(p *Painter) {
	c.taken = append(c.taken, c.win.RequestCursor(c.cur, c.force))
}

func TestFirstCursorClaimWins(t *testing.T) {
	f := newFixture(t, false, nil)
	a := &cursorClaimer{recorder: recorder{frame: host.Rect{W: 400, H: 600}}, win: f.win, cur: host.CursorHand}
	b := &cursorClaimer{recorder: recorder{frame: host.Rect{X: 400, W: 400, H: 600}}, win: f.win, cur: host.CursorIBeam}
	f.win.AddChild(a)
	f.win.AddChild(b)
	f.tick()

	if !a.taken[0] {
		t.Fatal("first claim rejected")
	}
	if b.taken[0] {
		t.Fatal("second claim accepted without force")
	}
	if got := f.surf.Cursor(); got != host.CursorHand {
		t.Fatalf("cursor = %v, want hand", got)
	}
}

func TestForcedClaimOverrides(t *testing.T) {
	f := newFixture(t, false, nil)
	a := &cursorClaimer{recorder: recorder{frame: host.Rect{W: 400, H: 600}}, win: f.win, cur: host.CursorHand}
	b := &cursorClaimer{recorder: recorder{frame: host.Rect{X: 400, W: 400, H: 600}}, win: f.win, cur: host.CursorMove, force: true}
	f.win.AddChild(a)
	f.win.AddChild(b)
	f.tick()

	if !b.taken[0] {
		t.Fatal("forced claim rejected")
	}
	if got := f.surf.Cursor(); got != host.CursorMove {
		t.Fatalf("cursor = %v, want move", got)
	}
}

func TestDefaultCursorFillsUnclaimedTicks(t *testing.T) {
	f := newFixture(t, false, nil)
	f.addRecorder(t, host.Rect{W: 800, H: 600})

	f.win.SetDefaultCursor(host.CursorArrow)
	f.tick()
	if got := f.surf.Cursor(); got != host.CursorArrow {
		t.Fatalf("cursor = %v, want the default arrow", got)
	}
}

func TestCursorPushedOnlyOnChange(t *testing.T) {
	f := newFixture(t, false, nil)
	a := &cursorClaimer{recorder: recorder{frame: host.Rect{W: 800, H: 600}}, win: f.win, cur: host.CursorHand}
	f.win.AddChild(a)
	f.tick()
	if f.surf.CursorSets() != 1 {
		t.Fatalf("cursor sets = %d, want 1", f.surf.CursorSets())
	}

	f.win.QueueRedraw()
	f.tick()
	f.win.QueueRedraw()
	f.tick()
	if f.surf.CursorSets() != 1 {
		t.Fatalf("cursor re-pushed without changing: %d sets", f.surf.CursorSets())
	}
}

func TestNativeCursorPreferred(t *testing.T) {
	f := newFixture(t, true, nil)
	a := &cursorClaimer{recorder: recorder{frame: host.Rect{W: 800, H: 600}}, win: f.win, cur: host.CursorSizeEW}
	f.win.AddChild(a)
	f.tick()

	if got := f.mgr.Cursor(); got != host.CursorSizeEW {
		t.Fatalf("native cursor = %v, want size-ew", got)
	}
	if f.surf.CursorSets() != 0 {
		t.Fatal("host surface cursor set despite native support")
	}
}
