// Package rtk is a retained-mode widget toolkit for scripts that live inside
// a host application's frame loop. The host re-invokes Tick; everything else
// (window sync, reflow, input synthesis, drawing) hangs off that single
// cooperative call. Nothing blocks: all waiting is expressed as comparisons
// against a clock sampled once per tick.
package rtk

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rtkui/rtk/pkg/config"
	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/logging"
	"github.com/rtkui/rtk/pkg/native"
	"github.com/rtkui/rtk/pkg/telemetry"
)

// Fallback window size when the caller gives none.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// liveWindow forbids a second concurrent Window by construction. Close
// releases the claim.
var liveWindow atomic.Bool

type lifecycle int

const (
	stateConstructed lifecycle = iota
	stateOpen
	stateClosed
)

// Config assembles a Window's collaborators. Surface is required; every
// other field has a working default.
type Config struct {
	Surface host.Surface

	// Native is the optional OS window controller. Defaults to the absent
	// controller, degrading dependent attributes to best-effort.
	Native native.Controller

	Clock    Clock
	Logger   *logging.Logger
	Metrics  *telemetry.Registry
	Settings *config.Settings

	Title         string
	X, Y          int
	Width, Height int
}

// OpenOptions carries placement hints for Open.
type OpenOptions struct {
	// Center overrides the X/Y attributes with centered placement when the
	// surface knows its screen size.
	Center bool
}

// Window owns the widget tree, the per-tick pipeline, and the binding to
// the host canvas and OS window. All methods must be called from the host's
// tick goroutine; there is no internal locking.
type Window struct {
	surface  host.Surface
	native   native.Controller
	clock    Clock
	log      *logging.Logger
	metrics  *telemetry.Registry
	settings *config.Settings

	state   lifecycle
	running bool

	attr        attrs
	attrsDirty  bool
	wheelDamped bool

	// OS window binding. Frame deltas are measured once per resolve.
	handle           native.Handle
	handleValid      bool
	frameW, frameH   int
	frameDX, frameDY int
	hidden           bool
	pushedX, pushedY int
	pushedW, pushedH int
	pushedBorderless bool
	pushedPinned     bool
	lastOuter        native.Rect
	lastOuterOK      bool

	lastDock                 host.DockState
	pendingDock              bool
	dockDeadline             time.Time
	dockGuard                bool
	undocked                 host.Rect
	undockedOK               bool
	lastCanvasW, lastCanvasH int

	children         []Widget
	laidOut          bool
	reflowMode       reflowMode
	reflowSet        []Widget
	reflowedThisTick bool

	store        *host.Buffer
	redrawQueued bool
	claimedCur   host.Cursor
	defaultCur   host.Cursor
	appliedCur   host.Cursor
	overlayOn    bool

	// Input state carried across ticks.
	now            time.Time
	mouseX, mouseY int
	inWindow       bool
	mouseRefresh   bool
	lastMouseMove  time.Time
	syncedButtons  host.Buttons
	buttonRecs     [len(buttonOrder)]buttonRecord
	pressOrder     []int
	latest         int
	lastRelease    time.Time
	touchScroll    map[any]struct{}

	focusWidget Widget
	savedFocus  Widget
	winFocused  bool
	focusLost   bool
	focusGained bool
	modals      []Modal

	dragCandidates []dragCandidate
	drag           dragState

	tooltipOwner Widget
	tooltipText  string
	tooltipShown Widget

	animations []animation

	obs observers

	mTicks, mRedraws, mBlits, mSlowTicks *telemetry.Counter
	mReflowFull, mReflowPart             *telemetry.Counter
	mTickSecs, mReflowSecs               *telemetry.Histogram
	eventCounters                        map[EventType]*telemetry.Counter

	lastTickTime time.Duration
}

// New builds the Window bound to cfg.Surface. Only one live Window may
// exist per process; New fails with ErrWindowLive until the previous one is
// closed.
func New(cfg Config) (*Window, error) {
	if cfg.Surface == nil {
		return nil, ErrNoSurface
	}
	if !liveWindow.CompareAndSwap(false, true) {
		return nil, ErrWindowLive
	}
	w := &Window{
		surface:    cfg.Surface,
		native:     cfg.Native,
		clock:      cfg.Clock,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
		settings:   cfg.Settings,
		latest:     -1,
		defaultCur: host.CursorArrow,
	}
	if w.native == nil {
		w.native = native.None()
	}
	if w.clock == nil {
		w.clock = SystemClock{}
	}
	if w.log == nil {
		w.log = logging.Discard()
	}
	if w.metrics == nil {
		w.metrics = telemetry.NewRegistry()
	}
	if w.settings == nil {
		w.settings = config.Default()
	} else if err := w.settings.Validate(); err != nil {
		liveWindow.Store(false)
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	w.attr = attrs{
		x:       cfg.X,
		y:       cfg.Y,
		w:       cfg.Width,
		h:       cfg.Height,
		title:   cfg.Title,
		visible: true,
		opacity: 1,
		scale:   1,
	}
	if w.attr.w <= 0 {
		w.attr.w = DefaultWidth
	}
	if w.attr.h <= 0 {
		w.attr.h = DefaultHeight
	}
	if w.attr.title == "" {
		w.attr.title = "rtk"
	}
	w.wheelDamped = w.settings.WheelDamped()
	w.initMetrics()
	return w, nil
}

// Open creates the host window and starts the pipeline. A closed Window can
// be reopened provided no other Window was built in between.
func (w *Window) Open(opts OpenOptions) error {
	switch w.state {
	case stateOpen:
		return ErrAlreadyOpen
	case stateClosed:
		if !liveWindow.CompareAndSwap(false, true) {
			return ErrWindowLive
		}
	}
	err := w.surface.Open(host.OpenOptions{
		Title:  w.attr.title,
		Width:  w.attr.w,
		Height: w.attr.h,
		X:      w.attr.x,
		Y:      w.attr.y,
		Center: opts.Center,
		Dock:   host.MakeDock(w.attr.docker, w.attr.docked),
	})
	if err != nil {
		if w.state == stateClosed {
			liveWindow.Store(false)
		}
		return fmt.Errorf("failed to open window: %w", err)
	}
	w.state = stateOpen
	w.running = true
	w.resetTickState()

	// Adopt what the host actually created before the first push.
	w.lastDock = w.surface.Dock()
	w.attr.docked = w.lastDock.Docked()
	w.attr.docker = w.lastDock.Docker()
	if cw, ch := w.surface.Canvas(); cw > 0 && ch > 0 {
		w.attr.w, w.attr.h = cw, ch
		w.lastCanvasW, w.lastCanvasH = cw, ch
	}
	if w.resolveHandle() && !w.attr.docked {
		if cr, ok := w.native.ClientRect(w.handle); ok {
			c := w.fromNativeRect(cr)
			w.attr.x, w.attr.y = c.X, c.Y
		}
	}
	w.pushedX, w.pushedY = w.attr.x, w.attr.y
	w.pushedW, w.pushedH = w.attr.w, w.attr.h
	// Writes made between New and Open still land: the first tick pushes
	// whatever differs from the adopted state.
	w.attrsDirty = true

	w.QueueReflow(nil)
	w.QueueRedraw()
	w.log.Info(logging.CategoryWindow, "open", "window opened", map[string]any{
		"title":  w.attr.title,
		"size":   []int{w.attr.w, w.attr.h},
		"docked": w.attr.docked,
		"native": w.native.Available(),
	})
	return nil
}

func (w *Window) resetTickState() {
	w.laidOut = false
	w.reflowMode = reflowNone
	w.reflowSet = nil
	w.reflowedThisTick = false
	w.store = nil
	w.redrawQueued = false
	w.claimedCur = host.CursorNone
	w.appliedCur = host.CursorNone
	w.handleValid = false
	w.hidden = false
	w.attrsDirty = false
	w.pushedBorderless = false
	w.pushedPinned = false
	w.pendingDock = false
	w.dockGuard = false
	w.undockedOK = false
	w.lastOuterOK = false
	w.syncedButtons = 0
	w.buttonRecs = [len(buttonOrder)]buttonRecord{}
	w.pressOrder = nil
	w.latest = -1
	w.drag = dragState{}
	w.dragCandidates = nil
	w.modals = nil
	w.focusWidget = nil
	w.savedFocus = nil
	w.winFocused = false
	w.focusLost = false
	w.focusGained = false
	w.inWindow = false
	w.tooltipOwner = nil
	w.tooltipShown = nil
	w.tooltipText = ""
	w.now = w.clock.Now()
	w.lastMouseMove = w.now
}

// Close stops the pipeline and detaches the host window. Safe to call from
// inside an event handler mid-tick; the remaining stages observe running
// and stop. Closing releases the singleton claim.
func (w *Window) Close() {
	switch w.state {
	case stateOpen:
		w.running = false
		w.state = stateClosed
		w.surface.Close()
		for _, s := range w.obs.closeCb {
			s.fn()
		}
		w.log.Info(logging.CategoryWindow, "close", "window closed", nil)
		liveWindow.Store(false)
	case stateConstructed:
		w.state = stateClosed
		liveWindow.Store(false)
	}
}

// Focus asks the OS to give this window keyboard focus. Best-effort without
// the native capability.
func (w *Window) Focus() {
	if w.handleValid {
		w.native.Focus(w.handle)
	}
}

// Running reports whether the window is open and ticking.
func (w *Window) Running() bool { return w.running }

// MousePos returns the last polled mouse position in content coordinates.
func (w *Window) MousePos() (x, y int) { return w.mouseX, w.mouseY }

// Settings returns the active configuration.
func (w *Window) Settings() *config.Settings { return w.settings }

// Metrics returns the telemetry registry the window records into.
func (w *Window) Metrics() *telemetry.Registry { return w.metrics }

// Tick runs one frame: poll, attribute push, dock/canvas pull, reflow,
// input synthesis, button transitions, conditional redraw, blit, cursor.
// It reports whether the window is still running; the host stops re-invoking
// on false. Stages re-check running because any user callback may call
// Close or mutate attributes mid-tick.
func (w *Window) Tick() bool {
	if !w.running {
		return false
	}
	start := w.clock.Now()
	w.now = start
	w.reflowedThisTick = false
	w.mTicks.Inc()

	snap := w.surface.Poll()
	if snap.Terminated() {
		w.log.Info(logging.CategoryWindow, "terminate", "host requested termination", nil)
		w.Close()
		return false
	}
	skip := false
	for _, s := range w.obs.update {
		if s.fn() {
			skip = true
		}
	}
	if skip || !w.running {
		return w.running
	}
	w.syncAttrs()
	if !w.running {
		return false
	}
	w.syncDock(snap)
	if !w.running {
		return false
	}
	w.runReflowIfNeeded()
	if !w.running {
		return false
	}
	w.gatherInput(snap)
	if !w.running {
		return false
	}
	w.dispatchButtons(snap)
	if !w.running {
		return false
	}
	w.renderTick()

	elapsed := w.clock.Now().Sub(start)
	w.lastTickTime = elapsed
	w.mTickSecs.ObserveDuration(elapsed)
	if elapsed > w.settings.Frame.SlowWarn {
		w.mSlowTicks.Inc()
		w.log.Warn(logging.CategoryFrame, "slow_tick", "tick exceeded threshold", map[string]any{
			"elapsed_ms": elapsed.Milliseconds(),
			"threshold":  w.settings.Frame.SlowWarn.Milliseconds(),
		})
	}
	return w.running
}

// renderTick decides whether this frame needs a redraw or can re-blit the
// previous backing store.
func (w *Window) renderTick() {
	if !w.attr.visible {
		w.surface.Commit()
		return
	}
	animated := w.stepAnimations()
	if !w.running {
		return
	}
	if animated || w.reflowedThisTick || w.redrawQueued ||
		w.focusGained || w.focusLost || w.tooltipDue() {
		w.redraw()
		if !w.running {
			return
		}
	}
	w.blit()
	w.applyCursor()
	w.surface.Commit()
}

// redraw renders the whole tree into the backing store. The store is
// resized lazily so idle ticks never touch it.
func (w *Window) redraw() {
	w.redrawQueued = false
	w.mRedraws.Inc()
	if w.store == nil {
		w.store = host.NewBuffer(w.attr.w, w.attr.h)
	} else {
		w.store.Resize(w.attr.w, w.attr.h)
	}
	w.store.Clear()
	w.claimedCur = host.CursorNone
	root := &Painter{win: w, buf: w.store, clip: host.Rect{W: w.attr.w, H: w.attr.h}}
	for _, c := range w.children {
		if !c.LaidOut() {
			continue
		}
		c.Draw(root.Sub(c.Frame()))
		if !w.running {
			return
		}
	}
	w.drawTooltip(root)
	if w.overlayOn {
		w.drawOverlay(root)
	}
}

// blit presents the backing store. With no dirty cells this re-shows the
// previous frame, which the surface can do cheaply.
func (w *Window) blit() {
	if w.store == nil {
		return
	}
	if w.store.IsDirty() {
		w.mBlits.Inc()
	}
	w.surface.Present(w.store, 0, 0)
	w.store.ClearDirty()
}

// QueueRedraw asks for a redraw on the next tick. Requests within one tick
// coalesce into a single redraw.
func (w *Window) QueueRedraw() { w.redrawQueued = true }

// QueueBlit marks the whole backing store dirty so the next blit re-sends
// every cell without redrawing the tree. Used after the OS invalidates the
// window contents, e.g. across a dock transition.
func (w *Window) QueueBlit() {
	if w.store != nil {
		w.store.MarkAllDirty()
	}
}

// RefreshMouse forces a synthetic mouse-move on the next tick so hover
// state catches up after the tree changed under a still cursor.
func (w *Window) RefreshMouse() { w.mouseRefresh = true }

// AddChild appends wd to the top-level widget list. Later children draw on
// top and see events first.
func (w *Window) AddChild(wd Widget) {
	w.children = append(w.children, wd)
	w.QueueReflow(nil)
}

// RemoveChild removes wd and drops any focus, tooltip, or saved references
// to it.
func (w *Window) RemoveChild(wd Widget) {
	for i, c := range w.children {
		if c == wd {
			w.children = append(w.children[:i], w.children[i+1:]...)
			break
		}
	}
	if w.focusWidget == wd {
		w.focusWidget = nil
	}
	if w.savedFocus == wd {
		w.savedFocus = nil
	}
	if w.tooltipOwner == wd {
		w.tooltipOwner = nil
	}
	if w.tooltipShown == wd {
		w.tooltipShown = nil
	}
	w.QueueReflow(nil)
}

// Children returns the top-level widgets in add order. The slice is the
// window's own; callers must not mutate it.
func (w *Window) Children() []Widget { return w.children }

var tickBuckets = []float64{.001, .002, .005, .01, .02, .033, .05, .1, .25}

func (w *Window) initMetrics() {
	w.mTicks = w.metrics.Counter("rtk_ticks_total", nil)
	w.mRedraws = w.metrics.Counter("rtk_redraws_total", nil)
	w.mBlits = w.metrics.Counter("rtk_blits_total", nil)
	w.mSlowTicks = w.metrics.Counter("rtk_slow_ticks_total", nil)
	w.mReflowFull = w.metrics.Counter("rtk_reflows_total", telemetry.Labels{"mode": "full"})
	w.mReflowPart = w.metrics.Counter("rtk_reflows_total", telemetry.Labels{"mode": "partial"})
	w.mTickSecs = w.metrics.Histogram("rtk_tick_seconds", nil, tickBuckets)
	w.mReflowSecs = w.metrics.Histogram("rtk_reflow_seconds", nil, tickBuckets)
	w.eventCounters = make(map[EventType]*telemetry.Counter)
	for _, t := range []EventType{
		EventMouseMove, EventMouseDown, EventMouseUp,
		EventWheel, EventKey, EventDrop,
	} {
		w.eventCounters[t] = w.metrics.Counter("rtk_events_total", telemetry.Labels{"type": t.String()})
	}
}
