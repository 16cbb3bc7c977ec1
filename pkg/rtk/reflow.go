package rtk

import (
	"github.com/rtkui/rtk/pkg/host"
	"github.com/rtkui/rtk/pkg/logging"
)

type reflowMode int

const (
	reflowNone reflowMode = iota
	reflowPartial
	reflowFull
)

// QueueReflow schedules layout for the next tick. A nil target requests a
// full pass. Full never downgrades to partial, and a partial request for a
// widget that never completed a full layout escalates to full.
func (w *Window) QueueReflow(target Widget) {
	if target == nil || !target.LaidOut() {
		w.reflowMode = reflowFull
		w.reflowSet = w.reflowSet[:0]
		return
	}
	if w.reflowMode == reflowFull {
		return
	}
	w.reflowMode = reflowPartial
	for _, queued := range w.reflowSet {
		if queued == target {
			return
		}
	}
	w.reflowSet = append(w.reflowSet, target)
}

// runReflowIfNeeded performs at most one layout pass per tick. Partial runs
// only when the set stays under the configured limit and the window has an
// initial full layout behind it; everything else runs full.
func (w *Window) runReflowIfNeeded() {
	if w.reflowMode == reflowNone {
		return
	}
	mode := w.reflowMode
	set := w.reflowSet
	if mode == reflowPartial && (len(set) > w.settings.Reflow.PartialLimit || !w.laidOut) {
		mode = reflowFull
	}
	w.reflowMode = reflowNone
	w.reflowSet = nil

	start := w.clock.Now()
	if mode == reflowPartial {
		for _, wd := range set {
			wd.Reflow(ReflowContext{Bounds: wd.Frame(), Scale: w.attr.scale, Window: w})
		}
		w.mReflowPart.Inc()
	} else {
		box := host.Rect{W: w.attr.w, H: w.attr.h}
		for _, c := range w.children {
			c.Reflow(ReflowContext{Bounds: box, Scale: w.attr.scale, Full: true, Window: w})
		}
		w.laidOut = true
		w.mReflowFull.Inc()
		if elapsed := w.clock.Now().Sub(start); elapsed > w.settings.Reflow.SlowWarn {
			w.log.Warn(logging.CategoryReflow, "slow_reflow",
				"full reflow exceeded threshold", map[string]any{
					"elapsed_ms": elapsed.Milliseconds(),
					"widgets":    len(w.children),
				})
		}
	}
	w.mReflowSecs.ObserveDuration(w.clock.Now().Sub(start))
	w.reflowedThisTick = true
	w.QueueRedraw()

	var notified []Widget
	if mode == reflowPartial {
		notified = set
	}
	for _, s := range w.obs.reflow {
		s.fn(notified)
	}
}
