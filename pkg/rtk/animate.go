package rtk

import "time"

// Animator advances one animation by one tick. It reports whether anything
// visible changed and whether the animation is finished. All timing is
// derived from now; steps must not block.
type Animator func(now time.Time) (dirty, done bool)

type animation struct {
	id   string
	step Animator
}

// Animate registers step under id, replacing a running animation with the
// same id. The step runs once per tick until it reports done.
func (w *Window) Animate(id string, step Animator) {
	for i := range w.animations {
		if w.animations[i].id == id {
			w.animations[i].step = step
			return
		}
	}
	w.animations = append(w.animations, animation{id: id, step: step})
}

// StopAnimation cancels the animation registered under id.
func (w *Window) StopAnimation(id string) {
	for i := range w.animations {
		if w.animations[i].id == id {
			w.animations = append(w.animations[:i], w.animations[i+1:]...)
			return
		}
	}
}

// Animating reports whether an animation is registered under id.
func (w *Window) Animating(id string) bool {
	for i := range w.animations {
		if w.animations[i].id == id {
			return true
		}
	}
	return false
}

// stepAnimations runs every animation once, iterating a snapshot so steps
// may register or cancel animations while running.
func (w *Window) stepAnimations() bool {
	if len(w.animations) == 0 {
		return false
	}
	dirty := false
	snap := make([]animation, len(w.animations))
	copy(snap, w.animations)
	for _, a := range snap {
		d, done := a.step(w.now)
		if d {
			dirty = true
		}
		if done {
			w.StopAnimation(a.id)
		}
		if !w.running {
			break
		}
	}
	return dirty
}
