package segue

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Anim is one running transition animation: a seekable, killable handle over
// a [gween.Tween] that drives the spec's Tick with eased progress. An Anim is
// owned exclusively by the [Transition] that created it while active; other
// call sites interact with it only through [Portal.Track] or read-only
// queries.
type Anim struct {
	node  *Node
	spec  TransitionSpec
	tween *gween.Tween

	elapsed float64 // includes the delay phase
	done    bool
	killed  bool

	onEnd []func(completed bool)
}

// newAnim creates an animation for spec, seeked to startRatio of its
// duration. A spec with no positive duration completes immediately, ticking
// its end state once.
func newAnim(node *Node, spec TransitionSpec, startRatio float64) *Anim {
	fn := spec.Ease
	if fn == nil {
		fn = ease.Linear
	}
	a := &Anim{node: node, spec: spec}
	if spec.Duration <= 0 {
		a.finish()
		return a
	}
	a.tween = gween.New(0, 1, float32(spec.Duration), fn)
	if startRatio > 0 {
		a.SetProgress(startRatio)
	}
	return a
}

// Node returns the node the animation is attached to.
func (a *Anim) Node() *Node { return a.node }

// Delay returns the spec's delay in seconds.
func (a *Anim) Delay() float64 { return a.spec.Delay }

// Duration returns the spec's duration in seconds.
func (a *Anim) Duration() float64 { return a.spec.Duration }

// Progress returns linear progress through the animation body in [0, 1].
// The delay phase counts as 0.
func (a *Anim) Progress() float64 {
	if a.done {
		return 1
	}
	if a.spec.Duration <= 0 {
		return 1
	}
	p := (a.elapsed - a.spec.Delay) / a.spec.Duration
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// SetProgress seeks the animation to ratio v of its duration and ticks the
// eased value at that point. Seeking a finished animation is a no-op.
func (a *Anim) SetProgress(v float64) {
	if a.done || a.killed || a.spec.Duration <= 0 {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	a.elapsed = a.spec.Delay + v*a.spec.Duration
	val, _ := a.tween.Set(float32(v * a.spec.Duration))
	a.tick(float64(val))
}

// Restart rewinds the animation to its start, including the delay phase.
func (a *Anim) Restart() {
	if a.done || a.killed {
		return
	}
	a.elapsed = 0
	a.tween.Reset()
}

// Kill terminates the animation without completing it. OnEnd callbacks run
// with completed=false.
func (a *Anim) Kill() {
	if a.done || a.killed {
		return
	}
	a.killed = true
	if a.spec.OnEnd != nil {
		a.spec.OnEnd(a.node, false)
	}
	for _, fn := range a.onEnd {
		fn(false)
	}
}

// Active reports whether the animation is still playing.
func (a *Anim) Active() bool { return !a.done && !a.killed }

// Done reports whether the animation ran to completion.
func (a *Anim) Done() bool { return a.done }

// Killed reports whether the animation was terminated early.
func (a *Anim) Killed() bool { return a.killed }

// OnEnd registers fn to run when the animation completes or is killed.
// If it already ended, fn runs immediately.
func (a *Anim) OnEnd(fn func(completed bool)) {
	if a.done || a.killed {
		fn(a.done)
		return
	}
	a.onEnd = append(a.onEnd, fn)
}

// update advances the animation by dt seconds. Called by the clock.
func (a *Anim) update(dt float64) {
	if a.done || a.killed {
		return
	}
	a.elapsed += dt
	if a.elapsed < a.spec.Delay {
		return
	}
	t := a.elapsed - a.spec.Delay
	if t >= a.spec.Duration {
		a.finish()
		return
	}
	val, _ := a.tween.Set(float32(t))
	a.tick(float64(val))
}

func (a *Anim) finish() {
	a.done = true
	a.tick(1)
	if a.spec.OnEnd != nil {
		a.spec.OnEnd(a.node, true)
	}
	for _, fn := range a.onEnd {
		fn(true)
	}
}

func (a *Anim) tick(v float64) {
	if a.spec.Tick != nil {
		a.spec.Tick(a.node, v)
	}
}
