package segue

// Clock is the cooperative scheduler driving every deferred effect in segue:
// active animations, settle and keep-alive timers, next-frame callbacks, and
// the end-of-tick reactive batch used by [Suspense]. The host pumps it once
// per render frame via [Stage.Update]; nothing in segue blocks or spawns
// goroutines.
//
// Phase order within one Update: next-frame deferreds, animations, timers,
// per-tick pollers, then the reactive batch. The batch runs last so a
// decision made there observes every mutation from the same tick.
type Clock struct {
	time  float64
	frame uint64

	anims    []*Anim
	timers   []*Timer
	deferred []func()

	batchFns   map[any]func()
	batchOrder []any

	tickers     map[any]func()
	tickerOrder []any
}

// NewClock creates a clock at time zero.
func NewClock() *Clock {
	return &Clock{
		batchFns: map[any]func(){},
		tickers:  map[any]func(){},
	}
}

// Timer is a pending one-shot callback created by [Clock.After].
type Timer struct {
	remaining float64
	fn        func()
	stopped   bool
	fired     bool
}

// Stop cancels the timer. Stopping a fired or already-stopped timer is a
// no-op.
func (t *Timer) Stop() {
	t.stopped = true
}

// Stopped reports whether the timer was cancelled before firing.
func (t *Timer) Stopped() bool { return t.stopped && !t.fired }

// Fired reports whether the timer's callback has run.
func (t *Timer) Fired() bool { return t.fired }

// After schedules fn to run once delay seconds of clock time have elapsed.
// A zero or negative delay fires on the next Update.
func (c *Clock) After(delay float64, fn func()) *Timer {
	t := &Timer{remaining: delay, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Defer schedules fn to run at the start of the next Update.
func (c *Clock) Defer(fn func()) {
	c.deferred = append(c.deferred, fn)
}

// Batch schedules fn to run in this tick's reactive batch, after animations
// and timers. Multiple calls with the same key within one tick coalesce into
// a single run of the latest fn. Work scheduled from inside the batch runs
// in the same batch, so cascaded invalidations settle within one tick.
func (c *Clock) Batch(key any, fn func()) {
	if _, ok := c.batchFns[key]; !ok {
		c.batchOrder = append(c.batchOrder, key)
	}
	c.batchFns[key] = fn
}

// EachTick registers fn to run every Update just before the reactive batch,
// keyed for removal. The returned cancel function unregisters it.
func (c *Clock) EachTick(key any, fn func()) (cancel func()) {
	if _, ok := c.tickers[key]; !ok {
		c.tickerOrder = append(c.tickerOrder, key)
	}
	c.tickers[key] = fn
	return func() {
		if _, ok := c.tickers[key]; !ok {
			return
		}
		delete(c.tickers, key)
		for i, k := range c.tickerOrder {
			if k == key {
				c.tickerOrder = append(c.tickerOrder[:i], c.tickerOrder[i+1:]...)
				break
			}
		}
	}
}

// play registers an animation to be advanced each Update until it finishes
// or is killed.
func (c *Clock) play(a *Anim) {
	c.anims = append(c.anims, a)
}

// Time returns accumulated clock time in seconds.
func (c *Clock) Time() float64 { return c.time }

// Frame returns the number of completed Update calls.
func (c *Clock) Frame() uint64 { return c.frame }

// ActiveAnims returns the number of animations currently playing.
func (c *Clock) ActiveAnims() int {
	n := 0
	for _, a := range c.anims {
		if a.Active() {
			n++
		}
	}
	return n
}

// Update advances the clock by dt seconds. Called once per render frame.
func (c *Clock) Update(dt float64) {
	c.frame++
	c.time += dt

	// Next-frame deferreds. Snapshot first: a Defer from inside one of these
	// lands on the following frame.
	deferred := c.deferred
	c.deferred = nil
	for _, fn := range deferred {
		fn()
	}

	// Animations. Iterate a snapshot so animations started mid-tick wait for
	// the next frame; compact finished ones afterwards.
	anims := append([]*Anim(nil), c.anims...)
	for _, a := range anims {
		a.update(dt)
	}
	live := c.anims[:0]
	for _, a := range c.anims {
		if a.Active() {
			live = append(live, a)
		}
	}
	c.anims = live

	// Timers. Snapshot for the same reason: a timer started by a firing
	// timer (or an animation) must not lose dt this frame.
	timers := append([]*Timer(nil), c.timers...)
	for _, t := range timers {
		if t.stopped || t.fired {
			continue
		}
		t.remaining -= dt
		if t.remaining <= 0 {
			t.fired = true
			t.fn()
		}
	}
	pending := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			pending = append(pending, t)
		}
	}
	c.timers = pending

	// Per-tick pollers (predicate polling and similar).
	for _, key := range append([]any(nil), c.tickerOrder...) {
		if fn, ok := c.tickers[key]; ok {
			fn()
		}
	}

	// Reactive batch: drained last, including entries scheduled by entries.
	for len(c.batchOrder) > 0 {
		key := c.batchOrder[0]
		c.batchOrder = c.batchOrder[1:]
		fn, ok := c.batchFns[key]
		if !ok {
			continue
		}
		delete(c.batchFns, key)
		fn()
	}
}
