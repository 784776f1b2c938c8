package segue

// SuspenseConfig configures a suspense boundary.
type SuspenseConfig struct {
	// Parent links this boundary below another: while the parent is
	// suspended, this boundary is too.
	Parent *Suspense

	// Final makes the first reveal terminal: once revealed, the boundary
	// never re-suspends, even if new tasks are registered later.
	Final bool
}

// taskEntry is one registered pending task.
type taskEntry struct {
	task    *Task
	settled bool
	removed bool
}

// Suspense tracks pending async tasks and polled predicates across a
// component subtree and exposes a single suspended/revealed state. The
// boundary is suspended while any registered task is unsettled, any
// predicate evaluates true, or the parent boundary is suspended. When the
// condition clears, a settle timer equal to the largest registered delay
// runs; only if the condition stays clear until it fires does the boundary
// reveal.
//
// State decisions are made once per clock tick, after all same-tick
// mutations to the pending sets have landed.
type Suspense struct {
	stage  *Stage
	parent *Suspense
	final  bool

	revealed bool

	entries []*taskEntry
	preds   map[int]func() bool
	delays  map[int]float64
	nextID  int

	settleTimer *Timer
	cancelPoll  func()

	revealHook  *Hook[*Suspense]
	suspendHook *Hook[*Suspense]
}

// NewSuspense creates a boundary in the suspended state. With nothing
// registered it reveals after one tick (plus any delay registered before
// the batch runs).
func NewSuspense(stage *Stage, cfg SuspenseConfig) *Suspense {
	s := &Suspense{
		stage:  stage,
		parent: cfg.Parent,
		final:  cfg.Final,
		preds:  map[int]func() bool{},
		delays: map[int]float64{},
	}
	s.revealHook = NewHook(HookConfig[*Suspense]{
		Validate: func() bool { return s.revealed },
		Replay:   func() *Suspense { return s },
	})
	s.suspendHook = NewHook(HookConfig[*Suspense]{
		Validate: func() bool { return !s.revealed },
		Replay:   func() *Suspense { return s },
	})
	if s.parent != nil {
		link := func(*Suspense) func() { s.invalidate(); return nil }
		s.parent.revealHook.AddListener(link, HookOptions{Key: s})
		s.parent.suspendHook.AddListener(link, HookOptions{Key: s})
	}
	s.invalidate()
	return s
}

// Suspended reports whether the boundary is withholding its reveal.
func (s *Suspense) Suspended() bool {
	return !s.revealed
}

// Revealed reports whether the boundary has revealed.
func (s *Suspense) Revealed() bool {
	return s.revealed
}

// Total returns the number of tasks ever registered and still owned.
func (s *Suspense) Total() int {
	n := 0
	for _, e := range s.entries {
		if !e.removed {
			n++
		}
	}
	return n
}

// Resolved returns the number of registered tasks that have settled.
func (s *Suspense) Resolved() int {
	n := 0
	for _, e := range s.entries {
		if !e.removed && e.settled {
			n++
		}
	}
	return n
}

// Pending returns the number of registered tasks still unsettled.
func (s *Suspense) Pending() int {
	return s.Total() - s.Resolved()
}

// Progress returns resolved/total in [0, 1]. The denominator is floored at
// 1, so a boundary with zero tasks reports 0, not 1.
func (s *Suspense) Progress() float64 {
	total := s.Total()
	if total < 1 {
		total = 1
	}
	return float64(s.Resolved()) / float64(total)
}

// OnReveal registers a listener on the reveal event. A listener added after
// the boundary has already revealed fires immediately (late-subscriber
// catch-up).
func (s *Suspense) OnReveal(fn HookFunc[*Suspense]) {
	s.revealHook.Listen(fn)
}

// OnSuspend registers a listener on the suspend event, with the same
// catch-up semantics: the boundary starts suspended, so an early listener
// fires at registration.
func (s *Suspense) OnSuspend(fn HookFunc[*Suspense]) {
	s.suspendHook.Listen(fn)
}

// RevealHook returns the underlying reveal channel for priority or once
// registrations.
func (s *Suspense) RevealHook() *Hook[*Suspense] { return s.revealHook }

// SuspendHook returns the underlying suspend channel.
func (s *Suspense) SuspendHook() *Hook[*Suspense] { return s.suspendHook }

// condition reports the live suspended condition, independent of the state
// machine and settle timer.
func (s *Suspense) condition() bool {
	for _, e := range s.entries {
		if !e.removed && !e.settled {
			return true
		}
	}
	for _, pred := range s.preds {
		if pred() {
			return true
		}
	}
	return s.parent != nil && s.parent.Suspended()
}

// invalidate schedules a state decision in this tick's reactive batch.
// Multiple invalidations within one tick coalesce.
func (s *Suspense) invalidate() {
	s.stage.Clock().Batch(s, s.evaluate)
}

func (s *Suspense) evaluate() {
	if s.final && s.revealed {
		return
	}
	if s.condition() {
		if s.settleTimer != nil {
			s.settleTimer.Stop()
			s.settleTimer = nil
		}
		if s.revealed {
			s.revealed = false
			s.suspendHook.Dispatch(s)
		}
		return
	}
	if s.revealed || s.settleTimer != nil {
		return
	}
	s.settleTimer = s.stage.Clock().After(s.maxDelay(), func() {
		s.settleTimer = nil
		if s.revealed || s.condition() {
			return
		}
		s.revealed = true
		s.revealHook.Dispatch(s)
	})
}

func (s *Suspense) maxDelay() float64 {
	d := 0.0
	for _, v := range s.delays {
		if v > d {
			d = v
		}
	}
	return d
}

// pollPreds keeps the boundary re-evaluating while predicates exist, since a
// polled function can flip without any registration changing.
func (s *Suspense) pollPreds() {
	if len(s.preds) > 0 {
		if s.cancelPoll == nil {
			s.cancelPoll = s.stage.Clock().EachTick(s, func() { s.invalidate() })
		}
		return
	}
	if s.cancelPoll != nil {
		s.cancelPoll()
		s.cancelPoll = nil
	}
}

// --- Component-scoped registration ---

// SuspenseScope is a component-owned registration handle: every task,
// predicate, and delay registered through it is unregistered when the owning
// node is torn down, so one boundary safely aggregates contributions from a
// dynamically mounted and unmounted subtree. A nil owner scopes entries to
// the boundary's lifetime.
type SuspenseScope struct {
	s        *Suspense
	owner    *Node
	entries  []*taskEntry
	predIDs  []int
	delayIDs []int
	torn     bool
}

// Scope creates a registration scope owned by owner.
func (s *Suspense) Scope(owner *Node) *SuspenseScope {
	sc := &SuspenseScope{s: s, owner: owner}
	if owner != nil {
		afterMount := func() {
			owner.onNextDetach(sc.teardown)
		}
		if owner.Mounted() {
			afterMount()
		} else {
			owner.onNextAttach(afterMount)
		}
	}
	return sc
}

// Tasks registers already-started tasks with the boundary.
func (sc *SuspenseScope) Tasks(tasks ...*Task) *SuspenseScope {
	if sc.torn {
		return sc
	}
	for _, task := range tasks {
		e := &taskEntry{task: task}
		sc.s.entries = append(sc.s.entries, e)
		sc.entries = append(sc.entries, e)
		task.OnSettle(func(error) {
			// A failed task counts as settled: rejection reaches whoever
			// subscribed to the task, never the aggregate state.
			if e.removed || e.settled {
				return
			}
			e.settled = true
			sc.s.invalidate()
		})
		sc.s.invalidate()
	}
	return sc
}

// TaskFunc registers a deferred-start task: start is not called until the
// owning node has mounted, so no work begins during non-interactive passes.
// With a nil or already-mounted owner it starts immediately.
func (sc *SuspenseScope) TaskFunc(start func() *Task) *SuspenseScope {
	if sc.torn {
		return sc
	}
	if sc.owner == nil || sc.owner.EverMounted() {
		sc.Tasks(start())
		return sc
	}
	sc.owner.onNextAttach(func() {
		if !sc.torn {
			sc.Tasks(start())
		}
	})
	return sc
}

// State registers a polled predicate: the boundary stays suspended while it
// evaluates true.
func (sc *SuspenseScope) State(pred func() bool) *SuspenseScope {
	if sc.torn {
		return sc
	}
	sc.s.nextID++
	id := sc.s.nextID
	sc.s.preds[id] = pred
	sc.predIDs = append(sc.predIDs, id)
	sc.s.pollPreds()
	sc.s.invalidate()
	return sc
}

// Delay registers a settle delay in seconds. The boundary reveals only after
// the maximum registered delay has elapsed with the condition clear.
func (sc *SuspenseScope) Delay(seconds float64) *SuspenseScope {
	if sc.torn {
		return sc
	}
	sc.s.nextID++
	id := sc.s.nextID
	sc.s.delays[id] = seconds
	sc.delayIDs = append(sc.delayIDs, id)
	return sc
}

// teardown unregisters every entry this scope owns.
func (sc *SuspenseScope) teardown() {
	if sc.torn {
		return
	}
	sc.torn = true
	for _, e := range sc.entries {
		e.removed = true
	}
	for _, id := range sc.predIDs {
		delete(sc.s.preds, id)
	}
	for _, id := range sc.delayIDs {
		delete(sc.s.delays, id)
	}
	sc.s.pollPreds()
	sc.s.invalidate()
}
