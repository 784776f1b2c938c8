package segue

// record is one TransitionRecord: the active or most recent transition for a
// direction. Two live per Transition instance, one per direction,
// overwritten in place so the prior one stays queryable as "last".
type record struct {
	anim       *Anim
	params     Params
	startRatio float64
	kind       Kind
}

// Transition is the stateful intro/outro/idle engine for one piece of
// content. It resolves parameters (call over per-direction defaults over
// instance defaults), reads declarative instant/bypass attributes off the
// target, skips work that markup or visibility rules out, and arbitrates
// overlapping requests. The instance exclusively owns its currently playing
// [Anim]; overlap resolution, not locking, enforces single-writer access.
type Transition struct {
	stage       *Stage
	defaults    Params
	dirDefaults [2]Params

	records   [2]*record
	active    *Anim
	activeDir Direction
}

// NewTransition creates a transition engine with instance-wide default
// params. Per-direction defaults can be layered on with SetDefaults.
func NewTransition(stage *Stage, defaults Params) *Transition {
	return &Transition{stage: stage, defaults: defaults}
}

// SetDefaults sets the per-direction default params, resolved between
// call-site params and the instance defaults.
func (t *Transition) SetDefaults(dir Direction, p Params) {
	t.dirDefaults[dir] = p
}

// attrFlag coerces a declarative attribute into a directional boolean:
// "" and "false" are false, "in"/"out" match the direction, anything else
// is true. This lets markup force an instant or bypassed transition for one
// or both directions.
func attrFlag(n *Node, name string, dir Direction) bool {
	switch v := n.Attr(name); v {
	case "", "false":
		return false
	case "in", "out":
		return v == dir.String()
	default:
		return true
	}
}

// Validate reports whether a transition on n in the given direction would
// run rather than be skipped. Pure: no side effects. The skip rules are a
// bypass attribute, an instant outro, and an unmet in-viewport threshold.
func Validate(n *Node, dir Direction, inViewport float64) bool {
	if n == nil || n.IsDisposed() {
		return false
	}
	if attrFlag(n, "bypass", dir) {
		return false
	}
	if dir == DirectionOut && attrFlag(n, "instant", dir) {
		return false
	}
	if inViewport > 0 {
		st := n.Stage()
		if st == nil || st.VisibleRatio(n) < inViewport {
			return false
		}
	}
	return true
}

// opposite returns the other direction.
func (d Direction) opposite() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// resolve layers call params over per-direction defaults over instance
// defaults.
func (t *Transition) resolve(dir Direction, params Params) Params {
	return params.merged(t.dirDefaults[dir]).merged(t.defaults)
}

// resolveTarget turns a Params.Target into a node: a *Node passes through, a
// string is looked up by name under the stage root, an accessor func is
// called.
func (t *Transition) resolveTarget(target any) *Node {
	switch v := target.(type) {
	case *Node:
		return v
	case string:
		return t.stage.Root().Find(v)
	case func() *Node:
		return v()
	}
	return nil
}

// buildSpec runs the resolved transition function and backfills unset spec
// fields from the params.
func buildSpec(n *Node, p Params, dir Direction) TransitionSpec {
	var spec TransitionSpec
	if p.Fn != nil {
		spec = p.Fn(n, p, dir)
	}
	if spec.Delay == 0 {
		spec.Delay = p.Delay
	}
	if spec.Duration == 0 {
		spec.Duration = p.Duration
	}
	if spec.Ease == nil {
		spec.Ease = p.Ease
	}
	return spec
}

// Idle jumps straight to the direction's terminal visual state with no
// animation, reverting any active effects first. A call made before the
// target's first mount is queued against that target and applied exactly
// once when it mounts; targets queue independently.
func (t *Transition) Idle(dir Direction, params Params) {
	p := t.resolve(dir, params)
	n := t.resolveTarget(p.Target)
	if n != nil && !n.EverMounted() {
		n.onNextAttach(func() { t.applyIdle(dir, p, n) })
		return
	}
	t.applyIdle(dir, p, n)
}

func (t *Transition) applyIdle(dir Direction, p Params, n *Node) {
	if t.active != nil && t.active.Active() {
		t.active.Kill()
		t.active = nil
	}
	if n == nil || n.IsDisposed() {
		return
	}
	spec := buildSpec(n, p, dir)
	if spec.Tick != nil {
		spec.Tick(n, 1)
	}
	n.Interactable = dir == DirectionIn
	t.records[dir] = &record{params: p, startRatio: 1, kind: KindIdle}
}

// snapIdle reverts a direction to its last known idle state using the most
// recent record's params. Used by the invalidate overlap policy.
func (t *Transition) snapIdle(dir Direction) {
	rec := t.records[dir]
	if rec == nil {
		return
	}
	n := t.resolveTarget(rec.params.Target)
	if n == nil || n.IsDisposed() {
		return
	}
	spec := buildSpec(n, rec.params, dir)
	if spec.Tick != nil {
		spec.Tick(n, 1)
	}
	t.records[dir] = &record{params: rec.params, startRatio: 1, kind: KindIdle}
}

// Intro starts an entrance animation. Returns nil when the transition was
// skipped or prevented.
func (t *Transition) Intro(params Params) *Anim {
	return t.run(DirectionIn, params)
}

// Outro starts an exit animation. Returns nil when the transition was
// skipped or prevented.
func (t *Transition) Outro(params Params) *Anim {
	return t.run(DirectionOut, params)
}

func (t *Transition) run(dir Direction, params Params) *Anim {
	p := t.resolve(dir, params)
	n := t.resolveTarget(p.Target)
	if n == nil || n.IsDisposed() {
		return nil
	}
	instant := p.Instant || attrFlag(n, "instant", dir)
	bypass := p.Bypass || attrFlag(n, "bypass", dir)
	if bypass {
		return nil
	}
	if dir == DirectionOut && instant {
		// Instant removal: the caller unmounts immediately, nothing to play.
		return nil
	}
	if p.InViewport > 0 {
		st := n.Stage()
		if st == nil {
			st = t.stage
		}
		if st.VisibleRatio(n) < p.InViewport {
			return nil
		}
	}

	startRatio := 0.0
	if t.active != nil && t.active.Active() {
		if t.activeDir == dir {
			policy := p.Overlap
			if policy == OverlapDefault {
				policy = OverlapPrevent
			}
			switch policy {
			case OverlapPrevent:
				return nil
			case OverlapInvalidate:
				t.snapIdle(dir.opposite())
				startRatio = t.active.Progress()
			case OverlapAdd:
				startRatio = t.active.Progress()
			case OverlapRestart:
				t.active.Restart()
				return t.active
			}
		} else {
			// Reverse in flight: preserve visual continuity by starting the
			// opposite run where this one left off.
			startRatio = 1 - t.active.Progress()
		}
	}
	if p.Overwrite && t.active != nil && t.active.Active() {
		t.active.Kill()
		t.active = nil
	}

	spec := buildSpec(n, p, dir)
	kind := KindIntro
	if dir == DirectionOut {
		kind = KindOutro
	}

	if spec.empty() {
		return nil
	}
	if instant || spec.Duration <= 0 {
		// Instant intro (or degenerate spec): snap to the end state.
		if spec.Tick != nil {
			spec.Tick(n, 1)
		}
		n.Interactable = dir == DirectionIn
		t.records[dir] = &record{params: p, startRatio: 1, kind: kind}
		return nil
	}

	n.Interactable = dir == DirectionIn

	anim := newAnim(n, spec, startRatio)
	evStart, evEnd := EventIntroStart, EventIntroEnd
	if dir == DirectionOut {
		evStart, evEnd = EventOutroStart, EventOutroEnd
	}
	if p.DispatchEvents && n.OnTransitionEvent != nil {
		n.OnTransitionEvent(TransitionEvent{Type: evStart, Node: n, Ratio: startRatio, UserData: p.UserData})
	}
	anim.OnEnd(func(completed bool) {
		if t.active == anim {
			t.active = nil
		}
		if completed && p.DispatchEvents && n.OnTransitionEvent != nil {
			n.OnTransitionEvent(TransitionEvent{Type: evEnd, Node: n, Ratio: 1, UserData: p.UserData})
		}
	})

	t.records[dir] = &record{anim: anim, params: p, startRatio: startRatio, kind: kind}
	t.active = anim
	t.activeDir = dir
	t.stage.Clock().play(anim)
	return anim
}

// Playing returns the currently active animation and its direction, or nil.
func (t *Transition) Playing() (*Anim, Direction) {
	if t.active == nil || !t.active.Active() {
		return nil, DirectionIn
	}
	return t.active, t.activeDir
}

// LastKind returns the kind of the most recent transition in the direction,
// KindIdle if none has run.
func (t *Transition) LastKind(dir Direction) Kind {
	if t.records[dir] == nil {
		return KindIdle
	}
	return t.records[dir].kind
}

// LastAnim returns the animation of the most recent transition in the
// direction, nil for idle or skipped transitions.
func (t *Transition) LastAnim(dir Direction) *Anim {
	if t.records[dir] == nil {
		return nil
	}
	return t.records[dir].anim
}
