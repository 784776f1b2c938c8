package segue

// PairFunc builds the animation for one side of a completed crossfade pair.
// item is the node the transition was called on, counterpart is the node it
// paired with under the same key.
type PairFunc func(item, counterpart *Node, params Params, dir Direction) TransitionSpec

// CrossfadeConfig configures a crossfade pair.
type CrossfadeConfig struct {
	// Fallback runs for a side whose counterpart never showed up within the
	// pairing window. Nil means the unpaired side gets an empty transition.
	Fallback TransitionFunc
}

// pairEntry is one node waiting for its counterpart under a key.
type pairEntry struct {
	node   *Node
	params Params
	dir    Direction
	pair   PairFunc
	bind   func(TransitionSpec)
}

// crossfade holds the two key-indexed registries shared by a linked pair of
// transition functions. At most one waiting node per key per side; a pairing
// is consumed exactly once when the counterpart registers.
type crossfade struct {
	stage     *Stage
	cfg       CrossfadeConfig
	toSend    map[string]*pairEntry
	toReceive map[string]*pairEntry
}

// NewCrossfade returns a linked [send, receive] pair of transition
// functions. Registering a node under a key on one side pairs it with a node
// waiting under the same key on the other side: both pair callbacks then run
// with item and counterpart references. A side with no counterpart by the
// end of the tick runs the fallback (or an empty transition). A waiting
// counterpart that no longer validates — left the viewport, bypassed — is
// abandoned rather than retried.
func NewCrossfade(stage *Stage, send, receive PairFunc, cfg CrossfadeConfig) (sendFn, receiveFn TransitionFunc) {
	cf := &crossfade{
		stage:     stage,
		cfg:       cfg,
		toSend:    map[string]*pairEntry{},
		toReceive: map[string]*pairEntry{},
	}
	sendFn = cf.transitionFunc(send, cf.toSend, cf.toReceive)
	receiveFn = cf.transitionFunc(receive, cf.toReceive, cf.toSend)
	return sendFn, receiveFn
}

// transitionFunc builds the callable for one side: own is the map this side
// waits in, other is the map its counterpart would be waiting in.
func (cf *crossfade) transitionFunc(pair PairFunc, own, other map[string]*pairEntry) TransitionFunc {
	return func(n *Node, p Params, dir Direction) TransitionSpec {
		key := p.Key
		if key == "" {
			key = n.Name
		}

		if counter, ok := other[key]; ok {
			delete(other, key)
			if !Validate(counter.node, counter.dir, counter.params.InViewport) {
				// The counterpart's window has passed; abandon it and wait
				// for a fresh one ourselves.
				return cf.wait(pair, own, key, n, p, dir)
			}
			// Consume the pairing: bind the waiting side's animation and
			// return our own.
			counter.bind(cf.pairSpecFor(counter, n))
			return buildPairSpec(pair, n, counter.node, p, dir)
		}
		return cf.wait(pair, own, key, n, p, dir)
	}
}

// pairSpecFor computes the waiting entry's animation against the counterpart
// that just arrived.
func (cf *crossfade) pairSpecFor(entry *pairEntry, counterpart *Node) TransitionSpec {
	return buildPairSpec(entry.pair, entry.node, counterpart, entry.params, entry.dir)
}

func buildPairSpec(pair PairFunc, item, counterpart *Node, p Params, dir Direction) TransitionSpec {
	spec := pair(item, counterpart, p, dir)
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

// wait registers the node in its own map and returns a late-bound spec: the
// envelope (delay/duration/ease) comes from the resolved params, and the
// tick delegates to whichever animation the pairing eventually binds. If the
// counterpart never arrives by the end of the tick, the fallback is bound
// instead.
func (cf *crossfade) wait(pair PairFunc, own map[string]*pairEntry, key string, n *Node, p Params, dir Direction) TransitionSpec {
	var bound *TransitionSpec
	entry := &pairEntry{node: n, params: p, dir: dir, pair: pair}
	entry.bind = func(spec TransitionSpec) {
		bound = &spec
	}
	if prev, ok := own[key]; ok {
		// Displaced: prev's counterpart never arrived and this registration
		// takes over its slot. Close prev's window as a missed pairing.
		if cf.cfg.Fallback != nil && Validate(prev.node, prev.dir, prev.params.InViewport) {
			prev.bind(cf.cfg.Fallback(prev.node, prev.params, prev.dir))
		}
	}
	own[key] = entry

	cf.stage.Clock().Batch(entry, func() {
		if own[key] != entry {
			return // consumed by a counterpart
		}
		delete(own, key)
		if !Validate(n, dir, p.InViewport) {
			return // window passed; abandon
		}
		if cf.cfg.Fallback != nil {
			entry.bind(cf.cfg.Fallback(n, p, dir))
		}
	})

	return TransitionSpec{
		Delay:    p.Delay,
		Duration: p.Duration,
		Ease:     p.Ease,
		Tick: func(n *Node, t float64) {
			if bound != nil && bound.Tick != nil {
				bound.Tick(n, t)
			}
		},
		OnEnd: func(n *Node, done bool) {
			if bound != nil && bound.OnEnd != nil {
				bound.OnEnd(n, done)
			}
		},
	}
}
