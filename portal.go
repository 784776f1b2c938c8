package segue

// portalSample captures delay+duration for one tracked outgoing animation.
// node is optional; a sample whose node has since been detached contributes
// zero to the keep-alive, since an element that is already gone need not be
// waited for.
type portalSample struct {
	node     *Node
	delay    float64
	duration float64
}

// Portal tracks the durations of outgoing animations under a subtree and
// produces the delay needed before a hidden node may be safely unmounted:
// DOM removal waits for the slowest outgoing animation still attached.
type Portal struct {
	stage   *Stage
	samples []portalSample
}

// NewPortal creates a portal bound to the stage.
func NewPortal(stage *Stage) *Portal {
	return &Portal{stage: stage}
}

// Wrap decorates a transition function so every out-direction animation it
// produces is sampled. In-direction calls pass through unrecorded.
func (p *Portal) Wrap(fn TransitionFunc) TransitionFunc {
	return func(n *Node, params Params, dir Direction) TransitionSpec {
		spec := fn(n, params, dir)
		if dir == DirectionOut && !spec.empty() {
			p.samples = append(p.samples, portalSample{node: n, delay: spec.Delay, duration: spec.Duration})
		}
		return spec
	}
}

// Track records an externally driven animation handle unconditionally,
// regardless of direction: the caller asserts it represents outgoing motion.
func (p *Portal) Track(a *Anim) {
	if a == nil {
		return
	}
	p.samples = append(p.samples, portalSample{node: a.Node(), delay: a.Delay(), duration: a.Duration()})
}

// KeepAlive drains the sample list and returns the wait in seconds before
// the portal's content may be removed: the maximum delay+duration over
// samples whose node is absent or still attached, zero for detached-node
// samples. Draining happens exactly once; a second call without new samples
// returns 0.
func (p *Portal) KeepAlive() float64 {
	samples := p.samples
	p.samples = nil
	wait := 0.0
	for _, s := range samples {
		if s.node != nil && !s.node.Mounted() {
			continue
		}
		if d := s.delay + s.duration; d > wait {
			wait = d
		}
	}
	return wait
}

// ReleaseAfter defers n's real removal by the current keep-alive duration:
// after the slowest tracked outgoing animation has finished, n is detached
// from its parent and disposed. Returns the pending timer so a caller can
// cancel the removal.
func (p *Portal) ReleaseAfter(n *Node) *Timer {
	return p.stage.Clock().After(p.KeepAlive(), func() {
		if n.IsDisposed() {
			return
		}
		n.Dispose()
	})
}
