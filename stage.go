package segue

// ObserveOptions configures an observation registration.
type ObserveOptions struct {
	// Scroll makes the callback fire when the stage scroll offset changes,
	// in addition to explicit RefreshTriggers calls.
	Scroll bool
}

// observer is one registered measurement callback.
type observer struct {
	target   *Node
	callback func()
	opts     ObserveOptions
	disabled bool
	disposed bool
}

// Stage owns the node tree, the clock, the viewport, and the scroll offset.
// It is the "document" of the orchestration layer: a node is mounted when it
// is reachable from Stage.Root. The host pumps Update once per render frame.
type Stage struct {
	root      *Node
	clock     *Clock
	viewport  Rect
	scroll    Vec2
	observers []*observer
	debug     bool
}

// NewStage creates a stage with the given viewport and a pre-created root
// node.
func NewStage(viewport Rect) *Stage {
	s := &Stage{
		root:     NewNode("root"),
		clock:    NewClock(),
		viewport: viewport,
	}
	s.root.stage = s
	s.root.everMounted = true
	return s
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node {
	return s.root
}

// Clock returns the stage's scheduler.
func (s *Stage) Clock() *Clock {
	return s.clock
}

// Viewport returns the stage's visible rectangle in stage coordinates.
func (s *Stage) Viewport() Rect {
	return s.viewport
}

// SetViewport resizes the viewport and refreshes all observers.
func (s *Stage) SetViewport(r Rect) {
	s.viewport = r
	s.RefreshTriggers()
}

// Update advances the stage by dt seconds: animations, timers, and the
// reactive batch all run here, in that order.
func (s *Stage) Update(dt float64) {
	s.clock.Update(dt)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and orchestration faults are logged to stderr.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// --- Scroll ---

// Scroll returns the current scroll offset.
func (s *Stage) Scroll() Vec2 {
	return s.scroll
}

// SetScroll sets the scroll offset and notifies scroll observers.
func (s *Stage) SetScroll(v Vec2) {
	if s.scroll == v {
		return
	}
	s.scroll = v
	for _, o := range s.observers {
		if o.disposed || o.disabled || !o.opts.Scroll {
			continue
		}
		o.callback()
	}
}

// --- Observation primitive ---

// Observe registers a measurement callback scoped to target. The callback
// fires on RefreshTriggers (and on scroll when opts.Scroll is set) until the
// returned dispose function is called. This is the resize/visibility
// observation seam the swap coordinator drives.
func (s *Stage) Observe(target *Node, callback func(), opts ObserveOptions) (dispose func()) {
	o := &observer{target: target, callback: callback, opts: opts}
	s.observers = append(s.observers, o)
	return func() {
		o.disposed = true
		for i, cur := range s.observers {
			if cur == o {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// RefreshTriggers re-fires every enabled observer so viewport-dependent
// measurements pick up layout changes (page swap positioning, viewport
// resize).
func (s *Stage) RefreshTriggers() {
	for _, o := range append([]*observer(nil), s.observers...) {
		if o.disposed || o.disabled {
			continue
		}
		o.callback()
	}
}

// DisableObservers suspends every observer whose target sits inside the
// given subtree. Used to silence scroll triggers on a leaving page while it
// animates out.
func (s *Stage) DisableObservers(subtree *Node) {
	for _, o := range s.observers {
		if o.target != nil && isAncestor(subtree, o.target) {
			o.disabled = true
		}
	}
}

// EnableObservers re-enables observers previously disabled for the subtree.
func (s *Stage) EnableObservers(subtree *Node) {
	for _, o := range s.observers {
		if o.target != nil && isAncestor(subtree, o.target) {
			o.disabled = false
		}
	}
}

// --- Visibility ---

// VisibleRatio returns the fraction of the node's global bounds (after
// scroll) that intersects the viewport. A node with zero area counts as
// fully visible: there is nothing to measure against.
func (s *Stage) VisibleRatio(n *Node) float64 {
	b := n.GlobalBounds()
	b.X -= s.scroll.X
	b.Y -= s.scroll.Y
	area := b.Width * b.Height
	if area <= 0 {
		return 1
	}
	return b.intersection(s.viewport) / area
}
