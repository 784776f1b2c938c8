package segue

import "github.com/tanema/gween/ease"

// Vec2 is a 2D vector used for positions, offsets, and sizes throughout
// the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// intersection returns the overlapping area of r and other, zero if disjoint.
func (r Rect) intersection(other Rect) float64 {
	w := min(r.X+r.Width, other.X+other.Width) - max(r.X, other.X)
	h := min(r.Y+r.Height, other.Y+other.Height) - max(r.Y, other.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Direction identifies which way a transition moves a node: onto the stage
// or off it.
type Direction uint8

const (
	DirectionIn  Direction = iota // node is entering (intro)
	DirectionOut                  // node is leaving (outro)
)

// String returns "in" or "out". These are also the attribute values that
// select a directional instant/bypass in markup.
func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// Kind classifies a transition record.
type Kind uint8

const (
	KindIdle  Kind = iota // jumped straight to a terminal visual state
	KindIntro             // animated entrance
	KindOutro             // animated exit
)

// OverlapPolicy resolves a new transition request arriving while another is
// in flight in the same direction on the same Transition instance.
type OverlapPolicy uint8

const (
	OverlapDefault    OverlapPolicy = iota // unset; resolves to OverlapPrevent
	OverlapPrevent                         // silently drop the new request
	OverlapInvalidate                      // snap the opposite slot idle, resume from interrupted progress
	OverlapAdd                             // layer the new animation at the current progress
	OverlapRestart                         // rewind the active animation, then replay
)

// TransitionEventType identifies a transition lifecycle event dispatched on
// a node when Params.DispatchEvents is set.
type TransitionEventType uint8

const (
	EventIntroStart TransitionEventType = iota // intro animation created
	EventIntroEnd                              // intro animation completed
	EventOutroStart                            // outro animation created
	EventOutroEnd                              // outro animation completed
)

// TransitionEvent carries transition lifecycle data for Node.OnTransitionEvent.
type TransitionEvent struct {
	Type     TransitionEventType
	Node     *Node
	Ratio    float64 // progress ratio the animation started from
	UserData any     // Params.UserData of the triggering call
}

// TransitionSpec describes one animation a transition function wants to run:
// wait Delay seconds, then drive Tick with eased progress in [0, 1] over
// Duration seconds. A zero-value spec is an empty transition (no animation).
type TransitionSpec struct {
	Delay    float64
	Duration float64
	Ease     ease.TweenFunc            // nil means ease.Linear
	Tick     func(n *Node, t float64)  // t is eased progress, 0..1
	OnEnd    func(n *Node, done bool)  // done is false when killed early
}

// empty reports whether the spec carries no animation at all.
func (s TransitionSpec) empty() bool {
	return s.Duration == 0 && s.Tick == nil
}

// TransitionFunc is a declarative transition call site: given the node, the
// resolved params, and the direction, it returns the animation to run.
// Transition functions are the unit the Portal wraps and the Crossfade pairs.
type TransitionFunc func(n *Node, params Params, dir Direction) TransitionSpec

// Params configures one transition call. Zero values mean "unset": effective
// params are resolved by layering call-site params over per-direction
// defaults over instance defaults, first set value wins. Boolean flags are
// OR-merged across the layers and the target node's attributes.
type Params struct {
	// Target is the node the transition attaches to: a *Node, a name string
	// resolved against the stage tree, or a func() *Node accessor. When nil
	// the instance default target is used.
	Target any

	// Fn produces the animation. When nil the instance default is used; a
	// transition with no Fn anywhere resolves to an empty spec.
	Fn TransitionFunc

	Delay    float64
	Duration float64
	Ease     ease.TweenFunc

	// Instant skips the animation for outros and snaps intros to their end
	// state. Also forced by an "instant" attribute on the target.
	Instant bool

	// Bypass skips the transition entirely.
	// Also forced by a "bypass" attribute on the target.
	Bypass bool

	// InViewport, when > 0, requires at least that fraction of the target's
	// global bounds to intersect the stage viewport, otherwise the
	// transition is skipped.
	InViewport float64

	// Overlap resolves a same-direction conflict. Zero means OverlapPrevent.
	Overlap OverlapPolicy

	// Overwrite kills the instance's active animation before starting.
	Overwrite bool

	// DispatchEvents brackets the animation with introstart/introend or
	// outrostart/outroend events on the target node.
	DispatchEvents bool

	// Key pairs this transition with its crossfade counterpart. Only read by
	// transition functions produced by [NewCrossfade].
	Key string

	// UserData is passed through to transition events and pairing callbacks.
	UserData any
}

// merged returns p layered over base: every unset field of p is filled from
// base, boolean flags are OR-merged.
func (p Params) merged(base Params) Params {
	if p.Target == nil {
		p.Target = base.Target
	}
	if p.Fn == nil {
		p.Fn = base.Fn
	}
	if p.Delay == 0 {
		p.Delay = base.Delay
	}
	if p.Duration == 0 {
		p.Duration = base.Duration
	}
	if p.Ease == nil {
		p.Ease = base.Ease
	}
	p.Instant = p.Instant || base.Instant
	p.Bypass = p.Bypass || base.Bypass
	if p.InViewport == 0 {
		p.InViewport = base.InViewport
	}
	if p.Overlap == OverlapDefault {
		p.Overlap = base.Overlap
	}
	p.Overwrite = p.Overwrite || base.Overwrite
	p.DispatchEvents = p.DispatchEvents || base.DispatchEvents
	if p.Key == "" {
		p.Key = base.Key
	}
	if p.UserData == nil {
		p.UserData = base.UserData
	}
	return p
}
