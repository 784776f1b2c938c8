package segue

// SwapEvent carries page-swap data for the coordinator's hooks.
type SwapEvent struct {
	Leaving  *Node
	Entering *Node
	Swap     *Task   // settles when the whole swap completes
	Offset   float64 // scroll offset captured when the old page left
}

// Swap sequences a page transition: outgoing-page capture, scroll-position
// freeze, and incoming-page reveal. The outro visual itself is delegated to
// a [Portal]'s keep-alive wait; Swap only choreographs state around it.
//
// Exactly one swap deferred is current at a time. Starting a new swap before
// the previous one resolved is a caller error and is not defended against:
// anything awaiting the abandoned deferred hangs.
type Swap struct {
	stage *Stage

	// Freeze is raised while a swap is interaction-frozen; ScrollPause while
	// scroll handling is suspended. Reference-counted so modals and loaders
	// can hold them concurrently with the coordinator.
	Freeze      *Flag
	ScrollPause *Flag

	swapping bool
	initial  bool
	swap     *Task
	offset   float64
	entering *Node

	before *Hook[SwapEvent]
	during *Hook[SwapEvent]
	after  *Hook[SwapEvent]
}

// NewSwap creates a coordinator in the pre-first-paint state.
func NewSwap(stage *Stage) *Swap {
	return &Swap{
		stage:       stage,
		Freeze:      NewFlag(),
		ScrollPause: NewFlag(),
		initial:     true,
		swap:        NewTask(),
		before:      NewHook(HookConfig[SwapEvent]{}),
		during:      NewHook(HookConfig[SwapEvent]{}),
		after:       NewHook(HookConfig[SwapEvent]{}),
	}
}

// Swapping reports whether a page transition is in flight.
func (s *Swap) Swapping() bool { return s.swapping }

// Initial reports whether the application has not yet painted its first
// page.
func (s *Swap) Initial() bool { return s.initial }

// SwapTask returns the current swap deferred. It settles when the in-flight
// swap completes; before the first paint it settles on first mount.
func (s *Swap) SwapTask() *Task { return s.swap }

// OnBeforeSwap fires when the outgoing page starts leaving, with the leaving
// node and the fresh swap deferred.
func (s *Swap) OnBeforeSwap() *Hook[SwapEvent] { return s.before }

// OnSwap fires when the incoming page mounts beside the still-present
// leaving page.
func (s *Swap) OnSwap() *Hook[SwapEvent] { return s.during }

// OnAfterSwap fires once the swap has fully settled (or immediately after
// first paint).
func (s *Swap) OnAfterSwap() *Hook[SwapEvent] { return s.after }

// LeaveStart begins a swap as the outgoing page's exit starts: scroll
// triggers scoped to the leaving subtree are disabled, the scroll offset is
// captured and compensated so the page appears pinned, scroll resets to
// zero, global freeze and scroll-pause are raised, and a fresh swap deferred
// is created.
func (s *Swap) LeaveStart(leaving *Node) {
	s.stage.DisableObservers(leaving)

	offset := s.stage.Scroll().Y
	s.offset = offset
	// Compensating margin: the page stays visually where it was while the
	// scroll position snaps back to zero underneath it.
	leaving.Y += offset
	s.stage.SetScroll(Vec2{})

	s.Freeze.Raise("swap")
	s.ScrollPause.Raise("swap")
	s.swapping = true
	s.swap = NewTask()

	s.before.Dispatch(SwapEvent{Leaving: leaving, Swap: s.swap, Offset: offset})
}

// EnterMount runs when the incoming page mounts. On the application's first
// paint the swap deferred resolves immediately. Otherwise the still-present
// leaving sibling is located, the recorded offset is applied so the new page
// starts exactly where the old one appeared to be, and viewport triggers are
// refreshed.
func (s *Swap) EnterMount(entering *Node) {
	if s.initial {
		s.initial = false
		swap := s.swap
		swap.Resolve()
		s.after.Dispatch(SwapEvent{Entering: entering, Swap: swap})
		return
	}

	leaving := s.findLeavingSibling(entering)
	entering.Y = s.offset
	s.entering = entering
	s.stage.RefreshTriggers()

	s.during.Dispatch(SwapEvent{Leaving: leaving, Entering: entering, Swap: s.swap, Offset: s.offset})
}

// Settle runs when the entering page has become the settled page and its
// transition wrapper unwinds: temporary positioning is cleared, triggers are
// refreshed, the global flags drop, listeners are notified, and the swap
// deferred resolves so anything awaiting the transition unblocks.
func (s *Swap) Settle() {
	if s.entering != nil {
		s.entering.Y = 0
		s.entering = nil
	}
	s.stage.RefreshTriggers()

	s.Freeze.Lower("swap")
	s.ScrollPause.Lower("swap")
	s.swapping = false

	s.after.Dispatch(SwapEvent{Swap: s.swap})
	s.swap.Resolve()
}

// findLeavingSibling returns a mounted sibling of entering, which during a
// swap is the old page still held alive by its portal.
func (s *Swap) findLeavingSibling(entering *Node) *Node {
	if entering.Parent == nil {
		return nil
	}
	for _, sib := range entering.Parent.Children() {
		if sib != entering && sib.Mounted() {
			return sib
		}
	}
	return nil
}
