package segue

import "reflect"

// Priority orders listeners within one dispatch. High listeners run first,
// normal listeners follow in registration order, and low listeners run in a
// separate pass after everything else, so they observe the effects of every
// non-low listener from the same dispatch.
type Priority uint8

const (
	PriorityNormal Priority = iota // registration order, after high
	PriorityHigh                   // runs first
	PriorityLow                    // deferred to the end of the dispatch
)

// HookFunc is a hook listener. The returned cleanup (may be nil) runs before
// the listener is invoked again on a later dispatch and when the listener is
// removed, so a listener can represent a currently active effect rather than
// a stateless callback.
type HookFunc[T any] func(T) func()

// HookOptions configures one listener registration.
type HookOptions struct {
	// Once unregisters the listener after its first invocation.
	Once bool

	Priority Priority

	// Key overrides the listener's identity for dedupe and removal. By
	// default identity is the function's code pointer, which treats distinct
	// closures sharing a body as the same listener; pass a unique Key when
	// registering such closures.
	Key any
}

// HookConfig configures a hook channel.
type HookConfig[T any] struct {
	// BeforeDispatch and AfterDispatch bracket every dispatch, e.g. for
	// batching reactive work around the listener runs.
	BeforeDispatch func()
	AfterDispatch  func()

	// Validate, when non-nil and true at registration time, makes a freshly
	// added listener run once immediately with the Replay payload. This
	// gives late subscribers catch-up semantics: a listener added after the
	// channel already satisfies its condition still fires.
	Validate func() bool

	// Replay supplies the payload for a Validate catch-up run.
	// When nil the zero value of T is used.
	Replay func() T

	// DeferReplay postpones a Validate catch-up run to the next clock frame
	// instead of running it inside AddListener. Requires Clock.
	DeferReplay bool
	Clock       *Clock
}

type hookListener[T any] struct {
	fn       HookFunc[T]
	key      any
	once     bool
	priority Priority
	cleanup  func()
	removed  bool
}

// Hook is a typed pub/sub channel with priority ordering, once semantics,
// per-listener cleanup, and panic isolation: a panicking listener is logged
// and does not stop the dispatch.
type Hook[T any] struct {
	cfg       HookConfig[T]
	listeners []*hookListener[T]
}

// NewHook creates a hook channel with the given configuration.
func NewHook[T any](cfg HookConfig[T]) *Hook[T] {
	return &Hook[T]{cfg: cfg}
}

// funcKey identifies a listener by its function's code pointer. Duplicate
// registration of the same function reference is a no-op; note that distinct
// closures over the same function body share a code pointer and therefore
// also count as duplicates — use HookOptions.Key to tell them apart.
func funcKey[T any](fn HookFunc[T]) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// AddListener registers fn. Registering the same function reference (or the
// same HookOptions.Key) twice is a no-op. If the channel's Validate
// predicate is already satisfied, fn runs once right away (or on the next
// clock frame with DeferReplay).
func (h *Hook[T]) AddListener(fn HookFunc[T], opts HookOptions) {
	var key any = funcKey(fn)
	if opts.Key != nil {
		key = opts.Key
	}
	for _, l := range h.listeners {
		if l.key == key {
			return
		}
	}
	l := &hookListener[T]{fn: fn, key: key, once: opts.Once, priority: opts.Priority}
	h.listeners = append(h.listeners, l)

	if h.cfg.Validate != nil && h.cfg.Validate() {
		replay := func() T {
			var v T
			if h.cfg.Replay != nil {
				v = h.cfg.Replay()
			}
			return v
		}
		if h.cfg.DeferReplay && h.cfg.Clock != nil {
			h.cfg.Clock.Defer(func() {
				if !l.removed && h.cfg.Validate() {
					h.invoke(l, replay())
				}
			})
		} else {
			h.invoke(l, replay())
		}
	}
}

// Listen registers fn with default options.
func (h *Hook[T]) Listen(fn HookFunc[T]) {
	h.AddListener(fn, HookOptions{})
}

// RemoveListener runs fn's last cleanup (if any) and unregisters it.
// Removing an unknown listener is a no-op.
func (h *Hook[T]) RemoveListener(fn HookFunc[T]) {
	h.RemoveKey(funcKey(fn))
}

// RemoveKey unregisters the listener registered under key (the
// HookOptions.Key it was added with), running its last cleanup.
func (h *Hook[T]) RemoveKey(key any) {
	for i, l := range h.listeners {
		if l.key == key {
			l.removed = true
			if l.cleanup != nil {
				runGuarded(l.cleanup)
				l.cleanup = nil
			}
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Dispatch invokes every listener once with v: high priority first, then
// normal in registration order, then low as a final pass. A listener added
// during a dispatch does not run until the next dispatch; a listener removed
// during a dispatch is skipped.
func (h *Hook[T]) Dispatch(v T) {
	if h.cfg.BeforeDispatch != nil {
		h.cfg.BeforeDispatch()
	}
	snapshot := append([]*hookListener[T](nil), h.listeners...)
	for _, l := range snapshot {
		if l.priority == PriorityHigh {
			h.invoke(l, v)
		}
	}
	for _, l := range snapshot {
		if l.priority == PriorityNormal {
			h.invoke(l, v)
		}
	}
	for _, l := range snapshot {
		if l.priority == PriorityLow {
			h.invoke(l, v)
		}
	}
	if h.cfg.AfterDispatch != nil {
		h.cfg.AfterDispatch()
	}
}

// Len returns the number of registered listeners.
func (h *Hook[T]) Len() int {
	return len(h.listeners)
}

func (h *Hook[T]) invoke(l *hookListener[T], v T) {
	if l.removed {
		return
	}
	if l.cleanup != nil {
		runGuarded(l.cleanup)
		l.cleanup = nil
	}
	l.cleanup = callGuarded(l.fn, v)
	if l.once {
		// Unregister without running the cleanup that was just produced: it
		// represents the effect of the invocation that just happened.
		l.removed = true
		for i, cur := range h.listeners {
			if cur == l {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				break
			}
		}
	}
}

// callGuarded runs a listener, converting a panic into a log line so one
// faulty listener cannot abort the dispatch.
func callGuarded[T any](fn HookFunc[T], v T) (cleanup func()) {
	defer func() {
		if r := recover(); r != nil {
			logf("hook listener panic: %v", r)
			cleanup = nil
		}
	}()
	return fn(v)
}

// runGuarded runs a cleanup with the same panic isolation.
func runGuarded(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logf("hook cleanup panic: %v", r)
		}
	}()
	fn()
}
