package segue

// Flag is a reference-counted boolean shared by independent owners: each
// owner raises the flag under its own key and the flag reads true while any
// key is held. Owners cannot clobber each other's intent the way a single
// shared bool would allow.
//
// Used for the global interaction-freeze and scroll-pause states during a
// page swap, where the coordinator, modals, and loading screens may all
// want the same flag raised at once.
type Flag struct {
	holders map[string]struct{}
	changed *Hook[bool]
}

// NewFlag creates a lowered flag.
func NewFlag() *Flag {
	return &Flag{holders: map[string]struct{}{}}
}

// Raise holds the flag up under the given key. Raising an already-held key
// is a no-op.
func (f *Flag) Raise(key string) {
	was := f.Get()
	f.holders[key] = struct{}{}
	if !was && f.changed != nil {
		f.changed.Dispatch(true)
	}
}

// Lower releases the given key's hold. The flag stays raised while other
// keys hold it.
func (f *Flag) Lower(key string) {
	was := f.Get()
	delete(f.holders, key)
	if was && !f.Get() && f.changed != nil {
		f.changed.Dispatch(false)
	}
}

// Set raises or lowers the key depending on v.
func (f *Flag) Set(key string, v bool) {
	if v {
		f.Raise(key)
	} else {
		f.Lower(key)
	}
}

// Get reports whether any key currently holds the flag.
func (f *Flag) Get() bool {
	return len(f.holders) > 0
}

// OnChange returns the hook dispatched with the new value whenever the
// flag's aggregate state flips.
func (f *Flag) OnChange() *Hook[bool] {
	if f.changed == nil {
		f.changed = NewHook[bool](HookConfig[bool]{})
	}
	return f.changed
}
