package segue

// LoadFunc starts loading the asset named by key and settles done when it
// finishes, successfully or with an error.
type LoadFunc func(key string, done *Task)

// Preload is a keyed asset preload cache. Repeated fetches of the same key
// share one task; a fetch that fails is evicted so a future fetch retries
// from scratch. Failure reaches only subscribers of the returned task —
// boundaries registering preload tasks treat a failed load as settled, so a
// broken asset can never wedge a reveal.
type Preload struct {
	load  LoadFunc
	cache map[string]*Task
}

// NewPreload creates a cache that loads through load.
func NewPreload(load LoadFunc) *Preload {
	return &Preload{load: load, cache: map[string]*Task{}}
}

// Fetch returns the task for key, starting the load on first request.
func (p *Preload) Fetch(key string) *Task {
	if task, ok := p.cache[key]; ok {
		return task
	}
	task := NewTask()
	p.cache[key] = task
	task.OnSettle(func(err error) {
		// Evict failures so the next Fetch retries.
		if err != nil && p.cache[key] == task {
			delete(p.cache, key)
		}
	})
	p.load(key, task)
	return task
}

// FetchAll fetches every key and returns a task that settles when all of
// them have settled.
func (p *Preload) FetchAll(keys ...string) *Task {
	tasks := make([]*Task, len(keys))
	for i, key := range keys {
		tasks[i] = p.Fetch(key)
	}
	return All(tasks...)
}

// Cached reports whether key has a live (non-evicted) cache entry.
func (p *Preload) Cached(key string) bool {
	_, ok := p.cache[key]
	return ok
}
