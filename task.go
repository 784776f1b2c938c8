package segue

// Task is a single-threaded promise analogue: a completion that settles
// exactly once, successfully or with an error, and replays its settlement to
// late subscribers. All methods must be called from the update loop's
// goroutine; segue is single-threaded like willow.
type Task struct {
	settled   bool
	err       error
	callbacks []func(err error)
}

// NewTask creates an unsettled task.
func NewTask() *Task {
	return &Task{}
}

// DoneTask returns a task that is already settled successfully.
func DoneTask() *Task {
	return &Task{settled: true}
}

// Resolve settles the task successfully and runs its callbacks in
// registration order. Settling twice is a no-op.
func (t *Task) Resolve() {
	t.settle(nil)
}

// Fail settles the task with err and runs its callbacks. The error reaches
// only code that explicitly subscribed to this task; aggregates such as
// [Suspense] treat a failed task as settled.
func (t *Task) Fail(err error) {
	t.settle(err)
}

func (t *Task) settle(err error) {
	if t.settled {
		return
	}
	t.settled = true
	t.err = err
	cbs := t.callbacks
	t.callbacks = nil
	for _, cb := range cbs {
		cb(err)
	}
}

// Settled reports whether the task has resolved or failed.
func (t *Task) Settled() bool {
	return t.settled
}

// Err returns the settlement error, nil before settlement or on success.
func (t *Task) Err() error {
	return t.err
}

// OnSettle registers fn to run when the task settles. If the task has
// already settled, fn runs immediately with the settlement error.
func (t *Task) OnSettle(fn func(err error)) {
	if t.settled {
		fn(t.err)
		return
	}
	t.callbacks = append(t.callbacks, fn)
}

// All returns a task that settles successfully once every given task has
// settled (regardless of individual errors). With no tasks it is already
// settled.
func All(tasks ...*Task) *Task {
	out := NewTask()
	remaining := len(tasks)
	if remaining == 0 {
		out.Resolve()
		return out
	}
	for _, task := range tasks {
		task.OnSettle(func(error) {
			remaining--
			if remaining == 0 {
				out.Resolve()
			}
		})
	}
	return out
}
