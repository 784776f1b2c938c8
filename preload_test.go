package segue

import (
	"errors"
	"testing"
)

func TestPreloadSharesTaskPerKey(t *testing.T) {
	starts := 0
	var pending *Task
	p := NewPreload(func(key string, done *Task) {
		starts++
		pending = done
	})

	a := p.Fetch("logo")
	b := p.Fetch("logo")

	if starts != 1 {
		t.Fatalf("starts = %d, want 1 (repeat fetches share the load)", starts)
	}
	if a != b {
		t.Error("both fetches should return the same task")
	}
	if !p.Cached("logo") {
		t.Error("key should be cached while loading")
	}

	pending.Resolve()
	if c := p.Fetch("logo"); c != a || starts != 1 {
		t.Error("a resolved entry stays cached")
	}
}

func TestPreloadFailureEvictsForRetry(t *testing.T) {
	starts := 0
	p := NewPreload(func(key string, done *Task) {
		starts++
		if starts == 1 {
			done.Fail(errors.New("404"))
		} else {
			done.Resolve()
		}
	})

	first := p.Fetch("logo")
	if first.Err() == nil {
		t.Fatal("first load should have failed")
	}
	if p.Cached("logo") {
		t.Fatal("failed entry should be evicted")
	}

	second := p.Fetch("logo")
	if second == first {
		t.Error("retry should start a fresh load")
	}
	if starts != 2 || !second.Settled() || second.Err() != nil {
		t.Errorf("retry should load from scratch and succeed (starts=%d)", starts)
	}
}

func TestPreloadFetchAll(t *testing.T) {
	tasks := map[string]*Task{}
	p := NewPreload(func(key string, done *Task) {
		tasks[key] = done
	})

	all := p.FetchAll("a", "b", "c")
	if all.Settled() {
		t.Fatal("combined task should be pending")
	}

	tasks["a"].Resolve()
	tasks["b"].Fail(errors.New("broken"))
	if all.Settled() {
		t.Fatal("combined task waits for every key")
	}
	tasks["c"].Resolve()
	if !all.Settled() {
		t.Error("combined task settles when all keys have, failures included")
	}
}

func TestPreloadFeedsSuspense(t *testing.T) {
	stage := newTestStage()
	var pending []*Task
	p := NewPreload(func(key string, done *Task) {
		pending = append(pending, done)
	})

	s := NewSuspense(stage, SuspenseConfig{})
	s.Scope(nil).Tasks(p.Fetch("hero"), p.Fetch("bg"))

	stage.Update(0)
	stage.Update(0)
	if s.Revealed() {
		t.Fatal("boundary must wait for the preloads")
	}

	pending[0].Resolve()
	pending[1].Fail(errors.New("missing"))
	stage.Update(0)
	stage.Update(0)
	if !s.Revealed() {
		t.Error("boundary should reveal once every preload settles, failed or not")
	}
}
