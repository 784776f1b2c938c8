package segue

import "testing"

func TestSwapInitialMountResolvesImmediately(t *testing.T) {
	stage := newTestStage()
	sw := NewSwap(stage)
	if !sw.Initial() {
		t.Fatal("coordinator starts in the pre-first-paint state")
	}

	first := sw.SwapTask()
	var afterEv *SwapEvent
	sw.OnAfterSwap().Listen(func(ev SwapEvent) func() { afterEv = &ev; return nil })

	page := NewNode("page")
	stage.Root().AddChild(page)
	sw.EnterMount(page)

	if sw.Initial() {
		t.Error("first mount ends the initial state")
	}
	if !first.Settled() {
		t.Error("the first swap deferred settles on first paint")
	}
	if afterEv == nil || afterEv.Entering != page {
		t.Error("after hook should fire with the entering page")
	}
}

func TestSwapLeaveStartCapturesAndPins(t *testing.T) {
	stage := newTestStage()
	sw := NewSwap(stage)
	page := NewNode("page")
	stage.Root().AddChild(page)
	sw.EnterMount(page) // first paint

	stage.SetScroll(Vec2{Y: 120})
	var beforeEv *SwapEvent
	sw.OnBeforeSwap().Listen(func(ev SwapEvent) func() { beforeEv = &ev; return nil })

	prevTask := sw.SwapTask()
	sw.LeaveStart(page)

	if !sw.Swapping() {
		t.Error("LeaveStart begins the swap")
	}
	if page.Y != 120 {
		t.Errorf("leaving.Y = %f, want 120 (pinned by the captured offset)", page.Y)
	}
	if stage.Scroll().Y != 0 {
		t.Errorf("scroll.Y = %f, want 0 after reset", stage.Scroll().Y)
	}
	if !sw.Freeze.Get() || !sw.ScrollPause.Get() {
		t.Error("freeze and scroll-pause should be raised")
	}
	if sw.SwapTask() == prevTask {
		t.Error("LeaveStart creates a fresh swap deferred")
	}
	if beforeEv == nil || beforeEv.Leaving != page || beforeEv.Offset != 120 {
		t.Errorf("before event = %+v, want leaving page with offset 120", beforeEv)
	}
}

func TestSwapLeaveStartDisablesScopedObservers(t *testing.T) {
	stage := newTestStage()
	sw := NewSwap(stage)
	boot := NewNode("boot")
	stage.Root().AddChild(boot)
	sw.EnterMount(boot)

	page := NewNode("page")
	inner := NewNode("inner")
	page.AddChild(inner)
	stage.Root().AddChild(page)

	calls := 0
	stage.Observe(inner, func() { calls++ }, ObserveOptions{})

	sw.LeaveStart(page)
	stage.RefreshTriggers()
	if calls != 0 {
		t.Error("observers under the leaving page must not fire mid-swap")
	}
}

func TestSwapEnterMountPositionsNewPage(t *testing.T) {
	stage := newTestStage()
	sw := NewSwap(stage)
	old := NewNode("old")
	stage.Root().AddChild(old)
	sw.EnterMount(old) // first paint

	stage.SetScroll(Vec2{Y: 80})
	sw.LeaveStart(old)

	next := NewNode("next")
	stage.Root().AddChild(next)

	var duringEv *SwapEvent
	sw.OnSwap().Listen(func(ev SwapEvent) func() { duringEv = &ev; return nil })
	sw.EnterMount(next)

	if next.Y != 80 {
		t.Errorf("entering.Y = %f, want 80 (matches the captured offset)", next.Y)
	}
	if duringEv == nil || duringEv.Entering != next || duringEv.Leaving != old {
		t.Errorf("during event = %+v, want entering=next leaving=old", duringEv)
	}
	if duringEv.Offset != 80 {
		t.Errorf("event offset = %f, want 80", duringEv.Offset)
	}
}

func TestSwapSettleUnwinds(t *testing.T) {
	stage := newTestStage()
	sw := NewSwap(stage)
	old := NewNode("old")
	stage.Root().AddChild(old)
	sw.EnterMount(old)

	stage.SetScroll(Vec2{Y: 40})
	sw.LeaveStart(old)
	next := NewNode("next")
	stage.Root().AddChild(next)
	sw.EnterMount(next)

	task := sw.SwapTask()
	sw.Settle()

	if sw.Swapping() {
		t.Error("Settle ends the swap")
	}
	if next.Y != 0 {
		t.Errorf("entering.Y = %f, want 0 after settle", next.Y)
	}
	if sw.Freeze.Get() || sw.ScrollPause.Get() {
		t.Error("global flags should drop at settle")
	}
	if !task.Settled() {
		t.Error("the swap deferred resolves at settle")
	}
}

func TestSwapFlagsSharedWithOtherHolders(t *testing.T) {
	stage := newTestStage()
	sw := NewSwap(stage)
	page := NewNode("page")
	stage.Root().AddChild(page)
	sw.EnterMount(page)

	sw.Freeze.Raise("modal")
	sw.LeaveStart(page)
	next := NewNode("next")
	stage.Root().AddChild(next)
	sw.EnterMount(next)
	sw.Settle()

	if !sw.Freeze.Get() {
		t.Error("settle must not drop a freeze held by another key")
	}
	sw.Freeze.Lower("modal")
	if sw.Freeze.Get() {
		t.Error("freeze should drop once the last holder releases")
	}
}

func TestSwapAbandonedDeferredNeverSettles(t *testing.T) {
	stage := newTestStage()
	sw := NewSwap(stage)
	page := NewNode("page")
	stage.Root().AddChild(page)
	sw.EnterMount(page)

	sw.LeaveStart(page)
	abandoned := sw.SwapTask()

	// Starting the next swap without settling strands the first deferred.
	sw.LeaveStart(page)
	next := NewNode("next")
	stage.Root().AddChild(next)
	sw.EnterMount(next)
	sw.Settle()

	if abandoned.Settled() {
		t.Error("a deferred abandoned by a re-entrant swap stays pending")
	}
	if !sw.SwapTask().Settled() {
		t.Error("the current deferred should have resolved")
	}
}
