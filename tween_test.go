package segue

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func fadeSpec(duration float64) TransitionSpec {
	return TransitionSpec{
		Duration: duration,
		Tick:     func(n *Node, t float64) { n.Alpha = t },
	}
}

func TestAnimReachesEnd(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0
	a := newAnim(n, fadeSpec(1.0), 0)

	a.update(0.5)
	if a.Done() {
		t.Fatal("should not be done at halfway")
	}
	if math.Abs(n.Alpha-0.5) > 0.01 {
		t.Errorf("Alpha = %f, want ~0.5 at halfway", n.Alpha)
	}

	a.update(0.5)
	if !a.Done() {
		t.Fatal("should be done after full duration")
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %f, want 1", n.Alpha)
	}
}

func TestAnimDelayPhase(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0.7
	spec := fadeSpec(0.2)
	spec.Delay = 0.1
	a := newAnim(n, spec, 0)

	a.update(0.05)
	if n.Alpha != 0.7 {
		t.Errorf("Alpha = %f, tick must not run during delay", n.Alpha)
	}
	if a.Progress() != 0 {
		t.Errorf("Progress = %f, want 0 during delay", a.Progress())
	}

	a.update(0.15) // 0.1 into the body
	if math.Abs(a.Progress()-0.5) > 0.01 {
		t.Errorf("Progress = %f, want ~0.5", a.Progress())
	}
}

func TestAnimSetProgressSeeks(t *testing.T) {
	n := NewNode("n")
	a := newAnim(n, fadeSpec(2.0), 0)

	a.SetProgress(0.25)
	if math.Abs(a.Progress()-0.25) > 0.001 {
		t.Errorf("Progress = %f, want 0.25", a.Progress())
	}
	if math.Abs(n.Alpha-0.25) > 0.01 {
		t.Errorf("Alpha = %f, want ~0.25 after seek", n.Alpha)
	}
}

func TestAnimStartRatio(t *testing.T) {
	n := NewNode("n")
	a := newAnim(n, fadeSpec(1.0), 0.6)

	if math.Abs(a.Progress()-0.6) > 0.001 {
		t.Errorf("Progress = %f, want 0.6", a.Progress())
	}
	if math.Abs(n.Alpha-0.6) > 0.01 {
		t.Errorf("Alpha = %f, want ~0.6", n.Alpha)
	}

	a.update(0.4)
	if !a.Done() {
		t.Error("should finish after the remaining 40%")
	}
}

func TestAnimKill(t *testing.T) {
	n := NewNode("n")
	a := newAnim(n, fadeSpec(1.0), 0)
	var completed *bool
	a.OnEnd(func(done bool) { completed = &done })

	a.update(0.3)
	a.Kill()

	if a.Active() {
		t.Error("killed anim should not be active")
	}
	if completed == nil || *completed {
		t.Error("OnEnd should run with completed=false on kill")
	}

	alpha := n.Alpha
	a.update(0.5)
	if n.Alpha != alpha {
		t.Error("killed anim must not tick")
	}
}

func TestAnimRestart(t *testing.T) {
	n := NewNode("n")
	a := newAnim(n, fadeSpec(1.0), 0)

	a.update(0.7)
	a.Restart()
	if a.Progress() != 0 {
		t.Errorf("Progress = %f, want 0 after restart", a.Progress())
	}
	a.update(0.5)
	if math.Abs(a.Progress()-0.5) > 0.001 {
		t.Errorf("Progress = %f, want 0.5 after replay", a.Progress())
	}
}

func TestAnimZeroDurationCompletesImmediately(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0
	a := newAnim(n, TransitionSpec{Tick: func(n *Node, t float64) { n.Alpha = t }}, 0)

	if !a.Done() {
		t.Fatal("zero-duration anim should complete at creation")
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %f, want 1 (end state ticked once)", n.Alpha)
	}
}

func TestAnimOnEndReplay(t *testing.T) {
	n := NewNode("n")
	a := newAnim(n, fadeSpec(0.1), 0)
	a.update(0.2)

	called := false
	a.OnEnd(func(done bool) { called = done })
	if !called {
		t.Error("OnEnd on a finished anim should run immediately with completed=true")
	}
}

func TestAnimEasedCurveDiffersFromLinear(t *testing.T) {
	linear := NewNode("linear")
	cubic := NewNode("cubic")

	la := newAnim(linear, fadeSpec(1.0), 0)
	spec := fadeSpec(1.0)
	spec.Ease = ease.OutCubic
	ca := newAnim(cubic, spec, 0)

	la.update(0.5)
	ca.update(0.5)

	if math.Abs(linear.Alpha-cubic.Alpha) < 0.05 {
		t.Errorf("easing should differ at midpoint: linear=%f cubic=%f", linear.Alpha, cubic.Alpha)
	}
	if cubic.Alpha <= linear.Alpha {
		t.Errorf("OutCubic should be ahead of linear at midpoint: %f vs %f", cubic.Alpha, linear.Alpha)
	}
}

func TestAnimUpdateDoesNotAllocate(t *testing.T) {
	n := NewNode("n")
	a := newAnim(n, fadeSpec(10), 0)
	a.update(0.01)

	allocs := testing.AllocsPerRun(100, func() {
		a.update(0.0001)
	})
	if allocs > 0 {
		t.Errorf("Anim.update allocated %f times per run, want 0", allocs)
	}
}

func TestClockDrivesAnimsAndDropsFinished(t *testing.T) {
	c := NewClock()
	n := NewNode("n")
	a := newAnim(n, fadeSpec(0.2), 0)
	c.play(a)

	c.Update(0.1)
	if c.ActiveAnims() != 1 {
		t.Fatalf("ActiveAnims = %d, want 1", c.ActiveAnims())
	}
	c.Update(0.1)
	if !a.Done() {
		t.Fatal("anim should complete")
	}
	if c.ActiveAnims() != 0 {
		t.Errorf("ActiveAnims = %d, want 0 after completion", c.ActiveAnims())
	}
}
