// Package segue orchestrates scene transitions for [Ebitengine] games and
// interactive applications: enter/exit tween choreography, keyed crossfades
// between two nodes, suspense boundaries that gate a reveal on async work,
// and keep-alive deferral so outgoing animations finish before their nodes
// are detached.
//
// Segue is the companion library to [willow]. It does not render anything
// and implements no easing math — tweening is supplied by [gween], and the
// host (usually an [ebiten.Game]) pumps the update loop.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	stage := segue.NewStage(segue.Rect{Width: 640, Height: 480})
//	// ... add nodes, transitions ...
//	segue.Run(stage, segue.RunConfig{Title: "My Game", Width: 640, Height: 480})
//
// For full control, implement [ebiten.Game] yourself and call
// [Stage.Update] with the frame delta:
//
//	func (g *Game) Update() error {
//		g.stage.Update(1.0 / float64(ebiten.TPS()))
//		return nil
//	}
//
// # Transitions
//
// A [Transition] wraps one node's intro/outro/idle lifecycle. It resolves
// parameters from call-site params, per-direction defaults, and instance
// defaults, skips work the markup opted out of, and arbitrates overlapping
// requests with an [OverlapPolicy]:
//
//	tr := segue.NewTransition(stage, segue.Params{Target: card, Duration: 0.4})
//	tr.Intro(segue.Params{}) // fade/slide in
//	tr.Outro(segue.Params{}) // animate out; returns nil if one is running
//
// # Suspense
//
// A [Suspense] boundary withholds its reveal until every registered task
// and predicate has settled, then waits out the largest registered settle
// delay:
//
//	sus := segue.NewSuspense(stage, segue.SuspenseConfig{})
//	sus.Scope(card).Tasks(loadImages)
//	sus.OnReveal(func(*segue.Suspense) func() { show(); return nil })
//
// # Key features
//
// Typed priority hooks with cleanup semantics ([Hook]), keyed crossfade
// pairing ([NewCrossfade]), keep-alive unmount deferral ([Portal]), page
// swap sequencing ([Swap]), reference-counted shared flags ([Flag]), and a
// keyed asset preload cache ([Preload]).
//
// [Ebitengine]: https://ebitengine.org
// [willow]: https://github.com/phanxgames/willow
// [gween]: https://github.com/tanema/gween
package segue
