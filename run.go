package segue

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int

	// UpdateFunc, when set, runs every tick after the stage update.
	UpdateFunc func(dt float64)

	// DrawFunc renders the frame. Segue draws nothing itself; the host owns
	// the pixels.
	DrawFunc func(screen *ebiten.Image)
}

// game adapts a Stage to ebiten.Game, pumping the clock with the fixed tick
// delta.
type game struct {
	stage *Stage
	cfg   RunConfig
}

func (g *game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	g.stage.Update(dt)
	if g.cfg.UpdateFunc != nil {
		g.cfg.UpdateFunc(dt)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.DrawFunc != nil {
		g.cfg.DrawFunc(screen)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run creates a window and game loop for the stage and blocks until the
// window closes. For full control, implement [ebiten.Game] yourself and call
// [Stage.Update] directly.
func Run(stage *Stage, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = int(stage.Viewport().Width)
	}
	if cfg.Height <= 0 {
		cfg.Height = int(stage.Viewport().Height)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(&game{stage: stage, cfg: cfg})
}
