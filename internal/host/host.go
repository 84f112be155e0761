// Package host adapts a Machine to an ebiten.Game: it blits the
// framebuffer each frame and translates keyboard state into joypad
// buttons. Trimmed from the teacher's internal/ui.App, which also drove
// an APU audio stream, a save-state menu, and a ROM picker — all out of
// scope here (APU, save-states, and a ROM-browsing UI are non-goals).
package host

import (
	"github.com/andrewarrow/gbcore/internal/config"
	"github.com/andrewarrow/gbcore/internal/machine"
	"github.com/hajimehoshi/ebiten/v2"
)

// App is the ebiten.Game implementation driving one Machine.
type App struct {
	cfg config.Config
	m   *machine.Machine
	tex *ebiten.Image
}

// NewApp wires cfg and m into a ready-to-run App, grounded on the
// teacher's ebitenapp.go's NewApp (window title/size setup).
func NewApp(cfg config.Config, m *machine.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	return &App{cfg: cfg, m: m}
}

// Run starts the ebiten game loop.
func (a *App) Run() error { return ebiten.RunGame(a) }

// Update reads keyboard state into joypad buttons and steps one frame,
// grounded on the teacher's Update's keyboard-to-Buttons mapping.
func (a *App) Update() error {
	var btn machine.Buttons
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		btn.Right = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		btn.Left = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		btn.Up = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		btn.Down = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		btn.A = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		btn.B = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyEnter) {
		btn.Start = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		btn.Select = true
	}
	a.m.SetButtons(btn)
	a.m.StepFrame()
	return nil
}

// Draw blits the machine's framebuffer to the screen.
func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)
}

// Layout fixes the logical screen size to the DMG's native resolution.
func (a *App) Layout(outW, outH int) (int, int) { return 160, 144 }
