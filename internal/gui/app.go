// Package gui is the windowed preview. It blits the renderer's frames
// into an ebiten window at the display refresh rate and maps a small
// set of keys onto the simulator.
package gui

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/LaboratoryZero/matrixrain/internal/config"
	"github.com/LaboratoryZero/matrixrain/internal/rain"
	"github.com/LaboratoryZero/matrixrain/internal/render"
)

// maxFrameStep caps the wall-clock delta fed to the simulator so a
// stalled window (drag, sleep) does not teleport every column.
const maxFrameStep = 0.1

const windowTitle = "matrixrain - space pause, t glitch, d drain, 1-5 theme, f font, q quit"

// titleWithError appends the last font-picker failure to the window
// title so it does not vanish silently.
func titleWithError(err error) string {
	if err == nil {
		return windowTitle
	}
	return fmt.Sprintf("%s  [%v]", windowTitle, err)
}

type phaseStep struct {
	kind rain.PhaseKind
	dur  float64
}

var glitchScript = []phaseStep{
	{rain.PhaseCorruption, 2.0},
	{rain.PhaseError, 2.5},
	{rain.PhaseReset, 2.0},
}

var drainScript = []phaseStep{
	{rain.PhaseCompletion, 6.0},
}

type App struct {
	renderer *render.Renderer
	frame    *ebiten.Image

	script  []phaseStep
	stepIdx int
	elapsed float64

	presets []string
	preset  string

	paused   bool
	lastTick time.Time
	width    int
	height   int
}

func NewApp(renderer *render.Renderer, width, height int) *App {
	presets := config.ListPresets()
	sort.Strings(presets)
	return &App{
		renderer: renderer,
		presets:  presets,
		preset:   "classic",
		width:    width,
		height:   height,
	}
}

func (a *App) Update() error {
	if err := a.handleKeys(); err != nil {
		return err
	}
	if a.paused {
		a.lastTick = time.Time{}
		return nil
	}

	now := time.Now()
	dt := 1.0 / 60.0
	if !a.lastTick.IsZero() {
		dt = now.Sub(a.lastTick).Seconds()
		if dt > maxFrameStep {
			dt = maxFrameStep
		}
	}
	a.lastTick = now

	a.advanceScript(dt)
	a.renderer.Simulator().Update(dt)
	return nil
}

func (a *App) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.paused = !a.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.script = nil
		sim := a.renderer.Simulator()
		sim.SetPhase(rain.Phase{})
		sim.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		a.startScript(glitchScript)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		a.startScript(drainScript)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		// A failed pick shows in the title bar until the next attempt.
		ebiten.SetWindowTitle(titleWithError(a.pickFont()))
	}

	for i := 0; i < len(a.presets) && i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(i)) {
			a.applyPreset(a.presets[i])
		}
	}
	return nil
}

func (a *App) pickFont() error {
	path, err := zenity.SelectFile(
		zenity.Title("Choose Glyph Font"),
		zenity.FileFilters{{
			Name:     "Fonts",
			Patterns: []string{"*.ttf", "*.otf", "*.ttc"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	source, err := render.LoadFont(path)
	if err != nil {
		return fmt.Errorf("load font %s: %w", path, err)
	}
	a.renderer.SetFontSource(source)
	return nil
}

func (a *App) applyPreset(name string) {
	p, ok := config.GetPreset(name)
	if !ok {
		return
	}
	cfg := config.DefaultConfig()
	cfg.Rain = p
	sim := a.renderer.Simulator()
	s, err := cfg.Settings()
	if err != nil {
		return
	}
	cur := sim.Settings()
	s.GlyphSize = cur.GlyphSize
	s.Density = cur.Density
	if sim.ApplySettings(s) == nil {
		a.preset = name
	}
}

func (a *App) startScript(script []phaseStep) {
	a.script = script
	a.stepIdx = 0
	a.elapsed = 0
}

func (a *App) advanceScript(dt float64) {
	if a.script == nil {
		return
	}
	sim := a.renderer.Simulator()
	step := a.script[a.stepIdx]
	a.elapsed += dt
	progress := a.elapsed / step.dur
	if progress >= 1 {
		a.stepIdx++
		a.elapsed = 0
		if a.stepIdx >= len(a.script) {
			if step.kind == rain.PhaseReset || step.kind == rain.PhaseCompletion {
				sim.Reset()
			}
			a.script = nil
			a.stepIdx = 0
			sim.SetPhase(rain.Phase{})
			return
		}
		step = a.script[a.stepIdx]
		progress = 0
	}
	sim.SetPhase(rain.Phase{Kind: step.kind, Progress: progress})
}

func (a *App) Draw(screen *ebiten.Image) {
	img := a.renderer.RenderFrame()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		return
	}
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if a.frame == nil || a.frame.Bounds().Dx() != w || a.frame.Bounds().Dy() != h {
		a.frame = ebiten.NewImage(w, h)
	}
	a.frame.WritePixels(rgba.Pix)

	// Scale to fit, preserving aspect, centered.
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale := float64(sw) / float64(w)
	if s := float64(sh) / float64(h); s < scale {
		scale = s
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		(float64(sw)-float64(w)*scale)/2,
		(float64(sh)-float64(h)*scale)/2,
	)
	screen.DrawImage(a.frame, op)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != a.width || outsideHeight != a.height) {
		a.width = outsideWidth
		a.height = outsideHeight
		a.renderer.Resize(outsideWidth, outsideHeight)
	}
	return a.width, a.height
}

// Run opens the preview window and blocks until the user quits.
func Run(renderer *render.Renderer, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	app := NewApp(renderer, width, height)
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
