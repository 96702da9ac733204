package render

import (
	"image"

	"github.com/gogpu/gg/text"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

// Renderer ties a simulator to an offscreen canvas and produces
// bitmaps. Both the windowed preview (scale-to-fit blit) and the
// offline exporter consume frames through RenderFrame.
//
// A Renderer is not safe for concurrent use; the exporter builds its
// own instance instead of sharing the preview's.
type Renderer struct {
	sim    *rain.Simulator
	canvas *Canvas
}

// NewRenderer sizes the simulator and allocates the offscreen canvas.
// source may be nil for a glyph-less (background and overlay only)
// render, which keeps headless tests free of font files.
func NewRenderer(sim *rain.Simulator, source *text.FontSource, width, height int) *Renderer {
	sim.Resize(width, height)
	return &Renderer{
		sim:    sim,
		canvas: NewCanvas(width, height, source),
	}
}

// Simulator returns the wrapped simulator.
func (r *Renderer) Simulator() *rain.Simulator { return r.sim }

// Resize propagates a new size to both the simulator and the canvas.
func (r *Renderer) Resize(width, height int) {
	w, h := r.canvas.Size()
	if w == width && h == height {
		return
	}
	r.sim.Resize(width, height)
	r.canvas.Resize(width, height)
}

// SetFontSource swaps the glyph font at runtime.
func (r *Renderer) SetFontSource(source *text.FontSource) {
	r.canvas.SetFontSource(source)
}

// RenderFrame draws the current simulation state and returns the
// bitmap. The backing buffer is reused; copy it to keep the frame
// beyond the next call.
func (r *Renderer) RenderFrame() image.Image {
	r.sim.Draw(r.canvas)
	return r.canvas.Image()
}
