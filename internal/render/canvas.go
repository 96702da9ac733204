// Package render backs the rain.Surface contract with a CPU raster
// canvas from github.com/gogpu/gg and handles font loading and glyph
// fallback.
package render

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

// glyphScale sizes the font face relative to the grid cell so glyphs
// fill the cell without touching their neighbors.
const glyphScale = 0.92

// Canvas implements rain.Surface over a gg drawing context. It keeps a
// small face cache keyed by rounded pixel size; the cache empties when
// the font source changes.
type Canvas struct {
	ctx    *gg.Context
	source *text.FontSource
	faces  map[int]text.Face
}

// NewCanvas creates a canvas with its own pixel buffer. source may be
// nil, in which case glyph and text calls degrade to no-ops (the
// simulation itself keeps running).
func NewCanvas(width, height int, source *text.FontSource) *Canvas {
	return &Canvas{
		ctx:    gg.NewContext(width, height),
		source: source,
		faces:  make(map[int]text.Face),
	}
}

// Resize replaces the pixel buffer. State (transform, color) resets.
func (c *Canvas) Resize(width, height int) {
	c.ctx = gg.NewContext(width, height)
}

// SetFontSource swaps the font and invalidates the face cache.
func (c *Canvas) SetFontSource(source *text.FontSource) {
	c.source = source
	c.faces = make(map[int]text.Face)
}

// Size returns the pixel dimensions of the backing buffer.
func (c *Canvas) Size() (w, h int) {
	return c.ctx.Width(), c.ctx.Height()
}

// Image returns the backing bitmap. The buffer is reused between
// frames; callers that keep a frame must copy it.
func (c *Canvas) Image() image.Image {
	return c.ctx.Image()
}

// FillRect implements rain.Surface.
func (c *Canvas) FillRect(x, y, w, h float64, s rain.Shade) {
	c.ctx.SetRGBA(s.Color.R, s.Color.G, s.Color.B, s.Alpha)
	c.ctx.DrawRectangle(x, y, w, h)
	_ = c.ctx.Fill()
}

// DrawGlyph implements rain.Surface. Glyphs missing from the font fall
// back to the digit '0' rather than a blank cell.
func (c *Canvas) DrawGlyph(g rune, x, y, size float64, s rain.Shade) {
	face := c.face(size * glyphScale)
	if face == nil {
		return
	}
	if !face.HasGlyph(g) {
		g = rain.FallbackGlyph
	}
	c.ctx.SetFont(face)
	c.ctx.SetRGBA(s.Color.R, s.Color.G, s.Color.B, s.Alpha)
	c.ctx.DrawStringAnchored(string(g), x, y, 0.5, 0.5)
}

// DrawText implements rain.Surface; the line is centered on (x, y).
func (c *Canvas) DrawText(line string, x, y, size float64, s rain.Shade) {
	face := c.face(size)
	if face == nil {
		return
	}
	c.ctx.SetFont(face)
	c.ctx.SetRGBA(s.Color.R, s.Color.G, s.Color.B, s.Alpha)
	c.ctx.DrawStringAnchored(line, x, y, 0.5, 0.5)
}

// FillRadial implements rain.Surface.
func (c *Canvas) FillRadial(cx, cy, r float64, stops []rain.GradientStop) {
	if r <= 0 || len(stops) == 0 {
		return
	}
	brush := gg.NewRadialGradientBrush(cx, cy, 0, r)
	for _, st := range stops {
		brush.AddColorStop(st.Offset, gg.RGBA2(st.Shade.Color.R, st.Shade.Color.G, st.Shade.Color.B, st.Shade.Alpha))
	}
	c.ctx.SetFillBrush(brush)
	c.ctx.DrawCircle(cx, cy, r)
	_ = c.ctx.Fill()
}

// Push implements rain.Surface.
func (c *Canvas) Push() { c.ctx.Push() }

// Pop implements rain.Surface.
func (c *Canvas) Pop() { c.ctx.Pop() }

// Translate implements rain.Surface.
func (c *Canvas) Translate(dx, dy float64) { c.ctx.Translate(dx, dy) }

// Scale implements rain.Surface.
func (c *Canvas) Scale(sx, sy float64) { c.ctx.Scale(sx, sy) }

func (c *Canvas) face(size float64) text.Face {
	if c.source == nil || size <= 0 {
		return nil
	}
	key := int(math.Round(size * 4))
	if f, ok := c.faces[key]; ok {
		return f
	}
	f := c.source.Face(size)
	c.faces[key] = f
	return f
}
