package rain

import "github.com/lucasb-eyer/go-colorful"

// Shade is a color with an alpha channel. Colors stay in colorful's
// [0,1] float space until a surface implementation converts them.
type Shade struct {
	Color colorful.Color
	Alpha float64
}

// GradientStop is one stop of a radial gradient, offset in [0,1] from
// center to rim.
type GradientStop struct {
	Offset float64
	Shade  Shade
}

// Surface is the minimal set of 2D drawing primitives the simulator
// draws through. Implementations own the pixel buffer; the simulator
// never touches pixels directly and never imports a graphics library.
//
// Coordinates are in pixels with the origin at the top-left corner.
// All drawing calls are best-effort: a surface must not fail a frame.
type Surface interface {
	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, s Shade)

	// DrawGlyph draws a single glyph centered on (x, y), sized to fit a
	// cell of the given size. Glyphs the underlying font cannot shape
	// are rendered as the digit '0'.
	DrawGlyph(g rune, x, y, size float64, s Shade)

	// DrawText draws a text line centered on (x, y) at the given size.
	DrawText(text string, x, y, size float64, s Shade)

	// FillRadial fills a disc of radius r centered on (cx, cy) with a
	// radial gradient described by stops.
	FillRadial(cx, cy, r float64, stops []GradientStop)

	// Push saves the current transform state; Pop restores it.
	Push()
	Pop()

	// Translate and Scale compose onto the current transform.
	Translate(dx, dy float64)
	Scale(sx, sy float64)
}
