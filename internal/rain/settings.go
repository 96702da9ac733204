package rain

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Settings value ranges. Callers validate before assignment; the
// simulator rejects out-of-range snapshots instead of clamping them.
const (
	MinHeadBrightness = 0.5
	MaxHeadBrightness = 2.0
	MinFadeLength     = 0.5
	MaxFadeLength     = 2.0
	MinDensity        = 0.2
	MaxDensity        = 2.0
)

// Settings is an immutable visual-parameter snapshot. The simulator
// copies it on construction and on ApplySettings; external mutation of
// a snapshot after the fact has no effect on a running simulation.
type Settings struct {
	// GlyphSize is the cell edge in pixels. Must be positive; it fixes
	// the row/column grid, so changing it rebuilds every column.
	GlyphSize float64

	// SpeedFactor scales the per-spawn random fall-speed range.
	SpeedFactor float64

	HeadColor  colorful.Color
	TailColor  colorful.Color
	Background colorful.Color

	// HeadBrightness drives the head glyph alpha and, together with
	// HeadGlow, the radial halo under the head.
	HeadBrightness float64
	HeadGlow       float64

	// FadeLength shapes the tail alpha falloff curve; larger values
	// flatten the curve (slower fade).
	FadeLength float64

	// ColorTransition is the fraction of the tail over which color
	// blends from HeadColor to TailColor. Near 0 the tail snaps to
	// TailColor almost immediately.
	ColorTransition float64

	// Density controls how many of the available horizontal positions
	// carry a column; values above 1 stack overlapping columns.
	Density float64
}

// DefaultSettings returns the classic green theme.
func DefaultSettings() Settings {
	return Settings{
		GlyphSize:       18,
		SpeedFactor:     1.0,
		HeadColor:       mustHex("#d8ffd8"),
		TailColor:       mustHex("#00c030"),
		Background:      mustHex("#000000"),
		HeadBrightness:  1.0,
		HeadGlow:        0.5,
		FadeLength:      1.0,
		ColorTransition: 0.3,
		Density:         1.0,
	}
}

// Validate reports the first out-of-range field, wrapped around
// ErrInvalidSettings.
func (s Settings) Validate() error {
	switch {
	case s.GlyphSize <= 0:
		return fmt.Errorf("%w: glyph size %.2f must be positive", ErrInvalidSettings, s.GlyphSize)
	case s.SpeedFactor <= 0:
		return fmt.Errorf("%w: speed factor %.2f must be positive", ErrInvalidSettings, s.SpeedFactor)
	case s.HeadBrightness < MinHeadBrightness || s.HeadBrightness > MaxHeadBrightness:
		return fmt.Errorf("%w: head brightness %.2f outside [%.1f, %.1f]", ErrInvalidSettings, s.HeadBrightness, MinHeadBrightness, MaxHeadBrightness)
	case s.HeadGlow < 0 || s.HeadGlow > 1:
		return fmt.Errorf("%w: head glow %.2f outside [0, 1]", ErrInvalidSettings, s.HeadGlow)
	case s.FadeLength < MinFadeLength || s.FadeLength > MaxFadeLength:
		return fmt.Errorf("%w: fade length %.2f outside [%.1f, %.1f]", ErrInvalidSettings, s.FadeLength, MinFadeLength, MaxFadeLength)
	case s.ColorTransition < 0 || s.ColorTransition > 1:
		return fmt.Errorf("%w: color transition %.2f outside [0, 1]", ErrInvalidSettings, s.ColorTransition)
	case s.Density < MinDensity || s.Density > MaxDensity:
		return fmt.Errorf("%w: density %.2f outside [%.1f, %.1f]", ErrInvalidSettings, s.Density, MinDensity, MaxDensity)
	}
	return nil
}

// rebuildColumnsFor reports whether switching to next invalidates the
// column grid (anything that moves cell boundaries or the column count).
func (s Settings) rebuildColumnsFor(next Settings) bool {
	return s.GlyphSize != next.GlyphSize || s.Density != next.Density
}

// rebuildRampFor reports whether switching to next invalidates the
// color ramp or halo caches.
func (s Settings) rebuildRampFor(next Settings) bool {
	return s.HeadColor != next.HeadColor ||
		s.TailColor != next.TailColor ||
		s.HeadBrightness != next.HeadBrightness ||
		s.HeadGlow != next.HeadGlow ||
		s.FadeLength != next.FadeLength ||
		s.ColorTransition != next.ColorTransition ||
		s.GlyphSize != next.GlyphSize
}

func mustHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(err)
	}
	return c
}
