package rain

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// rampSteps is the number of discretized tail steps; the ramp holds
// rampSteps+1 entries so both endpoints are representable.
const rampSteps = 20

// minTailAlpha keeps even the oldest tail glyphs faintly visible.
const minTailAlpha = 0.05

// buildRamp discretizes the tail fade/blend into rampSteps+1 shades.
// Alpha follows a power curve flattened by FadeLength; color blends
// linearly in RGB from head to tail across the ColorTransition
// fraction of the tail.
func buildRamp(s Settings) []Shade {
	ramp := make([]Shade, rampSteps+1)
	transition := math.Max(0.01, s.ColorTransition)
	for step := 0; step <= rampSteps; step++ {
		progress := float64(step) / rampSteps
		alpha := 1 - math.Pow(progress, 2/s.FadeLength)
		if alpha < minTailAlpha {
			alpha = minTailAlpha
		}
		blend := math.Min(1, progress/transition)
		ramp[step] = Shade{
			Color: s.HeadColor.BlendRgb(s.TailColor, blend),
			Alpha: alpha,
		}
	}
	return ramp
}

// halo is the cached radial glow descriptor drawn under head glyphs.
type halo struct {
	Radius float64
	Stops  []GradientStop
}

// buildHalo derives the 3-stop gradient from head color, brightness
// above its 0.5 baseline, and glow intensity. Radius scales with glyph
// size and the combined intensity.
func buildHalo(s Settings) halo {
	brightness := (s.HeadBrightness - MinHeadBrightness) / (MaxHeadBrightness - MinHeadBrightness)
	intensity := clamp01(0.5*brightness + 0.7*s.HeadGlow)

	white := colorful.Color{R: 1, G: 1, B: 1}
	inner := s.HeadColor.BlendRgb(white, 0.8*s.HeadGlow)
	innerAlpha := clamp01(0.35*brightness + 0.5*s.HeadGlow)

	return halo{
		Radius: s.GlyphSize * (0.9 + 1.1*intensity),
		Stops: []GradientStop{
			{Offset: 0, Shade: Shade{Color: inner, Alpha: innerAlpha}},
			{Offset: 0.45, Shade: Shade{Color: s.HeadColor, Alpha: innerAlpha * 0.35}},
			{Offset: 1, Shade: Shade{Color: s.HeadColor, Alpha: 0}},
		},
	}
}

// headShade is the dedicated head shade: head color at head-brightness
// alpha, independent of the ramp.
func headShade(s Settings) Shade {
	return Shade{Color: s.HeadColor, Alpha: clamp01(s.HeadBrightness)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
