package rain

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// corruptTint is the hot red/orange corrupted columns shift toward.
var corruptTint = colorful.Color{R: 1.0, G: 0.35, B: 0.08}

// errorStatusLines is the fixed overlay script for the error phase.
// Lines reveal sequentially as progress grows; the last one flips to
// green once the system "recovers".
var errorStatusLines = []string{
	"SYSTEM FAULT 0xC0DED00D",
	"COLUMN DECODER STALL",
	"PARITY CHECK FAILED",
	"REBUILDING GLYPH TABLE",
	"REROUTING STREAM BUFFERS",
	"SIGNAL RESTORED",
}

const (
	errorRecoverThreshold = 0.9
	scanlineSpacing       = 4.0
	flickerChance         = 0.04
)

// Draw renders the current state into the surface. It never mutates
// column state and never fails; drawing with no font or a zero-sized
// surface degrades to a background fill.
//
// Effect randomness (jitter, flicker, glitch bars) comes from a
// dedicated generator reseeded per frame from the seed and a frame
// counter, so skipping or repeating a draw cannot perturb the
// simulation's own random stream.
func (s *Simulator) Draw(surf Surface) {
	if surf == nil {
		return
	}
	s.frame++
	fx := rand.New(rand.NewSource(int64(uint64(s.seed) + s.frame*0x9e3779b97f4a7c15)))

	w := float64(s.width)
	h := float64(s.height)
	surf.FillRect(0, 0, w, h, Shade{Color: s.settings.Background, Alpha: 1})

	p := s.phase.clampedProgress()
	switch s.phase.Kind {
	case PhaseNone, PhaseCompletion:
		s.drawColumns(surf, fx, 0, 0, s.rows-1, 0)

	case PhaseCorruption:
		s.drawColumns(surf, fx, p, 0, s.rows-1, 0)
		s.drawGlitchOverlay(surf, fx, p)

	case PhaseError:
		shake := 3 * p
		surf.Push()
		surf.Translate((fx.Float64()*2-1)*shake, (fx.Float64()*2-1)*shake)
		s.drawColumns(surf, fx, 1, 0, s.rows-1, 0)
		s.drawGlitchOverlay(surf, fx, 1)
		s.drawErrorOverlay(surf, p)
		surf.Pop()
		if fx.Float64() < flickerChance {
			surf.FillRect(0, 0, w, h, Shade{Color: colorful.Color{R: 1, G: 1, B: 1}, Alpha: 0.85})
		}

	case PhaseReset:
		s.drawResetSequence(surf, p)
	}
}

// drawColumns renders every column's visible rows within [rowLo, rowHi],
// shifted horizontally by offsetX. corruption > 0 enables the
// per-column corrupt rendering for columns whose index threshold has
// been passed.
func (s *Simulator) drawColumns(surf Surface, fx *rand.Rand, corruption float64, rowLo, rowHi int, offsetX float64) {
	size := s.settings.GlyphSize
	drawHalo := s.settings.HeadBrightness > MinHeadBrightness || s.settings.HeadGlow > 0

	for i := range s.columns {
		c := &s.columns[i]
		lo, hi, ok := c.visibleRange(s.rows)
		if !ok {
			continue
		}
		if lo < rowLo {
			lo = rowLo
		}
		if hi > rowHi {
			hi = rowHi
		}
		if lo > hi {
			continue
		}

		corrupted := corruption > 0 && columnThreshold(i) < corruption
		jitter := 0.0
		if corrupted {
			// Occasional full dropout reads as a dying stream.
			if fx.Float64() < 0.12*corruption {
				continue
			}
			jitter = (fx.Float64()*2 - 1) * size * 0.6
		}

		cx := c.X + size/2 + offsetX + jitter
		for row := lo; row <= hi; row++ {
			step := c.HeadRow - row
			cy := (float64(row) + 0.5) * size

			var shade Shade
			if step == 0 {
				shade = s.head
			} else {
				idx := step * rampSteps / c.Length
				if idx > rampSteps {
					idx = rampSteps
				}
				shade = s.ramp[idx]
			}

			g := c.Glyphs[step]
			if corrupted {
				shade.Color = shade.Color.BlendRgb(corruptTint, 0.6)
				if fx.Float64() < 0.15 {
					g = s.alphabet[fx.Intn(len(s.alphabet))]
				}
			}

			if step == 0 && drawHalo && !corrupted {
				surf.FillRadial(cx, cy, s.glow.Radius, s.glow.Stops)
			}
			surf.DrawGlyph(g, cx, cy, size, shade)
		}
	}
}

// drawGlitchOverlay adds the global corruption artifacts: a dark
// scanline raster and a few horizontal glitch bars, each re-rendering
// a slice of the columns with a pixel offset.
func (s *Simulator) drawGlitchOverlay(surf Surface, fx *rand.Rand, p float64) {
	w := float64(s.width)
	h := float64(s.height)
	size := s.settings.GlyphSize

	black := colorful.Color{}
	for y := 0.0; y < h; y += scanlineSpacing {
		surf.FillRect(0, y, w, 1, Shade{Color: black, Alpha: 0.25 * p})
	}

	if s.rows <= 0 {
		return
	}
	bars := int(math.Round(p * float64(1+fx.Intn(3))))
	for b := 0; b < bars; b++ {
		rowLo := fx.Intn(s.rows)
		rowHi := rowLo + 1 + fx.Intn(3)
		if rowHi > s.rows-1 {
			rowHi = s.rows - 1
		}
		offset := (fx.Float64()*2 - 1) * size * 3

		surf.FillRect(0, float64(rowLo)*size, w, float64(rowHi-rowLo+1)*size,
			Shade{Color: s.settings.Background, Alpha: 0.9})
		s.drawColumns(surf, fx, p, rowLo, rowHi, offset)
	}
}

// drawErrorOverlay renders the centered status-message reveal.
func (s *Simulator) drawErrorOverlay(surf Surface, p float64) {
	revealed := 1 + int(p*float64(len(errorStatusLines)))
	if revealed > len(errorStatusLines) {
		revealed = len(errorStatusLines)
	}

	size := s.settings.GlyphSize * 0.9
	lineH := size * 1.5
	w := float64(s.width)
	h := float64(s.height)
	top := h/2 - lineH*float64(len(errorStatusLines))/2

	for i := 0; i < revealed; i++ {
		shade := Shade{Color: colorful.Color{R: 1, G: 0.85, B: 0.85}, Alpha: 0.95}
		if i == len(errorStatusLines)-1 && p > errorRecoverThreshold {
			shade.Color = colorful.Color{R: 0.3, G: 1, B: 0.45}
		}
		surf.DrawText(errorStatusLines[i], w/2, top+lineH*(float64(i)+0.5), size, shade)
	}
}

// drawResetSequence plays the loop-cut script: white flash, synthetic
// hex-dump boot lines, then solid black for the cut point.
func (s *Simulator) drawResetSequence(surf Surface, p float64) {
	w := float64(s.width)
	h := float64(s.height)
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}

	switch {
	case p < 0.2:
		surf.FillRect(0, 0, w, h, Shade{Color: white, Alpha: 1 - p/0.2})

	case p < 0.85:
		surf.FillRect(0, 0, w, h, Shade{Color: black, Alpha: 1})

		alpha := 0.9
		if p > 0.7 {
			alpha *= 1 - (p-0.7)/0.15
		}
		size := s.settings.GlyphSize * 0.8
		lineH := size * 1.3
		maxLines := int(h / lineH)
		if maxLines > 24 {
			maxLines = 24
		}
		n := int((p - 0.2) / 0.65 * float64(maxLines))
		shade := Shade{Color: s.settings.TailColor, Alpha: alpha}
		for i := 0; i < n && i < maxLines; i++ {
			// Seed per line index so a revealed line keeps its content
			// while later lines scroll in underneath it.
			lr := rand.New(rand.NewSource(s.seed + int64(i)*0x9e3779b9))
			line := fmt.Sprintf("0x%08X  %04X %04X %04X %04X",
				lr.Uint32(), lr.Intn(0x10000), lr.Intn(0x10000), lr.Intn(0x10000), lr.Intn(0x10000))
			surf.DrawText(line, w/2, lineH*(float64(i)+1), size, shade)
		}

	default:
		surf.FillRect(0, 0, w, h, Shade{Color: black, Alpha: 1})
	}
}

// columnThreshold is a deterministic per-index threshold in [0,1); a
// column renders corrupted once phase progress passes it. Hashing the
// index keeps the corrupted set stable from frame to frame.
func columnThreshold(i int) float64 {
	v := math.Sin(float64(i)*12.9898) * 43758.5453
	return v - math.Floor(v)
}
