package tui

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

func shade(r, g, b, a float64) rain.Shade {
	return rain.Shade{Color: colorful.Color{R: r, G: g, B: b}, Alpha: a}
}

func TestCellSurfaceFrameClear(t *testing.T) {
	s := newCellSurface(10, 4)
	s.DrawGlyph('A', 2.5, 1.5, 1, shade(0, 1, 0, 1))
	s.FillRect(0, 0, 10, 4, shade(0, 0, 0, 1))

	for i, c := range s.cells {
		if c.set {
			t.Fatalf("cell %d still set after full-screen fill", i)
		}
	}
	if s.background != (colorful.Color{}) {
		t.Errorf("background = %v, want black", s.background)
	}
}

func TestCellSurfaceGlyphPlacement(t *testing.T) {
	s := newCellSurface(10, 4)
	s.FillRect(0, 0, 10, 4, shade(0, 0, 0, 1))
	// Draw centers land on cell midpoints at glyph size 1.
	s.DrawGlyph('ﾊ', 3.5, 2.5, 1, shade(0, 1, 0, 1))

	c := s.at(3, 2)
	if c == nil || !c.set || c.r != 'ﾊ' {
		t.Fatalf("expected glyph at (3,2), got %+v", c)
	}
}

func TestCellSurfaceAlphaComposite(t *testing.T) {
	s := newCellSurface(4, 4)
	s.FillRect(0, 0, 4, 4, shade(0, 0, 0, 1))
	s.DrawGlyph('X', 1.5, 1.5, 1, shade(0, 1, 0, 0.5))

	c := s.at(1, 1)
	if c.color.G < 0.4 || c.color.G > 0.6 {
		t.Errorf("half-alpha green composited to %g, want ~0.5", c.color.G)
	}
	if c.color.R > 0.01 || c.color.B > 0.01 {
		t.Errorf("unexpected red/blue in composite: %+v", c.color)
	}
}

func TestCellSurfaceTranslatePushPop(t *testing.T) {
	s := newCellSurface(8, 8)
	s.Push()
	s.Translate(2, 3)
	s.DrawGlyph('A', 0.5, 0.5, 1, shade(1, 1, 1, 1))
	s.Pop()
	s.DrawGlyph('B', 0.5, 0.5, 1, shade(1, 1, 1, 1))

	if c := s.at(2, 3); c == nil || c.r != 'A' {
		t.Error("translated glyph not at (2,3)")
	}
	if c := s.at(0, 0); c == nil || c.r != 'B' {
		t.Error("post-pop glyph not at origin")
	}
}

func TestCellSurfaceTextCentered(t *testing.T) {
	s := newCellSurface(11, 3)
	s.DrawText("ABC", 5.5, 1.5, 1, shade(1, 1, 1, 1))

	got := ""
	for x := 3; x <= 6; x++ {
		if c := s.at(x, 1); c != nil && c.set {
			got += string(c.r)
		}
	}
	if got != "ABC" {
		t.Errorf("centered text = %q, want ABC", got)
	}
}

func TestCellSurfaceRenderShape(t *testing.T) {
	s := newCellSurface(6, 3)
	s.FillRect(0, 0, 6, 3, shade(0, 0, 0, 1))
	s.DrawGlyph('Z', 0.5, 0.5, 1, shade(0, 1, 0, 1))

	lines := s.render()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Z") {
		t.Errorf("glyph missing from rendered line: %q", lines[0])
	}
}

func TestModelScriptAdvances(t *testing.T) {
	m, err := NewModel(rain.DefaultSettings(), 3)
	if err != nil {
		t.Fatal(err)
	}
	m.sim.Resize(40, 20)
	m.surface.resize(40, 20)
	m.ready = true

	m.startScript(glitchScript)
	total := 0.0
	for _, st := range glitchScript {
		total += st.dur
	}
	steps := int(total*frameRate) + frameRate
	seen := map[rain.PhaseKind]bool{}
	for i := 0; i < steps; i++ {
		m.step()
		seen[m.sim.Phase().Kind] = true
	}
	for _, kind := range []rain.PhaseKind{rain.PhaseCorruption, rain.PhaseError, rain.PhaseReset} {
		if !seen[kind] {
			t.Errorf("script never reached %v", kind)
		}
	}
	if m.script != nil {
		t.Error("script should clear after the last stage")
	}
	if m.sim.Phase().Kind != rain.PhaseNone {
		t.Errorf("phase after script = %v, want none", m.sim.Phase().Kind)
	}
}
