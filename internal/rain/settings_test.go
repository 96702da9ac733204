package rain

import (
	"errors"
	"testing"
)

func TestDefaultSettingsValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero glyph size", func(s *Settings) { s.GlyphSize = 0 }},
		{"negative glyph size", func(s *Settings) { s.GlyphSize = -4 }},
		{"zero speed factor", func(s *Settings) { s.SpeedFactor = 0 }},
		{"brightness too low", func(s *Settings) { s.HeadBrightness = 0.4 }},
		{"brightness too high", func(s *Settings) { s.HeadBrightness = 2.5 }},
		{"negative glow", func(s *Settings) { s.HeadGlow = -0.1 }},
		{"glow above one", func(s *Settings) { s.HeadGlow = 1.1 }},
		{"fade too short", func(s *Settings) { s.FadeLength = 0.2 }},
		{"fade too long", func(s *Settings) { s.FadeLength = 3 }},
		{"transition below zero", func(s *Settings) { s.ColorTransition = -0.5 }},
		{"transition above one", func(s *Settings) { s.ColorTransition = 1.5 }},
		{"density too low", func(s *Settings) { s.Density = 0.1 }},
		{"density too high", func(s *Settings) { s.Density = 2.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSettings()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("error %v does not wrap ErrInvalidSettings", err)
			}
		})
	}
}

func TestSettingsDiff(t *testing.T) {
	base := DefaultSettings()

	glyph := base
	glyph.GlyphSize = 24
	if !base.rebuildColumnsFor(glyph) {
		t.Error("glyph size change must rebuild columns")
	}
	if !base.rebuildRampFor(glyph) {
		t.Error("glyph size change must rebuild the halo")
	}

	density := base
	density.Density = 1.5
	if !base.rebuildColumnsFor(density) {
		t.Error("density change must rebuild columns")
	}
	if base.rebuildRampFor(density) {
		t.Error("density change must not rebuild the ramp")
	}

	fade := base
	fade.FadeLength = 2.0
	if base.rebuildColumnsFor(fade) {
		t.Error("fade change must not rebuild columns")
	}
	if !base.rebuildRampFor(fade) {
		t.Error("fade change must rebuild the ramp")
	}

	if base.rebuildColumnsFor(base) || base.rebuildRampFor(base) {
		t.Error("identical settings must invalidate nothing")
	}
}

func TestDefaultAlphabet(t *testing.T) {
	alpha := DefaultAlphabet()
	if len(alpha) != 66 {
		t.Fatalf("alphabet has %d glyphs, want 66", len(alpha))
	}
	hasDigit := false
	hasKana := false
	for _, r := range alpha {
		if r == '0' {
			hasDigit = true
		}
		if r >= 0xFF66 && r <= 0xFF9D {
			hasKana = true
		}
	}
	if !hasDigit || !hasKana {
		t.Error("alphabet missing digits or halfwidth katakana")
	}
}

func TestPhaseKindString(t *testing.T) {
	tests := []struct {
		kind PhaseKind
		want string
	}{
		{PhaseNone, "none"},
		{PhaseCorruption, "corruption"},
		{PhaseError, "error"},
		{PhaseReset, "reset"},
		{PhaseCompletion, "completion"},
		{PhaseKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("PhaseKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPhaseRespawnPolicy(t *testing.T) {
	if (Phase{Kind: PhaseCompletion}).preventsRespawn() != true {
		t.Error("completion must prevent respawn")
	}
	for _, k := range []PhaseKind{PhaseNone, PhaseCorruption, PhaseError, PhaseReset} {
		if (Phase{Kind: k}).preventsRespawn() {
			t.Errorf("%s must not prevent respawn", k)
		}
	}
}

func TestColumnVisibility(t *testing.T) {
	c := Column{HeadRow: 5, Length: 4}
	lo, hi, ok := c.visibleRange(10)
	if !ok || lo != 2 || hi != 5 {
		t.Errorf("visibleRange = (%d, %d, %v), want (2, 5, true)", lo, hi, ok)
	}

	above := Column{HeadRow: -1, Length: 4}
	if above.Visible(10) {
		t.Error("column entirely above the screen reported visible")
	}

	below := Column{HeadRow: 14, Length: 4}
	if below.Visible(10) {
		t.Error("column with tail rows [11..14] reported visible on a 10-row grid")
	}
	below.Length = 6
	if !below.Visible(10) {
		t.Error("column with tail rows [9..14] not reported visible")
	}

	drainedCol := Column{HeadRow: 15, Length: 4}
	if !drainedCol.drained(10) {
		t.Error("fully exited column not reported drained")
	}
}
