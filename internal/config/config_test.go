package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Error("size should be positive")
	}
	if cfg.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	s, err := cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if s.HeadColor.Hex() != "#d8ffd8" {
		t.Errorf("expected head color #d8ffd8, got %s", s.HeadColor.Hex())
	}
	if s.GlyphSize != cfg.Rain.GlyphSize {
		t.Errorf("expected glyph size %g, got %g", cfg.Rain.GlyphSize, s.GlyphSize)
	}
}

func TestSettingsPartialFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rain = RainConfig{TailColor: "#ff00ff"}
	s, err := cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if s.TailColor.Hex() != "#ff00ff" {
		t.Errorf("expected tail color #ff00ff, got %s", s.TailColor.Hex())
	}
	if s.GlyphSize <= 0 {
		t.Error("zero glyph size should fall back to default")
	}
}

func TestSettingsBadColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rain.HeadColor = "not-a-color"
	if _, err := cfg.Settings(); err == nil {
		t.Error("expected error for invalid hex color")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"density too high", func(c *Config) { c.Rain.Density = 5.0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mod(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain.yaml")
	cfg := DefaultConfig()
	cfg.Width = 640
	cfg.Rain.TailColor = "#1e90ff"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Width != 640 {
		t.Errorf("expected width 640, got %d", loaded.Width)
	}
	if loaded.Rain.TailColor != "#1e90ff" {
		t.Errorf("expected tail color #1e90ff, got %s", loaded.Rain.TailColor)
	}
	// Fields absent from the file keep defaults.
	if loaded.FPS != DefaultFPS {
		t.Errorf("expected fps %d, got %d", DefaultFPS, loaded.FPS)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain.yaml")
	if err := os.WriteFile(path, []byte("width: 800\nheight: 600\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Rain.HeadColor == "" {
		t.Error("expected default rain block")
	}
}

func TestGetPreset(t *testing.T) {
	p, ok := GetPreset("amber")
	if !ok {
		t.Fatal("expected amber preset")
	}
	if p.TailColor != "#cc8400" {
		t.Errorf("expected tail #cc8400, got %s", p.TailColor)
	}

	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected miss for nonexistent preset")
	}
}

func TestPresetsAllValid(t *testing.T) {
	for name := range Presets {
		cfg := DefaultConfig()
		cfg.Rain = Presets[name]
		if _, err := cfg.Settings(); err != nil {
			t.Errorf("preset %s does not validate: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
}
