package config

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/LaboratoryZero/matrixrain/internal/rain"
)

const (
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultFPS        = 60
	DefaultDuration   = 10.0
	DefaultTransition = "none"
)

type Config struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	FPS        int        `yaml:"fps"`
	Duration   float64    `yaml:"duration"`
	Seed       int64      `yaml:"seed"`
	Font       string     `yaml:"font"`
	Transition string     `yaml:"transition"`
	Output     string     `yaml:"output"`
	Rain       RainConfig `yaml:"rain"`
}

// RainConfig mirrors rain.Settings with hex color strings so config
// files stay hand-editable.
type RainConfig struct {
	GlyphSize       float64 `yaml:"glyph_size"`
	SpeedFactor     float64 `yaml:"speed_factor"`
	Density         float64 `yaml:"density"`
	HeadColor       string  `yaml:"head_color"`
	TailColor       string  `yaml:"tail_color"`
	Background      string  `yaml:"background"`
	HeadBrightness  float64 `yaml:"head_brightness"`
	HeadGlow        float64 `yaml:"head_glow"`
	FadeLength      float64 `yaml:"fade_length"`
	ColorTransition float64 `yaml:"color_transition"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FPS:        DefaultFPS,
		Duration:   DefaultDuration,
		Transition: DefaultTransition,
		Rain:       FromSettings(rain.DefaultSettings()),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Settings converts the rain block to simulator settings. Zero-valued
// numeric fields fall back to defaults so partial config files work;
// HeadGlow and ColorTransition are taken as-is since zero is a valid
// choice for both.
func (c *Config) Settings() (rain.Settings, error) {
	s := rain.DefaultSettings()
	r := c.Rain
	if r.GlyphSize > 0 {
		s.GlyphSize = r.GlyphSize
	}
	if r.SpeedFactor > 0 {
		s.SpeedFactor = r.SpeedFactor
	}
	if r.Density > 0 {
		s.Density = r.Density
	}
	if r.HeadBrightness > 0 {
		s.HeadBrightness = r.HeadBrightness
	}
	if r.FadeLength > 0 {
		s.FadeLength = r.FadeLength
	}
	s.HeadGlow = r.HeadGlow
	s.ColorTransition = r.ColorTransition
	var err error
	if s.HeadColor, err = parseColor("head_color", r.HeadColor, s.HeadColor); err != nil {
		return s, err
	}
	if s.TailColor, err = parseColor("tail_color", r.TailColor, s.TailColor); err != nil {
		return s, err
	}
	if s.Background, err = parseColor("background", r.Background, s.Background); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("invalid duration %g", c.Duration)
	}
	_, err := c.Settings()
	return err
}

func parseColor(field, hex string, fallback colorful.Color) (colorful.Color, error) {
	if hex == "" {
		return fallback, nil
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", field, err)
	}
	return col, nil
}

// FromSettings fills a rain block from simulator settings, used when
// writing a starter config to disk.
func FromSettings(s rain.Settings) RainConfig {
	return RainConfig{
		GlyphSize:       s.GlyphSize,
		SpeedFactor:     s.SpeedFactor,
		Density:         s.Density,
		HeadColor:       s.HeadColor.Hex(),
		TailColor:       s.TailColor.Hex(),
		Background:      s.Background.Hex(),
		HeadBrightness:  s.HeadBrightness,
		HeadGlow:        s.HeadGlow,
		FadeLength:      s.FadeLength,
		ColorTransition: s.ColorTransition,
	}
}
