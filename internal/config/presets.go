package config

// Presets are named color themes for the rain block. Numeric fields
// left at zero fall back to defaults when converted to settings.
var Presets = map[string]RainConfig{
	"classic": {
		HeadColor:       "#d8ffd8",
		TailColor:       "#00c030",
		Background:      "#000000",
		HeadGlow:        0.5,
		ColorTransition: 0.3,
	},
	"amber": {
		HeadColor:       "#ffeecc",
		TailColor:       "#cc8400",
		Background:      "#0a0500",
		HeadGlow:        0.6,
		ColorTransition: 0.25,
	},
	"ice": {
		HeadColor:       "#eaffff",
		TailColor:       "#1e90ff",
		Background:      "#000308",
		HeadGlow:        0.4,
		FadeLength:      1.4,
		ColorTransition: 0.4,
	},
	"blood": {
		HeadColor:       "#ffd0d0",
		TailColor:       "#b00010",
		Background:      "#050000",
		HeadBrightness:  1.2,
		HeadGlow:        0.7,
		ColorTransition: 0.2,
	},
	"ghost": {
		HeadColor:       "#ffffff",
		TailColor:       "#505860",
		Background:      "#000000",
		HeadBrightness:  0.8,
		HeadGlow:        0.2,
		FadeLength:      0.7,
		ColorTransition: 0.5,
	},
}

func GetPreset(name string) (RainConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
