package director

import (
	"github.com/vinubadlani/Video-Gen/internal/effects"
)

// DefaultWeight is the relative duration share of a scene that does not set one.
const DefaultWeight = 2

// Script is the complete scene list of one video
type Script struct {
	Version string  `yaml:"version"`
	Topic   string  `yaml:"topic,omitempty"`
	Scenes  []Scene `yaml:"scenes"`
}

// Scene is one on-screen line of the video with its timing weight and look
type Scene struct {
	Index      int            `yaml:"index"`
	Text       string         `yaml:"text"`
	Weight     int            `yaml:"weight"` // Relative duration share
	Preset     effects.Preset `yaml:"preset"`
	Background string         `yaml:"bg"`
	TextColor  string         `yaml:"text_color"`
	Accent     string         `yaml:"accent"`

	// PresetFallback is set when the preset name read from YAML was not
	// recognised and FallbackPreset was substituted.
	PresetFallback bool `yaml:"-"`
}

// sceneYAML mirrors Scene with the preset kept as a raw name.
type sceneYAML struct {
	Index      int    `yaml:"index"`
	Text       string `yaml:"text"`
	Weight     int    `yaml:"weight"`
	Preset     string `yaml:"preset"`
	Background string `yaml:"bg"`
	TextColor  string `yaml:"text_color"`
	Accent     string `yaml:"accent"`
}

// UnmarshalYAML applies the preset fallback rule and remembers when it fired.
func (s *Scene) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw sceneYAML
	if err := unmarshal(&raw); err != nil {
		return err
	}

	preset, known := effects.ParsePreset(raw.Preset)
	*s = Scene{
		Index:          raw.Index,
		Text:           raw.Text,
		Weight:         raw.Weight,
		Preset:         preset,
		Background:     raw.Background,
		TextColor:      raw.TextColor,
		Accent:         raw.Accent,
		PresetFallback: !known,
	}
	return nil
}

// EffectiveWeight returns the scene weight, substituting DefaultWeight for an unset one.
func (s Scene) EffectiveWeight() int {
	if s.Weight == 0 {
		return DefaultWeight
	}
	return s.Weight
}

// Normalize fills defaults for scenes loaded from hand-written files:
// ordinal indexes, the default weight and the preset palette colors.
func (s *Script) Normalize() {
	for i := range s.Scenes {
		sc := &s.Scenes[i]
		sc.Index = i
		if sc.Weight == 0 {
			sc.Weight = DefaultWeight
		}
		if sc.Background == "" || sc.TextColor == "" || sc.Accent == "" {
			pal := PaletteFor(i, sc.Preset)
			if sc.Background == "" {
				sc.Background = pal.Background
			}
			if sc.TextColor == "" {
				sc.TextColor = pal.TextColor
			}
			if sc.Accent == "" {
				sc.Accent = pal.Accent
			}
		}
	}
}
