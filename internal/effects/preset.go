package effects

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vinubadlani/Video-Gen/internal/renderer"
)

// Preset is a named bundle of spring constants and word decoration rules.
type Preset int

const (
	Minimal Preset = iota
	Energetic
	Dramatic
)

// FallbackPreset is used for any preset name that is not recognised.
const FallbackPreset = Dramatic

var presetNames = map[Preset]string{
	Minimal:   "minimal",
	Energetic: "energetic",
	Dramatic:  "dramatic",
}

var springConfigs = map[Preset]renderer.SpringConfig{
	Minimal:   {Stiffness: 120, Damping: 18, Mass: 1},
	Energetic: {Stiffness: 220, Damping: 9, Mass: 1}, // underdamped, overshoots
	Dramatic:  {Stiffness: 80, Damping: 12, Mass: 1},
}

// Presets lists every preset in declaration order.
func Presets() []Preset {
	return []Preset{Minimal, Energetic, Dramatic}
}

// ParsePreset resolves a preset name by exact match. Any other spelling,
// including a different case, resolves to FallbackPreset with known set to false.
func ParsePreset(name string) (p Preset, known bool) {
	for _, candidate := range Presets() {
		if presetNames[candidate] == name {
			return candidate, true
		}
	}
	return FallbackPreset, false
}

func (p Preset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("preset(%d)", int(p))
}

// Valid reports whether p is one of the declared presets.
func (p Preset) Valid() bool {
	_, ok := presetNames[p]
	return ok
}

// Spring returns the spring constants driving word scale for the preset.
func (p Preset) Spring() renderer.SpringConfig {
	if cfg, ok := springConfigs[p]; ok {
		return cfg
	}
	return springConfigs[FallbackPreset]
}

// MarshalYAML writes the preset by name.
func (p Preset) MarshalYAML() (interface{}, error) {
	if !p.Valid() {
		return presetNames[FallbackPreset], nil
	}
	return p.String(), nil
}

// UnmarshalYAML reads a preset name, applying the fallback rule to unknown names.
func (p *Preset) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	*p, _ = ParsePreset(name)
	return nil
}
