package effects

import "github.com/vinubadlani/Video-Gen/internal/renderer"

const (
	// RotationFrames is how long an energetic word takes to settle upright.
	RotationFrames = 5
	// RotationDegrees is the initial tilt of an energetic word.
	RotationDegrees = 3.0

	// GlowFrames is how long a dramatic word's glow takes to reach full strength.
	GlowFrames = 10
	// GlowStrength is the full glow radius in pixels for regular scenes.
	GlowStrength = 16.0
	// TitleGlowStrength is the full glow radius for weight-3 scenes.
	TitleGlowStrength = 30.0
)

// Decoration is the preset-specific part of a word's visual state.
type Decoration struct {
	Rotation     float64 // degrees
	GlowStrength float64 // pixels, 0 means no glow
}

// Effect computes the decoration of one word, elapsed frames after its own entrance.
type Effect interface {
	Decorate(spec WordSpec, elapsed float64) Decoration
}

// MinimalEffect adds no decoration.
type MinimalEffect struct{}

func (e *MinimalEffect) Decorate(WordSpec, float64) Decoration {
	return Decoration{}
}

// EnergeticEffect tilts each word, alternating direction, and rights it quickly.
type EnergeticEffect struct{}

func (e *EnergeticEffect) Decorate(spec WordSpec, elapsed float64) Decoration {
	start := RotationDegrees
	if spec.Index%2 != 0 {
		start = -RotationDegrees
	}
	return Decoration{
		Rotation: renderer.Interpolate(elapsed, 0, RotationFrames, start, 0),
	}
}

// DramaticEffect fades in a text glow, stronger for title scenes.
type DramaticEffect struct{}

func (e *DramaticEffect) Decorate(spec WordSpec, elapsed float64) Decoration {
	strength := GlowStrength
	if spec.Weight == 3 {
		strength = TitleGlowStrength
	}
	glow := renderer.Interpolate(elapsed, 0, GlowFrames, 0, 1)
	return Decoration{GlowStrength: strength * glow}
}

var registry = map[Preset]Effect{
	Minimal:   &MinimalEffect{},
	Energetic: &EnergeticEffect{},
	Dramatic:  &DramaticEffect{},
}

// EffectFor returns the decoration rules of a preset.
func EffectFor(p Preset) Effect {
	if eff, ok := registry[p]; ok {
		return eff
	}
	return registry[FallbackPreset]
}
