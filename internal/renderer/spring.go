package renderer

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// SpringConfig holds the physical constants of a damped spring.
type SpringConfig struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
}

// AngularFrequency returns ω = sqrt(k/m).
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.mass())
}

// DampingRatio returns ζ = c / (2·sqrt(k·m)). Values below 1 oscillate.
func (c SpringConfig) DampingRatio() float64 {
	denom := 2 * math.Sqrt(c.Stiffness*c.mass())
	if denom == 0 {
		return 0
	}
	return c.Damping / denom
}

func (c SpringConfig) mass() float64 {
	if c.Mass <= 0 {
		return 1
	}
	return c.Mass
}

// SpringPosition evaluates a spring released at rest from `from` towards `to`
// after elapsedFrames frames at the given fps.
//
// The position is computed in a single analytic step of the damped oscillator,
// so the result depends only on the arguments and never on which frames were
// evaluated before. Negative elapsed time returns `from`.
func SpringPosition(elapsedFrames float64, fps int, cfg SpringConfig, from, to float64) float64 {
	if elapsedFrames <= 0 || fps <= 0 {
		return from
	}
	seconds := elapsedFrames / float64(fps)
	s := harmonica.NewSpring(seconds, cfg.AngularFrequency(), cfg.DampingRatio())
	pos, _ := s.Update(from, 0, to)
	return pos
}
