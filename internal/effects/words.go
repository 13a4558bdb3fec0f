package effects

import (
	"math"
	"strings"

	"github.com/vinubadlani/Video-Gen/internal/renderer"
)

const (
	// WordDelayFrames staggers word entrances left to right.
	WordDelayFrames = 6
	// WordFadeFrames is the length of each word's opacity ramp.
	WordFadeFrames = 8

	// ScaleFrom and ScaleTo bound the spring-driven word scale.
	ScaleFrom = 0.4
	ScaleTo   = 1.0

	// MinFontSize is the smallest font size ever produced.
	MinFontSize = 40
)

// WordSpec is the static layout of one word within a scene.
type WordSpec struct {
	Word        string
	Index       int
	DelayFrames int
	FontSizePx  int
	FontWeight  int
	Weight      int
	Preset      Preset
}

// WordState is the animated state of one word at a given frame.
type WordState struct {
	WordSpec
	Scale        float64
	Rotation     float64 // degrees
	Opacity      float64
	GlowStrength float64 // pixels
}

// GlowRadii returns the two text-shadow radii (outer, inner) in whole pixels.
func (w WordState) GlowRadii() (outer, inner int) {
	if w.GlowStrength <= 0 {
		return 0, 0
	}
	return int(renderer.RoundHalfUp(w.GlowStrength)), int(renderer.RoundHalfUp(w.GlowStrength * 0.5))
}

// FontSize returns the font size for a scene with wordCount words.
// Titles and calls to action (weight 3) are enlarged, weight-1 asides shrunk.
func FontSize(wordCount, weight int) int {
	var base float64
	switch wordCount {
	case 1:
		base = 180
	case 2:
		base = 150
	case 3:
		base = 120
	default:
		base = 96
	}

	switch weight {
	case 3:
		base = renderer.RoundHalfUp(base * 1.2)
	case 1:
		base = renderer.RoundHalfUp(base * 0.9)
	}

	return int(math.Max(base, MinFontSize))
}

// FontWeight returns the CSS-style font weight for a scene weight.
func FontWeight(weight int) int {
	switch weight {
	case 3:
		return 900
	case 1:
		return 400
	default:
		return 800
	}
}

// ResolveWords splits scene text into laid-out words carrying the scene's
// weight and preset, which drive their animation.
func ResolveWords(text string, weight int, preset Preset) []WordSpec {
	words := strings.Fields(text)
	size := FontSize(len(words), weight)
	fw := FontWeight(weight)

	specs := make([]WordSpec, len(words))
	for i, w := range words {
		specs[i] = WordSpec{
			Word:        w,
			Index:       i,
			DelayFrames: i * WordDelayFrames,
			FontSizePx:  size,
			FontWeight:  fw,
			Weight:      weight,
			Preset:      preset,
		}
	}
	return specs
}

// Animate evaluates a word at localFrame frames into its scene.
func Animate(spec WordSpec, localFrame, fps int) WordState {
	elapsed := math.Max(0, float64(localFrame-spec.DelayFrames))

	deco := EffectFor(spec.Preset).Decorate(spec, elapsed)

	return WordState{
		WordSpec:     spec,
		Scale:        renderer.SpringPosition(elapsed, fps, spec.Preset.Spring(), ScaleFrom, ScaleTo),
		Opacity:      renderer.Interpolate(elapsed, 0, WordFadeFrames, 0, 1),
		Rotation:     deco.Rotation,
		GlowStrength: deco.GlowStrength,
	}
}

// AnimateWords resolves and animates every word of a scene.
func AnimateWords(text string, weight int, preset Preset, localFrame, fps int) []WordState {
	specs := ResolveWords(text, weight, preset)
	states := make([]WordState, len(specs))
	for i, spec := range specs {
		states[i] = Animate(spec, localFrame, fps)
	}
	return states
}
