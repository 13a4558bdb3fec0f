package timeline

import (
	"math"

	"github.com/pkg/errors"
)

// Engine constants, in frames.
const (
	IntroDelayFrames = 5  // before the first scene starts
	FadeFrames       = 6  // per-scene fade in and out
	OutroFrames      = 15 // final fade of picture and audio

	DefaultFPS = 30

	// MaxTotalFrames bounds the render length so frame arithmetic cannot overflow.
	MaxTotalFrames = math.MaxInt32
)

// RenderConfig is the frame budget of one render.
type RenderConfig struct {
	TotalFrames      int
	FPS              int
	IntroDelayFrames int
	FadeFrames       int
	OutroFrames      int
}

// NewRenderConfig returns a config with the fixed engine constants.
func NewRenderConfig(totalFrames, fps int) RenderConfig {
	return RenderConfig{
		TotalFrames:      totalFrames,
		FPS:              fps,
		IntroDelayFrames: IntroDelayFrames,
		FadeFrames:       FadeFrames,
		OutroFrames:      OutroFrames,
	}
}

// UsableFrames is the budget shared among scenes.
func (c RenderConfig) UsableFrames() int {
	return c.TotalFrames - c.IntroDelayFrames - c.OutroFrames
}

// Validate checks that the config leaves room for at least one scene frame.
func (c RenderConfig) Validate() error {
	if c.FPS <= 0 {
		return errors.Wrapf(ErrInvalidRenderConfig, "fps must be positive, got %d", c.FPS)
	}
	if c.IntroDelayFrames < 0 || c.FadeFrames < 0 || c.OutroFrames < 0 {
		return errors.Wrap(ErrInvalidRenderConfig, "negative frame constant")
	}
	if c.TotalFrames > MaxTotalFrames {
		return errors.Wrapf(ErrInvalidRenderConfig, "total frames %d exceed %d", c.TotalFrames, MaxTotalFrames)
	}
	if c.TotalFrames <= c.IntroDelayFrames+c.OutroFrames {
		return errors.Wrapf(ErrInvalidRenderConfig,
			"total frames %d must exceed intro %d + outro %d",
			c.TotalFrames, c.IntroDelayFrames, c.OutroFrames)
	}
	return nil
}
