package timeline

import (
	"github.com/vinubadlani/Video-Gen/internal/director"
)

// Timeline holds a validated scene list and its frame ranges. It is
// read-only after New and safe for concurrent Frame calls.
type Timeline struct {
	scenes []director.Scene
	ranges []FrameRange
	cfg    RenderConfig
	debug  bool
}

// New validates the config and allocates scene ranges once.
// An empty scene list is accepted and yields no-content frames.
func New(scenes []director.Scene, cfg RenderConfig, debug bool) (*Timeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Timeline{
		scenes: append([]director.Scene(nil), scenes...),
		cfg:    cfg,
		debug:  debug,
	}
	if len(scenes) == 0 {
		return t, nil
	}

	ranges, err := Allocate(t.scenes, cfg.UsableFrames(), cfg.IntroDelayFrames)
	if err != nil {
		return nil, err
	}
	t.ranges = ranges
	return t, nil
}

// Frame returns the render state of frame i.
func (t *Timeline) Frame(i int) (Frame, error) {
	f, err := Composite(i, t.scenes, t.ranges, t.cfg)
	if err != nil {
		return Frame{}, err
	}
	if t.debug && !f.NoContent {
		o := Overlay(i, t.cfg, t.scenes, t.ranges)
		f.Overlay = &o
	}
	return f, nil
}

// Config returns the render config.
func (t *Timeline) Config() RenderConfig {
	return t.cfg
}

// Scenes returns a copy of the scene list.
func (t *Timeline) Scenes() []director.Scene {
	return append([]director.Scene(nil), t.scenes...)
}

// Ranges returns a copy of the allocated ranges.
func (t *Timeline) Ranges() []FrameRange {
	return append([]FrameRange(nil), t.ranges...)
}

// Debug reports whether frames carry the debug overlay.
func (t *Timeline) Debug() bool {
	return t.debug
}
