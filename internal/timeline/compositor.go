package timeline

import (
	"github.com/pkg/errors"

	"github.com/vinubadlani/Video-Gen/internal/director"
	"github.com/vinubadlani/Video-Gen/internal/effects"
	"github.com/vinubadlani/Video-Gen/internal/renderer"
)

// NoContentMessage is shown on frames of a render without scenes.
const NoContentMessage = "Script generation failed – no scenes."

// AnimationState is the animated look of one scene at one frame.
type AnimationState struct {
	SceneOpacity float64
	Words        []effects.WordState
}

// Layer is one scene drawn into a frame. Layers are ordered by scene index,
// later layers on top.
type Layer struct {
	Scene      director.Scene
	Range      FrameRange
	LocalFrame int
	Active     bool // frame lies in the nominal span, not just the fade window
	State      AnimationState
}

// Frame is the complete render state of one frame index.
type Frame struct {
	Index       int
	TotalFrames int
	Layers      []Layer
	AudioGain   float64

	// NoContent marks the fallback frame of an empty scene list.
	NoContent bool
	Message   string

	// Overlay is only set when debug output was requested.
	Overlay *DebugOverlay
}

// Composite computes the render state of frame. Scenes outside their fade
// window are skipped without being evaluated.
func Composite(frame int, scenes []director.Scene, ranges []FrameRange, cfg RenderConfig) (Frame, error) {
	if frame < 0 || frame >= cfg.TotalFrames {
		return Frame{}, errors.Wrapf(ErrFrameOutOfRange, "frame %d not in [0, %d)", frame, cfg.TotalFrames)
	}

	out := Frame{
		Index:       frame,
		TotalFrames: cfg.TotalFrames,
		AudioGain:   OutroOpacity(frame, cfg),
	}

	if len(scenes) == 0 {
		out.NoContent = true
		out.Message = NoContentMessage
		return out, nil
	}
	if len(ranges) != len(scenes) {
		return Frame{}, errors.Wrapf(ErrInvalidSceneList, "%d ranges for %d scenes", len(ranges), len(scenes))
	}

	for i, sc := range scenes {
		r := ranges[i]
		if !r.InWindow(frame, cfg.FadeFrames) {
			continue
		}

		local := frame - r.Start
		out.Layers = append(out.Layers, Layer{
			Scene:      sc,
			Range:      r,
			LocalFrame: local,
			Active:     r.Contains(frame),
			State: AnimationState{
				SceneOpacity: SceneOpacity(frame, r, cfg),
				Words:        effects.AnimateWords(sc.Text, sc.EffectiveWeight(), sc.Preset, local, cfg.FPS),
			},
		})
	}

	return out, nil
}

// SceneOpacity combines the scene's own fades with the global outro.
func SceneOpacity(frame int, r FrameRange, cfg RenderConfig) float64 {
	local := float64(frame - r.Start)
	fade := float64(cfg.FadeFrames)
	dur := float64(r.Duration)

	enter := renderer.Interpolate(local, 0, fade, 0, 1)
	exit := renderer.Interpolate(local, dur-fade, dur, 1, 0)

	opacity := enter
	if exit < opacity {
		opacity = exit
	}
	return opacity * OutroOpacity(frame, cfg)
}

// OutroOpacity ramps from 1 to 0 over the last OutroFrames of the render.
func OutroOpacity(frame int, cfg RenderConfig) float64 {
	total := float64(cfg.TotalFrames)
	return renderer.Interpolate(float64(frame), total-float64(cfg.OutroFrames), total, 1, 0)
}
