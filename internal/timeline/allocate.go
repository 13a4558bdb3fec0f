package timeline

import (
	"github.com/pkg/errors"

	"github.com/vinubadlani/Video-Gen/internal/director"
	"github.com/vinubadlani/Video-Gen/internal/renderer"
)

// FrameRange is the nominal span [Start, End) of one scene.
type FrameRange struct {
	Start    int
	End      int
	Duration int
}

// Contains reports whether frame lies in the nominal span.
func (r FrameRange) Contains(frame int) bool {
	return frame >= r.Start && frame < r.End
}

// InWindow reports whether frame lies in the span widened by fade frames
// on both sides, ends included.
func (r FrameRange) InWindow(frame, fade int) bool {
	return frame >= r.Start-fade && frame <= r.End+fade
}

// TotalWeight sums the effective scene weights.
func TotalWeight(scenes []director.Scene) (int, error) {
	if len(scenes) == 0 {
		return 0, errors.Wrap(ErrInvalidSceneList, "no scenes")
	}

	total := 0
	for i, sc := range scenes {
		w := sc.EffectiveWeight()
		if w < 0 {
			return 0, errors.Wrapf(ErrInvalidSceneList, "scene %d has negative weight %d", i, w)
		}
		total += w
	}
	if total <= 0 {
		return 0, errors.Wrap(ErrInvalidSceneList, "total weight is zero")
	}
	return total, nil
}

// Allocate splits usableFrames among scenes in proportion to their weights.
//
// Ranges start at introDelay and tile without gaps. Every scene but the last
// gets round(usable*weight/total) frames; the last scene takes whatever is
// left, so the durations always sum to usableFrames.
func Allocate(scenes []director.Scene, usableFrames, introDelay int) ([]FrameRange, error) {
	total, err := TotalWeight(scenes)
	if err != nil {
		return nil, err
	}
	if usableFrames <= 0 {
		return nil, errors.Wrapf(ErrInvalidRenderConfig, "usable frames %d", usableFrames)
	}

	ranges := make([]FrameRange, len(scenes))
	cursor := introDelay
	assigned := 0
	last := len(scenes) - 1

	for i, sc := range scenes {
		var duration int
		if i == last {
			duration = usableFrames - assigned
			if duration < 0 {
				return nil, errors.Wrapf(ErrInvalidRenderConfig,
					"rounding leaves %d frames for the last scene", duration)
			}
		} else {
			share := float64(usableFrames) * float64(sc.EffectiveWeight()) / float64(total)
			duration = int(renderer.RoundHalfUp(share))
		}

		ranges[i] = FrameRange{Start: cursor, End: cursor + duration, Duration: duration}
		cursor += duration
		assigned += duration
	}

	return ranges, nil
}
