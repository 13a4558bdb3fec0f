package timeline

import (
	"math"

	"github.com/pkg/errors"
)

// TailPaddingFrames is added after the speech so the outro can finish.
const TailPaddingFrames = 15

// ComputeTotalFrames derives the render length from the measured audio
// duration. The result overrides any configured duration.
func ComputeTotalFrames(audioSeconds float64, fps int) (int, error) {
	if fps <= 0 {
		return 0, errors.Wrapf(ErrInvalidRenderConfig, "fps must be positive, got %d", fps)
	}
	if math.IsNaN(audioSeconds) || math.IsInf(audioSeconds, 0) || audioSeconds < 0 {
		return 0, errors.Wrapf(ErrInvalidRenderConfig, "invalid audio duration %v", audioSeconds)
	}
	frames := math.Ceil(audioSeconds * float64(fps))
	if frames > MaxTotalFrames-TailPaddingFrames {
		return 0, errors.Wrapf(ErrInvalidRenderConfig, "audio duration %v at %d fps exceeds %d frames", audioSeconds, fps, MaxTotalFrames)
	}
	return int(frames) + TailPaddingFrames, nil
}

// GainAt is the audio gain envelope. It follows the same outro curve as
// the picture.
func GainAt(frame int, cfg RenderConfig) float64 {
	return OutroOpacity(frame, cfg)
}
