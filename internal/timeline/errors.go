package timeline

import "github.com/pkg/errors"

var (
	// ErrInvalidSceneList is returned for an empty scene list, a negative
	// weight or a non-positive total weight.
	ErrInvalidSceneList = errors.New("invalid scene list")

	// ErrInvalidRenderConfig is returned when the frame budget leaves no
	// usable frames between the intro delay and the outro.
	ErrInvalidRenderConfig = errors.New("invalid render config")

	// ErrFrameOutOfRange is returned for frame indexes outside [0, TotalFrames).
	ErrFrameOutOfRange = errors.New("frame out of range")
)
