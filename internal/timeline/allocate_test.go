package timeline

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/vinubadlani/Video-Gen/internal/director"
	"github.com/vinubadlani/Video-Gen/internal/effects"
)

func scenesWithWeights(weights ...int) []director.Scene {
	scenes := make([]director.Scene, len(weights))
	for i, w := range weights {
		scenes[i] = director.Scene{Index: i, Text: "scene text", Weight: w, Preset: effects.Minimal}
	}
	return scenes
}

func TestAllocateScenario(t *testing.T) {
	ranges, err := Allocate(scenesWithWeights(3, 1, 3), 700, IntroDelayFrames)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	expected := []FrameRange{
		{Start: 5, End: 305, Duration: 300},
		{Start: 305, End: 405, Duration: 100},
		{Start: 405, End: 705, Duration: 300},
	}
	for i := range expected {
		if ranges[i] != expected[i] {
			t.Errorf("range %d = %+v, expected %+v", i, ranges[i], expected[i])
		}
	}
}

func TestAllocateTilesExactly(t *testing.T) {
	tests := []struct {
		name    string
		weights []int
		usable  int
	}{
		{"even split", []int{2, 2, 2}, 300},
		{"rounding drift down", []int{1, 1, 1}, 100},
		{"rounding drift up", []int{3, 3, 1}, 101},
		{"generated script", []int{3, 2, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 3}, 857},
		{"single scene", []int{5}, 42},
		{"default weights", []int{0, 0, 3}, 295},
		{"tiny budget", []int{1, 2, 3, 4}, 7},
		{"primes", []int{7, 11, 13, 17, 19}, 997},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := Allocate(scenesWithWeights(tt.weights...), tt.usable, IntroDelayFrames)
			if err != nil {
				t.Fatalf("Allocate failed: %v", err)
			}
			if len(ranges) != len(tt.weights) {
				t.Fatalf("expected %d ranges, got %d", len(tt.weights), len(ranges))
			}

			sum := 0
			cursor := IntroDelayFrames
			for i, r := range ranges {
				if r.Start != cursor {
					t.Errorf("range %d starts at %d, expected %d", i, r.Start, cursor)
				}
				if r.End-r.Start != r.Duration {
					t.Errorf("range %d: end-start %d != duration %d", i, r.End-r.Start, r.Duration)
				}
				if r.Duration < 0 {
					t.Errorf("range %d has negative duration", i)
				}
				cursor = r.End
				sum += r.Duration
			}

			if sum != tt.usable {
				t.Errorf("durations sum to %d, expected %d", sum, tt.usable)
			}
			if last := ranges[len(ranges)-1]; last.End != IntroDelayFrames+tt.usable {
				t.Errorf("last range ends at %d, expected %d", last.End, IntroDelayFrames+tt.usable)
			}
		})
	}
}

func TestAllocateLastSceneAbsorbsRemainder(t *testing.T) {
	// 100/3 rounds to 33 twice; the last scene takes 34.
	ranges, err := Allocate(scenesWithWeights(1, 1, 1), 100, 0)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	got := []int{ranges[0].Duration, ranges[1].Duration, ranges[2].Duration}
	if got[0] != 33 || got[1] != 33 || got[2] != 34 {
		t.Errorf("durations %v, expected [33 33 34]", got)
	}

	// 50/3 rounds up to 17 twice; the last scene gives frames back.
	ranges, err = Allocate(scenesWithWeights(1, 1, 1), 50, 0)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if ranges[2].Duration != 16 {
		t.Errorf("last duration %d, expected 16", ranges[2].Duration)
	}
}

func TestAllocateErrors(t *testing.T) {
	tests := []struct {
		name    string
		scenes  []director.Scene
		usable  int
		wantErr error
	}{
		{"empty list", nil, 100, ErrInvalidSceneList},
		{"negative weight", scenesWithWeights(2, -1), 100, ErrInvalidSceneList},
		{"zero total", scenesWithWeights(2, -2), 100, ErrInvalidSceneList},
		{"no usable frames", scenesWithWeights(2, 2), 0, ErrInvalidRenderConfig},
		{"negative remainder", scenesWithWeights(1, 1, 1, 1), 2, ErrInvalidRenderConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.scenes, tt.usable, IntroDelayFrames)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRenderConfigValidate(t *testing.T) {
	tests := []struct {
		total, fps int
		ok         bool
	}{
		{720, 30, true},
		{21, 30, true},
		{20, 30, false},
		{0, 30, false},
		{720, 0, false},
		{math.MinInt + TailPaddingFrames, 30, false}, // wrapped from an overflowing frame count
		{math.MinInt, 30, false},
		{MaxTotalFrames, 30, true},
		{MaxTotalFrames + 1, 30, false},
	}

	for _, tt := range tests {
		err := NewRenderConfig(tt.total, tt.fps).Validate()
		if tt.ok && err != nil {
			t.Errorf("(%d, %d): unexpected error %v", tt.total, tt.fps, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidRenderConfig) {
			t.Errorf("(%d, %d): expected ErrInvalidRenderConfig, got %v", tt.total, tt.fps, err)
		}
	}
}
