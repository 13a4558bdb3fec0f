package timeline

import (
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/vinubadlani/Video-Gen/internal/director"
	"github.com/vinubadlani/Video-Gen/internal/effects"
)

func sampleScenes() []director.Scene {
	return []director.Scene{
		{Index: 0, Text: "Why you are always tired", Weight: 3, Preset: effects.Dramatic},
		{Index: 1, Text: "Screens", Weight: 1, Preset: effects.Energetic},
		{Index: 2, Text: "Caffeine after noon", Weight: 2, Preset: effects.Minimal},
		{Index: 3, Text: "Follow for more", Weight: 3, Preset: effects.Energetic},
	}
}

func newSampleTimeline(t *testing.T, total int, debug bool) *Timeline {
	t.Helper()
	tl, err := New(sampleScenes(), NewRenderConfig(total, DefaultFPS), debug)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tl
}

func TestCompositeExclusion(t *testing.T) {
	tl := newSampleTimeline(t, 315, false)
	ranges := tl.Ranges()

	for f := 0; f < tl.Config().TotalFrames; f++ {
		frame, err := tl.Frame(f)
		if err != nil {
			t.Fatalf("Frame(%d) failed: %v", f, err)
		}

		present := make(map[int]bool)
		for _, l := range frame.Layers {
			present[l.Scene.Index] = true
		}

		for i, r := range ranges {
			inside := f >= r.Start-FadeFrames && f <= r.End+FadeFrames
			if present[i] != inside {
				t.Errorf("frame %d scene %d: present=%v, window [%d, %d]", f, i, present[i], r.Start-FadeFrames, r.End+FadeFrames)
			}
		}
	}
}

func TestCompositeLayerOrder(t *testing.T) {
	tl := newSampleTimeline(t, 315, false)
	r := tl.Ranges()[1]

	frame, err := tl.Frame(r.Start)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	for i := 1; i < len(frame.Layers); i++ {
		if frame.Layers[i].Scene.Index <= frame.Layers[i-1].Scene.Index {
			t.Errorf("layers out of order: %d after %d", frame.Layers[i].Scene.Index, frame.Layers[i-1].Scene.Index)
		}
	}

	active := 0
	for _, l := range frame.Layers {
		if l.Active {
			active++
			if l.Scene.Index != 1 {
				t.Errorf("scene %d should not be active at frame %d", l.Scene.Index, r.Start)
			}
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active scene, got %d", active)
	}
}

func TestCompositeDeterministic(t *testing.T) {
	tl := newSampleTimeline(t, 400, true)
	total := tl.Config().TotalFrames

	sequential := make([]Frame, total)
	for f := 0; f < total; f++ {
		frame, err := tl.Frame(f)
		if err != nil {
			t.Fatalf("Frame(%d) failed: %v", f, err)
		}
		sequential[f] = frame
	}

	order := rand.New(rand.NewSource(7)).Perm(total)
	parallel := make([]Frame, total)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := w; k < len(order); k += 8 {
				f := order[k]
				frame, err := tl.Frame(f)
				if err != nil {
					t.Errorf("Frame(%d) failed: %v", f, err)
					return
				}
				parallel[f] = frame
			}
		}(w)
	}
	wg.Wait()

	for f := range sequential {
		if !reflect.DeepEqual(sequential[f], parallel[f]) {
			t.Fatalf("frame %d differs between sequential and shuffled parallel evaluation", f)
		}
	}
}

func TestSceneOpacityRamps(t *testing.T) {
	cfg := NewRenderConfig(720, DefaultFPS)
	ranges, err := Allocate(scenesWithWeights(3, 1, 3), cfg.UsableFrames(), cfg.IntroDelayFrames)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	r := ranges[0] // [5, 305)

	prev := -1.0
	for f := r.Start - FadeFrames; f <= r.Start+FadeFrames; f++ {
		op := SceneOpacity(f, r, cfg)
		if op < prev {
			t.Errorf("entrance not monotonic at frame %d: %v < %v", f, op, prev)
		}
		if op < 0 || op > 1 {
			t.Errorf("opacity %v out of [0, 1]", op)
		}
		prev = op
	}
	if got := SceneOpacity(r.Start, r, cfg); got != 0 {
		t.Errorf("opacity at start %v, expected 0", got)
	}
	if got := SceneOpacity(r.Start+FadeFrames, r, cfg); got != 1 {
		t.Errorf("opacity after fade %v, expected 1", got)
	}
	if got := SceneOpacity(r.Start+3, r, cfg); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("opacity halfway %v, expected 0.5", got)
	}

	prev = 2.0
	for f := r.End - 2*FadeFrames; f <= r.End+FadeFrames; f++ {
		op := SceneOpacity(f, r, cfg)
		if op > prev {
			t.Errorf("exit not monotonic at frame %d: %v > %v", f, op, prev)
		}
		prev = op
	}
	if got := SceneOpacity(r.End-FadeFrames, r, cfg); got != 1 {
		t.Errorf("opacity at exit start %v, expected 1", got)
	}
	if got := SceneOpacity(r.End, r, cfg); got != 0 {
		t.Errorf("opacity at end %v, expected 0", got)
	}
}

func TestOutroFade(t *testing.T) {
	cfg := NewRenderConfig(315, DefaultFPS)

	tests := []struct {
		frame    int
		expected float64
	}{
		{0, 1},
		{299, 1},
		{300, 1},
		{306, 0.6},
		{314, 1.0 / 15},
	}

	for _, tt := range tests {
		if got := OutroOpacity(tt.frame, cfg); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("OutroOpacity(%d) = %v, expected %v", tt.frame, got, tt.expected)
		}
		if GainAt(tt.frame, cfg) != OutroOpacity(tt.frame, cfg) {
			t.Errorf("audio gain must follow the picture outro at frame %d", tt.frame)
		}
	}

	tl := newSampleTimeline(t, 315, false)
	late, err := tl.Frame(303)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	for _, l := range late.Layers {
		if l.State.SceneOpacity > OutroOpacity(303, cfg) {
			t.Errorf("scene %d brighter than the outro allows: %v", l.Scene.Index, l.State.SceneOpacity)
		}
	}

	last, err := tl.Frame(314)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if math.Abs(last.AudioGain-1.0/15) > 1e-12 {
		t.Errorf("audio gain %v in the last frame", last.AudioGain)
	}
}

func TestCompositeWords(t *testing.T) {
	tl := newSampleTimeline(t, 315, false)
	r := tl.Ranges()[0]

	frame, err := tl.Frame(r.Start + 20)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	words := frame.Layers[0].State.Words
	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %d", len(words))
	}
	if words[0].Opacity != 1 {
		t.Errorf("first word should be visible, got %v", words[0].Opacity)
	}
	if words[4].Opacity != 0 {
		t.Errorf("fifth word (delay 24) should not have started, got %v", words[4].Opacity)
	}
	if words[0].FontSizePx != 115 || words[0].FontWeight != 900 {
		t.Errorf("unexpected title layout %+v", words[0].WordSpec)
	}
}

func TestCompositeFrameOutOfRange(t *testing.T) {
	tl := newSampleTimeline(t, 315, false)

	for _, f := range []int{-1, 315, 1000} {
		if _, err := tl.Frame(f); !errors.Is(err, ErrFrameOutOfRange) {
			t.Errorf("Frame(%d): expected ErrFrameOutOfRange, got %v", f, err)
		}
	}
}

func TestCompositeEmptySceneList(t *testing.T) {
	cfg := NewRenderConfig(315, DefaultFPS)

	frame, err := Composite(10, nil, nil, cfg)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !frame.NoContent || frame.Message != NoContentMessage {
		t.Errorf("expected no-content frame, got %+v", frame)
	}
	if len(frame.Layers) != 0 {
		t.Errorf("no-content frame has %d layers", len(frame.Layers))
	}

	tl, err := New(nil, cfg, true)
	if err != nil {
		t.Fatalf("New with no scenes failed: %v", err)
	}
	frame, err = tl.Frame(0)
	if err != nil || !frame.NoContent {
		t.Errorf("expected no-content frame from timeline, got %+v (%v)", frame, err)
	}
	if frame.Overlay != nil {
		t.Error("no-content frame should not carry an overlay")
	}
}

func TestCompositeMismatchedRanges(t *testing.T) {
	cfg := NewRenderConfig(315, DefaultFPS)
	_, err := Composite(0, sampleScenes(), []FrameRange{{Start: 5, End: 10, Duration: 5}}, cfg)
	if !errors.Is(err, ErrInvalidSceneList) {
		t.Errorf("expected ErrInvalidSceneList, got %v", err)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(sampleScenes(), NewRenderConfig(20, DefaultFPS), false); !errors.Is(err, ErrInvalidRenderConfig) {
		t.Errorf("expected ErrInvalidRenderConfig, got %v", err)
	}
	if _, err := New(scenesWithWeights(2, -1), NewRenderConfig(315, DefaultFPS), false); !errors.Is(err, ErrInvalidSceneList) {
		t.Errorf("expected ErrInvalidSceneList, got %v", err)
	}
}

func TestDebugOverlay(t *testing.T) {
	tl := newSampleTimeline(t, 315, true)
	r := tl.Ranges()[2]

	frame, err := tl.Frame(r.Start)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if frame.Overlay == nil {
		t.Fatal("debug timeline should attach an overlay")
	}

	text := frame.Overlay.String()
	lines := strings.Split(text, "\n")
	if lines[0] != "frame: "+strconv.Itoa(r.Start)+" / 315" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 5 {
		t.Fatalf("expected 5 overlay lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[3], "> [2] ") {
		t.Errorf("scene 2 should be marked active: %q", lines[3])
	}
	if strings.HasPrefix(lines[1], ">") {
		t.Errorf("scene 0 should not be active: %q", lines[1])
	}
	t.Logf("overlay:\n%s", text)

	plain := newSampleTimeline(t, 315, false)
	withoutOverlay, _ := plain.Frame(r.Start)
	if withoutOverlay.Overlay != nil {
		t.Error("overlay attached without debug")
	}
	withoutOverlay.Overlay = frame.Overlay
	if !reflect.DeepEqual(withoutOverlay, frame) {
		t.Error("debug overlay must not change the composited state")
	}
}
