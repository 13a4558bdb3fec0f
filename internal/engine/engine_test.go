package engine

import (
	"context"
	"image"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vinubadlani/Video-Gen/internal/config"
	"github.com/vinubadlani/Video-Gen/internal/director"
	"github.com/vinubadlani/Video-Gen/internal/effects"
	"github.com/vinubadlani/Video-Gen/internal/video"
)

type memorySource struct {
	script *director.Script
}

func (s *memorySource) Load() (*director.Script, error) { return s.script, nil }
func (s *memorySource) Path() string                    { return "memory" }

type recordingEncoder struct {
	release func(*image.RGBA)
	params  video.EncodeParams
	corners []uint8
	err     error
}

func (e *recordingEncoder) Encode(ctx context.Context, frames <-chan *image.RGBA, params video.EncodeParams) error {
	e.params = params
	if e.err != nil {
		return e.err
	}
	for img := range frames {
		e.corners = append(e.corners, img.RGBAAt(1, 1).R)
		e.release(img)
	}
	return nil
}

func testScript() *director.Script {
	return &director.Script{
		Version: "1.0",
		Scenes: []director.Scene{
			{Index: 0, Text: "Title", Weight: 3, Preset: effects.Dramatic, Background: "#FFFFFF", TextColor: "#000000", Accent: "#000000"},
			{Index: 1, Text: "Body", Weight: 1, Preset: effects.Minimal, Background: "#FFFFFF", TextColor: "#000000", Accent: "#000000"},
			{Index: 2, Text: "Bye", Weight: 3, Preset: effects.Preset(7), PresetFallback: true, Background: "#FFFFFF"},
		},
	}
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height = 108, 192
	cfg.Workers = 3
	cfg.AudioPath = "narration.mp3"
	cfg.OutputVideo = filepath.Join(t.TempDir(), "out", "video.mp4")
	return cfg
}

func newTestProject(t *testing.T, enc *recordingEncoder, logger *zap.Logger) *RenderProject {
	p := NewRenderProject(testConfig(t), &memorySource{script: testScript()}, enc, logger)
	p.ProbeAudio = func(string) (float64, error) { return 3.0, nil }
	enc.release = p.Raster.Release
	return p
}

func TestPlanUsesAudioDuration(t *testing.T) {
	p := newTestProject(t, &recordingEncoder{}, nil)
	p.Config.DurationSeconds = 99
	p.ProbeAudio = func(string) (float64, error) { return 10.0, nil }

	seconds, err := p.AudioSeconds()
	if err != nil {
		t.Fatalf("AudioSeconds failed: %v", err)
	}
	tl, err := p.Plan(testScript(), seconds)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := tl.Config().TotalFrames; got != 315 {
		t.Errorf("expected 315 frames from 10s of audio, got %d", got)
	}
}

func TestAudioSecondsFallback(t *testing.T) {
	p := newTestProject(t, &recordingEncoder{}, nil)
	p.ProbeAudio = func(string) (float64, error) { return 0, errors.New("ffprobe missing") }

	if _, err := p.AudioSeconds(); err == nil {
		t.Error("expected an error without audio or duration")
	}

	p.Config.DurationSeconds = 4
	seconds, err := p.AudioSeconds()
	if err != nil || seconds != 4 {
		t.Errorf("expected configured 4s, got %v (%v)", seconds, err)
	}

	p.Config.AudioPath = ""
	p.Config.DurationSeconds = 0
	if _, err := p.AudioSeconds(); err == nil {
		t.Error("expected an error without audio path or duration")
	}
}

func TestRunStreamsFramesInOrder(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	enc := &recordingEncoder{}
	p := newTestProject(t, enc, zap.New(core))

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 3s at 30 fps plus the 15 frame tail.
	if len(enc.corners) != 105 || enc.params.TotalFrames != 105 {
		t.Fatalf("encoder got %d frames, params %+v", len(enc.corners), enc.params)
	}
	if enc.params.OutroFrames != 15 || enc.params.AudioPath != "narration.mp3" {
		t.Errorf("unexpected params %+v", enc.params)
	}

	if enc.corners[0] != 0 {
		t.Errorf("frame 0 precedes every scene and should be black, got %d", enc.corners[0])
	}
	if enc.corners[20] != 0xFF {
		t.Errorf("frame 20 should show the white title card, got %d", enc.corners[20])
	}
	if enc.corners[104] != 0 {
		t.Error("last frame should be faded out")
	}

	if logs.FilterMessage("[!] Unknown preset, using fallback").Len() != 1 {
		t.Errorf("expected one fallback warning, got %v", logs.All())
	}
}

func TestRunEncoderFailure(t *testing.T) {
	enc := &recordingEncoder{err: errors.New("ffmpeg exploded")}
	p := newTestProject(t, enc, nil)

	err := p.Run(context.Background())
	if err == nil || errors.Cause(err).Error() != "ffmpeg exploded" {
		t.Errorf("expected the encoder error, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestProject(t, &recordingEncoder{}, nil)
	if err := p.Run(ctx); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestWriteFrame(t *testing.T) {
	p := newTestProject(t, &recordingEncoder{}, nil)
	tl, err := p.Plan(testScript(), 1.0)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := p.WriteFrame(tl, 10, path); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if err := p.WriteFrame(tl, 45, path); err == nil {
		t.Error("expected an error for a frame past the end")
	}
}
