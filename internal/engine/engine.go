package engine

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vinubadlani/Video-Gen/internal/config"
	"github.com/vinubadlani/Video-Gen/internal/director"
	"github.com/vinubadlani/Video-Gen/internal/source"
	"github.com/vinubadlani/Video-Gen/internal/system"
	"github.com/vinubadlani/Video-Gen/internal/timeline"
	"github.com/vinubadlani/Video-Gen/internal/video"
)

// RenderProject drives one render: it loads the scenes, measures the
// narration, plans the timeline and streams rasterized frames to the encoder.
type RenderProject struct {
	Config  *config.Config
	Source  source.Source
	Encoder video.VideoEncoder
	Raster  *video.Rasterizer
	Logger  *zap.Logger
	RunID   string

	// ProbeAudio measures the narration. Defaults to system.ProbeAudioDuration.
	ProbeAudio func(path string) (float64, error)
}

func NewRenderProject(cfg *config.Config, src source.Source, enc video.VideoEncoder, logger *zap.Logger) *RenderProject {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	raster := video.NewRasterizer(cfg.Width, cfg.Height, system.NewImagePool())
	if ff, ok := enc.(*video.FFmpegEncoder); ok && ff.Release == nil {
		ff.Release = raster.Release
	}
	return &RenderProject{
		Config:     cfg,
		Source:     src,
		Encoder:    enc,
		Raster:     raster,
		Logger:     logger.With(zap.String("run", runID)),
		RunID:      runID,
		ProbeAudio: system.ProbeAudioDuration,
	}
}

// LoadScript reads the scene list and warns about unknown presets.
func (p *RenderProject) LoadScript() (*director.Script, error) {
	script, err := p.Source.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load scenes")
	}
	for _, sc := range script.Scenes {
		if sc.PresetFallback {
			p.Logger.Warn("[!] Unknown preset, using fallback",
				zap.Int("scene", sc.Index),
				zap.Stringer("preset", sc.Preset))
		}
	}
	return script, nil
}

// AudioSeconds measures the configured narration. Without audio, or when
// measuring fails, the configured duration is used if there is one.
func (p *RenderProject) AudioSeconds() (float64, error) {
	if p.Config.AudioPath == "" {
		if p.Config.DurationSeconds > 0 {
			p.Logger.Warn("[!] No audio, using configured duration", zap.Float64("seconds", p.Config.DurationSeconds))
			return p.Config.DurationSeconds, nil
		}
		return 0, errors.New("no audio file and no duration configured")
	}

	seconds, err := p.ProbeAudio(p.Config.AudioPath)
	if err != nil {
		if p.Config.DurationSeconds > 0 {
			p.Logger.Warn("[!] Could not measure audio, using configured duration",
				zap.Error(err), zap.Float64("seconds", p.Config.DurationSeconds))
			return p.Config.DurationSeconds, nil
		}
		return 0, errors.Wrap(err, "measure audio")
	}

	if p.Config.DurationSeconds > 0 && p.Config.DurationSeconds != seconds {
		p.Logger.Info("[*] Duration overridden by audio",
			zap.Float64("configured", p.Config.DurationSeconds),
			zap.Float64("audio", seconds))
	}
	return seconds, nil
}

// Plan derives the frame budget from the audio duration and allocates the
// scene ranges once.
func (p *RenderProject) Plan(script *director.Script, audioSeconds float64) (*timeline.Timeline, error) {
	total, err := timeline.ComputeTotalFrames(audioSeconds, p.Config.FPS)
	if err != nil {
		return nil, err
	}

	tl, err := timeline.New(script.Scenes, timeline.NewRenderConfig(total, p.Config.FPS), p.Config.Debug)
	if err != nil {
		return nil, err
	}

	p.Logger.Info("[*] Timeline planned",
		zap.Int("scenes", len(script.Scenes)),
		zap.Int("frames", total),
		zap.Int("fps", p.Config.FPS),
		zap.Float64("audio_seconds", audioSeconds))
	return tl, nil
}

// Run renders the whole video.
func (p *RenderProject) Run(ctx context.Context) error {
	startTime := time.Now()

	script, err := p.LoadScript()
	if err != nil {
		return err
	}
	seconds, err := p.AudioSeconds()
	if err != nil {
		return err
	}
	tl, err := p.Plan(script, seconds)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(p.Config.OutputVideo); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}

	cfg := tl.Config()
	workers := system.RecommendedWorkers(p.Config.Workers, system.FrameBytes(p.Config.Width, p.Config.Height))

	p.Logger.Info("--- [PROJECT: KINETIC TIMELINE] ---",
		zap.String("source", p.Source.Path()),
		zap.Int("width", p.Config.Width),
		zap.Int("height", p.Config.Height),
		zap.Int("workers", workers),
		zap.Bool("debug", tl.Debug()))

	params := video.EncodeParams{
		Width:       p.Config.Width,
		Height:      p.Config.Height,
		FPS:         cfg.FPS,
		TotalFrames: cfg.TotalFrames,
		OutroFrames: cfg.OutroFrames,
		AudioPath:   p.Config.AudioPath,
		VideoCodec:  p.Config.VideoEncoder,
		Quality:     p.Config.Quality,
		OutputPath:  p.Config.OutputVideo,
	}

	frames := make(chan *image.RGBA, workers)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Encoder.Encode(gctx, frames, params)
	})
	g.Go(func() error {
		defer close(frames)
		return p.renderFrames(gctx, tl, workers, frames)
	})

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "render")
	}

	elapsed := time.Since(startTime)
	fields := []zap.Field{
		zap.String("output", p.Config.OutputVideo),
		zap.Int("frames", cfg.TotalFrames),
	}
	if p.Config.ShowStats {
		fields = append(fields,
			zap.String("build", p.Config.BuildVersion),
			zap.Duration("total", elapsed),
			zap.Float64("effective_fps", float64(cfg.TotalFrames)/elapsed.Seconds()))
	}
	p.Logger.Info("[+++] Render complete", fields...)
	return nil
}

// renderFrames rasterizes frames in parallel batches and delivers them to
// out in frame order.
func (p *RenderProject) renderFrames(ctx context.Context, tl *timeline.Timeline, workers int, out chan<- *image.RGBA) error {
	total := tl.Config().TotalFrames
	batchSize := workers * system.BatchFactor

	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		batch := make([]*image.RGBA, end-start)
		bg, bctx := errgroup.WithContext(ctx)
		bg.SetLimit(workers)
		for i := start; i < end; i++ {
			i := i
			bg.Go(func() error {
				if err := bctx.Err(); err != nil {
					return err
				}
				img, err := p.RenderFrame(tl, i)
				if err != nil {
					return err
				}
				batch[i-start] = img
				return nil
			})
		}
		if err := bg.Wait(); err != nil {
			p.release(batch)
			return err
		}

		for j, img := range batch {
			select {
			case out <- img:
			case <-ctx.Done():
				p.release(batch[j:])
				return ctx.Err()
			}
		}

		p.Logger.Debug("[>] Frames ready", zap.Int("done", end), zap.Int("total", total))
	}
	return nil
}

// RenderFrame rasterizes a single frame. The caller owns the returned
// buffer and should hand it back through Raster.Release.
func (p *RenderProject) RenderFrame(tl *timeline.Timeline, i int) (*image.RGBA, error) {
	frame, err := tl.Frame(i)
	if err != nil {
		return nil, err
	}
	img, err := p.Raster.Rasterize(frame)
	if err != nil {
		return nil, errors.Wrapf(err, "rasterize frame %d", i)
	}
	return img, nil
}

// WriteFrame renders frame i of the planned timeline to a PNG file.
func (p *RenderProject) WriteFrame(tl *timeline.Timeline, i int, path string) error {
	img, err := p.RenderFrame(tl, i)
	if err != nil {
		return err
	}
	defer p.Raster.Release(img)
	return video.WritePNG(path, img)
}

func (p *RenderProject) release(imgs []*image.RGBA) {
	for _, img := range imgs {
		if img != nil {
			p.Raster.Release(img)
		}
	}
}
