package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// EncodeParams describes the output video.
type EncodeParams struct {
	Width       int
	Height      int
	FPS         int
	TotalFrames int
	OutroFrames int // audio fades out over the same window as the picture
	AudioPath   string
	VideoCodec  string
	Quality     int
	OutputPath  string
}

type VideoEncoder interface {
	Encode(ctx context.Context, frames <-chan *image.RGBA, params EncodeParams) error
}

// FFmpegEncoder pipes raw RGBA frames into ffmpeg and muxes the narration.
type FFmpegEncoder struct {
	Logger *zap.Logger

	// Release, when set, receives every frame after it has been written.
	Release func(*image.RGBA)
}

func NewFFmpegEncoder(logger *zap.Logger, release func(*image.RGBA)) *FFmpegEncoder {
	return &FFmpegEncoder{Logger: logger, Release: release}
}

// Encode consumes exactly params.TotalFrames frames in order.
func (e *FFmpegEncoder) Encode(ctx context.Context, frames <-chan *image.RGBA, params EncodeParams) error {
	pr, pw := io.Pipe()

	writeDone := make(chan error, 1)
	go func() {
		err := e.writeFrames(ctx, pw, frames, params)
		pw.CloseWithError(err)
		writeDone <- err
	}()

	var stderr bytes.Buffer
	runErr := e.buildStream(params).
		WithInput(pr).
		WithErrorOutput(&stderr).
		Run()

	// Unblocks the writer if ffmpeg exited before reading everything.
	pr.CloseWithError(io.ErrClosedPipe)
	writeErr := <-writeDone

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if writeErr != nil && writeErr != io.ErrClosedPipe {
		return errors.Wrap(writeErr, "write frames")
	}
	if runErr != nil {
		e.logger().Error("[!] ffmpeg failed", zap.String("output", stderr.String()))
		return errors.Wrap(runErr, "ffmpeg encode")
	}
	return nil
}

func (e *FFmpegEncoder) buildStream(p EncodeParams) *ffmpeg.Stream {
	video := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", p.Width, p.Height),
		"framerate": p.FPS,
	})

	out := ffmpeg.KwArgs{
		"c:v":     p.VideoCodec,
		"pix_fmt": "yuv420p",
		"r":       p.FPS,
	}
	for k, v := range qualityArgs(p.VideoCodec, p.Quality) {
		out[k] = v
	}

	streams := []*ffmpeg.Stream{video}
	if p.AudioPath != "" {
		fadeStart := float64(p.TotalFrames-p.OutroFrames) / float64(p.FPS)
		fadeLen := float64(p.OutroFrames) / float64(p.FPS)
		audio := ffmpeg.Input(p.AudioPath).Audio().Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"t":  "out",
			"st": fmt.Sprintf("%.4f", fadeStart),
			"d":  fmt.Sprintf("%.4f", fadeLen),
		})
		streams = append(streams, audio)
		out["c:a"] = "aac"
		out["b:a"] = "192k"
	}

	return ffmpeg.Output(streams, p.OutputPath, out).OverWriteOutput()
}

// qualityArgs maps the quality knob onto the encoder's own rate control.
func qualityArgs(codec string, quality int) ffmpeg.KwArgs {
	switch codec {
	case "h264_videotoolbox":
		return ffmpeg.KwArgs{"b:v": fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return ffmpeg.KwArgs{"cq": quality}
	default: // libx264
		return ffmpeg.KwArgs{"crf": quality, "preset": "medium"}
	}
}

func (e *FFmpegEncoder) writeFrames(ctx context.Context, w io.Writer, frames <-chan *image.RGBA, p EncodeParams) error {
	written := 0
	for written < p.TotalFrames {
		var img *image.RGBA
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return errors.Errorf("frame stream ended after %d of %d frames", written, p.TotalFrames)
			}
			img = f
		}

		err := writeRawRGBA(w, img, p.Width, p.Height)
		if e.Release != nil {
			e.Release(img)
		}
		if err != nil {
			return err
		}
		written++
	}
	return nil
}

// writeRawRGBA writes the pixels of a tightly packed, origin anchored frame.
func writeRawRGBA(w io.Writer, img *image.RGBA, width, height int) error {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return errors.Errorf("frame is %dx%d, expected %dx%d", b.Dx(), b.Dy(), width, height)
	}
	if img.Stride == width*4 && b.Min == (image.Point{}) {
		_, err := w.Write(img.Pix[:width*height*4])
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Min.X, y)+width*4]
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (e *FFmpegEncoder) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// WritePNG saves a single frame, used for stills and previews.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
