package video

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/vinubadlani/Video-Gen/internal/timeline"
)

const (
	overlayMargin     = 24
	overlayPadding    = 12
	overlayHeaderSize = 28
	overlayLineSize   = 22
	qrStampSize       = 160
)

var (
	overlayBox      = color.NRGBA{A: 178}
	overlayActive   = color.NRGBA{G: 255, A: 255}
	overlayInactive = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}
)

// drawOverlay paints the frame counter and scene ranges in the top left corner.
func (r *Rasterizer) drawOverlay(dst *image.RGBA, o timeline.DebugOverlay) {
	u := r.unit()
	glyphH := float64(r.glyphHeight())

	type line struct {
		text string
		size float64
		c    color.NRGBA
	}
	lines := []line{{o.Header(), overlayHeaderSize * u, overlayActive}}
	for _, l := range o.Lines {
		c := overlayInactive
		if l.Active {
			c = overlayActive
		}
		lines = append(lines, line{l.String(), overlayLineSize * u, c})
	}

	width, height := 0.0, 0.0
	for _, l := range lines {
		w := float64(font.MeasureString(r.Face, l.text).Ceil()) * l.size / glyphH
		width = math.Max(width, w)
		height += l.size * lineHeight
	}

	x0, y0 := overlayMargin*u, overlayMargin*u
	pad := overlayPadding * u
	box := image.Rect(int(x0), int(y0), int(x0+width+2*pad), int(y0+height+2*pad))
	fill(dst, box, overlayBox)

	y := y0 + pad
	for _, l := range lines {
		w := float64(font.MeasureString(r.Face, l.text).Ceil()) * l.size / glyphH
		lh := l.size * lineHeight
		r.drawText(dst, l.text, x0+pad+w/2, y+lh/2, l.size, 0, l.c, 0)
		y += lh
	}
}

// drawQRStamp puts a QR code of the frame fingerprint in the bottom right
// corner so a decoded video frame can be matched to its computed state.
func (r *Rasterizer) drawQRStamp(dst *image.RGBA, f timeline.Frame) error {
	q, err := qrcode.New(fmt.Sprintf("frame=%d/%d;fp=%s", f.Index, f.TotalFrames, Fingerprint(f)), qrcode.Medium)
	if err != nil {
		return errors.Wrap(err, "encode frame stamp")
	}

	size := int(qrStampSize * r.unit())
	img := q.Image(size)
	margin := int(overlayMargin * r.unit())
	b := img.Bounds()
	at := image.Rect(r.Width-margin-b.Dx(), r.Height-margin-b.Dy(), r.Width-margin, r.Height-margin)
	draw.Draw(dst, at, img, b.Min, draw.Src)
	return nil
}

// Fingerprint hashes the animated state of a frame. Equal frames give
// equal fingerprints.
func Fingerprint(f timeline.Frame) string {
	h := fnv.New64a()
	put := func(v uint64) {
		var b [8]byte
		for i := range b {
			b[i] = byte(v >> (8 * i))
		}
		h.Write(b[:])
	}

	put(uint64(f.Index))
	put(uint64(f.TotalFrames))
	put(math.Float64bits(f.AudioGain))
	for _, l := range f.Layers {
		put(uint64(l.Scene.Index))
		put(math.Float64bits(l.State.SceneOpacity))
		for _, w := range l.State.Words {
			put(math.Float64bits(w.Scale))
			put(math.Float64bits(w.Rotation))
			put(math.Float64bits(w.Opacity))
			put(math.Float64bits(w.GlowStrength))
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
