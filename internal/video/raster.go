package video

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/vinubadlani/Video-Gen/internal/effects"
	"github.com/vinubadlani/Video-Gen/internal/system"
	"github.com/vinubadlani/Video-Gen/internal/timeline"
)

// Layout constants are in pixels of a 1080 px wide canvas and scale with
// the output width.
const (
	referenceWidth = 1080

	sidePadding = 48
	wordMargin  = 12
	lineHeight  = 1.1

	accentBarWidth  = 80
	accentBarHeight = 6
	accentBarBottom = 120

	noContentFontSize = 48
)

var (
	defaultBackground = color.NRGBA{A: 255}
	defaultText       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Rasterizer turns a composited frame into pixels.
type Rasterizer struct {
	Width  int
	Height int
	Pool   *system.ImagePool
	Face   font.Face
	Interp draw.Interpolator

	// QRStamp adds a QR code of the frame fingerprint to debug frames.
	QRStamp bool
}

func NewRasterizer(width, height int, pool *system.ImagePool) *Rasterizer {
	return &Rasterizer{
		Width:   width,
		Height:  height,
		Pool:    pool,
		Face:    basicfont.Face7x13,
		Interp:  draw.ApproxBiLinear,
		QRStamp: true,
	}
}

// Rasterize draws f into a pooled buffer. Call Release when done with it.
func (r *Rasterizer) Rasterize(f timeline.Frame) (*image.RGBA, error) {
	dst := r.buffer()
	draw.Draw(dst, dst.Bounds(), image.NewUniform(defaultBackground), image.Point{}, draw.Src)

	if f.NoContent {
		r.drawText(dst, f.Message, float64(r.Width)/2, float64(r.Height)/2, noContentFontSize*r.unit(), 0, defaultText, 0)
		return dst, nil
	}

	for _, l := range f.Layers {
		r.drawLayer(dst, l)
	}

	if f.Overlay != nil {
		r.drawOverlay(dst, *f.Overlay)
		if r.QRStamp {
			if err := r.drawQRStamp(dst, f); err != nil {
				r.Release(dst)
				return nil, err
			}
		}
	}
	return dst, nil
}

// Release returns a buffer from Rasterize to the pool.
func (r *Rasterizer) Release(img *image.RGBA) {
	if r.Pool != nil {
		r.Pool.Put(img)
		return
	}
	system.PutImage(img)
}

func (r *Rasterizer) buffer() *image.RGBA {
	if r.Pool != nil {
		return r.Pool.Get(r.Width, r.Height)
	}
	return system.GetImage(r.Width, r.Height)
}

func (r *Rasterizer) unit() float64 {
	return float64(r.Width) / referenceWidth
}

func (r *Rasterizer) drawLayer(dst *image.RGBA, l timeline.Layer) {
	opacity := l.State.SceneOpacity
	if opacity <= 0 {
		return
	}
	u := r.unit()

	bg := ParseHexColor(l.Scene.Background, defaultBackground)
	fill(dst, dst.Bounds(), withAlpha(bg, opacity))

	accent := ParseHexColor(l.Scene.Accent, defaultText)
	cx := float64(r.Width) / 2
	bottom := float64(r.Height) - accentBarBottom*u
	bar := image.Rect(
		int(cx-accentBarWidth*u/2), int(bottom-accentBarHeight*u),
		int(cx+accentBarWidth*u/2), int(bottom),
	)
	fill(dst, bar, withAlpha(accent, opacity))

	textColor := ParseHexColor(l.Scene.TextColor, defaultText)
	r.drawWords(dst, l.State.Words, textColor, opacity)
}

type placedWord struct {
	state effects.WordState
	box   float64 // width including margins at rest scale
	cx    float64
	cy    float64
}

// drawWords centers the words in wrapped rows, like a centered flex-wrap box.
func (r *Rasterizer) drawWords(dst *image.RGBA, words []effects.WordState, textColor color.NRGBA, opacity float64) {
	if len(words) == 0 {
		return
	}
	u := r.unit()
	glyphH := float64(r.glyphHeight())
	maxRow := float64(r.Width) - 2*sidePadding*u

	var rows [][]placedWord
	var rowWidths []float64
	var cur []placedWord
	curW := 0.0
	for _, w := range words {
		px := float64(w.FontSizePx) * u
		advance := float64(font.MeasureString(r.Face, w.Word).Ceil()) * px / glyphH
		box := advance + 2*wordMargin*u
		if len(cur) > 0 && curW+box > maxRow {
			rows = append(rows, cur)
			rowWidths = append(rowWidths, curW)
			cur, curW = nil, 0
		}
		cur = append(cur, placedWord{state: w, box: box})
		curW += box
	}
	rows = append(rows, cur)
	rowWidths = append(rowWidths, curW)

	lineH := float64(words[0].FontSizePx) * u * lineHeight
	y := (float64(r.Height) - lineH*float64(len(rows))) / 2

	for i, row := range rows {
		x := (float64(r.Width) - rowWidths[i]) / 2
		for _, pw := range row {
			pw.cx = x + pw.box/2
			pw.cy = y + lineH/2
			r.drawWord(dst, pw, textColor, opacity)
			x += pw.box
		}
		y += lineH
	}
}

func (r *Rasterizer) drawWord(dst *image.RGBA, pw placedWord, textColor color.NRGBA, opacity float64) {
	s := pw.state
	alpha := s.Opacity * opacity
	if alpha <= 0 || s.Scale <= 0 {
		return
	}
	px := float64(s.FontSizePx) * r.unit() * s.Scale

	outer, inner := s.GlowRadii()
	if outer > 0 {
		u := r.unit()
		r.drawGlow(dst, s.Word, pw.cx, pw.cy, px, s.Rotation, withAlpha(textColor, alpha*0.25), float64(outer)*u, boldness(s.FontWeight))
		r.drawGlow(dst, s.Word, pw.cx, pw.cy, px, s.Rotation, withAlpha(textColor, alpha*0.4), float64(inner)*u, boldness(s.FontWeight))
	}

	r.drawText(dst, s.Word, pw.cx, pw.cy, px, s.Rotation, withAlpha(textColor, alpha), boldness(s.FontWeight))
}

// drawGlow approximates a blurred text shadow by stamping the word at eight
// offsets on a circle of the given radius.
func (r *Rasterizer) drawGlow(dst *image.RGBA, word string, cx, cy, px, rotation float64, c color.NRGBA, radius float64, bold int) {
	if radius <= 0 || c.A == 0 {
		return
	}
	for k := 0; k < 8; k++ {
		a := float64(k) * math.Pi / 4
		r.drawText(dst, word, cx+radius*math.Cos(a), cy+radius*math.Sin(a), px, rotation, c, bold)
	}
}

// drawText renders s centered on (cx, cy) with a glyph height of px pixels,
// rotated by degrees around its center.
func (r *Rasterizer) drawText(dst *image.RGBA, s string, cx, cy, px, degrees float64, c color.NRGBA, bold int) {
	if c.A == 0 || px <= 0 {
		return
	}
	src := r.glyphImage(s, c, bold)
	sw, sh := float64(src.Rect.Dx()), float64(src.Rect.Dy())
	if sw == 0 || sh == 0 {
		return
	}

	k := px / sh
	th := degrees * math.Pi / 180
	cos, sin := math.Cos(th), math.Sin(th)

	a, b := k*cos, -k*sin
	d, e := k*sin, k*cos
	s2d := f64.Aff3{
		a, b, cx - (a*sw/2 + b*sh/2),
		d, e, cy - (d*sw/2 + e*sh/2),
	}
	r.Interp.Transform(dst, s2d, src, src.Bounds(), draw.Over, nil)
}

// glyphImage draws s at the face's native size. Heavier weights are
// emulated by overstriking with a one pixel shift.
func (r *Rasterizer) glyphImage(s string, c color.NRGBA, bold int) *image.RGBA {
	m := r.Face.Metrics()
	w := font.MeasureString(r.Face, s).Ceil() + bold
	img := image.NewRGBA(image.Rect(0, 0, w, r.glyphHeight()))

	d := font.Drawer{Dst: img, Src: image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}), Face: r.Face}
	for i := 0; i <= bold; i++ {
		d.Dot = fixed.P(i, m.Ascent.Ceil())
		d.DrawString(s)
	}

	if c.A < 255 {
		scale := uint32(c.A)
		for i := 0; i < len(img.Pix); i++ {
			img.Pix[i] = uint8(uint32(img.Pix[i]) * scale / 255)
		}
	}
	return img
}

func (r *Rasterizer) glyphHeight() int {
	m := r.Face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func boldness(fontWeight int) int {
	switch {
	case fontWeight >= 900:
		return 2
	case fontWeight >= 700:
		return 1
	default:
		return 0
	}
}

func fill(dst *image.RGBA, rect image.Rectangle, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Over)
}
