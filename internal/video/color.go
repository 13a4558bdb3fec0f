package video

import (
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vinubadlani/Video-Gen/internal/renderer"
)

// ParseHexColor accepts #RGB, #RRGGBB and #RRGGBBAA. Anything else yields fallback.
func ParseHexColor(s string, fallback color.NRGBA) color.NRGBA {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if !isHex(hex) {
		return fallback
	}

	alpha := uint8(255)
	switch len(hex) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return fallback
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return fallback
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", ch) {
			return false
		}
	}
	return true
}

// withAlpha scales the color's alpha by a, clamped to [0, 1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*renderer.Clamp01(a) + 0.5)
	return c
}
