package timeline

import (
	"fmt"
	"strings"

	"github.com/vinubadlani/Video-Gen/internal/director"
)

// OverlayLine describes one scene in the debug overlay.
type OverlayLine struct {
	Index  int
	Start  int
	End    int
	Text   string
	Active bool
}

func (l OverlayLine) String() string {
	return fmt.Sprintf("[%d] %d-%d: %s", l.Index, l.Start, l.End, l.Text)
}

// DebugOverlay lists the current frame and every scene range.
type DebugOverlay struct {
	Frame       int
	TotalFrames int
	Lines       []OverlayLine
}

// Overlay builds the debug overlay for frame. It is informational only.
func Overlay(frame int, cfg RenderConfig, scenes []director.Scene, ranges []FrameRange) DebugOverlay {
	o := DebugOverlay{Frame: frame, TotalFrames: cfg.TotalFrames}
	for i, r := range ranges {
		line := OverlayLine{Index: i, Start: r.Start, End: r.End, Active: r.Contains(frame)}
		if i < len(scenes) {
			line.Text = scenes[i].Text
		}
		o.Lines = append(o.Lines, line)
	}
	return o
}

// Header returns the "frame: N / T" line.
func (o DebugOverlay) Header() string {
	return fmt.Sprintf("frame: %d / %d", o.Frame, o.TotalFrames)
}

// String renders the overlay as text, marking active scenes with '>'.
func (o DebugOverlay) String() string {
	var b strings.Builder
	b.WriteString(o.Header())
	for _, l := range o.Lines {
		b.WriteByte('\n')
		if l.Active {
			b.WriteString("> ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(l.String())
	}
	return b.String()
}
