package director

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/vinubadlani/Video-Gen/internal/effects"
)

var listMarker = regexp.MustCompile(`^[-–•*\d.)\s]+`)

// defaultPresetCycle assigns presets to lines by position.
var defaultPresetCycle = []effects.Preset{
	effects.Dramatic, effects.Minimal, effects.Energetic,
	effects.Dramatic, effects.Minimal, effects.Energetic,
	effects.Dramatic, effects.Dramatic, effects.Energetic,
	effects.Minimal, effects.Dramatic, effects.Energetic,
	effects.Minimal,
}

// Director turns generated script text into an ordered scene list
type Director struct {
	MinLines    int // Fewer usable lines is an error
	MaxLines    int // Extra lines are dropped
	MaxLineLen  int // Lines this long (in runes) or longer are dropped
	PresetCycle []effects.Preset
}

// NewDirector creates a new Director with default settings
func NewDirector() *Director {
	return &Director{
		MinLines:    2,
		MaxLines:    13,
		MaxLineLen:  80,
		PresetCycle: defaultPresetCycle,
	}
}

// GenerateScript builds a script from raw line-per-scene text
func (d *Director) GenerateScript(topic, raw string) (*Script, error) {
	lines := d.CleanLines(raw)
	scenes, err := d.BuildScenes(lines)
	if err != nil {
		return nil, err
	}

	return &Script{
		Version: "1.0",
		Topic:   topic,
		Scenes:  scenes,
	}, nil
}

// CleanLines strips list markers and drops blank or overlong lines
func (d *Director) CleanLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" || utf8.RuneCountInString(line) >= d.MaxLineLen {
			continue
		}
		lines = append(lines, line)
		if len(lines) == d.MaxLines {
			break
		}
	}
	return lines
}

// BuildScenes assigns weight, preset and colors to each line.
// The first and last lines are the title and call to action.
func (d *Director) BuildScenes(lines []string) ([]Scene, error) {
	if len(lines) < d.MinLines {
		return nil, errors.Errorf("too few script lines (%d), need at least %d", len(lines), d.MinLines)
	}

	cycle := d.PresetCycle
	if len(cycle) == 0 {
		cycle = defaultPresetCycle
	}

	last := len(lines) - 1
	scenes := make([]Scene, len(lines))
	for i, text := range lines {
		preset := cycle[i%len(cycle)]
		pal := PaletteFor(i, preset)
		scenes[i] = Scene{
			Index:      i,
			Text:       text,
			Weight:     sceneWeight(i, last),
			Preset:     preset,
			Background: pal.Background,
			TextColor:  pal.TextColor,
			Accent:     pal.Accent,
		}
	}
	return scenes, nil
}

// sceneWeight gives titles and calls to action the longest share and
// alternates the body lines between normal and short.
func sceneWeight(i, last int) int {
	switch {
	case i == 0 || i == last:
		return 3
	case i <= 2:
		return 2
	case i%2 == 0:
		return 2
	default:
		return 1
	}
}
