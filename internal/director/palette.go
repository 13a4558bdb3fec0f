package director

import "github.com/vinubadlani/Video-Gen/internal/effects"

// Palette is the color set of one scene.
type Palette struct {
	Background string
	TextColor  string
	Accent     string
}

// TitleCard is always used for the first scene.
var TitleCard = Palette{Background: "#FFFFFF", TextColor: "#000000", Accent: "#000000"}

var palettes = map[effects.Preset][]Palette{
	effects.Minimal: {
		{"#FFFFFF", "#000000", "#000000"},
		{"#F5F5F5", "#111111", "#333333"},
	},
	effects.Energetic: {
		{"#FF2D00", "#FFFFFF", "#FFE600"},
		{"#00C853", "#000000", "#FFFFFF"},
		{"#FFE600", "#000000", "#FF2D00"},
		{"#7B00FF", "#FFFFFF", "#00FFE5"},
		{"#0066FF", "#FFFFFF", "#FFE600"},
	},
	effects.Dramatic: {
		{"#000000", "#FFFFFF", "#FFFFFF"},
		{"#0A0A0A", "#FFFFFF", "#FF2D00"},
		{"#0D0D0D", "#FFFFFF", "#FFE600"},
		{"#1A0533", "#FFFFFF", "#FF2EF7"},
	},
}

func pool(p effects.Preset) []Palette {
	if pal, ok := palettes[p]; ok {
		return pal
	}
	return palettes[effects.FallbackPreset]
}

// PaletteIndex picks a palette from the preset's pool by scene position alone,
// so the same script always gets the same colors.
func PaletteIndex(sceneOrdinal int, preset effects.Preset) int {
	if sceneOrdinal < 0 {
		sceneOrdinal = -sceneOrdinal
	}
	return sceneOrdinal % len(pool(preset))
}

// PaletteFor returns the colors of the scene at sceneOrdinal.
func PaletteFor(sceneOrdinal int, preset effects.Preset) Palette {
	if sceneOrdinal == 0 {
		return TitleCard
	}
	return pool(preset)[PaletteIndex(sceneOrdinal, preset)]
}
