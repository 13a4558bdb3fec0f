package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vinubadlani/Video-Gen/internal/timeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// renderTimelineTable lists every scene with its frame range and share.
func renderTimelineTable(tl *timeline.Timeline) string {
	cfg := tl.Config()
	scenes := tl.Scenes()
	ranges := tl.Ranges()

	rows := make([][]string, 0, len(ranges))
	for i, r := range ranges {
		sc := scenes[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d-%d", r.Start, r.End),
			fmt.Sprintf("%d", r.Duration),
			fmt.Sprintf("%.2fs", float64(r.Duration)/float64(cfg.FPS)),
			fmt.Sprintf("%d", sc.EffectiveWeight()),
			sc.Preset.String(),
			truncate(sc.Text, 40),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "FRAMES", "LEN", "TIME", "W", "PRESET", "TEXT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d frames @ %d fps", cfg.TotalFrames, cfg.FPS)))
	b.WriteByte('\n')
	b.WriteString(t.Render())
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render(fmt.Sprintf("intro %d, fade %d, outro %d frames",
		cfg.IntroDelayFrames, cfg.FadeFrames, cfg.OutroFrames)))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
