package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/scope/internal/render"
	"github.com/olivier-w/scope/internal/scope"
)

func renderProgressBar(elapsed, total time.Duration, width int) string {
	width = max(width, 10)
	var ratio float64
	if total > 0 {
		ratio = max(0, min(float64(elapsed)/float64(total), 1))
	}
	filled := int(ratio * float64(width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

// renderLegend lists dataset names in their own colours, skipping reference
// lines.
func renderLegend(datasets []scope.Dataset) string {
	var parts []string
	for _, ds := range datasets {
		if ds.Name == "" || ds.Name == scope.ReferenceName {
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(render.Resolve(ds.Color)).Render("■ "+ds.Name))
	}
	return strings.Join(parts, " ")
}

// fit pads or truncates s to exactly width cells.
func fit(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
