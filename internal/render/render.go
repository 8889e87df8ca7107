// Package render draws scope datasets onto a terminal canvas.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/scope/internal/scope"
)

// Canvas is the terminal area available to the graph, axes included.
type Canvas struct {
	Width   int
	Height  int
	Braille bool
}

// Render draws datasets framed by the two axes. The first dataset to touch a
// cell decides its colour.
func (c Canvas) Render(datasets []scope.Dataset, x, y scope.Axis) string {
	labelW := 0
	for _, l := range y.Labels {
		labelW = max(labelW, lipgloss.Width(l))
	}

	cols := c.Width - labelW - 2
	rows := c.Height - 2
	if cols < 2 || rows < 1 {
		return ""
	}

	g := newGrid(cols, rows, c.Braille)
	for i, ds := range datasets {
		g.plot(i, ds, x.Bounds, y.Bounds)
	}
	plot := g.lines(datasets)

	axis := styleFor(y.Color)
	label := styleFor(y.LabelColor)
	yLabels := spread(y.Labels, rows)

	var b strings.Builder
	for r, line := range plot {
		l := yLabels[rows-1-r]
		b.WriteString(label.Render(padLeft(l, labelW)))
		if l != "" {
			b.WriteString(axis.Render(" ┤"))
		} else {
			b.WriteString(axis.Render(" │"))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", labelW+1))
	b.WriteString(styleFor(x.Color).Render("└" + strings.Repeat("─", cols)))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", labelW+2))
	b.WriteString(styleFor(x.LabelColor).Render(labelRow(x.Labels, cols)))
	return b.String()
}

// spread places labels evenly over n slots, first label in slot 0 and last
// label in slot n-1.
func spread(labels []string, n int) []string {
	out := make([]string, n)
	switch {
	case len(labels) == 0:
	case len(labels) == 1 || n == 1:
		out[0] = labels[0]
	default:
		for i, l := range labels {
			out[i*(n-1)/(len(labels)-1)] = l
		}
	}
	return out
}

// labelRow lays labels out along a row of width cells: the first flush left,
// the last flush right, the rest centred on their slot.
func labelRow(labels []string, width int) string {
	row := []rune(strings.Repeat(" ", width))
	for i, l := range labels {
		r := []rune(l)
		var at int
		switch {
		case len(labels) == 1 || i == 0:
			at = 0
		case i == len(labels)-1:
			at = width - len(r)
		default:
			at = i*(width-1)/(len(labels)-1) - len(r)/2
		}
		for j, ch := range r {
			if k := at + j; k >= 0 && k < width {
				row[k] = ch
			}
		}
	}
	return strings.TrimRight(string(row), " ")
}

func padLeft(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}
