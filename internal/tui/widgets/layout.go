package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// HStack lays widgets out side by side. Ratios weight the column widths.
type HStack struct {
	Widgets []Widget
	Ratios  []float64
	Gap     int
}

func (h HStack) Render(width, height int) string {
	if len(h.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	usable := max(1, width-h.Gap*(len(h.Widgets)-1))
	widths := split(usable, len(h.Widgets), h.Ratios)
	cols := make([][]string, len(h.Widgets))
	rows := 0
	for i, w := range h.Widgets {
		cols[i] = strings.Split(w.Render(widths[i], height), "\n")
		rows = max(rows, len(cols[i]))
	}
	gap := strings.Repeat(" ", h.Gap)
	out := make([]string, rows)
	for r := range out {
		parts := make([]string, len(cols))
		for i, col := range cols {
			line := ""
			if r < len(col) {
				line = col[r]
			}
			parts[i] = pad(line, widths[i])
		}
		out[r] = strings.Join(parts, gap)
	}
	return strings.Join(out, "\n")
}

// VStack stacks widgets vertically, splitting the height evenly.
type VStack struct {
	Widgets []Widget
}

func (v VStack) Render(width, height int) string {
	if len(v.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	heights := split(height, len(v.Widgets), nil)
	parts := make([]string, 0, len(v.Widgets))
	for i, w := range v.Widgets {
		parts = append(parts, w.Render(width, heights[i]))
	}
	return strings.Join(parts, "\n")
}

// split divides total into n parts weighted by ratios. Missing or non-positive
// ratios count as 1. Remainders go to the leftmost parts.
func split(total, n int, ratios []float64) []int {
	out := make([]int, n)
	if n == 0 {
		return out
	}
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = 1
		if i < len(ratios) && ratios[i] > 0 {
			weights[i] = ratios[i]
		}
		sum += weights[i]
	}
	used := 0
	for i, w := range weights {
		out[i] = int(w / sum * float64(total))
		used += out[i]
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}
	return out
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func clip(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "…")
	}
	return strings.Join(lines, "\n")
}
