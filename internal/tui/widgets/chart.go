package widgets

import (
	"fmt"
	"strings"
)

// Bar is one row of a BarChart. A bar with Count zero is drawn as empty.
type Bar struct {
	Label string
	Value float64
	Count int
}

// BarChart draws horizontal bars scaled against Max.
type BarChart struct {
	Bars []Bar
	Max  float64
	Fill string
}

func (c BarChart) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(c.Bars) == 0 {
		return "(no data)"
	}
	maxV := c.Max
	if maxV <= 0 {
		for _, b := range c.Bars {
			maxV = maxf(maxV, b.Value)
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	fill := c.Fill
	if fill == "" {
		fill = "█"
	}
	labelW := 0
	for _, b := range c.Bars {
		labelW = max(labelW, len([]rune(b.Label)))
	}
	// label, space, bar, space, "10.0 (99)"
	barW := max(1, width-labelW-11)

	bars := c.Bars
	if len(bars) > height {
		bars = bars[len(bars)-height:]
	}
	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		if b.Count == 0 {
			lines = append(lines, fmt.Sprintf("%-*s %s", labelW, b.Label, strings.Repeat("·", 1)))
			continue
		}
		n := int(b.Value / maxV * float64(barW))
		n = max(1, min(n, barW))
		lines = append(lines, fmt.Sprintf("%-*s %s %.1f (%d)", labelW, b.Label, strings.Repeat(fill, n), b.Value, b.Count))
	}
	return clip(strings.Join(lines, "\n"), width, height)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
