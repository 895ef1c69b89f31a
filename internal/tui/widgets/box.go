package widgets

import "github.com/charmbracelet/lipgloss"

var (
	boxBorder        = lipgloss.RoundedBorder()
	boxFocusedColour = lipgloss.Color("212")
	boxMutedColour   = lipgloss.Color("240")
)

// Box draws a titled pane around Content.
type Box struct {
	Title   string
	Content Widget
	Focused bool
}

func (b Box) Render(width, height int) string {
	if width <= 2 || height <= 2 {
		return ""
	}
	colour := boxMutedColour
	if b.Focused {
		colour = boxFocusedColour
	}
	innerW, innerH := width-4, height-2
	body := ""
	if b.Content != nil {
		body = b.Content.Render(innerW, max(1, innerH-1))
	}
	style := lipgloss.NewStyle().
		Border(boxBorder).
		BorderForeground(colour).
		Padding(0, 1).
		Width(width - 2).
		Height(max(1, innerH))
	title := lipgloss.NewStyle().Bold(true).Foreground(colour).Render(b.Title)
	return style.Render(title + "\n" + body)
}
