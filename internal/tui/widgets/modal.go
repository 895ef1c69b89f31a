package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var popupStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("212")).
	Padding(1, 2)

// RenderPopup draws popup in a bordered card centred over base. Base lines to the
// left and right of the card stay visible.
func RenderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	card := strings.Split(popupStyle.Render(popup), "\n")
	cardW := 0
	for _, l := range card {
		cardW = max(cardW, ansi.StringWidth(l))
	}
	cardW = min(cardW, width)
	if len(card) > height {
		card = card[:height]
	}
	top := (height - len(card)) / 2
	left := (width - cardW) / 2

	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i, c := range card {
		row := pad(lines[top+i], width)
		head := ansi.Truncate(row, left, "")
		tail := ansi.TruncateLeft(row, left+cardW, "")
		lines[top+i] = head + pad(c, cardW) + tail
	}
	return strings.Join(lines, "\n")
}
