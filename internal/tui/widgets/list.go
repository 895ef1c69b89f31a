package widgets

import "strings"

// List renders Items with a cursor marker. The view scrolls to keep Cursor
// visible.
type List struct {
	Items  []string
	Cursor int
	Empty  string
}

func (l List) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(l.Items) == 0 {
		return clip(l.Empty, width, height)
	}
	start := 0
	if l.Cursor >= height {
		start = l.Cursor - height + 1
	}
	end := min(len(l.Items), start+height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		marker := "  "
		if i == l.Cursor {
			marker = "▶ "
		}
		rows = append(rows, marker+l.Items[i])
	}
	return clip(strings.Join(rows, "\n"), width, height)
}
