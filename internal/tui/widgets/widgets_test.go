package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestSplitDistributesRemainder(t *testing.T) {
	require.Equal(t, []int{4, 3, 3}, split(10, 3, nil))
	require.Equal(t, []int{7, 3}, split(10, 2, []float64{2, 1}))
	require.Equal(t, []int{5, 5}, split(10, 2, []float64{0, -1}))
	require.Empty(t, split(10, 0, nil))
}

func TestHStackPadsColumns(t *testing.T) {
	out := HStack{Widgets: []Widget{Text("ab\ncd"), Text("x")}, Gap: 1}.Render(9, 2)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "ab   x   ", lines[0])
	for _, l := range lines {
		require.Equal(t, 9, ansi.StringWidth(l))
	}
}

func TestBarChartEmptyWeeks(t *testing.T) {
	out := BarChart{Max: 10, Fill: "#", Bars: []Bar{
		{Label: "Apr 20", Value: 5, Count: 2},
		{Label: "Apr 27", Count: 0},
		{Label: "May 04", Value: 10, Count: 1},
	}}.Render(40, 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "5.0 (2)")
	require.NotContains(t, lines[1], "#")
	require.Greater(t, strings.Count(lines[2], "#"), strings.Count(lines[0], "#"))

	require.Equal(t, "(no data)", BarChart{}.Render(10, 3))
}

func TestListKeepsCursorVisible(t *testing.T) {
	l := List{Items: []string{"a", "b", "c", "d"}, Cursor: 3}
	out := l.Render(10, 2)
	require.Equal(t, "  c\n▶ d", out)
	require.Equal(t, "nothing", List{Empty: "nothing"}.Render(10, 2))
}

func TestRenderPopupCentres(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 30)+"\n", 9) + strings.Repeat(".", 30)
	out := RenderPopup(base, "hi", 30, 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	require.True(t, strings.HasPrefix(ansi.Strip(lines[0]), "..."))
	require.Contains(t, ansi.Strip(out), "hi")
}
