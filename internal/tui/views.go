package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/tui/widgets"
)

func (a *App) renderTabs() string {
	parts := make([]string, 0, len(a.tabs.Keys()))
	for i, k := range a.tabs.Keys() {
		label := fmt.Sprintf("%d %s", i+1, tabTitles[k])
		if k == TabNotifications && a.summary.Unread > 0 {
			label += fmt.Sprintf(" (%d)", a.summary.Unread)
		}
		if k == a.tabs.Active() {
			parts = append(parts, tabActive.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) dateFormat() string {
	if a.cfg.UI.DateFormat != "" {
		return a.cfg.UI.DateFormat
	}
	return "2006-01-02"
}

// bodySize is the area left for a tab body once tabs and footer are drawn.
func (a *App) bodySize() (int, int) {
	w, h := a.width, a.height-6
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 16
	}
	return w, h
}

func (a *App) renderDashboard() string {
	s := a.summary
	var b strings.Builder
	name := "there"
	if s.Profile != nil {
		name = s.Profile.DisplayName
	}
	fmt.Fprintf(&b, "Hi %s.\n\n", name)
	fmt.Fprintf(&b, "Check-in streak: %d day(s)\n", s.Streak)
	fmt.Fprintf(&b, "Active goals: %d\n", len(s.ActiveGoals))
	fmt.Fprintf(&b, "Unread notifications: %d\n", s.Unread)
	if len(s.Upcoming) > 0 {
		next := s.Upcoming[0]
		fmt.Fprintf(&b, "\nNext session:\n%s with %s\n%d min, %s\n",
			next.StartsAt.In(a.tz).Format(a.dateFormat()+" 15:04"), next.Therapist, next.DurationMinutes, modalityLabel(next.Modality))
	} else {
		b.WriteString("\nNo sessions booked. Press b to book one.\n")
	}
	if len(s.RecentMoods) == 0 {
		b.WriteString("\nNo check-ins yet. Press m to log how you feel.\n")
	}

	bars := make([]widgets.Bar, 0, len(s.Weeks))
	for _, w := range s.Weeks {
		bars = append(bars, widgets.Bar{Label: w.Start.Format("Jan 02"), Value: w.Average, Count: w.Count})
	}
	width, height := a.bodySize()
	return widgets.HStack{
		Widgets: []widgets.Widget{
			widgets.Box{Title: "Today", Content: widgets.Text(b.String()), Focused: true},
			widgets.Box{Title: "Mood by week", Content: widgets.BarChart{Bars: bars, Max: 10}},
		},
		Ratios: []float64{2, 3},
		Gap:    1,
	}.Render(width, min(height, 16))
}

func (a *App) renderGoals() string {
	items := make([]string, 0, len(a.goals))
	for _, g := range a.goals {
		line := fmt.Sprintf("%-30s %3d/%-3d %-10s %s", truncate(g.Title, 30), g.Progress, g.TargetCount, g.Category, g.Status)
		if g.TargetDate != nil {
			line += "  due " + g.TargetDate.In(a.tz).Format(a.dateFormat())
		}
		items = append(items, line)
	}
	return a.renderList("Goals", items, TabGoals, "No goals yet. Press n to add one.")
}

func (a *App) renderMood() string {
	items := make([]string, 0, len(a.moods))
	for _, m := range a.moods {
		line := fmt.Sprintf("%s  %2d/10", m.RecordedAt.In(a.tz).Format(a.dateFormat()+" 15:04"), m.Score)
		if m.Energy != nil {
			line += fmt.Sprintf("  energy %d/5", *m.Energy)
		}
		if len(m.Tags) > 0 {
			line += "  #" + strings.Join(m.Tags, " #")
		}
		if m.Note != "" {
			line += "  " + truncate(m.Note, 40)
		}
		items = append(items, line)
	}
	return a.renderList("Mood, last 30 days", items, TabMood, "No check-ins in the last 30 days. Press n to check in.")
}

func (a *App) renderSessions() string {
	items := make([]string, 0, len(a.sessions))
	for _, s := range a.sessions {
		line := fmt.Sprintf("%s  %-20s %3d min  %s", s.StartsAt.In(a.tz).Format(a.dateFormat()+" 15:04"), truncate(s.Therapist, 20), s.DurationMinutes, modalityLabel(s.Modality))
		if s.Notes != "" {
			line += "  " + truncate(s.Notes, 30)
		}
		items = append(items, line)
	}
	return a.renderList("Upcoming sessions", items, TabSessions, "Nothing booked. Press n to book a session.")
}

func (a *App) renderNotifications() string {
	items := make([]string, 0, len(a.notes))
	for _, n := range a.notes {
		marker := "  "
		if n.ReadAt == nil {
			marker = "• "
		}
		line := marker + n.Title
		if n.Body != "" {
			line += mutedStyle.Render("  " + n.Body)
		}
		items = append(items, line)
	}
	return a.renderList("Notifications", items, TabNotifications, "You're all caught up.")
}

func (a *App) renderList(title string, items []string, tab, empty string) string {
	width, height := a.bodySize()
	list := widgets.List{Items: items, Cursor: a.cursor[tab], Empty: empty}
	return titleStyle.Render(title) + "\n" + list.Render(width, max(1, height-2))
}

func (a *App) renderSettings() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n")
	if p := a.summary.Profile; p != nil {
		fmt.Fprintf(&b, "Name: %s\n", p.DisplayName)
		if p.Pronouns != "" {
			fmt.Fprintf(&b, "Pronouns: %s\n", p.Pronouns)
		}
		fmt.Fprintf(&b, "Focus areas: %s\n", strings.Join(p.FocusAreas, ", "))
		fmt.Fprintf(&b, "Sessions: %s\n", p.SessionFrequency)
		if p.ReminderTime != "" {
			fmt.Fprintf(&b, "Daily reminder: %s\n", p.ReminderTime)
		}
	} else {
		b.WriteString("Not set up yet. Press o to start.\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Database: %s\n", a.cfg.Database.Path)
	fmt.Fprintf(&b, "Timezone: %s\n", a.tz)
	weeks := a.cfg.UI.MoodWeeks
	if weeks <= 0 {
		weeks = 6
	}
	fmt.Fprintf(&b, "Mood chart: %d weeks\n", weeks)
	if a.cfg.Log.File != "" {
		fmt.Fprintf(&b, "Log file: %s\n", a.cfg.Log.File)
	}
	b.WriteString("\n[o] Edit profile  [w] Chart weeks  [R] Reset all data")
	return b.String()
}

func modalityLabel(m string) string {
	switch m {
	case repository.ModalityInPerson:
		return "in person"
	case repository.ModalityPhone:
		return "phone"
	default:
		return "video"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
