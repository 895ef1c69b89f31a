package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	NextTab       key.Binding
	PrevTab       key.Binding
	Jump          key.Binding
	Up            key.Binding
	Down          key.Binding
	Refresh       key.Binding
	New           key.Binding
	CheckIn       key.Binding
	Book          key.Binding
	Plus          key.Binding
	Minus         key.Binding
	Complete      key.Binding
	Archive       key.Binding
	CancelSession key.Binding
	Read          key.Binding
	ReadAll       key.Binding
	Onboard       key.Binding
	Reset         key.Binding
	MoodWeeks     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
		NextTab:       key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:       key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		Jump:          key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:           key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		CheckIn:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "check in")),
		Book:          key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "book session")),
		Plus:          key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "progress")),
		Minus:         key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "undo progress")),
		Complete:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Archive:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		CancelSession: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel session")),
		Read:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "mark read")),
		ReadAll:       key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "mark all read")),
		Onboard:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "edit profile")),
		Reset:         key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset data")),
		MoodWeeks:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "chart weeks")),
	}
}

// forTab lists the bindings shown in the footer.
func (k keyMap) forTab(tab string) []key.Binding {
	common := []key.Binding{k.NextTab, k.CheckIn, k.Book, k.Quit}
	switch tab {
	case TabGoals:
		return append([]key.Binding{k.New, k.Plus, k.Minus, k.Complete, k.Archive}, common...)
	case TabSessions:
		return append([]key.Binding{k.New, k.CancelSession}, common...)
	case TabNotifications:
		return append([]key.Binding{k.Read, k.ReadAll}, common...)
	case TabSettings:
		return append([]key.Binding{k.Onboard, k.MoodWeeks, k.Reset}, common...)
	}
	return append([]key.Binding{k.New, k.Refresh}, common...)
}
