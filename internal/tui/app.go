package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/haven/internal/config"
	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/service"
	"github.com/jask/haven/internal/tui/widgets"
	"github.com/jask/haven/internal/wizard"
)

// Dashboard tabs in display order.
const (
	TabDashboard     = "dashboard"
	TabGoals         = "goals"
	TabMood          = "mood"
	TabSessions      = "sessions"
	TabNotifications = "notifications"
	TabSettings      = "settings"
)

var tabTitles = map[string]string{
	TabDashboard:     "Dashboard",
	TabGoals:         "Goals",
	TabMood:          "Mood",
	TabSessions:      "Sessions",
	TabNotifications: "Notifications",
	TabSettings:      "Settings",
}

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	flows    Flows
	log      *zap.Logger
	tz       *time.Location

	tabs    *wizard.Tabs
	cursor  map[string]int
	keys    keyMap
	help    help.Model
	form    *form
	modal   modalState
	status  string
	width   int
	height  int
	loaded  bool
	greeted bool

	// formSeq numbers opened forms; cursorMode styles their text cursor.
	formSeq    int
	cursorMode cursor.Mode

	summary  service.Summary
	goals    []repository.Goal
	moods    []repository.MoodEntry
	sessions []repository.Session
	notes    []repository.Notification
}

// Services used by the views.
type Services struct {
	Insights      *service.InsightService
	Goals         *service.GoalService
	Moods         *service.MoodService
	Sessions      *service.SessionService
	Notifications *service.NotificationService
	Maintenance   *service.MaintenanceService

	// SaveConfig persists settings changed from the settings tab. Nil keeps
	// them for this run only.
	SaveConfig func(config.Config) error
}

// Flows build fresh wizards for the form overlay.
type Flows struct {
	Onboarding func() (wizard.Controller, error)
	Goal       func() (wizard.Controller, error)
	CheckIn    func() (wizard.Controller, error)
	Booking    func() (wizard.Controller, error)
}

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmReset modalState = "confirmReset"
)

type (
	dataMsg struct {
		summary  service.Summary
		goals    []repository.Goal
		moods    []repository.MoodEntry
		sessions []repository.Session
		notes    []repository.Notification
		status   string
	}
	statusMsg string
	errMsg    struct{ error }
)

func New(ctx context.Context, cfg config.Config, services Services, flows Flows, tz *time.Location, log *zap.Logger) *App {
	if tz == nil {
		tz = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		services: services,
		flows:    flows,
		log:      log,
		tz:       tz,
		tabs:     wizard.NewTabs(TabDashboard, TabGoals, TabMood, TabSessions, TabNotifications, TabSettings),
		cursor:   map[string]int{},
		keys:     defaultKeyMap(),
		help:     help.New(),

		cursorMode: cursor.CursorBlink,
	}
}

// SelectTab activates key when it names a tab.
func (a *App) SelectTab(key string) bool { return a.tabs.Select(key) }

// ActiveTab is the tab to remember for the next run.
func (a *App) ActiveTab() string { return a.tabs.Active() }

func (a *App) Init() tea.Cmd {
	return a.load("")
}

func (a *App) load(status string) tea.Cmd {
	weeks := a.cfg.UI.MoodWeeks
	return func() tea.Msg { return a.reloaded(status, weeks) }
}

// mutate runs fn and reloads everything so the views reflect the change.
func (a *App) mutate(status string, fn func(ctx context.Context) error) tea.Cmd {
	weeks := a.cfg.UI.MoodWeeks
	return func() tea.Msg {
		if err := fn(a.ctx); err != nil {
			return errMsg{err}
		}
		return a.reloaded(status, weeks)
	}
}

func (a *App) reloaded(status string, weeks int) tea.Msg {
	msg, err := a.fetch(weeks)
	if err != nil {
		return errMsg{err}
	}
	msg.status = status
	return msg
}

func (a *App) fetch(weeks int) (dataMsg, error) {
	s := a.services
	if s.Insights == nil || s.Goals == nil || s.Moods == nil || s.Sessions == nil || s.Notifications == nil {
		return dataMsg{}, errors.New("tui: services not configured")
	}
	var msg dataMsg
	var err error
	if msg.summary, err = s.Insights.SummaryWeeks(a.ctx, weeks); err != nil {
		return msg, fmt.Errorf("summary: %w", err)
	}
	if msg.goals, err = s.Goals.List(a.ctx, repository.GoalFilters{}); err != nil {
		return msg, fmt.Errorf("goals: %w", err)
	}
	if msg.moods, err = s.Moods.Since(a.ctx, time.Now().AddDate(0, 0, -30)); err != nil {
		return msg, fmt.Errorf("moods: %w", err)
	}
	if msg.sessions, err = s.Sessions.Upcoming(a.ctx); err != nil {
		return msg, fmt.Errorf("sessions: %w", err)
	}
	if msg.notes, err = s.Notifications.List(a.ctx, false); err != nil {
		return msg, fmt.Errorf("notifications: %w", err)
	}
	return msg, nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil
	case dataMsg:
		a.apply(m)
		if !a.greeted && m.summary.Profile == nil && a.form == nil {
			a.greeted = true
			return a, a.openFlow("onboarding", a.flows.Onboarding)
		}
		return a, nil
	case statusMsg:
		a.status = string(m)
		return a, nil
	case errMsg:
		a.log.Warn("tui action failed", zap.Error(m.error))
		a.status = "error: " + m.Error()
		return a, nil
	case formClosedMsg:
		if m.submitted {
			a.log.Info("form submitted", zap.String("wizard", m.name))
			return a, a.load(m.name + " saved")
		}
		return a, func() tea.Msg { return statusMsg(m.name + " closed") }
	case submitDoneMsg:
		if a.form == nil {
			return a, nil
		}
	case tea.KeyMsg:
		if key.Matches(m, a.keys.ForceQuit) {
			return a.quit()
		}
		if a.form == nil && a.modal == modalNone {
			return a.handleKey(m)
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
	}
	if a.form != nil {
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) apply(m dataMsg) {
	a.loaded = true
	a.summary = m.summary
	a.goals = m.goals
	a.moods = m.moods
	a.sessions = m.sessions
	a.notes = m.notes
	if m.status != "" {
		a.status = m.status
	}
	a.clampCursors()
}

func (a *App) clampCursors() {
	for tab, n := range map[string]int{
		TabGoals:         len(a.goals),
		TabMood:          len(a.moods),
		TabSessions:      len(a.sessions),
		TabNotifications: len(a.notes),
	} {
		if a.cursor[tab] >= n {
			a.cursor[tab] = max(0, n-1)
		}
	}
}

// quit closes the form first so an in-flight submit is cancelled.
func (a *App) quit() (tea.Model, tea.Cmd) {
	if a.form != nil {
		a.form.close()
		a.form = nil
	}
	return a, tea.Quit
}

func (a *App) openFlow(name string, build func() (wizard.Controller, error)) tea.Cmd {
	if build == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("%s flow not configured", name)} }
	}
	ctl, err := build()
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	a.formSeq++
	a.form = newForm(a.ctx, ctl, a.formSeq, a.cursorMode)
	a.status = ""
	return a.form.focusInput()
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	tab := a.tabs.Active()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a.quit()
	case key.Matches(m, a.keys.NextTab):
		a.tabs.Next()
		a.status = ""
		return a, nil
	case key.Matches(m, a.keys.PrevTab):
		a.tabs.Prev()
		a.status = ""
		return a, nil
	case key.Matches(m, a.keys.Jump):
		keys := a.tabs.Keys()
		if idx := int(m.String()[0] - '1'); idx >= 0 && idx < len(keys) {
			a.tabs.Select(keys[idx])
		}
		return a, nil
	case key.Matches(m, a.keys.Up):
		if a.cursor[tab] > 0 {
			a.cursor[tab]--
		}
		return a, nil
	case key.Matches(m, a.keys.Down):
		if a.cursor[tab] < a.listLen(tab)-1 {
			a.cursor[tab]++
		}
		return a, nil
	case key.Matches(m, a.keys.CheckIn):
		return a, a.openFlow("checkin", a.flows.CheckIn)
	case key.Matches(m, a.keys.Book):
		return a, a.openFlow("booking", a.flows.Booking)
	case key.Matches(m, a.keys.Refresh):
		return a, a.load("refreshed")
	}

	switch tab {
	case TabDashboard, TabMood:
		if key.Matches(m, a.keys.New) {
			return a, a.openFlow("checkin", a.flows.CheckIn)
		}
	case TabGoals:
		return a, a.goalKey(m)
	case TabSessions:
		if key.Matches(m, a.keys.New) {
			return a, a.openFlow("booking", a.flows.Booking)
		}
		if key.Matches(m, a.keys.CancelSession) && len(a.sessions) > 0 {
			sess := a.sessions[a.cursor[tab]]
			return a, a.mutate("session cancelled", func(ctx context.Context) error {
				return a.services.Sessions.Cancel(ctx, sess.ID)
			})
		}
	case TabNotifications:
		if key.Matches(m, a.keys.Read) && len(a.notes) > 0 {
			n := a.notes[a.cursor[tab]]
			return a, a.mutate("marked read", func(ctx context.Context) error {
				return a.services.Notifications.MarkRead(ctx, n.ID)
			})
		}
		if key.Matches(m, a.keys.ReadAll) {
			weeks := a.cfg.UI.MoodWeeks
			return a, func() tea.Msg {
				n, err := a.services.Notifications.MarkAllRead(a.ctx)
				if err != nil {
					return errMsg{err}
				}
				return a.reloaded(fmt.Sprintf("%d marked read", n), weeks)
			}
		}
	case TabSettings:
		if key.Matches(m, a.keys.Onboard) {
			return a, a.openFlow("onboarding", a.flows.Onboarding)
		}
		if key.Matches(m, a.keys.Reset) {
			a.modal = modalConfirmReset
		}
		if key.Matches(m, a.keys.MoodWeeks) {
			return a, a.cycleMoodWeeks()
		}
	}
	return a, nil
}

func (a *App) goalKey(m tea.KeyMsg) tea.Cmd {
	if key.Matches(m, a.keys.New) {
		return a.openFlow("goal", a.flows.Goal)
	}
	if len(a.goals) == 0 {
		return nil
	}
	g := a.goals[a.cursor[TabGoals]]
	switch {
	case key.Matches(m, a.keys.Plus):
		return a.mutate("progress updated", func(ctx context.Context) error {
			_, err := a.services.Goals.Progress(ctx, g.ID, 1)
			return err
		})
	case key.Matches(m, a.keys.Minus):
		return a.mutate("progress updated", func(ctx context.Context) error {
			_, err := a.services.Goals.Progress(ctx, g.ID, -1)
			return err
		})
	case key.Matches(m, a.keys.Complete):
		return a.mutate("goal completed", func(ctx context.Context) error {
			return a.services.Goals.Complete(ctx, g.ID)
		})
	case key.Matches(m, a.keys.Archive):
		return a.mutate("goal archived", func(ctx context.Context) error {
			return a.services.Goals.Archive(ctx, g.ID)
		})
	}
	return nil
}

// moodWeekChoices are the chart lengths offered on the settings tab.
var moodWeekChoices = []int{4, 6, 8, 12}

// cycleMoodWeeks switches the dashboard chart to the next length and saves it.
func (a *App) cycleMoodWeeks() tea.Cmd {
	cur := a.cfg.UI.MoodWeeks
	if cur <= 0 {
		cur = 6
	}
	next := moodWeekChoices[0]
	for i, w := range moodWeekChoices {
		if w == cur {
			next = moodWeekChoices[(i+1)%len(moodWeekChoices)]
			break
		}
	}
	a.cfg.UI.MoodWeeks = next
	cfg, save := a.cfg, a.services.SaveConfig
	return func() tea.Msg {
		if save != nil {
			if err := save(cfg); err != nil {
				return errMsg{fmt.Errorf("save settings: %w", err)}
			}
		}
		return a.reloaded(fmt.Sprintf("mood chart: %d weeks", next), next)
	}
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			if a.services.Maintenance == nil {
				return a, func() tea.Msg { return errMsg{errors.New("maintenance not configured")} }
			}
			a.cursor = map[string]int{}
			a.greeted = false
			return a, a.mutate("all data cleared", a.services.Maintenance.Reset)
		case "n", "N", "esc":
			a.modal = modalNone
		}
	}
	return a, nil
}

func (a *App) listLen(tab string) int {
	switch tab {
	case TabGoals:
		return len(a.goals)
	case TabMood:
		return len(a.moods)
	case TabSessions:
		return len(a.sessions)
	case TabNotifications:
		return len(a.notes)
	}
	return 0
}

func (a *App) View() string {
	base := a.renderTabs() + "\n\n" + a.renderBody() + "\n\n" + a.renderFooter()
	switch {
	case a.form != nil:
		if a.width > 0 && a.height > 0 {
			return widgets.RenderPopup(base, a.form.View(), a.width, a.height)
		}
		return base + "\n\n" + a.form.View()
	case a.modal == modalConfirmReset:
		popup := titleStyle.Render("Reset all data?") + "\nGoals, check-ins, sessions and notifications will be deleted.\n[y] Yes  [n] No"
		if a.width > 0 && a.height > 0 {
			return widgets.RenderPopup(base, popup, a.width, a.height)
		}
		return base + "\n\n" + popup
	}
	return base
}

func (a *App) renderBody() string {
	if !a.loaded {
		return "loading..."
	}
	switch a.tabs.Active() {
	case TabGoals:
		return a.renderGoals()
	case TabMood:
		return a.renderMood()
	case TabSessions:
		return a.renderSessions()
	case TabNotifications:
		return a.renderNotifications()
	case TabSettings:
		return a.renderSettings()
	default:
		return a.renderDashboard()
	}
}

func (a *App) renderFooter() string {
	out := a.help.ShortHelpView(a.keys.forTab(a.tabs.Active()))
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}
