package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/haven/internal/wizard"
)

// submitDoneMsg reports the end of a dispatch. seq ties it to the form that
// started it; results for a closed form are dropped.
type submitDoneMsg struct {
	seq int
	err error
}

// formClosedMsg is sent when a form leaves the screen.
type formClosedMsg struct {
	name      string
	submitted bool
}

// form is the overlay that steps through a wizard.Controller.
type form struct {
	seq     int
	mode    cursor.Mode
	ctl     wizard.Controller
	parent  context.Context
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model
	hint    string
	err     string
	pending bool
	cancel  context.CancelFunc
	keys    formKeys
}

type formKeys struct {
	Next   key.Binding
	Back   key.Binding
	Field  key.Binding
	Prev   key.Binding
	Cancel key.Binding
}

func defaultFormKeys() formKeys {
	return formKeys{
		Next:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next / submit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back / close")),
		Field:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Cancel: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "close")),
	}
}

// newForm opens ctl. seq must differ from every earlier form of the app so late
// submit results can be matched.
func newForm(ctx context.Context, ctl wizard.Controller, seq int, mode cursor.Mode) *form {
	s := spinner.New()
	s.Spinner = spinner.Dot
	f := &form{
		seq:     seq,
		mode:    mode,
		ctl:     ctl,
		parent:  ctx,
		spinner: s,
		keys:    defaultFormKeys(),
	}
	f.loadStep()
	return f
}

// loadStep rebuilds the inputs from the controller's current step.
func (f *form) loadStep() {
	step := f.ctl.Step()
	f.inputs = f.inputs[:0]
	for _, field := range step.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		in.Cursor.SetMode(f.mode)
		in.Placeholder = field.Placeholder
		if in.Placeholder == "" && len(field.Options) > 0 {
			in.Placeholder = strings.Join(field.Options, " | ")
		}
		if field.Secret {
			in.EchoMode = textinput.EchoPassword
		}
		in.SetValue(f.ctl.Field(field.Name))
		f.inputs = append(f.inputs, in)
	}
	f.focus = 0
	f.focusInput()
}

func (f *form) focusInput() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// commit copies the visible inputs into the accumulator.
func (f *form) commit() {
	for i, field := range f.ctl.Step().Fields {
		if i < len(f.inputs) {
			f.ctl.SetField(field.Name, f.inputs[i].Value())
		}
	}
}

// busy reports whether a submit has been started and not yet reported back.
func (f *form) busy() bool { return f.pending || f.ctl.Submitting() }

// close cancels any in-flight submit.
func (f *form) close() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *form) Update(msg tea.Msg) (*form, tea.Cmd) {
	switch m := msg.(type) {
	case spinner.TickMsg:
		if !f.busy() {
			return f, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(m)
		return f, cmd
	case submitDoneMsg:
		if m.seq != f.seq {
			return f, nil
		}
		f.pending = false
		f.close()
		if m.err != nil {
			f.err = m.err.Error()
			f.hint = f.ctl.Blocked()
			if f.ctl.CanAdvance() {
				f.hint = ""
			}
			f.loadStep()
			return f, nil
		}
		name := f.ctl.Name()
		return nil, func() tea.Msg { return formClosedMsg{name: name, submitted: true} }
	case tea.KeyMsg:
		return f.handleKey(m)
	}
	return f, nil
}

func (f *form) handleKey(m tea.KeyMsg) (*form, tea.Cmd) {
	if f.busy() {
		if key.Matches(m, f.keys.Cancel) || key.Matches(m, f.keys.Back) {
			return f.closeForm()
		}
		return f, nil
	}
	switch {
	case key.Matches(m, f.keys.Cancel):
		return f.closeForm()
	case key.Matches(m, f.keys.Back):
		f.commit()
		if !f.ctl.Prev() {
			return f.closeForm()
		}
		f.hint, f.err = "", ""
		f.loadStep()
		return f, nil
	case key.Matches(m, f.keys.Field):
		if len(f.inputs) > 0 {
			f.focus = (f.focus + 1) % len(f.inputs)
		}
		return f, f.focusInput()
	case key.Matches(m, f.keys.Prev):
		if len(f.inputs) > 0 {
			f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
		}
		return f, f.focusInput()
	case key.Matches(m, f.keys.Next):
		f.commit()
		f.err = ""
		if !f.ctl.IsLast() {
			if !f.ctl.Next() {
				f.hint = f.ctl.Blocked()
				return f, nil
			}
			f.hint = ""
			f.loadStep()
			return f, f.focusInput()
		}
		if !f.ctl.CanAdvance() {
			f.hint = f.ctl.Blocked()
			return f, nil
		}
		f.hint = ""
		return f, f.submit()
	}
	if len(f.inputs) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(m)
	return f, cmd
}

func (f *form) submit() tea.Cmd {
	ctx, cancel := context.WithCancel(f.parent)
	f.cancel = cancel
	f.pending = true
	ctl, seq := f.ctl, f.seq
	return tea.Batch(
		func() tea.Msg { return submitDoneMsg{seq: seq, err: ctl.Dispatch(ctx)} },
		f.spinner.Tick,
	)
}

func (f *form) closeForm() (*form, tea.Cmd) {
	f.close()
	name := f.ctl.Name()
	return nil, func() tea.Msg { return formClosedMsg{name: name} }
}

func (f *form) View() string {
	step := f.ctl.Step()
	var b strings.Builder
	b.WriteString(titleStyle.Render(step.Title))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  step %d of %d", f.ctl.Current()+1, f.ctl.Total())))
	b.WriteString("\n")
	if step.Description != "" {
		b.WriteString(step.Description + "\n")
	}
	if f.ctl.IsLast() {
		if summary := f.summary(); summary != "" {
			b.WriteString("\n" + summary + "\n")
		}
	}
	for i, field := range step.Fields {
		label := field.Label
		if i == f.focus {
			label = activeStyle.Render(label)
		}
		b.WriteString("\n" + label + "\n> " + f.inputs[i].View() + "\n")
	}
	if f.hint != "" {
		b.WriteString("\n" + warnStyle.Render(f.hint) + "\n")
	}
	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render("Could not save: "+f.err) + "\n" + mutedStyle.Render("Press enter to try again.") + "\n")
	}
	if f.busy() {
		b.WriteString("\n" + f.spinner.View() + " saving...\n")
		b.WriteString(mutedStyle.Render("[esc] cancel and close"))
		return b.String()
	}
	action := "next"
	if f.ctl.IsLast() {
		action = "submit"
	}
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("[enter] %s  [tab] field  [esc] back  [ctrl+g] close", action)))
	return b.String()
}

// summary lists the answers from the other steps.
func (f *form) summary() string {
	var lines []string
	for i, s := range f.ctl.Steps() {
		if i == f.ctl.Current() {
			continue
		}
		for _, field := range s.Fields {
			v := f.ctl.Field(field.Name)
			if v == "" {
				continue
			}
			if field.Secret {
				v = strings.Repeat("*", len(v))
			}
			lines = append(lines, mutedStyle.Render(field.Label+": ")+v)
		}
	}
	return strings.Join(lines, "\n")
}
