// Package prompt runs a wizard in line mode, one huh form per step.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/jask/haven/internal/wizard"
)

// ErrAborted is returned when the user leaves the form (ctrl+c) or declines a retry.
var ErrAborted = errors.New("prompt: aborted")

// Runner asks the steps of a wizard on the terminal.
type Runner struct {
	Out        io.Writer
	Accessible bool
	Logger     *zap.Logger

	// ask and confirm are replaced in tests.
	ask     func(ctx context.Context, p *page) error
	confirm func(ctx context.Context, title string) (bool, error)
}

// Run asks c's steps on stdout until it has been dispatched.
func Run(ctx context.Context, c wizard.Controller) error {
	return (&Runner{}).Run(ctx, c)
}

// Run drives c to completion. A step whose validator blocks prints its hint and is
// asked again. A failed dispatch keeps the answers and offers a retry.
func (r *Runner) Run(ctx context.Context, c wizard.Controller) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ask := r.ask
	if ask == nil {
		ask = r.askHuh
	}
	confirm := r.confirm
	if confirm == nil {
		confirm = r.confirmHuh
	}

	for !c.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := newPage(c)
		if err := ask(ctx, p); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return ErrAborted
			}
			return err
		}
		p.apply(c)

		if !c.IsLast() {
			if !c.Next() {
				fmt.Fprintln(out, c.Blocked())
			}
			continue
		}
		if !p.submit {
			c.Prev()
			continue
		}
		err := c.Dispatch(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, wizard.ErrStepInvalid):
			fmt.Fprintln(out, c.Blocked())
			continue
		case ctx.Err() != nil:
			return err
		}
		log.Warn("dispatch failed", zap.String("wizard", c.Name()), zap.Error(err))
		fmt.Fprintf(out, "Could not save: %v\n", err)
		retry, cerr := confirm(ctx, "Try again?")
		if cerr != nil {
			if errors.Is(cerr, huh.ErrUserAborted) {
				return ErrAborted
			}
			return cerr
		}
		if !retry {
			return fmt.Errorf("%w: %w", ErrAborted, err)
		}
	}
	return wizard.ErrAlreadySubmitted
}

// page is one step's worth of answers.
type page struct {
	step     wizard.Step
	position string
	last     bool
	summary  string
	bindings []*binding
	submit   bool
}

type binding struct {
	field   wizard.Field
	text    string
	list    []string
	checked bool
}

func (b *binding) confirm() bool { return len(b.field.Options) == 1 }

func (b *binding) value() string {
	switch {
	case b.confirm():
		if b.checked {
			return b.field.Options[0]
		}
		return ""
	case b.field.Multi:
		return strings.Join(b.list, ", ")
	default:
		return b.text
	}
}

func newPage(c wizard.Controller) *page {
	step := c.Step()
	p := &page{
		step:     step,
		position: fmt.Sprintf("%d/%d", c.Current()+1, c.Total()),
		last:     c.IsLast(),
		submit:   true,
	}
	for _, f := range step.Fields {
		cur := c.Field(f.Name)
		b := &binding{field: f, text: cur}
		if f.Multi {
			for _, v := range splitList(cur) {
				b.list = append(b.list, canonical(f.Options, v))
			}
		}
		if b.confirm() {
			b.checked = strings.EqualFold(cur, f.Options[0])
		}
		p.bindings = append(p.bindings, b)
	}
	if p.last {
		p.summary = summarize(c)
	}
	return p
}

func (p *page) apply(c wizard.Controller) {
	for _, b := range p.bindings {
		c.SetField(b.field.Name, b.value())
	}
}

// summarize lists the answers of every earlier step for the review screen.
func summarize(c wizard.Controller) string {
	var lines []string
	steps := c.Steps()
	for i, s := range steps {
		if i == c.Current() {
			continue
		}
		for _, f := range s.Fields {
			v := c.Field(f.Name)
			if v == "" {
				continue
			}
			if f.Secret {
				v = "••••"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", f.Label, v))
		}
	}
	return strings.Join(lines, "\n")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *Runner) askHuh(ctx context.Context, p *page) error {
	return huh.NewForm(p.group()).WithAccessible(r.Accessible).RunWithContext(ctx)
}

func (r *Runner) confirmHuh(ctx context.Context, title string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Retry").Negative("Give up").Value(&ok),
	)).WithAccessible(r.Accessible).RunWithContext(ctx)
	return ok, err
}

// group maps the step's fields onto huh fields.
func (p *page) group() *huh.Group {
	var fields []huh.Field
	if p.step.Description != "" || p.summary != "" || len(p.bindings) == 0 {
		desc := p.step.Description
		if p.summary != "" {
			desc = strings.TrimSpace(p.summary + "\n\n" + desc)
		}
		fields = append(fields, huh.NewNote().Title(p.step.Title).Description(desc))
	}
	for _, b := range p.bindings {
		fields = append(fields, b.huhField())
	}
	if p.last {
		fields = append(fields, huh.NewConfirm().
			Title("Save?").
			Affirmative("Submit").
			Negative("Back").
			Value(&p.submit))
	}
	return huh.NewGroup(fields...).Title(fmt.Sprintf("%s (%s)", p.step.Title, p.position))
}

func (b *binding) huhField() huh.Field {
	f := b.field
	switch {
	case b.confirm():
		return huh.NewConfirm().Title(f.Label).Value(&b.checked)
	case f.Multi:
		return huh.NewMultiSelect[string]().
			Title(f.Label).
			Options(huh.NewOptions(mergeOptions(f.Options, b.list)...)...).
			Value(&b.list)
	case len(f.Options) > 0:
		opts := f.Options
		if b.text != "" && !containsFold(opts, b.text) {
			opts = append([]string{b.text}, opts...)
		}
		return huh.NewSelect[string]().
			Title(f.Label).
			Options(huh.NewOptions(opts...)...).
			Value(&b.text)
	}
	in := huh.NewInput().Title(f.Label).Placeholder(f.Placeholder).Value(&b.text)
	if f.Secret {
		in = in.EchoMode(huh.EchoModePassword)
	}
	return in
}

// mergeOptions keeps previously chosen values selectable even when they are not
// in the catalogue, so the step validator can report them.
func mergeOptions(opts, chosen []string) []string {
	out := append([]string(nil), opts...)
	for _, c := range chosen {
		if !containsFold(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// canonical returns the catalogue spelling of v, or v itself.
func canonical(opts []string, v string) string {
	for _, o := range opts {
		if strings.EqualFold(o, v) {
			return o
		}
	}
	return v
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
