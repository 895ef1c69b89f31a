package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// BuildFunc turns accumulated fields into the wizard's typed record.
type BuildFunc[T any] func(Fields) (T, error)

// Persister stores a submitted record.
type Persister[T any] interface {
	Persist(ctx context.Context, record T) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc[T any] func(ctx context.Context, record T) error

func (f PersistFunc[T]) Persist(ctx context.Context, record T) error { return f(ctx, record) }

// Controller is the type-erased surface a view needs to drive a wizard.
type Controller interface {
	Name() string
	Steps() []Step
	Step() Step
	Current() int
	Total() int
	Field(name string) string
	SetField(name, value string)
	Next() bool
	Prev() bool
	CanAdvance() bool
	IsLast() bool
	Blocked() string
	Submitting() bool
	Done() bool
	Dispatch(ctx context.Context) error
}

// Option configures a Wizard.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *Metrics
	initial Fields
}

// WithLogger logs transitions at debug and submissions at info.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records transitions and submissions.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithInitial pre-fills fields, e.g. defaults or values from an existing record.
func WithInitial(f Fields) Option {
	return func(o *options) { o.initial = f.Clone() }
}

// Wizard is a stepped form producing a record of type T.
type Wizard[T any] struct {
	name     string
	steps    []Step
	build    BuildFunc[T]
	persist  Persister[T]
	logger   *zap.Logger
	metrics  *Metrics
	inflight *semaphore.Weighted

	mu         sync.Mutex
	current    int
	fields     Fields
	initial    Fields
	submitting bool
	done       bool
}

var _ Controller = (*Wizard[struct{}])(nil)

// New validates the step list and returns a wizard positioned on the first step.
func New[T any](name string, steps []Step, build BuildFunc[T], persist Persister[T], opts ...Option) (*Wizard[T], error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoSteps)
	}
	if build == nil {
		return nil, fmt.Errorf("%s: build func required", name)
	}
	if persist == nil {
		return nil, fmt.Errorf("%s: persister required", name)
	}
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		if _, ok := seen[s.Key]; ok {
			return nil, fmt.Errorf("%s: %w %q", name, ErrDuplicateStep, s.Key)
		}
		seen[s.Key] = struct{}{}
	}
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.initial == nil {
		o.initial = Fields{}
	}
	return &Wizard[T]{
		name:     name,
		steps:    append([]Step(nil), steps...),
		build:    build,
		persist:  persist,
		logger:   o.logger.With(zap.String("wizard", name)),
		metrics:  o.metrics,
		inflight: semaphore.NewWeighted(1),
		fields:   o.initial.Clone(),
		initial:  o.initial,
	}, nil
}

func (w *Wizard[T]) Name() string { return w.name }

func (w *Wizard[T]) Steps() []Step { return append([]Step(nil), w.steps...) }

func (w *Wizard[T]) Total() int { return len(w.steps) }

func (w *Wizard[T]) Current() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Step returns the active step.
func (w *Wizard[T]) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.current]
}

func (w *Wizard[T]) Field(name string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields[name]
}

// Fields returns a copy of the accumulated fields.
func (w *Wizard[T]) Fields() Fields {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields.Clone()
}

// State returns a copy of the cursor and fields.
func (w *Wizard[T]) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{Current: w.current, Total: len(w.steps), Fields: w.fields.Clone()}
}

// SetField overwrites name with value. It does not validate. Writes are dropped
// while a submit is in flight and after success.
func (w *Wizard[T]) SetField(name, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done || w.submitting {
		return
	}
	w.fields[name] = value
}

// CanAdvance reports whether the active step's validator passes.
func (w *Wizard[T]) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.current].passes(w.fields)
}

// Blocked returns the active step's hint when its validator fails.
func (w *Wizard[T]) Blocked() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.steps[w.current]
	if s.passes(w.fields) {
		return ""
	}
	if s.Hint == "" {
		return "complete this step to continue"
	}
	return s.Hint
}

func (w *Wizard[T]) IsLast() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current == len(w.steps)-1
}

func (w *Wizard[T]) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Done reports whether a submit succeeded; the wizard is then closed.
func (w *Wizard[T]) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// Next moves forward one step when the active step validates. On the last step it
// is a no-op; use Submit.
func (w *Wizard[T]) Next() bool {
	w.mu.Lock()
	ok := !w.done && !w.submitting &&
		w.current < len(w.steps)-1 &&
		w.steps[w.current].passes(w.fields)
	from := w.current
	if ok {
		w.current++
	}
	w.mu.Unlock()

	w.metrics.transition(w.name, "next", ok)
	w.logger.Debug("next", zap.Int("from", from), zap.Bool("advanced", ok))
	return ok
}

// Prev moves back one step. On the first step it is a no-op.
func (w *Wizard[T]) Prev() bool {
	w.mu.Lock()
	ok := !w.done && !w.submitting && w.current > 0
	from := w.current
	if ok {
		w.current--
	}
	w.mu.Unlock()

	w.metrics.transition(w.name, "prev", ok)
	w.logger.Debug("prev", zap.Int("from", from), zap.Bool("moved", ok))
	return ok
}

// Reset returns to the first step with the initial fields.
func (w *Wizard[T]) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return
	}
	w.current = 0
	w.fields = w.initial.Clone()
	w.done = false
}

// Submit builds the record from the accumulated fields and forwards it to the
// persister. It is only valid on a passing final step. On any error the cursor
// and fields are left untouched so the caller can retry.
func (w *Wizard[T]) Submit(ctx context.Context) (T, error) {
	var zero T
	if !w.inflight.TryAcquire(1) {
		return zero, ErrSubmitInFlight
	}
	defer w.inflight.Release(1)

	w.mu.Lock()
	if err := w.submittableLocked(); err != nil {
		w.mu.Unlock()
		return zero, err
	}
	payload := w.fields.Clone()
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	record, err := w.build(payload)
	if err != nil {
		w.metrics.submitted(w.name, false, 0)
		return zero, fmt.Errorf("%s: %w: %w", w.name, ErrBuild, err)
	}

	start := time.Now()
	err = w.persist.Persist(ctx, record)
	elapsed := time.Since(start)
	w.metrics.submitted(w.name, err == nil, elapsed)
	if err != nil {
		w.logger.Warn("submit failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return zero, fmt.Errorf("%s: submit: %w", w.name, err)
	}

	w.mu.Lock()
	w.done = true
	w.mu.Unlock()
	w.logger.Info("submitted", zap.Duration("elapsed", elapsed))
	return record, nil
}

// Dispatch is Submit without the record.
func (w *Wizard[T]) Dispatch(ctx context.Context) error {
	_, err := w.Submit(ctx)
	return err
}

func (w *Wizard[T]) submittableLocked() error {
	switch {
	case w.done:
		return ErrAlreadySubmitted
	case w.current != len(w.steps)-1:
		return ErrNotFinalStep
	case !w.steps[w.current].passes(w.fields):
		return ErrStepInvalid
	}
	return nil
}
