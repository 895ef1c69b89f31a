package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type person struct {
	Name string
	Age  int
}

func buildPerson(f Fields) (person, error) {
	age, err := f.IntOr("age", 0)
	if err != nil {
		return person{}, err
	}
	return person{Name: f.Get("name"), Age: age}, nil
}

type recorder struct {
	mu    sync.Mutex
	calls []person
	err   error
}

func (r *recorder) Persist(_ context.Context, p person) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, p)
	return r.err
}

func threeSteps() []Step {
	return []Step{
		{Key: "name", Validate: Required("name"), Hint: "name is required"},
		{Key: "age", Validate: Optional("age", IntRange("age", 0, 130))},
		{Key: "review"},
	}
}

func newPersonWizard(t *testing.T, p Persister[person], opts ...Option) *Wizard[person] {
	t.Helper()
	w, err := New[person]("person", threeSteps(), buildPerson, p, opts...)
	require.NoError(t, err)
	return w
}

func TestNewRejectsBadDefinitions(t *testing.T) {
	p := &recorder{}
	_, err := New[person]("empty", nil, buildPerson, p)
	require.ErrorIs(t, err, ErrNoSteps)

	_, err = New[person]("dup", []Step{{Key: "a"}, {Key: "a"}}, buildPerson, p)
	require.ErrorIs(t, err, ErrDuplicateStep)

	_, err = New[person]("nobuild", threeSteps(), nil, p)
	require.Error(t, err)

	_, err = New[person]("nopersist", threeSteps(), buildPerson, nil)
	require.Error(t, err)
}

func TestNextBlockedByValidator(t *testing.T) {
	w := newPersonWizard(t, &recorder{})

	require.False(t, w.Next())
	require.Equal(t, 0, w.Current())
	require.Equal(t, "name is required", w.Blocked())

	w.SetField("name", "Ann")
	require.True(t, w.Next())
	require.Equal(t, 1, w.Current())
	require.Empty(t, w.Blocked())
}

func TestNextBlockedOnEveryFailingStep(t *testing.T) {
	steps := []Step{
		{Key: "a", Validate: Required("a")},
		{Key: "b", Validate: Required("b")},
		{Key: "c", Validate: Required("c")},
		{Key: "d"},
	}
	w, err := New[person]("gates", steps, buildPerson, &recorder{})
	require.NoError(t, err)

	for i, key := range []string{"a", "b", "c"} {
		require.Equal(t, i, w.Current())
		require.False(t, w.Next(), "step %d should block", i)
		require.Equal(t, i, w.Current())
		w.SetField(key, "x")
		require.True(t, w.Next())
	}
	require.Equal(t, 3, w.Current())
}

func TestPrevDecrementsByOne(t *testing.T) {
	w := newPersonWizard(t, &recorder{})
	w.SetField("name", "Ann")
	require.True(t, w.Next())
	require.True(t, w.Next())
	require.Equal(t, 2, w.Current())

	for want := 1; want >= 0; want-- {
		require.True(t, w.Prev())
		require.Equal(t, want, w.Current())
	}
	require.False(t, w.Prev())
	require.Equal(t, 0, w.Current())
}

func TestSetFieldLastWriteWins(t *testing.T) {
	w := newPersonWizard(t, &recorder{})
	w.SetField("name", "Ann")
	w.SetField("name", "Bea")
	require.Equal(t, "Bea", w.Field("name"))
	require.Equal(t, "Bea", w.State().Fields["name"])
}

func TestNextOnLastStepIsNoop(t *testing.T) {
	w := newPersonWizard(t, &recorder{})
	w.SetField("name", "Ann")
	require.True(t, w.Next())
	require.True(t, w.Next())
	require.True(t, w.IsLast())

	require.False(t, w.Next())
	require.Equal(t, 2, w.Current())
}

func TestSubmitOnlyOnFinalStep(t *testing.T) {
	p := &recorder{}
	w := newPersonWizard(t, p)
	w.SetField("name", "Ann")

	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrNotFinalStep)
	require.Empty(t, p.calls)
}

func TestSubmitRequiresValidFinalStep(t *testing.T) {
	steps := []Step{
		{Key: "name", Validate: Required("name")},
		{Key: "consent", Validate: Equals("consent", "yes")},
	}
	p := &recorder{}
	w, err := New[person]("consent", steps, buildPerson, p)
	require.NoError(t, err)
	w.SetField("name", "Ann")
	require.True(t, w.Next())

	_, err = w.Submit(context.Background())
	require.ErrorIs(t, err, ErrStepInvalid)

	w.SetField("consent", "YES")
	got, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Name)
}

func TestSubmitFailureLeavesStateAndRetries(t *testing.T) {
	p := &recorder{err: errors.New("backend down")}
	w := newPersonWizard(t, p)
	w.SetField("name", "Ann")
	w.SetField("age", "41")
	require.True(t, w.Next())
	require.True(t, w.Next())
	before := w.State()

	_, err := w.Submit(context.Background())
	require.ErrorContains(t, err, "backend down")
	require.Equal(t, before, w.State())
	require.False(t, w.Done())

	p.err = nil
	got, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, w.Done())

	require.Len(t, p.calls, 2)
	require.Equal(t, p.calls[0], p.calls[1])
	require.Equal(t, person{Name: "Ann", Age: 41}, got)
}

func TestSubmitBuildErrorDoesNotPersist(t *testing.T) {
	p := &recorder{}
	w := newPersonWizard(t, p)
	w.SetField("name", "Ann")
	require.True(t, w.Next())
	require.True(t, w.Next())
	// bypass the step validator to reach a build failure
	w.SetField("age", "many")

	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrBuild)
	require.Empty(t, p.calls)
	require.Equal(t, 2, w.Current())
}

func TestSubmitTwiceAfterSuccess(t *testing.T) {
	w := newPersonWizard(t, &recorder{})
	w.SetField("name", "Ann")
	w.Next()
	w.Next()
	require.NoError(t, w.Dispatch(context.Background()))

	require.ErrorIs(t, w.Dispatch(context.Background()), ErrAlreadySubmitted)
	require.False(t, w.Prev())
	w.SetField("name", "Bea")
	require.Equal(t, "Ann", w.Field("name"))
}

func TestSingleSubmissionInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	slow := PersistFunc[person](func(ctx context.Context, _ person) error {
		close(entered)
		<-release
		return nil
	})
	w := newPersonWizard(t, slow)
	w.SetField("name", "Ann")
	w.Next()
	w.Next()

	done := make(chan error, 1)
	go func() { done <- w.Dispatch(context.Background()) }()
	<-entered

	require.True(t, w.Submitting())
	require.ErrorIs(t, w.Dispatch(context.Background()), ErrSubmitInFlight)
	require.False(t, w.Prev(), "navigation is disabled while submitting")

	close(release)
	require.NoError(t, <-done)
	require.False(t, w.Submitting())
}

func TestSetFieldIgnoredWhileSubmitting(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var got person
	slow := PersistFunc[person](func(ctx context.Context, p person) error {
		got = p
		close(entered)
		<-release
		return errors.New("offline")
	})
	w := newPersonWizard(t, slow)
	w.SetField("name", "Ann")
	w.Next()
	w.Next()

	done := make(chan error, 1)
	go func() { done <- w.Dispatch(context.Background()) }()
	<-entered

	w.SetField("name", "Bea")
	require.Equal(t, "Ann", w.Field("name"), "visible state matches the payload in flight")

	close(release)
	require.Error(t, <-done)
	require.Equal(t, "Ann", got.Name)

	w.SetField("name", "Bea")
	require.Equal(t, "Bea", w.Field("name"), "writes resume after a failed submit")
}

func TestSubmitCancelledKeepsState(t *testing.T) {
	waiting := PersistFunc[person](func(ctx context.Context, _ person) error {
		<-ctx.Done()
		return ctx.Err()
	})
	w := newPersonWizard(t, waiting)
	w.SetField("name", "Ann")
	w.Next()
	w.Next()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := w.Dispatch(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, w.Done())
	require.Equal(t, 2, w.Current())
	require.Equal(t, "Ann", w.Field("name"))
}

func TestResetRestoresInitial(t *testing.T) {
	w := newPersonWizard(t, &recorder{}, WithInitial(Fields{"name": "Default"}))
	require.True(t, w.Next())
	w.SetField("name", "Changed")
	w.Reset()
	require.Equal(t, 0, w.Current())
	require.Equal(t, "Default", w.Field("name"))
}

func TestMetricsCountTransitionsAndSubmits(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	p := &recorder{err: errors.New("nope")}
	w := newPersonWizard(t, p, WithMetrics(m))
	w.Next()
	w.SetField("name", "Ann")
	w.Next()
	w.Next()
	_, _ = w.Submit(context.Background())
	p.err = nil
	_, _ = w.Submit(context.Background())

	require.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("person", "next", "blocked")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("person", "next", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("person", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("person", "ok")))

	_, err = NewMetrics(reg)
	require.Error(t, err, "collectors are registered once per registry")
}
