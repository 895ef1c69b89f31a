package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/haven/internal/wizard"
)

func capture[T any](out *T, err error) wizard.PersistFunc[T] {
	return func(_ context.Context, rec T) error {
		*out = rec
		return err
	}
}

func TestOnboardingHappyPath(t *testing.T) {
	var got Profile
	w, err := NewOnboarding([]string{"Anxiety", "Sleep"}, capture(&got, nil))
	require.NoError(t, err)
	require.Equal(t, 4, w.Total())

	require.False(t, w.Next(), "name is required")
	w.SetField(FieldDisplayName, "Ann")
	require.True(t, w.Next())

	w.SetField(FieldFocusAreas, "sleep, Cooking")
	require.False(t, w.Next(), "unknown focus area blocks")
	w.SetField(FieldFocusAreas, "sleep, anxiety")
	require.True(t, w.Next())

	require.Equal(t, "weekly", w.Field(FieldSessionFrequency), "prefilled default")
	w.SetField(FieldReminderTime, "8pm")
	require.False(t, w.Next())
	w.SetField(FieldReminderTime, "20:00")
	require.True(t, w.Next())

	_, err = w.Submit(context.Background())
	require.ErrorIs(t, err, wizard.ErrStepInvalid)
	w.SetField(FieldConsent, "yes")
	rec, err := w.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, rec, got)
	require.Equal(t, Profile{
		DisplayName:      "Ann",
		FocusAreas:       []string{"Sleep", "Anxiety"},
		SessionFrequency: "weekly",
		ReminderTime:     "20:00",
		Consented:        true,
	}, got)
}

func TestGoalBuildsTypedRecord(t *testing.T) {
	var got GoalDraft
	w, err := NewGoal(capture(&got, nil))
	require.NoError(t, err)

	w.SetField(FieldGoalTitle, "Walk daily")
	require.True(t, w.Next())
	w.SetField(FieldGoalTargetCount, "0")
	require.False(t, w.Next())
	w.SetField(FieldGoalTargetCount, "30")
	w.SetField(FieldGoalTargetDate, "2026-06-31")
	require.False(t, w.Next(), "invalid calendar date")
	w.SetField(FieldGoalTargetDate, "2026-06-30")
	w.SetField(FieldGoalCategory, "Health")
	require.True(t, w.Next())
	require.NoError(t, w.Dispatch(context.Background()))

	require.Equal(t, "Walk daily", got.Title)
	require.Equal(t, "health", got.Category)
	require.Equal(t, 30, got.TargetCount)
	require.NotNil(t, got.TargetDate)
	require.Equal(t, "2026-06-30", got.TargetDate.Format(DateLayout))
}

func TestCheckInOptionalEnergy(t *testing.T) {
	var got CheckIn
	w, err := NewCheckIn(capture(&got, nil))
	require.NoError(t, err)

	w.SetField(FieldMoodScore, "11")
	require.False(t, w.Next())
	w.SetField(FieldMoodScore, "7")
	require.True(t, w.Next())
	require.True(t, w.IsLast())

	w.SetField(FieldMoodEnergy, "9")
	require.ErrorIs(t, w.Dispatch(context.Background()), wizard.ErrStepInvalid)
	w.SetField(FieldMoodEnergy, "")
	w.SetField(FieldMoodTags, "work, sleep")
	require.NoError(t, w.Dispatch(context.Background()))
	require.Equal(t, 7, got.Score)
	require.Nil(t, got.Energy)
	require.Equal(t, []string{"work", "sleep"}, got.Tags)
}

func TestBookingRequiresFutureStart(t *testing.T) {
	loc := time.UTC
	now := func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, loc) }
	var got Booking
	w, err := NewBooking(now, loc, capture(&got, nil))
	require.NoError(t, err)

	w.SetField(FieldTherapist, "Dr. Rivera")
	require.True(t, w.Next())

	w.SetField(FieldDate, "2026-05-01")
	w.SetField(FieldTime, "09:00")
	require.False(t, w.Next(), "past start blocks")
	w.SetField(FieldTime, "17:30")
	require.True(t, w.Next())
	require.True(t, w.Next(), "defaults satisfy the format step")
	require.NoError(t, w.Dispatch(context.Background()))

	require.Equal(t, time.Date(2026, 5, 1, 17, 30, 0, 0, loc), got.StartsAt)
	require.Equal(t, 50*time.Minute, got.Duration)
	require.Equal(t, "video", got.Modality)
}

func TestBookingFailureKeepsAnswers(t *testing.T) {
	loc := time.UTC
	now := func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, loc) }
	var got Booking
	w, err := NewBooking(now, loc, capture(&got, errors.New("slot taken")))
	require.NoError(t, err)
	w.SetField(FieldTherapist, "Dr. Rivera")
	w.SetField(FieldDate, "2026-05-02")
	w.SetField(FieldTime, "10:00")
	for w.Next() {
	}
	require.True(t, w.IsLast())

	require.ErrorContains(t, w.Dispatch(context.Background()), "slot taken")
	require.True(t, w.IsLast())
	require.Equal(t, "Dr. Rivera", w.Field(FieldTherapist))
}

func TestBookingReviewRechecksStart(t *testing.T) {
	loc := time.UTC
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, loc)
	now := func() time.Time { return clock }
	var got Booking
	w, err := NewBooking(now, loc, capture(&got, nil))
	require.NoError(t, err)
	w.SetField(FieldTherapist, "Dr. Rivera")
	w.SetField(FieldDate, "2026-05-01")
	w.SetField(FieldTime, "12:05")
	for w.Next() {
	}
	require.True(t, w.IsLast())

	clock = clock.Add(time.Hour)
	require.False(t, w.CanAdvance())
	require.Equal(t, "That time has passed. Go back and pick a new one.", w.Blocked())
	require.ErrorIs(t, w.Dispatch(context.Background()), wizard.ErrStepInvalid)
	require.True(t, got.StartsAt.IsZero(), "nothing persisted")
	require.False(t, w.Done())

	require.True(t, w.Prev())
	require.True(t, w.Prev())
	w.SetField(FieldTime, "18:00")
	for w.Next() {
	}
	require.NoError(t, w.Dispatch(context.Background()))
	require.Equal(t, time.Date(2026, 5, 1, 18, 0, 0, 0, loc), got.StartsAt)
}

func TestOnboardingPrefilledFromProfile(t *testing.T) {
	existing := Profile{
		DisplayName:      "Ann",
		Pronouns:         "she/her",
		FocusAreas:       []string{"Sleep", "Anxiety"},
		SessionFrequency: "monthly",
		ReminderTime:     "21:15",
		Consented:        true,
	}
	var got Profile
	w, err := NewOnboarding([]string{"Anxiety", "Sleep"}, capture(&got, nil), wizard.WithInitial(existing.Fields()))
	require.NoError(t, err)

	require.True(t, w.Next())
	require.True(t, w.Next())
	require.True(t, w.Next())
	require.Empty(t, w.Field(FieldConsent), "consent is asked again")
	w.SetField(FieldConsent, "yes")
	require.NoError(t, w.Dispatch(context.Background()))
	require.Equal(t, existing, got)

	require.Equal(t, "weekly", Profile{DisplayName: "Bo"}.Fields().Get(FieldSessionFrequency))
}
