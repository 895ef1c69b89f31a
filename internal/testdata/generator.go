package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/haven/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Profiles      *repository.ProfileRepo
	Goals         *repository.GoalRepo
	Moods         *repository.MoodRepo
	Sessions      *repository.SessionRepo
	Notifications *repository.NotificationRepo
}

// Options tune the generated data. Zero values pick sensible defaults.
type Options struct {
	Now  time.Time
	Days int
	Seed int64
}

// Seed creates a demo profile, goals, a month of check-ins, upcoming and past
// sessions and a few notifications.
func Seed(ctx context.Context, repos Repos, opts Options) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Days <= 0 {
		opts.Days = 30
	}
	if opts.Seed == 0 {
		opts.Seed = opts.Now.UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	now := opts.Now.UTC().Truncate(time.Second)

	onboarded := now.AddDate(0, 0, -opts.Days)
	if err := repos.Profiles.Upsert(ctx, repository.Profile{
		ID:               repository.LocalProfileID,
		DisplayName:      "Sample Client",
		FocusAreas:       []string{"Stress", "Sleep"},
		SessionFrequency: "weekly",
		ReminderTime:     "20:00",
		Consented:        true,
		OnboardedAt:      &onboarded,
	}); err != nil {
		return err
	}

	goals := []repository.Goal{
		{Title: "Walk 20 minutes", Category: "health", TargetCount: 20, Progress: rng.Intn(15)},
		{Title: "Lights out by 23:00", Category: "sleep", TargetCount: 14, Progress: rng.Intn(10)},
		{Title: "Journal after sessions", Category: "mindfulness", TargetCount: 8, Progress: rng.Intn(4)},
	}
	for _, g := range goals {
		g.ID = uuid.NewString()
		g.Status = repository.GoalActive
		if err := repos.Goals.Insert(ctx, g); err != nil {
			return err
		}
	}

	notes := []string{"", "", "slept badly", "good session", "busy at work", "", "saw friends"}
	tags := [][]string{nil, {"work"}, {"sleep"}, {"social"}, {"exercise", "sleep"}}
	mood := 5
	for d := opts.Days; d >= 0; d-- {
		// Skip some days so streaks and empty buckets show up.
		if rng.Intn(5) == 0 {
			continue
		}
		mood += rng.Intn(3) - 1
		if mood < 2 {
			mood = 2
		}
		if mood > 9 {
			mood = 9
		}
		energy := 1 + rng.Intn(5)
		if err := repos.Moods.Insert(ctx, repository.MoodEntry{
			ID:         uuid.NewString(),
			Score:      mood,
			Energy:     &energy,
			Note:       notes[rng.Intn(len(notes))],
			Tags:       tags[rng.Intn(len(tags))],
			RecordedAt: now.AddDate(0, 0, -d).Add(-time.Duration(rng.Intn(8)) * time.Hour),
		}); err != nil {
			return err
		}
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 17, 0, 0, 0, time.UTC)
	for week := -3; week <= 2; week++ {
		status := repository.SessionCompleted
		if week > 0 {
			status = repository.SessionScheduled
		}
		if err := repos.Sessions.Insert(ctx, repository.Session{
			ID:              uuid.NewString(),
			Therapist:       "Dr. Rivera",
			StartsAt:        day.AddDate(0, 0, 7*week),
			DurationMinutes: 50,
			Modality:        []string{repository.ModalityVideo, repository.ModalityInPerson}[rng.Intn(2)],
			Status:          status,
		}); err != nil {
			return err
		}
	}

	for _, n := range []repository.Notification{
		{Kind: repository.NotifyWelcome, Title: "Welcome, Sample Client", Body: "Start with a mood check-in or set your first goal."},
		{Kind: repository.NotifyReminder, Title: "Time for a check-in", Body: "How are you feeling today?"},
		{Kind: repository.NotifySession, Title: "Session booked with Dr. Rivera"},
	} {
		n.ID = uuid.NewString()
		if err := repos.Notifications.Insert(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
