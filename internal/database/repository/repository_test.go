package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/haven/internal/database"
	"github.com/jask/haven/internal/database/repository"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(path))
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestProfileUpsertKeepsFirstOnboarding(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepo(newDB(t))

	got, err := repo.Get(ctx, repository.LocalProfileID)
	require.NoError(t, err)
	require.Nil(t, got)

	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := repository.Profile{
		ID:               repository.LocalProfileID,
		DisplayName:      "Ann",
		FocusAreas:       []string{"Sleep", "Stress"},
		SessionFrequency: "weekly",
		ReminderTime:     "08:30",
		Consented:        true,
		OnboardedAt:      &first,
	}
	require.NoError(t, repo.Upsert(ctx, p))

	later := first.Add(48 * time.Hour)
	p.DisplayName = "Annie"
	p.OnboardedAt = &later
	require.NoError(t, repo.Upsert(ctx, p))

	got, err = repo.Get(ctx, repository.LocalProfileID)
	require.NoError(t, err)
	require.Equal(t, "Annie", got.DisplayName)
	require.Equal(t, []string{"Sleep", "Stress"}, got.FocusAreas)
	require.True(t, got.Consented)
	require.NotNil(t, got.OnboardedAt)
	require.True(t, first.Equal(*got.OnboardedAt))
}

func TestGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGoalRepo(newDB(t))

	target := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, repository.Goal{ID: "g1", Title: "Walk daily", Category: "health", Status: repository.GoalActive, TargetCount: 30, TargetDate: &target}))
	require.NoError(t, repo.Insert(ctx, repository.Goal{ID: "g2", Title: "Journal", Category: "mindfulness", Status: repository.GoalActive, TargetCount: 10}))

	require.NoError(t, repo.UpdateProgress(ctx, "g1", 12))
	require.NoError(t, repo.UpdateStatus(ctx, "g2", repository.GoalCompleted))

	g, err := repo.Get(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, 12, g.Progress)
	require.NotNil(t, g.TargetDate)
	require.True(t, target.Equal(*g.TargetDate))

	active, err := repo.List(ctx, repository.GoalFilters{Status: repository.GoalActive})
	require.NoError(t, err)
	require.Len(t, active, 1)

	done, err := repo.Get(ctx, "g2")
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	found, err := repo.List(ctx, repository.GoalFilters{Search: "journ"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, "g2"))
	missing, err := repo.Get(ctx, "g2")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMoodListSince(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMoodRepo(newDB(t))

	base := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	energy := 3
	for i, score := range []int{4, 6, 8} {
		require.NoError(t, repo.Insert(ctx, repository.MoodEntry{
			ID:         string(rune('a' + i)),
			Score:      score,
			Energy:     &energy,
			Tags:       []string{"sleep"},
			RecordedAt: base.AddDate(0, 0, i),
		}))
	}

	all, err := repo.ListSince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, 8, all[0].Score, "newest first")
	require.Equal(t, []string{"sleep"}, all[0].Tags)
	require.Equal(t, 3, *all[0].Energy)

	recent, err := repo.ListSince(ctx, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, recent, 2)
}

func TestMoodScoreConstraint(t *testing.T) {
	repo := repository.NewMoodRepo(newDB(t))
	err := repo.Insert(context.Background(), repository.MoodEntry{ID: "x", Score: 11, RecordedAt: time.Now()})
	require.Error(t, err)
}

func TestSessionsWindow(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSessionRepo(newDB(t))

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{-24 * time.Hour, 24 * time.Hour, 72 * time.Hour} {
		require.NoError(t, repo.Insert(ctx, repository.Session{
			ID:              string(rune('a' + i)),
			Therapist:       "Dr. Rivera",
			StartsAt:        now.Add(offset),
			DurationMinutes: 50,
			Modality:        repository.ModalityVideo,
			Status:          repository.SessionScheduled,
		}))
	}
	require.NoError(t, repo.UpdateStatus(ctx, "c", repository.SessionCancelled))

	upcoming, err := repo.List(ctx, repository.SessionFilters{Status: repository.SessionScheduled, From: now})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "b", upcoming[0].ID)

	all, err := repo.List(ctx, repository.SessionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "a", all[0].ID)
}

func TestNotificationsReadState(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewNotificationRepo(newDB(t))

	for _, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, repo.Insert(ctx, repository.Notification{ID: id, Kind: repository.NotifyReminder, Title: id}))
	}
	require.NoError(t, repo.MarkRead(ctx, "n1"))

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, unread)

	list, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 2)

	n, err := repo.MarkAllRead(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	list, err = repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, item := range list {
		require.NotNil(t, item.ReadAt)
	}
}
