package testdata_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/haven/internal/database"
	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/testdata"
)

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "demo.db")
	require.NoError(t, database.RunMigrations(path))
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 5, 6, 12, 0, 0, 0, time.UTC)
	require.NoError(t, testdata.Seed(ctx, testdata.Repos{
		Profiles:      repository.NewProfileRepo(db),
		Goals:         repository.NewGoalRepo(db),
		Moods:         repository.NewMoodRepo(db),
		Sessions:      repository.NewSessionRepo(db),
		Notifications: repository.NewNotificationRepo(db),
	}, testdata.Options{Now: now, Seed: 42}))

	p, err := repository.NewProfileRepo(db).Get(ctx, repository.LocalProfileID)
	require.NoError(t, err)
	require.NotNil(t, p)

	goals, err := repository.NewGoalRepo(db).List(ctx, repository.GoalFilters{Status: repository.GoalActive})
	require.NoError(t, err)
	require.Len(t, goals, 3)

	moods, err := repository.NewMoodRepo(db).ListSince(ctx, time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, moods)
	for _, m := range moods {
		require.GreaterOrEqual(t, m.Score, 2)
		require.LessOrEqual(t, m.Score, 9)
	}

	upcoming, err := repository.NewSessionRepo(db).List(ctx, repository.SessionFilters{Status: repository.SessionScheduled, From: now})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	unread, err := repository.NewNotificationRepo(db).CountUnread(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, unread)
}
