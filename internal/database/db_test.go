package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/haven/internal/database/repository"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(path))
	return path
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := openTestDB(t)
	require.NoError(t, RunMigrations(path))

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('profiles','goals','mood_entries','sessions','notifications','focus_areas')`).Scan(&n))
	require.Equal(t, 6, n)
}

func TestSeedDefaultsOnce(t *testing.T) {
	ctx := context.Background()
	db, err := Open(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SeedDefaults(ctx, db))
	require.NoError(t, SeedDefaults(ctx, db))

	areas, err := repository.NewFocusAreaRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, areas, len(DefaultFocusAreas))
	require.Equal(t, DefaultFocusAreas[0], areas[0].Name)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := Open(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := repository.NewNotificationRepo(tx).Insert(ctx, repository.Notification{ID: "n1", Kind: "welcome", Title: "hi"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := repository.NewNotificationRepo(db).CountUnread(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
