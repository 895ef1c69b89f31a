package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/haven/internal/database/repository"
)

// DefaultFocusAreas is the catalogue offered by the onboarding wizard.
var DefaultFocusAreas = []string{
	"Anxiety",
	"Stress",
	"Sleep",
	"Relationships",
	"Grief",
	"Self-esteem",
	"Work",
	"Mindfulness",
}

// SeedDefaults ensures the focus area catalogue exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewFocusAreaRepo(db)
	existing, err := repo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	for idx, name := range DefaultFocusAreas {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("focus:"+name)).String()
		if err := repo.Upsert(ctx, repository.FocusArea{ID: id, Name: name, SortOrder: idx}); err != nil {
			return err
		}
	}
	return nil
}
