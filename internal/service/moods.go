package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/flows"
)

// MoodService records check-ins.
type MoodService struct {
	DB  *sql.DB
	Now func() time.Time
}

// Record is the check-in wizard's persistence collaborator.
func (s *MoodService) Record(ctx context.Context, c flows.CheckIn) error {
	return repository.NewMoodRepo(s.DB).Insert(ctx, repository.MoodEntry{
		ID:         uuid.NewString(),
		Score:      c.Score,
		Energy:     c.Energy,
		Note:       c.Note,
		Tags:       c.Tags,
		RecordedAt: clock(s.Now),
	})
}

// Since returns entries recorded at or after t, newest first.
func (s *MoodService) Since(ctx context.Context, t time.Time) ([]repository.MoodEntry, error) {
	return repository.NewMoodRepo(s.DB).ListSince(ctx, t)
}

func (s *MoodService) Delete(ctx context.Context, id string) error {
	return repository.NewMoodRepo(s.DB).Delete(ctx, id)
}
