package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/haven/internal/database"
	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/flows"
)

// ProfileService persists the onboarding result.
type ProfileService struct {
	DB  *sql.DB
	Now func() time.Time
}

// CompleteOnboarding stores the profile and a welcome notification in one
// transaction.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, p flows.Profile) error {
	now := clock(s.Now)
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := repository.NewProfileRepo(tx).Upsert(ctx, repository.Profile{
			ID:               repository.LocalProfileID,
			DisplayName:      p.DisplayName,
			Pronouns:         p.Pronouns,
			FocusAreas:       p.FocusAreas,
			SessionFrequency: p.SessionFrequency,
			ReminderTime:     p.ReminderTime,
			Consented:        p.Consented,
			OnboardedAt:      &now,
		}); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return repository.NewNotificationRepo(tx).Insert(ctx, repository.Notification{
			ID:    uuid.NewString(),
			Kind:  repository.NotifyWelcome,
			Title: "Welcome, " + p.DisplayName,
			Body:  "Start with a mood check-in or set your first goal.",
		})
	})
}

// Get returns nil until onboarding has completed.
func (s *ProfileService) Get(ctx context.Context) (*repository.Profile, error) {
	return repository.NewProfileRepo(s.DB).Get(ctx, repository.LocalProfileID)
}

// Current returns the stored profile as onboarding answers, or nil before
// onboarding.
func (s *ProfileService) Current(ctx context.Context) (*flows.Profile, error) {
	p, err := s.Get(ctx)
	if err != nil || p == nil {
		return nil, err
	}
	return &flows.Profile{
		DisplayName:      p.DisplayName,
		Pronouns:         p.Pronouns,
		FocusAreas:       p.FocusAreas,
		SessionFrequency: p.SessionFrequency,
		ReminderTime:     p.ReminderTime,
		Consented:        p.Consented,
	}, nil
}

// FocusAreas returns the catalogue names in display order.
func (s *ProfileService) FocusAreas(ctx context.Context) ([]string, error) {
	areas, err := repository.NewFocusAreaRepo(s.DB).List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, a.Name)
	}
	return names, nil
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return database.Now()
	}
	return now().UTC().Truncate(time.Second)
}
