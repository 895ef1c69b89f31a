package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/haven/internal/database"
	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/flows"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSlotTaken       = errors.New("overlaps another scheduled session")
	ErrNotScheduled    = errors.New("session is not scheduled")
	ErrStartInPast     = errors.New("session start is in the past")
)

// SessionService books and cancels therapy sessions.
type SessionService struct {
	DB  *sql.DB
	Now func() time.Time
}

// Book stores the session and its reminder notification in one transaction.
// Sessions starting in the past or overlapping a scheduled one are rejected and
// nothing is written.
func (s *SessionService) Book(ctx context.Context, b flows.Booking) error {
	_, err := s.book(ctx, b)
	return err
}

func (s *SessionService) book(ctx context.Context, b flows.Booking) (repository.Session, error) {
	if now := clock(s.Now); !b.StartsAt.After(now) {
		return repository.Session{}, fmt.Errorf("%w: %s", ErrStartInPast, b.StartsAt.Format("2006-01-02 15:04"))
	}
	sess := repository.Session{
		ID:              uuid.NewString(),
		Therapist:       b.Therapist,
		StartsAt:        b.StartsAt.UTC(),
		DurationMinutes: int(b.Duration / time.Minute),
		Modality:        b.Modality,
		Status:          repository.SessionScheduled,
		Notes:           b.Notes,
	}
	end := sess.StartsAt.Add(b.Duration)
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		sessions := repository.NewSessionRepo(tx)
		// A session may start up to 2h before this one and still overlap.
		nearby, err := sessions.List(ctx, repository.SessionFilters{
			Status: repository.SessionScheduled,
			From:   sess.StartsAt.Add(-2 * time.Hour),
			To:     end,
		})
		if err != nil {
			return err
		}
		for _, other := range nearby {
			otherEnd := other.StartsAt.Add(time.Duration(other.DurationMinutes) * time.Minute)
			if other.StartsAt.Before(end) && sess.StartsAt.Before(otherEnd) {
				return fmt.Errorf("%w with %s at %s", ErrSlotTaken, other.Therapist, other.StartsAt.Format("2006-01-02 15:04"))
			}
		}
		if err := sessions.Insert(ctx, sess); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return repository.NewNotificationRepo(tx).Insert(ctx, repository.Notification{
			ID:    uuid.NewString(),
			Kind:  repository.NotifySession,
			Title: "Session booked with " + b.Therapist,
			Body:  fmt.Sprintf("%s, %d min, %s", b.StartsAt.Format("Mon 2 Jan 15:04"), sess.DurationMinutes, b.Modality),
		})
	})
	return sess, err
}

// Cancel marks a scheduled session cancelled.
func (s *SessionService) Cancel(ctx context.Context, id string) error {
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		sessions := repository.NewSessionRepo(tx)
		sess, err := sessions.Get(ctx, id)
		if err != nil {
			return err
		}
		if sess == nil {
			return ErrSessionNotFound
		}
		if sess.Status != repository.SessionScheduled {
			return ErrNotScheduled
		}
		if err := sessions.UpdateStatus(ctx, id, repository.SessionCancelled); err != nil {
			return err
		}
		return repository.NewNotificationRepo(tx).Insert(ctx, repository.Notification{
			ID:    uuid.NewString(),
			Kind:  repository.NotifySession,
			Title: "Session with " + sess.Therapist + " cancelled",
		})
	})
}

// Upcoming returns scheduled sessions starting from now, soonest first.
func (s *SessionService) Upcoming(ctx context.Context) ([]repository.Session, error) {
	return repository.NewSessionRepo(s.DB).List(ctx, repository.SessionFilters{
		Status: repository.SessionScheduled,
		From:   clock(s.Now),
	})
}

func (s *SessionService) List(ctx context.Context, f repository.SessionFilters) ([]repository.Session, error) {
	return repository.NewSessionRepo(s.DB).List(ctx, f)
}
