package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/haven/internal/database"
	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/flows"
)

var (
	ErrDuplicateGoal = errors.New("a similar active goal already exists")
	ErrGoalNotFound  = errors.New("goal not found")
)

// duplicateThreshold is the minimum normalised similarity treated as the same goal.
const duplicateThreshold = 0.85

// GoalService manages goals.
type GoalService struct {
	DB *sql.DB
}

// Persist creates a goal from the goal wizard. Near-identical titles of active
// goals are rejected.
func (s *GoalService) Persist(ctx context.Context, d flows.GoalDraft) error {
	_, err := s.Create(ctx, d)
	return err
}

func (s *GoalService) Create(ctx context.Context, d flows.GoalDraft) (repository.Goal, error) {
	var goal repository.Goal
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		goals := repository.NewGoalRepo(tx)
		active, err := goals.List(ctx, repository.GoalFilters{Status: repository.GoalActive})
		if err != nil {
			return err
		}
		for _, g := range active {
			if titleSimilarity(g.Title, d.Title) >= duplicateThreshold {
				return fmt.Errorf("%w: %q", ErrDuplicateGoal, g.Title)
			}
		}
		goal = repository.Goal{
			ID:          uuid.NewString(),
			Title:       d.Title,
			Description: d.Description,
			Category:    d.Category,
			Status:      repository.GoalActive,
			TargetCount: d.TargetCount,
			TargetDate:  d.TargetDate,
		}
		if err := goals.Insert(ctx, goal); err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
		return repository.NewNotificationRepo(tx).Insert(ctx, repository.Notification{
			ID:    uuid.NewString(),
			Kind:  repository.NotifyGoal,
			Title: "New goal: " + d.Title,
		})
	})
	return goal, err
}

func (s *GoalService) List(ctx context.Context, f repository.GoalFilters) ([]repository.Goal, error) {
	return repository.NewGoalRepo(s.DB).List(ctx, f)
}

// Progress adds delta to a goal's progress, clamped to [0, target]. Reaching the
// target completes the goal.
func (s *GoalService) Progress(ctx context.Context, id string, delta int) (repository.Goal, error) {
	var out repository.Goal
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		goals := repository.NewGoalRepo(tx)
		g, err := goals.Get(ctx, id)
		if err != nil {
			return err
		}
		if g == nil {
			return ErrGoalNotFound
		}
		next := g.Progress + delta
		if next < 0 {
			next = 0
		}
		if next > g.TargetCount {
			next = g.TargetCount
		}
		if err := goals.UpdateProgress(ctx, id, next); err != nil {
			return err
		}
		if next == g.TargetCount && g.Status == repository.GoalActive {
			if err := goals.UpdateStatus(ctx, id, repository.GoalCompleted); err != nil {
				return err
			}
			if err := repository.NewNotificationRepo(tx).Insert(ctx, repository.Notification{
				ID:    uuid.NewString(),
				Kind:  repository.NotifyGoal,
				Title: "Goal reached: " + g.Title,
			}); err != nil {
				return err
			}
		}
		updated, err := goals.Get(ctx, id)
		if err != nil {
			return err
		}
		out = *updated
		return nil
	})
	return out, err
}

func (s *GoalService) Complete(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, repository.GoalCompleted)
}

func (s *GoalService) Archive(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, repository.GoalArchived)
}

func (s *GoalService) setStatus(ctx context.Context, id, status string) error {
	goals := repository.NewGoalRepo(s.DB)
	g, err := goals.Get(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGoalNotFound
	}
	return goals.UpdateStatus(ctx, id, status)
}

// titleSimilarity returns 1 for identical titles (ignoring case and spacing) and
// falls towards 0 as the edit distance grows.
func titleSimilarity(a, b string) float64 {
	a = normaliseTitle(a)
	b = normaliseTitle(b)
	if a == "" && b == "" {
		return 1
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func normaliseTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
