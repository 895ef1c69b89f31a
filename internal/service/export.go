package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jask/haven/internal/database/repository"
)

// Snapshot is the exported document.
type Snapshot struct {
	ExportedAt    time.Time         `yaml:"exported_at"`
	Profile       *profileDoc       `yaml:"profile,omitempty"`
	Goals         []goalDoc         `yaml:"goals"`
	Moods         []moodDoc         `yaml:"moods"`
	Sessions      []sessionDoc      `yaml:"sessions"`
	Notifications []notificationDoc `yaml:"notifications"`
}

type profileDoc struct {
	DisplayName      string     `yaml:"display_name"`
	Pronouns         string     `yaml:"pronouns,omitempty"`
	FocusAreas       []string   `yaml:"focus_areas"`
	SessionFrequency string     `yaml:"session_frequency"`
	ReminderTime     string     `yaml:"reminder_time,omitempty"`
	OnboardedAt      *time.Time `yaml:"onboarded_at,omitempty"`
}

type goalDoc struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Category    string     `yaml:"category"`
	Status      string     `yaml:"status"`
	Progress    int        `yaml:"progress"`
	TargetCount int        `yaml:"target_count"`
	TargetDate  *time.Time `yaml:"target_date,omitempty"`
}

type moodDoc struct {
	RecordedAt time.Time `yaml:"recorded_at"`
	Score      int       `yaml:"score"`
	Energy     *int      `yaml:"energy,omitempty"`
	Note       string    `yaml:"note,omitempty"`
	Tags       []string  `yaml:"tags,omitempty"`
}

type sessionDoc struct {
	Therapist string    `yaml:"therapist"`
	StartsAt  time.Time `yaml:"starts_at"`
	Minutes   int       `yaml:"minutes"`
	Modality  string    `yaml:"modality"`
	Status    string    `yaml:"status"`
	Notes     string    `yaml:"notes,omitempty"`
}

type notificationDoc struct {
	Kind  string `yaml:"kind"`
	Title string `yaml:"title"`
	Body  string `yaml:"body,omitempty"`
	Read  bool   `yaml:"read"`
}

// ExportService writes a YAML snapshot of every record.
type ExportService struct {
	DB  *sql.DB
	Now func() time.Time
}

func (s *ExportService) Snapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{ExportedAt: clock(s.Now)}

	p, err := repository.NewProfileRepo(s.DB).Get(ctx, repository.LocalProfileID)
	if err != nil {
		return snap, fmt.Errorf("profile: %w", err)
	}
	if p != nil {
		snap.Profile = &profileDoc{
			DisplayName:      p.DisplayName,
			Pronouns:         p.Pronouns,
			FocusAreas:       p.FocusAreas,
			SessionFrequency: p.SessionFrequency,
			ReminderTime:     p.ReminderTime,
			OnboardedAt:      p.OnboardedAt,
		}
	}

	goals, err := repository.NewGoalRepo(s.DB).List(ctx, repository.GoalFilters{})
	if err != nil {
		return snap, fmt.Errorf("goals: %w", err)
	}
	for _, g := range goals {
		snap.Goals = append(snap.Goals, goalDoc{
			Title: g.Title, Description: g.Description, Category: g.Category, Status: g.Status,
			Progress: g.Progress, TargetCount: g.TargetCount, TargetDate: g.TargetDate,
		})
	}

	moods, err := repository.NewMoodRepo(s.DB).ListSince(ctx, time.Time{})
	if err != nil {
		return snap, fmt.Errorf("moods: %w", err)
	}
	for _, m := range moods {
		snap.Moods = append(snap.Moods, moodDoc{
			RecordedAt: m.RecordedAt, Score: m.Score, Energy: m.Energy, Note: m.Note, Tags: m.Tags,
		})
	}

	sessions, err := repository.NewSessionRepo(s.DB).List(ctx, repository.SessionFilters{})
	if err != nil {
		return snap, fmt.Errorf("sessions: %w", err)
	}
	for _, ss := range sessions {
		snap.Sessions = append(snap.Sessions, sessionDoc{
			Therapist: ss.Therapist, StartsAt: ss.StartsAt, Minutes: ss.DurationMinutes,
			Modality: ss.Modality, Status: ss.Status, Notes: ss.Notes,
		})
	}

	notes, err := repository.NewNotificationRepo(s.DB).List(ctx, false)
	if err != nil {
		return snap, fmt.Errorf("notifications: %w", err)
	}
	for _, n := range notes {
		snap.Notifications = append(snap.Notifications, notificationDoc{
			Kind: n.Kind, Title: n.Title, Body: n.Body, Read: n.ReadAt != nil,
		})
	}
	return snap, nil
}

// Export writes the snapshot to w as YAML.
func (s *ExportService) Export(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return enc.Close()
}
