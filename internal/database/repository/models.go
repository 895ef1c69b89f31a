package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so services can run repos inside a
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Goal statuses.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalArchived  = "archived"
)

// Session statuses and modalities.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"

	ModalityVideo    = "video"
	ModalityPhone    = "phone"
	ModalityInPerson = "in_person"
)

// Notification kinds.
const (
	NotifyWelcome  = "welcome"
	NotifySession  = "session"
	NotifyGoal     = "goal"
	NotifyCheckIn  = "checkin"
	NotifyReminder = "reminder"
)

// Profile represents the single local client profile.
type Profile struct {
	ID               string
	DisplayName      string
	Pronouns         string
	FocusAreas       []string
	SessionFrequency string
	ReminderTime     string
	Consented        bool
	OnboardedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FocusArea is an entry of the focus area catalogue offered during onboarding.
type FocusArea struct {
	ID        string
	Name      string
	SortOrder int
}

// Goal represents a goal row.
type Goal struct {
	ID          string
	Title       string
	Description string
	Category    string
	Status      string
	Progress    int
	TargetCount int
	TargetDate  *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MoodEntry represents one check-in.
type MoodEntry struct {
	ID         string
	Score      int
	Energy     *int
	Note       string
	Tags       []string
	RecordedAt time.Time
	CreatedAt  time.Time
}

// Session represents a booked therapy session.
type Session struct {
	ID              string
	Therapist       string
	StartsAt        time.Time
	DurationMinutes int
	Modality        string
	Status          string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Notification represents an in-app notification.
type Notification struct {
	ID        string
	Kind      string
	Title     string
	Body      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
