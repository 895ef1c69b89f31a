package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// SessionFilters defines list filters.
type SessionFilters struct {
	Status string
	From   time.Time // zero = no lower bound
	To     time.Time // zero = no upper bound
}

// SessionRepo handles booked sessions.
type SessionRepo struct {
	db DBTX
}

func NewSessionRepo(db DBTX) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = "id, therapist, starts_at, duration_minutes, modality, status, notes, created_at, updated_at"

func (r *SessionRepo) Insert(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, therapist, starts_at, duration_minutes, modality, status, notes, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, s.ID, s.Therapist, s.StartsAt.UTC(), s.DurationMinutes, s.Modality, s.Status, s.Notes)
	return err
}

func (r *SessionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

// List returns sessions ordered by start time ascending.
func (r *SessionRepo) List(ctx context.Context, f SessionFilters) ([]Session, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if !f.From.IsZero() {
		where = append(where, "starts_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		where = append(where, "starts_at < ?")
		args = append(args, f.To.UTC())
	}

	query := "SELECT " + sessionColumns + " FROM sessions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY starts_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns nil when the session does not exist.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func scanSession(row scanner) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.Therapist, &s.StartsAt, &s.DurationMinutes, &s.Modality, &s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
