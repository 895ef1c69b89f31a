package repository

import (
	"context"
	"database/sql"
	"time"
)

// MoodRepo handles mood check-ins.
type MoodRepo struct {
	db DBTX
}

func NewMoodRepo(db DBTX) *MoodRepo { return &MoodRepo{db: db} }

func (r *MoodRepo) Insert(ctx context.Context, m MoodEntry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO mood_entries(id, score, energy, note, tags, recorded_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, m.ID, m.Score, m.Energy, m.Note, joinList(m.Tags), m.RecordedAt.UTC())
	return err
}

func (r *MoodRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = ?`, id)
	return err
}

// RecordedTimes returns the time of every check-in, newest first.
func (r *MoodRepo) RecordedTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT recorded_at FROM mood_entries ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListSince returns entries recorded at or after since, newest first. A zero since
// returns everything.
func (r *MoodRepo) ListSince(ctx context.Context, since time.Time) ([]MoodEntry, error) {
	query := `SELECT id, score, energy, note, tags, recorded_at, created_at FROM mood_entries`
	var args []interface{}
	if !since.IsZero() {
		query += ` WHERE recorded_at >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY recorded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MoodEntry
	for rows.Next() {
		var m MoodEntry
		var energy sql.NullInt64
		var tags string
		if err := rows.Scan(&m.ID, &m.Score, &energy, &m.Note, &tags, &m.RecordedAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if energy.Valid {
			e := int(energy.Int64)
			m.Energy = &e
		}
		m.Tags = splitList(tags)
		out = append(out, m)
	}
	return out, rows.Err()
}
