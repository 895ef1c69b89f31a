package repository

import (
	"context"
	"database/sql"
	"errors"
)

// LocalProfileID identifies the single profile stored per database.
const LocalProfileID = "local"

// ProfileRepo handles the client profile.
type ProfileRepo struct {
	db DBTX
}

func NewProfileRepo(db DBTX) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Upsert(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO profiles(id, display_name, pronouns, focus_areas, session_frequency, reminder_time, consented, onboarded_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 display_name=excluded.display_name,
	 pronouns=excluded.pronouns,
	 focus_areas=excluded.focus_areas,
	 session_frequency=excluded.session_frequency,
	 reminder_time=excluded.reminder_time,
	 consented=excluded.consented,
	 onboarded_at=COALESCE(profiles.onboarded_at, excluded.onboarded_at),
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.DisplayName, p.Pronouns, joinList(p.FocusAreas), p.SessionFrequency, p.ReminderTime, p.Consented, p.OnboardedAt)
	return err
}

// Get returns nil when the profile does not exist yet.
func (r *ProfileRepo) Get(ctx context.Context, id string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, display_name, pronouns, focus_areas, session_frequency, reminder_time, consented, onboarded_at, created_at, updated_at FROM profiles WHERE id = ?`, id)
	var p Profile
	var focus string
	var onboarded sql.NullTime
	if err := row.Scan(&p.ID, &p.DisplayName, &p.Pronouns, &focus, &p.SessionFrequency, &p.ReminderTime, &p.Consented, &onboarded, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.FocusAreas = splitList(focus)
	p.OnboardedAt = timePtr(onboarded)
	return &p, nil
}

// FocusAreaRepo handles the focus area catalogue.
type FocusAreaRepo struct {
	db DBTX
}

func NewFocusAreaRepo(db DBTX) *FocusAreaRepo {
	return &FocusAreaRepo{db: db}
}

func (r *FocusAreaRepo) Upsert(ctx context.Context, f FocusArea) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO focus_areas(id, name, sort_order) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, sort_order=excluded.sort_order;
	`, f.ID, f.Name, f.SortOrder)
	return err
}

func (r *FocusAreaRepo) List(ctx context.Context) ([]FocusArea, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sort_order FROM focus_areas ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FocusArea
	for rows.Next() {
		var f FocusArea
		if err := rows.Scan(&f.ID, &f.Name, &f.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
