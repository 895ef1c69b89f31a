package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// GoalFilters defines list filters. Empty values match everything.
type GoalFilters struct {
	Status   string
	Category string
	Search   string
}

// GoalRepo handles goals.
type GoalRepo struct {
	db DBTX
}

func NewGoalRepo(db DBTX) *GoalRepo { return &GoalRepo{db: db} }

const goalColumns = "id, title, description, category, status, progress, target_count, target_date, completed_at, created_at, updated_at"

func (r *GoalRepo) Insert(ctx context.Context, g Goal) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO goals(id, title, description, category, status, progress, target_count, target_date, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, g.ID, g.Title, g.Description, g.Category, g.Status, g.Progress, g.TargetCount, g.TargetDate)
	return err
}

func (r *GoalRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE goals SET progress = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, progress, id)
	return err
}

// UpdateStatus sets status and stamps completed_at when the goal is completed.
func (r *GoalRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE goals SET status = ?,
	 completed_at = CASE WHEN ? = 'completed' THEN CURRENT_TIMESTAMP ELSE NULL END,
	 updated_at=CURRENT_TIMESTAMP
	WHERE id = ?`, status, status, id)
	return err
}

func (r *GoalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	return err
}

func (r *GoalRepo) List(ctx context.Context, f GoalFilters) ([]Goal, error) {
	var where []string
	var args []interface{}

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := "SELECT " + goalColumns + " FROM goals"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY CASE status WHEN 'active' THEN 0 WHEN 'completed' THEN 1 ELSE 2 END, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Get returns nil when the goal does not exist.
func (r *GoalRepo) Get(ctx context.Context, id string) (*Goal, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func scanGoal(row scanner) (Goal, error) {
	var g Goal
	var target, completed sql.NullTime
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Category, &g.Status, &g.Progress,
		&g.TargetCount, &target, &completed, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return Goal{}, err
	}
	g.TargetDate = timePtr(target)
	g.CompletedAt = timePtr(completed)
	return g, nil
}
