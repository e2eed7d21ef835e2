package db

import (
	"context"
	"database/sql"
	"time"
)

const goalColumns = `id, title, type, target, current, deadline, description, status, progress, created_at, updated_at`

func scanGoal(row interface{ Scan(...interface{}) error }) (Goal, error) {
	var i Goal
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Type,
		&i.Target,
		&i.Current,
		&i.Deadline,
		&i.Description,
		&i.Status,
		&i.Progress,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createGoal = `-- name: CreateGoal :one
INSERT INTO goals (
    id, title, type, target, current, deadline, description, status, progress, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + goalColumns

type CreateGoalParams struct {
	ID          string
	Title       string
	Type        string
	Target      int64
	Current     int64
	Deadline    sql.NullTime
	Description string
	Status      string
	Progress    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateGoal(ctx context.Context, arg CreateGoalParams) (Goal, error) {
	row := q.db.QueryRowContext(ctx, createGoal,
		arg.ID,
		arg.Title,
		arg.Type,
		arg.Target,
		arg.Current,
		arg.Deadline,
		arg.Description,
		arg.Status,
		arg.Progress,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanGoal(row)
}

const getGoal = `-- name: GetGoal :one
SELECT ` + goalColumns + ` FROM goals WHERE id = ?`

func (q *Queries) GetGoal(ctx context.Context, id string) (Goal, error) {
	row := q.db.QueryRowContext(ctx, getGoal, id)
	return scanGoal(row)
}

const listGoals = `-- name: ListGoals :many
SELECT ` + goalColumns + ` FROM goals ORDER BY created_at DESC, id`

func (q *Queries) ListGoals(ctx context.Context) ([]Goal, error) {
	return q.queryGoals(ctx, listGoals)
}

const listGoalsByStatus = `-- name: ListGoalsByStatus :many
SELECT ` + goalColumns + ` FROM goals WHERE status = ? ORDER BY created_at DESC, id`

func (q *Queries) ListGoalsByStatus(ctx context.Context, status string) ([]Goal, error) {
	return q.queryGoals(ctx, listGoalsByStatus, status)
}

func (q *Queries) queryGoals(ctx context.Context, query string, args ...interface{}) ([]Goal, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Goal
	for rows.Next() {
		i, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateGoal = `-- name: UpdateGoal :one
UPDATE goals
SET title = ?, type = ?, target = ?, deadline = ?, description = ?, status = ?, updated_at = ?
WHERE id = ?
RETURNING ` + goalColumns

type UpdateGoalParams struct {
	Title       string
	Type        string
	Target      int64
	Deadline    sql.NullTime
	Description string
	Status      string
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdateGoal(ctx context.Context, arg UpdateGoalParams) (Goal, error) {
	row := q.db.QueryRowContext(ctx, updateGoal,
		arg.Title,
		arg.Type,
		arg.Target,
		arg.Deadline,
		arg.Description,
		arg.Status,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanGoal(row)
}

const updateGoalProgress = `-- name: UpdateGoalProgress :one
UPDATE goals
SET current = ?, status = ?, progress = ?, updated_at = ?
WHERE id = ?
RETURNING ` + goalColumns

type UpdateGoalProgressParams struct {
	Current   int64
	Status    string
	Progress  string
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateGoalProgress(ctx context.Context, arg UpdateGoalProgressParams) (Goal, error) {
	row := q.db.QueryRowContext(ctx, updateGoalProgress,
		arg.Current,
		arg.Status,
		arg.Progress,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanGoal(row)
}

const markOverdueGoals = `-- name: MarkOverdueGoals :execrows
UPDATE goals
SET status = 'overdue', updated_at = ?
WHERE status = 'active' AND deadline IS NOT NULL AND deadline < ?`

type MarkOverdueGoalsParams struct {
	UpdatedAt time.Time
	Now       time.Time
}

func (q *Queries) MarkOverdueGoals(ctx context.Context, arg MarkOverdueGoalsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markOverdueGoals, arg.UpdatedAt, arg.Now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteGoal = `-- name: DeleteGoal :execrows
DELETE FROM goals WHERE id = ?`

func (q *Queries) DeleteGoal(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteGoal, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
