package db

import (
	"context"
	"time"
)

const upsertTheme = `-- name: UpsertTheme :one
INSERT INTO themes (id, name, description, colors, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    description = excluded.description,
    colors = excluded.colors,
    updated_at = excluded.updated_at
RETURNING id, name, description, colors, created_at, updated_at`

type UpsertThemeParams struct {
	ID          string
	Name        string
	Description string
	Colors      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) UpsertTheme(ctx context.Context, arg UpsertThemeParams) (Theme, error) {
	row := q.db.QueryRowContext(ctx, upsertTheme,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Colors,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Theme
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Colors,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTheme = `-- name: GetTheme :one
SELECT id, name, description, colors, created_at, updated_at FROM themes WHERE id = ?`

func (q *Queries) GetTheme(ctx context.Context, id string) (Theme, error) {
	row := q.db.QueryRowContext(ctx, getTheme, id)
	var i Theme
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Colors,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listThemes = `-- name: ListThemes :many
SELECT id, name, description, colors, created_at, updated_at FROM themes ORDER BY created_at, id`

func (q *Queries) ListThemes(ctx context.Context) ([]Theme, error) {
	rows, err := q.db.QueryContext(ctx, listThemes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Theme
	for rows.Next() {
		var i Theme
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Colors,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
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

const deleteTheme = `-- name: DeleteTheme :execrows
DELETE FROM themes WHERE id = ?`

func (q *Queries) DeleteTheme(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTheme, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
