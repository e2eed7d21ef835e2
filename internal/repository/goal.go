package repository

import (
	"codeforces-tracker/internal/db"
	"codeforces-tracker/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("record not found")

type GoalRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewGoalRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GoalRepository {
	return &GoalRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	progress, err := encodeProgress(goal.Progress)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row, err := r.queries.CreateGoal(ctx, db.CreateGoalParams{
		ID:          id,
		Title:       goal.Title,
		Type:        string(goal.Type),
		Target:      int64(goal.Target),
		Current:     int64(goal.Current),
		Deadline:    nullTime(goal.Deadline),
		Description: goal.Description,
		Status:      string(goal.Status),
		Progress:    progress,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	r.logger.Debug().Str("goal_id", id).Str("type", string(goal.Type)).Msg("goal created")
	return r.toDomain(row), nil
}

func (r *GoalRepository) Get(ctx context.Context, id string) (*domain.Goal, error) {
	row, err := r.queries.GetGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.toDomain(row), nil
}

func (r *GoalRepository) List(ctx context.Context) ([]domain.Goal, error) {
	rows, err := r.queries.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	return r.toDomainList(rows), nil
}

func (r *GoalRepository) ListByStatus(ctx context.Context, status domain.GoalStatus) ([]domain.Goal, error) {
	rows, err := r.queries.ListGoalsByStatus(ctx, string(status))
	if err != nil {
		return nil, err
	}
	return r.toDomainList(rows), nil
}

// Update rewrites the editable fields. Current value and progress history
// only change through AppendProgress.
func (r *GoalRepository) Update(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	row, err := r.queries.UpdateGoal(ctx, db.UpdateGoalParams{
		Title:       goal.Title,
		Type:        string(goal.Type),
		Target:      int64(goal.Target),
		Deadline:    nullTime(goal.Deadline),
		Description: goal.Description,
		Status:      string(goal.Status),
		UpdatedAt:   time.Now().UTC(),
		ID:          goal.ID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return r.toDomain(row), nil
}

// AppendProgress records entry as the goal's current value and appends it to
// the history, all in one transaction so concurrent recordings never drop an
// entry. status derives the new status from the updated goal.
func (r *GoalRepository) AppendProgress(ctx context.Context, id string, entry domain.ProgressEntry, status func(domain.Goal) domain.GoalStatus) (*domain.Goal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	row, err := qtx.GetGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal %s: %w", id, err)
	}

	goal := r.toDomain(row)
	goal.Current = entry.Value
	goal.Progress = append(goal.Progress, domain.ProgressEntry{Date: entry.Date.UTC(), Value: entry.Value})
	goal.Status = status(*goal)

	progress, err := encodeProgress(goal.Progress)
	if err != nil {
		return nil, err
	}

	row, err = qtx.UpdateGoalProgress(ctx, db.UpdateGoalProgressParams{
		Current:   int64(goal.Current),
		Status:    string(goal.Status),
		Progress:  progress,
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save goal progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit goal progress: %w", err)
	}
	return r.toDomain(row), nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteGoal(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOverdue flags every active goal whose deadline passed before now.
func (r *GoalRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.queries.MarkOverdueGoals(ctx, db.MarkOverdueGoalsParams{
		UpdatedAt: time.Now().UTC(),
		Now:       now.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue goals: %w", err)
	}
	return n, nil
}

func (r *GoalRepository) toDomainList(rows []db.Goal) []domain.Goal {
	result := make([]domain.Goal, len(rows))
	for i, row := range rows {
		result[i] = *r.toDomain(row)
	}
	return result
}

func (r *GoalRepository) toDomain(row db.Goal) *domain.Goal {
	goal := &domain.Goal{
		ID:          row.ID,
		Title:       row.Title,
		Type:        domain.GoalType(row.Type),
		Target:      int(row.Target),
		Current:     int(row.Current),
		Description: row.Description,
		Status:      domain.GoalStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Deadline.Valid {
		goal.Deadline = row.Deadline.Time
	}

	if row.Progress != "" {
		if err := json.Unmarshal([]byte(row.Progress), &goal.Progress); err != nil {
			r.logger.Warn().Err(err).Str("goal_id", row.ID).Msg("discarding malformed goal progress")
			goal.Progress = nil
		}
	}
	return goal
}

func encodeProgress(entries []domain.ProgressEntry) (string, error) {
	if entries == nil {
		entries = []domain.ProgressEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode progress: %w", err)
	}
	return string(b), nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
