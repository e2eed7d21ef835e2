package repository

import (
	"codeforces-tracker/internal/database"
	"codeforces-tracker/internal/db"
	"codeforces-tracker/internal/domain"
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "prefs.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func newGoalRepo(t *testing.T) (*GoalRepository, *sql.DB) {
	sqlDB := openTestDB(t)
	return NewGoalRepository(sqlDB, db.New(sqlDB), zerolog.Nop()), sqlDB
}

func TestGoalCreateAndGet(t *testing.T) {
	repo, _ := newGoalRepo(t)
	ctx := context.Background()
	deadline := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, &domain.Goal{
		Title:    "Reach expert",
		Type:     domain.GoalRating,
		Target:   1600,
		Current:  1450,
		Deadline: deadline,
		Status:   domain.GoalActive,
		Progress: []domain.ProgressEntry{{Date: deadline.AddDate(0, -6, 0), Value: 1450}},
	})
	require.NoError(t, err)
	assert.Len(t, created.ID, 21)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reach expert", got.Title)
	assert.Equal(t, domain.GoalRating, got.Type)
	assert.Equal(t, 1600, got.Target)
	assert.True(t, deadline.Equal(got.Deadline))
	require.Len(t, got.Progress, 1)
	assert.Equal(t, 1450, got.Progress[0].Value)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoalWithoutDeadline(t *testing.T) {
	repo, _ := newGoalRepo(t)

	created, err := repo.Create(context.Background(), &domain.Goal{Title: "Solve 500", Type: domain.GoalProblems, Target: 500, Status: domain.GoalActive})
	require.NoError(t, err)

	assert.True(t, created.Deadline.IsZero())
	assert.Empty(t, created.Progress)
}

func TestGoalUpdateAndProgress(t *testing.T) {
	repo, _ := newGoalRepo(t)
	ctx := context.Background()

	goal, err := repo.Create(ctx, &domain.Goal{Title: "Streak", Type: domain.GoalStreak, Target: 30, Status: domain.GoalActive})
	require.NoError(t, err)

	goal.Title = "Month streak"
	goal.Target = 31
	updated, err := repo.Update(ctx, goal)
	require.NoError(t, err)
	assert.Equal(t, "Month streak", updated.Title)
	assert.Equal(t, 31, updated.Target)

	completeAt := func(g domain.Goal) domain.GoalStatus {
		if g.Current >= g.Target {
			return domain.GoalCompleted
		}
		return domain.GoalActive
	}
	saved, err := repo.AppendProgress(ctx, goal.ID, domain.ProgressEntry{Date: time.Now(), Value: 31}, completeAt)
	require.NoError(t, err)
	assert.Equal(t, 31, saved.Current)
	assert.Equal(t, domain.GoalCompleted, saved.Status)
	assert.Len(t, saved.Progress, 1)

	_, err = repo.AppendProgress(ctx, "missing", domain.ProgressEntry{Date: time.Now(), Value: 1}, completeAt)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, &domain.Goal{ID: "missing", Type: domain.GoalStreak, Status: domain.GoalActive})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoalAppendProgressConcurrent(t *testing.T) {
	repo, _ := newGoalRepo(t)
	ctx := context.Background()

	goal, err := repo.Create(ctx, &domain.Goal{Title: "Grind", Type: domain.GoalProblems, Target: 1000, Status: domain.GoalActive})
	require.NoError(t, err)

	active := func(domain.Goal) domain.GoalStatus { return domain.GoalActive }

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := repo.AppendProgress(ctx, goal.ID, domain.ProgressEntry{Date: time.Now(), Value: v}, active)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.Len(t, got.Progress, 8)
}

func TestGoalDelete(t *testing.T) {
	repo, _ := newGoalRepo(t)
	ctx := context.Background()

	goal, err := repo.Create(ctx, &domain.Goal{Title: "x", Type: domain.GoalContests, Target: 5, Status: domain.GoalActive})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, goal.ID))
	assert.ErrorIs(t, repo.Delete(ctx, goal.ID), ErrNotFound)

	goals, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestGoalMalformedProgressFailsSoft(t *testing.T) {
	repo, sqlDB := newGoalRepo(t)
	ctx := context.Background()

	goal, err := repo.Create(ctx, &domain.Goal{Title: "x", Type: domain.GoalProblems, Target: 10, Status: domain.GoalActive})
	require.NoError(t, err)

	_, err = sqlDB.Exec(`UPDATE goals SET progress = '{not json' WHERE id = ?`, goal.ID)
	require.NoError(t, err)

	got, err := repo.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Progress)
	assert.Equal(t, 10, got.Target)
}

func TestGoalMarkOverdue(t *testing.T) {
	repo, _ := newGoalRepo(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)

	past, err := repo.Create(ctx, &domain.Goal{Title: "past", Type: domain.GoalProblems, Target: 10, Deadline: now.AddDate(0, 0, -1), Status: domain.GoalActive})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Goal{Title: "future", Type: domain.GoalProblems, Target: 10, Deadline: now.AddDate(0, 0, 1), Status: domain.GoalActive})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Goal{Title: "done", Type: domain.GoalProblems, Target: 10, Deadline: now.AddDate(0, 0, -1), Status: domain.GoalCompleted})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Goal{Title: "open", Type: domain.GoalProblems, Target: 10, Status: domain.GoalActive})
	require.NoError(t, err)

	n, err := repo.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	overdue, err := repo.ListByStatus(ctx, domain.GoalOverdue)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, past.ID, overdue[0].ID)
}

func newThemeRepo(t *testing.T) (*ThemeRepository, *sql.DB) {
	sqlDB := openTestDB(t)
	return NewThemeRepository(sqlDB, db.New(sqlDB), zerolog.Nop()), sqlDB
}

func TestThemeSaveAndList(t *testing.T) {
	repo, sqlDB := newThemeRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Theme{Name: "Midnight", Colors: map[string]string{"--bg-primary": "#000000"}})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	saved.Name = "Midnight Blue"
	saved.Colors["--accent"] = "#0000ff"
	resaved, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, resaved.ID)
	assert.Equal(t, "Midnight Blue", resaved.Name)
	assert.Len(t, resaved.Colors, 2)

	_, err = sqlDB.Exec(`INSERT INTO themes (id, name, colors, created_at, updated_at) VALUES ('broken', 'Broken', 'nope', ?, ?)`, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)

	themes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, saved.ID, themes[0].ID)

	_, err = repo.Get(ctx, "broken")
	assert.Error(t, err)
}

func TestThemeDelete(t *testing.T) {
	repo, _ := newThemeRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Theme{Name: "Tmp", Colors: map[string]string{}})
	require.NoError(t, err)

	other, err := repo.Save(ctx, &domain.Theme{Name: "Other", Colors: map[string]string{}})
	require.NoError(t, err)
	require.NoError(t, repo.SetSelected(ctx, saved.ID))

	cleared, err := repo.Delete(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, cleared)

	cleared, err = repo.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, cleared)

	_, err = repo.Delete(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := repo.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestThemeSelection(t *testing.T) {
	repo, _ := newThemeRepo(t)
	ctx := context.Background()

	id, err := repo.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.SetSelected(ctx, "dark"))
	require.NoError(t, repo.SetSelected(ctx, "hacker"))
	id, err = repo.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hacker", id)

	require.NoError(t, repo.SetSelected(ctx, ""))
	id, err = repo.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}
