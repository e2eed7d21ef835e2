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

const selectedThemeKey = "selected_theme"

type ThemeRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewThemeRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ThemeRepository {
	return &ThemeRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Save inserts a custom theme, or replaces it when theme.ID is already set.
func (r *ThemeRepository) Save(ctx context.Context, theme *domain.Theme) (*domain.Theme, error) {
	id := theme.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	colors, err := json.Marshal(theme.Colors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode theme colors: %w", err)
	}

	now := time.Now().UTC()
	row, err := r.queries.UpsertTheme(ctx, db.UpsertThemeParams{
		ID:          id,
		Name:        theme.Name,
		Description: theme.Description,
		Colors:      string(colors),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save theme: %w", err)
	}

	saved, err := toDomainTheme(row)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *ThemeRepository) Get(ctx context.Context, id string) (*domain.Theme, error) {
	row, err := r.queries.GetTheme(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainTheme(row)
}

// List returns every stored theme whose colors decode. Broken rows are
// skipped with a warning.
func (r *ThemeRepository) List(ctx context.Context) ([]domain.Theme, error) {
	rows, err := r.queries.ListThemes(ctx)
	if err != nil {
		return nil, err
	}

	themes := make([]domain.Theme, 0, len(rows))
	for _, row := range rows {
		theme, err := toDomainTheme(row)
		if err != nil {
			r.logger.Warn().Err(err).Str("theme_id", row.ID).Msg("skipping malformed theme")
			continue
		}
		themes = append(themes, *theme)
	}
	return themes, nil
}

// Delete removes a custom theme and, in the same transaction, clears the
// selection when it pointed at that theme. It reports whether the selection
// was cleared.
func (r *ThemeRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	n, err := qtx.DeleteTheme(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete theme: %w", err)
	}
	if n == 0 {
		return false, ErrNotFound
	}

	cleared := false
	pref, err := qtx.GetPreference(ctx, selectedThemeKey)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("failed to read theme selection: %w", err)
	case pref.Value == id:
		if err := qtx.DeletePreference(ctx, selectedThemeKey); err != nil {
			return false, fmt.Errorf("failed to clear theme selection: %w", err)
		}
		cleared = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return cleared, nil
}

// Selected returns the selected theme id, or "" when none was chosen.
func (r *ThemeRepository) Selected(ctx context.Context) (string, error) {
	pref, err := r.queries.GetPreference(ctx, selectedThemeKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}

func (r *ThemeRepository) SetSelected(ctx context.Context, id string) error {
	if id == "" {
		return r.queries.DeletePreference(ctx, selectedThemeKey)
	}
	return r.queries.UpsertPreference(ctx, db.UpsertPreferenceParams{
		Key:       selectedThemeKey,
		Value:     id,
		UpdatedAt: time.Now().UTC(),
	})
}

func toDomainTheme(row db.Theme) (*domain.Theme, error) {
	var colors map[string]string
	if err := json.Unmarshal([]byte(row.Colors), &colors); err != nil {
		return nil, fmt.Errorf("failed to decode theme colors: %w", err)
	}
	return &domain.Theme{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Colors:      colors,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
