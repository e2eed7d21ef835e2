package service

import (
	"codeforces-tracker/internal/domain"
	"codeforces-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const DefaultThemeID = "system"

var colorValue = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

var presetThemes = []domain.Theme{
	{ID: "system", Name: "System Default", Description: "Follows your system preferences", Colors: map[string]string{}},
	{ID: "light", Name: "Light Mode", Description: "Clean and bright interface", Colors: map[string]string{
		"bg-primary": "#ffffff", "bg-secondary": "#f8fafc", "bg-tertiary": "#f1f5f9",
		"text-primary": "#1e293b", "text-secondary": "#475569", "text-muted": "#64748b",
		"border-color": "#e2e8f0", "accent-color": "#3b82f6",
	}},
	{ID: "dark", Name: "Dark Mode", Description: "Easy on the eyes", Colors: map[string]string{
		"bg-primary": "#0f172a", "bg-secondary": "#1e293b", "bg-tertiary": "#334155",
		"text-primary": "#f1f5f9", "text-secondary": "#cbd5e1", "text-muted": "#94a3b8",
		"border-color": "#475569", "accent-color": "#60a5fa",
	}},
	{ID: "codeforces", Name: "Codeforces Classic", Description: "Inspired by Codeforces colors", Colors: map[string]string{
		"bg-primary": "#ffffff", "bg-secondary": "#f7f9fc", "bg-tertiary": "#eef2f7",
		"text-primary": "#2c3e50", "text-secondary": "#34495e", "text-muted": "#7f8c8d",
		"border-color": "#bdc3c7", "accent-color": "#3498db",
	}},
	{ID: "hacker", Name: "Hacker Terminal", Description: "Green terminal vibes", Colors: map[string]string{
		"bg-primary": "#0d1117", "bg-secondary": "#161b22", "bg-tertiary": "#21262d",
		"text-primary": "#00ff00", "text-secondary": "#7dff7d", "text-muted": "#4d9950",
		"border-color": "#30363d", "accent-color": "#00ff00",
	}},
	{ID: "purple", Name: "Purple Dreams", Description: "Purple gradient theme", Colors: map[string]string{
		"bg-primary": "#faf5ff", "bg-secondary": "#f3e8ff", "bg-tertiary": "#e9d5ff",
		"text-primary": "#581c87", "text-secondary": "#7c3aed", "text-muted": "#a855f7",
		"border-color": "#c4b5fd", "accent-color": "#8b5cf6",
	}},
	{ID: "ocean", Name: "Ocean Blue", Description: "Calm ocean colors", Colors: map[string]string{
		"bg-primary": "#f0f9ff", "bg-secondary": "#e0f2fe", "bg-tertiary": "#bae6fd",
		"text-primary": "#0c4a6e", "text-secondary": "#0369a1", "text-muted": "#0284c7",
		"border-color": "#7dd3fc", "accent-color": "#0ea5e9",
	}},
}

// Presets returns copies of the built-in themes.
func Presets() []domain.Theme {
	out := make([]domain.Theme, len(presetThemes))
	for i, t := range presetThemes {
		t.BuiltIn = true
		colors := make(map[string]string, len(t.Colors))
		for k, v := range t.Colors {
			colors[k] = v
		}
		t.Colors = colors
		out[i] = t
	}
	return out
}

func preset(id string) (domain.Theme, bool) {
	for _, t := range Presets() {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Theme{}, false
}

type ThemeService struct {
	repo   *repository.ThemeRepository
	logger zerolog.Logger
}

func NewThemeService(repo *repository.ThemeRepository, logger zerolog.Logger) *ThemeService {
	return &ThemeService{repo: repo, logger: logger}
}

type ThemeInput struct {
	ID          string // empty creates a new theme
	Name        string
	Description string
	Colors      map[string]string
}

// List returns the presets followed by the stored custom themes.
func (s *ThemeService) List(ctx context.Context) ([]domain.Theme, error) {
	custom, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list themes")
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	return append(Presets(), custom...), nil
}

func (s *ThemeService) Save(ctx context.Context, in ThemeInput) (*domain.Theme, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: theme name is required", ErrInvalidArgument)
	}
	if _, ok := preset(in.ID); ok {
		return nil, fmt.Errorf("%w: built-in theme %s cannot be modified", ErrInvalidArgument, in.ID)
	}
	for name, value := range in.Colors {
		if strings.TrimSpace(name) == "" || !colorValue.MatchString(value) {
			return nil, fmt.Errorf("%w: invalid color %q for %q", ErrInvalidArgument, value, name)
		}
	}
	if in.ID != "" {
		if _, err := s.repo.Get(ctx, in.ID); err != nil {
			return nil, s.wrap(err, "failed to get theme")
		}
	}

	theme, err := s.repo.Save(ctx, &domain.Theme{
		ID:          in.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Colors:      in.Colors,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to save theme")
		return nil, err
	}

	s.logger.Info().Str("theme_id", theme.ID).Str("name", theme.Name).Msg("theme saved")
	return theme, nil
}

// Delete removes a custom theme. Deleting the selected theme falls back to
// the default.
func (s *ThemeService) Delete(ctx context.Context, id string) error {
	if _, ok := preset(id); ok {
		return fmt.Errorf("%w: built-in theme %s cannot be deleted", ErrInvalidArgument, id)
	}
	cleared, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.wrap(err, "failed to delete theme")
	}
	if cleared {
		s.logger.Debug().Str("theme_id", id).Msg("selected theme deleted, reverting to default")
	}
	return nil
}

func (s *ThemeService) Select(ctx context.Context, id string) (*domain.Theme, error) {
	theme, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetSelected(ctx, theme.ID); err != nil {
		return nil, fmt.Errorf("failed to select theme: %w", err)
	}
	return theme, nil
}

// Selected returns the selected theme. A missing or unreadable selection
// yields the default theme.
func (s *ThemeService) Selected(ctx context.Context) (*domain.Theme, error) {
	id, err := s.repo.Selected(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read selected theme: %w", err)
	}
	if id == "" {
		id = DefaultThemeID
	}

	theme, err := s.resolve(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("theme_id", id).Msg("selected theme unavailable, using default")
		def, _ := preset(DefaultThemeID)
		return &def, nil
	}
	return theme, nil
}

func (s *ThemeService) resolve(ctx context.Context, id string) (*domain.Theme, error) {
	if t, ok := preset(id); ok {
		return &t, nil
	}
	theme, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get theme")
	}
	return theme, nil
}

func (s *ThemeService) wrap(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
