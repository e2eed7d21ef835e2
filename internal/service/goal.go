package service

import (
	"codeforces-tracker/internal/domain"
	"codeforces-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ProfileLoader interface {
	GetProfile(ctx context.Context, handle string) (*Profile, error)
}

type GoalService struct {
	repo     *repository.GoalRepository
	profiles ProfileLoader
	logger   zerolog.Logger
	now      func() time.Time
}

func NewGoalService(repo *repository.GoalRepository, profiles ProfileLoader, logger zerolog.Logger) *GoalService {
	return &GoalService{repo: repo, profiles: profiles, logger: logger, now: time.Now}
}

type GoalInput struct {
	Title       string
	Type        domain.GoalType
	Target      int
	Current     int
	Deadline    time.Time
	Description string
}

func (in GoalInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: goal title is required", ErrInvalidArgument)
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidArgument, in.Type)
	case in.Target <= 0:
		return fmt.Errorf("%w: goal target must be positive", ErrInvalidArgument)
	case in.Current < 0:
		return fmt.Errorf("%w: goal value must not be negative", ErrInvalidArgument)
	case in.Deadline.IsZero():
		return fmt.Errorf("%w: goal deadline is required", ErrInvalidArgument)
	}
	return nil
}

type GoalSummary struct {
	Active    int
	Completed int
	Overdue   int
}

func Summarize(goals []domain.Goal) GoalSummary {
	var s GoalSummary
	for _, g := range goals {
		switch g.Status {
		case domain.GoalActive:
			s.Active++
		case domain.GoalCompleted:
			s.Completed++
		case domain.GoalOverdue:
			s.Overdue++
		}
	}
	return s
}

// GoalStatusFor derives a goal's status: reaching the target completes it,
// otherwise a passed deadline makes it overdue.
func GoalStatusFor(current, target int, deadline, now time.Time) domain.GoalStatus {
	if current >= target {
		return domain.GoalCompleted
	}
	if !deadline.IsZero() && now.After(deadline) {
		return domain.GoalOverdue
	}
	return domain.GoalActive
}

// Percent is the share of the target reached, capped at 100.
func Percent(g domain.Goal) float64 {
	if g.Target <= 0 {
		return 0
	}
	return math.Min(float64(g.Current)/float64(g.Target)*100, 100)
}

// DaysRemaining rounds up to whole days. Negative values count days overdue.
func DaysRemaining(g domain.Goal, now time.Time) int {
	if g.Deadline.IsZero() {
		return 0
	}
	return int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
}

func (s *GoalService) List(ctx context.Context) ([]domain.Goal, error) {
	return s.repo.List(ctx)
}

// ListByStatus lists goals in one status. An empty status lists them all.
func (s *GoalService) ListByStatus(ctx context.Context, status domain.GoalStatus) ([]domain.Goal, error) {
	switch status {
	case "":
		return s.repo.List(ctx)
	case domain.GoalActive, domain.GoalCompleted, domain.GoalOverdue:
		return s.repo.ListByStatus(ctx, status)
	}
	return nil, fmt.Errorf("%w: unknown goal status %q", ErrInvalidArgument, status)
}

func (s *GoalService) Get(ctx context.Context, id string) (*domain.Goal, error) {
	goal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get goal")
	}
	return goal, nil
}

func (s *GoalService) Create(ctx context.Context, in GoalInput) (*domain.Goal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	goal, err := s.repo.Create(ctx, &domain.Goal{
		Title:       strings.TrimSpace(in.Title),
		Type:        in.Type,
		Target:      in.Target,
		Current:     in.Current,
		Deadline:    in.Deadline.UTC(),
		Description: in.Description,
		Status:      GoalStatusFor(in.Current, in.Target, in.Deadline, s.now()),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("title", in.Title).Msg("failed to create goal")
		return nil, err
	}

	s.logger.Info().Str("goal_id", goal.ID).Str("type", string(goal.Type)).Int("target", goal.Target).Msg("goal created")
	return goal, nil
}

// Update edits a goal's definition. The current value is left to
// RecordProgress so the history stays consistent.
func (s *GoalService) Update(ctx context.Context, id string, in GoalInput) (*domain.Goal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	goal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get goal")
	}

	goal.Title = strings.TrimSpace(in.Title)
	goal.Type = in.Type
	goal.Target = in.Target
	goal.Deadline = in.Deadline.UTC()
	goal.Description = in.Description
	goal.Status = GoalStatusFor(goal.Current, goal.Target, goal.Deadline, s.now())

	updated, err := s.repo.Update(ctx, goal)
	if err != nil {
		return nil, s.wrap(err, "failed to update goal")
	}
	return updated, nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, "failed to delete goal")
	}
	s.logger.Info().Str("goal_id", id).Msg("goal deleted")
	return nil
}

// RecordProgress appends a dated progress entry and sets the current value.
func (s *GoalService) RecordProgress(ctx context.Context, id string, value int) (*domain.Goal, error) {
	if value < 0 {
		return nil, fmt.Errorf("%w: progress value must not be negative", ErrInvalidArgument)
	}

	now := s.now().UTC()
	saved, err := s.repo.AppendProgress(ctx, id, domain.ProgressEntry{Date: now, Value: value}, func(g domain.Goal) domain.GoalStatus {
		return GoalStatusFor(g.Current, g.Target, g.Deadline, now)
	})
	if err != nil {
		return nil, s.wrap(err, "failed to record progress")
	}

	s.logger.Debug().Str("goal_id", id).Int("value", value).Str("status", string(saved.Status)).Msg("goal progress recorded")
	return saved, nil
}

// Sync reads the goal's metric off the live profile of handle and records it.
func (s *GoalService) Sync(ctx context.Context, id, handle string) (*domain.Goal, error) {
	goal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to get goal")
	}

	profile, err := s.profiles.GetProfile(ctx, handle)
	if err != nil {
		return nil, err
	}

	var value int
	switch goal.Type {
	case domain.GoalRating:
		value = profile.User.Rating
	case domain.GoalProblems:
		value = profile.Aggregate.SolvedCount()
	case domain.GoalContests:
		value = profile.RatingHistory.Contests
	case domain.GoalStreak:
		value = profile.Streaks.CurrentStreak
	default:
		return nil, fmt.Errorf("%w: goal %s has unknown type %q", ErrInvalidArgument, id, goal.Type)
	}

	return s.RecordProgress(ctx, id, value)
}

// SweepOverdue marks active goals whose deadline has passed.
func (s *GoalService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sweep overdue goals")
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("goals", n).Msg("goals marked overdue")
	}
	return n, nil
}

func (s *GoalService) wrap(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
