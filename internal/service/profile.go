package service

import (
	"codeforces-tracker/internal/aggregate"
	"codeforces-tracker/internal/constants"
	"codeforces-tracker/internal/domain"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

type ProfileService struct {
	cf      CodeforcesAPI
	catalog CatalogSource
	logger  zerolog.Logger
	now     func() time.Time
}

func NewProfileService(cf CodeforcesAPI, catalog CatalogSource, logger zerolog.Logger) *ProfileService {
	return &ProfileService{cf: cf, catalog: catalog, logger: logger, now: time.Now}
}

type RatingHistory struct {
	Changes   []domain.RatingChange
	MaxRating int
	MinRating int
	BestRank  int
	Contests  int
}

// Profile is every dashboard projection of one handle, built from a single
// aggregate.
type Profile struct {
	User          domain.User
	RatingHistory RatingHistory
	Aggregate     *aggregate.Aggregate
	Heatmap       []aggregate.DayCell
	Streaks       aggregate.Streaks
	FetchedAt     time.Time
}

type HeatmapView struct {
	Handle  string
	Cells   []aggregate.DayCell
	Weeks   [][]aggregate.DayCell
	Streaks aggregate.Streaks
}

type ShareCard struct {
	Title string
	Text  string
	URL   string
}

func (s *ProfileService) GetProfile(ctx context.Context, handle string) (*Profile, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	start := s.now()
	snap, err := fetch(ctx, s.cf, s.catalog, handle, fetchPlan{info: true, rating: true, status: true, catalog: true})
	if err != nil {
		s.logger.Error().Err(err).Str("handle", handle).Msg("failed to load profile")
		return nil, err
	}

	now := s.now()
	agg := aggregate.BuildAt(snap.submissions, snap.catalog, now)
	cells := aggregate.ComputeHeatmap(snap.submissions, constants.HeatmapWindowDays, now)

	profile := &Profile{
		User:          snap.user,
		RatingHistory: buildRatingHistory(snap.ratings),
		Aggregate:     agg,
		Heatmap:       cells,
		Streaks:       aggregate.ComputeStreaks(cells),
		FetchedAt:     now,
	}

	s.logger.Info().
		Str("handle", handle).
		Int("submissions", agg.TotalSubmissions).
		Int("solved", agg.SolvedCount()).
		Int("contests", profile.RatingHistory.Contests).
		Dur("took", now.Sub(start)).
		Msg("profile built")

	return profile, nil
}

// GetHeatmap fetches only the submission list; the heatmap needs neither the
// catalog nor the rating history.
func (s *ProfileService) GetHeatmap(ctx context.Context, handle string, windowDays int) (*HeatmapView, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	if windowDays < 0 || windowDays > constants.HeatmapWindowDays {
		return nil, fmt.Errorf("%w: window must be between 1 and %d days", ErrInvalidArgument, constants.HeatmapWindowDays)
	}
	if windowDays == 0 {
		windowDays = constants.HeatmapWindowDays
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := fetch(ctx, s.cf, nil, handle, fetchPlan{status: true})
	if err != nil {
		s.logger.Error().Err(err).Str("handle", handle).Msg("failed to load heatmap")
		return nil, err
	}

	cells := aggregate.ComputeHeatmap(snap.submissions, windowDays, s.now())
	return &HeatmapView{
		Handle:  handle,
		Cells:   cells,
		Weeks:   aggregate.Weeks(cells),
		Streaks: aggregate.ComputeStreaks(cells),
	}, nil
}

func buildRatingHistory(changes []domain.RatingChange) RatingHistory {
	h := RatingHistory{Changes: changes, Contests: len(changes)}
	for i, c := range changes {
		if i == 0 || c.NewRating > h.MaxRating {
			h.MaxRating = c.NewRating
		}
		if i == 0 || c.NewRating < h.MinRating {
			h.MinRating = c.NewRating
		}
		if c.Rank > 0 && (h.BestRank == 0 || c.Rank < h.BestRank) {
			h.BestRank = c.Rank
		}
	}
	return h
}

// ShareText renders the plain-text share card for a profile.
func ShareText(p *Profile) ShareCard {
	handle := p.User.Handle
	return ShareCard{
		Title: fmt.Sprintf("%s's Codeforces Profile", handle),
		Text: fmt.Sprintf("Check out %s's Codeforces profile with %d rating and %d max rating! %d problems solved, %.1f%% acceptance.",
			handle, p.User.Rating, p.User.MaxRating, p.Aggregate.SolvedCount(), p.Aggregate.AcceptanceRate),
		URL: "https://codeforces.com/profile/" + url.PathEscape(handle),
	}
}

// SolvedList lists distinct solved problems, most recently solved first.
func SolvedList(agg *aggregate.Aggregate, limit int) []aggregate.SolvedProblem {
	if agg == nil {
		return nil
	}
	if limit <= 0 {
		limit = constants.SolvedListLimit
	}
	return agg.RecentSolved(limit)
}
