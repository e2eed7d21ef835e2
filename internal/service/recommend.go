package service

import (
	"codeforces-tracker/internal/aggregate"
	"codeforces-tracker/internal/constants"
	"codeforces-tracker/internal/recommend"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type RecommendService struct {
	cf      CodeforcesAPI
	catalog CatalogSource
	policy  recommend.Policy
	logger  zerolog.Logger
	now     func() time.Time
}

func NewRecommendService(cf CodeforcesAPI, catalog CatalogSource, policy recommend.Policy, logger zerolog.Logger) *RecommendService {
	return &RecommendService{cf: cf, catalog: catalog, policy: policy, logger: logger, now: time.Now}
}

type Recommendations struct {
	Handle        string
	AverageRating float64
	WeakTags      []string
	Problems      []recommend.RankedProblem
}

func (s *RecommendService) Recommend(ctx context.Context, handle string, filters recommend.Filters) (*Recommendations, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	if err := filters.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	snap, err := fetch(ctx, s.cf, s.catalog, handle, fetchPlan{status: true, catalog: true})
	if err != nil {
		s.logger.Error().Err(err).Str("handle", handle).Msg("failed to load recommendation inputs")
		return nil, err
	}

	agg := aggregate.BuildAt(snap.submissions, snap.catalog, s.now())
	ranked := recommend.Recommend(agg, snap.catalog, filters, s.policy)

	average := agg.AverageSolvedRating
	if average == 0 {
		average = s.policy.DefaultRating
	}

	s.logger.Debug().
		Str("handle", handle).
		Int("candidates", snap.catalog.Len()).
		Int("returned", len(ranked)).
		Msg("recommendations ranked")

	return &Recommendations{
		Handle:        handle,
		AverageRating: average,
		WeakTags:      recommend.WeakTags(agg, s.policy),
		Problems:      ranked,
	}, nil
}
