package service

import (
	"codeforces-tracker/internal/aggregate"
	"codeforces-tracker/internal/constants"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type CompareService struct {
	cf     CodeforcesAPI
	logger zerolog.Logger
	now    func() time.Time
}

func NewCompareService(cf CodeforcesAPI, logger zerolog.Logger) *CompareService {
	return &CompareService{cf: cf, logger: logger, now: time.Now}
}

type UserStats struct {
	Handle            string
	Rank              string
	Rating            int
	MaxRating         int
	Solved            int
	TotalSubmissions  int
	AcceptanceRate    float64
	DifficultyBuckets map[string]int
	LanguageCounts    map[string]int
}

type BucketDelta struct {
	Bucket string
	A      int
	B      int
	Delta  int // A - B
}

// RadarMetric is a metric scaled to the larger of the two sides, in percent.
type RadarMetric struct {
	Metric string
	A      float64
	B      float64
}

type Comparison struct {
	A, B         UserStats
	CommonSolved int
	OnlyA        int
	OnlyB        int
	Buckets      []BucketDelta
	Radar        []RadarMetric
}

func (s *CompareService) Compare(ctx context.Context, handleA, handleB string) (*Comparison, error) {
	handleA, err := normalizeHandle(handleA)
	if err != nil {
		return nil, err
	}
	handleB, err = normalizeHandle(handleB)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(handleA, handleB) {
		return nil, fmt.Errorf("%w: cannot compare %s with itself", ErrInvalidArgument, handleA)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var snapA, snapB *snapshot

	g.Go(func() error {
		var err error
		snapA, err = fetch(gCtx, s.cf, nil, handleA, fetchPlan{info: true, status: true})
		return err
	})
	g.Go(func() error {
		var err error
		snapB, err = fetch(gCtx, s.cf, nil, handleB, fetchPlan{info: true, status: true})
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("a", handleA).Str("b", handleB).Msg("failed to compare users")
		return nil, err
	}

	now := s.now()
	aggA := aggregate.BuildAt(snapA.submissions, nil, now)
	aggB := aggregate.BuildAt(snapB.submissions, nil, now)

	cmp := &Comparison{
		A: userStats(snapA, aggA),
		B: userStats(snapB, aggB),
	}

	for key := range aggA.Solved {
		if aggB.IsSolved(key) {
			cmp.CommonSolved++
		} else {
			cmp.OnlyA++
		}
	}
	cmp.OnlyB = aggB.SolvedCount() - cmp.CommonSolved

	for _, label := range aggregate.BucketLabels {
		a, b := aggA.DifficultyBuckets[label], aggB.DifficultyBuckets[label]
		cmp.Buckets = append(cmp.Buckets, BucketDelta{Bucket: label, A: a, B: b, Delta: a - b})
	}

	cmp.Radar = []RadarMetric{
		scaled("Total Solved", cmp.A.Solved, cmp.B.Solved),
		scaled("Rating", cmp.A.Rating, cmp.B.Rating),
		scaled("Max Rating", cmp.A.MaxRating, cmp.B.MaxRating),
		{Metric: "Acceptance Rate", A: cmp.A.AcceptanceRate, B: cmp.B.AcceptanceRate},
		scaled("Submissions", cmp.A.TotalSubmissions, cmp.B.TotalSubmissions),
	}

	s.logger.Info().
		Str("a", handleA).
		Str("b", handleB).
		Int("common", cmp.CommonSolved).
		Msg("users compared")

	return cmp, nil
}

func userStats(snap *snapshot, agg *aggregate.Aggregate) UserStats {
	return UserStats{
		Handle:            snap.user.Handle,
		Rank:              snap.user.Rank,
		Rating:            snap.user.Rating,
		MaxRating:         snap.user.MaxRating,
		Solved:            agg.SolvedCount(),
		TotalSubmissions:  agg.TotalSubmissions,
		AcceptanceRate:    agg.AcceptanceRate,
		DifficultyBuckets: agg.DifficultyBuckets,
		LanguageCounts:    agg.LanguageCounts,
	}
}

func scaled(metric string, a, b int) RadarMetric {
	top := max(a, b)
	if top <= 0 {
		return RadarMetric{Metric: metric}
	}
	return RadarMetric{
		Metric: metric,
		A:      float64(a) / float64(top) * 100,
		B:      float64(b) / float64(top) * 100,
	}
}
