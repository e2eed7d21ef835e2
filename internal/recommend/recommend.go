// Package recommend ranks catalog problems for a user. The ranking is a
// heuristic driven by a tunable Policy; nothing here promises a problem is
// the right next step, only that it scored well.
package recommend

import (
	"codeforces-tracker/internal/aggregate"
	"codeforces-tracker/internal/catalog"
	"codeforces-tracker/internal/domain"
	"errors"
	"math"
	"sort"
	"strings"
)

type Status string

const (
	StatusUnsolved Status = "unsolved"
	StatusSolved   Status = "solved"
	StatusAll      Status = "all"
)

var (
	ErrUnknownStatus     = errors.New("unknown status filter")
	ErrUnknownDifficulty = errors.New("unknown difficulty preset")
	ErrInvalidRange      = errors.New("invalid rating range")
)

type Range struct {
	Min, Max int
}

var difficulties = map[string]Range{
	"beginner":     {800, 1200},
	"intermediate": {1201, 1600},
	"advanced":     {1601, 2000},
	"expert":       {2001, 4000},
}

// Difficulty resolves a preset name. "" and "all" mean no restriction.
func Difficulty(name string) (Range, bool, error) {
	switch name {
	case "", "all":
		return Range{}, false, nil
	}
	r, ok := difficulties[name]
	if !ok {
		return Range{}, false, ErrUnknownDifficulty
	}
	return r, true, nil
}

type Filters struct {
	Status     Status
	Difficulty string
	// MinRating and MaxRating apply when no preset is given. Zero means open.
	MinRating int
	MaxRating int
	Tags      []string
}

func (f Filters) Validate() error {
	switch f.Status {
	case "", StatusUnsolved, StatusSolved, StatusAll:
	default:
		return ErrUnknownStatus
	}
	if _, _, err := Difficulty(f.Difficulty); err != nil {
		return err
	}
	if f.MinRating < 0 || f.MaxRating < 0 || (f.MaxRating > 0 && f.MinRating > f.MaxRating) {
		return ErrInvalidRange
	}
	return nil
}

func (f Filters) ratingRange() (Range, bool) {
	if r, ok, err := Difficulty(f.Difficulty); err == nil && ok {
		return r, true
	}
	if f.MinRating == 0 && f.MaxRating == 0 {
		return Range{}, false
	}
	r := Range{Min: f.MinRating, Max: f.MaxRating}
	if r.Max == 0 {
		r.Max = math.MaxInt
	}
	return r, true
}

type RankedProblem struct {
	Key       string
	Problem   domain.Problem
	Score     float64
	Reason    string
	WeakTags  []string
	Attempted bool
}

// WeakTags lists the tracked tags the user solved less than WeakRatio times
// as often as their most-solved tag, in tracked order.
func WeakTags(agg *aggregate.Aggregate, policy Policy) []string {
	top := 0
	if agg != nil {
		for _, n := range agg.TagCounts {
			top = max(top, n)
		}
	}
	threshold := float64(top) * policy.WeakRatio

	var weak []string
	for _, tag := range policy.TrackedTags {
		if policy.MaxWeakTags > 0 && len(weak) >= policy.MaxWeakTags {
			break
		}
		count := 0
		if agg != nil {
			count = agg.TagCounts[tag]
		}
		if float64(count) < threshold {
			weak = append(weak, tag)
		}
	}
	return weak
}

// Recommend filters the catalog by filters and returns the best scoring
// problems, highest score first with ties broken by problem key.
func Recommend(agg *aggregate.Aggregate, cat *catalog.Catalog, filters Filters, policy Policy) []RankedProblem {
	if cat == nil {
		return nil
	}
	if agg == nil {
		agg = aggregate.Build(nil, nil)
	}

	status := filters.Status
	if status == "" {
		status = StatusUnsolved
	}
	rng, bounded := filters.ratingRange()

	weak := make(map[string]struct{})
	for _, t := range WeakTags(agg, policy) {
		weak[t] = struct{}{}
	}

	average := agg.AverageSolvedRating
	if average == 0 {
		average = policy.DefaultRating
	}

	var ranked []RankedProblem
	for _, p := range cat.Problems {
		key := p.Key()
		if key == "" || p.Rating == 0 {
			continue
		}

		solved := agg.IsSolved(key)
		if status == StatusUnsolved && solved {
			continue
		}
		if status == StatusSolved && !solved {
			continue
		}
		if bounded && (p.Rating < rng.Min || p.Rating > rng.Max) {
			continue
		}
		if len(filters.Tags) > 0 && !anyTag(p.Tags, filters.Tags) {
			continue
		}

		rp := RankedProblem{Key: key, Problem: p}
		for _, t := range p.Tags {
			if _, ok := weak[t]; ok {
				rp.WeakTags = append(rp.WeakTags, t)
			}
		}
		if len(rp.WeakTags) > 0 {
			rp.Score += policy.WeakTagBonus
			rp.Reason = "Improve in: " + strings.Join(rp.WeakTags, ", ")
		} else {
			rp.Reason = "Good for skill progression"
		}

		diff := float64(p.Rating) - average
		if diff >= 0 && diff <= policy.RatingWindow {
			rp.Score += policy.RatingBonus - math.Abs(diff-policy.RatingTarget)/policy.RatingDivisor
		}

		for _, tier := range policy.Popularity {
			if p.SolvedCount > tier.MinSolved {
				rp.Score += tier.Bonus
			}
		}

		if agg.IsAttempted(key) {
			rp.Attempted = true
			rp.Score -= policy.AttemptedCost
		}

		ranked = append(ranked, rp)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Key < ranked[j].Key
	})
	if policy.Limit > 0 && len(ranked) > policy.Limit {
		ranked = ranked[:policy.Limit]
	}
	return ranked
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
