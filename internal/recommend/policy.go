package recommend

import "codeforces-tracker/internal/config"

// Tier adds Bonus to problems solved by more than MinSolved users. Tiers stack.
type Tier struct {
	MinSolved int
	Bonus     float64
}

// Policy holds the tunable weights of the scorer. The zero value is not
// useful; start from DefaultPolicy.
type Policy struct {
	WeakTagBonus  float64
	WeakRatio     float64
	MaxWeakTags   int
	RatingBonus   float64
	RatingTarget  float64
	RatingWindow  float64
	RatingDivisor float64
	DefaultRating float64
	AttemptedCost float64
	Limit         int
	TrackedTags   []string
	Popularity    []Tier
}

var DefaultTrackedTags = []string{
	"implementation", "math", "greedy", "dp", "data structures",
	"brute force", "constructive algorithms", "graphs", "sortings",
	"binary search", "dfs and similar", "trees", "strings", "number theory",
	"combinatorics", "geometry", "bitmasks", "two pointers",
}

func DefaultPolicy() Policy {
	return Policy{
		WeakTagBonus:  50,
		WeakRatio:     0.10,
		MaxWeakTags:   5,
		RatingBonus:   30,
		RatingTarget:  200,
		RatingWindow:  400,
		RatingDivisor: 10,
		DefaultRating: 1200,
		AttemptedCost: 20,
		Limit:         20,
		TrackedTags:   append([]string(nil), DefaultTrackedTags...),
		Popularity: []Tier{
			{MinSolved: 1000, Bonus: 20},
			{MinSolved: 5000, Bonus: 10},
		},
	}
}

// WithOverrides returns a copy of p with every field set in cfg replaced.
func (p Policy) WithOverrides(cfg config.ScoringConfig) Policy {
	if cfg.WeakTagBonus != nil {
		p.WeakTagBonus = *cfg.WeakTagBonus
	}
	if cfg.WeakRatio != nil {
		p.WeakRatio = *cfg.WeakRatio
	}
	if cfg.MaxWeakTags != nil {
		p.MaxWeakTags = *cfg.MaxWeakTags
	}
	if cfg.RatingBonus != nil {
		p.RatingBonus = *cfg.RatingBonus
	}
	if cfg.RatingTarget != nil {
		p.RatingTarget = *cfg.RatingTarget
	}
	if cfg.RatingWindow != nil {
		p.RatingWindow = *cfg.RatingWindow
	}
	if cfg.RatingDivisor != nil && *cfg.RatingDivisor > 0 {
		p.RatingDivisor = *cfg.RatingDivisor
	}
	if cfg.DefaultRating != nil {
		p.DefaultRating = *cfg.DefaultRating
	}
	if cfg.AttemptedCost != nil {
		p.AttemptedCost = *cfg.AttemptedCost
	}
	if cfg.Limit != nil {
		p.Limit = *cfg.Limit
	}
	if len(cfg.TrackedTags) > 0 {
		p.TrackedTags = append([]string(nil), cfg.TrackedTags...)
	}
	if len(cfg.Popularity) > 0 {
		p.Popularity = make([]Tier, len(cfg.Popularity))
		for i, t := range cfg.Popularity {
			p.Popularity[i] = Tier{MinSolved: t.MinSolved, Bonus: t.Bonus}
		}
	}
	return p
}
