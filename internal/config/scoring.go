package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ScoringConfig mirrors the [scoring] table of the policy file. Nil fields keep
// the built-in defaults.
type ScoringConfig struct {
	WeakTagBonus  *float64 `toml:"weak-tag-bonus"`
	WeakRatio     *float64 `toml:"weak-ratio"`
	MaxWeakTags   *int     `toml:"max-weak-tags"`
	RatingBonus   *float64 `toml:"rating-bonus"`
	RatingTarget  *float64 `toml:"rating-target"`
	RatingWindow  *float64 `toml:"rating-window"`
	RatingDivisor *float64 `toml:"rating-divisor"`
	DefaultRating *float64 `toml:"default-rating"`
	AttemptedCost *float64 `toml:"attempted-penalty"`
	Limit         *int     `toml:"limit"`
	TrackedTags   []string `toml:"tracked-tags"`
	Popularity    []Tier   `toml:"popularity"`
}

type Tier struct {
	MinSolved int     `toml:"min-solved"`
	Bonus     float64 `toml:"bonus"`
}

type policyFile struct {
	Scoring ScoringConfig `toml:"scoring"`
}

// LoadScoring reads the scoring policy file. An empty path or a missing file
// yields an empty config.
func LoadScoring(path string) (ScoringConfig, error) {
	if path == "" {
		return ScoringConfig{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ScoringConfig{}, nil
		}
		return ScoringConfig{}, fmt.Errorf("failed to stat scoring policy: %w", err)
	}
	var f policyFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return ScoringConfig{}, fmt.Errorf("failed to decode scoring policy: %w", err)
	}
	return f.Scoring, nil
}
