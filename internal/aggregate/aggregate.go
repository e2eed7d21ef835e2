// Package aggregate turns a user's raw submission list into the summary every
// dashboard view projects from: solved and attempted problem sets, difficulty
// buckets, language and tag counts, and per-day activity.
//
// Everything here is pure. An Aggregate is built once from a fixed input and
// never mutated afterwards; new input means a new Aggregate.
package aggregate

import (
	"codeforces-tracker/internal/catalog"
	"codeforces-tracker/internal/domain"
	"sort"
	"strconv"
	"time"
)

const dayLayout = "2006-01-02"

// Bucket labels in ascending order. Bounds are inclusive and a rating on a
// boundary belongs to the lower bucket.
const (
	Bucket800   = "800-1200"
	Bucket1201  = "1201-1600"
	Bucket1601  = "1601-2000"
	Bucket2001  = "2001-2400"
	Bucket2401  = "2401+"
	minRated    = 800
	yearWindow  = 365 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

var BucketLabels = []string{Bucket800, Bucket1201, Bucket1601, Bucket2001, Bucket2401}

// BucketFor reports the difficulty bucket for a rating. Unrated problems and
// ratings below 800 have none.
func BucketFor(rating int) (string, bool) {
	switch {
	case rating < minRated:
		return "", false
	case rating <= 1200:
		return Bucket800, true
	case rating <= 1600:
		return Bucket1201, true
	case rating <= 2000:
		return Bucket1601, true
	case rating <= 2400:
		return Bucket2001, true
	default:
		return Bucket2401, true
	}
}

// ProblemKey returns the dedupe identity of a submission's problem. Problems
// that cannot be identified get a key unique to the submission, so two
// unidentifiable problems are never merged.
func ProblemKey(s domain.Submission) string {
	p := s.Problem
	if p.ContestID == 0 {
		p.ContestID = s.ContestID
	}
	if key := p.Key(); key != "" {
		return key
	}
	return "#" + strconv.FormatInt(s.ID, 10)
}

// DayKey buckets a timestamp into its UTC calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

type SolvedProblem struct {
	Key      string
	Problem  domain.Problem
	SolvedAt time.Time // first accepted submission
	subID    int64
}

type Aggregate struct {
	Solved    map[string]SolvedProblem
	Attempted map[string]struct{}

	DifficultyBuckets map[string]int
	LanguageCounts    map[string]int
	TagCounts         map[string]int
	DailyActivity     map[string]int

	TotalSubmissions    int
	AcceptedSubmissions int
	AcceptanceRate      float64 // percent
	AverageSolvedRating float64 // 0 when nothing rated was solved
	SolvedLastYear      int
	SolvedLastMonth     int
}

// Build aggregates submissions as of the current time.
func Build(submissions []domain.Submission, cat *catalog.Catalog) *Aggregate {
	return BuildAt(submissions, cat, time.Now())
}

// BuildAt aggregates submissions, resolving ratings and tags against the
// catalog when one is given. now anchors the last-year and last-month counts.
func BuildAt(submissions []domain.Submission, cat *catalog.Catalog, now time.Time) *Aggregate {
	agg := &Aggregate{
		Solved:            make(map[string]SolvedProblem),
		Attempted:         make(map[string]struct{}),
		DifficultyBuckets: make(map[string]int, len(BucketLabels)),
		LanguageCounts:    make(map[string]int),
		TagCounts:         make(map[string]int),
		DailyActivity:     make(map[string]int),
	}
	for _, label := range BucketLabels {
		agg.DifficultyBuckets[label] = 0
	}

	lastYear := make(map[string]struct{})
	lastMonth := make(map[string]struct{})
	yearAgo := now.Add(-yearWindow)
	monthAgo := now.Add(-monthWindow)

	for _, s := range submissions {
		key := ProblemKey(s)
		agg.Attempted[key] = struct{}{}
		agg.DailyActivity[DayKey(s.CreatedAt)]++
		agg.TotalSubmissions++

		if !s.Accepted() {
			continue
		}

		agg.AcceptedSubmissions++
		agg.LanguageCounts[s.Language]++

		if !s.CreatedAt.Before(yearAgo) {
			lastYear[key] = struct{}{}
		}
		if !s.CreatedAt.Before(monthAgo) {
			lastMonth[key] = struct{}{}
		}

		prev, seen := agg.Solved[key]
		if seen && !earlier(s, prev) {
			continue
		}
		agg.Solved[key] = SolvedProblem{
			Key:      key,
			Problem:  resolve(s.Problem, key, cat),
			SolvedAt: s.CreatedAt,
			subID:    s.ID,
		}
	}

	var ratedSum, rated int
	for _, sp := range agg.Solved {
		if label, ok := BucketFor(sp.Problem.Rating); ok {
			agg.DifficultyBuckets[label]++
		}
		if sp.Problem.Rating > 0 {
			ratedSum += sp.Problem.Rating
			rated++
		}
		for _, tag := range uniqueTags(sp.Problem.Tags) {
			agg.TagCounts[tag]++
		}
	}

	if rated > 0 {
		agg.AverageSolvedRating = float64(ratedSum) / float64(rated)
	}
	if agg.TotalSubmissions > 0 {
		agg.AcceptanceRate = float64(agg.AcceptedSubmissions) / float64(agg.TotalSubmissions) * 100
	}
	agg.SolvedLastYear = len(lastYear)
	agg.SolvedLastMonth = len(lastMonth)

	return agg
}

func (a *Aggregate) SolvedCount() int {
	return len(a.Solved)
}

func (a *Aggregate) AttemptedCount() int {
	return len(a.Attempted)
}

func (a *Aggregate) IsSolved(key string) bool {
	_, ok := a.Solved[key]
	return ok
}

func (a *Aggregate) IsAttempted(key string) bool {
	_, ok := a.Attempted[key]
	return ok
}

func (a *Aggregate) SolvedKeys() []string {
	keys := make([]string, 0, len(a.Solved))
	for k := range a.Solved {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *Aggregate) AttemptedKeys() []string {
	keys := make([]string, 0, len(a.Attempted))
	for k := range a.Attempted {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unsolved lists problems that were attempted but never accepted.
func (a *Aggregate) Unsolved() []string {
	var keys []string
	for k := range a.Attempted {
		if !a.IsSolved(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// RecentSolved returns up to limit solved problems, most recently solved first.
func (a *Aggregate) RecentSolved(limit int) []SolvedProblem {
	out := make([]SolvedProblem, 0, len(a.Solved))
	for _, sp := range a.Solved {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SolvedAt.Equal(out[j].SolvedAt) {
			return out[i].Key < out[j].Key
		}
		return out[i].SolvedAt.After(out[j].SolvedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func earlier(s domain.Submission, sp SolvedProblem) bool {
	if s.CreatedAt.Equal(sp.SolvedAt) {
		return s.ID < sp.subID
	}
	return s.CreatedAt.Before(sp.SolvedAt)
}

// resolve fills rating and tags from the catalog. The catalog's tag list wins
// because submissions embed the tags as they were at submission time.
func resolve(p domain.Problem, key string, cat *catalog.Catalog) domain.Problem {
	ref, ok := cat.Lookup(key)
	if !ok {
		return p
	}
	if p.Rating == 0 {
		p.Rating = ref.Rating
	}
	if len(ref.Tags) > 0 {
		p.Tags = ref.Tags
	}
	if p.Name == "" {
		p.Name = ref.Name
	}
	p.SolvedCount = ref.SolvedCount
	return p
}

func uniqueTags(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
