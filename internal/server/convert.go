package server

import (
	"codeforces-tracker/internal/aggregate"
	"codeforces-tracker/internal/domain"
	"codeforces-tracker/internal/recommend"
	"codeforces-tracker/internal/service"
	"fmt"
	"time"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseDeadline accepts RFC 3339 or a bare date, which means midnight UTC.
func parseDeadline(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid deadline %q", service.ErrInvalidArgument, s)
	}
	return t, nil
}

func toUser(u domain.User) User {
	return User{
		Handle:        u.Handle,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Country:       u.Country,
		City:          u.City,
		Organization:  u.Organization,
		Rank:          u.Rank,
		MaxRank:       u.MaxRank,
		Rating:        u.Rating,
		MaxRating:     u.MaxRating,
		Contribution:  u.Contribution,
		FriendOfCount: u.FriendOfCount,
		Avatar:        u.Avatar,
		TitlePhoto:    u.TitlePhoto,
		LastOnlineAt:  formatTime(u.LastOnlineAt),
		RegisteredAt:  formatTime(u.RegisteredAt),
	}
}

func toRatingHistory(h service.RatingHistory) RatingHistory {
	changes := make([]RatingChange, 0, len(h.Changes))
	for _, c := range h.Changes {
		changes = append(changes, RatingChange{
			ContestID:   c.ContestID,
			ContestName: c.ContestName,
			Rank:        c.Rank,
			OldRating:   c.OldRating,
			NewRating:   c.NewRating,
			Delta:       c.Delta(),
			UpdatedAt:   formatTime(c.UpdatedAt),
		})
	}
	return RatingHistory{
		Changes:   changes,
		MaxRating: h.MaxRating,
		MinRating: h.MinRating,
		BestRank:  h.BestRank,
		Contests:  h.Contests,
	}
}

func toBuckets(buckets map[string]int) []BucketCount {
	out := make([]BucketCount, 0, len(aggregate.BucketLabels))
	for _, label := range aggregate.BucketLabels {
		out = append(out, BucketCount{Bucket: label, Count: buckets[label]})
	}
	return out
}

func toStats(agg *aggregate.Aggregate) Stats {
	return Stats{
		Solved:              agg.SolvedCount(),
		Attempted:           agg.AttemptedCount(),
		Unsolved:            len(agg.Unsolved()),
		TotalSubmissions:    agg.TotalSubmissions,
		AcceptedSubmissions: agg.AcceptedSubmissions,
		AcceptanceRate:      agg.AcceptanceRate,
		AverageSolvedRating: agg.AverageSolvedRating,
		SolvedLastYear:      agg.SolvedLastYear,
		SolvedLastMonth:     agg.SolvedLastMonth,
		DifficultyBuckets:   toBuckets(agg.DifficultyBuckets),
		Languages:           agg.LanguageCounts,
		Tags:                agg.TagCounts,
	}
}

func toProblem(key string, p domain.Problem) Problem {
	out := Problem{
		Key:         key,
		ContestID:   p.ContestID,
		Index:       p.Index,
		Name:        p.Name,
		Rating:      p.Rating,
		Tags:        p.Tags,
		SolvedCount: p.SolvedCount,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if p.ContestID != 0 && p.Index != "" {
		out.URL = fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", p.ContestID, p.Index)
	}
	return out
}

func toSolved(list []aggregate.SolvedProblem) []SolvedProblem {
	out := make([]SolvedProblem, 0, len(list))
	for _, sp := range list {
		out = append(out, SolvedProblem{Problem: toProblem(sp.Key, sp.Problem), SolvedAt: formatTime(sp.SolvedAt)})
	}
	return out
}

func toCells(cells []aggregate.DayCell) []HeatmapCell {
	out := make([]HeatmapCell, 0, len(cells))
	for _, c := range cells {
		cell := HeatmapCell{
			Date:    c.Key(),
			Count:   c.Count,
			Level:   c.Level,
			Padding: c.Padding,
			Future:  c.Future,
			Today:   c.Today,
		}
		for _, s := range c.Submissions {
			cell.Submissions = append(cell.Submissions, Submission{
				ID:         s.ID,
				ProblemKey: aggregate.ProblemKey(s),
				Name:       s.Problem.Name,
				Verdict:    s.Verdict,
				Language:   s.Language,
				CreatedAt:  formatTime(s.CreatedAt),
			})
		}
		out = append(out, cell)
	}
	return out
}

func toWeeks(weeks [][]aggregate.DayCell) [][]HeatmapCell {
	out := make([][]HeatmapCell, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, toCells(w))
	}
	return out
}

func toStreaks(st aggregate.Streaks) Streaks {
	return Streaks{
		ActiveDays:        st.ActiveDays,
		MaxStreak:         st.MaxStreak,
		CurrentStreak:     st.CurrentStreak,
		LastYearMaxStreak: st.LastYearMaxStreak,
		LastMonthStreak:   st.LastMonthStreak,
	}
}

func toRecommended(list []recommend.RankedProblem) []RecommendedProblem {
	out := make([]RecommendedProblem, 0, len(list))
	for _, r := range list {
		out = append(out, RecommendedProblem{
			Problem:   toProblem(r.Key, r.Problem),
			Score:     r.Score,
			Reason:    r.Reason,
			WeakTags:  r.WeakTags,
			Attempted: r.Attempted,
		})
	}
	return out
}

func toUserStats(u service.UserStats) UserStats {
	return UserStats{
		Handle:            u.Handle,
		Rank:              u.Rank,
		Rating:            u.Rating,
		MaxRating:         u.MaxRating,
		Solved:            u.Solved,
		TotalSubmissions:  u.TotalSubmissions,
		AcceptanceRate:    u.AcceptanceRate,
		DifficultyBuckets: toBuckets(u.DifficultyBuckets),
		Languages:         u.LanguageCounts,
	}
}

func toComparison(c *service.Comparison) *CompareResponse {
	resp := &CompareResponse{
		A:            toUserStats(c.A),
		B:            toUserStats(c.B),
		CommonSolved: c.CommonSolved,
		OnlyA:        c.OnlyA,
		OnlyB:        c.OnlyB,
	}
	for _, b := range c.Buckets {
		resp.Buckets = append(resp.Buckets, BucketDelta{Bucket: b.Bucket, A: b.A, B: b.B, Delta: b.Delta})
	}
	for _, r := range c.Radar {
		resp.Radar = append(resp.Radar, RadarMetric{Metric: r.Metric, A: r.A, B: r.B})
	}
	return resp
}

func toGoal(g domain.Goal, now time.Time) Goal {
	progress := make([]ProgressEntry, 0, len(g.Progress))
	for _, p := range g.Progress {
		progress = append(progress, ProgressEntry{Date: formatTime(p.Date), Value: p.Value})
	}
	return Goal{
		ID:            g.ID,
		Title:         g.Title,
		Type:          string(g.Type),
		Target:        g.Target,
		Current:       g.Current,
		Deadline:      formatTime(g.Deadline),
		Description:   g.Description,
		Status:        string(g.Status),
		Progress:      progress,
		Percent:       service.Percent(g),
		DaysRemaining: service.DaysRemaining(g, now),
		CreatedAt:     formatTime(g.CreatedAt),
		UpdatedAt:     formatTime(g.UpdatedAt),
	}
}

func toGoalInput(f GoalFields) (service.GoalInput, error) {
	deadline, err := parseDeadline(f.Deadline)
	if err != nil {
		return service.GoalInput{}, err
	}
	return service.GoalInput{
		Title:       f.Title,
		Type:        domain.GoalType(f.Type),
		Target:      f.Target,
		Current:     f.Current,
		Deadline:    deadline,
		Description: f.Description,
	}, nil
}

func toTheme(t domain.Theme) Theme {
	colors := t.Colors
	if colors == nil {
		colors = map[string]string{}
	}
	return Theme{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Colors:      colors,
		BuiltIn:     t.BuiltIn,
	}
}
