package aggregate

import (
	"codeforces-tracker/internal/domain"
	"sort"
	"time"
)

const (
	DefaultWindowDays = 365
	// MaxWindowDays bounds the grid; larger windows are clamped.
	MaxWindowDays = 366
)

type DayCell struct {
	Date        time.Time // UTC midnight; zero for future placeholders
	Count       int
	Level       int
	Submissions []domain.Submission

	// Padding cells precede the window so the grid starts on a Sunday.
	Padding bool
	Today   bool
	// Future cells complete the last week after today. They carry no date.
	Future bool
}

func (c DayCell) Key() string {
	if c.Date.IsZero() {
		return ""
	}
	return c.Date.Format(dayLayout)
}

func (c DayCell) InWindow() bool {
	return !c.Padding && !c.Future
}

// Level quantizes a day's submission count into the five heatmap intensities.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 6:
		return 3
	default:
		return 4
	}
}

// Today truncates t to the start of its UTC day.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeHeatmap buckets submissions into the windowDays UTC days ending today,
// preceded by inert padding back to the Sunday the first week starts on. No
// returned cell is dated after today. Windows beyond MaxWindowDays are clamped.
func ComputeHeatmap(submissions []domain.Submission, windowDays int, now time.Time) []DayCell {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if windowDays > MaxWindowDays {
		windowDays = MaxWindowDays
	}

	today := Today(now)
	start := today.AddDate(0, 0, -(windowDays - 1))
	gridStart := start.AddDate(0, 0, -int(start.Weekday()))

	byDay := make(map[string][]domain.Submission)
	for _, s := range submissions {
		day := Today(s.CreatedAt)
		if day.Before(start) || day.After(today) {
			continue
		}
		key := day.Format(dayLayout)
		byDay[key] = append(byDay[key], s)
	}
	for _, subs := range byDay {
		sort.Slice(subs, func(i, j int) bool {
			if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
				return subs[i].ID < subs[j].ID
			}
			return subs[i].CreatedAt.Before(subs[j].CreatedAt)
		})
	}

	cells := make([]DayCell, 0, windowDays+6)
	for d := gridStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		if d.Before(start) {
			cells = append(cells, DayCell{Date: d, Padding: true})
			continue
		}
		subs := byDay[d.Format(dayLayout)]
		cells = append(cells, DayCell{
			Date:        d,
			Count:       len(subs),
			Level:       Level(len(subs)),
			Submissions: subs,
			Today:       d.Equal(today),
		})
	}
	return cells
}

// Weeks lays heatmap cells out in Sunday-first columns, completing the final
// week with future placeholders.
func Weeks(cells []DayCell) [][]DayCell {
	var weeks [][]DayCell
	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}
		week := make([]DayCell, 0, 7)
		week = append(week, cells[i:end]...)
		for len(week) < 7 {
			week = append(week, DayCell{Future: true})
		}
		weeks = append(weeks, week)
	}
	return weeks
}
