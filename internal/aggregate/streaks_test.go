package aggregate

import (
	"codeforces-tracker/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activity(daysAgo ...int) []domain.Submission {
	subs := make([]domain.Submission, 0, len(daysAgo))
	for i, d := range daysAgo {
		subs = append(subs, sub(int64(i+1), 1, "A", domain.VerdictWrongAnswer, testNow.AddDate(0, 0, -d)))
	}
	return subs
}

func TestStreaksBrokenToday(t *testing.T) {
	// active, active, active, idle, active, idle today
	cells := ComputeHeatmap(activity(5, 4, 3, 1), DefaultWindowDays, testNow)

	st := ComputeStreaks(cells)

	assert.Equal(t, 4, st.ActiveDays)
	assert.Equal(t, 3, st.MaxStreak)
	assert.Equal(t, 0, st.CurrentStreak)
}

func TestStreaksActiveToday(t *testing.T) {
	cells := ComputeHeatmap(activity(5, 4, 3, 1, 0), DefaultWindowDays, testNow)

	st := ComputeStreaks(cells)

	assert.Equal(t, 5, st.ActiveDays)
	assert.Equal(t, 3, st.MaxStreak)
	assert.Equal(t, 2, st.CurrentStreak)
}

func TestStreaksMultipleSubmissionsPerDay(t *testing.T) {
	cells := ComputeHeatmap(activity(0, 0, 0, 1, 1), DefaultWindowDays, testNow)

	st := ComputeStreaks(cells)

	assert.Equal(t, 2, st.ActiveDays)
	assert.Equal(t, 2, st.MaxStreak)
	assert.Equal(t, 2, st.CurrentStreak)
}

func TestStreaksLastMonthWindow(t *testing.T) {
	cells := ComputeHeatmap(activity(40, 39, 38, 37, 36, 3, 2, 1), DefaultWindowDays, testNow)

	st := ComputeStreaks(cells)

	assert.Equal(t, 8, st.ActiveDays)
	assert.Equal(t, 5, st.MaxStreak)
	assert.Equal(t, 5, st.LastYearMaxStreak)
	assert.Equal(t, 3, st.LastMonthStreak)
	assert.Equal(t, 0, st.CurrentStreak)
}

func TestStreaksRunClippedByMonthWindow(t *testing.T) {
	// days 31..27 ago: only 29, 28, 27 fall in the last 30 days
	cells := ComputeHeatmap(activity(31, 30, 29, 28, 27), DefaultWindowDays, testNow)

	st := ComputeStreaks(cells)

	assert.Equal(t, 5, st.MaxStreak)
	assert.Equal(t, 3, st.LastMonthStreak)
}

func TestStreaksMissingDateBreaksRun(t *testing.T) {
	day := func(d int) time.Time { return Today(testNow).AddDate(0, 0, -d) }
	cells := []DayCell{
		{Date: day(4), Count: 1},
		{Date: day(3), Count: 2},
		{Date: day(1), Count: 1},
		{Date: day(0), Count: 1, Today: true},
	}

	st := ComputeStreaks(cells)

	assert.Equal(t, 4, st.ActiveDays)
	assert.Equal(t, 2, st.MaxStreak)
	assert.Equal(t, 2, st.CurrentStreak)
}

func TestStreaksIgnorePaddingAndFuture(t *testing.T) {
	day := func(d int) time.Time { return Today(testNow).AddDate(0, 0, -d) }
	cells := []DayCell{
		{Date: day(2), Count: 5, Padding: true},
		{Date: day(1), Count: 1},
		{Date: day(0), Count: 1, Today: true},
		{Future: true},
	}

	st := ComputeStreaks(cells)

	assert.Equal(t, 2, st.ActiveDays)
	assert.Equal(t, 2, st.CurrentStreak)
}

func TestStreaksOrdering(t *testing.T) {
	inputs := [][]int{
		{},
		{0},
		{10, 9, 8, 2, 1, 0},
		{100, 99, 50, 49, 48, 47, 0},
		{364, 363, 1, 0},
	}
	for _, days := range inputs {
		st := ComputeStreaks(ComputeHeatmap(activity(days...), DefaultWindowDays, testNow))
		assert.LessOrEqual(t, st.CurrentStreak, st.MaxStreak, "%v", days)
		assert.LessOrEqual(t, st.MaxStreak, st.ActiveDays, "%v", days)
		assert.LessOrEqual(t, st.LastMonthStreak, st.LastYearMaxStreak, "%v", days)
	}
}
