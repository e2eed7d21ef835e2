package aggregate

type Streaks struct {
	ActiveDays        int
	MaxStreak         int
	CurrentStreak     int
	LastYearMaxStreak int
	LastMonthStreak   int
}

const (
	lastYearDays  = 365
	lastMonthDays = 30
)

// ComputeStreaks derives activity metrics from heatmap cells. Padding and
// future cells are ignored and the last remaining cell is taken as today.
// A missing date between two cells breaks a run the same way a zero-count
// day does.
func ComputeStreaks(cells []DayCell) Streaks {
	window := make([]DayCell, 0, len(cells))
	for _, c := range cells {
		if c.InWindow() {
			window = append(window, c)
		}
	}
	if len(window) == 0 {
		return Streaks{}
	}

	var st Streaks
	for _, c := range window {
		if c.Count > 0 {
			st.ActiveDays++
		}
	}

	today := window[len(window)-1].Date
	st.MaxStreak = longestRun(window)
	st.LastYearMaxStreak = longestRun(since(window, today.AddDate(0, 0, -(lastYearDays-1)).Unix()))
	st.LastMonthStreak = longestRun(since(window, today.AddDate(0, 0, -(lastMonthDays-1)).Unix()))

	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Count == 0 {
			break
		}
		if i < len(window)-1 && !consecutive(window[i], window[i+1]) {
			break
		}
		st.CurrentStreak++
	}

	return st
}

func longestRun(cells []DayCell) int {
	best, run := 0, 0
	for i, c := range cells {
		if c.Count == 0 {
			run = 0
			continue
		}
		if i > 0 && cells[i-1].Count > 0 && consecutive(cells[i-1], c) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func since(cells []DayCell, fromUnix int64) []DayCell {
	for i, c := range cells {
		if c.Date.Unix() >= fromUnix {
			return cells[i:]
		}
	}
	return nil
}

func consecutive(a, b DayCell) bool {
	return a.Date.AddDate(0, 0, 1).Equal(b.Date)
}
