package main

import (
	"codeforces-tracker/internal/aggregate"
	"codeforces-tracker/internal/service"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	levelStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#2D333B")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#0E4429")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#006D32")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#26A641")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#39D353")),
	}
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	betterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#39D353"))
	worseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	weekdayNames = []string{"", "Mon", "", "Wed", "", "Fri", ""}
)

const cellGlyph = "■"

// renderHeatmap draws Sunday-first week columns, one row per weekday.
func renderHeatmap(weeks [][]aggregate.DayCell) string {
	var b strings.Builder

	b.WriteString("    ")
	b.WriteString(headerStyle.Render(monthHeader(weeks)))
	b.WriteByte('\n')

	for day := 0; day < 7; day++ {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s", weekdayNames[day])))
		for _, week := range weeks {
			cell := week[day]
			switch {
			case !cell.InWindow():
				b.WriteString("  ")
			case cell.Today:
				b.WriteString(todayStyle.Render(cellGlyph) + " ")
			default:
				b.WriteString(levelStyles[cell.Level].Render(cellGlyph) + " ")
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString("    " + mutedStyle.Render("Less "))
	for _, st := range levelStyles {
		b.WriteString(st.Render(cellGlyph) + " ")
	}
	b.WriteString(mutedStyle.Render("More"))
	return b.String()
}

// monthHeader labels the first week column that opens in a new month, two
// characters per week. A label that would overlap the previous one is skipped.
func monthHeader(weeks [][]aggregate.DayCell) string {
	line := []byte(strings.Repeat(" ", 2*len(weeks)+3))
	last, free := -1, 0
	for i, week := range weeks {
		for _, c := range week {
			if !c.InWindow() {
				continue
			}
			if month := int(c.Date.Month()); month != last {
				if i*2 >= free {
					copy(line[i*2:], c.Date.Format("Jan"))
					free = i*2 + 4
				}
				last = month
			}
			break
		}
	}
	return strings.TrimRight(string(line), " ")
}

func renderStreaks(st aggregate.Streaks) string {
	rows := [][2]string{
		{"Active days", fmt.Sprint(st.ActiveDays)},
		{"Current streak", fmt.Sprintf("%d days", st.CurrentStreak)},
		{"Longest streak", fmt.Sprintf("%d days", st.MaxStreak)},
		{"Longest this year", fmt.Sprintf("%d days", st.LastYearMaxStreak)},
		{"Longest this month", fmt.Sprintf("%d days", st.LastMonthStreak)},
	}
	return cardStyle.Render(keyValues(rows))
}

func renderProfile(p *service.Profile, solvedLimit int) string {
	u := p.User
	agg := p.Aggregate

	header := titleStyle.Render(u.Handle)
	if u.Rank != "" {
		header += " " + mutedStyle.Render(u.Rank)
	}

	summary := keyValues([][2]string{
		{"Rating", fmt.Sprintf("%d (max %d)", u.Rating, u.MaxRating)},
		{"Contests", fmt.Sprint(p.RatingHistory.Contests)},
		{"Solved", fmt.Sprintf("%d of %d attempted", agg.SolvedCount(), agg.AttemptedCount())},
		{"Submissions", fmt.Sprint(agg.TotalSubmissions)},
		{"Acceptance", fmt.Sprintf("%.1f%%", agg.AcceptanceRate)},
		{"Solved last 30 days", fmt.Sprint(agg.SolvedLastMonth)},
	})

	var buckets [][2]string
	for _, label := range aggregate.BucketLabels {
		buckets = append(buckets, [2]string{label, fmt.Sprint(agg.DifficultyBuckets[label])})
	}

	sections := []string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top,
			cardStyle.Render(summary),
			cardStyle.Render(keyValues(buckets)),
			cardStyle.Render(keyValues(topCounts(agg.LanguageCounts, 5))),
		),
		renderStreaks(p.Streaks),
	}

	if solved := service.SolvedList(agg, solvedLimit); len(solved) > 0 {
		rows := make([][]string, 0, len(solved))
		for _, sp := range solved {
			rating := "-"
			if sp.Problem.Rating > 0 {
				rating = fmt.Sprint(sp.Problem.Rating)
			}
			rows = append(rows, []string{sp.Key, sp.Problem.Name, rating, sp.SolvedAt.Format("2006-01-02")})
		}
		sections = append(sections, table([]string{"PROBLEM", "NAME", "RATING", "SOLVED"}, rows))
	}

	sections = append(sections, mutedStyle.Render(service.ShareText(p).Text))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderRecommendations(r *service.Recommendations) string {
	head := fmt.Sprintf("%s  average solved rating %.0f", titleStyle.Render(r.Handle), r.AverageRating)
	if len(r.WeakTags) > 0 {
		head += "\n" + mutedStyle.Render("weak tags: "+strings.Join(r.WeakTags, ", "))
	}
	if len(r.Problems) == 0 {
		return head + "\n" + mutedStyle.Render("no problems match these filters")
	}

	rows := make([][]string, 0, len(r.Problems))
	for _, p := range r.Problems {
		rows = append(rows, []string{p.Key, p.Problem.Name, fmt.Sprint(p.Problem.Rating), fmt.Sprintf("%.1f", p.Score), p.Reason})
	}
	return head + "\n" + table([]string{"PROBLEM", "NAME", "RATING", "SCORE", "REASON"}, rows)
}

func renderComparison(c *service.Comparison) string {
	rows := [][]string{
		{"Rating", fmt.Sprint(c.A.Rating), fmt.Sprint(c.B.Rating)},
		{"Max rating", fmt.Sprint(c.A.MaxRating), fmt.Sprint(c.B.MaxRating)},
		{"Solved", fmt.Sprint(c.A.Solved), fmt.Sprint(c.B.Solved)},
		{"Submissions", fmt.Sprint(c.A.TotalSubmissions), fmt.Sprint(c.B.TotalSubmissions)},
		{"Acceptance", fmt.Sprintf("%.1f%%", c.A.AcceptanceRate), fmt.Sprintf("%.1f%%", c.B.AcceptanceRate)},
	}
	for _, d := range c.Buckets {
		rows = append(rows, []string{d.Bucket, fmt.Sprint(d.A), fmt.Sprint(d.B), delta(d.Delta)})
	}

	shared := fmt.Sprintf("common %d, only %s %d, only %s %d", c.CommonSolved, c.A.Handle, c.OnlyA, c.B.Handle, c.OnlyB)
	return table([]string{"", c.A.Handle, c.B.Handle, "DELTA"}, rows) + "\n" + mutedStyle.Render(shared)
}

func delta(d int) string {
	switch {
	case d > 0:
		return betterStyle.Render(fmt.Sprintf("+%d", d))
	case d < 0:
		return worseStyle.Render(fmt.Sprint(d))
	}
	return mutedStyle.Render("0")
}

func topCounts(counts map[string]int, n int) [][2]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, fmt.Sprint(counts[k])})
	}
	return out
}

func keyValues(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%-*s", width, r[0]))+"  "+r[1])
	}
	return strings.Join(lines, "\n")
}

func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	format := func(row []string) string {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		return strings.TrimRight(strings.Join(cells, "  "), " ")
	}

	lines := []string{headerStyle.Render(format(headers))}
	for _, row := range rows {
		lines = append(lines, format(row))
	}
	return strings.Join(lines, "\n")
}
