// Package catalog holds the global Codeforces problem catalog and the
// process-wide cache that loads it once per session.
package catalog

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/domain"
	"strconv"
)

type Catalog struct {
	Problems []domain.Problem
	ByRating map[int]int
	Total    int

	index map[string]int
}

func New(problems []domain.Problem) *Catalog {
	c := &Catalog{
		Problems: problems,
		ByRating: make(map[int]int),
		Total:    len(problems),
		index:    make(map[string]int, len(problems)),
	}
	for i, p := range problems {
		if p.Rating > 0 {
			c.ByRating[p.Rating]++
		}
		if key := p.Key(); key != "" {
			c.index[key] = i
		}
	}
	return c
}

// FromProblemset joins problems with their solve statistics.
func FromProblemset(ps *api.Problemset) *Catalog {
	if ps == nil {
		return New(nil)
	}

	solved := make(map[string]int, len(ps.ProblemStatistics))
	for _, st := range ps.ProblemStatistics {
		solved[strconv.Itoa(st.ContestID)+"-"+st.Index] = st.SolvedCount
	}

	problems := make([]domain.Problem, len(ps.Problems))
	for i, p := range ps.Problems {
		problems[i] = p.ToDomain()
		problems[i].SolvedCount = solved[problems[i].Key()]
	}
	return New(problems)
}

func (c *Catalog) Lookup(key string) (domain.Problem, bool) {
	if c == nil || key == "" {
		return domain.Problem{}, false
	}
	i, ok := c.index[key]
	if !ok {
		return domain.Problem{}, false
	}
	return c.Problems[i], true
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Problems)
}
