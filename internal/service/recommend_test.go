package service

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/catalog"
	"codeforces-tracker/internal/domain"
	"codeforces-tracker/internal/recommend"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendService(t *testing.T) {
	user := fakeUser{
		info: api.User{Handle: "carol"},
		subs: []api.Submission{
			accepted(1, 1, "A", 1400, testNow, "dp"),
			submission(2, 1, "B", 1500, "WRONG_ANSWER", testNow, "greedy"),
		},
	}
	cat := catalog.New([]domain.Problem{
		{ContestID: 1, Index: "A", Rating: 1400, Tags: []string{"dp"}},
		{ContestID: 1, Index: "B", Rating: 1500, Tags: []string{"greedy"}},
		{ContestID: 2, Index: "A", Rating: 1600, Tags: []string{"math"}, SolvedCount: 2000},
	})
	svc := NewRecommendService(newFakeCF(user), fakeCatalog{cat: cat}, recommend.DefaultPolicy(), zerolog.Nop())
	svc.now = fixedClock

	recs, err := svc.Recommend(context.Background(), "carol", recommend.Filters{})
	require.NoError(t, err)

	assert.Equal(t, 1400.0, recs.AverageRating)
	assert.Contains(t, recs.WeakTags, "greedy")
	require.Len(t, recs.Problems, 2)
	assert.Equal(t, "2-A", recs.Problems[0].Key)
	assert.Equal(t, "1-B", recs.Problems[1].Key)
	assert.True(t, recs.Problems[1].Attempted)
}

func TestRecommendServiceRejectsBadFilters(t *testing.T) {
	cf := newFakeCF()
	svc := NewRecommendService(cf, fakeCatalog{}, recommend.DefaultPolicy(), zerolog.Nop())

	_, err := svc.Recommend(context.Background(), "carol", recommend.Filters{Difficulty: "godlike"})

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, cf.calls)
}
