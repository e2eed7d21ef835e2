package catalog

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/domain"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	release chan struct{}
	errs    []error
}

func (f *fakeFetcher) GetProblemset(ctx context.Context) (*api.Problemset, error) {
	n := int(f.calls.Add(1))
	if f.release != nil {
		<-f.release
	}
	if n <= len(f.errs) && f.errs[n-1] != nil {
		return nil, f.errs[n-1]
	}
	return &api.Problemset{
		Problems: []api.Problem{
			{ContestID: 1, Index: "A", Name: "Theatre Square", Rating: 1000, Tags: []string{"math"}},
			{ContestID: 4, Index: "A", Name: "Watermelon", Rating: 800, Tags: []string{"brute force", "math"}},
			{ContestID: 5, Index: "B", Name: "Unrated"},
		},
		ProblemStatistics: []api.ProblemStatistics{
			{ContestID: 1, Index: "A", SolvedCount: 200000},
			{ContestID: 4, Index: "A", SolvedCount: 400000},
		},
	}, nil
}

func TestFromProblemset(t *testing.T) {
	ps, err := (&fakeFetcher{}).GetProblemset(context.Background())
	require.NoError(t, err)

	cat := FromProblemset(ps)

	assert.Equal(t, 3, cat.Total)
	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, map[int]int{1000: 1, 800: 1}, cat.ByRating)

	p, ok := cat.Lookup("4-A")
	require.True(t, ok)
	assert.Equal(t, "Watermelon", p.Name)
	assert.Equal(t, 400000, p.SolvedCount)

	p, ok = cat.Lookup("5-B")
	require.True(t, ok)
	assert.Zero(t, p.SolvedCount)

	_, ok = cat.Lookup("9-Z")
	assert.False(t, ok)
}

func TestNilCatalog(t *testing.T) {
	var cat *Catalog
	_, ok := cat.Lookup("1-A")
	assert.False(t, ok)
	assert.Zero(t, cat.Len())
	assert.Zero(t, FromProblemset(nil).Len())
	assert.Empty(t, New([]domain.Problem{{Index: "A"}}).index)
}

func TestCacheSharesInFlightLoad(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	cache := NewCache(f, zerolog.Nop())

	const callers = 16
	results := make([]*Catalog, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := cache.Get(context.Background())
			assert.NoError(t, err)
			results[i] = cat
		}(i)
	}

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(f.release)
	wg.Wait()

	assert.EqualValues(t, 1, f.calls.Load())
	for _, cat := range results {
		assert.Same(t, results[0], cat)
	}
	assert.False(t, cache.LoadedAt().IsZero())

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestCacheDoesNotMemoizeFailure(t *testing.T) {
	f := &fakeFetcher{errs: []error{errors.New("boom")}}
	cache := NewCache(f, zerolog.Nop())

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.True(t, cache.LoadedAt().IsZero())

	cat, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Total)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestCacheClear(t *testing.T) {
	f := &fakeFetcher{}
	cache := NewCache(f, zerolog.Nop())

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	cache.Clear()
	assert.True(t, cache.LoadedAt().IsZero())

	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestCacheCallerCancellation(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	cache := NewCache(f, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// the shared load keeps going for everyone else
	close(f.release)
	cat, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Total)
	assert.EqualValues(t, 1, f.calls.Load())
}
