package api

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// limiter spaces upstream calls at least interval apart. Codeforces rejects
// clients that call more often than once every two seconds.
//
// Only the caller holding turn has a pending reservation, so a caller that
// gives up always returns its slot and never delays the ones queued behind it.
type limiter struct {
	rate *rate.Limiter
	turn *semaphore.Weighted
}

func newLimiter(interval time.Duration) *limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &limiter{
		rate: rate.NewLimiter(limit, 1),
		turn: semaphore.NewWeighted(1),
	}
}

func (l *limiter) Wait(ctx context.Context) error {
	if err := l.turn.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.turn.Release(1)

	if err := l.rate.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// the slot lies beyond the caller's deadline
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}
