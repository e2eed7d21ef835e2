package service

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/catalog"
	"codeforces-tracker/internal/domain"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// CodeforcesAPI is the slice of the Codeforces client the services read from.
type CodeforcesAPI interface {
	GetUserInfo(ctx context.Context, handles ...string) ([]api.User, error)
	GetUserRating(ctx context.Context, handle string) ([]api.RatingChange, error)
	GetUserStatus(ctx context.Context, handle string) ([]api.Submission, error)
}

type CatalogSource interface {
	Get(ctx context.Context) (*catalog.Catalog, error)
}

type fetchPlan struct {
	info    bool
	rating  bool
	status  bool
	catalog bool
}

type snapshot struct {
	user        domain.User
	ratings     []domain.RatingChange
	submissions []domain.Submission
	catalog     *catalog.Catalog
}

// fetch runs the planned upstream calls in parallel. Any failure fails the
// whole snapshot so nothing is aggregated from partial input.
func fetch(ctx context.Context, cf CodeforcesAPI, cs CatalogSource, handle string, plan fetchPlan) (*snapshot, error) {
	g, gCtx := errgroup.WithContext(ctx)
	var snap snapshot

	if plan.info {
		g.Go(func() error {
			users, err := cf.GetUserInfo(gCtx, handle)
			if err != nil {
				return err
			}
			snap.user = users[0].ToDomain()
			return nil
		})
	}
	if plan.rating {
		g.Go(func() error {
			changes, err := cf.GetUserRating(gCtx, handle)
			if err != nil {
				return err
			}
			snap.ratings = api.RatingChangesToDomain(changes)
			return nil
		})
	}
	if plan.status {
		g.Go(func() error {
			subs, err := cf.GetUserStatus(gCtx, handle)
			if err != nil {
				return err
			}
			snap.submissions = api.SubmissionsToDomain(subs)
			return nil
		})
	}
	if plan.catalog && cs != nil {
		g.Go(func() error {
			cat, err := cs.Get(gCtx)
			if err != nil {
				return err
			}
			snap.catalog = cat
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch data for %s: %w", handle, err)
	}
	return &snap, nil
}

func normalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", fmt.Errorf("%w: handle is required", ErrInvalidArgument)
	}
	return handle, nil
}
