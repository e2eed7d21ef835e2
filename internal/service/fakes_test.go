package service

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/catalog"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

var testNow = time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type fakeUser struct {
	info    api.User
	ratings []api.RatingChange
	subs    []api.Submission
}

type fakeCF struct {
	mu       sync.Mutex
	users    map[string]fakeUser
	failWith error // returned by every call when set
	calls    []string
}

func newFakeCF(users ...fakeUser) *fakeCF {
	f := &fakeCF{users: make(map[string]fakeUser)}
	for _, u := range users {
		f.users[strings.ToLower(u.info.Handle)] = u
	}
	return f
}

func (f *fakeCF) lookup(method, handle string) (fakeUser, error) {
	f.mu.Lock()
	f.calls = append(f.calls, method+":"+handle)
	f.mu.Unlock()

	if f.failWith != nil {
		return fakeUser{}, f.failWith
	}
	u, ok := f.users[strings.ToLower(handle)]
	if !ok {
		return fakeUser{}, fmt.Errorf("codeforces %s: handle %s not found: %w", method, handle, api.ErrNotFound)
	}
	return u, nil
}

func (f *fakeCF) GetUserInfo(ctx context.Context, handles ...string) ([]api.User, error) {
	u, err := f.lookup("user.info", handles[0])
	if err != nil {
		return nil, err
	}
	return []api.User{u.info}, nil
}

func (f *fakeCF) GetUserRating(ctx context.Context, handle string) ([]api.RatingChange, error) {
	u, err := f.lookup("user.rating", handle)
	if err != nil {
		return nil, err
	}
	return u.ratings, nil
}

func (f *fakeCF) GetUserStatus(ctx context.Context, handle string) ([]api.Submission, error) {
	u, err := f.lookup("user.status", handle)
	if err != nil {
		return nil, err
	}
	return u.subs, nil
}

type fakeCatalog struct {
	cat *catalog.Catalog
	err error
}

func (f fakeCatalog) Get(ctx context.Context) (*catalog.Catalog, error) {
	return f.cat, f.err
}

func accepted(id int64, contest int, index string, rating int, at time.Time, tags ...string) api.Submission {
	return submission(id, contest, index, rating, "OK", at, tags...)
}

func submission(id int64, contest int, index string, rating int, verdict string, at time.Time, tags ...string) api.Submission {
	return api.Submission{
		ID:                  id,
		ContestID:           contest,
		CreationTimeSeconds: at.Unix(),
		Problem:             api.Problem{ContestID: contest, Index: index, Name: "Problem " + index, Rating: rating, Tags: tags},
		ProgrammingLanguage: "GNU C++17",
		Verdict:             verdict,
	}
}
