package server

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/catalog"
	"codeforces-tracker/internal/config"
	"codeforces-tracker/internal/constants"
	"codeforces-tracker/internal/database"
	"codeforces-tracker/internal/db"
	"codeforces-tracker/internal/recommend"
	"codeforces-tracker/internal/repository"
	"codeforces-tracker/internal/service"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	touristInfo   = `{"status":"OK","result":[{"handle":"tourist","rating":3800,"maxRating":3979,"rank":"legendary grandmaster"}]}`
	touristRating = `{"status":"OK","result":[{"contestId":1,"contestName":"Round 1","handle":"tourist","rank":3,"ratingUpdateTimeSeconds":1700000000,"oldRating":1500,"newRating":1700}]}`
	problemset    = `{"status":"OK","result":{"problems":[
		{"contestId":1,"index":"A","name":"Alpha","rating":800,"tags":["math"]},
		{"contestId":1,"index":"B","name":"Beta","rating":1400,"tags":["dp"]},
		{"contestId":2,"index":"C","name":"Gamma","rating":1300,"tags":["greedy"]}
	],"problemStatistics":[{"contestId":1,"index":"A","solvedCount":5000}]}}`
)

func touristStatus() string {
	now := time.Now().Unix()
	return fmt.Sprintf(`{"status":"OK","result":[
		{"id":2,"contestId":1,"creationTimeSeconds":%d,"problem":{"contestId":1,"index":"A","name":"Alpha","rating":800,"tags":["math"]},"programmingLanguage":"C++","verdict":"OK"},
		{"id":1,"contestId":1,"creationTimeSeconds":%d,"problem":{"contestId":1,"index":"B","name":"Beta","rating":1400,"tags":["dp"]},"programmingLanguage":"C++","verdict":"WRONG_ANSWER"}
	]}`, now-3600, now-7200)
}

type harness struct {
	url    string
	server *TrackerServer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle := r.URL.Query().Get("handle")
		if handle == "" {
			handle = r.URL.Query().Get("handles")
		}
		switch {
		case r.URL.Path == "/api/problemset.problems":
			fmt.Fprint(w, problemset)
		case handle != "tourist":
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"status":"FAILED","comment":"handles: User with handle %s not found"}`, handle)
		case r.URL.Path == "/api/user.info":
			fmt.Fprint(w, touristInfo)
		case r.URL.Path == "/api/user.rating":
			fmt.Fprint(w, touristRating)
		case r.URL.Path == "/api/user.status":
			fmt.Fprint(w, touristStatus())
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	logger := zerolog.Nop()
	client := api.NewCodeforcesClient(&config.Config{APIBase: upstream.URL + "/api"}, logger)
	cache := catalog.NewCache(client, logger)

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "prefs.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	queries := db.New(sqlDB)

	profiles := service.NewProfileService(client, cache, logger)
	srv := NewTrackerServer(
		profiles,
		service.NewCompareService(client, logger),
		service.NewRecommendService(client, cache, recommend.DefaultPolicy(), logger),
		service.NewGoalService(repository.NewGoalRepository(sqlDB, queries, logger), profiles, logger),
		service.NewThemeService(repository.NewThemeRepository(sqlDB, queries, logger), logger),
		service.NewSuperseder(logger),
		logger,
	)

	mux := http.NewServeMux()
	path, handler := srv.Handler()
	mux.Handle(path, handler)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return &harness{url: ts.URL, server: srv}
}

func call[Req, Res any](t *testing.T, h *harness, procedure string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, h.url+procedure, connect.WithCodec(Codec{}))
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func TestGetProfile(t *testing.T) {
	h := newHarness(t)

	resp, err := call[ProfileRequest, ProfileResponse](t, h, GetProfileProcedure, &ProfileRequest{Handle: "tourist"})
	require.NoError(t, err)

	assert.Equal(t, "tourist", resp.User.Handle)
	assert.Equal(t, 3979, resp.User.MaxRating)
	assert.Equal(t, 1, resp.RatingHistory.Contests)
	require.Len(t, resp.RatingHistory.Changes, 1)
	assert.Equal(t, 200, resp.RatingHistory.Changes[0].Delta)

	assert.Equal(t, 1, resp.Stats.Solved)
	assert.Equal(t, 2, resp.Stats.Attempted)
	assert.Equal(t, 1, resp.Stats.Unsolved)
	assert.InDelta(t, 50.0, resp.Stats.AcceptanceRate, 1e-9)
	require.Len(t, resp.Stats.DifficultyBuckets, 5)
	assert.Equal(t, BucketCount{Bucket: "800-1200", Count: 1}, resp.Stats.DifficultyBuckets[0])

	require.Len(t, resp.RecentSolved, 1)
	assert.Equal(t, "1-A", resp.RecentSolved[0].Problem.Key)
	assert.Equal(t, 5000, resp.RecentSolved[0].Problem.SolvedCount)
	assert.Equal(t, "https://codeforces.com/problemset/problem/1/A", resp.RecentSolved[0].Problem.URL)

	assert.Equal(t, "tourist's Codeforces Profile", resp.Share.Title)
	assert.NotEmpty(t, resp.Heatmap)
	assert.GreaterOrEqual(t, resp.Streaks.ActiveDays, 1)
}

func TestGetProfileErrors(t *testing.T) {
	h := newHarness(t)

	_, err := call[ProfileRequest, ProfileResponse](t, h, GetProfileProcedure, &ProfileRequest{Handle: "ghost"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = call[ProfileRequest, ProfileResponse](t, h, GetProfileProcedure, &ProfileRequest{Handle: "  "})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestGetHeatmap(t *testing.T) {
	h := newHarness(t)

	resp, err := call[HeatmapRequest, HeatmapResponse](t, h, GetHeatmapProcedure, &HeatmapRequest{Handle: "tourist", WindowDays: 30})
	require.NoError(t, err)

	for _, week := range resp.Weeks {
		assert.Len(t, week, 7)
	}
	total := 0
	for _, c := range resp.Cells {
		total += c.Count
	}
	assert.Equal(t, 2, total)

	for _, days := range []int{-1, 5_000_000} {
		_, err = call[HeatmapRequest, HeatmapResponse](t, h, GetHeatmapProcedure, &HeatmapRequest{Handle: "tourist", WindowDays: days})
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "days %d", days)
	}
}

func TestGetRecommendations(t *testing.T) {
	h := newHarness(t)

	resp, err := call[RecommendationsRequest, RecommendationsResponse](t, h, GetRecommendationsProcedure, &RecommendationsRequest{Handle: "tourist"})
	require.NoError(t, err)

	keys := make([]string, 0, len(resp.Problems))
	for _, p := range resp.Problems {
		keys = append(keys, p.Problem.Key)
	}
	assert.ElementsMatch(t, []string{"1-B", "2-C"}, keys)
	assert.Equal(t, 800.0, resp.AverageRating)

	_, err = call[RecommendationsRequest, RecommendationsResponse](t, h, GetRecommendationsProcedure, &RecommendationsRequest{Handle: "tourist", Status: "maybe"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestCompareUsers(t *testing.T) {
	h := newHarness(t)

	_, err := call[CompareRequest, CompareResponse](t, h, CompareUsersProcedure, &CompareRequest{HandleA: "tourist", HandleB: "Tourist"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[CompareRequest, CompareResponse](t, h, CompareUsersProcedure, &CompareRequest{HandleA: "tourist", HandleB: "ghost"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestGoalLifecycle(t *testing.T) {
	h := newHarness(t)
	deadline := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	created, err := call[CreateGoalRequest, GoalResponse](t, h, CreateGoalProcedure, &CreateGoalRequest{GoalFields{
		Title: "Solve more", Type: "problems", Target: 4, Deadline: deadline,
	}})
	require.NoError(t, err)
	id := created.Goal.ID
	assert.Equal(t, "active", created.Goal.Status)
	assert.Greater(t, created.Goal.DaysRemaining, 0)

	synced, err := call[SyncGoalRequest, GoalResponse](t, h, SyncGoalProcedure, &SyncGoalRequest{ID: id, Handle: "tourist"})
	require.NoError(t, err)
	assert.Equal(t, 1, synced.Goal.Current)
	assert.InDelta(t, 25.0, synced.Goal.Percent, 1e-9)

	done, err := call[RecordGoalProgressRequest, GoalResponse](t, h, RecordGoalProgressProcedure, &RecordGoalProgressRequest{ID: id, Value: 4})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Goal.Status)
	assert.Len(t, done.Goal.Progress, 2)

	updated, err := call[UpdateGoalRequest, GoalResponse](t, h, UpdateGoalProcedure, &UpdateGoalRequest{ID: id, GoalFields: GoalFields{
		Title: "Solve even more", Type: "problems", Target: 10, Deadline: deadline,
	}})
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Goal.Status)

	list, err := call[ListGoalsRequest, ListGoalsResponse](t, h, ListGoalsProcedure, &ListGoalsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Goals, 1)
	assert.Equal(t, GoalSummary{Active: 1}, list.Summary)

	_, err = call[DeleteGoalRequest, DeleteGoalResponse](t, h, DeleteGoalProcedure, &DeleteGoalRequest{ID: id})
	require.NoError(t, err)
	_, err = call[DeleteGoalRequest, DeleteGoalResponse](t, h, DeleteGoalProcedure, &DeleteGoalRequest{ID: id})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestCreateGoalRejectsBadDeadline(t *testing.T) {
	h := newHarness(t)

	_, err := call[CreateGoalRequest, GoalResponse](t, h, CreateGoalProcedure, &CreateGoalRequest{GoalFields{
		Title: "x", Type: "rating", Target: 1, Deadline: "next week",
	}})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestThemes(t *testing.T) {
	h := newHarness(t)

	list, err := call[ListThemesRequest, ListThemesResponse](t, h, ListThemesProcedure, &ListThemesRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Themes, 7)
	assert.Equal(t, service.DefaultThemeID, list.Selected)

	saved, err := call[SaveThemeRequest, ThemeResponse](t, h, SaveThemeProcedure, &SaveThemeRequest{
		Name: "Night", Colors: map[string]string{"bg-primary": "#101010"},
	})
	require.NoError(t, err)
	assert.False(t, saved.Theme.BuiltIn)

	_, err = call[SelectThemeRequest, ThemeResponse](t, h, SelectThemeProcedure, &SelectThemeRequest{ID: saved.Theme.ID})
	require.NoError(t, err)

	list, err = call[ListThemesRequest, ListThemesResponse](t, h, ListThemesProcedure, &ListThemesRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Themes, 8)
	assert.Equal(t, saved.Theme.ID, list.Selected)

	_, err = call[DeleteThemeRequest, DeleteThemeResponse](t, h, DeleteThemeProcedure, &DeleteThemeRequest{ID: "dark"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[DeleteThemeRequest, DeleteThemeResponse](t, h, DeleteThemeProcedure, &DeleteThemeRequest{ID: saved.Theme.ID})
	require.NoError(t, err)
}

func TestSettleDropsSupersededResults(t *testing.T) {
	h := newHarness(t)
	sup := service.NewSuperseder(zerolog.Nop())

	stale, done := sup.Begin(context.Background(), "tab", "tourist")
	defer done()
	_, doneNew := sup.Begin(context.Background(), "tab", "petr")
	defer doneNew()

	err := h.server.settle(stale, nil)
	assert.Equal(t, connect.CodeCanceled, connect.CodeOf(err))
	assert.ErrorIs(t, err, service.ErrSuperseded)

	assert.NoError(t, h.server.settle(context.Background(), nil))
}

func TestSupersededRequestOverRPC(t *testing.T) {
	h := newHarness(t)

	stale, done := h.server.superseder.Begin(context.Background(), "tab-9", "petr")
	defer done()

	req := connect.NewRequest(&ProfileRequest{Handle: "tourist"})
	req.Header().Set(constants.ClientIDHeader, "tab-9")
	client := connect.NewClient[ProfileRequest, ProfileResponse](http.DefaultClient, h.url+GetProfileProcedure, connect.WithCodec(Codec{}))

	resp, err := client.CallUnary(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "tourist", resp.Msg.User.Handle)
	assert.True(t, service.Superseded(stale))
}

func TestToConnectError(t *testing.T) {
	cases := []struct {
		err  error
		code connect.Code
	}{
		{fmt.Errorf("x: %w", service.ErrInvalidArgument), connect.CodeInvalidArgument},
		{fmt.Errorf("x: %w", service.ErrNotFound), connect.CodeNotFound},
		{fmt.Errorf("x: %w", api.ErrNotFound), connect.CodeNotFound},
		{fmt.Errorf("x: %w", api.ErrUpstream), connect.CodeUnavailable},
		{service.ErrSuperseded, connect.CodeCanceled},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{context.Canceled, connect.CodeCanceled},
		{errors.New("boom"), connect.CodeInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, connect.CodeOf(toConnectError(tc.err)), tc.err.Error())
	}
}

func TestParseDeadline(t *testing.T) {
	d, err := parseDeadline("2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDeadline("2026-05-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), d)

	d, err = parseDeadline("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDeadline("soon")
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}
