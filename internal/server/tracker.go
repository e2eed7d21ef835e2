package server

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/constants"
	"codeforces-tracker/internal/domain"
	"codeforces-tracker/internal/recommend"
	"codeforces-tracker/internal/service"
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	TrackerServiceName = "codeforces.v1.TrackerService"
	TrackerServicePath = "/" + TrackerServiceName + "/"

	GetProfileProcedure         = TrackerServicePath + "GetProfile"
	GetHeatmapProcedure         = TrackerServicePath + "GetHeatmap"
	GetRecommendationsProcedure = TrackerServicePath + "GetRecommendations"
	CompareUsersProcedure       = TrackerServicePath + "CompareUsers"
	ListGoalsProcedure          = TrackerServicePath + "ListGoals"
	CreateGoalProcedure         = TrackerServicePath + "CreateGoal"
	UpdateGoalProcedure         = TrackerServicePath + "UpdateGoal"
	DeleteGoalProcedure         = TrackerServicePath + "DeleteGoal"
	RecordGoalProgressProcedure = TrackerServicePath + "RecordGoalProgress"
	SyncGoalProcedure           = TrackerServicePath + "SyncGoal"
	ListThemesProcedure         = TrackerServicePath + "ListThemes"
	SaveThemeProcedure          = TrackerServicePath + "SaveTheme"
	DeleteThemeProcedure        = TrackerServicePath + "DeleteTheme"
	SelectThemeProcedure        = TrackerServicePath + "SelectTheme"
)

type TrackerServer struct {
	profileSvc   *service.ProfileService
	compareSvc   *service.CompareService
	recommendSvc *service.RecommendService
	goalSvc      *service.GoalService
	themeSvc     *service.ThemeService
	superseder   *service.Superseder
	logger       zerolog.Logger
	now          func() time.Time
}

func NewTrackerServer(
	profileSvc *service.ProfileService,
	compareSvc *service.CompareService,
	recommendSvc *service.RecommendService,
	goalSvc *service.GoalService,
	themeSvc *service.ThemeService,
	superseder *service.Superseder,
	logger zerolog.Logger,
) *TrackerServer {
	return &TrackerServer{
		profileSvc:   profileSvc,
		compareSvc:   compareSvc,
		recommendSvc: recommendSvc,
		goalSvc:      goalSvc,
		themeSvc:     themeSvc,
		superseder:   superseder,
		logger:       logger,
		now:          time.Now,
	}
}

// Handler mounts every procedure of the tracker service and returns the path
// prefix to register it under.
func (s *TrackerServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetProfileProcedure, connect.NewUnaryHandler(GetProfileProcedure, s.GetProfile, opts...))
	mux.Handle(GetHeatmapProcedure, connect.NewUnaryHandler(GetHeatmapProcedure, s.GetHeatmap, opts...))
	mux.Handle(GetRecommendationsProcedure, connect.NewUnaryHandler(GetRecommendationsProcedure, s.GetRecommendations, opts...))
	mux.Handle(CompareUsersProcedure, connect.NewUnaryHandler(CompareUsersProcedure, s.CompareUsers, opts...))
	mux.Handle(ListGoalsProcedure, connect.NewUnaryHandler(ListGoalsProcedure, s.ListGoals, opts...))
	mux.Handle(CreateGoalProcedure, connect.NewUnaryHandler(CreateGoalProcedure, s.CreateGoal, opts...))
	mux.Handle(UpdateGoalProcedure, connect.NewUnaryHandler(UpdateGoalProcedure, s.UpdateGoal, opts...))
	mux.Handle(DeleteGoalProcedure, connect.NewUnaryHandler(DeleteGoalProcedure, s.DeleteGoal, opts...))
	mux.Handle(RecordGoalProgressProcedure, connect.NewUnaryHandler(RecordGoalProgressProcedure, s.RecordGoalProgress, opts...))
	mux.Handle(SyncGoalProcedure, connect.NewUnaryHandler(SyncGoalProcedure, s.SyncGoal, opts...))
	mux.Handle(ListThemesProcedure, connect.NewUnaryHandler(ListThemesProcedure, s.ListThemes, opts...))
	mux.Handle(SaveThemeProcedure, connect.NewUnaryHandler(SaveThemeProcedure, s.SaveTheme, opts...))
	mux.Handle(DeleteThemeProcedure, connect.NewUnaryHandler(DeleteThemeProcedure, s.DeleteTheme, opts...))
	mux.Handle(SelectThemeProcedure, connect.NewUnaryHandler(SelectThemeProcedure, s.SelectTheme, opts...))

	return TrackerServicePath, mux
}

func (s *TrackerServer) GetProfile(ctx context.Context, req *connect.Request[ProfileRequest]) (*connect.Response[ProfileResponse], error) {
	defer s.trace("GetProfile", req.Msg.Handle)()

	ctx, done := s.superseder.Begin(ctx, req.Header().Get(constants.ClientIDHeader), req.Msg.Handle)
	defer done()

	profile, err := s.profileSvc.GetProfile(ctx, req.Msg.Handle)
	if err := s.settle(ctx, err); err != nil {
		return nil, err
	}

	return connect.NewResponse(&ProfileResponse{
		User:          toUser(profile.User),
		RatingHistory: toRatingHistory(profile.RatingHistory),
		Stats:         toStats(profile.Aggregate),
		Heatmap:       toCells(profile.Heatmap),
		Streaks:       toStreaks(profile.Streaks),
		RecentSolved:  toSolved(service.SolvedList(profile.Aggregate, constants.SolvedListLimit)),
		Share:         Share(service.ShareText(profile)),
		FetchedAt:     formatTime(profile.FetchedAt),
	}), nil
}

func (s *TrackerServer) GetHeatmap(ctx context.Context, req *connect.Request[HeatmapRequest]) (*connect.Response[HeatmapResponse], error) {
	defer s.trace("GetHeatmap", req.Msg.Handle)()

	ctx, done := s.superseder.Begin(ctx, req.Header().Get(constants.ClientIDHeader), req.Msg.Handle)
	defer done()

	view, err := s.profileSvc.GetHeatmap(ctx, req.Msg.Handle, req.Msg.WindowDays)
	if err := s.settle(ctx, err); err != nil {
		return nil, err
	}

	return connect.NewResponse(&HeatmapResponse{
		Handle:  view.Handle,
		Cells:   toCells(view.Cells),
		Weeks:   toWeeks(view.Weeks),
		Streaks: toStreaks(view.Streaks),
	}), nil
}

func (s *TrackerServer) GetRecommendations(ctx context.Context, req *connect.Request[RecommendationsRequest]) (*connect.Response[RecommendationsResponse], error) {
	defer s.trace("GetRecommendations", req.Msg.Handle)()

	ctx, done := s.superseder.Begin(ctx, req.Header().Get(constants.ClientIDHeader), req.Msg.Handle)
	defer done()

	recs, err := s.recommendSvc.Recommend(ctx, req.Msg.Handle, recommend.Filters{
		Status:     recommend.Status(req.Msg.Status),
		Difficulty: req.Msg.Difficulty,
		MinRating:  req.Msg.MinRating,
		MaxRating:  req.Msg.MaxRating,
		Tags:       req.Msg.Tags,
	})
	if err := s.settle(ctx, err); err != nil {
		return nil, err
	}

	weak := recs.WeakTags
	if weak == nil {
		weak = []string{}
	}
	return connect.NewResponse(&RecommendationsResponse{
		Handle:        recs.Handle,
		AverageRating: recs.AverageRating,
		WeakTags:      weak,
		Problems:      toRecommended(recs.Problems),
	}), nil
}

func (s *TrackerServer) CompareUsers(ctx context.Context, req *connect.Request[CompareRequest]) (*connect.Response[CompareResponse], error) {
	defer s.trace("CompareUsers", req.Msg.HandleA+" vs "+req.Msg.HandleB)()

	ctx, done := s.superseder.Begin(ctx, req.Header().Get(constants.ClientIDHeader), req.Msg.HandleA+"|"+req.Msg.HandleB)
	defer done()

	cmp, err := s.compareSvc.Compare(ctx, req.Msg.HandleA, req.Msg.HandleB)
	if err := s.settle(ctx, err); err != nil {
		return nil, err
	}

	return connect.NewResponse(toComparison(cmp)), nil
}

func (s *TrackerServer) ListGoals(ctx context.Context, req *connect.Request[ListGoalsRequest]) (*connect.Response[ListGoalsResponse], error) {
	goals, err := s.goalSvc.ListByStatus(ctx, domain.GoalStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(err)
	}

	now := s.now()
	resp := &ListGoalsResponse{Goals: make([]Goal, 0, len(goals))}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, toGoal(g, now))
	}
	resp.Summary = GoalSummary(service.Summarize(goals))

	return connect.NewResponse(resp), nil
}

func (s *TrackerServer) CreateGoal(ctx context.Context, req *connect.Request[CreateGoalRequest]) (*connect.Response[GoalResponse], error) {
	in, err := toGoalInput(req.Msg.GoalFields)
	if err != nil {
		return nil, toConnectError(err)
	}
	goal, err := s.goalSvc.Create(ctx, in)
	return s.goalResponse(goal, err)
}

func (s *TrackerServer) UpdateGoal(ctx context.Context, req *connect.Request[UpdateGoalRequest]) (*connect.Response[GoalResponse], error) {
	in, err := toGoalInput(req.Msg.GoalFields)
	if err != nil {
		return nil, toConnectError(err)
	}
	goal, err := s.goalSvc.Update(ctx, req.Msg.ID, in)
	return s.goalResponse(goal, err)
}

func (s *TrackerServer) DeleteGoal(ctx context.Context, req *connect.Request[DeleteGoalRequest]) (*connect.Response[DeleteGoalResponse], error) {
	if err := s.goalSvc.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteGoalResponse{}), nil
}

func (s *TrackerServer) RecordGoalProgress(ctx context.Context, req *connect.Request[RecordGoalProgressRequest]) (*connect.Response[GoalResponse], error) {
	goal, err := s.goalSvc.RecordProgress(ctx, req.Msg.ID, req.Msg.Value)
	return s.goalResponse(goal, err)
}

func (s *TrackerServer) SyncGoal(ctx context.Context, req *connect.Request[SyncGoalRequest]) (*connect.Response[GoalResponse], error) {
	defer s.trace("SyncGoal", req.Msg.Handle)()

	goal, err := s.goalSvc.Sync(ctx, req.Msg.ID, req.Msg.Handle)
	return s.goalResponse(goal, err)
}

func (s *TrackerServer) ListThemes(ctx context.Context, req *connect.Request[ListThemesRequest]) (*connect.Response[ListThemesResponse], error) {
	themes, err := s.themeSvc.List(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	selected, err := s.themeSvc.Selected(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListThemesResponse{Themes: make([]Theme, 0, len(themes)), Selected: selected.ID}
	for _, t := range themes {
		resp.Themes = append(resp.Themes, toTheme(t))
	}
	return connect.NewResponse(resp), nil
}

func (s *TrackerServer) SaveTheme(ctx context.Context, req *connect.Request[SaveThemeRequest]) (*connect.Response[ThemeResponse], error) {
	theme, err := s.themeSvc.Save(ctx, service.ThemeInput{
		ID:          req.Msg.ID,
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Colors:      req.Msg.Colors,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ThemeResponse{Theme: toTheme(*theme)}), nil
}

func (s *TrackerServer) DeleteTheme(ctx context.Context, req *connect.Request[DeleteThemeRequest]) (*connect.Response[DeleteThemeResponse], error) {
	if err := s.themeSvc.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteThemeResponse{}), nil
}

func (s *TrackerServer) SelectTheme(ctx context.Context, req *connect.Request[SelectThemeRequest]) (*connect.Response[ThemeResponse], error) {
	theme, err := s.themeSvc.Select(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ThemeResponse{Theme: toTheme(*theme)}), nil
}

func (s *TrackerServer) goalResponse(goal *domain.Goal, err error) (*connect.Response[GoalResponse], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GoalResponse{Goal: toGoal(*goal, s.now())}), nil
}

// settle drops the outcome of a request whose client has moved on to another
// handle, even when the work itself finished.
func (s *TrackerServer) settle(ctx context.Context, err error) error {
	if service.Superseded(ctx) {
		return connect.NewError(connect.CodeCanceled, service.ErrSuperseded)
	}
	if err != nil {
		return toConnectError(err)
	}
	return nil
}

func (s *TrackerServer) trace(rpc, handle string) func() {
	start := time.Now()
	return func() {
		s.logger.Debug().
			Str("rpc", rpc).
			Str("handle", handle).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("rpc finished")
	}
}

func toConnectError(err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, service.ErrSuperseded):
		code = connect.CodeCanceled
	case errors.Is(err, service.ErrInvalidArgument):
		code = connect.CodeInvalidArgument
	case errors.Is(err, service.ErrNotFound), errors.Is(err, api.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, api.ErrUpstream):
		code = connect.CodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
