package fx

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/catalog"
	"codeforces-tracker/internal/config"
	"codeforces-tracker/internal/database"
	"codeforces-tracker/internal/db"
	"codeforces-tracker/internal/logger"
	"codeforces-tracker/internal/proxy"
	"codeforces-tracker/internal/recommend"
	"codeforces-tracker/internal/repository"
	"codeforces-tracker/internal/scheduler"
	"codeforces-tracker/internal/server"
	"codeforces-tracker/internal/service"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// The Codeforces client serves three consumers through their own interfaces.
func ProvideCodeforcesAPI(c *api.CodeforcesClient) service.CodeforcesAPI {
	return c
}

func ProvideProblemsetFetcher(c *api.CodeforcesClient) catalog.Fetcher {
	return c
}

func ProvideRelayer(c *api.CodeforcesClient) proxy.Relayer {
	return c
}

func ProvideCatalogSource(c *catalog.Cache) service.CatalogSource {
	return c
}

func ProvideProfileLoader(s *service.ProfileService) service.ProfileLoader {
	return s
}

func ProvideSweeper(s *service.GoalService) scheduler.Sweeper {
	return s
}

func ProvidePolicy(cfg *config.Config, logger zerolog.Logger) recommend.Policy {
	policy := recommend.DefaultPolicy().WithOverrides(cfg.Scoring)
	logger.Debug().
		Float64("weak_tag_bonus", policy.WeakTagBonus).
		Float64("rating_bonus", policy.RatingBonus).
		Float64("attempted_cost", policy.AttemptedCost).
		Int("limit", policy.Limit).
		Msg("recommendation policy ready")
	return policy
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewGoalRepository),
	fx.Provide(repository.NewThemeRepository),
	// api client
	fx.Provide(api.NewCodeforcesClient),
	fx.Provide(ProvideCodeforcesAPI, ProvideProblemsetFetcher, ProvideRelayer),
	fx.Provide(catalog.NewCache),
	fx.Provide(ProvideCatalogSource),
	fx.Provide(ProvidePolicy),
	// svc
	fx.Provide(service.NewProfileService),
	fx.Provide(ProvideProfileLoader),
	fx.Provide(service.NewCompareService),
	fx.Provide(service.NewRecommendService),
	fx.Provide(service.NewGoalService),
	fx.Provide(service.NewThemeService),
	fx.Provide(service.NewSuperseder),
	// jobs
	fx.Provide(ProvideSweeper),
	fx.Provide(scheduler.New),
	// server
	fx.Provide(server.NewTrackerServer),
	fx.Provide(proxy.NewHandler),
)
