package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	APIBase           string
	MinInterval       time.Duration
	DBPath            string
	ServerPort        string
	LogLevel          string
	ScoringPolicyPath string
	GoalSweepInterval time.Duration
	Scoring           ScoringConfig
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIBase:           getEnv("CF_API_BASE", "https://codeforces.com/api"),
		DBPath:            getEnv("DB_PATH", "codeforces.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ScoringPolicyPath: getEnv("SCORING_POLICY_PATH", ""),
	}

	var err error
	cfg.MinInterval, err = getDuration("CF_MIN_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.GoalSweepInterval, err = getDuration("GOAL_SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	if cfg.GoalSweepInterval <= 0 {
		return nil, fmt.Errorf("GOAL_SWEEP_INTERVAL must be positive")
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", cfg.ServerPort, err)
	}

	cfg.Scoring, err = LoadScoring(cfg.ScoringPolicyPath)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("api_base", cfg.APIBase).
		Dur("min_interval", cfg.MinInterval).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("scoring_policy", cfg.ScoringPolicyPath).
		Dur("goal_sweep_interval", cfg.GoalSweepInterval).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

var Module = fx.Provide(Load)
