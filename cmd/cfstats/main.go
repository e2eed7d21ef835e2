// Command cfstats prints Codeforces statistics for a handle in the terminal.
package main

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/catalog"
	"codeforces-tracker/internal/config"
	"codeforces-tracker/internal/constants"
	"codeforces-tracker/internal/logger"
	"codeforces-tracker/internal/recommend"
	"codeforces-tracker/internal/service"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel string

	profileLimit int
	heatmapDays  int

	recStatus     string
	recDifficulty string
	recMinRating  int
	recMaxRating  int
	recTags       []string
	recLimit      int
)

type app struct {
	profiles  *service.ProfileService
	compare   *service.CompareService
	recommend *service.RecommendService
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cfstats",
		Short:         "Codeforces statistics in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")

	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newHeatmapCmd())
	rootCmd.AddCommand(newStreaksCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newCompareCmd())

	return rootCmd
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <handle>",
		Short: "Show rating, solved problems and activity for a handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				p, err := a.profiles.GetProfile(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderProfile(p, profileLimit))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&profileLimit, "solved", 10, "number of recently solved problems to list")
	return cmd
}

func newHeatmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatmap <handle>",
		Short: "Draw the submission heatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.profiles.GetHeatmap(ctx, args[0], heatmapDays)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderHeatmap(view.Weeks))
				fmt.Fprintln(cmd.OutOrStdout(), renderStreaks(view.Streaks))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&heatmapDays, "days", constants.HeatmapWindowDays, "number of days to draw (at most 365)")
	return cmd
}

func newStreaksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streaks <handle>",
		Short: "Show activity streaks over the last year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.profiles.GetHeatmap(ctx, args[0], constants.HeatmapWindowDays)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStreaks(view.Streaks))
				return nil
			})
		},
	}
}

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <handle>",
		Short: "Suggest problems to practice next",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				recs, err := a.recommend.Recommend(ctx, args[0], recommend.Filters{
					Status:     recommend.Status(recStatus),
					Difficulty: recDifficulty,
					MinRating:  recMinRating,
					MaxRating:  recMaxRating,
					Tags:       recTags,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRecommendations(recs))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&recStatus, "status", string(recommend.StatusUnsolved), "unsolved, solved or all")
	cmd.Flags().StringVar(&recDifficulty, "difficulty", "", "beginner, intermediate, advanced or expert")
	cmd.Flags().IntVar(&recMinRating, "min-rating", 0, "lowest problem rating")
	cmd.Flags().IntVar(&recMaxRating, "max-rating", 0, "highest problem rating")
	cmd.Flags().StringSliceVar(&recTags, "tag", nil, "only problems with one of these tags")
	cmd.Flags().IntVar(&recLimit, "limit", 0, "number of problems to list (default from scoring policy)")
	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <handle> <handle>",
		Short: "Compare two handles side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				cmp, err := a.compare.Compare(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderComparison(cmp))
				return nil
			})
		},
	}
}

func withApp(cmd *cobra.Command, run func(ctx context.Context, a *app) error) error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	log := logger.SetLevel(cmd.ErrOrStderr(), level)

	cfg, err := config.Load(log)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	policy := recommend.DefaultPolicy().WithOverrides(cfg.Scoring)
	if recLimit > 0 {
		policy.Limit = recLimit
	}

	client := api.NewCodeforcesClient(cfg, log)
	cache := catalog.NewCache(client, log)
	a := &app{
		profiles:  service.NewProfileService(client, cache, log),
		compare:   service.NewCompareService(client, log),
		recommend: service.NewRecommendService(client, cache, policy, log),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return run(ctx, a)
}
