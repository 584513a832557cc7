package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inkpost/internal/auth"
	"inkpost/internal/cache"
	"inkpost/internal/config"
	"inkpost/internal/db"
	applog "inkpost/internal/logger"
	"inkpost/internal/repository"
	"inkpost/internal/service"
)

var (
	fixturePath string
	printTokens bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load profiles, posts and comments into the database",
	Long: `Load a fixture of profiles, posts and comments into the configured database.

The fixture may be a local YAML or JSON file or an http(s) URL. Profiles are
upserted; posts and comments are always created. With --tokens a development
bearer token is printed for every seeded profile.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&fixturePath, "fixture", "f", "fixtures/seed.yaml", "fixture file path or URL")
	rootCmd.Flags().BoolVar(&printTokens, "tokens", true, "print a development bearer token per profile")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	cfg := config.Load()
	logger, err := applog.New(cfg.LogLevel, true)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database ready", zap.String("driver", cfg.DBDriver))

	fixture, err := loadFixture(ctx, fixturePath)
	if err != nil {
		return err
	}
	logger.Info("fixture loaded", zap.String("source", fixturePath),
		zap.Int("profiles", len(fixture.Profiles)), zap.Int("posts", len(fixture.Posts)))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	profileService := service.NewProfileService(repository.NewProfileRepository(gormDB), cacheClient, cfg.ProfileCacheTTL)
	contentService := service.NewContentService(
		repository.NewPostRepository(gormDB),
		repository.NewCommentRepository(gormDB),
		profileService,
		nil,
		logger,
	)

	res, err := seed(ctx, profileService, contentService, fixture)
	if err != nil {
		return err
	}
	logger.Info("seed completed",
		zap.Int("profiles", res.Profiles), zap.Int("posts", res.Posts), zap.Int("comments", res.Comments))

	if !printTokens {
		return nil
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	for _, p := range fixture.Profiles {
		token, err := jwtService.GenerateAccessToken(p.ID, p.Email)
		if err != nil {
			return fmt.Errorf("token for %s: %w", p.ID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tBearer %s\n", p.ID, p.Name, token)
	}
	return nil
}
