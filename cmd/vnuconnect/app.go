package main

import (
	"context"
	"fmt"

	"github.com/iseven/vnu-connect-x/internal/cache"
	"github.com/iseven/vnu-connect-x/internal/config"
	"github.com/iseven/vnu-connect-x/internal/fixtures"
	"github.com/iseven/vnu-connect-x/internal/preferences"
	"github.com/iseven/vnu-connect-x/internal/repository"
	"github.com/iseven/vnu-connect-x/internal/service/achievements"
	catalogsvc "github.com/iseven/vnu-connect-x/internal/service/catalog"
	"github.com/iseven/vnu-connect-x/internal/service/leaderboard"
	"github.com/iseven/vnu-connect-x/internal/service/missions"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// app holds the wired storage and services shared by every command.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *repository.DB
	redis    *cache.RedisCache // nil when redis is disabled
	fixtures *fixtures.Set

	missions     *missions.Service
	achievements *achievements.Service
	leaderboard  *leaderboard.Service
	catalog      *catalogsvc.Service
	preferences  *preferences.Store
}

// newApp opens the database, seeds fixtures when configured, connects to
// redis when enabled and builds the services.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	set, err := fixtures.Load()
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDB(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, db: db, fixtures: set}

	if err := db.AutoMigrate(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if cfg.Database.SeedOnStart {
		if _, err := fixtures.Seed(db, set, log.Component("fixtures")); err != nil {
			a.Close()
			return nil, err
		}
	}

	// A nil interface keeps idempotency keys and preferences in process.
	var kv cache.Cache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(ctx, &cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = rc
		kv = rc
	}

	learnerRepo := repository.NewLearnerRepository(db)
	pathwayRepo := repository.NewPathwayRepository(db)

	a.achievements = achievements.NewService(repository.NewAchievementRepository(db), log)
	a.leaderboard = leaderboard.NewService(learnerRepo, pathwayRepo, log)
	a.missions = missions.NewService(learnerRepo, pathwayRepo, set, kv, cfg.Redis.SubmissionKeyTTL(), log).
		WithBadgeListener(a.achievements)
	a.preferences = preferences.NewStore(kv, preferences.Language(cfg.Server.Language), log)

	a.catalog, err = catalogsvc.NewService(repository.NewCatalogRepository(db), cfg.Catalog.CacheSize, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	return a, nil
}

// Close releases the redis client and the database.
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Failed to close database")
	}
}
