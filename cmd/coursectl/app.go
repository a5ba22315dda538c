package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/course-sessions/internal/repository"
	"github.com/noah-isme/course-sessions/internal/service"
	"github.com/noah-isme/course-sessions/pkg/cache"
	"github.com/noah-isme/course-sessions/pkg/config"
	"github.com/noah-isme/course-sessions/pkg/database"
	"github.com/noah-isme/course-sessions/pkg/logger"
)

// app holds the wired dependencies of one CLI invocation.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *sqlx.DB
	cacheRepo *repository.CacheRepository
	metrics   *service.MetricsService
	sessions  *service.SessionService
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &app{cfg: cfg, logger: logr, db: db}
	if cfg.Metrics.Enabled {
		a.metrics = service.NewMetricsService()
	}

	cacheSvc := a.buildCache(ctx)
	repos := service.SessionRepositories{
		Sessions:  repository.NewSessionRepository(db),
		Students:  repository.NewStudentRepository(db),
		Images:    repository.NewImageRepository(db),
		Lecturers: repository.NewLecturerRepository(db),
		Courses:   repository.NewCourseRepository(db),
	}
	a.sessions = service.NewSessionService(repos, cacheSvc, a.metrics, validator.New(), logr)
	return a, nil
}

// buildCache picks the configured backend. An unreachable Redis degrades to the in-memory store.
func (a *app) buildCache(ctx context.Context) *service.CacheService {
	cfg := a.cfg.Cache
	if !cfg.Enabled {
		return nil
	}

	var repo service.CacheRepository
	if cfg.Backend == config.CacheBackendRedis {
		client, err := cache.NewRedis(ctx, a.cfg.Redis)
		if err != nil {
			a.logger.Warn("redis unavailable, using in-memory cache", zap.Error(err))
		} else {
			a.cacheRepo = repository.NewCacheRepository(client, a.logger)
			repo = a.cacheRepo
		}
	}
	if repo == nil {
		repo = repository.NewMemoryCacheRepository(cache.NewMemory(cfg))
	}
	return service.NewCacheService(repo, a.metrics, cfg.TTL, cfg.KeyPrefix, a.logger, true)
}

func (a *app) close() {
	if a.metrics != nil {
		snap := a.metrics.Snapshot()
		a.logger.Info("metrics snapshot",
			zap.Uint64("registrations", snap.Registrations),
			zap.Uint64("registration_failures", snap.RegistrationFailures),
			zap.Uint64("decisions", snap.Decisions),
			zap.Uint64("cache_hits", snap.CacheHits),
			zap.Uint64("cache_misses", snap.CacheMisses),
			zap.Uint64("repository_calls", snap.RepositoryCalls),
			zap.Float64("average_repository_ms", snap.AverageRepositoryMs),
		)
	}
	if a.cacheRepo != nil {
		if err := a.cacheRepo.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
