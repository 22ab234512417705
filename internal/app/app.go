// Package app wires configuration, storage and usecases into one container shared by the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/fadilmartias/job-atlas/internal/collector"
	"github.com/fadilmartias/job-atlas/internal/config"
	"github.com/fadilmartias/job-atlas/internal/ratelimit"
	"github.com/fadilmartias/job-atlas/internal/repository"
	"github.com/fadilmartias/job-atlas/internal/service"
	"github.com/fadilmartias/job-atlas/internal/usecase"
	"github.com/phuslu/log"
	"gorm.io/gorm"
)

type App struct {
	DB         *gorm.DB
	Runtime    *usecase.Runtime
	Jobs       *usecase.JobUsecase
	Projection *usecase.ProjectionUsecase
	Ingestion  *usecase.IngestionUsecase
	Embedding  *usecase.EmbeddingUsecase
}

// New connects and migrates the database, resolves the embedding provider once, registers
// the named limiters and builds every usecase.
func New(ctx context.Context, l *log.Logger) (*App, error) {
	appConfig := config.LoadAppConfig()

	db, err := repository.Connect(config.LoadDBConfig(), appConfig.IsProduction())
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	provider, err := service.NewEmbeddingProvider(ctx, *config.LoadEmbeddingConfig(), l)
	if err != nil {
		return nil, err
	}

	rlConfig := config.LoadRateLimitConfig()
	limiters := ratelimit.NewRegistry()
	limiters.Register(ratelimit.Embed, rlConfig.EmbedMax, rlConfig.EmbedWindow)
	limiters.Register(ratelimit.Ingestion, rlConfig.IngestionMax, rlConfig.IngestionWindow)

	collectors, err := collector.NewAll(config.LoadSourcesConfig(), l)
	if err != nil {
		return nil, err
	}

	rt := usecase.NewRuntime(provider, limiters, l)
	jobRepo := repository.NewJobRepository(db)
	pcaRepo := repository.NewPcaModelRepository(db)
	logRepo := repository.NewIngestionLogRepository(db)

	projection := usecase.NewProjectionUsecase(rt, jobRepo, pcaRepo)
	ingestion := usecase.NewIngestionUsecase(rt, collectors, jobRepo, logRepo, projection, *config.LoadIngestionConfig()).
		WithRunLocker(repository.NewLockRepository(db))

	l.Info().
		Str("provider", provider.Name()).
		Str("provider_kind", string(provider.Kind())).
		Int("collectors", len(collectors)).
		Msg("application wired")

	return &App{
		DB:         db,
		Runtime:    rt,
		Jobs:       usecase.NewJobUsecase(jobRepo, pcaRepo),
		Projection: projection,
		Ingestion:  ingestion,
		Embedding:  usecase.NewEmbeddingUsecase(rt),
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
