package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/repository"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/cache"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/media"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/queue"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/storage"
	aiuse "github.com/FizzahNasir/FYP-Synkro/internal/usecase/ai"
	"github.com/FizzahNasir/FYP-Synkro/internal/usecase/converter"
	meetingUsecase "github.com/FizzahNasir/FYP-Synkro/internal/usecase/meeting"
	"github.com/FizzahNasir/FYP-Synkro/internal/usecase/pipeline"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

// App holds the process-wide dependency graph shared by the API server and
// the CLI
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	Store  storage.ArtifactStore

	Meetings    *repository.MeetingRepository
	ActionItems *repository.ActionItemRepository
	Members     *repository.TeamMemberRepository

	Orchestrator *pipeline.Orchestrator
	Pool         *pipeline.WorkerPool
	Queue        *queue.RedisQueue

	MeetingService   *meetingUsecase.Service
	ConverterService *converter.Service
}

// New connects to the database, storage and (when configured) Redis, then
// builds the pipeline and the services on top of them
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	db, err := database.Open(cfg.Database, cfg.Server.Environment, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a.DB = db

	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			a.Close()
			return nil, fmt.Errorf("DB_AUTO_MIGRATE is not allowed in production, run meetingctl migrate up")
		}
		applied, err := database.Migrate(db, cfg.Database.Driver, database.Up, 0)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database.migrated", zap.Int("applied", applied))
	}

	if a.Store, err = storage.New(ctx, cfg.Storage); err != nil {
		a.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	if cfg.Queue.Driver == "redis" {
		if a.Redis, err = cache.NewRedisClient(ctx, cfg.Redis); err != nil {
			a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	transcriber, err := aiuse.NewTranscriber(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	summarizer, err := aiuse.NewSummarizer(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Meetings = repository.NewMeetingRepository(db)
	a.ActionItems = repository.NewActionItemRepository(db)
	a.Members = repository.NewTeamMemberRepository(db)

	var prober pipeline.DurationProber
	if cfg.Pipeline.FFProbePath != "" {
		prober = media.NewProber(cfg.Pipeline.FFProbePath)
	}

	a.Orchestrator = pipeline.NewOrchestrator(a.Meetings, a.Store, transcriber, summarizer, prober, pipeline.Options{
		AcceptThreshold:  cfg.Pipeline.AcceptThreshold,
		MaxArtifactBytes: cfg.Pipeline.MaxArtifactBytes,
		MaxDuration:      cfg.Pipeline.MaxDuration,
		StageTimeout:     cfg.Pipeline.StageTimeout,
	}, logger.Named("pipeline"))
	a.Pool = pipeline.NewWorkerPool(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize, cfg.Pipeline.JobTimeout, logger.Named("pool"))

	var notifier converter.Notifier = converter.NewLogNotifier(logger)
	if a.Redis != nil {
		a.Queue = queue.NewRedisQueue(a.Redis, cfg.Queue.Key, cfg.Queue.PollTimeout, logger.Named("queue"))
		a.Orchestrator.SetDispatcher(a.Queue)
		notifier = queue.NewRedisNotifier(a.Redis, cfg.Queue.NotifyTopic)
	} else {
		a.Orchestrator.SetDispatcher(a.Pool)
	}

	a.MeetingService = meetingUsecase.NewService(a.Meetings, a.Store, a.Orchestrator, a.MaxUploadBytes(), logger.Named("meetings"))
	a.ConverterService = converter.NewService(a.Meetings, a.ActionItems, a.Members, notifier, logger.Named("converter"))

	return a, nil
}

// MaxUploadBytes is the effective upload cap
func (a *App) MaxUploadBytes() int64 {
	limit := a.Config.Server.MaxUploadBytes
	if limit <= 0 || limit > a.Config.Pipeline.MaxArtifactBytes {
		limit = a.Config.Pipeline.MaxArtifactBytes
	}
	return limit
}

// StartWorkers starts the worker pool and, with the redis queue driver, a
// consumer feeding it. The returned function stops both.
func (a *App) StartWorkers(ctx context.Context) (func(), error) {
	if err := a.Pool.Start(ctx, a.Orchestrator.HandleJob); err != nil {
		return nil, err
	}

	consumeCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	if a.Queue != nil {
		go func() {
			defer close(done)
			if err := a.Queue.Consume(consumeCtx, a.Pool.Submit); err != nil {
				a.Logger.Error("queue.consumer.stopped", zap.Error(err))
			}
		}()
	} else {
		close(done)
	}

	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(a.Config.Queue.PollTimeout + time.Second):
			a.Logger.Warn("queue.consumer.stop_timeout")
		}
		if err := a.Pool.Stop(); err != nil {
			a.Logger.Warn("pipeline.pool.stop_failed", zap.Error(err))
		}
	}, nil
}

// Close releases connections opened by New
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis.close_failed", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			a.Logger.Warn("database.close_failed", zap.Error(err))
		}
	}
}
