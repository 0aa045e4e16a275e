package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
	"github.com/FizzahNasir/FYP-Synkro/pkg/jobcontext"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
)

// WorkerPool runs pipeline jobs on a fixed number of goroutines fed by a
// bounded in-process queue
type WorkerPool struct {
	workers    int
	jobTimeout time.Duration
	jobs       chan entities.PipelineJob
	logger     *zap.Logger

	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewWorkerPool creates a stopped pool
func NewWorkerPool(workers, queueSize int, jobTimeout time.Duration, log *zap.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	return &WorkerPool{
		workers:    workers,
		jobTimeout: jobTimeout,
		jobs:       make(chan entities.PipelineJob, queueSize),
		logger:     logger.OrNop(log),
	}
}

// Start launches the workers. Jobs run on contexts derived from ctx.
func (p *WorkerPool) Start(ctx context.Context, handler Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("worker pool already running")
	}

	p.stopChan = make(chan struct{})
	p.isRunning = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i+1, handler)
	}

	p.logger.Info("pipeline.pool.started",
		zap.Int("workers", p.workers),
		zap.Int("queue_size", cap(p.jobs)),
	)
	return nil
}

// Stop signals workers to exit and waits for in-flight jobs. Queued jobs
// that have not started are dropped.
func (p *WorkerPool) Stop() error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return fmt.Errorf("worker pool not running")
	}
	p.isRunning = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()

	dropped := 0
drain:
	for {
		select {
		case job := <-p.jobs:
			dropped++
			p.logger.Warn("pipeline.pool.job_dropped",
				zap.String("meeting_id", job.MeetingID.String()),
				zap.String("job_kind", string(job.Kind)),
			)
		default:
			break drain
		}
	}

	p.logger.Info("pipeline.pool.stopped", zap.Int("dropped", dropped))
	return nil
}

// Dispatch queues a job without blocking
func (p *WorkerPool) Dispatch(_ context.Context, job entities.PipelineJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return usecaseErrors.ErrDispatcherClosed
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return usecaseErrors.ErrQueueFull
	}
}

// Submit queues a job, blocking until there is room or ctx is done
func (p *WorkerPool) Submit(ctx context.Context, job entities.PipelineJob) error {
	p.mu.Lock()
	running, stop := p.isRunning, p.stopChan
	p.mu.Unlock()

	if !running {
		return usecaseErrors.ErrDispatcherClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-stop:
		return usecaseErrors.ErrDispatcherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *WorkerPool) worker(ctx context.Context, workerID int, handler Handler) {
	defer p.wg.Done()

	for {
		// Stop takes priority over queued jobs.
		select {
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.runJob(ctx, workerID, job, handler)
		}
	}
}

func (p *WorkerPool) runJob(ctx context.Context, workerID int, job entities.PipelineJob, handler Handler) {
	jobCtx, cancel := jobcontext.JobBegin(ctx, uuid.New(), string(job.Kind), workerID, p.jobTimeout)
	defer cancel()

	log := p.logger.With(
		zap.String("meeting_id", job.MeetingID.String()),
		zap.String("job_kind", string(job.Kind)),
		zap.Int("worker_id", workerID),
	)
	log.Info("pipeline.job.started", zap.Duration("queued_for", time.Since(job.EnqueuedAt)))

	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return handler(ctx, job)
	})

	meta := jobcontext.GetJobMetadata(jobCtx)
	if err != nil {
		log.Error("pipeline.job.failed", zap.Duration("elapsed", meta.Elapsed), zap.Error(err))
		return
	}
	log.Info("pipeline.job.finished", zap.Duration("elapsed", meta.Elapsed))
}
