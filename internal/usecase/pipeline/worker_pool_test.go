package pipeline

import (
	"context"
	stdErrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

func TestWorkerPoolRunsJobs(t *testing.T) {
	pool := NewWorkerPool(3, 10, time.Second, nil)

	var handled atomic.Int32
	done := make(chan struct{}, 10)
	if err := pool.Start(context.Background(), func(_ context.Context, _ entities.PipelineJob) error {
		handled.Add(1)
		done <- struct{}{}
		return nil
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := pool.Dispatch(context.Background(), entities.NewPipelineJob(uuid.New(), entities.JobKindRun)); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for job %d", i)
		}
	}

	if err := pool.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if handled.Load() != 5 {
		t.Fatalf("expected 5 jobs handled, got %d", handled.Load())
	}

	err := pool.Dispatch(context.Background(), entities.NewPipelineJob(uuid.New(), entities.JobKindRun))
	if !stdErrors.Is(err, usecaseErrors.ErrDispatcherClosed) {
		t.Fatalf("expected ErrDispatcherClosed after stop, got %v", err)
	}
}

func TestWorkerPoolStartTwice(t *testing.T) {
	pool := NewWorkerPool(1, 1, time.Second, nil)
	handler := func(context.Context, entities.PipelineJob) error { return nil }

	if err := pool.Start(context.Background(), handler); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer pool.Stop()

	if err := pool.Start(context.Background(), handler); err == nil {
		t.Fatal("expected error on second start")
	}
}

func TestWorkerPoolQueueFullAndDrop(t *testing.T) {
	pool := NewWorkerPool(1, 1, time.Minute, nil)

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var handled atomic.Int32
	if err := pool.Start(context.Background(), func(context.Context, entities.PipelineJob) error {
		handled.Add(1)
		started <- struct{}{}
		<-release
		return nil
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	job := func() entities.PipelineJob { return entities.NewPipelineJob(uuid.New(), entities.JobKindRun) }

	if err := pool.Dispatch(context.Background(), job()); err != nil {
		t.Fatalf("dispatch first: %v", err)
	}
	<-started

	if err := pool.Dispatch(context.Background(), job()); err != nil {
		t.Fatalf("dispatch second: %v", err)
	}
	if err := pool.Dispatch(context.Background(), job()); !stdErrors.Is(err, usecaseErrors.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	stopped := make(chan error, 1)
	go func() { stopped <- pool.Stop() }()

	// Wait until Stop has closed the pool before letting the running job finish.
	deadline := time.After(2 * time.Second)
	for !stdErrors.Is(pool.Dispatch(context.Background(), job()), usecaseErrors.ErrDispatcherClosed) {
		select {
		case <-deadline:
			t.Fatal("pool never closed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(release)

	if err := <-stopped; err != nil {
		t.Fatalf("stop: %v", err)
	}
	if handled.Load() != 1 {
		t.Fatalf("queued job must be dropped on stop, handled %d", handled.Load())
	}
}

func TestWorkerPoolSurvivesPanics(t *testing.T) {
	pool := NewWorkerPool(1, 4, time.Second, nil)

	done := make(chan uuid.UUID, 2)
	if err := pool.Start(context.Background(), func(_ context.Context, job entities.PipelineJob) error {
		defer func() { done <- job.MeetingID }()
		if job.Kind == entities.JobKindRetry {
			panic("boom")
		}
		return nil
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer pool.Stop()

	first := entities.NewPipelineJob(uuid.New(), entities.JobKindRetry)
	second := entities.NewPipelineJob(uuid.New(), entities.JobKindRun)
	_ = pool.Dispatch(context.Background(), first)
	_ = pool.Dispatch(context.Background(), second)

	for _, want := range []uuid.UUID{first.MeetingID, second.MeetingID} {
		select {
		case got := <-done:
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped after panic")
		}
	}
}

func TestWorkerPoolSubmitBlocksUntilRoom(t *testing.T) {
	pool := NewWorkerPool(1, 1, time.Second, nil)
	if err := pool.Submit(context.Background(), entities.NewPipelineJob(uuid.New(), entities.JobKindRun)); !stdErrors.Is(err, usecaseErrors.ErrDispatcherClosed) {
		t.Fatalf("expected ErrDispatcherClosed before start, got %v", err)
	}

	release := make(chan struct{})
	if err := pool.Start(context.Background(), func(context.Context, entities.PipelineJob) error {
		<-release
		return nil
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		close(release)
		pool.Stop()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = pool.Submit(ctx, entities.NewPipelineJob(uuid.New(), entities.JobKindRun))
	}
	if !stdErrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected submit to block until the deadline, got %v", err)
	}
}
