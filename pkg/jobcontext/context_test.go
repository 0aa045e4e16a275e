package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJobBeginSetsMetadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := JobBegin(context.Background(), id, "run", 3, time.Minute)
	defer cancel()

	meta := GetJobMetadata(ctx)
	if meta.JobID != id {
		t.Fatalf("expected job id %s, got %s", id, meta.JobID)
	}
	if meta.JobType != "run" {
		t.Fatalf("expected job type run, got %q", meta.JobType)
	}
	if meta.WorkerID != 3 {
		t.Fatalf("expected worker 3, got %d", meta.WorkerID)
	}
	if meta.StartTime.IsZero() {
		t.Fatal("expected start time to be set")
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("expected deadline on job context")
	}
}

func TestJobEndRunsOnce(t *testing.T) {
	calls := 0
	boom := errors.New("boom")

	err := JobEnd(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single execution, got %d", calls)
	}
}

func TestJobEndRecoversPanic(t *testing.T) {
	err := JobEnd(context.Background(), func(context.Context) error {
		panic("kaboom")
	})

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if panicErr.Value != "kaboom" {
		t.Fatalf("unexpected panic value %v", panicErr.Value)
	}
	if len(panicErr.Stack) == 0 {
		t.Fatal("expected stack trace")
	}
}

func TestJobEndSkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := JobEnd(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatal("job must not run on a cancelled context")
	}
}

func TestGetWorkerIDDefault(t *testing.T) {
	if got := GetWorkerID(context.Background()); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
