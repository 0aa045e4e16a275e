package queue

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

const testKey = "meetings:pipeline:jobs"

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisQueueFIFO(t *testing.T) {
	_, client := newTestClient(t)
	q := NewRedisQueue(client, testKey, 100*time.Millisecond, nil)
	ctx := context.Background()

	jobs := []entities.PipelineJob{
		entities.NewPipelineJob(uuid.New(), entities.JobKindRun),
		entities.NewPipelineJob(uuid.New(), entities.JobKindRetry),
		entities.NewPipelineJob(uuid.New(), entities.JobKindRun),
	}
	for _, job := range jobs {
		if err := q.Dispatch(ctx, job); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}
	if n, err := q.Len(ctx); err != nil || n != 3 {
		t.Fatalf("expected 3 queued, got %d (%v)", n, err)
	}

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var got []entities.PipelineJob
	err := q.Consume(consumeCtx, func(_ context.Context, job entities.PipelineJob) error {
		got = append(got, job)
		if len(got) == len(jobs) {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	for i, job := range jobs {
		if got[i].MeetingID != job.MeetingID || got[i].Kind != job.Kind {
			t.Fatalf("job %d: expected %+v, got %+v", i, job, got[i])
		}
	}
}

func TestRedisQueueRequeuesRefusedJob(t *testing.T) {
	mr, client := newTestClient(t)
	q := NewRedisQueue(client, testKey, 100*time.Millisecond, nil)
	ctx := context.Background()

	first := entities.NewPipelineJob(uuid.New(), entities.JobKindRun)
	second := entities.NewPipelineJob(uuid.New(), entities.JobKindRun)
	_ = q.Dispatch(ctx, first)
	_ = q.Dispatch(ctx, second)

	refused := stdErrors.New("pool closed")
	err := q.Consume(ctx, func(context.Context, entities.PipelineJob) error { return refused })
	if !stdErrors.Is(err, refused) {
		t.Fatalf("expected handler error, got %v", err)
	}

	items, err := mr.List(testKey)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected both jobs queued, got %d", len(items))
	}

	// The refused job is consumed first on the next pop.
	var next entities.PipelineJob
	if err := json.Unmarshal([]byte(items[len(items)-1]), &next); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if next.MeetingID != first.MeetingID {
		t.Fatalf("expected refused job at the head, got %s", next.MeetingID)
	}
}

func TestRedisQueueSkipsMalformedPayload(t *testing.T) {
	mr, client := newTestClient(t)
	q := NewRedisQueue(client, testKey, 100*time.Millisecond, nil)

	if _, err := mr.Lpush(testKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	job := entities.NewPipelineJob(uuid.New(), entities.JobKindRun)
	_ = q.Dispatch(context.Background(), job)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []uuid.UUID
	if err := q.Consume(ctx, func(_ context.Context, j entities.PipelineJob) error {
		got = append(got, j.MeetingID)
		cancel()
		return nil
	}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(got) != 1 || got[0] != job.MeetingID {
		t.Fatalf("expected only the valid job, got %v", got)
	}
}

func TestRedisQueueStopsOnCancel(t *testing.T) {
	_, client := newTestClient(t)
	q := NewRedisQueue(client, testKey, 50*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(context.Context, entities.PipelineJob) error { return nil })
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestRedisQueueSurvivesRedisRestart(t *testing.T) {
	mr, client := newTestClient(t)
	q := NewRedisQueue(client, testKey, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan uuid.UUID, 1)
	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(_ context.Context, job entities.PipelineJob) error {
			got <- job.MeetingID
			return nil
		})
	}()

	mr.Close()
	select {
	case err := <-done:
		t.Fatalf("consumer exited while redis was down: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	if err := mr.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}

	job := entities.NewPipelineJob(uuid.New(), entities.JobKindRun)
	if err := q.Dispatch(context.Background(), job); err != nil {
		t.Fatalf("dispatch after restart: %v", err)
	}

	select {
	case id := <-got:
		if id != job.MeetingID {
			t.Fatalf("expected %s, got %s", job.MeetingID, id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not resume after restart")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
