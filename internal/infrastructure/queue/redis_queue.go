package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
)

const (
	defaultPollTimeout = 5 * time.Second
	reconnectInitial   = 100 * time.Millisecond
	reconnectMax       = 10 * time.Second
)

// RedisQueue is a FIFO list of pipeline jobs shared between processes.
// Producers LPUSH, consumers BRPOP.
type RedisQueue struct {
	client      *redis.Client
	key         string
	pollTimeout time.Duration
	logger      *zap.Logger
}

// NewRedisQueue creates a queue on the given list key
func NewRedisQueue(client *redis.Client, key string, pollTimeout time.Duration, log *zap.Logger) *RedisQueue {
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &RedisQueue{
		client:      client,
		key:         key,
		pollTimeout: pollTimeout,
		logger:      logger.OrNop(log),
	}
}

// Dispatch pushes a job onto the queue
func (q *RedisQueue) Dispatch(ctx context.Context, job entities.PipelineJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Len returns the number of queued jobs
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Consume pops jobs and hands them to handle until ctx is cancelled. Redis
// errors are retried with exponential backoff. A job the handler refuses is
// pushed back to the head of the queue and the error is returned.
func (q *RedisQueue) Consume(ctx context.Context, handle func(context.Context, entities.PipelineJob) error) error {
	q.logger.Info("queue.consumer.started", zap.String("key", q.key))
	defer q.logger.Info("queue.consumer.stopped", zap.String("key", q.key))

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = reconnectInitial
	bo.MaxInterval = reconnectMax
	bo.MaxElapsedTime = 0
	bo.Reset()

	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				bo.Reset()
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			wait := bo.NextBackOff()
			q.logger.Warn("queue.pop.failed", zap.Duration("retry_in", wait), zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		bo.Reset()
		// BRPOP replies with [key, value].
		if len(res) != 2 {
			continue
		}

		var job entities.PipelineJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.logger.Error("queue.job.malformed", zap.String("payload", res[1]), zap.Error(err))
			continue
		}

		if err := handle(ctx, job); err != nil {
			if perr := q.client.RPush(context.WithoutCancel(ctx), q.key, res[1]).Err(); perr != nil {
				q.logger.Error("queue.job.requeue_failed",
					zap.String("meeting_id", job.MeetingID.String()),
					zap.Error(perr),
				)
			}
			return fmt.Errorf("handle job %s: %w", job.MeetingID, err)
		}
	}
}
