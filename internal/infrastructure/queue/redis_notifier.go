package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

// RedisNotifier publishes task assignment events on a pub/sub channel.
// Subscribers that are not connected miss the event.
type RedisNotifier struct {
	client *redis.Client
	topic  string
}

// NewRedisNotifier creates a notifier publishing to topic
func NewRedisNotifier(client *redis.Client, topic string) *RedisNotifier {
	return &RedisNotifier{client: client, topic: topic}
}

// NotifyTaskAssigned publishes the event as JSON
func (n *RedisNotifier) NotifyTaskAssigned(ctx context.Context, event entities.TaskAssignedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := n.client.Publish(ctx, n.topic, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
