package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/harshWarbhe/revticket/internal/domain"
	"github.com/harshWarbhe/revticket/pkg/redis"
)

// ReleaseQueueKey is the Redis list holding stuck seat releases
const ReleaseQueueKey = "release:stuck_seats"

// ReleaseQueue is the contract for parking seat releases that could not
// be completed inline
type ReleaseQueue interface {
	Enqueue(ctx context.Context, task *domain.ReleaseTask) error
	// Dequeue pops one task; returns (nil, nil) when the queue is empty
	Dequeue(ctx context.Context) (*domain.ReleaseTask, error)
	Len(ctx context.Context) (int64, error)
}

// RedisReleaseQueue implements ReleaseQueue on a Redis list
type RedisReleaseQueue struct {
	client *redis.Client
}

// NewRedisReleaseQueue creates a ReleaseQueue backed by Redis
func NewRedisReleaseQueue(client *redis.Client) *RedisReleaseQueue {
	return &RedisReleaseQueue{client: client}
}

// Enqueue appends a task to the queue
func (q *RedisReleaseQueue) Enqueue(ctx context.Context, task *domain.ReleaseTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal release task: %w", err)
	}
	if err := q.client.RPush(ctx, ReleaseQueueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue release task: %w", err)
	}
	return nil
}

// Dequeue pops the oldest task; empty queue yields (nil, nil)
func (q *RedisReleaseQueue) Dequeue(ctx context.Context) (*domain.ReleaseTask, error) {
	data, err := q.client.LPop(ctx, ReleaseQueueKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue release task: %w", err)
	}

	task := &domain.ReleaseTask{}
	if err := json.Unmarshal([]byte(data), task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal release task: %w", err)
	}
	return task, nil
}

// Len returns the queue depth
func (q *RedisReleaseQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, ReleaseQueueKey).Result()
}
