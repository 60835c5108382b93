package game

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const pendingQueueKey = "queue:pending_players"

// RedisQueue is the shared matchmaking queue backed by a Redis list.
// LPOP is atomic, so a queued player can only be claimed once no matter
// how many coordinator invocations race on it.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, playerID string) error {
	// Drop any existing ticket first so a player never appears twice.
	if err := q.client.LRem(ctx, pendingQueueKey, 0, playerID).Err(); err != nil {
		return err
	}
	return q.client.RPush(ctx, pendingQueueKey, playerID).Err()
}

func (q *RedisQueue) Pop(ctx context.Context) (string, error) {
	val, err := q.client.LPop(ctx, pendingQueueKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (q *RedisQueue) Remove(ctx context.Context, playerID string) error {
	return q.client.LRem(ctx, pendingQueueKey, 0, playerID).Err()
}
