package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	gameKeyPrefix   = "game:"
	playerKeyPrefix = "player:"
	liveGamesKey    = "games:live"
)

// RedisStore keeps ephemeral game records, the player reverse index and
// the live-games set in Redis. Each method is a single atomic command
// (or a command per key); cross-record sequencing is the Coordinator's
// job.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}

func playerKey(playerID string) string {
	return playerKeyPrefix + playerID
}

func (r *RedisStore) Create(ctx context.Context, g *Game) error {
	if g.ID == "" || g.White == "" || g.Black == "" {
		return fmt.Errorf("game: record missing id or players")
	}
	if err := r.write(ctx, g); err != nil {
		return err
	}
	return r.client.SAdd(ctx, liveGamesKey, g.ID).Err()
}

func (r *RedisStore) Get(ctx context.Context, gameID string) (*Game, error) {
	val, err := r.client.Get(ctx, gameKey(gameID)).Result()
	if err == redis.Nil {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	var g Game
	if err := json.Unmarshal([]byte(val), &g); err != nil {
		return nil, fmt.Errorf("game: failed to unmarshal record: %w", err)
	}
	return &g, nil
}

func (r *RedisStore) Update(ctx context.Context, g *Game) error {
	if g.ID == "" {
		return fmt.Errorf("game: record missing id")
	}
	return r.write(ctx, g)
}

func (r *RedisStore) Delete(ctx context.Context, gameID string) error {
	if err := r.client.Del(ctx, gameKey(gameID)).Err(); err != nil {
		return err
	}
	return r.client.SRem(ctx, liveGamesKey, gameID).Err()
}

func (r *RedisStore) BindPlayer(ctx context.Context, playerID, gameID string) error {
	return r.client.Set(ctx, playerKey(playerID), gameID, 0).Err()
}

func (r *RedisStore) UnbindPlayer(ctx context.Context, playerID string) error {
	return r.client.Del(ctx, playerKey(playerID)).Err()
}

func (r *RedisStore) PlayerGame(ctx context.Context, playerID string) (string, error) {
	val, err := r.client.Get(ctx, playerKey(playerID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisStore) LiveIDs(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, liveGamesKey).Result()
}

func (r *RedisStore) write(ctx context.Context, g *Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("game: failed to marshal record: %w", err)
	}
	return r.client.Set(ctx, gameKey(g.ID), data, 0).Err()
}
