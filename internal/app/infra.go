package app

import (
	"context"

	"github.com/Mayur-kumbar/Checkmate.io/internal/config"
	"github.com/Mayur-kumbar/Checkmate.io/internal/db"
	"github.com/Mayur-kumbar/Checkmate.io/internal/logger"
	"github.com/Mayur-kumbar/Checkmate.io/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", nil)

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}
