package config

import (
	"os"
	"time"
)

type Config struct {
	AppPort string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	JWTSecret string

	// InitialClock is each side's full time budget at game start.
	InitialClock time.Duration

	// SweepInterval controls how often active games are checked for
	// an exhausted clock.
	SweepInterval time.Duration
}

func Load() Config {

	cfg := Config{

		AppPort: getEnv("APP_PORT", "5000"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		InitialClock:  getDuration("INITIAL_CLOCK", 5*time.Minute),
		SweepInterval: getDuration("SWEEP_INTERVAL", 5*time.Second),
	}

	return cfg

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
