package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/HSouheill/webinar_backend/logging"
)

// ConnectRedis returns the settings cache client, or nil when Redis is not
// reachable. A nil client disables caching and every read goes to MongoDB.
func ConnectRedis() *redis.Client {
	opts, err := redisOptions()
	if err != nil {
		logging.Warn("Invalid REDIS_URL, settings cache disabled", "error", err)
		return nil
	}

	// Cache lookups must fail fast so a slow Redis never delays a request
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	opts.PoolSize = 10
	opts.MaxRetries = 1

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("Redis connection failed, settings cache disabled", "addr", opts.Addr, "error", err)
		client.Close()
		return nil
	}

	logging.Info("Connected to Redis", "addr", opts.Addr, "db", opts.DB)
	return client
}

// redisOptions reads REDIS_URL when set, otherwise REDIS_ADDR, REDIS_PASSWORD
// and REDIS_DB
func redisOptions() (*redis.Options, error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return redis.ParseURL(url)
	}

	opts := &redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	if db, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		opts.DB = db
	}
	return opts, nil
}
