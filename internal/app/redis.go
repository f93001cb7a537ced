package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/config"
)

func MustConnectRedis(logger zerolog.Logger, cfg config.RedisConfig) *redis.Client {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse redis url")
		panic(err)
	}
	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = client.Ping(ctx).Err()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping redis")
		panic(err)
	}
	logger.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("connected to redis")

	return client
}

func DisconnectRedis(logger zerolog.Logger, client *redis.Client) {
	err := client.Close()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to close redis client")
		return
	}
	logger.Info().Msg("disconnected from redis")
}
