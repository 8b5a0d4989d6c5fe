package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/lms-console/internal/config"
)

// redisVault persists the session under a single Redis key, for deployments
// where the console's working directory is not durable.
type redisVault struct {
	client *redis.Client
	key    string
}

// NewRedisVault connects to Redis using the provided configuration and
// returns a vault bound to cfg key.
func NewRedisVault(cfg config.RedisConfig, key string, logger *zap.Logger) Vault {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &redisVault{client: client, key: key}
}

func (v *redisVault) Read() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := v.client.Get(ctx, v.key).Bytes()
	if err == redis.Nil {
		return nil, ErrEmptyVault
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (v *redisVault) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return v.client.Set(ctx, v.key, data, 0).Err()
}

func (v *redisVault) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return v.client.Del(ctx, v.key).Err()
}
