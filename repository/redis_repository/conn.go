package redis_repository

import (
	"context"
	"fmt"
	"net"

	"github.com/mohammad-safakhou/citer/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func Conn(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		DialTimeout: cfg.Timeout,
		ReadTimeout: cfg.Timeout,
		Password:    cfg.Password,
		DB:          cfg.DB,
	})
	if logger != nil {
		logger.Info("redis connecting", zap.String("addr", client.Options().Addr), zap.Int("db", cfg.DB))
	}

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}

	return client, nil
}
