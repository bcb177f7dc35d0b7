package repository

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/citer/config"
	"github.com/mohammad-safakhou/citer/internal/citation"
	"github.com/mohammad-safakhou/citer/repository/redis_repository"
	"go.uber.org/zap"
)

type RepoType string

const (
	RepoTypeNone  RepoType = ""
	RepoTypeRedis RepoType = "redis"
)

// NewLogIndex returns the dedup index for the output log. RepoTypeNone yields a
// nil index, leaving the log scan as the only check. The returned close func
// is never nil.
func NewLogIndex(ctx context.Context, t RepoType, cfg config.RedisConfig, logger *zap.Logger) (citation.Index, func() error, error) {
	noop := func() error { return nil }
	switch t {
	case RepoTypeNone:
		return nil, noop, nil
	case RepoTypeRedis:
		c, err := redis_repository.Conn(ctx, cfg, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("redis log index: %w", err)
		}
		return redis_repository.NewRedisLogIndex(c, cfg.KeyPrefix), c.Close, nil
	}
	return nil, noop, fmt.Errorf("invalid repository type: %s", t)
}
