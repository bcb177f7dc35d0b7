package redis_repository

import (
	"context"

	"github.com/mohammad-safakhou/citer/internal/citation"
	"github.com/redis/go-redis/v9"
)

const logIndexKey = "output_log:pairs"

// redisLogIndex implements citation.Index with a single Redis set whose
// members are "<style> <source>".
type redisLogIndex struct {
	client *redis.Client
	key    string
}

func member(source string, style citation.Style) string {
	return string(style) + " " + source
}

func (r redisLogIndex) Seen(ctx context.Context, source string, style citation.Style) (bool, error) {
	return r.client.SIsMember(ctx, r.key, member(source, style)).Result()
}

func (r redisLogIndex) Mark(ctx context.Context, source string, style citation.Style) error {
	return r.client.SAdd(ctx, r.key, member(source, style)).Err()
}

func NewRedisLogIndex(client *redis.Client, keyPrefix string) citation.Index {
	return &redisLogIndex{
		client: client,
		key:    keyPrefix + logIndexKey,
	}
}
