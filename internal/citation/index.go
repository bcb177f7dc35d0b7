package citation

import "context"

// Index is a structured record of which (source, style) pairs the output log
// already holds. repository/redis_repository provides the Redis-backed one.
type Index interface {
	Seen(ctx context.Context, source string, style Style) (bool, error)
	Mark(ctx context.Context, source string, style Style) error
}
