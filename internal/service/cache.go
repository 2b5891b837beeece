package service

import (
	"context"
	"time"
)

// dashboardCachePattern matches every cached dashboard payload. Write
// paths that change dashboard inputs invalidate the whole namespace.
const dashboardCachePattern = "dash:*"

// dashboardCache is the caching surface services depend on. A nil value
// disables caching entirely.
type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}
