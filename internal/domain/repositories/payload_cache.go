package repositories

import (
	"context"
	"time"
)

// PayloadCache stores JSON-encodable backend payloads. Misses and backend
// errors are indistinguishable to callers: Get reports false and the caller
// refetches.
type PayloadCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}
