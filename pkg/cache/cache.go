package cache

import (
	"context"
	"time"
)

// PredictionCache stores category predictions keyed by format and row text.
// Get returns ok=false on a miss.
type PredictionCache interface {
	Get(ctx context.Context, key string) (name string, ok bool, err error)
	Set(ctx context.Context, key, name string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
