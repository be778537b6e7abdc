package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/txnimport/pkg/cache"
	"github.com/amirasaad/txnimport/pkg/provider"
)

// CachedPredictor implements CategoryPredictor with caching capabilities.
// Cache errors are logged and never fail a prediction.
type CachedPredictor struct {
	next   provider.CategoryPredictor
	cache  cache.PredictionCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedPredictor creates a new CachedPredictor.
func NewCachedPredictor(
	next provider.CategoryPredictor,
	cache cache.PredictionCache,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedPredictor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedPredictor{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedPredictor) Name() string {
	return "cached:" + c.next.Name()
}

// PredictCategory returns a cached answer for an identical row, asking next otherwise.
func (c *CachedPredictor) PredictCategory(ctx context.Context, req provider.PredictionRequest) (string, error) {
	key := PredictionKey(req)

	if name, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Error("Error getting from cache", "key", key, "error", err)
	} else if ok {
		c.logger.Debug("Cache hit for prediction", "key", key)
		return name, nil
	}

	name, err := c.next.PredictCategory(ctx, req)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, name, c.ttl); err != nil {
		c.logger.Error("Error setting cache for prediction", "key", key, "error", err)
	}
	return name, nil
}

// PredictionKey identifies a row within its format and candidate categories.
func PredictionKey(req provider.PredictionRequest) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(req.Row, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(req.Categories, "\x1f")))
	return req.Format + ":" + hex.EncodeToString(h.Sum(nil))
}

var _ provider.CategoryPredictor = (*CachedPredictor)(nil)
