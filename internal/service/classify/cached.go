package classify

import (
	"context"
	"errors"
	"strings"
	"time"

	"Mercado/internal/domain/models"
	"Mercado/internal/domain/repository"
	"Mercado/pkg/cache"
	"Mercado/pkg/logger"
)

// CachedClassifier decorates a Classifier with a cache keyed by the
// lowercased asset name. Classification results are stable for a given
// name, so a modest TTL saves repeated round trips.
type CachedClassifier struct {
	inner  repository.Classifier
	cache  cache.Service
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedClassifier wraps a classifier with caching.
func NewCachedClassifier(inner repository.Classifier, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedClassifier {
	return &CachedClassifier{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: log,
	}
}

func (c *CachedClassifier) Classify(ctx context.Context, name string) (models.Classification, error) {
	key := cacheKey(name)

	var cached models.Classification
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("classification cache read failed", logger.Error(err))
	}

	result, err := c.inner.Classify(ctx, name)
	if err != nil {
		return models.Classification{}, err
	}

	if err := c.cache.Set(ctx, key, result, c.ttl); err != nil {
		c.logger.Warn("classification cache write failed", logger.Error(err))
	}

	return result, nil
}

func cacheKey(name string) string {
	return cache.GenerateKey("classify", strings.ToLower(strings.TrimSpace(name)))
}
