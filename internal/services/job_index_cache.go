package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
)

const jobIndexKeyPrefix = "jobindex:"

type cachedJobIndex struct {
	next   JobIndex
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedJobIndex caches search results of next in Redis. Cache failures
// are logged and the search falls through to next.
func NewCachedJobIndex(next JobIndex, client *redis.Client, ttl time.Duration, logger *zap.Logger) JobIndex {
	if client == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedJobIndex{next: next, client: client, ttl: ttl, logger: logger}
}

func jobIndexKey(query string) string {
	return jobIndexKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

// Search implements JobIndex.
func (c *cachedJobIndex) Search(ctx context.Context, query string) ([]models.JobListing, error) {
	key := jobIndexKey(query)

	cached, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var listings []models.JobListing
		if err := json.Unmarshal(cached, &listings); err == nil {
			c.logger.Debug("job index cache hit", zap.String("key", key))
			return listings, nil
		}
		c.logger.Warn("discarding corrupt job index cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("job index cache read failed", zap.String("key", key), zap.Error(err))
	}

	listings, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(listings)
	if err != nil {
		c.logger.Warn("failed to encode job index results", zap.Error(err))
		return listings, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("job index cache write failed", zap.String("key", key), zap.Error(err))
	}

	return listings, nil
}
