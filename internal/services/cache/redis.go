// Package cache keeps business profiles in Redis so marketplace matching
// does not hit Postgres on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/metrics"
	"business-fundability-engine/internal/models"
)

const profileKeyPrefix = "fundability:profile:"

// ProfileCache stores UserProfile values as JSON with a fixed TTL.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to the Redis instance described by cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ProfileCache, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.New("redis address is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewFromClient(client, cfg.ProfileTTL, logger), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProfileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileCache{client: client, ttl: ttl, logger: logger}
}

func profileKey(businessID string) string {
	return profileKeyPrefix + businessID
}

// GetProfile returns the cached profile, or nil when there is none.
func (c *ProfileCache) GetProfile(ctx context.Context, businessID string) (*models.UserProfile, error) {
	raw, err := c.client.Get(ctx, profileKey(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read cached profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.logger.Warn("Discarding unreadable cached profile",
			zap.String("business_id", businessID),
			zap.Error(err))
		_ = c.client.Del(ctx, profileKey(businessID)).Err()
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, nil
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &profile, nil
}

// SetProfile caches the profile under its business ID.
func (c *ProfileCache) SetProfile(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.BusinessID == "" {
		return models.ErrEmptyBusinessID
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := c.client.Set(ctx, profileKey(profile.BusinessID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}
	return nil
}

// Invalidate drops the cached profile.
func (c *ProfileCache) Invalidate(ctx context.Context, businessID string) error {
	return c.client.Del(ctx, profileKey(businessID)).Err()
}

// Ping checks the connection.
func (c *ProfileCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *ProfileCache) Close() error {
	return c.client.Close()
}
