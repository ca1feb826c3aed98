package address

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

const (
	cacheKeyPrefix = "geocode:"
	cacheTTL       = 24 * time.Hour
)

// RetryPolicy bounds the lookup loop. A transient lookup error consumes one
// attempt; a definitive not-found result stops the loop immediately.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the historical behavior: 5 attempts, no delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5}
}

// Resolver wraps a Geocoder with the retry policy and an optional Redis
// read-through cache of positive resolutions.
type Resolver struct {
	geocoder Geocoder
	cache    *redis.Client
	policy   RetryPolicy
	logger   *zap.Logger
}

// NewResolver creates a Resolver. cache may be nil to disable caching.
func NewResolver(geocoder Geocoder, cache *redis.Client, policy RetryPolicy, logger *zap.Logger) *Resolver {
	if policy.MaxAttempts < 1 {
		policy = DefaultRetryPolicy()
	}
	return &Resolver{
		geocoder: geocoder,
		cache:    cache,
		policy:   policy,
		logger:   logger,
	}
}

// Resolve reports whether the billing address resolves to a known location.
// It returns false once the retry budget is exhausted, on a definitive
// not-found result, or when ctx is canceled.
func (r *Resolver) Resolve(ctx context.Context, addr models.BillingAddress) bool {
	query := fmt.Sprintf("%s %s %s %s", addr.Street, addr.City, addr.State, addr.Country)
	r.logger.Info("resolving billing address", zap.String("query", query))

	if r.cachedHit(ctx, query) {
		return true
	}

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			r.logger.Warn("address resolution canceled", zap.Error(ctx.Err()))
			return false
		}

		found, err := r.geocoder.Geocode(ctx, query)
		if err != nil {
			r.logger.Warn("geocoding attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", r.policy.MaxAttempts),
				zap.Error(err),
			)
			if r.policy.Delay > 0 {
				select {
				case <-time.After(r.policy.Delay):
				case <-ctx.Done():
					return false
				}
			}
			continue
		}

		if !found {
			// Definitive non-match, retrying cannot change the outcome.
			r.logger.Error("address not found", zap.String("query", query))
			return false
		}

		r.logger.Info("address resolved", zap.String("query", query))
		r.storeHit(ctx, query)
		return true
	}

	r.logger.Error("address resolution retries exhausted",
		zap.String("query", query),
		zap.Int("attempts", r.policy.MaxAttempts),
	)
	return false
}

func (r *Resolver) cachedHit(ctx context.Context, query string) bool {
	if r.cache == nil {
		return false
	}
	val, err := r.cache.Get(ctx, cacheKeyPrefix+query).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("geocode cache read failed", zap.Error(err))
		}
		return false
	}
	return val == "1"
}

func (r *Resolver) storeHit(ctx context.Context, query string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKeyPrefix+query, "1", cacheTTL).Err(); err != nil {
		r.logger.Warn("geocode cache write failed", zap.Error(err))
	}
}
