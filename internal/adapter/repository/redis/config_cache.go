package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

// configCacheTTL bounds staleness of cached reference data. Rate changes
// are rare and season-level; an hour is generous.
const configCacheTTL = time.Hour

// CachedConfigRepository decorates a ConfigRepository with a cache.
// Rent configs and GST rates are read once per bill line, so a miss is
// cheap and a hit saves a round trip on every billing run.
type CachedConfigRepository struct {
	inner usecase.ConfigRepository
	cache usecase.Cache
}

// NewCachedConfigRepository creates a new CachedConfigRepository.
func NewCachedConfigRepository(inner usecase.ConfigRepository, cache usecase.Cache) *CachedConfigRepository {
	return &CachedConfigRepository{inner: inner, cache: cache}
}

// GetRentConfig returns the rent configuration for a commodity.
func (r *CachedConfigRepository) GetRentConfig(ctx context.Context, commodityID string) (*domain.RentConfig, error) {
	key := "rent-config:" + commodityID

	if data, err := r.cache.Get(ctx, key); err == nil {
		var cfg domain.RentConfig
		if err := json.Unmarshal(data, &cfg); err == nil {
			return &cfg, nil
		}
	}

	cfg, err := r.inner.GetRentConfig(ctx, commodityID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cfg); err == nil {
		// Best effort: a failed cache write must not fail the read.
		_ = r.cache.Set(ctx, key, data, configCacheTTL)
	}

	return cfg, nil
}

// GetGSTRate returns a GST rate by ID.
func (r *CachedConfigRepository) GetGSTRate(ctx context.Context, rateID string) (*domain.GSTRate, error) {
	key := "gst-rate:" + rateID

	if data, err := r.cache.Get(ctx, key); err == nil {
		var rate domain.GSTRate
		if err := json.Unmarshal(data, &rate); err == nil {
			return &rate, nil
		}
	}

	rate, err := r.inner.GetGSTRate(ctx, rateID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rate); err == nil {
		_ = r.cache.Set(ctx, key, data, configCacheTTL)
	}

	return rate, nil
}
