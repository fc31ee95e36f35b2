package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
	"padelpass-backend/internal/infra/metrics"
	infraRedis "padelpass-backend/internal/infra/redis"
)

var _ repository.SubscriptionPlanRepository = (*CachedPlanRepository)(nil)

// CachedPlanRepository is a read-through cache in front of the Postgres
// plan repository. Plans change rarely and are read on every purchase.
type CachedPlanRepository struct {
	inner repository.SubscriptionPlanRepository
	cache infraRedis.RedisClient
	ttl   time.Duration
}

func NewCachedPlanRepository(inner repository.SubscriptionPlanRepository, cache infraRedis.RedisClient, ttl time.Duration) *CachedPlanRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedPlanRepository{inner: inner, cache: cache, ttl: ttl}
}

const (
	planKeyPrefix = "plan:"
	planListKey   = "plans:all"
)

func (r *CachedPlanRepository) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	// Reads inside a transaction bypass the cache to keep them consistent
	// with uncommitted writes.
	if tx == nil {
		raw, err := r.cache.Get(ctx, planKeyPrefix+id)
		if err == nil {
			var p model.SubscriptionPlan
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				metrics.IncCacheRequest("plan", "hit")
				return &p, nil
			}
		} else if !errors.Is(err, infraRedis.Nil) {
			metrics.IncCacheRequest("plan", "error")
		}
		metrics.IncCacheRequest("plan", "miss")
	}

	p, err := r.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		if raw, err := json.Marshal(p); err == nil {
			_ = r.cache.Set(ctx, planKeyPrefix+id, raw, r.ttl)
		}
	}
	return p, nil
}

func (r *CachedPlanRepository) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	if tx == nil {
		raw, err := r.cache.Get(ctx, planListKey)
		if err == nil {
			var plans []*model.SubscriptionPlan
			if err := json.Unmarshal([]byte(raw), &plans); err == nil {
				metrics.IncCacheRequest("plan", "hit")
				return plans, nil
			}
		}
		metrics.IncCacheRequest("plan", "miss")
	}

	plans, err := r.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		if raw, err := json.Marshal(plans); err == nil {
			_ = r.cache.Set(ctx, planListKey, raw, r.ttl)
		}
	}
	return plans, nil
}

func (r *CachedPlanRepository) List(ctx context.Context, tx repository.Tx, page repository.Page, sort repository.PlanSort, dir repository.SortDirection) ([]*model.SubscriptionPlan, int, error) {
	// Paged admin listings go straight to Postgres.
	return r.inner.List(ctx, tx, page, sort, dir)
}

func (r *CachedPlanRepository) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	if err := r.inner.Save(ctx, tx, p); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, planKeyPrefix+p.ID, planListKey)
	return nil
}

func (r *CachedPlanRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if err := r.inner.Delete(ctx, tx, id); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, planKeyPrefix+id, planListKey)
	return nil
}
