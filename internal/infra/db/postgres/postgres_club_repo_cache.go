package postgres

import (
	"context"
	"encoding/json"
	"time"

	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
	"padelpass-backend/internal/infra/metrics"
	infraRedis "padelpass-backend/internal/infra/redis"
)

var _ repository.ClubRepository = (*CachedClubRepository)(nil)

// CachedClubRepository caches club records (with their non-peak slots)
// in front of Postgres. The check-in pipeline reads a club on every
// scan, so this is the hottest read path in the system.
type CachedClubRepository struct {
	inner repository.ClubRepository
	cache infraRedis.RedisClient
	ttl   time.Duration
}

func NewCachedClubRepository(inner repository.ClubRepository, cache infraRedis.RedisClient, ttl time.Duration) *CachedClubRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedClubRepository{inner: inner, cache: cache, ttl: ttl}
}

const clubKeyPrefix = "club:"

func (r *CachedClubRepository) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Club, error) {
	if tx == nil {
		raw, err := r.cache.Get(ctx, clubKeyPrefix+id)
		if err == nil {
			var c model.Club
			if err := json.Unmarshal([]byte(raw), &c); err == nil {
				metrics.IncCacheRequest("club", "hit")
				return &c, nil
			}
		}
		metrics.IncCacheRequest("club", "miss")
	}

	c, err := r.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		if raw, err := json.Marshal(c); err == nil {
			_ = r.cache.Set(ctx, clubKeyPrefix+id, raw, r.ttl)
		}
	}
	return c, nil
}

func (r *CachedClubRepository) List(ctx context.Context, tx repository.Tx, page repository.Page, sort repository.ClubSort, dir repository.SortDirection) ([]*model.Club, int, error) {
	return r.inner.List(ctx, tx, page, sort, dir)
}

func (r *CachedClubRepository) Save(ctx context.Context, tx repository.Tx, c *model.Club) error {
	if err := r.inner.Save(ctx, tx, c); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, clubKeyPrefix+c.ID)
	return nil
}

func (r *CachedClubRepository) Update(ctx context.Context, tx repository.Tx, c *model.Club) error {
	if err := r.inner.Update(ctx, tx, c); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, clubKeyPrefix+c.ID)
	return nil
}

func (r *CachedClubRepository) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if err := r.inner.Delete(ctx, tx, id); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, clubKeyPrefix+id)
	return nil
}

// Slot writes invalidate the owning club; the cached club embeds its
// slots.

func (r *CachedClubRepository) SaveSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	if err := r.inner.SaveSlot(ctx, tx, s); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, clubKeyPrefix+s.ClubID)
	return nil
}

func (r *CachedClubRepository) UpdateSlot(ctx context.Context, tx repository.Tx, s *model.NonPeakSlot) error {
	if err := r.inner.UpdateSlot(ctx, tx, s); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, clubKeyPrefix+s.ClubID)
	return nil
}

func (r *CachedClubRepository) DeleteSlot(ctx context.Context, tx repository.Tx, id string) error {
	s, err := r.inner.FindSlotByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := r.inner.DeleteSlot(ctx, tx, id); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, clubKeyPrefix+s.ClubID)
	return nil
}

func (r *CachedClubRepository) FindSlotByID(ctx context.Context, tx repository.Tx, id string) (*model.NonPeakSlot, error) {
	return r.inner.FindSlotByID(ctx, tx, id)
}

func (r *CachedClubRepository) ListSlotsByClub(ctx context.Context, tx repository.Tx, clubID string) ([]model.NonPeakSlot, error) {
	return r.inner.ListSlotsByClub(ctx, tx, clubID)
}
