package rolestore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"roleapi/models"
	"roleapi/pkg/cache"
)

const cacheNamespace = "roles:id"

// Cache is the subset of *cache.Cache used by CachedRepository.
type Cache interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, namespace, key string, value any, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, namespace, key string) error
}

// CachedRepository serves FindByID from cache and keeps entries in step with
// writes. Writes overwrite the entry; read-through fills only set an absent
// key, so a fill carrying a row read before a concurrent update cannot
// replace the updated entry. Cache errors never fail a call.
type CachedRepository struct {
	next  Repository
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

var (
	_ Repository = (*CachedRepository)(nil)
	_ Cache      = (*cache.Cache)(nil)
)

func NewCached(next Repository, c Cache, ttl time.Duration, log *zap.Logger) *CachedRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedRepository{next: next, cache: c, ttl: ttl, log: log}
}

func (c *CachedRepository) Create(ctx context.Context, r *models.Role) error {
	if err := c.next.Create(ctx, r); err != nil {
		return err
	}
	c.put(ctx, r, false)
	return nil
}

func (c *CachedRepository) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	k := strconv.FormatUint(uint64(id), 10)
	raw, err := c.cache.Get(ctx, cacheNamespace, k)
	switch {
	case err == nil:
		var r models.Role
		if jerr := json.Unmarshal([]byte(raw), &r); jerr == nil {
			return &r, nil
		}
		c.log.Warn("dropping unreadable cache entry", zap.Uint("id", id))
		_ = c.cache.Delete(ctx, cacheNamespace, k)
	case !errors.Is(err, cache.ErrMiss):
		c.log.Warn("role cache read failed", zap.Uint("id", id), zap.Error(err))
	}

	r, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, r, true)
	return r, nil
}

func (c *CachedRepository) FindByType(ctx context.Context, t models.RoleType) ([]models.Role, error) {
	return c.next.FindByType(ctx, t)
}

func (c *CachedRepository) List(ctx context.Context) ([]models.Role, error) {
	return c.next.List(ctx)
}

func (c *CachedRepository) UpdateType(ctx context.Context, id uint, t models.RoleType) (*models.Role, error) {
	r, err := c.next.UpdateType(ctx, id, t)
	if err != nil {
		return nil, err
	}
	c.put(ctx, r, false)
	return r, nil
}

// put writes r under its id. With onlyIfAbsent an existing entry wins.
// A failed overwrite drops the key so no stale entry outlives a write.
func (c *CachedRepository) put(ctx context.Context, r *models.Role, onlyIfAbsent bool) {
	k := strconv.FormatUint(uint64(r.ID), 10)
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if onlyIfAbsent {
		if _, err := c.cache.SetNX(ctx, cacheNamespace, k, b, c.ttl); err != nil {
			c.log.Warn("role cache fill failed", zap.Uint("id", r.ID), zap.Error(err))
		}
		return
	}
	if err := c.cache.Set(ctx, cacheNamespace, k, b, c.ttl); err != nil {
		c.log.Warn("role cache write failed", zap.Uint("id", r.ID), zap.Error(err))
		if err := c.cache.Delete(ctx, cacheNamespace, k); err != nil {
			c.log.Warn("role cache invalidation failed", zap.Uint("id", r.ID), zap.Error(err))
		}
	}
}
