package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ravenridge/questforge/internal/domain"
)

const itemListCacheKey = "items:list"

// CachedItemRepository fronts the item repository with an in-process TTL
// cache. The catalog has no visibility tiers so cached reads are safe; any
// write flushes the whole cache.
type CachedItemRepository struct {
	inner *ItemRepository
	cache *cache.Cache
}

func NewCachedItemRepository(inner *ItemRepository) *CachedItemRepository {
	return &CachedItemRepository{
		inner: inner,
		cache: cache.New(1*time.Minute, 5*time.Minute),
	}
}

func itemCacheKey(code int64) string {
	return fmt.Sprintf("item:%d", code)
}

func (r *CachedItemRepository) Create(ctx context.Context, name string, price int, stat domain.ItemStat) (domain.Item, error) {
	item, err := r.inner.Create(ctx, name, price, stat)
	if err != nil {
		return domain.Item{}, err
	}
	r.cache.Flush()
	return item, nil
}

func (r *CachedItemRepository) Update(ctx context.Context, code int64, name string, stat domain.ItemStat) (domain.Item, error) {
	item, err := r.inner.Update(ctx, code, name, stat)
	if err != nil {
		return domain.Item{}, err
	}
	r.cache.Flush()
	return item, nil
}

func (r *CachedItemRepository) FindByCode(ctx context.Context, code int64) (domain.Item, error) {
	if cached, ok := r.cache.Get(itemCacheKey(code)); ok {
		return cached.(domain.Item), nil
	}
	item, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		return domain.Item{}, err
	}
	r.cache.SetDefault(itemCacheKey(code), item)
	return item, nil
}

// FindByName always hits the store: it backs the create pre-check and must
// not see stale entries.
func (r *CachedItemRepository) FindByName(ctx context.Context, name string) (domain.Item, error) {
	return r.inner.FindByName(ctx, name)
}

func (r *CachedItemRepository) List(ctx context.Context) ([]domain.ItemSummary, error) {
	if cached, ok := r.cache.Get(itemListCacheKey); ok {
		return cached.([]domain.ItemSummary), nil
	}
	items, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(itemListCacheKey, items)
	return items, nil
}
