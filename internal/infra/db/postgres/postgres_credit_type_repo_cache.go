package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
	"listing-credit-ledger/internal/infra/metrics"
	red "listing-credit-ledger/internal/infra/redis"
)

var _ repository.CreditTypeRepository = (*creditTypeRepoCacheDecorator)(nil)

// creditTypeRepoCacheDecorator caches the catalog in Redis. The catalog is
// tiny, read on every issuance and availability call, and changes only
// through the admin surface, which invalidates here.
type creditTypeRepoCacheDecorator struct {
	inner repository.CreditTypeRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCreditTypeRepoCacheDecorator(inner repository.CreditTypeRepository, cache red.RedisClient, ttl time.Duration) repository.CreditTypeRepository {
	return &creditTypeRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (d *creditTypeRepoCacheDecorator) FindBySKU(ctx context.Context, tx repository.Tx, sku string) (*model.CreditType, error) {
	key := fmt.Sprintf("credit_type:%s", sku)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("credit_type", "hit")
		var t model.CreditType
		if json.Unmarshal([]byte(val), &t) == nil {
			return &t, nil
		}
	}

	metrics.IncCacheRequest("credit_type", "miss")
	t, err := d.inner.FindBySKU(ctx, tx, sku)
	if err != nil {
		return nil, err
	}
	if t != nil {
		bytes, _ := json.Marshal(t)
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return t, nil
}

func (d *creditTypeRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.CreditType, error) {
	key := "credit_types:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("credit_type_list", "hit")
		var types []*model.CreditType
		if json.Unmarshal([]byte(val), &types) == nil {
			return types, nil
		}
	}

	metrics.IncCacheRequest("credit_type_list", "miss")
	types, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(types) > 0 {
		bytes, _ := json.Marshal(types)
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return types, nil
}

// Write operations invalidate the cache before hitting the store.
func (d *creditTypeRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, t *model.CreditType) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("credit_type:%s", t.SKU), "credit_types:all")
	return d.inner.Save(ctx, tx, t)
}

func (d *creditTypeRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, sku string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("credit_type:%s", sku), "credit_types:all")
	return d.inner.Delete(ctx, tx, sku)
}
