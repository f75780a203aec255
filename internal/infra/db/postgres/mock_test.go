//go:build !integration

package postgres

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// mockRedisClient is an in-memory stand-in for the Redis cache. Entries never
// expire; the ttl is captured for assertions instead.
type mockRedisClient struct {
	store   map[string]string
	lastTTL time.Duration

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

func newMockRedisClient() *mockRedisClient {
	return &mockRedisClient{store: make(map[string]string)}
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	switch v := value.(type) {
	case []byte:
		m.store[key] = string(v)
	case string:
		m.store[key] = v
	}
	m.lastTTL = expiration
	return nil
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	v, ok := m.store[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.store, k)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }

// mockInnerTypeRepo counts pass-through calls so tests can tell a cache hit
// from a miss.
type mockInnerTypeRepo struct {
	types map[string]*model.CreditType

	findCalls int
	listCalls int
}

func newMockInnerTypeRepo() *mockInnerTypeRepo {
	return &mockInnerTypeRepo{types: make(map[string]*model.CreditType)}
}

func (m *mockInnerTypeRepo) Save(ctx context.Context, tx repository.Tx, t *model.CreditType) error {
	cp := *t
	m.types[t.SKU] = &cp
	return nil
}

func (m *mockInnerTypeRepo) FindBySKU(ctx context.Context, tx repository.Tx, sku string) (*model.CreditType, error) {
	m.findCalls++
	t, ok := m.types[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockInnerTypeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.CreditType, error) {
	m.listCalls++
	out := make([]*model.CreditType, 0, len(m.types))
	for _, t := range m.types {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockInnerTypeRepo) Delete(ctx context.Context, tx repository.Tx, sku string) error {
	if _, ok := m.types[sku]; !ok {
		return domain.ErrNotFound
	}
	delete(m.types, sku)
	return nil
}
