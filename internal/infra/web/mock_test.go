//go:build !integration

package web

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
	"listing-credit-ledger/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// In-memory repositories backing real use cases, so handler tests exercise
// the full request path below the router.

type memTxManager struct{ mu sync.Mutex }

func (m *memTxManager) WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

type memTypeRepo struct {
	mu    sync.Mutex
	types map[string]*model.CreditType
}

func newMemTypeRepo() *memTypeRepo { return &memTypeRepo{types: make(map[string]*model.CreditType)} }

func (m *memTypeRepo) Save(ctx context.Context, tx repository.Tx, t *model.CreditType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.types[t.SKU] = &cp
	return nil
}

func (m *memTypeRepo) FindBySKU(ctx context.Context, tx repository.Tx, sku string) (*model.CreditType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.types[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTypeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.CreditType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.CreditType, 0, len(m.types))
	for _, t := range m.types {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memTypeRepo) Delete(ctx context.Context, tx repository.Tx, sku string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.types[sku]; !ok {
		return domain.ErrNotFound
	}
	delete(m.types, sku)
	return nil
}

type memCreditRepo struct {
	mu      sync.Mutex
	credits []*model.Credit
}

func newMemCreditRepo() *memCreditRepo { return &memCreditRepo{} }

func (m *memCreditRepo) Save(ctx context.Context, tx repository.Tx, c *model.Credit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.credits = append(m.credits, &cp)
	return nil
}

func (m *memCreditRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Credit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.credits {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCreditRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Credit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Credit
	for _, c := range m.credits {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCreditRepo) Lock(ctx context.Context, tx repository.Tx, creditID string) error { return nil }

func (m *memCreditRepo) UsersDueForRefill(ctx context.Context, tx repository.Tx, sku string, cutoff time.Time) ([]string, error) {
	return nil, nil
}

func (m *memCreditRepo) CountByType(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for _, c := range m.credits {
		out[c.TypeSKU]++
	}
	return out, nil
}

func (m *memCreditRepo) TotalGranted(ctx context.Context, tx repository.Tx) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, c := range m.credits {
		total += c.Quantity
	}
	return total, nil
}

type memConsumptionRepo struct {
	mu      sync.Mutex
	records []*model.ConsumptionRecord
}

func newMemConsumptionRepo() *memConsumptionRepo { return &memConsumptionRepo{} }

func (m *memConsumptionRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ConsumptionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *memConsumptionRepo) ListByCredit(ctx context.Context, tx repository.Tx, creditID string) ([]*model.ConsumptionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ConsumptionRecord
	for _, r := range m.records {
		if r.CreditID == creditID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memConsumptionRepo) SumByCredit(ctx context.Context, tx repository.Tx, creditID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, r := range m.records {
		if r.CreditID == creditID {
			total += r.QuantityConsumed
		}
	}
	return total, nil
}

func (m *memConsumptionRepo) SumByUser(ctx context.Context, tx repository.Tx, userID string) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64)
	for _, r := range m.records {
		out[r.CreditID] += r.QuantityConsumed
	}
	return out, nil
}

func (m *memConsumptionRepo) TotalConsumed(ctx context.Context, tx repository.Tx) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, r := range m.records {
		total += r.QuantityConsumed
	}
	return total, nil
}

// testServer wires real use cases over the in-memory repositories.
type testServer struct {
	srv         *Server
	auth        *AuthManager
	types       *memTypeRepo
	credits     *memCreditRepo
	consumption *memConsumptionRepo
}

const testPassword = "letmein"

func newTestServer() *testServer {
	logger := newTestLogger()
	types := newMemTypeRepo()
	credits := newMemCreditRepo()
	consumption := newMemConsumptionRepo()

	typeUC := usecase.NewCreditTypeUseCase(types, logger)
	creditUC := usecase.NewCreditUseCase(types, credits, logger)
	consumeUC := usecase.NewConsumptionUseCase(credits, consumption, &memTxManager{}, logger)
	availUC := usecase.NewAvailabilityUseCase(types, credits, consumption, logger)
	statsUC := usecase.NewStatsUseCase(credits, consumption, logger)

	auth := NewAuthManager("test-secret", false, time.Hour)
	srv := NewServer(typeUC, creditUC, consumeUC, availUC, statsUC, auth, testPassword, logger)
	return &testServer{
		srv:         srv,
		auth:        auth,
		types:       types,
		credits:     credits,
		consumption: consumption,
	}
}
