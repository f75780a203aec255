//go:build !integration

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Transaction Manager Mock ---

// mockTxManager runs the callback directly. The mutex stands in for the
// per-credit advisory lock: it serializes concurrent WithTx bodies the same
// way the real lock serializes consumptions.
type mockTxManager struct {
	mu         sync.Mutex
	WithTxFunc func(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *mockTxManager) WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, opts, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// --- CreditTypeRepository Mock ---

type mockCreditTypeRepo struct {
	mu    sync.Mutex
	types map[string]*model.CreditType

	FindBySKUFunc func(ctx context.Context, tx repository.Tx, sku string) (*model.CreditType, error)
	SaveFunc      func(ctx context.Context, tx repository.Tx, t *model.CreditType) error
}

func newMockCreditTypeRepo() *mockCreditTypeRepo {
	return &mockCreditTypeRepo{types: make(map[string]*model.CreditType)}
}

func (m *mockCreditTypeRepo) Save(ctx context.Context, tx repository.Tx, t *model.CreditType) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.types[t.SKU] = &cp
	return nil
}

func (m *mockCreditTypeRepo) FindBySKU(ctx context.Context, tx repository.Tx, sku string) (*model.CreditType, error) {
	if m.FindBySKUFunc != nil {
		return m.FindBySKUFunc(ctx, tx, sku)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.types[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockCreditTypeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.CreditType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.CreditType, 0, len(m.types))
	for _, t := range m.types {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockCreditTypeRepo) Delete(ctx context.Context, tx repository.Tx, sku string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.types[sku]; !ok {
		return domain.ErrNotFound
	}
	delete(m.types, sku)
	return nil
}

// --- CreditRepository Mock ---

type mockCreditRepo struct {
	mu      sync.Mutex
	credits []*model.Credit

	SaveFunc     func(ctx context.Context, tx repository.Tx, c *model.Credit) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Credit, error)
	LockFunc     func(ctx context.Context, tx repository.Tx, creditID string) error
}

func newMockCreditRepo() *mockCreditRepo {
	return &mockCreditRepo{}
}

func (m *mockCreditRepo) Save(ctx context.Context, tx repository.Tx, c *model.Credit) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.credits = append(m.credits, &cp)
	return nil
}

func (m *mockCreditRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Credit, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
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

func (m *mockCreditRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Credit, error) {
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

func (m *mockCreditRepo) Lock(ctx context.Context, tx repository.Tx, creditID string) error {
	if m.LockFunc != nil {
		return m.LockFunc(ctx, tx, creditID)
	}
	return nil
}

func (m *mockCreditRepo) UsersDueForRefill(ctx context.Context, tx repository.Tx, sku string, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := make(map[string]time.Time)
	for _, c := range m.credits {
		if c.TypeSKU != sku {
			continue
		}
		if t, ok := latest[c.UserID]; !ok || c.IssuedAt.After(t) {
			latest[c.UserID] = c.IssuedAt
		}
	}
	var due []string
	for userID, t := range latest {
		if !t.After(cutoff) {
			due = append(due, userID)
		}
	}
	return due, nil
}

func (m *mockCreditRepo) CountByType(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for _, c := range m.credits {
		out[c.TypeSKU]++
	}
	return out, nil
}

func (m *mockCreditRepo) TotalGranted(ctx context.Context, tx repository.Tx) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, c := range m.credits {
		total += c.Quantity
	}
	return total, nil
}

// --- ConsumptionRepository Mock ---

type mockConsumptionRepo struct {
	mu      sync.Mutex
	records []*model.ConsumptionRecord

	SaveFunc        func(ctx context.Context, tx repository.Tx, rec *model.ConsumptionRecord) error
	SumByCreditFunc func(ctx context.Context, tx repository.Tx, creditID string) (float64, error)
}

func newMockConsumptionRepo() *mockConsumptionRepo {
	return &mockConsumptionRepo{}
}

func (m *mockConsumptionRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ConsumptionRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockConsumptionRepo) ListByCredit(ctx context.Context, tx repository.Tx, creditID string) ([]*model.ConsumptionRecord, error) {
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

func (m *mockConsumptionRepo) SumByCredit(ctx context.Context, tx repository.Tx, creditID string) (float64, error) {
	if m.SumByCreditFunc != nil {
		return m.SumByCreditFunc(ctx, tx, creditID)
	}
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

func (m *mockConsumptionRepo) SumByUser(ctx context.Context, tx repository.Tx, userID string) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// The mock has no ownership info; sum everything and let the caller
	// index by credit id like the SQL join would.
	out := make(map[string]float64)
	for _, r := range m.records {
		out[r.CreditID] += r.QuantityConsumed
	}
	return out, nil
}

func (m *mockConsumptionRepo) TotalConsumed(ctx context.Context, tx repository.Tx) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, r := range m.records {
		total += r.QuantityConsumed
	}
	return total, nil
}

// count returns the number of stored records, for asserting append-only
// behavior after failed consumptions.
func (m *mockConsumptionRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
