package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// CreditTypeUseCase maintains the credit SKU catalog. Lookup is the hot path
// used by issuance; the write operations serve the admin surface.
type CreditTypeUseCase struct {
	types repository.CreditTypeRepository
	log   *zerolog.Logger
}

func NewCreditTypeUseCase(types repository.CreditTypeRepository, logger *zerolog.Logger) *CreditTypeUseCase {
	l := logger.With().Str("component", "CreditTypeUC").Logger()
	return &CreditTypeUseCase{types: types, log: &l}
}

// Lookup resolves a SKU to its catalog entry.
func (uc *CreditTypeUseCase) Lookup(ctx context.Context, sku string) (*model.CreditType, error) {
	if sku == "" {
		return nil, domain.ErrInvalidArgument
	}
	t, err := uc.types.FindBySKU(ctx, repository.NoTX, sku)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCreditTypeNotFound
		}
		return nil, err
	}
	return t, nil
}

// Create adds or replaces a catalog entry.
func (uc *CreditTypeUseCase) Create(ctx context.Context, sku, name string, defaultQuantity float64, isMonthlyFree bool) (*model.CreditType, error) {
	t, err := model.NewCreditType(sku, name, defaultQuantity, isMonthlyFree)
	if err != nil {
		return nil, err
	}
	if err := uc.types.Save(ctx, repository.NoTX, t); err != nil {
		return nil, err
	}
	uc.log.Info().Str("sku", t.SKU).Float64("default_quantity", t.DefaultQuantity).Bool("monthly_free", t.IsMonthlyFree).Msg("credit type saved")
	return t, nil
}

// List returns the full catalog.
func (uc *CreditTypeUseCase) List(ctx context.Context) ([]*model.CreditType, error) {
	return uc.types.ListAll(ctx, repository.NoTX)
}

// Delete removes a catalog entry. Credits already issued against it keep
// their rows; the FK blocks deletion while any exist.
func (uc *CreditTypeUseCase) Delete(ctx context.Context, sku string) error {
	if sku == "" {
		return domain.ErrInvalidArgument
	}
	return uc.types.Delete(ctx, repository.NoTX, sku)
}
