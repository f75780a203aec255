package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// AvailabilityUseCase derives per-user spendable balances from the ledger.
// It is read-only: the stored credits and consumption records are the sole
// source of truth, there is no cached running balance anywhere.
type AvailabilityUseCase struct {
	types       repository.CreditTypeRepository
	credits     repository.CreditRepository
	consumption repository.ConsumptionRepository
	log         *zerolog.Logger
}

func NewAvailabilityUseCase(types repository.CreditTypeRepository, credits repository.CreditRepository, consumption repository.ConsumptionRepository, logger *zerolog.Logger) *AvailabilityUseCase {
	l := logger.With().Str("component", "AvailabilityUC").Logger()
	return &AvailabilityUseCase{types: types, credits: credits, consumption: consumption, log: &l}
}

// AvailableCredits returns one row per spendable credit of the user.
// Expired credits are excluded regardless of remaining quantity. A credit is
// included when its remaining quantity is positive, or unconditionally when
// its type is the monthly free allotment: that one stays visible at zero
// because its quantity refreshes out-of-band.
func (uc *AvailabilityUseCase) AvailableCredits(ctx context.Context, userID string) ([]model.AvailableCredit, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	credits, err := uc.credits.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	spent, err := uc.consumption.SumByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	types, err := uc.types.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	bySKU := make(map[string]*model.CreditType, len(types))
	for _, t := range types {
		bySKU[t.SKU] = t
	}

	now := time.Now()
	out := make([]model.AvailableCredit, 0, len(credits))
	for _, c := range credits {
		if c.Expired(now) {
			continue
		}
		t, ok := bySKU[c.TypeSKU]
		if !ok {
			// FK guarantees the type exists; a miss means the catalog
			// changed between the two reads.
			uc.log.Warn().Str("credit_id", c.ID).Str("sku", c.TypeSKU).Msg("credit references unknown type")
			continue
		}
		available := c.Quantity - spent[c.ID]
		if available > 0 || t.IsMonthlyFree {
			out = append(out, model.AvailableCredit{
				CreditID:          c.ID,
				SKU:               t.SKU,
				Name:              t.Name,
				Expirable:         c.Expirable(),
				IsPaid:            c.IsPaid,
				QuantityAvailable: available,
			})
		}
	}
	return out, nil
}

// FreeMonthlyCredit finds the user's monthly free credit among the available
// ones and re-resolves it to the full entity. Returns ErrNotFound when the
// user has none.
func (uc *AvailabilityUseCase) FreeMonthlyCredit(ctx context.Context, userID string) (*model.Credit, error) {
	available, err := uc.AvailableCredits(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, ac := range available {
		if ac.SKU == model.MonthlyFreeSKU {
			return uc.credits.FindByID(ctx, repository.NoTX, ac.CreditID)
		}
	}
	return nil, domain.ErrNotFound
}
