package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// CreditUseCase issues new credit grants. Issuance is append-only and
// deliberately not idempotent: issuing the same type twice creates two
// distinct grants (monthly refills are exactly that).
type CreditUseCase struct {
	types   repository.CreditTypeRepository
	credits repository.CreditRepository
	log     *zerolog.Logger
}

func NewCreditUseCase(types repository.CreditTypeRepository, credits repository.CreditRepository, logger *zerolog.Logger) *CreditUseCase {
	l := logger.With().Str("component", "CreditUC").Logger()
	return &CreditUseCase{types: types, credits: credits, log: &l}
}

// Issue grants a new credit of the given type to the user. The granted
// quantity always comes from the type's default quantity; paymentID is an
// opaque reference to an upstream payment fact and only its presence matters
// here.
func (uc *CreditUseCase) Issue(ctx context.Context, typeSKU, userID string, expiration *time.Time, paymentID *string) (*model.Credit, error) {
	if typeSKU == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	t, err := uc.types.FindBySKU(ctx, repository.NoTX, typeSKU)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCreditTypeNotFound
		}
		return nil, err
	}
	c, err := model.NewCredit("", t, userID, expiration, paymentID)
	if err != nil {
		return nil, err
	}
	if err := uc.credits.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("credit_id", c.ID).
		Str("sku", c.TypeSKU).
		Str("user_id", c.UserID).
		Float64("quantity", c.Quantity).
		Bool("is_paid", c.IsPaid).
		Msg("credit issued")
	return c, nil
}
