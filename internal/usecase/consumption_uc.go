package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// ConsumptionUseCase records debits against credits. The check-then-append
// sequence runs inside a single transaction, serialized per credit via
// CreditRepository.Lock, so two racing consumptions cannot both pass the
// balance check against a stale sum. Calls against different credits do not
// block each other.
type ConsumptionUseCase struct {
	credits     repository.CreditRepository
	consumption repository.ConsumptionRepository
	txm         repository.TransactionManager
	log         *zerolog.Logger
}

func NewConsumptionUseCase(credits repository.CreditRepository, consumption repository.ConsumptionRepository, txm repository.TransactionManager, logger *zerolog.Logger) *ConsumptionUseCase {
	l := logger.With().Str("component", "ConsumptionUC").Logger()
	return &ConsumptionUseCase{credits: credits, consumption: consumption, txm: txm, log: &l}
}

// Consume debits quantity from the credit for the given consuming action and
// returns the appended record. It fails with ErrInsufficientBalance when the
// debit would exceed the granted quantity, ErrCreditExpired when the credit's
// expiration has passed, and ErrCreditNotFound when the reference does not
// resolve. On ErrConcurrentConflict the caller may retry; nothing was
// appended.
func (uc *ConsumptionUseCase) Consume(ctx context.Context, creditID, consumerID string, quantity float64, metadata map[string]string) (*model.ConsumptionRecord, error) {
	if creditID == "" || consumerID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	var rec *model.ConsumptionRecord
	err := uc.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.credits.Lock(ctx, tx, creditID); err != nil {
			return err
		}
		c, err := uc.credits.FindByID(ctx, tx, creditID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrCreditNotFound
			}
			return err
		}
		if c.Expired(time.Now()) {
			return domain.ErrCreditExpired
		}
		spent, err := uc.consumption.SumByCredit(ctx, tx, creditID)
		if err != nil {
			return err
		}
		if spent+quantity > c.Quantity {
			return domain.ErrInsufficientBalance
		}
		r, err := model.NewConsumptionRecord(creditID, consumerID, quantity, metadata)
		if err != nil {
			return err
		}
		if err := uc.consumption.Save(ctx, tx, r); err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("record_id", rec.ID).
		Str("credit_id", rec.CreditID).
		Str("consumer_id", rec.ConsumerID).
		Float64("quantity", rec.QuantityConsumed).
		Msg("consumption recorded")
	return rec, nil
}

// History lists the append-only consumption entries of one credit, oldest
// first.
func (uc *ConsumptionUseCase) History(ctx context.Context, creditID string) ([]*model.ConsumptionRecord, error) {
	if creditID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.consumption.ListByCredit(ctx, repository.NoTX, creditID)
}
